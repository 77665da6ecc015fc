package statemachine

import (
	"fmt"

	"k8s.io/klog/v2"
)

// SessionStatus 定义会话的所有可能状态
type SessionStatus string

const (
	SessionStatusEmpty     SessionStatus = "empty"     // 尚未填写公司信息
	SessionStatusProfile   SessionStatus = "profile"   // 已有公司信息，尚无顾问角色
	SessionStatusPopulated SessionStatus = "populated" // 公司信息与顾问角色均已就绪
)

// SessionTransition 定义会话状态迁移
type SessionTransition struct {
	From SessionStatus
	To   SessionStatus
}

// SessionStateMachine 会话状态机
type SessionStateMachine struct {
	// 定义所有合法的状态迁移
	allowedTransitions map[SessionTransition]bool
}

// NewSessionStateMachine 创建新的会话状态机
func NewSessionStateMachine() *SessionStateMachine {
	sm := &SessionStateMachine{
		allowedTransitions: make(map[SessionTransition]bool),
	}

	// empty -> profile -> populated -> empty
	transitions := []SessionTransition{
		// 填写公司信息
		{SessionStatusEmpty, SessionStatusProfile},
		// 生成或添加角色
		{SessionStatusProfile, SessionStatusPopulated},
		// 替换公司信息，旧角色随之丢弃；或角色列表被替换为空
		{SessionStatusPopulated, SessionStatusProfile},

		// 重置
		{SessionStatusProfile, SessionStatusEmpty},
		{SessionStatusPopulated, SessionStatusEmpty},
	}

	for _, t := range transitions {
		sm.allowedTransitions[t] = true
	}

	return sm
}

// CanTransition 检查状态迁移是否合法，状态不变视为合法
func (sm *SessionStateMachine) CanTransition(from, to SessionStatus) bool {
	if from == to {
		return true
	}
	return sm.allowedTransitions[SessionTransition{From: from, To: to}]
}

// ValidateTransition 验证状态迁移并返回错误
func (sm *SessionStateMachine) ValidateTransition(from, to SessionStatus) error {
	if !sm.CanTransition(from, to) {
		return &InvalidSessionStateTransitionError{
			From: string(from),
			To:   string(to),
		}
	}
	return nil
}

// Transition 执行状态迁移（带日志）
func (sm *SessionStateMachine) Transition(from, to SessionStatus, sessionID string) error {
	if err := sm.ValidateTransition(from, to); err != nil {
		klog.V(6).Infof("会话状态迁移被拒绝: sessionID=%s, %s -> %s, error=%v",
			sessionID, from, to, err)
		return err
	}

	if from != to {
		klog.V(6).Infof("会话状态迁移成功: sessionID=%s, %s -> %s", sessionID, from, to)
	}
	return nil
}

// InvalidSessionStateTransitionError 无效的会话状态迁移错误
type InvalidSessionStateTransitionError struct {
	From string
	To   string
}

func (e *InvalidSessionStateTransitionError) Error() string {
	return fmt.Sprintf("invalid session state transition: %s -> %s", e.From, e.To)
}

// HasProfile 判断会话是否已有公司信息
func HasProfile(status SessionStatus) bool {
	return status == SessionStatusProfile || status == SessionStatusPopulated
}
