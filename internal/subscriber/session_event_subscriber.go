package subscriber

import (
	"context"
	"fmt"

	"github.com/weibaohui/startupnavigator/internal/eventbus"
	"k8s.io/klog/v2"
)

// SessionEventSubscriber 处理会话事件：会话清空时删除其咨询记录
type SessionEventSubscriber struct {
	consultations consultationPurger
}

type consultationPurger interface {
	DeleteBySession(sessionID string) (int64, error)
}

func NewSessionEventSubscriber(consultations consultationPurger) *SessionEventSubscriber {
	return &SessionEventSubscriber{consultations: consultations}
}

func (s *SessionEventSubscriber) Register(bus *eventbus.SessionEventBus) {
	if bus == nil {
		return
	}
	bus.Subscribe(eventbus.SessionEventCleared, s.handleCleared)
	bus.Subscribe(eventbus.SessionEventCompanySet, s.handleTrace)
	bus.Subscribe(eventbus.SessionEventRolesReplaced, s.handleTrace)
	bus.Subscribe(eventbus.SessionEventRoleAdded, s.handleTrace)
	bus.Subscribe(eventbus.SessionEventConsultationRecorded, s.handleTrace)
}

func (s *SessionEventSubscriber) handleCleared(ctx context.Context, event eventbus.SessionEvent) error {
	if event.SessionID == "" {
		return fmt.Errorf("会话ID为空")
	}
	removed, err := s.consultations.DeleteBySession(event.SessionID)
	if err != nil {
		klog.Errorf("清理咨询记录失败: sessionID=%s, error=%v", event.SessionID, err)
		return err
	}
	klog.V(6).Infof("会话清空事件处理成功: sessionID=%s, removed=%d", event.SessionID, removed)
	return nil
}

func (s *SessionEventSubscriber) handleTrace(ctx context.Context, event eventbus.SessionEvent) error {
	klog.V(6).Infof("会话事件: type=%s, sessionID=%s, roleID=%s, roleCount=%d",
		event.Type, event.SessionID, event.RoleID, event.RoleCount)
	return nil
}
