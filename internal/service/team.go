package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
	"k8s.io/klog/v2"

	"github.com/weibaohui/startupnavigator/config"
	"github.com/weibaohui/startupnavigator/internal/eventbus"
	"github.com/weibaohui/startupnavigator/internal/model"
	"github.com/weibaohui/startupnavigator/internal/pkg/advisor"
	"github.com/weibaohui/startupnavigator/internal/service/orchestrator"
	"github.com/weibaohui/startupnavigator/internal/session"
)

// TeamService 公司信息与顾问团队服务
type TeamService interface {
	// Get 返回会话当前状态
	Get(sessionID string) session.State

	// SetCompany 填写或替换公司信息，已有角色被丢弃
	SetCompany(ctx context.Context, sessionID string, in CompanyInput) (session.State, error)

	// GenerateRoles 按公司类型生成顾问团队，同一份公司信息的并发调用只执行一次
	GenerateRoles(ctx context.Context, sessionID string) (session.State, error)

	// AddCustomMember 添加自定义成员
	AddCustomMember(ctx context.Context, sessionID string, in MemberInput) (model.Role, error)

	// AddRoleFromLabel 根据一段文字添加成员
	AddRoleFromLabel(ctx context.Context, sessionID string, label string) (model.Role, error)

	// SuggestRoles 根据创业描述推荐顾问
	SuggestRoles(ctx context.Context, in AnalyzeInput) ([]string, error)

	// ApplySuggestions 用推荐的顾问替换团队
	ApplySuggestions(ctx context.Context, sessionID string, labels []string) (session.State, error)

	// GetRole 查找会话中的角色
	GetRole(sessionID, roleID string) (model.Role, error)

	// Clear 清空公司信息、团队与咨询记录
	Clear(ctx context.Context, sessionID string) error

	// SweepIdle 清理长时间未访问的会话，返回清理数量
	SweepIdle(ctx context.Context, maxIdle time.Duration) int
}

type teamService struct {
	cfg    *config.Config
	store  session.Store
	runner orchestrator.Runner
	bus    *eventbus.SessionEventBus
	group  singleflight.Group
}

// NewTeamService 创建团队服务
func NewTeamService(cfg *config.Config, store session.Store, runner orchestrator.Runner, bus *eventbus.SessionEventBus) TeamService {
	return &teamService{
		cfg:    cfg,
		store:  store,
		runner: runner,
		bus:    bus,
	}
}

func (s *teamService) Get(sessionID string) session.State {
	return s.store.Get(sessionID)
}

func (s *teamService) SetCompany(ctx context.Context, sessionID string, in CompanyInput) (session.State, error) {
	in.normalize()
	if err := validateStruct(&in); err != nil {
		return s.store.Get(sessionID), err
	}

	state, err := s.store.Dispatch(sessionID, session.SetCompany(model.Company{
		ID:          uuid.NewString(),
		Name:        in.Name,
		Type:        in.Type,
		Description: in.Description,
	}))
	if err != nil {
		return state, err
	}

	klog.V(6).Infof("公司信息已更新: sessionID=%s, name=%s, type=%s", sessionID, in.Name, in.Type)
	s.publish(ctx, eventbus.SessionEvent{Type: eventbus.SessionEventCompanySet, SessionID: sessionID})
	return state, nil
}

func (s *teamService) GenerateRoles(ctx context.Context, sessionID string) (session.State, error) {
	current := s.store.Get(sessionID)
	if current.Company == nil {
		return current, ErrNoCompany
	}
	// 按公司信息区分，替换公司后不会加入旧的生成
	key := sessionID + "/" + current.Company.ID
	ch := s.group.DoChan(key, func() (any, error) {
		return s.generateRoles(sessionID)
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return s.store.Get(sessionID), res.Err
		}
		if res.Shared {
			klog.V(6).Infof("复用进行中的角色生成: sessionID=%s", sessionID)
		}
		return res.Val.(session.State), nil
	case <-ctx.Done():
		// 生成不会被取消，稍后仍会写入会话
		return s.store.Get(sessionID), ctx.Err()
	}
}

func (s *teamService) generateRoles(sessionID string) (session.State, error) {
	state, err := s.store.Dispatch(sessionID, session.SetGenerating(true))
	if err != nil {
		return state, err
	}
	company := *state.Company

	var (
		result session.State
		genErr error
		stale  bool
	)
	done := s.runner.After(s.cfg.Advisor.RoleDelay, func() {
		roles := advisor.SelectRoles(company.Type)
		result, genErr = s.store.Dispatch(sessionID, session.SetRolesFor(company.ID, roles))
		if errors.Is(genErr, session.ErrProfileChanged) {
			// 等待期间公司信息被替换，丢弃旧类型的结果；新公司的生成标记不受影响
			klog.V(6).Infof("公司信息已变化，丢弃生成结果: sessionID=%s", sessionID)
			result, genErr, stale = s.store.Get(sessionID), nil, true
		}
	})
	<-done

	if genErr != nil {
		klog.Warningf("生成顾问团队失败: sessionID=%s, error=%v", sessionID, genErr)
		return result, genErr
	}
	if stale {
		return result, nil
	}
	klog.V(6).Infof("顾问团队已生成: sessionID=%s, type=%s, roles=%d", sessionID, company.Type, len(result.Roles))
	s.publish(context.Background(), eventbus.SessionEvent{
		Type:      eventbus.SessionEventRolesReplaced,
		SessionID: sessionID,
		RoleCount: len(result.Roles),
	})
	return result, nil
}

func (s *teamService) AddCustomMember(ctx context.Context, sessionID string, in MemberInput) (model.Role, error) {
	in.normalize()
	if err := validateStruct(&in); err != nil {
		return model.Role{}, err
	}

	category := in.Category
	icon := model.IconFor(category)
	if category == "" {
		category, icon = advisor.DeriveRoleFromText(in.Title)
	}

	responsibilities := []string{in.Responsibility1}
	if in.Responsibility2 != "" {
		responsibilities = append(responsibilities, in.Responsibility2)
	}
	responsibilities = append(responsibilities,
		fmt.Sprintf("Provide expert advice on %s matters", in.Title),
		fmt.Sprintf("Help optimize %s strategies and processes", category),
	)

	role := model.Role{
		ID:               uuid.NewString(),
		Title:            in.Title,
		Description:      in.Description,
		Category:         category,
		Responsibilities: responsibilities,
		Icon:             icon,
	}
	return s.addRole(ctx, sessionID, role)
}

func (s *teamService) AddRoleFromLabel(ctx context.Context, sessionID string, label string) (model.Role, error) {
	label = strings.TrimSpace(label)
	if label == "" {
		return model.Role{}, &ValidationError{Fields: map[string]string{"label": "error.required.title"}}
	}
	return s.addRole(ctx, sessionID, advisor.RoleFromLabel(label))
}

func (s *teamService) addRole(ctx context.Context, sessionID string, role model.Role) (model.Role, error) {
	if _, err := s.store.Dispatch(sessionID, session.AddRole(role)); err != nil {
		return model.Role{}, err
	}
	klog.V(6).Infof("添加团队成员: sessionID=%s, roleID=%s, title=%s, category=%s", sessionID, role.ID, role.Title, role.Category)
	s.publish(ctx, eventbus.SessionEvent{Type: eventbus.SessionEventRoleAdded, SessionID: sessionID, RoleID: role.ID})
	return role, nil
}

func (s *teamService) SuggestRoles(ctx context.Context, in AnalyzeInput) ([]string, error) {
	in.Description = strings.TrimSpace(in.Description)
	if err := validateStruct(&in); err != nil {
		return nil, err
	}

	var labels []string
	done := s.runner.After(s.cfg.Advisor.SetupDelay, func() {
		labels = advisor.SuggestRoles(in.Description, in.Language)
	})
	select {
	case <-done:
		return labels, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (s *teamService) ApplySuggestions(ctx context.Context, sessionID string, labels []string) (session.State, error) {
	roles := make([]model.Role, 0, len(labels))
	for _, label := range labels {
		if label = strings.TrimSpace(label); label != "" {
			roles = append(roles, advisor.RoleFromLabel(label))
		}
	}
	if len(roles) == 0 {
		return s.store.Get(sessionID), &ValidationError{Fields: map[string]string{"labels": "error.required.title"}}
	}

	state, err := s.store.Dispatch(sessionID, session.SetRoles(roles))
	if err != nil {
		return state, err
	}
	s.publish(ctx, eventbus.SessionEvent{Type: eventbus.SessionEventRolesReplaced, SessionID: sessionID, RoleCount: len(roles)})
	return state, nil
}

func (s *teamService) GetRole(sessionID, roleID string) (model.Role, error) {
	state := s.store.Get(sessionID)
	if role, ok := state.Role(roleID); ok {
		return role, nil
	}
	if state.Company == nil {
		return model.Role{}, ErrNoCompany
	}
	return model.Role{}, ErrRoleNotFound
}

func (s *teamService) Clear(ctx context.Context, sessionID string) error {
	if _, err := s.store.Dispatch(sessionID, session.Clear()); err != nil {
		return err
	}
	klog.V(6).Infof("会话已清空: sessionID=%s", sessionID)
	s.publish(ctx, eventbus.SessionEvent{Type: eventbus.SessionEventCleared, SessionID: sessionID})
	return nil
}

func (s *teamService) SweepIdle(ctx context.Context, maxIdle time.Duration) int {
	removed := s.store.Sweep(maxIdle)
	for _, sessionID := range removed {
		s.publish(ctx, eventbus.SessionEvent{Type: eventbus.SessionEventCleared, SessionID: sessionID})
	}
	return len(removed)
}

// publish 事件处理失败只记录日志，不影响状态变更结果
func (s *teamService) publish(ctx context.Context, event eventbus.SessionEvent) {
	if s.bus == nil {
		return
	}
	if err := s.bus.Publish(ctx, event.Type, event); err != nil {
		klog.Warningf("会话事件处理失败: type=%s, sessionID=%s, error=%v", event.Type, event.SessionID, err)
	}
}
