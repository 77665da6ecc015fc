package service

import (
	"context"
	"strings"
	"time"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"k8s.io/klog/v2"

	"github.com/weibaohui/startupnavigator/config"
	"github.com/weibaohui/startupnavigator/internal/eventbus"
	"github.com/weibaohui/startupnavigator/internal/model"
	"github.com/weibaohui/startupnavigator/internal/pkg/advisor"
	"github.com/weibaohui/startupnavigator/internal/repository"
	"github.com/weibaohui/startupnavigator/internal/service/orchestrator"
	"github.com/weibaohui/startupnavigator/internal/session"
)

// ConsultationService 向顾问提问并记录问答
type ConsultationService interface {
	// Consult 向会话中的角色提问，返回已记录的问答
	Consult(ctx context.Context, sessionID, roleID, language string, in ConsultInput) (*model.Consultation, error)

	// History 返回会话中某角色的历史问答
	History(ctx context.Context, sessionID, roleID string) ([]model.Consultation, error)
}

type consultationService struct {
	cfg    *config.Config
	store  session.Store
	chat   einomodel.BaseChatModel
	runner orchestrator.Runner
	repo   repository.ConsultationRepository
	bus    *eventbus.SessionEventBus
}

// NewConsultationService 创建咨询服务
func NewConsultationService(
	cfg *config.Config,
	store session.Store,
	chat einomodel.BaseChatModel,
	runner orchestrator.Runner,
	repo repository.ConsultationRepository,
	bus *eventbus.SessionEventBus,
) ConsultationService {
	return &consultationService{
		cfg:    cfg,
		store:  store,
		chat:   chat,
		runner: runner,
		repo:   repo,
		bus:    bus,
	}
}

func (s *consultationService) Consult(ctx context.Context, sessionID, roleID, language string, in ConsultInput) (*model.Consultation, error) {
	role, companyID, err := s.lookupRole(sessionID, roleID)
	if err != nil {
		return nil, err
	}

	in.Query = strings.TrimSpace(in.Query)
	if err := validateStruct(&in); err != nil {
		return nil, err
	}

	var (
		record  *model.Consultation
		chatErr error
	)
	// 请求结束后任务仍会完成并写入记录
	done := s.runner.After(s.cfg.Advisor.ResponseDelay, func() {
		record, chatErr = s.answer(sessionID, companyID, role, language, in.Query)
	})

	select {
	case <-done:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	if chatErr != nil {
		return nil, chatErr
	}
	return record, nil
}

func (s *consultationService) answer(sessionID, companyID string, role model.Role, language, query string) (*model.Consultation, error) {
	// 等待期间会话被清空或公司被替换，丢弃本次问答
	if err := s.checkCurrent(sessionID, companyID, role.ID); err != nil {
		klog.V(6).Infof("会话已变化，丢弃咨询: sessionID=%s, roleID=%s, reason=%v", sessionID, role.ID, err)
		return nil, err
	}

	ctx := advisor.WithAdvisor(context.Background(), role, language)
	msg, err := s.chat.Generate(ctx, []*schema.Message{
		schema.SystemMessage(role.Description),
		schema.UserMessage(query),
	})
	if err != nil {
		klog.Errorf("生成顾问回复失败: sessionID=%s, roleID=%s, error=%v", sessionID, role.ID, err)
		return nil, err
	}

	record := &model.Consultation{
		SessionID: sessionID,
		RoleID:    role.ID,
		Language:  language,
		Query:     query,
		Response:  msg.Content,
		CreatedAt: time.Now(),
	}
	if err := s.repo.Create(record); err != nil {
		// 记录失败不影响本次回答
		klog.Errorf("保存咨询记录失败: sessionID=%s, roleID=%s, error=%v", sessionID, role.ID, err)
		return record, nil
	}

	// 写入与清空并发时，清空的删除可能先于写入执行，需要再检查一次
	if err := s.checkCurrent(sessionID, companyID, role.ID); err != nil {
		if delErr := s.repo.Delete(record.ID); delErr != nil {
			klog.Errorf("删除过期咨询记录失败: sessionID=%s, consultationID=%d, error=%v", sessionID, record.ID, delErr)
		}
		klog.V(6).Infof("会话已变化，删除咨询记录: sessionID=%s, consultationID=%d", sessionID, record.ID)
		return nil, err
	}

	klog.V(6).Infof("咨询完成: sessionID=%s, roleID=%s, consultationID=%d", sessionID, role.ID, record.ID)
	if s.bus != nil {
		event := eventbus.SessionEvent{Type: eventbus.SessionEventConsultationRecorded, SessionID: sessionID, RoleID: role.ID}
		if err := s.bus.Publish(ctx, event.Type, event); err != nil {
			klog.Warningf("会话事件处理失败: type=%s, sessionID=%s, error=%v", event.Type, sessionID, err)
		}
	}
	return record, nil
}

func (s *consultationService) History(ctx context.Context, sessionID, roleID string) ([]model.Consultation, error) {
	if _, _, err := s.lookupRole(sessionID, roleID); err != nil {
		return nil, err
	}
	items, err := s.repo.ListBySessionRole(sessionID, roleID)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []model.Consultation{}
	}
	return items, nil
}

// lookupRole 返回角色及其所属公司信息的 ID
func (s *consultationService) lookupRole(sessionID, roleID string) (model.Role, string, error) {
	state := s.store.Get(sessionID)
	if state.Company == nil {
		return model.Role{}, "", ErrNoCompany
	}
	role, ok := state.Role(roleID)
	if !ok {
		return model.Role{}, "", ErrRoleNotFound
	}
	return role, state.Company.ID, nil
}

// checkCurrent 会话仍是同一份公司信息且角色仍在团队中
func (s *consultationService) checkCurrent(sessionID, companyID, roleID string) error {
	state := s.store.Get(sessionID)
	if state.Company == nil {
		return ErrNoCompany
	}
	if _, ok := state.Role(roleID); !ok || state.Company.ID != companyID {
		return ErrRoleNotFound
	}
	return nil
}
