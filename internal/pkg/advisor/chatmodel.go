package advisor

import (
	"context"
	"errors"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"k8s.io/klog/v2"

	"github.com/weibaohui/startupnavigator/internal/model"
)

var (
	ErrNoUserMessage = errors.New("no user message in input")
	ErrNoAdvisorRole = errors.New("advisor role missing from context")
)

var _ einomodel.BaseChatModel = (*CannedChatModel)(nil)

type consultationKey struct{}

type consultationMeta struct {
	role     model.Role
	language string
}

// WithAdvisor 把顾问角色和回复语言放入上下文，供 CannedChatModel 读取
func WithAdvisor(ctx context.Context, role model.Role, language string) context.Context {
	return context.WithValue(ctx, consultationKey{}, consultationMeta{role: role, language: language})
}

// CannedChatModel 以预置回复实现 eino ChatModel 接口
// 接入真实模型时只需替换为 openai 等实现
type CannedChatModel struct {
	resolver *Resolver
}

// NewCannedChatModel 创建预置回复模型
func NewCannedChatModel(resolver *Resolver) *CannedChatModel {
	return &CannedChatModel{resolver: resolver}
}

// Generate 取最后一条用户消息作为问题
func (m *CannedChatModel) Generate(ctx context.Context, input []*schema.Message, opts ...einomodel.Option) (*schema.Message, error) {
	meta, ok := ctx.Value(consultationKey{}).(consultationMeta)
	if !ok {
		return nil, ErrNoAdvisorRole
	}

	query, ok := lastUserMessage(input)
	if !ok {
		return nil, ErrNoUserMessage
	}

	klog.V(6).Infof("[CannedChatModel] Generate: role=%s, messages=%d", meta.role.ID, len(input))
	text := m.resolver.Resolve(ctx, Request{Role: meta.role, Query: query, Language: meta.language})
	return schema.AssistantMessage(text, nil), nil
}

// Stream 一次性返回完整消息
func (m *CannedChatModel) Stream(ctx context.Context, input []*schema.Message, opts ...einomodel.Option) (*schema.StreamReader[*schema.Message], error) {
	msg, err := m.Generate(ctx, input, opts...)
	if err != nil {
		return nil, err
	}
	return schema.StreamReaderFromArray([]*schema.Message{msg}), nil
}

func lastUserMessage(input []*schema.Message) (string, bool) {
	for i := len(input) - 1; i >= 0; i-- {
		if input[i] != nil && input[i].Role == schema.User {
			return input[i].Content, true
		}
	}
	return "", false
}
