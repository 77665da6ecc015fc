package advisor

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino-ext/components/model/openai"
	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"k8s.io/klog/v2"

	"github.com/weibaohui/startupnavigator/config"
	"github.com/weibaohui/startupnavigator/internal/model"
)

var _ einomodel.BaseChatModel = (*LLMChatModel)(nil)

// LLMChatModel 把顾问身份写入系统提示后转发给 OpenAI 兼容模型
type LLMChatModel struct {
	inner einomodel.BaseChatModel
}

// NewChatModel 按配置选择模型：配置了 API Key 时使用 OpenAI，否则使用预置回复
func NewChatModel(ctx context.Context, cfg *config.Config, resolver *Resolver) (einomodel.BaseChatModel, error) {
	if !cfg.LLM.Enabled() {
		klog.V(6).Infof("[ChatModel] 未配置 LLM，使用预置回复")
		return NewCannedChatModel(resolver), nil
	}

	maxTokens := cfg.LLM.MaxTokens
	chatModel, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
		BaseURL:   cfg.LLM.APIURL,
		APIKey:    cfg.LLM.APIKey,
		Model:     cfg.LLM.Model,
		MaxTokens: &maxTokens,
	})
	if err != nil {
		klog.Errorf("[ChatModel] 创建 OpenAI ChatModel 失败: %v", err)
		return nil, err
	}

	klog.V(6).Infof("[ChatModel] OpenAI ChatModel 创建成功: model=%s", cfg.LLM.Model)
	return NewLLMChatModel(chatModel), nil
}

// NewLLMChatModel 包装任意 eino ChatModel
func NewLLMChatModel(inner einomodel.BaseChatModel) *LLMChatModel {
	return &LLMChatModel{inner: inner}
}

func (m *LLMChatModel) Generate(ctx context.Context, input []*schema.Message, opts ...einomodel.Option) (*schema.Message, error) {
	messages, err := withAdvisorPrompt(ctx, input)
	if err != nil {
		return nil, err
	}
	return m.inner.Generate(ctx, messages, opts...)
}

func (m *LLMChatModel) Stream(ctx context.Context, input []*schema.Message, opts ...einomodel.Option) (*schema.StreamReader[*schema.Message], error) {
	messages, err := withAdvisorPrompt(ctx, input)
	if err != nil {
		return nil, err
	}
	return m.inner.Stream(ctx, messages, opts...)
}

// withAdvisorPrompt 用顾问身份替换调用方的系统消息
func withAdvisorPrompt(ctx context.Context, input []*schema.Message) ([]*schema.Message, error) {
	meta, ok := ctx.Value(consultationKey{}).(consultationMeta)
	if !ok {
		return nil, ErrNoAdvisorRole
	}
	if _, ok := lastUserMessage(input); !ok {
		return nil, ErrNoUserMessage
	}

	messages := make([]*schema.Message, 0, len(input)+1)
	messages = append(messages, schema.SystemMessage(SystemPrompt(meta.role, meta.language)))
	for _, msg := range input {
		if msg != nil && msg.Role != schema.System {
			messages = append(messages, msg)
		}
	}
	return messages, nil
}

// SystemPrompt 生成顾问的系统提示
func SystemPrompt(role model.Role, language string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are the %s of a startup's AI advisory team. %s.\n", role.Title, role.Description)
	if len(role.Responsibilities) > 0 {
		b.WriteString("Your responsibilities:\n")
		for _, r := range role.Responsibilities {
			fmt.Fprintf(&b, "- %s\n", r)
		}
	}
	if language == "ar" {
		b.WriteString("Answer in Arabic.")
	} else {
		b.WriteString("Answer in English.")
	}
	return b.String()
}
