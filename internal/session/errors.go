package session

import "errors"

var (
	// ErrNoCompany 会话尚未填写公司信息
	ErrNoCompany = errors.New("company profile is required")
	// ErrDuplicateRole 角色 ID 在会话内重复
	ErrDuplicateRole = errors.New("role id already exists in session")
	// ErrInvalidCategory 角色分类不在六种分类之内
	ErrInvalidCategory = errors.New("invalid role category")
	// ErrGenerationInProgress 角色正在生成
	ErrGenerationInProgress = errors.New("role generation already in progress")
	// ErrProfileChanged 动作针对的公司信息已被替换或清空
	ErrProfileChanged = errors.New("company profile has changed")
	// ErrInvalidAction 动作缺少必要载荷或类型未知
	ErrInvalidAction = errors.New("invalid session action")
)
