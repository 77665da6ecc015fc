package service

import (
	"errors"
	"sort"
	"strings"

	"github.com/weibaohui/startupnavigator/internal/session"
)

var (
	// ErrNoCompany 会话尚未填写公司信息
	ErrNoCompany = session.ErrNoCompany
	// ErrRoleNotFound 会话中不存在该角色
	ErrRoleNotFound = errors.New("role not found")
)

// ValidationError 表单校验错误，Fields 为字段名到文案 key 的映射
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return "validation failed: " + strings.Join(names, ", ")
}

// AsValidationError 提取校验错误
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
