package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"k8s.io/klog/v2"

	"github.com/weibaohui/startupnavigator/internal/middleware"
	"github.com/weibaohui/startupnavigator/internal/pkg/i18n"
	"github.com/weibaohui/startupnavigator/internal/service"
	"github.com/weibaohui/startupnavigator/internal/service/statemachine"
	"github.com/weibaohui/startupnavigator/internal/session"
)

// localizeFields 把校验错误的文案 key 翻译为当前语言
func localizeFields(catalog *i18n.Catalog, lang string, ve *service.ValidationError) map[string]string {
	fields := make(map[string]string, len(ve.Fields))
	for field, key := range ve.Fields {
		fields[field] = catalog.T(lang, key)
	}
	return fields
}

// writeError 把服务层错误映射为 JSON 响应
func writeError(c *gin.Context, catalog *i18n.Catalog, err error) {
	if ve, ok := service.AsValidationError(err); ok {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":  "validation failed",
			"fields": localizeFields(catalog, middleware.Lang(c), ve),
		})
		return
	}

	var transitionErr *statemachine.InvalidSessionStateTransitionError
	switch {
	case errors.Is(err, service.ErrNoCompany):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrRoleNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, session.ErrDuplicateRole),
		errors.Is(err, session.ErrProfileChanged),
		errors.Is(err, session.ErrGenerationInProgress),
		errors.As(err, &transitionErr):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, session.ErrInvalidCategory), errors.Is(err, session.ErrInvalidAction):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	default:
		klog.Errorf("请求处理失败: path=%s, error=%v", c.Request.URL.Path, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
