package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"k8s.io/klog/v2"

	"github.com/weibaohui/startupnavigator/internal/pkg/i18n"
)

const (
	sessionKey = "navigator.session_id"
	langKey    = "navigator.lang"

	// LangCookie 界面语言 cookie
	LangCookie = "lang"
)

// Session 为每个浏览器分配匿名会话 ID，保存在 cookie 中
func Session(cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := c.Cookie(cookieName)
		if err != nil || uuid.Validate(id) != nil {
			id = uuid.NewString()
			klog.V(6).Infof("创建新会话: sessionID=%s", id)
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(cookieName, id, 0, "/", "", false, true)
		}
		c.Set(sessionKey, id)
		c.Next()
	}
}

// Language 选择界面语言：?lang= > lang cookie > Accept-Language > 默认语言
func Language(catalog *i18n.Catalog) gin.HandlerFunc {
	return func(c *gin.Context) {
		lang := ""
		if q := c.Query("lang"); catalog.Supported(q) {
			lang = q
		} else if v, err := c.Cookie(LangCookie); err == nil && catalog.Supported(v) {
			lang = v
		} else {
			lang = catalog.Negotiate(c.GetHeader("Accept-Language"))
		}
		c.Set(langKey, lang)
		c.Next()
	}
}

// SessionID 返回当前请求的会话 ID
func SessionID(c *gin.Context) string {
	return c.GetString(sessionKey)
}

// Lang 返回当前请求的界面语言
func Lang(c *gin.Context) string {
	return c.GetString(langKey)
}
