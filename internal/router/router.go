package router

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/weibaohui/startupnavigator/config"
	"github.com/weibaohui/startupnavigator/internal/embed"
	"github.com/weibaohui/startupnavigator/internal/handler"
	"github.com/weibaohui/startupnavigator/internal/middleware"
	"github.com/weibaohui/startupnavigator/internal/pkg/i18n"
)

func Setup(
	cfg *config.Config,
	catalog *i18n.Catalog,
	apiHandler *handler.APIHandler,
	viewHandler *handler.ViewHandler,
) (*gin.Engine, error) {
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()

	tmpl, err := embed.Templates(handler.TemplateFuncs(catalog))
	if err != nil {
		return nil, err
	}
	r.SetHTMLTemplate(tmpl)

	// 添加 gzip 压缩中间件
	r.Use(gzip.Gzip(gzip.DefaultCompression))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept-Language"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
	}))
	r.Use(middleware.Session(cfg.Session.CookieName), middleware.Language(catalog))

	api := r.Group("/api")
	apiHandler.RegisterRoutes(api)

	viewHandler.RegisterRoutes(r)

	// 必须在业务路由之后设置，确保业务请求优先匹配
	embed.SetupRouter(r, viewHandler.NotFound)

	return r, nil
}
