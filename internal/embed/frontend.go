package embed

import (
	"embed"
	"html/template"
	"io/fs"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

//go:embed templates/*.html
var templateFiles embed.FS

//go:embed static/*
var staticFiles embed.FS

// Templates 解析内嵌的页面模板
func Templates(funcs template.FuncMap) (*template.Template, error) {
	return template.New("").Funcs(funcs).ParseFS(templateFiles, "templates/*.html")
}

// SetupRouter 设置静态文件与未匹配路由
func SetupRouter(r *gin.Engine, notFound gin.HandlerFunc) {
	staticFS, err := fs.Sub(staticFiles, "static")
	if err == nil {
		r.GET("/assets/*filepath", gin.WrapH(http.StripPrefix("/assets", http.FileServer(http.FS(staticFS)))))
	}

	// 设置favicon
	r.GET("/favicon.ico", func(c *gin.Context) {
		favicon, err := fs.ReadFile(staticFiles, "static/favicon.svg")
		if err != nil {
			c.Status(http.StatusNotFound)
			return
		}
		c.Data(http.StatusOK, "image/svg+xml", favicon)
	})

	r.NoRoute(func(c *gin.Context) {
		// 对于API请求，返回404
		if c.Request.URL.Path == "/api" || strings.HasPrefix(c.Request.URL.Path, "/api/") {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		notFound(c)
	})
}
