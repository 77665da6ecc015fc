package handler

import (
	"errors"
	"html/template"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"k8s.io/klog/v2"

	"github.com/weibaohui/startupnavigator/internal/middleware"
	"github.com/weibaohui/startupnavigator/internal/model"
	"github.com/weibaohui/startupnavigator/internal/pkg/i18n"
	"github.com/weibaohui/startupnavigator/internal/service"
)

var iconGlyphs = map[model.Icon]string{
	model.IconTrophy:     "🏆",
	model.IconCode:       "💻",
	model.IconLayoutGrid: "▦",
	model.IconBrain:      "🧠",
	model.IconChartBar:   "📊",
	model.IconSettings:   "⚙️",
	model.IconUsers:      "👥",
}

type fieldErrorData struct {
	Errors map[string]string
	Field  string
}

// TemplateFuncs 页面模板使用的函数
func TemplateFuncs(catalog *i18n.Catalog) template.FuncMap {
	return template.FuncMap{
		"t": catalog.T,
		"icon": func(icon model.Icon) string {
			if g, ok := iconGlyphs[icon]; ok {
				return g
			}
			return iconGlyphs[model.IconLayoutGrid]
		},
		"categoryName": func(lang string, category model.RoleCategory) string {
			return catalog.T(lang, "category."+string(category))
		},
		"fieldErrors": func(errs map[string]string, field string) fieldErrorData {
			return fieldErrorData{Errors: errs, Field: field}
		},
	}
}

// ViewHandler 服务端渲染页面处理器
type ViewHandler struct {
	team    service.TeamService
	consult service.ConsultationService
	catalog *i18n.Catalog
}

// NewViewHandler 创建页面处理器
func NewViewHandler(team service.TeamService, consult service.ConsultationService, catalog *i18n.Catalog) *ViewHandler {
	return &ViewHandler{team: team, consult: consult, catalog: catalog}
}

// RegisterRoutes 注册路由
func (h *ViewHandler) RegisterRoutes(r gin.IRoutes) {
	r.GET("/", h.Landing)
	r.GET("/setup", h.Setup)
	r.POST("/setup", h.SubmitSetup)
	r.POST("/setup/analyze", h.AnalyzeSetup)
	r.POST("/setup/apply", h.ApplySetup)
	r.GET("/team", h.Team)
	r.POST("/team/members", h.AddMember)
	r.GET("/role/:roleId", h.Role)
	r.POST("/role/:roleId", h.Ask)
	r.POST("/reset", h.Reset)
	r.GET("/lang/:lang", h.SwitchLanguage)
}

// render 补充布局所需的公共数据
func (h *ViewHandler) render(c *gin.Context, status int, name string, data gin.H) {
	lang := middleware.Lang(c)
	other := i18n.Arabic
	if lang == i18n.Arabic {
		other = i18n.English
	}
	data["Lang"] = lang
	data["Dir"] = h.catalog.Dir(lang)
	data["OtherLang"] = other
	if _, ok := data["Company"]; !ok {
		data["Company"] = h.team.Get(middleware.SessionID(c)).Company
	}
	if _, ok := data["Errors"]; !ok {
		data["Errors"] = map[string]string{}
	}
	c.HTML(status, name, data)
}

func (h *ViewHandler) Landing(c *gin.Context) {
	h.render(c, http.StatusOK, "landing.html", gin.H{})
}

func (h *ViewHandler) setupPage(c *gin.Context, status int, form service.CompanyInput, suggestions []string, errs map[string]string) {
	h.render(c, status, "setup.html", gin.H{
		"Form":         form,
		"CompanyTypes": model.CompanyTypes,
		"Suggestions":  suggestions,
		"Errors":       errs,
	})
}

func (h *ViewHandler) Setup(c *gin.Context) {
	form := service.CompanyInput{Type: model.CompanyTechStartup}
	if company := h.team.Get(middleware.SessionID(c)).Company; company != nil {
		form = service.CompanyInput{Name: company.Name, Type: company.Type, Description: company.Description}
	}
	h.setupPage(c, http.StatusOK, form, nil, nil)
}

func (h *ViewHandler) SubmitSetup(c *gin.Context) {
	var form service.CompanyInput
	if err := c.ShouldBind(&form); err != nil {
		c.String(http.StatusBadRequest, err.Error())
		return
	}
	if _, err := h.team.SetCompany(c.Request.Context(), middleware.SessionID(c), form); err != nil {
		h.setupError(c, form, nil, err)
		return
	}
	c.Redirect(http.StatusSeeOther, "/team")
}

func (h *ViewHandler) AnalyzeSetup(c *gin.Context) {
	var form service.CompanyInput
	if err := c.ShouldBind(&form); err != nil {
		c.String(http.StatusBadRequest, err.Error())
		return
	}
	labels, err := h.team.SuggestRoles(c.Request.Context(), service.AnalyzeInput{
		Description: form.Description,
		Language:    middleware.Lang(c),
	})
	if err != nil {
		h.setupError(c, form, nil, err)
		return
	}
	h.setupPage(c, http.StatusOK, form, labels, nil)
}

// applyForm 采用推荐顾问表单
type applyForm struct {
	service.CompanyInput
	Roles []string `form:"roles"`
}

func (h *ViewHandler) ApplySetup(c *gin.Context) {
	var form applyForm
	if err := c.ShouldBind(&form); err != nil {
		c.String(http.StatusBadRequest, err.Error())
		return
	}
	ctx := c.Request.Context()
	sessionID := middleware.SessionID(c)
	if _, err := h.team.SetCompany(ctx, sessionID, form.CompanyInput); err != nil {
		h.setupError(c, form.CompanyInput, form.Roles, err)
		return
	}
	if _, err := h.team.ApplySuggestions(ctx, sessionID, form.Roles); err != nil {
		h.setupError(c, form.CompanyInput, form.Roles, err)
		return
	}
	c.Redirect(http.StatusSeeOther, "/team")
}

func (h *ViewHandler) setupError(c *gin.Context, form service.CompanyInput, suggestions []string, err error) {
	if ve, ok := service.AsValidationError(err); ok {
		h.setupPage(c, http.StatusBadRequest, form, suggestions, localizeFields(h.catalog, middleware.Lang(c), ve))
		return
	}
	klog.Errorf("公司信息处理失败: sessionID=%s, error=%v", middleware.SessionID(c), err)
	c.String(http.StatusInternalServerError, err.Error())
}

func (h *ViewHandler) teamPage(c *gin.Context, status int, member service.MemberInput, errs map[string]string) {
	state := h.team.Get(middleware.SessionID(c))
	h.render(c, status, "team.html", gin.H{
		"Company":    state.Company,
		"Roles":      state.Roles,
		"Categories": model.RoleCategories,
		"Member":     member,
		"Errors":     errs,
	})
}

func (h *ViewHandler) Team(c *gin.Context) {
	sessionID := middleware.SessionID(c)
	state := h.team.Get(sessionID)
	if state.Company == nil {
		c.Redirect(http.StatusFound, "/")
		return
	}
	if len(state.Roles) == 0 {
		if _, err := h.team.GenerateRoles(c.Request.Context(), sessionID); err != nil {
			if errors.Is(err, service.ErrNoCompany) {
				c.Redirect(http.StatusFound, "/")
				return
			}
			klog.Errorf("生成顾问团队失败: sessionID=%s, error=%v", sessionID, err)
			c.String(http.StatusInternalServerError, err.Error())
			return
		}
	}
	h.teamPage(c, http.StatusOK, service.MemberInput{}, nil)
}

func (h *ViewHandler) AddMember(c *gin.Context) {
	var form service.MemberInput
	if err := c.ShouldBind(&form); err != nil {
		c.String(http.StatusBadRequest, err.Error())
		return
	}
	_, err := h.team.AddCustomMember(c.Request.Context(), middleware.SessionID(c), form)
	if err != nil {
		if ve, ok := service.AsValidationError(err); ok {
			h.teamPage(c, http.StatusBadRequest, form, localizeFields(h.catalog, middleware.Lang(c), ve))
			return
		}
		if errors.Is(err, service.ErrNoCompany) {
			c.Redirect(http.StatusSeeOther, "/")
			return
		}
		klog.Errorf("添加团队成员失败: sessionID=%s, error=%v", middleware.SessionID(c), err)
		c.String(http.StatusInternalServerError, err.Error())
		return
	}
	c.Redirect(http.StatusSeeOther, "/team")
}

// redirectMissingRole 角色不存在时：有团队回到 /team，否则回首页
func (h *ViewHandler) redirectMissingRole(c *gin.Context, status int) {
	if len(h.team.Get(middleware.SessionID(c)).Roles) > 0 {
		c.Redirect(status, "/team")
		return
	}
	c.Redirect(status, "/")
}

func (h *ViewHandler) rolePage(c *gin.Context, status int, role model.Role, query string, errs map[string]string) {
	lang := middleware.Lang(c)
	history, err := h.consult.History(c.Request.Context(), middleware.SessionID(c), role.ID)
	if err != nil {
		klog.Warningf("读取咨询记录失败: roleID=%s, error=%v", role.ID, err)
	}
	h.render(c, status, "role.html", gin.H{
		"Role":     role,
		"History":  history,
		"Examples": h.catalog.Examples(lang, role.Category),
		"Query":    query,
		"Errors":   errs,
	})
}

func (h *ViewHandler) Role(c *gin.Context) {
	role, err := h.team.GetRole(middleware.SessionID(c), c.Param("roleId"))
	if err != nil {
		h.redirectMissingRole(c, http.StatusFound)
		return
	}
	h.rolePage(c, http.StatusOK, role, "", nil)
}

func (h *ViewHandler) Ask(c *gin.Context) {
	roleID := c.Param("roleId")
	var form service.ConsultInput
	if err := c.ShouldBind(&form); err != nil {
		c.String(http.StatusBadRequest, err.Error())
		return
	}

	_, err := h.consult.Consult(c.Request.Context(), middleware.SessionID(c), roleID, middleware.Lang(c), form)
	if err == nil {
		c.Redirect(http.StatusSeeOther, "/role/"+url.PathEscape(roleID))
		return
	}

	switch ve, ok := service.AsValidationError(err); {
	case ok:
		role, roleErr := h.team.GetRole(middleware.SessionID(c), roleID)
		if roleErr != nil {
			h.redirectMissingRole(c, http.StatusSeeOther)
			return
		}
		h.rolePage(c, http.StatusBadRequest, role, form.Query, localizeFields(h.catalog, middleware.Lang(c), ve))
	case errors.Is(err, service.ErrNoCompany), errors.Is(err, service.ErrRoleNotFound):
		h.redirectMissingRole(c, http.StatusSeeOther)
	default:
		klog.Errorf("咨询失败: sessionID=%s, roleID=%s, error=%v", middleware.SessionID(c), roleID, err)
		c.String(http.StatusInternalServerError, err.Error())
	}
}

func (h *ViewHandler) Reset(c *gin.Context) {
	if err := h.team.Clear(c.Request.Context(), middleware.SessionID(c)); err != nil {
		klog.Errorf("重置会话失败: sessionID=%s, error=%v", middleware.SessionID(c), err)
	}
	c.Redirect(http.StatusSeeOther, "/")
}

// SwitchLanguage 记住界面语言并返回来源页面（只取路径部分）
func (h *ViewHandler) SwitchLanguage(c *gin.Context) {
	lang := c.Param("lang")
	if h.catalog.Supported(lang) {
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(middleware.LangCookie, lang, 365*24*3600, "/", "", false, false)
	}

	target := "/"
	if ref, err := url.Parse(c.GetHeader("Referer")); err == nil && strings.HasPrefix(ref.Path, "/") && !strings.HasPrefix(ref.Path, "//") {
		target = ref.Path
	}
	c.Redirect(http.StatusFound, target)
}

// NotFound 未匹配路由的页面
func (h *ViewHandler) NotFound(c *gin.Context) {
	h.render(c, http.StatusNotFound, "notfound.html", gin.H{})
}
