package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/weibaohui/startupnavigator/internal/middleware"
	"github.com/weibaohui/startupnavigator/internal/model"
	"github.com/weibaohui/startupnavigator/internal/pkg/i18n"
	"github.com/weibaohui/startupnavigator/internal/service"
)

// APIHandler JSON 接口处理器
type APIHandler struct {
	team    service.TeamService
	consult service.ConsultationService
	catalog *i18n.Catalog
}

// NewAPIHandler 创建 JSON 接口处理器
func NewAPIHandler(team service.TeamService, consult service.ConsultationService, catalog *i18n.Catalog) *APIHandler {
	return &APIHandler{team: team, consult: consult, catalog: catalog}
}

// RegisterRoutes 注册路由
func (h *APIHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/meta/company-types", h.CompanyTypes)
	router.GET("/meta/role-categories", h.RoleCategories)
	router.GET("/i18n/:lang", h.Messages)

	router.GET("/session", h.GetSession)
	router.PUT("/session/company", h.SetCompany)
	router.DELETE("/session", h.ClearSession)

	router.POST("/team/generate", h.GenerateRoles)
	router.GET("/team/roles", h.ListRoles)
	router.POST("/team/members", h.AddMember)
	router.POST("/team/members/from-label", h.AddMemberFromLabel)

	router.POST("/setup/analyze", h.Analyze)
	router.POST("/setup/apply", h.Apply)

	router.GET("/roles/:roleId", h.GetRole)
	router.POST("/roles/:roleId/consult", h.Consult)
	router.GET("/roles/:roleId/consultations", h.ListConsultations)
}

// SessionResponse 会话状态响应
type SessionResponse struct {
	SessionID  string         `json:"session_id"`
	Status     string         `json:"status"`
	Company    *model.Company `json:"company"`
	Roles      []model.Role   `json:"roles"`
	Generating bool           `json:"generating"`
}

func (h *APIHandler) sessionResponse(c *gin.Context) SessionResponse {
	sessionID := middleware.SessionID(c)
	state := h.team.Get(sessionID)
	roles := state.Roles
	if roles == nil {
		roles = []model.Role{}
	}
	return SessionResponse{
		SessionID:  sessionID,
		Status:     string(state.Status()),
		Company:    state.Company,
		Roles:      roles,
		Generating: state.Generating,
	}
}

// CategoryOption 角色分类展示信息
type CategoryOption struct {
	ID   model.RoleCategory `json:"id"`
	Name string             `json:"name"`
	Icon model.Icon         `json:"icon"`
}

func (h *APIHandler) CompanyTypes(c *gin.Context) {
	c.JSON(http.StatusOK, model.CompanyTypes)
}

func (h *APIHandler) RoleCategories(c *gin.Context) {
	lang := middleware.Lang(c)
	options := make([]CategoryOption, 0, len(model.RoleCategories))
	for _, category := range model.RoleCategories {
		options = append(options, CategoryOption{
			ID:   category,
			Name: h.catalog.T(lang, "category."+string(category)),
			Icon: model.IconFor(category),
		})
	}
	c.JSON(http.StatusOK, options)
}

func (h *APIHandler) Messages(c *gin.Context) {
	lang := c.Param("lang")
	if !h.catalog.Supported(lang) {
		c.JSON(http.StatusNotFound, gin.H{"error": "unsupported language"})
		return
	}
	c.JSON(http.StatusOK, h.catalog.Bundle(lang))
}

func (h *APIHandler) GetSession(c *gin.Context) {
	c.JSON(http.StatusOK, h.sessionResponse(c))
}

func (h *APIHandler) SetCompany(c *gin.Context) {
	var req service.CompanyInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if _, err := h.team.SetCompany(c.Request.Context(), middleware.SessionID(c), req); err != nil {
		writeError(c, h.catalog, err)
		return
	}
	c.JSON(http.StatusOK, h.sessionResponse(c))
}

func (h *APIHandler) ClearSession(c *gin.Context) {
	if err := h.team.Clear(c.Request.Context(), middleware.SessionID(c)); err != nil {
		writeError(c, h.catalog, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *APIHandler) GenerateRoles(c *gin.Context) {
	if _, err := h.team.GenerateRoles(c.Request.Context(), middleware.SessionID(c)); err != nil {
		writeError(c, h.catalog, err)
		return
	}
	c.JSON(http.StatusOK, h.sessionResponse(c))
}

func (h *APIHandler) ListRoles(c *gin.Context) {
	c.JSON(http.StatusOK, h.sessionResponse(c).Roles)
}

func (h *APIHandler) AddMember(c *gin.Context) {
	var req service.MemberInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	role, err := h.team.AddCustomMember(c.Request.Context(), middleware.SessionID(c), req)
	if err != nil {
		writeError(c, h.catalog, err)
		return
	}
	c.JSON(http.StatusCreated, role)
}

// LabelRequest 按文字添加成员请求
type LabelRequest struct {
	Label string `json:"label"`
}

func (h *APIHandler) AddMemberFromLabel(c *gin.Context) {
	var req LabelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	role, err := h.team.AddRoleFromLabel(c.Request.Context(), middleware.SessionID(c), req.Label)
	if err != nil {
		writeError(c, h.catalog, err)
		return
	}
	c.JSON(http.StatusCreated, role)
}

func (h *APIHandler) Analyze(c *gin.Context) {
	var req service.AnalyzeInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Language == "" {
		req.Language = middleware.Lang(c)
	}
	labels, err := h.team.SuggestRoles(c.Request.Context(), req)
	if err != nil {
		writeError(c, h.catalog, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"roles": labels})
}

// ApplyRequest 采用推荐顾问请求，Company 非空时先写入公司信息
type ApplyRequest struct {
	Company *service.CompanyInput `json:"company"`
	Roles   []string              `json:"roles"`
}

func (h *APIHandler) Apply(c *gin.Context) {
	var req ApplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ctx := c.Request.Context()
	sessionID := middleware.SessionID(c)
	if req.Company != nil {
		if _, err := h.team.SetCompany(ctx, sessionID, *req.Company); err != nil {
			writeError(c, h.catalog, err)
			return
		}
	}
	if _, err := h.team.ApplySuggestions(ctx, sessionID, req.Roles); err != nil {
		writeError(c, h.catalog, err)
		return
	}
	c.JSON(http.StatusOK, h.sessionResponse(c))
}

func (h *APIHandler) GetRole(c *gin.Context) {
	role, err := h.team.GetRole(middleware.SessionID(c), c.Param("roleId"))
	if err != nil {
		writeError(c, h.catalog, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"role":     role,
		"examples": h.catalog.Examples(middleware.Lang(c), role.Category),
	})
}

func (h *APIHandler) Consult(c *gin.Context) {
	var req service.ConsultInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	record, err := h.consult.Consult(c.Request.Context(), middleware.SessionID(c), c.Param("roleId"), middleware.Lang(c), req)
	if err != nil {
		writeError(c, h.catalog, err)
		return
	}
	c.JSON(http.StatusCreated, record)
}

func (h *APIHandler) ListConsultations(c *gin.Context) {
	items, err := h.consult.History(c.Request.Context(), middleware.SessionID(c), c.Param("roleId"))
	if err != nil {
		writeError(c, h.catalog, err)
		return
	}
	if items == nil {
		items = []model.Consultation{}
	}
	c.JSON(http.StatusOK, items)
}
