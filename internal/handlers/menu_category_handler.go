package handlers

import (
	"servaan/internal/middleware"
	"servaan/internal/services"
	"servaan/pkg/response"

	"github.com/gin-gonic/gin"
)

type CreateMenuCategoryRequest struct {
	Name      string `json:"name" binding:"required"`
	SortOrder int    `json:"sort_order"`
}

type UpdateMenuCategoryRequest struct {
	Name      string `json:"name" binding:"required"`
	SortOrder int    `json:"sort_order"`
	IsActive  bool   `json:"is_active"`
}

type MenuCategoryHandler struct {
	service *services.MenuService
	audit   *services.AuditService
}

func NewMenuCategoryHandler(service *services.MenuService, audit *services.AuditService) *MenuCategoryHandler {
	return &MenuCategoryHandler{
		service: service,
		audit:   audit,
	}
}

// List 菜单分类列表
func (h *MenuCategoryHandler) List(c *gin.Context) {
	categories, err := h.service.List(middleware.MustGetTenantID(c))
	if err != nil {
		response.AppError(c, err)
		return
	}

	response.Success(c, categories)
}

// Create 创建菜单分类
func (h *MenuCategoryHandler) Create(c *gin.Context) {
	var req CreateMenuCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	tenantID := middleware.MustGetTenantID(c)
	category, err := h.service.Create(tenantID, req.Name, req.SortOrder)
	if err != nil {
		response.AppError(c, err)
		return
	}

	h.audit.Record(middleware.MustGetUserID(c), &tenantID, "menu:create", "menu_category",
		formatID(category.ID), c.GetString("request_id"),
		map[string]interface{}{"name": category.Name})

	response.Success(c, category)
}

// Update 更新菜单分类
func (h *MenuCategoryHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		response.BadRequest(c, "ID格式错误")
		return
	}

	var req UpdateMenuCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	tenantID := middleware.MustGetTenantID(c)
	category, err := h.service.Update(tenantID, id, req.Name, req.SortOrder, req.IsActive)
	if err != nil {
		response.AppError(c, err)
		return
	}

	h.audit.Record(middleware.MustGetUserID(c), &tenantID, "menu:update", "menu_category",
		formatID(category.ID), c.GetString("request_id"), nil)

	response.Success(c, category)
}

// Delete 删除菜单分类
func (h *MenuCategoryHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		response.BadRequest(c, "ID格式错误")
		return
	}

	tenantID := middleware.MustGetTenantID(c)
	if err := h.service.Delete(tenantID, id); err != nil {
		response.AppError(c, err)
		return
	}

	h.audit.Record(middleware.MustGetUserID(c), &tenantID, "menu:delete", "menu_category",
		formatID(id), c.GetString("request_id"), nil)

	response.Success(c, nil)
}
