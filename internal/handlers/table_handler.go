package handlers

import (
	"servaan/internal/middleware"
	"servaan/internal/services"
	"servaan/pkg/response"

	"github.com/gin-gonic/gin"
)

type TableRequest struct {
	Number   string `json:"number" binding:"required"`
	Capacity int    `json:"capacity" binding:"required,min=1"`
}

type UpdateTableStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type TableHandler struct {
	service *services.TableService
	audit   *services.AuditService
}

func NewTableHandler(service *services.TableService, audit *services.AuditService) *TableHandler {
	return &TableHandler{
		service: service,
		audit:   audit,
	}
}

// List 餐台列表
func (h *TableHandler) List(c *gin.Context) {
	tables, err := h.service.List(middleware.MustGetTenantID(c), c.Query("status"))
	if err != nil {
		response.AppError(c, err)
		return
	}

	response.Success(c, tables)
}

// GetByID 获取餐台
func (h *TableHandler) GetByID(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		response.BadRequest(c, "ID格式错误")
		return
	}

	table, err := h.service.GetByID(middleware.MustGetTenantID(c), id)
	if err != nil {
		response.AppError(c, err)
		return
	}

	response.Success(c, table)
}

// Create 创建餐台
func (h *TableHandler) Create(c *gin.Context) {
	var req TableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	tenantID := middleware.MustGetTenantID(c)
	table, err := h.service.Create(tenantID, req.Number, req.Capacity)
	if err != nil {
		response.AppError(c, err)
		return
	}

	h.audit.Record(middleware.MustGetUserID(c), &tenantID, "table:create", "table",
		formatID(table.ID), c.GetString("request_id"),
		map[string]interface{}{"number": table.Number})

	response.Success(c, table)
}

// Update 更新餐台
func (h *TableHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		response.BadRequest(c, "ID格式错误")
		return
	}

	var req TableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	tenantID := middleware.MustGetTenantID(c)
	table, err := h.service.Update(tenantID, id, req.Number, req.Capacity)
	if err != nil {
		response.AppError(c, err)
		return
	}

	h.audit.Record(middleware.MustGetUserID(c), &tenantID, "table:update", "table",
		formatID(table.ID), c.GetString("request_id"), nil)

	response.Success(c, table)
}

// UpdateStatus 修改餐台状态
func (h *TableHandler) UpdateStatus(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		response.BadRequest(c, "ID格式错误")
		return
	}

	var req UpdateTableStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	tenantID := middleware.MustGetTenantID(c)
	table, err := h.service.UpdateStatus(tenantID, id, req.Status)
	if err != nil {
		response.AppError(c, err)
		return
	}

	response.Success(c, table)
}

// Delete 删除餐台
func (h *TableHandler) Delete(c *gin.Context) {
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

	h.audit.Record(middleware.MustGetUserID(c), &tenantID, "table:delete", "table",
		formatID(id), c.GetString("request_id"), nil)

	response.Success(c, nil)
}
