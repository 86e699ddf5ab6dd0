package handlers

import (
	"servaan/internal/middleware"
	"servaan/internal/services"
	"servaan/pkg/pagination"
	"servaan/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// CreateTenantRequest 请求结构体
type CreateTenantRequest struct {
	Name      string `json:"name" binding:"required"`
	Subdomain string `json:"subdomain" binding:"required,subdomain"`
	Plan      string `json:"plan"`
}

type UpdateTenantRequest struct {
	Name         string `json:"name" binding:"required"`
	Plan         string `json:"plan"`
	MaxUsers     int    `json:"max_users"`
	MaxItems     int    `json:"max_items"`
	MaxCustomers int    `json:"max_customers"`
}

type BulkTenantStatusRequest struct {
	IDs    []uint `json:"ids" binding:"required"`
	Status string `json:"status" binding:"required"`
}

// TenantHandler 租户管理（平台路由）
type TenantHandler struct {
	service *services.TenantService
	audit   *services.AuditService
}

func NewTenantHandler(service *services.TenantService, audit *services.AuditService) *TenantHandler {
	return &TenantHandler{
		service: service,
		audit:   audit,
	}
}

// Create 创建租户
func (h *TenantHandler) Create(c *gin.Context) {
	var req CreateTenantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		// 解析验证错误，提供更友好的提示
		if validationErr, ok := err.(validator.ValidationErrors); ok {
			for _, fieldErr := range validationErr {
				switch fieldErr.Field() {
				case "Subdomain":
					response.BadRequest(c, "子域名只能包含小写字母、数字和中划线，且不能以中划线开头或结尾")
				case "Name":
					response.BadRequest(c, "租户名称不能为空")
				default:
					response.BadRequest(c, "参数错误")
				}
				return
			}
		}
		response.BadRequest(c, "参数错误")
		return
	}

	tenant, err := h.service.Create(req.Name, req.Subdomain, req.Plan)
	if err != nil {
		response.AppError(c, err)
		return
	}

	h.audit.Record(middleware.MustGetUserID(c), nil, "tenant:create", "tenant",
		formatID(tenant.ID), c.GetString("request_id"),
		map[string]interface{}{"name": tenant.Name, "subdomain": tenant.Subdomain})

	response.Success(c, tenant)
}

// GetByID 获取租户
func (h *TenantHandler) GetByID(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		response.BadRequest(c, "ID格式错误")
		return
	}

	tenant, err := h.service.GetByID(id)
	if err != nil {
		response.AppError(c, err)
		return
	}

	response.Success(c, tenant)
}

// List 租户列表
func (h *TenantHandler) List(c *gin.Context) {
	pageParams := pagination.ParsePageParams(c)

	// 支持按状态筛选、关键词搜索
	status := c.Query("status")
	keyword := c.Query("keyword")

	tenants, total, err := h.service.List(status, keyword, pageParams)
	if err != nil {
		response.AppError(c, err)
		return
	}

	pageInfo := pagination.NewPageInfo(pageParams.Page, pageParams.PageSize, total)
	response.SuccessWithPage(c, tenants, pageInfo)
}

// Update 更新租户
func (h *TenantHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		response.BadRequest(c, "ID格式错误")
		return
	}

	var req UpdateTenantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	tenant, err := h.service.Update(id, req.Name, req.Plan, req.MaxUsers, req.MaxItems, req.MaxCustomers)
	if err != nil {
		response.AppError(c, err)
		return
	}

	h.audit.Record(middleware.MustGetUserID(c), nil, "tenant:update", "tenant",
		formatID(tenant.ID), c.GetString("request_id"), nil)

	response.Success(c, tenant)
}

// Activate 激活租户
func (h *TenantHandler) Activate(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		response.BadRequest(c, "ID格式错误")
		return
	}

	tenant, changed, err := h.service.Activate(id)
	if err != nil {
		response.AppError(c, err)
		return
	}

	// 本来就是激活状态时不落审计
	if changed {
		h.audit.Record(middleware.MustGetUserID(c), nil, "tenant:activate", "tenant",
			formatID(tenant.ID), c.GetString("request_id"), nil)
	}

	response.SuccessWithMessage(c, "租户激活成功", tenant)
}

// Deactivate 停用租户
func (h *TenantHandler) Deactivate(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		response.BadRequest(c, "ID格式错误")
		return
	}

	tenant, changed, err := h.service.Deactivate(id)
	if err != nil {
		response.AppError(c, err)
		return
	}

	if changed {
		h.audit.Record(middleware.MustGetUserID(c), nil, "tenant:deactivate", "tenant",
			formatID(tenant.ID), c.GetString("request_id"), nil)
	}

	response.SuccessWithMessage(c, "租户停用成功", tenant)
}

// BulkUpdateStatus 批量修改租户状态
func (h *TenantHandler) BulkUpdateStatus(c *gin.Context) {
	var req BulkTenantStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	affected, err := h.service.BulkUpdateStatus(req.IDs, req.Status)
	if err != nil {
		response.AppError(c, err)
		return
	}

	h.audit.Record(middleware.MustGetUserID(c), nil, "tenant:bulk-status", "tenant",
		"", c.GetString("request_id"),
		map[string]interface{}{"ids": req.IDs, "status": req.Status, "affected": affected})

	response.Success(c, gin.H{"affected": affected})
}

// Delete 删除租户
func (h *TenantHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		response.BadRequest(c, "ID格式错误")
		return
	}

	if err := h.service.Delete(id); err != nil {
		response.AppError(c, err)
		return
	}

	h.audit.Record(middleware.MustGetUserID(c), nil, "tenant:delete", "tenant",
		formatID(id), c.GetString("request_id"), nil)

	response.Success(c, nil)
}

// GetStats 获取租户统计
func (h *TenantHandler) GetStats(c *gin.Context) {
	stats, err := h.service.GetStats()
	if err != nil {
		response.AppError(c, err)
		return
	}

	response.Success(c, stats)
}
