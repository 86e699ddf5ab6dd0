package handlers

import (
	"servaan/internal/middleware"
	"servaan/internal/services"
	"servaan/pkg/pagination"
	"servaan/pkg/response"

	"github.com/gin-gonic/gin"
)

type CustomerRequest struct {
	Name  string  `json:"name" binding:"required"`
	Phone string  `json:"phone" binding:"required"`
	Email *string `json:"email"`
	Note  string  `json:"note"`
}

type CustomerHandler struct {
	service *services.CustomerService
	audit   *services.AuditService
}

func NewCustomerHandler(service *services.CustomerService, audit *services.AuditService) *CustomerHandler {
	return &CustomerHandler{
		service: service,
		audit:   audit,
	}
}

// List 客户列表
func (h *CustomerHandler) List(c *gin.Context) {
	tenantID := middleware.MustGetTenantID(c)
	pageParams := pagination.ParsePageParams(c)

	customers, total, err := h.service.List(tenantID, c.Query("status"), c.Query("keyword"), pageParams)
	if err != nil {
		response.AppError(c, err)
		return
	}

	pageInfo := pagination.NewPageInfo(pageParams.Page, pageParams.PageSize, total)
	response.SuccessWithPage(c, customers, pageInfo)
}

// GetByID 获取客户
func (h *CustomerHandler) GetByID(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		response.BadRequest(c, "ID格式错误")
		return
	}

	customer, err := h.service.GetByID(middleware.MustGetTenantID(c), id)
	if err != nil {
		response.AppError(c, err)
		return
	}

	response.Success(c, customer)
}

// Create 创建客户
func (h *CustomerHandler) Create(c *gin.Context) {
	var req CustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	tenantID := middleware.MustGetTenantID(c)
	customer, err := h.service.Create(tenantID, req.Name, req.Phone, req.Note, req.Email)
	if err != nil {
		response.AppError(c, err)
		return
	}

	h.audit.Record(middleware.MustGetUserID(c), &tenantID, "customer:create", "customer",
		formatID(customer.ID), c.GetString("request_id"),
		map[string]interface{}{"name": customer.Name})

	response.Success(c, customer)
}

// Update 更新客户
func (h *CustomerHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		response.BadRequest(c, "ID格式错误")
		return
	}

	var req CustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	tenantID := middleware.MustGetTenantID(c)
	customer, err := h.service.Update(tenantID, id, req.Name, req.Phone, req.Note, req.Email)
	if err != nil {
		response.AppError(c, err)
		return
	}

	h.audit.Record(middleware.MustGetUserID(c), &tenantID, "customer:update", "customer",
		formatID(customer.ID), c.GetString("request_id"), nil)

	response.Success(c, customer)
}

// Activate 启用客户
func (h *CustomerHandler) Activate(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		response.BadRequest(c, "ID格式错误")
		return
	}

	tenantID := middleware.MustGetTenantID(c)
	customer, changed, err := h.service.Activate(tenantID, id)
	if err != nil {
		response.AppError(c, err)
		return
	}

	if changed {
		h.audit.Record(middleware.MustGetUserID(c), &tenantID, "customer:activate", "customer",
			formatID(customer.ID), c.GetString("request_id"), nil)
	}

	response.Success(c, customer)
}

// Deactivate 停用客户
func (h *CustomerHandler) Deactivate(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		response.BadRequest(c, "ID格式错误")
		return
	}

	tenantID := middleware.MustGetTenantID(c)
	customer, changed, err := h.service.Deactivate(tenantID, id)
	if err != nil {
		response.AppError(c, err)
		return
	}

	if changed {
		h.audit.Record(middleware.MustGetUserID(c), &tenantID, "customer:deactivate", "customer",
			formatID(customer.ID), c.GetString("request_id"), nil)
	}

	response.Success(c, customer)
}
