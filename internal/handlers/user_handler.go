package handlers

import (
	"servaan/internal/middleware"
	"servaan/internal/services"
	"servaan/pkg/pagination"
	"servaan/pkg/response"

	"github.com/gin-gonic/gin"
)

type CreateUserRequest struct {
	Username string  `json:"username" binding:"required"`
	Email    string  `json:"email" binding:"required,email"`
	Name     string  `json:"name" binding:"required"`
	Password string  `json:"password" binding:"required,min=6"`
	Role     string  `json:"role" binding:"required"`
	Phone    *string `json:"phone"`
}

type UpdateUserRequest struct {
	Name  string  `json:"name" binding:"required"`
	Email string  `json:"email" binding:"required,email"`
	Role  string  `json:"role" binding:"required"`
	Phone *string `json:"phone"`
}

type ResetPasswordRequest struct {
	Password string `json:"password" binding:"required,min=6"`
}

type UserHandler struct {
	service *services.UserService
	audit   *services.AuditService
}

func NewUserHandler(service *services.UserService, audit *services.AuditService) *UserHandler {
	return &UserHandler{
		service: service,
		audit:   audit,
	}
}

// List 用户列表
func (h *UserHandler) List(c *gin.Context) {
	tenantID := middleware.MustGetTenantID(c)
	pageParams := pagination.ParsePageParams(c)

	users, total, err := h.service.List(tenantID, c.Query("status"), c.Query("keyword"), pageParams)
	if err != nil {
		response.AppError(c, err)
		return
	}

	pageInfo := pagination.NewPageInfo(pageParams.Page, pageParams.PageSize, total)
	response.SuccessWithPage(c, users, pageInfo)
}

// GetByID 获取用户
func (h *UserHandler) GetByID(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		response.BadRequest(c, "ID格式错误")
		return
	}

	user, err := h.service.GetByID(middleware.MustGetTenantID(c), id)
	if err != nil {
		response.AppError(c, err)
		return
	}

	response.Success(c, user)
}

// Create 创建用户
func (h *UserHandler) Create(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	tenantID := middleware.MustGetTenantID(c)
	user, err := h.service.Create(tenantID, req.Username, req.Email, req.Name, req.Password, req.Role, req.Phone)
	if err != nil {
		response.AppError(c, err)
		return
	}

	h.audit.Record(middleware.MustGetUserID(c), &tenantID, "user:create", "user",
		formatID(user.ID), c.GetString("request_id"),
		map[string]interface{}{"username": user.Username, "role": user.Role})

	response.Success(c, user)
}

// Update 更新用户
func (h *UserHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		response.BadRequest(c, "ID格式错误")
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	tenantID := middleware.MustGetTenantID(c)
	user, err := h.service.Update(tenantID, id, req.Name, req.Email, req.Role, req.Phone)
	if err != nil {
		response.AppError(c, err)
		return
	}

	h.audit.Record(middleware.MustGetUserID(c), &tenantID, "user:update", "user",
		formatID(user.ID), c.GetString("request_id"), nil)

	response.Success(c, user)
}

// ResetPassword 重置密码
func (h *UserHandler) ResetPassword(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		response.BadRequest(c, "ID格式错误")
		return
	}

	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	tenantID := middleware.MustGetTenantID(c)
	if err := h.service.ResetPassword(tenantID, id, req.Password); err != nil {
		response.AppError(c, err)
		return
	}

	h.audit.Record(middleware.MustGetUserID(c), &tenantID, "user:reset-password", "user",
		formatID(id), c.GetString("request_id"), nil)

	response.SuccessWithMessage(c, "密码重置成功", nil)
}

// Activate 启用用户
func (h *UserHandler) Activate(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		response.BadRequest(c, "ID格式错误")
		return
	}

	tenantID := middleware.MustGetTenantID(c)
	user, changed, err := h.service.Activate(tenantID, id)
	if err != nil {
		response.AppError(c, err)
		return
	}

	// 状态幂等：重复启用不再记审计
	if changed {
		h.audit.Record(middleware.MustGetUserID(c), &tenantID, "user:activate", "user",
			formatID(user.ID), c.GetString("request_id"), nil)
	}

	response.Success(c, user)
}

// Deactivate 停用用户
func (h *UserHandler) Deactivate(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		response.BadRequest(c, "ID格式错误")
		return
	}

	tenantID := middleware.MustGetTenantID(c)
	user, changed, err := h.service.Deactivate(tenantID, id)
	if err != nil {
		response.AppError(c, err)
		return
	}

	if changed {
		h.audit.Record(middleware.MustGetUserID(c), &tenantID, "user:deactivate", "user",
			formatID(user.ID), c.GetString("request_id"), nil)
	}

	response.Success(c, user)
}
