package handlers

import (
	"strconv"
	"time"

	"servaan/internal/middleware"
	"servaan/internal/repository"
	"servaan/internal/services"
	"servaan/pkg/pagination"
	"servaan/pkg/response"

	"github.com/gin-gonic/gin"
)

type AuditLogHandler struct {
	service *services.AuditService
}

func NewAuditLogHandler(service *services.AuditService) *AuditLogHandler {
	return &AuditLogHandler{
		service: service,
	}
}

// List 租户审计流水
func (h *AuditLogHandler) List(c *gin.Context) {
	tenantID := middleware.MustGetTenantID(c)
	h.list(c, &tenantID)
}

// ListPlatform 平台级操作审计流水
// 默认只看平台自身的操作，带tenant_id参数时下钻到指定租户
func (h *AuditLogHandler) ListPlatform(c *gin.Context) {
	if tenantStr := c.Query("tenant_id"); tenantStr != "" {
		tenantID, err := strconv.ParseUint(tenantStr, 10, 32)
		if err != nil {
			response.BadRequest(c, "租户ID格式错误")
			return
		}
		id := uint(tenantID)
		h.list(c, &id)
		return
	}
	h.list(c, nil)
}

func (h *AuditLogHandler) list(c *gin.Context, tenantID *uint) {
	pageParams := pagination.ParsePageParams(c)

	filters, ok := parseAuditFilters(c)
	if !ok {
		return
	}

	logs, total, err := h.service.List(tenantID, filters, pageParams)
	if err != nil {
		response.AppError(c, err)
		return
	}

	pageInfo := pagination.NewPageInfo(pageParams.Page, pageParams.PageSize, total)
	response.SuccessWithPage(c, logs, pageInfo)
}

// parseAuditFilters 解析审计查询条件，解析失败时已写好响应
func parseAuditFilters(c *gin.Context) (repository.AuditFilters, bool) {
	filters := repository.AuditFilters{
		Action:       c.Query("action"),
		ResourceType: c.Query("resource_type"),
	}

	if actorStr := c.Query("actor_id"); actorStr != "" {
		actorID, err := strconv.ParseUint(actorStr, 10, 32)
		if err != nil {
			response.BadRequest(c, "操作者ID格式错误")
			return filters, false
		}
		id := uint(actorID)
		filters.ActorID = &id
	}
	if fromStr := c.Query("from"); fromStr != "" {
		from, err := time.Parse(time.RFC3339, fromStr)
		if err != nil {
			response.BadRequest(c, "起始时间格式错误")
			return filters, false
		}
		filters.From = &from
	}
	if toStr := c.Query("to"); toStr != "" {
		to, err := time.Parse(time.RFC3339, toStr)
		if err != nil {
			response.BadRequest(c, "结束时间格式错误")
			return filters, false
		}
		filters.To = &to
	}

	return filters, true
}
