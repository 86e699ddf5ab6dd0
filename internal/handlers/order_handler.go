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

type OrderLineRequest struct {
	ItemID   uint   `json:"item_id" binding:"required"`
	Quantity int    `json:"quantity" binding:"required,min=1"`
	Note     string `json:"note"`
}

type CreateOrderRequest struct {
	TableID    *uint              `json:"table_id"`
	CustomerID *uint              `json:"customer_id"`
	Note       string             `json:"note"`
	Lines      []OrderLineRequest `json:"lines" binding:"required,min=1,dive"`
}

// UpdateOrderStatusRequest 状态流转请求
// version不一致说明别人先改了，返回冲突让客户端重新读取
type UpdateOrderStatusRequest struct {
	Version int    `json:"version" binding:"min=1"`
	Status  string `json:"status" binding:"required"`
}

type CancelOrderRequest struct {
	Version int `json:"version" binding:"min=1"`
}

type OrderHandler struct {
	service *services.OrderService
	audit   *services.AuditService
}

func NewOrderHandler(service *services.OrderService, audit *services.AuditService) *OrderHandler {
	return &OrderHandler{
		service: service,
		audit:   audit,
	}
}

// Create 下单
func (h *OrderHandler) Create(c *gin.Context) {
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	lines := make([]repository.OrderLine, 0, len(req.Lines))
	for _, line := range req.Lines {
		lines = append(lines, repository.OrderLine{
			ItemID:   line.ItemID,
			Quantity: line.Quantity,
			Note:     line.Note,
		})
	}

	tenantID := middleware.MustGetTenantID(c)
	userID := middleware.MustGetUserID(c)
	order, err := h.service.Create(tenantID, userID, req.TableID, req.CustomerID, req.Note, lines)
	if err != nil {
		response.AppError(c, err)
		return
	}

	h.audit.Record(userID, &tenantID, "order:create", "order",
		formatID(order.ID), c.GetString("request_id"),
		map[string]interface{}{"order_no": order.OrderNo, "total": order.TotalPrice})

	response.Success(c, order)
}

// List 订单列表
func (h *OrderHandler) List(c *gin.Context) {
	tenantID := middleware.MustGetTenantID(c)
	pageParams := pagination.ParsePageParams(c)

	filters := repository.OrderFilters{
		Status: c.Query("status"),
	}
	if tableStr := c.Query("table_id"); tableStr != "" {
		tableID, err := strconv.ParseUint(tableStr, 10, 32)
		if err != nil {
			response.BadRequest(c, "餐台ID格式错误")
			return
		}
		id := uint(tableID)
		filters.TableID = &id
	}
	if fromStr := c.Query("from"); fromStr != "" {
		from, err := time.Parse(time.RFC3339, fromStr)
		if err != nil {
			response.BadRequest(c, "起始时间格式错误")
			return
		}
		filters.From = &from
	}
	if toStr := c.Query("to"); toStr != "" {
		to, err := time.Parse(time.RFC3339, toStr)
		if err != nil {
			response.BadRequest(c, "结束时间格式错误")
			return
		}
		filters.To = &to
	}

	orders, total, err := h.service.List(tenantID, filters, pageParams)
	if err != nil {
		response.AppError(c, err)
		return
	}

	pageInfo := pagination.NewPageInfo(pageParams.Page, pageParams.PageSize, total)
	response.SuccessWithPage(c, orders, pageInfo)
}

// GetByID 获取订单
func (h *OrderHandler) GetByID(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		response.BadRequest(c, "ID格式错误")
		return
	}

	order, err := h.service.GetByID(middleware.MustGetTenantID(c), id)
	if err != nil {
		response.AppError(c, err)
		return
	}

	response.Success(c, order)
}

// UpdateStatus 订单状态流转
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		response.BadRequest(c, "ID格式错误")
		return
	}

	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	tenantID := middleware.MustGetTenantID(c)
	order, err := h.service.UpdateStatus(tenantID, id, req.Version, req.Status)
	if err != nil {
		response.AppError(c, err)
		return
	}

	h.audit.Record(middleware.MustGetUserID(c), &tenantID, "order:update-status", "order",
		formatID(order.ID), c.GetString("request_id"),
		map[string]interface{}{"status": order.Status})

	response.Success(c, order)
}

// Cancel 取消订单
func (h *OrderHandler) Cancel(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		response.BadRequest(c, "ID格式错误")
		return
	}

	var req CancelOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	tenantID := middleware.MustGetTenantID(c)
	order, err := h.service.Cancel(tenantID, id, req.Version)
	if err != nil {
		response.AppError(c, err)
		return
	}

	h.audit.Record(middleware.MustGetUserID(c), &tenantID, "order:cancel", "order",
		formatID(order.ID), c.GetString("request_id"), nil)

	response.Success(c, order)
}
