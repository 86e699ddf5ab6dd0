package handlers

import (
	"strconv"

	"servaan/internal/middleware"
	"servaan/internal/repository"
	"servaan/internal/services"
	"servaan/pkg/pagination"
	"servaan/pkg/response"

	"github.com/gin-gonic/gin"
)

type CreateItemRequest struct {
	SKU        string  `json:"sku" binding:"required"`
	Name       string  `json:"name" binding:"required"`
	CategoryID *uint   `json:"category_id"`
	Price      float64 `json:"price" binding:"required"`
	Stock      int     `json:"stock"`
	MinStock   int     `json:"min_stock"`
}

// UpdateItemRequest 更新请求
// 必须回传读取时的version，版本不一致返回冲突
type UpdateItemRequest struct {
	Version    int    `json:"version" binding:"min=1"`
	Name       string `json:"name" binding:"required"`
	CategoryID *uint  `json:"category_id"`
	MinStock   int    `json:"min_stock"`
}

type UpdateItemPriceRequest struct {
	Version int     `json:"version" binding:"min=1"`
	Price   float64 `json:"price" binding:"required"`
}

type AdjustStockRequest struct {
	Delta int `json:"delta" binding:"required"`
}

type ItemHandler struct {
	service *services.ItemService
	audit   *services.AuditService
}

func NewItemHandler(service *services.ItemService, audit *services.AuditService) *ItemHandler {
	return &ItemHandler{
		service: service,
		audit:   audit,
	}
}

// List 商品列表
func (h *ItemHandler) List(c *gin.Context) {
	tenantID := middleware.MustGetTenantID(c)
	pageParams := pagination.ParsePageParams(c)

	filters := repository.ItemFilters{
		Keyword:    c.Query("keyword"),
		OnlyActive: c.Query("only_active") == "true",
		LowStock:   c.Query("low_stock") == "true",
	}
	if categoryStr := c.Query("category_id"); categoryStr != "" {
		categoryID, err := strconv.ParseUint(categoryStr, 10, 32)
		if err != nil {
			response.BadRequest(c, "分类ID格式错误")
			return
		}
		id := uint(categoryID)
		filters.CategoryID = &id
	}

	items, total, err := h.service.List(tenantID, filters, pageParams)
	if err != nil {
		response.AppError(c, err)
		return
	}

	pageInfo := pagination.NewPageInfo(pageParams.Page, pageParams.PageSize, total)
	response.SuccessWithPage(c, items, pageInfo)
}

// GetByID 获取商品
func (h *ItemHandler) GetByID(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		response.BadRequest(c, "ID格式错误")
		return
	}

	item, err := h.service.GetByID(middleware.MustGetTenantID(c), id)
	if err != nil {
		response.AppError(c, err)
		return
	}

	response.Success(c, item)
}

// Create 创建商品
func (h *ItemHandler) Create(c *gin.Context) {
	var req CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	tenantID := middleware.MustGetTenantID(c)
	item, err := h.service.Create(tenantID, req.SKU, req.Name, req.CategoryID, req.Price, req.Stock, req.MinStock)
	if err != nil {
		response.AppError(c, err)
		return
	}

	h.audit.Record(middleware.MustGetUserID(c), &tenantID, "item:create", "item",
		formatID(item.ID), c.GetString("request_id"),
		map[string]interface{}{"sku": item.SKU, "name": item.Name})

	response.Success(c, item)
}

// Update 更新商品
func (h *ItemHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		response.BadRequest(c, "ID格式错误")
		return
	}

	var req UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	tenantID := middleware.MustGetTenantID(c)
	item, err := h.service.Update(tenantID, id, req.Version, req.Name, req.CategoryID, req.MinStock)
	if err != nil {
		response.AppError(c, err)
		return
	}

	h.audit.Record(middleware.MustGetUserID(c), &tenantID, "item:update", "item",
		formatID(item.ID), c.GetString("request_id"), nil)

	response.Success(c, item)
}

// UpdatePrice 修改价格
func (h *ItemHandler) UpdatePrice(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		response.BadRequest(c, "ID格式错误")
		return
	}

	var req UpdateItemPriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	tenantID := middleware.MustGetTenantID(c)
	item, err := h.service.UpdatePrice(tenantID, id, req.Version, req.Price)
	if err != nil {
		response.AppError(c, err)
		return
	}

	h.audit.Record(middleware.MustGetUserID(c), &tenantID, "item:update-price", "item",
		formatID(item.ID), c.GetString("request_id"),
		map[string]interface{}{"price": req.Price})

	response.Success(c, item)
}

// AdjustStock 调整库存
func (h *ItemHandler) AdjustStock(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		response.BadRequest(c, "ID格式错误")
		return
	}

	var req AdjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	tenantID := middleware.MustGetTenantID(c)
	item, err := h.service.AdjustStock(tenantID, id, req.Delta)
	if err != nil {
		response.AppError(c, err)
		return
	}

	h.audit.Record(middleware.MustGetUserID(c), &tenantID, "item:adjust-stock", "item",
		formatID(item.ID), c.GetString("request_id"),
		map[string]interface{}{"delta": req.Delta, "stock": item.Stock})

	response.Success(c, item)
}

// Activate 上架商品
func (h *ItemHandler) Activate(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		response.BadRequest(c, "ID格式错误")
		return
	}

	tenantID := middleware.MustGetTenantID(c)
	item, changed, err := h.service.Activate(tenantID, id)
	if err != nil {
		response.AppError(c, err)
		return
	}

	if changed {
		h.audit.Record(middleware.MustGetUserID(c), &tenantID, "item:activate", "item",
			formatID(item.ID), c.GetString("request_id"), nil)
	}

	response.Success(c, item)
}

// Deactivate 下架商品
func (h *ItemHandler) Deactivate(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		response.BadRequest(c, "ID格式错误")
		return
	}

	tenantID := middleware.MustGetTenantID(c)
	item, changed, err := h.service.Deactivate(tenantID, id)
	if err != nil {
		response.AppError(c, err)
		return
	}

	if changed {
		h.audit.Record(middleware.MustGetUserID(c), &tenantID, "item:deactivate", "item",
			formatID(item.ID), c.GetString("request_id"), nil)
	}

	response.Success(c, item)
}
