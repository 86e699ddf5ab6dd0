package services

import (
	"servaan/internal/models"
	"servaan/internal/repository"
	apperrors "servaan/pkg/errors"
	"servaan/pkg/pagination"

	"gorm.io/gorm"
)

// ItemService 商品/库存管理
type ItemService struct {
	repo     *repository.ItemRepository
	menuRepo *repository.MenuCategoryRepository
}

func NewItemService(db *gorm.DB) *ItemService {
	return &ItemService{
		repo:     repository.NewItemRepository(db),
		menuRepo: repository.NewMenuCategoryRepository(db),
	}
}

// List 租户内商品列表
func (s *ItemService) List(tenantID uint, filters repository.ItemFilters, params *pagination.PageParams) ([]*models.Item, int64, error) {
	return s.repo.List(tenantID, filters, params)
}

// GetByID 根据ID获取商品
func (s *ItemService) GetByID(tenantID, id uint) (*models.Item, error) {
	return s.repo.GetByID(tenantID, id)
}

// Create 创建商品
func (s *ItemService) Create(tenantID uint, sku, name string, categoryID *uint, price float64, stock, minStock int) (*models.Item, error) {
	if price < 0 {
		return nil, apperrors.New(apperrors.BizValidationError, "价格不能为负数")
	}
	if stock < 0 || minStock < 0 {
		return nil, apperrors.New(apperrors.BizValidationError, "库存不能为负数")
	}

	// 分类必须属于同一租户
	if categoryID != nil {
		if _, err := s.menuRepo.GetByID(tenantID, *categoryID); err != nil {
			return nil, err
		}
	}

	item := &models.Item{
		SKU:        sku,
		Name:       name,
		CategoryID: categoryID,
		Price:      price,
		Stock:      stock,
		MinStock:   minStock,
		IsActive:   true,
	}

	if err := s.repo.Create(tenantID, item); err != nil {
		return nil, err
	}
	return item, nil
}

// Update 更新商品（乐观锁，版本不匹配返回CONFLICT）
func (s *ItemService) Update(tenantID, id uint, version int, name string, categoryID *uint, minStock int) (*models.Item, error) {
	if minStock < 0 {
		return nil, apperrors.New(apperrors.BizValidationError, "库存告警线不能为负数")
	}
	if categoryID != nil {
		if _, err := s.menuRepo.GetByID(tenantID, *categoryID); err != nil {
			return nil, err
		}
	}

	updates := map[string]interface{}{
		"name":        name,
		"category_id": categoryID,
		"min_stock":   minStock,
	}
	return s.repo.UpdateWithVersion(tenantID, id, version, updates)
}

// UpdatePrice 调价（乐观锁）
func (s *ItemService) UpdatePrice(tenantID, id uint, version int, price float64) (*models.Item, error) {
	if price < 0 {
		return nil, apperrors.New(apperrors.BizValidationError, "价格不能为负数")
	}
	return s.repo.UpdateWithVersion(tenantID, id, version, map[string]interface{}{"price": price})
}

// AdjustStock 调整库存
func (s *ItemService) AdjustStock(tenantID, id uint, delta int) (*models.Item, error) {
	if delta == 0 {
		return nil, apperrors.New(apperrors.BizValidationError, "调整数量不能为0")
	}
	return s.repo.AdjustStock(tenantID, id, delta)
}

// Activate 上架（幂等）
func (s *ItemService) Activate(tenantID, id uint) (*models.Item, bool, error) {
	return s.repo.SetActive(tenantID, id, true)
}

// Deactivate 下架（软删除，幂等）
func (s *ItemService) Deactivate(tenantID, id uint) (*models.Item, bool, error) {
	return s.repo.SetActive(tenantID, id, false)
}
