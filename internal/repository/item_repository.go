package repository

import (
	"fmt"

	"servaan/internal/models"
	apperrors "servaan/pkg/errors"
	"servaan/pkg/pagination"

	"gorm.io/gorm"
)

// ItemRepository 商品仓储
type ItemRepository struct {
	db *gorm.DB
}

func NewItemRepository(db *gorm.DB) *ItemRepository {
	return &ItemRepository{db: db}
}

// ItemFilters 商品列表过滤条件
type ItemFilters struct {
	CategoryID *uint
	Keyword    string
	OnlyActive bool
	LowStock   bool
}

// List 租户内商品列表
func (r *ItemRepository) List(tenantID uint, filters ItemFilters, params *pagination.PageParams) ([]*models.Item, int64, error) {
	var items []*models.Item
	var total int64

	query := r.db.Model(&models.Item{}).Scopes(tenantScope(tenantID))

	if filters.CategoryID != nil {
		query = query.Where("category_id = ?", *filters.CategoryID)
	}
	if filters.Keyword != "" {
		searchPattern := fmt.Sprintf("%%%s%%", filters.Keyword)
		query = query.Where("name LIKE ? OR sku LIKE ?", searchPattern, searchPattern)
	}
	if filters.OnlyActive {
		query = query.Where("is_active = ?", true)
	}
	if filters.LowStock {
		query = query.Where("stock < min_stock")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.Scopes(paginate(params)).Preload("Category").Find(&items).Error; err != nil {
		return nil, 0, err
	}

	return items, total, nil
}

// GetByID 根据ID获取商品（取回后再比对租户归属）
func (r *ItemRepository) GetByID(tenantID, id uint) (*models.Item, error) {
	var item models.Item
	if err := r.db.Scopes(tenantScope(tenantID)).Preload("Category").First(&item, id).Error; err != nil {
		return nil, translateNotFound(err)
	}
	if item.TenantID != tenantID {
		return nil, apperrors.ErrNotFound
	}
	return &item, nil
}

// Create 创建商品，配额检查和插入在同一事务内
func (r *ItemRepository) Create(tenantID uint, item *models.Item) error {
	item.TenantID = tenantID
	item.Version = 1

	if err := checkUniqueInTenant(r.db, &models.Item{}, tenantID, "sku", item.SKU, 0); err != nil {
		return err
	}

	return createWithQuota(r.db, tenantID, &models.Item{},
		func(t *models.Tenant) int { return t.MaxItems }, item)
}

// UpdateWithVersion 按版本号更新商品（乐观锁）
// 版本不匹配返回CONFLICT而不是悄悄覆盖
func (r *ItemRepository) UpdateWithVersion(tenantID, id uint, version int, updates map[string]interface{}) (*models.Item, error) {
	// tenant_id和version都不允许出现在补丁里
	delete(updates, "tenant_id")
	delete(updates, "version")
	updates["version"] = gorm.Expr("version + 1")

	result := r.db.Model(&models.Item{}).
		Scopes(tenantScope(tenantID)).
		Where("id = ? AND version = ?", id, version).
		Updates(updates)
	if result.Error != nil {
		return nil, result.Error
	}

	if result.RowsAffected == 0 {
		// 区分不存在和版本冲突
		if _, err := r.GetByID(tenantID, id); err != nil {
			return nil, err
		}
		return nil, apperrors.ErrConflict
	}

	return r.GetByID(tenantID, id)
}

// AdjustStock 调整库存（delta可为负，减库存时不允许出现负库存）
func (r *ItemRepository) AdjustStock(tenantID, id uint, delta int) (*models.Item, error) {
	query := r.db.Model(&models.Item{}).
		Scopes(tenantScope(tenantID)).
		Where("id = ?", id)
	if delta < 0 {
		query = query.Where("stock + ? >= 0", delta)
	}

	result := query.Update("stock", gorm.Expr("stock + ?", delta))
	if result.Error != nil {
		return nil, result.Error
	}

	if result.RowsAffected == 0 {
		if _, err := r.GetByID(tenantID, id); err != nil {
			return nil, err
		}
		return nil, apperrors.New(apperrors.BizValidationError, "库存不足")
	}

	return r.GetByID(tenantID, id)
}

// SetActive 上下架（幂等）
func (r *ItemRepository) SetActive(tenantID, id uint, active bool) (item *models.Item, changed bool, err error) {
	item, err = r.GetByID(tenantID, id)
	if err != nil {
		return nil, false, err
	}

	if item.IsActive == active {
		return item, false, nil
	}

	item.IsActive = active
	if err := r.db.Save(item).Error; err != nil {
		return nil, false, err
	}
	return item, true, nil
}

// CountActive 租户内上架商品数
func (r *ItemRepository) CountActive(tenantID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Item{}).
		Scopes(tenantScope(tenantID)).
		Where("is_active = ?", true).
		Count(&count).Error
	return count, err
}

// CountLowStock 租户内库存告警商品数
func (r *ItemRepository) CountLowStock(tenantID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Item{}).
		Scopes(tenantScope(tenantID)).
		Where("is_active = ? AND stock < min_stock", true).
		Count(&count).Error
	return count, err
}

// CountByCategory 分类下的商品数（删除分类前检查用）
func (r *ItemRepository) CountByCategory(tenantID, categoryID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Item{}).
		Scopes(tenantScope(tenantID)).
		Where("category_id = ?", categoryID).
		Count(&count).Error
	return count, err
}
