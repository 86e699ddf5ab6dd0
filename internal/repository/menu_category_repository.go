package repository

import (
	"servaan/internal/models"
	apperrors "servaan/pkg/errors"

	"gorm.io/gorm"
)

// MenuCategoryRepository 菜单分类仓储
type MenuCategoryRepository struct {
	db *gorm.DB
}

func NewMenuCategoryRepository(db *gorm.DB) *MenuCategoryRepository {
	return &MenuCategoryRepository{db: db}
}

// List 租户内全部分类（按显示顺序）
func (r *MenuCategoryRepository) List(tenantID uint) ([]*models.MenuCategory, error) {
	var categories []*models.MenuCategory
	err := r.db.Scopes(tenantScope(tenantID)).
		Order("sort_order, id").
		Find(&categories).Error
	return categories, err
}

// GetByID 根据ID获取分类（取回后再比对租户归属）
func (r *MenuCategoryRepository) GetByID(tenantID, id uint) (*models.MenuCategory, error) {
	var category models.MenuCategory
	if err := r.db.Scopes(tenantScope(tenantID)).First(&category, id).Error; err != nil {
		return nil, translateNotFound(err)
	}
	if category.TenantID != tenantID {
		return nil, apperrors.ErrNotFound
	}
	return &category, nil
}

// Create 创建分类
func (r *MenuCategoryRepository) Create(tenantID uint, category *models.MenuCategory) error {
	category.TenantID = tenantID

	if err := checkUniqueInTenant(r.db, &models.MenuCategory{}, tenantID, "name", category.Name, 0); err != nil {
		return err
	}

	return r.db.Create(category).Error
}

// Update 更新分类
func (r *MenuCategoryRepository) Update(tenantID, id uint, name string, sortOrder int, isActive bool) (*models.MenuCategory, error) {
	category, err := r.GetByID(tenantID, id)
	if err != nil {
		return nil, err
	}

	if name != category.Name {
		if err := checkUniqueInTenant(r.db, &models.MenuCategory{}, tenantID, "name", name, id); err != nil {
			return nil, err
		}
	}

	category.Name = name
	category.SortOrder = sortOrder
	category.IsActive = isActive

	if err := r.db.Save(category).Error; err != nil {
		return nil, err
	}
	return category, nil
}

// Delete 硬删除分类（叶子实体，无审计保留要求；有商品引用时拒绝）
func (r *MenuCategoryRepository) Delete(tenantID, id uint, itemCount int64) error {
	if itemCount > 0 {
		return apperrors.New(apperrors.BizValidationError, "分类下存在商品，无法删除")
	}

	result := r.db.Scopes(tenantScope(tenantID)).Delete(&models.MenuCategory{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
