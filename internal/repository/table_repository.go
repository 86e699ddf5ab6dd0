package repository

import (
	"servaan/internal/models"
	apperrors "servaan/pkg/errors"

	"gorm.io/gorm"
)

// TableRepository 餐台仓储
type TableRepository struct {
	db *gorm.DB
}

func NewTableRepository(db *gorm.DB) *TableRepository {
	return &TableRepository{db: db}
}

// List 租户内全部餐台
func (r *TableRepository) List(tenantID uint, status string) ([]*models.Table, error) {
	var tables []*models.Table
	query := r.db.Scopes(tenantScope(tenantID))
	if status != "" {
		query = query.Where("status = ?", status)
	}
	err := query.Order("number").Find(&tables).Error
	return tables, err
}

// GetByID 根据ID获取餐台（取回后再比对租户归属）
func (r *TableRepository) GetByID(tenantID, id uint) (*models.Table, error) {
	var table models.Table
	if err := r.db.Scopes(tenantScope(tenantID)).First(&table, id).Error; err != nil {
		return nil, translateNotFound(err)
	}
	if table.TenantID != tenantID {
		return nil, apperrors.ErrNotFound
	}
	return &table, nil
}

// Create 创建餐台
func (r *TableRepository) Create(tenantID uint, table *models.Table) error {
	table.TenantID = tenantID

	if err := checkUniqueInTenant(r.db, &models.Table{}, tenantID, "number", table.Number, 0); err != nil {
		return err
	}

	return r.db.Create(table).Error
}

// Update 更新餐台
func (r *TableRepository) Update(tenantID, id uint, number string, capacity int) (*models.Table, error) {
	table, err := r.GetByID(tenantID, id)
	if err != nil {
		return nil, err
	}

	if number != table.Number {
		if err := checkUniqueInTenant(r.db, &models.Table{}, tenantID, "number", number, id); err != nil {
			return nil, err
		}
	}

	table.Number = number
	table.Capacity = capacity

	if err := r.db.Save(table).Error; err != nil {
		return nil, err
	}
	return table, nil
}

// UpdateStatus 设置餐台状态
func (r *TableRepository) UpdateStatus(tenantID, id uint, status string) (*models.Table, error) {
	table, err := r.GetByID(tenantID, id)
	if err != nil {
		return nil, err
	}

	table.Status = status
	if err := r.db.Save(table).Error; err != nil {
		return nil, err
	}
	return table, nil
}

// Delete 硬删除餐台（叶子实体；有未完结订单时拒绝由服务层检查）
func (r *TableRepository) Delete(tenantID, id uint) error {
	result := r.db.Scopes(tenantScope(tenantID)).Delete(&models.Table{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
