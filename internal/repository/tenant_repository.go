package repository

import (
	"errors"
	"fmt"

	"servaan/internal/models"
	apperrors "servaan/pkg/errors"
	"servaan/pkg/pagination"

	"gorm.io/gorm"
)

// TenantRepository 租户注册表仓储
// 租户本身是平台级资源，不走租户隔离；只有平台路由可以到达这里
type TenantRepository struct {
	db *gorm.DB
}

func NewTenantRepository(db *gorm.DB) *TenantRepository {
	return &TenantRepository{db: db}
}

// Create 创建租户
func (r *TenantRepository) Create(tenant *models.Tenant) error {
	var count int64
	if err := r.db.Model(&models.Tenant{}).Where("subdomain = ?", tenant.Subdomain).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return apperrors.New(apperrors.BizValidationError, "子域名已被占用")
	}

	return r.db.Create(tenant).Error
}

// GetByID 根据ID获取租户
func (r *TenantRepository) GetByID(id uint) (*models.Tenant, error) {
	var tenant models.Tenant
	if err := r.db.First(&tenant, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTenantNotFound
		}
		return nil, err
	}
	return &tenant, nil
}

// GetBySubdomain 根据子域名获取租户（不区分状态，由解析器判定激活状态）
func (r *TenantRepository) GetBySubdomain(subdomain string) (*models.Tenant, error) {
	var tenant models.Tenant
	if err := r.db.Where("subdomain = ?", subdomain).First(&tenant).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTenantNotFound
		}
		return nil, err
	}
	return &tenant, nil
}

// List 组合查询（分页版本）
func (r *TenantRepository) List(status, keyword string, params *pagination.PageParams) ([]*models.Tenant, int64, error) {
	var tenants []*models.Tenant
	var total int64

	query := r.db.Model(&models.Tenant{})

	if status != "" {
		query = query.Where("status = ?", status)
	}
	if keyword != "" {
		searchPattern := fmt.Sprintf("%%%s%%", keyword)
		query = query.Where("name LIKE ? OR subdomain LIKE ?", searchPattern, searchPattern)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.Scopes(paginate(params)).Find(&tenants).Error; err != nil {
		return nil, 0, err
	}

	return tenants, total, nil
}

// Update 更新租户名称、套餐、配额（子域名不可变更）
func (r *TenantRepository) Update(id uint, name, plan string, maxUsers, maxItems, maxCustomers int) (*models.Tenant, error) {
	tenant, err := r.GetByID(id)
	if err != nil {
		return nil, err
	}

	tenant.Name = name
	tenant.Plan = plan
	tenant.MaxUsers = maxUsers
	tenant.MaxItems = maxItems
	tenant.MaxCustomers = maxCustomers

	if err := r.db.Save(tenant).Error; err != nil {
		return nil, err
	}
	return tenant, nil
}

// UpdateStatus 设置租户状态（幂等：已是目标状态时不报错）
// changed为false表示本来就是目标状态，调用方据此跳过审计
func (r *TenantRepository) UpdateStatus(id uint, status string) (*models.Tenant, bool, error) {
	tenant, err := r.GetByID(id)
	if err != nil {
		return nil, false, err
	}

	if tenant.Status == status {
		return tenant, false, nil
	}

	tenant.Status = status
	if err := r.db.Save(tenant).Error; err != nil {
		return nil, false, err
	}
	return tenant, true, nil
}

// BulkUpdateStatus 批量设置租户状态
func (r *TenantRepository) BulkUpdateStatus(ids []uint, status string) (int64, error) {
	result := r.db.Model(&models.Tenant{}).Where("id IN ?", ids).Update("status", status)
	return result.RowsAffected, result.Error
}

// HasChildren 是否存在子记录（存在则不允许硬删除）
func (r *TenantRepository) HasChildren(id uint) (bool, error) {
	for _, model := range []interface{}{
		&models.User{}, &models.Customer{}, &models.Item{}, &models.Order{},
	} {
		var count int64
		if err := r.db.Model(model).Where("tenant_id = ?", id).Count(&count).Error; err != nil {
			return false, err
		}
		if count > 0 {
			return true, nil
		}
	}
	return false, nil
}

// Delete 硬删除租户，仅允许无任何子记录的空租户
func (r *TenantRepository) Delete(id uint) error {
	hasChildren, err := r.HasChildren(id)
	if err != nil {
		return err
	}
	if hasChildren {
		return apperrors.New(apperrors.BizValidationError, "租户下存在数据，只能停用不能删除")
	}

	result := r.db.Delete(&models.Tenant{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrTenantNotFound
	}
	return nil
}

// StatusCount 状态分布统计
type StatusCount struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

// GetStatusDistribution 统计各状态的租户数
func (r *TenantRepository) GetStatusDistribution() ([]*StatusCount, error) {
	var results []*StatusCount
	err := r.db.Model(&models.Tenant{}).
		Select("status, COUNT(*) as count").
		Group("status").
		Find(&results).Error
	return results, err
}

// PlanCount 套餐分布统计
type PlanCount struct {
	Plan  string `json:"plan"`
	Count int64  `json:"count"`
}

// GetPlanDistribution 统计各套餐的租户数
func (r *TenantRepository) GetPlanDistribution() ([]*PlanCount, error) {
	var results []*PlanCount
	err := r.db.Model(&models.Tenant{}).
		Select("plan, COUNT(*) as count").
		Group("plan").
		Find(&results).Error
	return results, err
}

// ListActiveIDs 所有激活租户的ID（平台总览用）
func (r *TenantRepository) ListActiveIDs() ([]uint, error) {
	var ids []uint
	err := r.db.Model(&models.Tenant{}).
		Where("status = ?", models.TenantStatusActive).
		Order("id").
		Pluck("id", &ids).Error
	return ids, err
}
