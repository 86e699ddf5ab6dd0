package repository

import (
	"errors"
	"fmt"

	"servaan/internal/models"
	apperrors "servaan/pkg/errors"
	"servaan/pkg/pagination"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// stableOrder 分页的稳定排序键，保证翻页顺序确定
const stableOrder = "created_at DESC, id DESC"

// tenantScope 租户隔离条件
// 所有仓储查询都通过它拼接 tenant_id 等值条件，调用方无法绕过
func tenantScope(tenantID uint) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("tenant_id = ?", tenantID)
	}
}

// paginate 分页条件
func paginate(params *pagination.PageParams) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Order(stableOrder).Offset(params.GetOffset()).Limit(params.GetLimit())
	}
}

// translateNotFound 统一NOT_FOUND转换
// 记录不存在和属于其他租户对调用方不可区分
func translateNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.ErrNotFound
	}
	return err
}

// lockTenant 在事务内锁定租户行，串行化同租户的并发创建
// sqlite（测试环境）写事务本身互斥，不支持也不需要FOR UPDATE
func lockTenant(tx *gorm.DB, tenantID uint) (*models.Tenant, error) {
	query := tx.Model(&models.Tenant{})
	if tx.Dialector.Name() == "postgres" {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var tenant models.Tenant
	if err := query.Where("id = ?", tenantID).First(&tenant).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTenantNotFound
		}
		return nil, err
	}
	return &tenant, nil
}

// createWithQuota 配额检查和插入在同一事务内完成
// 数一遍、比一遍、插一条，失败时不落任何行
func createWithQuota(db *gorm.DB, tenantID uint, countModel interface{}, quotaOf func(*models.Tenant) int, entity interface{}) error {
	return db.Transaction(func(tx *gorm.DB) error {
		tenant, err := lockTenant(tx, tenantID)
		if err != nil {
			return err
		}

		var count int64
		if err := tx.Model(countModel).Where("tenant_id = ?", tenantID).Count(&count).Error; err != nil {
			return err
		}

		quota := quotaOf(tenant)
		if quota > 0 && count >= int64(quota) {
			return apperrors.ErrQuotaExceeded
		}

		return tx.Create(entity).Error
	})
}

// checkUniqueInTenant 租户内唯一性检查
func checkUniqueInTenant(db *gorm.DB, model interface{}, tenantID uint, field, value string, excludeID uint) error {
	var count int64
	query := db.Model(model).Where("tenant_id = ? AND "+field+" = ?", tenantID, value)
	if excludeID > 0 {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return apperrors.New(apperrors.BizValidationError, fmt.Sprintf("%s 已存在", value))
	}
	return nil
}
