package repository

import (
	"fmt"
	"time"

	"servaan/internal/models"
	apperrors "servaan/pkg/errors"
	"servaan/pkg/pagination"

	"gorm.io/gorm"
)

// CustomerRepository 客户仓储
type CustomerRepository struct {
	db *gorm.DB
}

func NewCustomerRepository(db *gorm.DB) *CustomerRepository {
	return &CustomerRepository{db: db}
}

// List 租户内客户列表
func (r *CustomerRepository) List(tenantID uint, status, keyword string, params *pagination.PageParams) ([]*models.Customer, int64, error) {
	var customers []*models.Customer
	var total int64

	query := r.db.Model(&models.Customer{}).Scopes(tenantScope(tenantID))

	if status != "" {
		query = query.Where("status = ?", status)
	}
	if keyword != "" {
		searchPattern := fmt.Sprintf("%%%s%%", keyword)
		query = query.Where("name LIKE ? OR phone LIKE ?", searchPattern, searchPattern)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.Scopes(paginate(params)).Find(&customers).Error; err != nil {
		return nil, 0, err
	}

	return customers, total, nil
}

// GetByID 根据ID获取客户（取回后再比对租户归属）
func (r *CustomerRepository) GetByID(tenantID, id uint) (*models.Customer, error) {
	var customer models.Customer
	if err := r.db.Scopes(tenantScope(tenantID)).First(&customer, id).Error; err != nil {
		return nil, translateNotFound(err)
	}
	if customer.TenantID != tenantID {
		return nil, apperrors.ErrNotFound
	}
	return &customer, nil
}

// Create 创建客户，配额检查和插入在同一事务内
func (r *CustomerRepository) Create(tenantID uint, customer *models.Customer) error {
	customer.TenantID = tenantID

	if err := checkUniqueInTenant(r.db, &models.Customer{}, tenantID, "phone", customer.Phone, 0); err != nil {
		return err
	}

	return createWithQuota(r.db, tenantID, &models.Customer{},
		func(t *models.Tenant) int { return t.MaxCustomers }, customer)
}

// Update 更新客户资料
func (r *CustomerRepository) Update(tenantID, id uint, name, phone, note string, email *string) (*models.Customer, error) {
	customer, err := r.GetByID(tenantID, id)
	if err != nil {
		return nil, err
	}

	if phone != customer.Phone {
		if err := checkUniqueInTenant(r.db, &models.Customer{}, tenantID, "phone", phone, id); err != nil {
			return nil, err
		}
	}

	customer.Name = name
	customer.Phone = phone
	customer.Email = email
	customer.Note = note

	if err := r.db.Save(customer).Error; err != nil {
		return nil, err
	}
	return customer, nil
}

// RecordVisit 记录一次到店
func (r *CustomerRepository) RecordVisit(tenantID, id uint) error {
	result := r.db.Model(&models.Customer{}).
		Scopes(tenantScope(tenantID)).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"visit_count":   gorm.Expr("visit_count + 1"),
			"last_visit_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// SetStatus 设置客户状态（幂等软删除）
func (r *CustomerRepository) SetStatus(tenantID, id uint, status string) (customer *models.Customer, changed bool, err error) {
	customer, err = r.GetByID(tenantID, id)
	if err != nil {
		return nil, false, err
	}

	if customer.Status == status {
		return customer, false, nil
	}

	customer.Status = status
	if err := r.db.Save(customer).Error; err != nil {
		return nil, false, err
	}
	return customer, true, nil
}

// CountActive 租户内激活客户数
func (r *CustomerRepository) CountActive(tenantID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Customer{}).
		Scopes(tenantScope(tenantID)).
		Where("status = ?", models.CustomerStatusActive).
		Count(&count).Error
	return count, err
}
