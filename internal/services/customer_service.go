package services

import (
	"servaan/internal/models"
	"servaan/internal/repository"
	"servaan/pkg/pagination"

	"gorm.io/gorm"
)

// CustomerService 客户管理
type CustomerService struct {
	repo *repository.CustomerRepository
}

func NewCustomerService(db *gorm.DB) *CustomerService {
	return &CustomerService{
		repo: repository.NewCustomerRepository(db),
	}
}

// List 租户内客户列表
func (s *CustomerService) List(tenantID uint, status, keyword string, params *pagination.PageParams) ([]*models.Customer, int64, error) {
	return s.repo.List(tenantID, status, keyword, params)
}

// GetByID 根据ID获取客户
func (s *CustomerService) GetByID(tenantID, id uint) (*models.Customer, error) {
	return s.repo.GetByID(tenantID, id)
}

// Create 创建客户
func (s *CustomerService) Create(tenantID uint, name, phone, note string, email *string) (*models.Customer, error) {
	customer := &models.Customer{
		Name:   name,
		Phone:  phone,
		Email:  email,
		Note:   note,
		Status: models.CustomerStatusActive,
	}

	if err := s.repo.Create(tenantID, customer); err != nil {
		return nil, err
	}
	return customer, nil
}

// Update 更新客户
func (s *CustomerService) Update(tenantID, id uint, name, phone, note string, email *string) (*models.Customer, error) {
	return s.repo.Update(tenantID, id, name, phone, note, email)
}

// Activate 激活客户（幂等）
func (s *CustomerService) Activate(tenantID, id uint) (*models.Customer, bool, error) {
	return s.repo.SetStatus(tenantID, id, models.CustomerStatusActive)
}

// Deactivate 停用客户（软删除，幂等）
func (s *CustomerService) Deactivate(tenantID, id uint) (*models.Customer, bool, error) {
	return s.repo.SetStatus(tenantID, id, models.CustomerStatusInactive)
}
