package services

import (
	"servaan/internal/models"
	"servaan/internal/repository"
	apperrors "servaan/pkg/errors"

	"gorm.io/gorm"
)

// TableService 餐台管理
type TableService struct {
	repo      *repository.TableRepository
	orderRepo *repository.OrderRepository
}

func NewTableService(db *gorm.DB) *TableService {
	return &TableService{
		repo:      repository.NewTableRepository(db),
		orderRepo: repository.NewOrderRepository(db),
	}
}

// List 租户内餐台列表
func (s *TableService) List(tenantID uint, status string) ([]*models.Table, error) {
	return s.repo.List(tenantID, status)
}

// GetByID 根据ID获取餐台
func (s *TableService) GetByID(tenantID, id uint) (*models.Table, error) {
	return s.repo.GetByID(tenantID, id)
}

// Create 创建餐台
func (s *TableService) Create(tenantID uint, number string, capacity int) (*models.Table, error) {
	if capacity < 1 {
		return nil, apperrors.New(apperrors.BizValidationError, "座位数必须大于0")
	}

	table := &models.Table{
		Number:   number,
		Capacity: capacity,
		Status:   models.TableStatusAvailable,
	}

	if err := s.repo.Create(tenantID, table); err != nil {
		return nil, err
	}
	return table, nil
}

// Update 更新餐台
func (s *TableService) Update(tenantID, id uint, number string, capacity int) (*models.Table, error) {
	if capacity < 1 {
		return nil, apperrors.New(apperrors.BizValidationError, "座位数必须大于0")
	}
	return s.repo.Update(tenantID, id, number, capacity)
}

// UpdateStatus 设置餐台状态
func (s *TableService) UpdateStatus(tenantID, id uint, status string) (*models.Table, error) {
	switch status {
	case models.TableStatusAvailable, models.TableStatusOccupied, models.TableStatusReserved:
	default:
		return nil, apperrors.New(apperrors.BizValidationError, "无效的餐台状态")
	}
	return s.repo.UpdateStatus(tenantID, id, status)
}

// Delete 删除餐台（有未完结订单时拒绝）
func (s *TableService) Delete(tenantID, id uint) error {
	activeOrders, err := s.orderRepo.CountActiveForTable(tenantID, id)
	if err != nil {
		return err
	}
	if activeOrders > 0 {
		return apperrors.New(apperrors.BizValidationError, "餐台存在未完结订单，无法删除")
	}

	return s.repo.Delete(tenantID, id)
}
