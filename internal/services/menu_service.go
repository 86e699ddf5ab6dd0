package services

import (
	"servaan/internal/models"
	"servaan/internal/repository"

	"gorm.io/gorm"
)

// MenuService 菜单分类管理
type MenuService struct {
	repo     *repository.MenuCategoryRepository
	itemRepo *repository.ItemRepository
}

func NewMenuService(db *gorm.DB) *MenuService {
	return &MenuService{
		repo:     repository.NewMenuCategoryRepository(db),
		itemRepo: repository.NewItemRepository(db),
	}
}

// List 租户内全部分类
func (s *MenuService) List(tenantID uint) ([]*models.MenuCategory, error) {
	return s.repo.List(tenantID)
}

// GetByID 根据ID获取分类
func (s *MenuService) GetByID(tenantID, id uint) (*models.MenuCategory, error) {
	return s.repo.GetByID(tenantID, id)
}

// Create 创建分类
func (s *MenuService) Create(tenantID uint, name string, sortOrder int) (*models.MenuCategory, error) {
	category := &models.MenuCategory{
		Name:      name,
		SortOrder: sortOrder,
		IsActive:  true,
	}

	if err := s.repo.Create(tenantID, category); err != nil {
		return nil, err
	}
	return category, nil
}

// Update 更新分类
func (s *MenuService) Update(tenantID, id uint, name string, sortOrder int, isActive bool) (*models.MenuCategory, error) {
	return s.repo.Update(tenantID, id, name, sortOrder, isActive)
}

// Delete 删除分类（分类下有商品时拒绝）
func (s *MenuService) Delete(tenantID, id uint) error {
	itemCount, err := s.itemRepo.CountByCategory(tenantID, id)
	if err != nil {
		return err
	}
	return s.repo.Delete(tenantID, id, itemCount)
}
