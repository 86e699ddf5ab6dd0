package services

import (
	"regexp"

	"servaan/internal/models"
	"servaan/internal/repository"
	"servaan/pkg/config"
	apperrors "servaan/pkg/errors"
	"servaan/pkg/pagination"

	"gorm.io/gorm"
)

// TenantService 租户管理（平台级）
type TenantService struct {
	repo *repository.TenantRepository
	cfg  *config.Config
}

// TenantStats 租户统计信息
type TenantStats struct {
	Total    int64                     `json:"total"`
	Active   int64                     `json:"active"`
	Inactive int64                     `json:"inactive"`
	ByPlan   []*repository.PlanCount   `json:"by_plan"`
	ByStatus []*repository.StatusCount `json:"by_status"`
}

func NewTenantService(db *gorm.DB) *TenantService {
	return &TenantService{
		repo: repository.NewTenantRepository(db),
		cfg:  config.GetConfig(),
	}
}

// 子域名规则：小写字母数字和连字符，2-40个字符，不以连字符开头结尾
var subdomainPattern = regexp.MustCompile(`^[a-z0-9]([a-z0-9-]{0,38}[a-z0-9])?$`)

// ValidateSubdomain 校验子域名
func ValidateSubdomain(subdomain string) bool {
	if len(subdomain) < 2 || len(subdomain) > 40 {
		return false
	}
	return subdomainPattern.MatchString(subdomain)
}

// Create 创建租户，配额按套餐取默认值
func (s *TenantService) Create(name, subdomain, plan string) (*models.Tenant, error) {
	if !ValidateSubdomain(subdomain) {
		return nil, apperrors.New(apperrors.BizValidationError, "子域名只能包含小写字母、数字和连字符，长度2-40")
	}
	if plan == "" {
		plan = models.TenantPlanStarter
	}
	if !isValidPlan(plan) {
		return nil, apperrors.New(apperrors.BizValidationError, "无效的套餐类型")
	}

	tenant := &models.Tenant{
		Name:         name,
		Subdomain:    subdomain,
		Plan:         plan,
		Status:       models.TenantStatusActive,
		MaxUsers:     s.cfg.Quota.DefaultMaxUsers,
		MaxItems:     s.cfg.Quota.DefaultMaxItems,
		MaxCustomers: s.cfg.Quota.DefaultMaxCustomers,
	}

	if err := s.repo.Create(tenant); err != nil {
		return nil, err
	}
	return tenant, nil
}

// GetByID 根据ID获取租户
func (s *TenantService) GetByID(id uint) (*models.Tenant, error) {
	return s.repo.GetByID(id)
}

// List 组合查询（分页版本）
func (s *TenantService) List(status, keyword string, params *pagination.PageParams) ([]*models.Tenant, int64, error) {
	return s.repo.List(status, keyword, params)
}

// Update 更新租户（子域名不可变更）
func (s *TenantService) Update(id uint, name, plan string, maxUsers, maxItems, maxCustomers int) (*models.Tenant, error) {
	if !isValidPlan(plan) {
		return nil, apperrors.New(apperrors.BizValidationError, "无效的套餐类型")
	}
	if maxUsers < 0 || maxItems < 0 || maxCustomers < 0 {
		return nil, apperrors.New(apperrors.BizValidationError, "配额不能为负数")
	}
	return s.repo.Update(id, name, plan, maxUsers, maxItems, maxCustomers)
}

// Activate 激活租户（幂等）
func (s *TenantService) Activate(id uint) (*models.Tenant, bool, error) {
	return s.repo.UpdateStatus(id, models.TenantStatusActive)
}

// Deactivate 停用租户（软删除，幂等）
func (s *TenantService) Deactivate(id uint) (*models.Tenant, bool, error) {
	return s.repo.UpdateStatus(id, models.TenantStatusInactive)
}

// BulkUpdateStatus 批量设置租户状态
func (s *TenantService) BulkUpdateStatus(ids []uint, status string) (int64, error) {
	if status != models.TenantStatusActive && status != models.TenantStatusInactive {
		return 0, apperrors.New(apperrors.BizValidationError, "状态只能是 active 或 inactive")
	}
	return s.repo.BulkUpdateStatus(ids, status)
}

// Delete 硬删除空租户
func (s *TenantService) Delete(id uint) error {
	return s.repo.Delete(id)
}

// GetStats 获取租户统计
func (s *TenantService) GetStats() (*TenantStats, error) {
	byStatus, err := s.repo.GetStatusDistribution()
	if err != nil {
		return nil, err
	}
	byPlan, err := s.repo.GetPlanDistribution()
	if err != nil {
		return nil, err
	}

	stats := &TenantStats{ByPlan: byPlan, ByStatus: byStatus}
	for _, sc := range byStatus {
		stats.Total += sc.Count
		switch sc.Status {
		case models.TenantStatusActive:
			stats.Active = sc.Count
		case models.TenantStatusInactive:
			stats.Inactive = sc.Count
		}
	}
	return stats, nil
}

func isValidPlan(plan string) bool {
	switch plan {
	case models.TenantPlanStarter, models.TenantPlanBusiness, models.TenantPlanEnterprise:
		return true
	default:
		return false
	}
}
