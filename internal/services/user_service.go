package services

import (
	"servaan/internal/models"
	"servaan/internal/repository"
	apperrors "servaan/pkg/errors"
	"servaan/pkg/jwt"
	"servaan/pkg/pagination"

	"gorm.io/gorm"
)

// UserService 用户管理 + 登录
type UserService struct {
	repo       *repository.UserRepository
	tenantRepo *repository.TenantRepository
	jwtManager *jwt.JWTManager
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{
		repo:       repository.NewUserRepository(db),
		tenantRepo: repository.NewTenantRepository(db),
		jwtManager: jwt.GetJWTManager(),
	}
}

// LoginResult 登录结果
type LoginResult struct {
	Token     string       `json:"token"`
	ExpiresIn int64        `json:"expires_in"` // 令牌有效期（秒）
	User      *models.User `json:"user"`
}

// Login 登录
// subdomain为空表示平台用户登录；租户用户必须带子域名且租户处于激活状态
func (s *UserService) Login(subdomain, username, password string) (*LoginResult, error) {
	var user *models.User
	var tenantID uint

	if subdomain == "" {
		platformUser, err := s.repo.GetPlatformUserByUsername(username)
		if err != nil {
			return nil, apperrors.ErrUnauthorized
		}
		user = platformUser
	} else {
		tenant, err := s.tenantRepo.GetBySubdomain(subdomain)
		if err != nil {
			return nil, err
		}
		if tenant.Status != models.TenantStatusActive {
			return nil, apperrors.ErrTenantInactive
		}

		tenantUser, err := s.repo.GetByUsername(tenant.ID, username)
		if err != nil {
			return nil, apperrors.ErrUnauthorized
		}
		user = tenantUser
		tenantID = tenant.ID
	}

	if user.Status != models.UserStatusActive {
		return nil, apperrors.ErrUnauthorized
	}
	if !user.CheckPassword(password) {
		return nil, apperrors.ErrUnauthorized
	}

	token, err := s.jwtManager.GenerateToken(user.ID, tenantID, user.Username, user.Role, user.IsPlatformAdmin, user.PlatformRole)
	if err != nil {
		return nil, err
	}

	// 登录时间只做尽力记录
	_ = s.repo.TouchLastLogin(user.ID)

	return &LoginResult{
		Token:     token,
		ExpiresIn: int64(s.jwtManager.GetTokenDuration().Seconds()),
		User:      user,
	}, nil
}

// RefreshToken 刷新令牌
func (s *UserService) RefreshToken(tokenString string) (string, error) {
	return s.jwtManager.RefreshToken(tokenString)
}

// GetByID 根据ID获取用户
func (s *UserService) GetByID(tenantID, id uint) (*models.User, error) {
	return s.repo.GetByID(tenantID, id)
}

// List 租户内用户列表
func (s *UserService) List(tenantID uint, status, keyword string, params *pagination.PageParams) ([]*models.User, int64, error) {
	return s.repo.List(tenantID, status, keyword, params)
}

// Create 创建用户
func (s *UserService) Create(tenantID uint, username, email, name, password, role string, phone *string) (*models.User, error) {
	if !isValidTenantRole(role) {
		return nil, apperrors.New(apperrors.BizValidationError, "无效的角色")
	}

	user := &models.User{
		Username: username,
		Email:    email,
		Name:     name,
		Role:     role,
		Phone:    phone,
		Status:   models.UserStatusActive,
	}
	if err := user.SetPassword(password); err != nil {
		return nil, err
	}

	if err := s.repo.Create(tenantID, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Update 更新用户资料
func (s *UserService) Update(tenantID, id uint, name, email, role string, phone *string) (*models.User, error) {
	if !isValidTenantRole(role) {
		return nil, apperrors.New(apperrors.BizValidationError, "无效的角色")
	}
	return s.repo.Update(tenantID, id, name, email, role, phone)
}

// ResetPassword 重置密码
func (s *UserService) ResetPassword(tenantID, id uint, newPassword string) error {
	user := &models.User{}
	if err := user.SetPassword(newPassword); err != nil {
		return err
	}
	return s.repo.UpdatePassword(tenantID, id, user.PasswordHash)
}

// Activate 激活用户（幂等）
func (s *UserService) Activate(tenantID, id uint) (*models.User, bool, error) {
	return s.repo.SetStatus(tenantID, id, models.UserStatusActive)
}

// Deactivate 停用用户（软删除，幂等）
func (s *UserService) Deactivate(tenantID, id uint) (*models.User, bool, error) {
	return s.repo.SetStatus(tenantID, id, models.UserStatusInactive)
}

func isValidTenantRole(role string) bool {
	switch role {
	case models.RoleAdmin, models.RoleManager, models.RoleStaff:
		return true
	default:
		return false
	}
}
