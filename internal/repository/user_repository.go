package repository

import (
	"fmt"

	"servaan/internal/models"
	apperrors "servaan/pkg/errors"
	"servaan/pkg/pagination"

	"gorm.io/gorm"
)

// UserRepository 用户仓储
// 所有方法的第一个参数都是tenantID，结构上无法发出未限定租户的查询
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// List 租户内用户列表
func (r *UserRepository) List(tenantID uint, status, keyword string, params *pagination.PageParams) ([]*models.User, int64, error) {
	var users []*models.User
	var total int64

	query := r.db.Model(&models.User{}).Scopes(tenantScope(tenantID))

	if status != "" {
		query = query.Where("status = ?", status)
	}
	if keyword != "" {
		searchPattern := fmt.Sprintf("%%%s%%", keyword)
		query = query.Where("username LIKE ? OR name LIKE ? OR email LIKE ?", searchPattern, searchPattern, searchPattern)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.Scopes(paginate(params)).Find(&users).Error; err != nil {
		return nil, 0, err
	}

	return users, total, nil
}

// GetByID 根据ID获取用户
// 查询已带租户条件，取回后再比对一次租户归属（纵深防御）
func (r *UserRepository) GetByID(tenantID, id uint) (*models.User, error) {
	var user models.User
	if err := r.db.Scopes(tenantScope(tenantID)).First(&user, id).Error; err != nil {
		return nil, translateNotFound(err)
	}
	if user.TenantID != tenantID {
		return nil, apperrors.ErrNotFound
	}
	return &user, nil
}

// GetByUsername 租户内按用户名查询
func (r *UserRepository) GetByUsername(tenantID uint, username string) (*models.User, error) {
	var user models.User
	if err := r.db.Scopes(tenantScope(tenantID)).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, translateNotFound(err)
	}
	if user.TenantID != tenantID {
		return nil, apperrors.ErrNotFound
	}
	return &user, nil
}

// GetPlatformUserByUsername 平台用户查询（tenant_id固定为0）
func (r *UserRepository) GetPlatformUserByUsername(username string) (*models.User, error) {
	var user models.User
	err := r.db.Where("tenant_id = 0 AND username = ? AND is_platform_admin = ?", username, true).First(&user).Error
	if err != nil {
		return nil, translateNotFound(err)
	}
	return &user, nil
}

// Create 创建用户
// TenantID一律取自参数；载荷里带的租户值在这里被覆盖
// 配额检查和插入在同一事务内完成
func (r *UserRepository) Create(tenantID uint, user *models.User) error {
	user.TenantID = tenantID
	user.IsPlatformAdmin = false
	user.PlatformRole = ""

	if err := checkUniqueInTenant(r.db, &models.User{}, tenantID, "username", user.Username, 0); err != nil {
		return err
	}
	if err := checkUniqueInTenant(r.db, &models.User{}, tenantID, "email", user.Email, 0); err != nil {
		return err
	}

	return createWithQuota(r.db, tenantID, &models.User{},
		func(t *models.Tenant) int { return t.MaxUsers }, user)
}

// Update 更新用户资料（角色、姓名、电话、邮箱）
// 补丁不可能触碰tenant_id，字段逐一显式赋值
func (r *UserRepository) Update(tenantID, id uint, name, email, role string, phone *string) (*models.User, error) {
	user, err := r.GetByID(tenantID, id)
	if err != nil {
		return nil, err
	}

	if email != user.Email {
		if err := checkUniqueInTenant(r.db, &models.User{}, tenantID, "email", email, id); err != nil {
			return nil, err
		}
	}

	user.Name = name
	user.Email = email
	user.Role = role
	user.Phone = phone

	if err := r.db.Save(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// UpdatePassword 修改密码
func (r *UserRepository) UpdatePassword(tenantID, id uint, passwordHash string) error {
	result := r.db.Model(&models.User{}).
		Scopes(tenantScope(tenantID)).
		Where("id = ?", id).
		Update("password_hash", passwordHash)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// SetStatus 设置用户状态（幂等软删除）
// changed返回false表示已是目标状态，无任何状态变更
func (r *UserRepository) SetStatus(tenantID, id uint, status string) (user *models.User, changed bool, err error) {
	user, err = r.GetByID(tenantID, id)
	if err != nil {
		return nil, false, err
	}

	if user.Status == status {
		return user, false, nil
	}

	user.Status = status
	if err := r.db.Save(user).Error; err != nil {
		return nil, false, err
	}
	return user, true, nil
}

// TouchLastLogin 记录最近登录时间
func (r *UserRepository) TouchLastLogin(id uint) error {
	return r.db.Model(&models.User{}).Where("id = ?", id).
		Update("last_login_at", gorm.Expr("CURRENT_TIMESTAMP")).Error
}

// CountActive 租户内激活用户数
func (r *UserRepository) CountActive(tenantID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.User{}).
		Scopes(tenantScope(tenantID)).
		Where("status = ?", models.UserStatusActive).
		Count(&count).Error
	return count, err
}
