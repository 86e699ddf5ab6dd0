package services

import (
	"testing"

	"servaan/internal/models"
	apperrors "servaan/pkg/errors"
	"servaan/pkg/jwt"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 租户用户登录
func TestLoginTenantUser(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db)
	dima := seedTenant(t, db, "dima")
	seedUser(t, db, dima.ID, "admin", "Admin@123", models.RoleAdmin)

	result, err := svc.Login("dima", "admin", "Admin@123")
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)
	assert.Positive(t, result.ExpiresIn)
	assert.Equal(t, "admin", result.User.Username)

	// 令牌携带租户信息
	claims, err := jwt.GetJWTManager().VerifyToken(result.Token)
	require.NoError(t, err)
	assert.Equal(t, dima.ID, claims.TenantID)
	assert.Equal(t, models.RoleAdmin, claims.Role)
}

// 认证失败统一返回UNAUTHORIZED，不暴露细节
func TestLoginFailures(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db)
	dima := seedTenant(t, db, "dima")
	user := seedUser(t, db, dima.ID, "admin", "Admin@123", models.RoleAdmin)

	// 密码错误
	_, err := svc.Login("dima", "admin", "wrong")
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)

	// 用户不存在
	_, err = svc.Login("dima", "nobody", "Admin@123")
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)

	// 用户被停用
	require.NoError(t, db.Model(&models.User{}).Where("id = ?", user.ID).
		Update("status", models.UserStatusInactive).Error)
	_, err = svc.Login("dima", "admin", "Admin@123")
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

// 停用租户的用户无法登录
func TestLoginInactiveTenant(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db)
	dima := seedTenant(t, db, "dima")
	seedUser(t, db, dima.ID, "admin", "Admin@123", models.RoleAdmin)

	require.NoError(t, db.Model(&models.Tenant{}).Where("id = ?", dima.ID).
		Update("status", models.TenantStatusInactive).Error)

	_, err := svc.Login("dima", "admin", "Admin@123")
	assert.ErrorIs(t, err, apperrors.ErrTenantInactive)

	// 未知子域名
	_, err = svc.Login("nobody", "admin", "Admin@123")
	assert.ErrorIs(t, err, apperrors.ErrTenantNotFound)
}

// 平台用户不带子域名登录
func TestLoginPlatformUser(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db)

	platform := &models.User{
		Username:        "platform",
		Email:           "platform@example.com",
		Name:            "平台管理员",
		Role:            models.RoleAdmin,
		Status:          models.UserStatusActive,
		IsPlatformAdmin: true,
		PlatformRole:    models.PlatformRoleSuperAdmin,
	}
	require.NoError(t, platform.SetPassword("Platform@123"))
	require.NoError(t, db.Create(platform).Error)

	result, err := svc.Login("", "platform", "Platform@123")
	require.NoError(t, err)

	claims, err := jwt.GetJWTManager().VerifyToken(result.Token)
	require.NoError(t, err)
	assert.True(t, claims.IsPlatformAdmin)
	assert.Equal(t, models.PlatformRoleSuperAdmin, claims.PlatformRole)
	assert.EqualValues(t, 0, claims.TenantID)

	// 租户用户不能走平台入口
	dima := seedTenant(t, db, "dima")
	seedUser(t, db, dima.ID, "admin", "Admin@123", models.RoleAdmin)
	_, err = svc.Login("", "admin", "Admin@123")
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

// 角色校验
func TestUserServiceCreateRoleValidation(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db)
	dima := seedTenant(t, db, "dima")

	_, err := svc.Create(dima.ID, "bob", "bob@example.com", "Bob", "Secret@123", "owner", nil)
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.BizValidationError, appErr.Code)

	user, err := svc.Create(dima.ID, "bob", "bob@example.com", "Bob", "Secret@123", models.RoleStaff, nil)
	require.NoError(t, err)
	assert.Equal(t, dima.ID, user.TenantID)
	assert.True(t, user.CheckPassword("Secret@123"))
}
