package authz

import (
	"testing"

	"servaan/internal/models"
	apperrors "servaan/pkg/errors"

	"github.com/stretchr/testify/assert"
)

func tenantPrincipal(tenantID uint, role string) *Principal {
	return &Principal{
		UserID:   1,
		TenantID: tenantID,
		Role:     role,
	}
}

func platformPrincipal(role string) *Principal {
	return &Principal{
		UserID:          1,
		IsPlatformAdmin: true,
		PlatformRole:    role,
	}
}

// 空主体一律拒绝
func TestAuthorizeNilPrincipal(t *testing.T) {
	err := Authorize(nil, 1, ActionItemList)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

// 未在矩阵中列出的组合默认拒绝
func TestAuthorizeDenyByDefault(t *testing.T) {
	p := tenantPrincipal(1, models.RoleStaff)

	assert.ErrorIs(t, Authorize(p, 1, ActionUserCreate), apperrors.ErrForbidden)
	assert.ErrorIs(t, Authorize(p, 1, ActionAuditExport), apperrors.ErrForbidden)
	assert.ErrorIs(t, Authorize(p, 1, "item:whatever"), apperrors.ErrForbidden)

	// 未知角色没有任何权限
	unknown := tenantPrincipal(1, "intern")
	assert.ErrorIs(t, Authorize(unknown, 1, ActionItemList), apperrors.ErrForbidden)
}

// 租户用户不能跨租户操作，即使角色本身有该权限
func TestAuthorizeCrossTenantDenied(t *testing.T) {
	p := tenantPrincipal(1, models.RoleAdmin)

	assert.NoError(t, Authorize(p, 1, ActionItemCreate))
	assert.ErrorIs(t, Authorize(p, 2, ActionItemCreate), apperrors.ErrForbidden)
	assert.ErrorIs(t, Authorize(p, 2, ActionItemList), apperrors.ErrForbidden)
}

// 租户用户不允许任何平台级操作
func TestAuthorizeTenantUserPlatformDenied(t *testing.T) {
	p := tenantPrincipal(1, models.RoleAdmin)

	assert.ErrorIs(t, Authorize(p, 0, ActionTenantCreate), apperrors.ErrForbidden)
	assert.ErrorIs(t, Authorize(p, 0, ActionPlatformOverview), apperrors.ErrForbidden)
}

// 租户角色矩阵
func TestAuthorizeTenantRoles(t *testing.T) {
	admin := tenantPrincipal(1, models.RoleAdmin)
	manager := tenantPrincipal(1, models.RoleManager)
	staff := tenantPrincipal(1, models.RoleStaff)

	assert.NoError(t, Authorize(admin, 1, ActionUserDeactivate))
	assert.NoError(t, Authorize(admin, 1, ActionAuditExport))

	assert.NoError(t, Authorize(manager, 1, ActionItemUpdatePrice))
	assert.ErrorIs(t, Authorize(manager, 1, ActionItemCreate), apperrors.ErrForbidden)
	assert.ErrorIs(t, Authorize(manager, 1, ActionUserCreate), apperrors.ErrForbidden)

	assert.NoError(t, Authorize(staff, 1, ActionOrderCreate))
	assert.ErrorIs(t, Authorize(staff, 1, ActionItemUpdatePrice), apperrors.ErrForbidden)
	assert.ErrorIs(t, Authorize(staff, 1, ActionReportRead), apperrors.ErrForbidden)
}

// 平台角色矩阵
func TestAuthorizePlatformRoles(t *testing.T) {
	super := platformPrincipal(models.PlatformRoleSuperAdmin)
	admin := platformPrincipal(models.PlatformRoleAdmin)
	support := platformPrincipal(models.PlatformRoleSupport)

	assert.NoError(t, Authorize(super, 0, ActionTenantDeactivate))
	assert.NoError(t, Authorize(super, 0, ActionTenantBulkStatus))

	assert.NoError(t, Authorize(admin, 0, ActionTenantActivate))
	assert.ErrorIs(t, Authorize(admin, 0, ActionTenantDeactivate), apperrors.ErrForbidden)
	assert.ErrorIs(t, Authorize(admin, 0, ActionTenantBulkStatus), apperrors.ErrForbidden)

	assert.NoError(t, Authorize(support, 0, ActionTenantList))
	assert.ErrorIs(t, Authorize(support, 0, ActionTenantCreate), apperrors.ErrForbidden)
	assert.ErrorIs(t, Authorize(support, 0, ActionTenantDeactivate), apperrors.ErrForbidden)
}

// 平台用户不能借租户上下文获取租户级数据权限
func TestAuthorizePlatformUserTenantActionDenied(t *testing.T) {
	super := platformPrincipal(models.PlatformRoleSuperAdmin)

	assert.ErrorIs(t, Authorize(super, 1, ActionItemList), apperrors.ErrForbidden)
	assert.ErrorIs(t, Authorize(super, 1, ActionOrderCreate), apperrors.ErrForbidden)
}
