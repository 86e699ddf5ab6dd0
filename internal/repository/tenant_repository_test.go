package repository

import (
	"testing"

	"servaan/internal/models"
	apperrors "servaan/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 子域名全局唯一
func TestTenantCreateDuplicateSubdomain(t *testing.T) {
	db := newTestDB(t)
	repo := NewTenantRepository(db)
	seedTenant(t, db, "dima")

	err := repo.Create(&models.Tenant{Name: "重名", Subdomain: "dima"})
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.BizValidationError, appErr.Code)
}

// 未注册的子域名返回TENANT_NOT_FOUND
func TestTenantGetBySubdomain(t *testing.T) {
	db := newTestDB(t)
	repo := NewTenantRepository(db)
	seedTenant(t, db, "dima")

	got, err := repo.GetBySubdomain("dima")
	require.NoError(t, err)
	assert.Equal(t, "dima", got.Subdomain)

	_, err = repo.GetBySubdomain("nobody")
	assert.ErrorIs(t, err, apperrors.ErrTenantNotFound)
}

// 停用幂等：重复停用不报错，且changed标记为false
func TestTenantUpdateStatusIdempotent(t *testing.T) {
	db := newTestDB(t)
	repo := NewTenantRepository(db)
	dima := seedTenant(t, db, "dima")

	got, changed, err := repo.UpdateStatus(dima.ID, models.TenantStatusInactive)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, models.TenantStatusInactive, got.Status)

	got, changed, err = repo.UpdateStatus(dima.ID, models.TenantStatusInactive)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, models.TenantStatusInactive, got.Status)

	_, _, err = repo.UpdateStatus(99999, models.TenantStatusInactive)
	assert.ErrorIs(t, err, apperrors.ErrTenantNotFound)
}

// 有数据的租户只能停用不能删除
func TestTenantDeleteGuard(t *testing.T) {
	db := newTestDB(t)
	repo := NewTenantRepository(db)
	dima := seedTenant(t, db, "dima")
	empty := seedTenant(t, db, "empty")

	seedItem(t, db, dima.ID, "SKU-1", 1, 1)

	err := repo.Delete(dima.ID)
	require.Error(t, err)
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.BizValidationError, appErr.Code)

	// 空租户可以删除
	require.NoError(t, repo.Delete(empty.ID))
	_, err = repo.GetByID(empty.ID)
	assert.ErrorIs(t, err, apperrors.ErrTenantNotFound)
}

// 批量修改状态返回受影响行数
func TestTenantBulkUpdateStatus(t *testing.T) {
	db := newTestDB(t)
	repo := NewTenantRepository(db)
	dima := seedTenant(t, db, "dima")
	macheen := seedTenant(t, db, "macheen")

	affected, err := repo.BulkUpdateStatus([]uint{dima.ID, macheen.ID, 99999}, models.TenantStatusInactive)
	require.NoError(t, err)
	assert.EqualValues(t, 2, affected)

	ids, err := repo.ListActiveIDs()
	require.NoError(t, err)
	assert.Empty(t, ids)
}
