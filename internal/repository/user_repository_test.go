package repository

import (
	"fmt"
	"sync"
	"testing"

	"servaan/internal/models"
	apperrors "servaan/pkg/errors"
	"servaan/pkg/pagination"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUser(username string) *models.User {
	return &models.User{
		Username: username,
		Email:    username + "@test.local",
		Name:     username,
		Role:     models.RoleStaff,
		Status:   models.UserStatusActive,
	}
}

// 跨租户读取返回的错误与记录不存在一致
func TestUserGetByIDCrossTenant(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)
	dima := seedTenant(t, db, "dima")
	macheen := seedTenant(t, db, "macheen")

	user := newUser("alice")
	require.NoError(t, repo.Create(dima.ID, user))

	got, err := repo.GetByID(dima.ID, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Username)

	// 其他租户访问：与不存在的ID同样的错误
	_, errCross := repo.GetByID(macheen.ID, user.ID)
	_, errMissing := repo.GetByID(dima.ID, 99999)
	assert.ErrorIs(t, errCross, apperrors.ErrNotFound)
	assert.ErrorIs(t, errMissing, apperrors.ErrNotFound)
	assert.Equal(t, errMissing, errCross)
}

// 创建时TenantID取自参数，载荷里的租户和平台标记被覆盖
func TestUserCreateForcesTenant(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)
	dima := seedTenant(t, db, "dima")

	user := newUser("bob")
	user.TenantID = 777
	user.IsPlatformAdmin = true
	user.PlatformRole = models.PlatformRoleSuperAdmin

	require.NoError(t, repo.Create(dima.ID, user))
	assert.Equal(t, dima.ID, user.TenantID)
	assert.False(t, user.IsPlatformAdmin)
	assert.Empty(t, user.PlatformRole)
}

// 用户名和邮箱在租户内唯一，跨租户允许重名
func TestUserUniquePerTenant(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)
	dima := seedTenant(t, db, "dima")
	macheen := seedTenant(t, db, "macheen")

	require.NoError(t, repo.Create(dima.ID, newUser("carol")))

	dup := newUser("carol")
	err := repo.Create(dima.ID, dup)
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.BizValidationError, appErr.Code)

	// 另一个租户可以用同样的用户名
	require.NoError(t, repo.Create(macheen.ID, newUser("carol")))
}

// 配额满后创建失败，且不落任何行
func TestUserCreateQuotaExceeded(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)
	dima := seedTenant(t, db, "dima")

	require.NoError(t, db.Model(&models.Tenant{}).Where("id = ?", dima.ID).
		Update("max_users", 2).Error)

	require.NoError(t, repo.Create(dima.ID, newUser("u1")))
	require.NoError(t, repo.Create(dima.ID, newUser("u2")))

	err := repo.Create(dima.ID, newUser("u3"))
	assert.ErrorIs(t, err, apperrors.ErrQuotaExceeded)

	var count int64
	require.NoError(t, db.Model(&models.User{}).Where("tenant_id = ?", dima.ID).Count(&count).Error)
	assert.EqualValues(t, 2, count)
}

// 并发创建时配额同样不被突破：租户行锁串行化检查与写入
func TestUserCreateQuotaConcurrent(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)
	dima := seedTenant(t, db, "dima")

	require.NoError(t, db.Model(&models.Tenant{}).Where("id = ?", dima.ID).
		Update("max_users", 3).Error)

	const workers = 10
	errs := make(chan error, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			errs <- repo.Create(dima.ID, newUser(fmt.Sprintf("w%02d", n)))
		}(i)
	}
	wg.Wait()
	close(errs)

	created, rejected := 0, 0
	for err := range errs {
		if err == nil {
			created++
			continue
		}
		require.ErrorIs(t, err, apperrors.ErrQuotaExceeded)
		rejected++
	}
	assert.Equal(t, 3, created)
	assert.Equal(t, workers-3, rejected)

	var count int64
	require.NoError(t, db.Model(&models.User{}).Where("tenant_id = ?", dima.ID).Count(&count).Error)
	assert.EqualValues(t, 3, count)
}

// 列表只包含当前租户的行
func TestUserListPartition(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)
	dima := seedTenant(t, db, "dima")
	macheen := seedTenant(t, db, "macheen")

	for i := 0; i < 3; i++ {
		require.NoError(t, repo.Create(dima.ID, newUser(fmt.Sprintf("d%d", i))))
	}
	for i := 0; i < 2; i++ {
		require.NoError(t, repo.Create(macheen.ID, newUser(fmt.Sprintf("m%d", i))))
	}

	users, total, err := repo.List(dima.ID, "", "", &pagination.PageParams{Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	for _, u := range users {
		assert.Equal(t, dima.ID, u.TenantID)
	}
}

// 停用是幂等的，重复操作返回changed=false
func TestUserSetStatusIdempotent(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)
	dima := seedTenant(t, db, "dima")

	user := newUser("dave")
	require.NoError(t, repo.Create(dima.ID, user))

	_, changed, err := repo.SetStatus(dima.ID, user.ID, models.UserStatusInactive)
	require.NoError(t, err)
	assert.True(t, changed)

	got, changed, err := repo.SetStatus(dima.ID, user.ID, models.UserStatusInactive)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, models.UserStatusInactive, got.Status)
}

// 平台用户查询不会命中租户用户
func TestGetPlatformUserByUsername(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)
	dima := seedTenant(t, db, "dima")

	require.NoError(t, repo.Create(dima.ID, newUser("root")))

	_, err := repo.GetPlatformUserByUsername("root")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	platform := newUser("root2")
	platform.TenantID = 0
	platform.IsPlatformAdmin = true
	platform.PlatformRole = models.PlatformRoleSuperAdmin
	require.NoError(t, db.Create(platform).Error)

	got, err := repo.GetPlatformUserByUsername("root2")
	require.NoError(t, err)
	assert.True(t, got.IsPlatformAdmin)
}
