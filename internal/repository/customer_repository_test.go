package repository

import (
	"fmt"
	"testing"

	"servaan/internal/models"
	apperrors "servaan/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCustomer(name, phone string) *models.Customer {
	return &models.Customer{Name: name, Phone: phone, Status: models.CustomerStatusActive}
}

// 手机号租户内唯一，不同租户互不影响
func TestCustomerPhoneUniquePerTenant(t *testing.T) {
	db := newTestDB(t)
	repo := NewCustomerRepository(db)
	dima := seedTenant(t, db, "dima")
	macheen := seedTenant(t, db, "macheen")

	require.NoError(t, repo.Create(dima.ID, newCustomer("张三", "13800000001")))

	err := repo.Create(dima.ID, newCustomer("李四", "13800000001"))
	require.Error(t, err)
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.BizValidationError, appErr.Code)

	// 另一个租户可以使用相同手机号
	require.NoError(t, repo.Create(macheen.ID, newCustomer("王五", "13800000001")))
}

// 超过配额时拒绝创建
func TestCustomerCreateQuotaExceeded(t *testing.T) {
	db := newTestDB(t)
	repo := NewCustomerRepository(db)
	dima := seedTenant(t, db, "dima")

	require.NoError(t, db.Model(&models.Tenant{}).Where("id = ?", dima.ID).
		Update("max_customers", 2).Error)

	for i := 0; i < 2; i++ {
		require.NoError(t, repo.Create(dima.ID, newCustomer("客户", fmt.Sprintf("1380000000%d", i))))
	}

	err := repo.Create(dima.ID, newCustomer("超额", "13800000009"))
	assert.ErrorIs(t, err, apperrors.ErrQuotaExceeded)

	var count int64
	require.NoError(t, db.Model(&models.Customer{}).Where("tenant_id = ?", dima.ID).Count(&count).Error)
	assert.EqualValues(t, 2, count)
}

// 到店记录累加次数并刷新时间
func TestCustomerRecordVisit(t *testing.T) {
	db := newTestDB(t)
	repo := NewCustomerRepository(db)
	dima := seedTenant(t, db, "dima")
	macheen := seedTenant(t, db, "macheen")

	c := newCustomer("张三", "13800000001")
	require.NoError(t, repo.Create(dima.ID, c))

	require.NoError(t, repo.RecordVisit(dima.ID, c.ID))
	require.NoError(t, repo.RecordVisit(dima.ID, c.ID))

	got, err := repo.GetByID(dima.ID, c.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.VisitCount)
	assert.NotNil(t, got.LastVisitAt)

	// 跨租户访问与不存在表现一致
	assert.ErrorIs(t, repo.RecordVisit(macheen.ID, c.ID), apperrors.ErrNotFound)
	_, err = repo.GetByID(macheen.ID, c.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

// 停用幂等，changed 标记区分真实变化
func TestCustomerSetStatusIdempotent(t *testing.T) {
	db := newTestDB(t)
	repo := NewCustomerRepository(db)
	dima := seedTenant(t, db, "dima")

	c := newCustomer("张三", "13800000001")
	require.NoError(t, repo.Create(dima.ID, c))

	_, changed, err := repo.SetStatus(dima.ID, c.ID, models.CustomerStatusInactive)
	require.NoError(t, err)
	assert.True(t, changed)

	_, changed, err = repo.SetStatus(dima.ID, c.ID, models.CustomerStatusInactive)
	require.NoError(t, err)
	assert.False(t, changed)

	active, err := repo.CountActive(dima.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, active)
}
