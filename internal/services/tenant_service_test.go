package services

import (
	"strings"
	"testing"

	apperrors "servaan/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 子域名校验规则
func TestValidateSubdomain(t *testing.T) {
	valid := []string{"dima", "a1", "my-shop", "shop-01", strings.Repeat("a", 40)}
	for _, s := range valid {
		assert.True(t, ValidateSubdomain(s), "应当合法: %q", s)
	}

	invalid := []string{
		"",
		"a",                       // 太短
		"-shop",                   // 中划线开头
		"shop-",                   // 中划线结尾
		"My-Shop",                 // 大写
		"shop.01",                 // 非法字符
		"中文",                      // 非ASCII
		strings.Repeat("a", 41),   // 太长
	}
	for _, s := range invalid {
		assert.False(t, ValidateSubdomain(s), "应当非法: %q", s)
	}
}

// 创建租户时按配置填默认配额，套餐缺省为starter
func TestTenantServiceCreateDefaults(t *testing.T) {
	db := newTestDB(t)
	svc := NewTenantService(db)

	tenant, err := svc.Create("演示餐厅", "dima", "")
	require.NoError(t, err)
	assert.Equal(t, "starter", tenant.Plan)
	assert.Equal(t, 20, tenant.MaxUsers)
	assert.Equal(t, 2000, tenant.MaxItems)
	assert.Equal(t, 5000, tenant.MaxCustomers)

	// 非法子域名和非法套餐都被拒绝
	_, err = svc.Create("坏", "-bad-", "starter")
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.BizValidationError, appErr.Code)

	_, err = svc.Create("坏", "okname", "platinum")
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.BizValidationError, appErr.Code)
}

// 批量状态只接受 active / inactive
func TestTenantServiceBulkStatusValidation(t *testing.T) {
	db := newTestDB(t)
	svc := NewTenantService(db)

	_, err := svc.BulkUpdateStatus([]uint{1}, "paused")
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.BizValidationError, appErr.Code)
}

// 统计聚合
func TestTenantServiceGetStats(t *testing.T) {
	db := newTestDB(t)
	svc := NewTenantService(db)

	for _, sub := range []string{"t-one", "t-two", "t-three"} {
		_, err := svc.Create(sub, sub, "starter")
		require.NoError(t, err)
	}
	tenant, err := svc.Create("biz", "t-biz", "business")
	require.NoError(t, err)
	_, _, err = svc.Deactivate(tenant.ID)
	require.NoError(t, err)

	stats, err := svc.GetStats()
	require.NoError(t, err)
	assert.EqualValues(t, 4, stats.Total)
	assert.EqualValues(t, 3, stats.Active)
	assert.EqualValues(t, 1, stats.Inactive)
}
