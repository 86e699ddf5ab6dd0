package services

import (
	"testing"

	"servaan/internal/models"
	"servaan/internal/repository"
	"servaan/pkg/pagination"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 队列不可用时Record降级为同步落库，且绝不向调用方抛错
func TestAuditRecordFallbackToDirectInsert(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuditService(db, deadQueue())
	dima := seedTenant(t, db, "dima")

	svc.Record(1, &dima.ID, "item:create", "item", "42", "req-001",
		map[string]interface{}{"sku": "CB-1"})

	var count int64
	require.NoError(t, db.Model(&models.AuditLog{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	var log models.AuditLog
	require.NoError(t, db.First(&log).Error)
	assert.Equal(t, "item:create", log.Action)
	assert.Equal(t, "42", log.ResourceID)
	assert.Equal(t, "req-001", log.RequestID)
	require.NotNil(t, log.TenantID)
	assert.Equal(t, dima.ID, *log.TenantID)
	assert.NotEmpty(t, log.Details)
}

// 平台级操作tenant_id为空
func TestAuditRecordPlatformAction(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuditService(db, deadQueue())

	svc.Record(1, nil, "tenant:create", "tenant", "7", "req-002", nil)

	var log models.AuditLog
	require.NoError(t, db.First(&log).Error)
	assert.Nil(t, log.TenantID)
}

// 读路径按租户分区
func TestAuditListPartitioned(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuditService(db, deadQueue())
	dima := seedTenant(t, db, "dima")
	macheen := seedTenant(t, db, "macheen")

	svc.Record(1, &dima.ID, "item:create", "item", "1", "r1", nil)
	svc.Record(1, &macheen.ID, "item:create", "item", "2", "r2", nil)
	svc.Record(9, nil, "tenant:create", "tenant", "3", "r3", nil)

	params := &pagination.PageParams{Page: 1, PageSize: 10}

	logs, total, err := svc.List(&dima.ID, repository.AuditFilters{}, params)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, logs, 1)
	assert.Equal(t, "1", logs[0].ResourceID)

	// 平台流水只包含tenant_id为空的记录
	logs, total, err = svc.List(nil, repository.AuditFilters{}, params)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, logs, 1)
	assert.Equal(t, "tenant:create", logs[0].Action)
}
