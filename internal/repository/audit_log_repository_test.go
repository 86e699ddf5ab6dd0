package repository

import (
	"context"
	"testing"

	"servaan/internal/models"
	"servaan/pkg/pagination"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func insertAudit(t *testing.T, repo *AuditLogRepository, tenantID *uint, action string) {
	t.Helper()
	require.NoError(t, repo.Insert(&models.AuditLog{
		ActorID:      1,
		TenantID:     tenantID,
		Action:       action,
		ResourceType: "item",
		ResourceID:   "1",
	}))
}

// 租户查询和平台查询互不可见
func TestAuditListPartition(t *testing.T) {
	db := newTestDB(t)
	repo := NewAuditLogRepository(db)
	dima := seedTenant(t, db, "dima")
	macheen := seedTenant(t, db, "macheen")

	insertAudit(t, repo, &dima.ID, "item:create")
	insertAudit(t, repo, &dima.ID, "item:update")
	insertAudit(t, repo, &macheen.ID, "item:create")
	insertAudit(t, repo, nil, "tenant:create") // 平台级操作

	params := &pagination.PageParams{Page: 1, PageSize: 10}

	logs, total, err := repo.List(&dima.ID, AuditFilters{}, params)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	for _, log := range logs {
		require.NotNil(t, log.TenantID)
		assert.Equal(t, dima.ID, *log.TenantID)
	}

	// tenant_id为nil只命中平台级记录
	logs, total, err = repo.List(nil, AuditFilters{}, params)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, "tenant:create", logs[0].Action)
}

// 按操作类型过滤
func TestAuditListFilterByAction(t *testing.T) {
	db := newTestDB(t)
	repo := NewAuditLogRepository(db)
	dima := seedTenant(t, db, "dima")

	insertAudit(t, repo, &dima.ID, "item:create")
	insertAudit(t, repo, &dima.ID, "item:update")
	insertAudit(t, repo, &dima.ID, "item:update")

	_, total, err := repo.List(&dima.ID, AuditFilters{Action: "item:update"}, &pagination.PageParams{Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
}

// 批次遍历覆盖所有行且不重复
func TestAuditIterateForExport(t *testing.T) {
	db := newTestDB(t)
	repo := NewAuditLogRepository(db)
	dima := seedTenant(t, db, "dima")

	for i := 0; i < 23; i++ {
		insertAudit(t, repo, &dima.ID, "item:create")
	}

	seen := make(map[uint]bool)
	var batches int
	err := repo.IterateForExport(context.Background(), dima.ID, AuditFilters{}, 10, func(batch []*models.AuditLog) error {
		batches++
		for _, log := range batch {
			assert.False(t, seen[log.ID])
			seen[log.ID] = true
		}
		return nil
	})
	require.NoError(t, err)
	assert.Len(t, seen, 23)
	assert.Equal(t, 3, batches)
}

// ctx取消时遍历中止
func TestAuditIterateForExportCancelled(t *testing.T) {
	db := newTestDB(t)
	repo := NewAuditLogRepository(db)
	dima := seedTenant(t, db, "dima")

	for i := 0; i < 5; i++ {
		insertAudit(t, repo, &dima.ID, "item:create")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := repo.IterateForExport(ctx, dima.ID, AuditFilters{}, 10, func(batch []*models.AuditLog) error {
		t.Fatal("不应回调")
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
}
