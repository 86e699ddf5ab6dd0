package services

import (
	"context"
	"encoding/csv"
	"os"
	"testing"
	"time"

	"servaan/internal/models"
	apperrors "servaan/pkg/errors"
	"servaan/pkg/queue"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 入队失败时任务立即置为失败，不悬挂在queued
func TestExportCreateJobEnqueueFailure(t *testing.T) {
	db := newTestDB(t)
	svc := NewExportService(db, deadQueue())
	dima := seedTenant(t, db, "dima")

	_, err := svc.CreateJob(dima.ID, 1, ExportParams{})
	require.Error(t, err)

	var job models.ExportJob
	require.NoError(t, db.First(&job).Error)
	assert.Equal(t, models.ExportStatusFailed, job.Status)
	assert.NotNil(t, job.FinishedAt)
}

// 未完成的任务不能下载
func TestExportFilePathOnlyForSuccess(t *testing.T) {
	db := newTestDB(t)
	svc := NewExportService(db, deadQueue())
	dima := seedTenant(t, db, "dima")

	_, _ = svc.CreateJob(dima.ID, 1, ExportParams{})

	var job models.ExportJob
	require.NoError(t, db.First(&job).Error)

	_, err := svc.FilePath(dima.ID, job.ID)
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.BizValidationError, appErr.Code)

	// 跨租户不可见
	macheen := seedTenant(t, db, "macheen")
	_, err = svc.FilePath(macheen.ID, job.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

// 过滤条件的时间解析
func TestExportParamsToFilters(t *testing.T) {
	p := ExportParams{From: "2026-08-01T00:00:00Z", To: "2026-08-31T00:00:00Z", Action: "item:create"}
	filters, err := p.toFilters()
	require.NoError(t, err)
	require.NotNil(t, filters.From)
	require.NotNil(t, filters.To)
	assert.Equal(t, "item:create", filters.Action)
	assert.Equal(t, 2026, filters.From.Year())

	bad := ExportParams{From: "昨天"}
	_, err = bad.toFilters()
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.BizValidationError, appErr.Code)
}

// CSV渲染：表头+按租户过滤的数据行
func TestExportRender(t *testing.T) {
	db := newTestDB(t)
	svc := NewExportService(db, deadQueue())
	svc.cfg.Export.Dir = t.TempDir()
	dima := seedTenant(t, db, "dima")
	macheen := seedTenant(t, db, "macheen")

	for i := 0; i < 3; i++ {
		log := &models.AuditLog{ActorID: 1, TenantID: &dima.ID, Action: "item:create",
			ResourceType: "item", ResourceID: "1", RequestID: "r1", CreatedAt: time.Now()}
		require.NoError(t, db.Create(log).Error)
	}
	other := &models.AuditLog{ActorID: 2, TenantID: &macheen.ID, Action: "item:create",
		ResourceType: "item", ResourceID: "9", RequestID: "r9", CreatedAt: time.Now()}
	require.NoError(t, db.Create(other).Error)

	job := &models.ExportJob{ID: "job-render-1", RequestedBy: 1}
	require.NoError(t, svc.repo.Create(dima.ID, job))

	filePath, err := svc.render(context.Background(), &queue.ExportMessage{
		JobID: job.ID, TenantID: dima.ID, UserID: 1})
	require.NoError(t, err)

	file, err := os.Open(filePath)
	require.NoError(t, err)
	defer file.Close()

	rows, err := csv.NewReader(file).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 4) // 表头 + 本租户3行
	assert.Equal(t, "id", rows[0][0])
	assert.Equal(t, "item:create", rows[1][3])
}
