package repository

import (
	"testing"
	"time"

	"servaan/internal/models"
	apperrors "servaan/pkg/errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedExportJob(t *testing.T, repo *ExportJobRepository, tenantID uint) *models.ExportJob {
	t.Helper()
	job := &models.ExportJob{
		ID:          uuid.NewString(),
		RequestedBy: 1,
	}
	require.NoError(t, repo.Create(tenantID, job))
	return job
}

// 跨租户查询任务与不存在一致
func TestExportJobCrossTenant(t *testing.T) {
	db := newTestDB(t)
	repo := NewExportJobRepository(db)
	dima := seedTenant(t, db, "dima")
	macheen := seedTenant(t, db, "macheen")

	job := seedExportJob(t, repo, dima.ID)

	got, err := repo.GetByID(dima.ID, job.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ExportStatusQueued, got.Status)

	_, err = repo.GetByID(macheen.ID, job.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

// 只有queued才能流转到running
func TestExportJobMarkRunning(t *testing.T) {
	db := newTestDB(t)
	repo := NewExportJobRepository(db)
	dima := seedTenant(t, db, "dima")

	job := seedExportJob(t, repo, dima.ID)

	started, err := repo.MarkRunning(job.ID)
	require.NoError(t, err)
	assert.True(t, started)

	// 已在执行，二次标记不生效
	started, err = repo.MarkRunning(job.ID)
	require.NoError(t, err)
	assert.False(t, started)
}

// 取消是幂等的，已完结的任务取消不改状态
func TestExportJobRequestCancel(t *testing.T) {
	db := newTestDB(t)
	repo := NewExportJobRepository(db)
	dima := seedTenant(t, db, "dima")

	job := seedExportJob(t, repo, dima.ID)

	cancelled, err := repo.RequestCancel(dima.ID, job.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ExportStatusCancelled, cancelled.Status)
	assert.NotNil(t, cancelled.FinishedAt)

	// 重复取消不报错
	again, err := repo.RequestCancel(dima.ID, job.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ExportStatusCancelled, again.Status)

	// 已取消的任务不允许再启动
	started, err := repo.MarkRunning(job.ID)
	require.NoError(t, err)
	assert.False(t, started)

	// 成功完结的任务取消无效
	done := seedExportJob(t, repo, dima.ID)
	require.NoError(t, repo.MarkFinished(done.ID, models.ExportStatusSuccess, "/tmp/x.csv", ""))
	got, err := repo.RequestCancel(dima.ID, done.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ExportStatusSuccess, got.Status)
}

// 过期任务查询（清理用）
func TestExportJobListFinishedBefore(t *testing.T) {
	db := newTestDB(t)
	repo := NewExportJobRepository(db)
	dima := seedTenant(t, db, "dima")

	old := seedExportJob(t, repo, dima.ID)
	require.NoError(t, repo.MarkFinished(old.ID, models.ExportStatusSuccess, "", ""))
	// 把完结时间改到过去
	past := time.Now().AddDate(0, 0, -10)
	require.NoError(t, db.Model(&models.ExportJob{}).Where("id = ?", old.ID).
		Update("finished_at", &past).Error)

	fresh := seedExportJob(t, repo, dima.ID)
	require.NoError(t, repo.MarkFinished(fresh.ID, models.ExportStatusSuccess, "", ""))

	running := seedExportJob(t, repo, dima.ID)
	_, err := repo.MarkRunning(running.ID)
	require.NoError(t, err)

	jobs, err := repo.ListFinishedBefore(time.Now().AddDate(0, 0, -7))
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, old.ID, jobs[0].ID)

	require.NoError(t, repo.Delete(old.ID))
	_, err = repo.GetByID(dima.ID, old.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
