package repository

import (
	"time"

	"servaan/internal/models"
	apperrors "servaan/pkg/errors"
	"servaan/pkg/pagination"

	"gorm.io/gorm"
)

// ExportJobRepository 导出任务仓储
type ExportJobRepository struct {
	db *gorm.DB
}

func NewExportJobRepository(db *gorm.DB) *ExportJobRepository {
	return &ExportJobRepository{db: db}
}

// Create 创建导出任务
func (r *ExportJobRepository) Create(tenantID uint, job *models.ExportJob) error {
	job.TenantID = tenantID
	job.Status = models.ExportStatusQueued
	return r.db.Create(job).Error
}

// GetByID 根据ID获取导出任务（取回后再比对租户归属）
func (r *ExportJobRepository) GetByID(tenantID uint, id string) (*models.ExportJob, error) {
	var job models.ExportJob
	if err := r.db.Scopes(tenantScope(tenantID)).Where("id = ?", id).First(&job).Error; err != nil {
		return nil, translateNotFound(err)
	}
	if job.TenantID != tenantID {
		return nil, apperrors.ErrNotFound
	}
	return &job, nil
}

// List 租户的导出任务列表
func (r *ExportJobRepository) List(tenantID uint, params *pagination.PageParams) ([]*models.ExportJob, int64, error) {
	var jobs []*models.ExportJob
	var total int64

	query := r.db.Model(&models.ExportJob{}).Scopes(tenantScope(tenantID))

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.Scopes(paginate(params)).Find(&jobs).Error; err != nil {
		return nil, 0, err
	}

	return jobs, total, nil
}

// MarkRunning 任务开始执行（仅queued可流转到running）
func (r *ExportJobRepository) MarkRunning(id string) (bool, error) {
	result := r.db.Model(&models.ExportJob{}).
		Where("id = ? AND status = ?", id, models.ExportStatusQueued).
		Update("status", models.ExportStatusRunning)
	return result.RowsAffected > 0, result.Error
}

// MarkFinished 任务结束（成功、失败或取消）
func (r *ExportJobRepository) MarkFinished(id, status, filePath, errMsg string) error {
	now := time.Now()
	return r.db.Model(&models.ExportJob{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":      status,
			"file_path":   filePath,
			"error":       errMsg,
			"finished_at": &now,
		}).Error
}

// RequestCancel 取消任务（仅queued/running可取消；幂等）
func (r *ExportJobRepository) RequestCancel(tenantID uint, id string) (*models.ExportJob, error) {
	job, err := r.GetByID(tenantID, id)
	if err != nil {
		return nil, err
	}

	if job.Status != models.ExportStatusQueued && job.Status != models.ExportStatusRunning {
		return job, nil
	}

	now := time.Now()
	if err := r.db.Model(&models.ExportJob{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":      models.ExportStatusCancelled,
			"finished_at": &now,
		}).Error; err != nil {
		return nil, err
	}

	return r.GetByID(tenantID, id)
}

// ListFinishedBefore 指定时间之前完结的任务（清理用）
func (r *ExportJobRepository) ListFinishedBefore(cutoff time.Time) ([]*models.ExportJob, error) {
	var jobs []*models.ExportJob
	err := r.db.Where("finished_at IS NOT NULL AND finished_at < ?", cutoff).Find(&jobs).Error
	return jobs, err
}

// Delete 删除任务记录（清理用）
func (r *ExportJobRepository) Delete(id string) error {
	return r.db.Where("id = ?", id).Delete(&models.ExportJob{}).Error
}
