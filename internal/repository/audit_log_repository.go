package repository

import (
	"context"
	"time"

	"servaan/internal/models"
	"servaan/pkg/pagination"

	"gorm.io/gorm"
)

// AuditLogRepository 审计流水仓储 - 只有插入和查询，没有修改和删除
type AuditLogRepository struct {
	db *gorm.DB
}

func NewAuditLogRepository(db *gorm.DB) *AuditLogRepository {
	return &AuditLogRepository{db: db}
}

// Insert 追加一条审计流水
func (r *AuditLogRepository) Insert(log *models.AuditLog) error {
	return r.db.Create(log).Error
}

// AuditFilters 审计查询过滤条件
type AuditFilters struct {
	Action       string
	ResourceType string
	ActorID      *uint
	From         *time.Time
	To           *time.Time
}

// List 审计流水查询
// tenantID为nil时查询平台级操作记录（仅平台路由可达）
func (r *AuditLogRepository) List(tenantID *uint, filters AuditFilters, params *pagination.PageParams) ([]*models.AuditLog, int64, error) {
	var logs []*models.AuditLog
	var total int64

	query := r.applyFilters(tenantID, filters)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.Scopes(paginate(params)).Find(&logs).Error; err != nil {
		return nil, 0, err
	}

	return logs, total, nil
}

// IterateForExport 按批次遍历审计流水（导出用，避免整表载入内存）
// ctx取消时中止遍历
func (r *AuditLogRepository) IterateForExport(ctx context.Context, tenantID uint, filters AuditFilters, batchSize int, fn func([]*models.AuditLog) error) error {
	tid := tenantID
	query := r.applyFilters(&tid, filters).Order("id")

	var lastID uint
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		var batch []*models.AuditLog
		if err := query.Session(&gorm.Session{}).Where("id > ?", lastID).Limit(batchSize).Find(&batch).Error; err != nil {
			return err
		}
		if len(batch) == 0 {
			return nil
		}

		if err := fn(batch); err != nil {
			return err
		}

		lastID = batch[len(batch)-1].ID
	}
}

func (r *AuditLogRepository) applyFilters(tenantID *uint, filters AuditFilters) *gorm.DB {
	query := r.db.Model(&models.AuditLog{})

	if tenantID != nil {
		query = query.Where("tenant_id = ?", *tenantID)
	} else {
		query = query.Where("tenant_id IS NULL")
	}

	if filters.Action != "" {
		query = query.Where("action = ?", filters.Action)
	}
	if filters.ResourceType != "" {
		query = query.Where("resource_type = ?", filters.ResourceType)
	}
	if filters.ActorID != nil {
		query = query.Where("actor_id = ?", *filters.ActorID)
	}
	if filters.From != nil {
		query = query.Where("created_at >= ?", *filters.From)
	}
	if filters.To != nil {
		query = query.Where("created_at < ?", *filters.To)
	}

	return query
}

// CountForTenant 租户的审计流水条数
func (r *AuditLogRepository) CountForTenant(tenantID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.AuditLog{}).Where("tenant_id = ?", tenantID).Count(&count).Error
	return count, err
}
