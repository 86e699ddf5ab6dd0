package services

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"servaan/internal/models"
	"servaan/internal/repository"
	"servaan/pkg/config"
	apperrors "servaan/pkg/errors"
	"servaan/pkg/logger"
	"servaan/pkg/pagination"
	"servaan/pkg/queue"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// ExportService 审计日志导出
// 导出在请求线程之外执行：建任务 → Redis入队 → 工作协程渲染CSV → 轮询下载
// 客户端取消任务时中止渲染，不让它跑完再丢弃
type ExportService struct {
	repo      *repository.ExportJobRepository
	auditRepo *repository.AuditLogRepository
	queue     *queue.RedisQueue
	cfg       *config.Config
	log       *logrus.Logger

	cancel  context.CancelFunc
	wg      sync.WaitGroup
	mu      sync.Mutex
	running map[string]context.CancelFunc // 正在执行的任务，按任务ID索引
	cron    *cron.Cron
}

// ExportParams 导出过滤条件（任务行里持久化为JSON）
type ExportParams struct {
	From         string `json:"from,omitempty"` // RFC3339
	To           string `json:"to,omitempty"`   // RFC3339
	Action       string `json:"action,omitempty"`
	ResourceType string `json:"resource_type,omitempty"`
}

func NewExportService(db *gorm.DB, q *queue.RedisQueue) *ExportService {
	return &ExportService{
		repo:      repository.NewExportJobRepository(db),
		auditRepo: repository.NewAuditLogRepository(db),
		queue:     q,
		cfg:       config.GetConfig(),
		log:       logger.GetLogger(),
		running:   make(map[string]context.CancelFunc),
	}
}

// CreateJob 创建导出任务并入队
func (s *ExportService) CreateJob(tenantID, userID uint, params ExportParams) (*models.ExportJob, error) {
	paramsData, err := json.Marshal(params)
	if err != nil {
		return nil, err
	}

	job := &models.ExportJob{
		ID:          uuid.NewString(),
		RequestedBy: userID,
		Params:      paramsData,
	}

	if err := s.repo.Create(tenantID, job); err != nil {
		return nil, err
	}

	msg := &queue.ExportMessage{
		JobID:    job.ID,
		TenantID: tenantID,
		UserID:   userID,
		Created:  time.Now().Unix(),
	}
	if err := s.queue.EnqueueExport(msg); err != nil {
		// 入队失败时任务直接置为失败，避免悬挂在queued状态
		_ = s.repo.MarkFinished(job.ID, models.ExportStatusFailed, "", "任务入队失败")
		return nil, err
	}

	return job, nil
}

// GetJob 查询导出任务
func (s *ExportService) GetJob(tenantID uint, id string) (*models.ExportJob, error) {
	return s.repo.GetByID(tenantID, id)
}

// ListJobs 租户的导出任务列表
func (s *ExportService) ListJobs(tenantID uint, params *pagination.PageParams) ([]*models.ExportJob, int64, error) {
	return s.repo.List(tenantID, params)
}

// FilePath 获取已完成任务的文件路径
func (s *ExportService) FilePath(tenantID uint, id string) (string, error) {
	job, err := s.repo.GetByID(tenantID, id)
	if err != nil {
		return "", err
	}
	if job.Status != models.ExportStatusSuccess {
		return "", apperrors.New(apperrors.BizValidationError, "任务尚未完成")
	}
	return job.FilePath, nil
}

// CancelJob 取消导出任务（幂等）
// 正在渲染的任务会被中止，不会留下无人观察的后台渲染
func (s *ExportService) CancelJob(tenantID uint, id string) (*models.ExportJob, error) {
	job, err := s.repo.RequestCancel(tenantID, id)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	if cancelJob, ok := s.running[id]; ok {
		cancelJob()
	}
	s.mu.Unlock()

	return job, nil
}

// Start 启动导出工作协程和清理定时任务
func (s *ExportService) Start() error {
	if err := os.MkdirAll(s.cfg.Export.Dir, 0755); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.workLoop(ctx)
	}()

	// 每日清理过期的导出文件
	s.cron = cron.New()
	if _, err := s.cron.AddFunc(s.cfg.Export.CleanupSpec, s.cleanupExpired); err != nil {
		return err
	}
	s.cron.Start()

	s.log.Info("Export worker started")
	return nil
}

// Stop 停止导出工作协程
func (s *ExportService) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
	s.log.Info("Export worker stopped")
}

func (s *ExportService) workLoop(ctx context.Context) {
	for {
		msg, err := s.queue.DequeueExport(ctx, 2*time.Second)
		if ctx.Err() != nil {
			return
		}
		if err != nil {
			s.log.Errorf("读取导出队列失败: %v", err)
			time.Sleep(time.Second)
			continue
		}
		if msg == nil {
			continue
		}

		s.runJob(ctx, msg)
	}
}

func (s *ExportService) runJob(ctx context.Context, msg *queue.ExportMessage) {
	// 已被取消的任务不再执行
	started, err := s.repo.MarkRunning(msg.JobID)
	if err != nil {
		s.log.Errorf("标记导出任务失败: %v", err)
		return
	}
	if !started {
		return
	}

	jobCtx, cancelJob := context.WithCancel(ctx)
	s.mu.Lock()
	s.running[msg.JobID] = cancelJob
	s.mu.Unlock()
	defer func() {
		cancelJob()
		s.mu.Lock()
		delete(s.running, msg.JobID)
		s.mu.Unlock()
	}()

	filePath, err := s.render(jobCtx, msg)
	switch {
	case jobCtx.Err() != nil:
		// 取消：删除半成品文件，状态已由CancelJob置为cancelled
		if filePath != "" {
			_ = os.Remove(filePath)
		}
		s.log.Infof("导出任务已取消: %s", msg.JobID)
	case err != nil:
		_ = s.repo.MarkFinished(msg.JobID, models.ExportStatusFailed, "", err.Error())
		s.log.Errorf("导出任务失败: %s: %v", msg.JobID, err)
	default:
		_ = s.repo.MarkFinished(msg.JobID, models.ExportStatusSuccess, filePath, "")
		s.log.Infof("导出任务完成: %s", msg.JobID)
	}
}

// render 渲染CSV文件，返回文件路径
func (s *ExportService) render(ctx context.Context, msg *queue.ExportMessage) (string, error) {
	job, err := s.repo.GetByID(msg.TenantID, msg.JobID)
	if err != nil {
		return "", err
	}

	var params ExportParams
	if len(job.Params) > 0 {
		if err := json.Unmarshal(job.Params, &params); err != nil {
			return "", err
		}
	}

	filters, err := params.toFilters()
	if err != nil {
		return "", err
	}

	filePath := filepath.Join(s.cfg.Export.Dir, fmt.Sprintf("audit-%s.csv", msg.JobID))
	file, err := os.Create(filePath)
	if err != nil {
		return "", err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write([]string{"id", "created_at", "actor_id", "action", "resource_type", "resource_id", "request_id", "details"}); err != nil {
		return filePath, err
	}

	err = s.auditRepo.IterateForExport(ctx, msg.TenantID, filters, 500, func(batch []*models.AuditLog) error {
		for _, log := range batch {
			record := []string{
				strconv.FormatUint(uint64(log.ID), 10),
				log.CreatedAt.Format(time.RFC3339),
				strconv.FormatUint(uint64(log.ActorID), 10),
				log.Action,
				log.ResourceType,
				log.ResourceID,
				log.RequestID,
				string(log.Details),
			}
			if err := writer.Write(record); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return filePath, err
	}

	writer.Flush()
	return filePath, writer.Error()
}

func (p *ExportParams) toFilters() (repository.AuditFilters, error) {
	filters := repository.AuditFilters{
		Action:       p.Action,
		ResourceType: p.ResourceType,
	}

	if p.From != "" {
		from, err := time.Parse(time.RFC3339, p.From)
		if err != nil {
			return filters, apperrors.New(apperrors.BizValidationError, "起始时间格式错误")
		}
		filters.From = &from
	}
	if p.To != "" {
		to, err := time.Parse(time.RFC3339, p.To)
		if err != nil {
			return filters, apperrors.New(apperrors.BizValidationError, "结束时间格式错误")
		}
		filters.To = &to
	}

	return filters, nil
}

// cleanupExpired 清理过期的导出任务和文件
func (s *ExportService) cleanupExpired() {
	cutoff := time.Now().AddDate(0, 0, -s.cfg.Export.RetentionDays)
	jobs, err := s.repo.ListFinishedBefore(cutoff)
	if err != nil {
		s.log.Errorf("查询过期导出任务失败: %v", err)
		return
	}

	for _, job := range jobs {
		if job.FilePath != "" {
			if err := os.Remove(job.FilePath); err != nil && !os.IsNotExist(err) {
				s.log.Warnf("删除导出文件失败: %v", err)
				continue
			}
		}
		if err := s.repo.Delete(job.ID); err != nil {
			s.log.Warnf("删除导出任务记录失败: %v", err)
		}
	}

	if len(jobs) > 0 {
		s.log.Infof("清理过期导出任务: %d", len(jobs))
	}
}
