package services

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"servaan/internal/models"
	"servaan/internal/repository"
	apperrors "servaan/pkg/errors"
	"servaan/pkg/logger"
	"servaan/pkg/pagination"
	"servaan/pkg/queue"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// AuditService 审计记录器
// 写路径：Record入队（Redis），消费协程异步落库
// Record只在主事务提交之后调用；自身的失败绝不影响已确定的主操作结果
type AuditService struct {
	repo  *repository.AuditLogRepository
	queue *queue.RedisQueue
	log   *logrus.Logger

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewAuditService(db *gorm.DB, q *queue.RedisQueue) *AuditService {
	return &AuditService{
		repo:  repository.NewAuditLogRepository(db),
		queue: q,
		log:   logger.GetLogger(),
	}
}

// Record 追加审计记录，对调用方即发即忘
// 任何内部失败都不会抛出边界：入队失败降级为同步落库，仍失败则记运维日志
func (s *AuditService) Record(actorID uint, tenantID *uint, action, resourceType, resourceID, requestID string, details map[string]interface{}) {
	defer func() {
		if r := recover(); r != nil {
			s.log.WithField("biz_code", apperrors.BizAuditWriteFail).
				Errorf("审计记录panic: %v", r)
		}
	}()

	msg := &queue.AuditMessage{
		ActorID:      actorID,
		TenantID:     tenantID,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		RequestID:    requestID,
		Details:      details,
		Created:      time.Now().Unix(),
	}

	if err := s.queue.EnqueueAudit(msg); err == nil {
		return
	}

	// 降级：直接落库
	if err := s.insertMessage(msg); err != nil {
		// 运维渠道可观测，绝不静默吞掉
		s.log.WithFields(logrus.Fields{
			"biz_code":   apperrors.BizAuditWriteFail,
			"action":     action,
			"actor_id":   actorID,
			"request_id": requestID,
		}).Errorf("审计记录写入失败: %v", err)
	}
}

// Start 启动消费协程
func (s *AuditService) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.consumeLoop(ctx)
	}()

	s.log.Info("Audit consumer started")
}

// Stop 停止消费协程，退出前尽量清空队列
func (s *AuditService) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
	s.drain()
	s.log.Info("Audit consumer stopped")
}

func (s *AuditService) consumeLoop(ctx context.Context) {
	for {
		msg, err := s.queue.DequeueAudit(ctx, 2*time.Second)
		if ctx.Err() != nil {
			return
		}
		if err != nil {
			s.log.Errorf("读取审计队列失败: %v", err)
			time.Sleep(time.Second)
			continue
		}
		if msg == nil {
			continue
		}

		if err := s.insertMessage(msg); err != nil {
			s.log.WithField("biz_code", apperrors.BizAuditWriteFail).
				Errorf("审计落库失败: %v", err)
		}
	}
}

// drain 关停时清空残留消息（非阻塞读）
func (s *AuditService) drain() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	for {
		msg, err := s.queue.DequeueAudit(ctx, 100*time.Millisecond)
		if err != nil || msg == nil {
			return
		}
		if err := s.insertMessage(msg); err != nil {
			s.log.WithField("biz_code", apperrors.BizAuditWriteFail).
				Errorf("审计落库失败: %v", err)
			return
		}
	}
}

func (s *AuditService) insertMessage(msg *queue.AuditMessage) error {
	log := &models.AuditLog{
		ActorID:      msg.ActorID,
		TenantID:     msg.TenantID,
		Action:       msg.Action,
		ResourceType: msg.ResourceType,
		ResourceID:   msg.ResourceID,
		RequestID:    msg.RequestID,
	}

	if len(msg.Details) > 0 {
		data, err := json.Marshal(msg.Details)
		if err == nil {
			log.Details = data
		}
	}

	return s.repo.Insert(log)
}

// ========== 读路径（与写路径分离） ==========

// List 审计流水查询
func (s *AuditService) List(tenantID *uint, filters repository.AuditFilters, params *pagination.PageParams) ([]*models.AuditLog, int64, error) {
	return s.repo.List(tenantID, filters, params)
}
