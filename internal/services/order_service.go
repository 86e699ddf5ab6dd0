package services

import (
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

// OrderService 订单管理（POS核心流程）
type OrderService struct {
	repo         *repository.OrderRepository
	tableRepo    *repository.TableRepository
	customerRepo *repository.CustomerRepository
	queue        *queue.RedisQueue
	log          *logrus.Logger
}

func NewOrderService(db *gorm.DB, q *queue.RedisQueue) *OrderService {
	return &OrderService{
		repo:         repository.NewOrderRepository(db),
		tableRepo:    repository.NewTableRepository(db),
		customerRepo: repository.NewCustomerRepository(db),
		queue:        q,
		log:          logger.GetLogger(),
	}
}

// OrderEvent 订单事件（WebSocket推送）
type OrderEvent struct {
	OrderID   uint      `json:"order_id"`
	OrderNo   string    `json:"order_no"`
	Status    string    `json:"status"`
	TableID   *uint     `json:"table_id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Create 下单
// 餐台和客户都必须属于当前租户；成功后广播订单事件
func (s *OrderService) Create(tenantID, createdBy uint, tableID, customerID *uint, note string, lines []repository.OrderLine) (*models.Order, error) {
	if tableID != nil {
		if _, err := s.tableRepo.GetByID(tenantID, *tableID); err != nil {
			return nil, err
		}
	}
	if customerID != nil {
		if _, err := s.customerRepo.GetByID(tenantID, *customerID); err != nil {
			return nil, err
		}
	}

	order := &models.Order{
		TableID:    tableID,
		CustomerID: customerID,
		Note:       note,
		CreatedBy:  createdBy,
	}

	if err := s.repo.Create(tenantID, order, lines); err != nil {
		return nil, err
	}

	// 下单后占用餐台、记录客户到店，都是尽力而为
	if tableID != nil {
		if _, err := s.tableRepo.UpdateStatus(tenantID, *tableID, models.TableStatusOccupied); err != nil {
			s.log.Warnf("更新餐台状态失败: %v", err)
		}
	}
	if customerID != nil {
		if err := s.customerRepo.RecordVisit(tenantID, *customerID); err != nil {
			s.log.Warnf("记录客户到店失败: %v", err)
		}
	}

	s.publishEvent(tenantID, order)
	return order, nil
}

// List 租户内订单列表
func (s *OrderService) List(tenantID uint, filters repository.OrderFilters, params *pagination.PageParams) ([]*models.Order, int64, error) {
	return s.repo.List(tenantID, filters, params)
}

// GetByID 根据ID获取订单
func (s *OrderService) GetByID(tenantID, id uint) (*models.Order, error) {
	return s.repo.GetByID(tenantID, id)
}

// UpdateStatus 订单状态流转（乐观锁）
// 非法流转返回校验错误；版本不匹配返回CONFLICT
func (s *OrderService) UpdateStatus(tenantID, id uint, version int, newStatus string) (*models.Order, error) {
	order, err := s.repo.GetByID(tenantID, id)
	if err != nil {
		return nil, err
	}

	if !models.CanTransition(order.Status, newStatus) {
		return nil, apperrors.New(apperrors.BizValidationError,
			"订单状态不能从 "+order.Status+" 变更为 "+newStatus)
	}

	updated, err := s.repo.UpdateStatusWithVersion(tenantID, id, version, newStatus)
	if err != nil {
		return nil, err
	}

	// 结账或取消后释放餐台
	if updated.TableID != nil &&
		(newStatus == models.OrderStatusPaid || newStatus == models.OrderStatusCancelled) {
		if _, err := s.tableRepo.UpdateStatus(tenantID, *updated.TableID, models.TableStatusAvailable); err != nil {
			s.log.Warnf("释放餐台失败: %v", err)
		}
	}

	s.publishEvent(tenantID, updated)
	return updated, nil
}

// Cancel 取消订单（库存回补在仓储事务内完成）
func (s *OrderService) Cancel(tenantID, id uint, version int) (*models.Order, error) {
	return s.UpdateStatus(tenantID, id, version, models.OrderStatusCancelled)
}

// publishEvent 广播订单事件，失败只记日志
func (s *OrderService) publishEvent(tenantID uint, order *models.Order) {
	event := &OrderEvent{
		OrderID:   order.ID,
		OrderNo:   order.OrderNo,
		Status:    order.Status,
		TableID:   order.TableID,
		Timestamp: time.Now(),
	}
	if err := s.queue.PublishOrderEvent(tenantID, event); err != nil {
		s.log.Warnf("广播订单事件失败: %v", err)
	}
}
