package repository

import (
	"fmt"
	"time"

	"servaan/internal/models"
	apperrors "servaan/pkg/errors"
	"servaan/pkg/pagination"

	"gorm.io/gorm"
)

// OrderRepository 订单仓储
type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// OrderLine 下单行，服务层只传商品ID和数量，名称单价在事务内取快照
type OrderLine struct {
	ItemID   uint
	Quantity int
	Note     string
}

// OrderFilters 订单列表过滤条件
type OrderFilters struct {
	Status  string
	TableID *uint
	From    *time.Time
	To      *time.Time
}

// Create 创建订单
// 同一事务内：生成单号、校验商品归属和库存、扣减库存、落订单和明细
func (r *OrderRepository) Create(tenantID uint, order *models.Order, lines []OrderLine) error {
	if len(lines) == 0 {
		return apperrors.New(apperrors.BizValidationError, "订单至少需要一条明细")
	}

	order.TenantID = tenantID
	order.Status = models.OrderStatusPending
	order.Version = 1

	return r.db.Transaction(func(tx *gorm.DB) error {
		// 锁定租户行，串行化同租户的并发下单，当日序号不会重号
		if _, err := lockTenant(tx, tenantID); err != nil {
			return err
		}

		// 单号：本地日期 + 当日序号，统计窗口与日期前缀用同一个本地零点
		// (tenant_id, order_no)联合唯一索引兜底
		now := time.Now()
		dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		var todayCount int64
		if err := tx.Model(&models.Order{}).
			Where("tenant_id = ? AND created_at >= ?", tenantID, dayStart).
			Count(&todayCount).Error; err != nil {
			return err
		}
		order.OrderNo = fmt.Sprintf("%s-%04d", now.Format("20060102"), todayCount+1)

		var total float64
		orderItems := make([]models.OrderItem, 0, len(lines))

		for _, line := range lines {
			if line.Quantity <= 0 {
				return apperrors.New(apperrors.BizValidationError, "商品数量必须大于0")
			}

			// 商品必须属于当前租户且在售
			var item models.Item
			if err := tx.Where("tenant_id = ?", tenantID).First(&item, line.ItemID).Error; err != nil {
				return translateNotFound(err)
			}
			if !item.IsActive {
				return apperrors.New(apperrors.BizValidationError, fmt.Sprintf("商品 %s 已下架", item.Name))
			}

			// 扣减库存，不允许超卖
			result := tx.Model(&models.Item{}).
				Where("tenant_id = ? AND id = ? AND stock >= ?", tenantID, item.ID, line.Quantity).
				Update("stock", gorm.Expr("stock - ?", line.Quantity))
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return apperrors.New(apperrors.BizValidationError, fmt.Sprintf("商品 %s 库存不足", item.Name))
			}

			total += item.Price * float64(line.Quantity)
			orderItems = append(orderItems, models.OrderItem{
				ItemID:    item.ID,
				ItemName:  item.Name,
				Quantity:  line.Quantity,
				UnitPrice: item.Price,
				Note:      line.Note,
			})
		}

		order.TotalPrice = total
		if err := tx.Create(order).Error; err != nil {
			return err
		}

		for i := range orderItems {
			orderItems[i].OrderID = order.ID
		}
		if err := tx.Create(&orderItems).Error; err != nil {
			return err
		}

		order.Items = orderItems
		return nil
	})
}

// List 租户内订单列表
func (r *OrderRepository) List(tenantID uint, filters OrderFilters, params *pagination.PageParams) ([]*models.Order, int64, error) {
	var orders []*models.Order
	var total int64

	query := r.db.Model(&models.Order{}).Scopes(tenantScope(tenantID))

	if filters.Status != "" {
		query = query.Where("status = ?", filters.Status)
	}
	if filters.TableID != nil {
		query = query.Where("table_id = ?", *filters.TableID)
	}
	if filters.From != nil {
		query = query.Where("created_at >= ?", *filters.From)
	}
	if filters.To != nil {
		query = query.Where("created_at < ?", *filters.To)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.Scopes(paginate(params)).Preload("Items").Find(&orders).Error; err != nil {
		return nil, 0, err
	}

	return orders, total, nil
}

// GetByID 根据ID获取订单（取回后再比对租户归属）
func (r *OrderRepository) GetByID(tenantID, id uint) (*models.Order, error) {
	var order models.Order
	err := r.db.Scopes(tenantScope(tenantID)).
		Preload("Items").Preload("Table").Preload("Customer").
		First(&order, id).Error
	if err != nil {
		return nil, translateNotFound(err)
	}
	if order.TenantID != tenantID {
		return nil, apperrors.ErrNotFound
	}
	return &order, nil
}

// UpdateStatusWithVersion 按版本号流转订单状态（乐观锁）
// 取消订单时在同一事务内回补库存
func (r *OrderRepository) UpdateStatusWithVersion(tenantID, id uint, version int, newStatus string) (*models.Order, error) {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Order{}).
			Scopes(tenantScope(tenantID)).
			Where("id = ? AND version = ?", id, version).
			Updates(map[string]interface{}{
				"status":  newStatus,
				"version": gorm.Expr("version + 1"),
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			var count int64
			if err := tx.Model(&models.Order{}).
				Where("tenant_id = ? AND id = ?", tenantID, id).
				Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return apperrors.ErrNotFound
			}
			return apperrors.ErrConflict
		}

		if newStatus == models.OrderStatusCancelled {
			var items []models.OrderItem
			if err := tx.Where("order_id = ?", id).Find(&items).Error; err != nil {
				return err
			}
			for _, item := range items {
				if err := tx.Model(&models.Item{}).
					Where("tenant_id = ? AND id = ?", tenantID, item.ItemID).
					Update("stock", gorm.Expr("stock + ?", item.Quantity)).Error; err != nil {
					return err
				}
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return r.GetByID(tenantID, id)
}

// CountActiveForTable 餐台上未完结的订单数
func (r *OrderRepository) CountActiveForTable(tenantID, tableID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Order{}).
		Scopes(tenantScope(tenantID)).
		Where("table_id = ? AND status NOT IN ?", tableID,
			[]string{models.OrderStatusPaid, models.OrderStatusCancelled}).
		Count(&count).Error
	return count, err
}

// CountSince 起始时间之后的订单数
func (r *OrderRepository) CountSince(tenantID uint, from time.Time) (int64, error) {
	var count int64
	err := r.db.Model(&models.Order{}).
		Scopes(tenantScope(tenantID)).
		Where("created_at >= ?", from).
		Count(&count).Error
	return count, err
}

// SumRevenue 已结账订单的营收合计
func (r *OrderRepository) SumRevenue(tenantID uint, from, to time.Time) (float64, error) {
	var revenue *float64
	err := r.db.Model(&models.Order{}).
		Scopes(tenantScope(tenantID)).
		Where("status = ? AND created_at >= ? AND created_at < ?", models.OrderStatusPaid, from, to).
		Select("SUM(total_price)").
		Scan(&revenue).Error
	if err != nil {
		return 0, err
	}
	if revenue == nil {
		return 0, nil
	}
	return *revenue, nil
}

// OrderStatusCount 订单状态分布
type OrderStatusCount struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

// GetStatusDistribution 统计各状态订单数
func (r *OrderRepository) GetStatusDistribution(tenantID uint) ([]*OrderStatusCount, error) {
	var results []*OrderStatusCount
	err := r.db.Model(&models.Order{}).
		Scopes(tenantScope(tenantID)).
		Select("status, COUNT(*) as count").
		Group("status").
		Find(&results).Error
	return results, err
}
