package services

import (
	"time"

	"servaan/internal/repository"

	"gorm.io/gorm"
)

// ReportService 聚合统计
// 租户看板严格限定在单租户分区内；平台总览只返回聚合值，绝不返回原始行
type ReportService struct {
	tenantRepo   *repository.TenantRepository
	userRepo     *repository.UserRepository
	customerRepo *repository.CustomerRepository
	itemRepo     *repository.ItemRepository
	orderRepo    *repository.OrderRepository
	auditRepo    *repository.AuditLogRepository
}

func NewReportService(db *gorm.DB) *ReportService {
	return &ReportService{
		tenantRepo:   repository.NewTenantRepository(db),
		userRepo:     repository.NewUserRepository(db),
		customerRepo: repository.NewCustomerRepository(db),
		itemRepo:     repository.NewItemRepository(db),
		orderRepo:    repository.NewOrderRepository(db),
		auditRepo:    repository.NewAuditLogRepository(db),
	}
}

// TenantDashboard 租户看板
type TenantDashboard struct {
	OrdersToday     int64                         `json:"orders_today"`
	RevenueToday    float64                       `json:"revenue_today"`
	RevenueMonth    float64                       `json:"revenue_month"`
	ActiveCustomers int64                         `json:"active_customers"`
	ActiveItems     int64                         `json:"active_items"`
	LowStockItems   int64                         `json:"low_stock_items"`
	ActiveUsers     int64                         `json:"active_users"`
	OrdersByStatus  []*repository.OrderStatusCount `json:"orders_by_status"`
}

// GetTenantDashboard 租户看板，全部来自真实聚合查询
func (s *ReportService) GetTenantDashboard(tenantID uint) (*TenantDashboard, error) {
	now := time.Now()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	dashboard := &TenantDashboard{}
	var err error

	if dashboard.OrdersToday, err = s.orderRepo.CountSince(tenantID, dayStart); err != nil {
		return nil, err
	}
	if dashboard.RevenueToday, err = s.orderRepo.SumRevenue(tenantID, dayStart, now); err != nil {
		return nil, err
	}
	if dashboard.RevenueMonth, err = s.orderRepo.SumRevenue(tenantID, monthStart, now); err != nil {
		return nil, err
	}
	if dashboard.ActiveCustomers, err = s.customerRepo.CountActive(tenantID); err != nil {
		return nil, err
	}
	if dashboard.ActiveItems, err = s.itemRepo.CountActive(tenantID); err != nil {
		return nil, err
	}
	if dashboard.LowStockItems, err = s.itemRepo.CountLowStock(tenantID); err != nil {
		return nil, err
	}
	if dashboard.ActiveUsers, err = s.userRepo.CountActive(tenantID); err != nil {
		return nil, err
	}
	if dashboard.OrdersByStatus, err = s.orderRepo.GetStatusDistribution(tenantID); err != nil {
		return nil, err
	}

	return dashboard, nil
}

// TenantUsage 平台总览里单个租户的用量（只有聚合值，没有行标识）
type TenantUsage struct {
	TenantID    uint  `json:"tenant_id"`
	UserCount   int64 `json:"user_count"`
	ItemCount   int64 `json:"item_count"`
	OrderCount  int64 `json:"order_count"`
	AuditCount  int64 `json:"audit_count"`
}

// PlatformOverview 平台总览
type PlatformOverview struct {
	Tenants  *TenantStats   `json:"tenants"`
	Usage    []*TenantUsage `json:"usage"`
}

// GetPlatformOverview 跨租户聚合，仅平台角色可达（由鉴权门拦截）
func (s *ReportService) GetPlatformOverview() (*PlatformOverview, error) {
	byStatus, err := s.tenantRepo.GetStatusDistribution()
	if err != nil {
		return nil, err
	}
	byPlan, err := s.tenantRepo.GetPlanDistribution()
	if err != nil {
		return nil, err
	}

	stats := &TenantStats{ByStatus: byStatus, ByPlan: byPlan}
	for _, sc := range byStatus {
		stats.Total += sc.Count
		switch sc.Status {
		case "active":
			stats.Active = sc.Count
		case "inactive":
			stats.Inactive = sc.Count
		}
	}

	ids, err := s.tenantRepo.ListActiveIDs()
	if err != nil {
		return nil, err
	}

	usage := make([]*TenantUsage, 0, len(ids))
	for _, id := range ids {
		u := &TenantUsage{TenantID: id}
		if u.UserCount, err = s.userRepo.CountActive(id); err != nil {
			return nil, err
		}
		if u.ItemCount, err = s.itemRepo.CountActive(id); err != nil {
			return nil, err
		}
		if u.OrderCount, err = s.orderRepo.CountSince(id, time.Time{}); err != nil {
			return nil, err
		}
		if u.AuditCount, err = s.auditRepo.CountForTenant(id); err != nil {
			return nil, err
		}
		usage = append(usage, u)
	}

	return &PlatformOverview{Tenants: stats, Usage: usage}, nil
}
