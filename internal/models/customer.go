package models

import "time"

// Customer 客户模型
type Customer struct {
	TenantModel
	Name        string     `json:"name" gorm:"not null;size:100"`
	Phone       string     `json:"phone" gorm:"not null;size:20;index"` // 租户内唯一，由仓储层检查
	Email       *string    `json:"email" gorm:"size:100"`
	Note        string     `json:"note" gorm:"size:500"`
	VisitCount  int        `json:"visit_count" gorm:"default:0"`
	LastVisitAt *time.Time `json:"last_visit_at"`
	Status      string     `json:"status" gorm:"default:'active';size:20"`
}

// TableName 表名
func (c *Customer) TableName() string {
	return "customers"
}

// 客户状态常量
const (
	CustomerStatusActive   = "active"
	CustomerStatusInactive = "inactive"
)
