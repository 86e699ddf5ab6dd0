package models

// Tenant 租户模型 - 贫血模型，只包含数据结构
type Tenant struct {
	BaseModel
	Name      string `json:"name" gorm:"not null;size:100"`
	Subdomain string `json:"subdomain" gorm:"unique;not null;size:50;index"` // 全局唯一，创建后不可修改
	Plan      string `json:"plan" gorm:"default:'starter';size:20"`
	Status    string `json:"status" gorm:"default:'active';size:20"`

	// 配额
	MaxUsers     int `json:"max_users" gorm:"not null;default:20"`
	MaxItems     int `json:"max_items" gorm:"not null;default:2000"`
	MaxCustomers int `json:"max_customers" gorm:"not null;default:5000"`

	UserCount int `json:"user_count" gorm:"-"` // 用户数量，不存储在数据库中
}

// TableName 表名
func (t *Tenant) TableName() string {
	return "tenants"
}

// 租户状态常量
const (
	TenantStatusActive   = "active"
	TenantStatusInactive = "inactive"
)

// 套餐常量
const (
	TenantPlanStarter    = "starter"
	TenantPlanBusiness   = "business"
	TenantPlanEnterprise = "enterprise"
)
