package models

// Table 餐台模型
type Table struct {
	TenantModel
	Number   string `json:"number" gorm:"not null;size:20;index"` // 租户内唯一，由仓储层检查
	Capacity int    `json:"capacity" gorm:"not null;default:4"`
	Status   string `json:"status" gorm:"default:'available';size:20"`
}

// TableName 表名
func (t *Table) TableName() string {
	return "tables"
}

// 餐台状态常量
const (
	TableStatusAvailable = "available"
	TableStatusOccupied  = "occupied"
	TableStatusReserved  = "reserved"
)
