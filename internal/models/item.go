package models

// Item 商品/库存模型
type Item struct {
	TenantModel
	SKU        string  `json:"sku" gorm:"not null;size:50;index"` // 租户内唯一，由仓储层检查
	Name       string  `json:"name" gorm:"not null;size:100"`
	CategoryID *uint   `json:"category_id" gorm:"index"`
	Price      float64 `json:"price" gorm:"not null;default:0"`
	Stock      int     `json:"stock" gorm:"not null;default:0"`
	MinStock   int     `json:"min_stock" gorm:"not null;default:0"` // 低于此值视为库存告警
	IsActive   bool    `json:"is_active" gorm:"default:true"`
	Version    int     `json:"version" gorm:"not null;default:1"` // 乐观锁版本号

	// 关联
	Category *MenuCategory `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}

// TableName 表名
func (i *Item) TableName() string {
	return "items"
}
