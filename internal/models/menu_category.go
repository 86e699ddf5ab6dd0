package models

// MenuCategory 菜单分类模型
type MenuCategory struct {
	TenantModel
	Name      string `json:"name" gorm:"not null;size:100"` // 租户内唯一，由仓储层检查
	SortOrder int    `json:"sort_order" gorm:"default:0"`
	IsActive  bool   `json:"is_active" gorm:"default:true"`
}

// TableName 表名
func (m *MenuCategory) TableName() string {
	return "menu_categories"
}
