package models

// Order 订单模型
// TenantID直接声明以参与(tenant_id, order_no)联合唯一索引
type Order struct {
	BaseModel
	TenantID   uint    `json:"tenant_id" gorm:"not null;index;uniqueIndex:idx_tenant_order_no,priority:1"`
	OrderNo    string  `json:"order_no" gorm:"not null;size:40;uniqueIndex:idx_tenant_order_no,priority:2"` // 由仓储层生成
	TableID    *uint   `json:"table_id" gorm:"index"`
	CustomerID *uint   `json:"customer_id" gorm:"index"`
	Status     string  `json:"status" gorm:"default:'pending';size:20"`
	TotalPrice float64 `json:"total_price" gorm:"not null;default:0"`
	Note       string  `json:"note" gorm:"size:500"`
	CreatedBy  uint    `json:"created_by" gorm:"not null"`          // 下单员工ID
	Version    int     `json:"version" gorm:"not null;default:1"`   // 乐观锁版本号

	// 关联
	Table    *Table      `gorm:"foreignKey:TableID" json:"table,omitempty"`
	Customer *Customer   `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	Items    []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
}

// TableName 表名
func (o *Order) TableName() string {
	return "orders"
}

// OrderItem 订单明细
type OrderItem struct {
	BaseModel
	OrderID   uint    `json:"order_id" gorm:"not null;index"`
	ItemID    uint    `json:"item_id" gorm:"not null;index"`
	ItemName  string  `json:"item_name" gorm:"not null;size:100"` // 下单时的商品名快照
	Quantity  int     `json:"quantity" gorm:"not null"`
	UnitPrice float64 `json:"unit_price" gorm:"not null"` // 下单时的单价快照
	Note      string  `json:"note" gorm:"size:200"`
}

// TableName 表名
func (oi *OrderItem) TableName() string {
	return "order_items"
}

// 订单状态常量
const (
	OrderStatusPending   = "pending"
	OrderStatusPreparing = "preparing"
	OrderStatusReady     = "ready"
	OrderStatusServed    = "served"
	OrderStatusPaid      = "paid"
	OrderStatusCancelled = "cancelled"
)

// OrderStatusTransitions 合法的状态流转
var OrderStatusTransitions = map[string][]string{
	OrderStatusPending:   {OrderStatusPreparing, OrderStatusCancelled},
	OrderStatusPreparing: {OrderStatusReady, OrderStatusCancelled},
	OrderStatusReady:     {OrderStatusServed, OrderStatusCancelled},
	OrderStatusServed:    {OrderStatusPaid},
	OrderStatusPaid:      {},
	OrderStatusCancelled: {},
}

// CanTransition 检查状态流转是否合法
func CanTransition(from, to string) bool {
	for _, next := range OrderStatusTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
