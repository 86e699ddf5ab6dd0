package models

import (
	"time"
)

// BaseModel 基础模型
type BaseModel struct {
	ID        uint      `json:"id" gorm:"primarykey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TenantModel 租户隔离基础模型
// 所有租户内实体都嵌入它；TenantID在创建时由仓储层写入，此后不可变更
type TenantModel struct {
	BaseModel
	TenantID uint `json:"tenant_id" gorm:"not null;index"`
}
