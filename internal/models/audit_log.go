package models

import (
	"time"

	"gorm.io/datatypes"
)

// AuditLog 审计流水 - 只追加，应用层永不修改或删除
type AuditLog struct {
	ID           uint           `json:"id" gorm:"primarykey"`
	ActorID      uint           `json:"actor_id" gorm:"not null;index"`
	TenantID     *uint          `json:"tenant_id" gorm:"index"` // 平台级操作为null
	Action       string         `json:"action" gorm:"not null;size:50;index"`
	ResourceType string         `json:"resource_type" gorm:"not null;size:50"`
	ResourceID   string         `json:"resource_id" gorm:"size:50"`
	RequestID    string         `json:"request_id" gorm:"size:40"`
	Details      datatypes.JSON `json:"details,omitempty"`
	CreatedAt    time.Time      `json:"created_at" gorm:"index"`
}

// TableName 表名
func (a *AuditLog) TableName() string {
	return "audit_logs"
}
