package models

import (
	"time"

	"gorm.io/datatypes"
)

// ExportJob 审计日志导出任务
// 导出在请求线程之外执行，前端轮询状态后下载文件
type ExportJob struct {
	ID          string         `json:"id" gorm:"primarykey;size:40"` // UUID
	TenantID    uint           `json:"tenant_id" gorm:"not null;index"`
	RequestedBy uint           `json:"requested_by" gorm:"not null"`
	Status      string         `json:"status" gorm:"default:'queued';size:20"`
	Params      datatypes.JSON `json:"params,omitempty"` // 过滤条件（起止日期、操作类型）
	FilePath    string         `json:"-" gorm:"size:255"`
	Error       string         `json:"error,omitempty" gorm:"size:500"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	FinishedAt  *time.Time     `json:"finished_at"`
}

// TableName 表名
func (e *ExportJob) TableName() string {
	return "export_jobs"
}

// 导出任务状态常量
const (
	ExportStatusQueued    = "queued"
	ExportStatusRunning   = "running"
	ExportStatusSuccess   = "success"
	ExportStatusFailed    = "failed"
	ExportStatusCancelled = "cancelled"
)
