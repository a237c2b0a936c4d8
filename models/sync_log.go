package models

import "time"

// 同步任务状态
const (
	SyncStatusRunning = "running"
	SyncStatusSuccess = "success"
	SyncStatusPartial = "partial"
	SyncStatusFailed  = "failed"
)

// SyncLog 同步运行记录（每次触发一条，供调用方轮询任务状态）
type SyncLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	RunID string `gorm:"size:64;uniqueIndex;not null" json:"run_id"`
	Job   string `gorm:"size:50;index;not null" json:"job"`

	TotalCount   int    `json:"total_count"`
	SuccessCount int    `json:"success_count"`
	ErrorCount   int    `json:"error_count"`
	Errors       string `gorm:"type:text" json:"errors"`

	Duration  string     `gorm:"size:100" json:"duration"`
	StartTime time.Time  `gorm:"index" json:"start_time"`
	EndTime   *time.Time `json:"end_time"`
	Status    string     `gorm:"size:20;index" json:"status"` // running, success, partial, failed
}

// TableName 指定表名
func (SyncLog) TableName() string {
	return "sync_logs"
}
