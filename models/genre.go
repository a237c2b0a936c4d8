package models

import "time"

// Genre 电影类型（按TMDB类型ID懒创建，名称仅由类型同步任务修正）
type Genre struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	TmdbID int64  `gorm:"uniqueIndex;not null" json:"tmdb_id"`
	Name   string `gorm:"size:100;index" json:"name"`
}

// TableName 指定表名
func (Genre) TableName() string {
	return "genres"
}
