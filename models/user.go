package models

import "time"

// User 用户模型
// 这里只承载同步引擎需要的系统归因用户：代表TMDB影评作者的非交互账号，
// 邮箱由外部用户名合成（tmdb_<username>@system.local），创建一次后复用。
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Email    string `gorm:"size:300;uniqueIndex;not null" json:"email"`
	FullName string `gorm:"size:200" json:"full_name"`
	Provider string `gorm:"size:50;index" json:"provider"`
}

// TableName 指定表名
func (User) TableName() string {
	return "users"
}
