package models

import "time"

// Review 影评（从TMDB导入，归属到系统归因用户）
type Review struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	TmdbID  string `gorm:"size:64;uniqueIndex;not null" json:"tmdb_id"`
	MovieID uint   `gorm:"index;not null" json:"movie_id"`
	UserID  uint   `gorm:"index;not null" json:"user_id"`

	Content  string     `gorm:"type:text" json:"content"`
	Rating   *float64   `json:"rating"`
	AuthorAt *time.Time `json:"author_at"` // 评论在TMDB上的发表时间

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// TableName 指定表名
func (Review) TableName() string {
	return "reviews"
}
