package models

import "time"

// 榜单分类标签
const (
	CategoryTrendingDay  = "trending_day"
	CategoryTrendingWeek = "trending_week"
	CategoryPopular      = "popular"
	CategoryUpcoming     = "upcoming"
	CategoryNowPlaying   = "now_playing"
	CategoryTopRated     = "top_rated"
)

// MovieCategory 电影榜单标签（每个(电影,分类)只有一条，重复同步只刷新时间戳）
type MovieCategory struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `gorm:"index" json:"updated_at"`

	MovieID  uint   `gorm:"uniqueIndex:idx_movie_category;not null" json:"movie_id"`
	Category string `gorm:"size:50;uniqueIndex:idx_movie_category;index;not null" json:"category"`
}

// TableName 指定表名
func (MovieCategory) TableName() string {
	return "movie_categories"
}
