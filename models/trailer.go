package models

import "time"

// MovieTrailer 电影预告片（按TMDB视频ID做幂等更新）
type MovieTrailer struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	TmdbID  string `gorm:"size:64;uniqueIndex;not null" json:"tmdb_id"`
	MovieID uint   `gorm:"index;not null" json:"movie_id"`

	Key         string     `gorm:"size:100" json:"key"`
	Name        string     `gorm:"size:500" json:"name"`
	Site        string     `gorm:"size:50" json:"site"`
	Type        string     `gorm:"size:50" json:"type"`
	Official    bool       `json:"official"`
	PublishedAt *time.Time `json:"published_at"`
}

// TableName 指定表名
func (MovieTrailer) TableName() string {
	return "movie_trailers"
}
