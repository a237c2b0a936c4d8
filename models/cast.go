package models

import "time"

// Cast 演职人员（按TMDB人物ID懒创建；详情字段只由人物详情同步任务覆盖）
type Cast struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	TmdbID      int64  `gorm:"uniqueIndex;not null" json:"tmdb_id"`
	Name        string `gorm:"size:200;index" json:"name"`
	ProfilePath string `gorm:"size:500" json:"profile_path"`

	// 详情字段
	Biography          string     `gorm:"type:text" json:"biography"`
	BirthDate          *time.Time `json:"birth_date"`
	PlaceOfBirth       string     `gorm:"size:200" json:"place_of_birth"`
	KnownForDepartment string     `gorm:"size:100" json:"known_for_department"`
	Popularity         float64    `json:"popularity"`
	Gender             string     `gorm:"size:10" json:"gender"`
	ImdbID             string     `gorm:"size:20" json:"imdb_id"`
}

// TableName 指定表名
func (Cast) TableName() string {
	return "casts"
}

// MovieCast 电影演职关系（复合自然键：电影+人物+角色名，同一对人物可以有多个角色）
type MovieCast struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	MovieID   uint   `gorm:"uniqueIndex:idx_movie_cast_character;not null" json:"movie_id"`
	CastID    uint   `gorm:"uniqueIndex:idx_movie_cast_character;not null" json:"cast_id"`
	Character string `gorm:"size:500;uniqueIndex:idx_movie_cast_character" json:"character"`
	Role      string `gorm:"size:100" json:"role"`

	Movie *Movie `gorm:"foreignKey:MovieID" json:"movie,omitempty"`
	Cast  *Cast  `gorm:"foreignKey:CastID" json:"cast,omitempty"`
}

// TableName 指定表名
func (MovieCast) TableName() string {
	return "movie_casts"
}
