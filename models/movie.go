package models

import (
	"time"
)

// Movie 电影模型（TMDB同步的规范存储，自然键为tmdb_id）
type Movie struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// 自然键：TMDB电影ID
	TmdbID int64 `gorm:"uniqueIndex;not null" json:"tmdb_id"`

	// 基本信息（每次同步无条件覆盖，TMDB是这些字段的唯一来源）
	Title         string     `gorm:"size:500;index" json:"title"`
	OriginalTitle string     `gorm:"size:500" json:"original_title"`
	Overview      string     `gorm:"type:text" json:"overview"`
	ReleaseDate   *time.Time `gorm:"index" json:"release_date"`
	Runtime       float64    `json:"runtime"`

	// 图片（相对路径 + 拼接后的完整URL）
	PosterPath   string `gorm:"size:500" json:"poster_path"`
	BackdropPath string `gorm:"size:500" json:"backdrop_path"`
	PosterURL    string `gorm:"size:1000" json:"poster_url"`
	BackdropURL  string `gorm:"size:1000" json:"backdrop_url"`

	// 热度/评分
	Popularity  float64 `gorm:"index" json:"popularity"`
	VoteAverage float64 `json:"vote_average"`
	VoteCount   int64   `json:"vote_count"`

	// 扩展信息
	Adult            bool   `json:"adult"`
	Budget           int64  `json:"budget"`
	Revenue          int64  `json:"revenue"`
	Homepage         string `gorm:"size:1000" json:"homepage"`
	ImdbID           string `gorm:"size:20;index" json:"imdb_id"`
	OriginalLanguage string `gorm:"size:20" json:"original_language"`
	Status           string `gorm:"size:50" json:"status"`
	Tagline          string `gorm:"size:1000" json:"tagline"`

	// 关联
	Genres              []Genre             `gorm:"many2many:movie_genres" json:"genres,omitempty"`
	Categories          []MovieCategory     `gorm:"foreignKey:MovieID" json:"categories,omitempty"`
	Trailers            []MovieTrailer      `gorm:"foreignKey:MovieID" json:"trailers,omitempty"`
	Reviews             []Review            `gorm:"foreignKey:MovieID" json:"reviews,omitempty"`
	Credits             []MovieCast         `gorm:"foreignKey:MovieID" json:"credits,omitempty"`
	ProductionCompanies []ProductionCompany `gorm:"foreignKey:MovieID" json:"production_companies,omitempty"`
	ProductionCountries []ProductionCountry `gorm:"foreignKey:MovieID" json:"production_countries,omitempty"`
	SpokenLanguages     []SpokenLanguage    `gorm:"foreignKey:MovieID" json:"spoken_languages,omitempty"`
}

// TableName 指定表名
func (Movie) TableName() string {
	return "movies"
}

// ProductionCompany 制片公司（每次详情同步整体替换）
type ProductionCompany struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	MovieID uint   `gorm:"index;not null" json:"movie_id"`
	TmdbID  int64  `gorm:"index" json:"tmdb_id"`
	Name    string `gorm:"size:200" json:"name"`

	LogoPath      string `gorm:"size:500" json:"logo_path"`
	OriginCountry string `gorm:"size:10" json:"origin_country"`
}

// TableName 指定表名
func (ProductionCompany) TableName() string {
	return "movie_production_companies"
}

// ProductionCountry 制片国家
type ProductionCountry struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	MovieID  uint   `gorm:"index;not null" json:"movie_id"`
	Iso31661 string `gorm:"size:10" json:"iso_3166_1"`
	Name     string `gorm:"size:100" json:"name"`
}

// TableName 指定表名
func (ProductionCountry) TableName() string {
	return "movie_production_countries"
}

// SpokenLanguage 对白语言
type SpokenLanguage struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	MovieID     uint   `gorm:"index;not null" json:"movie_id"`
	Iso6391     string `gorm:"size:10" json:"iso_639_1"`
	Name        string `gorm:"size:100" json:"name"`
	EnglishName string `gorm:"size:100" json:"english_name"`
}

// TableName 指定表名
func (SpokenLanguage) TableName() string {
	return "movie_spoken_languages"
}
