package handles

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"moviecms/models"
	"moviecms/utils"
)

// MovieHandler 电影公开查询接口
type MovieHandler struct {
	db *gorm.DB
}

// NewMovieHandler 创建电影接口处理器
func NewMovieHandler(db *gorm.DB) *MovieHandler {
	return &MovieHandler{db: db}
}

// GetMovies 分页查询电影列表
// 支持 category（榜单标签）、keyword（标题模糊）、genre_id（类型）过滤
func (h *MovieHandler) GetMovies(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	query := h.db.Model(&models.Movie{})

	if category := c.Query("category"); category != "" {
		query = query.Joins(
			"JOIN movie_categories ON movie_categories.movie_id = movies.id AND movie_categories.category = ?",
			category,
		)
	}

	if keyword := c.Query("keyword"); keyword != "" {
		like := "%" + keyword + "%"
		query = query.Where("movies.title LIKE ? OR movies.original_title LIKE ?", like, like)
	}

	if genreID := c.Query("genre_id"); genreID != "" {
		query = query.
			Joins("JOIN movie_genres ON movie_genres.movie_id = movies.id").
			Joins("JOIN genres ON genres.id = movie_genres.genre_id AND genres.tmdb_id = ?", genreID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.Error(c, http.StatusInternalServerError, "查询电影失败")
		return
	}

	var movies []models.Movie
	if err := query.Preload("Genres").
		Order("movies.popularity DESC").
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Find(&movies).Error; err != nil {
		utils.Error(c, http.StatusInternalServerError, "查询电影失败")
		return
	}

	utils.OK(c, gin.H{
		"total":     total,
		"page":      page,
		"page_size": pageSize,
		"items":     movies,
	})
}

// GetMovieDetail 按tmdb_id查询电影详情（带全部关联）
func (h *MovieHandler) GetMovieDetail(c *gin.Context) {
	tmdbID, ok := parseID(c, "tmdb_id")
	if !ok {
		return
	}

	var movie models.Movie
	err := h.db.
		Preload("Genres").
		Preload("Categories").
		Preload("Trailers").
		Preload("Reviews.User").
		Preload("Credits.Cast").
		Preload("ProductionCompanies").
		Preload("ProductionCountries").
		Preload("SpokenLanguages").
		Where("tmdb_id = ?", tmdbID).
		First(&movie).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		utils.Error(c, http.StatusNotFound, "电影不存在")
		return
	}
	if err != nil {
		utils.Error(c, http.StatusInternalServerError, "查询电影失败")
		return
	}

	utils.OK(c, movie)
}

// GetGenres 查询全部类型
func (h *MovieHandler) GetGenres(c *gin.Context) {
	var genres []models.Genre
	if err := h.db.Order("name").Find(&genres).Error; err != nil {
		utils.Error(c, http.StatusInternalServerError, "查询类型失败")
		return
	}
	utils.OK(c, genres)
}

// GetCastDetail 按tmdb_id查询演职人员详情（带参演电影）
func (h *MovieHandler) GetCastDetail(c *gin.Context) {
	tmdbID, ok := parseID(c, "tmdb_id")
	if !ok {
		return
	}

	var cast models.Cast
	err := h.db.Where("tmdb_id = ?", tmdbID).First(&cast).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		utils.Error(c, http.StatusNotFound, "演职人员不存在")
		return
	}
	if err != nil {
		utils.Error(c, http.StatusInternalServerError, "查询演职人员失败")
		return
	}

	var credits []models.MovieCast
	if err := h.db.Preload("Movie").
		Where("cast_id = ?", cast.ID).
		Find(&credits).Error; err != nil {
		utils.Error(c, http.StatusInternalServerError, "查询参演记录失败")
		return
	}

	utils.OK(c, gin.H{
		"cast":    cast,
		"credits": credits,
	})
}

// GetStats 库存统计
func (h *MovieHandler) GetStats(c *gin.Context) {
	var movies, genres, casts, trailers, reviews int64
	h.db.Model(&models.Movie{}).Count(&movies)
	h.db.Model(&models.Genre{}).Count(&genres)
	h.db.Model(&models.Cast{}).Count(&casts)
	h.db.Model(&models.MovieTrailer{}).Count(&trailers)
	h.db.Model(&models.Review{}).Count(&reviews)

	utils.OK(c, gin.H{
		"movies":   movies,
		"genres":   genres,
		"casts":    casts,
		"trailers": trailers,
		"reviews":  reviews,
	})
}
