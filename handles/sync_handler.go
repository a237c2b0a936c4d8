package handles

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"moviecms/models"
	"moviecms/services"
	"moviecms/utils"
)

// SyncHandler 同步管理接口
type SyncHandler struct {
	sync *services.SyncService
	db   *gorm.DB
}

// NewSyncHandler 创建同步接口处理器
func NewSyncHandler(syncService *services.SyncService, db *gorm.DB) *SyncHandler {
	return &SyncHandler{sync: syncService, db: db}
}

// trigger 触发任务并立即返回运行凭据，调用方拿run_id轮询结果
func (h *SyncHandler) trigger(c *gin.Context, start func() (*models.SyncLog, error)) {
	entry, err := start()
	if errors.Is(err, services.ErrJobRunning) {
		utils.Error(c, http.StatusConflict, err.Error())
		return
	}
	if err != nil {
		utils.Error(c, http.StatusInternalServerError, err.Error())
		return
	}

	utils.OK(c, gin.H{
		"run_id":     entry.RunID,
		"job":        entry.Job,
		"started_at": entry.StartTime,
	})
}

// parseID 解析路径里的数字ID
func parseID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		utils.Error(c, http.StatusBadRequest, "无效的"+name)
		return 0, false
	}
	return id, true
}

// SyncTrending 触发趋势榜同步
func (h *SyncHandler) SyncTrending(c *gin.Context) {
	h.trigger(c, h.sync.StartTrendingSync)
}

// SyncPopular 触发热门榜同步
func (h *SyncHandler) SyncPopular(c *gin.Context) {
	h.trigger(c, h.sync.StartPopularSync)
}

// SyncNowPlaying 触发正在上映榜同步
func (h *SyncHandler) SyncNowPlaying(c *gin.Context) {
	h.trigger(c, h.sync.StartNowPlayingSync)
}

// SyncTopRated 触发高分榜同步
func (h *SyncHandler) SyncTopRated(c *gin.Context) {
	h.trigger(c, h.sync.StartTopRatedSync)
}

// SyncTrailers 触发预告片同步
func (h *SyncHandler) SyncTrailers(c *gin.Context) {
	h.trigger(c, h.sync.StartTrailersSync)
}

// SyncGenres 触发类型同步
func (h *SyncHandler) SyncGenres(c *gin.Context) {
	h.trigger(c, h.sync.StartGenresSync)
}

// SyncMovieCasts 触发单部电影演职表同步
func (h *SyncHandler) SyncMovieCasts(c *gin.Context) {
	tmdbID, ok := parseID(c, "tmdb_id")
	if !ok {
		return
	}
	h.trigger(c, func() (*models.SyncLog, error) {
		return h.sync.StartMovieCastSync(tmdbID)
	})
}

// SyncAllCasts 触发全量演职表同步
func (h *SyncHandler) SyncAllCasts(c *gin.Context) {
	h.trigger(c, h.sync.StartAllCastsSync)
}

// SyncMovieReviews 触发单部电影影评同步
func (h *SyncHandler) SyncMovieReviews(c *gin.Context) {
	tmdbID, ok := parseID(c, "tmdb_id")
	if !ok {
		return
	}
	h.trigger(c, func() (*models.SyncLog, error) {
		return h.sync.StartMovieReviewsSync(tmdbID)
	})
}

// SyncAllReviews 触发全量影评同步
func (h *SyncHandler) SyncAllReviews(c *gin.Context) {
	h.trigger(c, h.sync.StartAllReviewsSync)
}

// SyncCastDetails 触发人物详情同步
func (h *SyncHandler) SyncCastDetails(c *gin.Context) {
	personID, ok := parseID(c, "person_id")
	if !ok {
		return
	}
	h.trigger(c, func() (*models.SyncLog, error) {
		return h.sync.StartCastDetailsSync(personID)
	})
}

// GetSyncLogs 分页查询同步运行记录，支持按任务名过滤
func (h *SyncHandler) GetSyncLogs(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	query := h.db.Model(&models.SyncLog{})
	if job := c.Query("job"); job != "" {
		query = query.Where("job = ?", job)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.Error(c, http.StatusInternalServerError, "查询同步记录失败")
		return
	}

	var logs []models.SyncLog
	if err := query.Order("start_time DESC").
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Find(&logs).Error; err != nil {
		utils.Error(c, http.StatusInternalServerError, "查询同步记录失败")
		return
	}

	utils.OK(c, gin.H{
		"total":     total,
		"page":      page,
		"page_size": pageSize,
		"items":     logs,
	})
}

// GetSyncLog 按run_id查询单次运行记录
func (h *SyncHandler) GetSyncLog(c *gin.Context) {
	runID := c.Param("run_id")

	var entry models.SyncLog
	err := h.db.Where("run_id = ?", runID).First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		utils.Error(c, http.StatusNotFound, "同步记录不存在")
		return
	}
	if err != nil {
		utils.Error(c, http.StatusInternalServerError, "查询同步记录失败")
		return
	}

	utils.OK(c, entry)
}
