package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"moviecms/handles"
	"moviecms/middleware"
)

// SetupRoutes 注册全部路由
// 公开接口在/api下，同步管理接口在/api/admin下并要求Bearer令牌。
func SetupRoutes(r *gin.Engine, movies *handles.MovieHandler, syncs *handles.SyncHandler) {
	r.GET("/health", healthCheck)

	api := r.Group("/api")
	{
		api.GET("/movies", movies.GetMovies)
		api.GET("/movies/:tmdb_id", movies.GetMovieDetail)
		api.GET("/genres", movies.GetGenres)
		api.GET("/casts/:tmdb_id", movies.GetCastDetail)
		api.GET("/stats", movies.GetStats)
	}

	admin := r.Group("/api/admin", middleware.AdminAuth())
	{
		admin.POST("/sync/trending", syncs.SyncTrending)
		admin.POST("/sync/popular", syncs.SyncPopular)
		admin.POST("/sync/now-playing", syncs.SyncNowPlaying)
		admin.POST("/sync/top-rated", syncs.SyncTopRated)
		admin.POST("/sync/trailers", syncs.SyncTrailers)
		admin.POST("/sync/genres", syncs.SyncGenres)
		admin.POST("/sync/casts", syncs.SyncAllCasts)
		admin.POST("/sync/reviews", syncs.SyncAllReviews)
		admin.POST("/sync/movies/:tmdb_id/casts", syncs.SyncMovieCasts)
		admin.POST("/sync/movies/:tmdb_id/reviews", syncs.SyncMovieReviews)
		admin.POST("/sync/persons/:person_id", syncs.SyncCastDetails)
		admin.GET("/sync-logs", syncs.GetSyncLogs)
		admin.GET("/sync-logs/:run_id", syncs.GetSyncLog)
	}
}

// healthCheck 健康检查
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"code": 200,
		"msg":  "ok",
		"data": nil,
	})
}
