package server

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"moviecms/config"
	"moviecms/handles"
	"moviecms/middleware"
	"moviecms/routes"
	"moviecms/services"
	"moviecms/tmdb"
)

// Server HTTP服务器
type Server struct {
	router    *gin.Engine
	sync      *services.SyncService
	scheduler *services.Scheduler
}

// New 组装服务器：数据库、TMDB客户端、同步编排器、调度器、路由
func New() *Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.Default()
	router.Use(middleware.Cors())

	db := config.GetDB()
	cfg := config.AppConfig

	client := tmdb.NewClient(cfg.TMDBBaseURL, cfg.TMDBImageBaseURL, cfg.TMDBToken)
	syncService := services.NewSyncService(db, client, cfg.SyncBatchSize, cfg.SyncBatchDelay)
	scheduler := services.NewScheduler(syncService, cfg.TrendingSyncInterval, cfg.PopularSyncHour)

	movieHandler := handles.NewMovieHandler(db)
	syncHandler := handles.NewSyncHandler(syncService, db)
	routes.SetupRoutes(router, movieHandler, syncHandler)

	return &Server{
		router:    router,
		sync:      syncService,
		scheduler: scheduler,
	}
}

// Run 启动调度器和HTTP监听
func (s *Server) Run() error {
	s.scheduler.Start()
	defer s.Shutdown()

	addr := ":" + config.AppConfig.ServerPort
	log.Info().Str("addr", addr).Msg("HTTP服务启动")
	return s.router.Run(addr)
}

// Shutdown 停止调度器，并让在跑的同步任务在批次边界退出
func (s *Server) Shutdown() {
	s.scheduler.Stop()
	s.sync.Stop()
}
