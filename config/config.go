/*
Package config 配置管理包

项目结构说明：
================

/moviecms
├── main.go              # 程序入口，只负责启动应用
├── config/              # 配置相关
│   ├── config.go        # 应用配置（环境变量）
│   └── database.go      # 数据库连接和初始化
├── server/              # 服务器相关
│   └── server.go        # HTTP服务器启动逻辑
├── routes/              # 路由配置
│   └── routes.go        # API路由注册
├── tmdb/                # TMDB外部API客户端
│   ├── client.go        # 分页HTTP客户端
│   ├── types.go         # TMDB响应结构
│   ├── errors.go        # 错误分类
│   └── images.go        # 图片URL拼接
├── handles/             # 业务逻辑处理层
│   ├── sync_handler.go  # 同步任务触发API
│   └── movie_handler.go # 电影查询API
├── services/            # 服务层
│   ├── resolver.go      # 实体解析（按自然键查找或创建）
│   ├── sync_service.go  # 同步编排器（核心）
│   └── scheduler.go     # 定时同步调度
├── models/              # 数据库模型
├── middleware/          # 中间件（CORS、管理员认证）
└── utils/               # 工具函数（统一响应格式）

数据流向：
1. main.go -> 初始化配置和数据库 -> 启动server
2. scheduler/管理员API -> services/sync_service -> tmdb客户端采集 -> 写入models
3. 公开API -> handles -> 查询models
*/
package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	ServerPort   string
	DatabasePath string
	AdminToken   string

	// TMDB上游配置（全部通过环境变量注入，不在代码里写死）
	TMDBToken        string
	TMDBBaseURL      string
	TMDBImageBaseURL string

	// 同步节奏
	SyncBatchSize        int           // 全量同步的批次大小
	SyncBatchDelay       time.Duration // 批次之间的暂停，避免触发上游限流
	TrendingSyncInterval time.Duration // 趋势榜定时同步间隔
	PopularSyncHour      int           // 热门榜每日同步的整点（小时）
}

var AppConfig *Config

// LoadConfig 加载配置
func LoadConfig() {
	AppConfig = &Config{
		ServerPort:   getEnv("PORT", "8080"),
		DatabasePath: getEnv("DB_PATH", "moviecms.db"),
		AdminToken:   getEnv("ADMIN_TOKEN", "moviecms_admin_2025"),

		TMDBToken:        getEnv("TMDB_TOKEN", ""),
		TMDBBaseURL:      getEnv("TMDB_BASE_URL", "https://api.themoviedb.org/3"),
		TMDBImageBaseURL: getEnv("TMDB_IMAGE_BASE_URL", "https://image.tmdb.org/t/p/"),

		SyncBatchSize:        getEnvInt("SYNC_BATCH_SIZE", 20),
		SyncBatchDelay:       getEnvDuration("SYNC_BATCH_DELAY", time.Second),
		TrendingSyncInterval: getEnvDuration("TRENDING_SYNC_INTERVAL", 4*time.Hour),
		PopularSyncHour:      getEnvInt("POPULAR_SYNC_HOUR", 1),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
