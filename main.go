package main

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"moviecms/config"
	"moviecms/server"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	config.LoadConfig()
	if err := config.InitDatabase(); err != nil {
		log.Fatal().Err(err).Msg("数据库初始化失败")
	}

	if err := server.New().Run(); err != nil {
		log.Fatal().Err(err).Msg("服务启动失败")
	}
}
