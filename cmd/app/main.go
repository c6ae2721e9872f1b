package main

import (
	"kiosk/config"
	"kiosk/di"
	"kiosk/helper"
	"kiosk/shared/logger"

	"github.com/rs/zerolog/log"
)

func main() {
	logger.InitLogger()

	cfg := config.Get()
	logger.Configure(cfg)

	if cfg.DB.Postgres.AutoMigrate {
		if err := helper.Migrate(cfg, helper.ActionUp); err != nil {
			log.Fatal().Err(err).Msg("Failed to migrate database")
		}
	}

	server := di.InitializeService()
	server.Serve()
}
