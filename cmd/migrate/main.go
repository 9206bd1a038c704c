package main

import (
	"context"
	"os"

	"contactbook/pkg/config"
	"contactbook/pkg/logger"
	"contactbook/storage"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	log, err := logger.New(cfg.AppEnv, cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer log.Sync() //nolint: errcheck

	total, err := storage.Migrate(context.Background(), cfg, log)
	if err != nil {
		log.Error("cannot execute migration", zap.String("driver", cfg.DB.Driver), zap.Error(err))
		os.Exit(1)
	}

	log.Info("applied migrations", zap.String("driver", cfg.DB.Driver), zap.Int("total", total))
}
