package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"contactbook/contact"
	"contactbook/httpserver"
	"contactbook/pkg/config"
	"contactbook/pkg/logger"
	"contactbook/pkg/sentry"
	"contactbook/storage"

	sentrygo "github.com/getsentry/sentry-go"
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

	err = sentrygo.Init(sentrygo.ClientOptions{
		Dsn:              cfg.SentryDSN,
		Environment:      cfg.AppEnv,
		AttachStacktrace: true,
	})
	if err != nil {
		log.Fatal("cannot init sentry", zap.Error(err))
	}
	defer sentrygo.Flush(sentry.FlushTime)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repo, closeStore, err := storage.Open(ctx, cfg, log)
	if err != nil {
		sentry.Fatal(err)
		log.Fatal("cannot open storage", zap.String("driver", cfg.DB.Driver), zap.Error(err))
	}
	defer closeStore()

	server := httpserver.Default(cfg)
	server.Logger = log
	server.ContactService = contact.NewUsecase(repo, log.Named("contact"))

	go func() {
		log.Info("server started", zap.String("addr", server.Addr))
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server stopped with error", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", zap.Error(err))
	}
	log.Info("server stopped")
}
