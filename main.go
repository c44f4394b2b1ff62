package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/carson-networks/allowance-server/api"
	"github.com/carson-networks/allowance-server/internal/app"
	"github.com/carson-networks/allowance-server/internal/config"
	"github.com/carson-networks/allowance-server/internal/logging"
	"github.com/carson-networks/allowance-server/internal/storage"
)

func main() {
	// .env is optional outside local development
	_ = godotenv.Load()

	envConfig, err := config.ProcessEnvironmentVariables()
	if err != nil {
		logrus.WithError(err).Fatal("config.ProcessEnvironmentVariables")
		return
	}

	logger := logging.SetupLogging(envConfig.LogLevel)
	logger.Info("allowance-server starting")

	if err := storage.RunMigrations(storage.ConnectionString(envConfig)); err != nil {
		logger.WithError(err).Fatal("storage.RunMigrations")
		return
	}

	application, err := app.New(envConfig, logger)
	if err != nil {
		logger.WithError(err).Fatal("app.New")
		return
	}
	defer func() {
		if err := application.Close(); err != nil {
			logger.WithError(err).Error("app.Close")
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	httpRest := api.Rest{
		Logger:  logger,
		Port:    envConfig.HTTPPort,
		Service: application.Service,
		Storage: application.Storage,
	}
	if err := httpRest.Serve(ctx); err != nil {
		logger.WithError(err).Error("HttpServer.Serve")
	}
	logger.Info("allowance-server stopped")
}
