package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/carson-networks/allowance-server/internal/app"
	"github.com/carson-networks/allowance-server/internal/config"
	"github.com/carson-networks/allowance-server/internal/logging"
	"github.com/carson-networks/allowance-server/internal/service"
)

type batchProcessor interface {
	ProcessAllDue(ctx context.Context) (*service.BatchResult, error)
}

func main() {
	_ = godotenv.Load()

	envConfig, err := config.ProcessEnvironmentVariables()
	if err != nil {
		logrus.WithError(err).Fatal("config.ProcessEnvironmentVariables")
		return
	}

	logger := logging.SetupLogging(envConfig.LogLevel)
	logger.WithField("interval", envConfig.RecurrenceInterval.String()).Info("recurrence-worker starting")

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

	run(ctx, application.Service.Schedule, envConfig.RecurrenceInterval, logger)
	logger.Info("recurrence-worker stopped")
}

// run processes due schedules once at startup and then on every tick until
// ctx is cancelled.
func run(ctx context.Context, processor batchProcessor, interval time.Duration, logger logrus.FieldLogger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		// a partial failure still reports what was posted
		result, err := processor.ProcessAllDue(ctx)
		if err != nil {
			logger.WithError(err).Error("RecurrenceWorker.run.failed")
		}
		if result != nil {
			logger.WithFields(logrus.Fields{
				"children":     result.Children,
				"transactions": result.Transactions,
			}).Info("RecurrenceWorker.run.complete")
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
