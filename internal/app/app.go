// Package app wires storage, the operator, events and services together for
// the server and worker binaries.
package app

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
	"github.com/sirupsen/logrus"

	"github.com/carson-networks/allowance-server/internal/config"
	"github.com/carson-networks/allowance-server/internal/events"
	"github.com/carson-networks/allowance-server/internal/ledger"
	"github.com/carson-networks/allowance-server/internal/operator"
	"github.com/carson-networks/allowance-server/internal/service"
	"github.com/carson-networks/allowance-server/internal/storage"
)

type App struct {
	Storage   *storage.Storage
	Operator  *operator.OperatorDelegator
	Publisher events.Publisher
	Service   *service.Service
}

// New opens the database, starts the operator workers and builds the
// services. Close releases all of it.
func New(env *config.Config, logger *logrus.Logger) (*App, error) {
	dbStorage, err := storage.NewStorage(env)
	if err != nil {
		return nil, err
	}

	publisher, err := events.NewPublisher(env.AMQPURL, env.AMQPExchange, env.AMQPRoutingKey, logger)
	if err != nil {
		_ = dbStorage.Close()
		return nil, fmt.Errorf("create event publisher: %w", err)
	}

	op := operator.NewOperatorDelegator(dbStorage, env.OperatorWorkers, logger)
	op.Start()

	engine := ledger.NewEngine(
		ledger.WithMaxOccurrences(env.MaxMissedOccurrences),
		ledger.WithLogger(logger),
	)

	svc := service.NewService(service.Dependencies{
		Storage:     dbStorage,
		Operator:    op,
		Engine:      engine,
		Publisher:   publisher,
		Logger:      logger,
		Concurrency: env.RecurrenceConcurrency,
	})

	return &App{
		Storage:   dbStorage,
		Operator:  op,
		Publisher: publisher,
		Service:   svc,
	}, nil
}

// Close stops the operator before closing the connections it writes through.
func (a *App) Close() error {
	a.Operator.Stop()

	var result *multierror.Error
	if err := a.Publisher.Close(); err != nil {
		result = multierror.Append(result, fmt.Errorf("close publisher: %w", err))
	}
	if err := a.Storage.Close(); err != nil {
		result = multierror.Append(result, fmt.Errorf("close storage: %w", err))
	}
	return result.ErrorOrNil()
}
