package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humago"
	"github.com/sirupsen/logrus"

	"github.com/carson-networks/allowance-server/internal/handlers/v1/account"
	"github.com/carson-networks/allowance-server/internal/handlers/v1/child"
	"github.com/carson-networks/allowance-server/internal/handlers/v1/household"
	"github.com/carson-networks/allowance-server/internal/handlers/v1/schedule"
	"github.com/carson-networks/allowance-server/internal/handlers/v1/status"
	"github.com/carson-networks/allowance-server/internal/handlers/v1/transaction"
	"github.com/carson-networks/allowance-server/internal/logging"
	"github.com/carson-networks/allowance-server/internal/service"
)

type pinger interface {
	Ping(ctx context.Context) error
}

type registrar interface {
	Register(api huma.API)
}

type Rest struct {
	Logger  *logrus.Logger
	Port    string
	Service *service.Service
	Storage pinger
}

// Routes builds the handler for every endpoint. The huma operations share the
// mux with the plain status check.
func (r *Rest) Routes() http.Handler {
	mux := http.NewServeMux()

	statusHandler := status.NewHandler(r.Storage)
	mux.HandleFunc("/status", logging.LoggingWrapper("Status", r.Logger, statusHandler.Handler))

	api := humago.New(mux, huma.DefaultConfig("Allowance API", "1.0.0"))
	api.UseMiddleware(logging.Middleware(r.Logger))

	svc := r.Service
	handlers := []registrar{
		household.NewCreateHouseholdHandler(svc.Household),
		household.NewGetHouseholdHandler(svc.Household, svc.Child),

		child.NewCreateChildHandler(svc.Child),
		child.NewGetChildHandler(svc.Child),
		child.NewUpdateChildHandler(svc.Child),

		account.NewCreateAccountHandler(svc.Account),
		account.NewGetAccountHandler(svc.Account),
		account.NewListAccountsHandler(svc.Account),

		transaction.NewCreateTransactionHandler(svc.Transaction),
		transaction.NewUpdateTransactionHandler(svc.Transaction),
		transaction.NewDeleteTransactionHandler(svc.Transaction),
		transaction.NewListTransactionsHandler(svc.Transaction),

		schedule.NewCreateScheduleHandler(svc.Schedule),
		schedule.NewUpdateScheduleHandler(svc.Schedule),
		schedule.NewDeleteScheduleHandler(svc.Schedule),
		schedule.NewListSchedulesHandler(svc.Schedule),
	}
	for _, h := range handlers {
		h.Register(api)
	}

	return mux
}

// Serve listens until ctx is cancelled, then shuts the server down.
func (r *Rest) Serve(ctx context.Context) error {
	server := http.Server{
		Addr:              ":" + r.Port,
		Handler:           r.Routes(),
		ReadTimeout:       time.Duration(30) * time.Second,
		WriteTimeout:      time.Duration(30) * time.Second,
		IdleTimeout:       time.Duration(10) * time.Second,
		ReadHeaderTimeout: time.Duration(10) * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		r.Logger.WithField("port", r.Port).Info("HttpServer.Serve.listening")
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			r.Logger.WithError(err).Error("HttpServer.Serve.listen error")
			return err
		}
		return nil
	case <-ctx.Done():
	}

	r.Logger.Info("HttpServer.Serve.shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
