package service

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/carson-networks/allowance-server/internal/events"
	"github.com/carson-networks/allowance-server/internal/ledger"
	"github.com/carson-networks/allowance-server/internal/operator/actions"
	"github.com/carson-networks/allowance-server/internal/storage"
)

// actionProcessor runs a write in its own database transaction. The
// operator delegator is the production implementation.
type actionProcessor interface {
	Process(ctx context.Context, action actions.IAction) error
}

// Dependencies are the collaborators shared by every service.
type Dependencies struct {
	Storage     *storage.Storage
	Operator    actionProcessor
	Engine      *ledger.Engine
	Publisher   events.Publisher
	Logger      logrus.FieldLogger
	Concurrency int
}

// Service holds all business logic services.
type Service struct {
	Household   *HouseholdService
	Child       *ChildService
	Account     *AccountService
	Transaction *TransactionService
	Schedule    *ScheduleService
}

func NewService(deps Dependencies) *Service {
	reader := deps.Storage.Reader
	schedules := NewScheduleService(reader.Schedules, deps.Operator, deps.Engine, deps.Publisher, deps.Logger, deps.Concurrency)
	return &Service{
		Household:   NewHouseholdService(reader.Households, deps.Operator),
		Child:       NewChildService(reader.Children, deps.Operator),
		Account:     NewAccountService(reader.Accounts, reader.Children, schedules, deps.Operator, deps.Logger),
		Transaction: NewTransactionService(reader.Transactions, reader.Accounts, deps.Operator),
		Schedule:    schedules,
	}
}

type clock func() time.Time

func utcNow() time.Time {
	return time.Now().UTC()
}
