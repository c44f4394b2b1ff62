package service

import (
	"context"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/stretchr/testify/mock"

	"github.com/carson-networks/allowance-server/internal/events"
	"github.com/carson-networks/allowance-server/internal/ledger"
	"github.com/carson-networks/allowance-server/internal/operator/actions"
	"github.com/carson-networks/allowance-server/internal/storage/account"
	"github.com/carson-networks/allowance-server/internal/storage/transaction"
)

var fixedNow = time.Date(2025, 6, 15, 8, 30, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

type mockOperator struct {
	mock.Mock
}

func (m *mockOperator) Process(ctx context.Context, action actions.IAction) error {
	args := m.Called(ctx, action)
	return args.Error(0)
}

// materializeOf matches the MaterializeSchedule action for scheduleID.
func materializeOf(scheduleID uuid.UUID) interface{} {
	return mock.MatchedBy(func(a actions.IAction) bool {
		m, ok := a.(*actions.MaterializeSchedule)
		return ok && m.ScheduleID == scheduleID
	})
}

type mockScheduleReader struct {
	mock.Mock
}

func (m *mockScheduleReader) FindByID(ctx context.Context, id uuid.UUID) (*ledger.Schedule, error) {
	args := m.Called(ctx, id)
	s, _ := args.Get(0).(*ledger.Schedule)
	return s, args.Error(1)
}

func (m *mockScheduleReader) ListByChild(ctx context.Context, childID uuid.UUID) ([]*ledger.Schedule, error) {
	args := m.Called(ctx, childID)
	s, _ := args.Get(0).([]*ledger.Schedule)
	return s, args.Error(1)
}

func (m *mockScheduleReader) ListIDsByChild(ctx context.Context, childID uuid.UUID) ([]uuid.UUID, error) {
	args := m.Called(ctx, childID)
	ids, _ := args.Get(0).([]uuid.UUID)
	return ids, args.Error(1)
}

func (m *mockScheduleReader) ListChildrenWithDue(ctx context.Context, today time.Time) ([]uuid.UUID, error) {
	args := m.Called(ctx, today)
	ids, _ := args.Get(0).([]uuid.UUID)
	return ids, args.Error(1)
}

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) PublishScheduleMaterialized(ctx context.Context, msg *events.ScheduleMaterialized) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

func (m *mockPublisher) Close() error {
	return nil
}

type mockAccountReader struct {
	mock.Mock
}

func (m *mockAccountReader) FindByID(ctx context.Context, id uuid.UUID) (*ledger.Account, error) {
	args := m.Called(ctx, id)
	a, _ := args.Get(0).(*ledger.Account)
	return a, args.Error(1)
}

func (m *mockAccountReader) List(ctx context.Context, filter *account.AccountFilter) (*account.AccountListResult, error) {
	args := m.Called(ctx, filter)
	r, _ := args.Get(0).(*account.AccountListResult)
	return r, args.Error(1)
}

type mockChildReader struct {
	mock.Mock
}

func (m *mockChildReader) FindByID(ctx context.Context, id uuid.UUID) (*ledger.Child, error) {
	args := m.Called(ctx, id)
	c, _ := args.Get(0).(*ledger.Child)
	return c, args.Error(1)
}

func (m *mockChildReader) ListByHousehold(ctx context.Context, householdID uuid.UUID) ([]*ledger.Child, error) {
	args := m.Called(ctx, householdID)
	c, _ := args.Get(0).([]*ledger.Child)
	return c, args.Error(1)
}

type mockDueProcessor struct {
	mock.Mock
}

func (m *mockDueProcessor) ProcessDue(ctx context.Context, childID uuid.UUID) (*ProcessResult, error) {
	args := m.Called(ctx, childID)
	r, _ := args.Get(0).(*ProcessResult)
	return r, args.Error(1)
}

type mockTransactionReader struct {
	mock.Mock
}

func (m *mockTransactionReader) FindByID(ctx context.Context, id uuid.UUID) (*ledger.Transaction, error) {
	args := m.Called(ctx, id)
	t, _ := args.Get(0).(*ledger.Transaction)
	return t, args.Error(1)
}

func (m *mockTransactionReader) List(ctx context.Context, filter *transaction.TransactionFilter) (*transaction.TransactionListResult, error) {
	args := m.Called(ctx, filter)
	r, _ := args.Get(0).(*transaction.TransactionListResult)
	return r, args.Error(1)
}
