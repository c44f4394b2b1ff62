package service

import (
	"context"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/allowance-server/internal/ledger"
	"github.com/carson-networks/allowance-server/internal/operator/actions"
	"github.com/carson-networks/allowance-server/internal/storage/transaction"
)

const defaultTransactionLimit = 20

type transactionReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*ledger.Transaction, error)
	List(ctx context.Context, filter *transaction.TransactionFilter) (*transaction.TransactionListResult, error)
}

type accountFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*ledger.Account, error)
}

// TransactionService handles manual ledger entries. Every write recomputes
// the balance of the affected account in the same database transaction.
type TransactionService struct {
	transactions transactionReader
	accounts     accountFinder
	operator     actionProcessor
	now          clock
}

func NewTransactionService(transactions transactionReader, accounts accountFinder, op actionProcessor) *TransactionService {
	return &TransactionService{
		transactions: transactions,
		accounts:     accounts,
		operator:     op,
		now:          utcNow,
	}
}

func (s *TransactionService) CreateTransaction(ctx context.Context, create ledger.TransactionCreate) (*ledger.Transaction, error) {
	if err := create.Validate(); err != nil {
		return nil, err
	}
	// only the engine links transactions to schedules
	create.ScheduleID = nil

	action := &actions.CreateTransaction{Create: create, Now: s.now()}
	if err := s.operator.Process(ctx, action); err != nil {
		return nil, err
	}
	return action.Created, nil
}

func (s *TransactionService) GetTransaction(ctx context.Context, id uuid.UUID) (*ledger.Transaction, error) {
	return s.transactions.FindByID(ctx, id)
}

func (s *TransactionService) UpdateTransaction(ctx context.Context, id uuid.UUID, update ledger.TransactionUpdate) (*ledger.Transaction, error) {
	action := &actions.UpdateTransaction{TransactionID: id, Update: update, Now: s.now()}
	if err := s.operator.Process(ctx, action); err != nil {
		return nil, err
	}
	return action.Updated, nil
}

func (s *TransactionService) DeleteTransaction(ctx context.Context, id uuid.UUID) error {
	return s.operator.Process(ctx, &actions.DeleteTransaction{TransactionID: id, Now: s.now()})
}

// ListTransactions returns a page of an account's transactions using
// cursor-based pagination.
func (s *TransactionService) ListTransactions(ctx context.Context, accountID uuid.UUID, cursor *transaction.TransactionCursor) (*transaction.TransactionListResult, error) {
	if _, err := s.accounts.FindByID(ctx, accountID); err != nil {
		return nil, err
	}

	filter := &transaction.TransactionFilter{
		AccountID: accountID,
		Limit:     defaultTransactionLimit,
	}
	if cursor != nil {
		filter.Limit = cursor.Limit
		filter.Offset = cursor.Position
		if !cursor.MaxCreationTime.IsZero() {
			maxCreationTime := cursor.MaxCreationTime
			filter.MaxCreationTime = &maxCreationTime
		}
	}
	return s.transactions.List(ctx, filter)
}
