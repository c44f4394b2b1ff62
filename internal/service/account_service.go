package service

import (
	"context"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/carson-networks/allowance-server/internal/ledger"
	"github.com/carson-networks/allowance-server/internal/operator/actions"
	"github.com/carson-networks/allowance-server/internal/storage/account"
)

const defaultAccountLimit = 20

type accountReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*ledger.Account, error)
	List(ctx context.Context, filter *account.AccountFilter) (*account.AccountListResult, error)
}

type childFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*ledger.Child, error)
}

// dueProcessor brings a child's schedules up to date.
type dueProcessor interface {
	ProcessDue(ctx context.Context, childID uuid.UUID) (*ProcessResult, error)
}

// AccountService handles account business logic.
type AccountService struct {
	accounts accountReader
	children childFinder
	due      dueProcessor
	operator actionProcessor
	logger   logrus.FieldLogger
	now      clock
}

func NewAccountService(
	accounts accountReader,
	children childFinder,
	due dueProcessor,
	op actionProcessor,
	logger logrus.FieldLogger,
) *AccountService {
	return &AccountService{
		accounts: accounts,
		children: children,
		due:      due,
		operator: op,
		logger:   logger,
		now:      utcNow,
	}
}

// CreateAccount opens an account for a child with a zero balance.
func (s *AccountService) CreateAccount(ctx context.Context, childID uuid.UUID, name string) (*ledger.Account, error) {
	if err := ledger.ValidateName("name", name); err != nil {
		return nil, err
	}

	id, err := uuid.NewV4()
	if err != nil {
		return nil, err
	}
	now := s.now()
	acc := &ledger.Account{
		ID:        id,
		ChildID:   childID,
		Name:      name,
		Balance:   decimal.Zero,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.operator.Process(ctx, &actions.CreateAccount{Account: acc}); err != nil {
		return nil, err
	}
	return acc, nil
}

func (s *AccountService) GetAccount(ctx context.Context, id uuid.UUID) (*ledger.Account, error) {
	return s.accounts.FindByID(ctx, id)
}

// ListAccounts materializes the child's due schedules and then returns a page
// of the child's accounts, so balances include every occurrence up to today.
// A failing schedule is logged by the processor and does not fail the list.
func (s *AccountService) ListAccounts(ctx context.Context, childID uuid.UUID, cursor *account.AccountCursor) (*account.AccountListResult, error) {
	if _, err := s.children.FindByID(ctx, childID); err != nil {
		return nil, err
	}

	if _, err := s.due.ProcessDue(ctx, childID); err != nil {
		s.logger.WithError(err).
			WithField("childID", childID.String()).
			Warn("AccountService.ListAccounts.processDueFailed")
	}

	filter := &account.AccountFilter{
		ChildID: childID,
		Limit:   defaultAccountLimit,
	}
	if cursor != nil {
		filter.Limit = cursor.Limit
		filter.Offset = cursor.Position
	}
	return s.accounts.List(ctx, filter)
}
