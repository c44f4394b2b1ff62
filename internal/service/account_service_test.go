package service

import (
	"context"
	"errors"
	"testing"

	"github.com/gofrs/uuid/v5"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/carson-networks/allowance-server/internal/ledger"
	"github.com/carson-networks/allowance-server/internal/operator/actions"
	"github.com/carson-networks/allowance-server/internal/storage/account"
)

type accountFixture struct {
	svc      *AccountService
	accounts *mockAccountReader
	children *mockChildReader
	due      *mockDueProcessor
	operator *mockOperator
	logs     *test.Hook
}

func newAccountFixture(t *testing.T) *accountFixture {
	t.Helper()
	logger, hook := test.NewNullLogger()
	f := &accountFixture{
		accounts: &mockAccountReader{},
		children: &mockChildReader{},
		due:      &mockDueProcessor{},
		operator: &mockOperator{},
		logs:     hook,
	}
	f.svc = NewAccountService(f.accounts, f.children, f.due, f.operator, logger)
	f.svc.now = fixedClock
	t.Cleanup(func() {
		f.accounts.AssertExpectations(t)
		f.children.AssertExpectations(t)
		f.due.AssertExpectations(t)
		f.operator.AssertExpectations(t)
	})
	return f
}

func TestCreateAccount_StartsAtZero(t *testing.T) {
	f := newAccountFixture(t)
	childID := uuid.Must(uuid.NewV4())

	f.operator.On("Process", mock.Anything, mock.MatchedBy(func(a actions.IAction) bool {
		c, ok := a.(*actions.CreateAccount)
		return ok && c.Account.ChildID == childID && c.Account.Balance.IsZero() && c.Account.CreatedAt.Equal(fixedNow)
	})).Return(nil)

	acc, err := f.svc.CreateAccount(context.Background(), childID, "Savings")

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, acc.ID)
	assert.Equal(t, "Savings", acc.Name)
}

func TestCreateAccount_BlankName(t *testing.T) {
	f := newAccountFixture(t)

	_, err := f.svc.CreateAccount(context.Background(), uuid.Must(uuid.NewV4()), "")

	assert.True(t, ledger.IsValidation(err))
}

func TestCreateAccount_OperatorError(t *testing.T) {
	f := newAccountFixture(t)
	f.operator.On("Process", mock.Anything, mock.Anything).Return(ledger.ErrNotFound)

	acc, err := f.svc.CreateAccount(context.Background(), uuid.Must(uuid.NewV4()), "Spending")

	assert.Nil(t, acc)
	assert.ErrorIs(t, err, ledger.ErrNotFound)
}

func TestListAccounts_ProcessesDueSchedulesFirst(t *testing.T) {
	f := newAccountFixture(t)
	childID := uuid.Must(uuid.NewV4())
	var order []string

	f.children.On("FindByID", mock.Anything, childID).Return(&ledger.Child{ID: childID}, nil)
	f.due.On("ProcessDue", mock.Anything, childID).
		Run(func(mock.Arguments) { order = append(order, "process") }).
		Return(&ProcessResult{ChildID: childID}, nil)
	f.accounts.On("List", mock.Anything, &account.AccountFilter{ChildID: childID, Limit: defaultAccountLimit}).
		Run(func(mock.Arguments) { order = append(order, "list") }).
		Return(&account.AccountListResult{Accounts: []*ledger.Account{{ChildID: childID}}}, nil)

	result, err := f.svc.ListAccounts(context.Background(), childID, nil)

	require.NoError(t, err)
	assert.Len(t, result.Accounts, 1)
	assert.Equal(t, []string{"process", "list"}, order)
}

func TestListAccounts_ProcessFailureStillLists(t *testing.T) {
	f := newAccountFixture(t)
	childID := uuid.Must(uuid.NewV4())

	f.children.On("FindByID", mock.Anything, childID).Return(&ledger.Child{ID: childID}, nil)
	f.due.On("ProcessDue", mock.Anything, childID).Return(nil, errors.New("db gone"))
	f.accounts.On("List", mock.Anything, &account.AccountFilter{ChildID: childID, Limit: 5, Offset: 10}).
		Return(&account.AccountListResult{}, nil)

	_, err := f.svc.ListAccounts(context.Background(), childID, &account.AccountCursor{Position: 10, Limit: 5})

	require.NoError(t, err)
	require.NotNil(t, f.logs.LastEntry())
	assert.Equal(t, "AccountService.ListAccounts.processDueFailed", f.logs.LastEntry().Message)
}

func TestListAccounts_UnknownChild(t *testing.T) {
	f := newAccountFixture(t)
	childID := uuid.Must(uuid.NewV4())
	f.children.On("FindByID", mock.Anything, childID).Return(nil, ledger.ErrNotFound)

	_, err := f.svc.ListAccounts(context.Background(), childID, nil)

	assert.ErrorIs(t, err, ledger.ErrNotFound)
	f.due.AssertNotCalled(t, "ProcessDue", mock.Anything, mock.Anything)
}
