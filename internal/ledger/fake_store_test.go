package ledger

import (
	"context"
	"errors"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
)

// fakeStore is an in-memory ledger used by the engine and balance tests.
type fakeStore struct {
	children     map[uuid.UUID]*Child
	accounts     map[uuid.UUID]*Account
	transactions []*Transaction
	progress     []savedProgress

	insertErr error
	locked    []uuid.UUID
	// calls records LockAccount and InsertTransaction in call order.
	calls []string
}

type savedProgress struct {
	scheduleID  uuid.UUID
	next        time.Time
	completedAt *time.Time
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		children: make(map[uuid.UUID]*Child),
		accounts: make(map[uuid.UUID]*Account),
	}
}

func (f *fakeStore) addChild(dob *time.Time) *Child {
	c := &Child{ID: uuid.Must(uuid.NewV4()), Name: "Ada", DateOfBirth: dob}
	f.children[c.ID] = c
	return c
}

func (f *fakeStore) addAccount(childID uuid.UUID) *Account {
	a := &Account{ID: uuid.Must(uuid.NewV4()), ChildID: childID, Name: "Savings", Balance: decimal.Zero}
	f.accounts[a.ID] = a
	return a
}

func (f *fakeStore) FindChild(_ context.Context, id uuid.UUID) (*Child, error) {
	c, ok := f.children[id]
	if !ok {
		return nil, ErrNotFound
	}
	return c, nil
}

func (f *fakeStore) InsertTransaction(_ context.Context, create *TransactionCreate) (*Transaction, error) {
	f.calls = append(f.calls, "insert")
	if f.insertErr != nil {
		return nil, f.insertErr
	}
	tx := &Transaction{
		ID:              uuid.Must(uuid.NewV4()),
		AccountID:       create.AccountID,
		ScheduleID:      create.ScheduleID,
		Amount:          create.Amount,
		TransactionDate: create.TransactionDate,
		Description:     create.Description,
		Comment:         create.Comment,
	}
	f.transactions = append(f.transactions, tx)
	return tx, nil
}

func (f *fakeStore) SaveScheduleProgress(_ context.Context, scheduleID uuid.UUID, next time.Time, completedAt *time.Time) error {
	f.progress = append(f.progress, savedProgress{scheduleID: scheduleID, next: next, completedAt: completedAt})
	return nil
}

func (f *fakeStore) LockAccount(_ context.Context, id uuid.UUID) (*Account, error) {
	a, ok := f.accounts[id]
	if !ok {
		return nil, ErrNotFound
	}
	f.locked = append(f.locked, id)
	f.calls = append(f.calls, "lock")
	return a, nil
}

func (f *fakeStore) ListAccountTransactions(_ context.Context, accountID uuid.UUID) ([]*Transaction, error) {
	var out []*Transaction
	for _, tx := range f.transactions {
		if tx.AccountID == accountID {
			out = append(out, tx)
		}
	}
	return out, nil
}

func (f *fakeStore) UpdateAccountBalance(_ context.Context, id uuid.UUID, balance decimal.Decimal, updatedAt time.Time) error {
	a, ok := f.accounts[id]
	if !ok {
		return errors.New("no such account")
	}
	a.Balance = balance
	a.UpdatedAt = updatedAt
	return nil
}

func (f *fakeStore) deleteTransaction(id uuid.UUID) {
	for i, tx := range f.transactions {
		if tx.ID == id {
			f.transactions = append(f.transactions[:i], f.transactions[i+1:]...)
			return
		}
	}
}

func (f *fakeStore) transactionsFor(accountID uuid.UUID) []*Transaction {
	txs, _ := f.ListAccountTransactions(context.Background(), accountID)
	return txs
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func ptr[T any](v T) *T {
	return &v
}
