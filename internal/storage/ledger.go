package storage

import (
	"context"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/allowance-server/internal/ledger"
)

// LedgerStore exposes a Writer to the recurrence engine and the balance
// calculator. Every write it makes is stamped with the same now.
type LedgerStore struct {
	w   *Writer
	now time.Time
}

var (
	_ ledger.Store        = (*LedgerStore)(nil)
	_ ledger.BalanceStore = (*LedgerStore)(nil)
)

func (w *Writer) Ledger(now time.Time) *LedgerStore {
	return &LedgerStore{w: w, now: now}
}

func (l *LedgerStore) FindChild(ctx context.Context, id uuid.UUID) (*ledger.Child, error) {
	return l.w.Child.FindByID(ctx, id)
}

func (l *LedgerStore) InsertTransaction(ctx context.Context, create *ledger.TransactionCreate) (*ledger.Transaction, error) {
	return l.w.Transaction.Insert(ctx, create, l.now)
}

func (l *LedgerStore) SaveScheduleProgress(ctx context.Context, scheduleID uuid.UUID, next time.Time, completedAt *time.Time) error {
	return l.w.Schedule.SaveProgress(ctx, scheduleID, next, completedAt, l.now)
}

func (l *LedgerStore) LockAccount(ctx context.Context, id uuid.UUID) (*ledger.Account, error) {
	return l.w.Account.FindByIDForUpdate(ctx, id)
}

func (l *LedgerStore) ListAccountTransactions(ctx context.Context, accountID uuid.UUID) ([]*ledger.Transaction, error) {
	return l.w.Transaction.ListAllByAccount(ctx, accountID)
}

func (l *LedgerStore) UpdateAccountBalance(ctx context.Context, id uuid.UUID, balance decimal.Decimal, updatedAt time.Time) error {
	return l.w.Account.UpdateBalance(ctx, id, balance, updatedAt)
}
