package ledger

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
)

// BalanceStore is what the balance calculator needs from the ledger.
type BalanceStore interface {
	LockAccount(ctx context.Context, id uuid.UUID) (*Account, error)
	ListAccountTransactions(ctx context.Context, accountID uuid.UUID) ([]*Transaction, error)
	UpdateAccountBalance(ctx context.Context, id uuid.UUID, balance decimal.Decimal, updatedAt time.Time) error
}

// SumAmounts adds the amounts of txs.
func SumAmounts(txs []*Transaction) decimal.Decimal {
	sum := decimal.Zero
	for _, tx := range txs {
		sum = sum.Add(tx.Amount)
	}
	return sum
}

// RecomputeBalance sets the balance of an account to the sum of its
// transactions and bumps its updated time to now.
func RecomputeBalance(ctx context.Context, store BalanceStore, accountID uuid.UUID, now time.Time) (decimal.Decimal, error) {
	if _, err := store.LockAccount(ctx, accountID); err != nil {
		return decimal.Zero, fmt.Errorf("lock account %s: %w", accountID, err)
	}

	txs, err := store.ListAccountTransactions(ctx, accountID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("list transactions for account %s: %w", accountID, err)
	}

	balance := SumAmounts(txs)
	if err := store.UpdateAccountBalance(ctx, accountID, balance, now); err != nil {
		return decimal.Zero, fmt.Errorf("update balance for account %s: %w", accountID, err)
	}
	return balance, nil
}

// RecomputeBalances recomputes each distinct account once, in ascending id
// order so concurrent callers take row locks in the same order.
func RecomputeBalances(ctx context.Context, store BalanceStore, accountIDs []uuid.UUID, now time.Time) error {
	for _, id := range UniqueSorted(accountIDs) {
		if _, err := RecomputeBalance(ctx, store, id, now); err != nil {
			return err
		}
	}
	return nil
}

// AccountIDsOf returns the account of every transaction in txs.
func AccountIDsOf(txs []*Transaction) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(txs))
	for _, tx := range txs {
		ids = append(ids, tx.AccountID)
	}
	return ids
}

// UniqueSorted returns the distinct ids in ascending byte order.
func UniqueSorted(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool {
		return bytes.Compare(out[i].Bytes(), out[j].Bytes()) < 0
	})
	return out
}
