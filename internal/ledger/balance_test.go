package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecomputeBalance_SumsTransactions(t *testing.T) {
	store := newFakeStore()
	child := store.addChild(nil)
	acc := store.addAccount(child.ID)
	other := store.addAccount(child.ID)
	ctx := context.Background()

	for _, amt := range []string{"10.50", "-3.25", "20"} {
		_, err := store.InsertTransaction(ctx, &TransactionCreate{AccountID: acc.ID, Amount: decimal.RequireFromString(amt), Description: "x"})
		require.NoError(t, err)
	}
	_, err := store.InsertTransaction(ctx, &TransactionCreate{AccountID: other.ID, Amount: decimal.NewFromInt(99), Description: "x"})
	require.NoError(t, err)

	now := time.Date(2025, 2, 1, 10, 0, 0, 0, time.UTC)
	balance, err := RecomputeBalance(ctx, store, acc.ID, now)

	require.NoError(t, err)
	assert.True(t, balance.Equal(decimal.RequireFromString("27.25")), balance.String())
	assert.True(t, store.accounts[acc.ID].Balance.Equal(balance))
	assert.Equal(t, now, store.accounts[acc.ID].UpdatedAt)
	assert.True(t, store.accounts[other.ID].Balance.IsZero())
}

func TestRecomputeBalance_AfterDelete(t *testing.T) {
	store := newFakeStore()
	child := store.addChild(nil)
	acc := store.addAccount(child.ID)
	ctx := context.Background()

	keep, err := store.InsertTransaction(ctx, &TransactionCreate{AccountID: acc.ID, Amount: decimal.NewFromInt(5), Description: "keep"})
	require.NoError(t, err)
	drop, err := store.InsertTransaction(ctx, &TransactionCreate{AccountID: acc.ID, Amount: decimal.NewFromInt(7), Description: "drop"})
	require.NoError(t, err)

	store.deleteTransaction(drop.ID)
	balance, err := RecomputeBalance(ctx, store, acc.ID, time.Now())

	require.NoError(t, err)
	assert.True(t, balance.Equal(keep.Amount))
	assert.Len(t, store.transactionsFor(acc.ID), 1)
}

func TestRecomputeBalance_UnknownAccount(t *testing.T) {
	store := newFakeStore()

	_, err := RecomputeBalance(context.Background(), store, uuid.Must(uuid.NewV4()), time.Now())

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRecomputeBalances_LocksInSortedOrderOnce(t *testing.T) {
	store := newFakeStore()
	child := store.addChild(nil)
	a := store.addAccount(child.ID)
	b := store.addAccount(child.ID)
	c := store.addAccount(child.ID)

	err := RecomputeBalances(context.Background(), store, []uuid.UUID{c.ID, a.ID, b.ID, a.ID, c.ID}, time.Now())

	require.NoError(t, err)
	assert.Equal(t, UniqueSorted([]uuid.UUID{a.ID, b.ID, c.ID}), store.locked)
}

func TestMaterializeThenRecompute(t *testing.T) {
	store := newFakeStore()
	child := store.addChild(nil)
	a1 := store.addAccount(child.ID)
	a2 := store.addAccount(child.ID)
	s := newSchedule(child.ID, date(2025, 1, 6), RepeatWeekly, a1.ID, a2.ID)
	now := date(2025, 1, 20)
	ctx := context.Background()

	created, err := NewEngine().Materialize(ctx, store, s, now)
	require.NoError(t, err)
	require.NoError(t, RecomputeBalances(ctx, store, AccountIDsOf(created), now))

	// three occurrences of 100 split in two
	assert.True(t, store.accounts[a1.ID].Balance.Equal(decimal.NewFromInt(150)))
	assert.True(t, store.accounts[a2.ID].Balance.Equal(decimal.NewFromInt(150)))
}

func TestUniqueSorted(t *testing.T) {
	lo := uuid.Must(uuid.FromString("00000000-0000-4000-8000-000000000001"))
	mid := uuid.Must(uuid.FromString("7fffffff-0000-4000-8000-000000000000"))
	hi := uuid.Must(uuid.FromString("ffffffff-0000-4000-8000-000000000000"))

	assert.Equal(t, []uuid.UUID{lo, mid, hi}, UniqueSorted([]uuid.UUID{hi, lo, mid, hi}))
	assert.Empty(t, UniqueSorted(nil))
}
