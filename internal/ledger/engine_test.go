package ledger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSchedule(childID uuid.UUID, next time.Time, freq RepeatFrequency, accounts ...uuid.UUID) *Schedule {
	return &Schedule{
		ID:                uuid.Must(uuid.NewV4()),
		ChildID:           childID,
		Amount:            decimal.RequireFromString("100"),
		Description:       "Pocket money",
		Comment:           ptr("weekly allowance"),
		NextExecutionDate: next,
		AmountBase:        AmountBaseFixed,
		RepeatFrequency:   freq,
		AccountIDs:        accounts,
	}
}

func TestMaterialize_NotDueIsNoop(t *testing.T) {
	store := newFakeStore()
	child := store.addChild(nil)
	acc := store.addAccount(child.ID)
	now := time.Date(2025, 3, 10, 15, 0, 0, 0, time.UTC)
	s := newSchedule(child.ID, date(2025, 3, 11), RepeatWeekly, acc.ID)

	created, err := NewEngine().Materialize(context.Background(), store, s, now)

	require.NoError(t, err)
	assert.Empty(t, created)
	assert.Empty(t, store.transactions)
	assert.Empty(t, store.progress)
	assert.Equal(t, date(2025, 3, 11), s.NextExecutionDate)
}

func TestMaterialize_ZeroAccountsLeavesScheduleUntouched(t *testing.T) {
	store := newFakeStore()
	child := store.addChild(nil)
	now := date(2025, 3, 10)
	s := newSchedule(child.ID, date(2024, 1, 1), RepeatDaily)

	created, err := NewEngine().Materialize(context.Background(), store, s, now)

	require.NoError(t, err)
	assert.Empty(t, created)
	assert.Empty(t, store.progress)
	assert.Equal(t, date(2024, 1, 1), s.NextExecutionDate)
}

func TestMaterialize_DueTodayPostsOnce(t *testing.T) {
	store := newFakeStore()
	child := store.addChild(nil)
	acc := store.addAccount(child.ID)
	now := time.Date(2025, 3, 10, 8, 30, 0, 0, time.UTC)
	s := newSchedule(child.ID, date(2025, 3, 10), RepeatWeekly, acc.ID)

	created, err := NewEngine().Materialize(context.Background(), store, s, now)

	require.NoError(t, err)
	require.Len(t, created, 1)
	tx := created[0]
	assert.Equal(t, acc.ID, tx.AccountID)
	assert.True(t, tx.Amount.Equal(decimal.RequireFromString("100")))
	assert.Equal(t, date(2025, 3, 10), *tx.TransactionDate)
	assert.Equal(t, "Pocket money", tx.Description)
	assert.Equal(t, "weekly allowance", *tx.Comment)
	assert.Equal(t, s.ID, *tx.ScheduleID)
	assert.Equal(t, date(2025, 3, 17), s.NextExecutionDate)
}

func TestMaterialize_WeeklyCatchUp(t *testing.T) {
	store := newFakeStore()
	child := store.addChild(nil)
	a1 := store.addAccount(child.ID)
	a2 := store.addAccount(child.ID)
	now := time.Date(2025, 3, 23, 12, 0, 0, 0, time.UTC)
	s := newSchedule(child.ID, date(2025, 3, 3), RepeatWeekly, a1.ID, a2.ID)

	created, err := NewEngine().Materialize(context.Background(), store, s, now)

	require.NoError(t, err)
	require.Len(t, created, 6, spew.Sdump(created))

	wantDates := []time.Time{date(2025, 3, 3), date(2025, 3, 10), date(2025, 3, 17)}
	for i, want := range wantDates {
		for j, acc := range []uuid.UUID{a1.ID, a2.ID} {
			tx := created[i*2+j]
			assert.Equal(t, acc, tx.AccountID)
			assert.Equal(t, want, *tx.TransactionDate)
			assert.True(t, tx.Amount.Equal(decimal.RequireFromString("50")), tx.Amount.String())
		}
	}
	assert.Equal(t, date(2025, 3, 24), s.NextExecutionDate)
	require.Len(t, store.progress, 1)
	assert.Equal(t, date(2025, 3, 24), store.progress[0].next)
	assert.Nil(t, store.progress[0].completedAt)
}

func TestMaterialize_ExitsNotDue(t *testing.T) {
	freqs := []RepeatFrequency{RepeatDaily, RepeatWeekly, RepeatMonthly}
	now := time.Date(2025, 6, 15, 18, 0, 0, 0, time.UTC)

	for _, freq := range freqs {
		t.Run(string(freq), func(t *testing.T) {
			store := newFakeStore()
			child := store.addChild(nil)
			acc := store.addAccount(child.ID)
			before := date(2025, 1, 31)
			s := newSchedule(child.ID, before, freq, acc.ID)

			_, err := NewEngine().Materialize(context.Background(), store, s, now)

			require.NoError(t, err)
			assert.False(t, s.IsDue(now))
			assert.True(t, s.NextExecutionDate.After(before))
			assert.True(t, s.NextExecutionDate.After(DateOf(now)))
		})
	}
}

func TestMaterialize_SplitEvenly(t *testing.T) {
	store := newFakeStore()
	child := store.addChild(nil)
	a1 := store.addAccount(child.ID)
	a2 := store.addAccount(child.ID)
	s := newSchedule(child.ID, date(2025, 1, 1), RepeatMonthly, a1.ID, a2.ID)

	created, err := NewEngine().Materialize(context.Background(), store, s, date(2025, 1, 1))

	require.NoError(t, err)
	require.Len(t, created, 2)
	assert.True(t, created[0].Amount.Equal(decimal.NewFromInt(50)))
	assert.True(t, created[1].Amount.Equal(decimal.NewFromInt(50)))
	assert.True(t, SumAmounts(created).Equal(decimal.NewFromInt(100)))
}

func TestMaterialize_SplitDoesNotRedistributeRemainder(t *testing.T) {
	store := newFakeStore()
	child := store.addChild(nil)
	accounts := []uuid.UUID{store.addAccount(child.ID).ID, store.addAccount(child.ID).ID, store.addAccount(child.ID).ID}
	s := newSchedule(child.ID, date(2025, 1, 1), RepeatMonthly, accounts...)
	s.Amount = decimal.NewFromInt(10)

	created, err := NewEngine().Materialize(context.Background(), store, s, date(2025, 1, 1))

	require.NoError(t, err)
	require.Len(t, created, 3)
	for _, tx := range created {
		assert.True(t, tx.Amount.Equal(created[0].Amount), "every account gets the same part")
	}
}

func TestMaterialize_AgeScaling(t *testing.T) {
	store := newFakeStore()
	child := store.addChild(ptr(date(2017, 5, 20)))
	a1 := store.addAccount(child.ID)
	a2 := store.addAccount(child.ID)
	s := newSchedule(child.ID, date(2025, 5, 20), RepeatWeekly, a1.ID, a2.ID)
	s.AmountBase = AmountBaseAge
	s.Amount = decimal.NewFromInt(10)

	created, err := NewEngine().Materialize(context.Background(), store, s, date(2025, 5, 21))

	require.NoError(t, err)
	require.Len(t, created, 2)
	assert.True(t, SumAmounts(created).Equal(decimal.NewFromInt(80)))
	assert.True(t, created[0].Amount.Equal(decimal.NewFromInt(40)))
}

func TestMaterialize_AgeUsesOccurrenceDate(t *testing.T) {
	store := newFakeStore()
	child := store.addChild(ptr(date(2015, 3, 12)))
	acc := store.addAccount(child.ID)
	// the child turns 10 between the two occurrences
	s := newSchedule(child.ID, date(2025, 3, 5), RepeatWeekly, acc.ID)
	s.AmountBase = AmountBaseAge
	s.Amount = decimal.NewFromInt(1)

	created, err := NewEngine().Materialize(context.Background(), store, s, date(2025, 3, 13))

	require.NoError(t, err)
	require.Len(t, created, 2)
	assert.True(t, created[0].Amount.Equal(decimal.NewFromInt(9)))
	assert.True(t, created[1].Amount.Equal(decimal.NewFromInt(10)))
}

func TestMaterialize_AgeWithoutDateOfBirth(t *testing.T) {
	store := newFakeStore()
	child := store.addChild(nil)
	acc := store.addAccount(child.ID)
	s := newSchedule(child.ID, date(2025, 1, 1), RepeatWeekly, acc.ID)
	s.AmountBase = AmountBaseAge

	created, err := NewEngine().Materialize(context.Background(), store, s, date(2025, 2, 1))

	assert.ErrorIs(t, err, ErrMissingDateOfBirth)
	assert.Nil(t, created)
	assert.Empty(t, store.transactions)
	assert.Empty(t, store.progress)
	assert.Equal(t, date(2025, 1, 1), s.NextExecutionDate)
}

func TestMaterialize_NonRepeatingCompletes(t *testing.T) {
	store := newFakeStore()
	child := store.addChild(nil)
	acc := store.addAccount(child.ID)
	now := time.Date(2025, 4, 2, 9, 0, 0, 0, time.UTC)
	s := newSchedule(child.ID, date(2025, 3, 1), RepeatNone, acc.ID)
	engine := NewEngine()

	created, err := engine.Materialize(context.Background(), store, s, now)

	require.NoError(t, err)
	require.Len(t, created, 1)
	assert.Equal(t, date(2025, 3, 1), *created[0].TransactionDate)
	require.NotNil(t, s.CompletedAt)
	assert.Equal(t, now, *s.CompletedAt)
	assert.Equal(t, date(2025, 3, 1), s.NextExecutionDate)

	again, err := engine.Materialize(context.Background(), store, s, now.AddDate(0, 1, 0))
	require.NoError(t, err)
	assert.Empty(t, again)
	assert.Len(t, store.transactions, 1)
}

func TestMaterialize_TooManyMissedOccurrences(t *testing.T) {
	store := newFakeStore()
	child := store.addChild(nil)
	acc := store.addAccount(child.ID)
	s := newSchedule(child.ID, date(2020, 1, 1), RepeatDaily, acc.ID)

	created, err := NewEngine(WithMaxOccurrences(30)).Materialize(context.Background(), store, s, date(2025, 1, 1))

	assert.ErrorIs(t, err, ErrTooManyMissedOccurrences)
	assert.Nil(t, created)
	assert.Empty(t, store.transactions)
	assert.Equal(t, date(2020, 1, 1), s.NextExecutionDate)
}

func TestMaterialize_CapIsInclusive(t *testing.T) {
	store := newFakeStore()
	child := store.addChild(nil)
	acc := store.addAccount(child.ID)
	s := newSchedule(child.ID, date(2025, 1, 1), RepeatDaily, acc.ID)

	created, err := NewEngine(WithMaxOccurrences(10)).Materialize(context.Background(), store, s, date(2025, 1, 10))

	require.NoError(t, err)
	assert.Len(t, created, 10)
	assert.Equal(t, date(2025, 1, 11), s.NextExecutionDate)
}

func TestMaterialize_InsertErrorSkipsProgress(t *testing.T) {
	store := newFakeStore()
	store.insertErr = errors.New("connection reset")
	child := store.addChild(nil)
	acc := store.addAccount(child.ID)
	s := newSchedule(child.ID, date(2025, 1, 1), RepeatDaily, acc.ID)

	_, err := NewEngine().Materialize(context.Background(), store, s, date(2025, 1, 3))

	assert.ErrorContains(t, err, "connection reset")
	assert.Empty(t, store.progress)
	assert.Equal(t, date(2025, 1, 1), s.NextExecutionDate)
}

func TestMaterialize_RerunIsNoop(t *testing.T) {
	store := newFakeStore()
	child := store.addChild(nil)
	acc := store.addAccount(child.ID)
	s := newSchedule(child.ID, date(2025, 1, 1), RepeatDaily, acc.ID)
	engine := NewEngine()
	now := date(2025, 1, 5)

	first, err := engine.Materialize(context.Background(), store, s, now)
	require.NoError(t, err)
	assert.Len(t, first, 5)

	second, err := engine.Materialize(context.Background(), store, s, now)
	require.NoError(t, err)
	assert.Empty(t, second)
	assert.Len(t, store.transactions, 5)
}

func TestMaterialize_LocksAccountsBeforePosting(t *testing.T) {
	store := newFakeStore()
	child := store.addChild(nil)
	a1 := store.addAccount(child.ID)
	a2 := store.addAccount(child.ID)
	s := newSchedule(child.ID, date(2025, 1, 6), RepeatWeekly, a2.ID, a1.ID)

	created, err := NewEngine().Materialize(context.Background(), store, s, date(2025, 1, 13))

	require.NoError(t, err)
	require.Len(t, created, 4)
	assert.Equal(t, UniqueSorted([]uuid.UUID{a1.ID, a2.ID}), store.locked)
	assert.Equal(t, []string{"lock", "lock", "insert", "insert", "insert", "insert"}, store.calls, spew.Sdump(store.calls))
}

func TestMaterialize_UnknownAccountPostsNothing(t *testing.T) {
	store := newFakeStore()
	child := store.addChild(nil)
	s := newSchedule(child.ID, date(2025, 1, 6), RepeatWeekly, uuid.Must(uuid.NewV4()))

	created, err := NewEngine().Materialize(context.Background(), store, s, date(2025, 1, 13))

	assert.ErrorIs(t, err, ErrNotFound)
	assert.Empty(t, created)
	assert.Empty(t, store.transactions)
	assert.Empty(t, store.progress)
}
