// Package storagetest starts a throwaway Postgres for integration tests.
package storagetest

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/carson-networks/allowance-server/internal/ledger"
	"github.com/carson-networks/allowance-server/internal/storage"
)

const image = "postgres:16-alpine"

// NewStorage starts Postgres in a container, applies the migrations and
// returns a Storage on it. Skipped with -short.
func NewStorage(t *testing.T) *storage.Storage {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping postgres integration test in short mode")
	}

	ctx := context.Background()
	ctr, err := postgres.Run(ctx, image,
		postgres.WithDatabase("allowance"),
		postgres.WithUsername("allowance"),
		postgres.WithPassword("allowance"),
		postgres.BasicWaitStrategies(),
	)
	testcontainers.CleanupContainer(t, ctr)
	require.NoError(t, err)

	connStr, err := ctr.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)
	require.NoError(t, storage.RunMigrations(connStr))

	db, err := sql.Open("postgres", connStr)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return storage.NewStorageFromDB(db)
}

// Write runs fn in one committed transaction.
func Write(t *testing.T, s *storage.Storage, fn func(w *storage.Writer) error) {
	t.Helper()
	w, err := s.Write(context.Background())
	require.NoError(t, err)
	if err := fn(w); err != nil {
		_ = w.Rollback()
		require.NoError(t, err)
	}
	require.NoError(t, w.Commit())
}

// Family is a household with one child and its accounts.
type Family struct {
	Household *ledger.Household
	Child     *ledger.Child
	Accounts  []*ledger.Account
}

// SeedFamily inserts a household, a child born on dob (nil for none) and
// one account per name.
func SeedFamily(t *testing.T, s *storage.Storage, dob *time.Time, accountNames ...string) *Family {
	t.Helper()
	now := time.Now().UTC()
	f := &Family{
		Household: &ledger.Household{ID: uuid.Must(uuid.NewV4()), Name: "Lovelace", CreatedAt: now, UpdatedAt: now},
	}
	f.Child = &ledger.Child{
		ID:          uuid.Must(uuid.NewV4()),
		HouseholdID: f.Household.ID,
		Name:        "Ada",
		DateOfBirth: ledger.OptionalDate(dob),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	for _, name := range accountNames {
		f.Accounts = append(f.Accounts, &ledger.Account{
			ID:        uuid.Must(uuid.NewV4()),
			ChildID:   f.Child.ID,
			Name:      name,
			Balance:   decimal.Zero,
			CreatedAt: now,
			UpdatedAt: now,
		})
	}

	Write(t, s, func(w *storage.Writer) error {
		ctx := context.Background()
		if err := w.Household.Insert(ctx, f.Household); err != nil {
			return err
		}
		if err := w.Child.Insert(ctx, f.Child); err != nil {
			return err
		}
		for _, acc := range f.Accounts {
			if err := w.Account.Insert(ctx, acc); err != nil {
				return err
			}
		}
		return nil
	})
	return f
}

// AccountIDs returns the ids of f's accounts in creation order.
func (f *Family) AccountIDs() []uuid.UUID {
	ids := make([]uuid.UUID, len(f.Accounts))
	for i, acc := range f.Accounts {
		ids[i] = acc.ID
	}
	return ids
}
