package actions

import (
	"context"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/allowance-server/internal/ledger"
	"github.com/carson-networks/allowance-server/internal/storage"
)

// CreateTransaction posts a manual transaction and recomputes the balance of
// its account.
type CreateTransaction struct {
	Create ledger.TransactionCreate
	Now    time.Time

	Created *ledger.Transaction
}

func (t *CreateTransaction) Perform(ctx context.Context, writer *storage.Writer) error {
	if err := t.Create.Validate(); err != nil {
		return err
	}

	store := writer.Ledger(t.Now)
	if _, err := store.LockAccount(ctx, t.Create.AccountID); err != nil {
		return err
	}

	created, err := store.InsertTransaction(ctx, &t.Create)
	if err != nil {
		return err
	}

	if _, err := ledger.RecomputeBalance(ctx, store, created.AccountID, t.Now); err != nil {
		return err
	}
	t.Created = created
	return nil
}

type UpdateTransaction struct {
	TransactionID uuid.UUID
	Update        ledger.TransactionUpdate
	Now           time.Time

	Updated *ledger.Transaction
}

func (t *UpdateTransaction) Perform(ctx context.Context, writer *storage.Writer) error {
	tx, err := writer.Transaction.FindByIDForUpdate(ctx, t.TransactionID)
	if err != nil {
		return err
	}

	store := writer.Ledger(t.Now)
	if _, err := store.LockAccount(ctx, tx.AccountID); err != nil {
		return err
	}

	if err := t.Update.Apply(tx); err != nil {
		return err
	}
	tx.UpdatedAt = t.Now

	if err := writer.Transaction.Update(ctx, tx); err != nil {
		return err
	}
	if _, err := ledger.RecomputeBalance(ctx, store, tx.AccountID, t.Now); err != nil {
		return err
	}
	t.Updated = tx
	return nil
}

type DeleteTransaction struct {
	TransactionID uuid.UUID
	Now           time.Time
}

func (t *DeleteTransaction) Perform(ctx context.Context, writer *storage.Writer) error {
	tx, err := writer.Transaction.FindByIDForUpdate(ctx, t.TransactionID)
	if err != nil {
		return err
	}

	store := writer.Ledger(t.Now)
	if _, err := store.LockAccount(ctx, tx.AccountID); err != nil {
		return err
	}

	if err := writer.Transaction.Delete(ctx, tx.ID); err != nil {
		return err
	}
	_, err = ledger.RecomputeBalance(ctx, store, tx.AccountID, t.Now)
	return err
}
