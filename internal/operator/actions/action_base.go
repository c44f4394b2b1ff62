package actions

import (
	"context"
	"fmt"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/allowance-server/internal/ledger"
	"github.com/carson-networks/allowance-server/internal/storage"
)

type IAction interface {
	Perform(ctx context.Context, writer *storage.Writer) error
}

// checkAccountsOwned fails with ledger.ErrAccountNotOwned unless every
// account exists and belongs to childID.
func checkAccountsOwned(ctx context.Context, writer *storage.Writer, childID uuid.UUID, accountIDs []uuid.UUID) error {
	for _, accountID := range accountIDs {
		acc, err := writer.Account.FindByID(ctx, accountID)
		if err != nil {
			return fmt.Errorf("account %s: %w", accountID, err)
		}
		if acc.ChildID != childID {
			return fmt.Errorf("account %s: %w", accountID, ledger.ErrAccountNotOwned)
		}
	}
	return nil
}
