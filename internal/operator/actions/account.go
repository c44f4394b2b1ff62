package actions

import (
	"context"
	"fmt"

	"github.com/carson-networks/allowance-server/internal/ledger"
	"github.com/carson-networks/allowance-server/internal/storage"
)

// CreateAccount opens an account for an existing child. Balances always start
// at zero and only move through transactions.
type CreateAccount struct {
	Account *ledger.Account
}

func (c *CreateAccount) Perform(ctx context.Context, writer *storage.Writer) error {
	if _, err := writer.Child.FindByID(ctx, c.Account.ChildID); err != nil {
		return fmt.Errorf("child %s: %w", c.Account.ChildID, err)
	}
	return writer.Account.Insert(ctx, c.Account)
}
