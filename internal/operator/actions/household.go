package actions

import (
	"context"

	"github.com/carson-networks/allowance-server/internal/ledger"
	"github.com/carson-networks/allowance-server/internal/storage"
)

type CreateHousehold struct {
	Household *ledger.Household
}

func (c *CreateHousehold) Perform(ctx context.Context, writer *storage.Writer) error {
	return writer.Household.Insert(ctx, c.Household)
}
