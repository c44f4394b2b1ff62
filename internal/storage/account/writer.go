package account

import (
	"context"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/im"
	"github.com/stephenafamo/bob/dialect/psql/sm"
	"github.com/stephenafamo/bob/dialect/psql/um"

	"github.com/carson-networks/allowance-server/internal/ledger"
)

type Writer struct {
	tx bob.Tx
	Reader
}

func NewWriter(tx bob.Tx) *Writer {
	return &Writer{
		tx: tx,
		Reader: Reader{
			exec: tx,
		},
	}
}

// FindByIDForUpdate loads the account and holds its row lock until the
// transaction ends.
func (w *Writer) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*ledger.Account, error) {
	return w.findOne(ctx, psql.Quote("id").EQ(psql.Arg(id)), sm.ForUpdate())
}

func (w *Writer) Insert(ctx context.Context, a *ledger.Account) error {
	q := psql.Insert(
		im.Into(tableName, "id", "child_id", "name", "balance", "created_at", "updated_at"),
		im.Values(psql.Arg(a.ID, a.ChildID, a.Name, a.Balance, a.CreatedAt, a.UpdatedAt)),
	)
	_, err := bob.Exec(ctx, w.tx, q)
	return err
}

func (w *Writer) UpdateBalance(ctx context.Context, id uuid.UUID, balance decimal.Decimal, updatedAt time.Time) error {
	q := psql.Update(
		um.Table(tableName),
		um.SetCol("balance").ToArg(balance),
		um.SetCol("updated_at").ToArg(updatedAt),
		um.Where(psql.Quote("id").EQ(psql.Arg(id))),
	)
	_, err := bob.Exec(ctx, w.tx, q)
	return err
}
