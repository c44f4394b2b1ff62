package child

import (
	"context"

	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/im"
	"github.com/stephenafamo/bob/dialect/psql/um"

	"github.com/carson-networks/allowance-server/internal/ledger"
)

type Writer struct {
	tx bob.Tx
	Reader
}

func NewWriter(tx bob.Tx) *Writer {
	return &Writer{
		tx:     tx,
		Reader: Reader{exec: tx},
	}
}

func (w *Writer) Insert(ctx context.Context, c *ledger.Child) error {
	q := psql.Insert(
		im.Into(tableName, "id", "household_id", "name", "date_of_birth", "created_at", "updated_at"),
		im.Values(psql.Arg(c.ID, c.HouseholdID, c.Name, c.DateOfBirth, c.CreatedAt, c.UpdatedAt)),
	)
	_, err := bob.Exec(ctx, w.tx, q)
	return err
}

// Update writes the name and date of birth of c.
func (w *Writer) Update(ctx context.Context, c *ledger.Child) error {
	q := psql.Update(
		um.Table(tableName),
		um.SetCol("name").ToArg(c.Name),
		um.SetCol("date_of_birth").ToArg(c.DateOfBirth),
		um.SetCol("updated_at").ToArg(c.UpdatedAt),
		um.Where(psql.Quote("id").EQ(psql.Arg(c.ID))),
	)
	_, err := bob.Exec(ctx, w.tx, q)
	return err
}
