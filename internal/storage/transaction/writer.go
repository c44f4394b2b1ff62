package transaction

import (
	"context"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/dm"
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
		tx:     tx,
		Reader: Reader{exec: tx},
	}
}

func (w *Writer) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*ledger.Transaction, error) {
	return w.findOne(ctx, id, sm.ForUpdate())
}

// Insert stores a new transaction stamped with now and returns it.
func (w *Writer) Insert(ctx context.Context, create *ledger.TransactionCreate, now time.Time) (*ledger.Transaction, error) {
	id, err := uuid.NewV4()
	if err != nil {
		return nil, err
	}

	var transactionDate *time.Time
	if create.TransactionDate != nil {
		d := ledger.DateOf(*create.TransactionDate)
		transactionDate = &d
	}

	q := psql.Insert(
		im.Into(tableName, "id", "account_id", "schedule_id", "amount", "transaction_date",
			"description", "comment", "created_at", "updated_at"),
		im.Values(psql.Arg(id, create.AccountID, nullable(create.ScheduleID), create.Amount, transactionDate,
			create.Description, create.Comment, now, now)),
	)
	if _, err := bob.Exec(ctx, w.tx, q); err != nil {
		return nil, err
	}

	return &ledger.Transaction{
		ID:              id,
		AccountID:       create.AccountID,
		ScheduleID:      create.ScheduleID,
		Amount:          create.Amount,
		TransactionDate: transactionDate,
		Description:     create.Description,
		Comment:         create.Comment,
		CreatedAt:       now,
		UpdatedAt:       now,
	}, nil
}

// Update writes the user editable fields of tx.
func (w *Writer) Update(ctx context.Context, tx *ledger.Transaction) error {
	q := psql.Update(
		um.Table(tableName),
		um.SetCol("amount").ToArg(tx.Amount),
		um.SetCol("transaction_date").ToArg(tx.TransactionDate),
		um.SetCol("description").ToArg(tx.Description),
		um.SetCol("comment").ToArg(tx.Comment),
		um.SetCol("updated_at").ToArg(tx.UpdatedAt),
		um.Where(psql.Quote("id").EQ(psql.Arg(tx.ID))),
	)
	_, err := bob.Exec(ctx, w.tx, q)
	return err
}

func (w *Writer) Delete(ctx context.Context, id uuid.UUID) error {
	q := psql.Delete(
		dm.From(tableName),
		dm.Where(psql.Quote("id").EQ(psql.Arg(id))),
	)
	_, err := bob.Exec(ctx, w.tx, q)
	return err
}
