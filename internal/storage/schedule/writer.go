package schedule

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

// FindByIDForUpdate loads the schedule and holds its row lock until the
// transaction ends, so only one materialization runs per schedule.
func (w *Writer) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*ledger.Schedule, error) {
	return w.findOne(ctx, id, sm.ForUpdate())
}

func (w *Writer) Insert(ctx context.Context, s *ledger.Schedule) error {
	q := psql.Insert(
		im.Into(tableName, "id", "child_id", "amount", "description", "comment", "next_execution_date",
			"amount_base", "repeat_frequency", "completed_at", "created_at", "updated_at"),
		im.Values(psql.Arg(s.ID, s.ChildID, s.Amount, s.Description, s.Comment, ledger.DateOf(s.NextExecutionDate),
			string(s.AmountBase), frequencyColumn(s.RepeatFrequency), s.CompletedAt, s.CreatedAt, s.UpdatedAt)),
	)
	if _, err := bob.Exec(ctx, w.tx, q); err != nil {
		return err
	}
	return w.insertAccounts(ctx, s.ID, s.AccountIDs)
}

// Update writes every editable column of s and replaces its account links.
func (w *Writer) Update(ctx context.Context, s *ledger.Schedule) error {
	q := psql.Update(
		um.Table(tableName),
		um.SetCol("amount").ToArg(s.Amount),
		um.SetCol("description").ToArg(s.Description),
		um.SetCol("comment").ToArg(s.Comment),
		um.SetCol("next_execution_date").ToArg(ledger.DateOf(s.NextExecutionDate)),
		um.SetCol("amount_base").ToArg(string(s.AmountBase)),
		um.SetCol("repeat_frequency").ToArg(frequencyColumn(s.RepeatFrequency)),
		um.SetCol("completed_at").ToArg(s.CompletedAt),
		um.SetCol("updated_at").ToArg(s.UpdatedAt),
		um.Where(psql.Quote("id").EQ(psql.Arg(s.ID))),
	)
	if _, err := bob.Exec(ctx, w.tx, q); err != nil {
		return err
	}
	return w.ReplaceAccounts(ctx, s.ID, s.AccountIDs)
}

// SaveProgress records how far a schedule has been materialized.
func (w *Writer) SaveProgress(ctx context.Context, id uuid.UUID, next time.Time, completedAt *time.Time, updatedAt time.Time) error {
	q := psql.Update(
		um.Table(tableName),
		um.SetCol("next_execution_date").ToArg(ledger.DateOf(next)),
		um.SetCol("completed_at").ToArg(completedAt),
		um.SetCol("updated_at").ToArg(updatedAt),
		um.Where(psql.Quote("id").EQ(psql.Arg(id))),
	)
	_, err := bob.Exec(ctx, w.tx, q)
	return err
}

func (w *Writer) ReplaceAccounts(ctx context.Context, scheduleID uuid.UUID, accountIDs []uuid.UUID) error {
	q := psql.Delete(
		dm.From(accountTableName),
		dm.Where(psql.Quote("schedule_id").EQ(psql.Arg(scheduleID))),
	)
	if _, err := bob.Exec(ctx, w.tx, q); err != nil {
		return err
	}
	return w.insertAccounts(ctx, scheduleID, accountIDs)
}

func (w *Writer) Delete(ctx context.Context, id uuid.UUID) error {
	q := psql.Delete(
		dm.From(tableName),
		dm.Where(psql.Quote("id").EQ(psql.Arg(id))),
	)
	_, err := bob.Exec(ctx, w.tx, q)
	return err
}

func (w *Writer) insertAccounts(ctx context.Context, scheduleID uuid.UUID, accountIDs []uuid.UUID) error {
	for position, accountID := range accountIDs {
		q := psql.Insert(
			im.Into(accountTableName, "schedule_id", "account_id", "position"),
			im.Values(psql.Arg(scheduleID, accountID, position)),
		)
		if _, err := bob.Exec(ctx, w.tx, q); err != nil {
			return err
		}
	}
	return nil
}
