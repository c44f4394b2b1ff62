package schedule

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/dialect"
	"github.com/stephenafamo/bob/dialect/psql/sm"
	"github.com/stephenafamo/scan"

	"github.com/carson-networks/allowance-server/internal/ledger"
)

type Reader struct {
	exec bob.Executor
}

func NewReader(exec bob.Executor) *Reader {
	return &Reader{exec: exec}
}

// FindByID loads a schedule and its linked accounts. It returns
// ledger.ErrNotFound when no schedule has the id.
func (r *Reader) FindByID(ctx context.Context, id uuid.UUID) (*ledger.Schedule, error) {
	return r.findOne(ctx, id)
}

func (r *Reader) findOne(ctx context.Context, id uuid.UUID, extra ...bob.Mod[*dialect.SelectQuery]) (*ledger.Schedule, error) {
	queryMods := append([]bob.Mod[*dialect.SelectQuery]{
		sm.Columns(columns...),
		sm.From(tableName),
		sm.Where(psql.Quote("id").EQ(psql.Arg(id))),
	}, extra...)

	res, err := bob.One(ctx, r.exec, psql.Select(queryMods...), scan.StructMapper[row]())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ledger.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return r.withAccounts(ctx, &res)
}

// ListByChild returns every schedule of a child with its linked accounts.
func (r *Reader) ListByChild(ctx context.Context, childID uuid.UUID) ([]*ledger.Schedule, error) {
	q := psql.Select(
		sm.Columns(columns...),
		sm.From(tableName),
		sm.Where(psql.Quote("child_id").EQ(psql.Arg(childID))),
		sm.OrderBy("next_execution_date").Asc(),
		sm.OrderBy("id").Asc(),
	)
	rows, err := bob.All(ctx, r.exec, q, scan.StructMapper[row]())
	if err != nil {
		return nil, err
	}

	result := make([]*ledger.Schedule, 0, len(rows))
	for i := range rows {
		s, err := r.withAccounts(ctx, &rows[i])
		if err != nil {
			return nil, err
		}
		result = append(result, s)
	}
	return result, nil
}

// ListIDsByChild returns the ids of a child's schedules that are not
// completed.
func (r *Reader) ListIDsByChild(ctx context.Context, childID uuid.UUID) ([]uuid.UUID, error) {
	q := psql.Select(
		sm.Columns("id"),
		sm.From(tableName),
		sm.Where(psql.Quote("child_id").EQ(psql.Arg(childID))),
		sm.Where(psql.Quote("completed_at").IsNull()),
		sm.OrderBy("id").Asc(),
	)
	return bob.All(ctx, r.exec, q, scan.SingleColumnMapper[uuid.UUID])
}

// ListChildrenWithDue returns the children owning at least one schedule due
// on or before the given day.
func (r *Reader) ListChildrenWithDue(ctx context.Context, today time.Time) ([]uuid.UUID, error) {
	q := psql.Select(
		sm.Distinct(),
		sm.Columns("child_id"),
		sm.From(tableName),
		sm.Where(psql.Quote("completed_at").IsNull()),
		sm.Where(psql.Quote("next_execution_date").LTE(psql.Arg(ledger.DateOf(today)))),
		sm.OrderBy("child_id").Asc(),
	)
	return bob.All(ctx, r.exec, q, scan.SingleColumnMapper[uuid.UUID])
}

func (r *Reader) accountIDs(ctx context.Context, scheduleID uuid.UUID) ([]uuid.UUID, error) {
	q := psql.Select(
		sm.Columns("account_id"),
		sm.From(accountTableName),
		sm.Where(psql.Quote("schedule_id").EQ(psql.Arg(scheduleID))),
		sm.OrderBy("position").Asc(),
	)
	return bob.All(ctx, r.exec, q, scan.SingleColumnMapper[uuid.UUID])
}

func (r *Reader) withAccounts(ctx context.Context, res *row) (*ledger.Schedule, error) {
	ids, err := r.accountIDs(ctx, res.ID)
	if err != nil {
		return nil, err
	}
	return res.toLedger(ids)
}
