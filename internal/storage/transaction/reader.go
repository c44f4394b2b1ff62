package transaction

import (
	"context"
	"database/sql"
	"errors"

	"github.com/gofrs/uuid/v5"
	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/dialect"
	"github.com/stephenafamo/bob/dialect/psql/sm"
	"github.com/stephenafamo/scan"

	"github.com/carson-networks/allowance-server/internal/ledger"
)

const defaultLimit = 20

type Reader struct {
	exec bob.Executor
}

func NewReader(exec bob.Executor) *Reader {
	return &Reader{exec: exec}
}

// FindByID returns ledger.ErrNotFound when no transaction has the id.
func (r *Reader) FindByID(ctx context.Context, id uuid.UUID) (*ledger.Transaction, error) {
	return r.findOne(ctx, id)
}

func (r *Reader) findOne(ctx context.Context, id uuid.UUID, extra ...bob.Mod[*dialect.SelectQuery]) (*ledger.Transaction, error) {
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
	return res.toLedger(), nil
}

// List returns a page of an account's transactions, newest first.
func (r *Reader) List(ctx context.Context, filter *TransactionFilter) (*TransactionListResult, error) {
	limit := defaultLimit
	if filter.Limit > 0 {
		limit = filter.Limit
	}
	offset := filter.Offset

	queryMods := []bob.Mod[*dialect.SelectQuery]{
		sm.Columns(columns...),
		sm.From(tableName),
		sm.Where(psql.Quote("account_id").EQ(psql.Arg(filter.AccountID))),
	}
	if filter.MaxCreationTime != nil {
		queryMods = append(queryMods, sm.Where(psql.Quote("created_at").LTE(psql.Arg(*filter.MaxCreationTime))))
	}
	queryMods = append(queryMods,
		sm.Limit(limit+1),
		sm.Offset(offset),
		sm.OrderBy("created_at").Desc(),
		sm.OrderBy("id").Desc(),
	)

	rows, err := bob.All(ctx, r.exec, psql.Select(queryMods...), scan.StructMapper[row]())
	if err != nil {
		return nil, err
	}

	if len(rows) == 0 {
		return &TransactionListResult{}, nil
	}

	var nextCursor *TransactionCursor
	if len(rows) > limit {
		rows = rows[:limit]

		cursorMaxCreationTime := rows[0].CreatedAt
		if filter.MaxCreationTime != nil {
			cursorMaxCreationTime = *filter.MaxCreationTime
		}
		nextCursor = &TransactionCursor{
			Position:        offset + limit,
			Limit:           limit,
			MaxCreationTime: cursorMaxCreationTime,
		}
	}

	return &TransactionListResult{Transactions: toRows(rows), NextCursor: nextCursor}, nil
}

// ListAllByAccount returns every transaction of an account. The balance
// calculator sums this list.
func (r *Reader) ListAllByAccount(ctx context.Context, accountID uuid.UUID) ([]*ledger.Transaction, error) {
	q := psql.Select(
		sm.Columns(columns...),
		sm.From(tableName),
		sm.Where(psql.Quote("account_id").EQ(psql.Arg(accountID))),
		sm.OrderBy("created_at").Asc(),
		sm.OrderBy("id").Asc(),
	)
	rows, err := bob.All(ctx, r.exec, q, scan.StructMapper[row]())
	if err != nil {
		return nil, err
	}
	return toRows(rows), nil
}
