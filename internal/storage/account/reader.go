package account

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

// List returns a page of the accounts of one child ordered by name.
func (r *Reader) List(ctx context.Context, filter *AccountFilter) (*AccountListResult, error) {
	limit := defaultLimit
	if filter.Limit > 0 {
		limit = filter.Limit
	}
	offset := filter.Offset

	queryMods := []bob.Mod[*dialect.SelectQuery]{
		sm.Columns(columns...),
		sm.From(tableName),
		sm.Where(psql.Quote("child_id").EQ(psql.Arg(filter.ChildID))),
		sm.Limit(limit + 1),
		sm.Offset(offset),
		sm.OrderBy("name").Asc(),
		sm.OrderBy("id").Asc(),
	}
	rows, err := bob.All(ctx, r.exec, psql.Select(queryMods...), scan.StructMapper[row]())
	if err != nil {
		return nil, err
	}

	if len(rows) == 0 {
		return &AccountListResult{Accounts: nil, NextCursor: nil}, nil
	}

	var nextCursor *AccountCursor
	if len(rows) > limit {
		rows = rows[:limit]
		nextCursor = &AccountCursor{
			Position: offset + limit,
			Limit:    limit,
		}
	}

	result := make([]*ledger.Account, len(rows))
	for i := range rows {
		result[i] = rows[i].toLedger()
	}
	return &AccountListResult{Accounts: result, NextCursor: nextCursor}, nil
}

// FindByID returns ledger.ErrNotFound when no account has the id.
func (r *Reader) FindByID(ctx context.Context, id uuid.UUID) (*ledger.Account, error) {
	return r.findOne(ctx, psql.Quote("id").EQ(psql.Arg(id)))
}

func (r *Reader) findOne(ctx context.Context, where bob.Expression, extra ...bob.Mod[*dialect.SelectQuery]) (*ledger.Account, error) {
	queryMods := append([]bob.Mod[*dialect.SelectQuery]{
		sm.Columns(columns...),
		sm.From(tableName),
		sm.Where(where),
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
