package household

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/im"
	"github.com/stephenafamo/bob/dialect/psql/sm"
	"github.com/stephenafamo/scan"

	"github.com/carson-networks/allowance-server/internal/ledger"
)

const tableName = "households"

var columns = []any{"id", "name", "created_at", "updated_at"}

type row struct {
	ID        uuid.UUID `db:"id"`
	Name      string    `db:"name"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (r *row) toLedger() *ledger.Household {
	return &ledger.Household{
		ID:        r.ID,
		Name:      r.Name,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

type Reader struct {
	exec bob.Executor
}

func NewReader(exec bob.Executor) *Reader {
	return &Reader{exec: exec}
}

// FindByID returns ledger.ErrNotFound when no household has the id.
func (r *Reader) FindByID(ctx context.Context, id uuid.UUID) (*ledger.Household, error) {
	q := psql.Select(
		sm.Columns(columns...),
		sm.From(tableName),
		sm.Where(psql.Quote("id").EQ(psql.Arg(id))),
	)
	res, err := bob.One(ctx, r.exec, q, scan.StructMapper[row]())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ledger.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return res.toLedger(), nil
}

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

func (w *Writer) Insert(ctx context.Context, h *ledger.Household) error {
	q := psql.Insert(
		im.Into(tableName, "id", "name", "created_at", "updated_at"),
		im.Values(psql.Arg(h.ID, h.Name, h.CreatedAt, h.UpdatedAt)),
	)
	_, err := bob.Exec(ctx, w.tx, q)
	return err
}
