package account

import (
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/allowance-server/internal/ledger"
)

const tableName = "accounts"

var columns = []any{"id", "child_id", "name", "balance", "created_at", "updated_at"}

// AccountFilter specifies filters for listing accounts.
type AccountFilter struct {
	ChildID uuid.UUID
	Limit   int
	Offset  int
}

// AccountCursor identifies a position in a paginated result set.
type AccountCursor struct {
	Position int
	Limit    int
}

// AccountListResult contains a page of accounts and an optional next cursor.
type AccountListResult struct {
	Accounts   []*ledger.Account
	NextCursor *AccountCursor
}

type row struct {
	ID        uuid.UUID       `db:"id"`
	ChildID   uuid.UUID       `db:"child_id"`
	Name      string          `db:"name"`
	Balance   decimal.Decimal `db:"balance"`
	CreatedAt time.Time       `db:"created_at"`
	UpdatedAt time.Time       `db:"updated_at"`
}

func (r *row) toLedger() *ledger.Account {
	return &ledger.Account{
		ID:        r.ID,
		ChildID:   r.ChildID,
		Name:      r.Name,
		Balance:   r.Balance,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}
