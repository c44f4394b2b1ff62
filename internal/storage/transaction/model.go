package transaction

import (
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/allowance-server/internal/ledger"
)

const tableName = "transactions"

var columns = []any{
	"id", "account_id", "schedule_id", "amount", "transaction_date",
	"description", "comment", "created_at", "updated_at",
}

// TransactionFilter specifies filters for listing transactions.
type TransactionFilter struct {
	AccountID       uuid.UUID
	Limit           int
	Offset          int
	MaxCreationTime *time.Time
}

// TransactionCursor identifies a position in a paginated result set
// and carries the limit and maxCreationTime so subsequent pages are consistent.
type TransactionCursor struct {
	Position        int
	Limit           int
	MaxCreationTime time.Time
}

// TransactionListResult contains a page of transactions and an optional next cursor.
type TransactionListResult struct {
	Transactions []*ledger.Transaction
	NextCursor   *TransactionCursor
}

type row struct {
	ID              uuid.UUID       `db:"id"`
	AccountID       uuid.UUID       `db:"account_id"`
	ScheduleID      uuid.NullUUID   `db:"schedule_id"`
	Amount          decimal.Decimal `db:"amount"`
	TransactionDate *time.Time      `db:"transaction_date"`
	Description     string          `db:"description"`
	Comment         *string         `db:"comment"`
	CreatedAt       time.Time       `db:"created_at"`
	UpdatedAt       time.Time       `db:"updated_at"`
}

func (r *row) toLedger() *ledger.Transaction {
	tx := &ledger.Transaction{
		ID:              r.ID,
		AccountID:       r.AccountID,
		Amount:          r.Amount,
		TransactionDate: ledger.OptionalDate(r.TransactionDate),
		Description:     r.Description,
		Comment:         r.Comment,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
	if r.ScheduleID.Valid {
		id := r.ScheduleID.UUID
		tx.ScheduleID = &id
	}
	return tx
}

func toRows(rows []row) []*ledger.Transaction {
	result := make([]*ledger.Transaction, len(rows))
	for i := range rows {
		result[i] = rows[i].toLedger()
	}
	return result
}

func nullable(id *uuid.UUID) uuid.NullUUID {
	if id == nil {
		return uuid.NullUUID{}
	}
	return uuid.NullUUID{UUID: *id, Valid: true}
}
