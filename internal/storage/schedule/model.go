package schedule

import (
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/allowance-server/internal/ledger"
)

const (
	tableName        = "scheduled_transactions"
	accountTableName = "scheduled_transaction_accounts"
)

var columns = []any{
	"id", "child_id", "amount", "description", "comment", "next_execution_date",
	"amount_base", "repeat_frequency", "completed_at", "created_at", "updated_at",
}

type row struct {
	ID                uuid.UUID       `db:"id"`
	ChildID           uuid.UUID       `db:"child_id"`
	Amount            decimal.Decimal `db:"amount"`
	Description       string          `db:"description"`
	Comment           *string         `db:"comment"`
	NextExecutionDate time.Time       `db:"next_execution_date"`
	AmountBase        string          `db:"amount_base"`
	RepeatFrequency   *string         `db:"repeat_frequency"`
	CompletedAt       *time.Time      `db:"completed_at"`
	CreatedAt         time.Time       `db:"created_at"`
	UpdatedAt         time.Time       `db:"updated_at"`
}

// toLedger rejects rows whose enum columns no longer parse, so a bad value
// fails the one schedule instead of being treated as a default.
func (r *row) toLedger(accountIDs []uuid.UUID) (*ledger.Schedule, error) {
	base, err := ledger.ParseAmountBase(r.AmountBase)
	if err != nil {
		return nil, err
	}
	freq, err := frequencyFromColumn(r.RepeatFrequency)
	if err != nil {
		return nil, err
	}
	return &ledger.Schedule{
		ID:                r.ID,
		ChildID:           r.ChildID,
		Amount:            r.Amount,
		Description:       r.Description,
		Comment:           r.Comment,
		NextExecutionDate: ledger.DateOf(r.NextExecutionDate),
		AmountBase:        base,
		RepeatFrequency:   freq,
		AccountIDs:        accountIDs,
		CompletedAt:       r.CompletedAt,
		CreatedAt:         r.CreatedAt,
		UpdatedAt:         r.UpdatedAt,
	}, nil
}

// A schedule without a repeat frequency is stored as NULL.
func frequencyColumn(f ledger.RepeatFrequency) *string {
	if !f.Repeats() {
		return nil
	}
	v := string(f)
	return &v
}

func frequencyFromColumn(v *string) (ledger.RepeatFrequency, error) {
	if v == nil {
		return ledger.RepeatNone, nil
	}
	freq, err := ledger.ParseRepeatFrequency(*v)
	if err != nil {
		return "", err
	}
	if !freq.Repeats() {
		// '' is not a stored value; NULL is
		return "", ledger.ErrInvalidRepeatFrequency
	}
	return freq, nil
}
