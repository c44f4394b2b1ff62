package events

import (
	"encoding/json"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/allowance-server/internal/ledger"
)

// ScheduleMaterialized is published after a schedule posted transactions.
type ScheduleMaterialized struct {
	ScheduleID        uuid.UUID       `json:"scheduleID"`
	ChildID           uuid.UUID       `json:"childID"`
	TransactionIDs    []uuid.UUID     `json:"transactionIDs"`
	AccountIDs        []uuid.UUID     `json:"accountIDs"`
	Total             decimal.Decimal `json:"total"`
	NextExecutionDate string          `json:"nextExecutionDate"`
	Completed         bool            `json:"completed"`
	Timestamp         time.Time       `json:"timestamp"`
}

func NewScheduleMaterialized(s *ledger.Schedule, created []*ledger.Transaction, now time.Time) *ScheduleMaterialized {
	ids := make([]uuid.UUID, len(created))
	for i, tx := range created {
		ids[i] = tx.ID
	}
	return &ScheduleMaterialized{
		ScheduleID:        s.ID,
		ChildID:           s.ChildID,
		TransactionIDs:    ids,
		AccountIDs:        ledger.UniqueSorted(ledger.AccountIDsOf(created)),
		Total:             ledger.SumAmounts(created),
		NextExecutionDate: s.NextExecutionDate.Format(time.DateOnly),
		Completed:         s.CompletedAt != nil,
		Timestamp:         now,
	}
}

func (m *ScheduleMaterialized) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func ScheduleMaterializedFromJSON(data []byte) (*ScheduleMaterialized, error) {
	var msg ScheduleMaterialized
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
