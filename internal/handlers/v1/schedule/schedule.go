package schedule

import (
	"time"

	"github.com/carson-networks/allowance-server/internal/handlers/v1/apiutil"
	"github.com/carson-networks/allowance-server/internal/ledger"
)

// Schedule is the API response model for a scheduled transaction.
type Schedule struct {
	ID                string   `json:"id" doc:"Schedule UUID"`
	ChildID           string   `json:"childID" doc:"Owning child UUID"`
	Amount            string   `json:"amount" doc:"Decimal amount per occurrence, or per year of age for age based schedules"`
	Description       string   `json:"description" doc:"Copied onto every posted transaction"`
	Comment           *string  `json:"comment,omitempty" doc:"Copied onto every posted transaction"`
	NextExecutionDate string   `json:"nextExecutionDate" doc:"Next occurrence, YYYY-MM-DD"`
	AmountBase        string   `json:"amountBase" enum:"fixed,age" doc:"How the amount is computed"`
	RepeatFrequency   string   `json:"repeatFrequency" doc:"daily, weekly, monthly, or empty for a one-off"`
	AccountIDs        []string `json:"accountIDs" doc:"Accounts the amount is split across"`
	CompletedAt       string   `json:"completedAt,omitempty" doc:"RFC3339 time a one-off schedule ran"`
}

type ScheduleOutput struct {
	Status int
	Body   Schedule
}

func toSchedule(s *ledger.Schedule) Schedule {
	out := Schedule{
		ID:                s.ID.String(),
		ChildID:           s.ChildID.String(),
		Amount:            s.Amount.String(),
		Description:       s.Description,
		Comment:           s.Comment,
		NextExecutionDate: apiutil.FormatDate(&s.NextExecutionDate),
		AmountBase:        string(s.AmountBase),
		RepeatFrequency:   string(s.RepeatFrequency),
		AccountIDs:        make([]string, len(s.AccountIDs)),
	}
	for i, id := range s.AccountIDs {
		out.AccountIDs[i] = id.String()
	}
	if s.CompletedAt != nil {
		out.CompletedAt = s.CompletedAt.Format(time.RFC3339)
	}
	return out
}
