package child

import (
	"time"

	"github.com/carson-networks/allowance-server/internal/handlers/v1/apiutil"
	"github.com/carson-networks/allowance-server/internal/ledger"
)

// Child is the API response model for a child.
type Child struct {
	ID          string `json:"id" doc:"Child UUID"`
	HouseholdID string `json:"householdID" doc:"Household UUID"`
	Name        string `json:"name" doc:"Child name"`
	DateOfBirth string `json:"dateOfBirth,omitempty" doc:"Date of birth, YYYY-MM-DD. Required by age based schedules"`
	CreatedAt   string `json:"createdAt" doc:"RFC3339 creation time"`
	UpdatedAt   string `json:"updatedAt" doc:"RFC3339 update time"`
}

type ChildOutput struct {
	Status int
	Body   Child
}

func toChild(c *ledger.Child) Child {
	return Child{
		ID:          c.ID.String(),
		HouseholdID: c.HouseholdID.String(),
		Name:        c.Name,
		DateOfBirth: apiutil.FormatDate(c.DateOfBirth),
		CreatedAt:   c.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   c.UpdatedAt.Format(time.RFC3339),
	}
}
