package child

import (
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/allowance-server/internal/ledger"
)

const tableName = "children"

var columns = []any{"id", "household_id", "name", "date_of_birth", "created_at", "updated_at"}

type row struct {
	ID          uuid.UUID  `db:"id"`
	HouseholdID uuid.UUID  `db:"household_id"`
	Name        string     `db:"name"`
	DateOfBirth *time.Time `db:"date_of_birth"`
	CreatedAt   time.Time  `db:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at"`
}

func (r *row) toLedger() *ledger.Child {
	return &ledger.Child{
		ID:          r.ID,
		HouseholdID: r.HouseholdID,
		Name:        r.Name,
		DateOfBirth: ledger.OptionalDate(r.DateOfBirth),
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}
