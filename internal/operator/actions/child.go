package actions

import (
	"context"
	"fmt"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/allowance-server/internal/ledger"
	"github.com/carson-networks/allowance-server/internal/storage"
)

type CreateChild struct {
	Child *ledger.Child
}

func (c *CreateChild) Perform(ctx context.Context, writer *storage.Writer) error {
	if _, err := writer.Household.FindByID(ctx, c.Child.HouseholdID); err != nil {
		return fmt.Errorf("household %s: %w", c.Child.HouseholdID, err)
	}
	return writer.Child.Insert(ctx, c.Child)
}

// UpdateChild renames a child or changes its date of birth. A nil field is
// left unchanged; ClearDateOfBirth removes the date of birth.
type UpdateChild struct {
	ChildID          uuid.UUID
	Name             *string
	DateOfBirth      *time.Time
	ClearDateOfBirth bool
	Now              time.Time

	Updated *ledger.Child
}

func (u *UpdateChild) Perform(ctx context.Context, writer *storage.Writer) error {
	child, err := writer.Child.FindByID(ctx, u.ChildID)
	if err != nil {
		return err
	}

	if u.Name != nil {
		child.Name = *u.Name
	}
	switch {
	case u.ClearDateOfBirth:
		child.DateOfBirth = nil
	case u.DateOfBirth != nil:
		dob := ledger.DateOf(*u.DateOfBirth)
		child.DateOfBirth = &dob
	}
	child.UpdatedAt = u.Now

	if err := writer.Child.Update(ctx, child); err != nil {
		return err
	}
	u.Updated = child
	return nil
}
