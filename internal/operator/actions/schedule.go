package actions

import (
	"context"
	"fmt"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/allowance-server/internal/ledger"
	"github.com/carson-networks/allowance-server/internal/storage"
)

type CreateSchedule struct {
	Create ledger.ScheduleCreate
	Now    time.Time

	Created *ledger.Schedule
}

func (c *CreateSchedule) Perform(ctx context.Context, writer *storage.Writer) error {
	if err := c.Create.Validate(); err != nil {
		return err
	}
	if _, err := writer.Child.FindByID(ctx, c.Create.ChildID); err != nil {
		return fmt.Errorf("child %s: %w", c.Create.ChildID, err)
	}
	if err := checkAccountsOwned(ctx, writer, c.Create.ChildID, c.Create.AccountIDs); err != nil {
		return err
	}

	id, err := uuid.NewV4()
	if err != nil {
		return err
	}
	s := &ledger.Schedule{
		ID:                id,
		ChildID:           c.Create.ChildID,
		Amount:            c.Create.Amount,
		Description:       c.Create.Description,
		Comment:           c.Create.Comment,
		NextExecutionDate: ledger.DateOf(c.Create.NextExecutionDate),
		AmountBase:        c.Create.AmountBase,
		RepeatFrequency:   c.Create.RepeatFrequency,
		AccountIDs:        c.Create.AccountIDs,
		CreatedAt:         c.Now,
		UpdatedAt:         c.Now,
	}
	if err := writer.Schedule.Insert(ctx, s); err != nil {
		return err
	}
	c.Created = s
	return nil
}

type UpdateSchedule struct {
	ScheduleID uuid.UUID
	Update     ledger.ScheduleUpdate
	Now        time.Time

	Updated *ledger.Schedule
}

func (u *UpdateSchedule) Perform(ctx context.Context, writer *storage.Writer) error {
	s, err := writer.Schedule.FindByIDForUpdate(ctx, u.ScheduleID)
	if err != nil {
		return err
	}
	if err := u.Update.Apply(s); err != nil {
		return err
	}
	if u.Update.AccountIDs != nil {
		if err := checkAccountsOwned(ctx, writer, s.ChildID, s.AccountIDs); err != nil {
			return err
		}
	}
	s.UpdatedAt = u.Now

	if err := writer.Schedule.Update(ctx, s); err != nil {
		return err
	}
	u.Updated = s
	return nil
}

// DeleteSchedule removes a schedule. Transactions it already posted stay in
// the ledger.
type DeleteSchedule struct {
	ScheduleID uuid.UUID
}

func (d *DeleteSchedule) Perform(ctx context.Context, writer *storage.Writer) error {
	if _, err := writer.Schedule.FindByIDForUpdate(ctx, d.ScheduleID); err != nil {
		return err
	}
	return writer.Schedule.Delete(ctx, d.ScheduleID)
}

// MaterializeSchedule locks one schedule, posts its due occurrences and
// recomputes the balance of every account it touched, all in the writer's
// transaction.
type MaterializeSchedule struct {
	ScheduleID uuid.UUID
	Engine     *ledger.Engine
	Now        time.Time

	Schedule *ledger.Schedule
	Created  []*ledger.Transaction
}

func (m *MaterializeSchedule) Perform(ctx context.Context, writer *storage.Writer) error {
	s, err := writer.Schedule.FindByIDForUpdate(ctx, m.ScheduleID)
	if err != nil {
		return err
	}

	store := writer.Ledger(m.Now)
	created, err := m.Engine.Materialize(ctx, store, s, m.Now)
	if err != nil {
		return err
	}

	if len(created) > 0 {
		if err := ledger.RecomputeBalances(ctx, store, ledger.AccountIDsOf(created), m.Now); err != nil {
			return err
		}
	}

	m.Schedule = s
	m.Created = created
	return nil
}
