package ledger

import (
	"strings"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
)

// AmountBase selects how a schedule's amount is computed per occurrence.
type AmountBase string

const (
	AmountBaseFixed AmountBase = "fixed"
	AmountBaseAge   AmountBase = "age"
)

// RepeatFrequency is the step between two occurrences of a schedule.
// The empty value means the schedule fires once.
type RepeatFrequency string

const (
	RepeatNone    RepeatFrequency = ""
	RepeatDaily   RepeatFrequency = "daily"
	RepeatWeekly  RepeatFrequency = "weekly"
	RepeatMonthly RepeatFrequency = "monthly"
)

const (
	maxDescriptionLength = 255
	maxNameLength        = 100
)

// ValidateName rejects a blank or overlong display name. field names the
// input in the error.
func ValidateName(field, name string) error {
	if strings.TrimSpace(name) == "" {
		return validationError(field + " is required")
	}
	if len(name) > maxNameLength {
		return validationError(field + " is too long")
	}
	return nil
}

// ParseAmountBase converts a stored or user supplied value into an AmountBase.
func ParseAmountBase(s string) (AmountBase, error) {
	switch AmountBase(strings.ToLower(strings.TrimSpace(s))) {
	case AmountBaseFixed:
		return AmountBaseFixed, nil
	case AmountBaseAge:
		return AmountBaseAge, nil
	}
	return "", ErrInvalidAmountBase
}

// ParseRepeatFrequency converts a stored or user supplied value into a
// RepeatFrequency. An empty string is the non-repeating frequency.
func ParseRepeatFrequency(s string) (RepeatFrequency, error) {
	switch RepeatFrequency(strings.ToLower(strings.TrimSpace(s))) {
	case RepeatNone:
		return RepeatNone, nil
	case RepeatDaily:
		return RepeatDaily, nil
	case RepeatWeekly:
		return RepeatWeekly, nil
	case RepeatMonthly:
		return RepeatMonthly, nil
	}
	return "", ErrInvalidRepeatFrequency
}

// Repeats reports whether the frequency has an advancement rule.
func (f RepeatFrequency) Repeats() bool {
	return f != RepeatNone
}

// Household groups children.
type Household struct {
	ID        uuid.UUID
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Child is the owner of accounts and schedules.
type Child struct {
	ID          uuid.UUID
	HouseholdID uuid.UUID
	Name        string
	DateOfBirth *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Account holds a derived balance equal to the sum of its transactions.
type Account struct {
	ID        uuid.UUID
	ChildID   uuid.UUID
	Name      string
	Balance   decimal.Decimal
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Transaction is a single signed ledger row. Positive amounts are deposits.
type Transaction struct {
	ID              uuid.UUID
	AccountID       uuid.UUID
	ScheduleID      *uuid.UUID
	Amount          decimal.Decimal
	TransactionDate *time.Time
	Description     string
	Comment         *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// TransactionCreate is the input for inserting a transaction.
type TransactionCreate struct {
	AccountID       uuid.UUID
	ScheduleID      *uuid.UUID
	Amount          decimal.Decimal
	TransactionDate *time.Time
	Description     string
	Comment         *string
}

// Validate checks the fields a user can supply.
func (c TransactionCreate) Validate() error {
	if c.AccountID == uuid.Nil {
		return validationError("accountID is required")
	}
	if strings.TrimSpace(c.Description) == "" {
		return validationError("description is required")
	}
	if len(c.Description) > maxDescriptionLength {
		return validationError("description is too long")
	}
	return nil
}

// TransactionUpdate carries the optional fields of a transaction patch.
type TransactionUpdate struct {
	Amount          *decimal.Decimal
	TransactionDate *time.Time
	Description     *string
	Comment         *string
}

// Apply merges the patch into tx and validates the result. tx is left
// unchanged when the result is invalid.
func (u TransactionUpdate) Apply(tx *Transaction) error {
	merged := TransactionCreate{
		AccountID:       tx.AccountID,
		Amount:          tx.Amount,
		TransactionDate: tx.TransactionDate,
		Description:     tx.Description,
		Comment:         tx.Comment,
	}
	if u.Amount != nil {
		merged.Amount = *u.Amount
	}
	if u.TransactionDate != nil {
		d := DateOf(*u.TransactionDate)
		merged.TransactionDate = &d
	}
	if u.Description != nil {
		merged.Description = *u.Description
	}
	if u.Comment != nil {
		merged.Comment = u.Comment
	}
	if err := merged.Validate(); err != nil {
		return err
	}

	tx.Amount = merged.Amount
	tx.TransactionDate = merged.TransactionDate
	tx.Description = merged.Description
	tx.Comment = merged.Comment
	return nil
}

// Schedule is a rule that generates transactions over time.
type Schedule struct {
	ID                uuid.UUID
	ChildID           uuid.UUID
	Amount            decimal.Decimal
	Description       string
	Comment           *string
	NextExecutionDate time.Time
	AmountBase        AmountBase
	RepeatFrequency   RepeatFrequency
	AccountIDs        []uuid.UUID
	CompletedAt       *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// IsDue reports whether the schedule has an occurrence at or before now.
func (s *Schedule) IsDue(now time.Time) bool {
	if s.CompletedAt != nil {
		return false
	}
	return !DateOf(s.NextExecutionDate).After(DateOf(now))
}

// ScheduleCreate is the input for creating a schedule.
type ScheduleCreate struct {
	ChildID           uuid.UUID
	Amount            decimal.Decimal
	Description       string
	Comment           *string
	NextExecutionDate time.Time
	AmountBase        AmountBase
	RepeatFrequency   RepeatFrequency
	AccountIDs        []uuid.UUID
}

// Validate rejects a schedule before it is persisted.
func (c ScheduleCreate) Validate() error {
	if c.ChildID == uuid.Nil {
		return validationError("childID is required")
	}
	if !c.Amount.IsPositive() {
		return validationError("amount must be greater than zero")
	}
	if strings.TrimSpace(c.Description) == "" {
		return validationError("description is required")
	}
	if len(c.Description) > maxDescriptionLength {
		return validationError("description is too long")
	}
	if c.NextExecutionDate.IsZero() {
		return validationError("nextExecutionDate is required")
	}
	if _, err := ParseAmountBase(string(c.AmountBase)); err != nil {
		return err
	}
	if _, err := ParseRepeatFrequency(string(c.RepeatFrequency)); err != nil {
		return err
	}
	return validateAccountIDs(c.AccountIDs)
}

// ScheduleUpdate carries the optional fields of a schedule patch.
type ScheduleUpdate struct {
	Amount            *decimal.Decimal
	Description       *string
	Comment           *string
	NextExecutionDate *time.Time
	AmountBase        *AmountBase
	RepeatFrequency   *RepeatFrequency
	AccountIDs        []uuid.UUID
}

// Apply merges the patch into s and validates the result.
func (u ScheduleUpdate) Apply(s *Schedule) error {
	merged := ScheduleCreate{
		ChildID:           s.ChildID,
		Amount:            s.Amount,
		Description:       s.Description,
		Comment:           s.Comment,
		NextExecutionDate: s.NextExecutionDate,
		AmountBase:        s.AmountBase,
		RepeatFrequency:   s.RepeatFrequency,
		AccountIDs:        s.AccountIDs,
	}
	if u.Amount != nil {
		merged.Amount = *u.Amount
	}
	if u.Description != nil {
		merged.Description = *u.Description
	}
	if u.Comment != nil {
		merged.Comment = u.Comment
	}
	if u.NextExecutionDate != nil {
		merged.NextExecutionDate = DateOf(*u.NextExecutionDate)
	}
	if u.AmountBase != nil {
		merged.AmountBase = *u.AmountBase
	}
	if u.RepeatFrequency != nil {
		merged.RepeatFrequency = *u.RepeatFrequency
	}
	if u.AccountIDs != nil {
		merged.AccountIDs = u.AccountIDs
	}
	if err := merged.Validate(); err != nil {
		return err
	}

	s.Amount = merged.Amount
	s.Description = merged.Description
	s.Comment = merged.Comment
	s.NextExecutionDate = merged.NextExecutionDate
	s.AmountBase = merged.AmountBase
	s.RepeatFrequency = merged.RepeatFrequency
	s.AccountIDs = merged.AccountIDs
	// a rescheduled one-shot becomes live again
	if u.NextExecutionDate != nil {
		s.CompletedAt = nil
	}
	return nil
}

func validateAccountIDs(ids []uuid.UUID) error {
	if len(ids) == 0 {
		return validationError("at least one account is required")
	}
	seen := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		if id == uuid.Nil {
			return validationError("account ids must not be empty")
		}
		if _, ok := seen[id]; ok {
			return validationError("account " + id.String() + " is linked twice")
		}
		seen[id] = struct{}{}
	}
	return nil
}
