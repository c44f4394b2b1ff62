package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/sirupsen/logrus"
)

// DefaultMaxOccurrences caps how many missed occurrences one call may post.
const DefaultMaxOccurrences = 1000

// Store is the part of the ledger the engine writes to. Implementations are
// expected to run inside a transaction that holds a lock on the schedule.
type Store interface {
	FindChild(ctx context.Context, id uuid.UUID) (*Child, error)
	LockAccount(ctx context.Context, id uuid.UUID) (*Account, error)
	InsertTransaction(ctx context.Context, create *TransactionCreate) (*Transaction, error)
	SaveScheduleProgress(ctx context.Context, scheduleID uuid.UUID, next time.Time, completedAt *time.Time) error
}

// Engine turns due schedule occurrences into transactions.
type Engine struct {
	maxOccurrences int
	log            logrus.FieldLogger
}

type EngineOption func(*Engine)

// WithMaxOccurrences overrides DefaultMaxOccurrences.
func WithMaxOccurrences(n int) EngineOption {
	return func(e *Engine) {
		if n > 0 {
			e.maxOccurrences = n
		}
	}
}

func WithLogger(log logrus.FieldLogger) EngineOption {
	return func(e *Engine) {
		e.log = log
	}
}

func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{
		maxOccurrences: DefaultMaxOccurrences,
		log:            logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Materialize posts every occurrence of s that is due at now, one transaction
// per linked account per occurrence, and advances s past now. It returns the
// created transactions in posting order. s is updated in place once progress
// has been saved.
//
// Nothing is written when the schedule is not due, has no accounts, belongs
// to a child without a date of birth while age based, or is more than the
// occurrence cap behind.
func (e *Engine) Materialize(ctx context.Context, store Store, s *Schedule, now time.Time) ([]*Transaction, error) {
	if !s.IsDue(now) {
		return nil, nil
	}

	log := e.log.WithField("scheduleID", s.ID.String())
	if len(s.AccountIDs) == 0 {
		log.Warn("Engine.Materialize.noAccounts")
		return nil, nil
	}

	dates := DueOccurrences(s.NextExecutionDate, s.RepeatFrequency, now, e.maxOccurrences)
	if len(dates) > e.maxOccurrences {
		return nil, fmt.Errorf("schedule %s: %w (cap %d)", s.ID, ErrTooManyMissedOccurrences, e.maxOccurrences)
	}

	var child *Child
	if s.AmountBase == AmountBaseAge {
		var err error
		child, err = store.FindChild(ctx, s.ChildID)
		if err != nil {
			return nil, fmt.Errorf("find child %s: %w", s.ChildID, err)
		}
		if child.DateOfBirth == nil {
			return nil, fmt.Errorf("schedule %s: %w", s.ID, ErrMissingDateOfBirth)
		}
	}

	// Accounts are locked in a fixed order before the first insert, so two
	// schedules sharing an account queue up instead of deadlocking.
	for _, accountID := range UniqueSorted(s.AccountIDs) {
		if _, err := store.LockAccount(ctx, accountID); err != nil {
			return nil, fmt.Errorf("lock account %s: %w", accountID, err)
		}
	}

	scheduleID := s.ID
	created := make([]*Transaction, 0, len(dates)*len(s.AccountIDs))
	next := DateOf(s.NextExecutionDate)
	var completedAt *time.Time

	for _, date := range dates {
		total, err := OccurrenceAmount(s, child, date)
		if err != nil {
			return nil, err
		}
		split := SplitAmount(total, len(s.AccountIDs))

		for _, accountID := range s.AccountIDs {
			transactionDate := date
			tx, err := store.InsertTransaction(ctx, &TransactionCreate{
				AccountID:       accountID,
				ScheduleID:      &scheduleID,
				Amount:          split,
				TransactionDate: &transactionDate,
				Description:     s.Description,
				Comment:         s.Comment,
			})
			if err != nil {
				return nil, fmt.Errorf("insert transaction for account %s: %w", accountID, err)
			}
			created = append(created, tx)
		}

		advanced, ok := Advance(date, s.RepeatFrequency)
		if !ok {
			done := now
			completedAt = &done
			break
		}
		next = advanced
	}

	if err := store.SaveScheduleProgress(ctx, s.ID, next, completedAt); err != nil {
		return nil, fmt.Errorf("save schedule progress: %w", err)
	}
	s.NextExecutionDate = next
	s.CompletedAt = completedAt

	log.WithFields(logrus.Fields{
		"occurrences":       len(dates),
		"transactions":      len(created),
		"nextExecutionDate": next.Format(time.DateOnly),
	}).Info("Engine.Materialize.complete")

	return created, nil
}
