package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/hashicorp/go-multierror"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/carson-networks/allowance-server/internal/events"
	"github.com/carson-networks/allowance-server/internal/ledger"
	"github.com/carson-networks/allowance-server/internal/operator/actions"
)

type scheduleReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*ledger.Schedule, error)
	ListByChild(ctx context.Context, childID uuid.UUID) ([]*ledger.Schedule, error)
	ListIDsByChild(ctx context.Context, childID uuid.UUID) ([]uuid.UUID, error)
	ListChildrenWithDue(ctx context.Context, today time.Time) ([]uuid.UUID, error)
}

// ProcessResult describes one ProcessDue run for a child.
type ProcessResult struct {
	ChildID uuid.UUID
	// Schedules is the number of schedules that were checked.
	Schedules    int
	Materialized int
	Transactions []*ledger.Transaction
	// Errors holds one entry per schedule that failed.
	Errors *multierror.Error
}

// Err returns the aggregated schedule failures, or nil.
func (r *ProcessResult) Err() error {
	return r.Errors.ErrorOrNil()
}

func failureCount(errs *multierror.Error) int {
	if errs == nil {
		return 0
	}
	return len(errs.Errors)
}

// BatchResult describes one ProcessAllDue run.
type BatchResult struct {
	Children     int
	Transactions int
}

type ScheduleService struct {
	schedules   scheduleReader
	operator    actionProcessor
	engine      *ledger.Engine
	publisher   events.Publisher
	logger      logrus.FieldLogger
	concurrency int
	inflight    singleflight.Group
	now         clock
}

func NewScheduleService(
	schedules scheduleReader,
	op actionProcessor,
	engine *ledger.Engine,
	publisher events.Publisher,
	logger logrus.FieldLogger,
	concurrency int,
) *ScheduleService {
	if engine == nil {
		engine = ledger.NewEngine(ledger.WithLogger(logger))
	}
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	if concurrency < 1 {
		concurrency = 1
	}
	return &ScheduleService{
		schedules:   schedules,
		operator:    op,
		engine:      engine,
		publisher:   publisher,
		logger:      logger,
		concurrency: concurrency,
		now:         utcNow,
	}
}

func (s *ScheduleService) CreateSchedule(ctx context.Context, create ledger.ScheduleCreate) (*ledger.Schedule, error) {
	if err := create.Validate(); err != nil {
		return nil, err
	}
	action := &actions.CreateSchedule{Create: create, Now: s.now()}
	if err := s.operator.Process(ctx, action); err != nil {
		return nil, err
	}
	return action.Created, nil
}

func (s *ScheduleService) GetSchedule(ctx context.Context, id uuid.UUID) (*ledger.Schedule, error) {
	return s.schedules.FindByID(ctx, id)
}

func (s *ScheduleService) ListSchedules(ctx context.Context, childID uuid.UUID) ([]*ledger.Schedule, error) {
	return s.schedules.ListByChild(ctx, childID)
}

func (s *ScheduleService) UpdateSchedule(ctx context.Context, id uuid.UUID, update ledger.ScheduleUpdate) (*ledger.Schedule, error) {
	action := &actions.UpdateSchedule{ScheduleID: id, Update: update, Now: s.now()}
	if err := s.operator.Process(ctx, action); err != nil {
		return nil, err
	}
	return action.Updated, nil
}

func (s *ScheduleService) DeleteSchedule(ctx context.Context, id uuid.UUID) error {
	return s.operator.Process(ctx, &actions.DeleteSchedule{ScheduleID: id})
}

// ProcessDue materializes every due schedule of a child. Each schedule runs
// in its own database transaction; a failing schedule is logged and recorded
// in the result while the others continue. Concurrent calls for the same
// child share a single run. The shared run ignores the cancellation of the
// caller that started it, so callers that joined it still get a full result.
// A caller whose context is already done gets an empty result carrying the
// context error.
//
// The returned error is only set when the child's schedules could not be
// listed.
func (s *ScheduleService) ProcessDue(ctx context.Context, childID uuid.UUID) (*ProcessResult, error) {
	if err := ctx.Err(); err != nil {
		return &ProcessResult{ChildID: childID, Errors: multierror.Append(nil, err)}, nil
	}
	v, err, _ := s.inflight.Do(childID.String(), func() (interface{}, error) {
		return s.processDue(context.WithoutCancel(ctx), childID)
	})
	if err != nil {
		return nil, err
	}
	return v.(*ProcessResult), nil
}

func (s *ScheduleService) processDue(ctx context.Context, childID uuid.UUID) (*ProcessResult, error) {
	log := s.logger.WithField("childID", childID.String())

	ids, err := s.schedules.ListIDsByChild(ctx, childID)
	if err != nil {
		return nil, fmt.Errorf("list schedules for child %s: %w", childID, err)
	}

	now := s.now()
	result := &ProcessResult{ChildID: childID}
	for _, id := range ids {
		result.Schedules++

		action := &actions.MaterializeSchedule{ScheduleID: id, Engine: s.engine, Now: now}
		if err := s.operator.Process(ctx, action); err != nil {
			log.WithError(err).
				WithField("scheduleID", id.String()).
				Error("ScheduleService.ProcessDue.scheduleFailed")
			result.Errors = multierror.Append(result.Errors, fmt.Errorf("schedule %s: %w", id, err))
			continue
		}
		if len(action.Created) == 0 {
			continue
		}

		result.Materialized++
		result.Transactions = append(result.Transactions, action.Created...)
		s.publish(ctx, log, action.Schedule, action.Created, now)
	}

	log.WithFields(logrus.Fields{
		"schedules":    result.Schedules,
		"materialized": result.Materialized,
		"transactions": len(result.Transactions),
		"failed":       failureCount(result.Errors),
	}).Debug("ScheduleService.ProcessDue.complete")

	return result, nil
}

func (s *ScheduleService) publish(ctx context.Context, log logrus.FieldLogger, schedule *ledger.Schedule, created []*ledger.Transaction, now time.Time) {
	msg := events.NewScheduleMaterialized(schedule, created, now)
	if err := s.publisher.PublishScheduleMaterialized(ctx, msg); err != nil {
		log.WithError(err).
			WithField("scheduleID", schedule.ID.String()).
			Warn("ScheduleService.ProcessDue.publishFailed")
	}
}

// ProcessAllDue runs ProcessDue for every child that has a due schedule,
// with at most the configured number of children in flight.
func (s *ScheduleService) ProcessAllDue(ctx context.Context) (*BatchResult, error) {
	childIDs, err := s.schedules.ListChildrenWithDue(ctx, s.now())
	if err != nil {
		return nil, fmt.Errorf("list children with due schedules: %w", err)
	}

	var (
		mu     sync.Mutex
		errs   *multierror.Error
		result = &BatchResult{Children: len(childIDs)}
	)

	var g errgroup.Group
	g.SetLimit(s.concurrency)
	for _, childID := range childIDs {
		g.Go(func() error {
			res, err := s.ProcessDue(ctx, childID)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = multierror.Append(errs, err)
				return nil
			}
			result.Transactions += len(res.Transactions)
			if res.Err() != nil {
				errs = multierror.Append(errs, fmt.Errorf("child %s: %w", childID, res.Err()))
			}
			return nil
		})
	}
	_ = g.Wait()

	s.logger.WithFields(logrus.Fields{
		"children":     result.Children,
		"transactions": result.Transactions,
		"failed":       failureCount(errs),
	}).Info("ScheduleService.ProcessAllDue.complete")

	return result, errs.ErrorOrNil()
}
