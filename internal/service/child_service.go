package service

import (
	"context"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/allowance-server/internal/ledger"
	"github.com/carson-networks/allowance-server/internal/operator/actions"
)

type childReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*ledger.Child, error)
	ListByHousehold(ctx context.Context, householdID uuid.UUID) ([]*ledger.Child, error)
}

// ChildUpdate carries the optional fields of a child patch.
type ChildUpdate struct {
	Name             *string
	DateOfBirth      *time.Time
	ClearDateOfBirth bool
}

type ChildService struct {
	children childReader
	operator actionProcessor
	now      clock
}

func NewChildService(children childReader, op actionProcessor) *ChildService {
	return &ChildService{children: children, operator: op, now: utcNow}
}

// CreateChild adds a child to an existing household. dateOfBirth is optional
// but age based schedules cannot run without it.
func (s *ChildService) CreateChild(ctx context.Context, householdID uuid.UUID, name string, dateOfBirth *time.Time) (*ledger.Child, error) {
	if err := ledger.ValidateName("name", name); err != nil {
		return nil, err
	}

	id, err := uuid.NewV4()
	if err != nil {
		return nil, err
	}
	now := s.now()
	child := &ledger.Child{
		ID:          id,
		HouseholdID: householdID,
		Name:        name,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if dateOfBirth != nil {
		dob := ledger.DateOf(*dateOfBirth)
		child.DateOfBirth = &dob
	}

	if err := s.operator.Process(ctx, &actions.CreateChild{Child: child}); err != nil {
		return nil, err
	}
	return child, nil
}

func (s *ChildService) GetChild(ctx context.Context, id uuid.UUID) (*ledger.Child, error) {
	return s.children.FindByID(ctx, id)
}

func (s *ChildService) ListChildren(ctx context.Context, householdID uuid.UUID) ([]*ledger.Child, error) {
	return s.children.ListByHousehold(ctx, householdID)
}

func (s *ChildService) UpdateChild(ctx context.Context, id uuid.UUID, update ChildUpdate) (*ledger.Child, error) {
	if update.Name != nil {
		if err := ledger.ValidateName("name", *update.Name); err != nil {
			return nil, err
		}
	}

	action := &actions.UpdateChild{
		ChildID:          id,
		Name:             update.Name,
		DateOfBirth:      update.DateOfBirth,
		ClearDateOfBirth: update.ClearDateOfBirth,
		Now:              s.now(),
	}
	if err := s.operator.Process(ctx, action); err != nil {
		return nil, err
	}
	return action.Updated, nil
}
