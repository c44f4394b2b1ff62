package service

import (
	"context"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/allowance-server/internal/ledger"
	"github.com/carson-networks/allowance-server/internal/operator/actions"
)

type householdReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*ledger.Household, error)
}

type HouseholdService struct {
	households householdReader
	operator   actionProcessor
	now        clock
}

func NewHouseholdService(households householdReader, op actionProcessor) *HouseholdService {
	return &HouseholdService{households: households, operator: op, now: utcNow}
}

func (s *HouseholdService) CreateHousehold(ctx context.Context, name string) (*ledger.Household, error) {
	if err := ledger.ValidateName("name", name); err != nil {
		return nil, err
	}

	id, err := uuid.NewV4()
	if err != nil {
		return nil, err
	}
	now := s.now()
	household := &ledger.Household{
		ID:        id,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.operator.Process(ctx, &actions.CreateHousehold{Household: household}); err != nil {
		return nil, err
	}
	return household, nil
}

func (s *HouseholdService) GetHousehold(ctx context.Context, id uuid.UUID) (*ledger.Household, error) {
	return s.households.FindByID(ctx, id)
}
