package schedule

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/carson-networks/allowance-server/internal/ledger"
)

type mockScheduleService struct {
	mock.Mock
}

func (m *mockScheduleService) CreateSchedule(ctx context.Context, create ledger.ScheduleCreate) (*ledger.Schedule, error) {
	args := m.Called(ctx, create)
	s, _ := args.Get(0).(*ledger.Schedule)
	return s, args.Error(1)
}

func (m *mockScheduleService) UpdateSchedule(ctx context.Context, id uuid.UUID, update ledger.ScheduleUpdate) (*ledger.Schedule, error) {
	args := m.Called(ctx, id, update)
	s, _ := args.Get(0).(*ledger.Schedule)
	return s, args.Error(1)
}

func (m *mockScheduleService) DeleteSchedule(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockScheduleService) ListSchedules(ctx context.Context, childID uuid.UUID) ([]*ledger.Schedule, error) {
	args := m.Called(ctx, childID)
	s, _ := args.Get(0).([]*ledger.Schedule)
	return s, args.Error(1)
}

func newTestAPI(t *testing.T, svc *mockScheduleService) humatest.TestAPI {
	t.Helper()
	_, api := humatest.New(t)
	NewCreateScheduleHandler(svc).Register(api)
	NewUpdateScheduleHandler(svc).Register(api)
	NewDeleteScheduleHandler(svc).Register(api)
	NewListSchedulesHandler(svc).Register(api)
	return api
}

func weeklySchedule(childID uuid.UUID, accountIDs ...uuid.UUID) *ledger.Schedule {
	return &ledger.Schedule{
		ID:                uuid.Must(uuid.NewV4()),
		ChildID:           childID,
		Amount:            decimal.NewFromInt(5),
		Description:       "Allowance",
		NextExecutionDate: time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC),
		AmountBase:        ledger.AmountBaseFixed,
		RepeatFrequency:   ledger.RepeatWeekly,
		AccountIDs:        accountIDs,
	}
}

func TestParseCreateScheduleInput(t *testing.T) {
	childID := uuid.Must(uuid.NewV4())
	a1 := uuid.Must(uuid.NewV4())
	a2 := uuid.Must(uuid.NewV4())

	create, err := parseCreateScheduleInput(&CreateScheduleInput{Body: CreateScheduleBody{
		ChildID:           childID.String(),
		Amount:            "0.50",
		Description:       "Pocket money",
		NextExecutionDate: "2025-03-02",
		AmountBase:        "Age",
		RepeatFrequency:   "weekly",
		AccountIDs:        []string{a1.String(), a2.String()},
	}})

	require.NoError(t, err)
	assert.Equal(t, childID, create.ChildID)
	assert.True(t, create.Amount.Equal(decimal.RequireFromString("0.5")))
	assert.Equal(t, time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC), create.NextExecutionDate)
	assert.Equal(t, ledger.AmountBaseAge, create.AmountBase)
	assert.Equal(t, ledger.RepeatWeekly, create.RepeatFrequency)
	assert.Equal(t, []uuid.UUID{a1, a2}, create.AccountIDs)
}

func TestParseUpdateScheduleInput_OnlyGivenFields(t *testing.T) {
	id := uuid.Must(uuid.NewV4())
	freq := ""

	gotID, update, err := parseUpdateScheduleInput(&UpdateScheduleInput{
		ScheduleID: id.String(),
		Body:       UpdateScheduleBody{RepeatFrequency: &freq},
	})

	require.NoError(t, err)
	assert.Equal(t, id, gotID)
	require.NotNil(t, update.RepeatFrequency)
	assert.Equal(t, ledger.RepeatNone, *update.RepeatFrequency)
	assert.Nil(t, update.Amount)
	assert.Nil(t, update.NextExecutionDate)
	assert.Nil(t, update.AccountIDs)
}

func TestHTTP_CreateSchedule_Success(t *testing.T) {
	childID := uuid.Must(uuid.NewV4())
	accountID := uuid.Must(uuid.NewV4())
	created := weeklySchedule(childID, accountID)

	svc := new(mockScheduleService)
	svc.On("CreateSchedule", mock.Anything, mock.MatchedBy(func(c ledger.ScheduleCreate) bool {
		return c.ChildID == childID && c.RepeatFrequency == ledger.RepeatWeekly
	})).Return(created, nil)

	resp := newTestAPI(t, svc).Post("/v1/schedule", CreateScheduleBody{
		ChildID:           childID.String(),
		Amount:            "5",
		Description:       "Allowance",
		NextExecutionDate: "2025-03-02",
		AmountBase:        "fixed",
		RepeatFrequency:   "weekly",
		AccountIDs:        []string{accountID.String()},
	})

	assert.Equal(t, http.StatusCreated, resp.Code)
	var body Schedule
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, created.ID.String(), body.ID)
	assert.Equal(t, "2025-03-02", body.NextExecutionDate)
	assert.Equal(t, "weekly", body.RepeatFrequency)
	assert.Equal(t, []string{accountID.String()}, body.AccountIDs)
	assert.Empty(t, body.CompletedAt)
	svc.AssertExpectations(t)
}

func TestHTTP_CreateSchedule_BadFrequency(t *testing.T) {
	svc := new(mockScheduleService)

	resp := newTestAPI(t, svc).Post("/v1/schedule", CreateScheduleBody{
		ChildID:           uuid.Must(uuid.NewV4()).String(),
		Amount:            "5",
		Description:       "Allowance",
		NextExecutionDate: "2025-03-02",
		AmountBase:        "fixed",
		RepeatFrequency:   "hourly",
		AccountIDs:        []string{uuid.Must(uuid.NewV4()).String()},
	})

	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
	svc.AssertNotCalled(t, "CreateSchedule", mock.Anything, mock.Anything)
}

func TestHTTP_CreateSchedule_AccountNotOwned(t *testing.T) {
	svc := new(mockScheduleService)
	svc.On("CreateSchedule", mock.Anything, mock.Anything).Return(nil, ledger.ErrAccountNotOwned)

	resp := newTestAPI(t, svc).Post("/v1/schedule", CreateScheduleBody{
		ChildID:           uuid.Must(uuid.NewV4()).String(),
		Amount:            "5",
		Description:       "Allowance",
		NextExecutionDate: "2025-03-02",
		AmountBase:        "fixed",
		AccountIDs:        []string{uuid.Must(uuid.NewV4()).String()},
	})

	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
}

func TestHTTP_UpdateSchedule_NotFound(t *testing.T) {
	svc := new(mockScheduleService)
	id := uuid.Must(uuid.NewV4())
	svc.On("UpdateSchedule", mock.Anything, id, mock.Anything).Return(nil, ledger.ErrNotFound)

	amount := "7"
	resp := newTestAPI(t, svc).Patch("/v1/schedule/"+id.String(), UpdateScheduleBody{Amount: &amount})

	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestHTTP_DeleteSchedule(t *testing.T) {
	svc := new(mockScheduleService)
	id := uuid.Must(uuid.NewV4())
	svc.On("DeleteSchedule", mock.Anything, id).Return(nil)

	resp := newTestAPI(t, svc).Delete("/v1/schedule/" + id.String())

	assert.Equal(t, http.StatusNoContent, resp.Code)
	svc.AssertExpectations(t)
}

func TestHTTP_ListSchedules(t *testing.T) {
	childID := uuid.Must(uuid.NewV4())
	s := weeklySchedule(childID, uuid.Must(uuid.NewV4()))
	done := time.Date(2025, 3, 2, 7, 0, 0, 0, time.UTC)
	s.CompletedAt = &done

	svc := new(mockScheduleService)
	svc.On("ListSchedules", mock.Anything, childID).Return([]*ledger.Schedule{s}, nil)

	resp := newTestAPI(t, svc).Get("/v1/child/" + childID.String() + "/schedules")

	assert.Equal(t, http.StatusOK, resp.Code)
	var body struct {
		Schedules []Schedule `json:"schedules"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body.Schedules, 1)
	assert.Equal(t, "2025-03-02T07:00:00Z", body.Schedules[0].CompletedAt)
}
