package schedule

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/allowance-server/internal/handlers/v1/apiutil"
	"github.com/carson-networks/allowance-server/internal/ledger"
)

type UpdateScheduleInput struct {
	ScheduleID string `path:"scheduleID" doc:"Schedule UUID"`
	Body       UpdateScheduleBody
}

// UpdateScheduleBody holds the fields to change. Omitted fields keep their
// value. Setting nextExecutionDate re-arms a completed one-off schedule.
type UpdateScheduleBody struct {
	Amount            *string  `json:"amount,omitempty" doc:"Positive decimal amount"`
	Description       *string  `json:"description,omitempty"`
	Comment           *string  `json:"comment,omitempty"`
	NextExecutionDate *string  `json:"nextExecutionDate,omitempty" doc:"YYYY-MM-DD"`
	AmountBase        *string  `json:"amountBase,omitempty" doc:"fixed or age"`
	RepeatFrequency   *string  `json:"repeatFrequency,omitempty" doc:"daily, weekly, monthly, or empty for a one-off"`
	AccountIDs        []string `json:"accountIDs,omitempty" doc:"Replaces the linked accounts"`
}

type scheduleUpdater interface {
	UpdateSchedule(ctx context.Context, id uuid.UUID, update ledger.ScheduleUpdate) (*ledger.Schedule, error)
}

// UpdateScheduleHandler handles PATCH /v1/schedule/{scheduleID}.
type UpdateScheduleHandler struct {
	ScheduleService scheduleUpdater
}

func NewUpdateScheduleHandler(svc scheduleUpdater) *UpdateScheduleHandler {
	return &UpdateScheduleHandler{ScheduleService: svc}
}

func (h *UpdateScheduleHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "update-schedule",
		Method:      http.MethodPatch,
		Path:        "/v1/schedule/{scheduleID}",
		Summary:     "Update a scheduled transaction",
		Tags:        []string{"Schedules"},
	}, h.handle)
}

func parseUpdateScheduleInput(input *UpdateScheduleInput) (uuid.UUID, ledger.ScheduleUpdate, error) {
	var update ledger.ScheduleUpdate
	id, err := apiutil.ParseUUID("scheduleID", input.ScheduleID)
	if err != nil {
		return uuid.Nil, update, err
	}

	body := input.Body
	update.Description = body.Description
	update.Comment = body.Comment
	if body.Amount != nil {
		amount, err := apiutil.ParseAmount("amount", *body.Amount)
		if err != nil {
			return uuid.Nil, update, err
		}
		update.Amount = &amount
	}
	if body.NextExecutionDate != nil {
		next, err := apiutil.ParseDate("nextExecutionDate", *body.NextExecutionDate)
		if err != nil {
			return uuid.Nil, update, err
		}
		update.NextExecutionDate = &next
	}
	if body.AmountBase != nil {
		base, err := ledger.ParseAmountBase(*body.AmountBase)
		if err != nil {
			return uuid.Nil, update, apiutil.Error(err, "")
		}
		update.AmountBase = &base
	}
	if body.RepeatFrequency != nil {
		freq, err := ledger.ParseRepeatFrequency(*body.RepeatFrequency)
		if err != nil {
			return uuid.Nil, update, apiutil.Error(err, "")
		}
		update.RepeatFrequency = &freq
	}
	if body.AccountIDs != nil {
		update.AccountIDs, err = apiutil.ParseUUIDs("accountIDs", body.AccountIDs)
		if err != nil {
			return uuid.Nil, update, err
		}
	}
	return id, update, nil
}

func (h *UpdateScheduleHandler) handle(ctx context.Context, input *UpdateScheduleInput) (*ScheduleOutput, error) {
	id, update, err := parseUpdateScheduleInput(input)
	if err != nil {
		return nil, err
	}

	s, err := h.ScheduleService.UpdateSchedule(ctx, id, update)
	if err != nil {
		return nil, apiutil.Error(err, "failed to update schedule")
	}
	return &ScheduleOutput{Status: http.StatusOK, Body: toSchedule(s)}, nil
}
