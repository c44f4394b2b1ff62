package schedule

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/allowance-server/internal/handlers/v1/apiutil"
)

type DeleteScheduleInput struct {
	ScheduleID string `path:"scheduleID" doc:"Schedule UUID"`
}

type scheduleDeleter interface {
	DeleteSchedule(ctx context.Context, id uuid.UUID) error
}

// DeleteScheduleHandler handles DELETE /v1/schedule/{scheduleID}.
type DeleteScheduleHandler struct {
	ScheduleService scheduleDeleter
}

func NewDeleteScheduleHandler(svc scheduleDeleter) *DeleteScheduleHandler {
	return &DeleteScheduleHandler{ScheduleService: svc}
}

func (h *DeleteScheduleHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID:   "delete-schedule",
		Method:        http.MethodDelete,
		Path:          "/v1/schedule/{scheduleID}",
		Summary:       "Delete a scheduled transaction",
		Description:   "Stops the schedule. Transactions it already posted are kept.",
		Tags:          []string{"Schedules"},
		DefaultStatus: http.StatusNoContent,
	}, h.handle)
}

func (h *DeleteScheduleHandler) handle(ctx context.Context, input *DeleteScheduleInput) (*struct{}, error) {
	id, err := apiutil.ParseUUID("scheduleID", input.ScheduleID)
	if err != nil {
		return nil, err
	}
	if err := h.ScheduleService.DeleteSchedule(ctx, id); err != nil {
		return nil, apiutil.Error(err, "failed to delete schedule")
	}
	return nil, nil
}
