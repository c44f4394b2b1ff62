package schedule

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/allowance-server/internal/handlers/v1/apiutil"
	"github.com/carson-networks/allowance-server/internal/ledger"
)

type ListSchedulesInput struct {
	ChildID string `path:"childID" doc:"Child UUID"`
}

type ListSchedulesOutput struct {
	Body struct {
		Schedules []Schedule `json:"schedules" doc:"Every schedule of the child, soonest first"`
	}
}

type scheduleLister interface {
	ListSchedules(ctx context.Context, childID uuid.UUID) ([]*ledger.Schedule, error)
}

// ListSchedulesHandler handles GET /v1/child/{childID}/schedules.
type ListSchedulesHandler struct {
	ScheduleService scheduleLister
}

func NewListSchedulesHandler(svc scheduleLister) *ListSchedulesHandler {
	return &ListSchedulesHandler{ScheduleService: svc}
}

func (h *ListSchedulesHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "list-schedules",
		Method:      http.MethodGet,
		Path:        "/v1/child/{childID}/schedules",
		Summary:     "List a child's scheduled transactions",
		Tags:        []string{"Schedules"},
	}, h.handle)
}

func (h *ListSchedulesHandler) handle(ctx context.Context, input *ListSchedulesInput) (*ListSchedulesOutput, error) {
	childID, err := apiutil.ParseUUID("childID", input.ChildID)
	if err != nil {
		return nil, err
	}

	schedules, err := h.ScheduleService.ListSchedules(ctx, childID)
	if err != nil {
		return nil, apiutil.Error(err, "failed to list schedules")
	}

	out := &ListSchedulesOutput{}
	out.Body.Schedules = make([]Schedule, len(schedules))
	for i, s := range schedules {
		out.Body.Schedules[i] = toSchedule(s)
	}
	return out, nil
}
