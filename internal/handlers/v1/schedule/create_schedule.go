package schedule

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/allowance-server/internal/handlers/v1/apiutil"
	"github.com/carson-networks/allowance-server/internal/ledger"
	"github.com/carson-networks/allowance-server/internal/logging"
)

type CreateScheduleInput struct {
	Body CreateScheduleBody
}

type CreateScheduleBody struct {
	ChildID           string   `json:"childID" doc:"Owning child UUID"`
	Amount            string   `json:"amount" doc:"Positive decimal amount"`
	Description       string   `json:"description" doc:"Copied onto every posted transaction"`
	Comment           *string  `json:"comment,omitempty" doc:"Copied onto every posted transaction"`
	NextExecutionDate string   `json:"nextExecutionDate" doc:"First occurrence, YYYY-MM-DD"`
	AmountBase        string   `json:"amountBase" doc:"fixed or age"`
	RepeatFrequency   string   `json:"repeatFrequency,omitempty" doc:"daily, weekly, monthly, or empty for a one-off"`
	AccountIDs        []string `json:"accountIDs" doc:"Accounts of the child the amount is split across"`
}

type scheduleCreator interface {
	CreateSchedule(ctx context.Context, create ledger.ScheduleCreate) (*ledger.Schedule, error)
}

// CreateScheduleHandler handles POST /v1/schedule.
type CreateScheduleHandler struct {
	ScheduleService scheduleCreator
}

func NewCreateScheduleHandler(svc scheduleCreator) *CreateScheduleHandler {
	return &CreateScheduleHandler{ScheduleService: svc}
}

func (h *CreateScheduleHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "create-schedule",
		Method:      http.MethodPost,
		Path:        "/v1/schedule",
		Summary:     "Create a scheduled transaction",
		Description: "Creates a recurring or one-off transaction rule for a child. Occurrences are posted the next time the child's schedules are processed.",
		Tags:        []string{"Schedules"},
	}, h.handle)
}

// parseCreateScheduleInput converts the body into a ledger.ScheduleCreate.
// Enum values are checked here so a bad value is a 422 like the other
// domain validation errors.
func parseCreateScheduleInput(input *CreateScheduleInput) (ledger.ScheduleCreate, error) {
	childID, err := apiutil.ParseUUID("childID", input.Body.ChildID)
	if err != nil {
		return ledger.ScheduleCreate{}, err
	}
	amount, err := apiutil.ParseAmount("amount", input.Body.Amount)
	if err != nil {
		return ledger.ScheduleCreate{}, err
	}
	next, err := apiutil.ParseDate("nextExecutionDate", input.Body.NextExecutionDate)
	if err != nil {
		return ledger.ScheduleCreate{}, err
	}
	accountIDs, err := apiutil.ParseUUIDs("accountIDs", input.Body.AccountIDs)
	if err != nil {
		return ledger.ScheduleCreate{}, err
	}
	base, err := ledger.ParseAmountBase(input.Body.AmountBase)
	if err != nil {
		return ledger.ScheduleCreate{}, apiutil.Error(err, "")
	}
	freq, err := ledger.ParseRepeatFrequency(input.Body.RepeatFrequency)
	if err != nil {
		return ledger.ScheduleCreate{}, apiutil.Error(err, "")
	}

	return ledger.ScheduleCreate{
		ChildID:           childID,
		Amount:            amount,
		Description:       input.Body.Description,
		Comment:           input.Body.Comment,
		NextExecutionDate: next,
		AmountBase:        base,
		RepeatFrequency:   freq,
		AccountIDs:        accountIDs,
	}, nil
}

func (h *CreateScheduleHandler) handle(ctx context.Context, input *CreateScheduleInput) (*ScheduleOutput, error) {
	create, err := parseCreateScheduleInput(input)
	if err != nil {
		return nil, err
	}

	s, err := h.ScheduleService.CreateSchedule(ctx, create)
	if err != nil {
		return nil, apiutil.Error(err, "failed to create schedule")
	}
	logging.AddData(ctx, "scheduleID", s.ID.String())

	return &ScheduleOutput{Status: http.StatusCreated, Body: toSchedule(s)}, nil
}
