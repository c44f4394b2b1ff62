package child

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/allowance-server/internal/handlers/v1/apiutil"
	"github.com/carson-networks/allowance-server/internal/ledger"
	"github.com/carson-networks/allowance-server/internal/logging"
)

type CreateChildInput struct {
	Body CreateChildBody
}

type CreateChildBody struct {
	HouseholdID string `json:"householdID" doc:"Household UUID"`
	Name        string `json:"name" minLength:"1" maxLength:"100" doc:"Child name"`
	DateOfBirth string `json:"dateOfBirth,omitempty" doc:"Date of birth, YYYY-MM-DD"`
}

type childCreator interface {
	CreateChild(ctx context.Context, householdID uuid.UUID, name string, dateOfBirth *time.Time) (*ledger.Child, error)
}

// CreateChildHandler handles POST /v1/child.
type CreateChildHandler struct {
	ChildService childCreator
}

func NewCreateChildHandler(svc childCreator) *CreateChildHandler {
	return &CreateChildHandler{ChildService: svc}
}

func (h *CreateChildHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "create-child",
		Method:      http.MethodPost,
		Path:        "/v1/child",
		Summary:     "Create a child",
		Description: "Adds a child to a household. The date of birth is optional but age based schedules fail without it.",
		Tags:        []string{"Children"},
	}, h.handle)
}

func (h *CreateChildHandler) handle(ctx context.Context, input *CreateChildInput) (*ChildOutput, error) {
	householdID, err := apiutil.ParseUUID("householdID", input.Body.HouseholdID)
	if err != nil {
		return nil, err
	}
	dob, err := apiutil.ParseOptionalDate("dateOfBirth", input.Body.DateOfBirth)
	if err != nil {
		return nil, err
	}

	child, err := h.ChildService.CreateChild(ctx, householdID, input.Body.Name, dob)
	if err != nil {
		return nil, apiutil.Error(err, "failed to create child")
	}
	logging.AddData(ctx, "childID", child.ID.String())

	return &ChildOutput{Status: http.StatusCreated, Body: toChild(child)}, nil
}
