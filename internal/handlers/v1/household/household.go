package household

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

// Household is the API response model for a household.
type Household struct {
	ID        string           `json:"id" doc:"Household UUID"`
	Name      string           `json:"name" doc:"Household name"`
	Children  []HouseholdChild `json:"children,omitempty" doc:"Children of the household"`
	CreatedAt string           `json:"createdAt" doc:"RFC3339 creation time"`
}

// HouseholdChild is the short form of a child listed under its household.
type HouseholdChild struct {
	ID          string `json:"id" doc:"Child UUID"`
	Name        string `json:"name" doc:"Child name"`
	DateOfBirth string `json:"dateOfBirth,omitempty" doc:"Date of birth, YYYY-MM-DD"`
}

func toHousehold(h *ledger.Household, children []*ledger.Child) Household {
	out := Household{
		ID:        h.ID.String(),
		Name:      h.Name,
		CreatedAt: h.CreatedAt.Format(time.RFC3339),
	}
	for _, c := range children {
		out.Children = append(out.Children, HouseholdChild{
			ID:          c.ID.String(),
			Name:        c.Name,
			DateOfBirth: apiutil.FormatDate(c.DateOfBirth),
		})
	}
	return out
}

type CreateHouseholdInput struct {
	Body struct {
		Name string `json:"name" minLength:"1" maxLength:"100" doc:"Household name"`
	}
}

type HouseholdOutput struct {
	Status int
	Body   Household
}

type householdCreator interface {
	CreateHousehold(ctx context.Context, name string) (*ledger.Household, error)
}

// CreateHouseholdHandler handles POST /v1/household.
type CreateHouseholdHandler struct {
	HouseholdService householdCreator
}

func NewCreateHouseholdHandler(svc householdCreator) *CreateHouseholdHandler {
	return &CreateHouseholdHandler{HouseholdService: svc}
}

func (h *CreateHouseholdHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "create-household",
		Method:      http.MethodPost,
		Path:        "/v1/household",
		Summary:     "Create a household",
		Tags:        []string{"Households"},
	}, h.handle)
}

func (h *CreateHouseholdHandler) handle(ctx context.Context, input *CreateHouseholdInput) (*HouseholdOutput, error) {
	household, err := h.HouseholdService.CreateHousehold(ctx, input.Body.Name)
	if err != nil {
		return nil, apiutil.Error(err, "failed to create household")
	}
	logging.AddData(ctx, "householdID", household.ID.String())

	return &HouseholdOutput{
		Status: http.StatusCreated,
		Body:   toHousehold(household, nil),
	}, nil
}

type GetHouseholdInput struct {
	HouseholdID string `path:"householdID" doc:"Household UUID"`
}

type householdGetter interface {
	GetHousehold(ctx context.Context, id uuid.UUID) (*ledger.Household, error)
}

type childLister interface {
	ListChildren(ctx context.Context, householdID uuid.UUID) ([]*ledger.Child, error)
}

// GetHouseholdHandler handles GET /v1/household/{householdID}.
type GetHouseholdHandler struct {
	HouseholdService householdGetter
	ChildService     childLister
}

func NewGetHouseholdHandler(households householdGetter, children childLister) *GetHouseholdHandler {
	return &GetHouseholdHandler{HouseholdService: households, ChildService: children}
}

func (h *GetHouseholdHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "get-household",
		Method:      http.MethodGet,
		Path:        "/v1/household/{householdID}",
		Summary:     "Get a household",
		Description: "Returns the household together with its children.",
		Tags:        []string{"Households"},
	}, h.handle)
}

func (h *GetHouseholdHandler) handle(ctx context.Context, input *GetHouseholdInput) (*HouseholdOutput, error) {
	id, err := apiutil.ParseUUID("householdID", input.HouseholdID)
	if err != nil {
		return nil, err
	}

	household, err := h.HouseholdService.GetHousehold(ctx, id)
	if err != nil {
		return nil, apiutil.Error(err, "failed to get household")
	}
	children, err := h.ChildService.ListChildren(ctx, id)
	if err != nil {
		return nil, apiutil.Error(err, "failed to list children")
	}

	return &HouseholdOutput{
		Status: http.StatusOK,
		Body:   toHousehold(household, children),
	}, nil
}
