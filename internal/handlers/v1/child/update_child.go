package child

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/allowance-server/internal/handlers/v1/apiutil"
	"github.com/carson-networks/allowance-server/internal/ledger"
	"github.com/carson-networks/allowance-server/internal/service"
)

type UpdateChildInput struct {
	ChildID string `path:"childID" doc:"Child UUID"`
	Body    UpdateChildBody
}

// UpdateChildBody holds the fields to change. Omitted fields keep their
// value; an empty dateOfBirth removes it.
type UpdateChildBody struct {
	Name        *string `json:"name,omitempty" minLength:"1" maxLength:"100" doc:"New name"`
	DateOfBirth *string `json:"dateOfBirth,omitempty" doc:"New date of birth, YYYY-MM-DD, or empty to remove it"`
}

type childUpdater interface {
	UpdateChild(ctx context.Context, id uuid.UUID, update service.ChildUpdate) (*ledger.Child, error)
}

// UpdateChildHandler handles PATCH /v1/child/{childID}.
type UpdateChildHandler struct {
	ChildService childUpdater
}

func NewUpdateChildHandler(svc childUpdater) *UpdateChildHandler {
	return &UpdateChildHandler{ChildService: svc}
}

func (h *UpdateChildHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "update-child",
		Method:      http.MethodPatch,
		Path:        "/v1/child/{childID}",
		Summary:     "Update a child",
		Tags:        []string{"Children"},
	}, h.handle)
}

func parseUpdateChildInput(input *UpdateChildInput) (uuid.UUID, service.ChildUpdate, error) {
	id, err := apiutil.ParseUUID("childID", input.ChildID)
	if err != nil {
		return uuid.Nil, service.ChildUpdate{}, err
	}

	update := service.ChildUpdate{Name: input.Body.Name}
	if input.Body.DateOfBirth != nil {
		if *input.Body.DateOfBirth == "" {
			update.ClearDateOfBirth = true
		} else {
			dob, err := apiutil.ParseDate("dateOfBirth", *input.Body.DateOfBirth)
			if err != nil {
				return uuid.Nil, service.ChildUpdate{}, err
			}
			update.DateOfBirth = &dob
		}
	}
	return id, update, nil
}

func (h *UpdateChildHandler) handle(ctx context.Context, input *UpdateChildInput) (*ChildOutput, error) {
	id, update, err := parseUpdateChildInput(input)
	if err != nil {
		return nil, err
	}

	child, err := h.ChildService.UpdateChild(ctx, id, update)
	if err != nil {
		return nil, apiutil.Error(err, "failed to update child")
	}
	return &ChildOutput{Status: http.StatusOK, Body: toChild(child)}, nil
}
