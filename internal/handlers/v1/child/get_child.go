package child

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/allowance-server/internal/handlers/v1/apiutil"
	"github.com/carson-networks/allowance-server/internal/ledger"
)

type GetChildInput struct {
	ChildID string `path:"childID" doc:"Child UUID"`
}

type childGetter interface {
	GetChild(ctx context.Context, id uuid.UUID) (*ledger.Child, error)
}

// GetChildHandler handles GET /v1/child/{childID}.
type GetChildHandler struct {
	ChildService childGetter
}

func NewGetChildHandler(svc childGetter) *GetChildHandler {
	return &GetChildHandler{ChildService: svc}
}

func (h *GetChildHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "get-child",
		Method:      http.MethodGet,
		Path:        "/v1/child/{childID}",
		Summary:     "Get a child",
		Tags:        []string{"Children"},
	}, h.handle)
}

func (h *GetChildHandler) handle(ctx context.Context, input *GetChildInput) (*ChildOutput, error) {
	id, err := apiutil.ParseUUID("childID", input.ChildID)
	if err != nil {
		return nil, err
	}

	child, err := h.ChildService.GetChild(ctx, id)
	if err != nil {
		return nil, apiutil.Error(err, "failed to get child")
	}
	return &ChildOutput{Status: http.StatusOK, Body: toChild(child)}, nil
}
