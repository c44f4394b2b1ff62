package account

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/allowance-server/internal/handlers/v1/apiutil"
	"github.com/carson-networks/allowance-server/internal/ledger"
)

type GetAccountInput struct {
	AccountID string `path:"accountID" doc:"Account UUID"`
}

type accountGetter interface {
	GetAccount(ctx context.Context, id uuid.UUID) (*ledger.Account, error)
}

// GetAccountHandler handles GET /v1/account/{accountID}.
type GetAccountHandler struct {
	AccountService accountGetter
}

func NewGetAccountHandler(svc accountGetter) *GetAccountHandler {
	return &GetAccountHandler{AccountService: svc}
}

func (h *GetAccountHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "get-account",
		Method:      http.MethodGet,
		Path:        "/v1/account/{accountID}",
		Summary:     "Get an account",
		Tags:        []string{"Accounts"},
	}, h.handle)
}

func (h *GetAccountHandler) handle(ctx context.Context, input *GetAccountInput) (*AccountOutput, error) {
	id, err := apiutil.ParseUUID("accountID", input.AccountID)
	if err != nil {
		return nil, err
	}

	acc, err := h.AccountService.GetAccount(ctx, id)
	if err != nil {
		return nil, apiutil.Error(err, "failed to get account")
	}
	return &AccountOutput{Status: http.StatusOK, Body: toAccount(acc)}, nil
}
