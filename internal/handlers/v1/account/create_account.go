package account

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/allowance-server/internal/handlers/v1/apiutil"
	"github.com/carson-networks/allowance-server/internal/ledger"
	"github.com/carson-networks/allowance-server/internal/logging"
)

// CreateAccountInput is the Huma input for creating an account.
type CreateAccountInput struct {
	Body CreateAccountBody
}

// CreateAccountBody is the request body fields for creating an account.
type CreateAccountBody struct {
	ChildID string `json:"childID" doc:"Owning child UUID"`
	Name    string `json:"name" minLength:"1" maxLength:"100" doc:"Account name"`
}

// AccountOutput is the response for a single account.
type AccountOutput struct {
	Status int
	Body   Account
}

// accountCreator is the interface for creating accounts.
type accountCreator interface {
	CreateAccount(ctx context.Context, childID uuid.UUID, name string) (*ledger.Account, error)
}

// CreateAccountHandler handles POST /v1/account.
type CreateAccountHandler struct {
	AccountService accountCreator
}

// NewCreateAccountHandler creates a new CreateAccountHandler.
func NewCreateAccountHandler(svc accountCreator) *CreateAccountHandler {
	return &CreateAccountHandler{AccountService: svc}
}

// Register registers the create account endpoint with the Huma API.
func (h *CreateAccountHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "create-account",
		Method:      http.MethodPost,
		Path:        "/v1/account",
		Summary:     "Create an account",
		Description: "Opens an account for a child. The balance starts at zero and only changes through transactions.",
		Tags:        []string{"Accounts"},
	}, h.handle)
}

func (h *CreateAccountHandler) handle(ctx context.Context, input *CreateAccountInput) (*AccountOutput, error) {
	childID, err := apiutil.ParseUUID("childID", input.Body.ChildID)
	if err != nil {
		return nil, err
	}

	stopTimer := logging.StartTiming(ctx, "createAccountMs")
	acc, err := h.AccountService.CreateAccount(ctx, childID, input.Body.Name)
	stopTimer()
	if err != nil {
		return nil, apiutil.Error(err, "failed to create account")
	}

	logging.AddData(ctx, "accountID", acc.ID.String())

	return &AccountOutput{
		Status: http.StatusCreated,
		Body:   toAccount(acc),
	}, nil
}
