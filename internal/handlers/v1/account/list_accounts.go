package account

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/allowance-server/internal/handlers/v1/apiutil"
	"github.com/carson-networks/allowance-server/internal/logging"
	"github.com/carson-networks/allowance-server/internal/storage/account"
)

// ListAccountsInput is the Huma input for listing a child's accounts.
type ListAccountsInput struct {
	ChildID  string `path:"childID" doc:"Child UUID"`
	Position int    `query:"position" minimum:"0" doc:"Offset for pagination"`
	Limit    int    `query:"limit" minimum:"0" maximum:"100" doc:"Page size, default 20"`
}

// ListAccountsCursor is the position of the next page.
type ListAccountsCursor struct {
	Position int `json:"position" doc:"Offset for next page"`
	Limit    int `json:"limit" doc:"Page size"`
}

// ListAccountsResponseBody is the response body for listing accounts.
type ListAccountsResponseBody struct {
	Accounts   []Account           `json:"accounts" doc:"Page of accounts"`
	NextCursor *ListAccountsCursor `json:"nextCursor,omitempty" doc:"Cursor to fetch the next page, absent on the last page"`
}

// ListAccountsOutput is the Huma output for listing accounts.
type ListAccountsOutput struct {
	Body ListAccountsResponseBody
}

// accountLister lists a child's accounts after bringing its schedules up to
// date.
type accountLister interface {
	ListAccounts(ctx context.Context, childID uuid.UUID, cursor *account.AccountCursor) (*account.AccountListResult, error)
}

// ListAccountsHandler handles GET /v1/child/{childID}/accounts.
type ListAccountsHandler struct {
	AccountService accountLister
}

// NewListAccountsHandler creates a new ListAccountsHandler.
func NewListAccountsHandler(svc accountLister) *ListAccountsHandler {
	return &ListAccountsHandler{AccountService: svc}
}

// Register registers the list accounts endpoint with the Huma API.
func (h *ListAccountsHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "list-accounts",
		Method:      http.MethodGet,
		Path:        "/v1/child/{childID}/accounts",
		Summary:     "List a child's accounts",
		Description: "Posts every due occurrence of the child's schedules, then returns a page of the child's accounts with up to date balances.",
		Tags:        []string{"Accounts"},
	}, h.handle)
}

func (h *ListAccountsHandler) handle(ctx context.Context, input *ListAccountsInput) (*ListAccountsOutput, error) {
	childID, err := apiutil.ParseUUID("childID", input.ChildID)
	if err != nil {
		return nil, err
	}

	var cursor *account.AccountCursor
	if input.Position > 0 || input.Limit > 0 {
		cursor = &account.AccountCursor{Position: input.Position, Limit: input.Limit}
	}

	stopTimer := logging.StartTiming(ctx, "listAccountsMs")
	result, err := h.AccountService.ListAccounts(ctx, childID, cursor)
	stopTimer()
	if err != nil {
		return nil, apiutil.Error(err, "failed to list accounts")
	}

	logging.AddData(ctx, "accountCount", len(result.Accounts))

	resp := ListAccountsResponseBody{
		Accounts: make([]Account, len(result.Accounts)),
	}
	for i, acc := range result.Accounts {
		resp.Accounts[i] = toAccount(acc)
	}
	if result.NextCursor != nil {
		resp.NextCursor = &ListAccountsCursor{
			Position: result.NextCursor.Position,
			Limit:    result.NextCursor.Limit,
		}
	}

	return &ListAccountsOutput{Body: resp}, nil
}
