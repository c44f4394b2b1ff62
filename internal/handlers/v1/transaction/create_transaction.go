package transaction

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/allowance-server/internal/handlers/v1/apiutil"
	"github.com/carson-networks/allowance-server/internal/ledger"
	"github.com/carson-networks/allowance-server/internal/logging"
)

// CreateTransactionInput is the Huma input for creating a transaction.
type CreateTransactionInput struct {
	Body CreateTransactionBody
}

// CreateTransactionBody is the request body fields for creating a transaction.
type CreateTransactionBody struct {
	AccountID       string  `json:"accountID" doc:"Account UUID"`
	Amount          string  `json:"amount" doc:"Signed decimal amount, e.g. '5' or '-2.50'"`
	TransactionDate string  `json:"transactionDate,omitempty" doc:"Date of the transaction, YYYY-MM-DD"`
	Description     string  `json:"description" minLength:"1" maxLength:"255" doc:"What the transaction is for"`
	Comment         *string `json:"comment,omitempty" doc:"Free text comment"`
}

// transactionCreator is the interface for creating transactions.
type transactionCreator interface {
	CreateTransaction(ctx context.Context, create ledger.TransactionCreate) (*ledger.Transaction, error)
}

// CreateTransactionHandler handles POST /v1/transaction.
type CreateTransactionHandler struct {
	TransactionService transactionCreator
}

// NewCreateTransactionHandler creates a new CreateTransactionHandler.
func NewCreateTransactionHandler(svc transactionCreator) *CreateTransactionHandler {
	return &CreateTransactionHandler{TransactionService: svc}
}

// Register registers the create transaction endpoint with the Huma API.
func (h *CreateTransactionHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "create-transaction",
		Method:      http.MethodPost,
		Path:        "/v1/transaction",
		Summary:     "Create a transaction",
		Description: "Posts a manual transaction and recomputes the account balance.",
		Tags:        []string{"Transactions"},
	}, h.handle)
}

// parseCreateTransactionInput parses and validates the API input.
func parseCreateTransactionInput(input *CreateTransactionInput) (ledger.TransactionCreate, error) {
	accountID, err := apiutil.ParseUUID("accountID", input.Body.AccountID)
	if err != nil {
		return ledger.TransactionCreate{}, err
	}
	amount, err := apiutil.ParseAmount("amount", input.Body.Amount)
	if err != nil {
		return ledger.TransactionCreate{}, err
	}
	transactionDate, err := apiutil.ParseOptionalDate("transactionDate", input.Body.TransactionDate)
	if err != nil {
		return ledger.TransactionCreate{}, err
	}

	return ledger.TransactionCreate{
		AccountID:       accountID,
		Amount:          amount,
		TransactionDate: transactionDate,
		Description:     input.Body.Description,
		Comment:         input.Body.Comment,
	}, nil
}

func (h *CreateTransactionHandler) handle(ctx context.Context, input *CreateTransactionInput) (*TransactionOutput, error) {
	create, err := parseCreateTransactionInput(input)
	if err != nil {
		return nil, err
	}

	stopTimer := logging.StartTiming(ctx, "createTransactionMs")
	tx, err := h.TransactionService.CreateTransaction(ctx, create)
	stopTimer()
	if err != nil {
		return nil, apiutil.Error(err, "failed to create transaction")
	}

	logging.AddData(ctx, "transactionID", tx.ID.String())

	return &TransactionOutput{
		Status: http.StatusCreated,
		Body:   toTransaction(tx),
	}, nil
}
