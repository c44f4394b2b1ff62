package transaction

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/allowance-server/internal/handlers/v1/apiutil"
	"github.com/carson-networks/allowance-server/internal/ledger"
)

type UpdateTransactionInput struct {
	TransactionID string `path:"transactionID" doc:"Transaction UUID"`
	Body          UpdateTransactionBody
}

// UpdateTransactionBody holds the fields to change. Omitted fields keep their
// value.
type UpdateTransactionBody struct {
	Amount          *string `json:"amount,omitempty" doc:"Signed decimal amount"`
	TransactionDate *string `json:"transactionDate,omitempty" doc:"Date of the transaction, YYYY-MM-DD"`
	Description     *string `json:"description,omitempty" doc:"What the transaction is for"`
	Comment         *string `json:"comment,omitempty" doc:"Free text comment"`
}

type transactionUpdater interface {
	UpdateTransaction(ctx context.Context, id uuid.UUID, update ledger.TransactionUpdate) (*ledger.Transaction, error)
}

// UpdateTransactionHandler handles PATCH /v1/transaction/{transactionID}.
type UpdateTransactionHandler struct {
	TransactionService transactionUpdater
}

func NewUpdateTransactionHandler(svc transactionUpdater) *UpdateTransactionHandler {
	return &UpdateTransactionHandler{TransactionService: svc}
}

func (h *UpdateTransactionHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "update-transaction",
		Method:      http.MethodPatch,
		Path:        "/v1/transaction/{transactionID}",
		Summary:     "Update a transaction",
		Description: "Changes a transaction and recomputes the account balance.",
		Tags:        []string{"Transactions"},
	}, h.handle)
}

func parseUpdateTransactionInput(input *UpdateTransactionInput) (uuid.UUID, ledger.TransactionUpdate, error) {
	id, err := apiutil.ParseUUID("transactionID", input.TransactionID)
	if err != nil {
		return uuid.Nil, ledger.TransactionUpdate{}, err
	}

	update := ledger.TransactionUpdate{
		Description: input.Body.Description,
		Comment:     input.Body.Comment,
	}
	if input.Body.Amount != nil {
		amount, err := apiutil.ParseAmount("amount", *input.Body.Amount)
		if err != nil {
			return uuid.Nil, ledger.TransactionUpdate{}, err
		}
		update.Amount = &amount
	}
	if input.Body.TransactionDate != nil {
		date, err := apiutil.ParseDate("transactionDate", *input.Body.TransactionDate)
		if err != nil {
			return uuid.Nil, ledger.TransactionUpdate{}, err
		}
		update.TransactionDate = &date
	}
	return id, update, nil
}

func (h *UpdateTransactionHandler) handle(ctx context.Context, input *UpdateTransactionInput) (*TransactionOutput, error) {
	id, update, err := parseUpdateTransactionInput(input)
	if err != nil {
		return nil, err
	}

	tx, err := h.TransactionService.UpdateTransaction(ctx, id, update)
	if err != nil {
		return nil, apiutil.Error(err, "failed to update transaction")
	}
	return &TransactionOutput{Status: http.StatusOK, Body: toTransaction(tx)}, nil
}
