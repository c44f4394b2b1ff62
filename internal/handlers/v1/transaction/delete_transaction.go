package transaction

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/allowance-server/internal/handlers/v1/apiutil"
)

type DeleteTransactionInput struct {
	TransactionID string `path:"transactionID" doc:"Transaction UUID"`
}

type transactionDeleter interface {
	DeleteTransaction(ctx context.Context, id uuid.UUID) error
}

// DeleteTransactionHandler handles DELETE /v1/transaction/{transactionID}.
type DeleteTransactionHandler struct {
	TransactionService transactionDeleter
}

func NewDeleteTransactionHandler(svc transactionDeleter) *DeleteTransactionHandler {
	return &DeleteTransactionHandler{TransactionService: svc}
}

func (h *DeleteTransactionHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID:   "delete-transaction",
		Method:        http.MethodDelete,
		Path:          "/v1/transaction/{transactionID}",
		Summary:       "Delete a transaction",
		Description:   "Removes a transaction and recomputes the account balance.",
		Tags:          []string{"Transactions"},
		DefaultStatus: http.StatusNoContent,
	}, h.handle)
}

func (h *DeleteTransactionHandler) handle(ctx context.Context, input *DeleteTransactionInput) (*struct{}, error) {
	id, err := apiutil.ParseUUID("transactionID", input.TransactionID)
	if err != nil {
		return nil, err
	}
	if err := h.TransactionService.DeleteTransaction(ctx, id); err != nil {
		return nil, apiutil.Error(err, "failed to delete transaction")
	}
	return nil, nil
}
