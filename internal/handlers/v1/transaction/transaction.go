package transaction

import (
	"time"

	"github.com/carson-networks/allowance-server/internal/handlers/v1/apiutil"
	"github.com/carson-networks/allowance-server/internal/ledger"
)

// Transaction is the API response model for a transaction.
// It is used only for responses, not for request bodies.
type Transaction struct {
	ID              string  `json:"id" doc:"Transaction UUID"`
	AccountID       string  `json:"accountID" doc:"Account UUID"`
	ScheduleID      string  `json:"scheduleID,omitempty" doc:"Schedule that posted this transaction, absent for manual entries"`
	Amount          string  `json:"amount" doc:"Signed decimal amount, positive for deposits"`
	TransactionDate string  `json:"transactionDate,omitempty" doc:"Date of the transaction, YYYY-MM-DD"`
	Description     string  `json:"description" doc:"What the transaction is for"`
	Comment         *string `json:"comment,omitempty" doc:"Free text comment"`
	CreatedAt       string  `json:"createdAt" doc:"RFC3339 creation time"`
}

type TransactionOutput struct {
	Status int
	Body   Transaction
}

func toTransaction(tx *ledger.Transaction) Transaction {
	out := Transaction{
		ID:              tx.ID.String(),
		AccountID:       tx.AccountID.String(),
		Amount:          tx.Amount.String(),
		TransactionDate: apiutil.FormatDate(tx.TransactionDate),
		Description:     tx.Description,
		Comment:         tx.Comment,
		CreatedAt:       tx.CreatedAt.Format(time.RFC3339),
	}
	if tx.ScheduleID != nil {
		out.ScheduleID = tx.ScheduleID.String()
	}
	return out
}
