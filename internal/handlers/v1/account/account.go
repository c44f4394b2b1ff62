package account

import (
	"time"

	"github.com/carson-networks/allowance-server/internal/ledger"
)

// Account is the API response model for an account.
type Account struct {
	ID        string `json:"id" doc:"Account UUID"`
	ChildID   string `json:"childID" doc:"Owning child UUID"`
	Name      string `json:"name" doc:"Account name"`
	Balance   string `json:"balance" doc:"Decimal balance, the sum of the account's transactions"`
	CreatedAt string `json:"createdAt" doc:"RFC3339 creation time"`
	UpdatedAt string `json:"updatedAt" doc:"RFC3339 time of the last balance change"`
}

func toAccount(a *ledger.Account) Account {
	return Account{
		ID:        a.ID.String(),
		ChildID:   a.ChildID.String(),
		Name:      a.Name,
		Balance:   a.Balance.String(),
		CreatedAt: a.CreatedAt.Format(time.RFC3339),
		UpdatedAt: a.UpdatedAt.Format(time.RFC3339),
	}
}
