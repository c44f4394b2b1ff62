package storage

import (
	"github.com/stephenafamo/bob"

	"github.com/carson-networks/allowance-server/internal/storage/account"
	"github.com/carson-networks/allowance-server/internal/storage/child"
	"github.com/carson-networks/allowance-server/internal/storage/household"
	"github.com/carson-networks/allowance-server/internal/storage/schedule"
	"github.com/carson-networks/allowance-server/internal/storage/transaction"
)

type Reader struct {
	Households   *household.Reader
	Children     *child.Reader
	Accounts     *account.Reader
	Transactions *transaction.Reader
	Schedules    *schedule.Reader
}

func NewReader(exec bob.Executor) *Reader {
	return &Reader{
		Households:   household.NewReader(exec),
		Children:     child.NewReader(exec),
		Accounts:     account.NewReader(exec),
		Transactions: transaction.NewReader(exec),
		Schedules:    schedule.NewReader(exec),
	}
}
