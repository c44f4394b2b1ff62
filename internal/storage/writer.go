package storage

import (
	"context"

	"github.com/stephenafamo/bob"

	"github.com/carson-networks/allowance-server/internal/storage/account"
	"github.com/carson-networks/allowance-server/internal/storage/child"
	"github.com/carson-networks/allowance-server/internal/storage/household"
	"github.com/carson-networks/allowance-server/internal/storage/schedule"
	"github.com/carson-networks/allowance-server/internal/storage/transaction"
)

type Writer struct {
	tx          bob.Tx
	Household   *household.Writer
	Child       *child.Writer
	Account     *account.Writer
	Transaction *transaction.Writer
	Schedule    *schedule.Writer
}

func NewWriter(tx bob.Tx) *Writer {
	return &Writer{
		tx:          tx,
		Household:   household.NewWriter(tx),
		Child:       child.NewWriter(tx),
		Account:     account.NewWriter(tx),
		Transaction: transaction.NewWriter(tx),
		Schedule:    schedule.NewWriter(tx),
	}
}

func (w *Writer) Commit() error {
	return w.tx.Commit(context.Background())
}

func (w *Writer) Rollback() error {
	return w.tx.Rollback(context.Background())
}
