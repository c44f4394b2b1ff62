package operator

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/carson-networks/allowance-server/internal/operator/actions"
	"github.com/carson-networks/allowance-server/internal/storage"
)

// writeOpener opens the database transaction an action runs in.
type writeOpener interface {
	Write(ctx context.Context) (*storage.Writer, error)
}

// Operator is the worker that processes items from the queue.
type Operator struct {
	storage writeOpener
	queue   chan ActionItem
	logger  logrus.FieldLogger
}

func NewOperator(s writeOpener, queue chan ActionItem, logger logrus.FieldLogger) *Operator {
	return &Operator{
		storage: s,
		queue:   queue,
		logger:  logger,
	}
}

// Run listens to the queue and processes items. Exits when the queue is closed.
func (o *Operator) Run() {
	for item := range o.queue {
		item.response <- ActionItemResponse{err: o.processItem(item)}
	}
}

func (o *Operator) processItem(item ActionItem) (err error) {
	if err := item.ctx.Err(); err != nil {
		return err
	}

	writer, err := o.storage.Write(item.ctx)
	if err != nil {
		return err
	}

	defer func() {
		if r := recover(); r != nil {
			_ = writer.Rollback()
			o.logger.WithField("action", actionName(item.action)).
				WithField("panic", r).
				Error("Operator.processItem.panic")
			err = fmt.Errorf("action %s panicked: %v", actionName(item.action), r)
		}
	}()

	err = item.action.Perform(item.ctx, writer)
	if err != nil {
		if rbErr := writer.Rollback(); rbErr != nil {
			o.logger.WithError(rbErr).
				WithField("action", actionName(item.action)).
				Warn("Operator.processItem.rollbackFailed")
		}
		return err
	}

	return writer.Commit()
}

func actionName(action actions.IAction) string {
	return fmt.Sprintf("%T", action)
}

type ActionItem struct {
	ctx      context.Context
	action   actions.IAction
	response chan ActionItemResponse
}

type ActionItemResponse struct {
	err error
}
