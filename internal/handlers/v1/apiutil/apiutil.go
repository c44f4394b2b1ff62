// Package apiutil holds the request parsing and error mapping shared by the
// v1 handlers.
package apiutil

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/allowance-server/internal/ledger"
)

// DateLayout is how dates without a time of day are written in responses.
const DateLayout = time.DateOnly

func ParseUUID(field, value string) (uuid.UUID, error) {
	id, err := uuid.FromString(value)
	if err != nil {
		return uuid.Nil, huma.NewError(http.StatusBadRequest, "invalid "+field, err)
	}
	return id, nil
}

func ParseUUIDs(field string, values []string) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, len(values))
	for i, value := range values {
		id, err := ParseUUID(field, value)
		if err != nil {
			return nil, err
		}
		ids[i] = id
	}
	return ids, nil
}

func ParseAmount(field, value string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, huma.NewError(http.StatusBadRequest, "invalid "+field, err)
	}
	return amount, nil
}

// ParseDate accepts 2006-01-02 or RFC3339 and keeps only the calendar day.
func ParseDate(field, value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if t, err := time.Parse(DateLayout, value); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, huma.NewError(http.StatusBadRequest, "invalid "+field+", expected YYYY-MM-DD", err)
	}
	return ledger.DateOf(t), nil
}

// ParseOptionalDate returns nil for an empty value.
func ParseOptionalDate(field, value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := ParseDate(field, value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func FormatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(DateLayout)
}

// Error maps a service error onto an HTTP status. msg describes the failed
// operation and is used for unexpected errors.
func Error(err error, msg string) error {
	var statusErr huma.StatusError
	switch {
	case errors.As(err, &statusErr):
		return err
	case errors.Is(err, ledger.ErrNotFound):
		return huma.NewError(http.StatusNotFound, err.Error())
	case ledger.IsValidation(err):
		return huma.NewError(http.StatusUnprocessableEntity, err.Error())
	}
	return huma.NewError(http.StatusInternalServerError, msg, err)
}
