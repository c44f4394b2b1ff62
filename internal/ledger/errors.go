package ledger

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation marks input rejected before it reaches the store.
	ErrValidation = errors.New("validation error")

	ErrInvalidAmountBase      = fmt.Errorf("%w: amountBase must be one of fixed, age", ErrValidation)
	ErrInvalidRepeatFrequency = fmt.Errorf("%w: repeatFrequency must be one of daily, weekly, monthly or empty", ErrValidation)
	ErrAccountNotOwned        = fmt.Errorf("%w: account does not belong to the child", ErrValidation)

	// ErrMissingDateOfBirth is returned when an age based schedule belongs to a
	// child without a date of birth.
	ErrMissingDateOfBirth = errors.New("child has no date of birth for age based schedule")

	// ErrTooManyMissedOccurrences is returned when a schedule is so far behind
	// that catching up would exceed the configured cap.
	ErrTooManyMissedOccurrences = errors.New("too many missed occurrences")

	ErrNotFound = errors.New("not found")
)

func validationError(msg string) error {
	return fmt.Errorf("%w: %s", ErrValidation, msg)
}

// IsValidation reports whether err was caused by rejected input.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}
