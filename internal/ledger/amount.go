package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

// OccurrenceAmount is the total a schedule posts for the occurrence on date,
// before it is split across accounts.
func OccurrenceAmount(s *Schedule, child *Child, date time.Time) (decimal.Decimal, error) {
	if s.AmountBase != AmountBaseAge {
		return s.Amount, nil
	}
	if child == nil || child.DateOfBirth == nil {
		return decimal.Zero, ErrMissingDateOfBirth
	}
	age := WholeYears(*child.DateOfBirth, date)
	return s.Amount.Mul(decimal.NewFromInt(int64(age))), nil
}

// SplitAmount divides total evenly over n accounts. The remainder is not
// redistributed, so the parts may not add back up to total exactly.
func SplitAmount(total decimal.Decimal, n int) decimal.Decimal {
	if n <= 0 {
		return decimal.Zero
	}
	return total.Div(decimal.NewFromInt(int64(n)))
}
