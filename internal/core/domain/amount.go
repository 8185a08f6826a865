package domain

import (
	"bytes"
	"strings"

	"github.com/shopspring/decimal"
)

// Amount is a numeric quantity (currency, hours, bucket counts) as stored in
// project documents. Legacy documents are loosely typed: the same field may
// arrive as a JSON number, a numeric string, null, or free text. Amount
// decodes all of those without error, collapsing anything non-numeric to
// zero. It never round-trips to a different value for well-formed input.
type Amount struct {
	decimal.Decimal
}

// NewAmount builds an Amount from a float.
func NewAmount(f float64) Amount {
	return Amount{decimal.NewFromFloat(f)}
}

// AmountFromDecimal wraps an existing decimal value.
func AmountFromDecimal(d decimal.Decimal) Amount {
	return Amount{d}
}

// UnmarshalJSON implements the "parse or zero" rule of the cost model:
// non-numeric input contributes 0, it never fails the decode of the
// surrounding document.
func (a *Amount) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(bytes.Trim(bytes.TrimSpace(data), `"`)))
	if s == "" || s == "null" {
		a.Decimal = decimal.Zero
		return nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		a.Decimal = decimal.Zero
		return nil
	}
	a.Decimal = d
	return nil
}

// MarshalJSON emits the amount as a plain JSON number.
func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(a.Decimal.String()), nil
}

// Clamped returns the amount floored at zero. Stored monetary and hour
// fields are never negative; negative legacy values normalize to zero.
func (a Amount) Clamped() Amount {
	if a.Decimal.IsNegative() {
		return Amount{decimal.Zero}
	}
	return a
}
