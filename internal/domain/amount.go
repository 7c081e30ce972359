package domain

import "github.com/shopspring/decimal"

// Amount is a decimal quantity or money value. Lexoffice rejects quoted
// numbers, so it encodes as a bare JSON number; both forms are decoded.
type Amount struct {
	decimal.Decimal
}

// NewAmount wraps d.
func NewAmount(d decimal.Decimal) Amount {
	return Amount{Decimal: d}
}

// MustAmount parses s and panics if it is not a decimal. For literals.
func MustAmount(s string) Amount {
	return Amount{Decimal: decimal.RequireFromString(s)}
}

// MarshalJSON encodes a as a JSON number.
func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalJSON accepts a JSON number or a quoted decimal string.
func (a *Amount) UnmarshalJSON(data []byte) error {
	return a.Decimal.UnmarshalJSON(data)
}
