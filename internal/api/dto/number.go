package dto

import "github.com/shopspring/decimal"

// Number is a decimal that goes on the wire as a JSON number instead of
// the quoted string decimal.Decimal produces
type Number struct {
	decimal.Decimal
}

func NewNumber(d decimal.Decimal) *Number {
	return &Number{Decimal: d}
}

func (n Number) MarshalJSON() ([]byte, error) {
	return []byte(n.Decimal.String()), nil
}

// UnmarshalJSON accepts both numbers and quoted decimal strings
func (n *Number) UnmarshalJSON(data []byte) error {
	return n.Decimal.UnmarshalJSON(data)
}
