package priceunit

import (
	"strings"

	"github.com/flexprice/console/internal/types"
	"github.com/shopspring/decimal"
)

// PriceUnit is a tenant defined unit of pricing ex credits, tokens
type PriceUnit struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Code           string          `json:"code"`
	Symbol         string          `json:"symbol"`
	BaseCurrency   string          `json:"base_currency"`
	ConversionRate decimal.Decimal `json:"conversion_rate"`
	Precision      int             `json:"precision"`
	Status         types.Status    `json:"status"`
}

// ConvertToBaseCurrency converts an amount in pricing unit to base currency
// Formula: amount in fiat currency = amount in pricing unit * conversion rate
func (u *PriceUnit) ConvertToBaseCurrency(customAmount decimal.Decimal) decimal.Decimal {
	return customAmount.Mul(u.ConversionRate)
}

// SymbolIndex maps lowercase unit codes to their symbols
type SymbolIndex map[string]string

// NewSymbolIndex indexes the given units by code, units without a symbol are skipped
func NewSymbolIndex(units []*PriceUnit) SymbolIndex {
	idx := make(SymbolIndex, len(units))
	for _, u := range units {
		if u == nil || u.Symbol == "" {
			continue
		}
		idx[strings.ToLower(u.Code)] = u.Symbol
	}
	return idx
}

// Lookup returns the symbol for a unit code, empty when unknown
func (idx SymbolIndex) Lookup(code string) string {
	return idx[strings.ToLower(code)]
}
