package override

import (
	"fmt"

	"github.com/flexprice/console/internal/domain/price"
	"github.com/flexprice/console/internal/types"
	"github.com/samber/lo"
)

const defaultAmount = "0"

// genericSymbol stands in for prices without a currency
const genericSymbol = "¤"

// Display is how a price reads before any override is applied
type Display struct {
	Amount string            `json:"amount"`
	Symbol string            `json:"symbol"`
	Tiers  []price.PriceTier `json:"tiers"`
}

// NormalizedDisplay is a price with an override applied on top of it.
// Amount and Symbol are never empty, a price without a currency shows ¤.
type NormalizedDisplay struct {
	Amount            string                   `json:"amount"`
	Symbol            string                   `json:"symbol"`
	Tiers             []price.PriceTier        `json:"tiers"`
	BillingModel      types.BillingModelOption `json:"billing_model"`
	TierMode          types.BillingTier        `json:"tier_mode,omitempty"`
	TransformQuantity *price.TransformQuantity `json:"transform_quantity,omitempty"`
}

// ResolveDisplay picks the amount, symbol and tiers that apply to the price
// based on the unit it is denominated in
func ResolveDisplay(p *price.Price) Display {
	n := Normalize(p, nil)
	return Display{Amount: n.Amount, Symbol: n.Symbol, Tiers: n.Tiers}
}

// Normalize applies the override to the price field by field. A nil or
// empty override yields the price's own display.
func Normalize(p *price.Price, o *PriceOverride) NormalizedDisplay {
	if o == nil {
		o = &PriceOverride{}
	}
	if p == nil {
		return NormalizedDisplay{Amount: defaultAmount}
	}

	var n NormalizedDisplay
	switch u := p.Pricing().(type) {
	case price.CustomPricing:
		n.Symbol = lo.CoalesceOrEmpty(u.Symbol, u.Code, types.GetCurrencySymbol(u.Fiat.Currency), genericSymbol)
		n.Amount = lo.CoalesceOrEmpty(o.PriceUnitAmount, u.Amount, u.Fiat.Amount, defaultAmount)
		n.Tiers = firstTiers(o.PriceUnitTiers, u.Tiers)
	case price.FiatPricing:
		n.Symbol = lo.CoalesceOrEmpty(types.GetCurrencySymbol(u.Currency), genericSymbol)
		n.Amount = lo.CoalesceOrEmpty(o.Amount, u.Amount, defaultAmount)
		n.Tiers = firstTiers(o.Tiers, u.Tiers)
	}

	n.BillingModel = lo.CoalesceOrEmpty(o.BillingModel, p.BillingModel.Option())
	n.TierMode = lo.CoalesceOrEmpty(o.TierMode, p.TierMode)
	// a tiered option carries its own tier mode on the wire
	if o.BillingModel != "" {
		if _, implied := o.BillingModel.ToWire(); implied != "" {
			n.TierMode = implied
		}
	}

	n.TransformQuantity = p.TransformQuantity
	if o.TransformQuantity != nil {
		n.TransformQuantity = o.TransformQuantity
	}
	return n
}

func firstTiers(candidates ...[]price.PriceTier) []price.PriceTier {
	for _, tiers := range candidates {
		if len(tiers) > 0 {
			return tiers
		}
	}
	return nil
}

// Format renders the normalized price as a one line summary ex
// "$10.00", "$5 / 100 units", "starts at $1.00 per unit"
func Format(n NormalizedDisplay) string {
	switch n.BillingModel {
	case types.BILLING_MODEL_OPTION_FLAT_FEE:
		return n.Symbol + n.Amount
	case types.BILLING_MODEL_OPTION_PACKAGE:
		divideBy := 1
		if n.TransformQuantity != nil && n.TransformQuantity.DivideBy > 0 {
			divideBy = n.TransformQuantity.DivideBy
		}
		return fmt.Sprintf("%s%s / %d units", n.Symbol, n.Amount, divideBy)
	case types.BILLING_MODEL_OPTION_TIERED, types.BILLING_MODEL_OPTION_SLAB_TIERED:
		unitAmount := defaultAmount
		if len(n.Tiers) > 0 && n.Tiers[0].UnitAmount != "" {
			unitAmount = n.Tiers[0].UnitAmount
		}
		return fmt.Sprintf("starts at %s%s per unit", n.Symbol, unitAmount)
	default:
		return n.Symbol + n.Amount
	}
}
