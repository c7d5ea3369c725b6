package dto

import (
	"github.com/flexprice/console/internal/domain/override"
	"github.com/flexprice/console/internal/domain/price"
	"github.com/flexprice/console/internal/types"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// CreatePriceTier is a price tier as the billing API accepts it
type CreatePriceTier struct {
	// up_to is the quantity up to which this tier applies, inclusive. It is null for the last tier
	UpTo *uint64 `json:"up_to"`
	// unit_amount is the amount per unit for the given tier
	UnitAmount string `json:"unit_amount"`
	// flat_amount is the flat amount for the given tier, defaults to 0
	FlatAmount string `json:"flat_amount"`
}

// OverrideLineItemRequest overrides the price of one subscription line item
// at creation time. Only one of the fiat pair (amount, tiers) and the custom
// unit pair (price_unit_amount, price_unit_tiers) is ever set.
type OverrideLineItemRequest struct {
	// PriceID references the plan price to override
	PriceID string `json:"price_id"`

	// Quantity for this line item, never set for usage prices
	Quantity *Number `json:"quantity,omitempty"`

	// Amount is the new fiat amount that overrides the original price
	Amount *Number `json:"amount,omitempty"`

	Tiers []CreatePriceTier `json:"tiers,omitempty"`

	// PriceUnitAmount is the new amount in the custom price unit
	PriceUnitAmount string `json:"price_unit_amount,omitempty"`

	PriceUnitTiers []CreatePriceTier `json:"price_unit_tiers,omitempty"`

	BillingModel types.BillingModel `json:"billing_model,omitempty"`
	TierMode     types.BillingTier  `json:"tier_mode,omitempty"`

	TransformQuantity *price.TransformQuantity `json:"transform_quantity,omitempty"`
}

// NewOverrideLineItems serializes the overrides into the billing API's line
// item override format. Overrides for prices that are not in prices, and
// overrides without any price field set, are skipped. The output follows
// the insertion order of the set.
func NewOverrideLineItems(prices []*price.Price, overrides *override.Set) []OverrideLineItemRequest {
	byID := lo.KeyBy(lo.Compact(prices), func(p *price.Price) string {
		return p.ID
	})

	items := make([]OverrideLineItemRequest, 0, overrides.Len())
	overrides.Each(func(o *override.PriceOverride) bool {
		p, ok := byID[o.PriceID]
		if !ok || !o.HasPriceChanges() {
			return true
		}
		items = append(items, NewOverrideLineItem(p, o))
		return true
	})
	return items
}

// NewOverrideLineItem serializes a single override of p
func NewOverrideLineItem(p *price.Price, o *override.PriceOverride) OverrideLineItemRequest {
	item := OverrideLineItemRequest{
		PriceID:           o.PriceID,
		TransformQuantity: o.TransformQuantity,
	}
	item.BillingModel, item.TierMode = wireBillingModel(o)

	// usage quantity is derived from metered events by the billing API
	if o.Quantity != nil && !p.IsUsage() {
		item.Quantity = NewNumber(*o.Quantity)
	}

	switch p.Pricing().(type) {
	case price.CustomPricing:
		item.PriceUnitAmount = o.PriceUnitAmount
		item.PriceUnitTiers = NewCreatePriceTiers(o.PriceUnitTiers)
	default:
		item.Amount = parseNumber(o.Amount)
		item.Tiers = NewCreatePriceTiers(o.Tiers)
	}
	return item
}

// wireBillingModel translates the console billing model option. SLAB_TIERED
// becomes TIERED with SLAB tiers, TIERED always goes out with VOLUME tiers,
// anything else keeps the override's own tier mode.
func wireBillingModel(o *override.PriceOverride) (types.BillingModel, types.BillingTier) {
	if o.BillingModel == "" {
		return "", o.TierMode
	}
	model, implied := o.BillingModel.ToWire()
	return model, lo.CoalesceOrEmpty(implied, o.TierMode)
}

// NewCreatePriceTiers converts domain tiers to the wire shape, nil when empty
func NewCreatePriceTiers(tiers []price.PriceTier) []CreatePriceTier {
	if len(tiers) == 0 {
		return nil
	}
	return lo.Map(tiers, func(t price.PriceTier, _ int) CreatePriceTier {
		return CreatePriceTier{
			UpTo:       t.UpTo,
			UnitAmount: lo.CoalesceOrEmpty(t.UnitAmount, "0"),
			FlatAmount: lo.CoalesceOrEmpty(t.FlatAmount, "0"),
		}
	})
}

// parseNumber returns nil for empty or unparsable amounts
func parseNumber(s string) *Number {
	if s == "" {
		return nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil
	}
	return NewNumber(d)
}
