package override

import (
	"github.com/flexprice/console/internal/domain/price"
	"github.com/flexprice/console/internal/types"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// Field names an overridable property of a price
type Field string

const (
	FieldAmount            Field = "amount"
	FieldPriceUnitAmount   Field = "price_unit_amount"
	FieldQuantity          Field = "quantity"
	FieldBillingModel      Field = "billing_model"
	FieldTierMode          Field = "tier_mode"
	FieldTiers             Field = "tiers"
	FieldPriceUnitTiers    Field = "price_unit_tiers"
	FieldTransformQuantity Field = "transform_quantity"
	FieldEffectiveFrom     Field = "effective_from"
	FieldCommitment        Field = "commitment"
)

// Fields lists every overridable field
var Fields = []Field{
	FieldAmount,
	FieldPriceUnitAmount,
	FieldQuantity,
	FieldBillingModel,
	FieldTierMode,
	FieldTiers,
	FieldPriceUnitTiers,
	FieldTransformQuantity,
	FieldEffectiveFrom,
	FieldCommitment,
}

// Diff compares two normalized displays field by field. The result is in
// a fixed order: amount, tiers, billing_model, tier_mode, transform_quantity.
func Diff(original, effective NormalizedDisplay) []Field {
	var changed []Field
	if !decimalEqual(original.Amount, effective.Amount) {
		changed = append(changed, FieldAmount)
	}
	if !tiersEqual(original.Tiers, effective.Tiers) {
		changed = append(changed, FieldTiers)
	}

	origModel, origMode := canonicalModel(original)
	effModel, effMode := canonicalModel(effective)
	if origModel != effModel {
		changed = append(changed, FieldBillingModel)
	}
	if origMode != effMode {
		changed = append(changed, FieldTierMode)
	}

	if !transformEqual(original.TransformQuantity, effective.TransformQuantity) {
		changed = append(changed, FieldTransformQuantity)
	}
	return changed
}

// Changes is the full list of fields the override changes on the price,
// including the ones that are not part of the display
func Changes(p *price.Price, o *PriceOverride) []Field {
	if p == nil || o == nil {
		return nil
	}
	changed := Diff(Normalize(p, nil), Normalize(p, o))
	if o.Quantity != nil && !p.IsUsage() && !o.Quantity.Equal(p.DefaultQuantity()) {
		changed = append(changed, FieldQuantity)
	}
	if o.EffectiveFrom != "" {
		changed = append(changed, FieldEffectiveFrom)
	}
	if o.Commitment != nil {
		changed = append(changed, FieldCommitment)
	}
	return changed
}

// HasChanges reports whether applying the override changes anything on the price
func HasChanges(p *price.Price, o *PriceOverride) bool {
	return len(Changes(p, o)) > 0
}

// Compact clears the fields of the override that do not change the price,
// including fields of the wrong unit kind and quantity on usage prices.
// The override may be empty afterwards.
func (o *PriceOverride) Compact(p *price.Price) {
	if o == nil || p == nil {
		return
	}
	original := Normalize(p, nil)
	effective := Normalize(p, o)

	if _, custom := p.Pricing().(price.CustomPricing); custom {
		o.Amount, o.Tiers = "", nil
	} else {
		o.PriceUnitAmount, o.PriceUnitTiers = "", nil
	}
	if decimalEqual(original.Amount, effective.Amount) {
		o.Amount, o.PriceUnitAmount = "", ""
	}
	if tiersEqual(original.Tiers, effective.Tiers) {
		o.Tiers, o.PriceUnitTiers = nil, nil
	}

	origModel, origMode := wireModel(p, nil)
	effModel, effMode := wireModel(p, o)
	if origModel == effModel && origMode == effMode {
		o.BillingModel, o.TierMode = "", ""
	}

	if transformEqual(original.TransformQuantity, effective.TransformQuantity) {
		o.TransformQuantity = nil
	}
	if o.Quantity != nil && (p.IsUsage() || o.Quantity.Equal(p.DefaultQuantity())) {
		o.Quantity = nil
	}
}

// canonicalModel folds the console options onto what the billing API
// stores. Tier mode only matters for tiered prices.
func canonicalModel(n NormalizedDisplay) (types.BillingModel, types.BillingTier) {
	model, implied := n.BillingModel.ToWire()
	if model != types.BILLING_MODEL_TIERED {
		return model, ""
	}
	if n.BillingModel == types.BILLING_MODEL_OPTION_SLAB_TIERED || n.TierMode == "" {
		return model, implied
	}
	return model, n.TierMode
}

// wireModel is the billing model and tier mode the billing API ends up with
// once the override is sent. Tier mode only matters for tiered prices and
// defaults to VOLUME there.
func wireModel(p *price.Price, o *PriceOverride) (types.BillingModel, types.BillingTier) {
	model, mode := p.BillingModel, p.TierMode
	if o != nil {
		if o.BillingModel != "" {
			var implied types.BillingTier
			model, implied = o.BillingModel.ToWire()
			mode = lo.CoalesceOrEmpty(implied, o.TierMode, mode)
		} else if o.TierMode != "" {
			mode = o.TierMode
		}
	}
	if model != types.BILLING_MODEL_TIERED {
		return model, ""
	}
	return model, lo.CoalesceOrEmpty(mode, types.BILLING_TIER_VOLUME)
}

func decimalEqual(a, b string) bool {
	da, errA := parseAmount(a)
	db, errB := parseAmount(b)
	if errA != nil || errB != nil {
		return a == b
	}
	return da.Equal(db)
}

// parseAmount treats an empty amount as zero
func parseAmount(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}

func tiersEqual(a, b []price.PriceTier) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].GetTierUpTo() != b[i].GetTierUpTo() {
			return false
		}
		if !decimalEqual(a[i].UnitAmount, b[i].UnitAmount) || !decimalEqual(a[i].FlatAmount, b[i].FlatAmount) {
			return false
		}
	}
	return true
}

func transformEqual(a, b *price.TransformQuantity) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.DivideBy == b.DivideBy && a.Round == b.Round
}
