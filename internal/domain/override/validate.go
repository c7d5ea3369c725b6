package override

import (
	"fmt"

	"github.com/flexprice/console/internal/domain/price"
	ierr "github.com/flexprice/console/internal/errors"
	"github.com/flexprice/console/internal/types"
	"github.com/shopspring/decimal"
)

// Validate checks the override against the price it applies to and
// returns the first problem found as a validation error
func (o *PriceOverride) Validate(p *price.Price) error {
	if o == nil {
		return nil
	}
	if p == nil {
		return ierr.NewError("price not found").
			WithHint("The price being overridden could not be found").
			WithReportableDetails(map[string]any{
				"price_id": o.PriceID,
			}).
			Mark(ierr.ErrNotFound)
	}

	if err := validateAmount(string(FieldAmount), o.Amount); err != nil {
		return err
	}
	if err := validateAmount(string(FieldPriceUnitAmount), o.PriceUnitAmount); err != nil {
		return err
	}

	if o.Quantity != nil && !o.Quantity.IsPositive() {
		return ierr.NewError("quantity must be positive").
			WithHint("Quantity must be greater than zero").
			WithReportableDetails(map[string]any{
				"quantity": o.Quantity.String(),
			}).
			Mark(ierr.ErrValidation)
	}

	if o.BillingModel != "" {
		if err := o.BillingModel.Validate(); err != nil {
			return err
		}
	}
	if o.TierMode != "" {
		if err := o.TierMode.Validate(); err != nil {
			return err
		}
	}

	if err := ValidateTiers(string(FieldTiers), o.Tiers); err != nil {
		return err
	}
	if err := ValidateTiers(string(FieldPriceUnitTiers), o.PriceUnitTiers); err != nil {
		return err
	}

	if err := validateTransformQuantity(o.TransformQuantity); err != nil {
		return err
	}

	if o.EffectiveFrom != "" {
		if _, err := types.ParseEffectiveDate(o.EffectiveFrom); err != nil {
			return err
		}
	}

	if o.Commitment != nil {
		if !p.IsUsage() {
			return ierr.NewError("commitment is only supported on usage prices").
				WithHint("Commitments can only be configured on usage based prices").
				WithReportableDetails(map[string]any{
					"price_id": p.ID,
					"type":     p.Type,
				}).
				Mark(ierr.ErrValidation)
		}
		if err := o.Commitment.Validate(); err != nil {
			return err
		}
	}

	// the result of applying the override must still be a complete price
	n := Normalize(p, o)
	if n.BillingModel.IsTiered() && len(n.Tiers) == 0 {
		return ierr.NewError("tiers are required when billing model is TIERED").
			WithHint("Add at least one tier for a tiered price").
			WithReportableDetails(map[string]any{
				"billing_model": n.BillingModel,
			}).
			Mark(ierr.ErrValidation)
	}
	if n.BillingModel == types.BILLING_MODEL_OPTION_PACKAGE &&
		(n.TransformQuantity == nil || n.TransformQuantity.DivideBy <= 0) {
		return ierr.NewError("transform_quantity is required when billing model is PACKAGE").
			WithHint("Package prices need a package size").
			Mark(ierr.ErrValidation)
	}
	return nil
}

func validateAmount(field, amount string) error {
	if amount == "" {
		return nil
	}
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return ierr.WithError(err).
			WithHintf("%s must be a valid decimal number", field).
			WithReportableDetails(map[string]any{
				field: amount,
			}).
			Mark(ierr.ErrValidation)
	}
	if d.IsNegative() {
		return ierr.NewErrorf("%s must be non-negative", field).
			WithHintf("%s cannot be negative", field).
			WithReportableDetails(map[string]any{
				field: amount,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// ValidateTiers checks that tier ranges are consistent. Bounds are inclusive
// so a tier starts right after the previous tier's up_to, and only the last
// tier may be unbounded.
func ValidateTiers(field string, tiers []price.PriceTier) error {
	var from uint64
	for i, tier := range tiers {
		if err := validateAmount(fmt.Sprintf("%s[%d].unit_amount", field, i), tier.UnitAmount); err != nil {
			return err
		}
		if err := validateAmount(fmt.Sprintf("%s[%d].flat_amount", field, i), tier.FlatAmount); err != nil {
			return err
		}

		if tier.UpTo == nil {
			if i != len(tiers)-1 {
				return ierr.NewError("only the last tier can be unbounded").
					WithHint("Only the last tier can have an empty up to value").
					WithReportableDetails(map[string]any{
						"field": field,
						"tier":  i,
					}).
					Mark(ierr.ErrValidation)
			}
			continue
		}

		if *tier.UpTo < from {
			return ierr.NewError("tier ranges must be increasing").
				WithHintf("Tier %d must end at or after %d", i+1, from).
				WithReportableDetails(map[string]any{
					"field": field,
					"tier":  i,
					"from":  from,
					"up_to": *tier.UpTo,
				}).
				Mark(ierr.ErrValidation)
		}
		from = *tier.UpTo + 1
	}
	return nil
}

func validateTransformQuantity(tq *price.TransformQuantity) error {
	if tq == nil {
		return nil
	}
	if tq.DivideBy <= 0 {
		return ierr.NewError("divide_by must be greater than 0").
			WithHint("Package size must be greater than zero").
			WithReportableDetails(map[string]any{
				"divide_by": tq.DivideBy,
			}).
			Mark(ierr.ErrValidation)
	}
	if tq.Round != "" && tq.Round != types.ROUND_UP && tq.Round != types.ROUND_DOWN {
		return ierr.NewError("invalid rounding type").
			WithHint("Round must be up or down").
			WithReportableDetails(map[string]any{
				"round": tq.Round,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// Validate checks the commitment the same way the billing API does
func (c *Commitment) Validate() error {
	hasAmount := c.Amount != nil && c.Amount.GreaterThan(decimal.Zero)
	hasQuantity := c.Quantity != nil && c.Quantity.GreaterThan(decimal.Zero)

	if hasAmount && hasQuantity {
		return ierr.NewError("cannot set both commitment amount and quantity").
			WithHint("Specify either a commitment amount or a commitment quantity, not both").
			Mark(ierr.ErrValidation)
	}
	if !hasAmount && !hasQuantity {
		return ierr.NewError("commitment amount or quantity is required").
			WithHint("Specify a commitment amount or a commitment quantity").
			Mark(ierr.ErrValidation)
	}

	if c.Type != "" && !c.Type.Validate() {
		return ierr.NewError("invalid commitment type").
			WithHint("Commitment type must be either 'amount' or 'quantity'").
			WithReportableDetails(map[string]any{
				"type": c.Type,
			}).
			Mark(ierr.ErrValidation)
	}
	if hasAmount && c.Type != "" && c.Type != types.COMMITMENT_TYPE_AMOUNT {
		return ierr.NewError("commitment type mismatch").
			WithHint("When a commitment amount is set, commitment type must be 'amount'").
			Mark(ierr.ErrValidation)
	}
	if hasQuantity && c.Type != "" && c.Type != types.COMMITMENT_TYPE_QUANTITY {
		return ierr.NewError("commitment type mismatch").
			WithHint("When a commitment quantity is set, commitment type must be 'quantity'").
			Mark(ierr.ErrValidation)
	}

	if c.OverageFactor == nil || c.OverageFactor.LessThanOrEqual(decimal.NewFromInt(1)) {
		return ierr.NewError("commitment overage factor must be greater than 1.0").
			WithHint("Overage factor determines the multiplier for usage beyond commitment").
			Mark(ierr.ErrValidation)
	}
	return nil
}

// ResolvedType returns the commitment type, derived from the field that is set when empty
func (c *Commitment) ResolvedType() types.CommitmentType {
	if c.Type != "" {
		return c.Type
	}
	if c.Quantity != nil && c.Quantity.GreaterThan(decimal.Zero) {
		return types.COMMITMENT_TYPE_QUANTITY
	}
	return types.COMMITMENT_TYPE_AMOUNT
}
