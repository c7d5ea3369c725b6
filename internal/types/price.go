package types

import (
	ierr "github.com/flexprice/console/internal/errors"
	"github.com/samber/lo"
)

// BillingModel is the billing model for the price ex FLAT_FEE, PACKAGE, TIERED
type BillingModel string

// BillingModelOption is the billing model as offered in the console forms.
// It is a superset of BillingModel and never goes on the wire as is,
// use ToWire to translate it.
type BillingModelOption string

// BillingTier when Billing model is TIERED defines how to
// calculate the price for a given quantity
type BillingTier string

type PriceType string

// PriceUnitType tells whether a price is denominated in a fiat currency
// or in a tenant defined custom unit ex credits, tokens
type PriceUnitType string

// BillingPeriod is the billing period for the price ex MONTHLY, ANNUAL
type BillingPeriod string

const (
	PRICE_TYPE_USAGE PriceType = "USAGE"
	PRICE_TYPE_FIXED PriceType = "FIXED"

	PRICE_UNIT_TYPE_FIAT   PriceUnitType = "FIAT"
	PRICE_UNIT_TYPE_CUSTOM PriceUnitType = "CUSTOM"

	// Billing model for a flat fee per unit
	BILLING_MODEL_FLAT_FEE BillingModel = "FLAT_FEE"

	// Billing model for a package of units ex 1000 emails for $100
	BILLING_MODEL_PACKAGE BillingModel = "PACKAGE"

	// Billing model for a tiered pricing model
	// ex 1-100 emails for $100, 101-1000 emails for $90
	BILLING_MODEL_TIERED BillingModel = "TIERED"

	BILLING_MODEL_OPTION_FLAT_FEE BillingModelOption = "FLAT_FEE"
	BILLING_MODEL_OPTION_PACKAGE  BillingModelOption = "PACKAGE"
	BILLING_MODEL_OPTION_TIERED   BillingModelOption = "TIERED"

	// BILLING_MODEL_OPTION_SLAB_TIERED is TIERED with SLAB tier mode,
	// offered as its own choice in the console
	BILLING_MODEL_OPTION_SLAB_TIERED BillingModelOption = "SLAB_TIERED"

	// BILLING_TIER_VOLUME means all units price based on final tier reached.
	BILLING_TIER_VOLUME BillingTier = "VOLUME"

	// BILLING_TIER_SLAB means Tiers apply progressively as quantity increases
	BILLING_TIER_SLAB BillingTier = "SLAB"

	BILLING_PERIOD_MONTHLY   BillingPeriod = "MONTHLY"
	BILLING_PERIOD_ANNUAL    BillingPeriod = "ANNUAL"
	BILLING_PERIOD_WEEKLY    BillingPeriod = "WEEKLY"
	BILLING_PERIOD_DAILY     BillingPeriod = "DAILY"
	BILLING_PERIOD_QUARTER   BillingPeriod = "QUARTERLY"
	BILLING_PERIOD_HALF_YEAR BillingPeriod = "HALF_YEARLY"

	// ROUND_UP rounds to the ceiling value ex 1.99 -> 2.00
	ROUND_UP = "up"
	// ROUND_DOWN rounds to the floor value ex 1.99 -> 1.00
	ROUND_DOWN = "down"
)

func (p PriceType) Validate() error {
	allowed := []PriceType{PRICE_TYPE_USAGE, PRICE_TYPE_FIXED}
	if !lo.Contains(allowed, p) {
		return ierr.NewError("invalid price type").
			WithHint("Price type must be USAGE or FIXED").
			WithReportableDetails(map[string]any{
				"type": p,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

func (b BillingModel) Validate() error {
	allowed := []BillingModel{BILLING_MODEL_FLAT_FEE, BILLING_MODEL_PACKAGE, BILLING_MODEL_TIERED}
	if !lo.Contains(allowed, b) {
		return ierr.NewError("invalid billing model").
			WithHint("Billing model must be FLAT_FEE, PACKAGE or TIERED").
			WithReportableDetails(map[string]any{
				"billing_model": b,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

func (b BillingModelOption) Validate() error {
	allowed := []BillingModelOption{
		BILLING_MODEL_OPTION_FLAT_FEE,
		BILLING_MODEL_OPTION_PACKAGE,
		BILLING_MODEL_OPTION_TIERED,
		BILLING_MODEL_OPTION_SLAB_TIERED,
	}
	if !lo.Contains(allowed, b) {
		return ierr.NewError("invalid billing model").
			WithHint("Billing model must be FLAT_FEE, PACKAGE, TIERED or SLAB_TIERED").
			WithReportableDetails(map[string]any{
				"billing_model": b,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// ToWire translates the console option into the billing model the API accepts.
// The returned tier mode is empty when the option does not imply one:
// SLAB_TIERED implies SLAB and plain TIERED implies VOLUME.
func (b BillingModelOption) ToWire() (BillingModel, BillingTier) {
	switch b {
	case BILLING_MODEL_OPTION_SLAB_TIERED:
		return BILLING_MODEL_TIERED, BILLING_TIER_SLAB
	case BILLING_MODEL_OPTION_TIERED:
		return BILLING_MODEL_TIERED, BILLING_TIER_VOLUME
	default:
		return BillingModel(b), ""
	}
}

// IsTiered returns true for both tiered options
func (b BillingModelOption) IsTiered() bool {
	return b == BILLING_MODEL_OPTION_TIERED || b == BILLING_MODEL_OPTION_SLAB_TIERED
}

// Option lifts a wire billing model into the console option space
func (b BillingModel) Option() BillingModelOption {
	return BillingModelOption(b)
}

func (t BillingTier) Validate() error {
	allowed := []BillingTier{BILLING_TIER_VOLUME, BILLING_TIER_SLAB}
	if !lo.Contains(allowed, t) {
		return ierr.NewError("invalid tier mode").
			WithHint("Tier mode must be VOLUME or SLAB").
			WithReportableDetails(map[string]any{
				"tier_mode": t,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}
