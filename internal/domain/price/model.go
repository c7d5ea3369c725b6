package price

import (
	"math"

	"github.com/flexprice/console/internal/types"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// Price is a priced charge line as the billing API returns it.
// Amounts are kept as the decimal strings the API sends so that display
// keeps the backend's precision ex "1.00" stays "1.00".
type Price struct {
	// ID uuid identifier for the price
	ID string `json:"id"`

	// Type is the type of the price ex USAGE, FIXED
	Type types.PriceType `json:"type"`

	// PriceUnitType selects which amount and tier fields are authoritative
	PriceUnitType types.PriceUnitType `json:"price_unit_type"`

	// Currency 3 digit ISO currency code in lowercase ex usd, eur, gbp
	Currency string `json:"currency"`

	// Amount stored in main currency units (e.g., dollars, not cents), FIAT only
	Amount string `json:"amount,omitempty"`

	// Tiers are the tiers for the price when BillingModel is TIERED, FIAT only
	Tiers []PriceTier `json:"tiers,omitempty"`

	// PriceUnitConfig is the custom unit configuration the price was created with
	PriceUnitConfig *PriceUnitConfig `json:"price_unit_config,omitempty"`

	// PriceUnit is the custom unit code ex crd
	PriceUnit string `json:"price_unit,omitempty"`

	// PriceUnitAmount is the amount in the custom unit, CUSTOM only
	PriceUnitAmount string `json:"price_unit_amount,omitempty"`

	// PriceUnitTiers are the tiers in the custom unit, CUSTOM only
	PriceUnitTiers []PriceTier `json:"price_unit_tiers,omitempty"`

	// PriceUnitSymbol is resolved from the price unit registry, the API does not send it
	PriceUnitSymbol string `json:"price_unit_symbol,omitempty"`

	// BillingModel is the billing model for the price ex FLAT_FEE, PACKAGE, TIERED
	BillingModel types.BillingModel `json:"billing_model"`

	// TierMode is the tier mode when BillingModel is TIERED
	TierMode types.BillingTier `json:"tier_mode,omitempty"`

	// TransformQuantity is the quantity transformation in case of PACKAGE billing model
	TransformQuantity *TransformQuantity `json:"transform_quantity,omitempty"`

	// MinQuantity is the default quantity of a FIXED price, 1 when unset
	MinQuantity *decimal.Decimal `json:"min_quantity,omitempty"`

	DisplayName        string              `json:"display_name,omitempty"`
	MeterID            string              `json:"meter_id,omitempty"`
	BillingPeriod      types.BillingPeriod `json:"billing_period,omitempty"`
	BillingPeriodCount int                 `json:"billing_period_count,omitempty"`
	Metadata           map[string]string   `json:"metadata,omitempty"`
}

// PriceUnitConfig holds the custom unit a price was defined in
type PriceUnitConfig struct {
	PriceUnit      string      `json:"price_unit"`
	Amount         string      `json:"amount,omitempty"`
	PriceUnitTiers []PriceTier `json:"price_unit_tiers,omitempty"`
}

// TransformQuantity is the quantity transformation in case of PACKAGE billing model
type TransformQuantity struct {
	DivideBy int    `json:"divide_by,omitempty"` // Divide quantity by this number
	Round    string `json:"round,omitempty"`     // up or down
}

// PriceTier is one tier of a tiered price. Bounds are inclusive, a tier with
// up_to 1000 covers quantities up to and including 1000.
type PriceTier struct {
	// UpTo is the quantity up to which this tier applies. It is null for the last tier
	UpTo *uint64 `json:"up_to"`
	// UnitAmount is the amount per unit for the given tier
	UnitAmount string `json:"unit_amount"`
	// FlatAmount is applied on top of unit_amount * quantity ex 2.7% + 5c
	FlatAmount string `json:"flat_amount,omitempty"`
}

// GetTierUpTo returns the up_to value for the tier and treats null case as MaxUint64.
func (t PriceTier) GetTierUpTo() uint64 {
	if t.UpTo != nil {
		return *t.UpTo
	}
	return math.MaxUint64
}

// IsUsage is true for metered prices whose quantity is derived from usage
func (p *Price) IsUsage() bool {
	return p.Type == types.PRICE_TYPE_USAGE
}

// DefaultQuantity is the quantity a line item gets when nobody overrides it
func (p *Price) DefaultQuantity() decimal.Decimal {
	if p.Type == types.PRICE_TYPE_FIXED && p.MinQuantity != nil {
		return *p.MinQuantity
	}
	return decimal.NewFromInt(1)
}

// GetCurrencySymbol returns the currency symbol for the price
func (p *Price) GetCurrencySymbol() string {
	return types.GetCurrencySymbol(p.Currency)
}

// Pricing returns the unit specific view of the price. It is the only
// place that reads PriceUnitType: FIAT prices get FiatPricing, CUSTOM
// prices get CustomPricing carrying the fiat view as a last resort fallback.
func (p *Price) Pricing() UnitPricing {
	fiat := FiatPricing{
		Currency: p.Currency,
		Amount:   p.Amount,
		Tiers:    nonEmptyTiers(p.Tiers),
	}

	if p.PriceUnitType != types.PRICE_UNIT_TYPE_CUSTOM {
		return fiat
	}

	custom := CustomPricing{
		Symbol: p.PriceUnitSymbol,
		Amount: p.PriceUnitAmount,
		Tiers:  nonEmptyTiers(p.PriceUnitTiers),
		Fiat:   fiat,
	}
	if cfg := p.PriceUnitConfig; cfg != nil {
		custom.Code = cfg.PriceUnit
		custom.Amount = lo.CoalesceOrEmpty(custom.Amount, cfg.Amount)
		if custom.Tiers == nil {
			custom.Tiers = nonEmptyTiers(cfg.PriceUnitTiers)
		}
	}
	custom.Code = lo.CoalesceOrEmpty(custom.Code, p.PriceUnit)
	return custom
}

// UnitPricing is either FiatPricing or CustomPricing
type UnitPricing interface {
	unitPricing()
}

// FiatPricing is a price denominated in a real world currency
type FiatPricing struct {
	Currency string
	Amount   string
	Tiers    []PriceTier
}

// CustomPricing is a price denominated in a tenant defined unit
type CustomPricing struct {
	Code   string
	Symbol string
	Amount string
	Tiers  []PriceTier
	// Fiat is consulted when the custom unit fields are missing
	Fiat FiatPricing
}

func (FiatPricing) unitPricing()   {}
func (CustomPricing) unitPricing() {}

func nonEmptyTiers(tiers []PriceTier) []PriceTier {
	if len(tiers) == 0 {
		return nil
	}
	return tiers
}
