package dto

import (
	"github.com/flexprice/console/internal/domain/override"
	"github.com/flexprice/console/internal/domain/price"
	ierr "github.com/flexprice/console/internal/errors"
	"github.com/flexprice/console/internal/types"
	"github.com/flexprice/console/internal/validator"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// ListPricesResponse is the billing API's price list
type ListPricesResponse = types.ListResponse[*price.Price]

// PriceOverrideRequest is an override as the console forms send it
type PriceOverrideRequest struct {
	Amount            string                   `json:"amount,omitempty"`
	PriceUnitAmount   string                   `json:"price_unit_amount,omitempty"`
	Quantity          *decimal.Decimal         `json:"quantity,omitempty"`
	BillingModel      types.BillingModelOption `json:"billing_model,omitempty"`
	TierMode          types.BillingTier        `json:"tier_mode,omitempty"`
	Tiers             []price.PriceTier        `json:"tiers,omitempty"`
	PriceUnitTiers    []price.PriceTier        `json:"price_unit_tiers,omitempty"`
	TransformQuantity *price.TransformQuantity `json:"transform_quantity,omitempty"`
	EffectiveFrom     string                   `json:"effective_from,omitempty"`
	Commitment        *override.Commitment     `json:"commitment,omitempty"`
}

// ToPriceOverride returns the override of the given price
func (r *PriceOverrideRequest) ToPriceOverride(priceID string) *override.PriceOverride {
	return &override.PriceOverride{
		PriceID:           priceID,
		Amount:            r.Amount,
		PriceUnitAmount:   r.PriceUnitAmount,
		Quantity:          r.Quantity,
		BillingModel:      r.BillingModel,
		TierMode:          r.TierMode,
		Tiers:             r.Tiers,
		PriceUnitTiers:    r.PriceUnitTiers,
		TransformQuantity: r.TransformQuantity,
		EffectiveFrom:     r.EffectiveFrom,
		Commitment:        r.Commitment,
	}
}

// SetPriceOverrideRequest patches the override of one price in a draft.
// Fields that are set replace the stored ones, Clear unsets stored fields
// before the patch is applied.
type SetPriceOverrideRequest struct {
	PriceOverrideRequest
	Clear []override.Field `json:"clear,omitempty"`
}

func (r *SetPriceOverrideRequest) Validate() error {
	for _, f := range r.Clear {
		if !lo.Contains(override.Fields, f) {
			return ierr.NewError("invalid field to clear").
				WithHintf("%s is not an overridable field", f).
				WithReportableDetails(map[string]any{
					"clear":   f,
					"allowed": override.Fields,
				}).
				Mark(ierr.ErrValidation)
		}
	}
	return nil
}

// PreviewOverrideRequest is an override keyed by the price it applies to
type PreviewOverrideRequest struct {
	PriceID string `json:"price_id" validate:"required"`
	PriceOverrideRequest
}

// PreviewPriceRequest asks how prices read with the given overrides applied.
// Prices are either loaded by id or sent inline.
type PreviewPriceRequest struct {
	PriceIDs  []string                 `json:"price_ids,omitempty"`
	Prices    []*price.Price           `json:"prices,omitempty"`
	Overrides []PreviewOverrideRequest `json:"overrides,omitempty" validate:"dive"`
}

func (r *PreviewPriceRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}
	if len(r.PriceIDs) == 0 && len(r.Prices) == 0 {
		return ierr.NewError("price_ids or prices are required").
			WithHint("Please provide at least one price to preview").
			Mark(ierr.ErrValidation)
	}
	for _, p := range r.Prices {
		if p == nil || p.ID == "" {
			return ierr.NewError("price id is required").
				WithHint("Every inline price needs an id").
				Mark(ierr.ErrValidation)
		}
	}
	return nil
}

// OverrideSet returns the overrides in request order, empty ones pruned
func (r *PreviewPriceRequest) OverrideSet() *override.Set {
	set := override.NewSet()
	for i := range r.Overrides {
		set.Put(r.Overrides[i].ToPriceOverride(r.Overrides[i].PriceID))
	}
	return set
}

// PricePreview is a price as the console shows it, before and after the override
type PricePreview struct {
	PriceID            string                     `json:"price_id"`
	DisplayName        string                     `json:"display_name,omitempty"`
	Type               types.PriceType            `json:"type"`
	PriceUnitType      types.PriceUnitType        `json:"price_unit_type"`
	Original           override.NormalizedDisplay `json:"original"`
	Effective          override.NormalizedDisplay `json:"effective"`
	OriginalFormatted  string                     `json:"original_formatted"`
	EffectiveFormatted string                     `json:"effective_formatted"`
	ChangedFields      []override.Field           `json:"changed_fields"`
	HasChanges         bool                       `json:"has_changes"`
	Override           *override.PriceOverride    `json:"override,omitempty"`
	LineItem           *OverrideLineItemRequest   `json:"line_item,omitempty"`
}

// NewPricePreview renders p with the override o, which may be nil
func NewPricePreview(p *price.Price, o *override.PriceOverride) *PricePreview {
	original := override.Normalize(p, nil)
	effective := override.Normalize(p, o)
	changed := override.Changes(p, o)

	preview := &PricePreview{
		PriceID:            p.ID,
		DisplayName:        p.DisplayName,
		Type:               p.Type,
		PriceUnitType:      p.PriceUnitType,
		Original:           original,
		Effective:          effective,
		OriginalFormatted:  override.Format(original),
		EffectiveFormatted: override.Format(effective),
		ChangedFields:      lo.Ternary(changed == nil, []override.Field{}, changed),
		HasChanges:         len(changed) > 0,
		Override:           o,
	}
	if o.HasPriceChanges() {
		preview.LineItem = lo.ToPtr(NewOverrideLineItem(p, o))
	}
	return preview
}

// NewPricePreviews renders every price with its override from the set, in price order
func NewPricePreviews(prices []*price.Price, overrides *override.Set) []*PricePreview {
	previews := make([]*PricePreview, 0, len(prices))
	for _, p := range prices {
		o, _ := overrides.Get(p.ID)
		previews = append(previews, NewPricePreview(p, o))
	}
	return previews
}

// PricePreviewResponse lists the previews in the order the prices were requested
type PricePreviewResponse struct {
	Items []*PricePreview `json:"items"`

	// OverrideLineItems is what a subscription create would send for these overrides
	OverrideLineItems []OverrideLineItemRequest `json:"override_line_items"`
}
