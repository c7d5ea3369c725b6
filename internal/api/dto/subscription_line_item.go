package dto

import (
	"time"

	"github.com/flexprice/console/internal/domain/override"
	"github.com/flexprice/console/internal/domain/price"
	"github.com/flexprice/console/internal/types"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// UpdateSubscriptionLineItemRequest changes the price of an existing line item
// of a subscription, optionally from a future date
type UpdateSubscriptionLineItemRequest struct {
	// EffectiveFrom for the existing line item (if not provided, defaults to now)
	EffectiveFrom *time.Time `json:"effective_from,omitempty"`

	BillingModel types.BillingModel `json:"billing_model,omitempty"`

	// Amount is the new price amount that overrides the original price
	Amount *Number `json:"amount,omitempty"`

	// Quantity for fixed prices
	Quantity *Number `json:"quantity,omitempty"`

	// TierMode determines how to calculate the price for a given quantity
	TierMode types.BillingTier `json:"tier_mode,omitempty"`

	// Tiers determines the pricing tiers for this line item
	Tiers []CreatePriceTier `json:"tiers,omitempty"`

	PriceUnitAmount string            `json:"price_unit_amount,omitempty"`
	PriceUnitTiers  []CreatePriceTier `json:"price_unit_tiers,omitempty"`

	// TransformQuantity determines how to transform the quantity for this line item
	TransformQuantity *price.TransformQuantity `json:"transform_quantity,omitempty"`

	// Metadata for the new line item
	Metadata map[string]string `json:"metadata,omitempty"`

	// Commitment fields
	CommitmentAmount        *decimal.Decimal     `json:"commitment_amount,omitempty"`
	CommitmentQuantity      *decimal.Decimal     `json:"commitment_quantity,omitempty"`
	CommitmentType          types.CommitmentType `json:"commitment_type,omitempty"`
	CommitmentOverageFactor *decimal.Decimal     `json:"commitment_overage_factor,omitempty"`
	CommitmentTrueUpEnabled *bool                `json:"commitment_true_up_enabled,omitempty"`
	CommitmentWindowed      *bool                `json:"commitment_windowed,omitempty"`
}

// HasCommitment returns true if the request has commitment configured
func (r *UpdateSubscriptionLineItemRequest) HasCommitment() bool {
	hasAmountCommitment := r.CommitmentAmount != nil && r.CommitmentAmount.GreaterThan(decimal.Zero)
	hasQuantityCommitment := r.CommitmentQuantity != nil && r.CommitmentQuantity.GreaterThan(decimal.Zero)
	return hasAmountCommitment || hasQuantityCommitment
}

// NewUpdateLineItemRequest builds the line item update for an override of p.
// Price fields follow the same rules as NewOverrideLineItem.
func NewUpdateLineItemRequest(p *price.Price, o *override.PriceOverride) (*UpdateSubscriptionLineItemRequest, error) {
	item := NewOverrideLineItem(p, o)
	req := &UpdateSubscriptionLineItemRequest{
		BillingModel:      item.BillingModel,
		Amount:            item.Amount,
		Quantity:          item.Quantity,
		TierMode:          item.TierMode,
		Tiers:             item.Tiers,
		PriceUnitAmount:   item.PriceUnitAmount,
		PriceUnitTiers:    item.PriceUnitTiers,
		TransformQuantity: item.TransformQuantity,
	}

	if o.EffectiveFrom != "" {
		effectiveFrom, err := types.ParseEffectiveDate(o.EffectiveFrom)
		if err != nil {
			return nil, err
		}
		req.EffectiveFrom = &effectiveFrom
	}

	if c := o.Commitment; c != nil {
		req.CommitmentType = c.ResolvedType()
		req.CommitmentAmount = c.Amount
		req.CommitmentQuantity = c.Quantity
		req.CommitmentOverageFactor = c.OverageFactor
		req.CommitmentTrueUpEnabled = lo.ToPtr(c.TrueUpEnabled)
		req.CommitmentWindowed = lo.ToPtr(c.Windowed)
	}
	return req, nil
}

// SubscriptionLineItemResponse is the subset of the billing API's line item the console reads back
type SubscriptionLineItemResponse struct {
	ID             string            `json:"id"`
	SubscriptionID string            `json:"subscription_id"`
	PriceID        string            `json:"price_id"`
	PriceType      types.PriceType   `json:"price_type,omitempty"`
	DisplayName    string            `json:"display_name,omitempty"`
	Quantity       decimal.Decimal   `json:"quantity"`
	Currency       string            `json:"currency,omitempty"`
	StartDate      *time.Time        `json:"start_date,omitempty"`
	EndDate        *time.Time        `json:"end_date,omitempty"`
	Metadata       map[string]string `json:"metadata,omitempty"`
	Status         types.Status      `json:"status,omitempty"`
}
