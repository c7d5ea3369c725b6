package dto

import (
	"strings"
	"time"

	"github.com/flexprice/console/internal/domain/draft"
	"github.com/flexprice/console/internal/domain/override"
	"github.com/flexprice/console/internal/domain/price"
	ierr "github.com/flexprice/console/internal/errors"
	"github.com/flexprice/console/internal/types"
	"github.com/flexprice/console/internal/validator"
	"github.com/samber/lo"
)

// CreateDraftRequest opens a draft for a console form
type CreateDraftRequest struct {
	EntityType types.DraftEntityType `json:"entity_type" validate:"required"`

	// PriceIDs are the prices the form lets the user override
	PriceIDs []string `json:"price_ids" validate:"required,min=1,dive,required"`

	// Subscription is required for SUBSCRIPTION drafts
	Subscription *SubscriptionDraftRequest `json:"subscription,omitempty"`

	// SubscriptionID and LineItems are required for SUBSCRIPTION_LINE_ITEM drafts,
	// LineItems maps each price id to the line item it is billed on
	SubscriptionID string            `json:"subscription_id,omitempty"`
	LineItems      map[string]string `json:"line_items,omitempty"`
}

// SubscriptionDraftRequest holds the create subscription form fields
type SubscriptionDraftRequest struct {
	CustomerID         string              `json:"customer_id" validate:"required"`
	PlanID             string              `json:"plan_id" validate:"required"`
	Currency           string              `json:"currency" validate:"required,len=3"`
	LookupKey          string              `json:"lookup_key,omitempty"`
	BillingPeriod      types.BillingPeriod `json:"billing_period,omitempty"`
	BillingPeriodCount int                 `json:"billing_period_count,omitempty" validate:"gte=0"`
	StartDate          *time.Time          `json:"start_date,omitempty"`
	EndDate            *time.Time          `json:"end_date,omitempty"`
}

func (r *CreateDraftRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}
	if err := r.EntityType.Validate(); err != nil {
		return err
	}

	switch r.EntityType {
	case types.DraftEntityTypeSubscription:
		if r.Subscription == nil {
			return ierr.NewError("subscription is required").
				WithHint("Subscription details are required for a subscription draft").
				Mark(ierr.ErrValidation)
		}
		s := r.Subscription
		if s.StartDate != nil && s.EndDate != nil && s.StartDate.After(*s.EndDate) {
			return ierr.NewError("start_date cannot be after end_date").
				WithHint("Start date cannot be after end date").
				Mark(ierr.ErrValidation)
		}
	case types.DraftEntityTypeSubscriptionLineItem:
		if r.SubscriptionID == "" {
			return ierr.NewError("subscription_id is required").
				WithHint("Subscription ID is required for a line item draft").
				Mark(ierr.ErrValidation)
		}
		missing := lo.Filter(r.PriceIDs, func(id string, _ int) bool {
			return r.LineItems[id] == ""
		})
		if len(missing) > 0 {
			return ierr.NewError("line item is required for every price").
				WithHint("Every price of a line item draft must reference its line item").
				WithReportableDetails(map[string]any{
					"price_ids": missing,
				}).
				Mark(ierr.ErrValidation)
		}
	}
	return nil
}

// ToDraft builds an empty draft, tenant and timestamps are set by the service
func (r *CreateDraftRequest) ToDraft() *draft.Draft {
	d := &draft.Draft{
		ID:         types.GenerateUUIDWithPrefix(types.UUID_PREFIX_DRAFT),
		Reference:  types.GenerateShortIDWithPrefix(types.SHORT_ID_PREFIX_DRAFT),
		EntityType: r.EntityType,
		PriceIDs:   lo.Uniq(r.PriceIDs),
		Overrides:  override.NewSet(),
	}
	switch r.EntityType {
	case types.DraftEntityTypeSubscription:
		s := r.Subscription
		d.Subscription = &draft.SubscriptionDraft{
			CustomerID:         s.CustomerID,
			PlanID:             s.PlanID,
			Currency:           strings.ToLower(s.Currency),
			LookupKey:          s.LookupKey,
			BillingPeriod:      s.BillingPeriod,
			BillingPeriodCount: s.BillingPeriodCount,
			StartDate:          s.StartDate,
			EndDate:            s.EndDate,
		}
	case types.DraftEntityTypeSubscriptionLineItem:
		d.SubscriptionID = r.SubscriptionID
		d.LineItems = lo.PickByKeys(r.LineItems, d.PriceIDs)
	}
	return d
}

// DraftResponse is a draft with every price rendered against its override
type DraftResponse struct {
	ID             string                    `json:"id"`
	Reference      string                    `json:"reference"`
	EntityType     types.DraftEntityType     `json:"entity_type"`
	Subscription   *draft.SubscriptionDraft  `json:"subscription,omitempty"`
	SubscriptionID string                    `json:"subscription_id,omitempty"`
	LineItems      map[string]string         `json:"line_items,omitempty"`
	Prices         []*PricePreview           `json:"prices"`
	Overrides      *override.Set             `json:"overrides"`
	CreditGrants   []*draft.CreditGrantDraft `json:"credit_grants"`
	Addons         []*draft.AddonDraft       `json:"addons"`
	Coupons        []*draft.CouponDraft      `json:"coupons"`
	HasChanges     bool                      `json:"has_changes"`
	CreatedBy      string                    `json:"created_by"`
	CreatedAt      time.Time                 `json:"created_at"`
	UpdatedAt      time.Time                 `json:"updated_at"`
	ExpiresAt      time.Time                 `json:"expires_at"`
}

// NewDraftResponse renders the draft, prices are expected in draft order
func NewDraftResponse(d *draft.Draft, prices []*price.Price) *DraftResponse {
	previews := NewPricePreviews(prices, d.Overrides)
	return &DraftResponse{
		ID:             d.ID,
		Reference:      d.Reference,
		EntityType:     d.EntityType,
		Subscription:   d.Subscription,
		SubscriptionID: d.SubscriptionID,
		LineItems:      d.LineItems,
		Prices:         previews,
		Overrides:      d.Overrides,
		CreditGrants:   lo.Ternary(d.CreditGrants == nil, []*draft.CreditGrantDraft{}, d.CreditGrants),
		Addons:         lo.Ternary(d.Addons == nil, []*draft.AddonDraft{}, d.Addons),
		Coupons:        lo.Ternary(d.Coupons == nil, []*draft.CouponDraft{}, d.Coupons),
		HasChanges: len(d.CreditGrants) > 0 || len(d.Addons) > 0 || len(d.Coupons) > 0 ||
			lo.SomeBy(previews, func(p *PricePreview) bool { return p.HasChanges }),
		CreatedBy: d.CreatedBy,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
		ExpiresAt: d.ExpiresAt,
	}
}

// LineItemUpdate is one line item update a SUBSCRIPTION_LINE_ITEM draft submits
type LineItemUpdate struct {
	LineItemID string                             `json:"line_item_id"`
	PriceID    string                             `json:"price_id"`
	Request    *UpdateSubscriptionLineItemRequest `json:"request"`
}

// LineItemOverridesResponse is exactly what submitting the draft would send
type LineItemOverridesResponse struct {
	DraftID    string                `json:"draft_id"`
	EntityType types.DraftEntityType `json:"entity_type"`

	// OverrideLineItems is set for SUBSCRIPTION drafts
	OverrideLineItems []OverrideLineItemRequest `json:"override_line_items,omitempty"`

	// LineItemUpdates is set for SUBSCRIPTION_LINE_ITEM drafts
	LineItemUpdates []LineItemUpdate `json:"line_item_updates,omitempty"`
}

// SubmitDraftRequest submits a draft. With DryRun the payload is built and
// returned without calling the billing API.
type SubmitDraftRequest struct {
	DryRun bool `json:"dry_run,omitempty"`
}

// SubmitDraftResponse reports the outcome of a submit
type SubmitDraftResponse struct {
	DraftID string                 `json:"draft_id"`
	Status  types.SubmissionStatus `json:"status"`
	DryRun  bool                   `json:"dry_run,omitempty"`

	// Subscription is the created subscription of a SUBSCRIPTION draft
	Subscription *SubscriptionResponse `json:"subscription,omitempty"`

	// LineItems are the updated line items of a SUBSCRIPTION_LINE_ITEM draft
	LineItems []*SubscriptionLineItemResponse `json:"line_items,omitempty"`

	// Payload is the dry run request
	Payload *LineItemOverridesResponse `json:"payload,omitempty"`
	// CreateSubscription is the dry run subscription create request
	CreateSubscription *CreateSubscriptionRequest `json:"create_subscription,omitempty"`
}
