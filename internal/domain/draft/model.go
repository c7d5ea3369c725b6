package draft

import (
	"time"

	"github.com/flexprice/console/internal/domain/override"
	"github.com/flexprice/console/internal/types"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// Draft is the in-progress state of one open console form. It collects
// sparse edits until the form is submitted or discarded and is never
// sent to the billing API on its own.
type Draft struct {
	ID            string                `json:"id"`
	Reference     string                `json:"reference"`
	TenantID      string                `json:"tenant_id"`
	EnvironmentID string                `json:"environment_id"`
	EntityType    types.DraftEntityType `json:"entity_type"`

	// Subscription holds the create form fields, SUBSCRIPTION drafts only
	Subscription *SubscriptionDraft `json:"subscription,omitempty"`

	// SubscriptionID is the subscription being edited, SUBSCRIPTION_LINE_ITEM drafts only
	SubscriptionID string `json:"subscription_id,omitempty"`

	// LineItems maps price ids to the line items they are billed on,
	// SUBSCRIPTION_LINE_ITEM drafts only
	LineItems map[string]string `json:"line_items,omitempty"`

	// PriceIDs are the prices the form can override, in display order
	PriceIDs []string `json:"price_ids"`

	Overrides    *override.Set       `json:"overrides"`
	CreditGrants []*CreditGrantDraft `json:"credit_grants,omitempty"`
	Addons       []*AddonDraft       `json:"addons,omitempty"`
	Coupons      []*CouponDraft      `json:"coupons,omitempty"`

	CreatedBy string    `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// SubscriptionDraft holds the fields of the create subscription form
type SubscriptionDraft struct {
	CustomerID         string              `json:"customer_id"`
	PlanID             string              `json:"plan_id"`
	Currency           string              `json:"currency"`
	LookupKey          string              `json:"lookup_key,omitempty"`
	BillingPeriod      types.BillingPeriod `json:"billing_period,omitempty"`
	BillingPeriodCount int                 `json:"billing_period_count,omitempty"`
	StartDate          *time.Time          `json:"start_date,omitempty"`
	EndDate            *time.Time          `json:"end_date,omitempty"`
}

// CreditGrantDraft is a credit grant that will be created with the subscription
type CreditGrantDraft struct {
	ID                     string                               `json:"id"`
	Name                   string                               `json:"name"`
	Credits                decimal.Decimal                      `json:"credits"`
	Cadence                types.CreditGrantCadence             `json:"cadence"`
	Period                 *types.CreditGrantPeriod             `json:"period,omitempty"`
	PeriodCount            *int                                 `json:"period_count,omitempty"`
	ExpirationType         types.CreditGrantExpiryType          `json:"expiration_type,omitempty"`
	ExpirationDuration     *int                                 `json:"expiration_duration,omitempty"`
	ExpirationDurationUnit *types.CreditGrantExpiryDurationUnit `json:"expiration_duration_unit,omitempty"`
	Priority               *int                                 `json:"priority,omitempty"`
	Metadata               map[string]string                    `json:"metadata,omitempty"`
}

// AddonDraft is an addon that will be attached to the subscription
type AddonDraft struct {
	AddonID   string            `json:"addon_id"`
	StartDate *time.Time        `json:"start_date,omitempty"`
	EndDate   *time.Time        `json:"end_date,omitempty"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

// CouponDraft is a coupon that will be applied to the subscription
type CouponDraft struct {
	CouponID string `json:"coupon_id"`
}

// IsExpired reports whether the draft outlived its ttl at the given time
func (d *Draft) IsExpired(now time.Time) bool {
	return !d.ExpiresAt.IsZero() && !now.Before(d.ExpiresAt)
}

// HasPrice reports whether the form offers the price for overriding
func (d *Draft) HasPrice(priceID string) bool {
	return lo.Contains(d.PriceIDs, priceID)
}

// IsEmpty is true when submitting the draft would change nothing
func (d *Draft) IsEmpty() bool {
	return d.Overrides.Len() == 0 &&
		len(d.CreditGrants) == 0 &&
		len(d.Addons) == 0 &&
		len(d.Coupons) == 0
}

// RemoveCreditGrant drops the grant and reports whether it was present
func (d *Draft) RemoveCreditGrant(id string) bool {
	before := len(d.CreditGrants)
	d.CreditGrants = lo.Reject(d.CreditGrants, func(g *CreditGrantDraft, _ int) bool {
		return g.ID == id
	})
	return len(d.CreditGrants) != before
}

// PutAddon adds the addon or replaces the one with the same id
func (d *Draft) PutAddon(a *AddonDraft) {
	for i, existing := range d.Addons {
		if existing.AddonID == a.AddonID {
			d.Addons[i] = a
			return
		}
	}
	d.Addons = append(d.Addons, a)
}

// RemoveAddon drops the addon and reports whether it was present
func (d *Draft) RemoveAddon(addonID string) bool {
	before := len(d.Addons)
	d.Addons = lo.Reject(d.Addons, func(a *AddonDraft, _ int) bool {
		return a.AddonID == addonID
	})
	return len(d.Addons) != before
}

// PutCoupon adds the coupon once, reapplying the same coupon is a no-op
func (d *Draft) PutCoupon(c *CouponDraft) {
	if lo.ContainsBy(d.Coupons, func(existing *CouponDraft) bool {
		return existing.CouponID == c.CouponID
	}) {
		return
	}
	d.Coupons = append(d.Coupons, c)
}

// RemoveCoupon drops the coupon and reports whether it was present
func (d *Draft) RemoveCoupon(couponID string) bool {
	before := len(d.Coupons)
	d.Coupons = lo.Reject(d.Coupons, func(c *CouponDraft, _ int) bool {
		return c.CouponID == couponID
	})
	return len(d.Coupons) != before
}
