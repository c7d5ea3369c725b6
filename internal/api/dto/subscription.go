package dto

import (
	"time"

	"github.com/flexprice/console/internal/domain/draft"
	"github.com/flexprice/console/internal/domain/price"
	"github.com/flexprice/console/internal/types"
)

// CreateSubscriptionRequest is the billing API's subscription create request,
// carrying every sparse edit of a draft
type CreateSubscriptionRequest struct {
	CustomerID         string              `json:"customer_id"`
	PlanID             string              `json:"plan_id"`
	Currency           string              `json:"currency"`
	LookupKey          string              `json:"lookup_key,omitempty"`
	StartDate          *time.Time          `json:"start_date,omitempty"`
	EndDate            *time.Time          `json:"end_date,omitempty"`
	BillingPeriod      types.BillingPeriod `json:"billing_period,omitempty"`
	BillingPeriodCount int                 `json:"billing_period_count,omitempty"`

	// OverrideLineItems allows customizing specific prices for this subscription
	OverrideLineItems []OverrideLineItemRequest `json:"override_line_items,omitempty"`

	// CreditGrants are created together with the subscription
	CreditGrants []CreateCreditGrantRequest `json:"credit_grants,omitempty"`

	// Addons are attached to the subscription once created
	Addons []AddAddonToSubscriptionRequest `json:"addons,omitempty"`

	// Coupons are coupon ids applied at subscription level
	Coupons []string `json:"coupons,omitempty"`
}

// NewCreateSubscriptionRequest builds the create request for a SUBSCRIPTION draft
func NewCreateSubscriptionRequest(d *draft.Draft, prices []*price.Price) *CreateSubscriptionRequest {
	req := &CreateSubscriptionRequest{
		OverrideLineItems: NewOverrideLineItems(prices, d.Overrides),
		Addons:            NewAddAddonRequests(d.Addons),
		Coupons:           NewCouponIDs(d.Coupons),
	}
	if s := d.Subscription; s != nil {
		req.CustomerID = s.CustomerID
		req.PlanID = s.PlanID
		req.Currency = s.Currency
		req.LookupKey = s.LookupKey
		req.StartDate = s.StartDate
		req.EndDate = s.EndDate
		req.BillingPeriod = s.BillingPeriod
		req.BillingPeriodCount = s.BillingPeriodCount
	}
	req.CreditGrants = NewCreateCreditGrantRequests(d.CreditGrants, req.Currency)
	return req
}

// SubscriptionResponse is the subset of the billing API's subscription the console reads back
type SubscriptionResponse struct {
	ID                 string                          `json:"id"`
	CustomerID         string                          `json:"customer_id"`
	PlanID             string                          `json:"plan_id"`
	Currency           string                          `json:"currency"`
	SubscriptionStatus string                          `json:"subscription_status"`
	StartDate          time.Time                       `json:"start_date"`
	LineItems          []*SubscriptionLineItemResponse `json:"line_items,omitempty"`
}
