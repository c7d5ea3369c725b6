package service

import (
	"github.com/flexprice/console/internal/api/dto"
	"github.com/flexprice/console/internal/domain/override"
	"github.com/flexprice/console/internal/domain/price"
	ierr "github.com/flexprice/console/internal/errors"
	"github.com/flexprice/console/internal/testutil"
	"github.com/flexprice/console/internal/types"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

func (s *DraftServiceSuite) TestGetLineItemOverrides_Subscription() {
	d := s.createSubscriptionDraft()
	s.setOverride(d.ID, "price_credits", dto.PriceOverrideRequest{PriceUnitAmount: "80"})
	s.setOverride(d.ID, "price_fixed", dto.PriceOverrideRequest{Quantity: lo.ToPtr(decimal.NewFromInt(3))})

	resp, err := s.service.GetLineItemOverrides(s.GetContext(), d.ID)
	s.Require().NoError(err)
	s.Empty(resp.LineItemUpdates)
	s.Require().Len(resp.OverrideLineItems, 2)

	// insertion order, not price order
	credits := resp.OverrideLineItems[0]
	s.Equal("price_credits", credits.PriceID)
	s.Equal("80", credits.PriceUnitAmount)
	s.Nil(credits.Amount)

	fixed := resp.OverrideLineItems[1]
	s.Equal("price_fixed", fixed.PriceID)
	s.Require().NotNil(fixed.Quantity)
	s.True(fixed.Quantity.Equal(decimal.NewFromInt(3)))
	s.Nil(fixed.Amount)
	s.Empty(fixed.PriceUnitAmount)
}

func (s *DraftServiceSuite) putSlabPrice() {
	s.GetStores().PriceRepo.Put(&price.Price{
		ID:            "price_slab",
		Type:          types.PRICE_TYPE_USAGE,
		PriceUnitType: types.PRICE_UNIT_TYPE_FIAT,
		Currency:      "usd",
		BillingModel:  types.BILLING_MODEL_TIERED,
		TierMode:      types.BILLING_TIER_SLAB,
		MeterID:       "meter_api_calls",
		Tiers: []price.PriceTier{
			{UpTo: lo.ToPtr(uint64(100)), UnitAmount: "1.00"},
			{UnitAmount: "0.50"},
		},
	})
}

func (s *DraftServiceSuite) TestGetLineItemOverrides_TieredOnSlabPrice() {
	s.putSlabPrice()
	ctx := s.GetContext()

	d, err := s.service.CreateDraft(ctx, dto.CreateDraftRequest{
		EntityType: types.DraftEntityTypeSubscription,
		PriceIDs:   []string{"price_slab"},
		Subscription: &dto.SubscriptionDraftRequest{
			CustomerID: "cust_1",
			PlanID:     "plan_1",
			Currency:   "USD",
		},
	})
	s.Require().NoError(err)

	resp := s.setOverride(d.ID, "price_slab", dto.PriceOverrideRequest{BillingModel: types.BILLING_MODEL_OPTION_TIERED})
	s.True(resp.HasChanges)

	payload, err := s.service.GetLineItemOverrides(ctx, d.ID)
	s.Require().NoError(err)
	s.Require().Len(payload.OverrideLineItems, 1)
	s.Equal("price_slab", payload.OverrideLineItems[0].PriceID)
	s.Equal(types.BILLING_MODEL_TIERED, payload.OverrideLineItems[0].BillingModel)
	s.Equal(types.BILLING_TIER_VOLUME, payload.OverrideLineItems[0].TierMode)

	// switching back to slab leaves nothing to send
	s.setOverride(d.ID, "price_slab", dto.PriceOverrideRequest{BillingModel: types.BILLING_MODEL_OPTION_SLAB_TIERED})
	payload, err = s.service.GetLineItemOverrides(ctx, d.ID)
	s.Require().NoError(err)
	s.Empty(payload.OverrideLineItems)
}

func (s *DraftServiceSuite) TestGetLineItemOverrides_TieredOnSlabLineItem() {
	s.putSlabPrice()
	ctx := s.GetContext()

	d, err := s.service.CreateDraft(ctx, dto.CreateDraftRequest{
		EntityType:     types.DraftEntityTypeSubscriptionLineItem,
		PriceIDs:       []string{"price_slab"},
		SubscriptionID: "sub_1",
		LineItems:      map[string]string{"price_slab": "li_slab"},
	})
	s.Require().NoError(err)
	s.setOverride(d.ID, "price_slab", dto.PriceOverrideRequest{BillingModel: types.BILLING_MODEL_OPTION_TIERED})

	payload, err := s.service.GetLineItemOverrides(ctx, d.ID)
	s.Require().NoError(err)
	s.Require().Len(payload.LineItemUpdates, 1)
	s.Equal("li_slab", payload.LineItemUpdates[0].LineItemID)
	s.Equal(types.BILLING_MODEL_TIERED, payload.LineItemUpdates[0].Request.BillingModel)
	s.Equal(types.BILLING_TIER_VOLUME, payload.LineItemUpdates[0].Request.TierMode)
}

func (s *DraftServiceSuite) TestSubmitDraft_Subscription() {
	d := s.createSubscriptionDraft()
	ctx := s.GetContext()
	s.setOverride(d.ID, "price_fixed", dto.PriceOverrideRequest{Amount: "12.00"})
	_, err := s.service.AddCoupon(ctx, d.ID, dto.ApplyCouponRequest{CouponID: "coupon_1"})
	s.Require().NoError(err)

	dry, err := s.service.SubmitDraft(ctx, d.ID, dto.SubmitDraftRequest{DryRun: true})
	s.Require().NoError(err)
	s.True(dry.DryRun)
	s.Require().NotNil(dry.CreateSubscription)
	s.Equal([]string{"coupon_1"}, dry.CreateSubscription.Coupons)
	s.Empty(s.GetFlexprice().Subscriptions)

	resp, err := s.service.SubmitDraft(ctx, d.ID, dto.SubmitDraftRequest{})
	s.Require().NoError(err)
	s.Equal(types.SubmissionStatusSucceeded, resp.Status)
	s.Equal("sub_cust_1", resp.Subscription.ID)

	sent := s.GetFlexprice().Subscriptions
	s.Require().Len(sent, 1)
	s.Equal("usd", sent[0].Currency)
	s.Require().Len(sent[0].OverrideLineItems, 1)
	s.Equal("price_fixed", sent[0].OverrideLineItems[0].PriceID)
	s.True(sent[0].OverrideLineItems[0].Amount.Equal(decimal.RequireFromString("12.00")))

	_, err = s.service.GetDraft(ctx, d.ID)
	s.True(ierr.IsNotFound(err))
}

func (s *DraftServiceSuite) TestSubmitDraft_SubscriptionFailureKeepsDraft() {
	d := s.createSubscriptionDraft()
	ctx := s.GetContext()
	s.setOverride(d.ID, "price_fixed", dto.PriceOverrideRequest{Amount: "12.00"})
	s.GetFlexprice().CreateSubscriptionErr = testutil.UpstreamError("Customer not found")

	_, err := s.service.SubmitDraft(ctx, d.ID, dto.SubmitDraftRequest{})
	s.Require().Error(err)
	s.True(ierr.IsValidation(err))
	s.Equal("Customer not found", ierr.DisplayMessage(err))

	got, err := s.service.GetDraft(ctx, d.ID)
	s.Require().NoError(err)
	o, ok := got.Overrides.Get("price_fixed")
	s.Require().True(ok)
	s.Equal("12.00", o.Amount)

	// retry once the backend accepts it
	s.GetFlexprice().CreateSubscriptionErr = nil
	_, err = s.service.SubmitDraft(ctx, d.ID, dto.SubmitDraftRequest{})
	s.Require().NoError(err)
	s.Len(s.GetFlexprice().Subscriptions, 1)
}

func (s *DraftServiceSuite) TestSubmitDraft_LineItems() {
	d := s.createLineItemDraft()
	ctx := s.GetContext()
	s.setOverride(d.ID, "price_usage", dto.PriceOverrideRequest{
		Amount:        "0.03",
		EffectiveFrom: "2026-11-01",
	})
	s.setOverride(d.ID, "price_fixed", dto.PriceOverrideRequest{Amount: "12.00"})

	payload, err := s.service.GetLineItemOverrides(ctx, d.ID)
	s.Require().NoError(err)
	s.Require().Len(payload.LineItemUpdates, 2)
	s.Equal("li_usage", payload.LineItemUpdates[0].LineItemID)
	s.Require().NotNil(payload.LineItemUpdates[0].Request.EffectiveFrom)
	s.Equal("2026-11-01", payload.LineItemUpdates[0].Request.EffectiveFrom.Format("2006-01-02"))
	s.Nil(payload.LineItemUpdates[0].Request.Quantity)

	resp, err := s.service.SubmitDraft(ctx, d.ID, dto.SubmitDraftRequest{})
	s.Require().NoError(err)
	s.Equal(types.SubmissionStatusSucceeded, resp.Status)
	s.Len(resp.LineItems, 2)

	calls := s.GetFlexprice().LineItemUpdates
	s.Require().Len(calls, 2)
	s.Equal("li_usage", calls[0].LineItemID)
	s.Equal("li_fixed", calls[1].LineItemID)

	_, err = s.service.GetDraft(ctx, d.ID)
	s.True(ierr.IsNotFound(err))
}

func (s *DraftServiceSuite) TestSubmitDraft_LineItemsPartialFailure() {
	d := s.createLineItemDraft()
	ctx := s.GetContext()
	s.setOverride(d.ID, "price_fixed", dto.PriceOverrideRequest{Amount: "12.00"})
	s.setOverride(d.ID, "price_usage", dto.PriceOverrideRequest{Amount: "0.03"})
	s.GetFlexprice().LineItemErrs["li_usage"] = testutil.UpstreamError("Line item is archived")

	_, err := s.service.SubmitDraft(ctx, d.ID, dto.SubmitDraftRequest{})
	s.Require().Error(err)
	s.Equal("Line item is archived", ierr.DisplayMessage(err))

	got, err := s.service.GetDraft(ctx, d.ID)
	s.Require().NoError(err)
	s.Equal([]string{"price_usage"}, got.Overrides.PriceIDs())

	// the retry only sends what is left
	delete(s.GetFlexprice().LineItemErrs, "li_usage")
	_, err = s.service.SubmitDraft(ctx, d.ID, dto.SubmitDraftRequest{})
	s.Require().NoError(err)

	calls := s.GetFlexprice().LineItemUpdates
	s.Require().Len(calls, 2)
	s.Equal("li_fixed", calls[0].LineItemID)
	s.Equal("li_usage", calls[1].LineItemID)
}

func (s *DraftServiceSuite) TestSubmitDraft_LineItemsWithoutChanges() {
	d := s.createLineItemDraft()

	_, err := s.service.SubmitDraft(s.GetContext(), d.ID, dto.SubmitDraftRequest{})
	s.Require().Error(err)
	s.True(ierr.IsValidation(err))
	s.Empty(s.GetFlexprice().LineItemUpdates)
}

func (s *DraftServiceSuite) TestSubmitDraft_CommitmentOnly() {
	d := s.createLineItemDraft()
	ctx := s.GetContext()
	_, err := s.service.SetPriceOverride(ctx, d.ID, "price_usage", dto.SetPriceOverrideRequest{
		PriceOverrideRequest: dto.PriceOverrideRequest{
			Commitment: &override.Commitment{
				Type:          types.COMMITMENT_TYPE_AMOUNT,
				Amount:        lo.ToPtr(decimal.NewFromInt(100)),
				OverageFactor: lo.ToPtr(decimal.NewFromFloat(1.5)),
			},
		},
	})
	s.Require().NoError(err)

	resp, err := s.service.SubmitDraft(ctx, d.ID, dto.SubmitDraftRequest{DryRun: true})
	s.Require().NoError(err)
	s.Require().Len(resp.Payload.LineItemUpdates, 1)
	req := resp.Payload.LineItemUpdates[0].Request
	s.True(req.HasCommitment())
	s.Nil(req.Amount)
	s.Empty(req.BillingModel)
}

func (s *DraftServiceSuite) TestSubmitDraft_RevalidatesAgainstCurrentPrice() {
	d := s.createLineItemDraft()
	ctx := s.GetContext()
	_, err := s.service.SetPriceOverride(ctx, d.ID, "price_usage", dto.SetPriceOverrideRequest{
		PriceOverrideRequest: dto.PriceOverrideRequest{
			Commitment: &override.Commitment{
				Type:          types.COMMITMENT_TYPE_AMOUNT,
				Amount:        lo.ToPtr(decimal.NewFromInt(100)),
				OverageFactor: lo.ToPtr(decimal.NewFromFloat(1.5)),
			},
		},
	})
	s.Require().NoError(err)

	// the price became a fixed price after the edit was made
	changed := *s.testData.prices.usage
	changed.Type = types.PRICE_TYPE_FIXED
	s.GetStores().PriceRepo.Put(&changed)

	_, err = s.service.SubmitDraft(ctx, d.ID, dto.SubmitDraftRequest{})
	s.Require().Error(err)
	s.True(ierr.IsValidation(err))
	s.Empty(s.GetFlexprice().LineItemUpdates)
}
