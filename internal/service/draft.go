package service

import (
	"context"
	"time"

	"github.com/flexprice/console/internal/api/dto"
	"github.com/flexprice/console/internal/domain/draft"
	"github.com/flexprice/console/internal/domain/override"
	"github.com/flexprice/console/internal/domain/price"
	ierr "github.com/flexprice/console/internal/errors"
	"github.com/flexprice/console/internal/types"
	"github.com/samber/lo"
)

// DraftService holds the sparse edits of open console forms until they are
// submitted to the billing API or discarded
type DraftService interface {
	CreateDraft(ctx context.Context, req dto.CreateDraftRequest) (*dto.DraftResponse, error)
	GetDraft(ctx context.Context, id string) (*dto.DraftResponse, error)
	DiscardDraft(ctx context.Context, id string) error

	SetPriceOverride(ctx context.Context, draftID, priceID string, req dto.SetPriceOverrideRequest) (*dto.DraftResponse, error)
	RemovePriceOverride(ctx context.Context, draftID, priceID string) (*dto.DraftResponse, error)

	AddCreditGrant(ctx context.Context, draftID string, req dto.AddCreditGrantRequest) (*dto.DraftResponse, error)
	RemoveCreditGrant(ctx context.Context, draftID, grantID string) (*dto.DraftResponse, error)
	AddAddon(ctx context.Context, draftID string, req dto.AddAddonToSubscriptionRequest) (*dto.DraftResponse, error)
	RemoveAddon(ctx context.Context, draftID, addonID string) (*dto.DraftResponse, error)
	AddCoupon(ctx context.Context, draftID string, req dto.ApplyCouponRequest) (*dto.DraftResponse, error)
	RemoveCoupon(ctx context.Context, draftID, couponID string) (*dto.DraftResponse, error)

	GetLineItemOverrides(ctx context.Context, draftID string) (*dto.LineItemOverridesResponse, error)
	SubmitDraft(ctx context.Context, draftID string, req dto.SubmitDraftRequest) (*dto.SubmitDraftResponse, error)
}

const (
	draftOpCreate          = "create"
	draftOpDiscard         = "discard"
	draftOpSetOverride     = "set_override"
	draftOpRemoveOverride  = "remove_override"
	draftOpAddCreditGrant  = "add_credit_grant"
	draftOpRemoveGrant     = "remove_credit_grant"
	draftOpAddAddon        = "add_addon"
	draftOpRemoveAddon     = "remove_addon"
	draftOpAddCoupon       = "add_coupon"
	draftOpRemoveCoupon    = "remove_coupon"
	draftOpSubmitLineItems = "submit_line_items"
)

type draftService struct {
	ServiceParams
}

func NewDraftService(params ServiceParams) DraftService {
	return &draftService{
		ServiceParams: params,
	}
}

func (s *draftService) CreateDraft(ctx context.Context, req dto.CreateDraftRequest) (*dto.DraftResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	d := req.ToDraft()
	prices, err := s.loadPrices(ctx, d.PriceIDs)
	if err != nil {
		return nil, err
	}

	if d.EntityType == types.DraftEntityTypeSubscription {
		mismatched := lo.Filter(prices, func(p *price.Price, _ int) bool {
			return !types.IsMatchingCurrency(p.Currency, d.Subscription.Currency)
		})
		if len(mismatched) > 0 {
			return nil, ierr.NewError("price currency does not match subscription currency").
				WithHint("All prices of a subscription must use the subscription currency").
				WithReportableDetails(map[string]any{
					"currency":  d.Subscription.Currency,
					"price_ids": lo.Map(mismatched, func(p *price.Price, _ int) string { return p.ID }),
				}).
				Mark(ierr.ErrValidation)
		}
	}

	now := time.Now().UTC()
	d.TenantID = types.GetTenantID(ctx)
	d.EnvironmentID = types.GetEnvironmentID(ctx)
	d.CreatedBy = types.GetUserID(ctx)
	d.CreatedAt = now
	d.UpdatedAt = now

	if err := s.DraftRepo.Create(ctx, d); err != nil {
		return nil, err
	}
	s.Metrics.DraftOperation(draftOpCreate)

	s.Logger.Infow("draft created",
		"draft_id", d.ID,
		"entity_type", d.EntityType,
		"tenant_id", d.TenantID,
		"price_count", len(d.PriceIDs))

	return dto.NewDraftResponse(d, prices), nil
}

func (s *draftService) GetDraft(ctx context.Context, id string) (*dto.DraftResponse, error) {
	d, err := s.DraftRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.render(ctx, d)
}

func (s *draftService) DiscardDraft(ctx context.Context, id string) error {
	if err := s.DraftRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.Metrics.DraftOperation(draftOpDiscard)
	s.Logger.Debugw("draft discarded", "draft_id", id)
	return nil
}

func (s *draftService) SetPriceOverride(ctx context.Context, draftID, priceID string, req dto.SetPriceOverrideRequest) (*dto.DraftResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	d, err := s.DraftRepo.Get(ctx, draftID)
	if err != nil {
		return nil, err
	}
	if !d.HasPrice(priceID) {
		return nil, priceNotInDraft(d, priceID)
	}

	patch := req.ToPriceOverride(priceID)
	if d.EntityType == types.DraftEntityTypeSubscription && (patch.EffectiveFrom != "" || patch.Commitment != nil) {
		return nil, ierr.NewError("effective_from and commitment apply to existing line items only").
			WithHint("Scheduled changes and commitments can only be set when editing a subscription's line items").
			WithReportableDetails(map[string]any{
				"draft_id": d.ID,
				"price_id": priceID,
			}).
			Mark(ierr.ErrValidation)
	}

	p, err := s.PriceRepo.Get(ctx, priceID)
	if err != nil {
		return nil, err
	}

	ensureOverrides(d)
	merged := &override.PriceOverride{PriceID: priceID}
	if existing, ok := d.Overrides.Get(priceID); ok {
		merged = existing.Clone()
	}
	merged.Clear(req.Clear...)
	merged.Merge(patch)

	if err := merged.Validate(p); err != nil {
		return nil, err
	}
	merged.Compact(p)

	if !d.Overrides.Put(merged) {
		s.Logger.Debugw("override reduced to nothing, pruned",
			"draft_id", d.ID,
			"price_id", priceID)
	}

	if err := s.save(ctx, d, draftOpSetOverride); err != nil {
		return nil, err
	}
	return s.render(ctx, d)
}

func (s *draftService) RemovePriceOverride(ctx context.Context, draftID, priceID string) (*dto.DraftResponse, error) {
	d, err := s.DraftRepo.Get(ctx, draftID)
	if err != nil {
		return nil, err
	}
	if !d.HasPrice(priceID) {
		return nil, priceNotInDraft(d, priceID)
	}

	ensureOverrides(d)
	d.Overrides.Delete(priceID)
	if err := s.save(ctx, d, draftOpRemoveOverride); err != nil {
		return nil, err
	}
	return s.render(ctx, d)
}

func (s *draftService) AddCreditGrant(ctx context.Context, draftID string, req dto.AddCreditGrantRequest) (*dto.DraftResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	d, err := s.subscriptionDraft(ctx, draftID)
	if err != nil {
		return nil, err
	}

	d.CreditGrants = append(d.CreditGrants, req.ToCreditGrantDraft())
	if err := s.save(ctx, d, draftOpAddCreditGrant); err != nil {
		return nil, err
	}
	return s.render(ctx, d)
}

func (s *draftService) RemoveCreditGrant(ctx context.Context, draftID, grantID string) (*dto.DraftResponse, error) {
	d, err := s.DraftRepo.Get(ctx, draftID)
	if err != nil {
		return nil, err
	}
	if !d.RemoveCreditGrant(grantID) {
		return nil, siblingNotFound(d, "credit grant", "credit_grant_id", grantID)
	}
	if err := s.save(ctx, d, draftOpRemoveGrant); err != nil {
		return nil, err
	}
	return s.render(ctx, d)
}

func (s *draftService) AddAddon(ctx context.Context, draftID string, req dto.AddAddonToSubscriptionRequest) (*dto.DraftResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	d, err := s.subscriptionDraft(ctx, draftID)
	if err != nil {
		return nil, err
	}

	d.PutAddon(req.ToAddonDraft())
	if err := s.save(ctx, d, draftOpAddAddon); err != nil {
		return nil, err
	}
	return s.render(ctx, d)
}

func (s *draftService) RemoveAddon(ctx context.Context, draftID, addonID string) (*dto.DraftResponse, error) {
	d, err := s.DraftRepo.Get(ctx, draftID)
	if err != nil {
		return nil, err
	}
	if !d.RemoveAddon(addonID) {
		return nil, siblingNotFound(d, "addon", "addon_id", addonID)
	}
	if err := s.save(ctx, d, draftOpRemoveAddon); err != nil {
		return nil, err
	}
	return s.render(ctx, d)
}

func (s *draftService) AddCoupon(ctx context.Context, draftID string, req dto.ApplyCouponRequest) (*dto.DraftResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	d, err := s.subscriptionDraft(ctx, draftID)
	if err != nil {
		return nil, err
	}

	d.PutCoupon(req.ToCouponDraft())
	if err := s.save(ctx, d, draftOpAddCoupon); err != nil {
		return nil, err
	}
	return s.render(ctx, d)
}

func (s *draftService) RemoveCoupon(ctx context.Context, draftID, couponID string) (*dto.DraftResponse, error) {
	d, err := s.DraftRepo.Get(ctx, draftID)
	if err != nil {
		return nil, err
	}
	if !d.RemoveCoupon(couponID) {
		return nil, siblingNotFound(d, "coupon", "coupon_id", couponID)
	}
	if err := s.save(ctx, d, draftOpRemoveCoupon); err != nil {
		return nil, err
	}
	return s.render(ctx, d)
}

// subscriptionDraft loads a draft that accepts credit grants, addons and coupons
func (s *draftService) subscriptionDraft(ctx context.Context, draftID string) (*draft.Draft, error) {
	d, err := s.DraftRepo.Get(ctx, draftID)
	if err != nil {
		return nil, err
	}
	if d.EntityType != types.DraftEntityTypeSubscription {
		return nil, ierr.NewError("draft does not accept subscription level edits").
			WithHint("Credit grants, addons and coupons can only be added while creating a subscription").
			WithReportableDetails(map[string]any{
				"draft_id":    d.ID,
				"entity_type": d.EntityType,
			}).
			Mark(ierr.ErrInvalidOperation)
	}
	return d, nil
}

func (s *draftService) save(ctx context.Context, d *draft.Draft, operation string) error {
	d.UpdatedAt = time.Now().UTC()
	if err := s.DraftRepo.Update(ctx, d); err != nil {
		return err
	}
	s.Metrics.DraftOperation(operation)
	s.Logger.Debugw("draft updated",
		"draft_id", d.ID,
		"operation", operation,
		"override_count", d.Overrides.Len())
	return nil
}

func (s *draftService) render(ctx context.Context, d *draft.Draft) (*dto.DraftResponse, error) {
	prices, err := s.loadPrices(ctx, d.PriceIDs)
	if err != nil {
		return nil, err
	}
	return dto.NewDraftResponse(d, prices), nil
}

// loadPrices returns every price in the order of ids, a missing one is an error
func (s *draftService) loadPrices(ctx context.Context, ids []string) ([]*price.Price, error) {
	prices, err := s.PriceRepo.List(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(prices) != len(ids) {
		_, missing := lo.Difference(lo.Map(prices, func(p *price.Price, _ int) string { return p.ID }), ids)
		return nil, ierr.NewError("prices not found").
			WithHint("Some of the draft's prices no longer exist").
			WithReportableDetails(map[string]any{
				"price_ids": missing,
			}).
			Mark(ierr.ErrNotFound)
	}
	return prices, nil
}

func ensureOverrides(d *draft.Draft) {
	if d.Overrides == nil {
		d.Overrides = override.NewSet()
	}
}

func priceNotInDraft(d *draft.Draft, priceID string) error {
	return ierr.NewError("price is not part of the draft").
		WithHintf("Price %s cannot be edited in this form", priceID).
		WithReportableDetails(map[string]any{
			"draft_id": d.ID,
			"price_id": priceID,
		}).
		Mark(ierr.ErrNotFound)
}

func siblingNotFound(d *draft.Draft, kind, key, id string) error {
	return ierr.NewErrorf("%s not found in draft", kind).
		WithHintf("The %s is not part of this draft", kind).
		WithReportableDetails(map[string]any{
			"draft_id": d.ID,
			key:        id,
		}).
		Mark(ierr.ErrNotFound)
}
