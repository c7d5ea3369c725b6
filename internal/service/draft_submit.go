package service

import (
	"context"

	"github.com/flexprice/console/internal/api/dto"
	"github.com/flexprice/console/internal/domain/draft"
	"github.com/flexprice/console/internal/domain/override"
	"github.com/flexprice/console/internal/domain/price"
	ierr "github.com/flexprice/console/internal/errors"
	"github.com/flexprice/console/internal/metrics"
	"github.com/flexprice/console/internal/types"
	"github.com/samber/lo"
)

func (s *draftService) GetLineItemOverrides(ctx context.Context, draftID string) (*dto.LineItemOverridesResponse, error) {
	d, err := s.DraftRepo.Get(ctx, draftID)
	if err != nil {
		return nil, err
	}
	prices, err := s.loadPrices(ctx, d.PriceIDs)
	if err != nil {
		return nil, err
	}
	return newPayload(d, prices)
}

func (s *draftService) SubmitDraft(ctx context.Context, draftID string, req dto.SubmitDraftRequest) (*dto.SubmitDraftResponse, error) {
	d, err := s.DraftRepo.Get(ctx, draftID)
	if err != nil {
		return nil, err
	}
	prices, err := s.loadPrices(ctx, d.PriceIDs)
	if err != nil {
		return nil, err
	}
	if err := validateForSubmit(d, prices); err != nil {
		return nil, err
	}

	switch d.EntityType {
	case types.DraftEntityTypeSubscription:
		return s.submitSubscription(ctx, d, prices, req.DryRun)
	case types.DraftEntityTypeSubscriptionLineItem:
		return s.submitLineItems(ctx, d, prices, req.DryRun)
	default:
		return nil, ierr.NewError("unsupported draft entity type").
			WithHintf("Drafts of type %s cannot be submitted", d.EntityType).
			Mark(ierr.ErrInvalidOperation)
	}
}

// submitSubscription creates the subscription with every sparse edit in one
// call. The draft is kept on failure so the user can retry.
func (s *draftService) submitSubscription(ctx context.Context, d *draft.Draft, prices []*price.Price, dryRun bool) (*dto.SubmitDraftResponse, error) {
	createReq := dto.NewCreateSubscriptionRequest(d, prices)
	if dryRun {
		s.Metrics.DraftSubmission(string(d.EntityType), metrics.StatusDryRun)
		return &dto.SubmitDraftResponse{
			DraftID:            d.ID,
			Status:             types.SubmissionStatusSucceeded,
			DryRun:             true,
			CreateSubscription: createReq,
		}, nil
	}

	sub, err := s.Flexprice.CreateSubscription(ctx, createReq)
	if err != nil {
		s.submitFailed(ctx, d, err, metrics.StatusFailed)
		return nil, err
	}

	s.discardSubmitted(ctx, d)
	s.Metrics.DraftSubmission(string(d.EntityType), metrics.StatusSuccess)
	s.Logger.Infow("draft submitted",
		"draft_id", d.ID,
		"entity_type", d.EntityType,
		"subscription_id", sub.ID,
		"override_count", len(createReq.OverrideLineItems))

	return &dto.SubmitDraftResponse{
		DraftID:      d.ID,
		Status:       types.SubmissionStatusSucceeded,
		Subscription: sub,
	}, nil
}

// submitLineItems applies the overrides one line item at a time in insertion
// order and stops at the first failure. Applied overrides are dropped from
// the draft before the error is returned.
func (s *draftService) submitLineItems(ctx context.Context, d *draft.Draft, prices []*price.Price, dryRun bool) (*dto.SubmitDraftResponse, error) {
	updates, err := newLineItemUpdates(d, prices)
	if err != nil {
		return nil, err
	}
	if dryRun {
		s.Metrics.DraftSubmission(string(d.EntityType), metrics.StatusDryRun)
		return &dto.SubmitDraftResponse{
			DraftID: d.ID,
			Status:  types.SubmissionStatusSucceeded,
			DryRun:  true,
			Payload: &dto.LineItemOverridesResponse{
				DraftID:         d.ID,
				EntityType:      d.EntityType,
				LineItemUpdates: updates,
			},
		}, nil
	}

	applied := make([]string, 0, len(updates))
	results := make([]*dto.SubscriptionLineItemResponse, 0, len(updates))
	for _, u := range updates {
		li, err := s.Flexprice.UpdateSubscriptionLineItem(ctx, u.LineItemID, u.Request)
		if err != nil {
			s.Logger.Errorw("line item update failed",
				"draft_id", d.ID,
				"price_id", u.PriceID,
				"line_item_id", u.LineItemID,
				"applied", len(applied),
				"error", err)

			if len(applied) == 0 {
				s.submitFailed(ctx, d, err, metrics.StatusFailed)
				return nil, err
			}

			for _, priceID := range applied {
				d.Overrides.Delete(priceID)
			}
			if saveErr := s.save(ctx, d, draftOpSubmitLineItems); saveErr != nil {
				s.Logger.Errorw("failed to drop applied overrides from draft",
					"draft_id", d.ID,
					"applied_price_ids", applied,
					"error", saveErr)
			}
			s.submitFailed(ctx, d, err, metrics.StatusPartial)
			return nil, err
		}
		applied = append(applied, u.PriceID)
		results = append(results, li)
	}

	s.discardSubmitted(ctx, d)
	s.Metrics.DraftSubmission(string(d.EntityType), metrics.StatusSuccess)
	s.Logger.Infow("draft submitted",
		"draft_id", d.ID,
		"entity_type", d.EntityType,
		"subscription_id", d.SubscriptionID,
		"line_item_count", len(results))

	return &dto.SubmitDraftResponse{
		DraftID:   d.ID,
		Status:    types.SubmissionStatusSucceeded,
		LineItems: results,
	}, nil
}

func (s *draftService) submitFailed(ctx context.Context, d *draft.Draft, err error, status string) {
	s.Metrics.DraftSubmission(string(d.EntityType), status)
	s.Sentry.CaptureException(ctx, err, map[string]string{
		"draft_id":    d.ID,
		"entity_type": string(d.EntityType),
		"submission":  status,
	})
	s.Logger.Errorw("draft submission failed",
		"draft_id", d.ID,
		"entity_type", d.EntityType,
		"status", status,
		"error", err)
}

// discardSubmitted deletes a fully submitted draft. The billing API already
// holds the changes, a stale draft expires on its own.
func (s *draftService) discardSubmitted(ctx context.Context, d *draft.Draft) {
	if err := s.DraftRepo.Delete(ctx, d.ID); err != nil && !ierr.IsNotFound(err) {
		s.Logger.Warnw("failed to delete submitted draft",
			"draft_id", d.ID,
			"error", err)
	}
}

// validateForSubmit re-checks every stored override against the current
// price, prices may have changed since the edit was made
func validateForSubmit(d *draft.Draft, prices []*price.Price) error {
	byID := lo.KeyBy(prices, func(p *price.Price) string { return p.ID })

	var err error
	d.Overrides.Each(func(o *override.PriceOverride) bool {
		err = o.Validate(byID[o.PriceID])
		return err == nil
	})
	if err != nil {
		return err
	}

	if d.EntityType == types.DraftEntityTypeSubscriptionLineItem && d.Overrides.Len() == 0 {
		return ierr.NewError("draft has no changes").
			WithHint("Change at least one price before saving").
			WithReportableDetails(map[string]any{
				"draft_id": d.ID,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

func newPayload(d *draft.Draft, prices []*price.Price) (*dto.LineItemOverridesResponse, error) {
	resp := &dto.LineItemOverridesResponse{
		DraftID:    d.ID,
		EntityType: d.EntityType,
	}
	switch d.EntityType {
	case types.DraftEntityTypeSubscriptionLineItem:
		updates, err := newLineItemUpdates(d, prices)
		if err != nil {
			return nil, err
		}
		resp.LineItemUpdates = updates
	default:
		resp.OverrideLineItems = dto.NewOverrideLineItems(prices, d.Overrides)
	}
	return resp, nil
}

// newLineItemUpdates builds one update per override in insertion order
func newLineItemUpdates(d *draft.Draft, prices []*price.Price) ([]dto.LineItemUpdate, error) {
	byID := lo.KeyBy(prices, func(p *price.Price) string { return p.ID })

	updates := make([]dto.LineItemUpdate, 0, d.Overrides.Len())
	for _, o := range d.Overrides.All() {
		p, ok := byID[o.PriceID]
		if !ok || o.IsEmpty() {
			continue
		}
		lineItemID := d.LineItems[o.PriceID]
		if lineItemID == "" {
			return nil, ierr.NewError("line item not found for price").
				WithHintf("Price %s is not billed on any line item of the subscription", o.PriceID).
				WithReportableDetails(map[string]any{
					"draft_id": d.ID,
					"price_id": o.PriceID,
				}).
				Mark(ierr.ErrValidation)
		}
		req, err := dto.NewUpdateLineItemRequest(p, o)
		if err != nil {
			return nil, err
		}
		updates = append(updates, dto.LineItemUpdate{
			LineItemID: lineItemID,
			PriceID:    o.PriceID,
			Request:    req,
		})
	}
	return updates, nil
}
