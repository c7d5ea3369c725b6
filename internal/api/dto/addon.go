package dto

import (
	"time"

	"github.com/flexprice/console/internal/domain/draft"
	ierr "github.com/flexprice/console/internal/errors"
	"github.com/flexprice/console/internal/validator"
	"github.com/samber/lo"
)

// AddAddonToSubscriptionRequest represents the request to add an addon to a subscription
type AddAddonToSubscriptionRequest struct {
	AddonID   string            `json:"addon_id" validate:"required"`
	StartDate *time.Time        `json:"start_date,omitempty"`
	EndDate   *time.Time        `json:"end_date,omitempty"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

func (r *AddAddonToSubscriptionRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}

	if r.StartDate != nil && r.EndDate != nil && r.StartDate.After(*r.EndDate) {
		return ierr.NewError("start_date cannot be after end_date").
			WithHint("Start date cannot be after end date").
			Mark(ierr.ErrValidation)
	}
	return nil
}

func (r *AddAddonToSubscriptionRequest) ToAddonDraft() *draft.AddonDraft {
	return &draft.AddonDraft{
		AddonID:   r.AddonID,
		StartDate: r.StartDate,
		EndDate:   r.EndDate,
		Metadata:  r.Metadata,
	}
}

// NewAddAddonRequests converts draft addons to the billing API shape
func NewAddAddonRequests(addons []*draft.AddonDraft) []AddAddonToSubscriptionRequest {
	return lo.Map(addons, func(a *draft.AddonDraft, _ int) AddAddonToSubscriptionRequest {
		return AddAddonToSubscriptionRequest{
			AddonID:   a.AddonID,
			StartDate: a.StartDate,
			EndDate:   a.EndDate,
			Metadata:  a.Metadata,
		}
	})
}
