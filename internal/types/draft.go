package types

import (
	ierr "github.com/flexprice/console/internal/errors"
	"github.com/samber/lo"
)

// DraftEntityType is the kind of form a draft backs
type DraftEntityType string

const (
	// DraftEntityTypeSubscription backs the create subscription form,
	// submitted as one subscription create call
	DraftEntityTypeSubscription DraftEntityType = "SUBSCRIPTION"

	// DraftEntityTypeSubscriptionLineItem backs price edits on an existing
	// subscription, submitted as one line item update per override
	DraftEntityTypeSubscriptionLineItem DraftEntityType = "SUBSCRIPTION_LINE_ITEM"
)

func (d DraftEntityType) Validate() error {
	allowed := []DraftEntityType{DraftEntityTypeSubscription, DraftEntityTypeSubscriptionLineItem}
	if !lo.Contains(allowed, d) {
		return ierr.NewError("invalid draft entity type").
			WithHint("Entity type must be SUBSCRIPTION or SUBSCRIPTION_LINE_ITEM").
			WithReportableDetails(map[string]any{
				"entity_type": d,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// SubmissionStatus labels submission outcomes
type SubmissionStatus string

const (
	SubmissionStatusSucceeded SubmissionStatus = "succeeded"
	SubmissionStatusFailed    SubmissionStatus = "failed"
	SubmissionStatusPartial   SubmissionStatus = "partial"
)
