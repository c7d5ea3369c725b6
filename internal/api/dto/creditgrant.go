package dto

import (
	"strings"

	"github.com/flexprice/console/internal/domain/draft"
	ierr "github.com/flexprice/console/internal/errors"
	"github.com/flexprice/console/internal/types"
	"github.com/flexprice/console/internal/validator"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// AddCreditGrantRequest adds a credit grant to a subscription draft
type AddCreditGrantRequest struct {
	Name                   string                               `json:"name" validate:"required"`
	Credits                decimal.Decimal                      `json:"credits"`
	Cadence                types.CreditGrantCadence             `json:"cadence" validate:"required"`
	Period                 *types.CreditGrantPeriod             `json:"period,omitempty"`
	PeriodCount            *int                                 `json:"period_count,omitempty" validate:"omitempty,gt=0"`
	ExpirationType         types.CreditGrantExpiryType          `json:"expiration_type,omitempty"`
	ExpirationDuration     *int                                 `json:"expiration_duration,omitempty" validate:"omitempty,gt=0"`
	ExpirationDurationUnit *types.CreditGrantExpiryDurationUnit `json:"expiration_duration_unit,omitempty"`
	Priority               *int                                 `json:"priority,omitempty" validate:"omitempty,gte=0"`
	Metadata               map[string]string                    `json:"metadata,omitempty"`
}

func (r *AddCreditGrantRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}

	if strings.TrimSpace(r.Name) == "" {
		return ierr.NewError("name is required").
			WithHint("Please provide a name for the credit grant").
			Mark(ierr.ErrValidation)
	}

	if !r.Credits.IsPositive() {
		return ierr.NewError("credits must be greater than zero").
			WithHint("Please provide a positive number of credits").
			WithReportableDetails(map[string]any{
				"credits": r.Credits.String(),
			}).
			Mark(ierr.ErrValidation)
	}

	if err := r.Cadence.Validate(); err != nil {
		return err
	}

	if r.Cadence == types.CreditGrantCadenceRecurring {
		if r.Period == nil || *r.Period == "" {
			return ierr.NewError("period is required for RECURRING cadence").
				WithHint("Please provide a valid period for recurring credit grants").
				WithReportableDetails(map[string]any{
					"cadence": r.Cadence,
				}).
				Mark(ierr.ErrValidation)
		}
		if err := r.Period.Validate(); err != nil {
			return err
		}
	}

	if r.ExpirationType != "" {
		if err := r.ExpirationType.Validate(); err != nil {
			return err
		}
	}
	if r.ExpirationType == types.CreditGrantExpiryTypeDuration {
		if r.ExpirationDuration == nil || r.ExpirationDurationUnit == nil {
			return ierr.NewError("expiration duration is required for DURATION expiry").
				WithHint("Please provide an expiration duration and unit").
				Mark(ierr.ErrValidation)
		}
		if err := r.ExpirationDurationUnit.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// ToCreditGrantDraft converts the request into a draft entry with a fresh id
func (r *AddCreditGrantRequest) ToCreditGrantDraft() *draft.CreditGrantDraft {
	return &draft.CreditGrantDraft{
		ID:                     types.GenerateUUIDWithPrefix(types.UUID_PREFIX_DRAFT_CREDIT_GRANT),
		Name:                   strings.TrimSpace(r.Name),
		Credits:                r.Credits,
		Cadence:                r.Cadence,
		Period:                 r.Period,
		PeriodCount:            r.PeriodCount,
		ExpirationType:         r.ExpirationType,
		ExpirationDuration:     r.ExpirationDuration,
		ExpirationDurationUnit: r.ExpirationDurationUnit,
		Priority:               r.Priority,
		Metadata:               r.Metadata,
	}
}

// CreateCreditGrantRequest is a credit grant as the billing API accepts it
// inside a subscription create request
type CreateCreditGrantRequest struct {
	Name                   string                               `json:"name"`
	Scope                  types.CreditGrantScope               `json:"scope"`
	Credits                decimal.Decimal                      `json:"credits"`
	Currency               string                               `json:"currency,omitempty"`
	Cadence                types.CreditGrantCadence             `json:"cadence"`
	Period                 *types.CreditGrantPeriod             `json:"period,omitempty"`
	PeriodCount            *int                                 `json:"period_count,omitempty"`
	ExpirationType         types.CreditGrantExpiryType          `json:"expiration_type,omitempty"`
	ExpirationDuration     *int                                 `json:"expiration_duration,omitempty"`
	ExpirationDurationUnit *types.CreditGrantExpiryDurationUnit `json:"expiration_duration_unit,omitempty"`
	Priority               *int                                 `json:"priority,omitempty"`
	Metadata               map[string]string                    `json:"metadata,omitempty"`
}

// NewCreateCreditGrantRequests converts draft grants for a subscription in the given currency
func NewCreateCreditGrantRequests(grants []*draft.CreditGrantDraft, currency string) []CreateCreditGrantRequest {
	return lo.Map(grants, func(g *draft.CreditGrantDraft, _ int) CreateCreditGrantRequest {
		return CreateCreditGrantRequest{
			Name:                   g.Name,
			Scope:                  types.CreditGrantScopeSubscription,
			Credits:                g.Credits,
			Currency:               currency,
			Cadence:                g.Cadence,
			Period:                 g.Period,
			PeriodCount:            g.PeriodCount,
			ExpirationType:         lo.CoalesceOrEmpty(g.ExpirationType, types.CreditGrantExpiryTypeNever),
			ExpirationDuration:     g.ExpirationDuration,
			ExpirationDurationUnit: g.ExpirationDurationUnit,
			Priority:               g.Priority,
			Metadata:               g.Metadata,
		}
	})
}
