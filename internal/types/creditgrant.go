package types

import (
	ierr "github.com/flexprice/console/internal/errors"
	"github.com/samber/lo"
)

// CreditGrantCadence tells whether a grant is applied once or on every period
type CreditGrantCadence string

const (
	CreditGrantCadenceOneTime   CreditGrantCadence = "ONETIME"
	CreditGrantCadenceRecurring CreditGrantCadence = "RECURRING"
)

func (c CreditGrantCadence) Validate() error {
	allowed := []CreditGrantCadence{CreditGrantCadenceOneTime, CreditGrantCadenceRecurring}
	if !lo.Contains(allowed, c) {
		return ierr.NewError("invalid credit grant cadence").
			WithHint("Cadence must be ONETIME or RECURRING").
			WithReportableDetails(map[string]any{
				"cadence": c,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// CreditGrantPeriod is the period of a recurring grant
type CreditGrantPeriod string

const (
	CREDIT_GRANT_PERIOD_DAILY     CreditGrantPeriod = "DAILY"
	CREDIT_GRANT_PERIOD_WEEKLY    CreditGrantPeriod = "WEEKLY"
	CREDIT_GRANT_PERIOD_MONTHLY   CreditGrantPeriod = "MONTHLY"
	CREDIT_GRANT_PERIOD_ANNUAL    CreditGrantPeriod = "ANNUAL"
	CREDIT_GRANT_PERIOD_QUARTER   CreditGrantPeriod = "QUARTERLY"
	CREDIT_GRANT_PERIOD_HALF_YEAR CreditGrantPeriod = "HALF_YEARLY"
)

func (p CreditGrantPeriod) Validate() error {
	allowed := []CreditGrantPeriod{
		CREDIT_GRANT_PERIOD_DAILY,
		CREDIT_GRANT_PERIOD_WEEKLY,
		CREDIT_GRANT_PERIOD_MONTHLY,
		CREDIT_GRANT_PERIOD_ANNUAL,
		CREDIT_GRANT_PERIOD_QUARTER,
		CREDIT_GRANT_PERIOD_HALF_YEAR,
	}
	if !lo.Contains(allowed, p) {
		return ierr.NewError("invalid credit grant period").
			WithHint("Invalid credit grant period").
			WithReportableDetails(map[string]any{
				"period": p,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// CreditGrantScope is the entity a grant is attached to. Console drafts only
// create subscription scoped grants.
type CreditGrantScope string

const (
	CreditGrantScopePlan         CreditGrantScope = "PLAN"
	CreditGrantScopeSubscription CreditGrantScope = "SUBSCRIPTION"
)

// CreditGrantExpiryType decides when granted credits expire
type CreditGrantExpiryType string

const (
	CreditGrantExpiryTypeNever        CreditGrantExpiryType = "NEVER"
	CreditGrantExpiryTypeDuration     CreditGrantExpiryType = "DURATION"
	CreditGrantExpiryTypeBillingCycle CreditGrantExpiryType = "BILLING_CYCLE"
)

func (t CreditGrantExpiryType) Validate() error {
	allowed := []CreditGrantExpiryType{
		CreditGrantExpiryTypeNever,
		CreditGrantExpiryTypeDuration,
		CreditGrantExpiryTypeBillingCycle,
	}
	if !lo.Contains(allowed, t) {
		return ierr.NewError("invalid credit grant expiry type").
			WithHint("Expiration type must be NEVER, DURATION or BILLING_CYCLE").
			WithReportableDetails(map[string]any{
				"expiration_type": t,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// CreditGrantExpiryDurationUnit is the unit of a DURATION expiry
type CreditGrantExpiryDurationUnit string

const (
	CreditGrantExpiryDurationUnitDays   CreditGrantExpiryDurationUnit = "DAY"
	CreditGrantExpiryDurationUnitWeeks  CreditGrantExpiryDurationUnit = "WEEK"
	CreditGrantExpiryDurationUnitMonths CreditGrantExpiryDurationUnit = "MONTH"
	CreditGrantExpiryDurationUnitYears  CreditGrantExpiryDurationUnit = "YEAR"
)

func (u CreditGrantExpiryDurationUnit) Validate() error {
	allowed := []CreditGrantExpiryDurationUnit{
		CreditGrantExpiryDurationUnitDays,
		CreditGrantExpiryDurationUnitWeeks,
		CreditGrantExpiryDurationUnitMonths,
		CreditGrantExpiryDurationUnitYears,
	}
	if !lo.Contains(allowed, u) {
		return ierr.NewError("invalid credit grant expiry duration unit").
			WithHint("Expiration duration unit must be DAY, WEEK, MONTH or YEAR").
			WithReportableDetails(map[string]any{
				"expiration_duration_unit": u,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}
