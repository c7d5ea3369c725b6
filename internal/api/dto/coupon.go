package dto

import (
	"github.com/flexprice/console/internal/domain/draft"
	"github.com/flexprice/console/internal/validator"
	"github.com/samber/lo"
)

// ApplyCouponRequest applies a coupon to a subscription draft
type ApplyCouponRequest struct {
	CouponID string `json:"coupon_id" validate:"required"`
}

func (r *ApplyCouponRequest) Validate() error {
	return validator.ValidateRequest(r)
}

func (r *ApplyCouponRequest) ToCouponDraft() *draft.CouponDraft {
	return &draft.CouponDraft{CouponID: r.CouponID}
}

// NewCouponIDs returns the coupon ids in the order they were applied
func NewCouponIDs(coupons []*draft.CouponDraft) []string {
	return lo.Map(coupons, func(c *draft.CouponDraft, _ int) string {
		return c.CouponID
	})
}
