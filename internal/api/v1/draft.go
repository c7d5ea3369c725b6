package v1

import (
	"net/http"

	"github.com/flexprice/console/internal/api/dto"
	ierr "github.com/flexprice/console/internal/errors"
	"github.com/flexprice/console/internal/logger"
	"github.com/flexprice/console/internal/service"
	"github.com/gin-gonic/gin"
)

type DraftHandler struct {
	service service.DraftService
	log     *logger.Logger
}

func NewDraftHandler(service service.DraftService, log *logger.Logger) *DraftHandler {
	return &DraftHandler{service: service, log: log}
}

// @Summary Open a draft
// @Description Open a draft for a subscription create form or a line item edit form
// @Tags Drafts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateDraftRequest true "Draft"
// @Success 201 {object} dto.DraftResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Router /drafts [post]
func (h *DraftHandler) CreateDraft(c *gin.Context) {
	var req dto.CreateDraftRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.service.CreateDraft(c.Request.Context(), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// @Summary Get a draft
// @Tags Drafts
// @Produce json
// @Security BearerAuth
// @Param id path string true "Draft ID"
// @Success 200 {object} dto.DraftResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Router /drafts/{id} [get]
func (h *DraftHandler) GetDraft(c *gin.Context) {
	resp, err := h.service.GetDraft(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Discard a draft
// @Tags Drafts
// @Security BearerAuth
// @Param id path string true "Draft ID"
// @Success 204
// @Failure 404 {object} ierr.ErrorResponse
// @Router /drafts/{id} [delete]
func (h *DraftHandler) DiscardDraft(c *gin.Context) {
	if err := h.service.DiscardDraft(c.Request.Context(), c.Param("id")); err != nil {
		c.Error(err)
		return
	}

	c.Status(http.StatusNoContent)
}

// @Summary Set a price override
// @Description Patch the override of one price, set fields replace stored ones and clear unsets them
// @Tags Drafts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Draft ID"
// @Param price_id path string true "Price ID"
// @Param request body dto.SetPriceOverrideRequest true "Override patch"
// @Success 200 {object} dto.DraftResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Router /drafts/{id}/overrides/{price_id} [put]
func (h *DraftHandler) SetPriceOverride(c *gin.Context) {
	var req dto.SetPriceOverrideRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.service.SetPriceOverride(c.Request.Context(), c.Param("id"), c.Param("price_id"), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Remove a price override
// @Tags Drafts
// @Produce json
// @Security BearerAuth
// @Param id path string true "Draft ID"
// @Param price_id path string true "Price ID"
// @Success 200 {object} dto.DraftResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Router /drafts/{id}/overrides/{price_id} [delete]
func (h *DraftHandler) RemovePriceOverride(c *gin.Context) {
	resp, err := h.service.RemovePriceOverride(c.Request.Context(), c.Param("id"), c.Param("price_id"))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Get the line item overrides
// @Description Exactly what submitting the draft would send to the billing API
// @Tags Drafts
// @Produce json
// @Security BearerAuth
// @Param id path string true "Draft ID"
// @Success 200 {object} dto.LineItemOverridesResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Router /drafts/{id}/line_item_overrides [get]
func (h *DraftHandler) GetLineItemOverrides(c *gin.Context) {
	resp, err := h.service.GetLineItemOverrides(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Add a credit grant
// @Tags Drafts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Draft ID"
// @Param request body dto.AddCreditGrantRequest true "Credit grant"
// @Success 200 {object} dto.DraftResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Router /drafts/{id}/credit_grants [post]
func (h *DraftHandler) AddCreditGrant(c *gin.Context) {
	var req dto.AddCreditGrantRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.service.AddCreditGrant(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Remove a credit grant
// @Tags Drafts
// @Produce json
// @Security BearerAuth
// @Param id path string true "Draft ID"
// @Param grant_id path string true "Credit grant ID"
// @Success 200 {object} dto.DraftResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Router /drafts/{id}/credit_grants/{grant_id} [delete]
func (h *DraftHandler) RemoveCreditGrant(c *gin.Context) {
	resp, err := h.service.RemoveCreditGrant(c.Request.Context(), c.Param("id"), c.Param("grant_id"))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Add an addon
// @Tags Drafts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Draft ID"
// @Param request body dto.AddAddonToSubscriptionRequest true "Addon"
// @Success 200 {object} dto.DraftResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Router /drafts/{id}/addons [post]
func (h *DraftHandler) AddAddon(c *gin.Context) {
	var req dto.AddAddonToSubscriptionRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.service.AddAddon(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Remove an addon
// @Tags Drafts
// @Produce json
// @Security BearerAuth
// @Param id path string true "Draft ID"
// @Param addon_id path string true "Addon ID"
// @Success 200 {object} dto.DraftResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Router /drafts/{id}/addons/{addon_id} [delete]
func (h *DraftHandler) RemoveAddon(c *gin.Context) {
	resp, err := h.service.RemoveAddon(c.Request.Context(), c.Param("id"), c.Param("addon_id"))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Apply a coupon
// @Tags Drafts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Draft ID"
// @Param request body dto.ApplyCouponRequest true "Coupon"
// @Success 200 {object} dto.DraftResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Router /drafts/{id}/coupons [post]
func (h *DraftHandler) AddCoupon(c *gin.Context) {
	var req dto.ApplyCouponRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.service.AddCoupon(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Remove a coupon
// @Tags Drafts
// @Produce json
// @Security BearerAuth
// @Param id path string true "Draft ID"
// @Param coupon_id path string true "Coupon ID"
// @Success 200 {object} dto.DraftResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Router /drafts/{id}/coupons/{coupon_id} [delete]
func (h *DraftHandler) RemoveCoupon(c *gin.Context) {
	resp, err := h.service.RemoveCoupon(c.Request.Context(), c.Param("id"), c.Param("coupon_id"))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Submit a draft
// @Description Send every sparse edit of the draft to the billing API, dry_run returns the payload instead
// @Tags Drafts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Draft ID"
// @Param request body dto.SubmitDraftRequest false "Submit options"
// @Success 200 {object} dto.SubmitDraftResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Failure 502 {object} ierr.ErrorResponse
// @Router /drafts/{id}/submit [post]
func (h *DraftHandler) SubmitDraft(c *gin.Context) {
	var req dto.SubmitDraftRequest
	if c.Request.ContentLength != 0 && !bindJSON(c, &req) {
		return
	}

	resp, err := h.service.SubmitDraft(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// bindJSON decodes the body into req and reports a validation error when it cannot
func bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return false
	}
	return true
}
