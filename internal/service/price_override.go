package service

import (
	"context"

	"github.com/flexprice/console/internal/api/dto"
	"github.com/flexprice/console/internal/domain/override"
	"github.com/flexprice/console/internal/domain/price"
	"github.com/flexprice/console/internal/domain/priceunit"
	ierr "github.com/flexprice/console/internal/errors"
	"github.com/flexprice/console/internal/types"
	"github.com/samber/lo"
)

// PriceOverrideService renders prices with overrides applied without storing anything
type PriceOverrideService interface {
	Preview(ctx context.Context, req dto.PreviewPriceRequest) (*dto.PricePreviewResponse, error)
}

type priceOverrideService struct {
	ServiceParams
}

func NewPriceOverrideService(params ServiceParams) PriceOverrideService {
	return &priceOverrideService{
		ServiceParams: params,
	}
}

func (s *priceOverrideService) Preview(ctx context.Context, req dto.PreviewPriceRequest) (*dto.PricePreviewResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	prices, err := s.resolvePrices(ctx, req)
	if err != nil {
		return nil, err
	}

	overrides := req.OverrideSet()
	known := lo.SliceToMap(prices, func(p *price.Price) (string, *price.Price) {
		return p.ID, p
	})

	var validationErr error
	overrides.Each(func(o *override.PriceOverride) bool {
		p, ok := known[o.PriceID]
		if !ok {
			validationErr = ierr.NewError("override for an unknown price").
				WithHintf("Price %s is not part of the preview", o.PriceID).
				WithReportableDetails(map[string]any{
					"price_id": o.PriceID,
				}).
				Mark(ierr.ErrValidation)
			return false
		}
		validationErr = o.Validate(p)
		return validationErr == nil
	})
	if validationErr != nil {
		return nil, validationErr
	}

	return &dto.PricePreviewResponse{
		Items:             dto.NewPricePreviews(prices, overrides),
		OverrideLineItems: dto.NewOverrideLineItems(prices, overrides),
	}, nil
}

// resolvePrices returns the inline prices followed by the ones loaded by id.
// Inline prices win over loaded ones with the same id.
func (s *priceOverrideService) resolvePrices(ctx context.Context, req dto.PreviewPriceRequest) ([]*price.Price, error) {
	inline := lo.UniqBy(req.Prices, func(p *price.Price) string { return p.ID })
	if err := s.fillInlineSymbols(ctx, inline); err != nil {
		return nil, err
	}

	inlineIDs := lo.Map(inline, func(p *price.Price, _ int) string { return p.ID })
	ids := lo.Without(lo.Uniq(req.PriceIDs), inlineIDs...)
	if len(ids) == 0 {
		return inline, nil
	}

	loaded, err := s.PriceRepo.List(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(loaded) != len(ids) {
		_, missing := lo.Difference(lo.Map(loaded, func(p *price.Price, _ int) string { return p.ID }), ids)
		return nil, ierr.NewError("prices not found").
			WithHint("Some of the requested prices were not found").
			WithReportableDetails(map[string]any{
				"price_ids": missing,
			}).
			Mark(ierr.ErrNotFound)
	}
	return append(inline, loaded...), nil
}

// fillInlineSymbols looks up unit symbols of inline CUSTOM prices, loaded
// prices already carry them
func (s *priceOverrideService) fillInlineSymbols(ctx context.Context, prices []*price.Price) error {
	custom := lo.Filter(prices, func(p *price.Price, _ int) bool {
		return p.PriceUnitType == types.PRICE_UNIT_TYPE_CUSTOM && p.PriceUnitSymbol == ""
	})
	if len(custom) == 0 {
		return nil
	}

	units, err := s.PriceUnitRepo.List(ctx)
	if err != nil {
		return err
	}
	idx := priceunit.NewSymbolIndex(units)
	for _, p := range custom {
		code := p.PriceUnit
		if p.PriceUnitConfig != nil {
			code = lo.CoalesceOrEmpty(p.PriceUnitConfig.PriceUnit, code)
		}
		p.PriceUnitSymbol = idx.Lookup(code)
	}
	return nil
}
