package dto

import (
	"github.com/flexprice/console/internal/domain/priceunit"
	"github.com/flexprice/console/internal/types"
)

// ListPriceUnitsResponse is the billing API's price unit list
type ListPriceUnitsResponse = types.ListResponse[*priceunit.PriceUnit]
