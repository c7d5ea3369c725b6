package override

import (
	"testing"

	"github.com/flexprice/console/internal/domain/price"
	"github.com/flexprice/console/internal/types"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
)

func fiatFlatPrice() *price.Price {
	return &price.Price{
		ID:            "p1",
		Type:          types.PRICE_TYPE_FIXED,
		PriceUnitType: types.PRICE_UNIT_TYPE_FIAT,
		Currency:      "usd",
		Amount:        "10.00",
		BillingModel:  types.BILLING_MODEL_FLAT_FEE,
	}
}

func tieredPrice() *price.Price {
	return &price.Price{
		ID:            "p2",
		Type:          types.PRICE_TYPE_USAGE,
		PriceUnitType: types.PRICE_UNIT_TYPE_FIAT,
		Currency:      "usd",
		BillingModel:  types.BILLING_MODEL_TIERED,
		TierMode:      types.BILLING_TIER_VOLUME,
		Tiers: []price.PriceTier{
			{UpTo: lo.ToPtr(uint64(100)), UnitAmount: "1.00"},
			{UpTo: nil, UnitAmount: "0.50"},
		},
	}
}

func customPrice() *price.Price {
	return &price.Price{
		ID:              "p3",
		Type:            types.PRICE_TYPE_USAGE,
		PriceUnitType:   types.PRICE_UNIT_TYPE_CUSTOM,
		Currency:        "usd",
		Amount:          "0.10",
		PriceUnit:       "crd",
		PriceUnitAmount: "2",
		PriceUnitSymbol: "©",
		BillingModel:    types.BILLING_MODEL_FLAT_FEE,
	}
}

func TestResolveDisplay(t *testing.T) {
	tests := []struct {
		name     string
		price    *price.Price
		expected Display
	}{
		{
			name:     "fiat price uses amount and currency symbol",
			price:    fiatFlatPrice(),
			expected: Display{Amount: "10.00", Symbol: "$"},
		},
		{
			name:  "fiat tiered price keeps tiers",
			price: tieredPrice(),
			expected: Display{Amount: "0", Symbol: "$", Tiers: []price.PriceTier{
				{UpTo: lo.ToPtr(uint64(100)), UnitAmount: "1.00"},
				{UpTo: nil, UnitAmount: "0.50"},
			}},
		},
		{
			name:     "custom price uses unit amount and unit symbol",
			price:    customPrice(),
			expected: Display{Amount: "2", Symbol: "©"},
		},
		{
			name: "custom price falls back to config amount and unit code",
			price: &price.Price{
				PriceUnitType:   types.PRICE_UNIT_TYPE_CUSTOM,
				Currency:        "eur",
				Amount:          "9",
				PriceUnitConfig: &price.PriceUnitConfig{PriceUnit: "tok", Amount: "3.5"},
			},
			expected: Display{Amount: "3.5", Symbol: "tok"},
		},
		{
			name: "custom price falls back to price_unit field then fiat amount",
			price: &price.Price{
				PriceUnitType: types.PRICE_UNIT_TYPE_CUSTOM,
				Currency:      "eur",
				Amount:        "9",
				PriceUnit:     "gem",
			},
			expected: Display{Amount: "9", Symbol: "gem"},
		},
		{
			name: "custom price with nothing falls back to currency symbol and zero",
			price: &price.Price{
				PriceUnitType: types.PRICE_UNIT_TYPE_CUSTOM,
				Currency:      "gbp",
			},
			expected: Display{Amount: "0", Symbol: "£"},
		},
		{
			name: "custom price uses config tiers when unit tiers are missing",
			price: &price.Price{
				PriceUnitType: types.PRICE_UNIT_TYPE_CUSTOM,
				PriceUnitConfig: &price.PriceUnitConfig{
					PriceUnit:      "crd",
					PriceUnitTiers: []price.PriceTier{{UnitAmount: "4"}},
				},
				PriceUnitTiers: []price.PriceTier{},
			},
			expected: Display{Amount: "0", Symbol: "crd", Tiers: []price.PriceTier{{UnitAmount: "4"}}},
		},
		{
			name:     "unknown currency code is shown as is",
			price:    &price.Price{Currency: "xyz"},
			expected: Display{Amount: "0", Symbol: "xyz"},
		},
		{
			name:     "nil price",
			price:    nil,
			expected: Display{Amount: "0"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ResolveDisplay(tt.price))
		})
	}
}

func TestNormalize_EmptyOverrideEqualsNoOverride(t *testing.T) {
	prices := []*price.Price{fiatFlatPrice(), tieredPrice(), customPrice(), {}, nil}
	for _, p := range prices {
		assert.Equal(t, Normalize(p, nil), Normalize(p, &PriceOverride{}))
		assert.Equal(t, Normalize(p, nil), Normalize(p, &PriceOverride{PriceID: "p1"}))
	}
}

func TestNormalize_NeverEmptyAmount(t *testing.T) {
	prices := []*price.Price{
		nil,
		{},
		{PriceUnitType: types.PRICE_UNIT_TYPE_CUSTOM},
		{PriceUnitType: types.PRICE_UNIT_TYPE_CUSTOM, PriceUnitConfig: &price.PriceUnitConfig{}},
		{PriceUnitType: types.PRICE_UNIT_TYPE_FIAT, Tiers: []price.PriceTier{}},
	}
	for _, p := range prices {
		n := Normalize(p, nil)
		assert.NotEmpty(t, n.Amount)
		assert.NotPanics(t, func() { Format(n) })
	}
}

func TestNormalize_OverridePrecedence(t *testing.T) {
	t.Run("fiat amount and tiers", func(t *testing.T) {
		n := Normalize(tieredPrice(), &PriceOverride{
			Amount:          "5",
			PriceUnitAmount: "99",
			Tiers:           []price.PriceTier{{UnitAmount: "0.75"}},
		})
		assert.Equal(t, "5", n.Amount)
		assert.Equal(t, []price.PriceTier{{UnitAmount: "0.75"}}, n.Tiers)
		assert.Equal(t, "$", n.Symbol)
	})

	t.Run("missing currency falls back to the generic sign", func(t *testing.T) {
		p := fiatFlatPrice()
		p.Currency = ""
		n := Normalize(p, nil)
		assert.Equal(t, "¤", n.Symbol)
		assert.Equal(t, "¤10.00", Format(n))

		p.Currency = "xyz"
		assert.Equal(t, "xyz", Normalize(p, nil).Symbol)
	})

	t.Run("custom amount ignores fiat override", func(t *testing.T) {
		n := Normalize(customPrice(), &PriceOverride{Amount: "5", PriceUnitAmount: "7"})
		assert.Equal(t, "7", n.Amount)
		assert.Equal(t, "©", n.Symbol)

		n = Normalize(customPrice(), &PriceOverride{Amount: "5"})
		assert.Equal(t, "2", n.Amount)
	})

	t.Run("slab tiered forces slab tier mode", func(t *testing.T) {
		n := Normalize(tieredPrice(), &PriceOverride{
			BillingModel: types.BILLING_MODEL_OPTION_SLAB_TIERED,
			TierMode:     types.BILLING_TIER_VOLUME,
		})
		assert.Equal(t, types.BILLING_MODEL_OPTION_SLAB_TIERED, n.BillingModel)
		assert.Equal(t, types.BILLING_TIER_SLAB, n.TierMode)
	})

	t.Run("tiered forces volume tier mode", func(t *testing.T) {
		p := tieredPrice()
		p.TierMode = types.BILLING_TIER_SLAB
		n := Normalize(p, &PriceOverride{
			BillingModel: types.BILLING_MODEL_OPTION_TIERED,
			TierMode:     types.BILLING_TIER_SLAB,
		})
		assert.Equal(t, types.BILLING_MODEL_OPTION_TIERED, n.BillingModel)
		assert.Equal(t, types.BILLING_TIER_VOLUME, n.TierMode)
	})

	t.Run("tier mode override", func(t *testing.T) {
		n := Normalize(tieredPrice(), &PriceOverride{TierMode: types.BILLING_TIER_SLAB})
		assert.Equal(t, types.BILLING_MODEL_OPTION_TIERED, n.BillingModel)
		assert.Equal(t, types.BILLING_TIER_SLAB, n.TierMode)
	})

	t.Run("transform quantity", func(t *testing.T) {
		p := fiatFlatPrice()
		p.BillingModel = types.BILLING_MODEL_PACKAGE
		p.TransformQuantity = &price.TransformQuantity{DivideBy: 10, Round: types.ROUND_UP}
		assert.Equal(t, 10, Normalize(p, nil).TransformQuantity.DivideBy)

		n := Normalize(p, &PriceOverride{TransformQuantity: &price.TransformQuantity{DivideBy: 50}})
		assert.Equal(t, 50, n.TransformQuantity.DivideBy)
		assert.Nil(t, Normalize(fiatFlatPrice(), nil).TransformQuantity)
	})
}

func TestFormat(t *testing.T) {
	pkg := fiatFlatPrice()
	pkg.BillingModel = types.BILLING_MODEL_PACKAGE
	pkg.Amount = "5"
	pkg.TransformQuantity = &price.TransformQuantity{DivideBy: 100}

	tests := []struct {
		name     string
		price    *price.Price
		override *PriceOverride
		expected string
	}{
		{
			name:     "tiered price without override",
			price:    tieredPrice(),
			expected: "starts at $1.00 per unit",
		},
		{
			name:     "flat fee",
			price:    fiatFlatPrice(),
			expected: "$10.00",
		},
		{
			name:     "flat fee with amount override",
			price:    fiatFlatPrice(),
			override: &PriceOverride{Amount: "12.50"},
			expected: "$12.50",
		},
		{
			name:     "package",
			price:    pkg,
			expected: "$5 / 100 units",
		},
		{
			name:     "package override of a flat fee defaults divide by to 1",
			price:    fiatFlatPrice(),
			override: &PriceOverride{BillingModel: types.BILLING_MODEL_OPTION_PACKAGE},
			expected: "$10.00 / 1 units",
		},
		{
			name:     "slab tiered override without tiers",
			price:    fiatFlatPrice(),
			override: &PriceOverride{BillingModel: types.BILLING_MODEL_OPTION_SLAB_TIERED},
			expected: "starts at $0 per unit",
		},
		{
			name:     "custom unit",
			price:    customPrice(),
			expected: "©2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Format(Normalize(tt.price, tt.override)))
		})
	}

	assert.Equal(t, "€3", Format(NormalizedDisplay{Amount: "3", Symbol: "€", BillingModel: "OTHER"}))
}
