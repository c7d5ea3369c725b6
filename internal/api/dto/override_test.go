package dto

import (
	"encoding/json"
	"testing"

	"github.com/flexprice/console/internal/domain/override"
	"github.com/flexprice/console/internal/domain/price"
	"github.com/flexprice/console/internal/types"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPrices() []*price.Price {
	return []*price.Price{
		{
			ID:            "p1",
			Type:          types.PRICE_TYPE_FIXED,
			PriceUnitType: types.PRICE_UNIT_TYPE_FIAT,
			Currency:      "usd",
			Amount:        "10.00",
			BillingModel:  types.BILLING_MODEL_FLAT_FEE,
		},
		{
			ID:            "usage",
			Type:          types.PRICE_TYPE_USAGE,
			PriceUnitType: types.PRICE_UNIT_TYPE_FIAT,
			Currency:      "usd",
			Amount:        "0.01",
			BillingModel:  types.BILLING_MODEL_FLAT_FEE,
		},
		{
			ID:              "custom",
			Type:            types.PRICE_TYPE_USAGE,
			PriceUnitType:   types.PRICE_UNIT_TYPE_CUSTOM,
			Currency:        "usd",
			PriceUnit:       "crd",
			PriceUnitAmount: "2",
			BillingModel:    types.BILLING_MODEL_FLAT_FEE,
		},
	}
}

func toMaps(t *testing.T, items []OverrideLineItemRequest) []map[string]any {
	data, err := json.Marshal(items)
	require.NoError(t, err)
	var out []map[string]any
	require.NoError(t, json.Unmarshal(data, &out))
	return out
}

func TestNewOverrideLineItems_QuantityOnly(t *testing.T) {
	set := override.NewSet()
	set.Put(&override.PriceOverride{PriceID: "p1", Quantity: lo.ToPtr(decimal.NewFromInt(3))})

	items := NewOverrideLineItems(testPrices(), set)
	assert.Equal(t, []map[string]any{{"price_id": "p1", "quantity": float64(3)}}, toMaps(t, items))

	data, err := json.Marshal(items)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"price_id":"p1","quantity":3}]`, string(data))
}

func TestNewOverrideLineItems_UsageNeverSendsQuantity(t *testing.T) {
	set := override.NewSet()
	set.Put(&override.PriceOverride{PriceID: "usage", Quantity: lo.ToPtr(decimal.NewFromInt(5)), Amount: "0.02"})
	set.Put(&override.PriceOverride{PriceID: "custom", Quantity: lo.ToPtr(decimal.NewFromInt(5))})

	for _, item := range toMaps(t, NewOverrideLineItems(testPrices(), set)) {
		assert.NotContains(t, item, "quantity")
	}
}

func TestNewOverrideLineItems_MutuallyExclusiveAmounts(t *testing.T) {
	tiers := []price.PriceTier{{UpTo: lo.ToPtr(uint64(10)), UnitAmount: "1"}, {UnitAmount: "0.5"}}

	set := override.NewSet()
	set.Put(&override.PriceOverride{
		PriceID:         "custom",
		Amount:          "9",
		Tiers:           tiers,
		PriceUnitAmount: "3",
		PriceUnitTiers:  tiers,
	})
	set.Put(&override.PriceOverride{
		PriceID:         "p1",
		Amount:          "12.50",
		Tiers:           tiers,
		PriceUnitAmount: "3",
		PriceUnitTiers:  tiers,
	})

	items := toMaps(t, NewOverrideLineItems(testPrices(), set))
	require.Len(t, items, 2)

	custom := items[0]
	assert.Equal(t, "3", custom["price_unit_amount"])
	assert.Contains(t, custom, "price_unit_tiers")
	assert.NotContains(t, custom, "amount")
	assert.NotContains(t, custom, "tiers")

	fiat := items[1]
	assert.Equal(t, 12.5, fiat["amount"])
	assert.Contains(t, fiat, "tiers")
	assert.NotContains(t, fiat, "price_unit_amount")
	assert.NotContains(t, fiat, "price_unit_tiers")
}

func TestNewOverrideLineItems_BillingModelTranslation(t *testing.T) {
	tests := []struct {
		name         string
		billingModel types.BillingModelOption
		tierMode     types.BillingTier
		wantModel    types.BillingModel
		wantTierMode types.BillingTier
	}{
		{
			name:         "slab tiered",
			billingModel: types.BILLING_MODEL_OPTION_SLAB_TIERED,
			wantModel:    types.BILLING_MODEL_TIERED,
			wantTierMode: types.BILLING_TIER_SLAB,
		},
		{
			name:         "slab tiered ignores the override tier mode",
			billingModel: types.BILLING_MODEL_OPTION_SLAB_TIERED,
			tierMode:     types.BILLING_TIER_VOLUME,
			wantModel:    types.BILLING_MODEL_TIERED,
			wantTierMode: types.BILLING_TIER_SLAB,
		},
		{
			name:         "tiered is always volume",
			billingModel: types.BILLING_MODEL_OPTION_TIERED,
			tierMode:     types.BILLING_TIER_SLAB,
			wantModel:    types.BILLING_MODEL_TIERED,
			wantTierMode: types.BILLING_TIER_VOLUME,
		},
		{
			name:         "package passes tier mode through",
			billingModel: types.BILLING_MODEL_OPTION_PACKAGE,
			tierMode:     types.BILLING_TIER_SLAB,
			wantModel:    types.BILLING_MODEL_PACKAGE,
			wantTierMode: types.BILLING_TIER_SLAB,
		},
		{
			name:         "tier mode only",
			tierMode:     types.BILLING_TIER_SLAB,
			wantTierMode: types.BILLING_TIER_SLAB,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set := override.NewSet()
			set.Put(&override.PriceOverride{PriceID: "p1", BillingModel: tt.billingModel, TierMode: tt.tierMode})

			items := NewOverrideLineItems(testPrices(), set)
			require.Len(t, items, 1)
			assert.Equal(t, tt.wantModel, items[0].BillingModel)
			assert.Equal(t, tt.wantTierMode, items[0].TierMode)
			assert.NotEqual(t, "SLAB_TIERED", string(items[0].BillingModel))
		})
	}
}

func TestNewOverrideLineItems_Filtering(t *testing.T) {
	set := override.NewSet()
	set.Put(&override.PriceOverride{PriceID: "unknown", Amount: "1"})
	set.Put(&override.PriceOverride{PriceID: "p1", Amount: "11"})
	set.Put(&override.PriceOverride{PriceID: "usage", Amount: "0.02"})

	// an override left with only effective_from and commitment has no price fields
	set.Put(&override.PriceOverride{PriceID: "custom", EffectiveFrom: "2026-01-01", Commitment: &override.Commitment{}})

	items := NewOverrideLineItems(testPrices(), set)
	assert.Equal(t, []string{"p1", "usage"}, lo.Map(items, func(i OverrideLineItemRequest, _ int) string {
		return i.PriceID
	}))

	assert.Empty(t, NewOverrideLineItems(testPrices(), nil))
	assert.Empty(t, NewOverrideLineItems(nil, set))

	// a set never stores an override reduced to its price id, and the serializer skips it
	assert.False(t, set.Put(&override.PriceOverride{PriceID: "p1"}))
	assert.Len(t, NewOverrideLineItems(testPrices(), set), 1)

	items = NewOverrideLineItems(testPrices(), setOf(&override.PriceOverride{PriceID: "p1"}))
	assert.Empty(t, items)
}

func setOf(overrides ...*override.PriceOverride) *override.Set {
	s := override.NewSet()
	for _, o := range overrides {
		s.Put(o)
	}
	return s
}

func TestNewOverrideLineItem_Fields(t *testing.T) {
	p := testPrices()[0]
	o := &override.PriceOverride{
		PriceID:           "p1",
		Amount:            "not-a-number",
		BillingModel:      types.BILLING_MODEL_OPTION_PACKAGE,
		TransformQuantity: &price.TransformQuantity{DivideBy: 100, Round: types.ROUND_UP},
		Tiers:             []price.PriceTier{{UpTo: nil, UnitAmount: "1"}},
	}

	item := NewOverrideLineItem(p, o)
	assert.Nil(t, item.Amount)
	assert.Equal(t, o.TransformQuantity, item.TransformQuantity)

	data, err := json.Marshal(item)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"price_id": "p1",
		"billing_model": "PACKAGE",
		"tiers": [{"up_to": null, "unit_amount": "1", "flat_amount": "0"}],
		"transform_quantity": {"divide_by": 100, "round": "up"}
	}`, string(data))
}

func TestNewUpdateLineItemRequest(t *testing.T) {
	usage := testPrices()[1]
	o := &override.PriceOverride{
		PriceID:       "usage",
		Amount:        "0.02",
		Quantity:      lo.ToPtr(decimal.NewFromInt(4)),
		EffectiveFrom: "2026-03-01",
		Commitment: &override.Commitment{
			Amount:        lo.ToPtr(decimal.NewFromInt(100)),
			OverageFactor: lo.ToPtr(decimal.NewFromFloat(1.5)),
			TrueUpEnabled: true,
		},
	}

	req, err := NewUpdateLineItemRequest(usage, o)
	require.NoError(t, err)
	assert.Nil(t, req.Quantity)
	require.NotNil(t, req.Amount)
	assert.True(t, req.Amount.Equal(decimal.RequireFromString("0.02")))
	require.NotNil(t, req.EffectiveFrom)
	assert.Equal(t, "2026-03-01T00:00:00Z", req.EffectiveFrom.Format("2006-01-02T15:04:05Z07:00"))
	assert.Equal(t, types.COMMITMENT_TYPE_AMOUNT, req.CommitmentType)
	assert.True(t, req.HasCommitment())
	assert.True(t, *req.CommitmentTrueUpEnabled)
	assert.False(t, *req.CommitmentWindowed)

	_, err = NewUpdateLineItemRequest(usage, &override.PriceOverride{PriceID: "usage", Amount: "1", EffectiveFrom: "yesterday"})
	assert.Error(t, err)
}

func TestNumber(t *testing.T) {
	data, err := json.Marshal(struct {
		Amount *Number `json:"amount"`
	}{Amount: NewNumber(decimal.RequireFromString("10.50"))})
	require.NoError(t, err)
	assert.Equal(t, `{"amount":10.5}`, string(data))

	var n Number
	require.NoError(t, json.Unmarshal([]byte(`"3.25"`), &n))
	assert.Equal(t, "3.25", n.String())
	require.NoError(t, json.Unmarshal([]byte(`7`), &n))
	assert.Equal(t, "7", n.String())
}
