package override

import (
	"encoding/json"

	"github.com/flexprice/console/internal/domain/price"
	"github.com/flexprice/console/internal/types"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// PriceOverride is a sparse edit of one price for one billing relationship.
// Empty strings, nil pointers and empty slices mean "not overridden".
type PriceOverride struct {
	PriceID string `json:"price_id"`

	// Amount replaces the fiat amount, ignored for custom unit prices
	Amount string `json:"amount,omitempty"`

	// PriceUnitAmount replaces the custom unit amount, ignored for fiat prices
	PriceUnitAmount string `json:"price_unit_amount,omitempty"`

	// Quantity is never sent for usage prices
	Quantity *decimal.Decimal `json:"quantity,omitempty"`

	BillingModel types.BillingModelOption `json:"billing_model,omitempty"`
	TierMode     types.BillingTier        `json:"tier_mode,omitempty"`

	Tiers          []price.PriceTier `json:"tiers,omitempty"`
	PriceUnitTiers []price.PriceTier `json:"price_unit_tiers,omitempty"`

	TransformQuantity *price.TransformQuantity `json:"transform_quantity,omitempty"`

	// EffectiveFrom schedules the change, YYYY-MM-DD or RFC3339
	EffectiveFrom string `json:"effective_from,omitempty"`

	// Commitment is configured independently of the price fields
	Commitment *Commitment `json:"commitment,omitempty"`
}

// Commitment is a minimum usage guarantee on a usage price
type Commitment struct {
	Type          types.CommitmentType `json:"type,omitempty"`
	Amount        *decimal.Decimal     `json:"amount,omitempty"`
	Quantity      *decimal.Decimal     `json:"quantity,omitempty"`
	OverageFactor *decimal.Decimal     `json:"overage_factor,omitempty"`
	TrueUpEnabled bool                 `json:"true_up_enabled,omitempty"`
	Windowed      bool                 `json:"windowed,omitempty"`
}

// HasPriceChanges reports whether any field that changes the price itself is set
func (o *PriceOverride) HasPriceChanges() bool {
	if o == nil {
		return false
	}
	return o.Amount != "" ||
		o.Quantity != nil ||
		o.BillingModel != "" ||
		o.TierMode != "" ||
		len(o.Tiers) > 0 ||
		o.TransformQuantity != nil ||
		o.PriceUnitAmount != "" ||
		len(o.PriceUnitTiers) > 0
}

// IsEmpty is true when the override is equivalent to no override at all.
// EffectiveFrom on its own schedules nothing.
func (o *PriceOverride) IsEmpty() bool {
	return !o.HasPriceChanges() && (o == nil || o.Commitment == nil)
}

// Merge applies the fields set on patch, last write wins
func (o *PriceOverride) Merge(patch *PriceOverride) {
	if patch == nil {
		return
	}
	if patch.Amount != "" {
		o.Amount = patch.Amount
	}
	if patch.PriceUnitAmount != "" {
		o.PriceUnitAmount = patch.PriceUnitAmount
	}
	if patch.Quantity != nil {
		o.Quantity = patch.Quantity
	}
	if patch.BillingModel != "" {
		o.BillingModel = patch.BillingModel
	}
	if patch.TierMode != "" {
		o.TierMode = patch.TierMode
	}
	if len(patch.Tiers) > 0 {
		o.Tiers = patch.Tiers
	}
	if len(patch.PriceUnitTiers) > 0 {
		o.PriceUnitTiers = patch.PriceUnitTiers
	}
	if patch.TransformQuantity != nil {
		o.TransformQuantity = patch.TransformQuantity
	}
	if patch.EffectiveFrom != "" {
		o.EffectiveFrom = patch.EffectiveFrom
	}
	if patch.Commitment != nil {
		o.Commitment = patch.Commitment
	}
}

// Clear unsets the given fields
func (o *PriceOverride) Clear(fields ...Field) {
	for _, f := range fields {
		switch f {
		case FieldAmount:
			o.Amount = ""
		case FieldPriceUnitAmount:
			o.PriceUnitAmount = ""
		case FieldQuantity:
			o.Quantity = nil
		case FieldBillingModel:
			o.BillingModel = ""
		case FieldTierMode:
			o.TierMode = ""
		case FieldTiers:
			o.Tiers = nil
		case FieldPriceUnitTiers:
			o.PriceUnitTiers = nil
		case FieldTransformQuantity:
			o.TransformQuantity = nil
		case FieldEffectiveFrom:
			o.EffectiveFrom = ""
		case FieldCommitment:
			o.Commitment = nil
		}
	}
}

// Clone returns a deep copy
func (o *PriceOverride) Clone() *PriceOverride {
	if o == nil {
		return nil
	}
	c := *o
	if o.Quantity != nil {
		c.Quantity = lo.ToPtr(*o.Quantity)
	}
	c.Tiers = cloneTiers(o.Tiers)
	c.PriceUnitTiers = cloneTiers(o.PriceUnitTiers)
	if o.TransformQuantity != nil {
		c.TransformQuantity = lo.ToPtr(*o.TransformQuantity)
	}
	if o.Commitment != nil {
		cm := *o.Commitment
		c.Commitment = &cm
	}
	return &c
}

func cloneTiers(tiers []price.PriceTier) []price.PriceTier {
	if tiers == nil {
		return nil
	}
	out := make([]price.PriceTier, len(tiers))
	for i, t := range tiers {
		out[i] = t
		if t.UpTo != nil {
			out[i].UpTo = lo.ToPtr(*t.UpTo)
		}
	}
	return out
}

// Set holds the overrides of one form keyed by price id, in insertion order
type Set struct {
	order []string
	items map[string]*PriceOverride
}

func NewSet() *Set {
	return &Set{items: make(map[string]*PriceOverride)}
}

// Put stores the override, replacing any previous one for the same price
// while keeping its position. Empty overrides are pruned instead of stored,
// in which case Put returns false.
func (s *Set) Put(o *PriceOverride) bool {
	if o == nil || o.PriceID == "" {
		return false
	}
	if o.IsEmpty() {
		s.Delete(o.PriceID)
		return false
	}
	if _, ok := s.items[o.PriceID]; !ok {
		s.order = append(s.order, o.PriceID)
	}
	s.items[o.PriceID] = o
	return true
}

func (s *Set) Get(priceID string) (*PriceOverride, bool) {
	if s == nil {
		return nil, false
	}
	o, ok := s.items[priceID]
	return o, ok
}

func (s *Set) Delete(priceID string) {
	if _, ok := s.items[priceID]; !ok {
		return
	}
	delete(s.items, priceID)
	s.order = lo.Without(s.order, priceID)
}

func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.order)
}

// All returns the overrides in insertion order
func (s *Set) All() []*PriceOverride {
	if s == nil {
		return nil
	}
	out := make([]*PriceOverride, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.items[id])
	}
	return out
}

// Each calls fn for every override in insertion order until fn returns false
func (s *Set) Each(fn func(o *PriceOverride) bool) {
	for _, o := range s.All() {
		if !fn(o) {
			return
		}
	}
}

// PriceIDs returns the overridden price ids in insertion order
func (s *Set) PriceIDs() []string {
	if s == nil {
		return nil
	}
	return append([]string(nil), s.order...)
}

// Clone returns a deep copy
func (s *Set) Clone() *Set {
	c := NewSet()
	for _, o := range s.All() {
		c.Put(o.Clone())
	}
	return c
}

// MarshalJSON encodes the set as an array to keep the insertion order
func (s *Set) MarshalJSON() ([]byte, error) {
	return json.Marshal(lo.Ternary(s == nil, []*PriceOverride{}, s.All()))
}

func (s *Set) UnmarshalJSON(data []byte) error {
	var items []*PriceOverride
	if err := json.Unmarshal(data, &items); err != nil {
		return err
	}
	*s = *NewSet()
	for _, o := range items {
		s.Put(o)
	}
	return nil
}
