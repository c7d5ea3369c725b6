package testutil

import (
	"context"
	"sync"

	"github.com/flexprice/console/internal/api/dto"
	"github.com/flexprice/console/internal/domain/price"
	"github.com/flexprice/console/internal/domain/priceunit"
	ierr "github.com/flexprice/console/internal/errors"
	"github.com/flexprice/console/internal/flexprice"
)

var _ flexprice.Client = (*MockFlexpriceClient)(nil)

// LineItemUpdateCall is one recorded UpdateSubscriptionLineItem call
type LineItemUpdateCall struct {
	LineItemID string
	Request    *dto.UpdateSubscriptionLineItemRequest
}

// MockFlexpriceClient records the mutations sent to the billing API. Reads
// are served from the in-memory price and price unit stores.
type MockFlexpriceClient struct {
	mu sync.Mutex

	Prices     *InMemoryPriceStore
	PriceUnits *InMemoryPriceUnitStore

	Subscriptions   []*dto.CreateSubscriptionRequest
	LineItemUpdates []LineItemUpdateCall

	// CreateSubscriptionErr fails every CreateSubscription call when set
	CreateSubscriptionErr error
	// LineItemErrs fails UpdateSubscriptionLineItem for the given line item ids
	LineItemErrs map[string]error
	// HealthErr fails Health and WaitUntilReady when set
	HealthErr error
}

func NewMockFlexpriceClient(prices *InMemoryPriceStore, units *InMemoryPriceUnitStore) *MockFlexpriceClient {
	return &MockFlexpriceClient{
		Prices:       prices,
		PriceUnits:   units,
		LineItemErrs: make(map[string]error),
	}
}

func (m *MockFlexpriceClient) GetPrice(ctx context.Context, id string) (*price.Price, error) {
	return m.Prices.Get(ctx, id)
}

func (m *MockFlexpriceClient) ListPrices(ctx context.Context, ids []string) ([]*price.Price, error) {
	return m.Prices.List(ctx, ids)
}

func (m *MockFlexpriceClient) ListPriceUnits(ctx context.Context) ([]*priceunit.PriceUnit, error) {
	return m.PriceUnits.List(ctx)
}

func (m *MockFlexpriceClient) CreateSubscription(ctx context.Context, req *dto.CreateSubscriptionRequest) (*dto.SubscriptionResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.CreateSubscriptionErr != nil {
		return nil, m.CreateSubscriptionErr
	}
	m.Subscriptions = append(m.Subscriptions, req)
	return &dto.SubscriptionResponse{
		ID:                 "sub_" + req.CustomerID,
		CustomerID:         req.CustomerID,
		PlanID:             req.PlanID,
		Currency:           req.Currency,
		SubscriptionStatus: "active",
	}, nil
}

func (m *MockFlexpriceClient) UpdateSubscriptionLineItem(ctx context.Context, lineItemID string, req *dto.UpdateSubscriptionLineItemRequest) (*dto.SubscriptionLineItemResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err, ok := m.LineItemErrs[lineItemID]; ok {
		return nil, err
	}
	m.LineItemUpdates = append(m.LineItemUpdates, LineItemUpdateCall{
		LineItemID: lineItemID,
		Request:    req,
	})
	return &dto.SubscriptionLineItemResponse{
		ID:     lineItemID + "_next",
		Status: "published",
	}, nil
}

func (m *MockFlexpriceClient) Health(ctx context.Context) error {
	return m.HealthErr
}

func (m *MockFlexpriceClient) WaitUntilReady(ctx context.Context) error {
	return m.HealthErr
}

// UpstreamError is what the client returns for a rejected request
func UpstreamError(hint string) error {
	return ierr.NewError("billing api rejected the request").
		WithHint(hint).
		Mark(ierr.ErrValidation)
}
