package flexprice

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/flexprice/console/internal/api/dto"
	"github.com/flexprice/console/internal/config"
	"github.com/flexprice/console/internal/domain/price"
	"github.com/flexprice/console/internal/domain/priceunit"
	ierr "github.com/flexprice/console/internal/errors"
	"github.com/flexprice/console/internal/httpclient"
	"github.com/flexprice/console/internal/logger"
	"github.com/flexprice/console/internal/sentry"
	"github.com/flexprice/console/internal/types"
	jsoniter "github.com/json-iterator/go"
	"golang.org/x/time/rate"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Client is the part of the flexprice billing API the console drives
type Client interface {
	GetPrice(ctx context.Context, id string) (*price.Price, error)
	ListPrices(ctx context.Context, ids []string) ([]*price.Price, error)
	ListPriceUnits(ctx context.Context) ([]*priceunit.PriceUnit, error)
	CreateSubscription(ctx context.Context, req *dto.CreateSubscriptionRequest) (*dto.SubscriptionResponse, error)
	UpdateSubscriptionLineItem(ctx context.Context, lineItemID string, req *dto.UpdateSubscriptionLineItemRequest) (*dto.SubscriptionLineItemResponse, error)
	Health(ctx context.Context) error
	WaitUntilReady(ctx context.Context) error
}

type client struct {
	http         httpclient.Client
	baseURL      string
	apiKey       string
	limiter      *rate.Limiter
	readyTimeout time.Duration
	sentry       *sentry.Service
	logger       *logger.Logger
}

// NewClient creates a client for the billing API configured under flexprice
func NewClient(cfg *config.Configuration, httpClient httpclient.Client, sentrySvc *sentry.Service, log *logger.Logger) Client {
	return &client{
		http:         httpClient,
		baseURL:      strings.TrimRight(cfg.Flexprice.BaseURL, "/"),
		apiKey:       cfg.Flexprice.APIKey,
		limiter:      rate.NewLimiter(rate.Limit(cfg.Flexprice.RateLimit), cfg.Flexprice.RateBurst),
		readyTimeout: cfg.Flexprice.ReadyTimeout,
		sentry:       sentrySvc,
		logger:       log,
	}
}

func (c *client) GetPrice(ctx context.Context, id string) (*price.Price, error) {
	var p price.Price
	if err := c.do(ctx, http.MethodGet, "/v1/prices/"+url.PathEscape(id), nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *client) ListPrices(ctx context.Context, ids []string) ([]*price.Price, error) {
	if len(ids) == 0 {
		return []*price.Price{}, nil
	}

	query := url.Values{}
	for _, id := range ids {
		query.Add("price_ids", id)
	}
	query.Set("limit", "1000")

	var resp dto.ListPricesResponse
	if err := c.do(ctx, http.MethodGet, "/v1/prices?"+query.Encode(), nil, &resp); err != nil {
		return nil, err
	}
	return resp.Items, nil
}

func (c *client) ListPriceUnits(ctx context.Context) ([]*priceunit.PriceUnit, error) {
	var resp dto.ListPriceUnitsResponse
	if err := c.do(ctx, http.MethodGet, "/v1/prices/units?status=published&limit=1000", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Items, nil
}

func (c *client) CreateSubscription(ctx context.Context, req *dto.CreateSubscriptionRequest) (*dto.SubscriptionResponse, error) {
	var resp dto.SubscriptionResponse
	if err := c.do(ctx, http.MethodPost, "/v1/subscriptions", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *client) UpdateSubscriptionLineItem(ctx context.Context, lineItemID string, req *dto.UpdateSubscriptionLineItemRequest) (*dto.SubscriptionLineItemResponse, error) {
	var resp dto.SubscriptionLineItemResponse
	path := "/v1/subscriptions/lineitems/" + url.PathEscape(lineItemID)
	if err := c.do(ctx, http.MethodPut, path, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *client) Health(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/health", nil, nil)
}

// WaitUntilReady polls the health endpoint with exponential backoff until
// it answers or the ready timeout elapses
func (c *client) WaitUntilReady(ctx context.Context) error {
	if c.readyTimeout <= 0 {
		return nil
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 200 * time.Millisecond
	b.MaxInterval = 5 * time.Second
	b.MaxElapsedTime = c.readyTimeout

	attempt := 0
	return backoff.Retry(func() error {
		attempt++
		err := c.Health(ctx)
		if err != nil {
			c.logger.Debugw("billing api not ready yet", "attempt", attempt, "error", err)
		}
		return err
	}, backoff.WithContext(b, ctx))
}

func (c *client) do(ctx context.Context, method, path string, body, out any) (err error) {
	span, ctx := c.sentry.StartHTTPSpan(ctx, "flexprice."+strings.ToLower(method), map[string]interface{}{
		"method": method,
		"path":   path,
	})
	defer func() { sentry.FinishSpan(span, err) }()

	if err := c.limiter.Wait(ctx); err != nil {
		return ierr.WithError(err).
			WithHint("The request was cancelled").
			Mark(ierr.ErrHTTPClient)
	}

	req := &httpclient.Request{
		Method:  method,
		URL:     c.baseURL + path,
		Headers: c.headers(ctx),
	}
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return ierr.WithError(err).
				WithHint("Failed to encode the billing request").
				Mark(ierr.ErrSystem)
		}
		req.Body = data
	}

	start := time.Now()
	resp, err := c.http.Send(ctx, req)
	if err != nil {
		c.logger.Debugw("billing api request failed",
			"method", method,
			"path", path,
			"duration_ms", time.Since(start).Milliseconds(),
			"error", err,
		)
		return mapError(err)
	}

	if out == nil || len(resp.Body) == 0 {
		return nil
	}
	if err := json.Unmarshal(resp.Body, out); err != nil {
		return ierr.WithError(err).
			WithHint("The billing service returned an unexpected response").
			Mark(ierr.ErrHTTPClient)
	}
	return nil
}

func (c *client) headers(ctx context.Context) map[string]string {
	headers := map[string]string{
		"Accept": "application/json",
	}
	if c.apiKey != "" {
		headers[types.HeaderAPIKey] = c.apiKey
	}
	if env := types.GetEnvironmentID(ctx); env != "" {
		headers[types.HeaderEnvironment] = env
	}
	if requestID := types.GetRequestID(ctx); requestID != "" {
		headers[types.HeaderRequestID] = requestID
	}
	return headers
}
