package api

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	v1 "github.com/flexprice/console/internal/api/v1"
	"github.com/flexprice/console/internal/domain/price"
	ierr "github.com/flexprice/console/internal/errors"
	"github.com/flexprice/console/internal/service"
	"github.com/flexprice/console/internal/testutil"
	"github.com/flexprice/console/internal/types"
	"github.com/gin-gonic/gin"
	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/suite"
)

type RouterSuite struct {
	testutil.BaseServiceTestSuite
	router *gin.Engine
}

func TestRouter(t *testing.T) {
	suite.Run(t, new(RouterSuite))
}

func (s *RouterSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)
	s.BaseServiceTestSuite.SetupSuite()
}

func (s *RouterSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()

	stores := s.GetStores()
	stores.PriceRepo.Put(&price.Price{
		ID:            "price_fixed",
		Type:          types.PRICE_TYPE_FIXED,
		PriceUnitType: types.PRICE_UNIT_TYPE_FIAT,
		Currency:      "usd",
		Amount:        "10.00",
		BillingModel:  types.BILLING_MODEL_FLAT_FEE,
	})

	params := service.ServiceParams{
		Logger:        s.GetLogger(),
		Config:        s.GetConfig(),
		Metrics:       s.GetMetrics(),
		Sentry:        s.GetSentry(),
		PriceRepo:     stores.PriceRepo,
		PriceUnitRepo: stores.PriceUnitRepo,
		DraftRepo:     stores.DraftRepo,
		Flexprice:     s.GetFlexprice(),
	}

	cfg := s.GetConfig()
	cfg.Auth.Enabled = false
	s.router = NewRouter(Handlers{
		Health: v1.NewHealthHandler(s.GetFlexprice(), s.GetLogger()),
		Price:  v1.NewPriceHandler(service.NewPriceOverrideService(params), s.GetLogger()),
		Draft:  v1.NewDraftHandler(service.NewDraftService(params), s.GetLogger()),
	}, cfg, s.GetLogger(), s.GetMetrics())
}

func (s *RouterSuite) do(method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set(types.HeaderEnvironment, "env_sandbox")

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *RouterSuite) decode(w *httptest.ResponseRecorder) map[string]any {
	var out map[string]any
	s.Require().NoError(jsoniter.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func (s *RouterSuite) createDraft() string {
	w := s.do(http.MethodPost, "/v1/drafts", `{
		"entity_type": "SUBSCRIPTION",
		"price_ids": ["price_fixed"],
		"subscription": {"customer_id": "cust_1", "plan_id": "plan_1", "currency": "usd"}
	}`)
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	id, _ := s.decode(w)["id"].(string)
	s.Require().NotEmpty(id)
	return id
}

func (s *RouterSuite) TestHealth() {
	w := s.do(http.MethodGet, "/health", "")
	s.Equal(http.StatusOK, w.Code)
	s.Equal("ok", s.decode(w)["flexprice"])

	s.GetFlexprice().HealthErr = ierr.NewError("down").Mark(ierr.ErrHTTPClient)
	w = s.do(http.MethodGet, "/health", "")
	s.Equal(http.StatusOK, w.Code)
	s.Equal("unavailable", s.decode(w)["flexprice"])
}

func (s *RouterSuite) TestMetricsScrape() {
	s.do(http.MethodGet, "/health", "")

	w := s.do(http.MethodGet, "/metrics", "")
	s.Equal(http.StatusOK, w.Code)
	s.Contains(w.Body.String(), `console_http_requests_total{method="GET",path="/health",status="200"} 1`)
}

func (s *RouterSuite) TestDraftLifecycle() {
	id := s.createDraft()

	w := s.do(http.MethodPut, "/v1/drafts/"+id+"/overrides/price_fixed", `{"amount": "12.00"}`)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	s.Equal(true, s.decode(w)["has_changes"])

	w = s.do(http.MethodPost, "/v1/drafts/"+id+"/coupons", `{"coupon_id": "coupon_1"}`)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	w = s.do(http.MethodGet, "/v1/drafts/"+id+"/line_item_overrides", "")
	s.Require().Equal(http.StatusOK, w.Code)
	items, _ := s.decode(w)["override_line_items"].([]any)
	s.Len(items, 1)

	w = s.do(http.MethodPost, "/v1/drafts/"+id+"/submit", `{"dry_run": true}`)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	s.Equal(true, s.decode(w)["dry_run"])
	s.Empty(s.GetFlexprice().Subscriptions)

	w = s.do(http.MethodPost, "/v1/drafts/"+id+"/submit", "")
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	s.Equal(string(types.SubmissionStatusSucceeded), s.decode(w)["status"])
	s.Len(s.GetFlexprice().Subscriptions, 1)

	w = s.do(http.MethodGet, "/v1/drafts/"+id, "")
	s.Equal(http.StatusNotFound, w.Code)
	s.Equal(false, s.decode(w)["success"])
}

func (s *RouterSuite) TestDiscardDraft() {
	id := s.createDraft()

	w := s.do(http.MethodDelete, "/v1/drafts/"+id, "")
	s.Equal(http.StatusNoContent, w.Code)

	w = s.do(http.MethodDelete, "/v1/drafts/"+id, "")
	s.Equal(http.StatusNotFound, w.Code)
}

func (s *RouterSuite) TestRemoveUnknownCoupon() {
	id := s.createDraft()

	w := s.do(http.MethodDelete, "/v1/drafts/"+id+"/coupons/coupon_missing", "")
	s.Equal(http.StatusNotFound, w.Code)
}

func (s *RouterSuite) TestInvalidBody() {
	id := s.createDraft()

	w := s.do(http.MethodPut, "/v1/drafts/"+id+"/overrides/price_fixed", `{"amount": `)
	s.Require().Equal(http.StatusBadRequest, w.Code)
	errBody, _ := s.decode(w)["error"].(map[string]any)
	s.Equal("Invalid request format", errBody["message"])
}

func (s *RouterSuite) TestPreviewPrices() {
	w := s.do(http.MethodPost, "/v1/prices/preview", `{
		"price_ids": ["price_fixed"],
		"overrides": [{"price_id": "price_fixed", "amount": "12.00"}]
	}`)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	items, _ := s.decode(w)["items"].([]any)
	s.Require().Len(items, 1)
	item, _ := items[0].(map[string]any)
	s.Equal("price_fixed", item["price_id"])
	s.Equal(true, item["has_changes"])
}
