package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/flexprice/console/internal/auth"
	"github.com/flexprice/console/internal/config"
	ierr "github.com/flexprice/console/internal/errors"
	"github.com/flexprice/console/internal/logger"
	"github.com/flexprice/console/internal/metrics"
	"github.com/flexprice/console/internal/types"
	"github.com/gin-gonic/gin"
	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testConfig(authEnabled bool) *config.Configuration {
	cfg := config.GetDefaultConfig()
	cfg.Auth.Enabled = authEnabled
	cfg.Auth.Secret = "test-secret"
	cfg.Auth.Issuer = "flexprice"
	return cfg
}

// echoContext answers with the identity the middleware chain put in the request context
func echoContext(c *gin.Context) {
	ctx := c.Request.Context()
	c.JSON(http.StatusOK, gin.H{
		"tenant_id":      types.GetTenantID(ctx),
		"user_id":        types.GetUserID(ctx),
		"environment_id": types.GetEnvironmentID(ctx),
		"request_id":     types.GetRequestID(ctx),
	})
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, jsoniter.Unmarshal(w.Body.Bytes(), v))
}

func TestAuthenticateMiddleware(t *testing.T) {
	cfg := testConfig(true)
	token, err := auth.NewFlexpriceAuth(cfg).GenerateToken(auth.Claims{
		UserID:   "user_1",
		TenantID: "tenant_1",
	}, time.Hour)
	require.NoError(t, err)

	r := gin.New()
	r.Use(RequestIDMiddleware, AuthenticateMiddleware(cfg, logger.GetLogger()))
	r.GET("/me", echoContext)

	tests := []struct {
		name       string
		header     string
		wantStatus int
	}{
		{name: "valid token", header: "Bearer " + token, wantStatus: http.StatusOK},
		{name: "missing header", header: "", wantStatus: http.StatusUnauthorized},
		{name: "not a bearer token", header: "Token " + token, wantStatus: http.StatusUnauthorized},
		{name: "garbage token", header: "Bearer not-a-jwt", wantStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set(types.HeaderAuthorization, tt.header)
			}
			req.Header.Set(types.HeaderEnvironment, "env_1")
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			require.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus != http.StatusOK {
				var resp ierr.ErrorResponse
				decode(t, w, &resp)
				assert.False(t, resp.Success)
				assert.NotEmpty(t, resp.Error.Display)
				return
			}

			var got map[string]string
			decode(t, w, &got)
			assert.Equal(t, "tenant_1", got["tenant_id"])
			assert.Equal(t, "user_1", got["user_id"])
			assert.Equal(t, "env_1", got["environment_id"])
		})
	}
}

func TestAuthenticateMiddleware_Disabled(t *testing.T) {
	r := gin.New()
	r.Use(AuthenticateMiddleware(testConfig(false), logger.GetLogger()))
	r.GET("/me", echoContext)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var got map[string]string
	decode(t, w, &got)
	assert.Equal(t, types.DefaultTenantID, got["tenant_id"])
	assert.Equal(t, types.DefaultUserID, got["user_id"])
	assert.Empty(t, got["environment_id"])
}

func TestRequestIDMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(RequestIDMiddleware)
	r.GET("/me", echoContext)

	t.Run("generated", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me", nil))

		id := w.Header().Get(types.HeaderRequestID)
		require.NotEmpty(t, id)
		var got map[string]string
		decode(t, w, &got)
		assert.Equal(t, id, got["request_id"])
	})

	t.Run("propagated", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set(types.HeaderRequestID, "req_1")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, "req_1", w.Header().Get(types.HeaderRequestID))
	})
}

func TestCORSMiddleware_Preflight(t *testing.T) {
	called := false
	r := gin.New()
	r.Use(CORSMiddleware)
	r.OPTIONS("/v1/drafts", func(c *gin.Context) { called = true })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodOptions, "/v1/drafts", nil))

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.False(t, called)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), types.HeaderEnvironment)
	assert.Equal(t, types.HeaderRequestID, w.Header().Get("Access-Control-Expose-Headers"))
}

func TestErrorHandler(t *testing.T) {
	r := gin.New()
	r.Use(ErrorHandler(logger.GetLogger()))
	r.GET("/missing", func(c *gin.Context) {
		c.Error(ierr.NewError("draft not found").
			WithHint("Draft not found").
			WithReportableDetails(map[string]any{"draft_id": "draft_1"}).
			Mark(ierr.ErrNotFound))
	})
	r.GET("/boom", func(c *gin.Context) {
		c.Error(ierr.NewError("boom").Mark(ierr.ErrSystem))
	})
	r.GET("/written", func(c *gin.Context) {
		c.Error(ierr.NewError("ignored").Mark(ierr.ErrValidation))
		c.Status(http.StatusAccepted)
		c.Writer.WriteHeaderNow()
	})

	t.Run("not found", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/missing", nil))

		require.Equal(t, http.StatusNotFound, w.Code)
		var resp ierr.ErrorResponse
		decode(t, w, &resp)
		assert.False(t, resp.Success)
		assert.Equal(t, "Draft not found", resp.Error.Display)
		assert.Equal(t, "draft_1", resp.Error.Details["draft_id"])
	})

	t.Run("system error", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})

	t.Run("response already written", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/written", nil))

		assert.Equal(t, http.StatusAccepted, w.Code)
		assert.Empty(t, w.Body.String())
	})
}

func TestMetricsMiddleware(t *testing.T) {
	m := metrics.NewMetrics()
	r := gin.New()
	r.Use(MetricsMiddleware(m))
	r.GET("/v1/drafts/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/drafts/draft_1", nil))
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nowhere", nil))

	scrape := httptest.NewRecorder()
	m.Handler().ServeHTTP(scrape, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := scrape.Body.String()

	assert.Contains(t, body, `console_http_requests_total{method="GET",path="/v1/drafts/:id",status="200"} 2`)
	assert.Contains(t, body, `console_http_requests_total{method="GET",path="unmatched",status="404"} 1`)
	assert.Contains(t, body, "console_http_request_duration_seconds")
}

func TestPyroscopeMiddleware_Disabled(t *testing.T) {
	r := gin.New()
	r.Use(PyroscopeMiddleware(testConfig(false)))
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}
