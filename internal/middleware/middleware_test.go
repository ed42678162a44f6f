package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"menuhub/internal/common"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tenantEcho(mw echo.MiddlewareFunc, path string) *echo.Echo {
	e := echo.New()
	e.HTTPErrorHandler = common.HTTPErrorHandler
	e.POST(path, func(c echo.Context) error {
		tenantID, _ := common.GetTenantIDFromContext(c.Request().Context())
		return c.String(http.StatusOK, tenantID)
	}, mw)
	return e
}

func signed(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func TestJWTMiddleware(t *testing.T) {
	e := tenantEcho(JWTMiddleware("secret", "tenant_id"), "/orders")

	tests := []struct {
		name     string
		auth     string
		wantCode int
		wantBody string
	}{
		{
			name:     "valid token",
			auth:     "Bearer " + signed(t, "secret", jwt.MapClaims{"tenant_id": "t1"}),
			wantCode: http.StatusOK,
			wantBody: "t1",
		},
		{
			name:     "missing tenant claim",
			auth:     "Bearer " + signed(t, "secret", jwt.MapClaims{"sub": "u1"}),
			wantCode: http.StatusUnauthorized,
			wantBody: "Missing tenant in token",
		},
		{
			name:     "blank tenant claim",
			auth:     "Bearer " + signed(t, "secret", jwt.MapClaims{"tenant_id": "  "}),
			wantCode: http.StatusUnauthorized,
		},
		{
			name:     "wrong signature",
			auth:     "Bearer " + signed(t, "other", jwt.MapClaims{"tenant_id": "t1"}),
			wantCode: http.StatusUnauthorized,
			wantBody: "Invalid or missing token",
		},
		{
			name:     "expired token",
			auth:     "Bearer " + signed(t, "secret", jwt.MapClaims{"tenant_id": "t1", "exp": time.Now().Add(-time.Minute).Unix()}),
			wantCode: http.StatusUnauthorized,
		},
		{
			name:     "no header",
			wantCode: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/orders", nil)
			if tt.auth != "" {
				req.Header.Set(echo.HeaderAuthorization, tt.auth)
			}
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantCode, rec.Code)
			if tt.wantBody != "" {
				assert.Contains(t, rec.Body.String(), tt.wantBody)
			}
		})
	}
}

func TestTenantFromParam(t *testing.T) {
	e := tenantEcho(TenantFromParam("tenant"), "/storefront/:tenant/orders")

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/storefront/casa-do-pao/orders", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "casa-do-pao", rec.Body.String())

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/storefront/%20/orders", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSharedSecret(t *testing.T) {
	tests := []struct {
		name     string
		secret   string
		header   string
		wantCode int
	}{
		{name: "match", secret: "s3cret", header: "s3cret", wantCode: http.StatusOK},
		{name: "mismatch", secret: "s3cret", header: "guess", wantCode: http.StatusUnauthorized},
		{name: "missing header", secret: "s3cret", wantCode: http.StatusUnauthorized},
		{name: "unconfigured secret", secret: "", header: "", wantCode: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := tenantEcho(SharedSecret("X-Chatbot-Secret", tt.secret), "/chatbot/orders")
			req := httptest.NewRequest(http.MethodPost, "/chatbot/orders", nil)
			if tt.header != "" {
				req.Header.Set("X-Chatbot-Secret", tt.header)
			}
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)
			assert.Equal(t, tt.wantCode, rec.Code)
		})
	}
}

func TestRequestLogger(t *testing.T) {
	var buf strings.Builder
	e := echo.New()
	e.Use(RequestLogger(zerolog.New(&buf)))
	e.GET("/ping", func(c echo.Context) error {
		return c.String(http.StatusOK, common.GetRequestIDFromContext(c.Request().Context()))
	})

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(RequestIDHeader, "req-123")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, "req-123", rec.Header().Get(RequestIDHeader))
	assert.Equal(t, "req-123", rec.Body.String())
	assert.Contains(t, buf.String(), `"request_id":"req-123"`)
	assert.Contains(t, buf.String(), `"status":200`)

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.NotEmpty(t, rec.Header().Get(RequestIDHeader))
}

// memoryIdempotencyStore is an in-process stand-in for the redis cache.
type memoryIdempotencyStore struct {
	mu            sync.Mutex
	records       map[string]string
	getErr        error
	beforeReserve func()
}

func newMemoryIdempotencyStore() *memoryIdempotencyStore {
	return &memoryIdempotencyStore{records: map[string]string{}}
}

func (m *memoryIdempotencyStore) GetProductExists(context.Context, string, string) (bool, bool, error) {
	return false, false, nil
}

func (m *memoryIdempotencyStore) SetProductExists(context.Context, string, string, bool, time.Duration) error {
	return nil
}

func (m *memoryIdempotencyStore) IdempotencyKey(scope, key string) string {
	return scope + ":" + key
}

func (m *memoryIdempotencyStore) GetIdempotencyRecord(_ context.Context, key string) (string, error) {
	if m.getErr != nil {
		return "", m.getErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.records[key], nil
}

func (m *memoryIdempotencyStore) ReserveIdempotencyKey(_ context.Context, key, record string, _ time.Duration) (bool, error) {
	if m.beforeReserve != nil {
		m.beforeReserve()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.records[key]; ok {
		return false, nil
	}
	m.records[key] = record
	return true, nil
}

func (m *memoryIdempotencyStore) PutIdempotencyRecord(_ context.Context, key, record string, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[key] = record
	return nil
}

func (m *memoryIdempotencyStore) DeleteIdempotencyRecord(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.records, key)
	return nil
}

func (m *memoryIdempotencyStore) Ping(context.Context) error { return nil }

func idempotentEcho(store *memoryIdempotencyStore, calls *int, status int) *echo.Echo {
	e := echo.New()
	e.POST("/orders", func(c echo.Context) error {
		*calls++
		return c.JSON(status, map[string]int{"call": *calls})
	}, Idempotency(store, time.Hour))
	return e
}

func postWithKey(e *echo.Echo, key, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if key != "" {
		req.Header.Set(IdempotencyKeyHeader, key)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestIdempotency_ReplaysSameBody(t *testing.T) {
	store := newMemoryIdempotencyStore()
	calls := 0
	e := idempotentEcho(store, &calls, http.StatusCreated)

	first := postWithKey(e, "k1", `{"a":1}`)
	second := postWithKey(e, "k1", `{"a":1}`)

	assert.Equal(t, 1, calls)
	assert.Equal(t, http.StatusCreated, second.Code)
	assert.JSONEq(t, first.Body.String(), second.Body.String())
	assert.Equal(t, "true", second.Header().Get("Idempotent-Replayed"))
}

func TestIdempotency_DifferentBodyConflicts(t *testing.T) {
	store := newMemoryIdempotencyStore()
	calls := 0
	e := idempotentEcho(store, &calls, http.StatusCreated)

	postWithKey(e, "k1", `{"a":1}`)
	rec := postWithKey(e, "k1", `{"a":2}`)

	assert.Equal(t, 1, calls)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), `"success":false`)
}

func TestIdempotency_WithoutHeaderAlwaysProcesses(t *testing.T) {
	store := newMemoryIdempotencyStore()
	calls := 0
	e := idempotentEcho(store, &calls, http.StatusCreated)

	postWithKey(e, "", `{"a":1}`)
	postWithKey(e, "", `{"a":1}`)

	assert.Equal(t, 2, calls)
	assert.Empty(t, store.records)
}

func TestIdempotency_StoreErrorPassesThrough(t *testing.T) {
	store := newMemoryIdempotencyStore()
	store.getErr = errors.New("redis: connection refused")
	calls := 0
	e := idempotentEcho(store, &calls, http.StatusCreated)

	postWithKey(e, "k1", `{"a":1}`)
	rec := postWithKey(e, "k1", `{"a":1}`)

	assert.Equal(t, 2, calls)
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestIdempotency_ServerErrorsAreNotStored(t *testing.T) {
	store := newMemoryIdempotencyStore()
	calls := 0
	e := idempotentEcho(store, &calls, http.StatusInternalServerError)

	postWithKey(e, "k1", `{"a":1}`)
	postWithKey(e, "k1", `{"a":1}`)

	assert.Equal(t, 2, calls)
	assert.Empty(t, store.records)
}

func TestIdempotency_RetryWhileInFlightConflicts(t *testing.T) {
	store := newMemoryIdempotencyStore()
	calls := 0
	var retry *httptest.ResponseRecorder
	e := echo.New()
	e.POST("/orders", func(c echo.Context) error {
		calls++
		if calls == 1 {
			retry = postWithKey(e, "k1", `{"a":1}`)
		}
		return c.JSON(http.StatusCreated, map[string]int{"call": calls})
	}, Idempotency(store, time.Hour))

	first := postWithKey(e, "k1", `{"a":1}`)

	assert.Equal(t, 1, calls)
	assert.Equal(t, http.StatusCreated, first.Code)
	require.NotNil(t, retry)
	assert.Equal(t, http.StatusConflict, retry.Code)
	assert.Contains(t, retry.Body.String(), "still in progress")

	replay := postWithKey(e, "k1", `{"a":1}`)
	assert.Equal(t, 1, calls)
	assert.Equal(t, http.StatusCreated, replay.Code)
	assert.Equal(t, "true", replay.Header().Get("Idempotent-Replayed"))
}

func TestIdempotency_LostReservationUsesWinnersRecord(t *testing.T) {
	store := newMemoryIdempotencyStore()
	key := store.IdempotencyKey("|POST|/orders", "k1")
	store.beforeReserve = func() {
		winner, _ := json.Marshal(idempotencyRecord{RequestHash: hashBody([]byte(`{"a":1}`)), InFlight: true})
		store.records[key] = string(winner)
	}
	calls := 0
	e := idempotentEcho(store, &calls, http.StatusCreated)

	rec := postWithKey(e, "k1", `{"a":1}`)

	assert.Equal(t, 0, calls)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestIdempotency_HandlerErrorReleasesKey(t *testing.T) {
	store := newMemoryIdempotencyStore()
	calls := 0
	e := echo.New()
	e.POST("/orders", func(c echo.Context) error {
		calls++
		return errors.New("boom")
	}, Idempotency(store, time.Hour))

	postWithKey(e, "k1", `{"a":1}`)
	assert.Empty(t, store.records)

	rec := postWithKey(e, "k1", `{"a":1}`)
	assert.Equal(t, 2, calls)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestIdempotency_BodyTenantSeparatesScopes(t *testing.T) {
	store := newMemoryIdempotencyStore()
	calls := 0
	e := idempotentEcho(store, &calls, http.StatusCreated)

	first := postWithKey(e, "k1", `{"company_id":"c1","total":10}`)
	other := postWithKey(e, "k1", `{"company_id":"c2","total":10}`)
	retry := postWithKey(e, "k1", `{"company_id":"c1","total":10}`)

	assert.Equal(t, 2, calls)
	assert.Equal(t, http.StatusCreated, other.Code)
	assert.Empty(t, other.Header().Get("Idempotent-Replayed"))
	assert.JSONEq(t, first.Body.String(), retry.Body.String())
	assert.Equal(t, "true", retry.Header().Get("Idempotent-Replayed"))
	assert.Len(t, store.records, 2)
}

func TestVersionRoute(t *testing.T) {
	e := echo.New()
	VersionRoute(e, "v1").GET("/ping", func(c echo.Context) error {
		return c.NoContent(http.StatusNoContent)
	})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/ping", nil))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "v1", rec.Header().Get(APIVersionHeader))
}
