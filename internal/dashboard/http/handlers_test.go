package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devstudio-hq/orders-backend/internal/orders/domain"
	"github.com/devstudio-hq/orders-backend/internal/orders/events"
)

type stubSource struct {
	orders []domain.Order
	err    error
}

func (s *stubSource) ListAll(context.Context) ([]domain.Order, error) {
	return s.orders, s.err
}

type stubSubscriber struct{}

func (stubSubscriber) Subscribe(context.Context) (<-chan events.Event, func()) {
	ch := make(chan events.Event)
	return ch, func() { close(ch) }
}

func newStatsRouter(src OrderSource) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	Register(r.Group("/dashboard"), New(src, stubSubscriber{}))
	return r
}

func TestStatsHandler(t *testing.T) {
	src := &stubSource{orders: []domain.Order{
		{ID: "a", UserEmail: "a@x.com", PlanName: "Basic", Price: 37.42,
			Status: domain.StatusPending, CreatedAt: time.Now().UTC()},
		{ID: "b", UserEmail: "b@x.com", PlanName: "Premium", Price: 149.68,
			Status: domain.StatusCompleted, CreatedAt: time.Now().UTC()},
	}}
	r := newStatsRouter(src)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/dashboard/stats?range=7d", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		OK    bool `json:"ok"`
		Stats struct {
			TotalOrders  int     `json:"total_orders"`
			TotalRevenue float64 `json:"total_revenue"`
		} `json:"stats"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body.OK)
	assert.Equal(t, 2, body.Stats.TotalOrders)
	assert.InDelta(t, 187.10, body.Stats.TotalRevenue, 1e-9)
}

func TestStatsHandler_CustomRange(t *testing.T) {
	r := newStatsRouter(&stubSource{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/dashboard/stats?start=2025-08-01&end=2025-08-07", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestStatsHandler_BadRange(t *testing.T) {
	r := newStatsRouter(&stubSource{})

	for _, query := range []string{
		"?range=14d",                          // unknown preset
		"?start=2025-08-07&end=2025-08-01",    // inverted bounds
		"?start=not-a-date&end=2025-08-07",    // malformed start
	} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/dashboard/stats"+query, nil)
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code, query)
	}
}

func TestStatsHandler_SourceFailure(t *testing.T) {
	r := newStatsRouter(&stubSource{err: errors.New("pq: password authentication failed for user orders")})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/dashboard/stats", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusInternalServerError, w.Code)

	// store failure detail stays out of the response body
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "internal server error", body["error"])
	assert.NotContains(t, w.Body.String(), "password")
}
