//go:build unit

package api_test

import (
	"net/http"
	"testing"
	"time"

	"availability-engine/internal/handler/api"
	resdto "availability-engine/internal/handler/dto/response"
	"availability-engine/internal/infra/upstream"
	"availability-engine/tests/common/httptest"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type stubBudget struct{ b upstream.RateLimitBudget }

func (s stubBudget) Budget() upstream.RateLimitBudget { return s.b }

type stubCache bool

func (s stubCache) Available() bool { return bool(s) }

func TestHealthCheck(t *testing.T) {
	gin.SetMode(gin.TestMode)
	last := time.Date(2030, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		handler *api.HealthHandler
		want    resdto.HealthResponse
	}{
		{
			name: "redis tier with upstream activity",
			handler: api.NewHealthHandler(
				stubBudget{upstream.RateLimitBudget{RequestCount: 4, MaxPerWindow: 60, LastCallAt: last}},
				stubCache(true),
			),
			want: resdto.HealthResponse{
				Status:   "ok",
				Cache:    "redis",
				Upstream: resdto.UpstreamBudget{RequestCount: 4, MaxPerWindow: 60, LastCallAt: "2030-06-01T12:00:00Z"},
			},
		},
		{
			name:    "local tier before any call",
			handler: api.NewHealthHandler(stubBudget{upstream.RateLimitBudget{MaxPerWindow: 60}}, stubCache(false)),
			want: resdto.HealthResponse{
				Status:   "ok",
				Cache:    "local",
				Upstream: resdto.UpstreamBudget{MaxPerWindow: 60},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.GET("/health", tt.handler.Check)

			rec := httptest.PerformRequest(t, router, http.MethodGet, "/health", nil, nil)

			var body resdto.HealthResponse
			httptest.AssertSuccessResponse(t, rec, http.StatusOK, &body)
			assert.Equal(t, tt.want, body)
		})
	}
}
