package api

import (
	"net/http"
	"time"

	resdto "availability-engine/internal/handler/dto/response"
	"availability-engine/internal/infra/upstream"

	"github.com/gin-gonic/gin"
)

type BudgetReporter interface {
	Budget() upstream.RateLimitBudget
}

type CacheStatus interface {
	Available() bool
}

type HealthHandler struct {
	limiter BudgetReporter
	cache   CacheStatus
}

func NewHealthHandler(limiter BudgetReporter, cache CacheStatus) *HealthHandler {
	return &HealthHandler{limiter: limiter, cache: cache}
}

// @Summary Health check
// @Description Service status with upstream budget and cache tier
// @Tags health
// @Produce json
// @Success 200 {object} resdto.HealthResponse
// @Router /health [get]
func (h *HealthHandler) Check(c *gin.Context) {
	res := resdto.HealthResponse{Status: "ok", Cache: "local"}
	if h.cache != nil && h.cache.Available() {
		res.Cache = "redis"
	}

	if h.limiter != nil {
		b := h.limiter.Budget()
		res.Upstream = resdto.UpstreamBudget{
			RequestCount: b.RequestCount,
			MaxPerWindow: b.MaxPerWindow,
		}
		if !b.LastCallAt.IsZero() {
			res.Upstream.LastCallAt = b.LastCallAt.UTC().Format(time.RFC3339)
		}
	}

	c.JSON(http.StatusOK, res)
}
