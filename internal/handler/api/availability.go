package api

import (
	"net/http"

	reqdto "availability-engine/internal/handler/dto/request"
	resdto "availability-engine/internal/handler/dto/response"
	"availability-engine/internal/handler/httperr"
	"availability-engine/internal/usecase"

	"github.com/gin-gonic/gin"
)

type AvailabilityHandler struct {
	engine usecase.AvailabilityEngine
}

func NewAvailabilityHandler(engine usecase.AvailabilityEngine) *AvailabilityHandler {
	return &AvailabilityHandler{engine: engine}
}

// @Summary Get property metadata
// @Description Get a property and its rooms
// @Tags properties
// @Produce json
// @Param propertyId path string true "Property ID"
// @Success 200 {object} resdto.PropertyResponse
// @Failure 404 {object} httperr.Response
// @Failure 502 {object} httperr.Response
// @Router /api/properties/{propertyId} [get]
func (h *AvailabilityHandler) GetProperty(c *gin.Context) {
	meta, err := h.engine.GetProperty(c.Request.Context(), c.Param("propertyId"))
	if err != nil {
		abortWithEngineError(c, err)
		return
	}

	res, err := resdto.FromPropertyMetadata(meta)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}
	c.JSON(http.StatusOK, res)
}

// @Summary Get availability
// @Description Reconciled per-date availability and price for a room
// @Tags availability
// @Produce json
// @Param propertyId path string true "Property ID"
// @Param roomId path string true "Room ID"
// @Param from query string true "First night (YYYY-MM-DD)"
// @Param to query string true "Day after the last night (YYYY-MM-DD)"
// @Param mode query string false "booking (default) or calendar"
// @Success 200 {object} resdto.AvailabilityResponse
// @Failure 400 {object} httperr.Response
// @Failure 503 {object} httperr.Response
// @Router /api/properties/{propertyId}/rooms/{roomId}/availability [get]
func (h *AvailabilityHandler) GetAvailability(c *gin.Context) {
	var req reqdto.AvailabilityRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}

	q, err := req.ToQuery(c.Param("propertyId"), c.Param("roomId"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", err.Error())
		return
	}

	window, err := h.engine.GetAvailability(c.Request.Context(), q)
	if err != nil {
		abortWithEngineError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromWindow(window))
}

// @Summary Get quote
// @Description Price a stay including guest surcharge, discounts, fees and taxes
// @Tags availability
// @Produce json
// @Param propertyId path string true "Property ID"
// @Param roomId path string true "Room ID"
// @Param checkIn query string true "Check-in date (YYYY-MM-DD)"
// @Param checkOut query string true "Check-out date (YYYY-MM-DD)"
// @Param adults query int false "Adults (default 2)"
// @Param children query int false "Children"
// @Param tier query string false "Loyalty tier: bronze, silver, gold"
// @Param guestId query string false "Guest whose history sets the tier"
// @Success 200 {object} resdto.QuoteResponse
// @Failure 400 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Router /api/properties/{propertyId}/rooms/{roomId}/quote [get]
func (h *AvailabilityHandler) GetQuote(c *gin.Context) {
	var req reqdto.QuoteRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}

	q, err := req.ToQuery(c.Param("propertyId"), c.Param("roomId"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", err.Error())
		return
	}

	quote, err := h.engine.GetQuote(c.Request.Context(), q)
	if err != nil {
		abortWithEngineError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromQuote(quote))
}

// @Summary Invalidate cache
// @Description Drop every cached entry of a property, or one key
// @Tags cache
// @Accept json
// @Param request body reqdto.InvalidateRequest true "Property or key"
// @Success 204 "No Content"
// @Failure 400 {object} httperr.Response
// @Router /api/cache/invalidate [post]
func (h *AvailabilityHandler) Invalidate(c *gin.Context) {
	var req reqdto.InvalidateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}

	if req.PropertyID != "" {
		h.engine.Invalidate(c.Request.Context(), req.PropertyID)
	} else {
		h.engine.InvalidateKey(c.Request.Context(), req.Key)
	}
	c.Status(http.StatusNoContent)
}
