package api

import (
	"context"
	"net/http"

	"availability-engine/internal/domain/availability"
	"availability-engine/internal/domain/pricing"
	"availability-engine/internal/handler/httperr"
	"availability-engine/internal/pkg/errs"

	"github.com/gin-gonic/gin"
)

func isValidationError(err error) bool {
	for _, target := range []error{
		errs.ErrInvalidRange,
		errs.ErrInvalidOccupancy,
		availability.ErrInvalidDate,
		availability.ErrEmptyRange,
		availability.ErrInvalidMode,
		pricing.ErrInvalidTier,
	} {
		if errs.Is(err, target) {
			return true
		}
	}
	return false
}

// abortWithEngineError maps engine failures onto HTTP statuses.
func abortWithEngineError(c *gin.Context, err error) {
	switch {
	case isValidationError(err):
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", err.Error())
	case errs.Is(err, errs.ErrIncompletePricing):
		var detail any
		if ip := pricing.AsIncompletePricing(err); ip != nil {
			missing := make([]string, len(ip.Missing))
			for i, d := range ip.Missing {
				missing[i] = availability.FormatDate(d)
			}
			detail = gin.H{"missingDates": missing}
		}
		httperr.AbortWithError(c, http.StatusUnprocessableEntity, err, "Price unavailable", detail)
	case errs.Is(err, errs.ErrDatesUnavailable):
		httperr.AbortWithError(c, http.StatusConflict, err, "Dates unavailable", nil)
	case errs.Is(err, errs.ErrStayLengthNotAllowed):
		httperr.AbortWithError(c, http.StatusUnprocessableEntity, err, "Stay length not allowed", nil)
	case errs.Is(err, errs.ErrOccupancyExceeded):
		httperr.AbortWithError(c, http.StatusUnprocessableEntity, err, "Occupancy exceeds room limit", nil)
	case errs.Is(err, errs.ErrUnknownProperty):
		httperr.AbortWithError(c, http.StatusNotFound, err, "Property not found", nil)
	case errs.Is(err, errs.ErrUpstreamUnavailable), errs.Is(err, errs.ErrRateLimitExceeded):
		httperr.AbortWithError(c, http.StatusServiceUnavailable, err, "Availability source unavailable", nil)
	case errs.Is(err, errs.ErrUpstreamTransport), errs.Is(err, errs.ErrAuth):
		httperr.AbortWithError(c, http.StatusBadGateway, err, "Upstream error", nil)
	case errs.Is(err, context.DeadlineExceeded):
		httperr.AbortWithError(c, http.StatusGatewayTimeout, err, "Upstream timeout", nil)
	default:
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
	}
}
