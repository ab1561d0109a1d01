package errs

import "errors"

// Domain-specific sentinel errors shared by the engine layers
var (
	// Upstream errors
	ErrAuth                = errors.New("upstream authentication failed")
	ErrUpstreamTransport   = errors.New("upstream transport error")
	ErrRateLimitExceeded   = errors.New("upstream rate limit exceeded")
	ErrUpstreamUnavailable = errors.New("all upstream sources unavailable")

	// Pricing errors
	ErrIncompletePricing = errors.New("incomplete pricing")

	// Stay errors
	ErrDatesUnavailable     = errors.New("dates unavailable")
	ErrStayLengthNotAllowed = errors.New("stay length not allowed")
	ErrOccupancyExceeded    = errors.New("occupancy exceeded")

	// Validation errors
	ErrInvalidRange     = errors.New("invalid date range")
	ErrInvalidOccupancy = errors.New("invalid occupancy")
	ErrUnknownProperty  = errors.New("unknown property")

	// Cache errors
	ErrCacheUnavailable = errors.New("cache tier unavailable")
)
