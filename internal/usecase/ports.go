package usecase

import (
	"context"

	"availability-engine/internal/domain/availability"
	"availability-engine/internal/usecase/readmodel"
)

type BookingsSource interface {
	Fetch(ctx context.Context, propertyID, roomID string, r availability.DateRange) (*availability.SourceResult, error)
}

type CalendarSource interface {
	Fetch(ctx context.Context, propertyID, roomID string, r availability.DateRange) (*availability.SourceResult, error)
}

// OffersSource is queried for one occupancy at a time.
type OffersSource interface {
	Fetch(ctx context.Context, propertyID, roomID string, r availability.DateRange, adults int) (*availability.SourceResult, error)
}

type PropertySource interface {
	Fetch(ctx context.Context, propertyID string) (*readmodel.PropertyMetadata, error)
}

type LoyaltyStore interface {
	CompletedBookings(ctx context.Context, guestID string) (int, error)
}
