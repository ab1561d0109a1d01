package usecase

import (
	"context"
	"log/slog"

	"availability-engine/internal/domain/pricing"
)

// LoyaltyResolver derives a guest's tier from their completed bookings.
// Lookup failures degrade to no tier.
type LoyaltyResolver struct {
	store  LoyaltyStore
	logger *slog.Logger
}

// NewLoyaltyResolver accepts a nil store when no guest database is configured.
func NewLoyaltyResolver(store LoyaltyStore, logger *slog.Logger) *LoyaltyResolver {
	return &LoyaltyResolver{store: store, logger: logger}
}

func (r *LoyaltyResolver) Resolve(ctx context.Context, guestID string) pricing.LoyaltyTier {
	if r == nil || r.store == nil || guestID == "" {
		return pricing.TierNone
	}

	n, err := r.store.CompletedBookings(ctx, guestID)
	if err != nil {
		r.logger.Warn("loyalty lookup failed, pricing without tier",
			slog.String("guest_id", guestID),
			slog.Any("error", err),
		)
		return pricing.TierNone
	}
	return pricing.TierForCompletedBookings(n)
}
