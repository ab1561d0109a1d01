package readstore

import (
	"context"
	"errors"
	"log/slog"

	"availability-engine/internal/infra"

	"github.com/jackc/pgx/v5"
)

const countCompletedBookings = `
SELECT count(*)
FROM guest_bookings
WHERE guest_id = $1
  AND status = 'completed'`

// DBTX is the subset of pgxpool.Pool used by the read stores.
type DBTX interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// LoyaltyReadStore counts a guest's completed stays.
type LoyaltyReadStore struct {
	db     DBTX
	logger *slog.Logger
}

func NewLoyaltyReadStore(db DBTX, logger *slog.Logger) *LoyaltyReadStore {
	return &LoyaltyReadStore{
		db:     db,
		logger: logger,
	}
}

func (s *LoyaltyReadStore) CompletedBookings(ctx context.Context, guestID string) (int, error) {
	var count int64
	err := s.db.QueryRow(ctx, countCompletedBookings, guestID).Scan(&count)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}
		return 0, infra.WrapStoreErr(s.logger, infra.KindDBFailure, "failed to count completed bookings", err)
	}
	return int(count), nil
}
