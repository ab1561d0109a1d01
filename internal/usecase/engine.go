package usecase

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"availability-engine/internal/domain/availability"
	"availability-engine/internal/domain/pricing"
	"availability-engine/internal/infra/cache"
	"availability-engine/internal/pkg/clock"
	"availability-engine/internal/pkg/errs"
	"availability-engine/internal/usecase/readmodel"

	"golang.org/x/sync/singleflight"
)

type AvailabilityQuery struct {
	PropertyID string
	RoomID     string
	Range      availability.DateRange
	Mode       availability.Mode
}

// QuoteQuery prices a stay. When Tier is empty and GuestID is set, the tier
// is derived from the guest's booking history.
type QuoteQuery struct {
	PropertyID string
	RoomID     string
	Range      availability.DateRange
	Adults     int
	Children   int
	Tier       pricing.LoyaltyTier
	GuestID    string
}

type AvailabilityEngine interface {
	GetAvailability(ctx context.Context, q AvailabilityQuery) (*availability.Window, error)
	GetQuote(ctx context.Context, q QuoteQuery) (*pricing.Quote, error)
	GetProperty(ctx context.Context, propertyID string) (*readmodel.PropertyMetadata, error)
	StayRules(ctx context.Context, propertyID, roomID string) (availability.StayRules, error)
	Invalidate(ctx context.Context, propertyID string)
	InvalidateKey(ctx context.Context, key string)
}

type EngineConfig struct {
	AdapterTimeout time.Duration
	// BaseAdults is the occupancy offers are requested for. Windows are
	// shared across occupancies, so it is fixed.
	BaseAdults  int
	TTLs        cache.TTLs
	PropertyMap map[string]string
	RoomMap     map[string]string
}

// Engine owns the per-process state of the availability service: the cache
// layer, the in-flight window builds and the source adapters.
type Engine struct {
	cfg        EngineConfig
	bookings   BookingsSource
	calendar   CalendarSource
	offers     OffersSource
	properties PropertySource
	loyalty    *LoyaltyResolver
	pricing    *pricing.Engine
	cache      *cache.Layer
	clock      clock.Clock
	logger     *slog.Logger

	builds singleflight.Group
}

func NewEngine(
	cfg EngineConfig,
	bookings BookingsSource,
	calendar CalendarSource,
	offers OffersSource,
	properties PropertySource,
	loyalty *LoyaltyResolver,
	pricingEngine *pricing.Engine,
	layer *cache.Layer,
	clk clock.Clock,
	logger *slog.Logger,
) *Engine {
	if cfg.BaseAdults < 1 {
		cfg.BaseAdults = 2
	}
	return &Engine{
		cfg:        cfg,
		bookings:   bookings,
		calendar:   calendar,
		offers:     offers,
		properties: properties,
		loyalty:    loyalty,
		pricing:    pricingEngine,
		cache:      layer,
		clock:      clk,
		logger:     logger,
	}
}

// GetAvailability returns the reconciled window, building it at most once
// per key while a build is in flight.
func (e *Engine) GetAvailability(ctx context.Context, q AvailabilityQuery) (*availability.Window, error) {
	if q.Range.Nights() < 1 {
		return nil, errs.ErrInvalidRange
	}
	if q.Mode == "" {
		q.Mode = availability.ModeBooking
	}

	key := cache.AvailabilityKey(q.PropertyID, q.RoomID, q.Range, q.Mode)
	if entry, ok := cache.Get[availability.Window](ctx, e.cache, key); ok {
		return &entry.Value, nil
	}

	ch := e.builds.DoChan(key, func() (any, error) {
		return e.buildWindow(context.WithoutCancel(ctx), key, q)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		// Waiters of one build share the result.
		return res.Val.(*availability.Window).Clone(), nil
	}
}

func (e *Engine) buildWindow(ctx context.Context, key string, q AvailabilityQuery) (*availability.Window, error) {
	if entry, ok := cache.Get[availability.Window](ctx, e.cache, key); ok {
		return &entry.Value, nil
	}

	propertyID, roomID := e.upstreamIDs(q.PropertyID, q.RoomID)

	var (
		wg                 sync.WaitGroup
		bookings, calendar availability.Outcome
		offers             *availability.Outcome
		rules              *availability.StayRules
	)

	wg.Add(3)
	go func() {
		defer wg.Done()
		bookings = e.fetch(ctx, "bookings", q, func(ctx context.Context) (*availability.SourceResult, error) {
			return e.bookings.Fetch(ctx, propertyID, roomID, q.Range)
		})
	}()
	go func() {
		defer wg.Done()
		calendar = e.fetch(ctx, "calendar", q, func(ctx context.Context) (*availability.SourceResult, error) {
			return e.calendar.Fetch(ctx, propertyID, roomID, q.Range)
		})
	}()
	go func() {
		defer wg.Done()
		rctx, cancel := e.adapterContext(ctx)
		defer cancel()
		if r, err := e.StayRules(rctx, q.PropertyID, q.RoomID); err == nil {
			rules = &r
		}
	}()

	if q.Mode == availability.ModeBooking {
		wg.Add(1)
		go func() {
			defer wg.Done()
			o := e.fetch(ctx, "offers", q, func(ctx context.Context) (*availability.SourceResult, error) {
				return e.offers.Fetch(ctx, propertyID, roomID, q.Range, e.cfg.BaseAdults)
			})
			offers = &o
		}()
	}

	wg.Wait()

	window, err := availability.Reconcile(availability.ReconcileInput{
		PropertyID: q.PropertyID,
		RoomID:     q.RoomID,
		Range:      q.Range,
		Mode:       q.Mode,
		Bookings:   bookings,
		Calendar:   calendar,
		Offers:     offers,
		Rules:      rules,
	}, e.clock.Now())
	if err != nil {
		e.logger.Error("availability window unavailable",
			slog.String("key", key),
			slog.Any("error", err),
		)
		return nil, err
	}

	// A window built from partial data is served but not cached.
	if !bookings.Failed() && !calendar.Failed() && (offers == nil || !offers.Failed()) {
		cache.Set(ctx, e.cache, key, window, e.cfg.TTLs.Availability)
	}
	return window, nil
}

// fetch runs one adapter under the per-adapter timeout.
func (e *Engine) fetch(ctx context.Context, name string, q AvailabilityQuery, fn func(context.Context) (*availability.SourceResult, error)) availability.Outcome {
	ctx, cancel := e.adapterContext(ctx)
	defer cancel()

	result, err := fn(ctx)
	if err != nil {
		e.logger.Warn("source adapter failed",
			slog.String("adapter", name),
			slog.String("property_id", q.PropertyID),
			slog.String("room_id", q.RoomID),
			slog.String("range", q.Range.String()),
			slog.Any("error", err),
		)
		return availability.Failed(err)
	}
	return availability.Succeeded(result)
}

func (e *Engine) adapterContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if e.cfg.AdapterTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, e.cfg.AdapterTimeout)
}

// GetQuote prices a stay against the booking-mode window.
func (e *Engine) GetQuote(ctx context.Context, q QuoteQuery) (*pricing.Quote, error) {
	if q.Adults < 1 || q.Children < 0 {
		return nil, errs.ErrInvalidOccupancy
	}
	nights := q.Range.Nights()
	if nights < 1 {
		return nil, errs.ErrInvalidRange
	}

	if q.Tier == pricing.TierNone && q.GuestID != "" {
		q.Tier = e.loyalty.Resolve(ctx, q.GuestID)
	}

	req := pricing.StayRequest{Range: q.Range, Adults: q.Adults, Children: q.Children, Tier: q.Tier}
	key := cache.QuoteKey(q.PropertyID, q.RoomID, req)
	if entry, ok := cache.Get[pricing.Quote](ctx, e.cache, key); ok {
		return &entry.Value, nil
	}

	window, err := e.GetAvailability(ctx, AvailabilityQuery{
		PropertyID: q.PropertyID,
		RoomID:     q.RoomID,
		Range:      q.Range,
		Mode:       availability.ModeBooking,
	})
	if err != nil {
		return nil, err
	}

	if nights < window.MinStay || nights > window.MaxStay {
		return nil, errs.Mark(
			errs.Newf("stay of %d nights outside %d..%d", nights, window.MinStay, window.MaxStay),
			errs.ErrStayLengthNotAllowed,
		)
	}

	if unavailable := window.UnavailableDates(q.Range); len(unavailable) > 0 {
		return nil, errs.Mark(
			errs.Newf("%d of %d nights unavailable, first %s", len(unavailable), nights, availability.FormatDate(unavailable[0])),
			errs.ErrDatesUnavailable,
		)
	}

	if err := e.checkOccupancy(ctx, q); err != nil {
		return nil, err
	}

	quote, err := e.pricing.Compute(window, req)
	if err != nil {
		return nil, err
	}

	cache.Set(ctx, e.cache, key, quote, e.cfg.TTLs.Pricing)
	return quote, nil
}

// checkOccupancy enforces the room's guest limit when metadata provides one.
func (e *Engine) checkOccupancy(ctx context.Context, q QuoteQuery) error {
	meta, err := e.GetProperty(ctx, q.PropertyID)
	if err != nil {
		e.logger.Warn("property metadata unavailable, skipping guest limit",
			slog.String("property_id", q.PropertyID),
			slog.Any("error", err),
		)
		return nil
	}

	room, ok := meta.Room(q.RoomID)
	if !ok || room.MaxGuests <= 0 {
		return nil
	}
	if guests := q.Adults + q.Children; guests > room.MaxGuests {
		return errs.Mark(errs.Newf("%d guests exceed room limit of %d", guests, room.MaxGuests), errs.ErrOccupancyExceeded)
	}
	return nil
}

func (e *Engine) GetProperty(ctx context.Context, propertyID string) (*readmodel.PropertyMetadata, error) {
	key := cache.MetadataKey(propertyID)
	if entry, ok := cache.Get[readmodel.PropertyMetadata](ctx, e.cache, key); ok {
		return &entry.Value, nil
	}

	upstreamID, _ := e.upstreamIDs(propertyID, "")
	meta, err := e.properties.Fetch(ctx, upstreamID)
	if err != nil {
		return nil, err
	}

	meta.ID = propertyID
	for i := range meta.Rooms {
		meta.Rooms[i].ID = e.callerRoomID(meta.Rooms[i].ID)
	}

	cache.Set(ctx, e.cache, key, meta, e.cfg.TTLs.Metadata)
	return meta, nil
}

// StayRules returns the room's stay limits from property metadata. Zero
// values mean the metadata does not restrict that side.
func (e *Engine) StayRules(ctx context.Context, propertyID, roomID string) (availability.StayRules, error) {
	key := cache.RulesKey(propertyID, roomID)
	if entry, ok := cache.Get[availability.StayRules](ctx, e.cache, key); ok {
		return entry.Value, nil
	}

	meta, err := e.GetProperty(ctx, propertyID)
	if err != nil {
		return availability.StayRules{}, err
	}

	var rules availability.StayRules
	if room, ok := meta.Room(roomID); ok {
		rules = availability.StayRules{MinStay: room.MinStay, MaxStay: room.MaxStay}
	}

	cache.Set(ctx, e.cache, key, rules, e.cfg.TTLs.Rules)
	return rules, nil
}

// Invalidate drops every cached entry for propertyID.
func (e *Engine) Invalidate(ctx context.Context, propertyID string) {
	for _, prefix := range cache.PropertyPrefixes(propertyID) {
		e.cache.DeletePrefix(ctx, prefix)
	}
	e.cache.Delete(ctx, cache.MetadataKey(propertyID))

	e.logger.Info("cache invalidated", slog.String("property_id", propertyID))
}

func (e *Engine) InvalidateKey(ctx context.Context, key string) {
	e.cache.Delete(ctx, key)
	e.logger.Info("cache key invalidated", slog.String("key", key))
}

func (e *Engine) upstreamIDs(propertyID, roomID string) (string, string) {
	if mapped, ok := e.cfg.PropertyMap[propertyID]; ok {
		propertyID = mapped
	}
	if mapped, ok := e.cfg.RoomMap[roomID]; ok {
		roomID = mapped
	}
	return propertyID, roomID
}

func (e *Engine) callerRoomID(upstreamID string) string {
	for caller, mapped := range e.cfg.RoomMap {
		if mapped == upstreamID {
			return caller
		}
	}
	return upstreamID
}
