package adapter

import (
	"context"
	"log/slog"
	"net/url"
	"strconv"
	"time"

	"availability-engine/internal/domain/availability"
	"availability-engine/internal/pkg/errs"
)

const offersPath = "/inventory/rooms/offers"

var offerTotalAliases = []string{"price", "total", "totalPrice", "amount"}

// OffersAdapter reads bookable offers for one occupancy. An empty answer is
// returned as an empty result, which booking mode treats as "no offer".
type OffersAdapter struct {
	fetcher Fetcher
	logger  *slog.Logger
}

func NewOffersAdapter(fetcher Fetcher, logger *slog.Logger) *OffersAdapter {
	return &OffersAdapter{fetcher: fetcher, logger: logger}
}

func (a *OffersAdapter) Fetch(ctx context.Context, propertyID, roomID string, r availability.DateRange, adults int) (*availability.SourceResult, error) {
	query := url.Values{
		"propertyId": {propertyID},
		"roomId":     {roomID},
		"arrival":    {availability.FormatDate(r.From)},
		"departure":  {availability.FormatDate(r.To)},
		"adults":     {strconv.Itoa(adults)},
	}

	doc, err := a.fetcher.Get(ctx, offersPath, query)
	if err != nil {
		return nil, errs.Wrap(err, "fetch offers")
	}

	var (
		perDate      = make(map[time.Time]availability.Money)
		unpriced     = make(map[time.Time]bool)
		cheapestStay availability.Money
		hasStay      bool
	)

	record := func(entry map[string]any) {
		total, ok := moneyOf(entry, offerTotalAliases...)
		priced := ok && total.IsPositive()
		if date, ok := dateOf(entry, dateAliases...); ok {
			if !priced {
				unpriced[date] = true
				return
			}
			if cur, seen := perDate[date]; !seen || total.Cmp(cur) < 0 {
				perDate[date] = total
			}
			return
		}
		if !priced {
			return
		}
		if !hasStay || total.Cmp(cheapestStay) < 0 {
			cheapestStay, hasStay = total, true
		}
	}

	for _, item := range listOf(doc) {
		entry, ok := objectOf(item)
		if !ok {
			continue
		}
		if room := stringOf(entry, roomAliases...); room != "" && room != roomID {
			continue
		}
		if nested, ok := entry["offers"].([]any); ok {
			for _, o := range nested {
				if offer, ok := objectOf(o); ok {
					record(offer)
				}
			}
			continue
		}
		record(entry)
	}

	result := availability.NewSourceResult(availability.SourceOffers)
	if hasStay {
		nightly := availability.PriceOf(cheapestStay.Div(r.Nights()))
		for _, date := range r.Days() {
			result.Set(date, availability.SourceDay{Available: true, Price: nightly})
		}
	}
	for date := range unpriced {
		if _, ok := result.Lookup(date); !ok && r.Contains(date) {
			result.Set(date, availability.SourceDay{Available: true, Price: availability.NoPrice()})
		}
	}
	for date, price := range perDate {
		if r.Contains(date) {
			result.Set(date, availability.SourceDay{Available: true, Price: availability.PriceOf(price)})
		}
	}

	a.logger.Debug("offers fetched",
		slog.String("property_id", propertyID),
		slog.String("room_id", roomID),
		slog.Int("dates", len(result.Days)),
	)
	return result, nil
}
