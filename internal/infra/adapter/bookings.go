package adapter

import (
	"context"
	"log/slog"
	"net/url"
	"regexp"
	"strings"
	"time"

	"availability-engine/internal/domain/availability"
	"availability-engine/internal/pkg/errs"
)

const bookingsPath = "/bookings"

var (
	arrivalAliases   = []string{"arrival", "arrivalDate", "checkIn", "check_in", "from"}
	departureAliases = []string{"departure", "departureDate", "checkOut", "check_out", "to"}
	statusAliases    = []string{"status", "bookingStatus", "state"}
	roomAliases      = []string{"roomId", "room_id", "unitId", "roomID"}
	totalAliases     = []string{"price", "total", "totalPrice", "amount"}
	rateTextAliases  = []string{"priceDetails", "rateString", "rateDetails", "invoice", "rates"}

	// e.g. "2025-06-01 EUR 120.50"
	ratePattern = regexp.MustCompile(`(\d{4}-\d{2}-\d{2})\s+([A-Z]{3})\s+(\d+(?:[.,]\d+)?)`)
)

var inactiveStatuses = map[string]bool{
	"cancelled": true,
	"canceled":  true,
	"0":         true,
	"black":     true,
	"inquiry":   true,
	"enquiry":   true,
}

// BookingsAdapter turns reservations overlapping the range into booked dates.
type BookingsAdapter struct {
	fetcher Fetcher
	logger  *slog.Logger
}

func NewBookingsAdapter(fetcher Fetcher, logger *slog.Logger) *BookingsAdapter {
	return &BookingsAdapter{fetcher: fetcher, logger: logger}
}

func (a *BookingsAdapter) Fetch(ctx context.Context, propertyID, roomID string, r availability.DateRange) (*availability.SourceResult, error) {
	query := url.Values{
		"propertyId":    {propertyID},
		"roomId":        {roomID},
		"arrivalTo":     {availability.FormatDate(r.To.AddDate(0, 0, -1))},
		"departureFrom": {availability.FormatDate(r.From.AddDate(0, 0, 1))},
	}

	doc, err := a.fetcher.Get(ctx, bookingsPath, query)
	if err != nil {
		return nil, errs.Wrap(err, "fetch bookings")
	}

	result := availability.NewSourceResult(availability.SourceBookings)
	for _, item := range listOf(doc) {
		entry, ok := objectOf(item)
		if !ok {
			continue
		}
		if room := stringOf(entry, roomAliases...); room != "" && room != roomID {
			continue
		}
		if !isActiveBooking(stringOf(entry, statusAliases...)) {
			continue
		}
		a.expand(result, entry, r)
	}

	return result, nil
}

func (a *BookingsAdapter) expand(result *availability.SourceResult, entry map[string]any, r availability.DateRange) {
	arrival, okA := dateOf(entry, arrivalAliases...)
	departure, okD := dateOf(entry, departureAliases...)
	if !okA || !okD || !arrival.Before(departure) {
		a.logger.Debug("skipping booking without usable stay dates", slog.Any("booking", entry))
		return
	}

	stay := availability.DateRange{From: arrival, To: departure}
	rates := parseRateText(stringOf(entry, rateTextAliases...))

	split := availability.NoPrice()
	if total, ok := moneyOf(entry, totalAliases...); ok {
		split = availability.PriceOf(total.Div(stay.Nights()))
	}

	for _, date := range stay.Days() {
		if !r.Contains(date) {
			continue
		}
		price := split
		if rate, ok := rates[date]; ok {
			price = availability.PriceOf(rate)
		}
		result.Set(date, availability.SourceDay{Available: false, Price: price})
	}
}

// isActiveBooking keeps unknown statuses so that an unrecognized state never
// frees a night.
func isActiveBooking(status string) bool {
	if status == "" {
		return true
	}
	return !inactiveStatuses[strings.ToLower(status)]
}

func parseRateText(text string) map[time.Time]availability.Money {
	if text == "" {
		return nil
	}
	rates := make(map[time.Time]availability.Money)
	for _, m := range ratePattern.FindAllStringSubmatch(text, -1) {
		date, err := availability.ParseDate(m[1])
		if err != nil {
			continue
		}
		amount, ok := parseMoney(m[3])
		if !ok {
			continue
		}
		rates[date] = amount
	}
	return rates
}
