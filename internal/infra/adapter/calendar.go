package adapter

import (
	"context"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"availability-engine/internal/domain/availability"
	"availability-engine/internal/pkg/errs"
)

const calendarPath = "/inventory/rooms/calendar"

var (
	dateAliases      = []string{"date", "day"}
	rangeFromAliases = []string{"from", "startDate", "start"}
	rangeToAliases   = []string{"to", "endDate", "end"}
	numAvailAliases  = []string{"numAvail", "availability", "avail", "units"}
	availableAliases = []string{"available", "isAvailable", "bookable"}
	priceAliases     = []string{"price", "price1", "rate", "dailyPrice", "amount"}
	minStayAliases   = []string{"minStay", "min_stay", "minimumStay"}
	maxStayAliases   = []string{"maxStay", "max_stay", "maximumStay"}
)

var blockedStatuses = map[string]bool{
	"blocked":     true,
	"closed":      true,
	"unavailable": true,
}

// CalendarAdapter reads per-day inventory: open or blocked, nightly price and
// stay rules.
type CalendarAdapter struct {
	fetcher Fetcher
	logger  *slog.Logger
}

func NewCalendarAdapter(fetcher Fetcher, logger *slog.Logger) *CalendarAdapter {
	return &CalendarAdapter{fetcher: fetcher, logger: logger}
}

func (a *CalendarAdapter) Fetch(ctx context.Context, propertyID, roomID string, r availability.DateRange) (*availability.SourceResult, error) {
	query := url.Values{
		"propertyId": {propertyID},
		"roomId":     {roomID},
		"startDate":  {availability.FormatDate(r.From)},
		"endDate":    {availability.FormatDate(r.To.AddDate(0, 0, -1))},
	}

	doc, err := a.fetcher.Get(ctx, calendarPath, query)
	if err != nil {
		return nil, errs.Wrap(err, "fetch calendar")
	}

	result := availability.NewSourceResult(availability.SourceCalendar)
	for _, entry := range calendarEntries(doc, roomID) {
		a.apply(result, entry, r)
	}
	return result, nil
}

// calendarEntries flattens per-room nesting such as
// [{"roomId":1,"calendar":[...]}] into the entries for roomID.
func calendarEntries(doc any, roomID string) []map[string]any {
	var out []map[string]any
	for _, item := range listOf(doc) {
		entry, ok := objectOf(item)
		if !ok {
			continue
		}
		if nested, ok := entry["calendar"]; ok {
			if room := stringOf(entry, roomAliases...); room != "" && room != roomID {
				continue
			}
			out = append(out, calendarEntries(nested, roomID)...)
			continue
		}
		out = append(out, entry)
	}
	return out
}

func (a *CalendarAdapter) apply(result *availability.SourceResult, entry map[string]any, r availability.DateRange) {
	dates, ok := entryDates(entry)
	if !ok {
		a.logger.Debug("skipping calendar entry without dates", slog.Any("entry", entry))
		return
	}

	day := availability.SourceDay{Available: !isBlocked(entry)}
	if day.Available {
		day.Price = priceOf(moneyOf(entry, priceAliases...))
	}

	minStay, _ := intOf(entry, minStayAliases...)
	maxStay, _ := intOf(entry, maxStayAliases...)

	for _, date := range dates {
		if !r.Contains(date) {
			continue
		}
		result.Set(date, day)
		if date.Equal(r.From) {
			result.MinStay, result.MaxStay = minStay, maxStay
		}
	}
}

// entryDates returns the single date or the inclusive from/to span.
func entryDates(entry map[string]any) ([]time.Time, bool) {
	if d, ok := dateOf(entry, dateAliases...); ok {
		return []time.Time{d}, true
	}
	from, okF := dateOf(entry, rangeFromAliases...)
	to, okT := dateOf(entry, rangeToAliases...)
	if !okF || !okT || to.Before(from) {
		return nil, false
	}
	return availability.DateRange{From: from, To: to.AddDate(0, 0, 1)}.Days(), true
}

func isBlocked(entry map[string]any) bool {
	if n, ok := intOf(entry, numAvailAliases...); ok && n == 0 {
		return true
	}
	if blockedStatuses[strings.ToLower(stringOf(entry, statusAliases...))] {
		return true
	}
	if avail, ok := boolOf(entry, availableAliases...); ok && !avail {
		return true
	}
	return false
}
