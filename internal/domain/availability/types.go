package availability

import (
	"errors"
	"strings"
	"time"
)

var ErrInvalidMode = errors.New("invalid reconciliation mode")

// Mode selects how missing offer data is interpreted.
type Mode string

const (
	ModeBooking         Mode = "booking"
	ModeCalendarDisplay Mode = "calendar"
)

func NewMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeBooking, "":
		return ModeBooking, nil
	case ModeCalendarDisplay, "calendar_display", "display":
		return ModeCalendarDisplay, nil
	default:
		return "", ErrInvalidMode
	}
}

func (m Mode) String() string {
	return string(m)
}

// Source names the upstream feed that decided a date's state or price.
type Source string

const (
	SourceBookings Source = "bookings"
	SourceCalendar Source = "calendar"
	SourceOffers   Source = "offers"
	SourcePast     Source = "past"
	SourceNone     Source = "none"
)

const (
	DefaultMinStay = 1
	DefaultMaxStay = 30
)

// SourceDay is one adapter's view of one date.
type SourceDay struct {
	Available bool
	Price     OptionalPrice
}

// SourceResult is the normalized output of a single adapter. MinStay and
// MaxStay are zero when the feed does not carry them.
type SourceResult struct {
	Source  Source
	Days    map[time.Time]SourceDay
	MinStay int
	MaxStay int
}

func NewSourceResult(source Source) *SourceResult {
	return &SourceResult{
		Source: source,
		Days:   make(map[time.Time]SourceDay),
	}
}

// Set records day, replacing anything already present for that date.
func (r *SourceResult) Set(day time.Time, sd SourceDay) {
	r.Days[DateOf(day)] = sd
}

func (r *SourceResult) Lookup(day time.Time) (SourceDay, bool) {
	if r == nil {
		return SourceDay{}, false
	}
	sd, ok := r.Days[DateOf(day)]
	return sd, ok
}

func (r *SourceResult) IsEmpty() bool {
	return r == nil || len(r.Days) == 0
}

type DateAvailability struct {
	Date        time.Time     `json:"date"`
	IsAvailable bool          `json:"isAvailable"`
	IsBooked    bool          `json:"isBooked"`
	Price       OptionalPrice `json:"price"`
	Source      Source        `json:"source"`
}

type Window struct {
	PropertyID string             `json:"propertyId"`
	RoomID     string             `json:"roomId"`
	Range      DateRange          `json:"range"`
	Mode       Mode               `json:"mode"`
	Days       []DateAvailability `json:"days"`
	MinStay    int                `json:"minStay"`
	MaxStay    int                `json:"maxStay"`
}

// Clone returns a copy of w that shares no Days storage with it.
func (w *Window) Clone() *Window {
	c := *w
	c.Days = append([]DateAvailability(nil), w.Days...)
	return &c
}

func (w *Window) Day(date time.Time) (DateAvailability, bool) {
	date = DateOf(date)
	for _, d := range w.Days {
		if d.Date.Equal(date) {
			return d, true
		}
	}
	return DateAvailability{}, false
}

// UnavailableDates lists the dates of r that are not bookable in w. Dates
// outside the window count as unavailable.
func (w *Window) UnavailableDates(r DateRange) []time.Time {
	var out []time.Time
	for _, date := range r.Days() {
		d, ok := w.Day(date)
		if !ok || !d.IsAvailable {
			out = append(out, date)
		}
	}
	return out
}
