package availability

import (
	"errors"
	"time"

	"availability-engine/internal/pkg/errs"
)

// Outcome is what one adapter produced for a reconciliation: either a result
// or the transport/auth error that stopped it. A timed-out adapter is an
// Outcome with Err set.
type Outcome struct {
	Result *SourceResult
	Err    error
}

func Succeeded(r *SourceResult) Outcome { return Outcome{Result: r} }
func Failed(err error) Outcome          { return Outcome{Err: err} }

func (o Outcome) Failed() bool {
	return o.Err != nil
}

func (o Outcome) lookup(day time.Time) (SourceDay, bool) {
	if o.Failed() {
		return SourceDay{}, false
	}
	return o.Result.Lookup(day)
}

// StayRules are per-room minimum and maximum stay lengths in nights.
type StayRules struct {
	MinStay int `json:"minStay"`
	MaxStay int `json:"maxStay"`
}

type ReconcileInput struct {
	PropertyID string
	RoomID     string
	Range      DateRange
	Mode       Mode
	Bookings   Outcome
	Calendar   Outcome
	// Offers is nil when the offers feed was not queried.
	Offers *Outcome
	// Rules is the metadata fallback used when the calendar carries no stay rules.
	Rules *StayRules
}

// Reconcile merges adapter outcomes into the canonical window. Dates before
// now's calendar day are never available.
func Reconcile(in ReconcileInput, now time.Time) (*Window, error) {
	if err := allFailed(in); err != nil {
		return nil, err
	}

	today := DateOf(now)
	days := in.Range.Days()
	window := &Window{
		PropertyID: in.PropertyID,
		RoomID:     in.RoomID,
		Range:      in.Range,
		Mode:       in.Mode,
		Days:       make([]DateAvailability, 0, len(days)),
	}

	for _, date := range days {
		window.Days = append(window.Days, reconcileDay(in, date, today))
	}

	window.MinStay, window.MaxStay = stayRules(in)
	return window, nil
}

func reconcileDay(in ReconcileInput, date, today time.Time) DateAvailability {
	da := DateAvailability{Date: date}

	if date.Before(today) {
		da.IsBooked = true
		da.Source = SourcePast
		return da
	}

	price, priceSource := resolvePrice(in, date)
	da.Price = price

	if _, booked := in.Bookings.lookup(date); booked {
		da.IsBooked = true
		da.Source = SourceBookings
		return da
	}

	if cal, ok := in.Calendar.lookup(date); ok && !cal.Available {
		da.IsBooked = true
		da.Source = SourceCalendar
		return da
	}

	if in.Mode == ModeBooking && in.Offers != nil && !hasOffer(*in.Offers, date) {
		da.IsBooked = true
		da.Source = SourceOffers
		return da
	}

	da.IsAvailable = true
	da.Source = priceSource
	return da
}

// resolvePrice applies offer > calendar > bookings precedence. Blocked
// calendar entries do not contribute a price.
func resolvePrice(in ReconcileInput, date time.Time) (OptionalPrice, Source) {
	if in.Offers != nil {
		if offer, ok := in.Offers.lookup(date); ok && offer.Price.IsResolved() {
			return offer.Price, SourceOffers
		}
	}
	if cal, ok := in.Calendar.lookup(date); ok && cal.Available && cal.Price.IsResolved() {
		return cal.Price, SourceCalendar
	}
	if bk, ok := in.Bookings.lookup(date); ok && bk.Price.IsResolved() {
		return bk.Price, SourceBookings
	}
	return NoPrice(), SourceNone
}

// hasOffer reports whether the offers feed returned an entry for date. An
// entry without a usable price still counts; the price then falls back to
// the other sources or stays unresolved.
func hasOffer(o Outcome, date time.Time) bool {
	offer, ok := o.lookup(date)
	return ok && offer.Available
}

func stayRules(in ReconcileInput) (int, int) {
	minStay, maxStay := DefaultMinStay, DefaultMaxStay
	if in.Rules != nil {
		if in.Rules.MinStay > 0 {
			minStay = in.Rules.MinStay
		}
		if in.Rules.MaxStay > 0 {
			maxStay = in.Rules.MaxStay
		}
	}
	if !in.Calendar.Failed() && in.Calendar.Result != nil {
		if in.Calendar.Result.MinStay > 0 {
			minStay = in.Calendar.Result.MinStay
		}
		if in.Calendar.Result.MaxStay > 0 {
			maxStay = in.Calendar.Result.MaxStay
		}
	}
	if maxStay < minStay {
		maxStay = minStay
	}
	return minStay, maxStay
}

func allFailed(in ReconcileInput) error {
	outcomes := []Outcome{in.Bookings, in.Calendar}
	if in.Offers != nil {
		outcomes = append(outcomes, *in.Offers)
	}

	failures := make([]error, 0, len(outcomes))
	for _, o := range outcomes {
		if !o.Failed() {
			return nil
		}
		failures = append(failures, o.Err)
	}
	return errs.Mark(errs.Wrap(errors.Join(failures...), "reconcile "+in.PropertyID+"/"+in.RoomID), errs.ErrUpstreamUnavailable)
}
