package pricing

import (
	"availability-engine/internal/domain/availability"
	"availability-engine/internal/pkg/errs"
)

type Engine struct {
	rules Rules
}

func NewEngine(rules Rules) *Engine {
	if rules.IncludedAdults <= 0 {
		rules.IncludedAdults = 2
	}
	return &Engine{rules: rules}
}

func (e *Engine) Rules() Rules {
	return e.rules
}

// Compute prices req against window. Every night of the stay must carry a
// resolved price; otherwise an *IncompletePricingError is returned.
func (e *Engine) Compute(window *availability.Window, req StayRequest) (*Quote, error) {
	if req.Adults < 1 || req.Children < 0 {
		return nil, errs.ErrInvalidOccupancy
	}
	nights := req.Range.Nights()
	if nights < 1 {
		return nil, errs.ErrInvalidRange
	}

	breakdown, err := e.nightly(window, req)
	if err != nil {
		return nil, err
	}

	base := availability.Zero()
	surcharge := availability.Zero()
	for _, d := range breakdown {
		base = base.Add(d.BasePrice)
		surcharge = surcharge.Add(d.GuestSurcharge)
	}
	subtotal := base.Add(surcharge)

	loyalty := subtotal.Percent(e.rules.LoyaltyDiscountPercent(req.Tier))
	stay := subtotal.Percent(e.rules.StayLengthDiscountPercent(nights))
	seasonal := subtotal.Percent(e.rules.SeasonalDiscountPercent(req.Range.From))

	// Stay-length and seasonal discounts never stack; the larger one wins.
	applied, kind := largerDiscount(stay, seasonal)

	cleaning := e.rules.CleaningFee
	cityTax := e.rules.CityTaxPerAdultNight.Mul(nights * req.Adults)

	total := subtotal.
		Sub(loyalty).
		Sub(applied).
		Add(cleaning).
		Add(cityTax).
		FloorAtZero().
		Round()

	return &Quote{
		Currency:               e.rules.Currency,
		Nights:                 nights,
		Adults:                 req.Adults,
		Children:               req.Children,
		Tier:                   req.Tier,
		BaseSubtotal:           base.Round(),
		GuestSurcharge:         surcharge.Round(),
		LoyaltyDiscount:        loyalty,
		StayOrSeasonalDiscount: applied,
		AppliedDiscount:        kind,
		CleaningFee:            cleaning.Round(),
		CityTax:                cityTax.Round(),
		Total:                  total,
		Breakdown:              breakdown,
	}, nil
}

// GuestSurchargePerNight is the flat occupancy fee, independent of the
// nightly base price.
func (e *Engine) GuestSurchargePerNight(adults, children int) availability.Money {
	extraAdults := adults - e.rules.IncludedAdults
	if extraAdults < 0 {
		extraAdults = 0
	}
	return e.rules.AdultFee.Mul(extraAdults).Add(e.rules.ChildFee.Mul(children))
}

func (e *Engine) nightly(window *availability.Window, req StayRequest) ([]DayBreakdown, error) {
	perNight := e.GuestSurchargePerNight(req.Adults, req.Children)

	var missing []availability.DateAvailability
	breakdown := make([]DayBreakdown, 0, req.Range.Nights())
	for _, date := range req.Range.Days() {
		day, ok := window.Day(date)
		if !ok {
			day = availability.DateAvailability{Date: date}
		}
		price, resolved := day.Price.Get()
		if !resolved {
			missing = append(missing, day)
			continue
		}
		breakdown = append(breakdown, DayBreakdown{
			Date:           date,
			BasePrice:      price,
			GuestSurcharge: perNight,
		})
	}

	if len(missing) > 0 {
		ipe := &IncompletePricingError{}
		for _, d := range missing {
			ipe.Missing = append(ipe.Missing, d.Date)
		}
		return nil, ipe
	}
	return breakdown, nil
}

func largerDiscount(stay, seasonal availability.Money) (availability.Money, DiscountKind) {
	switch {
	case !stay.IsPositive() && !seasonal.IsPositive():
		return availability.Zero(), DiscountNone
	case seasonal.Cmp(stay) > 0:
		return seasonal, DiscountSeasonal
	default:
		return stay, DiscountStayLength
	}
}
