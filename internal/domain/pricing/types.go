package pricing

import (
	"errors"
	"strings"
	"time"

	"availability-engine/internal/domain/availability"
	"availability-engine/internal/pkg/errs"
)

var ErrInvalidTier = errors.New("invalid loyalty tier")

type LoyaltyTier string

const (
	TierNone   LoyaltyTier = ""
	TierBronze LoyaltyTier = "bronze"
	TierSilver LoyaltyTier = "silver"
	TierGold   LoyaltyTier = "gold"
)

func NewLoyaltyTier(s string) (LoyaltyTier, error) {
	switch LoyaltyTier(strings.ToLower(strings.TrimSpace(s))) {
	case TierNone, "none":
		return TierNone, nil
	case TierBronze:
		return TierBronze, nil
	case TierSilver:
		return TierSilver, nil
	case TierGold:
		return TierGold, nil
	default:
		return TierNone, ErrInvalidTier
	}
}

func (t LoyaltyTier) String() string {
	if t == TierNone {
		return "none"
	}
	return string(t)
}

// Completed-booking thresholds for each tier.
const (
	BronzeThreshold = 1
	SilverThreshold = 5
	GoldThreshold   = 10
)

// TierForCompletedBookings derives a guest's tier from how many stays they
// have completed.
func TierForCompletedBookings(n int) LoyaltyTier {
	switch {
	case n >= GoldThreshold:
		return TierGold
	case n >= SilverThreshold:
		return TierSilver
	case n >= BronzeThreshold:
		return TierBronze
	default:
		return TierNone
	}
}

// StayDiscountTier applies Percent to stays of at least MinNights.
type StayDiscountTier struct {
	MinNights int
	Percent   float64
}

// SeasonalDiscount applies Percent when the check-in month is one of Months.
type SeasonalDiscount struct {
	Months  []time.Month
	Percent float64
}

// Rules holds the fee and discount constants supplied by configuration.
type Rules struct {
	Currency             string
	IncludedAdults       int
	AdultFee             availability.Money
	ChildFee             availability.Money
	CleaningFee          availability.Money
	CityTaxPerAdultNight availability.Money
	LoyaltyPercent       map[LoyaltyTier]float64
	StayTiers            []StayDiscountTier
	Seasonal             SeasonalDiscount
}

type StayRequest struct {
	Range    availability.DateRange
	Adults   int
	Children int
	Tier     LoyaltyTier
}

type DiscountKind string

const (
	DiscountNone       DiscountKind = "none"
	DiscountStayLength DiscountKind = "stay_length"
	DiscountSeasonal   DiscountKind = "seasonal"
)

type DayBreakdown struct {
	Date           time.Time          `json:"date"`
	BasePrice      availability.Money `json:"basePrice"`
	GuestSurcharge availability.Money `json:"guestSurcharge"`
}

type Quote struct {
	Currency               string             `json:"currency"`
	Nights                 int                `json:"nights"`
	Adults                 int                `json:"adults"`
	Children               int                `json:"children"`
	Tier                   LoyaltyTier        `json:"tier"`
	BaseSubtotal           availability.Money `json:"baseSubtotal"`
	GuestSurcharge         availability.Money `json:"guestSurcharge"`
	LoyaltyDiscount        availability.Money `json:"loyaltyDiscount"`
	StayOrSeasonalDiscount availability.Money `json:"stayOrSeasonalDiscount"`
	AppliedDiscount        DiscountKind       `json:"appliedDiscount"`
	CleaningFee            availability.Money `json:"cleaningFee"`
	CityTax                availability.Money `json:"cityTax"`
	Total                  availability.Money `json:"total"`
	Breakdown              []DayBreakdown     `json:"breakdown"`
}

// IncompletePricingError lists the stay dates without a resolved nightly price.
type IncompletePricingError struct {
	Missing []time.Time
}

func (e *IncompletePricingError) Error() string {
	dates := make([]string, len(e.Missing))
	for i, d := range e.Missing {
		dates[i] = availability.FormatDate(d)
	}
	return "incomplete pricing: no price for " + strings.Join(dates, ", ")
}

func (e *IncompletePricingError) Is(target error) bool {
	return target == errs.ErrIncompletePricing
}

func AsIncompletePricing(err error) *IncompletePricingError {
	var ipe *IncompletePricingError
	if errors.As(err, &ipe) {
		return ipe
	}
	return nil
}
