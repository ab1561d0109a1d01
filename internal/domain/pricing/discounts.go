package pricing

import (
	"slices"
	"sort"
	"time"
)

// LoyaltyDiscountPercent is applied on every quote for a tiered guest.
func (r Rules) LoyaltyDiscountPercent(tier LoyaltyTier) float64 {
	if tier == TierNone {
		return 0
	}
	return r.LoyaltyPercent[tier]
}

// StayLengthDiscountPercent returns the percentage of the highest tier whose
// threshold the stay reaches.
func (r Rules) StayLengthDiscountPercent(nights int) float64 {
	tiers := slices.Clone(r.StayTiers)
	sort.Slice(tiers, func(i, j int) bool {
		return tiers[i].MinNights < tiers[j].MinNights
	})

	percent := 0.0
	for _, t := range tiers {
		if nights >= t.MinNights {
			percent = t.Percent
		}
	}
	return percent
}

func (r Rules) SeasonalDiscountPercent(checkIn time.Time) float64 {
	if slices.Contains(r.Seasonal.Months, checkIn.Month()) {
		return r.Seasonal.Percent
	}
	return 0
}
