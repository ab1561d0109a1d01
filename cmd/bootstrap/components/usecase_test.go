//go:build unit

package components_test

import (
	"testing"
	"time"

	"availability-engine/cmd/bootstrap/components"
	"availability-engine/internal/domain/pricing"
	"availability-engine/internal/pkg/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPricingRules(t *testing.T) {
	t.Run("builds rules from test config", func(t *testing.T) {
		cfg := config.NewTestConfig()
		cfg.Pricing.CleaningFee = "45.5"

		rules, err := components.NewPricingRules(cfg)

		require.NoError(t, err)
		assert.Equal(t, "EUR", rules.Currency)
		assert.Equal(t, "20.00", rules.AdultFee.String())
		assert.Equal(t, "45.50", rules.CleaningFee.String())
		assert.Equal(t, []pricing.StayDiscountTier{
			{MinNights: 7, Percent: 5},
			{MinNights: 14, Percent: 10},
			{MinNights: 30, Percent: 20},
		}, rules.StayTiers)
		assert.Equal(t, []time.Month{time.January, time.February, time.March, time.November}, rules.Seasonal.Months)
		assert.Equal(t, 5.0, rules.LoyaltyPercent[pricing.TierSilver])
	})

	t.Run("rejects malformed amount", func(t *testing.T) {
		cfg := config.NewTestConfig()
		cfg.Pricing.AdultFee = "twenty"

		_, err := components.NewPricingRules(cfg)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "PRICING_ADULT_FEE")
	})

	t.Run("rejects month out of range", func(t *testing.T) {
		cfg := config.NewTestConfig()
		cfg.Pricing.SeasonalMonths = []int{13}

		_, err := components.NewPricingRules(cfg)

		require.Error(t, err)
	})
}
