package components

import (
	"log/slog"
	"sort"
	"time"

	"availability-engine/internal/domain/availability"
	"availability-engine/internal/domain/pricing"
	"availability-engine/internal/infra/cache"
	"availability-engine/internal/infra/readstore"
	"availability-engine/internal/pkg/config"
	"availability-engine/internal/pkg/errs"
	"availability-engine/internal/usecase"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseEngineModule,
)

var usecaseBaseOption = fx.Provide(
	NewPricingRules,
	pricing.NewEngine,
	NewLoyaltyStore,
	usecase.NewLoyaltyResolver,
	NewEngineConfig,
)

var usecaseEngineModule = fx.Module("usecase/engine",
	fx.Provide(
		fx.Annotate(
			usecase.NewEngine,
			fx.As(new(usecase.AvailabilityEngine)),
		),
	),
)

// NewLoyaltyStore is nil when no database is configured; guests then resolve
// to no tier.
func NewLoyaltyStore(pool *pgxpool.Pool, logger *slog.Logger) usecase.LoyaltyStore {
	if pool == nil {
		return nil
	}
	return readstore.NewLoyaltyReadStore(pool, logger)
}

func NewEngineConfig(cfg config.Config, ttls cache.TTLs) usecase.EngineConfig {
	return usecase.EngineConfig{
		AdapterTimeout: cfg.Upstream.AdapterTimeout,
		BaseAdults:     cfg.Upstream.BaseAdults,
		TTLs:           ttls,
		PropertyMap:    cfg.Upstream.PropertyMap,
		RoomMap:        cfg.Upstream.RoomMap,
	}
}

func NewPricingRules(cfg config.Config) (pricing.Rules, error) {
	pc := cfg.Pricing
	rules := pricing.Rules{
		Currency:       pc.Currency,
		IncludedAdults: pc.IncludedAdults,
		LoyaltyPercent: map[pricing.LoyaltyTier]float64{
			pricing.TierBronze: pc.LoyaltyBronze,
			pricing.TierSilver: pc.LoyaltySilver,
			pricing.TierGold:   pc.LoyaltyGold,
		},
		Seasonal: pricing.SeasonalDiscount{Percent: pc.SeasonalPercent},
	}

	amounts := []struct {
		name  string
		value string
		dst   *availability.Money
	}{
		{"PRICING_ADULT_FEE", pc.AdultFee, &rules.AdultFee},
		{"PRICING_CHILD_FEE", pc.ChildFee, &rules.ChildFee},
		{"PRICING_CLEANING_FEE", pc.CleaningFee, &rules.CleaningFee},
		{"PRICING_CITY_TAX", pc.CityTaxPerAdultNight, &rules.CityTaxPerAdultNight},
	}
	for _, a := range amounts {
		if a.value == "" {
			continue
		}
		m, err := availability.ParseMoney(a.value)
		if err != nil {
			return pricing.Rules{}, errs.Wrapf(err, "invalid %s", a.name)
		}
		*a.dst = m
	}

	for nights, pct := range pc.StayTiers {
		rules.StayTiers = append(rules.StayTiers, pricing.StayDiscountTier{MinNights: nights, Percent: pct})
	}
	sort.Slice(rules.StayTiers, func(i, j int) bool {
		return rules.StayTiers[i].MinNights < rules.StayTiers[j].MinNights
	})

	for _, m := range pc.SeasonalMonths {
		if m < 1 || m > 12 {
			return pricing.Rules{}, errs.Newf("invalid PRICING_SEASONAL_MONTHS entry %d", m)
		}
		rules.Seasonal.Months = append(rules.Seasonal.Months, time.Month(m))
	}

	return rules, nil
}
