package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// -----------------------------------------------------------------------------
// Environment variable configuration guidelines:
// - required: Values that differ between environments (upstream URL, credentials, etc.)
// - default: Values common across all environments (timeouts, fees, discounts, etc.)
// -----------------------------------------------------------------------------

type Config struct {
	Server    ServerConfig
	DB        DBConfig
	CORS      CORSConfig
	Log       LogConfig
	Upstream  UpstreamConfig
	RateLimit RateLimitConfig
	Cache     CacheConfig
	Pricing   PricingConfig
}

type ServerConfig struct {
	Port string `envconfig:"PORT" required:"true"`
}

// DBConfig points at the guest database used for loyalty lookups. When
// disabled, quotes only honour an explicitly requested tier.
type DBConfig struct {
	Enabled  bool   `envconfig:"DB_ENABLED" default:"false"`
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER" default:"booking"`
	Password string `envconfig:"DB_PASSWORD" default:""`
	DBName   string `envconfig:"DB_NAME" default:"booking"`
	SSLMode  string `envconfig:"DB_SSL_MODE" default:"disable"`
	TimeZone string `envconfig:"DB_TIMEZONE" default:"UTC"`
}

type CORSConfig struct {
	AllowOrigins     []string      `envconfig:"CORS_ALLOW_ORIGINS" default:"http://localhost:3000,http://localhost:8080"`
	AllowMethods     []string      `envconfig:"CORS_ALLOW_METHODS" default:"GET,POST,OPTIONS"`
	AllowHeaders     []string      `envconfig:"CORS_ALLOW_HEADERS" default:"Origin,Content-Type,Accept,X-Request-Id"`
	ExposeHeaders    []string      `envconfig:"CORS_EXPOSE_HEADERS" default:"Content-Length,X-Request-Id"`
	AllowCredentials bool          `envconfig:"CORS_ALLOW_CREDENTIALS" default:"false"`
	MaxAge           time.Duration `envconfig:"CORS_MAX_AGE" default:"12h"`
}

type LogConfig struct {
	Level          string `envconfig:"LOG_LEVEL" default:"info"`
	TimeZone       string `envconfig:"LOG_TIMEZONE" default:"UTC"`
	TimeFormat     string `envconfig:"LOG_TIME_FORMAT" default:"2006-01-02 15:04:05.000"`
	TimeZoneOffset int    `envconfig:"LOG_TIMEZONE_OFFSET" default:"0"`
}

// UpstreamConfig describes the reservation platform account.
// AuthMode selects the token strategy: "long_life" or "refresh".
type UpstreamConfig struct {
	BaseURL           string            `envconfig:"UPSTREAM_BASE_URL" required:"true"`
	AuthMode          string            `envconfig:"UPSTREAM_AUTH_MODE" default:"long_life"`
	Token             string            `envconfig:"UPSTREAM_TOKEN"`
	RefreshToken      string            `envconfig:"UPSTREAM_REFRESH_TOKEN"`
	TokenLifetime     time.Duration     `envconfig:"UPSTREAM_TOKEN_LIFETIME" default:"24h"`
	TokenExpiryBuffer time.Duration     `envconfig:"UPSTREAM_TOKEN_EXPIRY_BUFFER" default:"5m"`
	RefreshAttempts   int               `envconfig:"UPSTREAM_REFRESH_ATTEMPTS" default:"3"`
	RequestTimeout    time.Duration     `envconfig:"UPSTREAM_REQUEST_TIMEOUT" default:"10s"`
	AdapterTimeout    time.Duration     `envconfig:"UPSTREAM_ADAPTER_TIMEOUT" default:"15s"`
	MaxAttempts       int               `envconfig:"UPSTREAM_MAX_ATTEMPTS" default:"3"`
	BackoffInitial    time.Duration     `envconfig:"UPSTREAM_BACKOFF_INITIAL" default:"200ms"`
	BackoffMax        time.Duration     `envconfig:"UPSTREAM_BACKOFF_MAX" default:"2s"`
	BaseAdults        int               `envconfig:"UPSTREAM_BASE_ADULTS" default:"2"`
	PropertyMap       map[string]string `envconfig:"PROPERTY_MAP"`
	RoomMap           map[string]string `envconfig:"ROOM_MAP"`
}

type RateLimitConfig struct {
	MinDelay     time.Duration `envconfig:"RATE_LIMIT_MIN_DELAY" default:"1s"`
	MaxPerWindow int           `envconfig:"RATE_LIMIT_MAX_PER_MINUTE" default:"50"`
	Window       time.Duration `envconfig:"RATE_LIMIT_WINDOW" default:"1m"`
}

type CacheConfig struct {
	RedisAddr       string        `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	RedisPassword   string        `envconfig:"REDIS_PASSWORD"`
	RedisDB         int           `envconfig:"REDIS_DB" default:"0"`
	ConnectAttempts int           `envconfig:"CACHE_CONNECT_ATTEMPTS" default:"3"`
	ConnectBackoff  time.Duration `envconfig:"CACHE_CONNECT_BACKOFF" default:"100ms"`
	AvailabilityTTL time.Duration `envconfig:"CACHE_TTL_AVAILABILITY" default:"5m"`
	MetadataTTL     time.Duration `envconfig:"CACHE_TTL_METADATA" default:"30m"`
	PricingTTL      time.Duration `envconfig:"CACHE_TTL_PRICING" default:"10m"`
	RulesTTL        time.Duration `envconfig:"CACHE_TTL_RULES" default:"60m"`
}

// PricingConfig amounts are decimal strings in the property currency.
type PricingConfig struct {
	Currency             string  `envconfig:"PRICING_CURRENCY" default:"EUR"`
	IncludedAdults       int     `envconfig:"PRICING_INCLUDED_ADULTS" default:"2"`
	AdultFee             string  `envconfig:"PRICING_ADULT_FEE" default:"20"`
	ChildFee             string  `envconfig:"PRICING_CHILD_FEE" default:"10"`
	CleaningFee          string  `envconfig:"PRICING_CLEANING_FEE" default:"0"`
	CityTaxPerAdultNight string  `envconfig:"PRICING_CITY_TAX" default:"0"`
	LoyaltyBronze        float64 `envconfig:"PRICING_LOYALTY_BRONZE" default:"2"`
	LoyaltySilver        float64 `envconfig:"PRICING_LOYALTY_SILVER" default:"5"`
	LoyaltyGold          float64 `envconfig:"PRICING_LOYALTY_GOLD" default:"10"`
	// "nights:percent" pairs, e.g. 7:5,14:10,30:20
	StayTiers       map[int]float64 `envconfig:"PRICING_STAY_TIERS" default:"7:5,14:10,30:20"`
	SeasonalMonths  []int           `envconfig:"PRICING_SEASONAL_MONTHS" default:"1,2,3,11"`
	SeasonalPercent float64         `envconfig:"PRICING_SEASONAL_PERCENT" default:"15"`
}

func (c *DBConfig) BuildDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&timezone=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode, c.TimeZone,
	)
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("failed to process env config: %w", err)
	}
	return cfg, nil
}

func NewTestConfig() Config {
	return Config{
		Server: ServerConfig{
			Port: "8889", // Test port
		},
		DB: DBConfig{
			Enabled:  false,
			Host:     "localhost",
			Port:     "15433", // Test DB port
			User:     "test",
			Password: "test",
			DBName:   "test_db",
			SSLMode:  "disable",
			TimeZone: "UTC",
		},
		CORS: CORSConfig{
			AllowOrigins: []string{"http://localhost:3000"},
			AllowMethods: []string{"GET", "POST", "OPTIONS"},
			AllowHeaders: []string{"Origin", "Content-Type", "Accept", "X-Request-Id"},
			MaxAge:       time.Hour,
		},
		Log: LogConfig{
			Level:          "error", // Error level only for tests
			TimeZone:       "UTC",
			TimeFormat:     "2006-01-02 15:04:05.000",
			TimeZoneOffset: 0,
		},
		Upstream: UpstreamConfig{
			BaseURL:           "http://localhost:0",
			AuthMode:          "long_life",
			Token:             "test-token",
			TokenLifetime:     time.Hour,
			TokenExpiryBuffer: 5 * time.Minute,
			RefreshAttempts:   3,
			RequestTimeout:    time.Second,
			AdapterTimeout:    2 * time.Second,
			MaxAttempts:       2,
			BackoffInitial:    time.Millisecond,
			BackoffMax:        5 * time.Millisecond,
			BaseAdults:        2,
		},
		RateLimit: RateLimitConfig{
			MinDelay:     0,
			MaxPerWindow: 1000,
			Window:       time.Minute,
		},
		Cache: CacheConfig{
			RedisAddr:       "localhost:0",
			ConnectAttempts: 1,
			ConnectBackoff:  time.Millisecond,
			AvailabilityTTL: 5 * time.Minute,
			MetadataTTL:     30 * time.Minute,
			PricingTTL:      10 * time.Minute,
			RulesTTL:        60 * time.Minute,
		},
		Pricing: PricingConfig{
			Currency:             "EUR",
			IncludedAdults:       2,
			AdultFee:             "20",
			ChildFee:             "10",
			CleaningFee:          "0",
			CityTaxPerAdultNight: "0",
			LoyaltyBronze:        2,
			LoyaltySilver:        5,
			LoyaltyGold:          10,
			StayTiers:            map[int]float64{7: 5, 14: 10, 30: 20},
			SeasonalMonths:       []int{1, 2, 3, 11},
			SeasonalPercent:      15,
		},
	}
}
