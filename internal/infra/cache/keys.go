package cache

import (
	"strconv"
	"strings"
	"time"

	"availability-engine/internal/domain/availability"
	"availability-engine/internal/domain/pricing"
)

type TTLs struct {
	Availability time.Duration
	Metadata     time.Duration
	Pricing      time.Duration
	Rules        time.Duration
}

func DefaultTTLs() TTLs {
	return TTLs{
		Availability: 5 * time.Minute,
		Metadata:     30 * time.Minute,
		Pricing:      10 * time.Minute,
		Rules:        60 * time.Minute,
	}
}

const (
	classAvailability = "availability"
	classQuote        = "quote"
	classMetadata     = "metadata"
	classRules        = "rules"
)

func join(parts ...string) string {
	return strings.Join(parts, ":")
}

// AvailabilityKey does not include occupancy: windows are built at the base
// occupancy and shared by every guest count.
func AvailabilityKey(propertyID, roomID string, r availability.DateRange, mode availability.Mode) string {
	return join(classAvailability, propertyID, roomID,
		availability.FormatDate(r.From), availability.FormatDate(r.To), mode.String())
}

func QuoteKey(propertyID, roomID string, req pricing.StayRequest) string {
	return join(classQuote, propertyID, roomID,
		availability.FormatDate(req.Range.From), availability.FormatDate(req.Range.To),
		strconv.Itoa(req.Adults), strconv.Itoa(req.Children), req.Tier.String())
}

func MetadataKey(propertyID string) string {
	return join(classMetadata, propertyID)
}

func RulesKey(propertyID, roomID string) string {
	return join(classRules, propertyID, roomID)
}

// PropertyPrefixes lists the prefixes of every room-scoped class for
// propertyID. The trailing separator keeps "1" from matching "12". The
// metadata entry has no room segment and is removed by its exact key.
func PropertyPrefixes(propertyID string) []string {
	return []string{
		join(classAvailability, propertyID, ""),
		join(classQuote, propertyID, ""),
		join(classRules, propertyID, ""),
	}
}
