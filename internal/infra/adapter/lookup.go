package adapter

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"
	"strings"
	"time"

	"availability-engine/internal/domain/availability"
)

// Fetcher performs one upstream GET and returns the decoded JSON document.
type Fetcher interface {
	Get(ctx context.Context, path string, query url.Values) (any, error)
}

var listWrappers = []string{"data", "bookings", "calendar", "offers", "items", "properties"}

// listOf accepts a bare array or an object wrapping one under a known key,
// possibly one level deeper (e.g. {"data":{"items":[...]}}).
func listOf(doc any) []any {
	switch v := doc.(type) {
	case []any:
		return v
	case map[string]any:
		for _, key := range listWrappers {
			inner, ok := v[key]
			if !ok {
				continue
			}
			if list := listOf(inner); list != nil {
				return list
			}
		}
	}
	return nil
}

func objectOf(v any) (map[string]any, bool) {
	m, ok := v.(map[string]any)
	return m, ok
}

// first returns the value of the first alias that is present and non-empty.
func first(m map[string]any, aliases ...string) (any, bool) {
	for _, key := range aliases {
		v, ok := m[key]
		if !ok || v == nil {
			continue
		}
		if s, isStr := v.(string); isStr && strings.TrimSpace(s) == "" {
			continue
		}
		return v, true
	}
	return nil, false
}

func stringOf(m map[string]any, aliases ...string) string {
	v, ok := first(m, aliases...)
	if !ok {
		return ""
	}
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case json.Number:
		return t.String()
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	}
	return ""
}

func moneyOf(m map[string]any, aliases ...string) (availability.Money, bool) {
	v, ok := first(m, aliases...)
	if !ok {
		return availability.Money{}, false
	}
	return parseMoney(v)
}

func parseMoney(v any) (availability.Money, bool) {
	switch t := v.(type) {
	case json.Number:
		money, err := availability.ParseMoney(t.String())
		return money, err == nil
	case float64:
		return availability.MoneyFromFloat(t), true
	case string:
		money, err := availability.ParseMoney(strings.ReplaceAll(strings.TrimSpace(t), ",", "."))
		return money, err == nil
	}
	return availability.Money{}, false
}

func intOf(m map[string]any, aliases ...string) (int, bool) {
	v, ok := first(m, aliases...)
	if !ok {
		return 0, false
	}
	switch t := v.(type) {
	case json.Number:
		if n, err := t.Int64(); err == nil {
			return int(n), true
		}
		if f, err := t.Float64(); err == nil {
			return int(f), true
		}
	case float64:
		return int(t), true
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(t)); err == nil {
			return n, true
		}
	}
	return 0, false
}

func boolOf(m map[string]any, aliases ...string) (bool, bool) {
	v, ok := first(m, aliases...)
	if !ok {
		return false, false
	}
	switch t := v.(type) {
	case bool:
		return t, true
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(t))
		return b, err == nil
	case json.Number:
		return t.String() != "0", true
	case float64:
		return t != 0, true
	}
	return false, false
}

func dateOf(m map[string]any, aliases ...string) (time.Time, bool) {
	s := stringOf(m, aliases...)
	if s == "" {
		return time.Time{}, false
	}
	d, err := availability.ParseDate(s)
	return d, err == nil
}

// priceOf resolves only strictly positive amounts.
func priceOf(m availability.Money, ok bool) availability.OptionalPrice {
	if !ok {
		return availability.NoPrice()
	}
	return availability.PriceOf(m)
}
