//go:build e2e

package e2e

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

const (
	FakeToken      = "e2e-token"
	FakePropertyID = "1"
	FakeRoomID     = "10"
)

// FakeUpstream serves the reservation platform endpoints the adapters call.
// Every available night costs NightlyPrice through the offers feed.
type FakeUpstream struct {
	Server       *httptest.Server
	NightlyPrice int

	mu       sync.Mutex
	bookings []map[string]any
	hits     map[string]*atomic.Int64
}

func NewFakeUpstream(t *testing.T) *FakeUpstream {
	t.Helper()

	f := &FakeUpstream{
		NightlyPrice: 120,
		hits:         map[string]*atomic.Int64{},
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/properties", f.authorized("/properties", f.properties))
	mux.HandleFunc("/bookings", f.authorized("/bookings", f.listBookings))
	mux.HandleFunc("/inventory/rooms/calendar", f.authorized("/inventory/rooms/calendar", f.calendar))
	mux.HandleFunc("/inventory/rooms/offers", f.authorized("/inventory/rooms/offers", f.offers))
	f.Server = httptest.NewServer(mux)
	t.Cleanup(f.Server.Close)
	return f
}

func (f *FakeUpstream) URL() string { return f.Server.URL }

// Book marks [arrival, departure) as taken.
func (f *FakeUpstream) Book(arrival, departure string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.bookings = append(f.bookings, map[string]any{
		"roomId":    FakeRoomID,
		"arrival":   arrival,
		"departure": departure,
		"status":    "confirmed",
	})
}

func (f *FakeUpstream) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.bookings = nil
	for _, h := range f.hits {
		h.Store(0)
	}
}

func (f *FakeUpstream) Hits(path string) int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	if h, ok := f.hits[path]; ok {
		return h.Load()
	}
	return 0
}

func (f *FakeUpstream) authorized(path string, next http.HandlerFunc) http.HandlerFunc {
	f.mu.Lock()
	f.hits[path] = &atomic.Int64{}
	f.mu.Unlock()

	return func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.hits[path].Add(1)
		f.mu.Unlock()

		if r.Header.Get("token") != FakeToken {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		next(w, r)
	}
}

func (f *FakeUpstream) properties(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("id") != FakePropertyID {
		writeJSON(w, map[string]any{"data": []any{}})
		return
	}
	writeJSON(w, map[string]any{"data": []any{map[string]any{
		"id":       1,
		"name":     "Seaside Apartments",
		"currency": "EUR",
		"roomTypes": []any{map[string]any{
			"id":        10,
			"name":      "Double",
			"maxPeople": 4,
			"minStay":   1,
			"maxStay":   28,
		}},
	}}})
}

func (f *FakeUpstream) listBookings(w http.ResponseWriter, _ *http.Request) {
	f.mu.Lock()
	data := append([]map[string]any(nil), f.bookings...)
	f.mu.Unlock()
	writeJSON(w, map[string]any{"data": data})
}

func (f *FakeUpstream) calendar(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	writeJSON(w, map[string]any{"data": []any{map[string]any{
		"roomId": FakeRoomID,
		"calendar": []any{map[string]any{
			"from":     q.Get("startDate"),
			"to":       q.Get("endDate"),
			"numAvail": 1,
			"price1":   f.NightlyPrice,
			"minStay":  1,
			"maxStay":  28,
		}},
	}}})
}

// offers prices the whole stay; the adapter spreads it over the nights.
func (f *FakeUpstream) offers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	arrival, err1 := time.Parse(time.DateOnly, q.Get("arrival"))
	departure, err2 := time.Parse(time.DateOnly, q.Get("departure"))
	if err1 != nil || err2 != nil || !arrival.Before(departure) {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	nights := int(departure.Sub(arrival).Hours() / 24)
	writeJSON(w, map[string]any{"offers": []any{
		map[string]any{"roomId": FakeRoomID, "price": f.NightlyPrice * nights},
	}})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
