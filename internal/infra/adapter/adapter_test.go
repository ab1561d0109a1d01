//go:build unit

package adapter_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/url"
	"strings"
	"testing"
	"time"

	"availability-engine/internal/domain/availability"
	"availability-engine/internal/infra/adapter"
	"availability-engine/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errUpstreamDown = errors.New("upstream down")

type fakeFetcher struct {
	body      string
	err       error
	lastPath  string
	lastQuery url.Values
}

func (f *fakeFetcher) Get(_ context.Context, path string, query url.Values) (any, error) {
	f.lastPath, f.lastQuery = path, query
	if f.err != nil {
		return nil, f.err
	}
	dec := json.NewDecoder(strings.NewReader(f.body))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func day(s string) time.Time {
	d, err := availability.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func mustRange(t *testing.T, from, to string) availability.DateRange {
	t.Helper()
	r, err := availability.ParseDateRange(from, to)
	require.NoError(t, err)
	return r
}

func priceString(t *testing.T, p availability.OptionalPrice) string {
	t.Helper()
	m, ok := p.Get()
	if !ok {
		return "unresolved"
	}
	return m.String()
}

func TestBookingsAdapter_Fetch(t *testing.T) {
	r := mustRange(t, "2025-06-01", "2025-06-08")

	t.Run("success: expands active stays and clips to range", func(t *testing.T) {
		f := &fakeFetcher{body: `{"data":[
			{"arrival":"2025-05-30","departure":"2025-06-02","status":"confirmed","price":300},
			{"arrival":"2025-06-05","departure":"2025-06-06","status":"cancelled","price":100},
			{"arrivalDate":"2025-06-06","departureDate":"2025-06-10","status":1,"total":"400"}
		]}`}
		res, err := adapter.NewBookingsAdapter(f, discardLogger()).Fetch(context.Background(), "p1", "r1", r)
		require.NoError(t, err)

		assert.Equal(t, "/bookings", f.lastPath)
		assert.Equal(t, "2025-06-07", f.lastQuery.Get("arrivalTo"))
		assert.Len(t, res.Days, 3)

		d, ok := res.Lookup(day("2025-06-01"))
		require.True(t, ok)
		assert.False(t, d.Available)
		assert.Equal(t, "100.00", priceString(t, d.Price))

		_, ok = res.Lookup(day("2025-06-05"))
		assert.False(t, ok, "cancelled booking must not block")

		d, ok = res.Lookup(day("2025-06-07"))
		require.True(t, ok)
		assert.Equal(t, "100.00", priceString(t, d.Price))
	})

	t.Run("success: rate string beats even split", func(t *testing.T) {
		f := &fakeFetcher{body: `[{"arrival":"2025-06-02","departure":"2025-06-04","status":"new","price":200,
			"priceDetails":"2025-06-02 EUR 150.00\n2025-06-03 EUR 50,00"}]`}
		res, err := adapter.NewBookingsAdapter(f, discardLogger()).Fetch(context.Background(), "p1", "r1", r)
		require.NoError(t, err)

		d, _ := res.Lookup(day("2025-06-02"))
		assert.Equal(t, "150.00", priceString(t, d.Price))
		d, _ = res.Lookup(day("2025-06-03"))
		assert.Equal(t, "50.00", priceString(t, d.Price))
	})

	t.Run("success: zero total leaves price unresolved", func(t *testing.T) {
		f := &fakeFetcher{body: `[{"arrival":"2025-06-02","departure":"2025-06-03","price":0}]`}
		res, err := adapter.NewBookingsAdapter(f, discardLogger()).Fetch(context.Background(), "p1", "r1", r)
		require.NoError(t, err)

		d, ok := res.Lookup(day("2025-06-02"))
		require.True(t, ok)
		assert.False(t, d.Price.IsResolved())
	})

	t.Run("success: other rooms and malformed entries are ignored", func(t *testing.T) {
		f := &fakeFetcher{body: `{"bookings":[
			{"arrival":"2025-06-02","departure":"2025-06-03","roomId":"r2"},
			{"arrival":"bad","departure":"2025-06-03"},
			"junk"
		]}`}
		res, err := adapter.NewBookingsAdapter(f, discardLogger()).Fetch(context.Background(), "p1", "r1", r)
		require.NoError(t, err)
		assert.True(t, res.IsEmpty())
	})

	t.Run("success: empty document is an empty result", func(t *testing.T) {
		f := &fakeFetcher{body: `{}`}
		res, err := adapter.NewBookingsAdapter(f, discardLogger()).Fetch(context.Background(), "p1", "r1", r)
		require.NoError(t, err)
		assert.True(t, res.IsEmpty())
	})

	t.Run("error: fetch failure keeps classification", func(t *testing.T) {
		f := &fakeFetcher{err: errs.Mark(errUpstreamDown, errs.ErrUpstreamTransport)}
		_, err := adapter.NewBookingsAdapter(f, discardLogger()).Fetch(context.Background(), "p1", "r1", r)
		assert.ErrorIs(t, err, errs.ErrUpstreamTransport)
	})
}

func TestCalendarAdapter_Fetch(t *testing.T) {
	r := mustRange(t, "2025-06-01", "2025-06-05")

	t.Run("success: single dates, ranges, blocks and price aliases", func(t *testing.T) {
		f := &fakeFetcher{body: `{"data":[{"roomId":"r1","calendar":[
			{"from":"2025-06-01","to":"2025-06-02","price1":"80","numAvail":1,"minStay":2,"maxStay":14},
			{"date":"2025-06-02","rate":90},
			{"date":"2025-06-03","numAvail":0,"price":70},
			{"date":"2025-06-04","status":"closed"}
		]},{"roomId":"r9","calendar":[{"date":"2025-06-04","price":1}]}]}`}
		res, err := adapter.NewCalendarAdapter(f, discardLogger()).Fetch(context.Background(), "p1", "r1", r)
		require.NoError(t, err)

		d, _ := res.Lookup(day("2025-06-01"))
		assert.True(t, d.Available)
		assert.Equal(t, "80.00", priceString(t, d.Price))

		d, _ = res.Lookup(day("2025-06-02"))
		assert.Equal(t, "90.00", priceString(t, d.Price), "last entry wins")

		d, _ = res.Lookup(day("2025-06-03"))
		assert.False(t, d.Available)
		assert.False(t, d.Price.IsResolved())

		d, ok := res.Lookup(day("2025-06-04"))
		require.True(t, ok)
		assert.False(t, d.Available)

		assert.Equal(t, 2, res.MinStay)
		assert.Equal(t, 14, res.MaxStay)
	})

	t.Run("success: available false blocks", func(t *testing.T) {
		f := &fakeFetcher{body: `[{"date":"2025-06-02","available":false,"price":50}]`}
		res, err := adapter.NewCalendarAdapter(f, discardLogger()).Fetch(context.Background(), "p1", "r1", r)
		require.NoError(t, err)

		d, _ := res.Lookup(day("2025-06-02"))
		assert.False(t, d.Available)
		assert.Zero(t, res.MinStay)
	})
}

func TestOffersAdapter_Fetch(t *testing.T) {
	r := mustRange(t, "2025-06-01", "2025-06-05")

	t.Run("success: cheapest per-stay offer is spread over nights", func(t *testing.T) {
		f := &fakeFetcher{body: `{"offers":[{"price":500},{"price":400.00},{"price":0}]}`}
		res, err := adapter.NewOffersAdapter(f, discardLogger()).Fetch(context.Background(), "p1", "r1", r, 2)
		require.NoError(t, err)

		assert.Equal(t, "2", f.lastQuery.Get("adults"))
		assert.Len(t, res.Days, 4)
		for _, date := range r.Days() {
			d, _ := res.Lookup(date)
			assert.True(t, d.Available)
			assert.Equal(t, "100.00", priceString(t, d.Price))
		}
	})

	t.Run("success: per-date entries set that date only", func(t *testing.T) {
		f := &fakeFetcher{body: `{"data":[{"roomId":"r1","offers":[
			{"date":"2025-06-02","price":"120.5"},
			{"date":"2025-06-02","price":"110"},
			{"date":"2025-07-01","price":"99"}
		]}]}`}
		res, err := adapter.NewOffersAdapter(f, discardLogger()).Fetch(context.Background(), "p1", "r1", r, 2)
		require.NoError(t, err)

		assert.Len(t, res.Days, 1)
		d, _ := res.Lookup(day("2025-06-02"))
		assert.Equal(t, "110.00", priceString(t, d.Price))
	})

	t.Run("success: dated entry without a usable price is kept unpriced", func(t *testing.T) {
		f := &fakeFetcher{body: `{"offers":[
			{"date":"2025-06-02","price":0},
			{"date":"2025-06-03"},
			{"date":"2025-06-03","price":"95"}
		]}`}
		res, err := adapter.NewOffersAdapter(f, discardLogger()).Fetch(context.Background(), "p1", "r1", r, 2)
		require.NoError(t, err)

		assert.Len(t, res.Days, 2)
		d, ok := res.Lookup(day("2025-06-02"))
		require.True(t, ok)
		assert.True(t, d.Available)
		assert.Equal(t, "unresolved", priceString(t, d.Price))
		d, _ = res.Lookup(day("2025-06-03"))
		assert.Equal(t, "95.00", priceString(t, d.Price))
	})

	t.Run("success: no offers is empty, not an error", func(t *testing.T) {
		f := &fakeFetcher{body: `{"offers":[]}`}
		res, err := adapter.NewOffersAdapter(f, discardLogger()).Fetch(context.Background(), "p1", "r1", r, 2)
		require.NoError(t, err)
		assert.True(t, res.IsEmpty())
	})
}

func TestPropertiesAdapter_Fetch(t *testing.T) {
	t.Run("success: metadata with rooms", func(t *testing.T) {
		f := &fakeFetcher{body: `{"data":[{"id":12,"name":"Seaside","currency":"EUR",
			"roomTypes":[{"id":7,"name":"Double","maxPeople":3,"minStay":2}]}]}`}
		meta, err := adapter.NewPropertiesAdapter(f, discardLogger()).Fetch(context.Background(), "12")
		require.NoError(t, err)

		assert.Equal(t, "Seaside", meta.Name)
		assert.Equal(t, "EUR", meta.Currency)
		room, ok := meta.Room("7")
		require.True(t, ok)
		assert.Equal(t, 3, room.MaxGuests)
		assert.Equal(t, 2, room.MinStay)
	})

	t.Run("error: unknown property", func(t *testing.T) {
		f := &fakeFetcher{body: `{"data":[]}`}
		_, err := adapter.NewPropertiesAdapter(f, discardLogger()).Fetch(context.Background(), "12")
		assert.ErrorIs(t, err, errs.ErrUnknownProperty)
	})
}
