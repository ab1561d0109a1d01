//go:build e2e

package availability_test

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	resdto "availability-engine/internal/handler/dto/response"
	"availability-engine/tests/common/dbtest"
	"availability-engine/tests/common/httptest"
	"availability-engine/tests/e2e"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const (
	propertyURL     = "/api/properties/%s"
	availabilityURL = "/api/properties/%s/rooms/%s/availability?from=%s&to=%s"
	quoteURL        = "/api/properties/%s/rooms/%s/quote?checkIn=%s&checkOut=%s"
)

type AvailabilitySuite struct {
	e2e.SharedSuite
}

func TestAvailabilitySuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(AvailabilitySuite))
}

// futureDate keeps every stay clear of the past-date rule.
func futureDate(offset int) string {
	return time.Now().UTC().AddDate(0, 0, 30+offset).Format(time.DateOnly)
}

// =============================================================================
// TestGetAvailability
// =============================================================================

func (s *AvailabilitySuite) TestGetAvailability() {
	s.Run("Normal case: offers price every free night", func() {
		t := s.T()
		from, to := futureDate(0), futureDate(3)

		w := httptest.PerformRequest(t, s.Router, http.MethodGet,
			fmt.Sprintf(availabilityURL, e2e.FakePropertyID, e2e.FakeRoomID, from, to), nil, nil)

		var body resdto.AvailabilityResponse
		httptest.AssertSuccessResponse(t, w, http.StatusOK, &body)
		require.Len(t, body.Days, 3)
		for _, d := range body.Days {
			require.True(t, d.IsAvailable, d.Date)
			require.NotNil(t, d.Price)
			require.Equal(t, "120.00", *d.Price)
			require.Equal(t, "offers", d.Source)
		}
		require.Equal(t, from, body.From)
		require.Equal(t, to, body.To)
	})

	s.Run("Normal case: booked night is unavailable", func() {
		t := s.T()
		s.Upstream.Book(futureDate(1), futureDate(2))

		w := httptest.PerformRequest(t, s.Router, http.MethodGet,
			fmt.Sprintf(availabilityURL, e2e.FakePropertyID, e2e.FakeRoomID, futureDate(0), futureDate(3)), nil, nil)

		var body resdto.AvailabilityResponse
		httptest.AssertSuccessResponse(t, w, http.StatusOK, &body)

		expected := []resdto.DayResponse{
			{Date: futureDate(0), IsAvailable: true},
			{Date: futureDate(1), IsBooked: true},
			{Date: futureDate(2), IsAvailable: true},
		}
		if diff := cmp.Diff(expected, body.Days, cmpopts.IgnoreFields(resdto.DayResponse{}, "Price", "Source")); diff != "" {
			t.Errorf("days mismatch (-want +got):\n%s", diff)
		}
	})

	s.Run("Normal case: repeated request is served from cache until invalidated", func() {
		t := s.T()
		url := fmt.Sprintf(availabilityURL, e2e.FakePropertyID, e2e.FakeRoomID, futureDate(10), futureDate(12))

		w := httptest.PerformRequest(t, s.Router, http.MethodGet, url, nil, nil)
		require.Equal(t, http.StatusOK, w.Code)
		calls := s.Upstream.Hits("/bookings")

		s.Upstream.Book(futureDate(10), futureDate(11))
		w = httptest.PerformRequest(t, s.Router, http.MethodGet, url, nil, nil)
		var cached resdto.AvailabilityResponse
		httptest.AssertSuccessResponse(t, w, http.StatusOK, &cached)
		require.Equal(t, calls, s.Upstream.Hits("/bookings"), "cache hit must not reach upstream")
		require.True(t, cached.Days[0].IsAvailable)

		w = httptest.PerformRequest(t, s.Router, http.MethodPost, "/api/cache/invalidate",
			map[string]string{"propertyId": e2e.FakePropertyID}, nil)
		require.Equal(t, http.StatusNoContent, w.Code)

		w = httptest.PerformRequest(t, s.Router, http.MethodGet, url, nil, nil)
		var fresh resdto.AvailabilityResponse
		httptest.AssertSuccessResponse(t, w, http.StatusOK, &fresh)
		require.True(t, fresh.Days[0].IsBooked)
	})

	s.Run("Error case: inverted range is rejected", func() {
		t := s.T()
		w := httptest.PerformRequest(t, s.Router, http.MethodGet,
			fmt.Sprintf(availabilityURL, e2e.FakePropertyID, e2e.FakeRoomID, futureDate(3), futureDate(0)), nil, nil)
		httptest.AssertErrorResponse(t, w, http.StatusBadRequest, "Invalid request")
	})
}

// =============================================================================
// TestGetQuote
// =============================================================================

func (s *AvailabilitySuite) TestGetQuote() {
	s.Run("Normal case: anonymous guest pays base price", func() {
		t := s.T()

		w := httptest.PerformRequest(t, s.Router, http.MethodGet,
			fmt.Sprintf(quoteURL, e2e.FakePropertyID, e2e.FakeRoomID, futureDate(0), futureDate(3)), nil, nil)

		var body resdto.QuoteResponse
		httptest.AssertSuccessResponse(t, w, http.StatusOK, &body)
		require.Equal(t, 3, body.Nights)
		require.Equal(t, "360.00", body.BaseSubtotal)
		require.Equal(t, "none", body.Tier)
		require.Equal(t, "360.00", body.Total)
	})

	s.Run("Normal case: loyalty tier comes from completed stays", func() {
		t := s.T()
		dbtest.CreateGuestBookings(t, s.DB, "guest-silver", e2e.FakePropertyID, "completed", 5)
		dbtest.CreateGuestBookings(t, s.DB, "guest-silver", e2e.FakePropertyID, "cancelled", 4)

		w := httptest.PerformRequest(t, s.Router, http.MethodGet,
			fmt.Sprintf(quoteURL, e2e.FakePropertyID, e2e.FakeRoomID, futureDate(0), futureDate(3))+"&guestId=guest-silver", nil, nil)

		var body resdto.QuoteResponse
		httptest.AssertSuccessResponse(t, w, http.StatusOK, &body)
		require.Equal(t, "silver", body.Tier)
		require.Equal(t, "18.00", body.LoyaltyDiscount)
		require.Equal(t, "342.00", body.Total)
	})

	s.Run("Normal case: extra adults add the surcharge", func() {
		t := s.T()

		w := httptest.PerformRequest(t, s.Router, http.MethodGet,
			fmt.Sprintf(quoteURL, e2e.FakePropertyID, e2e.FakeRoomID, futureDate(0), futureDate(2))+"&adults=3&children=1", nil, nil)

		var body resdto.QuoteResponse
		httptest.AssertSuccessResponse(t, w, http.StatusOK, &body)
		// one extra adult at 20 and one child at 10, per night
		require.Equal(t, "60.00", body.GuestSurcharge)
		require.Equal(t, "300.00", body.Total)
	})

	s.Run("Error case: booked night conflicts", func() {
		t := s.T()
		s.Upstream.Book(futureDate(1), futureDate(2))

		w := httptest.PerformRequest(t, s.Router, http.MethodGet,
			fmt.Sprintf(quoteURL, e2e.FakePropertyID, e2e.FakeRoomID, futureDate(0), futureDate(3)), nil, nil)
		httptest.AssertErrorResponse(t, w, http.StatusConflict, "Dates unavailable")
	})

	s.Run("Error case: occupancy above room limit", func() {
		t := s.T()

		w := httptest.PerformRequest(t, s.Router, http.MethodGet,
			fmt.Sprintf(quoteURL, e2e.FakePropertyID, e2e.FakeRoomID, futureDate(0), futureDate(2))+"&adults=4&children=1", nil, nil)
		httptest.AssertErrorResponse(t, w, http.StatusUnprocessableEntity, "Occupancy")
	})
}

// =============================================================================
// TestGetProperty
// =============================================================================

func (s *AvailabilitySuite) TestGetProperty() {
	s.Run("Normal case: metadata with rooms", func() {
		t := s.T()

		w := httptest.PerformRequest(t, s.Router, http.MethodGet, fmt.Sprintf(propertyURL, e2e.FakePropertyID), nil, nil)

		var body resdto.PropertyResponse
		httptest.AssertSuccessResponse(t, w, http.StatusOK, &body)
		expected := resdto.PropertyResponse{
			ID:       e2e.FakePropertyID,
			Name:     "Seaside Apartments",
			Currency: "EUR",
			Rooms:    []resdto.RoomResponse{{ID: e2e.FakeRoomID, Name: "Double", MaxGuests: 4, MinStay: 1, MaxStay: 28}},
		}
		if diff := cmp.Diff(expected, body); diff != "" {
			t.Errorf("property mismatch (-want +got):\n%s", diff)
		}
	})

	s.Run("Error case: unknown property", func() {
		t := s.T()

		w := httptest.PerformRequest(t, s.Router, http.MethodGet, fmt.Sprintf(propertyURL, "404"), nil, nil)
		httptest.AssertErrorResponse(t, w, http.StatusNotFound, "Property not found")
	})
}
