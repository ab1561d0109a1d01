//go:build unit

package api_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"availability-engine/internal/domain/availability"
	"availability-engine/internal/domain/pricing"
	"availability-engine/internal/handler/api"
	resdto "availability-engine/internal/handler/dto/response"
	"availability-engine/internal/pkg/errs"
	"availability-engine/internal/usecase"
	"availability-engine/internal/usecase/readmodel"
	"availability-engine/tests/common/httptest"
	"availability-engine/tests/common/testutil"
	usecasemock "availability-engine/tests/mock/usecase"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type AvailabilityHandlerTestSuite struct {
	suite.Suite
	router     *gin.Engine
	mockCtrl   *gomock.Controller
	mockEngine *usecasemock.MockAvailabilityEngine
	handler    *api.AvailabilityHandler
}

func (s *AvailabilityHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockEngine = usecasemock.NewMockAvailabilityEngine(s.mockCtrl)
	s.handler = api.NewAvailabilityHandler(s.mockEngine)

	s.router.GET("/properties/:propertyId", s.handler.GetProperty)
	s.router.GET("/properties/:propertyId/rooms/:roomId/availability", s.handler.GetAvailability)
	s.router.GET("/properties/:propertyId/rooms/:roomId/quote", s.handler.GetQuote)
	s.router.POST("/cache/invalidate", s.handler.Invalidate)
}

func (s *AvailabilityHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestAvailabilityHandlerSuite(t *testing.T) {
	suite.Run(t, new(AvailabilityHandlerTestSuite))
}

func day(s string) time.Time {
	d, err := availability.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func sampleWindow() *availability.Window {
	rng, _ := availability.NewDateRange(day("2030-06-01"), day("2030-06-03"))
	return &availability.Window{
		PropertyID: "1",
		RoomID:     "10",
		Range:      rng,
		Mode:       availability.ModeBooking,
		MinStay:    1,
		MaxStay:    14,
		Days: []availability.DateAvailability{
			{Date: day("2030-06-01"), IsAvailable: true, Price: availability.PriceOf(availability.MoneyFromInt(120)), Source: availability.SourceOffers},
			{Date: day("2030-06-02"), IsBooked: true, Price: availability.NoPrice(), Source: availability.SourceBookings},
		},
	}
}

// ================================================================================
// TestGetAvailability
// ================================================================================

func (s *AvailabilityHandlerTestSuite) TestGetAvailability() {
	base := "/properties/1/rooms/10/availability"

	s.Run("success: returns reconciled days", func() {
		s.mockEngine.EXPECT().GetAvailability(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, q usecase.AvailabilityQuery) (*availability.Window, error) {
				s.Equal("1", q.PropertyID)
				s.Equal("10", q.RoomID)
				s.Equal(availability.ModeBooking, q.Mode)
				s.Equal(2, q.Range.Nights())
				return sampleWindow(), nil
			}).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, base+"?from=2030-06-01&to=2030-06-03", nil, nil)

		var body resdto.AvailabilityResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Require().Len(body.Days, 2)
		s.Equal("2030-06-01", body.Days[0].Date)
		s.Require().NotNil(body.Days[0].Price)
		s.Equal("120.00", *body.Days[0].Price)
		s.Equal("offers", body.Days[0].Source)
		s.Nil(body.Days[1].Price)
		s.True(body.Days[1].IsBooked)
		s.Equal("booking", body.Mode)
	})

	s.Run("success: calendar mode is passed through", func() {
		s.mockEngine.EXPECT().GetAvailability(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, q usecase.AvailabilityQuery) (*availability.Window, error) {
				s.Equal(availability.ModeCalendarDisplay, q.Mode)
				return sampleWindow(), nil
			}).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, base+"?from=2030-06-01&to=2030-06-03&mode=calendar", nil, nil)
		s.Equal(http.StatusOK, rec.Code)
	})

	s.Run("error: 400 Bad Request on invalid query", func() {
		cases := []struct {
			name  string
			query string
		}{
			{name: "missing from", query: "?to=2030-06-03"},
			{name: "missing to", query: "?from=2030-06-01"},
			{name: "malformed date", query: "?from=2030-13-01&to=2030-06-03"},
			{name: "empty range", query: "?from=2030-06-03&to=2030-06-03"},
			{name: "inverted range", query: "?from=2030-06-05&to=2030-06-03"},
			{name: "unknown mode", query: "?from=2030-06-01&to=2030-06-03&mode=weekly"},
		}
		for _, tc := range cases {
			s.Run(tc.name, func() {
				rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, base+tc.query, nil, nil)
				httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid request")
			})
		}
	})

	s.Run("error: engine failures map to statuses", func() {
		cases := []struct {
			name   string
			err    error
			status int
			msg    string
		}{
			{name: "all sources down", err: errs.Wrap(errs.ErrUpstreamUnavailable, "window"), status: http.StatusServiceUnavailable, msg: "unavailable"},
			{name: "rate limited", err: errs.ErrRateLimitExceeded, status: http.StatusServiceUnavailable, msg: "unavailable"},
			{name: "auth failure", err: errs.Wrap(errs.ErrAuth, "token"), status: http.StatusBadGateway, msg: "Upstream error"},
			{name: "deadline", err: errs.Wrap(context.DeadlineExceeded, "fetch"), status: http.StatusGatewayTimeout, msg: "timeout"},
			{name: "unknown property", err: errs.ErrUnknownProperty, status: http.StatusNotFound, msg: "not found"},
			{name: "unexpected", err: errs.New("boom"), status: http.StatusInternalServerError, msg: "Internal server error"},
		}
		for _, tc := range cases {
			s.Run(tc.name, func() {
				s.mockEngine.EXPECT().GetAvailability(gomock.Any(), gomock.Any()).Return(nil, tc.err).Times(1)
				rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, base+"?from=2030-06-01&to=2030-06-03", nil, nil)
				httptest.AssertErrorResponse(s.T(), rec, tc.status, tc.msg)
			})
		}
	})
}

// ================================================================================
// TestGetQuote
// ================================================================================

func (s *AvailabilityHandlerTestSuite) TestGetQuote() {
	base := "/properties/1/rooms/10/quote"
	quote := &pricing.Quote{
		Currency:        "EUR",
		Nights:          3,
		Adults:          2,
		Tier:            pricing.TierSilver,
		BaseSubtotal:    availability.MoneyFromInt(360),
		LoyaltyDiscount: availability.MoneyFromFloat(19.5),
		Total:           availability.MoneyFromFloat(370.5),
		Breakdown: []pricing.DayBreakdown{
			{Date: day("2030-06-01"), BasePrice: availability.MoneyFromInt(120)},
		},
	}

	s.Run("success: adults default to two", func() {
		s.mockEngine.EXPECT().GetQuote(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, q usecase.QuoteQuery) (*pricing.Quote, error) {
				s.Equal(2, q.Adults)
				s.Equal(0, q.Children)
				s.Equal(pricing.TierSilver, q.Tier)
				s.Equal(3, q.Range.Nights())
				return quote, nil
			}).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, base+"?checkIn=2030-06-01&checkOut=2030-06-04&tier=silver", nil, nil)

		var body resdto.QuoteResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal("360.00", body.BaseSubtotal)
		s.Equal("19.50", body.LoyaltyDiscount)
		s.Equal("370.50", body.Total)
		s.Equal("silver", body.Tier)
		s.Require().Len(body.Breakdown, 1)
		s.Equal("2030-06-01", body.Breakdown[0].Date)
	})

	s.Run("success: explicit occupancy and guest", func() {
		s.mockEngine.EXPECT().GetQuote(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, q usecase.QuoteQuery) (*pricing.Quote, error) {
				s.Equal(3, q.Adults)
				s.Equal(1, q.Children)
				s.Equal("guest-7", q.GuestID)
				s.Equal(pricing.TierNone, q.Tier)
				return quote, nil
			}).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, base+"?checkIn=2030-06-01&checkOut=2030-06-04&adults=3&children=1&guestId=guest-7", nil, nil)
		s.Equal(http.StatusOK, rec.Code)
	})

	s.Run("error: 400 Bad Request on invalid query", func() {
		cases := []struct {
			name  string
			query string
		}{
			{name: "missing checkIn", query: "?checkOut=2030-06-04"},
			{name: "adults boundary invalid (0)", query: "?checkIn=2030-06-01&checkOut=2030-06-04&adults=0"},
			{name: "adults boundary invalid (51)", query: "?checkIn=2030-06-01&checkOut=2030-06-04&adults=51"},
			{name: "children negative", query: "?checkIn=2030-06-01&checkOut=2030-06-04&children=-1"},
			{name: "adults not a number", query: "?checkIn=2030-06-01&checkOut=2030-06-04&adults=two"},
			{name: "unknown tier", query: "?checkIn=2030-06-01&checkOut=2030-06-04&tier=platinum"},
		}
		for _, tc := range cases {
			s.Run(tc.name, func() {
				rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, base+tc.query, nil, nil)
				httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid request")
			})
		}
	})

	s.Run("error: incomplete pricing lists missing dates", func() {
		missing := &pricing.IncompletePricingError{Missing: []time.Time{day("2030-06-02")}}
		s.mockEngine.EXPECT().GetQuote(gomock.Any(), gomock.Any()).Return(nil, errs.Wrap(missing, "quote")).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, base+"?checkIn=2030-06-01&checkOut=2030-06-04", nil, nil)
		body := httptest.AssertErrorResponse(s.T(), rec, http.StatusUnprocessableEntity, "Price unavailable")
		detail, ok := body.Detail.(map[string]any)
		s.Require().True(ok)
		s.Equal([]any{"2030-06-02"}, detail["missingDates"])
	})

	s.Run("error: booking rule failures map to statuses", func() {
		cases := []struct {
			name   string
			err    error
			status int
		}{
			{name: "dates unavailable", err: errs.ErrDatesUnavailable, status: http.StatusConflict},
			{name: "stay too short", err: errs.Wrap(errs.ErrStayLengthNotAllowed, "min stay 2"), status: http.StatusUnprocessableEntity},
			{name: "too many guests", err: errs.ErrOccupancyExceeded, status: http.StatusUnprocessableEntity},
			{name: "invalid occupancy", err: errs.ErrInvalidOccupancy, status: http.StatusBadRequest},
			{name: "marked dates unavailable", err: errs.Mark(errs.New("night 2030-06-02 booked"), errs.ErrDatesUnavailable), status: http.StatusConflict},
			{name: "marked stay length", err: errs.Mark(errs.New("3 nights below minimum 4"), errs.ErrStayLengthNotAllowed), status: http.StatusUnprocessableEntity},
			{name: "marked occupancy", err: errs.Wrap(errs.Mark(errs.New("5 guests"), errs.ErrOccupancyExceeded), "quote"), status: http.StatusUnprocessableEntity},
			{name: "marked upstream unavailable", err: errs.Mark(errs.New("all sources failed"), errs.ErrUpstreamUnavailable), status: http.StatusServiceUnavailable},
			{name: "marked auth", err: errs.Mark(errs.New("refresh rejected"), errs.ErrAuth), status: http.StatusBadGateway},
		}
		for _, tc := range cases {
			s.Run(tc.name, func() {
				s.mockEngine.EXPECT().GetQuote(gomock.Any(), gomock.Any()).Return(nil, tc.err).Times(1)
				rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, base+"?checkIn=2030-06-01&checkOut=2030-06-04", nil, nil)
				httptest.AssertErrorResponse(s.T(), rec, tc.status, "")
			})
		}
	})
}

// ================================================================================
// TestGetProperty
// ================================================================================

func (s *AvailabilityHandlerTestSuite) TestGetProperty() {
	s.Run("success: returns metadata with rooms", func() {
		meta := &readmodel.PropertyMetadata{
			ID:       "1",
			Name:     "Seaside",
			Currency: "EUR",
			Rooms:    []readmodel.RoomMetadata{{ID: "10", Name: "Double", MaxGuests: 2, MinStay: 2, MaxStay: 21}},
		}
		s.mockEngine.EXPECT().GetProperty(gomock.Any(), "1").Return(meta, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/properties/1", nil, nil)

		var body resdto.PropertyResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal("Seaside", body.Name)
		s.Require().Len(body.Rooms, 1)
		s.Equal(resdto.RoomResponse{ID: "10", Name: "Double", MaxGuests: 2, MinStay: 2, MaxStay: 21}, body.Rooms[0])
	})

	s.Run("error: 404 Not Found for unknown property", func() {
		s.mockEngine.EXPECT().GetProperty(gomock.Any(), "99").
			Return(nil, errs.Mark(errs.New("property 99 not returned"), errs.ErrUnknownProperty)).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/properties/99", nil, nil)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "Property not found")
	})
}

// ================================================================================
// TestInvalidate
// ================================================================================

func (s *AvailabilityHandlerTestSuite) TestInvalidate() {
	url := "/cache/invalidate"

	s.Run("success: invalidates a property", func() {
		s.mockEngine.EXPECT().Invalidate(gomock.Any(), "1").Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, map[string]any{"propertyId": "1"}, nil)
		s.Equal(http.StatusNoContent, rec.Code)
	})

	s.Run("success: invalidates a single key", func() {
		key := "availability:1:10:2030-06-01:2030-06-03:booking"
		s.mockEngine.EXPECT().InvalidateKey(gomock.Any(), key).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, map[string]any{"key": key}, nil)
		s.Equal(http.StatusNoContent, rec.Code)
	})

	s.Run("error: 400 Bad Request on validation errors", func() {
		valid := map[string]any{"propertyId": "1"}
		cases := []struct {
			name   string
			mutate func(map[string]any)
		}{
			{name: "neither property nor key", mutate: testutil.Field("propertyId", nil)},
			{name: "both property and key", mutate: testutil.Field("key", "quote:1")},
		}
		for _, tc := range cases {
			s.Run(tc.name, func() {
				body := testutil.DtoMap(s.T(), valid, tc.mutate)
				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, body, nil)
				httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid request")
			})
		}
	})
}
