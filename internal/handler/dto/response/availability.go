package response

import (
	"availability-engine/internal/domain/availability"
	"availability-engine/internal/domain/pricing"
	"availability-engine/internal/usecase/readmodel"

	"github.com/jinzhu/copier"
)

type DayResponse struct {
	Date        string  `json:"date"`
	IsAvailable bool    `json:"isAvailable"`
	IsBooked    bool    `json:"isBooked"`
	Price       *string `json:"price"`
	Source      string  `json:"source"`
}

type AvailabilityResponse struct {
	PropertyID string        `json:"propertyId"`
	RoomID     string        `json:"roomId"`
	From       string        `json:"from"`
	To         string        `json:"to"`
	Mode       string        `json:"mode"`
	MinStay    int           `json:"minStay"`
	MaxStay    int           `json:"maxStay"`
	Days       []DayResponse `json:"days"`
}

func FromWindow(w *availability.Window) *AvailabilityResponse {
	res := &AvailabilityResponse{
		PropertyID: w.PropertyID,
		RoomID:     w.RoomID,
		From:       availability.FormatDate(w.Range.From),
		To:         availability.FormatDate(w.Range.To),
		Mode:       w.Mode.String(),
		MinStay:    w.MinStay,
		MaxStay:    w.MaxStay,
		Days:       make([]DayResponse, len(w.Days)),
	}
	for i, d := range w.Days {
		res.Days[i] = DayResponse{
			Date:        availability.FormatDate(d.Date),
			IsAvailable: d.IsAvailable,
			IsBooked:    d.IsBooked,
			Price:       priceString(d.Price),
			Source:      string(d.Source),
		}
	}
	return res
}

func priceString(p availability.OptionalPrice) *string {
	m, ok := p.Get()
	if !ok {
		return nil
	}
	s := m.String()
	return &s
}

type NightResponse struct {
	Date           string `json:"date"`
	BasePrice      string `json:"basePrice"`
	GuestSurcharge string `json:"guestSurcharge"`
}

type QuoteResponse struct {
	Currency               string          `json:"currency"`
	Nights                 int             `json:"nights"`
	Adults                 int             `json:"adults"`
	Children               int             `json:"children"`
	Tier                   string          `json:"tier"`
	BaseSubtotal           string          `json:"baseSubtotal"`
	GuestSurcharge         string          `json:"guestSurcharge"`
	LoyaltyDiscount        string          `json:"loyaltyDiscount"`
	StayOrSeasonalDiscount string          `json:"stayOrSeasonalDiscount"`
	AppliedDiscount        string          `json:"appliedDiscount"`
	CleaningFee            string          `json:"cleaningFee"`
	CityTax                string          `json:"cityTax"`
	Total                  string          `json:"total"`
	Breakdown              []NightResponse `json:"breakdown"`
}

func FromQuote(q *pricing.Quote) *QuoteResponse {
	res := &QuoteResponse{
		Currency:               q.Currency,
		Nights:                 q.Nights,
		Adults:                 q.Adults,
		Children:               q.Children,
		Tier:                   q.Tier.String(),
		BaseSubtotal:           q.BaseSubtotal.String(),
		GuestSurcharge:         q.GuestSurcharge.String(),
		LoyaltyDiscount:        q.LoyaltyDiscount.String(),
		StayOrSeasonalDiscount: q.StayOrSeasonalDiscount.String(),
		AppliedDiscount:        string(q.AppliedDiscount),
		CleaningFee:            q.CleaningFee.String(),
		CityTax:                q.CityTax.String(),
		Total:                  q.Total.String(),
		Breakdown:              make([]NightResponse, len(q.Breakdown)),
	}
	for i, d := range q.Breakdown {
		res.Breakdown[i] = NightResponse{
			Date:           availability.FormatDate(d.Date),
			BasePrice:      d.BasePrice.String(),
			GuestSurcharge: d.GuestSurcharge.String(),
		}
	}
	return res
}

type RoomResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	MaxGuests int    `json:"maxGuests"`
	MinStay   int    `json:"minStay"`
	MaxStay   int    `json:"maxStay"`
}

type PropertyResponse struct {
	ID       string         `json:"id"`
	Name     string         `json:"name"`
	Currency string         `json:"currency"`
	Rooms    []RoomResponse `json:"rooms"`
}

func FromPropertyMetadata(m *readmodel.PropertyMetadata) (*PropertyResponse, error) {
	res := &PropertyResponse{Rooms: []RoomResponse{}}
	if err := copier.Copy(res, m); err != nil {
		return nil, err
	}
	return res, nil
}

type HealthResponse struct {
	Status   string         `json:"status"`
	Cache    string         `json:"cache"`
	Upstream UpstreamBudget `json:"upstream"`
}

type UpstreamBudget struct {
	RequestCount int    `json:"requestCount"`
	MaxPerWindow int    `json:"maxPerWindow"`
	LastCallAt   string `json:"lastCallAt,omitempty"`
}
