package request

import (
	"availability-engine/internal/domain/availability"
	"availability-engine/internal/domain/pricing"
	"availability-engine/internal/usecase"
)

const defaultAdults = 2

type AvailabilityRequest struct {
	From string `form:"from" binding:"required"`
	To   string `form:"to" binding:"required"`
	Mode string `form:"mode"`
}

func (r *AvailabilityRequest) ToQuery(propertyID, roomID string) (usecase.AvailabilityQuery, error) {
	rng, err := availability.ParseDateRange(r.From, r.To)
	if err != nil {
		return usecase.AvailabilityQuery{}, err
	}
	mode, err := availability.NewMode(r.Mode)
	if err != nil {
		return usecase.AvailabilityQuery{}, err
	}
	return usecase.AvailabilityQuery{
		PropertyID: propertyID,
		RoomID:     roomID,
		Range:      rng,
		Mode:       mode,
	}, nil
}

// QuoteRequest describes a stay. Adults defaults to two when omitted.
type QuoteRequest struct {
	CheckIn  string `form:"checkIn" binding:"required"`
	CheckOut string `form:"checkOut" binding:"required"`
	Adults   *int   `form:"adults" binding:"omitempty,min=1,max=50"`
	Children *int   `form:"children" binding:"omitempty,min=0,max=50"`
	Tier     string `form:"tier"`
	GuestID  string `form:"guestId" binding:"max=128"`
}

func (r *QuoteRequest) ToQuery(propertyID, roomID string) (usecase.QuoteQuery, error) {
	rng, err := availability.ParseDateRange(r.CheckIn, r.CheckOut)
	if err != nil {
		return usecase.QuoteQuery{}, err
	}
	tier, err := pricing.NewLoyaltyTier(r.Tier)
	if err != nil {
		return usecase.QuoteQuery{}, err
	}

	q := usecase.QuoteQuery{
		PropertyID: propertyID,
		RoomID:     roomID,
		Range:      rng,
		Adults:     defaultAdults,
		Tier:       tier,
		GuestID:    r.GuestID,
	}
	if r.Adults != nil {
		q.Adults = *r.Adults
	}
	if r.Children != nil {
		q.Children = *r.Children
	}
	return q, nil
}

// InvalidateRequest names either a whole property or a single cache key.
type InvalidateRequest struct {
	PropertyID string `json:"propertyId" binding:"required_without=Key,excluded_with=Key"`
	Key        string `json:"key" binding:"required_without=PropertyID"`
}
