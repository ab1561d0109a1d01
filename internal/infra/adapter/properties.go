package adapter

import (
	"context"
	"log/slog"
	"net/url"

	"availability-engine/internal/pkg/errs"
	"availability-engine/internal/usecase/readmodel"
)

const propertiesPath = "/properties"

var (
	idAliases        = []string{"id", "propertyId", "roomId"}
	nameAliases      = []string{"name", "title", "propertyName"}
	currencyAliases  = []string{"currency", "currencyCode"}
	maxGuestsAliases = []string{"maxGuests", "maxPeople", "maxOccupancy", "capacity"}
	roomListAliases  = []string{"rooms", "roomTypes", "units"}
)

type PropertiesAdapter struct {
	fetcher Fetcher
	logger  *slog.Logger
}

func NewPropertiesAdapter(fetcher Fetcher, logger *slog.Logger) *PropertiesAdapter {
	return &PropertiesAdapter{fetcher: fetcher, logger: logger}
}

func (a *PropertiesAdapter) Fetch(ctx context.Context, propertyID string) (*readmodel.PropertyMetadata, error) {
	doc, err := a.fetcher.Get(ctx, propertiesPath, url.Values{
		"id":           {propertyID},
		"includeRooms": {"true"},
	})
	if err != nil {
		return nil, errs.Wrap(err, "fetch property")
	}

	var entry map[string]any
	if list := listOf(doc); list != nil {
		for _, item := range list {
			if m, ok := objectOf(item); ok && (stringOf(m, idAliases...) == propertyID || len(list) == 1) {
				entry = m
				break
			}
		}
	} else if m, ok := objectOf(doc); ok {
		entry = m
		if inner, ok := objectOf(m["data"]); ok {
			entry = inner
		}
	}
	if entry == nil {
		return nil, errs.Mark(errs.Newf("property %s not found upstream", propertyID), errs.ErrUnknownProperty)
	}

	meta := &readmodel.PropertyMetadata{
		ID:       propertyID,
		Name:     stringOf(entry, nameAliases...),
		Currency: stringOf(entry, currencyAliases...),
	}

	rooms, _ := first(entry, roomListAliases...)
	for _, item := range listOf(rooms) {
		room, ok := objectOf(item)
		if !ok {
			continue
		}
		maxGuests, _ := intOf(room, maxGuestsAliases...)
		minStay, _ := intOf(room, minStayAliases...)
		maxStay, _ := intOf(room, maxStayAliases...)
		meta.Rooms = append(meta.Rooms, readmodel.RoomMetadata{
			ID:        stringOf(room, idAliases...),
			Name:      stringOf(room, nameAliases...),
			MaxGuests: maxGuests,
			MinStay:   minStay,
			MaxStay:   maxStay,
		})
	}

	return meta, nil
}
