package readmodel

// PropertyMetadata is the slow-changing description of a property and its
// rooms.
type PropertyMetadata struct {
	ID       string         `json:"id"`
	Name     string         `json:"name"`
	Currency string         `json:"currency"`
	Rooms    []RoomMetadata `json:"rooms"`
}

// RoomMetadata carries per-room limits. Zero values mean "not specified".
type RoomMetadata struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	MaxGuests int    `json:"maxGuests"`
	MinStay   int    `json:"minStay"`
	MaxStay   int    `json:"maxStay"`
}

func (p *PropertyMetadata) Room(roomID string) (RoomMetadata, bool) {
	for _, r := range p.Rooms {
		if r.ID == roomID {
			return r, true
		}
	}
	return RoomMetadata{}, false
}
