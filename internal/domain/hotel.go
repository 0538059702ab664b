package domain

import "encoding/json"

// Hotel is the client-shaped view model built from a backend hotel record.
// Price is always the server-declared "starting from" figure; the client
// never computes prices.
type Hotel struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Location      string   `json:"location"` // "<city>, <address>"
	Address       string   `json:"address"`
	Rating        float64  `json:"rating"`
	ReviewCount   int      `json:"reviewCount"`
	Price         float64  `json:"price"`
	OriginalPrice *float64 `json:"originalPrice,omitempty"`
	Images        []string `json:"images"`
	Amenities     []string `json:"amenities"`
	Description   string   `json:"description"`
	Latitude      float64  `json:"latitude"`
	Longitude     float64  `json:"longitude"`
	Distance      *string  `json:"distance,omitempty"` // e.g. "1.2 km away"
	Offer         *string  `json:"offer,omitempty"`    // first offer title, if any
	BookingType   string   `json:"bookingType"`        // daily|hourly
	PerHour       bool     `json:"perHour"`
	PerNight      bool     `json:"perNight"`
}

// Banner is an opaque promotional payload attached to the featured feed.
// The client renders it as-is and never inspects individual fields.
type Banner = json.RawMessage
