package app

import (
	"encoding/json"
	"fmt"

	"staysync/internal/domain"
)

// Wire shape of a backend hotel record. Optional objects are pointers so a
// partial record still transforms cleanly.
type hotelDTO struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description *string  `json:"description"`
	Address     string   `json:"address"`
	City        string   `json:"city"`
	StarRating  int      `json:"starRating"`
	Amenities   []string `json:"amenities"`
	Coordinates *struct {
		Lat float64 `json:"lat"`
		Lng float64 `json:"lng"`
	} `json:"coordinates"`
	Distance *float64 `json:"distance"`
	Rating   *struct {
		Average float64 `json:"average"`
		Count   int     `json:"count"`
	} `json:"rating"`
	Pricing *struct {
		StartingFrom float64 `json:"startingFrom"`
		Range        struct {
			Min float64 `json:"min"`
			Max float64 `json:"max"`
		} `json:"range"`
		Currency    string `json:"currency"`
		BookingType string `json:"bookingType"`
		PerHour     bool   `json:"perHour"`
		PerNight    *bool  `json:"perNight"`
	} `json:"pricing"`
	Offers []struct {
		Title         string  `json:"title"`
		DiscountType  string  `json:"discountType"`
		DiscountValue float64 `json:"discountValue"`
		Code          string  `json:"code"`
	} `json:"offers"`
	Images *struct {
		Primary *string  `json:"primary"`
		Gallery []string `json:"gallery"`
	} `json:"images"`
}

type hotelsPage struct {
	Hotels  []hotelDTO      `json:"hotels"`
	Total   int             `json:"total"`
	Banners []domain.Banner `json:"banners"`
}

func decodeHotelsPage(data json.RawMessage) (hotelsPage, error) {
	var p hotelsPage
	if err := json.Unmarshal(data, &p); err != nil {
		return hotelsPage{}, err
	}
	return p, nil
}

// Shown when a hotel record arrives without any image.
const placeholderImage = "https://images.pexels.com/photos/258154/pexels-photo-258154.jpeg?auto=compress&cs=tinysrgb&w=800"

// transformHotel builds the view model from a raw backend record. Pricing
// is taken verbatim from the server; missing pieces degrade to zero values
// rather than failing the whole list.
func transformHotel(d hotelDTO) domain.Hotel {
	h := domain.Hotel{
		ID:          d.ID,
		Name:        d.Name,
		Address:     d.Address,
		Location:    composeLocation(d.City, d.Address),
		Amenities:   d.Amenities,
		BookingType: "daily",
		PerNight:    true,
	}
	if d.Description != nil {
		h.Description = *d.Description
	}
	if d.Rating != nil {
		h.Rating = d.Rating.Average
		h.ReviewCount = d.Rating.Count
	}
	if d.Coordinates != nil {
		h.Latitude = d.Coordinates.Lat
		h.Longitude = d.Coordinates.Lng
	}
	if d.Pricing != nil {
		h.Price = d.Pricing.StartingFrom
		if d.Pricing.Range.Max > 0 {
			max := d.Pricing.Range.Max
			h.OriginalPrice = &max
		}
		if d.Pricing.BookingType != "" {
			h.BookingType = d.Pricing.BookingType
		}
		h.PerHour = d.Pricing.PerHour
		if d.Pricing.PerNight != nil {
			h.PerNight = *d.Pricing.PerNight
		}
	}
	if d.Distance != nil && *d.Distance > 0 {
		label := fmt.Sprintf("%.1f km away", *d.Distance)
		h.Distance = &label
	}
	if len(d.Offers) > 0 && d.Offers[0].Title != "" {
		title := d.Offers[0].Title
		h.Offer = &title
	}
	h.Images = pickImages(d)
	return h
}

func transformHotels(in []hotelDTO) []domain.Hotel {
	out := make([]domain.Hotel, 0, len(in))
	for _, d := range in {
		out = append(out, transformHotel(d))
	}
	return out
}

func composeLocation(city, address string) string {
	switch {
	case city == "":
		return address
	case address == "":
		return city
	default:
		return city + ", " + address
	}
}

func pickImages(d hotelDTO) []string {
	if d.Images != nil {
		if d.Images.Primary != nil && *d.Images.Primary != "" {
			return []string{*d.Images.Primary}
		}
		if len(d.Images.Gallery) > 0 && d.Images.Gallery[0] != "" {
			return []string{d.Images.Gallery[0]}
		}
	}
	return []string{placeholderImage}
}
