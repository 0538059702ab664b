package domain

import (
	"net/url"
	"strconv"
	"strings"
)

type PriceRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// SearchFilters is the query parameter bag consumed by the hotel feeds.
// Constructed and merged by callers, never persisted.
type SearchFilters struct {
	Query         string
	Location      string
	CheckIn       string
	CheckOut      string
	Guests        int
	PriceRange    *PriceRange
	Rating        float64 // minimum rating
	Amenities     []string
	PropertyTypes []string
	SortBy        string
}

// HasSearchTerms reports whether the filters warrant the /hotels/search
// endpoint instead of the plain listing.
func (f SearchFilters) HasSearchTerms() bool {
	return f.Query != "" || f.Location != ""
}

// Values encodes the filters as backend query parameters. Zero-valued
// fields are omitted.
func (f SearchFilters) Values() url.Values {
	q := url.Values{}
	if f.Query != "" {
		q.Set("query", f.Query)
	}
	if f.Location != "" {
		q.Set("location", f.Location)
	}
	if f.CheckIn != "" {
		q.Set("checkIn", f.CheckIn)
	}
	if f.CheckOut != "" {
		q.Set("checkOut", f.CheckOut)
	}
	if f.Guests > 0 {
		q.Set("guests", strconv.Itoa(f.Guests))
	}
	if f.PriceRange != nil {
		q.Set("minPrice", strconv.FormatFloat(f.PriceRange.Min, 'f', -1, 64))
		q.Set("maxPrice", strconv.FormatFloat(f.PriceRange.Max, 'f', -1, 64))
	}
	if f.Rating > 0 {
		q.Set("rating", strconv.FormatFloat(f.Rating, 'f', -1, 64))
	}
	if len(f.Amenities) > 0 {
		q.Set("amenities", strings.Join(f.Amenities, ","))
	}
	if len(f.PropertyTypes) > 0 {
		q.Set("propertyType", strings.Join(f.PropertyTypes, ","))
	}
	if f.SortBy != "" {
		q.Set("sortBy", f.SortBy)
	}
	return q
}

// Equal compares two filter bags field by field. Feeds use it to decide
// whether a filter change requires a refetch.
func (f SearchFilters) Equal(o SearchFilters) bool {
	if f.Query != o.Query || f.Location != o.Location ||
		f.CheckIn != o.CheckIn || f.CheckOut != o.CheckOut ||
		f.Guests != o.Guests || f.Rating != o.Rating || f.SortBy != o.SortBy {
		return false
	}
	if (f.PriceRange == nil) != (o.PriceRange == nil) {
		return false
	}
	if f.PriceRange != nil && *f.PriceRange != *o.PriceRange {
		return false
	}
	return strings.Join(f.Amenities, ",") == strings.Join(o.Amenities, ",") &&
		strings.Join(f.PropertyTypes, ",") == strings.Join(o.PropertyTypes, ",")
}
