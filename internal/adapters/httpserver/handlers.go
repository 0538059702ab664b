package httpserver

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"staysync/internal/app"
	"staysync/internal/domain"
)

// Handlers exposes read-only snapshots of the synchronized stores to local
// consumers. The stores own all remote traffic; these endpoints never reach
// the backend.
type Handlers struct {
	Hotels      *app.Hotels
	Nearby      *app.NearbyHotels
	Latest      *app.LatestHotels
	Offers      *app.OffersHotels
	Featured    *app.FeaturedHotels
	Bookings    *app.Bookings
	Wallet      *app.Wallet
	Maintenance *app.Maintenance
	Location    *app.LocationService
	Detail      *app.DetailService
	Wishlist    *app.Wishlist
	RefreshAll  func() // optional; wired by the daemon
}

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Get("/v1/hotels", func(w http.ResponseWriter, r *http.Request) {
		// query parameters drive an on-demand search before the snapshot
		if len(r.URL.Query()) > 0 {
			h.Hotels.Search(r.Context(), filtersFromQuery(r.URL.Query()))
		}
		writeSnapshot(w, r, listBody(h.Hotels.State(), "hotels"))
	})
	s.mux.Get("/v1/hotels/nearby", func(w http.ResponseWriter, r *http.Request) {
		writeSnapshot(w, r, listBody(h.Nearby.State(), "hotels"))
	})
	s.mux.Get("/v1/hotels/latest", func(w http.ResponseWriter, r *http.Request) {
		writeSnapshot(w, r, listBody(h.Latest.State(), "hotels"))
	})
	s.mux.Get("/v1/hotels/offers", func(w http.ResponseWriter, r *http.Request) {
		writeSnapshot(w, r, listBody(h.Offers.State(), "hotels"))
	})
	s.mux.Get("/v1/hotels/featured", h.featured)
	s.mux.Get("/v1/bookings", func(w http.ResponseWriter, r *http.Request) {
		writeSnapshot(w, r, listBody(h.Bookings.State(), "bookings"))
	})
	s.mux.Get("/v1/wallet", func(w http.ResponseWriter, r *http.Request) {
		writeSnapshot(w, r, h.Wallet.State())
	})
	s.mux.Get("/v1/maintenance", func(w http.ResponseWriter, r *http.Request) {
		writeSnapshot(w, r, h.Maintenance.State())
	})
	s.mux.Get("/v1/location", func(w http.ResponseWriter, r *http.Request) {
		writeSnapshot(w, r, h.Location.State())
	})
	s.mux.Get("/v1/bookings/{bookingID}", func(w http.ResponseWriter, r *http.Request) {
		d, err := h.Detail.Booking(r.Context(), chi.URLParam(r, "bookingID"))
		if err != nil {
			writeProblem(w, http.StatusBadGateway, "Upstream Failure", err.Error())
			return
		}
		writeSnapshot(w, r, map[string]any{"booking": d})
	})
	s.mux.Get("/v1/wishlist", func(w http.ResponseWriter, r *http.Request) {
		writeSnapshot(w, r, map[string]any{"hotelIds": h.Wishlist.HotelIDs()})
	})
	s.mux.Put("/v1/wishlist/{hotelID}", func(w http.ResponseWriter, r *http.Request) {
		if err := h.Wishlist.Add(r.Context(), chi.URLParam(r, "hotelID")); err != nil {
			writeProblem(w, http.StatusBadGateway, "Upstream Failure", err.Error())
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})
	s.mux.Delete("/v1/wishlist/{hotelID}", func(w http.ResponseWriter, r *http.Request) {
		if err := h.Wishlist.Remove(r.Context(), chi.URLParam(r, "hotelID")); err != nil {
			writeProblem(w, http.StatusBadGateway, "Upstream Failure", err.Error())
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})
	s.mux.Post("/v1/refresh", func(w http.ResponseWriter, r *http.Request) {
		if h.RefreshAll == nil {
			writeProblem(w, http.StatusNotImplemented, "Not Supported", "refresh is not wired")
			return
		}
		h.RefreshAll()
		w.WriteHeader(http.StatusAccepted)
		_, _ = w.Write([]byte(`{"status":"refreshing"}`))
	})
}

func (h *Handlers) featured(w http.ResponseWriter, r *http.Request) {
	st := h.Featured.State()
	writeSnapshot(w, r, map[string]any{
		"hotels":     st.Items,
		"banners":    h.Featured.Banners(),
		"total":      st.Total,
		"loading":    st.Loading,
		"refreshing": st.Refreshing,
		"error":      st.Err,
	})
}

// filtersFromQuery maps the local endpoint's parameters onto the backend's
// filter bag, the inverse of SearchFilters.Values.
func filtersFromQuery(q url.Values) domain.SearchFilters {
	f := domain.SearchFilters{
		Query:    q.Get("query"),
		Location: q.Get("location"),
		CheckIn:  q.Get("checkIn"),
		CheckOut: q.Get("checkOut"),
		SortBy:   q.Get("sortBy"),
	}
	if v, err := strconv.Atoi(q.Get("guests")); err == nil {
		f.Guests = v
	}
	if v, err := strconv.ParseFloat(q.Get("rating"), 64); err == nil {
		f.Rating = v
	}
	min, minErr := strconv.ParseFloat(q.Get("minPrice"), 64)
	max, maxErr := strconv.ParseFloat(q.Get("maxPrice"), 64)
	if minErr == nil || maxErr == nil {
		f.PriceRange = &domain.PriceRange{Min: min, Max: max}
	}
	if v := q.Get("amenities"); v != "" {
		f.Amenities = strings.Split(v, ",")
	}
	if v := q.Get("propertyType"); v != "" {
		f.PropertyTypes = strings.Split(v, ",")
	}
	return f
}

// listBody flattens a ListState into a stable JSON shape with a named
// items key.
func listBody[T any](st app.ListState[T], key string) map[string]any {
	items := st.Items
	if items == nil {
		items = []T{}
	}
	return map[string]any{
		key:          items,
		"total":      st.Total,
		"loading":    st.Loading,
		"refreshing": st.Refreshing,
		"error":      st.Err,
	}
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal snapshot for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

func writeSnapshot(w http.ResponseWriter, r *http.Request, v any) {
	etag, body := calcETagAndBody(v)
	if body == nil {
		writeProblem(w, http.StatusInternalServerError, "Encoding Failed", "")
		return
	}
	// client already holds this version: short-circuit
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("failed to write snapshot body")
	}
}
