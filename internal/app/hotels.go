package app

import (
	"context"
	"net/url"
	"strconv"
	"sync"

	"staysync/internal/adapters/observability"
	"staysync/internal/domain"
)

// Every nearby/curated query asks the backend for at most this many hotels.
const feedLimit = 10

// feed is the shared fetch contract behind every hotel store: one request,
// wholesale list replacement, loading/refreshing bookkeeping, no retries.
type feed struct {
	core     syncCore[domain.Hotel]
	api      domain.APIClient
	name     string
	fallback string
	req      func() (path string, q url.Values, ok bool)
	// onPage observes the applied page; the featured feed uses it to keep
	// banners alongside the hotel list.
	onPage func(hotelsPage)
}

// Fetch issues one request with the store's current parameters. refresh
// selects the Refreshing flag instead of Loading. Safe to call while a
// previous fetch is in flight: the later call supersedes the earlier one.
func (f *feed) Fetch(ctx context.Context, refresh bool) {
	path, q, ok := f.req()
	if !ok {
		// precondition not met: empty, not loading, not an error
		f.core.reset()
		observability.ObserveStoreFetch(f.name, "skipped")
		return
	}
	f.run(ctx, refresh, path, q)
}

func (f *feed) run(ctx context.Context, refresh bool, path string, q url.Values) {
	seq := f.core.begin(refresh)

	env, err := f.api.Get(ctx, path, q)
	switch {
	case err != nil:
		f.settleFail(seq, f.fallback)
	case !env.Success:
		f.settleFail(seq, orMsg(env.Error, f.fallback))
	default:
		page, derr := decodeHotelsPage(env.Data)
		if derr != nil {
			f.settleFail(seq, f.fallback)
			return
		}
		total := page.Total
		if total == 0 {
			total = len(page.Hotels)
		}
		if f.core.succeed(seq, transformHotels(page.Hotels), total) {
			if f.onPage != nil {
				f.onPage(page)
			}
			observability.ObserveStoreFetch(f.name, "ok")
		} else {
			observability.ObserveStoreFetch(f.name, "stale")
		}
	}
}

func (f *feed) settleFail(seq uint64, msg string) {
	if f.core.fail(seq, msg) {
		if f.onPage != nil {
			f.onPage(hotelsPage{})
		}
		observability.ObserveStoreFetch(f.name, "error")
	} else {
		observability.ObserveStoreFetch(f.name, "stale")
	}
}

func (f *feed) Refresh(ctx context.Context) { f.Fetch(ctx, true) }

func (f *feed) State() ListState[domain.Hotel] { return f.core.state() }

func (f *feed) Subscribe(fn func(ListState[domain.Hotel])) { f.core.subscribe(fn) }

// ---- listing / text search ----

type Hotels struct {
	feed
	mu      sync.Mutex
	filters domain.SearchFilters
}

func NewHotels(api domain.APIClient, filters domain.SearchFilters) *Hotels {
	h := &Hotels{filters: filters}
	h.feed = feed{
		api:      api,
		name:     "hotels",
		fallback: "An error occurred while fetching hotels",
		req:      h.request,
	}
	return h
}

func (h *Hotels) request() (string, url.Values, bool) {
	h.mu.Lock()
	f := h.filters
	h.mu.Unlock()
	if f.HasSearchTerms() {
		return "/hotels/search", f.Values(), true
	}
	return "/hotels", f.Values(), true
}

// SetFilters refetches when the filter bag actually changed.
func (h *Hotels) SetFilters(ctx context.Context, f domain.SearchFilters) {
	h.mu.Lock()
	same := h.filters.Equal(f)
	h.filters = f
	h.mu.Unlock()
	if same {
		return
	}
	h.Fetch(ctx, false)
}

// Search always hits the search endpoint with the given filters, toggling
// Loading rather than Refreshing.
func (h *Hotels) Search(ctx context.Context, f domain.SearchFilters) {
	h.mu.Lock()
	h.filters = f
	h.mu.Unlock()
	h.run(ctx, false, "/hotels/search", f.Values())
}

// ---- nearby ----

type NearbyHotels struct {
	feed
	mu      sync.Mutex
	coords  *domain.Coordinates
	filters domain.SearchFilters
}

func NewNearbyHotels(api domain.APIClient) *NearbyHotels {
	n := &NearbyHotels{}
	n.feed = feed{
		api:      api,
		name:     "nearby",
		fallback: "An error occurred while fetching nearby hotels",
		req:      n.request,
	}
	return n
}

// request withholds the query until a real fix exists: nil coordinates and
// the degenerate (0,0) pair both mean "no fix yet".
func (n *NearbyHotels) request() (string, url.Values, bool) {
	n.mu.Lock()
	c, f := n.coords, n.filters
	n.mu.Unlock()
	if c == nil || c.Degenerate() {
		return "", nil, false
	}
	q := f.Values()
	q.Set("limit", strconv.Itoa(feedLimit))
	q.Set("lat", strconv.FormatFloat(c.Lat, 'f', -1, 64))
	q.Set("lng", strconv.FormatFloat(c.Lng, 'f', -1, 64))
	return "/search/nearby", q, true
}

// SetCoordinates refetches when the fix moved; losing the fix empties the
// list without raising an error.
func (n *NearbyHotels) SetCoordinates(ctx context.Context, c *domain.Coordinates) {
	n.mu.Lock()
	same := coordsEqual(n.coords, c)
	if c != nil {
		cc := *c
		n.coords = &cc
	} else {
		n.coords = nil
	}
	n.mu.Unlock()
	if same {
		return
	}
	n.Fetch(ctx, false)
}

func (n *NearbyHotels) SetFilters(ctx context.Context, f domain.SearchFilters) {
	n.mu.Lock()
	same := n.filters.Equal(f)
	n.filters = f
	n.mu.Unlock()
	if same {
		return
	}
	n.Fetch(ctx, false)
}

func coordsEqual(a, b *domain.Coordinates) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// ---- curated feeds ----

type LatestHotels struct{ feed }

func NewLatestHotels(api domain.APIClient) *LatestHotels {
	l := &LatestHotels{}
	l.feed = curatedFeed(api, "latest", "/search/latest", "An error occurred while fetching latest hotels")
	return l
}

type OffersHotels struct{ feed }

func NewOffersHotels(api domain.APIClient) *OffersHotels {
	o := &OffersHotels{}
	o.feed = curatedFeed(api, "offers", "/search/offers", "An error occurred while fetching offers")
	return o
}

// FeaturedHotels also carries promotional banners next to the hotel list.
type FeaturedHotels struct {
	feed
	bmu     sync.Mutex
	banners []domain.Banner
}

func NewFeaturedHotels(api domain.APIClient) *FeaturedHotels {
	f := &FeaturedHotels{}
	f.feed = curatedFeed(api, "featured", "/search/featured", "An error occurred while fetching featured hotels")
	f.feed.onPage = func(p hotelsPage) {
		f.bmu.Lock()
		f.banners = p.Banners
		f.bmu.Unlock()
	}
	return f
}

func (f *FeaturedHotels) Banners() []domain.Banner {
	f.bmu.Lock()
	defer f.bmu.Unlock()
	out := make([]domain.Banner, len(f.banners))
	copy(out, f.banners)
	return out
}

func curatedFeed(api domain.APIClient, name, path, fallback string) feed {
	return feed{
		api:      api,
		name:     name,
		fallback: fallback,
		req: func() (string, url.Values, bool) {
			q := url.Values{}
			q.Set("limit", strconv.Itoa(feedLimit))
			return path, q, true
		},
	}
}
