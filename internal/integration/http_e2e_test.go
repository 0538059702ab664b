//go:build integration

package integration

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"

	"staysync/internal/adapters/bookingapi"
	"staysync/internal/adapters/geolocate"
	server "staysync/internal/adapters/httpserver"
	redisad "staysync/internal/adapters/redis"
	"staysync/internal/app"
	"staysync/internal/domain"
)

// End to end: a real Redis container backs the location cache, a fake
// booking backend answers over real HTTP, and the snapshot server serves
// what the stores synchronized.
func TestHTTP_EndToEnd_NearbySnapshot(t *testing.T) {
	ctx := context.Background()

	// Start isolated Redis container
	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Fatalf("dockertest: %v", err)
	}
	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "redis",
		Tag:        "7-alpine",
	}, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		t.Fatalf("run redis: %v", err)
	}
	t.Cleanup(func() { _ = pool.Purge(resource) })

	addr := fmt.Sprintf("127.0.0.1:%s", resource.GetPort("6379/tcp"))
	kv := redisad.New(addr, "", 0)
	if err := pool.Retry(func() error {
		return kv.Set(ctx, "ping", 1, 1)
	}); err != nil {
		t.Fatalf("connect redis: %v", err)
	}

	// Fake booking backend with the wrapped envelope contract
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search/nearby" {
			http.NotFound(w, r)
			return
		}
		if got := r.Header.Get("Authorization"); got != "Bearer e2e-token" {
			t.Errorf("auth header = %q", got)
		}
		if got := r.URL.Query().Get("limit"); got != "10" {
			t.Errorf("limit = %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"success":true,"data":{"hotels":[
			{"id":"h1","name":"Test Hotel","city":"Goa","address":"1 Beach Rd",
			 "rating":{"average":4.2,"count":10},
			 "pricing":{"startingFrom":1000}}
		],"total":1}}`)
	}))
	defer backend.Close()

	api, err := bookingapi.New(backend.URL, "e2e-token", 50)
	if err != nil {
		t.Fatalf("client: %v", err)
	}

	// Wire location and nearby the way the daemon does
	fix := domain.Coordinates{Lat: 12.9, Lng: 77.6}
	location := app.NewLocationService(kv, geolocate.NewStatic(fix, true, true))
	nearby := app.NewNearbyHotels(api)
	location.Subscribe(func(st domain.LocationState) {
		nearby.SetCoordinates(ctx, st.Coordinates)
	})
	location.Start(ctx)

	if st := nearby.State(); len(st.Items) != 1 || st.Items[0].ID != "h1" {
		t.Fatalf("nearby state after start = %+v", st)
	}

	// The fix must have landed in Redis
	var cached domain.Coordinates
	found, err := kv.Get(ctx, "user_location", &cached)
	if err != nil || !found || cached != fix {
		t.Fatalf("cached fix = %+v found=%v err=%v", cached, found, err)
	}

	// Snapshot server over the live stores
	srv := server.New()
	srv.MountHandlers(&server.Handlers{
		Hotels:      app.NewHotels(api, domain.SearchFilters{}),
		Nearby:      nearby,
		Latest:      app.NewLatestHotels(api),
		Offers:      app.NewOffersHotels(api),
		Featured:    app.NewFeaturedHotels(api),
		Bookings:    app.NewBookings(api),
		Wallet:      app.NewWallet(api),
		Maintenance: app.NewMaintenance(api),
		Location:    location,
		Detail:      app.NewDetailService(api),
		Wishlist:    app.NewWishlist(api),
	})
	ts := httptest.NewServer(srv.Mux())
	defer ts.Close()

	res, err := http.Get(ts.URL + "/v1/hotels/nearby")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		t.Fatalf("status %d", res.StatusCode)
	}
	etag := res.Header.Get("ETag")
	if etag == "" {
		t.Fatal("missing ETag")
	}

	var body struct {
		Hotels []struct {
			ID     string  `json:"id"`
			Name   string  `json:"name"`
			Rating float64 `json:"rating"`
			Price  float64 `json:"price"`
		} `json:"hotels"`
		Total int    `json:"total"`
		Error string `json:"error"`
	}
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Total != 1 || len(body.Hotels) != 1 || body.Error != "" {
		t.Fatalf("unexpected body: %+v", body)
	}
	if h := body.Hotels[0]; h.ID != "h1" || h.Name != "Test Hotel" || h.Rating != 4.2 || h.Price != 1000 {
		t.Fatalf("unexpected hotel: %+v", h)
	}

	// Conditional revalidation
	req, _ := http.NewRequest(http.MethodGet, ts.URL+"/v1/hotels/nearby", nil)
	req.Header.Set("If-None-Match", etag)
	res2, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("conditional GET: %v", err)
	}
	defer res2.Body.Close()
	if res2.StatusCode != http.StatusNotModified {
		t.Fatalf("conditional status %d, want 304", res2.StatusCode)
	}
}
