package main

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"staysync/internal/adapters/bookingapi"
	"staysync/internal/adapters/geolocate"
	server "staysync/internal/adapters/httpserver"
	"staysync/internal/adapters/observability"
	redisad "staysync/internal/adapters/redis"
	"staysync/internal/app"
	"staysync/internal/domain"
	"staysync/internal/shared"
)

func main() {
	ctx := context.Background()
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	api, err := bookingapi.New(cfg.APIBase, cfg.APIToken, cfg.APIRequestRPS)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize booking API client")
	}
	kv := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	locator := geolocate.NewStatic(
		domain.Coordinates{Lat: cfg.LocationLat, Lng: cfg.LocationLng},
		cfg.LocationConsent,
		cfg.LocationLat != 0 || cfg.LocationLng != 0,
	)

	// stores
	hotels := app.NewHotels(api, domain.SearchFilters{})
	nearby := app.NewNearbyHotels(api)
	latest := app.NewLatestHotels(api)
	offers := app.NewOffersHotels(api)
	featured := app.NewFeaturedHotels(api)
	bookings := app.NewBookings(api)
	wallet := app.NewWallet(api)
	maintenance := app.NewMaintenance(api)
	location := app.NewLocationService(kv, locator)
	detail := app.NewDetailService(api)
	wishlist := app.NewWishlist(api)

	// the nearby feed follows the location state
	location.Subscribe(func(st domain.LocationState) {
		nearby.SetCoordinates(ctx, st.Coordinates)
	})

	location.Start(ctx)
	maintenance.Check(ctx)

	refreshers := map[string]func(context.Context){
		"hotels":   hotels.Refresh,
		"nearby":   nearby.Refresh,
		"latest":   latest.Refresh,
		"offers":   offers.Refresh,
		"featured": featured.Refresh,
		"bookings": bookings.Refresh,
		"wallet":   wallet.Refresh,
		"config":   maintenance.Refetch,
	}
	refreshAll := func() { fanOut(ctx, refreshers, cfg.RefreshWorkers) }

	log.Info().
		Str("base", cfg.APIBase).
		Dur("interval", cfg.RefreshInterval).
		Int("workers", cfg.RefreshWorkers).
		Msg("syncd starting")

	// initial load (non-refresh path), then periodic refreshes
	if err := wishlist.Refresh(ctx); err != nil {
		log.Warn().Err(err).Msg("initial wishlist refresh failed")
	}
	for name, fn := range map[string]func(context.Context, bool){
		"hotels":   hotels.Fetch,
		"latest":   latest.Fetch,
		"offers":   offers.Fetch,
		"featured": featured.Fetch,
		"bookings": bookings.Fetch,
		"wallet":   wallet.Fetch,
	} {
		fn(ctx, false)
		log.Debug().Str("store", name).Msg("initial fetch done")
	}

	go func() {
		t := time.NewTicker(cfg.RefreshInterval)
		defer t.Stop()
		for range t.C {
			refreshAll()
		}
	}()

	// http
	srv := server.New()
	reg := observability.InitRegistry()
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{
		Hotels:      hotels,
		Nearby:      nearby,
		Latest:      latest,
		Offers:      offers,
		Featured:    featured,
		Bookings:    bookings,
		Wallet:      wallet,
		Maintenance: maintenance,
		Location:    location,
		Detail:      detail,
		Wishlist:    wishlist,
		RefreshAll:  func() { go refreshAll() },
	})

	log.Info().Str("addr", cfg.HTTPAddr).Msg("snapshot server listening")
	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux()}
	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("http server failed")
	}
}

// fanOut refreshes every store with bounded concurrency.
func fanOut(ctx context.Context, refreshers map[string]func(context.Context), workers int) {
	if workers <= 0 {
		workers = 1
	}
	sem := semaphore.NewWeighted(int64(workers))
	var wg sync.WaitGroup
	for name, fn := range refreshers {
		if err := sem.Acquire(ctx, 1); err != nil {
			log.Warn().Err(err).Msg("semaphore acquire failed")
			return
		}
		wg.Add(1)
		go func(name string, fn func(context.Context)) {
			defer wg.Done()
			defer sem.Release(1)
			fn(ctx)
			log.Debug().Str("store", name).Msg("refresh ok")
		}(name, fn)
	}
	wg.Wait()
}
