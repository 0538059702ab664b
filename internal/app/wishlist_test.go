package app_test

import (
	"context"
	"net/url"
	"reflect"
	"testing"

	"staysync/internal/app"
	"staysync/internal/domain"
)

func TestWishlistRoundTrip(t *testing.T) {
	ctx := context.Background()
	api := &fakeAPI{handler: func(method, path string, q url.Values, body any) (domain.Envelope, error) {
		switch {
		case method == "GET" && path == "/wishlist":
			return envOK(`{"items":[{"hotelId":"h1"},{"hotelId":"h3"}]}`), nil
		case method == "POST" && path == "/wishlist":
			return envOK(`{}`), nil
		case method == "DELETE" && path == "/wishlist/h1":
			return envOK(`{}`), nil
		}
		t.Errorf("unexpected request %s %s", method, path)
		return envFail("bad request"), nil
	}}
	w := app.NewWishlist(api)

	if err := w.Refresh(ctx); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if !w.Contains("h1") || w.Contains("h2") {
		t.Fatalf("membership after refresh: %v", w.HotelIDs())
	}

	if err := w.Add(ctx, "h2"); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := w.Remove(ctx, "h1"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if got, want := w.HotelIDs(), []string{"h2", "h3"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("ids = %v, want %v", got, want)
	}
}

func TestWishlistMutationNotAppliedOnServerFailure(t *testing.T) {
	ctx := context.Background()
	api := &fakeAPI{handler: func(method, path string, q url.Values, body any) (domain.Envelope, error) {
		if method == "POST" {
			return envFail("wishlist full"), nil
		}
		return envOK(`{"items":[]}`), nil
	}}
	w := app.NewWishlist(api)
	if err := w.Refresh(ctx); err != nil {
		t.Fatalf("refresh: %v", err)
	}

	err := w.Add(ctx, "h1")
	if err == nil || err.Error() != "wishlist full" {
		t.Fatalf("err = %v", err)
	}
	if w.Contains("h1") {
		t.Fatal("failed add mutated the local set")
	}
}
