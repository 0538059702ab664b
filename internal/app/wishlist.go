package app

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"sync"

	"staysync/internal/domain"
)

// Wishlist mirrors the caller's saved hotels as a membership set. It is an
// injected service, not an ambient singleton: every consumer receives the
// same instance through its constructor. Mutations apply locally only after
// the server confirms.
type Wishlist struct {
	mu  sync.Mutex
	api domain.APIClient
	ids map[string]struct{}
}

func NewWishlist(api domain.APIClient) *Wishlist {
	return &Wishlist{api: api, ids: map[string]struct{}{}}
}

func (w *Wishlist) Refresh(ctx context.Context) error {
	env, err := w.api.Get(ctx, "/wishlist", nil)
	if err != nil {
		return err
	}
	if !env.Success {
		return errors.New(orMsg(env.Error, "Failed to fetch wishlist"))
	}
	var data struct {
		Items []struct {
			HotelID string `json:"hotelId"`
		} `json:"items"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		return err
	}
	ids := make(map[string]struct{}, len(data.Items))
	for _, it := range data.Items {
		ids[it.HotelID] = struct{}{}
	}
	w.mu.Lock()
	w.ids = ids
	w.mu.Unlock()
	return nil
}

func (w *Wishlist) Add(ctx context.Context, hotelID string) error {
	env, err := w.api.Post(ctx, "/wishlist", map[string]string{"hotelId": hotelID})
	if err != nil {
		return err
	}
	if !env.Success {
		return errors.New(orMsg(env.Error, "Failed to update wishlist"))
	}
	w.mu.Lock()
	w.ids[hotelID] = struct{}{}
	w.mu.Unlock()
	return nil
}

func (w *Wishlist) Remove(ctx context.Context, hotelID string) error {
	env, err := w.api.Delete(ctx, "/wishlist/"+hotelID)
	if err != nil {
		return err
	}
	if !env.Success {
		return errors.New(orMsg(env.Error, "Failed to update wishlist"))
	}
	w.mu.Lock()
	delete(w.ids, hotelID)
	w.mu.Unlock()
	return nil
}

func (w *Wishlist) Contains(hotelID string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	_, ok := w.ids[hotelID]
	return ok
}

func (w *Wishlist) HotelIDs() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]string, 0, len(w.ids))
	for id := range w.ids {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
