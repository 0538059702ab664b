package app

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"strconv"
	"sync"

	"staysync/internal/adapters/observability"
	"staysync/internal/domain"
)

// The "my bookings" listing always asks for this many records.
const bookingsLimit = 50

// ParseError reports a bookings payload matching neither recognized shape.
type ParseError struct{ Detail string }

func (e *ParseError) Error() string { return "bookings: unrecognized response shape: " + e.Detail }

// Bookings mirrors the caller's booking list. Mutations follow two named
// policies: Create refetches the whole list after the write, Cancel patches
// the one affected record in memory once the server confirms.
type Bookings struct {
	core   syncCore[domain.Booking]
	api    domain.APIClient
	mu     sync.Mutex
	status string // optional status filter
}

func NewBookings(api domain.APIClient) *Bookings {
	return &Bookings{api: api}
}

func (b *Bookings) Fetch(ctx context.Context, refresh bool) {
	seq := b.core.begin(refresh)

	q := url.Values{}
	q.Set("limit", strconv.Itoa(bookingsLimit))
	b.mu.Lock()
	if b.status != "" {
		q.Set("status", b.status)
	}
	b.mu.Unlock()

	env, err := b.api.Get(ctx, "/bookings/user/me", q)
	if err != nil {
		b.settleFail(seq, "Failed to fetch bookings")
		return
	}
	if env.Wrapped && !env.Success {
		b.settleFail(seq, orMsg(env.Error, "Failed to fetch bookings"))
		return
	}
	page, perr := normalizeBookingsPayload(env)
	if perr != nil {
		b.settleFail(seq, perr.Error())
		return
	}
	total := len(page.Bookings)
	if page.Total != nil {
		total = *page.Total
	}
	if b.core.succeed(seq, page.Bookings, total) {
		observability.ObserveStoreFetch("bookings", "ok")
	} else {
		observability.ObserveStoreFetch("bookings", "stale")
	}
}

func (b *Bookings) settleFail(seq uint64, msg string) {
	if b.core.fail(seq, msg) {
		observability.ObserveStoreFetch("bookings", "error")
	} else {
		observability.ObserveStoreFetch("bookings", "stale")
	}
}

func (b *Bookings) Refresh(ctx context.Context) { b.Fetch(ctx, true) }

// SetStatusFilter narrows the listing to one status and refetches.
func (b *Bookings) SetStatusFilter(ctx context.Context, status string) {
	b.mu.Lock()
	same := b.status == status
	b.status = status
	b.mu.Unlock()
	if same {
		return
	}
	b.Fetch(ctx, false)
}

// Create posts a new booking. Policy: refetch-after-write — on success the
// whole list is reloaded instead of inserting the record locally.
func (b *Bookings) Create(ctx context.Context, booking any) (json.RawMessage, error) {
	env, err := b.api.Post(ctx, "/bookings", booking)
	if err != nil {
		return nil, err
	}
	if !env.Success {
		return nil, errors.New(orMsg(env.Error, "Booking failed"))
	}
	b.Fetch(ctx, true)
	return env.Data, nil
}

// Cancel patches the booking server-side. Policy: optimistic-patch — after
// the server confirms, the matching record's status flips to cancelled in
// memory; no other field and no other booking is touched, and no refetch
// occurs.
func (b *Bookings) Cancel(ctx context.Context, bookingID string) error {
	env, err := b.api.Patch(ctx, "/bookings/"+bookingID+"/cancel", nil)
	if err != nil {
		return err
	}
	if !env.Success {
		return errors.New(orMsg(env.Error, "Cancellation failed"))
	}
	b.core.update(func(items []domain.Booking) {
		for i := range items {
			if items[i].ID == bookingID {
				items[i].Status = domain.BookingCancelled
			}
		}
	})
	return nil
}

// Upcoming returns pending and confirmed bookings, recomputed per call.
func (b *Bookings) Upcoming() []domain.Booking {
	return b.filter(domain.Booking.Upcoming)
}

// Past returns completed and cancelled bookings, recomputed per call.
func (b *Bookings) Past() []domain.Booking {
	return b.filter(domain.Booking.Past)
}

func (b *Bookings) filter(keep func(domain.Booking) bool) []domain.Booking {
	st := b.core.state()
	out := make([]domain.Booking, 0, len(st.Items))
	for _, bk := range st.Items {
		if keep(bk) {
			out = append(out, bk)
		}
	}
	return out
}

func (b *Bookings) State() ListState[domain.Booking] { return b.core.state() }

func (b *Bookings) Subscribe(fn func(ListState[domain.Booking])) { b.core.subscribe(fn) }

type bookingsPage struct {
	Bookings []domain.Booking `json:"bookings"`
	Total    *int             `json:"total"`
}

// normalizeBookingsPayload accepts the two shapes this endpoint has shipped
// with — {success,data:{bookings,total}} and a flattened {bookings,total} —
// and rejects anything else with a typed parse error rather than guessing.
func normalizeBookingsPayload(env domain.Envelope) (bookingsPage, error) {
	body := env.Raw
	if env.Wrapped {
		body = env.Data
	}
	if len(body) == 0 {
		return bookingsPage{}, &ParseError{Detail: "empty payload"}
	}
	var p bookingsPage
	if err := json.Unmarshal(body, &p); err != nil {
		return bookingsPage{}, &ParseError{Detail: err.Error()}
	}
	if p.Bookings == nil {
		return bookingsPage{}, &ParseError{Detail: "missing bookings array"}
	}
	return p, nil
}
