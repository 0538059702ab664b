// Package app holds the data-synchronization stores: each one mirrors a
// slice of remote booking-API state into a local, observable snapshot, the
// way the mobile client's hooks did.
package app

import "sync"

// ListState is the UI-facing snapshot shared by every list store.
// Loading is true only during a first/non-refresh fetch, Refreshing only
// during an explicit refresh. After a fetch settles, a non-empty Err
// implies empty Items and vice versa.
type ListState[T any] struct {
	Items      []T
	Total      int
	Loading    bool
	Refreshing bool
	Err        string
}

// syncCore coordinates overlapping fetches for one store. Every fetch
// draws a sequence number; only the response matching the latest issued
// number is applied, so a slow early response can never clobber the result
// of a later one.
type syncCore[T any] struct {
	mu   sync.Mutex
	seq  uint64
	st   ListState[T]
	subs []func(ListState[T])
}

// begin marks a fetch in flight and returns its sequence number.
func (c *syncCore[T]) begin(refresh bool) uint64 {
	c.mu.Lock()
	c.seq++
	seq := c.seq
	if refresh {
		c.st.Refreshing = true
	} else {
		c.st.Loading = true
	}
	c.st.Err = ""
	snap, subs := c.snapshotLocked()
	c.mu.Unlock()
	notify(snap, subs)
	return seq
}

// succeed replaces the list wholesale. Returns false if the fetch was
// superseded, in which case nothing is touched: the newer fetch owns the
// loading flags.
func (c *syncCore[T]) succeed(seq uint64, items []T, total int) bool {
	c.mu.Lock()
	if seq != c.seq {
		c.mu.Unlock()
		return false
	}
	c.st.Items = items
	c.st.Total = total
	c.st.Err = ""
	c.st.Loading, c.st.Refreshing = false, false
	snap, subs := c.snapshotLocked()
	c.mu.Unlock()
	notify(snap, subs)
	return true
}

// fail records the error and empties the list.
func (c *syncCore[T]) fail(seq uint64, msg string) bool {
	c.mu.Lock()
	if seq != c.seq {
		c.mu.Unlock()
		return false
	}
	c.st.Items = nil
	c.st.Total = 0
	c.st.Err = msg
	c.st.Loading, c.st.Refreshing = false, false
	snap, subs := c.snapshotLocked()
	c.mu.Unlock()
	notify(snap, subs)
	return true
}

// reset forces the empty, non-loading, non-error state and supersedes any
// fetch in flight. Used by precondition guards (e.g. nearby without a fix).
func (c *syncCore[T]) reset() {
	c.mu.Lock()
	c.seq++
	c.st = ListState[T]{}
	snap, subs := c.snapshotLocked()
	c.mu.Unlock()
	notify(snap, subs)
}

// update mutates items in place, outside the fetch cycle. This is the seam
// for the one sanctioned optimistic patch (booking cancel).
func (c *syncCore[T]) update(fn func(items []T)) {
	c.mu.Lock()
	fn(c.st.Items)
	snap, subs := c.snapshotLocked()
	c.mu.Unlock()
	notify(snap, subs)
}

func (c *syncCore[T]) state() ListState[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	snap, _ := c.snapshotLocked()
	return snap
}

func (c *syncCore[T]) subscribe(fn func(ListState[T])) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.subs = append(c.subs, fn)
}

// snapshotLocked copies the state (items included) so subscribers and
// readers never alias the store's backing array.
func (c *syncCore[T]) snapshotLocked() (ListState[T], []func(ListState[T])) {
	snap := c.st
	if len(c.st.Items) > 0 {
		snap.Items = make([]T, len(c.st.Items))
		copy(snap.Items, c.st.Items)
	}
	return snap, c.subs
}

func notify[T any](snap ListState[T], subs []func(ListState[T])) {
	for _, fn := range subs {
		fn(snap)
	}
}

func orMsg(msg, fallback string) string {
	if msg != "" {
		return msg
	}
	return fallback
}
