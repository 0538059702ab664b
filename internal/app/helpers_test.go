package app_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"sync"

	"staysync/internal/domain"
)

// ---- shared fakes ----

type call struct {
	method string
	path   string
	query  url.Values
	body   any
}

// fakeAPI records every request and delegates the response to handler.
type fakeAPI struct {
	mu      sync.Mutex
	calls   []call
	handler func(method, path string, q url.Values, body any) (domain.Envelope, error)
}

func (f *fakeAPI) do(method, path string, q url.Values, body any) (domain.Envelope, error) {
	f.mu.Lock()
	f.calls = append(f.calls, call{method: method, path: path, query: q, body: body})
	h := f.handler
	f.mu.Unlock()
	if h == nil {
		return envOK(`{}`), nil
	}
	return h(method, path, q, body)
}

func (f *fakeAPI) Get(ctx context.Context, path string, q url.Values) (domain.Envelope, error) {
	return f.do("GET", path, q, nil)
}
func (f *fakeAPI) Post(ctx context.Context, path string, body any) (domain.Envelope, error) {
	return f.do("POST", path, nil, body)
}
func (f *fakeAPI) Patch(ctx context.Context, path string, body any) (domain.Envelope, error) {
	return f.do("PATCH", path, nil, body)
}
func (f *fakeAPI) Put(ctx context.Context, path string, body any) (domain.Envelope, error) {
	return f.do("PUT", path, nil, body)
}
func (f *fakeAPI) Delete(ctx context.Context, path string) (domain.Envelope, error) {
	return f.do("DELETE", path, nil, nil)
}

func (f *fakeAPI) count(method, path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c.method == method && c.path == path {
			n++
		}
	}
	return n
}

func (f *fakeAPI) last() (call, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.calls) == 0 {
		return call{}, false
	}
	return f.calls[len(f.calls)-1], true
}

// envOK builds a wrapped success envelope around the given data JSON.
func envOK(data string) domain.Envelope {
	raw := fmt.Sprintf(`{"success":true,"data":%s}`, data)
	return domain.Envelope{
		Success: true,
		Wrapped: true,
		Data:    json.RawMessage(data),
		Raw:     json.RawMessage(raw),
	}
}

// envFail builds a wrapped failure envelope carrying a server message.
func envFail(msg string) domain.Envelope {
	raw := fmt.Sprintf(`{"success":false,"error":%q}`, msg)
	return domain.Envelope{
		Wrapped: true,
		Error:   msg,
		Raw:     json.RawMessage(raw),
	}
}

// envFlat builds a legacy flattened body with no success field.
func envFlat(body string) domain.Envelope {
	return domain.Envelope{Raw: json.RawMessage(body)}
}

// fakeKV is an in-memory domain.KV tracking write counts.
type fakeKV struct {
	mu    sync.Mutex
	store map[string][]byte
	sets  int
}

func newFakeKV() *fakeKV { return &fakeKV{store: map[string][]byte{}} }

func (k *fakeKV) Get(ctx context.Context, key string, dst any) (bool, error) {
	k.mu.Lock()
	defer k.mu.Unlock()
	b, ok := k.store[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, dst)
}

func (k *fakeKV) Set(ctx context.Context, key string, v any, ttlSec int) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	k.mu.Lock()
	defer k.mu.Unlock()
	k.store[key] = b
	k.sets++
	return nil
}

func (k *fakeKV) Del(ctx context.Context, key string) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	delete(k.store, key)
	return nil
}

func (k *fakeKV) setCount() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.sets
}

// fakeLocator scripts the permission and fix pipeline.
type fakeLocator struct {
	status     domain.PermissionStatus
	requested  domain.PermissionStatus
	fix        domain.Coordinates
	fixErr     error
	statusErr  error
	requestErr error
}

func (l *fakeLocator) Status(ctx context.Context) (domain.PermissionStatus, error) {
	return l.status, l.statusErr
}

func (l *fakeLocator) Request(ctx context.Context) (domain.PermissionStatus, error) {
	return l.requested, l.requestErr
}

func (l *fakeLocator) Current(ctx context.Context) (domain.Coordinates, error) {
	if l.fixErr != nil {
		return domain.Coordinates{}, l.fixErr
	}
	return l.fix, nil
}
