package domain

import (
	"context"
	"encoding/json"
	"net/url"
)

// Envelope is the normalized {success, data, error} wrapper every backend
// response is expected to follow. Wrapped records whether the body actually
// carried a "success" field; a few legacy endpoints return the payload
// flattened, and their callers normalize via Raw.
type Envelope struct {
	Success bool
	Wrapped bool
	Data    json.RawMessage
	Error   string
	Raw     json.RawMessage // entire response body
}

// APIClient is the HTTP wrapper over the booking backend.
type APIClient interface {
	Get(ctx context.Context, path string, query url.Values) (Envelope, error)
	Post(ctx context.Context, path string, body any) (Envelope, error)
	Patch(ctx context.Context, path string, body any) (Envelope, error)
	Put(ctx context.Context, path string, body any) (Envelope, error)
	Delete(ctx context.Context, path string) (Envelope, error)
}

// KV is the persistent key-value store backing the location cache.
// ttlSec <= 0 means no expiry.
type KV interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}

// Locator is the geolocation provider seam. On devices this wraps the OS
// location services; headless deployments use a static implementation.
type Locator interface {
	Status(ctx context.Context) (PermissionStatus, error)
	Request(ctx context.Context) (PermissionStatus, error)
	Current(ctx context.Context) (Coordinates, error)
}
