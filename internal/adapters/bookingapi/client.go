package bookingapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"staysync/internal/adapters/observability"
	"staysync/internal/domain"
)

var (
	ErrNotFound     = errors.New("bookingapi: not found")
	ErrUnauthorized = errors.New("bookingapi: unauthorized")
	ErrForbidden    = errors.New("bookingapi: forbidden")
)

// Client wraps the booking backend with a base URL, bearer auth and a
// normalized envelope. Failed requests are never retried here: the store
// layer surfaces the error and waits for the next manual trigger.
type Client struct {
	base  string
	hc    *http.Client
	token string
	rl    *rate.Limiter
}

func New(base, token string, rps int) (*Client, error) {
	if base == "" {
		return nil, fmt.Errorf("base URL is required")
	}
	if rps <= 0 {
		rps = 10
	}
	return &Client{
		base:  strings.TrimRight(base, "/"),
		hc:    &http.Client{Timeout: 20 * time.Second},
		token: token,
		rl:    rate.NewLimiter(rate.Limit(rps), rps),
	}, nil
}

func (c *Client) Get(ctx context.Context, path string, query url.Values) (domain.Envelope, error) {
	u := c.base + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return c.do(ctx, http.MethodGet, u, path, nil)
}

func (c *Client) Post(ctx context.Context, path string, body any) (domain.Envelope, error) {
	return c.do(ctx, http.MethodPost, c.base+path, path, body)
}

func (c *Client) Patch(ctx context.Context, path string, body any) (domain.Envelope, error) {
	return c.do(ctx, http.MethodPatch, c.base+path, path, body)
}

func (c *Client) Put(ctx context.Context, path string, body any) (domain.Envelope, error) {
	return c.do(ctx, http.MethodPut, c.base+path, path, body)
}

func (c *Client) Delete(ctx context.Context, path string) (domain.Envelope, error) {
	return c.do(ctx, http.MethodDelete, c.base+path, path, nil)
}

func (c *Client) do(ctx context.Context, method, fullURL, endpoint string, body any) (domain.Envelope, error) {
	// client-side rate limiting
	if err := c.rl.Wait(ctx); err != nil {
		return domain.Envelope{}, err
	}

	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return domain.Envelope{}, err
		}
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, rdr)
	if err != nil {
		return domain.Envelope{}, err
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "staysync/1.0")

	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return domain.Envelope{}, ctx.Err()
		}
		observability.ObserveAPI(method, endpoint, 0, time.Since(start))
		return domain.Envelope{}, err
	}
	defer resp.Body.Close()
	observability.ObserveAPI(method, endpoint, resp.StatusCode, time.Since(start))

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated, http.StatusAccepted,
		http.StatusBadRequest, http.StatusConflict, http.StatusUnprocessableEntity:
		// Application-level outcomes ride in the envelope even on 4xx; the
		// success flag, not the HTTP status, decides pass/fail.
		return parseEnvelope(resp.Body)

	case http.StatusNoContent:
		return domain.Envelope{Success: true, Wrapped: true}, nil

	case http.StatusNotFound:
		return domain.Envelope{}, ErrNotFound

	case http.StatusUnauthorized:
		return domain.Envelope{}, ErrUnauthorized

	case http.StatusForbidden:
		return domain.Envelope{}, ErrForbidden

	default:
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return domain.Envelope{}, fmt.Errorf("bad status %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}
}

// parseEnvelope keeps the raw body alongside the decoded wrapper so callers
// that tolerate flattened payloads can normalize from Raw.
func parseEnvelope(r io.Reader) (domain.Envelope, error) {
	raw, err := io.ReadAll(io.LimitReader(r, 4<<20))
	if err != nil {
		return domain.Envelope{}, err
	}
	var probe struct {
		Success *bool           `json:"success"`
		Data    json.RawMessage `json:"data"`
		Error   string          `json:"error"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return domain.Envelope{}, fmt.Errorf("decode envelope: %w", err)
	}
	env := domain.Envelope{
		Wrapped: probe.Success != nil,
		Data:    probe.Data,
		Error:   probe.Error,
		Raw:     raw,
	}
	env.Success = probe.Success != nil && *probe.Success
	return env, nil
}
