// Package geolocate holds Locator implementations. On a device build the
// Locator wraps the OS location services; this static variant serves
// headless deployments and development, where the fix and the consent
// decision come from configuration.
package geolocate

import (
	"context"
	"errors"

	"staysync/internal/domain"
)

var ErrNoFix = errors.New("geolocate: no fix available")

type Static struct {
	coords  domain.Coordinates
	consent bool
	hasFix  bool
}

// NewStatic builds a locator that reports the given fix. consent=false
// models a user who has not granted location access.
func NewStatic(coords domain.Coordinates, consent, hasFix bool) *Static {
	return &Static{coords: coords, consent: consent, hasFix: hasFix}
}

func (s *Static) Status(ctx context.Context) (domain.PermissionStatus, error) {
	if s.consent {
		return domain.PermissionGranted, nil
	}
	return domain.PermissionDenied, nil
}

// Request behaves like Status: a static locator has no prompt to show.
func (s *Static) Request(ctx context.Context) (domain.PermissionStatus, error) {
	return s.Status(ctx)
}

func (s *Static) Current(ctx context.Context) (domain.Coordinates, error) {
	if !s.hasFix {
		return domain.Coordinates{}, ErrNoFix
	}
	return s.coords, nil
}
