// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package provider holds the construction contract shared by all geolocation and weather
// adapters: the options they are configured with and the errors they report.
package provider

import (
	"errors"
	"fmt"
	"strings"
)

const (
	UnitsMetric   = "metric"
	UnitsImperial = "imperial"
)

var (
	// ErrInvalidArgument is returned when a lookup is called with empty or malformed input. No API
	// request is performed in this case.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrMissingAPIKey is returned by adapter constructors for APIs that require a key
	ErrMissingAPIKey = errors.New("API key is required")

	// ErrMissingDatabase is returned by adapter constructors that require a local database file
	ErrMissingDatabase = errors.New("database file is required")

	// ErrNoHTTPClient is returned by adapter constructors when no HTTP client is given
	ErrNoHTTPClient = errors.New("http client is required")

	// ErrUpstream is returned when an API responds successfully but the payload reports an error
	ErrUpstream = errors.New("API reported an error")
)

// Options configures a single adapter.
type Options struct {
	// APIKey is the credential for APIs that require one.
	APIKey string
	// BaseURL overrides the default API endpoint of the adapter.
	BaseURL string
	// Units selects the unit system weather adapters request. Allowed values: metric, imperial
	Units string
	// Database is the path to a local database file for offline adapters.
	Database string
}

// RequireAPIKey returns ErrMissingAPIKey if no usable API key is configured for the named adapter.
func (o Options) RequireAPIKey(name string) error {
	if strings.TrimSpace(o.APIKey) == "" {
		return fmt.Errorf("%s: %w", name, ErrMissingAPIKey)
	}
	return nil
}

// Endpoint returns the configured base URL override or the given default.
func (o Options) Endpoint(defaultURL string) string {
	if o.BaseURL != "" {
		return o.BaseURL
	}
	return defaultURL
}

// Imperial reports whether imperial units are requested.
func (o Options) Imperial() bool {
	return strings.EqualFold(o.Units, UnitsImperial)
}

// UpstreamError returns an error wrapping ErrUpstream for the named adapter and the message the
// API reported.
func UpstreamError(name, message string) error {
	message = strings.TrimSpace(message)
	if message == "" {
		message = "no error message given"
	}
	return fmt.Errorf("%s: %w: %s", name, ErrUpstream, message)
}

// InvalidArgument returns an error wrapping ErrInvalidArgument and the given cause.
func InvalidArgument(cause error) error {
	return fmt.Errorf("%w: %w", ErrInvalidArgument, cause)
}
