// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package geoip defines the canonical geolocation result and the capability interface that every
// IP geolocation adapter implements.
package geoip

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/wneessen/geoservices/internal/provider"
	"github.com/wneessen/geoservices/internal/vartype"
)

const displaySeparator = ", "

var (
	ErrEmptyAddress   = errors.New("IP address must not be empty")
	ErrInvalidAddress = errors.New("IP address is not valid")

	validate = validator.New()
)

// Provider is implemented by each IP geolocation backend.
type Provider interface {
	Name() string
	GetInfo(ctx context.Context, address string) (GeoInfo, error)
}

// GeoInfo is the canonical geolocation result of an IP address lookup.
type GeoInfo struct {
	CountryName string
	// CountryCode is the ISO 3166-1 alpha-2 code
	CountryCode string
	Latitude    vartype.VarFloat64
	Longitude   vartype.VarFloat64
	Timezone    string
	// DisplayName is the locality as composed by the adapter, most-specific first
	DisplayName string
}

// Display returns the human-readable locality of the result. Adapters that do not compose a
// display name fall back to the country name.
func (g GeoInfo) Display() string {
	if g.DisplayName != "" {
		return g.DisplayName
	}
	return g.CountryName
}

// String satisfies the fmt.Stringer interface.
func (g GeoInfo) String() string {
	return g.Display()
}

// Coordinates returns latitude and longitude. ok is only true if both are set.
func (g GeoInfo) Coordinates() (lat, lon float64, ok bool) {
	lat, latOK := g.Latitude.Get()
	lon, lonOK := g.Longitude.Get()
	return lat, lon, latOK && lonOK
}

// JoinDisplay joins the non-blank segments with a comma, without leading or trailing separators.
func JoinDisplay(segments ...string) string {
	parts := make([]string, 0, len(segments))
	for _, segment := range segments {
		if segment = strings.TrimSpace(segment); segment != "" {
			parts = append(parts, segment)
		}
	}
	return strings.Join(parts, displaySeparator)
}

// Latitude returns a set variable for val if it is a valid latitude, otherwise an unset one.
// NaN is never a valid latitude.
func Latitude(val float64) vartype.VarFloat64 {
	if !(val >= -90 && val <= 90) {
		return vartype.VarFloat64{}
	}
	return vartype.NewVariable(val)
}

// Longitude returns a set variable for val if it is a valid longitude, otherwise an unset one.
func Longitude(val float64) vartype.VarFloat64 {
	if !(val >= -180 && val <= 180) {
		return vartype.VarFloat64{}
	}
	return vartype.NewVariable(val)
}

// ValidateAddress checks that address is a non-empty IPv4 or IPv6 address. The returned error
// wraps provider.ErrInvalidArgument.
func ValidateAddress(address string) error {
	if address == "" {
		return provider.InvalidArgument(ErrEmptyAddress)
	}
	if err := validate.Var(address, "ip"); err != nil {
		return provider.InvalidArgument(ErrInvalidAddress)
	}
	return nil
}

// RemoteAddress returns the client IP address of an incoming HTTP request. The first entry of the
// X-Forwarded-For header takes precedence over the connection's remote address.
func RemoteAddress(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		if first = strings.TrimSpace(first); first != "" {
			return first
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
