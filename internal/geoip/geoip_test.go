// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package geoip

import (
	"errors"
	"math"
	"net/http/httptest"
	"testing"

	"github.com/wneessen/geoservices/internal/provider"
	"github.com/wneessen/geoservices/internal/vartype"
)

func TestJoinDisplay(t *testing.T) {
	tests := []struct {
		name     string
		segments []string
		want     string
	}{
		{"all segments", []string{"Munich", "Bavaria", "Germany"}, "Munich, Bavaria, Germany"},
		{"empty city", []string{"", "Bavaria", "Germany"}, "Bavaria, Germany"},
		{"empty region", []string{"Munich", "", "Germany"}, "Munich, Germany"},
		{"empty country", []string{"Munich", "Bavaria", ""}, "Munich, Bavaria"},
		{"blank segments", []string{" ", "\t", "Germany", ""}, "Germany"},
		{"with continent", []string{"Munich", "Bavaria", "Germany", "Europe"}, "Munich, Bavaria, Germany, Europe"},
		{"nothing", []string{"", ""}, ""},
		{"no segments", nil, ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := JoinDisplay(tc.segments...); got != tc.want {
				t.Errorf("expected display to be %q, got %q", tc.want, got)
			}
		})
	}
}

func TestGeoInfo_Display(t *testing.T) {
	t.Run("composed display name wins", func(t *testing.T) {
		info := GeoInfo{CountryName: "Germany", DisplayName: "Bavaria, Germany"}
		if info.Display() != "Bavaria, Germany" {
			t.Errorf("expected display to be %q, got %q", "Bavaria, Germany", info.Display())
		}
		if info.String() != info.Display() {
			t.Errorf("expected string to match display, got %q", info.String())
		}
	})
	t.Run("country name is the canonical display", func(t *testing.T) {
		info := GeoInfo{CountryName: "Germany"}
		if info.Display() != "Germany" {
			t.Errorf("expected display to be %q, got %q", "Germany", info.Display())
		}
	})
}

func TestGeoInfo_Coordinates(t *testing.T) {
	t.Run("equator and prime meridian are valid coordinates", func(t *testing.T) {
		info := GeoInfo{Latitude: vartype.NewVariable(0.0), Longitude: vartype.NewVariable(0.0)}
		lat, lon, ok := info.Coordinates()
		if !ok {
			t.Fatal("expected coordinates to be set")
		}
		if lat != 0 || lon != 0 {
			t.Errorf("expected 0/0, got %f/%f", lat, lon)
		}
	})
	t.Run("absent coordinates are reported", func(t *testing.T) {
		if _, _, ok := (GeoInfo{Latitude: vartype.NewVariable(1.0)}).Coordinates(); ok {
			t.Error("expected coordinates not to be set")
		}
	})
}

func TestLatitudeLongitude(t *testing.T) {
	tests := []struct {
		name  string
		lat   float64
		lon   float64
		latOK bool
		lonOK bool
	}{
		{"valid", 37.5, -122.4, true, true},
		{"bounds", -90, 180, true, true},
		{"latitude out of range", 90.1, 0, false, true},
		{"longitude out of range", 0, -180.5, true, false},
		{"not a number", math.NaN(), math.NaN(), false, false},
		{"infinity", math.Inf(1), math.Inf(-1), false, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Latitude(tc.lat).IsSet(); got != tc.latOK {
				t.Errorf("expected latitude set to be %t, got %t", tc.latOK, got)
			}
			if got := Longitude(tc.lon).IsSet(); got != tc.lonOK {
				t.Errorf("expected longitude set to be %t, got %t", tc.lonOK, got)
			}
		})
	}
}

func TestValidateAddress(t *testing.T) {
	tests := []struct {
		name    string
		address string
		wantErr error
	}{
		{"ipv4", "8.8.8.8", nil},
		{"ipv6", "2001:4860:4860::8888", nil},
		{"empty", "", ErrEmptyAddress},
		{"hostname", "example.com", ErrInvalidAddress},
		{"garbage", "1.2.3.999", ErrInvalidAddress},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateAddress(tc.address)
			if tc.wantErr == nil {
				if err != nil {
					t.Errorf("expected no error, got %s", err)
				}
				return
			}
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("expected error to be %s, got %v", tc.wantErr, err)
			}
			if !errors.Is(err, provider.ErrInvalidArgument) {
				t.Errorf("expected error to be %s, got %v", provider.ErrInvalidArgument, err)
			}
		})
	}
}

func TestRemoteAddress(t *testing.T) {
	t.Run("remote address without proxy", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/", nil)
		req.RemoteAddr = "203.0.113.7:51234"
		if got := RemoteAddress(req); got != "203.0.113.7" {
			t.Errorf("expected address to be %q, got %q", "203.0.113.7", got)
		}
	})
	t.Run("first forwarded address wins", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set("X-Forwarded-For", " 198.51.100.1 , 10.0.0.1")
		if got := RemoteAddress(req); got != "198.51.100.1" {
			t.Errorf("expected address to be %q, got %q", "198.51.100.1", got)
		}
	})
	t.Run("remote address without port", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/", nil)
		req.RemoteAddr = "203.0.113.7"
		if got := RemoteAddress(req); got != "203.0.113.7" {
			t.Errorf("expected address to be %q, got %q", "203.0.113.7", got)
		}
	})
}
