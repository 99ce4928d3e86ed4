// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package ipapico

import (
	"errors"
	"io"
	"log/slog"
	stdhttp "net/http"
	"testing"

	"github.com/wneessen/geoservices/internal/http"
	"github.com/wneessen/geoservices/internal/logger"
	"github.com/wneessen/geoservices/internal/provider"
	"github.com/wneessen/geoservices/internal/testhelper"
)

const (
	testAddress = "8.8.8.8"
	testFile    = "../../../../testdata/ipapico.json"
	testErrFile = "../../../../testdata/ipapico_error.json"
)

func TestNew(t *testing.T) {
	p, err := New(http.New(logger.NewLogger(slog.LevelInfo, io.Discard)), provider.Options{})
	if err != nil {
		t.Fatalf("failed to create provider: %s", err)
	}
	if p.Name() != name {
		t.Errorf("expected provider name to be %q, got %q", name, p.Name())
	}
}

func TestIPAPICo_GetInfo(t *testing.T) {
	t.Run("lookup succeeds", func(t *testing.T) {
		var gotReq *stdhttp.Request
		rtFn := func(req *stdhttp.Request) (*stdhttp.Response, error) {
			gotReq = req
			return testhelper.FileResponder(t, testFile, 200)(req)
		}
		info, err := testProvider(t, rtFn).GetInfo(t.Context(), testAddress)
		if err != nil {
			t.Fatalf("failed to get geolocation: %s", err)
		}
		if gotReq.URL.Path != "/"+testAddress+"/json" {
			t.Errorf("expected request path to be %q, got %q", "/"+testAddress+"/json", gotReq.URL.Path)
		}
		if info.CountryName != "United States" {
			t.Errorf("expected country name to be %q, got %q", "United States", info.CountryName)
		}
		if info.Timezone != "America/Los_Angeles" {
			t.Errorf("expected timezone to be %q, got %q", "America/Los_Angeles", info.Timezone)
		}
		if info.Display() != "Mountain View, California, United States" {
			t.Errorf("expected display to be %q, got %q", "Mountain View, California, United States", info.Display())
		}
		if _, _, ok := info.Coordinates(); !ok {
			t.Error("expected coordinates to be set")
		}
	})
	t.Run("country falls back when country_name is missing", func(t *testing.T) {
		body := `{"ip":"8.8.8.8","country":"US","city":"Mountain View"}`
		info, err := testProvider(t, testhelper.StringResponder(body, 200)).GetInfo(t.Context(), testAddress)
		if err != nil {
			t.Fatalf("failed to get geolocation: %s", err)
		}
		if info.CountryName != "US" {
			t.Errorf("expected country name to be %q, got %q", "US", info.CountryName)
		}
		if info.Display() != "Mountain View, US" {
			t.Errorf("expected display to be %q, got %q", "Mountain View, US", info.Display())
		}
	})
	t.Run("error flag is detected", func(t *testing.T) {
		_, err := testProvider(t, testhelper.FileResponder(t, testErrFile, 200)).GetInfo(t.Context(), testAddress)
		if !errors.Is(err, provider.ErrUpstream) {
			t.Errorf("expected error to be %s, got %v", provider.ErrUpstream, err)
		}
	})
	t.Run("rate limiting fails", func(t *testing.T) {
		_, err := testProvider(t, testhelper.StringResponder(`{"error":true}`, 429)).GetInfo(t.Context(), testAddress)
		if !errors.Is(err, http.ErrUnexpectedStatus) {
			t.Errorf("expected error to be %s, got %v", http.ErrUnexpectedStatus, err)
		}
	})
}

func TestIPAPICo_GetInfo_integration(t *testing.T) {
	testhelper.PerformIntegrationTests(t)
	p, err := New(http.New(logger.NewLogger(slog.LevelInfo, io.Discard)), provider.Options{})
	if err != nil {
		t.Fatalf("failed to create provider: %s", err)
	}
	if _, err = p.GetInfo(t.Context(), testAddress); err != nil {
		t.Fatalf("failed to get geolocation: %s", err)
	}
}

func testProvider(t *testing.T, fn func(req *stdhttp.Request) (*stdhttp.Response, error)) *IPAPICo {
	t.Helper()
	client := http.New(logger.NewLogger(slog.LevelDebug, io.Discard))
	client.Transport = testhelper.MockRoundTripper{Fn: fn}
	p, err := New(client, provider.Options{})
	if err != nil {
		t.Fatalf("failed to create provider: %s", err)
	}
	return p
}
