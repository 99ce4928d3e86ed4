// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package http

import (
	"context"
	"errors"
	"io"
	"log/slog"
	stdhttp "net/http"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/wneessen/geoservices/internal/logger"
	"github.com/wneessen/geoservices/internal/testhelper"
)

type testType struct {
	String string  `json:"string"`
	Int    int     `json:"int"`
	Float  float64 `json:"float"`
	Bool   bool    `json:"bool"`
}

const testJSON = `{"string":"test","int":123,"float":123.456,"bool":true}`

func TestNew(t *testing.T) {
	client := New(logger.NewLogger(slog.LevelInfo, io.Discard))
	if client == nil {
		t.Fatal("expected client to be non-nil")
	}
	if client.Timeout != DefaultTimeout {
		t.Errorf("expected timeout to be %s, got %s", DefaultTimeout, client.Timeout)
	}
}

func TestClient_Endpoint(t *testing.T) {
	client := New(logger.NewLogger(slog.LevelInfo, io.Discard))
	t.Run("endpoint carries the default headers", func(t *testing.T) {
		endpoint, err := client.Endpoint("https://example.com/api/", DefaultHeaders(), 0)
		if err != nil {
			t.Fatalf("failed to create endpoint: %s", err)
		}
		if endpoint.Header("Accept") != MIMETypeJSON {
			t.Errorf("expected Accept header to be %q, got %q", MIMETypeJSON, endpoint.Header("Accept"))
		}
		if endpoint.Header("Cache-Control") != CacheControlPolicy {
			t.Errorf("expected Cache-Control header to be %q, got %q", CacheControlPolicy,
				endpoint.Header("Cache-Control"))
		}
		if endpoint.Header("User-Agent") != UserAgent {
			t.Errorf("expected User-Agent header to be %q, got %q", UserAgent, endpoint.Header("User-Agent"))
		}
		if endpoint.timeout != DefaultTimeout {
			t.Errorf("expected timeout to be %s, got %s", DefaultTimeout, endpoint.timeout)
		}
		if endpoint.BaseURL() != "https://example.com/api/" {
			t.Errorf("expected base URL to be %q, got %q", "https://example.com/api/", endpoint.BaseURL())
		}
	})
	t.Run("header map changes after creation do not leak into the endpoint", func(t *testing.T) {
		headers := DefaultHeaders()
		endpoint, err := client.Endpoint("https://example.com", headers, time.Second)
		if err != nil {
			t.Fatalf("failed to create endpoint: %s", err)
		}
		headers["Accept"] = "text/html"
		if endpoint.Header("Accept") != MIMETypeJSON {
			t.Errorf("expected Accept header to stay %q, got %q", MIMETypeJSON, endpoint.Header("Accept"))
		}
	})
	t.Run("parsing an invalid url should fail", func(t *testing.T) {
		_, err := client.Endpoint("http://example.com/xyz%", nil, 0)
		if err == nil {
			t.Fatal("expected endpoint creation to fail")
		}
		if !strings.Contains(err.Error(), "failed to parse URL") {
			t.Errorf("expected error to contain 'failed to parse URL', got %s", err)
		}
	})
	t.Run("unsupported scheme should fail", func(t *testing.T) {
		if _, err := client.Endpoint("ftp://example.com", nil, 0); err == nil {
			t.Fatal("expected endpoint creation to fail")
		}
	})
}

func TestEndpoint_GetJSON(t *testing.T) {
	t.Run("getting and serializing JSON should work", func(t *testing.T) {
		var gotReq *stdhttp.Request
		rtFn := func(req *stdhttp.Request) (*stdhttp.Response, error) {
			gotReq = req
			return testhelper.StringResponder(testJSON, 200)(req)
		}
		endpoint := testEndpoint(t, "https://example.com/json/?lang=en", rtFn)

		query := url.Values{}
		query.Set("key", "value")
		target := new(testType)
		code, err := endpoint.GetJSON(t.Context(), target, query, "1.2.3.4")
		if err != nil {
			t.Fatalf("failed to get JSON response: %s", err)
		}
		if code != 200 {
			t.Errorf("expected status code 200, got %d", code)
		}
		if target.String != "test" || target.Int != 123 || target.Float != 123.456 || !target.Bool {
			t.Errorf("unexpected target: %+v", target)
		}
		if gotReq.URL.Path != "/json/1.2.3.4" {
			t.Errorf("expected request path to be %q, got %q", "/json/1.2.3.4", gotReq.URL.Path)
		}
		if gotReq.URL.Query().Get("key") != "value" {
			t.Errorf("expected query key to be %q, got %q", "value", gotReq.URL.Query().Get("key"))
		}
		if gotReq.URL.Query().Get("lang") != "en" {
			t.Errorf("expected base query to be kept, got %q", gotReq.URL.RawQuery)
		}
		if gotReq.Header.Get("Cache-Control") != CacheControlPolicy {
			t.Errorf("expected Cache-Control header to be %q, got %q", CacheControlPolicy,
				gotReq.Header.Get("Cache-Control"))
		}
	})
	t.Run("unmarshalling into non-pointer should fail", func(t *testing.T) {
		endpoint := testEndpoint(t, "https://example.com", testhelper.FailingResponder(t))
		var target testType
		_, err := endpoint.GetJSON(t.Context(), target, nil)
		if !errors.Is(err, ErrNonPointerTarget) {
			t.Errorf("expected error to be %s, got %s", ErrNonPointerTarget, err)
		}
	})
	t.Run("transport errors are passed through", func(t *testing.T) {
		wantErr := errors.New("intentionally failing")
		rtFn := func(req *stdhttp.Request) (*stdhttp.Response, error) {
			return nil, wantErr
		}
		endpoint := testEndpoint(t, "https://example.com", rtFn)
		_, err := endpoint.GetJSON(t.Context(), new(testType), nil)
		if !errors.Is(err, wantErr) {
			t.Fatalf("expected error to be %s, got %s", wantErr, err)
		}
		var urlErr *url.Error
		if !errors.As(err, &urlErr) {
			t.Errorf("expected error to be a *url.Error, got %T", err)
		}
		if errors.Is(err, ErrDecode) {
			t.Error("did not expect a decode error")
		}
	})
	t.Run("non-2xx status fails", func(t *testing.T) {
		endpoint := testEndpoint(t, "https://example.com",
			testhelper.StringResponder(`{"error":true,"reason":"Latitude must be in range"}`, 400))
		code, err := endpoint.GetJSON(t.Context(), new(testType), nil)
		if !errors.Is(err, ErrUnexpectedStatus) {
			t.Fatalf("expected error to be %s, got %s", ErrUnexpectedStatus, err)
		}
		if code != 400 {
			t.Errorf("expected status code 400, got %d", code)
		}
		if !strings.Contains(err.Error(), "Latitude must be in range") {
			t.Errorf("expected error to contain the response body, got %s", err)
		}
	})
	t.Run("invalid JSON fails with a decode error", func(t *testing.T) {
		endpoint := testEndpoint(t, "https://example.com", testhelper.StringResponder(`{"int":"abc"`, 200))
		_, err := endpoint.GetJSON(t.Context(), new(testType), nil)
		if !errors.Is(err, ErrDecode) {
			t.Errorf("expected error to be %s, got %s", ErrDecode, err)
		}
	})
	t.Run("failing body read fails with a read error", func(t *testing.T) {
		endpoint := testEndpoint(t, "https://example.com", failingBodyResponder)
		_, err := endpoint.GetJSON(t.Context(), new(testType), nil)
		if !errors.Is(err, ErrReadBody) {
			t.Errorf("expected error to be %s, got %s", ErrReadBody, err)
		}
		if errors.Is(err, ErrDecode) {
			t.Error("did not expect a decode error")
		}
	})
	t.Run("cancelled request surfaces the cancellation", func(t *testing.T) {
		rtFn := func(req *stdhttp.Request) (*stdhttp.Response, error) {
			<-req.Context().Done()
			return nil, req.Context().Err()
		}
		endpoint := testEndpoint(t, "https://example.com", rtFn)
		ctx, cancel := context.WithCancel(t.Context())
		cancel()

		_, err := endpoint.GetJSON(ctx, new(testType), nil)
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected error to be %s, got %s", context.Canceled, err)
		}
		if errors.Is(err, ErrDecode) {
			t.Error("did not expect a decode error")
		}
	})
}

func TestEndpoint_GetText(t *testing.T) {
	t.Run("text body is returned", func(t *testing.T) {
		endpoint := testEndpoint(t, "https://example.com/ipgeo/", testhelper.StringResponder("Country: US", 200))
		text, code, err := endpoint.GetText(t.Context(), url.Values{"q": {"1.2.3.4"}})
		if err != nil {
			t.Fatalf("failed to get text response: %s", err)
		}
		if code != 200 {
			t.Errorf("expected status code 200, got %d", code)
		}
		if text != "Country: US" {
			t.Errorf("expected text to be %q, got %q", "Country: US", text)
		}
	})
	t.Run("failing body read fails with a read error", func(t *testing.T) {
		endpoint := testEndpoint(t, "https://example.com", failingBodyResponder)
		_, _, err := endpoint.GetText(t.Context(), nil)
		if !errors.Is(err, ErrReadBody) {
			t.Errorf("expected error to be %s, got %s", ErrReadBody, err)
		}
		if errors.Is(err, ErrDecode) {
			t.Error("did not expect a decode error")
		}
	})
	t.Run("endpoint times out", func(t *testing.T) {
		rtFn := func(req *stdhttp.Request) (*stdhttp.Response, error) {
			<-req.Context().Done()
			return nil, req.Context().Err()
		}
		client := New(logger.NewLogger(slog.LevelInfo, io.Discard))
		client.Transport = testhelper.MockRoundTripper{Fn: rtFn}
		endpoint, err := client.Endpoint("https://example.com", nil, time.Millisecond)
		if err != nil {
			t.Fatalf("failed to create endpoint: %s", err)
		}
		_, _, err = endpoint.GetText(t.Context(), nil)
		if !errors.Is(err, context.DeadlineExceeded) {
			t.Errorf("expected error to be %s, got %s", context.DeadlineExceeded, err)
		}
	})
}

func TestEndpoint_GetJSON_integration(t *testing.T) {
	testhelper.PerformIntegrationTests(t)
	client := New(logger.NewLogger(slog.LevelInfo, io.Discard))
	endpoint, err := client.Endpoint(testhelper.TestOnlineAPIURL, DefaultHeaders(), 0)
	if err != nil {
		t.Fatalf("failed to create endpoint: %s", err)
	}
	target := make(map[string]any)
	if _, err = endpoint.GetJSON(t.Context(), &target, nil); err != nil {
		t.Fatalf("failed to get JSON response: %s", err)
	}
}

func testEndpoint(t *testing.T, base string, fn func(req *stdhttp.Request) (*stdhttp.Response, error)) *Endpoint {
	t.Helper()
	client := New(logger.NewLogger(slog.LevelDebug, io.Discard))
	client.Transport = testhelper.MockRoundTripper{Fn: fn}
	endpoint, err := client.Endpoint(base, DefaultHeaders(), 0)
	if err != nil {
		t.Fatalf("failed to create endpoint: %s", err)
	}
	return endpoint
}

type failReadCloser struct{}

func (failReadCloser) Read([]byte) (int, error) { return 0, errors.New("connection reset by peer") }
func (failReadCloser) Close() error             { return errors.New("failed to close") }

func failingBodyResponder(req *stdhttp.Request) (*stdhttp.Response, error) {
	return &stdhttp.Response{
		StatusCode: 200,
		Body:       &failReadCloser{},
		Header:     make(stdhttp.Header),
		Request:    req,
	}, nil
}
