// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package http

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"reflect"
	"runtime"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/wneessen/geoservices/internal/logger"
)

const (
	// DefaultTimeout is the default timeout value for the HTTPClient
	DefaultTimeout = time.Second * 10

	// CacheControlPolicy is the downstream cache hint sent with every API request
	CacheControlPolicy = "public, max-age=3600"

	// MIMETypeJSON is the media type for JSON content
	MIMETypeJSON = "application/json"

	tracerName = "github.com/wneessen/geoservices/internal/http"

	// errorBodyLimit caps how much of a non-2xx response body ends up in the error message
	errorBodyLimit = 256
)

var (
	// version is the version of the application (will be set at build time)
	version = "dev"
	// UserAgent is the User-Agent that the HTTP client sends with API requests
	UserAgent = fmt.Sprintf("Mozilla/5.0 (%s; %s) geoservices/%s (+https://github.com/wneessen/geoservices/)",
		runtime.GOOS,
		runtime.GOARCH,
		version,
	)

	ErrNonPointerTarget = errors.New("target must be a non-nil pointer")

	// ErrDecode is returned when an API response body cannot be deserialized into the expected shape
	ErrDecode = errors.New("failed to decode API response")

	// ErrUnexpectedStatus is returned when an API responds with a non-2xx status code
	ErrUnexpectedStatus = errors.New("unexpected HTTP status code")

	// ErrReadBody is returned when the connection fails while the response body is read
	ErrReadBody = errors.New("failed to read API response body")

	json = jsoniter.ConfigCompatibleWithStandardLibrary
)

// Client is a type wrapper for the Go stdlib http.Client. A Client is safe for concurrent use
// by all endpoints created from it.
type Client struct {
	*http.Client
	logger *logger.Logger
	tracer trace.Tracer
}

// New returns a new HTTP client
func New(logger *logger.Logger) *Client {
	tlsConfig := &tls.Config{
		MinVersion: tls.VersionTLS12,
	}
	httpTransport := &http.Transport{TLSClientConfig: tlsConfig, Proxy: http.ProxyFromEnvironment}
	httpClient := &http.Client{
		Timeout:   DefaultTimeout,
		Transport: httpTransport,
	}
	return &Client{httpClient, logger, otel.Tracer(tracerName)}
}

// DefaultHeaders returns the headers every API endpoint is configured with.
func DefaultHeaders() map[string]string {
	return map[string]string{
		"Accept":        MIMETypeJSON,
		"Cache-Control": CacheControlPolicy,
	}
}

// Endpoint is an immutable view on a Client for a single API base URL. Base URL, headers and
// timeout are fixed at creation, so an Endpoint can be shared by concurrent calls.
type Endpoint struct {
	client  *Client
	base    url.URL
	headers http.Header
	timeout time.Duration
}

// Endpoint returns a new Endpoint for the given base URL and headers. A timeout of zero
// selects DefaultTimeout.
func (h *Client) Endpoint(baseURL string, headers map[string]string, timeout time.Duration) (*Endpoint, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse URL: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("unsupported URL scheme for base URL %q", baseURL)
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	header := make(http.Header, len(headers)+1)
	header.Set("User-Agent", UserAgent)
	for k, v := range headers {
		header.Set(k, v)
	}

	return &Endpoint{
		client:  h,
		base:    *base,
		headers: header,
		timeout: timeout,
	}, nil
}

// BaseURL returns the base URL of the endpoint.
func (e *Endpoint) BaseURL() string {
	return e.base.String()
}

// Header returns the value of the given default header of the endpoint.
func (e *Endpoint) Header(key string) string {
	return e.headers.Get(key)
}

// GetJSON performs a HTTP GET request for the endpoint, extended by the given path elements and
// query, and JSON-unmarshals the response into target
func (e *Endpoint) GetJSON(ctx context.Context, target any, query url.Values, path ...string) (int, error) {
	rv := reflect.ValueOf(target)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return 0, ErrNonPointerTarget
	}

	return e.get(ctx, query, path, func(body io.Reader) error {
		if err := json.NewDecoder(body).Decode(target); err != nil {
			return fmt.Errorf("%w: %w", ErrDecode, err)
		}
		return nil
	})
}

// GetText performs a HTTP GET request for the endpoint, extended by the given path elements and
// query, and returns the response body as string
func (e *Endpoint) GetText(ctx context.Context, query url.Values, path ...string) (string, int, error) {
	var text string
	code, err := e.get(ctx, query, path, func(body io.Reader) error {
		data, err := io.ReadAll(body)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrReadBody, err)
		}
		text = string(data)
		return nil
	})
	return text, code, err
}

func (e *Endpoint) get(ctx context.Context, query url.Values, path []string, read func(io.Reader) error) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	// Prepare URL and query parameters
	reqURL := e.base.JoinPath(path...)
	values := reqURL.Query()
	for k, v := range query {
		values[k] = v
	}
	reqURL.RawQuery = values.Encode()

	// The query is not recorded, since most APIs expect their key in it
	ctx, span := e.client.tracer.Start(ctx, "GET "+reqURL.Host,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", http.MethodGet),
			attribute.String("server.address", reqURL.Host),
			attribute.String("url.path", reqURL.Path),
		),
	)
	defer span.End()

	// Prepare HTTP request
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return 0, fmt.Errorf("failed create new HTTP request with context: %w", err)
	}
	for k, v := range e.headers {
		request.Header[k] = append([]string(nil), v...)
	}

	// Execute HTTP request
	e.client.logger.Debug("performing API request", slog.String("host", reqURL.Host),
		slog.String("path", reqURL.Path))
	response, err := e.client.Do(request)
	if err != nil {
		recordError(span, err)
		return 0, err
	}
	if response == nil {
		return 0, errors.New("nil response received")
	}
	defer func(body io.ReadCloser) {
		if err := body.Close(); err != nil {
			e.client.logger.Error("failed to close HTTP request body", logger.Err(err))
		}
	}(response.Body)
	span.SetAttributes(attribute.Int("http.response.status_code", response.StatusCode))

	if response.StatusCode < http.StatusOK || response.StatusCode >= http.StatusMultipleChoices {
		snippet, _ := io.ReadAll(io.LimitReader(response.Body, errorBodyLimit))
		err = fmt.Errorf("%w: %d", ErrUnexpectedStatus, response.StatusCode)
		if msg := strings.TrimSpace(string(snippet)); msg != "" {
			err = fmt.Errorf("%w: %d: %s", ErrUnexpectedStatus, response.StatusCode, msg)
		}
		recordError(span, err)
		return response.StatusCode, err
	}

	body := &bodyReader{reader: response.Body}
	if err = read(body); err != nil {
		// A body read that was interrupted by cancellation is not a decoding problem
		if ctxErr := ctx.Err(); ctxErr != nil {
			recordError(span, ctxErr)
			return response.StatusCode, ctxErr
		}
		// A failed body read takes precedence over the decode error it causes
		if body.err != nil && !errors.Is(err, ErrReadBody) {
			err = fmt.Errorf("%w: %w", ErrReadBody, body.err)
		}
		recordError(span, err)
		return response.StatusCode, err
	}

	return response.StatusCode, nil
}

// bodyReader records the first read error of the response body other than io.EOF.
type bodyReader struct {
	reader io.Reader
	err    error
}

func (b *bodyReader) Read(p []byte) (int, error) {
	n, err := b.reader.Read(p)
	if err != nil && !errors.Is(err, io.EOF) && b.err == nil {
		b.err = err
	}
	return n, err
}

func recordError(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
