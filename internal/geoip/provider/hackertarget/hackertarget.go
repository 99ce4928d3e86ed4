// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package hackertarget

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/wneessen/geoservices/internal/geoip"
	"github.com/wneessen/geoservices/internal/http"
	"github.com/wneessen/geoservices/internal/provider"
	"github.com/wneessen/geoservices/internal/vartype"
)

const (
	APIEndpoint = "https://api.hackertarget.com/ipgeo/"
	APITimeout  = time.Second * 10
	name        = "hackertarget"

	// responseLines is the number of "Label: value" lines of a successful response
	responseLines = 6
)

// upstreamErrorPrefixes are the beginnings of plain-text error responses
var upstreamErrorPrefixes = []string{"error", "API count exceeded"}

type HackerTarget struct {
	endpoint *http.Endpoint
}

// Response is the parsed plain-text response of the HackerTarget IP geolocation API.
type Response struct {
	IP        string
	Country   string
	State     string
	City      string
	Latitude  vartype.VarFloat64
	Longitude vartype.VarFloat64
}

func New(client *http.Client, opts provider.Options) (*HackerTarget, error) {
	if client == nil {
		return nil, provider.ErrNoHTTPClient
	}
	headers := http.DefaultHeaders()
	headers["Accept"] = "text/plain"
	endpoint, err := client.Endpoint(opts.Endpoint(APIEndpoint), headers, APITimeout)
	if err != nil {
		return nil, fmt.Errorf("failed to create HackerTarget API endpoint: %w", err)
	}

	return &HackerTarget{endpoint: endpoint}, nil
}

func (p *HackerTarget) Name() string {
	return name
}

// Lookup returns the parsed API response for the given IP address.
func (p *HackerTarget) Lookup(ctx context.Context, address string) (*Response, error) {
	if err := geoip.ValidateAddress(address); err != nil {
		return nil, err
	}

	query := url.Values{}
	query.Set("q", address)

	body, _, err := p.endpoint.GetText(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve geolocation data from HackerTarget API: %w", err)
	}
	for _, prefix := range upstreamErrorPrefixes {
		if strings.HasPrefix(strings.TrimSpace(body), prefix) {
			return nil, provider.UpstreamError(name, body)
		}
	}

	res, err := Parse(body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HackerTarget API response: %w", err)
	}
	return res, nil
}

func (p *HackerTarget) GetInfo(ctx context.Context, address string) (geoip.GeoInfo, error) {
	res, err := p.Lookup(ctx, address)
	if err != nil {
		return geoip.GeoInfo{}, err
	}
	return res.GeoInfo(), nil
}

// Parse parses the plain-text API response. The values are taken by position: IP address,
// country, state, city, latitude and longitude. An empty body results in an empty Response.
func Parse(body string) (*Response, error) {
	res := new(Response)
	body = strings.TrimRight(body, "\r\n\t ")
	if body == "" {
		return res, nil
	}

	lines := strings.Split(body, "\n")
	if len(lines) < responseLines {
		return nil, fmt.Errorf("%w: expected %d lines, got %d", http.ErrDecode, responseLines, len(lines))
	}
	values := make([]string, responseLines)
	for i := range values {
		line := strings.TrimSuffix(lines[i], "\r")
		// Only split on the first colon, IPv6 addresses contain more
		_, value, found := strings.Cut(line, ":")
		if !found {
			return nil, fmt.Errorf("%w: malformed line %d: %q", http.ErrDecode, i+1, line)
		}
		values[i] = strings.TrimSpace(value)
	}

	res.IP, res.Country, res.State, res.City = values[0], values[1], values[2], values[3]
	if values[4] != "" {
		lat, err := strconv.ParseFloat(values[4], 64)
		if err != nil {
			return nil, fmt.Errorf("%w: latitude: %w", http.ErrDecode, err)
		}
		res.Latitude = geoip.Latitude(lat)
	}
	if values[5] != "" {
		lon, err := strconv.ParseFloat(values[5], 64)
		if err != nil {
			return nil, fmt.Errorf("%w: longitude: %w", http.ErrDecode, err)
		}
		res.Longitude = geoip.Longitude(lon)
	}

	return res, nil
}

// GeoInfo maps the response onto the canonical result. The API does not provide a country code.
func (r *Response) GeoInfo() geoip.GeoInfo {
	return geoip.GeoInfo{
		CountryName: r.Country,
		Latitude:    r.Latitude,
		Longitude:   r.Longitude,
	}
}
