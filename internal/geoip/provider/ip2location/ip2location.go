// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package ip2location

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/wneessen/geoservices/internal/geoip"
	"github.com/wneessen/geoservices/internal/http"
	"github.com/wneessen/geoservices/internal/provider"
)

const (
	APIEndpoint = "https://api.ip2location.io/"
	APITimeout  = time.Second * 10
	name        = "ip2location"
)

type IP2Location struct {
	apikey   string
	endpoint *http.Endpoint
}

// Response is the full IP2Location.io API response
type Response struct {
	IP          string    `json:"ip"`
	CountryCode string    `json:"country_code"`
	CountryName string    `json:"country_name"`
	RegionName  string    `json:"region_name"`
	CityName    string    `json:"city_name"`
	Latitude    *float64  `json:"latitude"`
	Longitude   *float64  `json:"longitude"`
	ZipCode     string    `json:"zip_code"`
	TimeZone    string    `json:"time_zone"`
	ASN         string    `json:"asn"`
	AS          string    `json:"as"`
	IsProxy     bool      `json:"is_proxy"`
	Error       *APIError `json:"error,omitempty"`
}

type APIError struct {
	Code    int    `json:"error_code"`
	Message string `json:"error_message"`
}

func New(client *http.Client, opts provider.Options) (*IP2Location, error) {
	if client == nil {
		return nil, provider.ErrNoHTTPClient
	}
	if err := opts.RequireAPIKey(name); err != nil {
		return nil, err
	}
	endpoint, err := client.Endpoint(opts.Endpoint(APIEndpoint), http.DefaultHeaders(), APITimeout)
	if err != nil {
		return nil, fmt.Errorf("failed to create IP2Location API endpoint: %w", err)
	}

	return &IP2Location{apikey: opts.APIKey, endpoint: endpoint}, nil
}

func (p *IP2Location) Name() string {
	return name
}

// Lookup returns the full API response for the given IP address.
func (p *IP2Location) Lookup(ctx context.Context, address string) (*Response, error) {
	if err := geoip.ValidateAddress(address); err != nil {
		return nil, err
	}

	query := url.Values{}
	query.Set("ip", address)
	query.Set("key", p.apikey)

	res := new(Response)
	if _, err := p.endpoint.GetJSON(ctx, res, query); err != nil {
		return nil, fmt.Errorf("failed to retrieve geolocation data from IP2Location API: %w", err)
	}
	if res.Error != nil {
		return nil, provider.UpstreamError(name, res.Error.Message)
	}

	return res, nil
}

func (p *IP2Location) GetInfo(ctx context.Context, address string) (geoip.GeoInfo, error) {
	res, err := p.Lookup(ctx, address)
	if err != nil {
		return geoip.GeoInfo{}, err
	}
	return res.GeoInfo(), nil
}

// GeoInfo maps the response onto the canonical result.
func (r *Response) GeoInfo() geoip.GeoInfo {
	info := geoip.GeoInfo{
		CountryName: r.CountryName,
		CountryCode: r.CountryCode,
		Timezone:    r.TimeZone,
		DisplayName: geoip.JoinDisplay(r.CityName, r.RegionName, r.CountryName),
	}
	if r.Latitude != nil {
		info.Latitude = geoip.Latitude(*r.Latitude)
	}
	if r.Longitude != nil {
		info.Longitude = geoip.Longitude(*r.Longitude)
	}
	return info
}
