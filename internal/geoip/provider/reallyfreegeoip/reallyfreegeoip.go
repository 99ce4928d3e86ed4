// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package reallyfreegeoip

import (
	"context"
	"fmt"
	"time"

	"github.com/wneessen/geoservices/internal/geoip"
	"github.com/wneessen/geoservices/internal/http"
	"github.com/wneessen/geoservices/internal/provider"
)

const (
	APIEndpoint = "https://reallyfreegeoip.org/json/"
	APITimeout  = time.Second * 5
	name        = "reallyfreegeoip"
)

type ReallyFreeGeoIP struct {
	endpoint *http.Endpoint
}

// Response is the freegeoip compatible API response
type Response struct {
	IP          string   `json:"ip"`
	CountryCode string   `json:"country_code"`
	Country     string   `json:"country_name"`
	RegionCode  string   `json:"region_code,omitempty"`
	Region      string   `json:"region_name,omitempty"`
	City        string   `json:"city,omitempty"`
	ZipCode     string   `json:"zip_code,omitempty"`
	TimeZone    string   `json:"time_zone"`
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`
	MetroCode   int      `json:"metro_code"`
}

func New(client *http.Client, opts provider.Options) (*ReallyFreeGeoIP, error) {
	if client == nil {
		return nil, provider.ErrNoHTTPClient
	}
	endpoint, err := client.Endpoint(opts.Endpoint(APIEndpoint), http.DefaultHeaders(), APITimeout)
	if err != nil {
		return nil, fmt.Errorf("failed to create reallyfreegeoip.org API endpoint: %w", err)
	}

	return &ReallyFreeGeoIP{endpoint: endpoint}, nil
}

func (p *ReallyFreeGeoIP) Name() string {
	return name
}

// Lookup returns the full API response for the given IP address. The API reports unknown
// addresses with a non-2xx status only.
func (p *ReallyFreeGeoIP) Lookup(ctx context.Context, address string) (*Response, error) {
	if err := geoip.ValidateAddress(address); err != nil {
		return nil, err
	}

	res := new(Response)
	if _, err := p.endpoint.GetJSON(ctx, res, nil, address); err != nil {
		return nil, fmt.Errorf("failed to retrieve geolocation data from reallyfreegeoip.org API: %w", err)
	}

	return res, nil
}

func (p *ReallyFreeGeoIP) GetInfo(ctx context.Context, address string) (geoip.GeoInfo, error) {
	res, err := p.Lookup(ctx, address)
	if err != nil {
		return geoip.GeoInfo{}, err
	}
	return res.GeoInfo(), nil
}

// GeoInfo maps the response onto the canonical result.
func (r *Response) GeoInfo() geoip.GeoInfo {
	info := geoip.GeoInfo{
		CountryName: r.Country,
		CountryCode: r.CountryCode,
		Timezone:    r.TimeZone,
		DisplayName: geoip.JoinDisplay(r.City, r.Region, r.Country),
	}
	if r.Latitude != nil {
		info.Latitude = geoip.Latitude(*r.Latitude)
	}
	if r.Longitude != nil {
		info.Longitude = geoip.Longitude(*r.Longitude)
	}
	return info
}
