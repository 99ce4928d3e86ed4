// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package ipapi

import (
	"context"
	"fmt"
	"time"

	"github.com/wneessen/geoservices/internal/geoip"
	"github.com/wneessen/geoservices/internal/http"
	"github.com/wneessen/geoservices/internal/provider"
)

const (
	// APIEndpoint is the free ip-api.com endpoint, which is only served via plain HTTP
	APIEndpoint = "http://ip-api.com/json/"
	APITimeout  = time.Second * 10
	name        = "ip-api"

	statusFail = "fail"
)

type IPAPI struct {
	endpoint *http.Endpoint
}

// Response is the full ip-api.com API response
type Response struct {
	Status      string   `json:"status"`
	Message     string   `json:"message,omitempty"`
	Country     string   `json:"country"`
	CountryCode string   `json:"countryCode"`
	Region      string   `json:"region"`
	RegionName  string   `json:"regionName"`
	City        string   `json:"city"`
	Zip         string   `json:"zip"`
	Lat         *float64 `json:"lat"`
	Lon         *float64 `json:"lon"`
	Timezone    string   `json:"timezone"`
	ISP         string   `json:"isp"`
	Org         string   `json:"org"`
	AS          string   `json:"as"`
	Query       string   `json:"query"`
}

func New(client *http.Client, opts provider.Options) (*IPAPI, error) {
	if client == nil {
		return nil, provider.ErrNoHTTPClient
	}
	endpoint, err := client.Endpoint(opts.Endpoint(APIEndpoint), http.DefaultHeaders(), APITimeout)
	if err != nil {
		return nil, fmt.Errorf("failed to create ip-api.com API endpoint: %w", err)
	}

	return &IPAPI{endpoint: endpoint}, nil
}

func (p *IPAPI) Name() string {
	return name
}

// Lookup returns the full API response for the given IP address.
func (p *IPAPI) Lookup(ctx context.Context, address string) (*Response, error) {
	if err := geoip.ValidateAddress(address); err != nil {
		return nil, err
	}

	res := new(Response)
	if _, err := p.endpoint.GetJSON(ctx, res, nil, address); err != nil {
		return nil, fmt.Errorf("failed to retrieve geolocation data from ip-api.com API: %w", err)
	}
	if res.Status == statusFail {
		return nil, provider.UpstreamError(name, res.Message)
	}

	return res, nil
}

func (p *IPAPI) GetInfo(ctx context.Context, address string) (geoip.GeoInfo, error) {
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
		Timezone:    r.Timezone,
		DisplayName: geoip.JoinDisplay(r.City, r.RegionName, r.Country),
	}
	if r.Lat != nil {
		info.Latitude = geoip.Latitude(*r.Lat)
	}
	if r.Lon != nil {
		info.Longitude = geoip.Longitude(*r.Lon)
	}
	return info
}
