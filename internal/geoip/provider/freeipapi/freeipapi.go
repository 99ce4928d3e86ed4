// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package freeipapi

import (
	"context"
	"fmt"
	"time"

	"github.com/wneessen/geoservices/internal/geoip"
	"github.com/wneessen/geoservices/internal/http"
	"github.com/wneessen/geoservices/internal/provider"
)

const (
	APIEndpoint = "https://freeipapi.com/api/json/"
	APITimeout  = time.Second * 10
	name        = "freeipapi"
)

type FreeIPAPI struct {
	endpoint *http.Endpoint
}

// Response is the full freeipapi.com API response
type Response struct {
	IPVersion     int      `json:"ipVersion"`
	IPAddress     string   `json:"ipAddress"`
	Latitude      *float64 `json:"latitude"`
	Longitude     *float64 `json:"longitude"`
	CountryName   string   `json:"countryName"`
	CountryCode   string   `json:"countryCode"`
	TimeZone      string   `json:"timeZone"`
	ZipCode       string   `json:"zipCode"`
	CityName      string   `json:"cityName"`
	RegionName    string   `json:"regionName"`
	IsProxy       bool     `json:"isProxy"`
	Continent     string   `json:"continent"`
	ContinentCode string   `json:"continentCode"`
	Currency      Currency `json:"currency"`
	Language      string   `json:"language"`
	TimeZones     []string `json:"timeZones"`
	TLDs          []string `json:"tlds"`
	Error         string   `json:"error,omitempty"`
	Message       string   `json:"message,omitempty"`
}

type Currency struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

func New(client *http.Client, opts provider.Options) (*FreeIPAPI, error) {
	if client == nil {
		return nil, provider.ErrNoHTTPClient
	}
	endpoint, err := client.Endpoint(opts.Endpoint(APIEndpoint), http.DefaultHeaders(), APITimeout)
	if err != nil {
		return nil, fmt.Errorf("failed to create freeipapi.com API endpoint: %w", err)
	}

	return &FreeIPAPI{endpoint: endpoint}, nil
}

func (p *FreeIPAPI) Name() string {
	return name
}

// Lookup returns the full API response for the given IP address.
func (p *FreeIPAPI) Lookup(ctx context.Context, address string) (*Response, error) {
	if err := geoip.ValidateAddress(address); err != nil {
		return nil, err
	}

	res := new(Response)
	if _, err := p.endpoint.GetJSON(ctx, res, nil, address); err != nil {
		return nil, fmt.Errorf("failed to retrieve geolocation data from freeipapi.com API: %w", err)
	}
	if res.IPAddress == "" && (res.Error != "" || res.Message != "") {
		message := res.Error
		if message == "" {
			message = res.Message
		}
		return nil, provider.UpstreamError(name, message)
	}

	return res, nil
}

func (p *FreeIPAPI) GetInfo(ctx context.Context, address string) (geoip.GeoInfo, error) {
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
		DisplayName: geoip.JoinDisplay(r.CityName, r.RegionName, r.CountryName, r.Continent),
	}
	if r.Latitude != nil {
		info.Latitude = geoip.Latitude(*r.Latitude)
	}
	if r.Longitude != nil {
		info.Longitude = geoip.Longitude(*r.Longitude)
	}
	return info
}
