// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package ipapico

import (
	"context"
	"fmt"
	"time"

	"github.com/wneessen/geoservices/internal/geoip"
	"github.com/wneessen/geoservices/internal/http"
	"github.com/wneessen/geoservices/internal/provider"
)

const (
	APIEndpoint = "https://ipapi.co/"
	APITimeout  = time.Second * 10
	name        = "ipapi-co"
)

type IPAPICo struct {
	endpoint *http.Endpoint
}

// Response is the full ipapi.co API response
type Response struct {
	IP                 string   `json:"ip"`
	Network            string   `json:"network"`
	Version            string   `json:"version"`
	City               string   `json:"city"`
	Region             string   `json:"region"`
	RegionCode         string   `json:"region_code"`
	Country            string   `json:"country"`
	CountryName        string   `json:"country_name"`
	CountryCode        string   `json:"country_code"`
	CountryCodeISO3    string   `json:"country_code_iso3"`
	CountryCapital     string   `json:"country_capital"`
	CountryTLD         string   `json:"country_tld"`
	ContinentCode      string   `json:"continent_code"`
	InEU               bool     `json:"in_eu"`
	Postal             string   `json:"postal"`
	Latitude           *float64 `json:"latitude"`
	Longitude          *float64 `json:"longitude"`
	Timezone           string   `json:"timezone"`
	UTCOffset          string   `json:"utc_offset"`
	CountryCallingCode string   `json:"country_calling_code"`
	Currency           string   `json:"currency"`
	CurrencyName       string   `json:"currency_name"`
	Languages          string   `json:"languages"`
	CountryArea        float64  `json:"country_area"`
	CountryPopulation  int64    `json:"country_population"`
	ASN                string   `json:"asn"`
	Org                string   `json:"org"`
	Error              bool     `json:"error,omitempty"`
	Reason             string   `json:"reason,omitempty"`
	Reserved           bool     `json:"reserved,omitempty"`
}

func New(client *http.Client, opts provider.Options) (*IPAPICo, error) {
	if client == nil {
		return nil, provider.ErrNoHTTPClient
	}
	endpoint, err := client.Endpoint(opts.Endpoint(APIEndpoint), http.DefaultHeaders(), APITimeout)
	if err != nil {
		return nil, fmt.Errorf("failed to create ipapi.co API endpoint: %w", err)
	}

	return &IPAPICo{endpoint: endpoint}, nil
}

func (p *IPAPICo) Name() string {
	return name
}

// Lookup returns the full API response for the given IP address.
func (p *IPAPICo) Lookup(ctx context.Context, address string) (*Response, error) {
	if err := geoip.ValidateAddress(address); err != nil {
		return nil, err
	}

	res := new(Response)
	if _, err := p.endpoint.GetJSON(ctx, res, nil, address, "json"); err != nil {
		return nil, fmt.Errorf("failed to retrieve geolocation data from ipapi.co API: %w", err)
	}
	if res.Error {
		return nil, provider.UpstreamError(name, res.Reason)
	}

	return res, nil
}

func (p *IPAPICo) GetInfo(ctx context.Context, address string) (geoip.GeoInfo, error) {
	res, err := p.Lookup(ctx, address)
	if err != nil {
		return geoip.GeoInfo{}, err
	}
	return res.GeoInfo(), nil
}

// GeoInfo maps the response onto the canonical result. Some responses only carry the country
// code in the country field, so it serves as a fallback for the country name.
func (r *Response) GeoInfo() geoip.GeoInfo {
	country := r.CountryName
	if country == "" {
		country = r.Country
	}
	info := geoip.GeoInfo{
		CountryName: country,
		CountryCode: r.CountryCode,
		Timezone:    r.Timezone,
		DisplayName: geoip.JoinDisplay(r.City, r.Region, country),
	}
	if r.Latitude != nil {
		info.Latitude = geoip.Latitude(*r.Latitude)
	}
	if r.Longitude != nil {
		info.Longitude = geoip.Longitude(*r.Longitude)
	}
	return info
}
