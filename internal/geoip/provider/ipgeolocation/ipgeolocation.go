// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package ipgeolocation

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
	APIEndpoint = "https://api.ipgeolocation.io/ipgeo"
	APITimeout  = time.Second * 10
	name        = "ipgeolocation"
)

type IPGeolocation struct {
	apikey   string
	endpoint *http.Endpoint
}

// Response is the full ipgeolocation.io API response
type Response struct {
	IP                  string   `json:"ip"`
	Hostname            string   `json:"hostname"`
	ContinentCode       string   `json:"continent_code"`
	ContinentName       string   `json:"continent_name"`
	CountryCode2        string   `json:"country_code2"`
	CountryCode3        string   `json:"country_code3"`
	CountryName         string   `json:"country_name"`
	CountryNameOfficial string   `json:"country_name_official"`
	CountryCapital      string   `json:"country_capital"`
	StateProv           string   `json:"state_prov"`
	StateCode           string   `json:"state_code"`
	District            string   `json:"district"`
	City                string   `json:"city"`
	Zipcode             string   `json:"zipcode"`
	Latitude            string   `json:"latitude"`
	Longitude           string   `json:"longitude"`
	IsEU                bool     `json:"is_eu"`
	CallingCode         string   `json:"calling_code"`
	CountryTLD          string   `json:"country_tld"`
	Languages           string   `json:"languages"`
	CountryFlag         string   `json:"country_flag"`
	GeonameID           string   `json:"geoname_id"`
	ISP                 string   `json:"isp"`
	ConnectionType      string   `json:"connection_type"`
	Organization        string   `json:"organization"`
	CountryEmoji        string   `json:"country_emoji"`
	Currency            Currency `json:"currency"`
	TimeZone            TimeZone `json:"time_zone"`
	Message             string   `json:"message,omitempty"`

	lat, lon vartype.VarFloat64
}

type Currency struct {
	Code   string `json:"code"`
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
}

type TimeZone struct {
	Name            string      `json:"name"`
	Offset          float64     `json:"offset"`
	OffsetWithDST   float64     `json:"offset_with_dst"`
	CurrentTime     string      `json:"current_time"`
	CurrentTimeUnix float64     `json:"current_time_unix"`
	IsDST           bool        `json:"is_dst"`
	DSTSavings      float64     `json:"dst_savings"`
	DSTExists       bool        `json:"dst_exists"`
	DSTStart        DSTBoundary `json:"dst_start"`
	DSTEnd          DSTBoundary `json:"dst_end"`
}

type DSTBoundary struct {
	UTCTime        string `json:"utc_time"`
	Duration       string `json:"duration"`
	Gap            bool   `json:"gap"`
	DateTimeAfter  string `json:"date_time_after"`
	DateTimeBefore string `json:"date_time_before"`
	Overlap        bool   `json:"overlap"`
}

func New(client *http.Client, opts provider.Options) (*IPGeolocation, error) {
	if client == nil {
		return nil, provider.ErrNoHTTPClient
	}
	if err := opts.RequireAPIKey(name); err != nil {
		return nil, err
	}
	endpoint, err := client.Endpoint(opts.Endpoint(APIEndpoint), http.DefaultHeaders(), APITimeout)
	if err != nil {
		return nil, fmt.Errorf("failed to create ipgeolocation.io API endpoint: %w", err)
	}

	return &IPGeolocation{apikey: opts.APIKey, endpoint: endpoint}, nil
}

func (p *IPGeolocation) Name() string {
	return name
}

// Lookup returns the full API response for the given IP address.
func (p *IPGeolocation) Lookup(ctx context.Context, address string) (*Response, error) {
	if err := geoip.ValidateAddress(address); err != nil {
		return nil, err
	}

	query := url.Values{}
	query.Set("ip", address)
	query.Set("apiKey", p.apikey)

	res := new(Response)
	if _, err := p.endpoint.GetJSON(ctx, res, query); err != nil {
		return nil, fmt.Errorf("failed to retrieve geolocation data from ipgeolocation.io API: %w", err)
	}
	if res.IP == "" && res.Message != "" {
		return nil, provider.UpstreamError(name, res.Message)
	}
	if err := res.parseCoordinates(); err != nil {
		return nil, fmt.Errorf("failed to retrieve geolocation data from ipgeolocation.io API: %w", err)
	}

	return res, nil
}

func (p *IPGeolocation) GetInfo(ctx context.Context, address string) (geoip.GeoInfo, error) {
	res, err := p.Lookup(ctx, address)
	if err != nil {
		return geoip.GeoInfo{}, err
	}
	return res.GeoInfo(), nil
}

// GeoInfo maps the response onto the canonical result.
func (r *Response) GeoInfo() geoip.GeoInfo {
	return geoip.GeoInfo{
		CountryName: r.CountryName,
		CountryCode: r.CountryCode2,
		Latitude:    r.lat,
		Longitude:   r.lon,
		Timezone:    r.TimeZone.Name,
		DisplayName: geoip.JoinDisplay(r.City, r.District, r.CountryName, r.ContinentName),
	}
}

// parseCoordinates converts the decimal strings the API sends for latitude and longitude.
// Empty values stay unset.
func (r *Response) parseCoordinates() error {
	lat, err := parseDecimal(r.Latitude)
	if err != nil {
		return fmt.Errorf("%w: latitude: %w", http.ErrDecode, err)
	}
	lon, err := parseDecimal(r.Longitude)
	if err != nil {
		return fmt.Errorf("%w: longitude: %w", http.ErrDecode, err)
	}
	if lat != nil {
		r.lat = geoip.Latitude(*lat)
	}
	if lon != nil {
		r.lon = geoip.Longitude(*lon)
	}
	return nil
}

func parseDecimal(val string) (*float64, error) {
	val = strings.TrimSpace(val)
	if val == "" {
		return nil, nil
	}
	num, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return nil, err
	}
	return &num, nil
}
