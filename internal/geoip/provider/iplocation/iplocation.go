// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package iplocation

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
	APIEndpoint = "https://api.iplocation.net/"
	APITimeout  = time.Second * 10
	name        = "iplocation"

	responseCodeOK = "200"
)

type IPLocation struct {
	endpoint *http.Endpoint
}

// Response is the full iplocation.net API response
type Response struct {
	IP              string `json:"ip"`
	IPNumber        string `json:"ip_number"`
	IPVersion       int    `json:"ip_version"`
	CountryName     string `json:"country_name"`
	CountryCode2    string `json:"country_code2"`
	ISP             string `json:"isp"`
	ResponseCode    string `json:"response_code"`
	ResponseMessage string `json:"response_message"`
}

func New(client *http.Client, opts provider.Options) (*IPLocation, error) {
	if client == nil {
		return nil, provider.ErrNoHTTPClient
	}
	endpoint, err := client.Endpoint(opts.Endpoint(APIEndpoint), http.DefaultHeaders(), APITimeout)
	if err != nil {
		return nil, fmt.Errorf("failed to create iplocation.net API endpoint: %w", err)
	}

	return &IPLocation{endpoint: endpoint}, nil
}

func (p *IPLocation) Name() string {
	return name
}

// Lookup returns the full API response for the given IP address.
func (p *IPLocation) Lookup(ctx context.Context, address string) (*Response, error) {
	if err := geoip.ValidateAddress(address); err != nil {
		return nil, err
	}

	query := url.Values{}
	query.Set("ip", address)

	res := new(Response)
	if _, err := p.endpoint.GetJSON(ctx, res, query); err != nil {
		return nil, fmt.Errorf("failed to retrieve geolocation data from iplocation.net API: %w", err)
	}
	if res.ResponseCode != "" && res.ResponseCode != responseCodeOK {
		return nil, provider.UpstreamError(name, res.ResponseMessage)
	}

	return res, nil
}

func (p *IPLocation) GetInfo(ctx context.Context, address string) (geoip.GeoInfo, error) {
	res, err := p.Lookup(ctx, address)
	if err != nil {
		return geoip.GeoInfo{}, err
	}
	return res.GeoInfo(), nil
}

// GeoInfo maps the response onto the canonical result. The API does not provide coordinates.
func (r *Response) GeoInfo() geoip.GeoInfo {
	return geoip.GeoInfo{
		CountryName: r.CountryName,
		CountryCode: r.CountryCode2,
	}
}
