// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package openweathermap

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/wneessen/geoservices/internal/http"
	"github.com/wneessen/geoservices/internal/provider"
	"github.com/wneessen/geoservices/internal/vartype"
	"github.com/wneessen/geoservices/internal/weather"
)

const (
	APIEndpoint = "https://api.openweathermap.org/data/2.5/weather"
	APITimeout  = time.Second * 10
	name        = "openweathermap"

	codeOK = 200
)

type OpenWeatherMap struct {
	apikey   string
	units    string
	unit     weather.Unit
	endpoint *http.Endpoint
}

// Response is the full OpenWeatherMap current weather API response
type Response struct {
	Coord      *Coord             `json:"coord,omitempty"`
	Weather    []Condition        `json:"weather"`
	Base       string             `json:"base"`
	Main       *Main              `json:"main,omitempty"`
	Visibility int                `json:"visibility"`
	Wind       *Wind              `json:"wind,omitempty"`
	Rain       map[string]float64 `json:"rain,omitempty"`
	Snow       map[string]float64 `json:"snow,omitempty"`
	Clouds     *Clouds            `json:"clouds,omitempty"`
	DT         int64              `json:"dt"`
	Sys        *Sys               `json:"sys,omitempty"`
	Timezone   int                `json:"timezone"`
	ID         int64              `json:"id"`
	Name       string             `json:"name"`
	Cod        Code               `json:"cod"`
	Message    string             `json:"message,omitempty"`

	unit weather.Unit
}

type Coord struct {
	Lon float64 `json:"lon"`
	Lat float64 `json:"lat"`
}

type Condition struct {
	ID          int    `json:"id"`
	Main        string `json:"main"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

type Main struct {
	Temp      *float64 `json:"temp"`
	FeelsLike float64  `json:"feels_like"`
	TempMin   float64  `json:"temp_min"`
	TempMax   float64  `json:"temp_max"`
	Pressure  int      `json:"pressure"`
	Humidity  int      `json:"humidity"`
	SeaLevel  int      `json:"sea_level"`
	GrndLevel int      `json:"grnd_level"`
}

type Wind struct {
	Speed float64 `json:"speed"`
	Deg   int     `json:"deg"`
	Gust  float64 `json:"gust"`
}

type Clouds struct {
	All int `json:"all"`
}

type Sys struct {
	Type    int    `json:"type"`
	ID      int64  `json:"id"`
	Country string `json:"country"`
	Sunrise int64  `json:"sunrise"`
	Sunset  int64  `json:"sunset"`
}

// Code is the status code of a response. The API sends it as a number on success and as a
// string for errors.
type Code int

func (c *Code) UnmarshalJSON(b []byte) error {
	val := strings.Trim(string(b), `"`)
	if val == "" || val == "null" {
		return nil
	}
	code, err := strconv.Atoi(val)
	if err != nil {
		return fmt.Errorf("invalid response code %s: %w", string(b), err)
	}
	*c = Code(code)
	return nil
}

func New(client *http.Client, opts provider.Options) (*OpenWeatherMap, error) {
	if client == nil {
		return nil, provider.ErrNoHTTPClient
	}
	if err := opts.RequireAPIKey(name); err != nil {
		return nil, err
	}
	endpoint, err := client.Endpoint(opts.Endpoint(APIEndpoint), http.DefaultHeaders(), APITimeout)
	if err != nil {
		return nil, fmt.Errorf("failed to create OpenWeatherMap API endpoint: %w", err)
	}

	units := provider.UnitsMetric
	if opts.Imperial() {
		units = provider.UnitsImperial
	}
	return &OpenWeatherMap{
		apikey:   opts.APIKey,
		units:    units,
		unit:     weather.UnitFor(opts),
		endpoint: endpoint,
	}, nil
}

func (o *OpenWeatherMap) Name() string {
	return name
}

// Lookup returns the full API response for the given coordinates.
func (o *OpenWeatherMap) Lookup(ctx context.Context, lat, lon float64) (*Response, error) {
	if err := weather.ValidateCoordinates(lat, lon); err != nil {
		return nil, err
	}

	query := url.Values{}
	query.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	query.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))
	query.Set("appid", o.apikey)
	query.Set("units", o.units)

	res := &Response{unit: o.unit}
	if _, err := o.endpoint.GetJSON(ctx, res, query); err != nil {
		return nil, fmt.Errorf("failed to retrieve weather data from OpenWeatherMap API: %w", err)
	}
	if res.Cod != 0 && res.Cod != codeOK {
		return nil, provider.UpstreamError(name, fmt.Sprintf("%d: %s", res.Cod, res.Message))
	}

	return res, nil
}

func (o *OpenWeatherMap) GetWeather(ctx context.Context, lat, lon float64) (weather.Info, error) {
	res, err := o.Lookup(ctx, lat, lon)
	if err != nil {
		return weather.Info{}, err
	}
	return res.Info(), nil
}

// Info maps the response onto the canonical result.
func (r *Response) Info() weather.Info {
	info := weather.Info{Unit: r.unit}
	if r.Coord != nil {
		info.Latitude = vartype.NewVariable(r.Coord.Lat)
		info.Longitude = vartype.NewVariable(r.Coord.Lon)
	}
	if r.Main != nil {
		info.Temperature = vartype.FromPtr(r.Main.Temp)
	}
	if len(r.Weather) > 0 {
		info.Condition = r.Weather[0].Description
	}
	return info
}
