// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package open_meteo

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
	APIEndpoint = "https://api.open-meteo.com/v1/forecast"
	APITimeout  = time.Second * 10
	name        = "open-meteo"
)

var (
	currentFields = []string{
		"temperature_2m", "relative_humidity_2m", "apparent_temperature", "is_day", "precipitation",
		"rain", "showers", "snowfall", "weather_code", "cloud_cover", "pressure_msl", "surface_pressure",
		"wind_speed_10m", "wind_direction_10m", "wind_gusts_10m",
	}
	dailyFields = []string{"weather_code", "temperature_2m_max", "temperature_2m_min"}

	// timeLayouts are the ISO 8601 layouts the API uses for instants and days
	timeLayouts = []string{"2006-01-02T15:04", "2006-01-02"}
)

type OpenMeteo struct {
	tempUnit string
	unit     weather.Unit
	endpoint *http.Endpoint
}

type resTime struct {
	time.Time
}

type resBool struct {
	bool
}

// Response is the full Open-Meteo forecast API response
type Response struct {
	Latitude             *float64          `json:"latitude"`
	Longitude            *float64          `json:"longitude"`
	GenerationTimeMs     float64           `json:"generationtime_ms"`
	UTCOffsetSeconds     int               `json:"utc_offset_seconds"`
	Timezone             string            `json:"timezone"`
	TimezoneAbbreviation string            `json:"timezone_abbreviation"`
	Elevation            float64           `json:"elevation"`
	CurrentUnits         map[string]string `json:"current_units"`
	Current              *Current          `json:"current,omitempty"`
	HourlyUnits          map[string]string `json:"hourly_units"`
	Hourly               *Hourly           `json:"hourly,omitempty"`
	DailyUnits           map[string]string `json:"daily_units"`
	Daily                *Daily            `json:"daily,omitempty"`
	Error                bool              `json:"error,omitempty"`
	Reason               string            `json:"reason,omitempty"`

	unit weather.Unit
}

type Current struct {
	Time                resTime  `json:"time"`
	Interval            int      `json:"interval"`
	Temperature         *float64 `json:"temperature_2m"`
	RelativeHumidity    float64  `json:"relative_humidity_2m"`
	ApparentTemperature float64  `json:"apparent_temperature"`
	IsDay               resBool  `json:"is_day"`
	Precipitation       float64  `json:"precipitation"`
	Rain                float64  `json:"rain"`
	Showers             float64  `json:"showers"`
	Snowfall            float64  `json:"snowfall"`
	WeatherCode         *int     `json:"weather_code"`
	CloudCover          float64  `json:"cloud_cover"`
	PressureMSL         float64  `json:"pressure_msl"`
	SurfacePressure     float64  `json:"surface_pressure"`
	WindSpeed           float64  `json:"wind_speed_10m"`
	WindDirection       float64  `json:"wind_direction_10m"`
	WindGusts           float64  `json:"wind_gusts_10m"`
}

type Hourly struct {
	Time        []resTime `json:"time"`
	Temperature []float64 `json:"temperature_2m"`
	WeatherCode []int     `json:"weather_code"`
}

type Daily struct {
	Time           []resTime `json:"time"`
	WeatherCode    []int     `json:"weather_code"`
	TemperatureMax []float64 `json:"temperature_2m_max"`
	TemperatureMin []float64 `json:"temperature_2m_min"`
}

func New(client *http.Client, opts provider.Options) (*OpenMeteo, error) {
	if client == nil {
		return nil, provider.ErrNoHTTPClient
	}
	endpoint, err := client.Endpoint(opts.Endpoint(APIEndpoint), http.DefaultHeaders(), APITimeout)
	if err != nil {
		return nil, fmt.Errorf("failed to create Open-Meteo API endpoint: %w", err)
	}

	tempUnit := "celsius"
	if opts.Imperial() {
		tempUnit = "fahrenheit"
	}
	return &OpenMeteo{tempUnit: tempUnit, unit: weather.UnitFor(opts), endpoint: endpoint}, nil
}

func (o *OpenMeteo) Name() string {
	return name
}

// Lookup returns the full API response for the given coordinates.
func (o *OpenMeteo) Lookup(ctx context.Context, lat, lon float64) (*Response, error) {
	if err := weather.ValidateCoordinates(lat, lon); err != nil {
		return nil, err
	}

	query := url.Values{}
	query.Set("latitude", strconv.FormatFloat(lat, 'f', -1, 64))
	query.Set("longitude", strconv.FormatFloat(lon, 'f', -1, 64))
	query.Set("current", strings.Join(currentFields, ","))
	query.Set("daily", strings.Join(dailyFields, ","))
	query.Set("temperature_unit", o.tempUnit)
	query.Set("timezone", "auto")

	res := &Response{unit: o.unit}
	if _, err := o.endpoint.GetJSON(ctx, res, query); err != nil {
		return nil, fmt.Errorf("failed to retrieve weather data from Open-Meteo API: %w", err)
	}
	if res.Error {
		return nil, provider.UpstreamError(name, res.Reason)
	}

	return res, nil
}

func (o *OpenMeteo) GetWeather(ctx context.Context, lat, lon float64) (weather.Info, error) {
	res, err := o.Lookup(ctx, lat, lon)
	if err != nil {
		return weather.Info{}, err
	}
	return res.Info(), nil
}

// Info maps the response onto the canonical result.
func (r *Response) Info() weather.Info {
	info := weather.Info{
		Latitude:  vartype.FromPtr(r.Latitude),
		Longitude: vartype.FromPtr(r.Longitude),
		Unit:      r.unit,
	}
	if r.Current != nil {
		info.Temperature = vartype.FromPtr(r.Current.Temperature)
		if r.Current.WeatherCode != nil {
			info.Condition = weather.WMOCondition(*r.Current.WeatherCode)
		}
	}
	return info
}

func (r *resTime) UnmarshalJSON(b []byte) error {
	if len(b) < 2 || b[0] != '"' || b[len(b)-1] != '"' {
		return fmt.Errorf("invalid time format: %s", string(b))
	}
	val := string(b[1 : len(b)-1])

	var err error
	for _, layout := range timeLayouts {
		var apiTime time.Time
		if apiTime, err = time.Parse(layout, val); err == nil {
			r.Time = apiTime
			return nil
		}
	}
	return fmt.Errorf("failed to parse time: %w", err)
}

func (r *resBool) UnmarshalJSON(b []byte) error {
	if len(b) == 0 {
		return fmt.Errorf("empty bool")
	}
	r.bool = b[0] == '1' || string(b) == "true"
	return nil
}
