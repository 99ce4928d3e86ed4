// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package weather defines the canonical weather result and the capability interface that every
// weather adapter implements.
package weather

import (
	"context"
	"errors"
	"fmt"

	"github.com/wneessen/geoservices/internal/provider"
	"github.com/wneessen/geoservices/internal/vartype"
)

// Unit is the temperature unit of a weather result.
type Unit string

const (
	UnitCelsius    Unit = "°C"
	UnitFahrenheit Unit = "°F"
)

var ErrInvalidCoordinates = errors.New("coordinates are out of range")

// Provider is implemented by each weather API backend.
type Provider interface {
	Name() string
	GetWeather(ctx context.Context, lat, lon float64) (Info, error)
}

// Info is the canonical weather result for a pair of coordinates.
type Info struct {
	Latitude    vartype.VarFloat64
	Longitude   vartype.VarFloat64
	Temperature vartype.VarFloat64
	// Unit is the unit that was requested from the API
	Unit      Unit
	Condition string
}

// String satisfies the fmt.Stringer interface.
func (i Info) String() string {
	temp := i.Temperature.String()
	if i.Temperature.IsSet() {
		temp = fmt.Sprintf("%.1f%s", i.Temperature.Value(), i.Unit)
	}
	if i.Condition == "" {
		return temp
	}
	return temp + ", " + i.Condition
}

// UnitFor returns the temperature unit adapters request for the given options.
func UnitFor(opts provider.Options) Unit {
	if opts.Imperial() {
		return UnitFahrenheit
	}
	return UnitCelsius
}

// ValidateCoordinates checks that lat and lon are in range. The returned error wraps
// provider.ErrInvalidArgument.
func ValidateCoordinates(lat, lon float64) error {
	// NaN fails both comparisons, so the bounds are checked inclusively
	if !(lat >= -90 && lat <= 90) || !(lon >= -180 && lon <= 180) {
		return provider.InvalidArgument(fmt.Errorf("%w: %f/%f", ErrInvalidCoordinates, lat, lon))
	}
	return nil
}

// WMOCondition returns the description for a WMO weather interpretation code, or an empty string
// for unknown codes.
func WMOCondition(code int) string {
	return wmoConditions[code]
}

var wmoConditions = map[int]string{
	0:  "Clear sky",
	1:  "Mainly clear",
	2:  "Partly cloudy",
	3:  "Overcast",
	45: "Fog",
	48: "Depositing rime fog",
	51: "Light drizzle",
	53: "Moderate drizzle",
	55: "Dense drizzle",
	56: "Light freezing drizzle",
	57: "Dense freezing drizzle",
	61: "Slight rain",
	63: "Moderate rain",
	65: "Heavy rain",
	66: "Light freezing rain",
	67: "Heavy freezing rain",
	71: "Slight snow fall",
	73: "Moderate snow fall",
	75: "Heavy snow fall",
	77: "Snow grains",
	80: "Slight rain showers",
	81: "Moderate rain showers",
	82: "Violent rain showers",
	85: "Slight snow showers",
	86: "Heavy snow showers",
	95: "Thunderstorm",
	96: "Thunderstorm with slight hail",
	99: "Thunderstorm with heavy hail",
}
