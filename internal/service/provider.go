// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package service

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/wneessen/geoservices/internal/geoip"
	"github.com/wneessen/geoservices/internal/geoip/provider/freeipapi"
	"github.com/wneessen/geoservices/internal/geoip/provider/geolite"
	"github.com/wneessen/geoservices/internal/geoip/provider/hackertarget"
	"github.com/wneessen/geoservices/internal/geoip/provider/ip2location"
	"github.com/wneessen/geoservices/internal/geoip/provider/ipapi"
	"github.com/wneessen/geoservices/internal/geoip/provider/ipapico"
	"github.com/wneessen/geoservices/internal/geoip/provider/ipgeolocation"
	"github.com/wneessen/geoservices/internal/geoip/provider/iplocation"
	"github.com/wneessen/geoservices/internal/geoip/provider/reallyfreegeoip"
	"github.com/wneessen/geoservices/internal/http"
	"github.com/wneessen/geoservices/internal/provider"
	"github.com/wneessen/geoservices/internal/weather"
	openmeteo "github.com/wneessen/geoservices/internal/weather/provider/open-meteo"
	"github.com/wneessen/geoservices/internal/weather/provider/openweathermap"
)

// ErrUnknownProvider is returned when no provider is registered under the requested name.
var ErrUnknownProvider = errors.New("unknown provider")

// GeoIPFactory constructs a geolocation provider.
type GeoIPFactory func(client *http.Client, opts provider.Options) (geoip.Provider, error)

// WeatherFactory constructs a weather provider.
type WeatherFactory func(client *http.Client, opts provider.Options) (weather.Provider, error)

var geoIPFactories = map[string]GeoIPFactory{
	"ip2location":     geoIPFactory(ip2location.New),
	"ipgeolocation":   geoIPFactory(ipgeolocation.New),
	"iplocation":      geoIPFactory(iplocation.New),
	"hackertarget":    geoIPFactory(hackertarget.New),
	"ip-api":          geoIPFactory(ipapi.New),
	"ipapi-co":        geoIPFactory(ipapico.New),
	"freeipapi":       geoIPFactory(freeipapi.New),
	"geolite":         geoIPFactory(geolite.New),
	"reallyfreegeoip": geoIPFactory(reallyfreegeoip.New),
}

var weatherFactories = map[string]WeatherFactory{
	"openweathermap": weatherFactory(openweathermap.New),
	"open-meteo":     weatherFactory(openmeteo.New),
}

// NewGeoIPProvider returns the geolocation provider registered under name.
func NewGeoIPProvider(name string, client *http.Client, opts provider.Options) (geoip.Provider, error) {
	factory, ok := geoIPFactories[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("%w: geolocation provider %q, supported: %s", ErrUnknownProvider, name,
			strings.Join(GeoIPProviders(), ", "))
	}
	prov, err := factory(client, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to create geolocation provider %q: %w", name, err)
	}
	return prov, nil
}

// NewWeatherProvider returns the weather provider registered under name.
func NewWeatherProvider(name string, client *http.Client, opts provider.Options) (weather.Provider, error) {
	factory, ok := weatherFactories[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("%w: weather provider %q, supported: %s", ErrUnknownProvider, name,
			strings.Join(WeatherProviders(), ", "))
	}
	prov, err := factory(client, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to create weather provider %q: %w", name, err)
	}
	return prov, nil
}

// GeoIPProviders returns the sorted names of all geolocation providers.
func GeoIPProviders() []string {
	return slices.Sorted(maps.Keys(geoIPFactories))
}

// WeatherProviders returns the sorted names of all weather providers.
func WeatherProviders() []string {
	return slices.Sorted(maps.Keys(weatherFactories))
}

// geoIPFactory turns an adapter constructor into a GeoIPFactory. A failed construction yields a
// nil interface instead of one holding a nil pointer.
func geoIPFactory[P geoip.Provider](fn func(*http.Client, provider.Options) (P, error)) GeoIPFactory {
	return func(client *http.Client, opts provider.Options) (geoip.Provider, error) {
		prov, err := fn(client, opts)
		if err != nil {
			return nil, err
		}
		return prov, nil
	}
}

func weatherFactory[P weather.Provider](fn func(*http.Client, provider.Options) (P, error)) WeatherFactory {
	return func(client *http.Client, opts provider.Options) (weather.Provider, error) {
		prov, err := fn(client, opts)
		if err != nil {
			return nil, err
		}
		return prov, nil
	}
}
