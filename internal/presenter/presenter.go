// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package presenter

import (
	"strings"
	"time"

	"github.com/nathan-osman/go-sunrise"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"

	"github.com/wneessen/geoservices/internal/service"
)

// Context is the data handed to the output templates.
type Context struct {
	Address     string
	Display     string
	Country     string
	CountryCode string
	Timezone    string

	Latitude       float64
	Longitude      float64
	HasCoordinates bool

	// HasWeather is only true if a temperature was delivered
	HasWeather  bool
	Temperature float64
	// TemperatureText is the formatted temperature, or a placeholder if none was delivered
	TemperatureText string
	Unit            string
	Condition       string

	UpdateTime  time.Time
	SunriseTime time.Time
	SunsetTime  time.Time
}

type Presenter struct {
	regions display.Namer
}

// New returns a Presenter that localizes country names into lang.
func New(lang language.Tag) *Presenter {
	return &Presenter{regions: display.Regions(lang)}
}

func (p *Presenter) BuildContext(report service.Report) Context {
	ctx := Context{
		Address:         report.Address,
		Display:         report.Geo.Display(),
		Country:         p.country(report.Geo.CountryCode, report.Geo.CountryName),
		CountryCode:     report.Geo.CountryCode,
		Timezone:        report.Geo.Timezone,
		TemperatureText: report.Weather.Temperature.String(),
		Unit:            string(report.Weather.Unit),
		Condition:       report.Weather.Condition,
		UpdateTime:      report.At,
	}

	if lat, lon, ok := report.Geo.Coordinates(); ok {
		ctx.Latitude, ctx.Longitude, ctx.HasCoordinates = lat, lon, true
		day := report.At.UTC()
		ctx.SunriseTime, ctx.SunsetTime = sunrise.SunriseSunset(lat, lon, day.Year(), day.Month(), day.Day())
	}
	if temp, ok := report.Weather.Temperature.Get(); ok && report.WeatherSet {
		ctx.HasWeather, ctx.Temperature = true, temp
	}

	return ctx
}

// country returns the localized name of the ISO 3166-1 country code. Unknown codes fall back
// to the name the provider delivered.
func (p *Presenter) country(code, fallback string) string {
	code = strings.TrimSpace(code)
	if code == "" {
		return fallback
	}
	region, err := language.ParseRegion(code)
	if err != nil {
		return fallback
	}
	if name := p.regions.Name(region); name != "" {
		return name
	}
	return fallback
}
