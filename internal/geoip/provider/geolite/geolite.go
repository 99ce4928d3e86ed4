// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package geolite looks up IP addresses in a local MaxMind GeoLite2 or GeoIP2 City database.
package geolite

import (
	"context"
	"fmt"
	"net"
	"strings"

	"github.com/oschwald/geoip2-golang"

	"github.com/wneessen/geoservices/internal/geoip"
	"github.com/wneessen/geoservices/internal/http"
	"github.com/wneessen/geoservices/internal/provider"
)

const (
	name = "geolite"

	// nameLocale is the locale used from the localized names of the database records
	nameLocale = "en"
)

type cityReader interface {
	City(ip net.IP) (*geoip2.City, error)
	Close() error
}

type GeoLite struct {
	reader cityReader
}

// New opens the database configured in opts. The HTTP client is not used, it is accepted so that
// the adapter can be constructed like the online ones.
func New(_ *http.Client, opts provider.Options) (*GeoLite, error) {
	path := strings.TrimSpace(opts.Database)
	if path == "" {
		return nil, fmt.Errorf("%s: %w", name, provider.ErrMissingDatabase)
	}
	reader, err := geoip2.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open GeoLite database %q: %w", path, err)
	}
	return &GeoLite{reader: reader}, nil
}

func (p *GeoLite) Name() string {
	return name
}

// Close releases the database.
func (p *GeoLite) Close() error {
	return p.reader.Close()
}

// Lookup returns the database record for the given IP address.
func (p *GeoLite) Lookup(ctx context.Context, address string) (*geoip2.City, error) {
	if err := geoip.ValidateAddress(address); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	record, err := p.reader.City(net.ParseIP(address))
	if err != nil {
		return nil, fmt.Errorf("failed to look up %s in GeoLite database: %w", address, err)
	}
	return record, nil
}

func (p *GeoLite) GetInfo(ctx context.Context, address string) (geoip.GeoInfo, error) {
	record, err := p.Lookup(ctx, address)
	if err != nil {
		return geoip.GeoInfo{}, err
	}
	return GeoInfo(record), nil
}

// GeoInfo maps a database record onto the canonical result. Addresses the database does not
// know yield an empty record, whose zero coordinates are not reported.
func GeoInfo(record *geoip2.City) geoip.GeoInfo {
	if record == nil {
		return geoip.GeoInfo{}
	}
	var subdivision string
	if len(record.Subdivisions) > 0 {
		subdivision = record.Subdivisions[0].Names[nameLocale]
	}
	country := record.Country.Names[nameLocale]

	info := geoip.GeoInfo{
		CountryName: country,
		CountryCode: record.Country.IsoCode,
		Timezone:    record.Location.TimeZone,
		DisplayName: geoip.JoinDisplay(record.City.Names[nameLocale], subdivision, country,
			record.Continent.Names[nameLocale]),
	}
	loc := record.Location
	if loc.AccuracyRadius != 0 || loc.Latitude != 0 || loc.Longitude != 0 {
		info.Latitude = geoip.Latitude(loc.Latitude)
		info.Longitude = geoip.Longitude(loc.Longitude)
	}
	return info
}
