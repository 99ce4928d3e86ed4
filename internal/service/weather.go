// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/wneessen/geoservices/internal/geoip"
	"github.com/wneessen/geoservices/internal/weather"
)

const FetchTimeout = time.Second * 10

// fetchWeather fetches the weather for the coordinates of geo. ok is false if geo has no
// coordinates.
func (s *Service) fetchWeather(ctx context.Context, geo geoip.GeoInfo) (info weather.Info, ok bool, err error) {
	lat, lon, hasCoords := geo.Coordinates()
	if !hasCoords {
		s.logger.Debug("geolocation has no coordinates, skipping weather lookup",
			slog.String("location", geo.Display()))
		return info, false, nil
	}

	ctxFetch, cancelFetch := context.WithTimeout(ctx, FetchTimeout)
	defer cancelFetch()

	info, err = s.weatherProv.GetWeather(ctxFetch, lat, lon)
	if err != nil {
		return info, false, fmt.Errorf("failed to get weather for %s: %w", geo.Display(), err)
	}
	s.logger.Debug("weather data fetched", slog.Float64("lat", lat), slog.Float64("lon", lon),
		slog.String("temperature", info.Temperature.String()), slog.String("source", s.weatherProv.Name()))

	return info, true, nil
}

func recordError(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
