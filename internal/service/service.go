// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/go-co-op/gocron/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/wneessen/geoservices/internal/config"
	"github.com/wneessen/geoservices/internal/geoip"
	"github.com/wneessen/geoservices/internal/http"
	"github.com/wneessen/geoservices/internal/logger"
	"github.com/wneessen/geoservices/internal/weather"
)

const (
	tracerName   = "github.com/wneessen/geoservices/internal/service"
	watchJobName = "geoservices_lookup_job"
)

// Report is the result of a single lookup.
type Report struct {
	Address string
	Geo     geoip.GeoInfo
	Weather weather.Info
	// WeatherSet is false if the geolocation had no coordinates to fetch weather for
	WeatherSet bool
	At         time.Time
}

type Service struct {
	config      *config.Config
	logger      *logger.Logger
	client      *http.Client
	tracer      trace.Tracer
	signals     signalSource
	geoProv     geoip.Provider
	weatherProv weather.Provider
}

// New returns a Service with the geolocation and weather providers selected in conf.
func New(conf *config.Config, log *logger.Logger) (*Service, error) {
	if conf == nil {
		return nil, errors.New("config is required")
	}
	if log == nil {
		return nil, errors.New("logger is required")
	}

	client := http.New(log)
	geoProv, err := NewGeoIPProvider(conf.GeoIP.Provider, client, conf.GeoIPOptions())
	if err != nil {
		return nil, err
	}
	weatherProv, err := NewWeatherProvider(conf.Weather.Provider, client, conf.WeatherOptions())
	if err != nil {
		closeProvider(geoProv, log)
		return nil, err
	}
	log.Debug("providers selected", slog.String("geoip", geoProv.Name()),
		slog.String("weather", weatherProv.Name()))

	return &Service{
		config:      conf,
		logger:      log,
		client:      client,
		tracer:      otel.Tracer(tracerName),
		signals:     stdLibSignalSource{},
		geoProv:     geoProv,
		weatherProv: weatherProv,
	}, nil
}

// Lookup geolocates address and fetches the weather for its coordinates. If the geolocation has no
// coordinates, the report is returned without weather.
func (s *Service) Lookup(ctx context.Context, address string) (Report, error) {
	ctx, span := s.tracer.Start(ctx, "lookup", trace.WithAttributes(
		attribute.String("geoip.provider", s.geoProv.Name()),
		attribute.String("weather.provider", s.weatherProv.Name()),
	))
	defer span.End()

	report := Report{Address: address, At: time.Now()}
	geo, err := s.geoProv.GetInfo(ctx, address)
	if err != nil {
		recordError(span, err)
		return report, fmt.Errorf("failed to geolocate %s: %w", address, err)
	}
	report.Geo = geo
	s.logger.Debug("address geolocated", slog.String("address", address),
		slog.String("location", geo.Display()), slog.String("source", s.geoProv.Name()))

	info, ok, err := s.fetchWeather(ctx, geo)
	if err != nil {
		recordError(span, err)
		return report, err
	}
	report.Weather, report.WeatherSet = info, ok

	return report, nil
}

// Run performs a lookup for address and hands the report to fn. With a positive interval, lookups
// are repeated in that interval until ctx is cancelled. Lookups never overlap and, on unix, a
// SIGUSR1 triggers an immediate lookup. Failed repeated lookups are logged and skipped.
func (s *Service) Run(ctx context.Context, address string, interval time.Duration, fn func(Report)) error {
	if interval <= 0 {
		report, err := s.Lookup(ctx, address)
		if err != nil {
			return err
		}
		fn(report)
		return nil
	}

	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return fmt.Errorf("failed to create scheduler: %w", err)
	}
	task := func(ctx context.Context) {
		report, err := s.Lookup(ctx, address)
		if err != nil {
			s.logger.Error("lookup failed", logger.Err(err), slog.String("address", address))
			return
		}
		fn(report)
	}
	job, err := scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(task),
		gocron.WithContext(ctx),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithStartAt(gocron.WithStartImmediately()),
		gocron.WithName(watchJobName),
	)
	if err != nil {
		if shutdownErr := scheduler.Shutdown(); shutdownErr != nil {
			s.logger.Error("failed to shut down scheduler", logger.Err(shutdownErr))
		}
		return fmt.Errorf("failed to create %s: %w", watchJobName, err)
	}
	scheduler.Start()
	s.logger.Debug("watch mode started", slog.String("address", address),
		slog.Duration("interval", interval))

	sigChan := make(chan os.Signal, 1)
	// Notify without any signal relays every incoming signal
	if len(refreshSignals) > 0 {
		s.signals.Notify(sigChan, refreshSignals...)
		defer s.signals.Stop(sigChan)
	}
	s.handleRefreshSignal(ctx, sigChan, job)

	if err = scheduler.Shutdown(); err != nil {
		return fmt.Errorf("failed to shut down scheduler: %w", err)
	}
	return nil
}

// Close releases providers that hold resources, like a local database.
func (s *Service) Close() error {
	var errs []error
	for _, prov := range []any{s.geoProv, s.weatherProv} {
		if closer, ok := prov.(io.Closer); ok {
			if err := closer.Close(); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

func closeProvider(prov any, log *logger.Logger) {
	if closer, ok := prov.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			log.Error("failed to close provider", logger.Err(err))
		}
	}
}
