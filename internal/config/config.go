// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kkyr/fig"

	"github.com/wneessen/geoservices/internal/i18n"
	"github.com/wneessen/geoservices/internal/provider"
)

const (
	configEnv = "GEOSERVICES"

	// MinWatchInterval is the shortest interval between two lookups in watch mode
	MinWatchInterval = time.Minute

	DefaultTextTpl = "{{.Display}}{{if .HasWeather}}: {{floatFormat .Temperature 1}}{{.Unit}}" +
		"{{if .Condition}}, {{.Condition}}{{end}}{{end}}"
)

// Config represents the application's configuration structure.
type Config struct {
	// Allowed values: metric, imperial
	Units    string     `fig:"units" default:"metric"`
	Locale   string     `fig:"locale"`
	LogLevel slog.Level `fig:"loglevel" default:"0"`

	GeoIP struct {
		Provider string `fig:"provider" default:"ip-api"`
		APIKey   string `fig:"apikey"`
		BaseURL  string `fig:"base_url"`
		Database string `fig:"database"`
	} `fig:"geoip"`

	Weather struct {
		Provider string `fig:"provider" default:"open-meteo"`
		APIKey   string `fig:"apikey"`
		BaseURL  string `fig:"base_url"`
	} `fig:"weather"`

	Intervals struct {
		// Zero performs a single lookup
		Watch time.Duration `fig:"watch" default:"0s"`
	} `fig:"intervals"`

	Tracing struct {
		ZipkinURL   string `fig:"zipkin_url"`
		ServiceName string `fig:"service_name" default:"geoservices"`
	} `fig:"tracing"`

	Templates struct {
		Text string `fig:"text"`
	} `fig:"templates"`
}

func NewFromFile(path, file string) (*Config, error) {
	conf := new(Config)
	_, err := os.Stat(filepath.Join(path, file))
	if err != nil {
		return conf, fmt.Errorf("failed to read Config: %w", err)
	}
	if err = fig.Load(conf, fig.Dirs(path), fig.File(file), fig.UseEnv(configEnv)); err != nil {
		return conf, fmt.Errorf("failed to load Config: %w", err)
	}

	return conf, conf.Validate()
}

func New() (*Config, error) {
	conf := new(Config)
	if err := fig.Load(conf, fig.AllowNoFile(), fig.UseEnv(configEnv)); err != nil {
		return conf, fmt.Errorf("failed to load Config: %w", err)
	}

	return conf, conf.Validate()
}

// LoadDotEnv loads environment variables from a dotenv file. Variables that are already set take
// precedence. A missing file is not an error.
func LoadDotEnv(file string) error {
	err := godotenv.Load(file)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load dotenv file %q: %w", file, err)
	}
	return nil
}

func (c *Config) Validate() error {
	c.Units = strings.ToLower(c.Units)
	if c.Units != provider.UnitsMetric && c.Units != provider.UnitsImperial {
		return fmt.Errorf("invalid units: %s", c.Units)
	}
	if c.Intervals.Watch < 0 || (c.Intervals.Watch > 0 && c.Intervals.Watch < MinWatchInterval) {
		return fmt.Errorf("invalid watch interval: %s, must be 0 or at least %s", c.Intervals.Watch,
			MinWatchInterval)
	}
	if strings.TrimSpace(c.GeoIP.Provider) == "" {
		return errors.New("no geolocation provider configured")
	}
	if strings.TrimSpace(c.Weather.Provider) == "" {
		return errors.New("no weather provider configured")
	}
	if c.Locale == "" {
		c.Locale = i18n.Tag("").String()
	}
	if c.Templates.Text == "" {
		c.Templates.Text = DefaultTextTpl
	}

	return nil
}

// GeoIPOptions returns the options for the configured geolocation provider.
func (c *Config) GeoIPOptions() provider.Options {
	return provider.Options{
		APIKey:   c.GeoIP.APIKey,
		BaseURL:  c.GeoIP.BaseURL,
		Units:    c.Units,
		Database: c.GeoIP.Database,
	}
}

// WeatherOptions returns the options for the configured weather provider.
func (c *Config) WeatherOptions() provider.Options {
	return provider.Options{
		APIKey:  c.Weather.APIKey,
		BaseURL: c.Weather.BaseURL,
		Units:   c.Units,
	}
}
