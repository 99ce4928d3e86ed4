// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

//go:build linux

// Package main implements the geoservices command, which geolocates an IP address and prints the
// weather at its location.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/wneessen/geoservices/internal/config"
	"github.com/wneessen/geoservices/internal/i18n"
	"github.com/wneessen/geoservices/internal/logger"
	"github.com/wneessen/geoservices/internal/presenter"
	"github.com/wneessen/geoservices/internal/service"
	"github.com/wneessen/geoservices/internal/template"
	"github.com/wneessen/geoservices/internal/tracing"
)

const shutdownTimeout = time.Second * 5

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGABRT, os.Interrupt)
	defer cancel()

	// Initialize Logger
	log := logger.NewLogger(slog.LevelError)

	confPath := flag.String("config", "", "path to the config file")
	address := flag.String("ip", "", "IP address to look up")
	watch := flag.Duration("watch", 0, "repeat the lookup in the given interval")
	flag.Parse()
	if *address == "" {
		*address = flag.Arg(0)
	}

	if err := config.LoadDotEnv(".env"); err != nil {
		log.Error("failed to load dotenv file", logger.Err(err))
		return 1
	}

	conf, err := loadConfig(*confPath)
	if err != nil {
		log.Error("failed to load config", logger.Err(err))
		return 1
	}
	if *watch != 0 {
		conf.Intervals.Watch = *watch
		if err = conf.Validate(); err != nil {
			log.Error("invalid watch interval", logger.Err(err))
			return 1
		}
	}

	log = logger.NewLogger(conf.LogLevel)
	shutdownTracing, err := tracing.Setup(conf.Tracing.ZipkinURL, conf.Tracing.ServiceName, log)
	if err != nil {
		log.Error("failed to initialize tracing", logger.Err(err))
		return 1
	}
	defer func() {
		ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancelShutdown()
		if err := shutdownTracing(ctxShutdown); err != nil {
			log.Error("failed to shut down tracing", logger.Err(err))
		}
	}()

	tpls, err := template.New(conf)
	if err != nil {
		log.Error("failed to initialize templates", logger.Err(err))
		return 1
	}
	pres := presenter.New(i18n.Tag(conf.Locale))

	serv, err := service.New(conf, log)
	if err != nil {
		log.Error("failed to initialize geoservices service", logger.Err(err))
		return 1
	}
	defer func() {
		if err := serv.Close(); err != nil {
			log.Error("failed to close service", logger.Err(err))
		}
	}()

	log.Debug("starting geoservices", slog.String("version", version),
		slog.String("commit", commit), slog.String("date", date))
	err = serv.Run(ctx, *address, conf.Intervals.Watch, func(report service.Report) {
		out, err := tpls.Render(pres.BuildContext(report))
		if err != nil {
			log.Error("failed to render output", logger.Err(err))
			return
		}
		fmt.Println(out)
	})
	if err != nil {
		log.Error("lookup failed", logger.Err(err), slog.String("address", *address))
		return 1
	}
	return 0
}

// loadConfig reads the config file at confPath. Without a path, the default location is tried
// before falling back to defaults and environment.
func loadConfig(confPath string) (*config.Config, error) {
	if confPath != "" {
		return config.NewFromFile(filepath.Dir(confPath), filepath.Base(confPath))
	}
	if path, file := findConfigFile(); path != "" && file != "" {
		return config.NewFromFile(path, file)
	}
	return config.New()
}

func findConfigFile() (string, string) {
	homedir, err := os.UserHomeDir()
	if err != nil {
		return "", ""
	}
	exts := []string{"toml", "yaml", "yml", "json"}
	for _, ext := range exts {
		path := filepath.Join(homedir, ".config", "geoservices", "config."+ext)
		if _, err = os.Stat(path); err == nil {
			return filepath.Dir(path), filepath.Base(path)
		}
	}
	return "", ""
}
