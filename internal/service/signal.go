// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"os"
	"os/signal"

	"github.com/go-co-op/gocron/v2"

	"github.com/wneessen/geoservices/internal/logger"
)

type signalSource interface {
	Notify(c chan<- os.Signal, sig ...os.Signal)
	Stop(c chan<- os.Signal)
}

// stdLibSignalSource is the production implementation.
type stdLibSignalSource struct{}

func (stdLibSignalSource) Notify(c chan<- os.Signal, sig ...os.Signal) {
	signal.Notify(c, sig...)
}

func (stdLibSignalSource) Stop(c chan<- os.Signal) {
	signal.Stop(c)
}

// handleRefreshSignal runs the job immediately whenever a signal is received. It returns when ctx
// is cancelled.
func (s *Service) handleRefreshSignal(ctx context.Context, sigChan chan os.Signal, job gocron.Job) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-sigChan:
			s.logger.Debug("refresh signal received, running lookup")
			if err := job.RunNow(); err != nil {
				s.logger.Error("failed to run lookup", logger.Err(err))
			}
		}
	}
}
