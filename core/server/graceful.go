/*
SPDX-License-Identifier: Apache-2.0

Copyright 2024 The Taxinomia Authors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    https://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package server

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/tabula/core/logger"
)

// ShutdownHook runs after a termination signal and before the HTTP server
// shuts down. Errors are logged; shutdown continues regardless.
type ShutdownHook func(ctx context.Context) error

// TimeoutConfig holds server and shutdown timeouts.
type TimeoutConfig struct {
	ReadHeader time.Duration
	Read       time.Duration
	Write      time.Duration
	Idle       time.Duration
	Shutdown   time.Duration
	Hook       time.Duration
}

// DefaultTimeouts are used for zero fields of a TimeoutConfig.
var DefaultTimeouts = TimeoutConfig{
	ReadHeader: 5 * time.Second,
	Read:       15 * time.Second,
	Write:      30 * time.Second,
	Idle:       60 * time.Second,
	Shutdown:   15 * time.Second,
	Hook:       5 * time.Second,
}

func (c TimeoutConfig) withDefaults() TimeoutConfig {
	pick := func(v, def time.Duration) time.Duration {
		if v <= 0 {
			return def
		}
		return v
	}
	return TimeoutConfig{
		ReadHeader: pick(c.ReadHeader, DefaultTimeouts.ReadHeader),
		Read:       pick(c.Read, DefaultTimeouts.Read),
		Write:      pick(c.Write, DefaultTimeouts.Write),
		Idle:       pick(c.Idle, DefaultTimeouts.Idle),
		Shutdown:   pick(c.Shutdown, DefaultTimeouts.Shutdown),
		Hook:       pick(c.Hook, DefaultTimeouts.Hook),
	}
}

// NewHTTPServer creates an *http.Server for addr with the timeouts of cfg.
func NewHTTPServer(addr string, handler http.Handler, cfg TimeoutConfig) *http.Server {
	cfg = cfg.withDefaults()
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: cfg.ReadHeader,
		ReadTimeout:       cfg.Read,
		WriteTimeout:      cfg.Write,
		IdleTimeout:       cfg.Idle,
	}
}

// RunServerWithShutdown serves until ctx is cancelled or SIGINT/SIGTERM is
// received, then runs hooks in order and shuts the server down within
// cfg.Shutdown. It returns the listen error if the server could not start.
//
// Typical usage in main:
//
//	srv := server.NewHTTPServer(":8080", mux, timeouts)
//	err := server.RunServerWithShutdown(ctx, srv, "tabula", timeouts)
func RunServerWithShutdown(ctx context.Context, server *http.Server, name string, cfg TimeoutConfig, hooks ...ShutdownHook) error {
	cfg = cfg.withDefaults()
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	listenErr := make(chan error, 1)
	go func() {
		logger.Log.Infof("starting %s on %s", name, server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			listenErr <- err
		}
		close(listenErr)
	}()

	select {
	case err, ok := <-listenErr:
		if ok {
			logger.Log.WithError(err).Errorf("%s listen error", name)
			return err
		}
		return nil
	case <-ctx.Done():
	}
	logger.Log.Infof("shutdown signal received for %s", name)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Shutdown)
	defer cancel()

	for i, h := range hooks {
		if h == nil {
			continue
		}
		hCtx, hCancel := context.WithTimeout(shutdownCtx, cfg.Hook)
		if err := h(hCtx); err != nil {
			logger.Log.WithError(err).Warnf("shutdown hook %d failed", i)
		}
		if errors.Is(hCtx.Err(), context.DeadlineExceeded) {
			logger.Log.Warnf("shutdown hook %d timed out", i)
		}
		hCancel()
	}

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Log.WithError(err).Error("graceful shutdown failed")
		return err
	}
	logger.Log.Infof("%s shutdown complete", name)
	return nil
}
