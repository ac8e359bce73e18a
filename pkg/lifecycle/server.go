/*
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/carverauto/netinfo/pkg/logger"
)

const defaultShutdownTimeout = 10 * time.Second

// Service is a component with a blocking Start and a Stop that makes
// Start return.
type Service interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}

type ServerOptions struct {
	ServiceName     string
	Service         Service
	Logger          logger.Logger
	ShutdownTimeout time.Duration

	// Signals defaults to SIGINT and SIGTERM.
	Signals []os.Signal
}

// RunServer starts the service and stops it on the first signal, on ctx
// cancellation, or when Start returns on its own.
func RunServer(ctx context.Context, opts *ServerOptions) error {
	log := opts.Logger
	if log == nil {
		log = logger.GetLogger()
	}

	timeout := opts.ShutdownTimeout
	if timeout <= 0 {
		timeout = defaultShutdownTimeout
	}

	signals := opts.Signals
	if len(signals) == 0 {
		signals = []os.Signal{syscall.SIGINT, syscall.SIGTERM}
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, signals...)

	defer signal.Stop(sigCh)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	errCh := make(chan error, 1)

	go func() { errCh <- opts.Service.Start(runCtx) }()

	log.Info().Str("service", opts.ServiceName).Msg("Service started")

	select {
	case err := <-errCh:
		stopCtx, stopCancel := context.WithTimeout(context.Background(), timeout)
		defer stopCancel()

		stopService(stopCtx, opts, log)

		if err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("%s failed: %w", opts.ServiceName, err)
		}

		return nil
	case sig := <-sigCh:
		log.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
	case <-ctx.Done():
		log.Info().Msg("Context cancelled, shutting down")
	}

	stopCtx, stopCancel := context.WithTimeout(context.Background(), timeout)
	defer stopCancel()

	stopService(stopCtx, opts, log)
	cancel()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("%s failed: %w", opts.ServiceName, err)
		}
	case <-stopCtx.Done():
		log.Warn().Str("service", opts.ServiceName).Msg("Service did not stop before timeout")
	}

	log.Info().Str("service", opts.ServiceName).Msg("Service stopped")

	return nil
}

func stopService(ctx context.Context, opts *ServerOptions, log logger.Logger) {
	if err := opts.Service.Stop(ctx); err != nil {
		log.Error().Err(err).Str("service", opts.ServiceName).Msg("Error stopping service")
	}
}
