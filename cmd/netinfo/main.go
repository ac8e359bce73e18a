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

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/carverauto/netinfo/pkg/agent"
	"github.com/carverauto/netinfo/pkg/config"
	"github.com/carverauto/netinfo/pkg/lifecycle"
	"github.com/carverauto/netinfo/pkg/logger"
	"github.com/carverauto/netinfo/pkg/metrics"
	"github.com/carverauto/netinfo/pkg/tui"
	"github.com/carverauto/netinfo/pkg/version"
)

const (
	serviceName     = "netinfo"
	factBuffer      = 64
	shutdownTimeout = 10 * time.Second
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	configPath := flag.String("config", "/etc/netinfo/netinfo.yaml", "Path to netinfo config file (YAML or JSON)")
	tuiMode := flag.Bool("tui", false, "Show a live fact table instead of running as a service")
	watch := flag.Bool("watch", true, "Reload observer settings when the config file changes")
	showVersion := flag.Bool("version", false, "Print the version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(serviceName, version.Full())
		return nil
	}

	ctx := context.Background()

	cfgLoader := config.NewConfig(nil)

	var cfg agent.Config
	if err := cfgLoader.LoadAndValidate(ctx, *configPath, &cfg); err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logConfig := cfg.Logging
	if logConfig == nil {
		logConfig = logger.DefaultConfig()
	}

	// Keep the alternate screen clean.
	if *tuiMode {
		logConfig.Output = "stderr"
	}

	netLogger, err := lifecycle.CreateComponentLogger(ctx, serviceName, logConfig)
	if err != nil {
		return err
	}

	defer func() {
		if err := lifecycle.ShutdownLogger(); err != nil {
			log.Printf("Failed to shutdown logger: %v", err)
		}
	}()

	opts, err := telemetryOptions(ctx, logConfig, netLogger)
	if err != nil {
		return err
	}

	if *tuiMode {
		opts = append(opts, agent.WithFactChannel(factBuffer))
	}

	server, err := agent.NewServer(ctx, &cfg, netLogger, opts...)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	if *watch {
		watchCtx, cancel := context.WithCancel(ctx)
		defer cancel()

		go watchConfig(watchCtx, cfgLoader, *configPath, server, netLogger)
	}

	if *tuiMode {
		return runTUI(ctx, server)
	}

	return lifecycle.RunServer(ctx, &lifecycle.ServerOptions{
		ServiceName:     serviceName,
		Service:         server,
		Logger:          netLogger,
		ShutdownTimeout: shutdownTimeout,
	})
}

// telemetryOptions installs the OTel tracer and meter providers. Spans are
// always recorded; metrics fall back to a no-op recorder when export is off.
func telemetryOptions(ctx context.Context, logConfig *logger.Config, log logger.Logger) ([]agent.Option, error) {
	tp, err := logger.InitializeTracing(ctx, logger.TracingConfig{
		ServiceName: serviceName,
		Logger:      log,
		OTel:        &logConfig.OTel,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize tracing: %w", err)
	}

	opts := []agent.Option{agent.WithTracer(tp.Tracer(serviceName))}

	mp, err := logger.InitializeMetrics(ctx, logger.MetricsConfig{
		ServiceName: serviceName,
		OTel:        &logConfig.OTel,
	})

	switch {
	case errors.Is(err, logger.ErrOTelMetricsDisabled):
		log.Debug().Msg("OTel metrics export disabled")
	case err != nil:
		return nil, fmt.Errorf("failed to initialize metrics: %w", err)
	default:
		recorder, err := metrics.NewOTelRecorder(mp)
		if err != nil {
			return nil, err
		}

		opts = append(opts, agent.WithRecorder(recorder))
	}

	return opts, nil
}

func watchConfig(ctx context.Context, loader *config.Config, path string, server *agent.Server, log logger.Logger) {
	w := config.NewWatcher(path, log, func() {
		var next agent.Config
		if err := loader.LoadAndValidate(ctx, path, &next); err != nil {
			log.Warn().Err(err).Msg("Ignoring invalid configuration change")
			return
		}

		if err := server.ApplyConfig(&next); err != nil {
			log.Warn().Err(err).Msg("Failed to apply configuration change")
		}
	})

	if err := w.Watch(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Error().Err(err).Msg("Config watcher stopped")
	}
}

func runTUI(ctx context.Context, server *agent.Server) error {
	errCh := make(chan error, 1)

	go func() { errCh <- server.Start(ctx) }()

	_, runErr := tea.NewProgram(tui.NewModel(server), tea.WithAltScreen()).Run()

	stopCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Stop(stopCtx); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}

	if err := <-errCh; err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	return runErr
}
