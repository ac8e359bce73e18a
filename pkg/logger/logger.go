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

// Package logger provides JSON structured logging using zerolog, with
// optional OTLP export of logs, metrics and traces.
package logger

import (
	"context"
	"io"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

//nolint:gochecknoglobals // process-wide default logger
var (
	globalMu     sync.RWMutex
	globalLogger = Wrap(zerolog.New(os.Stdout).With().Timestamp().Logger())
)

func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}

// New builds a Logger from config. A nil config falls back to DefaultConfig.
// When OTel export is enabled, every line is written both to the local
// output and to the OTLP collector.
func New(ctx context.Context, config *Config) (Logger, error) {
	if config == nil {
		config = DefaultConfig()
	}

	level, err := parseLevel(config)
	if err != nil {
		return nil, err
	}

	if config.TimeFormat != "" {
		zerolog.TimeFieldFormat = config.TimeFormat
	}

	output := outputFor(config.Output)

	if config.OTel.Enabled && config.OTel.Endpoint != "" {
		otelWriter, err := NewOTelWriter(ctx, config.OTel)
		if err != nil {
			return nil, err
		}

		output = zerolog.MultiLevelWriter(output, otelWriter)
	}

	zl := zerolog.New(output).Level(level).With().Timestamp().Logger()

	return Wrap(zl), nil
}

// Init replaces the process-wide logger returned by GetLogger.
func Init(ctx context.Context, config *Config) error {
	l, err := New(ctx, config)
	if err != nil {
		return err
	}

	globalMu.Lock()
	globalLogger = l
	globalMu.Unlock()

	return nil
}

func GetLogger() Logger {
	globalMu.RLock()
	defer globalMu.RUnlock()

	return globalLogger
}

// Shutdown flushes any OTel exporters started by this package.
func Shutdown() error {
	return ShutdownOTel()
}

func parseLevel(config *Config) (zerolog.Level, error) {
	if config.Debug {
		return zerolog.DebugLevel, nil
	}

	if config.Level == "" {
		return zerolog.InfoLevel, nil
	}

	return zerolog.ParseLevel(config.Level)
}

func outputFor(name string) io.Writer {
	if name == "stderr" {
		return os.Stderr
	}

	return os.Stdout
}
