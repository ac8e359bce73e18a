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

package logger

import (
	"io"

	"github.com/rs/zerolog"
)

// Logger is the logging surface injected into every component.
type Logger interface {
	Trace() *zerolog.Event
	Debug() *zerolog.Event
	Info() *zerolog.Event
	Warn() *zerolog.Event
	Error() *zerolog.Event
	Fatal() *zerolog.Event
	With() zerolog.Context
	WithComponent(component string) zerolog.Logger
	SetLevel(level zerolog.Level)
	SetDebug(debug bool)
}

// zerologLogger adapts a zerolog.Logger to Logger without touching global state.
type zerologLogger struct {
	logger zerolog.Logger
}

// Wrap returns a Logger backed by zl.
func Wrap(zl zerolog.Logger) Logger {
	return &zerologLogger{logger: zl}
}

func (l *zerologLogger) Trace() *zerolog.Event { return l.logger.Trace() }
func (l *zerologLogger) Debug() *zerolog.Event { return l.logger.Debug() }
func (l *zerologLogger) Info() *zerolog.Event  { return l.logger.Info() }
func (l *zerologLogger) Warn() *zerolog.Event  { return l.logger.Warn() }
func (l *zerologLogger) Error() *zerolog.Event { return l.logger.Error() }
func (l *zerologLogger) Fatal() *zerolog.Event { return l.logger.Fatal() }
func (l *zerologLogger) With() zerolog.Context { return l.logger.With() }

func (l *zerologLogger) WithComponent(component string) zerolog.Logger {
	return l.logger.With().Str("component", component).Logger()
}

func (l *zerologLogger) SetLevel(level zerolog.Level) {
	l.logger = l.logger.Level(level)
}

func (l *zerologLogger) SetDebug(debug bool) {
	if debug {
		l.SetLevel(zerolog.DebugLevel)
	} else {
		l.SetLevel(zerolog.InfoLevel)
	}
}

// NewTestLogger creates a logger for tests that discards all output.
func NewTestLogger() Logger {
	return Wrap(zerolog.New(io.Discard).Level(zerolog.Disabled))
}
