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
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLevels(t *testing.T) {
	tests := []struct {
		name    string
		config  *Config
		want    zerolog.Level
		wantErr bool
	}{
		{name: "default info", config: &Config{}, want: zerolog.InfoLevel},
		{name: "debug flag wins", config: &Config{Level: "error", Debug: true}, want: zerolog.DebugLevel},
		{name: "explicit level", config: &Config{Level: "warn"}, want: zerolog.WarnLevel},
		{name: "bad level", config: &Config{Level: "loud"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			level, err := parseLevel(tt.config)
			if tt.wantErr {
				require.Error(t, err)

				_, err = New(context.Background(), tt.config)
				require.Error(t, err)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, level)
		})
	}
}

func TestInitReplacesGlobal(t *testing.T) {
	before := GetLogger()

	require.NoError(t, Init(context.Background(), &Config{Level: "debug", Output: "stderr"}))
	assert.NotSame(t, before, GetLogger())
}

func TestWithComponent(t *testing.T) {
	var buf bytes.Buffer

	l := Wrap(zerolog.New(&buf))
	cl := l.WithComponent("poller")
	cl.Info().Msg("hello")

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "poller", line["component"])
	assert.Equal(t, "hello", line["message"])
}

func TestSetDebug(t *testing.T) {
	var buf bytes.Buffer

	l := Wrap(zerolog.New(&buf).Level(zerolog.InfoLevel))

	l.Debug().Msg("hidden")
	assert.Empty(t, buf.String())

	l.SetDebug(true)
	l.Debug().Msg("shown")
	assert.Contains(t, buf.String(), "shown")

	buf.Reset()
	l.SetDebug(false)
	l.Debug().Msg("hidden again")
	assert.Empty(t, buf.String())
}

func TestNewTestLoggerDiscards(t *testing.T) {
	l := NewTestLogger()
	require.NotNil(t, l)

	l.Error().Msg("nothing happens")
}

func TestDefaultConfig(t *testing.T) {
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("LOG_OUTPUT", "stderr")
	t.Setenv("DEBUG", "yes")

	config := DefaultConfig()

	assert.Equal(t, "info", config.Level)
	assert.Equal(t, "stderr", config.Output)
	assert.True(t, config.Debug)
}
