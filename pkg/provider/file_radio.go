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

package provider

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/carverauto/netinfo/pkg/config"
	"github.com/carverauto/netinfo/pkg/logger"
)

// FileRadioSource serves a RadioState read from a YAML or JSON file and
// re-reads it whenever the file changes.
type FileRadioSource struct {
	path     string
	snap     snapshot
	logger   logger.Logger
	debounce time.Duration
}

var _ RadioSource = (*FileRadioSource)(nil)

// NewFileRadioSource reads path once; call Watch to follow changes.
func NewFileRadioSource(path string, log logger.Logger) (*FileRadioSource, error) {
	s := &FileRadioSource{path: path, logger: log}

	if err := s.Reload(); err != nil {
		return nil, err
	}

	return s, nil
}

// Reload re-reads the file. On error the previous state is kept.
func (s *FileRadioSource) Reload() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return fmt.Errorf("failed to read radio state: %w", err)
	}

	var st RadioState
	if err := config.Decode(s.path, data, &st); err != nil {
		return err
	}

	s.snap.set(st)

	return nil
}

// Watch reloads the file on every change until ctx is done.
func (s *FileRadioSource) Watch(ctx context.Context) error {
	w := config.NewWatcher(s.path, s.logger, func() {
		if err := s.Reload(); err != nil {
			s.logger.Warn().Err(err).Str("path", s.path).Msg("Keeping previous radio state")
		}
	})

	if s.debounce > 0 {
		w.WithDebounce(s.debounce)
	}

	return w.Watch(ctx)
}

func (s *FileRadioSource) Radio(context.Context) RadioState {
	return s.snap.get()
}
