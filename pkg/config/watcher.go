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

package config

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/carverauto/netinfo/pkg/logger"
)

const defaultDebounce = 500 * time.Millisecond

// Watcher calls onChange after a file has been written or replaced and
// then stayed quiet for the debounce period.
type Watcher struct {
	path     string
	onChange func()
	debounce time.Duration
	logger   logger.Logger
}

func NewWatcher(path string, log logger.Logger, onChange func()) *Watcher {
	return &Watcher{
		path:     path,
		onChange: onChange,
		debounce: defaultDebounce,
		logger:   log,
	}
}

func (w *Watcher) WithDebounce(d time.Duration) *Watcher {
	w.debounce = d
	return w
}

// Watch blocks until ctx is cancelled. The parent directory is watched so
// editors that replace the file by rename are still seen.
func (w *Watcher) Watch(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer fw.Close()

	abs, err := filepath.Abs(w.path)
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", w.path, err)
	}

	if err := fw.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(abs), err)
	}

	w.logger.Info().Str("path", abs).Msg("Watching file for changes")

	var (
		mu    sync.Mutex
		timer *time.Timer
	)

	defer func() {
		mu.Lock()
		if timer != nil {
			timer.Stop()
		}
		mu.Unlock()
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}

			if filepath.Clean(event.Name) != abs {
				continue
			}

			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}

			mu.Lock()
			if timer != nil {
				timer.Stop()
			}

			timer = time.AfterFunc(w.debounce, func() {
				if ctx.Err() != nil {
					return
				}

				w.logger.Info().Str("path", abs).Msg("File changed")
				w.onChange()
			})
			mu.Unlock()
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}

			w.logger.Warn().Err(err).Str("path", abs).Msg("File watcher error")
		}
	}
}
