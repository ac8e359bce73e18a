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

	"github.com/carverauto/netinfo/pkg/kv"
	"github.com/carverauto/netinfo/pkg/logger"
)

// KVRadioSource serves the RadioState stored as JSON under one KV key and
// follows updates to it. A deleted key resets the state to empty.
type KVRadioSource struct {
	snap   snapshot
	logger logger.Logger
	done   chan struct{}
}

var _ RadioSource = (*KVRadioSource)(nil)

// NewKVRadioSource starts watching key. The watch ends when ctx is done.
func NewKVRadioSource(ctx context.Context, store kv.Store, key string, log logger.Logger) (*KVRadioSource, error) {
	updates, err := store.Watch(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to watch radio key %s: %w", key, err)
	}

	s := &KVRadioSource{logger: log, done: make(chan struct{})}

	go s.follow(key, updates)

	return s, nil
}

func (s *KVRadioSource) follow(key string, updates <-chan []byte) {
	defer close(s.done)

	for data := range updates {
		st, err := decodeRadioJSON(data)
		if err != nil {
			s.logger.Warn().Err(err).Str("key", key).Msg("Ignoring malformed radio state")
			continue
		}

		s.snap.set(st)
		s.logger.Debug().Str("key", key).Str("ssid", st.SSID).Int("scan", len(st.Scan)).Msg("Radio state updated")
	}
}

func (s *KVRadioSource) Radio(context.Context) RadioState {
	return s.snap.get()
}

// Done is closed once the watch has ended.
func (s *KVRadioSource) Done() <-chan struct{} {
	return s.done
}
