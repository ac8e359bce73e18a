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
	"encoding/json"
	"fmt"
	"sync"

	"github.com/carverauto/netinfo/pkg/netinfo"
)

// RadioState is the wireless association and scan snapshot published by
// whatever manages the radio.
type RadioState struct {
	SSID  string               `json:"ssid" yaml:"ssid"`
	BSSID netinfo.LinkAddress  `json:"bssid" yaml:"bssid"`
	Scan  []netinfo.ScanRecord `json:"scan" yaml:"scan"`
}

// Associated reports whether the radio is joined to a network.
func (s RadioState) Associated() bool {
	return s.SSID != "" || !s.BSSID.IsZero()
}

// RadioSource answers the wireless part of netinfo.Provider.
type RadioSource interface {
	Radio(ctx context.Context) RadioState
}

// NoRadio reports no association and no scan results.
type NoRadio struct{}

func (NoRadio) Radio(context.Context) RadioState { return RadioState{} }

// snapshot holds the latest decoded RadioState for sources that refresh in
// the background.
type snapshot struct {
	mu    sync.RWMutex
	state RadioState
}

func (s *snapshot) get() RadioState {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := s.state
	st.Scan = append([]netinfo.ScanRecord(nil), s.state.Scan...)

	return st
}

func (s *snapshot) set(state RadioState) {
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
}

func decodeRadioJSON(data []byte) (RadioState, error) {
	var st RadioState
	if len(data) == 0 {
		return st, nil
	}

	if err := json.Unmarshal(data, &st); err != nil {
		return RadioState{}, fmt.Errorf("failed to decode radio state: %w", err)
	}

	return st, nil
}
