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

package agent

import (
	"errors"
	"fmt"
	"time"

	"github.com/carverauto/netinfo/pkg/logger"
	"github.com/carverauto/netinfo/pkg/models"
	"github.com/carverauto/netinfo/pkg/netinfo"
)

var (
	ErrUnknownObserver    = errors.New("unknown observer")
	ErrNATSRequired       = errors.New("nats configuration is required")
	ErrUnknownRadioSource = errors.New("unknown radio source")
	ErrRadioPathRequired  = errors.New("radio path is required for file source")
	ErrRadioKeyRequired   = errors.New("radio key is required for kv source")
	ErrNegativeInterval   = errors.New("interval must not be negative")
	ErrSlotOnNonAddress   = errors.New("slots are only supported by the ip observer")
)

const (
	RadioSourceNone = "none"
	RadioSourceKV   = "kv"
	RadioSourceFile = "file"
)

// Config is the netinfo agent configuration file.
type Config struct {
	// DeviceMAC overrides the interface hardware address used for fact IDs.
	DeviceMAC  string                    `json:"device_mac" yaml:"device_mac" env:"DEVICE_MAC"`
	Interface  string                    `json:"interface" yaml:"interface" env:"INTERFACE"`
	ResolvConf string                    `json:"resolv_conf" yaml:"resolv_conf"`
	Tick       models.Duration           `json:"tick" yaml:"tick"`
	Sink       SinkConfig                `json:"sink" yaml:"sink"`
	NATS       *models.NATSConfig        `json:"nats,omitempty" yaml:"nats,omitempty"`
	Radio      RadioConfig               `json:"radio" yaml:"radio"`
	Logging    *logger.Config            `json:"logging,omitempty" yaml:"logging,omitempty"`
	Observers  map[string]ObserverConfig `json:"observers" yaml:"observers"`
}

// SinkConfig selects where facts go. With nothing selected facts are logged.
type SinkConfig struct {
	Log    bool `json:"log" yaml:"log"`
	KV     bool `json:"kv" yaml:"kv"`
	Events bool `json:"events" yaml:"events"`
}

// RadioConfig selects where SSID, BSSID and scan results come from.
type RadioConfig struct {
	Source string `json:"source" yaml:"source"`
	// Key is the KV key holding the radio state for the kv source.
	Key string `json:"key" yaml:"key"`
	// Path is the YAML or JSON file for the file source.
	Path string `json:"path" yaml:"path"`
}

// ObserverConfig configures one observer, keyed by its fact kind.
type ObserverConfig struct {
	Enabled  *bool           `json:"enabled,omitempty" yaml:"enabled,omitempty"`
	Interval models.Duration `json:"interval" yaml:"interval"`
	ID       string          `json:"id" yaml:"id"`
	Slots    []SlotConfig    `json:"slots,omitempty" yaml:"slots,omitempty"`
}

// SlotConfig attaches one per-address fact to the ip observer.
type SlotConfig struct {
	Index int    `json:"index" yaml:"index"`
	ID    string `json:"id" yaml:"id"`
}

// IsEnabled reports whether the observer runs; observers are on by default.
func (c ObserverConfig) IsEnabled() bool {
	return c.Enabled == nil || *c.Enabled
}

// Observer returns the configuration for the named observer, or the zero
// value when none is given.
func (c *Config) Observer(kind netinfo.FactKind) ObserverConfig {
	return c.Observers[string(kind)]
}

// UsesNATS reports whether any configured component talks to NATS.
func (c *Config) UsesNATS() bool {
	return c.Sink.KV || c.Sink.Events || c.Radio.Source == RadioSourceKV
}

// Validate checks the configuration and fills defaults.
func (c *Config) Validate() error {
	if c.DeviceMAC != "" {
		if _, err := netinfo.ParseLinkAddress(c.DeviceMAC); err != nil {
			return fmt.Errorf("device_mac: %w", err)
		}
	}

	if c.Tick < 0 {
		return fmt.Errorf("tick: %w", ErrNegativeInterval)
	}

	if err := c.validateRadio(); err != nil {
		return err
	}

	if c.UsesNATS() {
		if c.NATS == nil {
			return ErrNATSRequired
		}

		if c.Sink.Events {
			c.NATS.Events.Enabled = true
		}

		if err := c.NATS.Validate(); err != nil {
			return fmt.Errorf("nats: %w", err)
		}
	}

	return c.validateObservers()
}

func (c *Config) validateRadio() error {
	switch c.Radio.Source {
	case "":
		c.Radio.Source = RadioSourceNone
	case RadioSourceNone:
	case RadioSourceKV:
		if c.Radio.Key == "" {
			return ErrRadioKeyRequired
		}
	case RadioSourceFile:
		if c.Radio.Path == "" {
			return ErrRadioPathRequired
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownRadioSource, c.Radio.Source)
	}

	return nil
}

func (c *Config) validateObservers() error {
	known := make(map[string]bool, len(netinfo.Kinds))
	for _, kind := range netinfo.Kinds {
		known[string(kind)] = true
	}

	for name, oc := range c.Observers {
		if !known[name] {
			return fmt.Errorf("%w: %q", ErrUnknownObserver, name)
		}

		if oc.Interval < 0 {
			return fmt.Errorf("observers.%s.interval: %w", name, ErrNegativeInterval)
		}

		if len(oc.Slots) > 0 && name != string(netinfo.KindAddress) {
			return fmt.Errorf("observers.%s: %w", name, ErrSlotOnNonAddress)
		}

		for _, slot := range oc.Slots {
			if slot.Index < 0 || slot.Index >= netinfo.MaxAddresses {
				return fmt.Errorf("observers.%s.slots: %w: %d", name, netinfo.ErrSlotOutOfRange, slot.Index)
			}
		}
	}

	return nil
}

// interval returns the configured interval for an observer, zero meaning
// the poller default.
func (c ObserverConfig) interval() time.Duration {
	return time.Duration(c.Interval)
}
