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

// Package models holds configuration and event types shared across packages.
package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

var (
	errInvalidDuration    = errors.New("invalid duration")
	ErrNATSURLRequired    = errors.New("nats url is required")
	ErrNATSBucketRequired = errors.New("nats kv bucket is required")
)

// Duration is a time.Duration that reads "30s" style strings or integer
// nanoseconds from JSON and YAML.
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	return d.from(v)
}

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var v interface{}
	if err := node.Decode(&v); err != nil {
		return err
	}

	if n, ok := v.(int); ok {
		v = float64(n)
	}

	return d.from(v)
}

func (d *Duration) from(v interface{}) error {
	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		dur, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("%w: %w", errInvalidDuration, err)
		}

		*d = Duration(dur)

		return nil
	default:
		return errInvalidDuration
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

func (d Duration) String() string {
	return time.Duration(d).String()
}

// TLSConfig points at PEM files for mTLS.
type TLSConfig struct {
	CertFile   string `json:"cert_file" yaml:"cert_file"`
	KeyFile    string `json:"key_file" yaml:"key_file"`
	CAFile     string `json:"ca_file" yaml:"ca_file"`
	ServerName string `json:"server_name,omitempty" yaml:"server_name,omitempty"`
}

// NATSConfig configures NATS connectivity and the JetStream resources the
// agent uses.
type NATSConfig struct {
	URL       string       `json:"url" yaml:"url" env:"NATS_URL"`
	Domain    string       `json:"domain,omitempty" yaml:"domain,omitempty"`
	CredsFile string       `json:"creds_file,omitempty" yaml:"creds_file,omitempty"`
	TLS       *TLSConfig   `json:"tls,omitempty" yaml:"tls,omitempty"`
	Bucket    string       `json:"bucket" yaml:"bucket"`
	Events    EventsConfig `json:"events" yaml:"events"`
}

// Validate ensures the NATS configuration is usable and fills defaults.
func (c *NATSConfig) Validate() error {
	if c.URL == "" {
		return ErrNATSURLRequired
	}

	if c.Bucket == "" {
		return ErrNATSBucketRequired
	}

	return c.Events.Validate()
}

// EventsConfig configures the CloudEvents stream.
type EventsConfig struct {
	Enabled    bool     `json:"enabled" yaml:"enabled"`
	StreamName string   `json:"stream_name" yaml:"stream_name"`
	Subjects   []string `json:"subjects" yaml:"subjects"`
}

const (
	DefaultEventsStream  = "events"
	DefaultEventsSubject = "events.netinfo.*"
)

func (c *EventsConfig) Validate() error {
	if !c.Enabled {
		return nil
	}

	if c.StreamName == "" {
		c.StreamName = DefaultEventsStream
	}

	if len(c.Subjects) == 0 {
		c.Subjects = []string{DefaultEventsSubject}
	}

	return nil
}
