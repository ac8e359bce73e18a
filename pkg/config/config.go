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

// Package config loads, validates and watches configuration files.
package config

import (
	"context"
	"errors"
	"fmt"

	"github.com/carverauto/netinfo/pkg/logger"
)

var errInvalidConfigPtr = errors.New("config must be a non-nil pointer")

// DefaultEnvPrefix prefixes every `env` tag looked up by LoadAndValidate.
const DefaultEnvPrefix = "NETINFO_"

// Config holds the configuration loading dependencies.
type Config struct {
	loader    ConfigLoader
	logger    logger.Logger
	envPrefix string
}

// NewConfig returns a file-backed loader. A nil log discards output.
func NewConfig(log logger.Logger) *Config {
	if log == nil {
		log = logger.NewTestLogger()
	}

	return &Config{
		loader:    &FileConfigLoader{},
		logger:    log,
		envPrefix: DefaultEnvPrefix,
	}
}

// WithLoader replaces the file loader.
func (c *Config) WithLoader(loader ConfigLoader) *Config {
	c.loader = loader
	return c
}

// ValidateConfig validates a configuration if it implements Validator.
func ValidateConfig(cfg interface{}) error {
	v, ok := cfg.(Validator)
	if !ok {
		return nil
	}

	return v.Validate()
}

// LoadAndValidate loads path into cfg, applies environment overrides and
// validates the result.
func (c *Config) LoadAndValidate(ctx context.Context, path string, cfg interface{}) error {
	if cfg == nil {
		return errInvalidConfigPtr
	}

	if err := c.loader.Load(ctx, path, cfg); err != nil {
		return err
	}

	if err := ApplyEnv(c.envPrefix, cfg); err != nil {
		return fmt.Errorf("failed to apply environment overrides: %w", err)
	}

	if err := ValidateConfig(cfg); err != nil {
		return fmt.Errorf("invalid configuration in '%s': %w", path, err)
	}

	c.logger.Debug().Str("path", path).Msg("Configuration loaded")

	return nil
}
