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

// Package kv wraps a NATS JetStream key-value bucket.
package kv

import "context"

// Store is the key-value surface sinks and radio sources depend on.
type Store interface {
	// Get returns the value for key; found is false when the key is absent.
	Get(ctx context.Context, key string) (value []byte, found bool, err error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error

	// Watch streams the current value of key and every later change. A
	// deleted key is reported as nil. The channel closes when ctx ends or
	// the store is closed.
	Watch(ctx context.Context, key string) (<-chan []byte, error)
	Close() error
}

// BucketConfig describes the bucket NewNatsStore creates or updates.
type BucketConfig struct {
	Bucket   string
	History  uint8
	MaxBytes int64
}
