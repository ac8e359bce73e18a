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

package kv

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/nats-io/nats.go/jetstream"

	"github.com/carverauto/netinfo/pkg/logger"
)

var ErrBucketRequired = errors.New("kv bucket is required")

// NatsStore is a Store backed by a JetStream KV bucket.
type NatsStore struct {
	kv     jetstream.KeyValue
	log    logger.Logger
	done   chan struct{}
	closed sync.Once
}

var _ Store = (*NatsStore)(nil)

// NewNatsStore creates or updates the bucket described by cfg.
func NewNatsStore(ctx context.Context, js jetstream.JetStream, cfg BucketConfig, log logger.Logger) (*NatsStore, error) {
	if cfg.Bucket == "" {
		return nil, ErrBucketRequired
	}

	kvCfg := jetstream.KeyValueConfig{
		Bucket:   cfg.Bucket,
		History:  cfg.History,
		MaxBytes: cfg.MaxBytes,
	}

	if kvCfg.MaxBytes == 0 {
		kvCfg.MaxBytes = -1
	}

	bucket, err := js.CreateOrUpdateKeyValue(ctx, kvCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create KV bucket %s: %w", cfg.Bucket, err)
	}

	return &NatsStore{
		kv:   bucket,
		log:  log,
		done: make(chan struct{}),
	}, nil
}

func (n *NatsStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	entry, err := n.kv.Get(ctx, key)
	if errors.Is(err, jetstream.ErrKeyNotFound) {
		return nil, false, nil
	}

	if err != nil {
		return nil, false, fmt.Errorf("failed to get key %s: %w", key, err)
	}

	return entry.Value(), true, nil
}

func (n *NatsStore) Put(ctx context.Context, key string, value []byte) error {
	if _, err := n.kv.Put(ctx, key, value); err != nil {
		return fmt.Errorf("failed to put key %s: %w", key, err)
	}

	return nil
}

func (n *NatsStore) Delete(ctx context.Context, key string) error {
	err := n.kv.Delete(ctx, key)
	if err != nil && !errors.Is(err, jetstream.ErrKeyNotFound) {
		return fmt.Errorf("failed to delete key %s: %w", key, err)
	}

	return nil
}

func (n *NatsStore) Watch(ctx context.Context, key string) (<-chan []byte, error) {
	watcher, err := n.kv.Watch(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to watch key %s: %w", key, err)
	}

	ch := make(chan []byte, 1)
	go n.handleWatchUpdates(ctx, key, watcher, ch)

	return ch, nil
}

func (n *NatsStore) handleWatchUpdates(ctx context.Context, key string, watcher jetstream.KeyWatcher, ch chan<- []byte) {
	defer func() {
		if err := watcher.Stop(); err != nil {
			n.log.Debug().Err(err).Str("key", key).Msg("Failed to stop KV watcher")
		}

		close(ch)
	}()

	for {
		var entry jetstream.KeyValueEntry

		select {
		case <-ctx.Done():
			return
		case <-n.done:
			return
		case update, ok := <-watcher.Updates():
			if !ok {
				return
			}

			// nil marks the end of the initial values.
			if update == nil {
				continue
			}

			entry = update
		}

		var value []byte
		if entry.Operation() == jetstream.KeyValuePut {
			value = entry.Value()
		}

		select {
		case ch <- value:
		case <-ctx.Done():
			return
		case <-n.done:
			return
		}
	}
}

// Close stops all watches. The underlying connection belongs to the caller.
func (n *NatsStore) Close() error {
	n.closed.Do(func() { close(n.done) })

	return nil
}
