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

// Package sink implements netinfo.Sink destinations.
package sink

import (
	"context"
	"errors"
	"fmt"

	"github.com/carverauto/netinfo/pkg/kv"
	"github.com/carverauto/netinfo/pkg/logger"
	"github.com/carverauto/netinfo/pkg/models"
	"github.com/carverauto/netinfo/pkg/netinfo"
)

var (
	ErrChannelFull = errors.New("fact channel full")

	_ netinfo.Sink = (*KVSink)(nil)
	_ netinfo.Sink = (*EventSink)(nil)
	_ netinfo.Sink = (*LogSink)(nil)
	_ netinfo.Sink = (*ChannelSink)(nil)
	_ netinfo.Sink = Fanout(nil)
)

// KVSink stores the latest state of every fact under its FactID.
type KVSink struct {
	store kv.Store
}

func NewKVSink(store kv.Store) *KVSink {
	return &KVSink{store: store}
}

func (s *KVSink) Publish(ctx context.Context, fact netinfo.Fact) error {
	return s.store.Put(ctx, string(fact.ID), []byte(fact.State))
}

// FactPublisher publishes fact.changed events.
type FactPublisher interface {
	PublishFactChanged(ctx context.Context, data models.FactChangedEventData) (string, error)
}

// EventSink turns each fact into a fact.changed CloudEvent.
type EventSink struct {
	publisher FactPublisher
	device    string
}

// NewEventSink returns a sink tagging events with the device's address.
func NewEventSink(publisher FactPublisher, device netinfo.LinkAddress) *EventSink {
	return &EventSink{publisher: publisher, device: device.String()}
}

func (s *EventSink) Publish(ctx context.Context, fact netinfo.Fact) error {
	_, err := s.publisher.PublishFactChanged(ctx, models.FactChangedEventData{
		FactID: string(fact.ID),
		Kind:   string(fact.Kind),
		State:  fact.State,
		Device: s.device,
	})

	return err
}

// LogSink writes every fact to the log.
type LogSink struct {
	logger logger.Logger
}

func NewLogSink(log logger.Logger) *LogSink {
	return &LogSink{logger: log}
}

func (s *LogSink) Publish(_ context.Context, fact netinfo.Fact) error {
	s.logger.Info().
		Str("fact_id", string(fact.ID)).
		Str("kind", string(fact.Kind)).
		Str("state", fact.State).
		Msg("Fact changed")

	return nil
}

// ChannelSink hands facts to a reader without blocking the poller. When the
// buffer is full the fact is dropped and ErrChannelFull returned.
type ChannelSink struct {
	ch chan netinfo.Fact
}

func NewChannelSink(size int) *ChannelSink {
	return &ChannelSink{ch: make(chan netinfo.Fact, size)}
}

func (s *ChannelSink) Publish(_ context.Context, fact netinfo.Fact) error {
	select {
	case s.ch <- fact:
		return nil
	default:
		return fmt.Errorf("%w: %s", ErrChannelFull, fact.ID)
	}
}

// Facts is the receiving end of the sink.
func (s *ChannelSink) Facts() <-chan netinfo.Fact {
	return s.ch
}

// Fanout publishes every fact to all of its sinks and joins their errors.
type Fanout []netinfo.Sink

func (f Fanout) Publish(ctx context.Context, fact netinfo.Fact) error {
	var errs []error

	for _, s := range f {
		if err := s.Publish(ctx, fact); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}
