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

package natsutil

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/carverauto/netinfo/pkg/models"
)

const eventSource = "netinfo/agent"

// EventPublisher publishes CloudEvents to a JetStream stream.
type EventPublisher struct {
	js     jetstream.JetStream
	stream string
	now    func() time.Time
}

func NewEventPublisher(js jetstream.JetStream, streamName string) *EventPublisher {
	return &EventPublisher{
		js:     js,
		stream: streamName,
		now:    time.Now,
	}
}

// CreateEventPublisher makes sure the configured stream exists and covers
// the fact.changed subjects, then returns a publisher for it.
func CreateEventPublisher(ctx context.Context, js jetstream.JetStream, cfg models.EventsConfig) (*EventPublisher, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if cfg.StreamName == "" {
		cfg.StreamName = models.DefaultEventsStream
	}

	subjects := ensureSubjectList(append([]string(nil), cfg.Subjects...), models.DefaultEventsSubject)

	stream, err := js.Stream(ctx, cfg.StreamName)

	switch {
	case err == nil:
		info := stream.CachedInfo()
		merged := info.Config.Subjects

		for _, s := range subjects {
			merged = ensureSubjectList(merged, s)
		}

		if len(merged) != len(info.Config.Subjects) {
			info.Config.Subjects = merged
			if _, err := js.UpdateStream(ctx, info.Config); err != nil {
				return nil, fmt.Errorf("failed to update stream %s: %w", cfg.StreamName, err)
			}
		}
	case isStreamMissingErr(err):
		_, err = js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
			Name:     cfg.StreamName,
			Subjects: subjects,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create stream %s: %w", cfg.StreamName, err)
		}
	default:
		return nil, fmt.Errorf("failed to look up stream %s: %w", cfg.StreamName, err)
	}

	return NewEventPublisher(js, cfg.StreamName), nil
}

// FactSubject is the subject fact.changed events of kind are published on.
func FactSubject(kind string) string {
	return models.FactChangedSubjectBase + "." + kind
}

// PublishFactChanged publishes one fact.changed event and returns its id.
func (p *EventPublisher) PublishFactChanged(ctx context.Context, data models.FactChangedEventData) (string, error) {
	if data.Timestamp.IsZero() {
		data.Timestamp = p.now().UTC()
	}

	event := models.CloudEvent{
		SpecVersion:     models.CloudEventsSpecVersion,
		ID:              uuid.New().String(),
		Source:          eventSource,
		Type:            models.FactChangedEventType,
		DataContentType: "application/json",
		Subject:         FactSubject(data.Kind),
		Time:            &data.Timestamp,
		Data:            data,
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return "", fmt.Errorf("failed to marshal fact event: %w", err)
	}

	if _, err := p.js.Publish(ctx, event.Subject, payload, jetstream.WithMsgID(event.ID)); err != nil {
		return "", fmt.Errorf("failed to publish fact event: %w", err)
	}

	return event.ID, nil
}

func (p *EventPublisher) Stream() string {
	return p.stream
}

func isStreamMissingErr(err error) bool {
	return errors.Is(err, jetstream.ErrStreamNotFound) ||
		errors.Is(err, jetstream.ErrNoStreamResponse) ||
		errors.Is(err, nats.ErrStreamNotFound) ||
		errors.Is(err, nats.ErrNoStreamResponse) ||
		errors.Is(err, nats.ErrNoResponders)
}

// ensureSubjectList appends subject unless a pattern in subjects covers it.
func ensureSubjectList(subjects []string, subject string) []string {
	for _, s := range subjects {
		if matchesSubject(s, subject) {
			return subjects
		}
	}

	return append(subjects, subject)
}

// matchesSubject reports whether the NATS subject pattern covers subject.
// Patterns are compared token-wise; "*" matches one token and ">" the rest.
func matchesSubject(pattern, subject string) bool {
	pt := strings.Split(pattern, ".")
	st := strings.Split(subject, ".")

	for i, p := range pt {
		if p == ">" {
			return len(st) > i
		}

		if i >= len(st) {
			return false
		}

		if p != "*" && p != st[i] {
			return false
		}
	}

	return len(pt) == len(st)
}
