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

// Package metrics records poller activity as OpenTelemetry instruments.
package metrics

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	meterName = "github.com/carverauto/netinfo/pkg/metrics"

	metricSamplesTotal   = "netinfo_samples_total"
	metricFactsPublished = "netinfo_facts_published_total"
	metricSampleDuration = "netinfo_sample_duration_seconds"

	OutcomeOK    = "ok"
	OutcomeError = "error"
)

// Recorder receives poller measurements.
type Recorder interface {
	RecordSample(ctx context.Context, observer string, facts int, took time.Duration)
	RecordPublish(ctx context.Context, kind, outcome string)
}

// OTelRecorder writes measurements to instruments from a MeterProvider.
type OTelRecorder struct {
	samples   metric.Int64Counter
	published metric.Int64Counter
	duration  metric.Float64Histogram
}

var _ Recorder = (*OTelRecorder)(nil)

// NewOTelRecorder creates instruments on provider, or on the global provider
// when provider is nil.
func NewOTelRecorder(provider metric.MeterProvider) (*OTelRecorder, error) {
	if provider == nil {
		provider = otel.GetMeterProvider()
	}

	meter := provider.Meter(meterName)

	samples, err := meter.Int64Counter(
		metricSamplesTotal,
		metric.WithDescription("Observer samples taken"),
	)
	if err != nil {
		return nil, err
	}

	published, err := meter.Int64Counter(
		metricFactsPublished,
		metric.WithDescription("Facts handed to the sink, by outcome"),
	)
	if err != nil {
		return nil, err
	}

	duration, err := meter.Float64Histogram(
		metricSampleDuration,
		metric.WithDescription("Time spent in one observer sample including publishing"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	return &OTelRecorder{samples: samples, published: published, duration: duration}, nil
}

func (r *OTelRecorder) RecordSample(ctx context.Context, observer string, facts int, took time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String("observer", observer),
		attribute.Bool("changed", facts > 0),
	)

	r.samples.Add(ctx, 1, attrs)
	r.duration.Record(ctx, took.Seconds(), attrs)
}

func (r *OTelRecorder) RecordPublish(ctx context.Context, kind, outcome string) {
	r.published.Add(ctx, 1, metric.WithAttributes(
		attribute.String("kind", kind),
		attribute.String("outcome", outcome),
	))
}

// Noop discards every measurement.
type Noop struct{}

func (Noop) RecordSample(context.Context, string, int, time.Duration) {}
func (Noop) RecordPublish(context.Context, string, string)            {}
