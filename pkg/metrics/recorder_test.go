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

package metrics

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Metrics {
	t.Helper()

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	out := make(map[string]metricdata.Metrics)

	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m
		}
	}

	return out
}

func TestOTelRecorder(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	rec, err := NewOTelRecorder(provider)
	require.NoError(t, err)

	ctx := context.Background()
	rec.RecordSample(ctx, "ssid", 1, 2*time.Millisecond)
	rec.RecordSample(ctx, "ssid", 0, time.Millisecond)
	rec.RecordPublish(ctx, "ssid", OutcomeOK)
	rec.RecordPublish(ctx, "ssid", OutcomeError)
	rec.RecordPublish(ctx, "ssid", OutcomeError)

	got := collect(t, reader)

	samples, ok := got[metricSamplesTotal].Data.(metricdata.Sum[int64])
	require.True(t, ok)

	var total int64
	for _, dp := range samples.DataPoints {
		total += dp.Value
	}

	assert.Equal(t, int64(2), total)

	published, ok := got[metricFactsPublished].Data.(metricdata.Sum[int64])
	require.True(t, ok)

	byOutcome := make(map[string]int64)

	for _, dp := range published.DataPoints {
		v, _ := dp.Attributes.Value(attribute.Key("outcome"))
		byOutcome[v.AsString()] = dp.Value
	}

	assert.Equal(t, map[string]int64{OutcomeOK: 1, OutcomeError: 2}, byOutcome)

	hist, ok := got[metricSampleDuration].Data.(metricdata.Histogram[float64])
	require.True(t, ok)
	assert.Len(t, hist.DataPoints, 2)
}

func TestNoopRecorder(t *testing.T) {
	var rec Recorder = Noop{}

	rec.RecordSample(context.Background(), "ip", 3, time.Second)
	rec.RecordPublish(context.Background(), "ip", OutcomeOK)
}
