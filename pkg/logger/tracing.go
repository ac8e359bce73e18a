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

package logger

import (
	"context"
	"fmt"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/grpc/credentials"
)

type TracingConfig struct {
	ServiceName string
	Logger      Logger
	OTel        *OTelConfig
}

//nolint:gochecknoglobals // coordinated shutdown of the global tracer provider
var (
	tracerProvider *sdktrace.TracerProvider
	tracerMu       sync.Mutex
)

// InitializeTracing installs a global TracerProvider. Spans are exported
// only when config.OTel enables an endpoint; otherwise they are recorded
// and dropped, which keeps trace ids available for log correlation.
func InitializeTracing(ctx context.Context, config TracingConfig) (*sdktrace.TracerProvider, error) {
	res, err := newResource(ctx, config.ServiceName)
	if err != nil {
		return nil, err
	}

	opts := []sdktrace.TracerProviderOption{sdktrace.WithResource(res)}

	if config.OTel != nil && config.OTel.Enabled && config.OTel.Endpoint != "" {
		exporter, err := createTraceExporter(ctx, config.OTel)
		if err != nil {
			return nil, fmt.Errorf("failed to create trace exporter: %w", err)
		}

		opts = append(opts, sdktrace.WithBatcher(exporter))
	}

	tp := sdktrace.NewTracerProvider(opts...)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	tracerMu.Lock()
	tracerProvider = tp
	tracerMu.Unlock()

	if config.Logger != nil {
		config.Logger.Debug().
			Str("service", config.ServiceName).
			Bool("exporting", len(opts) > 1).
			Msg("Initialized OpenTelemetry tracing")
	}

	return tp, nil
}

// GetTracer returns a tracer from the global provider.
func GetTracer(name string) trace.Tracer {
	return otel.Tracer(name)
}

func shutdownTracerProvider(ctx context.Context) error {
	tracerMu.Lock()
	defer tracerMu.Unlock()

	if tracerProvider == nil {
		return nil
	}

	err := tracerProvider.Shutdown(ctx)
	tracerProvider = nil

	return err
}

func createTraceExporter(ctx context.Context, config *OTelConfig) (sdktrace.SpanExporter, error) {
	opts := []otlptracegrpc.Option{
		otlptracegrpc.WithEndpoint(config.Endpoint),
	}

	if config.Insecure {
		opts = append(opts, otlptracegrpc.WithInsecure())
	} else if config.TLS != nil {
		tlsConfig, err := setupTLSConfig(config.TLS)
		if err != nil {
			return nil, fmt.Errorf("failed to setup TLS configuration: %w", err)
		}

		opts = append(opts, otlptracegrpc.WithTLSCredentials(credentials.NewTLS(tlsConfig)))
	}

	if len(config.Headers) > 0 {
		opts = append(opts, otlptracegrpc.WithHeaders(config.Headers))
	}

	return otlptracegrpc.New(ctx, opts...)
}
