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
	"errors"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"google.golang.org/grpc/credentials"
)

var ErrOTelMetricsDisabled = errors.New("OTel metrics exporter disabled")

const defaultExportInterval = 15 * time.Second

//nolint:gochecknoglobals // coordinated shutdown of the global meter provider
var (
	meterProvider *sdkmetric.MeterProvider
	meterMu       sync.Mutex
)

type MetricsConfig struct {
	ServiceName    string
	OTel           *OTelConfig
	ExportInterval time.Duration
}

// InitializeMetrics installs a global MeterProvider exporting over OTLP/gRPC.
// Repeated calls return the provider from the first call. When export is
// disabled it returns ErrOTelMetricsDisabled and instruments stay no-op.
func InitializeMetrics(ctx context.Context, config MetricsConfig) (*sdkmetric.MeterProvider, error) {
	if config.OTel == nil || !config.OTel.Enabled || config.OTel.Endpoint == "" {
		return nil, ErrOTelMetricsDisabled
	}

	meterMu.Lock()
	defer meterMu.Unlock()

	if meterProvider != nil {
		return meterProvider, nil
	}

	opts := []otlpmetricgrpc.Option{
		otlpmetricgrpc.WithEndpoint(config.OTel.Endpoint),
	}

	if config.OTel.Insecure {
		opts = append(opts, otlpmetricgrpc.WithInsecure())
	} else if config.OTel.TLS != nil {
		tlsConfig, err := setupTLSConfig(config.OTel.TLS)
		if err != nil {
			return nil, fmt.Errorf("failed to setup metrics TLS configuration: %w", err)
		}

		opts = append(opts, otlpmetricgrpc.WithTLSCredentials(credentials.NewTLS(tlsConfig)))
	}

	if len(config.OTel.Headers) > 0 {
		opts = append(opts, otlpmetricgrpc.WithHeaders(config.OTel.Headers))
	}

	exporter, err := otlpmetricgrpc.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP metric exporter: %w", err)
	}

	res, err := newResource(ctx, config.ServiceName)
	if err != nil {
		return nil, err
	}

	interval := config.ExportInterval
	if interval <= 0 {
		interval = defaultExportInterval
	}

	provider := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(interval))),
	)

	otel.SetMeterProvider(provider)
	meterProvider = provider

	return meterProvider, nil
}

func shutdownMeterProvider(ctx context.Context) error {
	meterMu.Lock()
	defer meterMu.Unlock()

	if meterProvider == nil {
		return nil
	}

	err := meterProvider.Shutdown(ctx)
	meterProvider = nil

	return err
}
