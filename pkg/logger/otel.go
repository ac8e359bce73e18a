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
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploggrpc"
	otellog "go.opentelemetry.io/otel/log"
	"go.opentelemetry.io/otel/log/global"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.31.0"
	"google.golang.org/grpc/credentials"

	"github.com/carverauto/netinfo/pkg/version"
)

var (
	ErrOTelLoggingDisabled  = errors.New("OTel logging is disabled")
	ErrOTelEndpointRequired = errors.New("OTel endpoint is required when enabled")
	errFailedToParseCACert  = errors.New("failed to parse CA certificate")
)

const (
	defaultServiceName     = "netinfo"
	defaultScope           = "netinfo-logger"
	defaultBatchTimeout    = 5 * time.Second
	shutdownTimeout        = 10 * time.Second
	maxAttributeValueBytes = 4096
)

// OTelWriter is an io.Writer that turns zerolog JSON lines into OTLP log
// records. Each "component" field gets its own instrumentation scope.
type OTelWriter struct {
	provider *sdklog.LoggerProvider
	loggers  map[string]otellog.Logger
	mu       sync.Mutex
	ctx      context.Context
}

//nolint:gochecknoglobals // shutdown needs the provider installed by NewOTelWriter
var otelProvider *sdklog.LoggerProvider

func NewOTelWriter(ctx context.Context, config OTelConfig) (*OTelWriter, error) {
	if !config.Enabled {
		return nil, ErrOTelLoggingDisabled
	}

	if config.Endpoint == "" {
		return nil, ErrOTelEndpointRequired
	}

	opts := []otlploggrpc.Option{
		otlploggrpc.WithEndpoint(config.Endpoint),
	}

	if config.Insecure {
		opts = append(opts, otlploggrpc.WithInsecure())
	} else if config.TLS != nil {
		tlsConfig, err := setupTLSConfig(config.TLS)
		if err != nil {
			return nil, fmt.Errorf("failed to setup TLS configuration: %w", err)
		}

		opts = append(opts, otlploggrpc.WithTLSCredentials(credentials.NewTLS(tlsConfig)))
	}

	if len(config.Headers) > 0 {
		opts = append(opts, otlploggrpc.WithHeaders(config.Headers))
	}

	exporter, err := otlploggrpc.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP log exporter: %w", err)
	}

	res, err := newResource(ctx, config.ServiceName)
	if err != nil {
		return nil, err
	}

	batchTimeout := time.Duration(config.BatchTimeout)
	if batchTimeout == 0 {
		batchTimeout = defaultBatchTimeout
	}

	provider := sdklog.NewLoggerProvider(
		sdklog.WithResource(res),
		sdklog.WithProcessor(sdklog.NewBatchProcessor(exporter, sdklog.WithExportTimeout(batchTimeout))),
	)

	otelProvider = provider
	global.SetLoggerProvider(provider)

	return &OTelWriter{
		provider: provider,
		loggers:  make(map[string]otellog.Logger),
		ctx:      ctx,
	}, nil
}

func newResource(ctx context.Context, serviceName string) (*resource.Resource, error) {
	if serviceName == "" {
		serviceName = defaultServiceName
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
			semconv.ServiceVersion(version.Version()),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	return res, nil
}

func (w *OTelWriter) Write(p []byte) (int, error) {
	if w.provider == nil {
		return len(p), nil
	}

	entry := make(map[string]interface{})
	if err := json.Unmarshal(p, &entry); err != nil {
		return len(p), nil
	}

	scope := w.scope(entry)
	scope.Emit(w.ctx, buildRecord(entry))

	return len(p), nil
}

func (w *OTelWriter) scope(entry map[string]interface{}) otellog.Logger {
	name := defaultScope

	if component, ok := entry["component"].(string); ok && component != "" {
		name = component

		delete(entry, "component")
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	l, ok := w.loggers[name]
	if !ok {
		l = w.provider.Logger(name)
		w.loggers[name] = l
	}

	return l
}

// buildRecord consumes the well-known zerolog fields and attaches the rest
// as string attributes.
func buildRecord(entry map[string]interface{}) otellog.Record {
	var record otellog.Record

	if ts, ok := entry["time"].(string); ok {
		if parsed, err := time.Parse(time.RFC3339, ts); err == nil {
			record.SetTimestamp(parsed)
			delete(entry, "time")
		}
	}

	if level, ok := entry["level"].(string); ok {
		record.SetSeverity(mapZerologLevelToOTel(level))
		record.SetSeverityText(level)
		delete(entry, "level")
	}

	if message, ok := entry["message"].(string); ok {
		record.SetBody(otellog.StringValue(message))
		delete(entry, "message")
	}

	for key, value := range entry {
		record.AddAttributes(otellog.String(key, formatAttributeValue(value)))
	}

	return record
}

func formatAttributeValue(value interface{}) string {
	var s string

	switch v := value.(type) {
	case nil:
		s = "null"
	case string:
		s = v
	case bool, float64:
		s = fmt.Sprint(v)
	default:
		b, err := json.Marshal(v)
		if err != nil {
			s = fmt.Sprintf("%v", v)
		} else {
			s = string(b)
		}
	}

	return truncateUTF8(s, maxAttributeValueBytes)
}

func truncateUTF8(s string, limit int) string {
	if len(s) <= limit {
		return s
	}

	s = s[:limit]
	for len(s) > 0 && !utf8.ValidString(s) {
		s = s[:len(s)-1]
	}

	return s
}

func mapZerologLevelToOTel(level string) otellog.Severity {
	switch strings.ToLower(level) {
	case "trace":
		return otellog.SeverityTrace
	case "debug":
		return otellog.SeverityDebug
	case "info":
		return otellog.SeverityInfo
	case "warn", "warning":
		return otellog.SeverityWarn
	case "error":
		return otellog.SeverityError
	case "fatal", "panic":
		return otellog.SeverityFatal
	default:
		return otellog.SeverityInfo
	}
}

// ShutdownOTel flushes and stops every OTel provider this package started.
func ShutdownOTel() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	var errs []error

	if otelProvider != nil {
		errs = append(errs, otelProvider.Shutdown(ctx))
		otelProvider = nil
	}

	errs = append(errs, shutdownMeterProvider(ctx), shutdownTracerProvider(ctx))

	return errors.Join(errs...)
}

func setupTLSConfig(tlsConfig *TLSConfig) (*tls.Config, error) {
	config := &tls.Config{
		MinVersion: tls.VersionTLS12,
	}

	if tlsConfig.CertFile != "" && tlsConfig.KeyFile != "" {
		cert, err := tls.LoadX509KeyPair(tlsConfig.CertFile, tlsConfig.KeyFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load client certificate: %w", err)
		}

		config.Certificates = []tls.Certificate{cert}
	}

	if tlsConfig.CAFile != "" {
		caCert, err := os.ReadFile(tlsConfig.CAFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read CA certificate: %w", err)
		}

		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(caCert) {
			return nil, errFailedToParseCACert
		}

		config.RootCAs = pool
	}

	return config, nil
}
