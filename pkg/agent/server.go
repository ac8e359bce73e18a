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

// Package agent assembles the netinfo provider, observers, sinks and poller
// from a Config and runs them as one service.
package agent

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"go.opentelemetry.io/otel/trace"

	"github.com/carverauto/netinfo/pkg/kv"
	"github.com/carverauto/netinfo/pkg/logger"
	"github.com/carverauto/netinfo/pkg/metrics"
	"github.com/carverauto/netinfo/pkg/natsutil"
	"github.com/carverauto/netinfo/pkg/netinfo"
	"github.com/carverauto/netinfo/pkg/poller"
	"github.com/carverauto/netinfo/pkg/provider"
	"github.com/carverauto/netinfo/pkg/sink"
)

// Server runs the netinfo observers configured by a Config.
type Server struct {
	config *Config
	logger logger.Logger

	provider netinfo.Provider
	device   netinfo.LinkAddress
	poller   *poller.Poller

	clock     poller.Clock
	recorder  metrics.Recorder
	tracer    trace.Tracer
	factsSize int
	facts     *sink.ChannelSink

	nc        *nats.Conn
	js        jetstream.JetStream
	store     kv.Store
	fileRadio *provider.FileRadioSource

	runCtx context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	mu     sync.Mutex
}

type Option func(*Server)

// WithProvider replaces the host provider built from the config.
func WithProvider(p netinfo.Provider) Option {
	return func(s *Server) { s.provider = p }
}

func WithClock(c poller.Clock) Option {
	return func(s *Server) { s.clock = c }
}

func WithRecorder(r metrics.Recorder) Option {
	return func(s *Server) { s.recorder = r }
}

func WithTracer(t trace.Tracer) Option {
	return func(s *Server) { s.tracer = t }
}

// WithFactChannel also publishes every fact to a buffered channel read
// through Facts.
func WithFactChannel(size int) Option {
	return func(s *Server) { s.factsSize = size }
}

// NewServer connects the configured backends and registers every observer.
// cfg must already be validated.
func NewServer(ctx context.Context, cfg *Config, log logger.Logger, opts ...Option) (*Server, error) {
	s := &Server{
		config:   cfg,
		logger:   log,
		recorder: metrics.Noop{},
	}

	for _, opt := range opts {
		opt(s)
	}

	// Background goroutines outlive ctx and end on Stop.
	s.runCtx, s.cancel = context.WithCancel(context.WithoutCancel(ctx))

	if err := s.setup(ctx); err != nil {
		s.closeBackends()
		s.cancel()

		return nil, err
	}

	return s, nil
}

func (s *Server) setup(ctx context.Context) error {
	if s.config.UsesNATS() {
		if err := s.connectNATS(ctx); err != nil {
			return err
		}
	}

	if s.provider == nil {
		radio, err := s.radioSource(s.runCtx)
		if err != nil {
			return err
		}

		var mac netinfo.LinkAddress
		if s.config.DeviceMAC != "" {
			mac, _ = netinfo.ParseLinkAddress(s.config.DeviceMAC)
		}

		s.provider = provider.NewHost(provider.HostConfig{
			Interface:  s.config.Interface,
			ResolvConf: s.config.ResolvConf,
			DeviceMAC:  mac,
		}, radio, s.logger)
	}

	s.device = s.provider.DeviceAddress(ctx)
	if s.device.IsZero() {
		s.logger.Warn().Msg("Device address unknown, fact IDs will use a zero address")
	}

	fanout, err := s.sinks(ctx)
	if err != nil {
		return err
	}

	pollerOpts := []poller.Option{poller.WithRecorder(s.recorder)}

	if r, ok := s.provider.(netinfo.Readier); ok {
		pollerOpts = append(pollerOpts, poller.WithReadier(r))
	}

	if s.tracer != nil {
		pollerOpts = append(pollerOpts, poller.WithTracer(s.tracer))
	}

	s.poller = poller.New(poller.Config{Tick: time.Duration(s.config.Tick)}, fanout, s.clock, s.logger, pollerOpts...)

	return s.registerObservers()
}

func (s *Server) connectNATS(ctx context.Context) error {
	nc, err := natsutil.Connect(s.config.NATS, s.logger)
	if err != nil {
		return err
	}

	s.nc = nc

	js, err := natsutil.JetStream(nc, s.config.NATS.Domain)
	if err != nil {
		return err
	}

	s.js = js

	if s.config.Sink.KV || s.config.Radio.Source == RadioSourceKV {
		store, err := kv.NewNatsStore(ctx, js, kv.BucketConfig{Bucket: s.config.NATS.Bucket}, s.logger)
		if err != nil {
			return err
		}

		s.store = store
	}

	return nil
}

func (s *Server) radioSource(ctx context.Context) (provider.RadioSource, error) {
	switch s.config.Radio.Source {
	case RadioSourceKV:
		return provider.NewKVRadioSource(ctx, s.store, s.config.Radio.Key, s.logger)
	case RadioSourceFile:
		src, err := provider.NewFileRadioSource(s.config.Radio.Path, s.logger)
		if err != nil {
			return nil, err
		}

		s.fileRadio = src

		return src, nil
	default:
		return provider.NoRadio{}, nil
	}
}

func (s *Server) sinks(ctx context.Context) (sink.Fanout, error) {
	var out sink.Fanout

	if s.config.Sink.KV {
		out = append(out, sink.NewKVSink(s.store))
	}

	if s.config.Sink.Events {
		publisher, err := natsutil.CreateEventPublisher(ctx, s.js, s.config.NATS.Events)
		if err != nil {
			return nil, err
		}

		out = append(out, sink.NewEventSink(publisher, s.device))
	}

	if s.config.Sink.Log || len(out) == 0 {
		out = append(out, sink.NewLogSink(s.logger))
	}

	if s.factsSize > 0 {
		s.facts = sink.NewChannelSink(s.factsSize)
		out = append(out, s.facts)
	}

	return out, nil
}

func (s *Server) registerObservers() error {
	for _, kind := range netinfo.Kinds {
		oc := s.config.Observer(kind)

		id := netinfo.FactID(oc.ID)
		if id == "" {
			id = netinfo.DefaultFactID(s.device, kind)
		}

		obs, err := s.newObserver(kind, id, oc)
		if err != nil {
			return err
		}

		if err := s.poller.Register(obs, oc.interval(), oc.IsEnabled()); err != nil {
			return err
		}
	}

	return nil
}

func (s *Server) newObserver(kind netinfo.FactKind, id netinfo.FactID, oc ObserverConfig) (netinfo.Observer, error) {
	switch kind {
	case netinfo.KindAddress:
		obs := netinfo.NewAddressObserver(s.provider, id)

		for _, slot := range oc.Slots {
			slotID := netinfo.FactID(slot.ID)
			if slotID == "" {
				slotID = netinfo.DefaultSlotID(s.device, slot.Index)
			}

			if err := obs.AttachSlot(slot.Index, slotID); err != nil {
				return nil, err
			}
		}

		return obs, nil
	case netinfo.KindResolvers:
		return netinfo.NewResolverObserver(s.provider, id), nil
	case netinfo.KindNetworkName:
		return netinfo.NewNetworkNameObserver(s.provider, id), nil
	case netinfo.KindLinkAddress:
		return netinfo.NewLinkAddressObserver(s.provider, id), nil
	case netinfo.KindScanResults:
		return netinfo.NewScanObserver(s.provider, id), nil
	case netinfo.KindMACAddress:
		return netinfo.NewIdentityObserver(s.provider, id), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownObserver, kind)
	}
}

// Start runs the poller until ctx ends or Stop is called. A file radio
// source is followed until Stop.
func (s *Server) Start(ctx context.Context) error {
	if s.fileRadio != nil {
		s.wg.Add(1)

		go func() {
			defer s.wg.Done()

			if err := s.fileRadio.Watch(s.runCtx); err != nil && !errors.Is(err, context.Canceled) {
				s.logger.Error().Err(err).Msg("Radio file watch ended")
			}
		}()
	}

	s.logger.Info().Str("device", s.device.String()).Msg("Starting netinfo agent")
	s.poller.DumpConfig()

	return s.poller.Start(ctx)
}

// Stop ends the poller and releases NATS resources.
func (s *Server) Stop(ctx context.Context) error {
	err := s.poller.Stop(ctx)

	s.cancel()
	s.closeBackends()

	waited := make(chan struct{})

	go func() {
		s.wg.Wait()
		close(waited)
	}()

	select {
	case <-waited:
	case <-ctx.Done():
		return ctx.Err()
	}

	return err
}

func (s *Server) closeBackends() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.store != nil {
		if err := s.store.Close(); err != nil {
			s.logger.Warn().Err(err).Msg("Failed to close KV store")
		}

		s.store = nil
	}

	if s.nc != nil {
		if err := s.nc.Drain(); err != nil {
			s.logger.Warn().Err(err).Msg("Failed to drain NATS connection")
		}

		s.nc = nil
	}
}

// ApplyConfig applies observer enable flags and intervals from cfg to the
// running poller. Other settings need a restart.
func (s *Server) ApplyConfig(cfg *Config) error {
	var errs []error

	for _, kind := range netinfo.Kinds {
		oc := cfg.Observer(kind)
		name := string(kind)

		if err := s.poller.SetEnabled(name, oc.IsEnabled()); err != nil {
			errs = append(errs, err)
		}

		interval := oc.interval()
		if interval == 0 {
			interval = poller.DefaultInterval
		}

		if err := s.poller.SetInterval(name, interval); err != nil {
			errs = append(errs, err)
		}
	}

	if err := errors.Join(errs...); err != nil {
		return err
	}

	s.logger.Info().Msg("Observer configuration reloaded")
	s.poller.DumpConfig()

	return nil
}

// Entries lists the registered observers.
func (s *Server) Entries() []poller.Entry {
	return s.poller.Entries()
}

// Facts returns published facts when WithFactChannel was given, else nil.
func (s *Server) Facts() <-chan netinfo.Fact {
	if s.facts == nil {
		return nil
	}

	return s.facts.Facts()
}

// Device is the link-layer address fact IDs are derived from.
func (s *Server) Device() netinfo.LinkAddress {
	return s.device
}
