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

// Package poller schedules netinfo observers and hands the facts they
// report to a sink.
package poller

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/carverauto/netinfo/pkg/logger"
	"github.com/carverauto/netinfo/pkg/metrics"
	"github.com/carverauto/netinfo/pkg/netinfo"
)

const (
	DefaultInterval = 60 * time.Second
	DefaultTick     = time.Second

	tracerName = "github.com/carverauto/netinfo/pkg/poller"
)

// Config controls the scheduler loop. Tick is how often due observers are
// checked, so it bounds how late a sample can run.
type Config struct {
	Tick time.Duration
}

// Entry describes one registered observer.
type Entry struct {
	Name     string
	ID       netinfo.FactID
	Interval time.Duration
	Enabled  bool
	Polling  bool
	LastRun  time.Time
	Slots    map[int]netinfo.FactID
}

type slotReporter interface {
	Slots() map[int]netinfo.FactID
}

type entry struct {
	obs      netinfo.Observer
	interval time.Duration
	enabled  bool
	next     time.Time
	lastRun  time.Time
}

// Poller owns the observers and drives them from a single loop goroutine.
// Samples never overlap; Register, SetEnabled and SetInterval are safe to
// call concurrently with the loop.
type Poller struct {
	config   Config
	sink     netinfo.Sink
	clock    Clock
	logger   logger.Logger
	recorder metrics.Recorder
	readier  netinfo.Readier
	tracer   trace.Tracer

	mu      sync.Mutex
	entries map[string]*entry
	order   []string
	ready   bool
	started bool

	sampleMu  sync.Mutex
	done      chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup
}

type Option func(*Poller)

func WithRecorder(r metrics.Recorder) Option {
	return func(p *Poller) { p.recorder = r }
}

// WithReadier holds polling observers back until r reports ready.
// One-shot observers are not affected.
func WithReadier(r netinfo.Readier) Option {
	return func(p *Poller) { p.readier = r }
}

func WithTracer(t trace.Tracer) Option {
	return func(p *Poller) { p.tracer = t }
}

// New creates a poller. A nil clock uses the system clock.
func New(config Config, sink netinfo.Sink, clock Clock, log logger.Logger, opts ...Option) *Poller {
	if clock == nil {
		clock = realClock{}
	}

	if config.Tick <= 0 {
		config.Tick = DefaultTick
	}

	p := &Poller{
		config:   config,
		sink:     sink,
		clock:    clock,
		logger:   log,
		recorder: metrics.Noop{},
		entries:  make(map[string]*entry),
		done:     make(chan struct{}),
	}

	for _, opt := range opts {
		opt(p)
	}

	if p.tracer == nil {
		p.tracer = otel.Tracer(tracerName)
	}

	p.ready = p.readier == nil

	return p
}

// Register adds an observer. A non-positive interval uses DefaultInterval;
// the interval is ignored for one-shot observers.
func (p *Poller) Register(obs netinfo.Observer, interval time.Duration, enabled bool) error {
	if interval <= 0 {
		interval = DefaultInterval
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	name := obs.Name()
	if _, ok := p.entries[name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateObserver, name)
	}

	p.entries[name] = &entry{obs: obs, interval: interval, enabled: enabled}
	p.order = append(p.order, name)

	return nil
}

// SetEnabled turns an observer on or off. An observer turned on is due at
// the next tick.
func (p *Poller) SetEnabled(name string, enabled bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	e, ok := p.entries[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownObserver, name)
	}

	if enabled && !e.enabled {
		e.next = time.Time{}
	}

	e.enabled = enabled

	return nil
}

// SetInterval changes how often an observer is sampled. The new interval
// applies from the observer's next scheduled run.
func (p *Poller) SetInterval(name string, interval time.Duration) error {
	if interval <= 0 {
		return fmt.Errorf("%w: %s", ErrInvalidInterval, interval)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	e, ok := p.entries[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownObserver, name)
	}

	if !e.next.IsZero() {
		e.next = e.next.Add(interval - e.interval)
	}

	e.interval = interval

	return nil
}

// Entries returns the registered observers in registration order.
func (p *Poller) Entries() []Entry {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make([]Entry, 0, len(p.order))

	for _, name := range p.order {
		e := p.entries[name]
		info := Entry{
			Name:     name,
			ID:       e.obs.ID(),
			Interval: e.interval,
			Enabled:  e.enabled,
			Polling:  e.obs.Polling(),
			LastRun:  e.lastRun,
		}

		if sr, ok := e.obs.(slotReporter); ok {
			info.Slots = sr.Slots()
		}

		out = append(out, info)
	}

	return out
}

// DumpConfig logs every registered observer.
func (p *Poller) DumpConfig() {
	for _, e := range p.Entries() {
		ev := p.logger.Info().
			Str("observer", e.Name).
			Str("fact_id", string(e.ID)).
			Bool("enabled", e.Enabled)

		if e.Polling {
			ev = ev.Dur("interval", e.Interval)
		} else {
			ev = ev.Bool("one_shot", true)
		}

		if len(e.Slots) > 0 {
			slots := make([]int, 0, len(e.Slots))
			for i := range e.Slots {
				slots = append(slots, i)
			}

			sort.Ints(slots)

			for _, i := range slots {
				ev = ev.Str(fmt.Sprintf("slot_%d", i), string(e.Slots[i]))
			}
		}

		ev.Msg("Observer configured")
	}
}

// Start runs the enabled one-shot observers, then samples polling observers
// as they fall due until ctx ends or Stop is called.
func (p *Poller) Start(ctx context.Context) error {
	p.mu.Lock()
	if p.started {
		p.mu.Unlock()
		return ErrAlreadyStarted
	}

	p.started = true
	p.mu.Unlock()

	select {
	case <-p.done:
		return nil
	default:
	}

	p.wg.Add(1)
	defer p.wg.Done()

	ticker := p.clock.Ticker(p.config.Tick)
	defer ticker.Stop()

	p.logger.Info().Dur("tick", p.config.Tick).Msg("Starting poller")

	p.runOneShots(ctx)
	p.Poll(ctx)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-p.done:
			return nil
		case <-ticker.Chan():
			p.Poll(ctx)
		}
	}
}

// Stop ends the loop started by Start and waits for it to return.
func (p *Poller) Stop(ctx context.Context) error {
	p.closeOnce.Do(func() { close(p.done) })

	waited := make(chan struct{})

	go func() {
		p.wg.Wait()
		close(waited)
	}()

	select {
	case <-waited:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops the loop without waiting.
func (p *Poller) Close() error {
	p.closeOnce.Do(func() { close(p.done) })

	return nil
}

func (p *Poller) runOneShots(ctx context.Context) {
	for _, obs := range p.collect(func(e *entry) bool { return e.enabled && !e.obs.Polling() }, time.Time{}) {
		p.sample(ctx, obs)
	}
}

// Poll samples every enabled polling observer that is due.
func (p *Poller) Poll(ctx context.Context) {
	if !p.checkReady(ctx) {
		return
	}

	now := p.clock.Now()

	due := p.collect(func(e *entry) bool {
		return e.enabled && e.obs.Polling() && !now.Before(e.next)
	}, now)

	for _, obs := range due {
		p.sample(ctx, obs)
	}
}

func (p *Poller) checkReady(ctx context.Context) bool {
	p.mu.Lock()
	ready := p.ready
	p.mu.Unlock()

	if ready {
		return true
	}

	if !p.readier.Ready(ctx) {
		p.logger.Debug().Msg("Provider not ready, deferring polling observers")
		return false
	}

	p.mu.Lock()
	p.ready = true
	p.mu.Unlock()

	p.logger.Info().Msg("Provider ready, polling observers started")

	return true
}

// collect picks the entries matching want and, for a non-zero now,
// schedules their next run.
func (p *Poller) collect(want func(*entry) bool, now time.Time) []netinfo.Observer {
	p.mu.Lock()
	defer p.mu.Unlock()

	var out []netinfo.Observer

	for _, name := range p.order {
		e := p.entries[name]
		if !want(e) {
			continue
		}

		if !now.IsZero() {
			e.next = now.Add(e.interval)
			e.lastRun = now
		}

		out = append(out, e.obs)
	}

	return out
}

func (p *Poller) sample(ctx context.Context, obs netinfo.Observer) {
	p.sampleMu.Lock()
	defer p.sampleMu.Unlock()

	ctx, span := p.tracer.Start(ctx, "netinfo.sample",
		trace.WithAttributes(attribute.String("observer", obs.Name())))
	defer span.End()

	start := p.clock.Now()
	facts := obs.Sample(ctx)

	span.SetAttributes(attribute.Int("facts", len(facts)))

	failed := 0

	for _, fact := range facts {
		if err := p.sink.Publish(ctx, fact); err != nil {
			failed++

			p.recorder.RecordPublish(ctx, string(fact.Kind), metrics.OutcomeError)
			p.logger.Warn().Err(err).
				Str("fact_id", string(fact.ID)).
				Str("kind", string(fact.Kind)).
				Msg("Failed to publish fact")

			continue
		}

		p.recorder.RecordPublish(ctx, string(fact.Kind), metrics.OutcomeOK)
		p.logger.Debug().
			Str("fact_id", string(fact.ID)).
			Str("kind", string(fact.Kind)).
			Str("state", fact.State).
			Msg("Published fact")
	}

	if failed > 0 {
		span.SetStatus(codes.Error, fmt.Sprintf("%d of %d facts not published", failed, len(facts)))
	}

	p.recorder.RecordSample(ctx, obs.Name(), len(facts), p.clock.Now().Sub(start))
}
