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

package agent

import (
	"context"
	"net/netip"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/carverauto/netinfo/pkg/logger"
	"github.com/carverauto/netinfo/pkg/models"
	"github.com/carverauto/netinfo/pkg/natstest"
	"github.com/carverauto/netinfo/pkg/netinfo"
	"github.com/carverauto/netinfo/pkg/poller"
)

var (
	testDevice = netinfo.LinkAddress{0xAA, 0xBB, 0xCC, 0xDD, 0xEE, 0xFF}
	testBSSID  = netinfo.LinkAddress{0x00, 0x01, 0x02, 0x03, 0x04, 0x05}
)

func staticProvider(ctrl *gomock.Controller) *netinfo.MockProvider {
	p := netinfo.NewMockProvider(ctrl)

	p.EXPECT().Addresses(gomock.Any()).Return(netinfo.NewAddressSet(
		netip.MustParseAddr("10.0.0.5"),
		netip.MustParseAddr("fe80::1"),
	)).AnyTimes()
	p.EXPECT().Resolvers(gomock.Any()).Return(netinfo.ResolverPair{
		Primary:   netip.MustParseAddr("1.1.1.1"),
		Secondary: netip.MustParseAddr("8.8.8.8"),
	}).AnyTimes()
	p.EXPECT().NetworkName(gomock.Any()).Return("HomeNet").AnyTimes()
	p.EXPECT().LinkAddress(gomock.Any()).Return(testBSSID).AnyTimes()
	p.EXPECT().ScanResults(gomock.Any()).Return([]netinfo.ScanRecord{
		{SSID: "HomeNet", BSSID: testBSSID, RSSI: -50},
	}).AnyTimes()
	p.EXPECT().DeviceAddress(gomock.Any()).Return(testDevice).AnyTimes()

	return p
}

func startServer(t *testing.T, s *Server) {
	t.Helper()

	errCh := make(chan error, 1)

	go func() { errCh <- s.Start(context.Background()) }()

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		require.NoError(t, s.Stop(ctx))
		require.NoError(t, <-errCh)
	})
}

func collectFacts(t *testing.T, ch <-chan netinfo.Fact, n int) []netinfo.Fact {
	t.Helper()

	var out []netinfo.Fact

	timeout := time.After(5 * time.Second)

	for len(out) < n {
		select {
		case f := <-ch:
			out = append(out, f)
		case <-timeout:
			t.Fatalf("got %d of %d facts: %v", len(out), n, out)
		}
	}

	return out
}

func TestServerPublishesEveryFactOnce(t *testing.T) {
	ctrl := gomock.NewController(t)

	cfg := &Config{
		Tick: models.Duration(10 * time.Millisecond),
		Observers: map[string]ObserverConfig{
			"ip": {Slots: []SlotConfig{{Index: 1}}},
		},
	}
	require.NoError(t, cfg.Validate())

	s, err := NewServer(context.Background(), cfg, logger.NewTestLogger(),
		WithProvider(staticProvider(ctrl)), WithFactChannel(32))
	require.NoError(t, err)
	assert.Equal(t, testDevice, s.Device())

	startServer(t, s)

	facts := collectFacts(t, s.Facts(), 7)

	assert.Equal(t, []netinfo.Fact{
		{ID: "aabbccddeeff-wifiinfo-macadr", Kind: netinfo.KindMACAddress, State: "AA:BB:CC:DD:EE:FF"},
		{ID: "aabbccddeeff-wifiinfo-ip", Kind: netinfo.KindAddress, State: "10.0.0.5"},
		{ID: "aabbccddeeff-wifiinfo-ip1", Kind: netinfo.KindAddress, State: "fe80::1"},
		{ID: "aabbccddeeff-wifiinfo-dns", Kind: netinfo.KindResolvers, State: "1.1.1.1 8.8.8.8"},
		{ID: "aabbccddeeff-wifiinfo-ssid", Kind: netinfo.KindNetworkName, State: "HomeNet"},
		{ID: "aabbccddeeff-wifiinfo-bssid", Kind: netinfo.KindLinkAddress, State: "00:01:02:03:04:05"},
		{ID: "aabbccddeeff-wifiinfo-scanresults", Kind: netinfo.KindScanResults, State: "HomeNet: -50dB"},
	}, facts)

	// Unchanged values are not published again.
	select {
	case f := <-s.Facts():
		t.Fatalf("unexpected fact %v", f)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestServerObserverConfig(t *testing.T) {
	ctrl := gomock.NewController(t)
	disabled := false

	cfg := &Config{
		Observers: map[string]ObserverConfig{
			"ssid": {Enabled: &disabled},
			"dns":  {Interval: models.Duration(5 * time.Minute), ID: "resolvers"},
		},
	}
	require.NoError(t, cfg.Validate())

	s, err := NewServer(context.Background(), cfg, logger.NewTestLogger(), WithProvider(staticProvider(ctrl)))
	require.NoError(t, err)
	assert.Nil(t, s.Facts())

	entries := make(map[string]poller.Entry)
	for _, e := range s.Entries() {
		entries[e.Name] = e
	}

	require.Len(t, entries, len(netinfo.Kinds))
	assert.False(t, entries["ssid"].Enabled)
	assert.Equal(t, 5*time.Minute, entries["dns"].Interval)
	assert.Equal(t, netinfo.FactID("resolvers"), entries["dns"].ID)
	assert.Equal(t, poller.DefaultInterval, entries["ip"].Interval)
	assert.False(t, entries["mac_address"].Polling)

	reloaded := &Config{
		Observers: map[string]ObserverConfig{
			"dns": {Interval: models.Duration(time.Minute)},
		},
	}
	require.NoError(t, s.ApplyConfig(reloaded))

	entries = make(map[string]poller.Entry)
	for _, e := range s.Entries() {
		entries[e.Name] = e
	}

	assert.True(t, entries["ssid"].Enabled)
	assert.Equal(t, time.Minute, entries["dns"].Interval)
}

func TestServerPublishesToNATS(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	srv := natstest.RunJetStreamServer(t)
	ctrl := gomock.NewController(t)

	cfg := &Config{
		Tick: models.Duration(10 * time.Millisecond),
		Sink: SinkConfig{KV: true, Events: true},
		NATS: &models.NATSConfig{URL: srv.ClientURL(), Bucket: "netinfo"},
	}
	require.NoError(t, cfg.Validate())

	s, err := NewServer(ctx, cfg, logger.NewTestLogger(), WithProvider(staticProvider(ctrl)))
	require.NoError(t, err)

	startServer(t, s)

	_, js := natstest.Connect(t, srv)

	bucket, err := js.KeyValue(ctx, "netinfo")
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		entry, err := bucket.Get(ctx, "aabbccddeeff-wifiinfo-ssid")
		return err == nil && string(entry.Value()) == "HomeNet"
	}, 5*time.Second, 20*time.Millisecond)

	stream, err := js.Stream(ctx, models.DefaultEventsStream)
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		msg, err := stream.GetLastMsgForSubject(ctx, "events.netinfo.scan_results")
		return err == nil && len(msg.Data) > 0
	}, 5*time.Second, 20*time.Millisecond)
}
