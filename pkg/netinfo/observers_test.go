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

package netinfo

import (
	"context"
	"net/netip"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestAddressObserverPublishesOnChangeOnly(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	provider := NewMockProvider(ctrl)
	obs := NewAddressObserver(provider, "dev-wifiinfo-ip")

	a := NewAddressSet(netip.MustParseAddr("192.0.2.10"))
	b := NewAddressSet(netip.MustParseAddr("192.0.2.11"))

	gomock.InOrder(
		provider.EXPECT().Addresses(gomock.Any()).Return(a),
		provider.EXPECT().Addresses(gomock.Any()).Return(a),
		provider.EXPECT().Addresses(gomock.Any()).Return(b),
	)

	ctx := context.Background()

	assert.Equal(t, []Fact{{ID: "dev-wifiinfo-ip", Kind: KindAddress, State: "192.0.2.10"}}, obs.Sample(ctx))
	assert.Empty(t, obs.Sample(ctx), "unchanged set must not publish")
	assert.Equal(t, []Fact{{ID: "dev-wifiinfo-ip", Kind: KindAddress, State: "192.0.2.11"}}, obs.Sample(ctx))
}

func TestAddressObserverEmptyFirstSample(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	provider := NewMockProvider(ctrl)
	provider.EXPECT().Addresses(gomock.Any()).Return(AddressSet{})

	obs := NewAddressObserver(provider, "dev-wifiinfo-ip")
	assert.Empty(t, obs.Sample(context.Background()), "an all-unset set equals the initial baseline")
}

func TestAddressObserverSlots(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	provider := NewMockProvider(ctrl)
	obs := NewAddressObserver(provider, "ip")

	require.NoError(t, obs.AttachSlot(0, "ip0"))
	require.NoError(t, obs.AttachSlot(1, "ip1"))
	require.NoError(t, obs.AttachSlot(3, "ip3"))
	require.ErrorIs(t, obs.AttachSlot(MaxAddresses, "ip5"), ErrSlotOutOfRange)
	require.ErrorIs(t, obs.AttachSlot(-1, "ipx"), ErrSlotOutOfRange)
	require.ErrorIs(t, obs.AttachSlot(2, ""), ErrEmptyFactID)

	assert.Equal(t, map[int]FactID{0: "ip0", 1: "ip1", 3: "ip3"}, obs.Slots())

	// Provider slot 1 is unset, so the IPv6 address in provider slot 2
	// takes index 1 and the one in provider slot 3 takes index 2.
	set := NewAddressSet(
		netip.MustParseAddr("192.0.2.10"),
		netip.Addr{},
		netip.MustParseAddr("2001:db8::10"),
		netip.MustParseAddr("fe80::1"),
	)
	provider.EXPECT().Addresses(gomock.Any()).Return(set)

	facts := obs.Sample(context.Background())

	assert.Equal(t, []Fact{
		{ID: "ip", Kind: KindAddress, State: "192.0.2.10"},
		{ID: "ip0", Kind: KindAddress, State: "192.0.2.10"},
		{ID: "ip1", Kind: KindAddress, State: "2001:db8::10"},
	}, facts, "index 2 has no target and is dropped")
}

func TestAddressObserverUnsetPrimary(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	provider := NewMockProvider(ctrl)
	obs := NewAddressObserver(provider, "ip")
	require.NoError(t, obs.AttachSlot(0, "ip0"))

	var set AddressSet
	set[2] = netip.MustParseAddr("2001:db8::2")

	provider.EXPECT().Addresses(gomock.Any()).Return(set)

	assert.Equal(t, []Fact{
		{ID: "ip", Kind: KindAddress, State: ""},
		{ID: "ip0", Kind: KindAddress, State: "2001:db8::2"},
	}, obs.Sample(context.Background()))
}

func TestResolverObserver(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	provider := NewMockProvider(ctrl)
	obs := NewResolverObserver(provider, "dns")

	pair := ResolverPair{
		Primary:   netip.MustParseAddr("192.0.2.53"),
		Secondary: netip.MustParseAddr("198.51.100.53"),
	}

	gomock.InOrder(
		provider.EXPECT().Resolvers(gomock.Any()).Return(ResolverPair{}),
		provider.EXPECT().Resolvers(gomock.Any()).Return(ResolverPair{}),
		provider.EXPECT().Resolvers(gomock.Any()).Return(pair),
		provider.EXPECT().Resolvers(gomock.Any()).Return(pair),
	)

	ctx := context.Background()

	assert.Equal(t, []Fact{{ID: "dns", Kind: KindResolvers, State: " "}}, obs.Sample(ctx),
		"two unset resolvers render as a single space, which differs from the empty baseline")
	assert.Empty(t, obs.Sample(ctx))
	assert.Equal(t, []Fact{{ID: "dns", Kind: KindResolvers, State: "192.0.2.53 198.51.100.53"}}, obs.Sample(ctx))
	assert.Empty(t, obs.Sample(ctx))
}

func TestNetworkNameObserver(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	provider := NewMockProvider(ctrl)
	obs := NewNetworkNameObserver(provider, "ssid")

	gomock.InOrder(
		provider.EXPECT().NetworkName(gomock.Any()).Return(""),
		provider.EXPECT().NetworkName(gomock.Any()).Return("home"),
		provider.EXPECT().NetworkName(gomock.Any()).Return("home"),
		provider.EXPECT().NetworkName(gomock.Any()).Return("office"),
		provider.EXPECT().NetworkName(gomock.Any()).Return(""),
	)

	ctx := context.Background()

	assert.Empty(t, obs.Sample(ctx), "unassociated first sample equals the baseline")
	assert.Equal(t, []Fact{{ID: "ssid", Kind: KindNetworkName, State: "home"}}, obs.Sample(ctx))
	assert.Empty(t, obs.Sample(ctx))
	assert.Equal(t, []Fact{{ID: "ssid", Kind: KindNetworkName, State: "office"}}, obs.Sample(ctx))
	assert.Equal(t, []Fact{{ID: "ssid", Kind: KindNetworkName, State: ""}}, obs.Sample(ctx))
}

func TestLinkAddressObserver(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	provider := NewMockProvider(ctrl)
	obs := NewLinkAddressObserver(provider, "bssid")

	first := LinkAddress{0, 1, 2, 3, 4, 5}
	second := LinkAddress{0, 1, 2, 3, 4, 6}

	gomock.InOrder(
		provider.EXPECT().LinkAddress(gomock.Any()).Return(first),
		provider.EXPECT().LinkAddress(gomock.Any()).Return(first),
		provider.EXPECT().LinkAddress(gomock.Any()).Return(second),
	)

	ctx := context.Background()

	assert.Equal(t, []Fact{{ID: "bssid", Kind: KindLinkAddress, State: "00:01:02:03:04:05"}}, obs.Sample(ctx))
	assert.Empty(t, obs.Sample(ctx))
	assert.Equal(t, []Fact{{ID: "bssid", Kind: KindLinkAddress, State: "00:01:02:03:04:06"}}, obs.Sample(ctx))
}

func TestScanObserver(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	provider := NewMockProvider(ctrl)
	obs := NewScanObserver(provider, "scan")

	scanA := []ScanRecord{{SSID: "Solo", BSSID: LinkAddress{1}, RSSI: -40}}
	// Reordering the same visible networks changes the summary.
	scanB := []ScanRecord{
		{SSID: "Other", BSSID: LinkAddress{2}, RSSI: -70},
		{SSID: "Solo", BSSID: LinkAddress{1}, RSSI: -40},
	}

	gomock.InOrder(
		provider.EXPECT().ScanResults(gomock.Any()).Return(nil),
		provider.EXPECT().ScanResults(gomock.Any()).Return(scanA),
		provider.EXPECT().ScanResults(gomock.Any()).Return(scanA),
		provider.EXPECT().ScanResults(gomock.Any()).Return(scanB),
		provider.EXPECT().ScanResults(gomock.Any()).Return(append(scanB, ScanRecord{SSID: "Other", Hidden: true})),
	)

	ctx := context.Background()

	assert.Empty(t, obs.Sample(ctx), "an empty scan equals the baseline")
	assert.Equal(t, []Fact{{ID: "scan", Kind: KindScanResults, State: "Solo: -40dB"}}, obs.Sample(ctx))
	assert.Empty(t, obs.Sample(ctx))
	assert.Equal(t, []Fact{{ID: "scan", Kind: KindScanResults, State: "Other: -70dB | Solo: -40dB"}}, obs.Sample(ctx))
	assert.Empty(t, obs.Sample(ctx), "a new hidden record does not change the summary")
}

func TestIdentityObserver(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	provider := NewMockProvider(ctrl)
	provider.EXPECT().DeviceAddress(gomock.Any()).Return(LinkAddress{0x24, 0x0a, 0xc4, 0x12, 0x34, 0x56}).Times(2)

	obs := NewIdentityObserver(provider, "mac")
	assert.False(t, obs.Polling())

	want := []Fact{{ID: "mac", Kind: KindMACAddress, State: "24:0A:C4:12:34:56"}}
	assert.Equal(t, want, obs.Sample(context.Background()))
	assert.Equal(t, want, obs.Sample(context.Background()), "no gate: every sample publishes")
}

func TestObserverNames(t *testing.T) {
	t.Parallel()

	observers := []Observer{
		NewAddressObserver(nil, "a"),
		NewResolverObserver(nil, "b"),
		NewNetworkNameObserver(nil, "c"),
		NewLinkAddressObserver(nil, "d"),
		NewScanObserver(nil, "e"),
		NewIdentityObserver(nil, "f"),
	}

	for i, obs := range observers {
		assert.Equal(t, string(Kinds[i]), obs.Name())
	}
}
