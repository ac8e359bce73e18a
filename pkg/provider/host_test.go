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

package provider

import (
	"context"
	"errors"
	"net/netip"
	"os"
	"path/filepath"
	"testing"

	psnet "github.com/shirou/gopsutil/v3/net"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carverauto/netinfo/pkg/logger"
	"github.com/carverauto/netinfo/pkg/netinfo"
)

var errNoNetlink = errors.New("netlink unavailable")

func fakeInterfaces(list psnet.InterfaceStatList, err error) func(context.Context) (psnet.InterfaceStatList, error) {
	return func(context.Context) (psnet.InterfaceStatList, error) {
		return list, err
	}
}

func addrs(ss ...string) psnet.InterfaceAddrList {
	out := make(psnet.InterfaceAddrList, 0, len(ss))
	for _, s := range ss {
		out = append(out, psnet.InterfaceAddr{Addr: s})
	}

	return out
}

var testInterfaces = psnet.InterfaceStatList{
	{Name: "lo", Flags: []string{"up", "loopback"}, Addrs: addrs("127.0.0.1/8", "::1/128")},
	{Name: "eth0", Flags: []string{"broadcast"}, HardwareAddr: "00:11:22:33:44:55"},
	{
		Name:         "wlan0",
		Flags:        []string{"up", "broadcast", "multicast"},
		HardwareAddr: "aa:bb:cc:dd:ee:ff",
		Addrs: addrs(
			"fe80::1/64",
			"192.168.1.20/24",
			"2001:db8::20/64",
			"10.0.0.5/8",
			"not-an-address",
			"2001:db8::21/64",
			"2001:db8::22/64",
		),
	},
}

func newTestHost(t *testing.T, cfg HostConfig) *Host {
	t.Helper()

	h := NewHost(cfg, nil, logger.NewTestLogger())
	h.interfaces = fakeInterfaces(testInterfaces, nil)

	return h
}

func TestHostAddressesIPv4First(t *testing.T) {
	h := newTestHost(t, HostConfig{Interface: "wlan0"})

	got := h.Addresses(context.Background())

	want := netinfo.NewAddressSet(
		netip.MustParseAddr("192.168.1.20"),
		netip.MustParseAddr("10.0.0.5"),
		netip.MustParseAddr("fe80::1"),
		netip.MustParseAddr("2001:db8::20"),
		netip.MustParseAddr("2001:db8::21"),
	)
	assert.Equal(t, want, got)
}

func TestHostPicksFirstUsableInterface(t *testing.T) {
	h := newTestHost(t, HostConfig{})

	assert.Equal(t, netip.MustParseAddr("192.168.1.20"), h.Addresses(context.Background()).Primary())
	assert.Equal(t, "AA:BB:CC:DD:EE:FF", h.DeviceAddress(context.Background()).String())
	assert.True(t, h.Ready(context.Background()))
}

func TestHostUnknownInterfaceIsUnset(t *testing.T) {
	h := newTestHost(t, HostConfig{Interface: "wlan9"})

	assert.Equal(t, netinfo.AddressSet{}, h.Addresses(context.Background()))
	assert.True(t, h.DeviceAddress(context.Background()).IsZero())
	assert.False(t, h.Ready(context.Background()))
}

func TestHostInterfaceDownIsNotReady(t *testing.T) {
	h := newTestHost(t, HostConfig{Interface: "eth0"})

	assert.False(t, h.Ready(context.Background()))
	assert.Equal(t, "00:11:22:33:44:55", h.DeviceAddress(context.Background()).String())
}

func TestHostListErrorDegradesToUnset(t *testing.T) {
	h := newTestHost(t, HostConfig{Interface: "wlan0"})
	h.interfaces = fakeInterfaces(nil, errNoNetlink)

	assert.Equal(t, netinfo.AddressSet{}, h.Addresses(context.Background()))
	assert.False(t, h.Ready(context.Background()))
}

func TestHostDeviceMACOverride(t *testing.T) {
	mac := netinfo.LinkAddress{0x02, 0, 0, 0, 0, 0x01}
	h := newTestHost(t, HostConfig{Interface: "wlan0", DeviceMAC: mac})

	assert.Equal(t, mac, h.DeviceAddress(context.Background()))
}

func TestHostResolvers(t *testing.T) {
	dir := t.TempDir()

	write := func(name, body string) string {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

		return path
	}

	tests := []struct {
		name string
		body string
		want string
	}{
		{
			name: "two servers",
			body: "search lan\nnameserver 192.168.1.1\nnameserver 1.1.1.1\nnameserver 8.8.8.8\n",
			want: "192.168.1.1 1.1.1.1",
		},
		{name: "one server", body: "nameserver fe80::1%wlan0\n", want: "fe80::1 "},
		{name: "none", body: "options ndots:2\n", want: " "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestHost(t, HostConfig{ResolvConf: write(tt.name+".conf", tt.body)})
			assert.Equal(t, tt.want, h.Resolvers(context.Background()).String())
		})
	}

	missing := newTestHost(t, HostConfig{ResolvConf: filepath.Join(dir, "absent.conf")})
	assert.Equal(t, netinfo.ResolverPair{}, missing.Resolvers(context.Background()))
}

type staticRadio RadioState

func (s staticRadio) Radio(context.Context) RadioState { return RadioState(s) }

func TestHostDelegatesRadio(t *testing.T) {
	state := RadioState{
		SSID:  "HomeNet",
		BSSID: netinfo.LinkAddress{1, 2, 3, 4, 5, 6},
		Scan:  []netinfo.ScanRecord{{SSID: "HomeNet", RSSI: -50}},
	}

	h := NewHost(HostConfig{}, staticRadio(state), logger.NewTestLogger())

	assert.Equal(t, "HomeNet", h.NetworkName(context.Background()))
	assert.Equal(t, state.BSSID, h.LinkAddress(context.Background()))
	assert.Equal(t, state.Scan, h.ScanResults(context.Background()))

	noRadio := NewHost(HostConfig{}, nil, logger.NewTestLogger())
	assert.Empty(t, noRadio.NetworkName(context.Background()))
	assert.Nil(t, noRadio.ScanResults(context.Background()))
}
