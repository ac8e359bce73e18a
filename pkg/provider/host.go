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

// Package provider answers netinfo status queries from the host operating
// system and from radio snapshots published elsewhere.
package provider

import (
	"context"
	"net/netip"
	"strings"

	"github.com/miekg/dns"
	psnet "github.com/shirou/gopsutil/v3/net"

	"github.com/carverauto/netinfo/pkg/logger"
	"github.com/carverauto/netinfo/pkg/netinfo"
)

const DefaultResolvConf = "/etc/resolv.conf"

// HostConfig selects what Host observes.
type HostConfig struct {
	// Interface is the interface name; empty picks the first interface that
	// is up, not loopback, and has an address.
	Interface string
	// ResolvConf defaults to DefaultResolvConf.
	ResolvConf string
	// DeviceMAC overrides the interface hardware address as device identity.
	DeviceMAC netinfo.LinkAddress
}

// Host implements netinfo.Provider using gopsutil for interfaces,
// resolv.conf for resolvers and a RadioSource for wireless facts.
type Host struct {
	config HostConfig
	radio  RadioSource
	logger logger.Logger

	interfaces func(ctx context.Context) (psnet.InterfaceStatList, error)
	resolvConf func(path string) (*dns.ClientConfig, error)
}

var (
	_ netinfo.Provider = (*Host)(nil)
	_ netinfo.Readier  = (*Host)(nil)
)

// NewHost builds a Host. A nil radio reports no wireless association.
func NewHost(cfg HostConfig, radio RadioSource, log logger.Logger) *Host {
	if cfg.ResolvConf == "" {
		cfg.ResolvConf = DefaultResolvConf
	}

	if radio == nil {
		radio = NoRadio{}
	}

	return &Host{
		config:     cfg,
		radio:      radio,
		logger:     log,
		interfaces: psnet.InterfacesWithContext,
		resolvConf: dns.ClientConfigFromFile,
	}
}

func hasFlag(iface *psnet.InterfaceStat, flag string) bool {
	for _, f := range iface.Flags {
		if f == flag {
			return true
		}
	}

	return false
}

// iface returns the observed interface, or nil when it cannot be found.
func (h *Host) iface(ctx context.Context) *psnet.InterfaceStat {
	list, err := h.interfaces(ctx)
	if err != nil {
		h.logger.Debug().Err(err).Msg("Failed to list interfaces")
		return nil
	}

	for i := range list {
		it := &list[i]

		if h.config.Interface != "" {
			if it.Name == h.config.Interface {
				return it
			}

			continue
		}

		if hasFlag(it, "up") && !hasFlag(it, "loopback") && len(it.Addrs) > 0 {
			return it
		}
	}

	return nil
}

// Addresses reports up to netinfo.MaxAddresses addresses, IPv4 first, each
// family in the order the system lists them.
func (h *Host) Addresses(ctx context.Context) netinfo.AddressSet {
	it := h.iface(ctx)
	if it == nil {
		return netinfo.AddressSet{}
	}

	var v4, v6 []netip.Addr

	for _, a := range it.Addrs {
		addr, ok := parseInterfaceAddr(a.Addr)
		if !ok {
			continue
		}

		if addr.Is4() {
			v4 = append(v4, addr)
		} else {
			v6 = append(v6, addr)
		}
	}

	return netinfo.NewAddressSet(append(v4, v6...)...)
}

// parseInterfaceAddr accepts "addr/bits" or a bare address.
func parseInterfaceAddr(s string) (netip.Addr, bool) {
	if strings.Contains(s, "/") {
		prefix, err := netip.ParsePrefix(s)
		if err != nil {
			return netip.Addr{}, false
		}

		return prefix.Addr().Unmap(), true
	}

	addr, err := netip.ParseAddr(s)
	if err != nil {
		return netip.Addr{}, false
	}

	return addr.Unmap(), true
}

// Resolvers reports the first two usable nameservers from resolv.conf.
func (h *Host) Resolvers(context.Context) netinfo.ResolverPair {
	cc, err := h.resolvConf(h.config.ResolvConf)
	if err != nil {
		h.logger.Debug().Err(err).Str("path", h.config.ResolvConf).Msg("Failed to read resolver configuration")
		return netinfo.ResolverPair{}
	}

	var found []netip.Addr

	for _, s := range cc.Servers {
		addr, err := netip.ParseAddr(s)
		if err != nil {
			continue
		}

		found = append(found, addr.WithZone(""))
		if len(found) == 2 {
			break
		}
	}

	var pair netinfo.ResolverPair

	if len(found) > 0 {
		pair.Primary = found[0]
	}

	if len(found) > 1 {
		pair.Secondary = found[1]
	}

	return pair
}

func (h *Host) NetworkName(ctx context.Context) string {
	return h.radio.Radio(ctx).SSID
}

func (h *Host) LinkAddress(ctx context.Context) netinfo.LinkAddress {
	return h.radio.Radio(ctx).BSSID
}

func (h *Host) ScanResults(ctx context.Context) []netinfo.ScanRecord {
	return h.radio.Radio(ctx).Scan
}

// DeviceAddress is the configured DeviceMAC, else the interface's
// hardware address.
func (h *Host) DeviceAddress(ctx context.Context) netinfo.LinkAddress {
	if !h.config.DeviceMAC.IsZero() {
		return h.config.DeviceMAC
	}

	it := h.iface(ctx)
	if it == nil || it.HardwareAddr == "" {
		return netinfo.LinkAddress{}
	}

	addr, err := netinfo.ParseLinkAddress(it.HardwareAddr)
	if err != nil {
		h.logger.Debug().Err(err).Str("interface", it.Name).Msg("Unusable hardware address")
		return netinfo.LinkAddress{}
	}

	return addr
}

// Ready reports whether the observed interface is up with an address.
func (h *Host) Ready(ctx context.Context) bool {
	it := h.iface(ctx)

	return it != nil && hasFlag(it, "up") && len(it.Addrs) > 0
}
