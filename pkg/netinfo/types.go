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
	"encoding/hex"
	"fmt"
	"net"
	"net/netip"
)

const (
	// MaxAddresses is the number of address slots a provider reports.
	MaxAddresses = 5

	// MaxStateLength is the longest state string a sink accepts.
	MaxStateLength = 255
)

// AddressSet holds the addresses assigned to the observed interface.
// An invalid netip.Addr marks an unset slot.
type AddressSet [MaxAddresses]netip.Addr

// Primary returns the first slot, which is reported as the aggregate address.
func (s AddressSet) Primary() netip.Addr {
	return s[0]
}

// Count returns the number of set slots.
func (s AddressSet) Count() int {
	n := 0

	for _, addr := range s {
		if addr.IsValid() {
			n++
		}
	}

	return n
}

// NewAddressSet fills slots in order and ignores anything past MaxAddresses.
func NewAddressSet(addrs ...netip.Addr) AddressSet {
	var set AddressSet

	copy(set[:], addrs)

	return set
}

// FormatAddr renders an address, or the empty string when it is unset.
func FormatAddr(addr netip.Addr) string {
	if !addr.IsValid() {
		return ""
	}

	return addr.String()
}

// ResolverPair is the primary and secondary DNS resolver.
type ResolverPair struct {
	Primary   netip.Addr
	Secondary netip.Addr
}

// String joins both resolvers with a single space.
func (p ResolverPair) String() string {
	return FormatAddr(p.Primary) + " " + FormatAddr(p.Secondary)
}

// LinkAddress is a 6-byte link-layer (MAC) address.
type LinkAddress [6]byte

var errInvalidLinkAddress = fmt.Errorf("invalid link address")

// ParseLinkAddress accepts any 48-bit form understood by net.ParseMAC.
func ParseLinkAddress(s string) (LinkAddress, error) {
	var addr LinkAddress

	hw, err := net.ParseMAC(s)
	if err != nil {
		return addr, fmt.Errorf("%w: %w", errInvalidLinkAddress, err)
	}

	if len(hw) != len(addr) {
		return addr, fmt.Errorf("%w: %q is %d bytes", errInvalidLinkAddress, s, len(hw))
	}

	copy(addr[:], hw)

	return addr, nil
}

// String formats the address as XX:XX:XX:XX:XX:XX in upper case.
func (a LinkAddress) String() string {
	return fmt.Sprintf("%02X:%02X:%02X:%02X:%02X:%02X", a[0], a[1], a[2], a[3], a[4], a[5])
}

// Compact is the lower-case hex form without separators, used in fact IDs.
func (a LinkAddress) Compact() string {
	return hex.EncodeToString(a[:])
}

// IsZero reports whether every byte is zero.
func (a LinkAddress) IsZero() bool {
	return a == LinkAddress{}
}

func (a LinkAddress) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

func (a *LinkAddress) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*a = LinkAddress{}
		return nil
	}

	parsed, err := ParseLinkAddress(string(text))
	if err != nil {
		return err
	}

	*a = parsed

	return nil
}

// ScanRecord is one nearby network from the most recent scan.
type ScanRecord struct {
	SSID   string      `json:"ssid" yaml:"ssid"`
	BSSID  LinkAddress `json:"bssid" yaml:"bssid"`
	RSSI   int         `json:"rssi" yaml:"rssi"`
	Hidden bool        `json:"hidden,omitempty" yaml:"hidden,omitempty"`
}
