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

import "strconv"

// FactKind names the kind of network status a fact carries.
type FactKind string

const (
	KindAddress     FactKind = "ip"
	KindResolvers   FactKind = "dns"
	KindNetworkName FactKind = "ssid"
	KindLinkAddress FactKind = "bssid"
	KindScanResults FactKind = "scan_results"
	KindMACAddress  FactKind = "mac_address"
)

// Kinds lists every fact kind in registration order.
var Kinds = []FactKind{
	KindAddress,
	KindResolvers,
	KindNetworkName,
	KindLinkAddress,
	KindScanResults,
	KindMACAddress,
}

// FactID is the stable identity a sink routes and deduplicates on.
type FactID string

const idInfix = "-wifiinfo-"

var idSuffixes = map[FactKind]string{
	KindAddress:     "ip",
	KindResolvers:   "dns",
	KindNetworkName: "ssid",
	KindLinkAddress: "bssid",
	KindScanResults: "scanresults",
	KindMACAddress:  "macadr",
}

// DefaultFactID derives the ID of a fact from the device's own MAC address.
func DefaultFactID(device LinkAddress, kind FactKind) FactID {
	suffix, ok := idSuffixes[kind]
	if !ok {
		suffix = string(kind)
	}

	return FactID(device.Compact() + idInfix + suffix)
}

// DefaultSlotID derives the ID of a per-slot address fact.
func DefaultSlotID(device LinkAddress, slot int) FactID {
	return FactID(device.Compact() + idInfix + idSuffixes[KindAddress] + strconv.Itoa(slot))
}

// Fact is one published state.
type Fact struct {
	ID    FactID
	Kind  FactKind
	State string
}
