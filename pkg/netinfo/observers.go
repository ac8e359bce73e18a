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

// Package netinfo observes network status facts and reports the ones that
// changed since the previous sample.
package netinfo

import (
	"context"
	"errors"
	"fmt"
)

var (
	ErrSlotOutOfRange = errors.New("address slot out of range")
	ErrEmptyFactID    = errors.New("fact id is required")
)

var (
	_ Observer = (*AddressObserver)(nil)
	_ Observer = (*ResolverObserver)(nil)
	_ Observer = (*NetworkNameObserver)(nil)
	_ Observer = (*LinkAddressObserver)(nil)
	_ Observer = (*ScanObserver)(nil)
	_ Observer = (*IdentityObserver)(nil)
)

type slotTarget struct {
	id       FactID
	attached bool
}

// AddressObserver reports the primary address and, for each set address,
// an optional per-slot fact.
//
// Slot indices are assigned per sample: the n-th set address goes to slot n,
// unset provider slots do not consume an index.
type AddressObserver struct {
	provider Provider
	id       FactID
	gate     *Gate[AddressSet]
	slots    [MaxAddresses]slotTarget
}

func NewAddressObserver(provider Provider, id FactID) *AddressObserver {
	return &AddressObserver{
		provider: provider,
		id:       id,
		gate:     NewGate(AddressSet{}),
	}
}

// AttachSlot routes the address at slot index to the fact id.
func (o *AddressObserver) AttachSlot(index int, id FactID) error {
	if index < 0 || index >= MaxAddresses {
		return fmt.Errorf("%w: %d", ErrSlotOutOfRange, index)
	}

	if id == "" {
		return ErrEmptyFactID
	}

	o.slots[index] = slotTarget{id: id, attached: true}

	return nil
}

// Slots returns the attached slot ids keyed by index.
func (o *AddressObserver) Slots() map[int]FactID {
	out := make(map[int]FactID)

	for i, target := range o.slots {
		if target.attached {
			out[i] = target.id
		}
	}

	return out
}

func (*AddressObserver) Name() string  { return string(KindAddress) }
func (o *AddressObserver) ID() FactID  { return o.id }
func (*AddressObserver) Polling() bool { return true }

func (o *AddressObserver) Sample(ctx context.Context) []Fact {
	addrs, ok := o.gate.Consider(o.provider.Addresses(ctx))
	if !ok {
		return nil
	}

	facts := make([]Fact, 0, 1+addrs.Count())
	facts = append(facts, Fact{ID: o.id, Kind: KindAddress, State: FormatAddr(addrs.Primary())})

	slot := 0

	for _, addr := range addrs {
		if !addr.IsValid() {
			continue
		}

		if target := o.slots[slot]; target.attached {
			facts = append(facts, Fact{ID: target.id, Kind: KindAddress, State: addr.String()})
		}

		slot++
	}

	return facts
}

// ResolverObserver reports both DNS resolvers as one space-joined fact.
type ResolverObserver struct {
	provider Provider
	id       FactID
	gate     *Gate[string]
}

func NewResolverObserver(provider Provider, id FactID) *ResolverObserver {
	return &ResolverObserver{provider: provider, id: id, gate: NewGate("")}
}

func (*ResolverObserver) Name() string  { return string(KindResolvers) }
func (o *ResolverObserver) ID() FactID  { return o.id }
func (*ResolverObserver) Polling() bool { return true }

func (o *ResolverObserver) Sample(ctx context.Context) []Fact {
	joined, ok := o.gate.Consider(o.provider.Resolvers(ctx).String())
	if !ok {
		return nil
	}

	return []Fact{{ID: o.id, Kind: KindResolvers, State: joined}}
}

// NetworkNameObserver reports the SSID of the associated network.
type NetworkNameObserver struct {
	provider Provider
	id       FactID
	gate     *Gate[string]
}

func NewNetworkNameObserver(provider Provider, id FactID) *NetworkNameObserver {
	return &NetworkNameObserver{provider: provider, id: id, gate: NewGate("")}
}

func (*NetworkNameObserver) Name() string  { return string(KindNetworkName) }
func (o *NetworkNameObserver) ID() FactID  { return o.id }
func (*NetworkNameObserver) Polling() bool { return true }

func (o *NetworkNameObserver) Sample(ctx context.Context) []Fact {
	name, ok := o.gate.Consider(o.provider.NetworkName(ctx))
	if !ok {
		return nil
	}

	return []Fact{{ID: o.id, Kind: KindNetworkName, State: name}}
}

// LinkAddressObserver reports the BSSID of the associated network.
type LinkAddressObserver struct {
	provider Provider
	id       FactID
	gate     *Gate[LinkAddress]
}

func NewLinkAddressObserver(provider Provider, id FactID) *LinkAddressObserver {
	return &LinkAddressObserver{provider: provider, id: id, gate: NewGate(LinkAddress{})}
}

func (*LinkAddressObserver) Name() string  { return string(KindLinkAddress) }
func (o *LinkAddressObserver) ID() FactID  { return o.id }
func (*LinkAddressObserver) Polling() bool { return true }

func (o *LinkAddressObserver) Sample(ctx context.Context) []Fact {
	addr, ok := o.gate.Consider(o.provider.LinkAddress(ctx))
	if !ok {
		return nil
	}

	return []Fact{{ID: o.id, Kind: KindLinkAddress, State: addr.String()}}
}

// ScanObserver reports a bounded summary of the latest scan.
type ScanObserver struct {
	provider Provider
	id       FactID
	gate     *Gate[string]
}

func NewScanObserver(provider Provider, id FactID) *ScanObserver {
	return &ScanObserver{provider: provider, id: id, gate: NewGate("")}
}

func (*ScanObserver) Name() string  { return string(KindScanResults) }
func (o *ScanObserver) ID() FactID  { return o.id }
func (*ScanObserver) Polling() bool { return true }

func (o *ScanObserver) Sample(ctx context.Context) []Fact {
	summary, ok := o.gate.Consider(SummarizeScan(o.provider.ScanResults(ctx)))
	if !ok {
		return nil
	}

	return []Fact{{ID: o.id, Kind: KindScanResults, State: summary}}
}

// IdentityObserver reports the device's own MAC address once, formatted
// like LinkAddress.String. It has no gate: every Sample publishes.
type IdentityObserver struct {
	provider Provider
	id       FactID
}

func NewIdentityObserver(provider Provider, id FactID) *IdentityObserver {
	return &IdentityObserver{provider: provider, id: id}
}

func (*IdentityObserver) Name() string  { return string(KindMACAddress) }
func (o *IdentityObserver) ID() FactID  { return o.id }
func (*IdentityObserver) Polling() bool { return false }

func (o *IdentityObserver) Sample(ctx context.Context) []Fact {
	return []Fact{{ID: o.id, Kind: KindMACAddress, State: o.provider.DeviceAddress(ctx).String()}}
}
