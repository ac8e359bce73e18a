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

//go:generate mockgen -destination=mock_netinfo.go -package=netinfo github.com/carverauto/netinfo/pkg/netinfo Provider,Sink

package netinfo

import "context"

// Provider answers status queries about the observed interface.
// Queries never fail; anything the provider cannot determine comes back unset.
type Provider interface {
	Addresses(ctx context.Context) AddressSet
	Resolvers(ctx context.Context) ResolverPair
	NetworkName(ctx context.Context) string
	LinkAddress(ctx context.Context) LinkAddress
	ScanResults(ctx context.Context) []ScanRecord

	// DeviceAddress is the device's own link-layer address.
	DeviceAddress(ctx context.Context) LinkAddress
}

// Readier is implemented by providers that need time before their answers
// are meaningful, such as an interface that has not associated yet.
type Readier interface {
	Ready(ctx context.Context) bool
}

// Sink receives published facts. Callers do not retry on error.
type Sink interface {
	Publish(ctx context.Context, fact Fact) error
}

// Observer samples one fact and reports the facts to publish, if any.
type Observer interface {
	// Name is the configuration key of the observer.
	Name() string
	ID() FactID
	// Polling is false for observers that run once at startup.
	Polling() bool
	Sample(ctx context.Context) []Fact
}
