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
	"net/netip"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGateConsider(t *testing.T) {
	t.Parallel()

	gate := NewGate("")

	_, ok := gate.Consider("")
	assert.False(t, ok, "value equal to the initial baseline must not pass")

	v, ok := gate.Consider("home")
	assert.True(t, ok)
	assert.Equal(t, "home", v)
	assert.Equal(t, "home", gate.Last())

	v, ok = gate.Consider("home")
	assert.False(t, ok)
	assert.Empty(t, v)

	v, ok = gate.Consider("")
	assert.True(t, ok, "returning to the empty value is a change")
	assert.Empty(t, v)
	assert.Empty(t, gate.Last())
}

func TestGateArrayEquality(t *testing.T) {
	t.Parallel()

	gate := NewGate(AddressSet{})

	first := NewAddressSet(netip.MustParseAddr("192.0.2.10"))
	_, ok := gate.Consider(first)
	assert.True(t, ok)

	_, ok = gate.Consider(NewAddressSet(netip.MustParseAddr("192.0.2.10")))
	assert.False(t, ok, "equal sets compare by value")

	second := NewAddressSet(netip.MustParseAddr("192.0.2.10"), netip.MustParseAddr("2001:db8::1"))
	_, ok = gate.Consider(second)
	assert.True(t, ok, "a change in any slot passes")
}
