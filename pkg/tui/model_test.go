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

package tui

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carverauto/netinfo/pkg/netinfo"
	"github.com/carverauto/netinfo/pkg/poller"
)

type fakeSource struct {
	entries []poller.Entry
	facts   chan netinfo.Fact
}

func (f *fakeSource) Entries() []poller.Entry    { return f.entries }
func (f *fakeSource) Facts() <-chan netinfo.Fact { return f.facts }
func (*fakeSource) Device() netinfo.LinkAddress  { return netinfo.LinkAddress{0xAA, 0xBB, 0xCC, 0xDD, 0xEE, 0xFF} }

func newFakeSource() *fakeSource {
	return &fakeSource{
		entries: []poller.Entry{
			{Name: "ip", ID: "aabbccddeeff-wifiinfo-ip", Interval: time.Minute, Enabled: true, Polling: true,
				Slots: map[int]netinfo.FactID{0: "aabbccddeeff-wifiinfo-ip0"}},
			{Name: "ssid", ID: "aabbccddeeff-wifiinfo-ssid", Interval: time.Minute, Polling: true},
			{Name: "mac_address", ID: "aabbccddeeff-wifiinfo-macadr", Enabled: true},
		},
		facts: make(chan netinfo.Fact, 4),
	}
}

func TestModelRowsFollowEntries(t *testing.T) {
	m := NewModel(newFakeSource())

	rows := m.table.Rows()
	require.Len(t, rows, 4)

	assert.Equal(t, "ip", rows[0][0])
	assert.Equal(t, "1m0s", rows[0][3])
	assert.Equal(t, "aabbccddeeff-wifiinfo-ip0", rows[1][1])
	assert.Equal(t, "off", rows[2][3])
	assert.Equal(t, "once", rows[3][3])
	assert.Equal(t, "-", rows[3][2])
}

func TestModelRecordsPublishedFacts(t *testing.T) {
	src := newFakeSource()
	m := NewModel(src)
	m.now = func() time.Time { return time.Date(2025, 1, 1, 12, 30, 0, 0, time.UTC) }

	src.facts <- netinfo.Fact{ID: "aabbccddeeff-wifiinfo-ip", Kind: netinfo.KindAddress, State: "10.0.0.5"}

	msg := waitForFact(src.Facts())()
	require.IsType(t, factMsg{}, msg)

	updated, cmd := m.Update(msg)
	require.NotNil(t, cmd)

	m = updated.(Model)
	rows := m.table.Rows()

	assert.Equal(t, "10.0.0.5", rows[0][2])
	assert.Equal(t, "12:30:00", rows[0][4])
	assert.Equal(t, 1, m.count)
	assert.Contains(t, m.View(), "AA:BB:CC:DD:EE:FF")
	assert.Contains(t, m.View(), "1 facts published")
}

func TestModelHandlesClosedStream(t *testing.T) {
	src := newFakeSource()
	close(src.facts)

	m := NewModel(src)
	msg := waitForFact(src.Facts())()
	assert.Equal(t, factsEnded{}, msg)

	updated, cmd := m.Update(msg)
	assert.Nil(t, cmd)
	assert.Contains(t, updated.View(), "stream closed")
}

func TestModelQuits(t *testing.T) {
	m := NewModel(newFakeSource())

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
}

func TestModelTickRefreshesEntries(t *testing.T) {
	src := newFakeSource()
	m := NewModel(src)

	src.entries[1].Enabled = true

	updated, cmd := m.Update(TickMsg(time.Now()))
	require.NotNil(t, cmd)
	assert.Equal(t, "1m0s", updated.(Model).table.Rows()[2][3])
}

func TestWaitForFactWithoutChannel(t *testing.T) {
	assert.Nil(t, waitForFact(nil))
}
