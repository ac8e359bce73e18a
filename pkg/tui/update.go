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
	"fmt"
	"sort"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/carverauto/netinfo/pkg/netinfo"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		}

	case factMsg:
		m.latest[msg.ID] = published{state: msg.State, at: m.now()}
		m.count++
		m.refreshRows()

		return m, waitForFact(m.source.Facts())

	case factsEnded:
		m.ended = true
		return m, nil

	case TickMsg:
		m.entries = m.source.Entries()
		m.refreshRows()

		return m, tickCmd()
	}

	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m *Model) refreshRows() {
	rows := make([]table.Row, 0, len(m.entries))

	for _, e := range m.entries {
		interval := "once"
		if e.Polling {
			interval = e.Interval.String()
		}

		if !e.Enabled {
			interval = "off"
		}

		rows = append(rows, m.row(e.Name, e.ID, interval))

		slots := make([]int, 0, len(e.Slots))
		for i := range e.Slots {
			slots = append(slots, i)
		}

		sort.Ints(slots)

		for _, i := range slots {
			rows = append(rows, m.row(fmt.Sprintf("  slot %d", i), e.Slots[i], ""))
		}
	}

	m.table.SetRows(rows)
}

func (m *Model) row(name string, id netinfo.FactID, interval string) table.Row {
	state, updated := "-", ""

	if p, ok := m.latest[id]; ok {
		state = p.state
		updated = p.at.Format("15:04:05")
	}

	return table.Row{name, string(id), state, interval, updated}
}
