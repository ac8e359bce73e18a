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

// Package tui renders the live fact table shown by `netinfo -tui`.
package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/carverauto/netinfo/pkg/netinfo"
	"github.com/carverauto/netinfo/pkg/poller"
)

const refreshInterval = 500 * time.Millisecond

// Source is what the model reads from; agent.Server satisfies it.
type Source interface {
	Entries() []poller.Entry
	Facts() <-chan netinfo.Fact
	Device() netinfo.LinkAddress
}

type (
	TickMsg    time.Time
	factMsg    netinfo.Fact
	factsEnded struct{}
)

type published struct {
	state string
	at    time.Time
}

type Model struct {
	source  Source
	table   table.Model
	entries []poller.Entry
	latest  map[netinfo.FactID]published
	count   int
	ended   bool
	now     func() time.Time
}

func NewModel(source Source) Model {
	columns := []table.Column{
		{Title: "Observer", Width: 12},
		{Title: "Fact ID", Width: 34},
		{Title: "State", Width: 48},
		{Title: "Interval", Width: 9},
		{Title: "Updated", Width: 10},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(12),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	m := Model{
		source: source,
		table:  t,
		latest: make(map[netinfo.FactID]published),
		now:    time.Now,
	}
	m.entries = source.Entries()
	m.refreshRows()

	return m
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(waitForFact(m.source.Facts()), tickCmd())
}

func tickCmd() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// waitForFact blocks on the next published fact.
func waitForFact(ch <-chan netinfo.Fact) tea.Cmd {
	if ch == nil {
		return nil
	}

	return func() tea.Msg {
		f, ok := <-ch
		if !ok {
			return factsEnded{}
		}

		return factMsg(f)
	}
}
