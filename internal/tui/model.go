// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/MKhiriev/go-fin-sync/models"
	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
)

const (
	statusTTL    = 2 * time.Second
	maxErrorText = 120
)

type monitorModel struct {
	ctx   context.Context
	sync  SyncController
	build models.AppBuildInfo

	state    models.SyncState
	queueLen int
	counts   map[models.Collection]int

	table   table.Model
	spinner spinner.Model

	retrying bool
	status   string

	copyToClipboard func(string) error
}

func newMonitorModel(ctx context.Context, syncer SyncController, build models.AppBuildInfo) monitorModel {
	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "Коллекция", Width: 20},
			{Title: "Записей", Width: 10},
		}),
		table.WithHeight(len(models.AllCollections())+1),
		table.WithFocused(false),
	)

	m := monitorModel{
		ctx:             ctx,
		sync:            syncer,
		build:           build,
		state:           syncer.State(),
		queueLen:        syncer.QueueLen(),
		counts:          make(map[models.Collection]int),
		table:           t,
		spinner:         newSyncSpinner(),
		copyToClipboard: clipboard.WriteAll,
	}
	m.refreshRows()
	return m
}

func (m monitorModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m monitorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case stateMsg:
		m.state = msg.state
		m.queueLen = msg.queueLen
		return m, nil

	case countsMsg:
		for c, n := range msg.counts {
			m.counts[c] = n
		}
		m.refreshRows()
		return m, nil

	case retryDoneMsg:
		m.retrying = false
		m.state = m.sync.State()
		m.queueLen = m.sync.QueueLen()
		if msg.err != nil {
			m.status = "ошибка синхронизации: " + msg.err.Error()
		} else {
			m.status = "синхронизация завершена"
		}
		return m, clearStatusAfter(statusTTL)

	case copiedMsg:
		if msg.err != nil {
			m.status = "не удалось скопировать: " + msg.err.Error()
		} else {
			m.status = "ошибка скопирована в буфер обмена"
		}
		return m, clearStatusAfter(statusTTL)

	case clearStatusMsg:
		m.status = ""
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m monitorModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.quit):
		return m, tea.Quit

	case key.Matches(msg, keys.retry):
		if m.retrying {
			return m, nil
		}
		m.retrying = true
		m.status = "синхронизация..."
		return m, m.retryCmd()

	case key.Matches(msg, keys.copy):
		if m.state.SyncError == nil || *m.state.SyncError == "" {
			m.status = "нет ошибки для копирования"
			return m, clearStatusAfter(statusTTL)
		}
		return m, m.copyCmd(*m.state.SyncError)
	}

	return m, nil
}

func (m monitorModel) retryCmd() tea.Cmd {
	ctx, syncer := m.ctx, m.sync
	return func() tea.Msg {
		return retryDoneMsg{err: syncer.RetrySync(ctx)}
	}
}

func (m monitorModel) copyCmd(text string) tea.Cmd {
	copyFn := m.copyToClipboard
	return func() tea.Msg {
		if err := copyFn(text); err != nil {
			return copiedMsg{err: fmt.Errorf("copy to clipboard: %w", err)}
		}
		return copiedMsg{}
	}
}

func clearStatusAfter(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return clearStatusMsg{}
	})
}

func (m *monitorModel) refreshRows() {
	collections := models.AllCollections()
	rows := make([]table.Row, 0, len(collections))
	for _, c := range collections {
		rows = append(rows, table.Row{c.String(), strconv.Itoa(m.counts[c])})
	}
	m.table.SetRows(rows)
}

func (m monitorModel) View() string {
	var b strings.Builder

	b.WriteString(m.renderBadge())
	if m.state.IsSyncing || m.retrying {
		b.WriteString(" ")
		b.WriteString(m.spinner.View())
	}
	b.WriteString("\n\n")

	online := "офлайн"
	if m.state.IsOnline {
		online = "онлайн"
	}
	b.WriteString(labelStyle.Render("Соединение:") + online + "\n")
	b.WriteString(labelStyle.Render("Последняя синхронизация:") + timeOrDash(m.state.LastSyncTime) + "\n")
	b.WriteString(labelStyle.Render("В очереди:") + strconv.Itoa(m.queueLen) + "\n")

	errText := valueOrDash(m.state.SyncError)
	if m.state.SyncError != nil {
		errText = errorStyle.Render(fitText(errText, maxErrorText))
	}
	b.WriteString(labelStyle.Render("Ошибка:") + errText + "\n\n")

	b.WriteString(m.table.View())
	b.WriteString("\n")

	if m.status != "" {
		b.WriteString("\n")
		b.WriteString(m.status)
		b.WriteString("\n")
	}

	hotKeys := helpStyle.Render(keys.help()) + "\n  " + helpStyle.Render(renderBuildInfo(m.build))
	return appStyle.Render(renderPage(titleStyle.Render("СОСТОЯНИЕ СИНХРОНИЗАЦИИ"), b.String(), hotKeys))
}

func (m monitorModel) renderBadge() string {
	phase := m.state.Phase
	if phase == "" {
		phase = models.PhaseOffline
	}
	return badgeStyle.Background(phaseColors[phase]).Render(strings.ToUpper(string(phase)))
}
