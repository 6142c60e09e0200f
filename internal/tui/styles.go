// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"github.com/MKhiriev/go-fin-sync/models"
	"github.com/charmbracelet/lipgloss"
)

var (
	appStyle   = lipgloss.NewStyle().Padding(1, 2)
	titleStyle = lipgloss.NewStyle().Bold(true)
	helpStyle  = lipgloss.NewStyle().Faint(true)
	errorStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	labelStyle = lipgloss.NewStyle().Faint(true).Width(22)

	badgeStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
)

// phaseColors maps a sync phase to its badge background.
var phaseColors = map[models.SyncPhase]lipgloss.Color{
	models.PhaseOffline: lipgloss.Color("8"),
	models.PhaseIdle:    lipgloss.Color("2"),
	models.PhaseSyncing: lipgloss.Color("4"),
	models.PhaseError:   lipgloss.Color("1"),
}
