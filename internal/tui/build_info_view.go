// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"strings"

	"github.com/MKhiriev/go-fin-sync/models"
)

func renderBuildInfo(info models.AppBuildInfo) string {
	var b strings.Builder

	b.WriteString("go-fin-sync ")
	b.WriteString(valueOrNA(info.BuildVersion()))
	b.WriteString(" · ")
	b.WriteString(valueOrNA(info.BuildDate()))
	b.WriteString(" · ")
	b.WriteString(valueOrNA(info.BuildCommit()))

	return b.String()
}

func valueOrNA(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return "N/A"
	}
	return v
}
