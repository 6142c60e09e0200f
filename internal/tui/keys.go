// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	retry key.Binding
	copy  key.Binding
	quit  key.Binding
}

var keys = keyMap{
	retry: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "повторить синхронизацию")),
	copy:  key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "скопировать ошибку")),
	quit:  key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "выход")),
}

func (k keyMap) help() string {
	out := ""
	for i, b := range []key.Binding{k.retry, k.copy, k.quit} {
		if i > 0 {
			out += "  "
		}
		out += b.Help().Key + ": " + b.Help().Desc
	}
	return out
}
