// Package theme maps the active mode to the visual state shared by every
// renderer: accent color, title, icon and the derived lipgloss styles.
// Apply is idempotent so redundant calls from mode detection and the CEX
// controller cannot flicker.
package theme

import (
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"chainscope/internal/mode"
	"chainscope/internal/registry"
)

// Default visual state for the aggregate view.
const (
	defaultTitle = "chainscope"
	defaultIcon  = "▣"
)

const defaultAccent lipgloss.Color = "#cba6f7"

// Theme is the resolved visual state for one mode.
type Theme struct {
	Accent lipgloss.Color
	Title  string
	Icon   string

	Badge  lipgloss.Style
	Header lipgloss.Style
	Border lipgloss.Style
}

// Manager owns the currently applied theme. The palette itself lives in the
// registries; the manager only enforces the apply contract.
type Manager struct {
	Chains    registry.Chains
	Exchanges registry.Exchanges

	current     Theme
	fingerprint string
	log         *zap.Logger
}

// NewManager returns a Manager with the default theme applied.
func NewManager(chains registry.Chains, exchanges registry.Exchanges, log *zap.Logger) *Manager {
	if log == nil {
		log = zap.NewNop()
	}
	m := &Manager{Chains: chains, Exchanges: exchanges, log: log}
	m.Apply(mode.Multi())
	return m
}

// Current returns the active theme for renderers.
func (m *Manager) Current() Theme { return m.current }

// Apply reconciles the visual state with the given mode. Calling it again
// with an unchanged target is a no-op: the fingerprint check means repeated
// application overwrites nothing and costs nothing visible.
func (m *Manager) Apply(md mode.Mode) {
	accent, title, icon := m.resolve(md)
	fp := string(accent) + "\x00" + title + "\x00" + icon
	if fp == m.fingerprint {
		return
	}
	m.fingerprint = fp
	m.current = build(accent, title, icon)
	m.log.Debug("theme applied", zap.String("title", title))
}

// Reset restores the default theme unconditionally, then callers re-apply
// for whatever mode the navigation now implies.
func (m *Manager) Reset() {
	m.fingerprint = ""
	m.Apply(mode.Multi())
}

func (m *Manager) resolve(md mode.Mode) (lipgloss.Color, string, string) {
	switch md.Kind() {
	case mode.KindSingle:
		if ch, ok := m.Chains.Get(md.Chain()); ok {
			return lipgloss.Color(ch.Color), defaultTitle + " · " + ch.Name, ch.Icon
		}
	case mode.KindCex:
		if ex, ok := m.Exchanges.Get(md.Exchange()); ok {
			return lipgloss.Color(ex.Color), defaultTitle + " · " + ex.Name, ex.Icon
		}
	}
	return defaultAccent, defaultTitle, defaultIcon
}

func build(accent lipgloss.Color, title, icon string) Theme {
	return Theme{
		Accent: accent,
		Title:  title,
		Icon:   icon,
		Badge: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#11111b")).
			Background(accent).
			Padding(0, 1).
			Bold(true),
		Header: lipgloss.NewStyle().
			Foreground(accent).
			Bold(true),
		Border: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(accent),
	}
}
