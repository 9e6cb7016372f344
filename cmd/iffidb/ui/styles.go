// Package ui provides the visual styling for the iffiDB console.
package ui

import (
	"github.com/charmbracelet/lipgloss"

	"iffidb/internal/audit"
)

// Console color palette. Each log action gets its own badge color so the
// log panel can be scanned by kind.
var (
	ColorError  = lipgloss.Color("#f87171")
	ColorCreate = lipgloss.Color("#4ade80")
	ColorDelete = lipgloss.Color("#fb923c")
	ColorUpdate = lipgloss.Color("#60a5fa")
	ColorLogin  = lipgloss.Color("#c084fc")
	ColorSystem = lipgloss.Color("#22d3ee")

	ColorAccent = lipgloss.Color("#22d3ee")
	ColorMuted  = lipgloss.Color("#6b7280")
	ColorBorder = lipgloss.Color("#374151")
	ColorText   = lipgloss.Color("#e5e7eb")
)

// Styles holds the styled components used by the console model.
type Styles struct {
	Header    lipgloss.Style
	Footer    lipgloss.Style
	Prompt    lipgloss.Style
	UserInput lipgloss.Style
	Timestamp lipgloss.Style
	Body      lipgloss.Style
	Muted     lipgloss.Style
	Error     lipgloss.Style
	Listening lipgloss.Style

	actions map[audit.Action]lipgloss.Style
}

// DefaultStyles returns the console style set.
func DefaultStyles() Styles {
	actionColors := map[audit.Action]lipgloss.Color{
		audit.ActionError:  ColorError,
		audit.ActionCreate: ColorCreate,
		audit.ActionDelete: ColorDelete,
		audit.ActionUpdate: ColorUpdate,
		audit.ActionLogin:  ColorLogin,
		audit.ActionSystem: ColorSystem,
	}
	actions := make(map[audit.Action]lipgloss.Style, len(actionColors))
	for action, color := range actionColors {
		actions[action] = lipgloss.NewStyle().Foreground(color).Bold(true)
	}

	return Styles{
		Header: lipgloss.NewStyle().
			Foreground(ColorAccent).
			Bold(true).
			Padding(0, 1),

		Footer: lipgloss.NewStyle().
			Foreground(ColorMuted).
			Padding(0, 1),

		Prompt: lipgloss.NewStyle().
			Foreground(ColorAccent).
			Bold(true),

		UserInput: lipgloss.NewStyle().
			Foreground(ColorText),

		Timestamp: lipgloss.NewStyle().
			Foreground(ColorMuted),

		Body: lipgloss.NewStyle().
			Foreground(ColorText),

		Muted: lipgloss.NewStyle().
			Foreground(ColorMuted),

		Error: lipgloss.NewStyle().
			Foreground(ColorError).
			Bold(true),

		Listening: lipgloss.NewStyle().
			Foreground(ColorCreate).
			Bold(true),

		actions: actions,
	}
}

// Action returns the style for a log action badge. Unknown actions fall
// back to the muted style.
func (s Styles) Action(action audit.Action) lipgloss.Style {
	if st, ok := s.actions[action]; ok {
		return st
	}
	return s.Muted
}
