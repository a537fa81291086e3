// Package common provides shared styles and utilities for the UI.
package common

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/palemoky/bingo-client/internal/host"
)

// Icon constants
const (
	HostIcon    = "👑"
	PlayerIcon  = "🙂"
	BallIcon    = "🎱"
	TrophyIcon  = "🏆"
	MarkedGlyph = "●"
)

// 与配色无关的样式
var (
	DocStyle    = lipgloss.NewStyle().Margin(1, 2)
	BoxStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder())
	PromptStyle = lipgloss.NewStyle().MarginTop(1)
	ErrorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

// Styles 随宿主配色变化的样式
type Styles struct {
	Scheme host.ColorScheme

	Title   lipgloss.Style
	Muted   lipgloss.Style
	Warn    lipgloss.Style
	Success lipgloss.Style
	Accent  lipgloss.Style

	Header     lipgloss.Style
	Cell       lipgloss.Style
	CellMarked lipgloss.Style
	CellFree   lipgloss.Style
	CellBlank  lipgloss.Style
	Cursor     lipgloss.Style

	Ball       lipgloss.Style
	BallCalled lipgloss.Style
	BallLast   lipgloss.Style
}

const cellWidth = 4

// NewStyles 按配色构造样式
func NewStyles(scheme host.ColorScheme) *Styles {
	fg, muted, cellBg := lipgloss.Color("0"), lipgloss.Color("245"), lipgloss.Color("#FFFFFF")
	if scheme == host.SchemeDark {
		fg, muted, cellBg = lipgloss.Color("252"), lipgloss.Color("240"), lipgloss.Color("236")
	}

	cell := lipgloss.NewStyle().Width(cellWidth).Align(lipgloss.Center).Foreground(fg).Background(cellBg)
	return &Styles{
		Scheme:  scheme,
		Title:   lipgloss.NewStyle().Foreground(lipgloss.Color("228")).Bold(true),
		Muted:   lipgloss.NewStyle().Foreground(muted),
		Warn:    lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true),
		Success: lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true),
		Accent:  lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true),

		Header:     lipgloss.NewStyle().Width(cellWidth).Align(lipgloss.Center).Foreground(lipgloss.Color("39")).Bold(true),
		Cell:       cell,
		CellMarked: cell.Foreground(lipgloss.Color("#FFFFFF")).Background(lipgloss.Color("#CD0000")).Bold(true),
		CellFree:   cell.Foreground(lipgloss.Color("0")).Background(lipgloss.Color("42")).Bold(true),
		CellBlank:  lipgloss.NewStyle().Width(cellWidth).Foreground(muted),
		Cursor:     lipgloss.NewStyle().Underline(true).Reverse(true),

		Ball:       lipgloss.NewStyle().Width(3).Align(lipgloss.Right).Foreground(muted),
		BallCalled: lipgloss.NewStyle().Width(3).Align(lipgloss.Right).Foreground(fg).Bold(true),
		BallLast:   lipgloss.NewStyle().Width(3).Align(lipgloss.Right).Foreground(lipgloss.Color("228")).Bold(true),
	}
}
