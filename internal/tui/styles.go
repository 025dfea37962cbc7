package tui

import (
	"github.com/charmbracelet/lipgloss"
	voicechat "github.com/koscakluka/tonechat/core"
)

const (
	colorAccent  = "#6C63FF"
	colorMuted   = "#6B7280"
	colorGreen   = "#10B981"
	colorAmber   = "#F59E0B"
	colorSky     = "#0EA5E9"
	colorRed     = "#EF4444"
	colorWhite   = "#FFFFFF"
	colorDimText = "#9CA3AF"
	colorSlate   = "#374151"
)

var (
	titleStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(colorAccent))
	userStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(colorSky))
	botStyle       = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(colorAccent))
	waveStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color(colorAmber))
	listeningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(colorGreen))
	helpStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color(colorMuted))
)

var toneStyle = lipgloss.NewStyle().
	Padding(0, 1).
	Foreground(lipgloss.Color(colorAccent)).
	Border(lipgloss.RoundedBorder()).
	BorderForeground(lipgloss.Color(colorMuted))

// toneHighlightStyle is shown briefly after the tone changes.
var toneHighlightStyle = toneStyle.
	Bold(true).
	Foreground(lipgloss.Color(colorWhite)).
	Background(lipgloss.Color(colorAccent)).
	BorderForeground(lipgloss.Color(colorAccent))

var buttonStyle = lipgloss.NewStyle().
	Padding(0, 2).
	Foreground(lipgloss.Color(colorWhite)).
	Background(lipgloss.Color(colorAccent))

var disabledButtonStyle = lipgloss.NewStyle().
	Padding(0, 2).
	Foreground(lipgloss.Color(colorDimText)).
	Background(lipgloss.Color(colorSlate))

var transcriptBorder = lipgloss.NewStyle().
	Border(lipgloss.NormalBorder()).
	BorderForeground(lipgloss.Color(colorMuted))

func statusStyle(kind voicechat.StatusKind) lipgloss.Style {
	style := lipgloss.NewStyle().Bold(true)
	switch kind {
	case voicechat.StatusListening:
		return style.Foreground(lipgloss.Color(colorGreen))
	case voicechat.StatusProcessing:
		return style.Foreground(lipgloss.Color(colorAmber))
	case voicechat.StatusSpeaking:
		return style.Foreground(lipgloss.Color(colorSky))
	case voicechat.StatusError:
		return style.Foreground(lipgloss.Color(colorRed))
	}
	return style.Foreground(lipgloss.Color(colorDimText))
}
