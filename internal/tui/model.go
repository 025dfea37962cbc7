// Package tui shows a conversation controller in the terminal and turns key
// presses into its start and stop controls.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	voicechat "github.com/koscakluka/tonechat/core"
	"github.com/muesli/reflow/wordwrap"
)

const (
	defaultWidth  = 80
	defaultHeight = 24
)

// chromeHeight is the number of lines drawn around the transcript.
const chromeHeight = 9

const minTranscriptHeight = 3

// Controls are the buttons of the conversation.
type Controls interface {
	Start()
	Stop()
}

// viewMsg carries a new controller view into the program.
type viewMsg struct {
	view voicechat.View
}

type Model struct {
	controls Controls
	view     voicechat.View

	transcript    viewport.Model
	width         int
	height        int
	renderedCount int
	renderedWidth int
}

func NewModel(controls Controls, initial voicechat.View) *Model {
	m := &Model{
		controls:   controls,
		view:       initial,
		transcript: viewport.New(defaultWidth-2, defaultHeight-chromeHeight),
		width:      defaultWidth,
		height:     defaultHeight,
	}
	m.refreshTranscript()
	return m
}

func (m *Model) Init() tea.Cmd {
	return nil
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil
	case tea.KeyMsg:
		if model, cmd, handled := m.handleKeyMsg(msg); handled {
			return model, cmd
		}
	case viewMsg:
		m.view = msg.view
		m.refreshTranscript()
		return m, nil
	}

	var cmd tea.Cmd
	m.transcript, cmd = m.transcript.Update(msg)
	return m, cmd
}

func (m *Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit, true
	case "s", "enter":
		if m.view.Controls.StartEnabled {
			m.controls.Start()
		}
		return m, nil, true
	case "x", "esc":
		if m.view.Controls.StopEnabled {
			m.controls.Stop()
		}
		return m, nil, true
	}
	return m, nil, false
}

func (m *Model) resize(width, height int) {
	m.width = width
	m.height = height
	m.transcript.Width = max(width-2, 1)
	m.transcript.Height = max(height-chromeHeight, minTranscriptHeight)
	m.refreshTranscript()
}

// refreshTranscript re-renders the messages and follows the newest one.
func (m *Model) refreshTranscript() {
	count := len(m.view.Transcript)
	if count == m.renderedCount && m.transcript.Width == m.renderedWidth {
		return
	}

	m.transcript.SetContent(renderMessages(m.view.Transcript, m.transcript.Width))
	if count > m.renderedCount {
		m.transcript.GotoBottom()
	}
	m.renderedCount = count
	m.renderedWidth = m.transcript.Width
}

func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("tonechat"))
	b.WriteString("\n")
	b.WriteString(m.renderTone())
	b.WriteString("\n")
	b.WriteString(statusStyle(m.view.Status.Kind).Render(m.view.Status.Text))
	b.WriteString("  ")
	b.WriteString(renderIndicators(m.view.Animations))
	b.WriteString("\n")
	b.WriteString(transcriptBorder.Render(m.transcript.View()))
	b.WriteString("\n")
	b.WriteString(renderButtons(m.view.Controls))
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("s/enter start • x/esc stop • ↑/↓ scroll • q quit"))

	return b.String()
}

func (m *Model) renderTone() string {
	tone := m.view.Tone
	if tone == "" {
		tone = "-"
	}
	label := "Detected tone: " + tone
	if m.view.ToneHighlighted {
		return toneHighlightStyle.Render(label)
	}
	return toneStyle.Render(label)
}

func renderIndicators(animations voicechat.Animations) string {
	indicators := []string{}
	if animations.Wave {
		indicators = append(indicators, waveStyle.Render("∿∿∿"))
	}
	if animations.Listening {
		indicators = append(indicators, listeningStyle.Render("● listening"))
	}
	return strings.Join(indicators, " ")
}

func renderButtons(controls voicechat.Controls) string {
	start := disabledButtonStyle.Render("Start")
	if controls.StartEnabled {
		start = buttonStyle.Render("Start")
	}
	stop := disabledButtonStyle.Render("Stop")
	if controls.StopEnabled {
		stop = buttonStyle.Render("Stop")
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, start, " ", stop)
}

func renderMessages(messages []voicechat.Message, width int) string {
	if len(messages) == 0 {
		return helpStyle.Render("Press start and say something.")
	}

	wrapWidth := max(width-2, 10)
	lines := make([]string, 0, len(messages))
	for _, message := range messages {
		prefix := userStyle.Render("You")
		if message.Sender == voicechat.SenderBot {
			prefix = botStyle.Render("Bot")
		}
		text := wordwrap.String(message.Text, wrapWidth)
		lines = append(lines, fmt.Sprintf("%s %s\n%s", prefix, helpStyle.Render(message.Time.Format("15:04:05")), text))
	}
	return strings.Join(lines, "\n\n")
}
