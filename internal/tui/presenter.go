package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	voicechat "github.com/koscakluka/tonechat/core"
)

// Sender is satisfied by *tea.Program.
type Sender interface {
	Send(msg tea.Msg)
}

// Presenter forwards controller views to a running program. Views are full
// snapshots so only the latest one waiting to be delivered is kept, and
// Render never blocks the controller.
type Presenter struct {
	pending chan voicechat.View
}

func NewPresenter() *Presenter {
	return &Presenter{pending: make(chan voicechat.View, 1)}
}

// Render replaces any view still waiting to be delivered. It must be called
// from one goroutine at a time.
func (p *Presenter) Render(view voicechat.View) {
	for {
		select {
		case p.pending <- view:
			return
		default:
		}
		select {
		case <-p.pending:
		default:
		}
	}
}

// Run delivers views to program until ctx is done.
func (p *Presenter) Run(ctx context.Context, program Sender) {
	for {
		select {
		case <-ctx.Done():
			return
		case view := <-p.pending:
			program.Send(viewMsg{view: view})
		}
	}
}
