package watchui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/flytaly/mdsite/pkg/builder"
	"github.com/flytaly/mdsite/pkg/log"
)

type buildMsg struct {
	report builder.Report
	err    error
}

type stoppedMsg struct{ err error }

// startWatching runs the site watcher until ctx is cancelled,
// results of the builds are sent to ch
func startWatching(ctx context.Context, s Site, ch chan<- buildMsg) tea.Cmd {
	return func() tea.Msg {
		err := s.Watch(ctx, func(r builder.Report, err error) {
			select {
			case ch <- buildMsg{report: r, err: err}:
			case <-ctx.Done():
			}
		})
		return stoppedMsg{err: err}
	}
}

func waitForBuild(ch <-chan buildMsg) tea.Cmd {
	return func() tea.Msg {
		return <-ch
	}
}

func waitForLogs(ch <-chan log.Record) tea.Cmd {
	return func() tea.Msg {
		return <-ch
	}
}
