/*
Package watchui is a terminal interface for the watch mode: it rebuilds the
site on changes and shows results of the last build and recent log records.
*/
package watchui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/flytaly/mdsite/pkg/builder"
	"github.com/flytaly/mdsite/pkg/log"
	"github.com/gookit/color"
)

const maxRecords = 8

// Site is something that can be watched and rebuilt
type Site interface {
	Watch(ctx context.Context, onBuild builder.BuildFunc) error
	Rebuild()
}

type model struct {
	site    Site
	paths   []string
	ctx     context.Context
	cancel  context.CancelFunc
	builds  chan buildMsg
	logs    chan log.Record
	records []log.Record
	help    help.Model
	width   int

	last     *buildMsg
	showLog  bool
	quitting bool
	err      error
}

func newModel(s Site, logs chan log.Record, paths ...string) model {
	ctx, cancel := context.WithCancel(context.Background())
	return model{
		site:    s,
		paths:   paths,
		ctx:     ctx,
		cancel:  cancel,
		builds:  make(chan buildMsg),
		logs:    logs,
		help:    help.New(),
		width:   80,
		showLog: true,
	}
}

// Init starts the watcher and listens for its results
func (m model) Init() tea.Cmd {
	return tea.Batch(
		startWatching(m.ctx, m.site, m.builds),
		waitForBuild(m.builds),
		waitForLogs(m.logs),
	)
}

// Update is called when messages are received. The idea is that you inspect the
// message and send back an updated model accordingly. You can also return
// a command, which is a function that performs I/O and returns a message.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			m.quitting = true
			m.cancel()
			return m, tea.Quit
		case key.Matches(msg, keys.Rebuild):
			m.site.Rebuild()
		case key.Matches(msg, keys.Log):
			m.showLog = !m.showLog
		}
		return m, nil
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil
	case buildMsg:
		m.last = &msg
		return m, waitForBuild(m.builds)
	case log.Record:
		m.records = append(m.records, msg)
		if len(m.records) > maxRecords {
			m.records = m.records[len(m.records)-maxRecords:]
		}
		return m, waitForLogs(m.logs)
	case stoppedMsg:
		m.err = msg.err
		m.quitting = true
		m.cancel()
		return m, tea.Quit
	}
	return m, nil
}

// View returns a string based on data in the model. That string which will be
// rendered to the terminal.
func (m model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	fmt.Fprintf(&b, " %s  Watching: %s\n", color.Green.Sprint("➜"), color.Cyan.Sprint(strings.Join(m.paths, ", ")))

	if m.last == nil {
		b.WriteString(" Waiting for changes...\n")
	} else {
		b.WriteString(printBuild(m.last.report, m.last.err, m.width) + "\n")
	}

	if m.showLog && len(m.records) > 0 {
		b.WriteString(printRecords(m.records, m.width) + "\n")
	}

	b.WriteString(m.help.View(keys))
	return b.String()
}

// Run builds the site on every change until the user quits.
// Records sent to logs are displayed under the build status.
func Run(s Site, logs chan log.Record, paths ...string) error {
	m, err := tea.NewProgram(newModel(s, logs, paths...)).Run()
	if err != nil {
		return err
	}
	if fm, ok := m.(model); ok {
		fm.cancel()
		return fm.err
	}
	return nil
}
