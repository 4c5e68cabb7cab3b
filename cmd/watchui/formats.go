package watchui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/flytaly/mdsite/pkg/builder"
	"github.com/flytaly/mdsite/pkg/log"
	"github.com/gookit/color"
)

var logStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(lipgloss.Color("8")).
	Padding(0, 1)

func levelColor(l log.Level) color.Color {
	switch l {
	case log.ErrorLevel:
		return color.Red
	case log.WarningLevel:
		return color.Yellow
	case log.DebugLevel:
		return color.Gray
	}
	return color.Cyan
}

func printRecords(records []log.Record, maxWidth int) string {
	lines := make([]string, 0, len(records))
	maxWidth = max(maxWidth-6, 20)
	for _, r := range records {
		prefix := fmt.Sprintf("%s %-5s ", r.Time.Format("15:04:05"), r.Level)
		msg := tail(r.Message, maxWidth-len(prefix))
		lines = append(lines, levelColor(r.Level).Sprint(prefix)+msg)
	}
	return logStyle.Render(strings.Join(lines, "\n"))
}

func printBuild(r builder.Report, err error, maxWidth int) string {
	if err != nil {
		return fmt.Sprintf(" %s %s", color.Red.Sprint("✗"), tail(err.Error(), max(maxWidth-4, 20)))
	}
	output := fmt.Sprintf(" %s %s", color.Green.Sprint("✓"), r.Summary())
	for _, w := range r.Warnings {
		output += fmt.Sprintf("\n   %s %s", color.Yellow.Sprint("!"), tail(w, max(maxWidth-6, 20)))
	}
	return output
}

// tail keeps the end of s, so it fits into n runes
func tail(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 3 {
		return string(r[len(r)-n:])
	}
	return "..." + string(r[len(r)-(n-3):])
}
