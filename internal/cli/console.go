package cli

import (
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"Unbewohnte/BoldBriefing/internal/journal"
)

var (
	timeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#666666"))

	entryStyles = map[journal.Type]lipgloss.Style{
		journal.Info:    lipgloss.NewStyle().Foreground(lipgloss.Color("#AAAAAA")),
		journal.Success: lipgloss.NewStyle().Foreground(lipgloss.Color("#4ADE80")).Bold(true),
		journal.Error:   lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B")).Bold(true),
		journal.Action:  lipgloss.NewStyle().Foreground(lipgloss.Color("#5B8DEF")),
	}
)

func renderEntry(e journal.Entry) string {
	style, ok := entryStyles[e.Type]
	if !ok {
		style = entryStyles[journal.Info]
	}
	return timeStyle.Render(e.Timestamp.Format("15:04:05")) + " " + style.Render(e.Message)
}

// consoleSink prints journal entries the way the dashboard console shows
// them.
func consoleSink(w io.Writer) journal.Sink {
	var mu sync.Mutex
	return journal.SinkFunc(func(e journal.Entry) {
		mu.Lock()
		defer mu.Unlock()
		fmt.Fprintln(w, renderEntry(e))
	})
}
