package output

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vladlyt/mj/internal/domain"
)

// AliasEntry is one line of the alias listing.
type AliasEntry struct {
	Alias string
	URL   string
}

type Formatter struct {
	w io.Writer

	header lipgloss.Style
	link   lipgloss.Style
	dim    lipgloss.Style
}

// NewFormatter writes to w. Colors are only emitted when w is a terminal.
func NewFormatter(w io.Writer) *Formatter {
	r := lipgloss.NewRenderer(w)
	return &Formatter{
		w:      w,
		header: r.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		link:   r.NewStyle().Underline(true).Foreground(lipgloss.Color("42")),
		dim:    r.NewStyle().Foreground(lipgloss.Color("242")),
	}
}

func (f *Formatter) Error(msg string) {
	fmt.Fprintf(f.w, "❌ %s\n", msg)
}

func (f *Formatter) Info(msg string) {
	fmt.Fprintf(f.w, "ℹ️  %s\n", msg)
}

func (f *Formatter) Success(msg string) {
	fmt.Fprintf(f.w, "✅ %s\n", msg)
}

func (f *Formatter) Warning(msg string) {
	fmt.Fprintf(f.w, "⚠️  %s\n", msg)
}

// Plain prints s unstyled, for output meant to be piped.
func (f *Formatter) Plain(s string) {
	fmt.Fprintln(f.w, strings.TrimRight(s, "\n"))
}

func (f *Formatter) Link(url string) {
	fmt.Fprintf(f.w, "🔗 Link: %s\n", f.link.Render(url))
}

func (f *Formatter) AliasSaved(alias string) {
	fmt.Fprintf(f.w, "✅ Saved alias: %s\n", alias)
}

func (f *Formatter) Connecting(url string) {
	fmt.Fprintf(f.w, "🌐 Connecting to the room: %s\n", f.link.Render(url))
}

func (f *Formatter) AliasList(entries []AliasEntry) {
	if len(entries) == 0 {
		f.Info("There are no aliases created yet")
		return
	}

	fmt.Fprintf(f.w, "%s\n\n", f.header.Render("All available aliases for the rooms:"))
	width := 0
	for _, e := range entries {
		width = max(width, lipgloss.Width(e.Alias))
	}
	for _, e := range entries {
		pad := strings.Repeat(" ", width-lipgloss.Width(e.Alias))
		fmt.Fprintf(f.w, "  %s%s  %s\n", e.Alias, pad, f.link.Render(e.URL))
	}
}

// Report prints the attendance table of a room.
func (f *Formatter) Report(token string, report domain.Report) {
	if !report.Available {
		f.Warning(fmt.Sprintf("No export data available for the room %s", token))
		return
	}
	if len(report.Rows) == 0 {
		f.Info(fmt.Sprintf("Nobody stayed in the room %s for more than %s", token, domain.MinAttendance))
		return
	}

	header := []string{"NICKNAME", "CONNECTED", "DISCONNECTED", "WAS IN CALL"}
	cells := make([][]string, 0, len(report.Rows))
	for _, row := range report.Rows {
		disconnected := "still connected"
		if row.Disconnected != nil {
			disconnected = *row.Disconnected
		}
		cells = append(cells, []string{row.Nickname, row.Connected, disconnected, row.WasInCall})
	}

	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = lipgloss.Width(h)
	}
	for _, c := range cells {
		for i, v := range c {
			widths[i] = max(widths[i], lipgloss.Width(v))
		}
	}

	fmt.Fprintf(f.w, "Exported data for the room %s:\n\n", token)
	fmt.Fprintln(f.w, f.header.Render(joinCells(header, widths)))
	for _, c := range cells {
		line := joinCells(c, widths)
		if c[2] == "still connected" {
			line = f.dim.Render(line)
		}
		fmt.Fprintln(f.w, line)
	}
}

// Stats prints redirect counters, most used first.
func (f *Formatter) Stats(stats map[string]int64) {
	if len(stats) == 0 {
		f.Info("No redirects recorded yet")
		return
	}

	tokens := make([]string, 0, len(stats))
	for t := range stats {
		tokens = append(tokens, t)
	}
	sort.Slice(tokens, func(i, j int) bool {
		if stats[tokens[i]] != stats[tokens[j]] {
			return stats[tokens[i]] > stats[tokens[j]]
		}
		return tokens[i] < tokens[j]
	})

	fmt.Fprintf(f.w, "%s\n\n", f.header.Render("📊 Redirects:"))
	for _, t := range tokens {
		fmt.Fprintf(f.w, "  %6d  %s\n", stats[t], t)
	}
}

func joinCells(cells []string, widths []int) string {
	var b strings.Builder
	for i, c := range cells {
		if i > 0 {
			b.WriteString("  ")
		}
		b.WriteString(c)
		if i < len(cells)-1 {
			b.WriteString(strings.Repeat(" ", widths[i]-lipgloss.Width(c)))
		}
	}
	return b.String()
}
