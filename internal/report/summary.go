package report

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"ozzus/domain-scout/internal/domain"
)

type summaryTheme struct {
	Title lipgloss.Style
	Label lipgloss.Style
	Hit   lipgloss.Style
	Error lipgloss.Style
	Card  lipgloss.Style
}

func defaultSummaryTheme() summaryTheme {
	return summaryTheme{
		Title: lipgloss.NewStyle().Bold(true),
		Label: lipgloss.NewStyle().Faint(true),
		Hit:   lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true),
		Error: lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
		Card: lipgloss.NewStyle().
			Padding(0, 1).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")),
	}
}

// PrintSummary writes the end-of-run block for s.
func PrintSummary(w io.Writer, s domain.Summary) {
	fmt.Fprintln(w, RenderSummary(s))
}

func RenderSummary(s domain.Summary) string {
	th := defaultSummaryTheme()

	var b strings.Builder
	title := fmt.Sprintf("Checked %d/%d .%s names", s.Completed, s.Total, s.Suffix)
	if elapsed := s.Elapsed(); elapsed > 0 {
		title += " in " + elapsed.Round(time.Millisecond).String()
	}
	b.WriteString(th.Title.Render(title))
	b.WriteString("\n")

	fmt.Fprintf(&b, "%s %d  %s %d  %s %d  %s %d",
		th.Label.Render("available"), s.Available,
		th.Label.Render("taken"), s.Taken,
		th.Label.Render("indeterminate"), s.Indeterminate,
		th.Label.Render("errors"), s.Errors,
	)

	if n := s.Incomplete(); n > 0 {
		fmt.Fprintf(&b, "\n%s %d", th.Label.Render("not checked"), n)
	}

	if len(s.ErrorsByKind) > 0 {
		kinds := make([]string, 0, len(s.ErrorsByKind))
		for k := range s.ErrorsByKind {
			kinds = append(kinds, string(k))
		}
		sort.Strings(kinds)

		parts := make([]string, 0, len(kinds))
		for _, k := range kinds {
			parts = append(parts, fmt.Sprintf("%s=%d", k, s.ErrorsByKind[domain.ErrorKind(k)]))
		}
		b.WriteString("\n")
		b.WriteString(th.Error.Render("errors by kind: " + strings.Join(parts, " ")))
	}

	if len(s.Domains) > 0 {
		b.WriteString("\n\n")
		b.WriteString(th.Title.Render("Available"))
		for _, d := range s.Domains {
			b.WriteString("\n  ")
			b.WriteString(th.Hit.Render(d))
		}
	}

	return th.Card.Render(b.String())
}
