package pipeline

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

var (
	headingStyle = lipgloss.NewStyle().Bold(true)
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	errStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
)

// Summary renders the run counters for the terminal. Color is applied
// only when writing to a TTY.
func Summary(result *Result) string {
	plain := !isatty.IsTerminal(os.Stdout.Fd())
	style := func(s lipgloss.Style, text string) string {
		if plain {
			return text
		}
		return s.Render(text)
	}

	var b strings.Builder
	b.WriteString(style(headingStyle, "Run summary") + "\n")

	if result.Index != nil {
		fmt.Fprintf(&b, "  %s %d found, %d dropped by grouping, %d skipped\n",
			style(labelStyle, "csv files:"),
			result.Index.FilesFound, result.Index.FilesGrouped, result.Index.FilesSkipped)
		fmt.Fprintf(&b, "  %s %d parsed, %d skipped by rules\n",
			style(labelStyle, "csv rows: "),
			result.Index.RowsParsed, result.Index.RowsSkipped)
	}

	line := fmt.Sprintf("  %s %d found, %d probe failures\n",
		style(labelStyle, "media:    "), result.MediaFound, result.ProbeFailed)
	if result.ProbeFailed > 0 {
		line = style(warnStyle, line)
	}
	b.WriteString(line)

	if result.Match != nil {
		fmt.Fprintf(&b, "  %s %d pairs, %d rows unmatched, %d media unmatched\n",
			style(labelStyle, "matching: "),
			result.Match.Pairs, result.Match.RowsUnmatched, result.Match.ClipsUnmatched)
		if result.Match.TimecodeRejected > 0 {
			fmt.Fprintf(&b, "  %s %d key matches rejected by timecode\n",
				style(labelStyle, "timecode: "), result.Match.TimecodeRejected)
		}
	}

	fmt.Fprintf(&b, "  %s %d of %d written\n",
		style(labelStyle, "edls:     "), result.Written, len(result.Lists))
	for _, err := range result.WriteErrors {
		b.WriteString(style(errStyle, "  write error: "+err.Error()) + "\n")
	}

	return b.String()
}
