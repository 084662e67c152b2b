package main

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

//go:embed usage.md
var usageDoc string

var docsCmd = &cobra.Command{
	Use:   "docs",
	Short: "Show the usage guide",
	Long:  `Show the full usage guide, covering preferences, match rules and EDL export.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Print(renderMarkdown(usageDoc))
		return nil
	},
}

// renderMarkdown pretty-prints markdown on a terminal and falls back
// to the raw text when rendering is unavailable.
func renderMarkdown(content string) string {
	if !isatty.IsTerminal(os.Stdout.Fd()) {
		return content
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return content
	}
	rendered, err := renderer.Render(content)
	if err != nil {
		return content
	}
	return rendered
}
