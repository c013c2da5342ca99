package dirstore

import (
	"fmt"
	"os"
	"strings"
	"text/template"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

var (
	boldStyle  = lipgloss.NewStyle().Bold(true)
	errorStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
)

// isTerminal reports whether stdout is a terminal. Styling is skipped
// for pipes and redirects so output stays grep friendly.
func isTerminal() bool {
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}

// initTemplateFormatting registers the template helpers used by the
// usage template. Must run before any command renders help.
func initTemplateFormatting() {
	cobra.AddTemplateFuncs(template.FuncMap{
		"bold": func(s string) string {
			if !isTerminal() {
				return s
			}
			return boldStyle.Render(s)
		},
		"upper": strings.ToUpper,
		"boldUpper": func(s string) string {
			s = strings.ToUpper(s)
			if !isTerminal() {
				return s
			}
			return boldStyle.Render(s)
		},
	})
}

// RenderError formats an error for stderr, styled when stderr is a
// terminal.
func RenderError(err error) string {
	msg := fmt.Sprintf("Error: %v", err)
	if !isatty.IsTerminal(os.Stderr.Fd()) && !isatty.IsCygwinTerminal(os.Stderr.Fd()) {
		return msg
	}
	return errorStyle.Render(msg)
}
