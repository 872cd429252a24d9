package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss/v2"
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/ngi/pkg/ngi"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))
	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39"))
	nameStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("250"))
	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("114"))
	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))
)

func newShowCmd(opts *options) *cobra.Command {
	var plain bool
	cmd := &cobra.Command{
		Use:   "show <file>",
		Short: "Render the section tree of a file",
		Long: `Show parses the file and renders its sections and properties.

Example:
  ngi show app.ngi
  ngi show app.ngi --plain
  ngi show app.ngi --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := opts.openFile(args[0])
			if err != nil {
				return err
			}
			defer opts.closeFile(h)

			switch {
			case opts.jsonMode:
				return printJSON(cmd, h.Records())
			case plain:
				if err := h.WriteMap(cmd.OutOrStdout()); err != nil {
					return sysError(err)
				}
				return nil
			default:
				renderTree(cmd.OutOrStdout(), h)
				return nil
			}
		},
	}
	cmd.Flags().BoolVar(&plain, "plain", false, "print the tree map without styling")
	return cmd
}

// renderTree writes a styled outline of h to w.
func renderTree(w io.Writer, h *ngi.Header) {
	var b strings.Builder
	b.WriteString(titleStyle.Render(h.Path()))
	b.WriteString(" ")
	b.WriteString(mutedStyle.Render(fmt.Sprintf("(%d sections)", h.Len())))
	b.WriteString("\n")

	for i, s := range h.Sections() {
		branch, indent := "├── ", "│   "
		if i == h.Len()-1 {
			branch, indent = "└── ", "    "
		}
		b.WriteString(mutedStyle.Render(branch))
		b.WriteString(sectionStyle.Render(s.Name()))
		b.WriteString("\n")
		for j, p := range s.Properties() {
			leaf := "├── "
			if j == s.Len()-1 {
				leaf = "└── "
			}
			b.WriteString(mutedStyle.Render(indent + leaf))
			b.WriteString(nameStyle.Render(p.Name()))
			b.WriteString(mutedStyle.Render(": "))
			b.WriteString(valueStyle.Render(p.Value()))
			b.WriteString("\n")
		}
	}
	fmt.Fprint(w, b.String())
}
