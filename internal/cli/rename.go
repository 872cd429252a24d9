package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/ngi/pkg/ngi"
)

func newRenameCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <file> <section> [property] <new-name>",
		Short: "Rename a section or a property",
		Long: `Rename gives the first matching section, or the first matching
property within it, a new name and rewrites the file.

Example:
  ngi rename app.ngi net network
  ngi rename app.ngi net host hostname`,
		Args: cobra.RangeArgs(3, 4),
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := opts.openFile(args[0])
			if err != nil {
				return err
			}
			defer opts.closeFile(h)

			if len(args) == 3 {
				s, err := findSection(h, args[1])
				if err != nil {
					return err
				}
				if err := h.ReplaceSection(s, args[2]); err != nil {
					return classify(err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "renamed section %s to %s\n", args[1], args[2])
				return nil
			}

			p, err := findProperty(h, args[1], args[2])
			if err != nil {
				return err
			}
			if err := h.ReplaceProperty(p, ngi.WithName(args[3])); err != nil {
				return classify(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "renamed %s/%s to %s\n", args[1], args[2], args[3])
			return nil
		},
	}
}
