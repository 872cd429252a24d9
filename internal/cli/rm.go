package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newRmCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <file> <section> [property]",
		Short: "Delete a section or a property",
		Long: `Rm deletes the first matching section with all its properties, or
the first matching property within it, and rewrites the file.`,
		Args: cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := opts.openFile(args[0])
			if err != nil {
				return err
			}
			defer opts.closeFile(h)

			if len(args) == 2 {
				s, err := findSection(h, args[1])
				if err != nil {
					return err
				}
				if err := h.DeleteSection(s); err != nil {
					return classify(err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "removed section %s\n", args[1])
				return nil
			}

			p, err := findProperty(h, args[1], args[2])
			if err != nil {
				return err
			}
			if err := h.DeleteProperty(p); err != nil {
				return classify(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "removed %s/%s\n", args[1], args[2])
			return nil
		},
	}
}
