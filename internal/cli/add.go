package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newAddCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "add <file> <section> [property value]",
		Short: "Add a section or a property",
		Long: `Add appends a new section to the end of the file, or, given a
property and a value, inserts a property after the last property of the
first matching section.

Example:
  ngi add app.ngi db
  ngi add app.ngi db path /var/lib/app.db`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 2 && len(args) != 4 {
				return fmt.Errorf("accepts 2 or 4 arg(s), received %d", len(args))
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := opts.openFile(args[0])
			if err != nil {
				return err
			}
			defer opts.closeFile(h)

			if len(args) == 2 {
				if _, err := h.CreateSection(args[1]); err != nil {
					return classify(err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "added section %s\n", args[1])
				return nil
			}

			s, err := findSection(h, args[1])
			if err != nil {
				return err
			}
			if _, err := h.CreateProperty(s, args[2], args[3]); err != nil {
				return classify(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "added %s/%s\n", args[1], args[2])
			return nil
		},
	}
}
