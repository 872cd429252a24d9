package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/ngi/pkg/ngi"
)

func newInitCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "init <file>",
		Short: "Create an empty ngi file",
		Long:  "Create an empty ngi file. Fails if the file already exists.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := ngi.Create(args[0]); err != nil {
				return classify(err)
			}
			opts.log.Info("file created", "file", args[0])
			fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", args[0])
			return nil
		},
	}
}
