package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/ngi/pkg/ngi"
)

// recacheReport is the JSON form of one recache pass.
type recacheReport struct {
	File     string `json:"file"`
	Sections int    `json:"sections"`
	Created  int    `json:"created"`
	Updated  int    `json:"updated"`
	Deleted  int    `json:"deleted"`
}

func newRecacheCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "recache <file>",
		Short: "Re-synchronize the tree with the file and print what changed",
		Long: `Recache parses the file, runs one positional reconciliation pass over
it and prints the number of nodes created, updated and deleted. A file
that parses cleanly reports no changes.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := opts.openFile(args[0])
			if err != nil {
				return err
			}
			defer opts.closeFile(h)

			st, err := h.Recache()
			if err != nil {
				return classify(err)
			}
			return reportRecache(cmd.OutOrStdout(), opts.jsonMode, h, st)
		},
	}
}

func reportRecache(w io.Writer, jsonMode bool, h *ngi.Header, st ngi.RecacheStats) error {
	if jsonMode {
		return writeJSON(w, recacheReport{
			File:     h.Path(),
			Sections: h.Len(),
			Created:  st.Created,
			Updated:  st.Updated,
			Deleted:  st.Deleted,
		})
	}
	fmt.Fprintf(w, "%s: %d sections, %d created, %d updated, %d deleted\n",
		h.Path(), h.Len(), st.Created, st.Updated, st.Deleted)
	return nil
}
