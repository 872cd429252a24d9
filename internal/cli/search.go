package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/ngi/internal/sqlite"
)

func newSearchCmd(opts *options) *cobra.Command {
	var memory bool
	cmd := &cobra.Command{
		Use:   "search <file> <pattern>",
		Short: "Search section names, property names and values",
		Long: `Search loads the file into a SQLite index in the data directory and
matches pattern against section names, property names and values. The
pattern uses SQL LIKE syntax: % matches any run of characters and _ a
single character. Matching is case-insensitive for ASCII letters.

Example:
  ngi search app.ngi '%localhost%'
  ngi search app.ngi 'db'`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := opts.openFile(args[0])
			if err != nil {
				return err
			}
			records := h.Records()
			opts.closeFile(h)

			dataDir := ""
			if !memory {
				if dataDir, err = opts.resolveDataDir(); err != nil {
					return sysError(fmt.Errorf("resolve data dir: %w", err))
				}
			}
			idx, err := sqlite.NewMirror(dataDir, opts.log)
			if err != nil {
				return sysError(err)
			}
			defer idx.Close()

			if err := idx.Load(records); err != nil {
				return sysError(err)
			}
			found, err := idx.Search(args[1])
			if err != nil {
				return sysError(err)
			}
			sections, properties, err := idx.Counts()
			if err != nil {
				return sysError(err)
			}
			opts.log.Debug("search done",
				"pattern", args[1],
				"matches", len(found),
				"sections", sections,
				"properties", properties,
				"index", idx.Path(),
			)

			if opts.jsonMode {
				if found == nil {
					return printJSON(cmd, []any{})
				}
				return printJSON(cmd, found)
			}
			for _, r := range found {
				if r.IsSection() {
					fmt.Fprintf(cmd.OutOrStdout(), "%s\n", r.Section)
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s/%s: %s\n", r.Section, r.Name, r.Value)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&memory, "memory", false, "keep the index in memory instead of the data directory")
	return cmd
}
