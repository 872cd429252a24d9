package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/ngi/internal/sqlite"
	"github.com/mesh-intelligence/ngi/pkg/ngi"
)

func newGetCmd(opts *options) *cobra.Command {
	var useIndex bool
	cmd := &cobra.Command{
		Use:   "get <file> <section> [property]",
		Short: "Print a property value or a whole section",
		Long: `Get prints the value of a property, or every property of a section
when no property is named. The first section and property with a
matching name win. With --index the property is looked up through an
in-memory SQLite index of the file instead of the parsed tree.

Example:
  ngi get app.ngi net host
  ngi get app.ngi net
  ngi get --index app.ngi net host`,
		Args: cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := opts.openFile(args[0])
			if err != nil {
				return err
			}
			defer opts.closeFile(h)

			if len(args) == 3 {
				value, err := opts.lookup(h, useIndex, args[1], args[2])
				if err != nil {
					return err
				}
				if opts.jsonMode {
					return printJSON(cmd, map[string]string{"section": args[1], "name": args[2], "value": value})
				}
				fmt.Fprintln(cmd.OutOrStdout(), value)
				return nil
			}

			if useIndex {
				return userError(fmt.Errorf("--index needs a property name"))
			}
			s, err := findSection(h, args[1])
			if err != nil {
				return err
			}
			if opts.jsonMode {
				return printJSON(cmd, recordsOf(h, s))
			}
			for _, p := range s.Properties() {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", p.Name(), p.Value())
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&useIndex, "index", false, "look the property up through a SQLite index")
	return cmd
}

// lookup returns the value of section/name, from the tree or from an
// in-memory index loaded with its records.
func (o *options) lookup(h *ngi.Header, useIndex bool, section, name string) (string, error) {
	if !useIndex {
		p, err := findProperty(h, section, name)
		if err != nil {
			return "", err
		}
		return p.Value(), nil
	}

	idx, err := sqlite.NewMirror("", o.log)
	if err != nil {
		return "", sysError(err)
	}
	defer idx.Close()
	if err := idx.Load(h.Records()); err != nil {
		return "", sysError(err)
	}
	value, err := idx.Lookup(section, name)
	if err != nil {
		return "", classify(err)
	}
	return value, nil
}
