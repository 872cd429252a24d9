package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/ngi/pkg/ngi"
)

func newSetCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "set <file> <section> <property> <value>",
		Short: "Set a property, creating it when missing",
		Long: `Set replaces the value of the first matching property. When the
property does not exist it is created, and so is its section.

Example:
  ngi set app.ngi net host 127.0.0.1`,
		Args: cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			section, name, value := args[1], args[2], args[3]
			h, err := opts.openFile(args[0])
			if err != nil {
				return err
			}
			defer opts.closeFile(h)

			s := h.SectionByName(section)
			if s == nil {
				if s, err = h.CreateSection(section); err != nil {
					return classify(err)
				}
			}
			action := "updated"
			if p := s.PropertyByName(name); p != nil {
				err = h.ReplaceProperty(p, ngi.WithValue(value))
			} else {
				action = "created"
				_, err = h.CreateProperty(s, name, value)
			}
			if err != nil {
				return classify(err)
			}
			opts.log.Info("property set", "section", section, "property", name, "action", action)
			if opts.jsonMode {
				return printJSON(cmd, map[string]string{"section": section, "name": name, "value": value, "action": action})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s/%s\n", action, section, name)
			return nil
		},
	}
}
