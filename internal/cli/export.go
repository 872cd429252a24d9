package cli

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/ngi/internal/sqlite"
	"github.com/mesh-intelligence/ngi/pkg/types"
)

// Export formats.
const (
	formatJSONL = "jsonl"
	formatJSON  = "json"
	formatYAML  = "yaml"
)

// yamlSection is the YAML form of a section: properties keep file order.
type yamlSection struct {
	Section    string         `yaml:"section"`
	Properties []yamlProperty `yaml:"properties,omitempty"`
}

type yamlProperty struct {
	Name  string `yaml:"name"`
	Value string `yaml:"value"`
}

func newExportCmd(opts *options) *cobra.Command {
	var format, output string
	cmd := &cobra.Command{
		Use:   "export <file>",
		Short: "Export the records of a file",
		Long: `Export flattens the tree into one record per property and writes the
records as JSONL, a JSON array, or YAML grouped by section. Sections with
no properties are exported as a single record without a name.

Example:
  ngi export app.ngi
  ngi export app.ngi --format yaml -o app.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := opts.openFile(args[0])
			if err != nil {
				return err
			}
			records := h.Records()
			opts.closeFile(h)

			if output != "" && format == formatJSONL {
				if err := sqlite.WriteJSONL(output, records); err != nil {
					return sysError(err)
				}
				opts.log.Info("exported", "file", args[0], "records", len(records), "output", output)
				return nil
			}

			var buf bytes.Buffer
			if err := encodeRecords(&buf, format, records); err != nil {
				return err
			}
			if output == "" {
				_, err := cmd.OutOrStdout().Write(buf.Bytes())
				return err
			}
			if err := os.WriteFile(output, buf.Bytes(), 0o644); err != nil {
				return sysError(fmt.Errorf("write %s: %w", output, err))
			}
			opts.log.Info("exported", "file", args[0], "records", len(records), "output", output)
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", formatJSONL, "output format (jsonl|json|yaml)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to this file instead of stdout")
	return cmd
}

// encodeRecords writes records to w in format.
func encodeRecords(w io.Writer, format string, records []types.Record) error {
	switch format {
	case formatJSONL:
		if err := sqlite.EncodeJSONL(w, records); err != nil {
			return sysError(err)
		}
		return nil
	case formatJSON:
		if records == nil {
			records = []types.Record{}
		}
		return writeJSON(w, records)
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(groupSections(records)); err != nil {
			return sysError(fmt.Errorf("encode yaml: %w", err))
		}
		return enc.Close()
	default:
		return userError(fmt.Errorf("invalid format %q: must be one of jsonl, json, yaml", format))
	}
}

// groupSections folds records back into sections in file order.
func groupSections(records []types.Record) []yamlSection {
	out := []yamlSection{}
	last := -1
	for _, r := range records {
		if r.SectionIndex != last {
			out = append(out, yamlSection{Section: r.Section})
			last = r.SectionIndex
		}
		if r.IsSection() {
			continue
		}
		cur := &out[len(out)-1]
		cur.Properties = append(cur.Properties, yamlProperty{Name: r.Name, Value: r.Value})
	}
	return out
}
