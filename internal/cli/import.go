package cli

import (
	"cmp"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/ngi/internal/sqlite"
	"github.com/mesh-intelligence/ngi/pkg/ngi"
	"github.com/mesh-intelligence/ngi/pkg/types"
)

func newImportCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "import <records.jsonl> <file>",
		Short: "Build a new ngi file from JSONL records",
		Long: `Import reads records as written by "ngi export --format jsonl" and
creates a new file holding them, ordered by section and property index.
The target file must not exist. Malformed lines are skipped. When a
record cannot be written the partial file is removed.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			records, err := sqlite.ReadJSONL(args[0])
			if err != nil {
				return userError(err)
			}
			if err := ngi.Create(args[1]); err != nil {
				return classify(err)
			}
			h, err := opts.openFile(args[1])
			if err != nil {
				opts.discard(args[1])
				return err
			}

			sections, properties, err := importRecords(h, records)
			opts.closeFile(h)
			if err != nil {
				opts.discard(args[1])
				return classify(fmt.Errorf("import into %s (file removed): %w", args[1], err))
			}
			opts.log.Info("imported", "file", args[1], "sections", sections, "properties", properties)
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d sections, %d properties into %s\n", sections, properties, args[1])
			return nil
		},
	}
}

// importRecords creates the sections and properties of records in h.
func importRecords(h *ngi.Header, records []types.Record) (sections, properties int, err error) {
	sorted := slices.Clone(records)
	slices.SortStableFunc(sorted, func(a, b types.Record) int {
		return cmp.Or(cmp.Compare(a.SectionIndex, b.SectionIndex), cmp.Compare(a.PropertyIndex, b.PropertyIndex))
	})

	var cur *ngi.Section
	last := -1
	for _, r := range sorted {
		if cur == nil || r.SectionIndex != last {
			if cur, err = h.CreateSection(r.Section); err != nil {
				return sections, properties, fmt.Errorf("section %d: %w", r.SectionIndex, err)
			}
			last = r.SectionIndex
			sections++
		}
		if r.IsSection() {
			continue
		}
		if _, err := h.CreateProperty(cur, r.Name, r.Value); err != nil {
			return sections, properties, fmt.Errorf("property %s/%s: %w", r.Section, r.Name, err)
		}
		properties++
	}
	return sections, properties, nil
}

// discard removes a file left behind by a failed import.
func (o *options) discard(path string) {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		o.log.Error("remove partial file failed", "file", path, "error", err)
	}
}
