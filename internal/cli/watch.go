package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/ngi/pkg/ngi"
)

func newWatchCmd(opts *options) *cobra.Command {
	var maxEvents int
	cmd := &cobra.Command{
		Use:   "watch <file>",
		Short: "Recache the tree every time the file changes",
		Long: `Watch keeps the file open and runs a recache pass whenever another
program writes to it, printing the changes. A file replaced by rename is
re-opened. Stop with Ctrl-C.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := filepath.Abs(args[0])
			if err != nil {
				return sysError(err)
			}
			h, err := opts.openFile(path)
			if err != nil {
				return err
			}
			w := &watcher{opts: opts, path: path, h: h, out: cmd.OutOrStdout(), maxEvents: maxEvents}
			defer func() { opts.closeFile(w.h) }()

			fsw, err := fsnotify.NewWatcher()
			if err != nil {
				return sysError(fmt.Errorf("create watcher: %w", err))
			}
			defer fsw.Close()
			// Watch the directory so that editors replacing the file by
			// rename are still seen.
			if err := fsw.Add(filepath.Dir(path)); err != nil {
				return sysError(fmt.Errorf("watch %s: %w", filepath.Dir(path), err))
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			opts.log.Info("watching", "file", path)
			return w.loop(ctx, fsw.Events, fsw.Errors)
		},
	}
	cmd.Flags().IntVar(&maxEvents, "max-events", 0, "stop after this many recache passes (0 watches forever)")
	return cmd
}

// watcher applies file system events for one file to its header.
type watcher struct {
	opts      *options
	path      string
	h         *ngi.Header
	out       io.Writer
	maxEvents int
	handled   int
}

// loop consumes events until ctx is done, a channel closes, or maxEvents
// passes have run.
func (w *watcher) loop(ctx context.Context, events <-chan fsnotify.Event, errs <-chan error) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			done, err := w.handle(ev)
			if err != nil {
				return err
			}
			if done {
				return nil
			}
		case err, ok := <-errs:
			if !ok {
				return nil
			}
			w.opts.log.Warn("watch error", "error", err)
		}
	}
}

// handle processes one event and reports whether the event budget is spent.
func (w *watcher) handle(ev fsnotify.Event) (bool, error) {
	if filepath.Clean(ev.Name) != w.path {
		return false, nil
	}
	switch {
	case ev.Has(fsnotify.Create):
		// A new inode: drop the old header and parse the replacement.
		w.opts.closeFile(w.h)
		h, err := w.opts.openFile(w.path)
		if err != nil {
			return false, err
		}
		w.h = h
		w.opts.log.Info("file replaced", "file", w.path, "sections", h.Len())
		if err := reportRecache(w.out, w.opts.jsonMode, h, ngi.RecacheStats{Created: countNodes(h)}); err != nil {
			return false, err
		}
	case ev.Has(fsnotify.Write):
		st, err := w.h.Recache()
		if err != nil {
			return false, classify(err)
		}
		if !st.Changed() {
			return false, nil
		}
		if err := reportRecache(w.out, w.opts.jsonMode, w.h, st); err != nil {
			return false, err
		}
	case ev.Has(fsnotify.Remove), ev.Has(fsnotify.Rename):
		w.opts.log.Warn("file moved away", "file", w.path, "op", ev.Op.String())
		return false, nil
	default:
		return false, nil
	}
	w.handled++
	return w.maxEvents > 0 && w.handled >= w.maxEvents, nil
}

// countNodes returns the number of sections and properties in h.
func countNodes(h *ngi.Header) int {
	n := h.Len()
	for _, s := range h.Sections() {
		n += s.Len()
	}
	return n
}
