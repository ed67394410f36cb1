package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/iw2rmb/mathdoc/internal/record"
)

var errNoTerminal = errors.New("edit needs an interactive terminal")

func newEditCmd(e *env) *cobra.Command {
	var create bool
	cmd := &cobra.Command{
		Use:   "edit FILE",
		Short: "Edit a question file in the terminal",
		Long: "Open every field of a question file in its own editor. Changes written\n" +
			"to the file by other programs are loaded while editing.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
				return errNoTerminal
			}
			path, err := filepath.Abs(args[0])
			if err != nil {
				return err
			}
			rec, err := record.Load(path)
			if errors.Is(err, os.ErrNotExist) && create {
				rec, err = &record.Record{}, nil
			}
			if err != nil {
				return err
			}
			return runEdit(cmd.Context(), e, path, rec)
		},
	}
	cmd.Flags().BoolVar(&create, "create", false, "Start from an empty record when FILE does not exist")
	return cmd
}

func runEdit(ctx context.Context, e *env, path string, rec *record.Record) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	m := newAppModel(e.cfg, e.log, path, rec)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))

	w, err := newRecordWatcher(path, e.log)
	if err != nil {
		return err
	}
	defer w.Close()
	go w.run(ctx, p.Send)

	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("edit: %w", err)
	}
	return nil
}

// recordWatcher re-reads the record whenever its file is written. It
// watches the directory so editors that save by renaming over the file
// are seen too.
type recordWatcher struct {
	path    string
	watcher *fsnotify.Watcher
	log     *slog.Logger
}

func newRecordWatcher(path string, log *slog.Logger) (*recordWatcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating file watcher: %w", err)
	}
	if err := fw.Add(filepath.Dir(path)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(path), err)
	}
	return &recordWatcher{path: path, watcher: fw, log: log}, nil
}

func (w *recordWatcher) Close() error { return w.watcher.Close() }

func (w *recordWatcher) run(ctx context.Context, send func(tea.Msg)) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if msg, ok := w.handle(ev); ok {
				send(msg)
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Warn("file watcher error", "err", err)
		}
	}
}

func (w *recordWatcher) handle(ev fsnotify.Event) (tea.Msg, bool) {
	if filepath.Clean(ev.Name) != w.path {
		return nil, false
	}
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
		return nil, false
	}
	rec, err := record.Load(w.path)
	if errors.Is(err, os.ErrNotExist) {
		// Mid-rename; the Create that follows carries the new content.
		return nil, false
	}
	w.log.Debug("record changed on disk", "file", w.path, "op", ev.Op.String())
	return fileChangedMsg{rec: rec, err: err}, true
}
