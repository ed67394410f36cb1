package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/iw2rmb/mathdoc/internal/record"
	"github.com/iw2rmb/mathdoc/schema"
	"github.com/iw2rmb/mathdoc/session"
	"github.com/iw2rmb/mathdoc/texrender"
)

func newCheckCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "check FILE...",
		Short: "Report unreadable content and formulas that fail to render",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			problems := 0
			for _, path := range args {
				n, err := checkFile(cmd.Context(), e, cmd.OutOrStdout(), path)
				if err != nil {
					return err
				}
				problems += n
			}
			if problems > 0 {
				return fmt.Errorf("%d problem(s) found", problems)
			}
			return nil
		},
	}
}

// formulaRef locates one formula for reporting.
type formulaRef struct {
	field  string
	pos    int
	source string
}

func checkFile(ctx context.Context, e *env, out io.Writer, path string) (int, error) {
	rec, err := record.Load(path)
	if err != nil {
		return 0, err
	}

	problems := 0
	var refs []formulaRef
	for _, f := range rec.Fields() {
		s := session.New(f.Value, e.cfg.SessionOptions())
		for _, is := range s.Issues() {
			problems++
			fmt.Fprintf(out, "%s: %s: %s\n", path, f.Name, is)
		}
		for _, a := range s.Atoms() {
			if a.Node.Type == schema.TypeFormula {
				refs = append(refs, formulaRef{field: f.Name, pos: a.Pos, source: a.Node.Attr(schema.AttrSource)})
			}
		}
	}

	sources := make([]string, len(refs))
	for i, r := range refs {
		sources[i] = r.source
	}
	p := &texrender.Pipeline{Logger: e.log}
	results, err := texrender.RenderAll(ctx, p, sources, workers(e))
	if err != nil {
		return problems, err
	}
	for i, r := range results {
		if r.OK {
			continue
		}
		problems++
		fmt.Fprintf(out, "%s: %s: formula at %d: %v\n", path, refs[i].field, refs[i].pos, r.Err)
	}
	e.log.Debug("checked", "file", path, "formulas", len(refs), "problems", problems)
	return problems, nil
}
