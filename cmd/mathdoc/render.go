package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/iw2rmb/mathdoc/prompt"
	"github.com/iw2rmb/mathdoc/texrender"
)

type renderFlags struct {
	block  bool
	mathml bool
}

func newRenderCmd(e *env) *cobra.Command {
	var flags renderFlags
	cmd := &cobra.Command{
		Use:   "render [source...]",
		Short: "Typeset formula sources and print their Unicode text",
		Long: "Typeset each TeX-style source and print a one-line Unicode rendering.\n" +
			"Without arguments the source is read from a prompt.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				src, ok, err := prompt.NewTerminal().Prompt(cmd.Context(), prompt.FormulaRequest(""))
				if err != nil {
					return err
				}
				if !ok {
					return nil
				}
				args = []string{src}
			}
			return runRender(cmd.Context(), e, cmd.OutOrStdout(), args, flags)
		},
	}
	cmd.Flags().BoolVar(&flags.block, "block", false, "Typeset in display (block) style")
	cmd.Flags().BoolVar(&flags.mathml, "mathml", false, "Also print the MathML markup")
	return cmd
}

var errRenderFailed = errors.New("some formulas failed to render")

func runRender(ctx context.Context, e *env, out io.Writer, sources []string, flags renderFlags) error {
	p := &texrender.Pipeline{Display: texrender.DisplayInline, Logger: e.log}
	if flags.block {
		p.Display = texrender.DisplayBlock
	}
	results, err := texrender.RenderAll(ctx, p, sources, workers(e))
	if err != nil {
		return err
	}

	failed := 0
	for i, r := range results {
		switch {
		case !r.OK:
			failed++
			fmt.Fprintf(out, "%s\terror: %v\n", sources[i], r.Err)
		case flags.mathml:
			fmt.Fprintf(out, "%s\t%s\n", r.Text, r.Markup)
		default:
			fmt.Fprintln(out, r.Text)
		}
	}
	if failed > 0 {
		return fmt.Errorf("%w: %d of %d", errRenderFailed, failed, len(sources))
	}
	return nil
}

func workers(e *env) int {
	if e.cfg.Render.Workers > 0 {
		return e.cfg.Render.Workers
	}
	return runtime.NumCPU()
}
