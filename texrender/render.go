// Package texrender turns TeX math source into display markup.
//
// Every call is total: malformed input, unknown commands and engine panics
// come back as a Result with OK=false and fallback markup, never as a panic.
package texrender

import (
	"context"
	"fmt"
	"html"
	"io"
	"log/slog"
	"strings"

	"git.sr.ht/~mekyt/latex2mathml"
	"golang.org/x/sync/errgroup"
)

const mathMLNamespace = "http://www.w3.org/1998/Math/MathML"

// EmptyText is the terminal rendering of an empty formula.
const EmptyText = "□"

// SyntaxError reports where a formula source stopped making sense.
// Offset is a byte offset into the source.
type SyntaxError struct {
	Offset int
	Msg    string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("offset %d: %s", e.Offset, e.Msg)
}

// Result is the outcome of rendering one formula source.
type Result struct {
	// OK is false when the source could not be typeset. Markup and Text
	// still hold something displayable.
	OK bool
	// Empty marks a blank source; OK is true and the placeholder visual
	// is returned.
	Empty bool
	// Markup is MathML on success, escaped fallback markup otherwise.
	Markup string
	// Text is a single-line Unicode approximation for terminals. On
	// failure it is the raw source.
	Text string
	Err  error
}

// Renderer converts formula sources. Implementations must be safe for
// concurrent use and pure.
type Renderer interface {
	Render(source string) Result
}

// RendererFunc adapts a function to Renderer.
type RendererFunc func(source string) Result

func (f RendererFunc) Render(source string) Result { return f(source) }

// Display selects the MathML display attribute.
type Display string

const (
	DisplayInline Display = "inline"
	DisplayBlock  Display = "block"
)

// Pipeline is the default Renderer. The zero value renders inline math
// and logs nothing.
type Pipeline struct {
	Display Display
	Logger  *slog.Logger
}

var defaultPipeline = &Pipeline{}

// Render renders source with the default pipeline.
func Render(source string) Result {
	return defaultPipeline.Render(source)
}

func (p *Pipeline) logger() *slog.Logger {
	if p.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return p.Logger
}

func (p *Pipeline) display() string {
	if p.Display == "" {
		return string(DisplayInline)
	}
	return string(p.Display)
}

// Render validates source and converts it. It never panics.
func (p *Pipeline) Render(source string) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("texrender: engine panic: %v", r)
			p.logger().Warn("formula render panicked", "source", source, "error", err)
			res = failed(source, err)
		}
	}()

	if strings.TrimSpace(source) == "" {
		return Result{
			OK:     true,
			Empty:  true,
			Markup: `<span class="formula-empty">` + EmptyText + `</span>`,
			Text:   EmptyText,
		}
	}

	tree, err := parse(source)
	if err != nil {
		p.logger().Debug("formula rejected", "source", source, "error", err)
		return failed(source, err)
	}

	return Result{
		OK:     true,
		Markup: latex2mathml.Convert(source, mathMLNamespace, p.display(), 2),
		Text:   toText(tree),
	}
}

// Validate reports the first syntax problem in source, or nil.
func Validate(source string) error {
	if strings.TrimSpace(source) == "" {
		return nil
	}
	_, err := parse(source)
	return err
}

func failed(source string, err error) Result {
	return Result{
		OK:     false,
		Markup: `<code class="formula-error">` + html.EscapeString(source) + `</code>`,
		Text:   source,
		Err:    err,
	}
}

// RenderAll renders sources concurrently with at most workers goroutines
// (workers <= 0 means one per source). Results are index-aligned with
// sources. The only error returned is the context's.
func RenderAll(ctx context.Context, r Renderer, sources []string, workers int) ([]Result, error) {
	if r == nil {
		r = defaultPipeline
	}
	out := make([]Result, len(sources))
	g, gctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}
	for i, src := range sources {
		i, src := i, src
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			out[i] = r.Render(src)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return out, err
	}
	return out, ctx.Err()
}
