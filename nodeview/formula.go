package nodeview

import (
	"context"
	"fmt"

	"github.com/iw2rmb/mathdoc/prompt"
	"github.com/iw2rmb/mathdoc/schema"
	"github.com/iw2rmb/mathdoc/session"
	"github.com/iw2rmb/mathdoc/texrender"
)

// Rendered is what a host draws for one formula.
type Rendered struct {
	Source string
	Result texrender.Result
	// Selected is true while the formula intersects the session selection.
	Selected bool
	// Failed asks the host to show an error indicator next to the
	// fallback.
	Failed bool
}

// FormulaView presents one formula atom and owns its edit gesture.
type FormulaView struct {
	reg  *Registry
	sess *session.Session
	pos  int
	node *schema.Node
}

// NewFormulaView binds a view to the formula at ref.
func NewFormulaView(reg *Registry, s *session.Session, ref session.AtomRef) *FormulaView {
	return &FormulaView{reg: reg, sess: s, pos: ref.Pos, node: ref.Node}
}

func (v *FormulaView) Pos() int { return v.pos }

func (v *FormulaView) Node() *schema.Node { return v.node }

// Source returns the formula's raw source.
func (v *FormulaView) Source() string { return v.node.Attr(schema.AttrSource) }

// Stale reports whether the bound node is no longer at the view's offset.
func (v *FormulaView) Stale() bool {
	n, ok := v.sess.AtomAt(v.pos)
	return !ok || n != v.node
}

// Render renders the formula. It never mutates the session.
func (v *FormulaView) Render() Rendered {
	src := v.Source()
	res := v.reg.render(src)
	return Rendered{
		Source:   src,
		Result:   res,
		Selected: v.sess.Selection().Contains(v.pos),
		Failed:   !res.OK,
	}
}

// Edit runs the edit gesture: prompt for a new source seeded with the
// current one and commit it. A cancelled prompt changes nothing and
// reports false. An explicitly empty answer is committed.
func (v *FormulaView) Edit(ctx context.Context, p prompt.Prompter) (bool, error) {
	if v.Stale() {
		return false, ErrStaleView
	}
	src, ok, err := p.Prompt(ctx, prompt.FormulaRequest(v.Source()))
	if err != nil {
		return false, fmt.Errorf("edit formula: %w", err)
	}
	if !ok {
		return false, nil
	}
	if err := v.Commit(src); err != nil {
		return false, err
	}
	return true, nil
}

// Commit stores source on the bound formula as one undoable change and
// rebinds the view to the updated node.
func (v *FormulaView) Commit(source string) error {
	if v.Stale() {
		return ErrStaleView
	}
	if err := v.sess.SetFormulaSource(v.pos, source); err != nil {
		return fmt.Errorf("commit formula: %w", err)
	}
	if n, ok := v.sess.AtomAt(v.pos); ok {
		v.node = n
	}
	return nil
}
