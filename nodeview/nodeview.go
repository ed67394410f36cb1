// Package nodeview binds interactive presentations to atom nodes.
//
// The document model only knows a node type's view key. A Registry maps
// keys to factories, so the presentation of an atom can be swapped without
// touching the schema or the session.
package nodeview

import (
	"errors"
	"sync"

	"github.com/iw2rmb/mathdoc/schema"
	"github.com/iw2rmb/mathdoc/session"
	"github.com/iw2rmb/mathdoc/texrender"
)

// ErrStaleView is returned when the node a view was bound to has moved or
// been replaced since the view was mounted.
var ErrStaleView = errors.New("nodeview: node moved or replaced")

// View is the presentation of one atom occurrence.
type View interface {
	Pos() int
	Node() *schema.Node
}

// Factory builds a view for the atom at ref.
type Factory func(reg *Registry, s *session.Session, ref session.AtomRef) View

// Registry maps view keys to factories and shares a render memo between
// the views it mounts. It is safe for concurrent use.
type Registry struct {
	renderer texrender.Renderer

	mu        sync.RWMutex
	factories map[string]Factory

	memoMu sync.Mutex
	memo   map[string]texrender.Result
}

const memoLimit = 512

// NewRegistry returns a registry with the formula view registered under
// schema.ViewFormula. A nil renderer means texrender's default pipeline.
func NewRegistry(r texrender.Renderer) *Registry {
	if r == nil {
		r = texrender.RendererFunc(texrender.Render)
	}
	reg := &Registry{
		renderer:  r,
		factories: make(map[string]Factory),
		memo:      make(map[string]texrender.Result),
	}
	reg.Register(schema.ViewFormula, func(reg *Registry, s *session.Session, ref session.AtomRef) View {
		return NewFormulaView(reg, s, ref)
	})
	return reg
}

// Register binds a view key to a factory, replacing any previous one.
func (r *Registry) Register(key string, f Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[key] = f
}

// Lookup returns the factory for a view key.
func (r *Registry) Lookup(key string) (Factory, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.factories[key]
	return f, ok
}

// Mount binds a view to every atom in s whose node type declares a view
// key with a registered factory. Views are keyed by offset.
func (r *Registry) Mount(s *session.Session) map[int]View {
	out := make(map[int]View)
	for _, ref := range s.Atoms() {
		t, ok := s.Registry().Node(ref.Node.Type)
		if !ok || t.View == "" {
			continue
		}
		f, ok := r.Lookup(t.View)
		if !ok {
			continue
		}
		out[ref.Pos] = f(r, s, ref)
	}
	return out
}

// render renders source through the registry's renderer, remembering
// recent results.
func (r *Registry) render(source string) texrender.Result {
	r.memoMu.Lock()
	res, ok := r.memo[source]
	r.memoMu.Unlock()
	if ok {
		return res
	}

	res = r.renderer.Render(source)

	r.memoMu.Lock()
	if len(r.memo) >= memoLimit {
		clear(r.memo)
	}
	r.memo[source] = res
	r.memoMu.Unlock()
	return res
}
