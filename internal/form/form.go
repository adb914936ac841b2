package form

import (
	"errors"
	"fmt"
)

// ErrNotGroup is returned when a form root is not a group spec.
var ErrNotGroup = errors.New("form: root spec must be a group")

// Form owns one entity form tree for the lifetime of a screen.
type Form struct {
	root *Node
}

// Build constructs a form from a group spec. Leaf defaults are copied and
// validated immediately, so a fresh form reports its real validity.
func Build(spec Spec) (*Form, error) {
	if spec.kind != KindGroup {
		return nil, ErrNotGroup
	}
	return &Form{root: build(spec)}, nil
}

// MustBuild is Build for package-level schemas.
func MustBuild(spec Spec) *Form {
	f, err := Build(spec)
	if err != nil {
		panic(err)
	}
	return f
}

// Root exposes the top-level group.
func (f *Form) Root() *Node {
	return f.root
}

// Get resolves a dotted path.
func (f *Form) Get(path string) (*Node, bool) {
	return f.root.Get(path)
}

// Leaf resolves a dotted path that must name a leaf.
func (f *Form) Leaf(path string) (*Node, error) {
	n, ok := f.root.Get(path)
	if !ok {
		return nil, fmt.Errorf("form: unknown path %q", path)
	}
	if n.kind != KindLeaf {
		return nil, fmt.Errorf("form: %q is a %s, not a leaf", path, n.kind)
	}
	return n, nil
}

// Section resolves a dotted path that must name a list.
func (f *Form) Section(path string) (*Section, error) {
	n, ok := f.root.Get(path)
	if !ok {
		return nil, fmt.Errorf("form: unknown path %q", path)
	}
	if n.kind != KindList {
		return nil, fmt.Errorf("form: %q is a %s, not a list", path, n.kind)
	}
	return &Section{node: n}, nil
}

// Patch merges a partial value. Paths missing from values are untouched and
// list entries are updated by index, never removed.
func (f *Form) Patch(values map[string]interface{}) {
	if len(values) == 0 {
		return
	}
	f.root.patch(values, false)
}

// Populate loads a fetched record into the form. It behaves like Patch,
// except that every list present in values is rebuilt to match it exactly.
func (f *Form) Populate(values map[string]interface{}) {
	if len(values) == 0 {
		return
	}
	f.root.patch(values, true)
}

// Validate re-runs every rule and reports whether the whole form is valid.
func (f *Form) Validate() bool {
	return f.root.Validate()
}

// MarkAllTouched forces every leaf into the touched state.
func (f *Form) MarkAllTouched() {
	f.root.MarkAllTouched()
}

// Valid reports whether every leaf passes its rules.
func (f *Form) Valid() bool { return f.root.Valid() }

// Touched reports whether every leaf has been visited. An empty form is
// vacuously touched.
func (f *Form) Touched() bool { return f.root.Touched() }

// Dirty reports whether any leaf was edited through SetValue.
func (f *Form) Dirty() bool { return f.root.Dirty() }

// ToValue flattens the tree into a submission payload with normalizers applied.
func (f *Form) ToValue() map[string]interface{} {
	out, _ := f.root.flatten(true).(map[string]interface{})
	return out
}

// Errors lists the failing rules of every invalid leaf by path.
func (f *Form) Errors() map[string][]string {
	return f.collect(false)
}

// VisibleErrors is Errors restricted to touched leaves; untouched fields
// keep their messages hidden until the user visits them or submits.
func (f *Form) VisibleErrors() map[string][]string {
	return f.collect(true)
}

// FirstErrors keeps the first message per path, as rendered under inputs.
func (f *Form) FirstErrors() map[string]string {
	out := make(map[string]string)
	for path, msgs := range f.collect(false) {
		out[path] = msgs[0]
	}
	return out
}

func (f *Form) collect(touchedOnly bool) map[string][]string {
	out := make(map[string][]string)
	f.root.walk("", func(path string, leaf *Node) {
		if len(leaf.errs) == 0 || (touchedOnly && !leaf.touched) {
			return
		}
		out[path] = leaf.Errors()
	})
	return out
}
