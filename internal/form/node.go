package form

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// Node is one element of a form tree. Which fields are meaningful depends
// on kind; every traversal switches on kind rather than on concrete types.
type Node struct {
	kind Kind
	spec Spec

	// leaf
	value   interface{}
	touched bool
	dirty   bool
	errs    []string

	// group
	fields map[string]*Node
	order  []string

	// list
	items []*Node
}

func build(spec Spec) *Node {
	n := &Node{kind: spec.kind, spec: spec}
	switch spec.kind {
	case KindLeaf:
		n.value = clone(spec.def)
		n.revalidate()
	case KindGroup:
		n.fields = make(map[string]*Node, len(spec.fields))
		for _, f := range spec.fields {
			if _, dup := n.fields[f.Name]; dup {
				panic(fmt.Sprintf("form: duplicate field %q", f.Name))
			}
			n.fields[f.Name] = build(f.Spec)
			n.order = append(n.order, f.Name)
		}
	case KindList:
		n.items = []*Node{}
	}
	return n
}

// Kind returns the node variant.
func (n *Node) Kind() Kind {
	return n.kind
}

// Value returns the raw value of a leaf, or the flattened value otherwise.
func (n *Node) Value() interface{} {
	if n.kind == KindLeaf {
		return n.value
	}
	return n.flatten(false)
}

// SetValue replaces a leaf value as a user edit: the leaf becomes dirty and
// its rules are re-evaluated. Groups and lists take a patch instead.
func (n *Node) SetValue(v interface{}) {
	if n.kind != KindLeaf {
		n.patch(v, false)
		return
	}
	n.value = clone(v)
	n.dirty = true
	n.revalidate()
}

// Touch marks a leaf as interacted with. Touching is one-way.
func (n *Node) Touch() {
	if n.kind == KindLeaf {
		n.touched = true
		return
	}
	n.MarkAllTouched()
}

// MarkAllTouched touches every leaf below n at any depth.
func (n *Node) MarkAllTouched() {
	n.walk("", func(_ string, leaf *Node) {
		leaf.touched = true
	})
}

// Touched is true for a leaf the user visited, and for a group or list when
// every descendant leaf is touched.
func (n *Node) Touched() bool {
	all := true
	n.walk("", func(_ string, leaf *Node) {
		all = all && leaf.touched
	})
	return all
}

// Dirty is true when any descendant leaf was edited through SetValue.
func (n *Node) Dirty() bool {
	any := false
	n.walk("", func(_ string, leaf *Node) {
		any = any || leaf.dirty
	})
	return any
}

// Valid is true when every descendant leaf passes its rules.
func (n *Node) Valid() bool {
	ok := true
	n.walk("", func(_ string, leaf *Node) {
		ok = ok && len(leaf.errs) == 0
	})
	return ok
}

// Validate re-runs every rule below n and reports aggregate validity.
func (n *Node) Validate() bool {
	ok := true
	n.walk("", func(_ string, leaf *Node) {
		leaf.revalidate()
		ok = ok && len(leaf.errs) == 0
	})
	return ok
}

// Errors returns the messages of a leaf, or nil for containers.
func (n *Node) Errors() []string {
	if n.kind != KindLeaf || len(n.errs) == 0 {
		return nil
	}
	out := make([]string, len(n.errs))
	copy(out, n.errs)
	return out
}

// Get resolves a dotted path ("address.city", "resources.0.title").
func (n *Node) Get(path string) (*Node, bool) {
	if path == "" {
		return n, true
	}
	cur := n
	for _, segment := range strings.Split(path, ".") {
		switch cur.kind {
		case KindGroup:
			child, ok := cur.fields[segment]
			if !ok {
				return nil, false
			}
			cur = child
		case KindList:
			idx, err := strconv.Atoi(segment)
			if err != nil || idx < 0 || idx >= len(cur.items) {
				return nil, false
			}
			cur = cur.items[idx]
		default:
			return nil, false
		}
	}
	return cur, true
}

// walk visits every leaf below n in declaration order with its path.
func (n *Node) walk(prefix string, fn func(path string, leaf *Node)) {
	switch n.kind {
	case KindLeaf:
		fn(prefix, n)
	case KindGroup:
		for _, name := range n.order {
			n.fields[name].walk(join(prefix, name), fn)
		}
	case KindList:
		for i, item := range n.items {
			item.walk(join(prefix, strconv.Itoa(i)), fn)
		}
	}
}

// patch merges v into the subtree. Keys absent from v, and groups given as
// nil, keep their current state. With replaceLists, list contents are
// rebuilt from v instead of merged index by index.
func (n *Node) patch(v interface{}, replaceLists bool) {
	switch n.kind {
	case KindLeaf:
		if v == nil {
			n.value = clone(n.spec.def)
		} else {
			n.value = clone(v)
		}
		n.revalidate()
	case KindGroup:
		values, ok := asMap(v)
		if !ok {
			return
		}
		for _, name := range n.order {
			if child, present := values[name]; present {
				n.fields[name].patch(child, replaceLists)
			}
		}
	case KindList:
		entries, ok := asSlice(v)
		if !ok {
			if replaceLists && v == nil {
				n.items = []*Node{}
			}
			return
		}
		if replaceLists {
			n.items = make([]*Node, 0, len(entries))
		}
		for i, entry := range entries {
			if i < len(n.items) {
				n.items[i].patch(entry, replaceLists)
				continue
			}
			item := build(*n.spec.item)
			item.patch(entry, replaceLists)
			n.items = append(n.items, item)
		}
	}
}

func (n *Node) flatten(normalize bool) interface{} {
	switch n.kind {
	case KindLeaf:
		v := clone(n.value)
		if normalize && n.spec.normalize != nil {
			v = n.spec.normalize(v)
		}
		return v
	case KindGroup:
		out := make(map[string]interface{}, len(n.order))
		for _, name := range n.order {
			out[name] = n.fields[name].flatten(normalize)
		}
		return out
	case KindList:
		out := make([]interface{}, 0, len(n.items))
		for _, item := range n.items {
			out = append(out, item.flatten(normalize))
		}
		return out
	}
	return nil
}

func (n *Node) revalidate() {
	n.errs = n.errs[:0]
	for _, rule := range n.spec.rules {
		if msg, ok := rule.Check(n.value); !ok {
			n.errs = append(n.errs, msg)
		}
	}
}

func join(prefix, segment string) string {
	if prefix == "" {
		return segment
	}
	return prefix + "." + segment
}

func asMap(v interface{}) (map[string]interface{}, bool) {
	switch typed := v.(type) {
	case map[string]interface{}:
		return typed, true
	case map[string]string:
		out := make(map[string]interface{}, len(typed))
		for k, val := range typed {
			out[k] = val
		}
		return out, true
	default:
		return nil, false
	}
}

func asSlice(v interface{}) ([]interface{}, bool) {
	if v == nil {
		return nil, false
	}
	if typed, ok := v.([]interface{}); ok {
		return typed, true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	out := make([]interface{}, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

// clone copies slice values so leaves never share backing arrays with
// defaults or with callers.
func clone(v interface{}) interface{} {
	switch typed := v.(type) {
	case []string:
		out := make([]string, len(typed))
		copy(out, typed)
		return out
	case []interface{}:
		out := make([]interface{}, len(typed))
		copy(out, typed)
		return out
	default:
		return v
	}
}
