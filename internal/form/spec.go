// Package form implements the schema-driven nested form model used by every
// create/edit screen. A form is a tree of three node kinds: Leaf (a value
// with rules), Group (named children) and List (an ordered, resizable
// sequence built from one item spec). Validation, touch propagation,
// patching and flattening are single recursive walks over that tree.
package form

import (
	"strings"

	"github.com/spf13/cast"
)

// Kind tags a node variant.
type Kind int

const (
	KindLeaf Kind = iota
	KindGroup
	KindList
)

func (k Kind) String() string {
	switch k {
	case KindLeaf:
		return "leaf"
	case KindGroup:
		return "group"
	case KindList:
		return "list"
	default:
		return "unknown"
	}
}

// Normalizer rewrites a leaf value when the form is flattened for submission.
type Normalizer func(interface{}) interface{}

// Spec declares the shape of a node. Specs are plain values; Build turns
// them into live nodes.
type Spec struct {
	kind      Kind
	def       interface{}
	rules     []Rule
	fields    []Field
	item      *Spec
	normalize Normalizer
}

// Field binds a name to a spec inside a group.
type Field struct {
	Name string
	Spec Spec
}

// Leaf declares a value field with its default and rules.
func Leaf(def interface{}, rules ...Rule) Spec {
	return Spec{kind: KindLeaf, def: def, rules: rules}
}

// Group declares an object of named fields, kept in declaration order.
func Group(fields ...Field) Spec {
	return Spec{kind: KindGroup, fields: fields}
}

// List declares a repeatable section whose entries all follow item.
func List(item Spec) Spec {
	return Spec{kind: KindList, item: &item}
}

// Named pairs a field name with its spec.
func Named(name string, spec Spec) Field {
	return Field{Name: name, Spec: spec}
}

// Kind returns the variant the spec builds.
func (s Spec) Kind() Kind {
	return s.kind
}

// Normalized returns a copy of s that applies fn on flatten.
func (s Spec) Normalized(fn Normalizer) Spec {
	s.normalize = fn
	return s
}

// UpperCase upper-cases string values; identifiers such as roll numbers and
// course codes are submitted this way.
func UpperCase(v interface{}) interface{} {
	if s, ok := v.(string); ok {
		return strings.ToUpper(strings.TrimSpace(s))
	}
	return v
}

// TrimSpace trims string values.
func TrimSpace(v interface{}) interface{} {
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s)
	}
	return v
}

// Number converts numeric strings to numbers so payloads carry JSON numbers.
// Values that do not parse are passed through for the backend to reject.
func Number(v interface{}) interface{} {
	switch typed := v.(type) {
	case string:
		s := strings.TrimSpace(typed)
		if s == "" {
			return nil
		}
		if n, err := cast.ToInt64E(s); err == nil {
			return n
		}
		if f, err := cast.ToFloat64E(s); err == nil {
			return f
		}
		return typed
	default:
		return v
	}
}
