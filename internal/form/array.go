package form

import (
	"fmt"

	"github.com/spf13/cast"
)

// Section is a handle on a list node for add/remove editing. Entries are
// independent nodes, so structural edits never disturb sibling state.
type Section struct {
	node *Node
}

// Len returns the number of entries.
func (s *Section) Len() int {
	return len(s.node.items)
}

// At returns the entry at index i.
func (s *Section) At(i int) (*Node, bool) {
	if i < 0 || i >= len(s.node.items) {
		return nil, false
	}
	return s.node.items[i], true
}

// Append adds an entry built from the item spec and patched with value
// (nil keeps the defaults). The new entry starts pristine.
func (s *Section) Append(value interface{}) *Node {
	item := build(*s.node.spec.item)
	if value != nil {
		item.patch(value, true)
	}
	s.node.items = append(s.node.items, item)
	return item
}

// RemoveAt drops the entry at index i. Later entries shift down with their
// touched, dirty and validity state intact.
func (s *Section) RemoveAt(i int) error {
	if i < 0 || i >= len(s.node.items) {
		return fmt.Errorf("form: index %d out of range [0,%d)", i, len(s.node.items))
	}
	items := make([]*Node, 0, len(s.node.items)-1)
	items = append(items, s.node.items[:i]...)
	items = append(items, s.node.items[i+1:]...)
	s.node.items = items
	return nil
}

// Clear removes every entry.
func (s *Section) Clear() {
	s.node.items = []*Node{}
}

// Toggle adds option to a multi-select leaf ([]string value) when absent and
// removes it when present. Used for schedule days and prerequisites.
func (n *Node) Toggle(option string) error {
	if n.kind != KindLeaf {
		return fmt.Errorf("form: toggle on %s node", n.kind)
	}
	current, err := cast.ToStringSliceE(n.value)
	if err != nil && n.value != nil {
		return fmt.Errorf("form: toggle on non-list value: %w", err)
	}
	next := make([]string, 0, len(current)+1)
	found := false
	for _, v := range current {
		if v == option {
			found = true
			continue
		}
		next = append(next, v)
	}
	if !found {
		next = append(next, option)
	}
	n.touched = true
	n.SetValue(next)
	return nil
}

// Contains reports whether a multi-select leaf currently holds option.
func (n *Node) Contains(option string) bool {
	if n.kind != KindLeaf {
		return false
	}
	current, err := cast.ToStringSliceE(n.value)
	if err != nil {
		return false
	}
	for _, v := range current {
		if v == option {
			return true
		}
	}
	return false
}
