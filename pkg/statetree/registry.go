package statetree

import (
	"fmt"
	"slices"
	"weak"
)

// slot is a weak handle to a registered cell. load returns nil once the cell
// has been reclaimed.
type slot struct {
	load func() stateCell
}

func weakSlot[T any](c *Cell[T]) slot {
	wp := weak.Make(c)
	return slot{load: func() stateCell {
		if cell := wp.Value(); cell != nil {
			return cell
		}
		return nil
	}}
}

// Registry maps names to the named cells of one host. It never keeps a cell
// alive: entries whose cell has been reclaimed are pruned before every add
// and lookup, so a reclaimed cell is never found.
type Registry struct {
	entries map[string]slot
}

func NewRegistry() *Registry {
	return &Registry{entries: map[string]slot{}}
}

// Add registers c under its name. A cell already registered under that name
// is evicted, which lets a host re-declare its cells.
func Add[T any](r *Registry, c *Cell[T]) error {
	if c == nil {
		return ErrUninitializedCell
	}
	if c.name == "" {
		return ErrAnonymousCell
	}
	r.Cleanup()
	r.entries[c.name] = weakSlot(c)
	return nil
}

// Retrieve finds a host-scoped cell. Component-scoped cells can only be
// retrieved with RetrieveFor.
func Retrieve[T any](r *Registry, name string) (*Cell[T], error) {
	c, err := lookup[T](r, name)
	if err != nil {
		return nil, err
	}
	if c.scoped {
		return nil, fmt.Errorf("state cell %q was declared inside a component and may only be retrieved with a component reference: %w", name, ErrScopeViolation)
	}
	return c, nil
}

// RetrieveFor finds a cell on behalf of n and subscribes n to it. A
// component-scoped cell is only visible to nodes strictly shallower than the
// node that declared it.
func RetrieveFor[T any](r *Registry, name string, n *Node) (*Cell[T], error) {
	if n == nil {
		return nil, fmt.Errorf("state cell %q: nil component: %w", name, ErrInvalidHost)
	}
	c, err := lookup[T](r, name)
	if err != nil {
		return nil, err
	}
	if c.scoped && n.depth >= c.depth {
		return nil, fmt.Errorf("state cell %q was declared at depth %d, component %s at depth %d may not access it: %w",
			name, c.depth, n.kind, n.depth, ErrScopeViolation)
	}
	c.subscribe(n)
	n.adopt(c)
	return c, nil
}

func lookup[T any](r *Registry, name string) (*Cell[T], error) {
	r.Cleanup()
	if s, ok := r.entries[name]; ok {
		if c, ok := s.load().(*Cell[T]); ok {
			return c, nil
		}
	}
	return nil, fmt.Errorf("state cell %q was not found, has a different type or has been reclaimed: %w", name, ErrNotFound)
}

// Cleanup drops entries whose cell has been reclaimed.
func (r *Registry) Cleanup() {
	for name, s := range r.entries {
		if s.load() == nil {
			delete(r.entries, name)
		}
	}
}

// Names lists the live entries.
func (r *Registry) Names() []string {
	r.Cleanup()
	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func (r *Registry) Len() int {
	r.Cleanup()
	return len(r.entries)
}

func (r *Registry) clear() {
	clear(r.entries)
}
