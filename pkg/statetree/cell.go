package statetree

import (
	"fmt"
	"reflect"

	mapset "github.com/deckarep/golang-set/v2"
)

// stateCell is the type-erased view of a Cell used by registries and nodes.
type stateCell interface {
	Name() string
	ComponentScoped() bool
	DeclaredDepth() int
	subscribe(n *Node)
	unsubscribe(n *Node)
}

// Cell is a reactive value. Setting it re-renders the parts of its host that
// depend on it.
//
// Cells must be created while their host or component initializes. A named
// cell is registered in its host's Registry, which only holds it weakly: the
// cell lives as long as the declaring host, view or component keeps it.
type Cell[T any] struct {
	value T
	name  string
	owner *Host

	scoped bool
	depth  int

	// Nodes to mark dirty when the value changes.
	subscribers mapset.Set[*Node]
}

// NewCell creates an anonymous host-scoped cell.
func NewCell[T any](h *Host, initial T) (*Cell[T], error) {
	return newCell(h, "", initial)
}

// NewNamedCell creates a host-scoped cell and registers it under name,
// replacing any cell previously registered with that name.
func NewNamedCell[T any](h *Host, name string, initial T) (*Cell[T], error) {
	return newCell(h, name, initial)
}

// NewComponentCell creates an anonymous cell scoped to n. n is subscribed to
// it and keeps it alive until n is destroyed.
func NewComponentCell[T any](n *Node, initial T) (*Cell[T], error) {
	return newComponentCell(n, "", initial)
}

// NewNamedComponentCell creates a cell scoped to n and registers it under
// name. Only nodes strictly shallower than n may retrieve it.
func NewNamedComponentCell[T any](n *Node, name string, initial T) (*Cell[T], error) {
	return newComponentCell(n, name, initial)
}

func newCell[T any](h *Host, name string, initial T) (*Cell[T], error) {
	if h == nil {
		return nil, fmt.Errorf("state cell %q: nil host: %w", name, ErrInvalidHost)
	}
	if h.closed {
		return nil, fmt.Errorf("state cell %q: host %q: %w", name, h.name, ErrHostClosed)
	}
	c := &Cell[T]{
		value:       initial,
		name:        name,
		owner:       h,
		subscribers: mapset.NewThreadUnsafeSet[*Node](),
	}
	if name != "" {
		if err := Add(h.registry, c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func newComponentCell[T any](n *Node, name string, initial T) (*Cell[T], error) {
	if n == nil || n.host == nil {
		return nil, fmt.Errorf("state cell %q: nil component: %w", name, ErrInvalidHost)
	}
	if n.state == NodeDestroyed {
		return nil, fmt.Errorf("state cell %q: component %s destroyed: %w", name, n.kind, ErrInvalidHost)
	}
	c, err := newCell(n.host, "", initial)
	if err != nil {
		return nil, err
	}
	c.name = name
	c.scoped = true
	c.depth = n.depth
	c.subscribe(n)
	n.adopt(c)
	if name != "" {
		if err := Add(n.host.registry, c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func (c *Cell[T]) Name() string { return c.name }

func (c *Cell[T]) Host() *Host { return c.owner }

func (c *Cell[T]) ComponentScoped() bool { return c.scoped }

// DeclaredDepth is the depth of the declaring node. Zero for host-scoped
// cells.
func (c *Cell[T]) DeclaredDepth() int { return c.depth }

// Get returns the current value. It panics on a nil cell; use Load to get
// an error instead.
func (c *Cell[T]) Get() T {
	if c == nil {
		panic(ErrUninitializedCell)
	}
	return c.value
}

func (c *Cell[T]) Load() (T, error) {
	if c == nil {
		var zero T
		return zero, ErrUninitializedCell
	}
	return c.value, nil
}

// Set stores v and notifies the host. Setting a value deeply equal to the
// current one does nothing. Like Get, it panics on a nil cell.
func (c *Cell[T]) Set(v T) {
	if c == nil {
		panic(ErrUninitializedCell)
	}
	if reflect.DeepEqual(c.value, v) {
		return
	}
	c.value = v
	c.notify()
}

// Update sets the value returned by fn for the current value.
func (c *Cell[T]) Update(fn func(T) T) {
	if c == nil {
		panic(ErrUninitializedCell)
	}
	c.Set(fn(c.value))
}

// Subscribers returns the nodes marked dirty when the cell changes.
func (c *Cell[T]) Subscribers() []*Node {
	return c.subscribers.ToSlice()
}

func (c *Cell[T]) String() string {
	return fmt.Sprint(c.value)
}

func (c *Cell[T]) notify() {
	h := c.owner
	if !h.IsOpen() {
		h.log.WithField("cell", c.name).Debug("ignoring change on host that is not open")
		return
	}
	if h.renderTree {
		for _, n := range c.subscribers.ToSlice() {
			n.MarkDirty()
		}
	}
	h.requestRender()
}

func (c *Cell[T]) subscribe(n *Node) {
	c.subscribers.Add(n)
}

func (c *Cell[T]) unsubscribe(n *Node) {
	c.subscribers.Remove(n)
}

// Equal reports whether the value of c deeply equals v.
func Equal[T any](c *Cell[T], v T) (bool, error) {
	if c == nil {
		return false, ErrUninitializedCell
	}
	return reflect.DeepEqual(c.value, v), nil
}

// EqualCells reports whether two cells hold deeply equal values.
func EqualCells[T any](a, b *Cell[T]) (bool, error) {
	if a == nil || b == nil {
		return false, ErrUninitializedCell
	}
	return reflect.DeepEqual(a.value, b.value), nil
}
