package statetree

import (
	"fmt"
	"slices"

	"github.com/cespare/xxhash/v2"
)

// Component is the application side of a render tree node.
type Component interface {
	// Init runs once before the first render. Declare and retrieve cells and
	// add child components here.
	Init(n *Node) error
	// Render builds the node's output. The node attaches it under its anchor.
	Render(n *Node) (Element, error)
}

type NodeState int

const (
	NodeConstructed NodeState = iota
	NodeInitialized
	NodeClean
	NodeDirty
	NodeDestroyed
)

func (s NodeState) String() string {
	switch s {
	case NodeConstructed:
		return "constructed"
	case NodeInitialized:
		return "initialized"
	case NodeClean:
		return "clean"
	case NodeDirty:
		return "dirty"
	case NodeDestroyed:
		return "destroyed"
	default:
		return fmt.Sprintf("NodeState(%d)", int(s))
	}
}

// Node is a component mounted in a host's render tree. It owns a region of
// the UI under its anchor element and the cells declared at its scope.
type Node struct {
	id        uint64
	kind      string
	component Component
	host      *Host
	parent    *Node
	children  []*Node

	anchor Element
	output Element
	depth  int

	state   NodeState
	renders int

	// Owned and borrowed cells, unsubscribed on Destroy.
	cells []stateCell
	hooks []func()
}

func newNode(h *Host, parent *Node, anchor Element, kind string, c Component) (*Node, error) {
	if anchor == nil {
		return nil, fmt.Errorf("component %s: %w", kind, ErrInvalidRoot)
	}
	depth := Depth(anchor)
	if parent != nil && depth <= parent.depth {
		return nil, fmt.Errorf("component %s at depth %d must be anchored below its parent %s at depth %d: %w",
			kind, depth, parent.kind, parent.depth, ErrInvalidHierarchy)
	}
	h.seq++
	return &Node{
		id:        xxhash.Sum64String(fmt.Sprintf("%s/%s#%d", h.name, kind, h.seq)),
		kind:      kind,
		component: c,
		host:      h,
		parent:    parent,
		anchor:    anchor,
		depth:     depth,
		state:     NodeConstructed,
	}, nil
}

func (n *Node) ID() uint64 { return n.id }

func (n *Node) Kind() string { return n.kind }

func (n *Node) Component() Component { return n.component }

func (n *Node) Host() *Host { return n.host }

func (n *Node) Parent() *Node { return n.parent }

func (n *Node) Children() []*Node { return slices.Clone(n.children) }

func (n *Node) Anchor() Element { return n.anchor }

// Output is the element produced by the last render.
func (n *Node) Output() Element { return n.output }

// Depth is the depth of the anchor element in the UI tree, not the depth of
// the node in the component tree.
func (n *Node) Depth() int { return n.depth }

func (n *Node) State() NodeState { return n.state }

func (n *Node) Dirty() bool { return n.state == NodeDirty }

// RenderCount counts renders including the initial one.
func (n *Node) RenderCount() int { return n.renders }

// MarkDirty flags the node for re-render on the next render pass. Children
// are not marked.
func (n *Node) MarkDirty() {
	switch n.state {
	case NodeInitialized, NodeClean:
		n.state = NodeDirty
	}
}

// OnReRender registers fn to run before every re-render of the node.
func (n *Node) OnReRender(fn func()) {
	n.hooks = append(n.hooks, fn)
}

// AddComponent mounts c as a child of n, anchored under anchor.
func (n *Node) AddComponent(anchor Element, c Component) (*Node, error) {
	if n.state == NodeDestroyed {
		return nil, fmt.Errorf("component %s: %w", n.kind, ErrInvalidHost)
	}
	return n.host.mount(n, anchor, kindOf(c), c)
}

// Add builds a registered component kind and mounts it as a child of n.
func (n *Node) Add(kind string, anchor Element) (*Node, error) {
	c, err := n.host.ctx.Components.New(kind, anchor)
	if err != nil {
		return nil, err
	}
	if n.state == NodeDestroyed {
		return nil, fmt.Errorf("component %s: %w", n.kind, ErrInvalidHost)
	}
	return n.host.mount(n, anchor, kind, c)
}

// Destroy removes the node and its children from the tree, detaches its
// output and unsubscribes it from every cell it owns or borrowed.
func (n *Node) Destroy() {
	if n.state == NodeDestroyed {
		return
	}
	for len(n.children) > 0 {
		n.children[len(n.children)-1].Destroy()
	}
	if n.parent != nil {
		n.parent.children = slices.DeleteFunc(n.parent.children, func(c *Node) bool { return c == n })
	} else {
		n.host.tree.remove(n)
	}
	for _, c := range n.cells {
		c.unsubscribe(n)
	}
	n.cells = nil
	if n.output != nil {
		n.anchor.Remove(n.output)
		n.output = nil
	}
	n.state = NodeDestroyed
}

func (n *Node) adopt(c stateCell) {
	if slices.Contains(n.cells, c) {
		return
	}
	n.cells = append(n.cells, c)
}

func (n *Node) initialize() error {
	if err := n.component.Init(n); err != nil {
		return fmt.Errorf("init component %s: %w", n.kind, err)
	}
	n.state = NodeInitialized
	out, err := n.component.Render(n)
	if err != nil {
		return fmt.Errorf("render component %s: %w", n.kind, err)
	}
	n.output = out
	n.renders++
	// A cell set during the first render leaves the node dirty.
	if n.state == NodeInitialized {
		n.state = NodeClean
	}
	return nil
}

func (n *Node) reRender() error {
	if n.output != nil {
		n.anchor.Remove(n.output)
		n.output = nil
	}
	for _, hook := range n.hooks {
		hook()
	}
	n.state = NodeClean
	out, err := n.component.Render(n)
	if err != nil {
		n.state = NodeDirty
		return fmt.Errorf("render component %s: %w", n.kind, err)
	}
	n.output = out
	n.renders++
	return nil
}

func kindOf(c Component) string {
	if k, ok := c.(interface{ Kind() string }); ok {
		return k.Kind()
	}
	return fmt.Sprintf("%T", c)
}
