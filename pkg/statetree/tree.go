package statetree

import (
	"errors"
	"fmt"
	"slices"

	"github.com/sirupsen/logrus"
)

// Tree owns the top-level nodes of a host and runs render passes over them.
type Tree struct {
	roots  []*Node
	anchor Element
	log    *logrus.Entry

	rendering bool
	again     bool
	passes    int
}

func NewTree(log *logrus.Entry) *Tree {
	return &Tree{log: log}
}

// Initialize sets the host anchor. Render passes fail until it is set.
func (t *Tree) Initialize(anchor Element) {
	t.anchor = anchor
}

func (t *Tree) Initialized() bool {
	return t.anchor != nil
}

func (t *Tree) Anchor() Element {
	return t.anchor
}

func (t *Tree) Roots() []*Node {
	return slices.Clone(t.roots)
}

// Passes counts completed render passes.
func (t *Tree) Passes() int {
	return t.passes
}

// Render re-renders every dirty node and re-attaches every node's output
// under its anchor. Nodes are visited parent first, in declaration order, so
// the UI tree matches the component tree.
//
// A render requested while a pass is running starts one more pass after it.
func (t *Tree) Render() error {
	if t.anchor == nil {
		err := fmt.Errorf("render pass: %w", ErrNotInitialized)
		t.log.WithError(err).Error("render tree was not initialized, host anchor is nil")
		return err
	}
	if t.rendering {
		t.again = true
		return nil
	}
	t.rendering = true
	defer func() { t.rendering = false }()

	var errs []error
	for {
		t.again = false
		t.Walk(func(n *Node) bool {
			if n.Dirty() {
				if err := n.reRender(); err != nil {
					errs = append(errs, err)
				}
			}
			if n.output != nil {
				n.anchor.Add(n.output)
			}
			return true
		})
		t.passes++
		t.log.WithField("pass", t.passes).Debug("render pass done")
		if !t.again {
			break
		}
	}
	return errors.Join(errs...)
}

// Walk visits live nodes in pre-order. Returning false skips the node's
// children.
func (t *Tree) Walk(fn func(n *Node) bool) {
	walk(t.roots, fn)
}

func walk(nodes []*Node, fn func(n *Node) bool) {
	for _, n := range slices.Clone(nodes) {
		if n.state == NodeDestroyed {
			continue
		}
		if fn(n) {
			walk(n.children, fn)
		}
	}
}

func (t *Tree) add(n *Node) {
	t.roots = append(t.roots, n)
}

func (t *Tree) remove(n *Node) {
	t.roots = slices.DeleteFunc(t.roots, func(r *Node) bool { return r == n })
}
