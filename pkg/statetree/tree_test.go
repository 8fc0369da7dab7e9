package statetree_test

import (
	"errors"
	"fmt"
	"slices"
	"testing"

	"github.com/delaneyj/editorstate/pkg/statetree"
	"github.com/delaneyj/editorstate/pkg/ui"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// traceElement records the label text of every element attached to it.
type traceElement struct {
	parent   *traceElement
	children []statetree.Element
	log      *[]string
}

func newTrace(parent *traceElement, log *[]string) *traceElement {
	t := &traceElement{parent: parent, log: log}
	if parent != nil {
		parent.children = append(parent.children, t)
	}
	return t
}

func (t *traceElement) Parent() statetree.Element {
	if t.parent == nil {
		return nil
	}
	return t.parent
}

func (t *traceElement) Add(child statetree.Element) {
	if b, ok := child.(*ui.Box); ok {
		*t.log = append(*t.log, b.Text)
	}
	t.children = append(t.children, child)
}

func (t *traceElement) Remove(child statetree.Element) {
	t.children = slices.DeleteFunc(t.children, func(c statetree.Element) bool { return c == child })
}

func (t *traceElement) Clear() { t.children = nil }

// branch mounts fanout children per level, each under its own slot below
// the branch's anchor.
type branch struct {
	name           string
	fanout, levels int
}

func (b *branch) Kind() string { return "Branch" }

func (b *branch) Init(n *statetree.Node) error {
	if b.levels == 0 {
		return nil
	}
	anchor := n.Anchor().(*traceElement)
	for i := 0; i < b.fanout; i++ {
		child := &branch{name: fmt.Sprintf("%s.%d", b.name, i), fanout: b.fanout, levels: b.levels - 1}
		if _, err := n.AddComponent(newTrace(anchor, anchor.log), child); err != nil {
			return err
		}
	}
	return nil
}

func (b *branch) Render(n *statetree.Node) (statetree.Element, error) {
	return ui.NewLabel(b.name), nil
}

func preOrder(name string, fanout, levels int) []string {
	out := []string{name}
	if levels == 0 {
		return out
	}
	for i := 0; i < fanout; i++ {
		out = append(out, preOrder(fmt.Sprintf("%s.%d", name, i), fanout, levels-1)...)
	}
	return out
}

func TestTreeRendersInPreOrder(t *testing.T) {
	ctx, _ := quietContext()
	var log []string
	root := newTrace(nil, &log)

	h, err := statetree.NewHost(ctx, "Editor", root, &funcView{
		render: func(h *statetree.Host) error {
			for _, name := range []string{"a", "b"} {
				if _, err := h.AddComponent(newTrace(root, &log), &branch{name: name, fanout: 2, levels: 2}); err != nil {
					return err
				}
			}
			return nil
		},
	}, statetree.WithRenderTree(true))
	require.NoError(t, err)
	require.NoError(t, h.Open())

	want := append(preOrder("a", 2, 2), preOrder("b", 2, 2)...)
	assert.Equal(t, want, log)

	var visited []int
	h.Tree().Walk(func(n *statetree.Node) bool {
		visited = append(visited, n.Depth())
		return true
	})
	assert.Len(t, visited, 14)
	assert.Equal(t, []int{1, 2, 3, 3, 2, 3, 3}, visited[:7])

	log = nil
	require.NoError(t, h.Tree().Render())
	assert.Equal(t, want, log, "every pass re-attaches in the same order")
}

func TestTreeHierarchy(t *testing.T) {
	ctx, _ := quietContext()
	root := ui.NewBox("root")
	h := openHost(t, ctx, "Editor", root, &funcView{}, statetree.WithRenderTree(true))

	_, err := h.AddComponent(nil, &probe{name: "p"})
	assert.ErrorIs(t, err, statetree.ErrInvalidRoot)

	var sibling error
	parent, err := h.AddComponent(chain(root, 2), &probe{
		name: "parent",
		init: func(n *statetree.Node) error {
			_, sibling = n.AddComponent(n.Anchor().Parent().Parent(), &probe{name: "above"})
			if sibling != nil {
				return nil
			}
			return errors.New("mounted above its parent")
		},
	})
	require.NoError(t, err)
	assert.ErrorIs(t, sibling, statetree.ErrInvalidHierarchy)
	assert.Empty(t, parent.Children())

	child, err := parent.AddComponent(chain(parent.Anchor().(*ui.Box), 1), &probe{name: "child"})
	require.NoError(t, err)
	assert.Equal(t, 3, child.Depth())
	assert.Same(t, parent, child.Parent())
	assert.Equal(t, []*statetree.Node{child}, parent.Children())

	_, err = parent.AddComponent(parent.Anchor(), &probe{name: "same"})
	assert.ErrorIs(t, err, statetree.ErrInvalidHierarchy)
}

func TestTreeDirtyNodes(t *testing.T) {
	ctx, _ := quietContext()
	root := ui.NewBox("root")
	h := openHost(t, ctx, "Editor", root, &funcView{}, statetree.WithRenderTree(true), statetree.WithBatching(false))

	a, err := h.AddComponent(chain(root, 1), &probe{name: "a"})
	require.NoError(t, err)
	b, err := h.AddComponent(chain(root, 1), &probe{name: "b"})
	require.NoError(t, err)
	assert.Equal(t, statetree.NodeClean, a.State())

	hooks := 0
	a.OnReRender(func() { hooks++ })

	a.MarkDirty()
	a.MarkDirty()
	require.NoError(t, h.Tree().Render())

	assert.Equal(t, 2, a.RenderCount())
	assert.Equal(t, 1, b.RenderCount())
	assert.Equal(t, 1, hooks)
	assert.Equal(t, statetree.NodeClean, a.State())
}

func TestTreeMarkDirtyDoesNotCascade(t *testing.T) {
	ctx, _ := quietContext()
	root := ui.NewBox("root")
	h := openHost(t, ctx, "Editor", root, &funcView{}, statetree.WithRenderTree(true))

	var child *statetree.Node
	parent, err := h.AddComponent(chain(root, 1), &probe{
		name: "parent",
		init: func(n *statetree.Node) error {
			var err error
			child, err = n.AddComponent(chain(n.Anchor().(*ui.Box), 1), &probe{name: "child"})
			return err
		},
	})
	require.NoError(t, err)

	parent.MarkDirty()
	assert.False(t, child.Dirty())
	require.NoError(t, h.Tree().Render())
	assert.Equal(t, 2, parent.RenderCount())
	assert.Equal(t, 1, child.RenderCount())
}

func TestTreeRenderErrors(t *testing.T) {
	ctx, _ := quietContext()
	root := ui.NewBox("root")
	h := openHost(t, ctx, "Editor", root, &funcView{}, statetree.WithRenderTree(true))

	p := &probe{name: "flaky"}
	anchor := chain(root, 1)
	n, err := h.AddComponent(anchor, p)
	require.NoError(t, err)
	require.NoError(t, h.Tree().Render())
	require.Len(t, anchor.Children(), 1)

	boom := errors.New("boom")
	p.fail = boom
	n.MarkDirty()
	assert.ErrorIs(t, h.Tree().Render(), boom)
	assert.Equal(t, statetree.NodeDirty, n.State())
	assert.Nil(t, n.Output())
	assert.Empty(t, anchor.Children())

	p.fail = nil
	require.NoError(t, h.Tree().Render())
	assert.Equal(t, "flaky", labelText(t, n))
	assert.Len(t, anchor.Children(), 1)
}

func TestTreeReentrantRender(t *testing.T) {
	ctx, _ := quietContext()
	root := ui.NewBox("root")
	h := openHost(t, ctx, "Editor", root, &funcView{}, statetree.WithRenderTree(true))

	first, err := h.AddComponent(chain(root, 1), &probe{name: "first"})
	require.NoError(t, err)

	armed := false
	second, err := h.AddComponent(chain(root, 1), &probe{
		name: "second",
		text: func() string {
			if armed {
				armed = false
				first.MarkDirty()
				require.NoError(t, h.Tree().Render())
			}
			return "second"
		},
	})
	require.NoError(t, err)

	passes := h.Tree().Passes()
	armed = true
	second.MarkDirty()
	require.NoError(t, h.Tree().Render())

	assert.Equal(t, passes+2, h.Tree().Passes())
	assert.Equal(t, 2, first.RenderCount())
	assert.Equal(t, statetree.NodeClean, first.State())
}

func TestTreeNotInitialized(t *testing.T) {
	logger, hook := test.NewNullLogger()
	tree := statetree.NewTree(logrus.NewEntry(logger))

	assert.False(t, tree.Initialized())
	assert.ErrorIs(t, tree.Render(), statetree.ErrNotInitialized)
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.ErrorLevel, hook.LastEntry().Level)
	assert.Equal(t, 0, tree.Passes())
}

func TestNodeDestroy(t *testing.T) {
	ctx, _ := quietContext()
	root := ui.NewBox("root")
	var shared *statetree.Cell[int]
	h := openHost(t, ctx, "Editor", root, &funcView{
		init: func(h *statetree.Host) error {
			var err error
			shared, err = statetree.NewNamedCell(h, "Shared", 1)
			return err
		},
	}, statetree.WithRenderTree(true))

	var own *statetree.Cell[string]
	var child *statetree.Node
	anchor := chain(root, 1)
	n, err := h.AddComponent(anchor, &probe{
		name: "victim",
		init: func(n *statetree.Node) error {
			var err error
			if own, err = statetree.NewComponentCell(n, "x"); err != nil {
				return err
			}
			if _, err = statetree.RetrieveFor[int](h.Registry(), "Shared", n); err != nil {
				return err
			}
			child, err = n.AddComponent(chain(n.Anchor().(*ui.Box), 1), &probe{name: "child"})
			return err
		},
	})
	require.NoError(t, err)
	require.NoError(t, h.Tree().Render())
	require.Len(t, anchor.Children(), 2, "slot box and output label")
	assert.Contains(t, shared.Subscribers(), n)
	assert.Contains(t, own.Subscribers(), n)

	n.Destroy()
	assert.Equal(t, statetree.NodeDestroyed, n.State())
	assert.Equal(t, statetree.NodeDestroyed, child.State())
	assert.Empty(t, h.Tree().Roots())
	assert.NotContains(t, shared.Subscribers(), n)
	assert.Empty(t, own.Subscribers())
	assert.Nil(t, n.Output())
	assert.Len(t, anchor.Children(), 1, "only the slot box is left")

	n.MarkDirty()
	assert.Equal(t, statetree.NodeDestroyed, n.State())
	_, err = n.AddComponent(anchor, &probe{name: "late"})
	assert.ErrorIs(t, err, statetree.ErrInvalidHost)
	shared.Set(2)
	assert.Equal(t, 1, child.RenderCount())
}
