package statetree_test

import (
	"testing"
	"time"

	"github.com/delaneyj/editorstate/pkg/statetree"
	"github.com/delaneyj/editorstate/pkg/ui"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
)

type testClock struct {
	now time.Time
}

func newTestClock() *testClock {
	return &testClock{now: time.Unix(1_000, 0)}
}

func (c *testClock) Now() time.Time { return c.now }

func (c *testClock) Advance(d time.Duration) time.Time {
	c.now = c.now.Add(d)
	return c.now
}

// funcView is a View built from closures.
type funcView struct {
	init   func(h *statetree.Host) error
	render func(h *statetree.Host) error
	closed int
}

func (v *funcView) Init(h *statetree.Host) error {
	if v.init == nil {
		return nil
	}
	return v.init(h)
}

func (v *funcView) Render(h *statetree.Host) error {
	if v.render == nil {
		return nil
	}
	return v.render(h)
}

func (v *funcView) Close(h *statetree.Host) error {
	v.closed++
	return nil
}

// probe is a component whose Init and output are configurable.
type probe struct {
	name string
	init func(n *statetree.Node) error
	text func() string
	fail error
}

func (p *probe) Kind() string { return p.name }

func (p *probe) Init(n *statetree.Node) error {
	if p.init == nil {
		return nil
	}
	return p.init(n)
}

func (p *probe) Render(n *statetree.Node) (statetree.Element, error) {
	if p.fail != nil {
		return nil, p.fail
	}
	text := p.name
	if p.text != nil {
		text = p.text()
	}
	return ui.NewLabel(text), nil
}

func quietContext() (*statetree.Context, *test.Hook) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	ctx := statetree.NewContext()
	ctx.Logger = logrus.NewEntry(logger)
	return ctx, hook
}

func newHost(t *testing.T, ctx *statetree.Context, name string, anchor *ui.Box, view statetree.View, opts ...statetree.Option) *statetree.Host {
	t.Helper()
	h, err := statetree.NewHost(ctx, name, anchor, view, opts...)
	require.NoError(t, err)
	return h
}

func openHost(t *testing.T, ctx *statetree.Context, name string, anchor *ui.Box, view statetree.View, opts ...statetree.Option) *statetree.Host {
	t.Helper()
	h := newHost(t, ctx, name, anchor, view, opts...)
	require.NoError(t, h.Open())
	return h
}

// chain builds depth nested boxes under root and returns the deepest one.
func chain(root *ui.Box, depth int) *ui.Box {
	cur := root
	for i := 0; i < depth; i++ {
		next := ui.NewBox("")
		cur.Add(next)
		cur = next
	}
	return cur
}

func labelText(t *testing.T, n *statetree.Node) string {
	t.Helper()
	out, ok := n.Output().(*ui.Box)
	require.True(t, ok, "output is %T", n.Output())
	return out.Text
}

func messages(hook *test.Hook) []string {
	var out []string
	for _, e := range hook.AllEntries() {
		out = append(out, e.Message)
	}
	return out
}
