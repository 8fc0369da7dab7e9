package counter

import (
	"strconv"

	"github.com/delaneyj/editorstate/pkg/statetree"
	"github.com/delaneyj/editorstate/pkg/ui"
)

// Counter shows the editor's Count.
type Counter struct {
	count *statetree.Cell[int]
}

func (c *Counter) Init(n *statetree.Node) error {
	reg, err := n.Host().Context().Registry(HostName)
	if err != nil {
		return err
	}
	c.count, err = statetree.RetrieveFor[int](reg, CountCell, n)
	return err
}

func (c *Counter) Render(n *statetree.Node) (statetree.Element, error) {
	return ui.NewBox("counter").Append(ui.NewLabel(strconv.Itoa(c.count.Get()))), nil
}

// Incrementor is a button that adds one to the editor's Count.
type Incrementor struct {
	count *statetree.Cell[int]
}

func (c *Incrementor) Init(n *statetree.Node) error {
	reg, err := n.Host().Context().Registry(HostName)
	if err != nil {
		return err
	}
	c.count, err = statetree.RetrieveFor[int](reg, CountCell, n)
	return err
}

func (c *Incrementor) Render(n *statetree.Node) (statetree.Element, error) {
	btn := ui.NewButton("+", IncrementKey, func() {
		c.count.Update(func(v int) int { return v + 1 })
	})
	return ui.NewBox("incrementor").Append(btn), nil
}

// Title is a heading that reads no state, so it is never re-rendered.
type Title struct {
	text      string
	rerenders int
}

func NewTitle(text string) *Title {
	return &Title{text: text}
}

func (t *Title) Kind() string { return "Title" }

func (t *Title) Init(n *statetree.Node) error {
	n.OnReRender(func() {
		t.rerenders++
		n.Host().Logger().WithField("component", t.Kind()).Warn("title re-rendered")
	})
	return nil
}

func (t *Title) Render(n *statetree.Node) (statetree.Element, error) {
	return ui.NewBox("title").Append(
		ui.NewLabel(t.text).WithStyle(ui.TitleStyle),
		ui.NewLabel("I will not be re-rendered.").WithStyle(ui.SubtleStyle),
	), nil
}

// ReRenders counts re-renders after the initial one.
func (t *Title) ReRenders() int {
	return t.rerenders
}
