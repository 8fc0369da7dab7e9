// Package counter is a small editor built on statetree: a host-scoped Count
// cell shown by one component and incremented by another, plus a static
// title that never re-renders.
package counter

import (
	"github.com/delaneyj/editorstate/pkg/statetree"
	"github.com/delaneyj/editorstate/pkg/ui"
)

const (
	HostName  = "Editor"
	CountCell = "Count"

	KindCounter     = "Counter"
	KindIncrementor = "Incrementor"

	IncrementKey = "+"
)

// Editor is the host view. Its Count cell starts at Initial.
type Editor struct {
	Initial int
	Title   string

	count *statetree.Cell[int]
}

func (e *Editor) Init(h *statetree.Host) error {
	var err error
	e.count, err = statetree.NewNamedCell(h, CountCell, e.Initial)
	return err
}

func (e *Editor) Render(h *statetree.Host) error {
	anchor := h.Anchor()
	if _, err := h.Add(KindCounter, anchor); err != nil {
		return err
	}
	if _, err := h.Add(KindIncrementor, anchor); err != nil {
		return err
	}
	_, err := h.AddComponent(anchor, NewTitle(e.Title))
	return err
}

// Count is the editor's Count cell, nil before the host opens.
func (e *Editor) Count() *statetree.Cell[int] {
	return e.count
}

// Register adds the editor's component kinds to f. Kinds already present are
// left alone.
func Register(f *statetree.Factory) error {
	kinds := map[string]statetree.Constructor{
		KindCounter:     func(statetree.Element) statetree.Component { return &Counter{} },
		KindIncrementor: func(statetree.Element) statetree.Component { return &Incrementor{} },
	}
	for _, kind := range []string{KindCounter, KindIncrementor} {
		if f.Has(kind) {
			continue
		}
		if err := f.Register(kind, kinds[kind]); err != nil {
			return err
		}
	}
	return nil
}

// Open creates and opens the editor host anchored at root.
func Open(ctx *statetree.Context, root *ui.Box, editor *Editor, opts ...statetree.Option) (*statetree.Host, error) {
	if err := Register(ctx.Components); err != nil {
		return nil, err
	}
	opts = append([]statetree.Option{statetree.WithRenderTree(true)}, opts...)
	h, err := statetree.NewHost(ctx, HostName, root, editor, opts...)
	if err != nil {
		return nil, err
	}
	if err := h.Open(); err != nil {
		return nil, err
	}
	return h, nil
}
