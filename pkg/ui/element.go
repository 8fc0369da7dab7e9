// Package ui is a small retained element tree for terminal UIs. Boxes
// implement statetree.Element, so components can anchor to them and attach
// their output under them.
package ui

import (
	"fmt"
	"slices"

	"github.com/charmbracelet/lipgloss"
	"github.com/delaneyj/editorstate/pkg/statetree"
)

type Kind int

const (
	KindBox Kind = iota
	KindLabel
	KindButton
	KindInput
)

func (k Kind) String() string {
	switch k {
	case KindBox:
		return "box"
	case KindLabel:
		return "label"
	case KindButton:
		return "button"
	case KindInput:
		return "input"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Box is an element of the tree. Labels and buttons are boxes that carry
// text and, for buttons, a key and a press handler. An input holds its value
// in Text and reports edits to OnChange.
type Box struct {
	Kind     Kind
	Name     string
	Text     string
	Key      string
	OnPress  func()
	OnChange func(value string)
	Style    lipgloss.Style

	parent   *Box
	children []*Box
}

func NewBox(name string) *Box {
	return &Box{Kind: KindBox, Name: name}
}

func NewLabel(text string) *Box {
	return &Box{Kind: KindLabel, Text: text}
}

func NewButton(text, key string, onPress func()) *Box {
	return &Box{Kind: KindButton, Text: text, Key: key, OnPress: onPress}
}

// NewInput is a named editable value. onChange runs whenever the value is
// changed through SetValue or Change.
func NewInput(name, value string, onChange func(value string)) *Box {
	return &Box{Kind: KindInput, Name: name, Text: value, OnChange: onChange}
}

// WithStyle sets the style and returns b for chaining.
func (b *Box) WithStyle(style lipgloss.Style) *Box {
	b.Style = style
	return b
}

// Append adds children in order and returns b for chaining.
func (b *Box) Append(children ...*Box) *Box {
	for _, c := range children {
		b.Add(c)
	}
	return b
}

func (b *Box) Parent() statetree.Element {
	if b.parent == nil {
		return nil
	}
	return b.parent
}

// Add appends child, moving it from its current parent if it has one.
func (b *Box) Add(child statetree.Element) {
	c := mustBox(child)
	if c.parent != nil {
		c.parent.Remove(c)
	}
	c.parent = b
	b.children = append(b.children, c)
}

func (b *Box) Remove(child statetree.Element) {
	c := mustBox(child)
	if c.parent != b {
		return
	}
	b.children = slices.DeleteFunc(b.children, func(x *Box) bool { return x == c })
	c.parent = nil
}

func (b *Box) Clear() {
	for _, c := range b.children {
		c.parent = nil
	}
	b.children = nil
}

func (b *Box) Children() []*Box {
	return slices.Clone(b.children)
}

// Find returns the first box named name in pre-order, or nil.
func (b *Box) Find(name string) *Box {
	var found *Box
	b.Walk(func(x *Box) bool {
		if x.Name == name {
			found = x
		}
		return found == nil
	})
	return found
}

// Press runs the handler of the first button bound to key. It reports
// whether a button handled the key.
func (b *Box) Press(key string) bool {
	var btn *Box
	b.Walk(func(x *Box) bool {
		if x.Kind == KindButton && x.Key == key && x.OnPress != nil {
			btn = x
		}
		return btn == nil
	})
	if btn == nil {
		return false
	}
	btn.OnPress()
	return true
}

// SetValue changes the value of an input and reports the new value to its
// handler. Setting the current value does nothing.
func (b *Box) SetValue(value string) {
	if b.Kind != KindInput || b.Text == value {
		return
	}
	b.Text = value
	if b.OnChange != nil {
		b.OnChange(value)
	}
}

// Change sets the value of the first input named name. It reports whether
// such an input exists.
func (b *Box) Change(name, value string) bool {
	var input *Box
	b.Walk(func(x *Box) bool {
		if x.Kind == KindInput && x.Name == name {
			input = x
		}
		return input == nil
	})
	if input == nil {
		return false
	}
	input.SetValue(value)
	return true
}

// Walk visits b and its descendants in pre-order until fn returns false.
func (b *Box) Walk(fn func(*Box) bool) bool {
	if !fn(b) {
		return false
	}
	for _, c := range slices.Clone(b.children) {
		if !c.Walk(fn) {
			return false
		}
	}
	return true
}

func mustBox(e statetree.Element) *Box {
	b, ok := e.(*Box)
	if !ok {
		panic(fmt.Sprintf("ui: %T is not a *ui.Box", e))
	}
	return b
}
