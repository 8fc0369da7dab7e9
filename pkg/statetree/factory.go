package statetree

import (
	"fmt"
	"slices"
)

// Constructor builds a component that will be anchored under anchor.
type Constructor func(anchor Element) Component

// Factory resolves component kinds to constructors registered up front.
type Factory struct {
	ctors map[string]Constructor
}

func NewFactory() *Factory {
	return &Factory{ctors: map[string]Constructor{}}
}

func (f *Factory) Register(kind string, ctor Constructor) error {
	if ctor == nil {
		return fmt.Errorf("component %q: nil constructor", kind)
	}
	if _, ok := f.ctors[kind]; ok {
		return fmt.Errorf("component %q: %w", kind, ErrDuplicateRegistration)
	}
	f.ctors[kind] = ctor
	return nil
}

func (f *Factory) Has(kind string) bool {
	_, ok := f.ctors[kind]
	return ok
}

func (f *Factory) New(kind string, anchor Element) (Component, error) {
	ctor, ok := f.ctors[kind]
	if !ok {
		return nil, fmt.Errorf("component %q: %w", kind, ErrConstructorNotFound)
	}
	c := ctor(anchor)
	if c == nil {
		return nil, fmt.Errorf("component %q: constructor returned nil: %w", kind, ErrConstructorNotFound)
	}
	return c, nil
}

func (f *Factory) Kinds() []string {
	kinds := make([]string, 0, len(f.ctors))
	for kind := range f.ctors {
		kinds = append(kinds, kind)
	}
	slices.Sort(kinds)
	return kinds
}
