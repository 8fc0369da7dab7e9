package statetree

import (
	"fmt"
	"slices"

	"github.com/delaneyj/editorstate/pkg/logging"
	"github.com/sirupsen/logrus"
)

// Directory maps host names to values. Names are unique across all open
// hosts: registering a taken name is an error, never an overwrite.
type Directory[V any] struct {
	kind    string
	entries map[string]V
}

func NewDirectory[V any](kind string) *Directory[V] {
	return &Directory[V]{
		kind:    kind,
		entries: map[string]V{},
	}
}

func (d *Directory[V]) Register(name string, v V) error {
	if _, ok := d.entries[name]; ok {
		return fmt.Errorf("%s %q: %w, names are bound to their host and must be unique", d.kind, name, ErrDuplicateRegistration)
	}
	d.entries[name] = v
	return nil
}

func (d *Directory[V]) Unregister(name string) error {
	if _, ok := d.entries[name]; !ok {
		return fmt.Errorf("%s %q has not been registered: %w", d.kind, name, ErrNotFound)
	}
	delete(d.entries, name)
	return nil
}

func (d *Directory[V]) Find(name string) (V, error) {
	v, ok := d.entries[name]
	if !ok {
		return v, fmt.Errorf("%s %q has not been registered: %w", d.kind, name, ErrNotFound)
	}
	return v, nil
}

func (d *Directory[V]) Names() []string {
	names := make([]string, 0, len(d.entries))
	for name := range d.entries {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func (d *Directory[V]) Len() int {
	return len(d.entries)
}

// Context is the process-wide state shared by every host of an application:
// the registry and host directories plus the component constructors. Create
// one at startup and pass it to each host.
type Context struct {
	Registries *Directory[*Registry]
	Hosts      *Directory[*Host]
	Components *Factory
	Logger     *logrus.Entry
}

func NewContext() *Context {
	return &Context{
		Registries: NewDirectory[*Registry]("state registry"),
		Hosts:      NewDirectory[*Host]("state host"),
		Components: NewFactory(),
		Logger:     logging.NewLogger("statetree"),
	}
}

// Registry finds the state registry of the named host.
func (c *Context) Registry(hostName string) (*Registry, error) {
	return c.Registries.Find(hostName)
}
