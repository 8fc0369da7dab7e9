package statetree

import (
	"errors"
	"fmt"
	"time"

	"github.com/delaneyj/editorstate/pkg/config"
	"github.com/sirupsen/logrus"
)

// View is the application side of a host.
type View interface {
	// Init runs once when the host opens. Declare host cells here.
	Init(h *Host) error
	// Render draws the host. Hosts using a render tree only call it once,
	// to add their top-level components; later re-renders go through the
	// tree.
	Render(h *Host) error
}

// Closer is implemented by views that need cleanup when their host closes.
type Closer interface {
	Close(h *Host) error
}

// Host owns a UI region: its anchor element, state registry, render tree and
// scheduler. The host name is its key in the Context directories.
type Host struct {
	name   string
	ctx    *Context
	view   View
	anchor Element

	registry  *Registry
	scheduler *Scheduler
	tree      *Tree

	batching   bool
	renderTree bool
	debounce   time.Duration
	now        func() time.Time
	log        *logrus.Entry

	manualBatch  bool
	batchPending bool

	opened  bool
	closed  bool
	hooks   []func()
	renders int
	seq     uint64
}

type Option func(*Host)

// WithConfig applies batching, render tree and debounce settings.
func WithConfig(cfg config.HostConfig) Option {
	return func(h *Host) {
		h.batching = cfg.Batching
		h.renderTree = cfg.RenderTree
		if cfg.Debounce > 0 {
			h.debounce = cfg.Debounce
		}
	}
}

// WithBatching toggles automatic batching. It is on by default.
func WithBatching(enabled bool) Option {
	return func(h *Host) { h.batching = enabled }
}

// WithRenderTree toggles component rendering. It is off by default.
func WithRenderTree(enabled bool) Option {
	return func(h *Host) { h.renderTree = enabled }
}

func WithDebounce(d time.Duration) Option {
	return func(h *Host) { h.debounce = d }
}

func WithClock(now func() time.Time) Option {
	return func(h *Host) { h.now = now }
}

func WithLogger(log *logrus.Entry) Option {
	return func(h *Host) { h.log = log }
}

// NewHost creates a host anchored at anchor. It is registered in ctx when
// opened.
func NewHost(ctx *Context, name string, anchor Element, view View, opts ...Option) (*Host, error) {
	if ctx == nil {
		return nil, fmt.Errorf("state host %q: nil context: %w", name, ErrInvalidHost)
	}
	if name == "" {
		return nil, fmt.Errorf("state host: empty name: %w", ErrInvalidHost)
	}
	if view == nil {
		return nil, fmt.Errorf("state host %q: nil view: %w", name, ErrInvalidHost)
	}
	if anchor == nil {
		return nil, fmt.Errorf("state host %q: %w", name, ErrInvalidRoot)
	}

	h := &Host{
		name:     name,
		ctx:      ctx,
		view:     view,
		anchor:   anchor,
		registry: NewRegistry(),
		batching: true,
		debounce: DefaultDebounce,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.log == nil {
		h.log = ctx.Logger.WithField("host", name)
	}
	h.scheduler = NewScheduler(h.debounce, h.now, h.flush)
	h.tree = NewTree(h.log)
	return h, nil
}

func (h *Host) Name() string { return h.name }
func (h *Host) Context() *Context { return h.ctx }
func (h *Host) View() View { return h.view }
func (h *Host) Anchor() Element { return h.anchor }
func (h *Host) Registry() *Registry { return h.registry }
func (h *Host) Scheduler() *Scheduler { return h.scheduler }
func (h *Host) Tree() *Tree { return h.tree }
func (h *Host) Batching() bool { return h.batching }
func (h *Host) UsesRenderTree() bool { return h.renderTree }
func (h *Host) Logger() *logrus.Entry { return h.log }
func (h *Host) IsOpen() bool { return h.opened && !h.closed }

// RenderCount counts host re-renders, excluding the first render on Open.
func (h *Host) RenderCount() int { return h.renders }

// Open registers the host and its registry under the host name, runs the
// view's Init and renders for the first time.
func (h *Host) Open() error {
	if h.closed {
		return fmt.Errorf("open %q: %w", h.name, ErrHostClosed)
	}
	if err := h.ctx.Registries.Register(h.name, h.registry); err != nil {
		return err
	}
	if err := h.ctx.Hosts.Register(h.name, h); err != nil {
		_ = h.ctx.Registries.Unregister(h.name)
		return err
	}
	h.opened = true
	if err := h.start(); err != nil {
		h.abortOpen()
		return err
	}
	return nil
}

func (h *Host) start() error {
	if h.renderTree {
		h.tree.Initialize(h.anchor)
	}
	if err := h.view.Init(h); err != nil {
		return fmt.Errorf("init host %q: %w", h.name, err)
	}
	if !h.renderTree {
		h.anchor.Clear()
	}
	if err := h.view.Render(h); err != nil {
		return fmt.Errorf("render host %q: %w", h.name, err)
	}
	if h.renderTree {
		return h.tree.Render()
	}
	return nil
}

// abortOpen undoes a failed Open so the host name is free again.
func (h *Host) abortOpen() {
	h.scheduler.Cancel()
	for _, n := range h.tree.Roots() {
		n.Destroy()
	}
	if !h.renderTree {
		h.anchor.Clear()
	}
	_ = h.ctx.Hosts.Unregister(h.name)
	_ = h.ctx.Registries.Unregister(h.name)
	h.registry.clear()
	h.opened = false
}

// ReRender rebuilds the host. With a render tree this is a tree pass that
// only re-renders dirty nodes; otherwise the anchor is cleared and the view
// renders from scratch.
func (h *Host) ReRender() error {
	if h.closed {
		return fmt.Errorf("re-render %q: %w", h.name, ErrHostClosed)
	}
	if h.manualBatch {
		h.batchPending = true
		return nil
	}
	h.renders++
	for _, hook := range h.hooks {
		hook()
	}
	if h.renderTree {
		return h.tree.Render()
	}
	h.anchor.Clear()
	return h.view.Render(h)
}

// OnReRender registers fn to run before every host re-render.
func (h *Host) OnReRender(fn func()) {
	h.hooks = append(h.hooks, fn)
}

// Tick advances the scheduler. Call it from every iteration of the host's
// update loop.
func (h *Host) Tick(now time.Time) error {
	if h.closed {
		return nil
	}
	_, err := h.scheduler.Tick(now)
	return err
}

// Batch runs fn and re-renders once afterwards, however many cells fn sets.
// Nothing is re-rendered if fn changed no cell.
// It is only allowed when automatic batching is off.
func (h *Host) Batch(fn func()) error {
	if h.batching {
		return fmt.Errorf("batch %q: %w", h.name, ErrBatching)
	}
	h.batchPending = false
	h.manualBatch = true
	func() {
		defer func() { h.manualBatch = false }()
		fn()
	}()
	if !h.batchPending {
		return nil
	}
	h.batchPending = false
	return h.ReRender()
}

// AddComponent mounts c as a top-level component anchored under anchor.
func (h *Host) AddComponent(anchor Element, c Component) (*Node, error) {
	return h.mount(nil, anchor, kindOf(c), c)
}

// Add builds a registered component kind and mounts it as a top-level
// component.
func (h *Host) Add(kind string, anchor Element) (*Node, error) {
	c, err := h.ctx.Components.New(kind, anchor)
	if err != nil {
		return nil, err
	}
	return h.mount(nil, anchor, kind, c)
}

// Close cancels any pending flush, destroys the render tree, unregisters the
// host and drops its registry entries.
func (h *Host) Close() error {
	if h.closed {
		return fmt.Errorf("close %q: %w", h.name, ErrHostClosed)
	}
	if h.scheduler.Cancel() {
		h.log.Debug("cancelled pending flush on close")
	}
	for _, n := range h.tree.Roots() {
		n.Destroy()
	}

	var errs []error
	if h.opened {
		errs = append(errs,
			h.ctx.Registries.Unregister(h.name),
			h.ctx.Hosts.Unregister(h.name),
		)
	}
	if c, ok := h.view.(Closer); ok {
		errs = append(errs, c.Close(h))
	}
	h.registry.clear()
	h.closed = true
	return errors.Join(errs...)
}

func (h *Host) mount(parent *Node, anchor Element, kind string, c Component) (*Node, error) {
	if h.closed {
		return nil, fmt.Errorf("add component %s to %q: %w", kind, h.name, ErrHostClosed)
	}
	if !h.renderTree {
		return nil, fmt.Errorf("add component %s: host %q does not use a render tree: %w", kind, h.name, ErrNotInitialized)
	}
	if c == nil {
		return nil, fmt.Errorf("add component %s: nil component: %w", kind, ErrConstructorNotFound)
	}
	n, err := newNode(h, parent, anchor, kind, c)
	if err != nil {
		return nil, err
	}
	if parent != nil {
		parent.children = append(parent.children, n)
	} else {
		h.tree.add(n)
	}
	if err := n.initialize(); err != nil {
		n.Destroy()
		return nil, err
	}
	return n, nil
}

func (h *Host) requestRender() {
	switch {
	case h.manualBatch:
		h.batchPending = true
	case h.batching:
		h.scheduler.InitiateChange()
	default:
		if err := h.ReRender(); err != nil {
			h.log.WithError(err).Error("re-render failed")
		}
	}
}

func (h *Host) flush() error {
	h.log.Debug("flushing batched state changes")
	return h.ReRender()
}
