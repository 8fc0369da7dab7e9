package statetree

import "errors"

var (
	// ErrInvalidHost is returned when a cell or component is created without a
	// live host to own it.
	ErrInvalidHost = errors.New("invalid state host")
	// ErrUninitializedCell is returned when a nil cell is read or compared.
	ErrUninitializedCell = errors.New("state cell not initialized")
	// ErrAnonymousCell is returned when an unnamed cell is added to a registry.
	ErrAnonymousCell = errors.New("state cell has no name")
	// ErrNotFound covers cells that were never registered, have a different
	// type or were reclaimed, as well as unknown directory names.
	ErrNotFound = errors.New("not found")
	// ErrScopeViolation is returned when a cell is retrieved from outside the
	// scope it was declared in.
	ErrScopeViolation = errors.New("state cell scope violation")
	// ErrDuplicateRegistration is returned when a directory name is taken.
	ErrDuplicateRegistration = errors.New("already registered")
	// ErrInvalidRoot is returned when a component has no anchor element.
	ErrInvalidRoot = errors.New("component anchor element not found")
	// ErrInvalidHierarchy is returned when a component's anchor is not deeper
	// than its parent component's anchor.
	ErrInvalidHierarchy = errors.New("invalid component hierarchy")
	// ErrConstructorNotFound is returned when no constructor is registered for
	// a component kind.
	ErrConstructorNotFound = errors.New("component constructor not found")
	// ErrNotInitialized is the configuration error for a render pass on a
	// tree without a host anchor.
	ErrNotInitialized = errors.New("render tree not initialized")
	// ErrHostClosed is returned by operations on a host after Close.
	ErrHostClosed = errors.New("state host closed")
	// ErrBatching is returned by Host.Batch while automatic batching is on.
	ErrBatching = errors.New("manual batching not allowed with automatic batching")
)
