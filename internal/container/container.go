// Package container is a small registry of named, lazily created singleton
// components. Every resolution error it returns is a *failure.Failure.
package container

import (
	"context"
	"errors"
	"fmt"
	"io"
	"reflect"

	"bootd/internal/failure"
)

// Constructor builds a component. Declared dependencies are already
// resolved when it runs and can be fetched with Get or Resolve.
type Constructor func(ctx context.Context, r *Registry) (any, error)

type definition struct {
	name string
	deps []string
	ctor Constructor
}

// Registry holds component definitions and created instances.
// It is not safe for concurrent use.
type Registry struct {
	defs       map[string]definition
	instances  map[string]any
	inCreation map[string]bool
	order      []string // creation order, for Close
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{
		defs:       make(map[string]definition),
		instances:  make(map[string]any),
		inCreation: make(map[string]bool),
	}
}

// Register adds a component definition. Names must be unique.
func (r *Registry) Register(name string, deps []string, ctor Constructor) error {
	if name == "" {
		return errors.New("container: component name is empty")
	}
	if ctor == nil {
		return fmt.Errorf("container: component %q has no constructor", name)
	}
	if _, ok := r.defs[name]; ok {
		return fmt.Errorf("container: component %q is already registered", name)
	}
	r.defs[name] = definition{name: name, deps: append([]string(nil), deps...), ctor: ctor}
	return nil
}

// Has reports whether a component with the given name is registered.
func (r *Registry) Has(name string) bool {
	_, ok := r.defs[name]
	return ok
}

// Resolve returns the named component, creating it and its dependencies on
// first use.
func (r *Registry) Resolve(ctx context.Context, name string) (any, error) {
	if v, ok := r.instances[name]; ok {
		return v, nil
	}

	def, ok := r.defs[name]
	if !ok {
		return nil, failure.Newf(failure.CategoryComponentNotFound, "no component named '%s' is available", name)
	}
	if r.inCreation[name] {
		return nil, failure.Newf(failure.CategoryComponentCreation,
			"component '%s' is currently in creation: is there an unresolvable circular reference?", name)
	}

	r.inCreation[name] = true
	defer delete(r.inCreation, name)

	for _, dep := range def.deps {
		if _, err := r.Resolve(ctx, dep); err != nil {
			return nil, failure.Wrap(failure.CategoryUnsatisfiedDependency,
				fmt.Sprintf("error creating component '%s': unsatisfied dependency '%s'", name, dep), err)
		}
	}

	v, err := def.ctor(ctx, r)
	if err != nil {
		return nil, failure.Wrap(failure.CategoryComponentCreation,
			fmt.Sprintf("error creating component '%s'", name), err)
	}

	r.instances[name] = v
	r.order = append(r.order, name)
	return v, nil
}

// Get resolves a component and asserts its type.
func Get[T any](ctx context.Context, r *Registry, name string) (T, error) {
	var zero T
	v, err := r.Resolve(ctx, name)
	if err != nil {
		return zero, err
	}
	t, ok := v.(T)
	if !ok {
		return zero, failure.Newf(failure.CategoryComponentCreation,
			"component '%s' is expected to be of type %s but was actually of type %T", name, reflect.TypeFor[T](), v)
	}
	return t, nil
}

// Close closes created components that implement io.Closer, newest first.
func (r *Registry) Close() error {
	var errs []error
	for i := len(r.order) - 1; i >= 0; i-- {
		name := r.order[i]
		if c, ok := r.instances[name].(io.Closer); ok {
			if err := c.Close(); err != nil {
				errs = append(errs, fmt.Errorf("close %s: %w", name, err))
			}
		}
		delete(r.instances, name)
	}
	r.order = nil
	return errors.Join(errs...)
}
