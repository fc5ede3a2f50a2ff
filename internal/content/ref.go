// Package content provides polymorphic references to host application
// entities. Any record a comment can attach to is identified by a stable
// (kind, id) pair, and a Registry maps kind tags back to lookup functions.
package content

import (
	"context"
	"fmt"
	"sync"
)

// Ref identifies an arbitrary entity by a type tag and numeric id.
type Ref struct {
	Kind string `json:"kind"`
	ID   uint   `json:"id"`
}

func (r Ref) String() string {
	return fmt.Sprintf("%s/%d", r.Kind, r.ID)
}

// Ownable is implemented by entities that comments can attach to.
type Ownable interface {
	Ref() Ref
}

// RefOf derives the reference of any ownable entity.
func RefOf(o Ownable) Ref {
	return o.Ref()
}

// ResolverFunc loads the entity behind a registered kind by id.
type ResolverFunc func(ctx context.Context, id uint) (any, error)

// Registry maps kind tags to resolver functions. It is safe for
// concurrent use.
type Registry struct {
	mu        sync.RWMutex
	resolvers map[string]ResolverFunc
}

// NewRegistry creates an empty resolver registry.
func NewRegistry() *Registry {
	return &Registry{resolvers: make(map[string]ResolverFunc)}
}

// Register binds a kind tag to a resolver. Registering an already-known
// kind replaces the previous resolver.
func (r *Registry) Register(kind string, fn ResolverFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.resolvers[kind] = fn
}

// Known reports whether a resolver is registered for the given kind.
func (r *Registry) Known(kind string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.resolvers[kind]
	return ok
}

// Resolve loads the entity behind ref. Unknown kinds are an error;
// resolver failures (typically not-found) propagate unchanged.
func (r *Registry) Resolve(ctx context.Context, ref Ref) (any, error) {
	r.mu.RLock()
	fn, ok := r.resolvers[ref.Kind]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("content: no resolver registered for kind %q", ref.Kind)
	}
	return fn(ctx, ref.ID)
}
