package fhirmodel

import (
	"context"
	"errors"
	"sync"

	"github.com/gofhir/model/pkg/reference"
)

// ErrNotFound is returned by a Resolver for a reference it cannot resolve.
var ErrNotFound = errors.New("fhirmodel: referenced resource not found")

// Resolver dereferences references. The library never calls a Resolver
// itself; it is the contract for stores and servers built on the model.
type Resolver interface {
	Resolve(ctx context.Context, ref Reference) (Resource, error)
}

// ResolverFunc adapts a function to the Resolver interface.
type ResolverFunc func(ctx context.Context, ref Reference) (Resource, error)

// Resolve calls f.
func (f ResolverFunc) Resolve(ctx context.Context, ref Reference) (Resource, error) {
	return f(ctx, ref)
}

// Index is an in-memory Resolver over a fixed set of resources, keyed by
// Type/id. It is safe for concurrent use.
type Index struct {
	mu        sync.RWMutex
	resources map[string]Resource
}

// NewIndex returns an Index holding resources.
func NewIndex(resources ...Resource) *Index {
	idx := &Index{resources: make(map[string]Resource, len(resources))}
	for _, r := range resources {
		idx.Add(r)
	}
	return idx
}

// Add stores r, replacing any resource with the same type and id.
func (idx *Index) Add(r Resource) {
	if r == nil || r.ID() == "" {
		return
	}
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.resources[r.ResourceType()+"/"+r.ID()] = r
}

// Len returns the number of stored resources.
func (idx *Index) Len() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.resources)
}

// Resolve returns the resource a relative, versioned or absolute reference
// points to. Contained, urn and identifier-only references are ErrNotFound.
func (idx *Index) Resolve(ctx context.Context, ref Reference) (Resource, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if ref.Reference == "" {
		return nil, ErrNotFound
	}
	p, err := reference.Parse(ref.Reference)
	if err != nil {
		return nil, err
	}
	key := p.Local()
	if key == "" {
		return nil, ErrNotFound
	}
	idx.mu.RLock()
	r, ok := idx.resources[key]
	idx.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	return r, nil
}
