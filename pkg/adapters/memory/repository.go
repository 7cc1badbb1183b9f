// Package memory provides an in-process corpus, used for tests and embedding.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/aretw0/introspection"

	"github.com/nickrallison/obsidian-linker-new/pkg/core"
)

// Repository keeps documents in insertion order.
type Repository struct {
	mu       sync.RWMutex
	order    []string
	docs     map[string][]byte
	readOnly bool
	writes   int
}

// Option configures a Repository.
type Option func(*Repository)

// WithReadOnly makes Save fail with core.ErrReadOnly.
func WithReadOnly(enabled bool) Option {
	return func(r *Repository) {
		r.readOnly = enabled
	}
}

// New returns a repository holding docs in the given order.
func New(docs []core.Document, opts ...Option) *Repository {
	r := &Repository{docs: make(map[string][]byte, len(docs))}
	for _, opt := range opts {
		opt(r)
	}
	for _, d := range docs {
		r.Put(d.ID, d.Content)
	}
	return r
}

// FromMap builds a repository from id/content pairs, in the order given.
func FromMap(pairs ...string) *Repository {
	var docs []core.Document
	for i := 0; i+1 < len(pairs); i += 2 {
		docs = append(docs, core.Document{ID: pairs[i], Content: []byte(pairs[i+1])})
	}
	return New(docs)
}

// Put creates or replaces a document, bypassing the read-only flag.
func (r *Repository) Put(id string, content []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.docs[id]; !ok {
		r.order = append(r.order, id)
	}
	r.docs[id] = append([]byte(nil), content...)
}

// Remove deletes a document.
func (r *Repository) Remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.docs[id]; !ok {
		return
	}
	delete(r.docs, id)
	for i, o := range r.order {
		if o == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

// Content returns the stored content of id as a string.
func (r *Repository) Content(id string) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return string(r.docs[id])
}

// List implements core.Repository.
func (r *Repository) List(ctx context.Context) ([]core.Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	docs := make([]core.Document, 0, len(r.order))
	for _, id := range r.order {
		docs = append(docs, core.Document{ID: id, Content: append([]byte(nil), r.docs[id]...)})
	}
	return docs, nil
}

// Get implements core.Repository.
func (r *Repository) Get(ctx context.Context, id string) (core.Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	content, ok := r.docs[id]
	if !ok {
		return core.Document{}, fmt.Errorf("%w: %s", core.ErrNotFound, id)
	}
	return core.Document{ID: id, Content: append([]byte(nil), content...)}, nil
}

// Save implements core.Repository. The document must already exist.
func (r *Repository) Save(ctx context.Context, id string, content []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.readOnly {
		return fmt.Errorf("%w: %s", core.ErrReadOnly, id)
	}
	if _, ok := r.docs[id]; !ok {
		return fmt.Errorf("%w: %s", core.ErrNotFound, id)
	}
	r.docs[id] = append([]byte(nil), content...)
	r.writes++
	return nil
}

// State exposes internal state for observability.
type State struct {
	Documents int  `json:"documents"`
	Writes    int  `json:"writes"`
	ReadOnly  bool `json:"read_only"`
}

// State implements introspection.Introspectable.
func (r *Repository) State() any {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return State{Documents: len(r.order), Writes: r.writes, ReadOnly: r.readOnly}
}

// ComponentType implements introspection.Component.
func (r *Repository) ComponentType() string {
	return "memory_repository"
}

var _ core.Repository = (*Repository)(nil)
var _ introspection.Introspectable = (*Repository)(nil)
var _ introspection.Component = (*Repository)(nil)
