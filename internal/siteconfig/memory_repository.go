package siteconfig

import (
	"context"
	"maps"
	"sync"
	"time"
)

type memoryRepository struct {
	mu  sync.RWMutex
	doc Document
}

// NewMemoryRepository constructs an in-memory configuration store.
func NewMemoryRepository() Repository {
	return &memoryRepository{doc: Document{Fields: map[string]any{}}}
}

func (r *memoryRepository) Get(context.Context) (Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return Document{Fields: maps.Clone(r.doc.Fields), UpdatedAt: r.doc.UpdatedAt}, nil
}

func (r *memoryRepository) Merge(_ context.Context, fields map[string]any, at time.Time) (Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	maps.Copy(r.doc.Fields, fields)
	r.doc.UpdatedAt = at.UTC()
	return Document{Fields: maps.Clone(r.doc.Fields), UpdatedAt: r.doc.UpdatedAt}, nil
}
