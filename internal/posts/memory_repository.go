package posts

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/fiesta-frutilla/festival_cms/internal/common"
)

type memoryRepository struct {
	mu      sync.RWMutex
	storage map[string]Post
}

// NewMemoryRepository constructs an in-memory repository for development and tests.
func NewMemoryRepository() Repository {
	return &memoryRepository{storage: make(map[string]Post)}
}

func (r *memoryRepository) Create(_ context.Context, post Post) (Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.slugTaken(post.Slug, "") {
		return Post{}, fmt.Errorf("%w: slug already in use", common.ErrConflict)
	}
	post.ID = uuid.NewString()
	r.storage[post.ID] = post
	return post, nil
}

func (r *memoryRepository) Get(_ context.Context, id string) (Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	post, ok := r.storage[id]
	if !ok {
		return Post{}, common.ErrNotFound
	}
	return post, nil
}

func (r *memoryRepository) GetBySlug(_ context.Context, slug string) (Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, post := range r.storage {
		if post.Slug == slug {
			return post, nil
		}
	}
	return Post{}, common.ErrNotFound
}

func (r *memoryRepository) List(_ context.Context, filter Filter) ([]Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Post, 0, len(r.storage))
	for _, post := range r.storage {
		if filter.PublishedOnly && !post.Published {
			continue
		}
		out = append(out, post)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *memoryRepository) Update(_ context.Context, post Post) (Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.storage[post.ID]
	if !ok {
		return Post{}, common.ErrNotFound
	}
	if r.slugTaken(post.Slug, post.ID) {
		return Post{}, fmt.Errorf("%w: slug already in use", common.ErrConflict)
	}
	post.Author = existing.Author
	post.CreatedAt = existing.CreatedAt
	r.storage[post.ID] = post
	return post, nil
}

func (r *memoryRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.storage[id]; !ok {
		return common.ErrNotFound
	}
	delete(r.storage, id)
	return nil
}

func (r *memoryRepository) slugTaken(slug, exceptID string) bool {
	for id, post := range r.storage {
		if post.Slug == slug && id != exceptID {
			return true
		}
	}
	return false
}
