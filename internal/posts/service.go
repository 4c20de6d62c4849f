package posts

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gosimple/slug"

	"github.com/fiesta-frutilla/festival_cms/internal/common"
)

// Service exposes post operations.
type Service struct {
	repo Repository
	now  func() time.Time
}

// NewService builds a post service instance.
func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: func() time.Time { return time.Now().UTC() }}
}

// Create validates input, derives the slug and stores the post.
func (s *Service) Create(ctx context.Context, in CreateInput) (Post, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return Post{}, fmt.Errorf("%w: title is required", common.ErrInvalidRequest)
	}
	postSlug, err := makeSlug(in.Slug, title)
	if err != nil {
		return Post{}, err
	}

	now := s.now()
	return s.repo.Create(ctx, Post{
		Title:     title,
		Slug:      postSlug,
		Excerpt:   in.Excerpt,
		Content:   in.Content,
		ImageURL:  in.ImageURL,
		Author:    in.Author,
		Published: in.Published,
		CreatedAt: now,
		UpdatedAt: now,
	})
}

// Get looks a post up by identifier, falling back to its slug.
func (s *Service) Get(ctx context.Context, idOrSlug string) (Post, error) {
	post, err := s.repo.Get(ctx, idOrSlug)
	if errors.Is(err, common.ErrNotFound) {
		return s.repo.GetBySlug(ctx, idOrSlug)
	}
	return post, err
}

// List returns posts newest first.
func (s *Service) List(ctx context.Context, filter Filter) ([]Post, error) {
	return s.repo.List(ctx, filter)
}

// Update applies a partial update. The slug only changes when given explicitly.
func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (Post, error) {
	post, err := s.repo.Get(ctx, id)
	if err != nil {
		return Post{}, err
	}

	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return Post{}, fmt.Errorf("%w: title cannot be empty", common.ErrInvalidRequest)
		}
		post.Title = title
	}
	if in.Slug != nil {
		if post.Slug, err = makeSlug(*in.Slug, post.Title); err != nil {
			return Post{}, err
		}
	}
	if in.Excerpt != nil {
		post.Excerpt = *in.Excerpt
	}
	if in.Content != nil {
		post.Content = *in.Content
	}
	if in.ImageURL != nil {
		post.ImageURL = *in.ImageURL
	}
	if in.Published != nil {
		post.Published = *in.Published
	}
	post.UpdatedAt = s.now()

	return s.repo.Update(ctx, post)
}

// Delete removes a post.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func makeSlug(explicit, title string) (string, error) {
	source := strings.TrimSpace(explicit)
	if source == "" {
		source = title
	}
	out := slug.Make(source)
	if out == "" {
		return "", fmt.Errorf("%w: cannot derive slug from %q", common.ErrInvalidRequest, source)
	}
	return out, nil
}
