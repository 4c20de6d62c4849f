package siteconfig

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fiesta-frutilla/festival_cms/internal/common"
)

// Fields owned by the server; clients cannot set them.
var reservedFields = map[string]struct{}{"_id": {}, "id": {}, updatedAtField: {}}

// Service reads and updates the site configuration.
type Service struct {
	repo Repository
	now  func() time.Time
}

// NewService builds a configuration service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: func() time.Time { return time.Now().UTC() }}
}

// Get returns the current configuration.
func (s *Service) Get(ctx context.Context) (Document, error) {
	return s.repo.Get(ctx)
}

// Update merges the supplied top-level fields into the stored configuration.
func (s *Service) Update(ctx context.Context, fields map[string]any) (Document, error) {
	clean := make(map[string]any, len(fields))
	for k, v := range fields {
		if _, reserved := reservedFields[k]; reserved {
			continue
		}
		if k == "" || strings.HasPrefix(k, "$") || strings.Contains(k, ".") {
			return Document{}, fmt.Errorf("%w: invalid field name %q", common.ErrInvalidRequest, k)
		}
		clean[k] = v
	}
	if len(clean) == 0 {
		return Document{}, fmt.Errorf("%w: no configuration fields supplied", common.ErrInvalidRequest)
	}
	return s.repo.Merge(ctx, clean, s.now())
}
