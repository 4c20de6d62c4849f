package posts

import "time"

// Post is a blog entry shown on the festival site.
type Post struct {
	ID        string
	Title     string
	Slug      string
	Excerpt   string
	Content   string
	ImageURL  string
	Author    string
	Published bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Filter narrows List results.
type Filter struct {
	PublishedOnly bool
}

// CreateInput captures data required to create a post.
type CreateInput struct {
	Title     string
	Slug      string
	Excerpt   string
	Content   string
	ImageURL  string
	Author    string
	Published bool
}

// UpdateInput carries a partial update; nil fields are left untouched.
type UpdateInput struct {
	Title     *string
	Slug      *string
	Excerpt   *string
	Content   *string
	ImageURL  *string
	Published *bool
}
