package posts

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/fiesta-frutilla/festival_cms/internal/common"
)

// AuthorFunc resolves the author recorded on new posts from the request.
type AuthorFunc func(c *fiber.Ctx) string

// Handler exposes post HTTP endpoints.
type Handler struct {
	service *Service
	author  AuthorFunc
}

// NewHandler builds a post HTTP handler.
func NewHandler(service *Service, author AuthorFunc) *Handler {
	return &Handler{service: service, author: author}
}

type createRequest struct {
	Title     string `json:"title"`
	Slug      string `json:"slug"`
	Excerpt   string `json:"excerpt"`
	Content   string `json:"content"`
	ImageURL  string `json:"imageUrl"`
	Published bool   `json:"published"`
}

type updateRequest struct {
	Title     *string `json:"title"`
	Slug      *string `json:"slug"`
	Excerpt   *string `json:"excerpt"`
	Content   *string `json:"content"`
	ImageURL  *string `json:"imageUrl"`
	Published *bool   `json:"published"`
}

type postResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Slug      string    `json:"slug"`
	Excerpt   string    `json:"excerpt"`
	Content   string    `json:"content"`
	ImageURL  string    `json:"imageUrl"`
	Author    string    `json:"author"`
	Published bool      `json:"published"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func toResponse(p Post) postResponse {
	return postResponse{
		ID:        p.ID,
		Title:     p.Title,
		Slug:      p.Slug,
		Excerpt:   p.Excerpt,
		Content:   p.Content,
		ImageURL:  p.ImageURL,
		Author:    p.Author,
		Published: p.Published,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

// List returns all posts, or only published ones with ?published=true.
func (h *Handler) List(c *fiber.Ctx) error {
	posts, err := h.service.List(c.UserContext(), Filter{PublishedOnly: c.QueryBool("published", false)})
	if err != nil {
		return err
	}
	out := make([]postResponse, 0, len(posts))
	for _, p := range posts {
		out = append(out, toResponse(p))
	}
	return c.Status(http.StatusOK).JSON(out)
}

// Get returns a single post by id or slug.
func (h *Handler) Get(c *fiber.Ctx) error {
	post, err := h.service.Get(c.UserContext(), c.Params("idOrSlug"))
	if err != nil {
		return err
	}
	return c.Status(http.StatusOK).JSON(toResponse(post))
}

// Create stores a new post.
func (h *Handler) Create(c *fiber.Ctx) error {
	var req createRequest
	if err := c.BodyParser(&req); err != nil {
		return fmt.Errorf("%w: malformed body", common.ErrInvalidRequest)
	}
	in := CreateInput{
		Title:     req.Title,
		Slug:      req.Slug,
		Excerpt:   req.Excerpt,
		Content:   req.Content,
		ImageURL:  req.ImageURL,
		Published: req.Published,
	}
	if h.author != nil {
		in.Author = h.author(c)
	}
	post, err := h.service.Create(c.UserContext(), in)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(toResponse(post))
}

// Update applies a partial update to a post.
func (h *Handler) Update(c *fiber.Ctx) error {
	var req updateRequest
	if err := c.BodyParser(&req); err != nil {
		return fmt.Errorf("%w: malformed body", common.ErrInvalidRequest)
	}
	post, err := h.service.Update(c.UserContext(), c.Params("id"), UpdateInput{
		Title:     req.Title,
		Slug:      req.Slug,
		Excerpt:   req.Excerpt,
		Content:   req.Content,
		ImageURL:  req.ImageURL,
		Published: req.Published,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusOK).JSON(toResponse(post))
}

// Delete removes a post.
func (h *Handler) Delete(c *fiber.Ctx) error {
	if err := h.service.Delete(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}
