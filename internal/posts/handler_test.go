package posts

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/fiesta-frutilla/festival_cms/internal/common"
	"github.com/fiesta-frutilla/festival_cms/internal/logging"
)

func newPostsApp() *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: common.ErrorHandler(logging.Discard())})
	h := NewHandler(NewService(NewMemoryRepository()), func(*fiber.Ctx) string { return "editor@x.com" })
	app.Get("/posts", h.List)
	app.Get("/posts/:idOrSlug", h.Get)
	app.Post("/posts", h.Create)
	app.Put("/posts/:id", h.Update)
	app.Delete("/posts/:id", h.Delete)
	return app
}

func call(t *testing.T, app *fiber.App, method, path, body string, out any) int {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func TestPostsHandlerCRUD(t *testing.T) {
	app := newPostsApp()

	var created postResponse
	status := call(t, app, http.MethodPost, "/posts", `{"title":"Coronación de la Reina","content":"..."}`, &created)
	require.Equal(t, http.StatusCreated, status)
	require.Equal(t, "coronacion-de-la-reina", created.Slug)
	require.Equal(t, "editor@x.com", created.Author)

	var list []postResponse
	require.Equal(t, http.StatusOK, call(t, app, http.MethodGet, "/posts", "", &list))
	require.Len(t, list, 1)

	var got postResponse
	require.Equal(t, http.StatusOK, call(t, app, http.MethodGet, "/posts/"+created.Slug, "", &got))
	require.Equal(t, created.ID, got.ID)

	var updated postResponse
	require.Equal(t, http.StatusOK, call(t, app, http.MethodPut, "/posts/"+created.ID, `{"published":true}`, &updated))
	require.True(t, updated.Published)
	require.Equal(t, created.Title, updated.Title)

	require.Equal(t, http.StatusNoContent, call(t, app, http.MethodDelete, "/posts/"+created.ID, "", nil))

	var errBody common.ErrorResponse
	require.Equal(t, http.StatusNotFound, call(t, app, http.MethodGet, "/posts/"+created.ID, "", &errBody))
	require.Equal(t, "not found", errBody.Error)
}

func TestPostsHandlerErrors(t *testing.T) {
	app := newPostsApp()

	var errBody common.ErrorResponse
	require.Equal(t, http.StatusBadRequest, call(t, app, http.MethodPost, "/posts", `{"content":"sin título"}`, &errBody))
	require.Contains(t, errBody.Error, "title is required")

	require.Equal(t, http.StatusBadRequest, call(t, app, http.MethodPost, "/posts", `{broken`, nil))

	require.Equal(t, http.StatusCreated, call(t, app, http.MethodPost, "/posts", `{"title":"Duplicado"}`, nil))
	require.Equal(t, http.StatusConflict, call(t, app, http.MethodPost, "/posts", `{"title":"duplicado"}`, nil))

	require.Equal(t, http.StatusNotFound, call(t, app, http.MethodPut, "/posts/nope", `{"title":"x"}`, nil))
}
