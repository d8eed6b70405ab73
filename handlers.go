package inkwell

import (
	"encoding/json"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/inkwell-engine/inkwell/blog"
)

// Public read handlers. Responses are rendered once and parked in the view
// cache under the same paths the content service invalidates on writes.

func (a *App) handleListPosts(c echo.Context) error {
	const view = "/blogs"
	if body, ok := a.Views.Get(view); ok {
		return c.JSONBlob(http.StatusOK, body)
	}

	posts := a.Service.Published(c.Request().Context())
	body, err := json.Marshal(posts)
	if err != nil {
		return err
	}
	a.Views.Put(view, body)
	return c.JSONBlob(http.StatusOK, body)
}

func (a *App) handleGetPost(c echo.Context) error {
	slug := c.Param("slug")
	view := "/blogs/" + slug
	if body, ok := a.Views.Get(view); ok {
		return c.JSONBlob(http.StatusOK, body)
	}

	post, ok := a.Service.BySlug(c.Request().Context(), slug)
	// Drafts are not resolvable through the public slug route.
	if !ok || post.Status != blog.StatusPublished {
		return echo.NewHTTPError(http.StatusNotFound, "post not found")
	}
	body, err := json.Marshal(post)
	if err != nil {
		return err
	}
	a.Views.Put(view, body)
	return c.JSONBlob(http.StatusOK, body)
}
