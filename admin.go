package inkwell

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/inkwell-engine/inkwell/blog"
)

// apiResult is the structured failure envelope for admin writes. Persistence
// failures come back to the editor as a message, never as a dropped write or
// a crashed request.
type apiResult struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

func apiFailure(c echo.Context, code int, msg string) error {
	return c.JSON(code, apiResult{OK: false, Error: msg})
}

func (a *App) handleAdminLogin(c echo.Context) error {
	if !a.loginLimiter.allow(c.RealIP()) {
		return c.String(http.StatusTooManyRequests, "Too many login attempts. Try again later.")
	}
	pass := c.FormValue("password")
	if subtle.ConstantTimeCompare([]byte(pass), []byte(a.Config.AdminPassword)) != 1 {
		return apiFailure(c, http.StatusUnauthorized, "invalid password")
	}
	if err := setAdminSession(c); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, apiResult{OK: true})
}

func handleAdminLogout(c echo.Context) error {
	if err := clearAdminSession(c); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, apiResult{OK: true})
}

// requireAdmin gates the admin API behind the session cookie.
func requireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if !IsAdmin(c) {
			return apiFailure(c, http.StatusUnauthorized, "authentication required")
		}
		return next(c)
	}
}

func (a *App) handleAdminListPosts(c echo.Context) error {
	return c.JSON(http.StatusOK, a.Service.All(c.Request().Context()))
}

func (a *App) handleAdminGetPost(c echo.Context) error {
	post, ok := a.Service.ByID(c.Request().Context(), c.Param("id"))
	if !ok {
		return apiFailure(c, http.StatusNotFound, "post not found")
	}
	return c.JSON(http.StatusOK, post)
}

func (a *App) handleAdminCreatePost(c echo.Context) error {
	form, err := bindForm(c)
	if err != nil {
		return apiFailure(c, http.StatusBadRequest, err.Error())
	}
	post, err := a.Service.Create(c.Request().Context(), form)
	if err != nil {
		a.logger.Error().Err(err).Msg("create post failed")
		return apiFailure(c, http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusCreated, post)
}

func (a *App) handleAdminUpdatePost(c echo.Context) error {
	form, err := bindForm(c)
	if err != nil {
		return apiFailure(c, http.StatusBadRequest, err.Error())
	}
	post, err := a.Service.Update(c.Request().Context(), c.Param("id"), form)
	if err != nil {
		var nf *blog.NotFoundError
		if errors.As(err, &nf) {
			return apiFailure(c, http.StatusNotFound, nf.Error())
		}
		a.logger.Error().Err(err).Str("id", c.Param("id")).Msg("update post failed")
		return apiFailure(c, http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, post)
}

func (a *App) handleAdminDeletePost(c echo.Context) error {
	a.Service.Delete(c.Request().Context(), c.Param("id"))
	return c.NoContent(http.StatusNoContent)
}

// bindForm decodes and validates editor form data. Validation lives here,
// in the presentation layer: the service trusts its caller.
func bindForm(c echo.Context) (blog.FormData, error) {
	var form blog.FormData
	if err := c.Bind(&form); err != nil {
		return blog.FormData{}, errors.New("malformed post body")
	}
	if strings.TrimSpace(form.Title) == "" {
		return blog.FormData{}, errors.New("title is required")
	}
	if isPlaceholderContent(form.Content) {
		return blog.FormData{}, errors.New("content is required")
	}
	if form.Status != blog.StatusPublished {
		form.Status = blog.StatusDraft
	}
	form.Tags = normalizeTags(form.Tags)
	return form, nil
}

// isPlaceholderContent catches both empty content and the empty-paragraph
// markup rich-text editors emit for an untouched document.
func isPlaceholderContent(content string) bool {
	switch strings.TrimSpace(content) {
	case "", "<p></p>", "<p><br></p>", "<p><br/></p>":
		return true
	}
	return false
}

// normalizeTags lowercases, trims, dedupes, and caps the tag list.
func normalizeTags(tags []string) []string {
	const maxTags = 10
	seen := make(map[string]struct{})
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
		if len(out) == maxTags {
			break
		}
	}
	return out
}
