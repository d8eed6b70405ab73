package inkwell

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/labstack/echo/v4"
	"golang.org/x/image/draw"

	"github.com/inkwell-engine/inkwell/blog"
)

const (
	maxImageWidth = 1200
	jpegQuality   = 80
	maxUploadSize = 10 << 20 // 10MB
)

// processImage decodes an uploaded cover image, downscales it to
// maxImageWidth if wider, and re-encodes it as JPEG.
func processImage(src io.Reader) ([]byte, error) {
	img, _, err := image.Decode(src)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w > maxImageWidth {
		newH := h * maxImageWidth / w
		dst := image.NewRGBA(image.Rect(0, 0, maxImageWidth, newH))
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
		img = dst
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}

// coverFilename derives a stable, unique filename for an upload: a slug of
// the original name plus the usual random suffix.
func coverFilename(originalName string) string {
	base := strings.TrimSuffix(originalName, filepath.Ext(originalName))
	return blog.GenerateSlug(base) + ".jpg"
}

// handleImageUpload accepts a cover image, processes it, writes it into the
// uploads directory, and returns the URL the editor should place in the
// post's coverImage field.
func (a *App) handleImageUpload(c echo.Context) error {
	file, err := c.FormFile("image")
	if err != nil {
		return apiFailure(c, http.StatusBadRequest, "no image file provided")
	}
	if file.Size > maxUploadSize {
		return apiFailure(c, http.StatusBadRequest, "file too large (max 10MB)")
	}

	src, err := file.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	data, err := processImage(src)
	if err != nil {
		return apiFailure(c, http.StatusBadRequest, "invalid image: "+err.Error())
	}

	if err := os.MkdirAll(a.Config.UploadsDir, 0o755); err != nil {
		return fmt.Errorf("create uploads dir: %w", err)
	}
	name := coverFilename(file.Filename)
	if err := os.WriteFile(filepath.Join(a.Config.UploadsDir, name), data, 0o644); err != nil {
		return fmt.Errorf("write image: %w", err)
	}

	return c.JSON(http.StatusCreated, map[string]string{
		"url": "/public/uploads/" + name,
	})
}

func (a *App) handleImageDelete(c echo.Context) error {
	filename := filepath.Base(c.Param("filename"))
	if filename == "" || filename == "." {
		return apiFailure(c, http.StatusBadRequest, "filename required")
	}
	// Best-effort: a file that is already gone is fine.
	_ = os.Remove(filepath.Join(a.Config.UploadsDir, filename))
	return c.NoContent(http.StatusNoContent)
}
