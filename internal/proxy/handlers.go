package proxy

import (
	"fmt"
	"github.com/denismitr/imageserver/internal/media"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// files are immutable once written
const imageCacheControl = "public, max-age=31536000, immutable"

func (s *Server) healthz(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}

func (s *Server) imageHandler(variant media.Variant) echo.HandlerFunc {
	return func(c echo.Context) error {
		filename, err := url.PathUnescape(c.Param("image_filename"))
		if err != nil {
			return errors.Wrapf(media.ErrInvalidIdentifier, "filename is not a valid path segment: %v", err)
		}
		if filename == "" {
			return ErrMissingFilename
		}

		target, err := s.imageProxy.Prepare(filename, variant)
		if err != nil {
			return err
		}

		obj, err := s.imageProxy.Open(c.Request().Context(), target)
		if err != nil {
			return err
		}
		defer obj.Body.Close()

		// only an existing file may be reported as not modified
		if etagMatches(c.Request().Header.Get("If-None-Match"), target.Location.ETag()) {
			prepareCacheHeaders(c.Response().Header(), target)
			return c.NoContent(http.StatusNotModified)
		}

		h := c.Response().Header()
		prepareImageHeaders(h, target)
		if obj.Size >= 0 {
			h.Set(echo.HeaderContentLength, strconv.FormatInt(obj.Size, 10))
		}
		if !obj.ModTime.IsZero() {
			h.Set(echo.HeaderLastModified, obj.ModTime.UTC().Format(http.TimeFormat))
		}

		if c.Request().Method == http.MethodHead {
			h.Set(echo.HeaderContentType, target.ContentType())
			return c.NoContent(http.StatusOK)
		}

		return c.Stream(http.StatusOK, target.ContentType(), obj.Body)
	}
}

func prepareImageHeaders(h http.Header, target *Target) {
	// Enable CORS for 3rd party applications
	h.Set(echo.HeaderAccessControlAllowOrigin, "*")

	// Add a Content-Security-Policy to prevent stored-XSS attacks via SVG files
	h.Set(echo.HeaderContentSecurityPolicy, "script-src 'none'")

	// Disable Content-Type sniffing
	h.Set(echo.HeaderXContentTypeOptions, "nosniff")

	h.Set(echo.HeaderContentDisposition, fmt.Sprintf("inline; filename=%s", target.Identifier.Filename()))

	prepareCacheHeaders(h, target)
}

func prepareCacheHeaders(h http.Header, target *Target) {
	h.Set("Cache-Control", imageCacheControl)
	h.Set("ETag", target.Location.ETag())
}

func etagMatches(ifNoneMatch, etag string) bool {
	if ifNoneMatch == "" {
		return false
	}

	for _, candidate := range strings.Split(ifNoneMatch, ",") {
		if strings.TrimPrefix(strings.TrimSpace(candidate), "W/") == etag {
			return true
		}
	}

	return false
}
