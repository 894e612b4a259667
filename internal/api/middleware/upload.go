package middleware

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gabriel-vasile/mimetype"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/sixcities/rental-api/internal/api/metrics"
	"github.com/sixcities/rental-api/internal/api/response"
	"github.com/sixcities/rental-api/internal/core/ports"
)

const uploadedFileKey = "uploaded_file"

var allowedImageTypes = []string{"image/jpeg", "image/png", "image/webp"}

// UploadFile stores the multipart file in field and exposes its public path
// through UploadedFile. The type is taken from the content, not the filename.
func UploadFile(field string, maxBytes int64, store ports.FileStorage, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			fh, err := c.FormFile(field)
			if err != nil {
				metrics.UploadsTotal.WithLabelValues("missing").Inc()
				if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
					return response.Error(c, http.StatusBadRequest, fmt.Sprintf("File field %q is required", field))
				}
				return response.Error(c, http.StatusBadRequest, "Invalid multipart form")
			}
			if fh.Size > maxBytes {
				metrics.UploadsTotal.WithLabelValues("too_large").Inc()
				return response.Error(c, http.StatusBadRequest, fmt.Sprintf("File exceeds the %d byte limit", maxBytes))
			}

			path, status, msg, err := storeUpload(c, fh, store)
			if err != nil {
				metrics.UploadsTotal.WithLabelValues("error").Inc()
				log.Error().Err(err).Str("field", field).Msg("failed to store upload")
				return err
			}
			if status != 0 {
				metrics.UploadsTotal.WithLabelValues("unsupported_type").Inc()
				return response.Error(c, status, msg)
			}

			metrics.UploadsTotal.WithLabelValues("stored").Inc()
			c.Set(uploadedFileKey, path)
			return next(c)
		}
	}
}

// storeUpload sniffs and saves fh. A non-zero status is a client error.
func storeUpload(c echo.Context, fh *multipart.FileHeader, store ports.FileStorage) (string, int, string, error) {
	f, err := fh.Open()
	if err != nil {
		return "", 0, "", fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	mt, err := mimetype.DetectReader(f)
	if err != nil {
		return "", 0, "", fmt.Errorf("detect upload type: %w", err)
	}
	if !mimetype.EqualsAny(mt.String(), allowedImageTypes...) {
		return "", http.StatusBadRequest, fmt.Sprintf("Unsupported file type %s, allowed: jpeg, png, webp", mt.String()), nil
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return "", 0, "", fmt.Errorf("rewind upload: %w", err)
	}

	path, err := store.Save(c.Request().Context(), f, fh.Size, mt.String(), mt.Extension())
	if err != nil {
		return "", 0, "", err
	}
	return path, 0, "", nil
}

// UploadedFile returns the public path stored by UploadFile.
func UploadedFile(c echo.Context) string {
	p, _ := c.Get(uploadedFileKey).(string)
	return p
}
