/*
Package req provides helpers for HTTP request parsing and data binding.

It binds JSON API bodies and URL-encoded form posts from the server-rendered pages,
enforcing content type and body size before any business logic runs.
*/
package req

import (
	"encoding/json"
	"errors"
	"mime"
	"net/http"
	"strings"

	"rubiechat/internal/pkg/errs"
)

const (
	// MaxJSONBodySize bounds API request bodies (64 KB).
	MaxJSONBodySize int64 = 64 << 10

	// MaxFormBodySize bounds URL-encoded form posts (16 KB).
	MaxFormBodySize int64 = 16 << 10
)

// BindJSON decodes the request body into dst, rejecting unknown fields and trailing data.
func BindJSON(w http.ResponseWriter, r *http.Request, dst any) *errs.CustomError {
	contentType := r.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "application/json") {
		return errs.NewError(errs.ErrUnsupportedMediaType)
	}

	r.Body = http.MaxBytesReader(w, r.Body, MaxJSONBodySize)

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return errs.NewError(errs.ErrRequestEntityTooLarge)
		}
		return errs.NewError(errs.ErrInvalidJSONFormat)
	}

	if decoder.More() {
		return errs.NewError(errs.ErrExtraContentInBody)
	}

	return nil
}

// ParseForm parses an application/x-www-form-urlencoded body into r.PostForm.
func ParseForm(w http.ResponseWriter, r *http.Request) *errs.CustomError {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil || mediaType != "application/x-www-form-urlencoded" {
		return errs.NewError(errs.ErrUnsupportedMediaType)
	}

	r.Body = http.MaxBytesReader(w, r.Body, MaxFormBodySize)

	if err := r.ParseForm(); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return errs.NewError(errs.ErrRequestEntityTooLarge)
		}
		return errs.NewError(errs.ErrFormParseFailed)
	}

	return nil
}
