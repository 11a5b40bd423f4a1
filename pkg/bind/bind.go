// Package bind decodes and validates an HTTP request body into a struct.
package bind

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/nomfood/storefront/config"
	"github.com/nomfood/storefront/pkg/apperr"
	"github.com/nomfood/storefront/pkg/validate"
)

// ErrEmptyBody is returned when the request carries no JSON value.
var ErrEmptyBody = errors.New("request body is empty")

// maxBodyBytes returns the configured request body size limit (default 10 MB).
func maxBodyBytes() int64 {
	n, err := strconv.ParseInt(config.Get("MAX_BODY_BYTES", "10485760"), 10, 64)
	if err != nil || n <= 0 {
		return 10 << 20
	}
	return n
}

// JSON decodes r.Body as JSON into dest and runs validation.
// The body is capped at MAX_BODY_BYTES to prevent memory exhaustion.
// Returns (errs, nil) when there are validation failures.
// Returns (nil, err) when the body is malformed JSON or too large.
func JSON(r *http.Request, dest interface{}) (errs map[string]string, err error) {
	r.Body = http.MaxBytesReader(nil, r.Body, maxBodyBytes())

	dec := json.NewDecoder(r.Body)
	if err = dec.Decode(dest); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr):
			return nil, fmt.Errorf("request body too large (max %d bytes)", maxErr.Limit)
		case errors.Is(err, io.EOF):
			return nil, ErrEmptyBody
		}
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}

	errs = validate.Struct(dest)
	if validate.HasErrors(errs) {
		return errs, nil
	}

	return nil, nil
}

// Decode is JSON folded into a single classified error, for handlers that
// pass everything through response.Fail.
func Decode(r *http.Request, dest interface{}) error {
	errs, err := JSON(r, dest)
	if err != nil {
		return apperr.Validation(err.Error())
	}
	if errs != nil {
		return apperr.ValidationFields(errs)
	}
	return nil
}

// DecodeOptional is Decode for bodies a client may leave out. A missing or
// empty body, chunked or not, leaves dest untouched and returns nil.
func DecodeOptional(r *http.Request, dest interface{}) error {
	if r.Body == nil || r.Body == http.NoBody {
		return nil
	}
	errs, err := JSON(r, dest)
	switch {
	case errors.Is(err, ErrEmptyBody):
		return nil
	case err != nil:
		return apperr.Validation(err.Error())
	case errs != nil:
		return apperr.ValidationFields(errs)
	}
	return nil
}
