// Package apperr defines the error kinds shared by services and handlers.
//
// Services return *apperr.Error values; the HTTP layer maps the Kind to a
// status code through response.Fail.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"regexp"

	"go.mongodb.org/mongo-driver/mongo"
)

// Kind classifies an error for the transport layer.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindNotFound
	KindForbidden
	KindInvalidState
	KindBusiness
	KindDuplicate
	KindUnauthenticated
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindForbidden:
		return "forbidden"
	case KindInvalidState:
		return "invalid_state"
	case KindBusiness:
		return "business"
	case KindDuplicate:
		return "duplicate"
	case KindUnauthenticated:
		return "unauthenticated"
	default:
		return "internal"
	}
}

// Status returns the HTTP status code for the kind.
func (k Kind) Status() int {
	switch k {
	case KindValidation, KindInvalidState, KindBusiness, KindDuplicate:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindForbidden:
		return http.StatusForbidden
	case KindUnauthenticated:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// Error is a classified application error.
type Error struct {
	Kind    Kind
	Message string
	// Field names the offending input for validation and duplicate errors.
	Field string
	// Fields carries per-field validation messages.
	Fields map[string]string
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches on Kind so errors.Is(err, apperr.NotFound("")) style checks work.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

func New(kind Kind, msg string) *Error { return &Error{Kind: kind, Message: msg} }

func Wrap(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Message: msg, Err: err}
}

func Validation(msg string) *Error   { return New(KindValidation, msg) }
func NotFound(msg string) *Error     { return New(KindNotFound, msg) }
func Forbidden(msg string) *Error    { return New(KindForbidden, msg) }
func InvalidState(msg string) *Error { return New(KindInvalidState, msg) }
func Business(msg string) *Error     { return New(KindBusiness, msg) }
func Unauthenticated(msg string) *Error {
	return New(KindUnauthenticated, msg)
}

// Duplicate reports a uniqueness violation on field.
func Duplicate(field, msg string) *Error {
	return &Error{Kind: KindDuplicate, Field: field, Message: msg}
}

// ValidationFields wraps a field → message map from the validator.
func ValidationFields(fields map[string]string) *Error {
	return &Error{Kind: KindValidation, Message: "Dữ liệu không hợp lệ", Fields: fields}
}

// KindOf returns the Kind of err, or KindInternal when err is unclassified.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// duplicateFieldMessages maps unique keys to user facing messages.
var duplicateFieldMessages = map[string]string{
	"email":       "Email đã được sử dụng",
	"orderNumber": "Mã đơn hàng đã tồn tại",
	"user":        "Bạn đã đánh giá sản phẩm này rồi",
	"order":       "Thứ tự banner đã tồn tại",
}

var dupKeyRe = regexp.MustCompile(`dup key: \{ ?([A-Za-z0-9_.]+):`)

// FromMongo classifies a driver error. mongo.ErrNoDocuments becomes
// NotFound(notFoundMsg) and duplicate key violations become Duplicate with a
// field specific message. Other errors are returned unchanged.
func FromMongo(err error, notFoundMsg string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return Wrap(KindNotFound, notFoundMsg, err)
	}
	if mongo.IsDuplicateKeyError(err) {
		field := duplicateField(err)
		msg, ok := duplicateFieldMessages[field]
		if !ok {
			msg = "Dữ liệu đã tồn tại"
		}
		return &Error{Kind: KindDuplicate, Field: field, Message: msg, Err: err}
	}
	return err
}

func duplicateField(err error) string {
	m := dupKeyRe.FindStringSubmatch(err.Error())
	if len(m) < 2 {
		return ""
	}
	return m[1]
}
