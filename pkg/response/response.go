package response

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/nomfood/storefront/config"
	"github.com/nomfood/storefront/pkg/apperr"
	"github.com/nomfood/storefront/pkg/logger"
	"github.com/nomfood/storefront/pkg/paginate"
)

type envelope struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Errors  interface{} `json:"errors,omitempty"`
	Detail  string      `json:"error,omitempty"`
}

func write(w http.ResponseWriter, status int, body envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body) //nolint:errcheck
}

// Success sends a 200 JSON response with data.
func Success(w http.ResponseWriter, data interface{}) {
	write(w, http.StatusOK, envelope{Success: true, Data: data})
}

// Message sends a 200 response with a message and optional data.
func Message(w http.ResponseWriter, message string, data interface{}) {
	write(w, http.StatusOK, envelope{Success: true, Message: message, Data: data})
}

// Created sends a 201 JSON response with data.
func Created(w http.ResponseWriter, message string, data interface{}) {
	write(w, http.StatusCreated, envelope{Success: true, Message: message, Data: data})
}

// Error sends a JSON error response.
func Error(w http.ResponseWriter, status int, message string) {
	write(w, status, envelope{Success: false, Message: message})
}

// ValidationError sends a 400 with a field-level error map.
func ValidationError(w http.ResponseWriter, errs map[string]string) {
	write(w, http.StatusBadRequest, envelope{
		Success: false,
		Message: "Dữ liệu không hợp lệ",
		Errors:  errs,
	})
}

// Paginated sends data as {<key>: items, pagination: meta, ...extra}.
func Paginated(w http.ResponseWriter, key string, items interface{}, meta paginate.Meta, extra map[string]interface{}) {
	body := map[string]interface{}{
		key:          items,
		"pagination": meta,
	}
	for k, v := range extra {
		body[k] = v
	}
	write(w, http.StatusOK, envelope{Success: true, Data: body})
}

// Fail maps err to a status code through its apperr kind. Unclassified
// errors become a generic 500; the underlying detail is only exposed in
// development.
func Fail(w http.ResponseWriter, r *http.Request, err error) {
	var ae *apperr.Error
	if errors.As(err, &ae) {
		if ae.Kind == apperr.KindValidation && len(ae.Fields) > 0 {
			write(w, http.StatusBadRequest, envelope{Success: false, Message: ae.Message, Errors: ae.Fields})
			return
		}
		if ae.Kind != apperr.KindInternal {
			Error(w, ae.Kind.Status(), ae.Message)
			return
		}
	}

	logger.WithCtx(r.Context()).Error("request failed", "path", r.URL.Path, "error", err)
	body := envelope{Success: false, Message: "Lỗi máy chủ"}
	if config.IsDevelopment() {
		body.Detail = err.Error()
	}
	write(w, http.StatusInternalServerError, body)
}

// Unauthorized sends a 401.
func Unauthorized(w http.ResponseWriter, message string) {
	if message == "" {
		message = "Không có quyền truy cập, vui lòng đăng nhập"
	}
	Error(w, http.StatusUnauthorized, message)
}

// Forbidden sends a 403.
func Forbidden(w http.ResponseWriter, message string) {
	if message == "" {
		message = "Bạn không có quyền thực hiện thao tác này"
	}
	Error(w, http.StatusForbidden, message)
}

// NotFound sends a 404.
func NotFound(w http.ResponseWriter, message string) {
	if message == "" {
		message = "Không tìm thấy"
	}
	Error(w, http.StatusNotFound, message)
}
