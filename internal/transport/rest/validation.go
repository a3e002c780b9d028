package rest

import (
	"encoding/json"
	"io"
	"net/http"
	"time"
)

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// decodeJSON parses the body into dst. An empty body is allowed; the
// caller validates required fields afterwards.
func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil && err != io.EOF {
		return &ValidationError{Message: "invalid JSON"}
	}
	return nil
}

// queryStringPtr returns the query param as a pointer, nil when absent
// or empty.
func queryStringPtr(r *http.Request, key string) *string {
	v := r.URL.Query().Get(key)
	if v == "" {
		return nil
	}
	return &v
}

// queryDatePtr parses a YYYY-MM-DD query param.
func queryDatePtr(r *http.Request, key string) (*time.Time, error) {
	v := r.URL.Query().Get(key)
	if v == "" {
		return nil, nil
	}
	parsed, err := time.Parse("2006-01-02", v)
	if err != nil {
		return nil, &ValidationError{Field: key, Message: key + " must be YYYY-MM-DD"}
	}
	return &parsed, nil
}

// parseDate parses a YYYY-MM-DD body field.
func parseDate(field, v string) (time.Time, error) {
	parsed, err := time.Parse("2006-01-02", v)
	if err != nil {
		return time.Time{}, &ValidationError{Field: field, Message: field + " must be YYYY-MM-DD"}
	}
	return parsed, nil
}

// parseDatePtr is parseDate for optional fields.
func parseDatePtr(field, v string) (*time.Time, error) {
	if v == "" {
		return nil, nil
	}
	parsed, err := parseDate(field, v)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}
