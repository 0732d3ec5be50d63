package domain

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	ErrUnauthenticated       = errors.New("not authenticated")
	ErrForbidden             = errors.New("access forbidden")
	ErrInvalidCredentials    = errors.New("invalid credentials")
	ErrNoCredential          = errors.New("no stored credential")
	ErrMalformedProfile      = errors.New("malformed profile")
	ErrPaymentMethodNotFound = errors.New("payment method not found")
	ErrDuplicateSubmission   = errors.New("duplicate submission")
	ErrBackendUnavailable    = errors.New("backend unavailable")
)

// BackendError is a non-2xx answer from a backend collaborator. The backend
// error body is {code, error, message}; Message is what the operator sees.
type BackendError struct {
	Status  int
	Code    string
	Message string
}

func (e *BackendError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if text := http.StatusText(e.Status); text != "" {
		return strings.ToLower(text)
	}
	return fmt.Sprintf("backend responded with status %d", e.Status)
}

// Is lets callers test backend failures against the domain sentinels.
func (e *BackendError) Is(target error) bool {
	switch target {
	case ErrUnauthenticated:
		return e.Status == http.StatusUnauthorized
	case ErrForbidden:
		return e.Status == http.StatusForbidden
	case ErrPaymentMethodNotFound:
		return e.Status == http.StatusNotFound
	}
	return false
}

// FieldError addresses one violated rule to a form field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError blocks a submission until every field error is fixed.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Message)
	}
	return strings.Join(msgs, "; ")
}
