package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a domain error so the HTTP layer can pick a status code
// without inspecting message text.
type Kind int

const (
	Internal Kind = iota
	Validation
	NotFound
	Forbidden
	Unauthenticated
	InsufficientStock
	EmptyCart
	InvalidTransition
)

func (k Kind) String() string {
	switch k {
	case Validation:
		return "validation"
	case NotFound:
		return "not_found"
	case Forbidden:
		return "forbidden"
	case Unauthenticated:
		return "unauthenticated"
	case InsufficientStock:
		return "insufficient_stock"
	case EmptyCart:
		return "empty_cart"
	case InvalidTransition:
		return "invalid_transition"
	default:
		return "internal"
	}
}

type Error struct {
	Kind    Kind
	Message string
	// Fields carries per-field reasons for validation failures.
	Fields map[string]string
}

func (e *Error) Error() string { return e.Message }

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// WithFields attaches per-field validation reasons.
func (e *Error) WithFields(fields map[string]string) *Error {
	e.Fields = fields
	return e
}

// KindOf returns the Kind of err, or Internal for anything unclassified.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return Internal
}

// FieldsOf returns validation field reasons if err carries any.
func FieldsOf(err error) map[string]string {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Fields
	}
	return nil
}

// HTTPStatus maps an error to the response code of the error taxonomy:
// validation and domain-rule violations are 400, missing resources 404,
// authorization failures 403/401, everything else 500.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case Validation, InsufficientStock, EmptyCart, InvalidTransition:
		return http.StatusBadRequest
	case NotFound:
		return http.StatusNotFound
	case Forbidden:
		return http.StatusForbidden
	case Unauthenticated:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}
