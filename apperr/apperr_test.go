package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	assert.Equal(t, NotFound, KindOf(New(NotFound, "missing")))
	assert.Equal(t, Internal, KindOf(errors.New("plain")))

	// Classification survives wrapping.
	wrapped := fmt.Errorf("loading order: %w", New(Forbidden, "nope"))
	assert.Equal(t, Forbidden, KindOf(wrapped))
}

func TestFieldsOf(t *testing.T) {
	err := New(Validation, "invalid input").WithFields(map[string]string{"email": "must be valid"})
	assert.Equal(t, "must be valid", FieldsOf(err)["email"])
	assert.Nil(t, FieldsOf(errors.New("plain")))
}

func TestHTTPStatus(t *testing.T) {
	cases := []struct {
		kind Kind
		want int
	}{
		{Validation, http.StatusBadRequest},
		{InsufficientStock, http.StatusBadRequest},
		{EmptyCart, http.StatusBadRequest},
		{InvalidTransition, http.StatusBadRequest},
		{NotFound, http.StatusNotFound},
		{Forbidden, http.StatusForbidden},
		{Unauthenticated, http.StatusUnauthorized},
		{Internal, http.StatusInternalServerError},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, HTTPStatus(New(c.kind, "x")), c.kind.String())
	}
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(errors.New("plain")))
}
