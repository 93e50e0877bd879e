package response

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"fitbattle-service/internal/apperr"

	"github.com/stretchr/testify/assert"
)

func TestStatusFor(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{apperr.Validation("bad %s", "date"), http.StatusBadRequest},
		{apperr.New(apperr.KindUnauthorized, "x"), http.StatusUnauthorized},
		{apperr.New(apperr.KindForbidden, "x"), http.StatusForbidden},
		{fmt.Errorf("load: %w", apperr.New(apperr.KindNotFound, "x")), http.StatusNotFound},
		{apperr.New(apperr.KindConflict, "x"), http.StatusConflict},
		{apperr.New(apperr.KindUnavailable, "x"), http.StatusServiceUnavailable},
		{errors.New("db down"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, StatusFor(apperr.KindOf(tc.err)), tc.err.Error())
	}
}

func TestMessage(t *testing.T) {
	assert.Equal(t, "rate limit exceeded", Message(http.StatusTooManyRequests))
	assert.Equal(t, http.StatusText(http.StatusTeapot), Message(http.StatusTeapot))
}
