package response

import (
	"net/http"

	"fitbattle-service/internal/apperr"
)

// status per error kind
var statusByKind = map[apperr.Kind]int{
	apperr.KindValidation:   http.StatusBadRequest,
	apperr.KindUnauthorized: http.StatusUnauthorized,
	apperr.KindForbidden:    http.StatusForbidden,
	apperr.KindNotFound:     http.StatusNotFound,
	apperr.KindConflict:     http.StatusConflict,
	apperr.KindUnavailable:  http.StatusServiceUnavailable,
	apperr.KindInternal:     http.StatusInternalServerError,
}

// message
var msg = map[int]string{
	http.StatusBadRequest:          "invalid input data",
	http.StatusUnauthorized:        "unauthorized",
	http.StatusForbidden:           "forbidden",
	http.StatusNotFound:            "not found",
	http.StatusConflict:            "conflict",
	http.StatusTooManyRequests:     "rate limit exceeded",
	http.StatusServiceUnavailable:  "service unavailable",
	http.StatusInternalServerError: "internal server error",
}

// StatusFor maps an error kind to its HTTP status code.
func StatusFor(kind apperr.Kind) int {
	if status, ok := statusByKind[kind]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// Message is the generic client message for status.
func Message(status int) string {
	if m, ok := msg[status]; ok {
		return m
	}
	return http.StatusText(status)
}
