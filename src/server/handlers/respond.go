package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/qa-forum/server/src/server/auth"
	"github.com/qa-forum/server/src/server/data"
	"github.com/qa-forum/server/src/server/middleware"
	"github.com/qa-forum/server/src/server/store"
)

// statusFor maps a repository or auth error onto an HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, store.ErrInvalid):
		return http.StatusBadRequest
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, store.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, auth.ErrUnauthenticated):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// writeError responds with the status err maps to and its message.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		slog.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	}
	msg := err.Error()
	var se *store.Error
	if errors.As(err, &se) {
		msg = se.Msg
	}
	middleware.ErrorResponse(w, status, msg)
}

func malformedBody(w http.ResponseWriter, err error) {
	middleware.ErrorResponse(w, http.StatusBadRequest, "Malformed request body: "+err.Error())
}

// questionID parses the qID URL parameter. Ids are positive integers.
func questionID(raw string) (int, bool) {
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func authRequest(r *http.Request, creds data.Credentials) auth.Request {
	return auth.Request{Token: middleware.BearerToken(r), Credentials: &creds}
}
