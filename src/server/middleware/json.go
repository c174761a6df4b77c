package middleware

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/qa-forum/server/src/server/data"
)

// JSONResponse writes v as a JSON response with the given status.
func JSONResponse(w http.ResponseWriter, statusCode int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode JSON response", "error", err)
	}
}

// ErrorResponse writes {"message": message}.
func ErrorResponse(w http.ResponseWriter, statusCode int, message string) {
	JSONResponse(w, statusCode, data.MessageResponse{Message: message})
}

// ParseJSONBody decodes the request body into v, accepting the aliased key
// spellings data.Decode understands.
func ParseJSONBody(r *http.Request, v interface{}) error {
	defer r.Body.Close()
	return data.Decode(r.Body, v)
}
