package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/qa-forum/server/src/server/middleware"
	"github.com/qa-forum/server/src/server/storage"
	"github.com/qa-forum/server/src/server/store"
)

type HealthHandler struct {
	Store   interface{} // may implement store.Pinger
	Storage storage.ObjectStorage
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	checks := make(map[string]string)
	allOK := true

	if pinger, ok := h.Store.(store.Pinger); ok {
		if err := pinger.Ping(ctx); err != nil {
			checks["store"] = "error: " + err.Error()
			allOK = false
		} else {
			checks["store"] = "ok"
		}
	}

	if h.Storage != nil {
		if err := h.Storage.Ping(ctx); err != nil {
			checks["storage"] = "error: " + err.Error()
			allOK = false
		} else {
			checks["storage"] = "ok"
		}
	}

	resp := healthResponse{Status: "ok", Checks: checks}
	status := http.StatusOK
	if !allOK {
		resp.Status = "degraded"
		status = http.StatusServiceUnavailable
	}
	middleware.JSONResponse(w, status, resp)
}
