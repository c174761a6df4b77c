package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/qa-forum/server/src/server/auth"
	"github.com/qa-forum/server/src/server/data"
	"github.com/qa-forum/server/src/server/middleware"
	"github.com/qa-forum/server/src/server/repository"
	"github.com/qa-forum/server/src/server/store"
)

type QuestionHandler struct {
	Questions *repository.Questions
	Answers   *repository.Answers
	Auth      auth.Provider
}

// Post handles POST /question. The asker becomes the owner.
func (h *QuestionHandler) Post(w http.ResponseWriter, r *http.Request) {
	var req data.QuestionRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		malformedBody(w, err)
		return
	}
	if req.Question == nil || req.Question.Title == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Question and its title cannot be empty.")
		return
	}

	username, err := h.Auth.Authenticate(r.Context(), authRequest(r, req.UserDetails))
	if errors.Is(err, auth.ErrUnauthenticated) {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid credentials. Cannot ask question.")
		return
	}
	if err != nil {
		writeError(w, r, err)
		return
	}

	q, err := h.Questions.Add(r.Context(), data.Question{
		Title:    req.Question.Title,
		Body:     req.Question.Body,
		Username: username,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, data.PostedResponse{
		Message:    "Question posted successfully.",
		QuestionID: q.ID,
	})
}

// ListMine handles GET /question: every question of the caller with its answers.
func (h *QuestionHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	var creds data.Credentials
	// A bearer token alone is enough, so an empty body is fine.
	if err := middleware.ParseJSONBody(r, &creds); err != nil && !errors.Is(err, io.EOF) {
		malformedBody(w, err)
		return
	}

	username, err := h.Auth.Authenticate(r.Context(), authRequest(r, creds))
	if errors.Is(err, auth.ErrUnauthenticated) {
		middleware.ErrorResponse(w, http.StatusUnauthorized,
			"Could not authenticate user. Enter username and password in request body.")
		return
	}
	if err != nil {
		writeError(w, r, err)
		return
	}

	questions, err := h.Questions.ListByUsername(r.Context(), username)
	if err != nil {
		writeError(w, r, err)
		return
	}
	threads := make([]data.Thread, 0, len(questions))
	for _, q := range questions {
		answers, err := h.Answers.ListForQuestion(r.Context(), q.ID)
		if err != nil {
			writeError(w, r, err)
			return
		}
		threads = append(threads, data.Thread{Question: q, Answers: answers})
	}
	middleware.JSONResponse(w, http.StatusOK, threads)
}

// Get handles GET /question/{qID}.
func (h *QuestionHandler) Get(w http.ResponseWriter, r *http.Request) {
	raw := chi.URLParam(r, "qID")
	notFound := func() {
		middleware.ErrorResponse(w, http.StatusNotFound, fmt.Sprintf("Question having ID %s was not found.", raw))
	}

	id, ok := questionID(raw)
	if !ok {
		notFound()
		return
	}
	q, err := h.Questions.Get(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		notFound()
		return
	}
	if err != nil {
		writeError(w, r, err)
		return
	}
	answers, err := h.Answers.ListForQuestion(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, data.Thread{Question: q, Answers: answers})
}
