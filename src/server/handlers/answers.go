package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/qa-forum/server/src/server/auth"
	"github.com/qa-forum/server/src/server/data"
	"github.com/qa-forum/server/src/server/middleware"
	"github.com/qa-forum/server/src/server/repository"
	"github.com/qa-forum/server/src/server/store"
)

// AnswerHandler serves /question/{qID}/answer. POST creates the caller's
// answer, PUT replaces its text.
type AnswerHandler struct {
	Questions *repository.Questions
	Answers   *repository.Answers
	Auth      auth.Provider
}

// target decodes and checks the request up to authentication. It writes the
// response itself and returns ok=false when the request cannot proceed.
func (h *AnswerHandler) target(w http.ResponseWriter, r *http.Request) (data.AnswerRequest, int, bool) {
	var req data.AnswerRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		malformedBody(w, err)
		return req, 0, false
	}
	if req.Answer == nil || req.Answer.Text == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Answer text and question ID cannot be empty.")
		return req, 0, false
	}

	id, ok := questionID(chi.URLParam(r, "qID"))
	if !ok {
		middleware.ErrorResponse(w, http.StatusNotFound, "Question does not exist.")
		return req, 0, false
	}
	if _, err := h.Questions.Get(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			middleware.ErrorResponse(w, http.StatusNotFound, "Question does not exist.")
		} else {
			writeError(w, r, err)
		}
		return req, 0, false
	}
	return req, id, true
}

func (h *AnswerHandler) Post(w http.ResponseWriter, r *http.Request) {
	req, id, ok := h.target(w, r)
	if !ok {
		return
	}

	username, err := h.Auth.Authenticate(r.Context(), authRequest(r, req.UserDetails))
	if errors.Is(err, auth.ErrUnauthenticated) {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid credentials. Cannot post answer.")
		return
	}
	if err != nil {
		writeError(w, r, err)
		return
	}

	answer := data.Answer{Text: req.Answer.Text, QuestionID: id, Username: username}
	if err := h.Answers.Create(r.Context(), answer); err != nil {
		writeError(w, r, err)
		return
	}
	middleware.JSONResponse(w, http.StatusCreated, data.PostedResponse{
		Message:    "Answer posted successfully.",
		QuestionID: id,
	})
}

// Put requires the caller to already own an answer on the question.
func (h *AnswerHandler) Put(w http.ResponseWriter, r *http.Request) {
	req, id, ok := h.target(w, r)
	if !ok {
		return
	}

	forbidden := func() {
		middleware.ErrorResponse(w, http.StatusForbidden, "Invalid credentials. Cannot update answer.")
	}
	username, err := h.Auth.Authenticate(r.Context(), authRequest(r, req.UserDetails))
	if errors.Is(err, auth.ErrUnauthenticated) {
		forbidden()
		return
	}
	if err != nil {
		writeError(w, r, err)
		return
	}

	if _, err := h.Answers.Get(r.Context(), id, username); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			forbidden()
		} else {
			writeError(w, r, err)
		}
		return
	}

	answer := data.Answer{Text: req.Answer.Text, QuestionID: id, Username: username}
	if err := h.Answers.Update(r.Context(), answer); err != nil {
		writeError(w, r, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, data.PostedResponse{
		Message:    "Answer updated successfully.",
		QuestionID: id,
	})
}
