package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/qa-forum/server/src/server/auth"
	"github.com/qa-forum/server/src/server/data"
	"github.com/qa-forum/server/src/server/middleware"
	"github.com/qa-forum/server/src/server/repository"
)

type AccountHandler struct {
	Users       *repository.Users
	Tokens      *auth.Tokens
	Credentials auth.Provider
	BcryptCost  int
}

// Register handles POST /register.
func (h *AccountHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req data.RegisterRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		malformedBody(w, err)
		return
	}

	if len(req.Password) > auth.MaxPasswordLength {
		middleware.ErrorResponse(w, http.StatusUnauthorized,
			fmt.Sprintf("password cannot be longer than %d bytes.", auth.MaxPasswordLength))
		return
	}
	if req.Username == "" || !auth.ValidPassword(req.Password) {
		middleware.ErrorResponse(w, http.StatusUnauthorized,
			"username and password longer than 4 characters are required.")
		return
	}
	if !auth.ValidEmail(req.Username) {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "username is Invalid email.")
		return
	}

	hash, err := auth.HashPassword(req.Password, h.BcryptCost)
	if err != nil {
		writeError(w, r, err)
		return
	}
	user := data.NewUser(req.Username, hash, req.RegistrationName)
	if err := h.Users.Create(r.Context(), user); err != nil {
		writeError(w, r, err)
		return
	}

	slog.Info("user registered", "username", user.Username)
	middleware.JSONResponse(w, http.StatusCreated, data.RegisterResponse{
		Message:          "User Registered Successfully",
		RegistrationName: user.RegistrationName,
	})
}

// Login handles POST /login and issues a session token.
func (h *AccountHandler) Login(w http.ResponseWriter, r *http.Request) {
	var creds data.Credentials
	if err := middleware.ParseJSONBody(r, &creds); err != nil {
		malformedBody(w, err)
		return
	}

	invalid := func() {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Sorry invalid credentials")
	}
	if creds.Username == "" || !auth.ValidPassword(creds.Password) || !auth.ValidEmail(creds.Username) {
		invalid()
		return
	}

	username, err := h.Credentials.Authenticate(r.Context(), auth.Request{Credentials: &creds})
	if errors.Is(err, auth.ErrUnauthenticated) {
		invalid()
		return
	}
	if err != nil {
		writeError(w, r, err)
		return
	}

	user, err := h.Users.Get(r.Context(), username)
	if err != nil {
		writeError(w, r, err)
		return
	}
	token, err := h.Tokens.Issue(user)
	if err != nil {
		writeError(w, r, err)
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, data.LoginResponse{
		Message: "user logged in successfully",
		Token:   token,
	})
}
