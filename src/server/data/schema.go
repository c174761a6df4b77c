package data

import (
	"encoding/json"
	"strings"
)

// ── Stored entities ──

// User is keyed by Username (an email address). Password holds the bcrypt
// hash once the user has been registered.
type User struct {
	Username         string `json:"username"`
	Password         string `json:"password"`
	RegistrationName string `json:"registration-name"`
}

// NewUser builds a User, defaulting the registration name to the local part
// of the username.
func NewUser(username, password, registrationName string) User {
	if registrationName == "" {
		registrationName = DefaultRegistrationName(username)
	}
	return User{Username: username, Password: password, RegistrationName: registrationName}
}

// DefaultRegistrationName returns the part of an email address before "@".
func DefaultRegistrationName(username string) string {
	local, _, _ := strings.Cut(username, "@")
	return local
}

func (u *User) UnmarshalJSON(b []byte) error {
	type plain User
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	*u = NewUser(p.Username, p.Password, p.RegistrationName)
	return nil
}

type Question struct {
	ID       int    `json:"question-id"`
	Title    string `json:"title"`
	Body     string `json:"body"`
	Username string `json:"username"`
}

// Answer is keyed by (QuestionID, Username): one answer per user per question.
type Answer struct {
	Text       string `json:"answer"`
	QuestionID int    `json:"question-id"`
	Username   string `json:"username"`
}

// ── Requests ──

type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	Username         string `json:"username"`
	Password         string `json:"password"`
	RegistrationName string `json:"registration-name"`
}

type QuestionInput struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

type QuestionRequest struct {
	UserDetails Credentials    `json:"user-details"`
	Question    *QuestionInput `json:"question"`
}

type AnswerInput struct {
	Text string `json:"answer"`
}

type AnswerRequest struct {
	UserDetails Credentials  `json:"user-details"`
	Answer      *AnswerInput `json:"answer"`
}

// ── Responses ──

type MessageResponse struct {
	Message string `json:"message"`
}

type RegisterResponse struct {
	Message          string `json:"message"`
	RegistrationName string `json:"registration-name"`
}

type LoginResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
}

// PostedResponse acknowledges a created or updated question or answer.
type PostedResponse struct {
	Message    string `json:"message"`
	QuestionID int    `json:"question-id"`
}

// Thread is a question together with every answer posted to it.
type Thread struct {
	Question Question `json:"question"`
	Answers  []Answer `json:"answers"`
}
