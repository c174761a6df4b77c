// Package auth implements credential and bearer-token authentication.
//
// A request is authenticated by the first Provider that accepts it; see
// AnyOf. Handlers combine a BearerProvider with a CredentialProvider so a
// valid token or valid body credentials are each sufficient on their own.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/qa-forum/server/src/server/data"
	"github.com/qa-forum/server/src/server/store"
)

// ErrUnauthenticated means no provider vouched for the request.
var ErrUnauthenticated = errors.New("unauthenticated")

// Request carries everything a provider may look at.
type Request struct {
	Token       string
	Credentials *data.Credentials
}

// Provider returns the username it authenticates the request as, or an
// error wrapping ErrUnauthenticated.
type Provider interface {
	Authenticate(ctx context.Context, req Request) (string, error)
}

// UserLookup is the subset of the user repository providers need.
type UserLookup interface {
	Get(ctx context.Context, username string) (data.User, error)
}

func lookup(ctx context.Context, users UserLookup, username string) (data.User, error) {
	u, err := users.Get(ctx, username)
	if errors.Is(err, store.ErrNotFound) {
		return data.User{}, ErrUnauthenticated
	}
	return u, err
}

// CredentialProvider checks a username and password against the stored hash.
type CredentialProvider struct {
	users UserLookup
}

func NewCredentialProvider(users UserLookup) *CredentialProvider {
	return &CredentialProvider{users: users}
}

func (p *CredentialProvider) Authenticate(ctx context.Context, req Request) (string, error) {
	c := req.Credentials
	if c == nil || c.Username == "" || !ValidPassword(c.Password) {
		return "", ErrUnauthenticated
	}
	u, err := lookup(ctx, p.users, c.Username)
	if err != nil {
		return "", err
	}
	ok, err := CheckPassword(u.Password, c.Password)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", ErrUnauthenticated
	}
	return u.Username, nil
}

// BearerProvider accepts a token issued by Tokens for a user whose password
// has not changed since.
type BearerProvider struct {
	tokens *Tokens
	users  UserLookup
}

func NewBearerProvider(tokens *Tokens, users UserLookup) *BearerProvider {
	return &BearerProvider{tokens: tokens, users: users}
}

func (p *BearerProvider) Authenticate(ctx context.Context, req Request) (string, error) {
	if req.Token == "" {
		return "", ErrUnauthenticated
	}
	claims, err := p.tokens.Verify(req.Token)
	if err != nil {
		slog.Debug("token rejected", "error", err)
		return "", err
	}
	u, err := lookup(ctx, p.users, claims.Username)
	if err != nil {
		return "", err
	}
	ok, err := CheckPassword(claims.Hash, u.Password)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrUnauthenticated, err)
	}
	if !ok {
		return "", ErrUnauthenticated
	}
	return u.Username, nil
}

type anyOf []Provider

// AnyOf tries each provider in order and returns the first success. Errors
// other than ErrUnauthenticated stop the search.
func AnyOf(providers ...Provider) Provider {
	return anyOf(providers)
}

func (ps anyOf) Authenticate(ctx context.Context, req Request) (string, error) {
	for _, p := range ps {
		username, err := p.Authenticate(ctx, req)
		if err == nil {
			return username, nil
		}
		if !errors.Is(err, ErrUnauthenticated) {
			return "", err
		}
	}
	return "", ErrUnauthenticated
}
