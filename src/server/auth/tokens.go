package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/qa-forum/server/src/server/data"
)

// Claims binds a token to a user and to that user's current password hash.
// Hash is a bcrypt hash of the stored password hash, so changing the
// password invalidates every token issued before.
type Claims struct {
	Username string `json:"username"`
	Hash     string `json:"hash"`
	jwt.RegisteredClaims
}

// Tokens issues and verifies HS256 session tokens.
type Tokens struct {
	secret []byte
	ttl    time.Duration
	cost   int
	now    func() time.Time
}

func NewTokens(secret string, ttl time.Duration, bcryptCost int) *Tokens {
	return &Tokens{secret: []byte(secret), ttl: ttl, cost: bcryptCost, now: time.Now}
}

// WithClock replaces the time source used for issuing and verifying.
func (t *Tokens) WithClock(now func() time.Time) *Tokens {
	t.now = now
	return t
}

// Issue signs a token for u, whose Password must hold the stored hash.
func (t *Tokens) Issue(u data.User) (string, error) {
	hash, err := HashPassword(u.Password, t.cost)
	if err != nil {
		return "", err
	}
	now := t.now()
	claims := Claims{
		Username: u.Username,
		Hash:     hash,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.Username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
			ID:        uuid.NewString(),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}

// Verify checks signature, algorithm and expiry and returns the claims.
// It does not consult the user store.
func (t *Tokens) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return t.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnauthenticated, err)
	}
	if !token.Valid {
		return nil, ErrUnauthenticated
	}
	if claims.Username == "" || claims.Subject != claims.Username || claims.Hash == "" {
		return nil, fmt.Errorf("%w: %w", ErrUnauthenticated, errors.New("incomplete claims"))
	}
	return claims, nil
}
