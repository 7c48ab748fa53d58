// Package auth issues and verifies the HS256 bearer tokens of the development
// backend. Error bodies and status codes follow the JWT layer of the real
// backend: a missing header is 401, an unreadable or forged token is 422 and
// an expired token is 401.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"go.uber.org/zap"

	"github.com/patric-chuzhbe/suiteclient/internal/logger"
	"github.com/patric-chuzhbe/suiteclient/internal/models"
)

// Auth handles token issuing and the authentication middleware.
type Auth struct {
	// signingKey is the key used to sign JWTs.
	signingKey []byte

	// tokenLifetime is the validity period of issued tokens.
	tokenLifetime time.Duration

	now func() time.Time
}

// ContextKey is a custom type for storing values in context to avoid collisions.
type ContextKey string

// UserIDKey is the context key used to store and retrieve the authenticated user's ID.
const UserIDKey ContextKey = "userID"

type Option func(*Auth)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(a *Auth) {
		a.now = now
	}
}

// New creates an Auth signing with signingKey and issuing tokens valid for tokenLifetime.
func New(signingKey []byte, tokenLifetime time.Duration, opts ...Option) *Auth {
	a := &Auth{
		signingKey:    signingKey,
		tokenLifetime: tokenLifetime,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}

	return a
}

// IssueToken builds a signed token whose subject is userID.
func (a *Auth) IssueToken(userID string) (string, error) {
	now := a.now()
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(a.tokenLifetime)),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.signingKey)
	if err != nil {
		return "", fmt.Errorf("in auth.IssueToken(): %w", err)
	}

	return token, nil
}

// UserID extracts the authenticated user id placed in ctx by AuthenticateUser.
func UserID(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(UserIDKey).(string)
	return userID, ok && userID != ""
}

// AuthenticateUser rejects requests without a valid bearer token and puts
// the token subject into the request context.
func (a *Auth) AuthenticateUser(h http.Handler) http.Handler {
	middleware := func(response http.ResponseWriter, request *http.Request) {
		header := request.Header.Get("Authorization")
		if header == "" {
			writeMsg(response, http.StatusUnauthorized, "Missing Authorization Header")
			return
		}

		tokenString, found := strings.CutPrefix(header, "Bearer ")
		if !found {
			writeMsg(response, http.StatusUnprocessableEntity, "Bad Authorization header. Expected 'Authorization: Bearer <JWT>'")
			return
		}

		userID, status, msg := a.parse(tokenString)
		if status != http.StatusOK {
			logger.Log.Debugln("Rejected bearer token:", msg)
			writeMsg(response, status, msg)
			return
		}

		ctx := context.WithValue(request.Context(), UserIDKey, userID)
		h.ServeHTTP(response, request.WithContext(ctx))
	}

	return http.HandlerFunc(middleware)
}

func (a *Auth) parse(tokenString string) (userID string, status int, msg string) {
	claims := &jwt.RegisteredClaims{}
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)
	_, err := parser.ParseWithClaims(
		tokenString,
		claims,
		func(t *jwt.Token) (interface{}, error) {
			return a.signingKey, nil
		},
	)

	switch {
	case errors.Is(err, jwt.ErrTokenMalformed):
		return "", http.StatusUnprocessableEntity, "Not enough segments"
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return "", http.StatusUnprocessableEntity, "Signature verification failed"
	case err != nil:
		return "", http.StatusUnprocessableEntity, "Invalid token"
	case !claims.VerifyExpiresAt(a.now(), true):
		return "", http.StatusUnauthorized, "Token has expired"
	case claims.Subject == "":
		return "", http.StatusUnprocessableEntity, "Missing claim: sub"
	}

	return claims.Subject, http.StatusOK, ""
}

func writeMsg(response http.ResponseWriter, status int, msg string) {
	response.Header().Set("Content-Type", "application/json")
	response.WriteHeader(status)
	if err := json.NewEncoder(response).Encode(models.ErrorResponse{Msg: msg}); err != nil {
		logger.Log.Debugln("Error encoding the auth error body: ", zap.Error(err))
	}
}
