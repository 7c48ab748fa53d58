// Package session keeps the authentication state of the client: the bearer
// token and the user identity written by the login flow. Storage and page
// navigation are capabilities supplied by the caller.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/thoas/go-funk"

	"github.com/patric-chuzhbe/suiteclient/internal/models"
	"github.com/patric-chuzhbe/suiteclient/internal/storage"
)

// Navigator abstracts the page location of the running client.
type Navigator interface {
	CurrentPath() string
	Navigate(path string)
}

// Session implements the auth helpers on top of a key/value store.
type Session struct {
	store       storage.KeyValueStore
	navigator   Navigator
	loginPath   string
	publicPaths []string
}

// Identity is what the stored token says about its owner.
// The token signature is not verified.
type Identity struct {
	Subject   string
	ExpiresAt time.Time
}

// Expired reports whether the token expiry lies before now.
// A token without an expiry never expires.
func (i *Identity) Expired(now time.Time) bool {
	return !i.ExpiresAt.IsZero() && now.After(i.ExpiresAt)
}

type Option func(*Session)

// WithLoginPath overrides the redirect target, "/login" by default.
func WithLoginPath(path string) Option {
	return func(s *Session) {
		s.loginPath = path
	}
}

// WithPublicPaths overrides the paths reachable without a token,
// "/login" and "/register" by default.
func WithPublicPaths(paths ...string) Option {
	return func(s *Session) {
		s.publicPaths = paths
	}
}

func New(store storage.KeyValueStore, navigator Navigator, opts ...Option) *Session {
	s := &Session{
		store:       store,
		navigator:   navigator,
		loginPath:   "/login",
		publicPaths: []string{"/login", "/register"},
	}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Token returns the stored token. An empty stored value counts as absent.
func (s *Session) Token(ctx context.Context) (string, bool, error) {
	token, found, err := s.store.GetItem(ctx, storage.TokenKey)
	if err != nil {
		return "", false, fmt.Errorf("in session.Token(): error while `s.store.GetItem()` calling: %w", err)
	}

	return token, found && token != "", nil
}

// CheckAuth sends the client to the login page when no token is stored and
// the current page is not public. Token validity is not checked.
func (s *Session) CheckAuth(ctx context.Context) error {
	_, found, err := s.Token(ctx)
	if err != nil {
		return err
	}
	if found {
		return nil
	}

	if !funk.ContainsString(s.publicPaths, s.navigator.CurrentPath()) {
		s.navigator.Navigate(s.loginPath)
	}

	return nil
}

// Logout clears every session key and navigates to the login page,
// even when some of the removals fail.
func (s *Session) Logout(ctx context.Context) error {
	var errs []error
	for _, key := range storage.SessionKeys {
		if err := s.store.RemoveItem(ctx, key); err != nil {
			errs = append(errs, fmt.Errorf("removing %q: %w", key, err))
		}
	}

	s.navigator.Navigate(s.loginPath)

	return errors.Join(errs...)
}

// AuthHeader builds the headers of an authenticated JSON request.
// Without a stored token the header reads "Bearer null", which the backend
// rejects as a malformed token. A stored empty token is sent as is.
func (s *Session) AuthHeader(ctx context.Context) (map[string]string, error) {
	token, found, err := s.store.GetItem(ctx, storage.TokenKey)
	if err != nil {
		return nil, fmt.Errorf("in session.AuthHeader(): error while `s.store.GetItem()` calling: %w", err)
	}
	if !found {
		token = "null"
	}

	return map[string]string{
		"Content-Type":  "application/json",
		"Authorization": "Bearer " + token,
	}, nil
}

// SaveLogin stores the result of a successful login.
func (s *Session) SaveLogin(ctx context.Context, resp models.AuthResponse) error {
	items := map[string]string{
		storage.TokenKey:  resp.AccessToken,
		storage.UserIDKey: resp.UserID,
		storage.EmailKey:  resp.Email,
	}
	for _, key := range storage.SessionKeys {
		if err := s.store.SetItem(ctx, key, items[key]); err != nil {
			return fmt.Errorf("in session.SaveLogin(): error while storing %q: %w", key, err)
		}
	}

	return nil
}

// User returns the stored user id and email.
func (s *Session) User(ctx context.Context) (userID, email string, err error) {
	userID, _, err = s.store.GetItem(ctx, storage.UserIDKey)
	if err != nil {
		return "", "", err
	}
	email, _, err = s.store.GetItem(ctx, storage.EmailKey)
	if err != nil {
		return "", "", err
	}

	return userID, email, nil
}

// Identity decodes the stored token without verifying it.
func (s *Session) Identity(ctx context.Context) (*Identity, error) {
	token, found, err := s.Token(ctx)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, models.ErrNoToken
	}

	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("in session.Identity(): error while `ParseUnverified()` calling: %w", err)
	}

	identity := &Identity{Subject: claims.Subject}
	if claims.ExpiresAt != nil {
		identity.ExpiresAt = claims.ExpiresAt.Time
	}

	return identity, nil
}
