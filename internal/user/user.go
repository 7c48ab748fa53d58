// Package user defines the account model of the development backend and an
// in-memory registry of accounts.
package user

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/patric-chuzhbe/suiteclient/internal/models"
)

// User represents a registered account.
type User struct {
	// ID is the unique identifier of the user, meaning a UUID.
	ID           string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// Registry keeps accounts in memory, indexed by id and by email.
type Registry struct {
	mu      sync.RWMutex
	byID    map[string]*User
	byEmail map[string]*User
}

func NewRegistry() *Registry {
	return &Registry{
		byID:    map[string]*User{},
		byEmail: map[string]*User{},
	}
}

// CreateUser stores a new account and returns its id.
// An already registered email yields models.ErrUserExists.
func (r *Registry) CreateUser(ctx context.Context, email, passwordHash string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byEmail[email]; exists {
		return "", models.ErrUserExists
	}

	usr := &User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}
	r.byID[usr.ID] = usr
	r.byEmail[email] = usr

	return usr.ID, nil
}

// GetUserByEmail returns a copy of the account, or nil when unknown.
func (r *Registry) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return copyUser(r.byEmail[email]), nil
}

// GetUserByID returns a copy of the account, or nil when unknown.
func (r *Registry) GetUserByID(ctx context.Context, userID string) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return copyUser(r.byID[userID]), nil
}

func copyUser(usr *User) *User {
	if usr == nil {
		return nil
	}
	clone := *usr

	return &clone
}
