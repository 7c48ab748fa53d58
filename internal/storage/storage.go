// Package storage describes the persistent key/value storage the client keeps
// its session in, the Go counterpart of the browser's local storage.
package storage

import "context"

// Keys written by the login flow and cleared on logout.
const (
	TokenKey  = "token"
	UserIDKey = "user_id"
	EmailKey  = "email"
)

// SessionKeys lists every key owned by the session, in removal order.
var SessionKeys = []string{TokenKey, UserIDKey, EmailKey}

// KeyValueStore is a string key/value store whose contents survive restarts.
// A missing key is reported with found == false and a nil error.
type KeyValueStore interface {
	GetItem(ctx context.Context, key string) (value string, found bool, err error)
	SetItem(ctx context.Context, key, value string) error
	RemoveItem(ctx context.Context, key string) error
}
