// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"splitmate/internal/models"
)

// ErrFriendNotFound is returned when an operation targets a friend ID that
// does not exist in the user's collection. It is a non-fatal condition:
// removing an already-removed friend reports it and nothing breaks.
var ErrFriendNotFound = errors.New("friend not found")

// Store defines the interface for splitmate's persistence operations.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL,
// etc.) without changing the ledger or server layers.
type Store interface {
	// CreateUser persists a new user account.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByEmail retrieves a user by email.
	// Returns (nil, nil) when no such user exists.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetUserByID retrieves a user by ID.
	// Returns (nil, nil) when no such user exists.
	GetUserByID(ctx context.Context, id string) (*models.User, error)

	// PutFriend creates a friend entry in userKey's collection, keyed by
	// friend.ID. Fails if the ID already exists in that collection.
	PutFriend(ctx context.Context, userKey string, friend *models.Friend) error

	// GetFriend retrieves one friend from userKey's collection.
	// Returns ErrFriendNotFound if the ID does not exist.
	GetFriend(ctx context.Context, userKey, friendID string) (*models.Friend, error)

	// ListFriends returns the full friend collection for userKey, ordered
	// by name. An empty collection is a valid result, not an error.
	ListFriends(ctx context.Context, userKey string) ([]models.Friend, error)

	// AddToBalance atomically applies balance += delta to one friend.
	// Returns ErrFriendNotFound if the ID does not exist.
	AddToBalance(ctx context.Context, userKey, friendID string, delta int64) error

	// DeleteFriend removes a friend from userKey's collection.
	// Returns ErrFriendNotFound if the ID does not exist.
	DeleteFriend(ctx context.Context, userKey, friendID string) error

	// Close releases any resources held by the store.
	Close() error
}
