// Package protocol defines the JSON wire types shared by the server
// handlers and the client library.
package protocol

import "splitmate/internal/models"

// Credentials is the body of register and login requests. Name is only
// required for registration.
type Credentials struct {
	Email    string `json:"email"`
	Name     string `json:"name,omitempty"`
	Password string `json:"password"`
}

// User is the public view of an account.
type User struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// AuthResponse carries a session token and the authenticated user.
type AuthResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// AddFriendRequest is the body of a create-friend request. ID is optional;
// the ledger derives one from the name when absent.
type AddFriendRequest struct {
	ID    string `json:"id,omitempty"`
	Name  string `json:"name"`
	Image string `json:"image,omitempty"`
}

// SplitRequest applies a signed balance delta, precomputed by the caller
// with the split calculator.
type SplitRequest struct {
	Delta int64 `json:"delta"`
}

// FriendsResponse is a point-in-time view of the friend collection.
type FriendsResponse struct {
	Friends []models.Friend `json:"friends"`
}

// ErrorResponse carries a user-facing failure message.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Watch message types. Errors travel in-band but on a distinct message
// type, so the subscription survives a failed snapshot read.
const (
	MessageSnapshot = "snapshot"
	MessageError    = "error"
)

// WatchMessage is one frame of the live subscription stream.
type WatchMessage struct {
	Type    string          `json:"type"`
	Friends []models.Friend `json:"friends,omitempty"`
	Error   string          `json:"error,omitempty"`
}
