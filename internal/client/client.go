// Package client is the client-side friend ledger store: point mutations
// over HTTP plus a live snapshot subscription over websocket. Mutations are
// never applied optimistically; the caller's view changes only when the
// subscription delivers the next snapshot.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"splitmate/internal/models"
	"splitmate/internal/protocol"
)

var (
	// ErrNotFound is returned when a mutation targets a friend the server
	// no longer has. Removing an already-removed friend lands here; it is
	// a reported, non-fatal condition.
	ErrNotFound = errors.New("friend not found")

	// ErrUnauthorized is returned when the session token is missing,
	// invalid or expired. The user must sign in again.
	ErrUnauthorized = errors.New("not signed in")
)

// Client talks to a splitmate server on behalf of one signed-in user.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// New creates a client for the server at baseURL (e.g. "http://localhost:8080").
func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// SetToken installs the session token used for authenticated calls.
func (c *Client) SetToken(token string) {
	c.token = token
}

// Register creates an account and returns the session token.
func (c *Client) Register(ctx context.Context, email, name, password string) (*protocol.AuthResponse, error) {
	var resp protocol.AuthResponse
	err := c.do(ctx, http.MethodPost, "/api/auth/register",
		protocol.Credentials{Email: email, Name: name, Password: password}, &resp)
	if err != nil {
		return nil, err
	}
	c.token = resp.Token
	return &resp, nil
}

// Login authenticates an existing account and returns the session token.
func (c *Client) Login(ctx context.Context, email, password string) (*protocol.AuthResponse, error) {
	var resp protocol.AuthResponse
	err := c.do(ctx, http.MethodPost, "/api/auth/login",
		protocol.Credentials{Email: email, Password: password}, &resp)
	if err != nil {
		return nil, err
	}
	c.token = resp.Token
	return &resp, nil
}

// Friends fetches a one-off snapshot of the friend collection.
func (c *Client) Friends(ctx context.Context) ([]models.Friend, error) {
	var resp protocol.FriendsResponse
	if err := c.do(ctx, http.MethodGet, "/api/friends", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Friends, nil
}

// AddFriend creates a friend entry and returns the stored record.
func (c *Client) AddFriend(ctx context.Context, req protocol.AddFriendRequest) (*models.Friend, error) {
	var friend models.Friend
	if err := c.do(ctx, http.MethodPost, "/api/friends", req, &friend); err != nil {
		return nil, err
	}
	return &friend, nil
}

// RemoveFriend deletes a friend entry. Returns ErrNotFound if the entry
// does not exist.
func (c *Client) RemoveFriend(ctx context.Context, friendID string) error {
	return c.do(ctx, http.MethodDelete, "/api/friends/"+friendID, nil, nil)
}

// ApplySplit applies a signed balance delta to one friend.
func (c *Client) ApplySplit(ctx context.Context, friendID string, delta int64) error {
	return c.do(ctx, http.MethodPost, "/api/friends/"+friendID+"/split",
		protocol.SplitRequest{Delta: delta}, nil)
}

// do performs one JSON request/response round trip.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return ErrUnauthorized
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode >= 400:
		var apiErr protocol.ErrorResponse
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err == nil && apiErr.Error != "" {
			return fmt.Errorf("server error: %s", apiErr.Error)
		}
		return fmt.Errorf("server error: %s", resp.Status)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}
