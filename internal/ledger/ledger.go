// Package ledger owns the authoritative friend collections: every mutation
// goes through it, and every change is announced to live subscribers so
// their next snapshot reflects it. Callers never see a mutation locally
// until the subscription delivers the updated collection.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"splitmate/internal/metrics"
	"splitmate/internal/models"
	"splitmate/internal/storage"
)

var (
	// ErrNameRequired is returned when adding a friend without a name.
	ErrNameRequired = errors.New("friend name is required")
	// ErrFriendIDRequired is returned when a mutation omits the friend ID.
	ErrFriendIDRequired = errors.New("friend id is required")
)

// Publisher fans a change announcement out beyond this process, so
// subscribers attached to other server instances wake up too.
type Publisher interface {
	Publish(ctx context.Context, userKey string) error
}

// Ledger mediates all mutations of per-user friend collections and feeds
// the subscription hub.
type Ledger struct {
	store  storage.Store
	hub    *Hub
	pub    Publisher // optional
	logger *slog.Logger
}

// New creates a Ledger over the given store and hub. pub may be nil for
// single-instance deployments.
func New(store storage.Store, hub *Hub, pub Publisher) *Ledger {
	return &Ledger{
		store:  store,
		hub:    hub,
		pub:    pub,
		logger: slog.Default(),
	}
}

// AddFriend creates a new entry in userKey's collection. A missing ID is
// derived from the name, a missing image falls back to the default picture,
// and the balance starts at whatever the caller provided (zero for a fresh
// friend). On failure nothing is stored and nothing is announced.
func (l *Ledger) AddFriend(ctx context.Context, userKey string, friend *models.Friend) error {
	if friend.Name == "" {
		return ErrNameRequired
	}
	if friend.ID == "" {
		friend.ID = models.NewFriendID(friend.Name)
	}
	if friend.Image == "" {
		friend.Image = models.DefaultImageURL
	}

	if err := l.store.PutFriend(ctx, userKey, friend); err != nil {
		return fmt.Errorf("failed to add friend: %w", err)
	}

	metrics.FriendsAdded.Inc()
	l.logger.Info("Friend added", "user", userKey, "friend_id", friend.ID)
	l.announce(ctx, userKey)
	return nil
}

// RemoveFriend deletes an entry from userKey's collection. Removing a
// nonexistent friend reports storage.ErrFriendNotFound, a non-fatal error.
func (l *Ledger) RemoveFriend(ctx context.Context, userKey, friendID string) error {
	if friendID == "" {
		return ErrFriendIDRequired
	}

	if err := l.store.DeleteFriend(ctx, userKey, friendID); err != nil {
		return fmt.Errorf("failed to remove friend: %w", err)
	}

	metrics.FriendsRemoved.Inc()
	l.logger.Info("Friend removed", "user", userKey, "friend_id", friendID)
	l.announce(ctx, userKey)
	return nil
}

// ApplySplit applies a signed balance delta to one friend. The update is a
// single atomic increment, so concurrent splits against the same friend
// both land.
func (l *Ledger) ApplySplit(ctx context.Context, userKey, friendID string, delta int64) error {
	if friendID == "" {
		return ErrFriendIDRequired
	}

	if err := l.store.AddToBalance(ctx, userKey, friendID, delta); err != nil {
		return fmt.Errorf("failed to apply split: %w", err)
	}

	metrics.SplitsApplied.Inc()
	l.logger.Info("Split applied", "user", userKey, "friend_id", friendID, "delta", delta)
	l.announce(ctx, userKey)
	return nil
}

// Snapshot returns the full current friend collection for userKey.
func (l *Ledger) Snapshot(ctx context.Context, userKey string) ([]models.Friend, error) {
	friends, err := l.store.ListFriends(ctx, userKey)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}
	return friends, nil
}

// announce wakes local subscribers and, when a publisher is configured,
// subscribers on other instances. Announcement failures are logged and
// swallowed: the mutation already committed.
func (l *Ledger) announce(ctx context.Context, userKey string) {
	l.hub.Notify(userKey)
	if l.pub != nil {
		if err := l.pub.Publish(ctx, userKey); err != nil {
			l.logger.Warn("Failed to publish change", "user", userKey, "error", err)
		}
	}
}
