package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"splitmate/internal/models"
	"splitmate/internal/storage"
)

// PutFriend inserts a friend into userKey's collection.
// The (user_key, id) primary key rejects duplicate IDs within a collection.
func (s *SQLiteStore) PutFriend(ctx context.Context, userKey string, friend *models.Friend) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO friends (user_key, id, name, image, balance) VALUES (?, ?, ?, ?, ?)",
		userKey, friend.ID, friend.Name, friend.Image, friend.Balance,
	)
	if err != nil {
		return fmt.Errorf("failed to insert friend: %w", err)
	}

	return nil
}

// GetFriend retrieves one friend from userKey's collection.
func (s *SQLiteStore) GetFriend(ctx context.Context, userKey, friendID string) (*models.Friend, error) {
	friend := &models.Friend{}
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, image, balance FROM friends WHERE user_key = ? AND id = ?",
		userKey, friendID,
	).Scan(&friend.ID, &friend.Name, &friend.Image, &friend.Balance)

	if err == sql.ErrNoRows {
		return nil, storage.ErrFriendNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get friend: %w", err)
	}

	return friend, nil
}

// ListFriends returns userKey's full friend collection ordered by name.
func (s *SQLiteStore) ListFriends(ctx context.Context, userKey string) ([]models.Friend, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, image, balance FROM friends WHERE user_key = ? ORDER BY name, id",
		userKey,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list friends: %w", err)
	}
	defer rows.Close()

	friends := []models.Friend{}
	for rows.Next() {
		var friend models.Friend
		if err := rows.Scan(&friend.ID, &friend.Name, &friend.Image, &friend.Balance); err != nil {
			return nil, fmt.Errorf("failed to scan friend: %w", err)
		}
		friends = append(friends, friend)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate friends: %w", err)
	}

	return friends, nil
}

// AddToBalance applies balance += delta in a single UPDATE, so concurrent
// splits against the same friend cannot lose each other's writes.
func (s *SQLiteStore) AddToBalance(ctx context.Context, userKey, friendID string, delta int64) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE friends SET balance = balance + ? WHERE user_key = ? AND id = ?",
		delta, userKey, friendID,
	)
	if err != nil {
		return fmt.Errorf("failed to update balance: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check balance update: %w", err)
	}
	if affected == 0 {
		return storage.ErrFriendNotFound
	}

	return nil
}

// DeleteFriend removes a friend from userKey's collection.
func (s *SQLiteStore) DeleteFriend(ctx context.Context, userKey, friendID string) error {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM friends WHERE user_key = ? AND id = ?",
		userKey, friendID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete friend: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check friend deletion: %w", err)
	}
	if affected == 0 {
		return storage.ErrFriendNotFound
	}

	return nil
}
