package sqlite

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"splitmate/internal/models"
	"splitmate/internal/storage"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "splitmate-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	store, err := New(filepath.Join(tempDir, "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	return store
}

func TestSQLiteStoreFriends(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	const userKey = "owner@example.com"

	t.Run("PutFriend and GetFriend round trip", func(t *testing.T) {
		friend := &models.Friend{
			ID:      "ali-12345678",
			Name:    "Ali",
			Image:   models.DefaultImageURL,
			Balance: 0,
		}

		if err := store.PutFriend(ctx, userKey, friend); err != nil {
			t.Fatalf("PutFriend failed: %v", err)
		}

		got, err := store.GetFriend(ctx, userKey, friend.ID)
		if err != nil {
			t.Fatalf("GetFriend failed: %v", err)
		}
		if got.Name != "Ali" || got.Image != models.DefaultImageURL || got.Balance != 0 {
			t.Errorf("GetFriend = %+v, want %+v", got, friend)
		}
	})

	t.Run("PutFriend rejects duplicate ID in same collection", func(t *testing.T) {
		friend := &models.Friend{ID: "dup-00000000", Name: "Dup", Image: models.DefaultImageURL}
		if err := store.PutFriend(ctx, userKey, friend); err != nil {
			t.Fatalf("PutFriend failed: %v", err)
		}
		if err := store.PutFriend(ctx, userKey, friend); err == nil {
			t.Error("Expected error for duplicate friend ID, got nil")
		}
	})

	t.Run("same ID allowed in a different user's collection", func(t *testing.T) {
		friend := &models.Friend{ID: "shared-00000000", Name: "Shared", Image: models.DefaultImageURL}
		if err := store.PutFriend(ctx, userKey, friend); err != nil {
			t.Fatalf("PutFriend failed: %v", err)
		}
		if err := store.PutFriend(ctx, "other@example.com", friend); err != nil {
			t.Errorf("PutFriend in other collection failed: %v", err)
		}
	})

	t.Run("AddToBalance accumulates deltas", func(t *testing.T) {
		friend := &models.Friend{ID: "sara-00000000", Name: "Sara", Image: models.DefaultImageURL}
		if err := store.PutFriend(ctx, userKey, friend); err != nil {
			t.Fatalf("PutFriend failed: %v", err)
		}

		for _, delta := range []int64{70, -30, 5} {
			if err := store.AddToBalance(ctx, userKey, friend.ID, delta); err != nil {
				t.Fatalf("AddToBalance(%d) failed: %v", delta, err)
			}
		}

		got, err := store.GetFriend(ctx, userKey, friend.ID)
		if err != nil {
			t.Fatalf("GetFriend failed: %v", err)
		}
		if got.Balance != 45 {
			t.Errorf("Balance = %d, want 45", got.Balance)
		}
	})

	t.Run("AddToBalance on missing friend reports not found", func(t *testing.T) {
		err := store.AddToBalance(ctx, userKey, "nope", 10)
		if !errors.Is(err, storage.ErrFriendNotFound) {
			t.Errorf("AddToBalance error = %v, want ErrFriendNotFound", err)
		}
	})

	t.Run("DeleteFriend removes entry, second delete reports not found", func(t *testing.T) {
		friend := &models.Friend{ID: "gone-00000000", Name: "Gone", Image: models.DefaultImageURL}
		if err := store.PutFriend(ctx, userKey, friend); err != nil {
			t.Fatalf("PutFriend failed: %v", err)
		}

		if err := store.DeleteFriend(ctx, userKey, friend.ID); err != nil {
			t.Fatalf("DeleteFriend failed: %v", err)
		}
		err := store.DeleteFriend(ctx, userKey, friend.ID)
		if !errors.Is(err, storage.ErrFriendNotFound) {
			t.Errorf("second DeleteFriend error = %v, want ErrFriendNotFound", err)
		}
	})

	t.Run("ListFriends returns only the owner's collection, ordered", func(t *testing.T) {
		const key = "list@example.com"
		for _, f := range []models.Friend{
			{ID: "c-1", Name: "Charlie"},
			{ID: "a-1", Name: "Aisha"},
			{ID: "b-1", Name: "Bilal"},
		} {
			f.Image = models.DefaultImageURL
			if err := store.PutFriend(ctx, key, &f); err != nil {
				t.Fatalf("PutFriend failed: %v", err)
			}
		}

		friends, err := store.ListFriends(ctx, key)
		if err != nil {
			t.Fatalf("ListFriends failed: %v", err)
		}
		if len(friends) != 3 {
			t.Fatalf("len = %d, want 3", len(friends))
		}
		for i, want := range []string{"Aisha", "Bilal", "Charlie"} {
			if friends[i].Name != want {
				t.Errorf("friends[%d].Name = %s, want %s", i, friends[i].Name, want)
			}
		}
	})

	t.Run("ListFriends on empty collection returns empty slice", func(t *testing.T) {
		friends, err := store.ListFriends(ctx, "nobody@example.com")
		if err != nil {
			t.Fatalf("ListFriends failed: %v", err)
		}
		if friends == nil || len(friends) != 0 {
			t.Errorf("ListFriends = %v, want empty non-nil slice", friends)
		}
	})
}

func TestSQLiteStoreUsers(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	user := models.NewUser("ali@example.com", "Ali Raza", "hash")
	if err := store.CreateUser(ctx, user); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	t.Run("GetUserByEmail", func(t *testing.T) {
		got, err := store.GetUserByEmail(ctx, "ali@example.com")
		if err != nil {
			t.Fatalf("GetUserByEmail failed: %v", err)
		}
		if got == nil || got.ID != user.ID || got.DisplayName != "Ali Raza" {
			t.Errorf("GetUserByEmail = %+v, want %+v", got, user)
		}
	})

	t.Run("GetUserByID", func(t *testing.T) {
		got, err := store.GetUserByID(ctx, user.ID)
		if err != nil {
			t.Fatalf("GetUserByID failed: %v", err)
		}
		if got == nil || got.Email != user.Email {
			t.Errorf("GetUserByID = %+v, want %+v", got, user)
		}
	})

	t.Run("missing user yields nil, nil", func(t *testing.T) {
		got, err := store.GetUserByEmail(ctx, "nobody@example.com")
		if err != nil || got != nil {
			t.Errorf("GetUserByEmail = (%v, %v), want (nil, nil)", got, err)
		}
	})

	t.Run("duplicate email rejected", func(t *testing.T) {
		dup := models.NewUser("ali@example.com", "Other Ali", "hash2")
		if err := store.CreateUser(ctx, dup); err == nil {
			t.Error("Expected error for duplicate email, got nil")
		}
	})
}
