package models

import (
	"strings"

	"github.com/google/uuid"
)

// DefaultImageURL is the hosted placeholder picture used when a friend is
// created without an image, or when an image upload fails.
const DefaultImageURL = "https://res.cloudinary.com/df9psppug/image/upload/v1735888752/ufxnuykteqhatjtncutv.png"

// Friend represents one counterparty in a user's expense-sharing list.
type Friend struct {
	// ID is the unique identifier within the owning user's collection.
	// Derived from the name plus a random suffix; see NewFriendID.
	ID string `json:"id"`

	// Name is the display name. Never empty.
	Name string `json:"name"`

	// Image is an HTTPS URI for the friend's picture. Falls back to
	// DefaultImageURL when no image was supplied.
	Image string `json:"image"`

	// Balance is the net amount between the user and this friend, in whole
	// currency units. Positive means the friend owes the user, negative
	// means the user owes the friend, zero means settled up.
	Balance int64 `json:"balance"`
}

// NewFriendID derives a collection-unique ID from a display name and a
// random suffix, e.g. "ali-1f3a9c2e".
func NewFriendID(name string) string {
	slug := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case r >= 'A' && r <= 'Z':
			return r + ('a' - 'A')
		default:
			return -1
		}
	}, name)
	if slug == "" {
		slug = "friend"
	}
	return slug + "-" + uuid.NewString()[:8]
}
