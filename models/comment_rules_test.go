package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCanDeleteCommentOwner(t *testing.T) {
	owner := uint(7)
	created := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	c := &Comment{ID: 1, PostID: 1, UserID: &owner, OriginIP: "10.0.0.1", CreatedAt: created}

	// Owners delete regardless of elapsed time or address.
	now := created.Add(48 * time.Hour)
	assert.True(t, CanDeleteComment(c, &owner, "203.0.113.9", DefaultAnonDeleteWindow, now))

	other := uint(8)
	assert.False(t, CanDeleteComment(c, &other, "203.0.113.9", DefaultAnonDeleteWindow, now))
}

func TestCanDeleteCommentOriginAddressWindow(t *testing.T) {
	created := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	c := &Comment{ID: 1, PostID: 1, AuthorName: "Ana", OriginIP: "10.0.0.1", CreatedAt: created}

	cases := []struct {
		name    string
		ip      string
		elapsed time.Duration
		want    bool
	}{
		{"same address just under window", "10.0.0.1", 4*time.Minute + 59*time.Second, true},
		{"same address exactly at window", "10.0.0.1", 5 * time.Minute, false},
		{"same address just over window", "10.0.0.1", 5*time.Minute + time.Second, false},
		{"different address inside window", "10.0.0.2", time.Minute, false},
		{"same address immediately", "10.0.0.1", 0, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := CanDeleteComment(c, nil, tc.ip, DefaultAnonDeleteWindow, created.Add(tc.elapsed))
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestCanDeleteCommentAuthenticatedNonOwnerFallsBackToAddress(t *testing.T) {
	owner := uint(7)
	created := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	c := &Comment{ID: 1, PostID: 1, UserID: &owner, OriginIP: "10.0.0.1", CreatedAt: created}

	// A different authenticated user on the comment's origin address still
	// gets the time-window path.
	other := uint(8)
	assert.True(t, CanDeleteComment(c, &other, "10.0.0.1", DefaultAnonDeleteWindow, created.Add(time.Minute)))
	assert.False(t, CanDeleteComment(c, &other, "10.0.0.1", DefaultAnonDeleteWindow, created.Add(10*time.Minute)))
}

func TestCanDeleteCommentNoStoredAddress(t *testing.T) {
	created := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	c := &Comment{ID: 1, PostID: 1, AuthorName: "Ana", CreatedAt: created}

	// Records without an origin address never match the address rule, even
	// against an empty requester address.
	assert.False(t, CanDeleteComment(c, nil, "", DefaultAnonDeleteWindow, created))
}
