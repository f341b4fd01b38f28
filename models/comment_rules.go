package models

import "time"

// DefaultAnonDeleteWindow is how long a comment stays deletable from the
// network address that created it.
const DefaultAnonDeleteWindow = 5 * time.Minute

// CanDeleteComment decides whether a delete request is permitted. An
// authenticated owner may always delete their own comment; anyone else may
// delete only from the comment's origin address while the comment is younger
// than the window. The decision never consults descendant comments.
func CanDeleteComment(c *Comment, requesterID *uint, originIP string, window time.Duration, now time.Time) bool {
	if requesterID != nil && c.UserID != nil && *c.UserID == *requesterID {
		return true
	}
	if c.OriginIP != "" && c.OriginIP == originIP && now.Sub(c.CreatedAt) < window {
		return true
	}
	return false
}
