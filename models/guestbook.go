package models

import "time"

// GuestbookEntry is a flat, anonymous message on the site-wide guestbook.
// Entries share the comment content rules but have no post or threading.
type GuestbookEntry struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Content    string    `gorm:"type:text;not null" json:"content"`
	AuthorName string    `gorm:"size:64" json:"author_name,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}
