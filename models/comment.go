package models

import (
	"errors"
	"strings"
	"time"
)

// MaxCommentLength is the maximum accepted comment length in characters after trimming.
const MaxCommentLength = 2000

var (
	// ErrEmptyContent is returned when a comment body is empty after trimming.
	ErrEmptyContent = errors.New("comment content cannot be empty")
	// ErrContentTooLong is returned when a comment body exceeds MaxCommentLength.
	ErrContentTooLong = errors.New("comment too long")
	// ErrAuthorNameRequired is returned when an anonymous comment lacks a display name.
	ErrAuthorNameRequired = errors.New("author name required")
)

// Comment represents a single message attached to a post, optionally a reply
// to another comment. Comments are immutable after creation; there is no
// update path, only create and delete.
type Comment struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	PostID  uint   `gorm:"index;not null" json:"post_id"`
	Content string `gorm:"type:text;not null" json:"content"`
	// Exactly one author shape is populated: UserID for identified comments,
	// AuthorName (and optionally AuthorEmail) for anonymous ones.
	UserID      *uint  `gorm:"index" json:"user_id,omitempty"`
	AuthorName  string `gorm:"size:64" json:"author_name,omitempty"`
	AuthorEmail string `gorm:"size:255" json:"author_email,omitempty"`
	// OriginIP is the network address the creation request arrived from. It
	// backs the anonymous deletion rule and is never serialized to callers.
	OriginIP  string    `gorm:"size:45" json:"-"`
	ParentID  *uint     `gorm:"index" json:"parent_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	User      *User     `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"author,omitempty"`
}

// CommentAuthor is the validated author identity for a new comment: either an
// identified user or an anonymous name with optional contact address.
type CommentAuthor struct {
	UserID *uint
	Name   string
	Email  string
}

// IdentifiedAuthor builds an author backed by a user account.
func IdentifiedAuthor(userID uint) CommentAuthor {
	return CommentAuthor{UserID: &userID}
}

// AnonymousAuthor builds an anonymous author. The display name is required;
// the contact address is kept only when non-empty.
func AnonymousAuthor(name, email string) (CommentAuthor, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return CommentAuthor{}, ErrAuthorNameRequired
	}
	return CommentAuthor{Name: name, Email: strings.TrimSpace(email)}, nil
}

// NewComment validates and assembles a comment record ready for persistence.
// Content is trimmed before both the emptiness and length checks. The caller
// supplies parentID only after verifying the parent exists under the same post.
func NewComment(postID uint, content string, author CommentAuthor, originIP string, parentID *uint) (*Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrEmptyContent
	}
	if len([]rune(content)) > MaxCommentLength {
		return nil, ErrContentTooLong
	}
	return &Comment{
		PostID:      postID,
		Content:     content,
		UserID:      author.UserID,
		AuthorName:  author.Name,
		AuthorEmail: author.Email,
		OriginIP:    originIP,
		ParentID:    parentID,
	}, nil
}

// DisplayName resolves the name shown next to the comment.
func (c *Comment) DisplayName() string {
	if c.User != nil {
		if c.User.Username != "" {
			return c.User.Username
		}
		return c.User.Email
	}
	if c.AuthorName != "" {
		return c.AuthorName
	}
	return "Anonymous"
}
