package models

import (
	"errors"

	"gorm.io/gorm"
)

// ErrCommentNotFound signals that a comment id does not resolve to a record.
var ErrCommentNotFound = errors.New("comment not found")

// CommentStore is the persistence surface the comment endpoints run against.
// The GORM implementation below is the production one; tests substitute an
// in-memory store.
type CommentStore interface {
	Create(c *Comment) error
	FindByID(id uint) (*Comment, error)
	FindByPost(postID uint) ([]Comment, error)
	FindChildren(parentID uint) ([]Comment, error)
	Delete(id uint) error
	PostExists(postID uint) (bool, error)
}

type gormCommentStore struct {
	db *gorm.DB
}

// NewCommentStore returns a CommentStore backed by the given database.
func NewCommentStore(db *gorm.DB) CommentStore {
	return &gormCommentStore{db: db}
}

func (s *gormCommentStore) Create(c *Comment) error {
	return s.db.Create(c).Error
}

func (s *gormCommentStore) FindByID(id uint) (*Comment, error) {
	var c Comment
	if err := s.db.Preload("User").First(&c, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCommentNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (s *gormCommentStore) FindByPost(postID uint) ([]Comment, error) {
	var comments []Comment
	if err := s.db.Preload("User").Where("post_id = ?", postID).Find(&comments).Error; err != nil {
		return nil, err
	}
	return comments, nil
}

func (s *gormCommentStore) FindChildren(parentID uint) ([]Comment, error) {
	var comments []Comment
	if err := s.db.Where("parent_id = ?", parentID).Find(&comments).Error; err != nil {
		return nil, err
	}
	return comments, nil
}

func (s *gormCommentStore) Delete(id uint) error {
	res := s.db.Delete(&Comment{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrCommentNotFound
	}
	return nil
}

func (s *gormCommentStore) PostExists(postID uint) (bool, error) {
	var count int64
	if err := s.db.Model(&Post{}).Where("id = ?", postID).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// DeleteCommentTree removes the comment and, post-order, every reply
// transitively rooted at it. Authorization is the caller's business.
//
// The walk re-queries direct children one level at a time; trees here are
// shallow and a partially deleted subtree can be walked again safely. Nodes a
// concurrent delete already removed are skipped; only the originally targeted
// id reports ErrCommentNotFound when it is gone. Storage failures partway
// through surface to the caller; nodes already removed stay removed.
func DeleteCommentTree(store CommentStore, id uint) error {
	if _, err := store.FindByID(id); err != nil {
		return err
	}
	return deleteSubtree(store, id)
}

func deleteSubtree(store CommentStore, id uint) error {
	children, err := store.FindChildren(id)
	if err != nil {
		return err
	}
	for _, child := range children {
		if err := deleteSubtree(store, child.ID); err != nil {
			return err
		}
	}
	if err := store.Delete(id); err != nil && !errors.Is(err, ErrCommentNotFound) {
		return err
	}
	return nil
}
