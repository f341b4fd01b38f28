package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var treeBase = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func flatComment(id uint, parentID *uint, offset time.Duration) Comment {
	return Comment{
		ID:        id,
		PostID:    1,
		Content:   "comment",
		ParentID:  parentID,
		CreatedAt: treeBase.Add(offset),
	}
}

func parentRef(id uint) *uint { return &id }

func TestBuildCommentForestEmpty(t *testing.T) {
	forest := BuildCommentForest(nil)
	require.NotNil(t, forest)
	assert.Empty(t, forest)
}

func TestBuildCommentForestWellFormed(t *testing.T) {
	comments := []Comment{
		flatComment(1, nil, 0),
		flatComment(2, parentRef(1), time.Minute),
		flatComment(3, parentRef(1), 2*time.Minute),
		flatComment(4, parentRef(2), 3*time.Minute),
		flatComment(5, nil, 4*time.Minute),
	}

	forest := BuildCommentForest(comments)

	require.Len(t, forest, 2)
	assert.Equal(t, 5, CountForest(forest))

	seen := map[uint]bool{}
	var walk func(nodes []*CommentNode, parentID *uint)
	walk = func(nodes []*CommentNode, parentID *uint) {
		for _, node := range nodes {
			assert.False(t, seen[node.ID], "comment %d appears twice", node.ID)
			seen[node.ID] = true
			if parentID == nil {
				assert.Nil(t, node.ParentID)
			} else {
				require.NotNil(t, node.ParentID)
				assert.Equal(t, *parentID, *node.ParentID)
			}
			walk(node.Replies, &node.ID)
		}
	}
	walk(forest, nil)
	assert.Len(t, seen, 5)
}

func TestBuildCommentForestOrdering(t *testing.T) {
	comments := []Comment{
		flatComment(1, nil, 0),
		flatComment(2, nil, 10*time.Minute),
		flatComment(3, nil, 5*time.Minute),
		flatComment(4, parentRef(1), 8*time.Minute),
		flatComment(5, parentRef(1), 2*time.Minute),
		flatComment(6, parentRef(1), 4*time.Minute),
	}

	forest := BuildCommentForest(comments)

	// Top level: newest first.
	require.Len(t, forest, 3)
	for i := 1; i < len(forest); i++ {
		assert.False(t, forest[i].CreatedAt.After(forest[i-1].CreatedAt),
			"top-level comments must be non-increasing by creation time")
	}
	assert.Equal(t, uint(2), forest[0].ID)

	// Replies: oldest first.
	var root *CommentNode
	for _, node := range forest {
		if node.ID == 1 {
			root = node
		}
	}
	require.NotNil(t, root)
	require.Len(t, root.Replies, 3)
	assert.Equal(t, []uint{5, 6, 4}, []uint{root.Replies[0].ID, root.Replies[1].ID, root.Replies[2].ID})
}

func TestBuildCommentForestExcludesOrphans(t *testing.T) {
	comments := []Comment{
		flatComment(1, nil, 0),
		flatComment(2, parentRef(99), time.Minute), // parent never existed
		flatComment(3, parentRef(2), 2*time.Minute), // child of the orphan
	}

	forest := BuildCommentForest(comments)

	require.Len(t, forest, 1)
	assert.Equal(t, uint(1), forest[0].ID)
	assert.Empty(t, forest[0].Replies)
	assert.Equal(t, 1, CountForest(forest))
}

func TestBuildCommentForestDeterministicOnTies(t *testing.T) {
	comments := []Comment{
		flatComment(1, nil, 0),
		flatComment(2, nil, 0),
		flatComment(3, parentRef(1), time.Minute),
		flatComment(4, parentRef(1), time.Minute),
	}

	forest := BuildCommentForest(comments)

	require.Len(t, forest, 2)
	assert.Equal(t, uint(2), forest[0].ID)
	assert.Equal(t, uint(1), forest[1].ID)

	require.Len(t, forest[1].Replies, 2)
	assert.Equal(t, uint(3), forest[1].Replies[0].ID)
	assert.Equal(t, uint(4), forest[1].Replies[1].ID)
}
