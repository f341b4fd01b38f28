package models

import "sort"

// CommentNode is a comment annotated with its direct replies, recursively
// assembled. The JSON shape is what list endpoints return.
type CommentNode struct {
	Comment
	Replies []*CommentNode `json:"replies"`
}

// BuildCommentForest reconstructs the display forest from a flat, unordered
// set of comments belonging to one post. Top-level comments come back newest
// first so fresh discussion surfaces; within every replies list, siblings are
// oldest first so conversations read top to bottom. A comment whose parent is
// missing from the input is an orphan and is dropped along with its subtree.
//
// The whole pass is built on two indices (id -> node, parent -> children)
// assembled in one scan, so cost stays quasilinear in the number of comments.
func BuildCommentForest(comments []Comment) []*CommentNode {
	nodes := make(map[uint]*CommentNode, len(comments))
	for i := range comments {
		nodes[comments[i].ID] = &CommentNode{Comment: comments[i], Replies: []*CommentNode{}}
	}

	var roots []*CommentNode
	for _, node := range nodes {
		if node.ParentID == nil {
			roots = append(roots, node)
			continue
		}
		parent, ok := nodes[*node.ParentID]
		if !ok {
			// Orphan: parent deleted or never existed. Unreachable from any
			// root, so the node and everything under it stays out of the forest.
			continue
		}
		parent.Replies = append(parent.Replies, node)
	}

	sort.Slice(roots, func(i, j int) bool {
		if !roots[i].CreatedAt.Equal(roots[j].CreatedAt) {
			return roots[i].CreatedAt.After(roots[j].CreatedAt)
		}
		return roots[i].ID > roots[j].ID
	})
	for _, node := range nodes {
		sortRepliesOldestFirst(node.Replies)
	}

	if roots == nil {
		return []*CommentNode{}
	}
	return roots
}

func sortRepliesOldestFirst(replies []*CommentNode) {
	sort.Slice(replies, func(i, j int) bool {
		if !replies[i].CreatedAt.Equal(replies[j].CreatedAt) {
			return replies[i].CreatedAt.Before(replies[j].CreatedAt)
		}
		return replies[i].ID < replies[j].ID
	})
}

// CountForest returns the number of comments reachable in the forest.
func CountForest(forest []*CommentNode) int {
	total := 0
	for _, node := range forest {
		total += 1 + CountForest(node.Replies)
	}
	return total
}
