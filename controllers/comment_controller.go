package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/inkpost/comments/middleware"
	"github.com/inkpost/comments/models"
	"github.com/inkpost/comments/utils"
)

// CommentController serves the threaded comment endpoints: creation,
// retrieval as a forest, and cascading deletion.
type CommentController struct {
	store models.CommentStore
	// deleteWindow is how long anonymous comments stay deletable from their
	// origin address.
	deleteWindow time.Duration
	now          func() time.Time
}

// NewCommentController creates a CommentController over the given store.
func NewCommentController(store models.CommentStore, deleteWindow time.Duration) *CommentController {
	if deleteWindow <= 0 {
		deleteWindow = models.DefaultAnonDeleteWindow
	}
	return &CommentController{store: store, deleteWindow: deleteWindow, now: time.Now}
}

// createCommentRequest mirrors the wire shape comment clients send.
type createCommentRequest struct {
	PostID          uint   `json:"postId"`
	Content         string `json:"content"`
	AuthorName      string `json:"authorName"`
	AuthorEmail     string `json:"authorEmail"`
	ParentCommentID *uint  `json:"parentCommentId"`
}

// CreateComment accepts a new top-level comment or reply. Authentication is
// optional: identified callers get their account attached, anonymous callers
// must supply a display name. All checks run before anything is written.
func (cc *CommentController) CreateComment(ctx *gin.Context) {
	var req createCommentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40030, utils.KindValidationError, "invalid request payload")
		return
	}

	content := strings.TrimSpace(req.Content)
	if content == "" {
		utils.Error(ctx, http.StatusBadRequest, 40031, utils.KindValidationError, "comment content cannot be empty")
		return
	}
	if len([]rune(content)) > models.MaxCommentLength {
		utils.Error(ctx, http.StatusBadRequest, 40032, utils.KindValidationError, "comment too long")
		return
	}
	if req.PostID == 0 {
		utils.Error(ctx, http.StatusBadRequest, 40033, utils.KindValidationError, "postId is required")
		return
	}

	exists, err := cc.store.PostExists(req.PostID)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50030, utils.KindStorageFailure, "failed to verify post")
		return
	}
	if !exists {
		utils.Error(ctx, http.StatusNotFound, 40430, utils.KindNotFound, "post not found")
		return
	}

	if req.ParentCommentID != nil {
		parent, err := cc.store.FindByID(*req.ParentCommentID)
		if err != nil {
			if errors.Is(err, models.ErrCommentNotFound) {
				utils.Error(ctx, http.StatusNotFound, 40431, utils.KindNotFound, "parent comment not found")
				return
			}
			utils.Error(ctx, http.StatusInternalServerError, 50031, utils.KindStorageFailure, "failed to load parent comment")
			return
		}
		if parent.PostID != req.PostID {
			utils.Error(ctx, http.StatusBadRequest, 40034, utils.KindInvalidReference, "parent comment belongs to a different post")
			return
		}
	}

	var author models.CommentAuthor
	if userID, ok := middleware.UserIDFrom(ctx); ok {
		author = models.IdentifiedAuthor(userID)
	} else {
		author, err = models.AnonymousAuthor(req.AuthorName, req.AuthorEmail)
		if err != nil {
			utils.Error(ctx, http.StatusBadRequest, 40035, utils.KindValidationError, "please provide your name to post a comment")
			return
		}
	}

	comment, err := models.NewComment(req.PostID, utils.Sanitize(content), author, ctx.ClientIP(), req.ParentCommentID)
	if err != nil {
		// Sanitizing can strip a comment down to nothing, or inflate it past
		// the cap once entities are escaped.
		if errors.Is(err, models.ErrContentTooLong) {
			utils.Error(ctx, http.StatusBadRequest, 40032, utils.KindValidationError, "comment too long")
		} else {
			utils.Error(ctx, http.StatusBadRequest, 40031, utils.KindValidationError, "comment content cannot be empty")
		}
		return
	}

	if err := cc.store.Create(comment); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50032, utils.KindStorageFailure, "failed to create comment")
		return
	}

	// Reload so identified authors come back with display info attached.
	if comment.UserID != nil {
		if loaded, err := cc.store.FindByID(comment.ID); err == nil {
			comment = loaded
		}
	}

	utils.InvalidateByPrefix(commentCachePrefix(comment.PostID))

	utils.Created(ctx, gin.H{"comment": comment})
}

// ListComments returns the assembled comment forest for one post.
func (cc *CommentController) ListComments(ctx *gin.Context) {
	postID, err := parseID(ctx.Param("postId"))
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40036, utils.KindValidationError, "invalid post id")
		return
	}

	cacheKey := commentCachePrefix(postID)
	if b, ok := utils.CacheGetBytes(cacheKey); ok {
		ctx.Data(http.StatusOK, "application/json", b)
		return
	}

	exists, err := cc.store.PostExists(postID)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50033, utils.KindStorageFailure, "failed to verify post")
		return
	}
	if !exists {
		utils.Error(ctx, http.StatusNotFound, 40430, utils.KindNotFound, "post not found")
		return
	}

	comments, err := cc.store.FindByPost(postID)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50034, utils.KindStorageFailure, "failed to load comments")
		return
	}

	forest := models.BuildCommentForest(comments)
	payload := gin.H{
		"post_id":  postID,
		"total":    models.CountForest(forest),
		"comments": forest,
	}
	utils.CacheSetJSON(cacheKey, utils.JSONResponse{Code: 0, Message: "success", Data: payload}, time.Hour)
	utils.Success(ctx, payload)
}

// DeleteComment removes a comment and its whole reply subtree when the
// requester passes the authorization rule.
func (cc *CommentController) DeleteComment(ctx *gin.Context) {
	id, err := parseID(ctx.Param("id"))
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40037, utils.KindValidationError, "invalid comment id")
		return
	}

	comment, err := cc.store.FindByID(id)
	if err != nil {
		if errors.Is(err, models.ErrCommentNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40432, utils.KindNotFound, "comment not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50035, utils.KindStorageFailure, "failed to load comment")
		return
	}

	var requesterID *uint
	if userID, ok := middleware.UserIDFrom(ctx); ok {
		requesterID = &userID
	}
	if !models.CanDeleteComment(comment, requesterID, ctx.ClientIP(), cc.deleteWindow, cc.now()) {
		utils.Error(ctx, http.StatusForbidden, 40330, utils.KindPermissionDenied,
			"you can only delete your own comments, or comments posted from your address within the last few minutes")
		return
	}

	if err := models.DeleteCommentTree(cc.store, id); err != nil {
		if errors.Is(err, models.ErrCommentNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40432, utils.KindNotFound, "comment not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50036, utils.KindStorageFailure, "failed to delete comment")
		return
	}

	utils.InvalidateByPrefix(commentCachePrefix(comment.PostID))

	ctx.Status(http.StatusNoContent)
}

// commentCachePrefix is both the cache key for one post's forest and the
// invalidation prefix. The trailing delimiter keeps post 1 from matching
// post 10, 11, and so on.
func commentCachePrefix(postID uint) string {
	return "cache:comments:post:" + strconv.FormatUint(uint64(postID), 10) + ":"
}

func parseID(raw string) (uint, error) {
	n, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 32)
	if err != nil || n == 0 {
		return 0, errors.New("invalid id")
	}
	return uint(n), nil
}
