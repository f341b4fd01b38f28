package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/inkpost/comments/models"
	"github.com/inkpost/comments/utils"
)

// PostController exposes the read-only post surface this service needs.
// Authoring posts is another system's job; comments only require that the
// referenced post can be looked up.
type PostController struct {
	db *gorm.DB
}

// NewPostController creates a new PostController instance.
func NewPostController(db *gorm.DB) *PostController {
	return &PostController{db: db}
}

// GetPost returns a single post with its author.
func (p *PostController) GetPost(ctx *gin.Context) {
	id, err := parseID(ctx.Param("id"))
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40060, utils.KindValidationError, "invalid post id")
		return
	}

	cacheKey := "cache:post:detail:" + ctx.Param("id")
	if b, ok := utils.CacheGetBytes(cacheKey); ok {
		ctx.Data(http.StatusOK, "application/json", b)
		return
	}

	var post models.Post
	if err := p.db.Preload("User").First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40430, utils.KindNotFound, "post not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50060, utils.KindStorageFailure, "failed to load post")
		return
	}

	payload := gin.H{"post": post}
	utils.CacheSetJSON(cacheKey, utils.JSONResponse{Code: 0, Message: "success", Data: payload}, time.Hour)
	utils.Success(ctx, payload)
}
