package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/inkpost/comments/models"
	"github.com/inkpost/comments/utils"
)

// GuestbookController serves the flat site-wide guestbook. Entries follow the
// comment content rules but have no post, no threading, and no deletion.
type GuestbookController struct {
	db *gorm.DB
}

// NewGuestbookController creates a new GuestbookController instance.
func NewGuestbookController(db *gorm.DB) *GuestbookController {
	return &GuestbookController{db: db}
}

// CreateEntry appends a guestbook entry.
func (g *GuestbookController) CreateEntry(ctx *gin.Context) {
	var req struct {
		Content    string `json:"content"`
		AuthorName string `json:"authorName"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40050, utils.KindValidationError, "invalid request payload")
		return
	}

	content := utils.Sanitize(strings.TrimSpace(req.Content))
	if content == "" {
		utils.Error(ctx, http.StatusBadRequest, 40051, utils.KindValidationError, "content cannot be empty")
		return
	}
	if len([]rune(content)) > models.MaxCommentLength {
		utils.Error(ctx, http.StatusBadRequest, 40052, utils.KindValidationError, "entry too long")
		return
	}

	entry := models.GuestbookEntry{
		Content:    content,
		AuthorName: strings.TrimSpace(req.AuthorName),
	}
	if err := g.db.Create(&entry).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50050, utils.KindStorageFailure, "failed to create entry")
		return
	}

	utils.Created(ctx, gin.H{"entry": entry})
}

// ListEntries returns paginated guestbook entries, newest first.
func (g *GuestbookController) ListEntries(ctx *gin.Context) {
	page, pageSize := parsePagination(ctx.Query("page"), ctx.Query("page_size"))

	var entries []models.GuestbookEntry
	var total int64
	if err := g.db.Model(&models.GuestbookEntry{}).Count(&total).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50051, utils.KindStorageFailure, "failed to count entries")
		return
	}
	if err := g.db.Order("created_at DESC").Offset((page - 1) * pageSize).Limit(pageSize).Find(&entries).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50052, utils.KindStorageFailure, "failed to list entries")
		return
	}

	utils.Success(ctx, gin.H{
		"items": entries,
		"pagination": gin.H{
			"page":        page,
			"page_size":   pageSize,
			"total":       total,
			"total_pages": int((total + int64(pageSize) - 1) / int64(pageSize)),
		},
	})
}

func parsePagination(pageRaw, sizeRaw string) (int, int) {
	page, pageSize := 1, 20
	if v := strings.TrimSpace(pageRaw); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			page = n
		}
	}
	if v := strings.TrimSpace(sizeRaw); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 100 {
			pageSize = n
		}
	}
	return page, pageSize
}
