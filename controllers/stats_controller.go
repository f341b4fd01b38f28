package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/inkpost/comments/models"
	"github.com/inkpost/comments/utils"
)

// StatsController reports usage statistics: entity counts and page views.
type StatsController struct {
	db *gorm.DB
}

// NewStatsController creates a new StatsController instance.
func NewStatsController(db *gorm.DB) *StatsController {
	return &StatsController{db: db}
}

// GetStats returns aggregate statistics across the site.
func (s *StatsController) GetStats(ctx *gin.Context) {
	if b, ok := utils.CacheGetBytes("cache:stats:site"); ok {
		ctx.Data(http.StatusOK, "application/json", b)
		return
	}

	var userCount, postCount, commentCount, guestbookCount, dailyViews int64

	// Individual count failures degrade to zero rather than failing the endpoint.
	if err := s.db.Model(&models.User{}).Count(&userCount).Error; err != nil {
		userCount = 0
	}
	if err := s.db.Model(&models.Post{}).Count(&postCount).Error; err != nil {
		postCount = 0
	}
	if err := s.db.Model(&models.Comment{}).Count(&commentCount).Error; err != nil {
		commentCount = 0
	}
	if err := s.db.Model(&models.GuestbookEntry{}).Count(&guestbookCount).Error; err != nil {
		guestbookCount = 0
	}

	// Today's views; string date equality avoids timezone mismatches with the DATE column.
	today := time.Now().In(time.Local).Format("2006-01-02")
	if err := s.db.Model(&models.PageView{}).
		Where("date = ?", today).
		Select("COALESCE(SUM(count),0)").
		Scan(&dailyViews).Error; err != nil {
		dailyViews = 0
	}

	payload := gin.H{
		"user_count":      userCount,
		"post_count":      postCount,
		"comment_count":   commentCount,
		"guestbook_count": guestbookCount,
		"daily_views":     dailyViews,
	}
	utils.CacheSetJSON("cache:stats:site", utils.JSONResponse{Code: 0, Message: "success", Data: payload}, 5*time.Minute)
	utils.Success(ctx, payload)
}

// GetPostStats returns view and comment counts for a given post id.
func (s *StatsController) GetPostStats(ctx *gin.Context) {
	id, err := parseID(ctx.Param("id"))
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40040, utils.KindValidationError, "invalid post id")
		return
	}

	var postCount int64
	if err := s.db.Model(&models.Post{}).Where("id = ?", id).Count(&postCount).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50040, utils.KindStorageFailure, "failed to load post")
		return
	}
	if postCount == 0 {
		utils.Error(ctx, http.StatusNotFound, 40430, utils.KindNotFound, "post not found")
		return
	}

	// Views: sum across all dates for both the detail and comment-list paths.
	var views int64
	paths := []string{
		"/api/v1/posts/" + ctx.Param("id"),
		"/api/v1/comments/post/" + ctx.Param("id"),
	}
	if err := s.db.Model(&models.PageView{}).
		Where("path IN ?", paths).
		Select("COALESCE(SUM(count),0)").
		Scan(&views).Error; err != nil {
		views = 0
	}

	var commentCount int64
	if err := s.db.Model(&models.Comment{}).Where("post_id = ?", id).Count(&commentCount).Error; err != nil {
		commentCount = 0
	}

	utils.Success(ctx, gin.H{
		"views":         views,
		"comment_count": commentCount,
	})
}
