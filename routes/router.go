package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/inkpost/comments/config"
	"github.com/inkpost/comments/controllers"
	"github.com/inkpost/comments/middleware"
	"github.com/inkpost/comments/models"
	"github.com/inkpost/comments/utils"
)

// SetupRouter wires routes, middlewares, and controllers.
func SetupRouter(db *gorm.DB) *gin.Engine {
	cfg := config.Get()
	switch strings.ToLower(cfg.GinMode) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.RequestID())
	// Access logs go to their own rolling file through zap.
	gl, err := utils.NewRollingFileLogger(cfg.GinPath, cfg.LogLevel, cfg.LogMaxSizeMB, cfg.LogMaxBackups, cfg.LogMaxAgeDays, cfg.LogCompress)
	if err == nil {
		r.Use(utils.Ginzap(gl, time.RFC3339, true))
		r.Use(utils.RecoveryWithZap(gl, false))
	} else {
		// fallback to default recovery if logger failed to init
		r.Use(gin.Recovery())
	}

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	r.Use(cors.New(corsCfg))

	// Record content views after each request
	r.Use(middleware.PageViewRecorder(db))

	r.GET("/health", func(ctx *gin.Context) {
		utils.Success(ctx, gin.H{"status": "ok"})
	})

	window := time.Duration(cfg.RateLimitWindowMinutes) * time.Minute
	createGate := middleware.NewOpLimiter(cfg.CommentCreateLimit, window)
	deleteGate := middleware.NewOpLimiter(cfg.CommentDeleteLimit, window)
	// Same limits as comment creation, but a separate budget: guestbook
	// traffic must not drain the comment window.
	guestbookGate := middleware.NewOpLimiter(cfg.CommentCreateLimit, window)

	commentStore := models.NewCommentStore(db)
	commentController := controllers.NewCommentController(commentStore, time.Duration(cfg.AnonDeleteWindowMinutes)*time.Minute)
	authController := controllers.NewAuthController(db)
	postController := controllers.NewPostController(db)
	statsController := controllers.NewStatsController(db)
	guestbookController := controllers.NewGuestbookController(db)

	api := r.Group("/api/v1")

	authGroup := api.Group("/auth")
	authGroup.POST("/register", authController.Register)
	authGroup.POST("/login", authController.Login)
	authGroup.POST("/logout", middleware.AuthRequired(), authController.Logout)
	authGroup.GET("/me", middleware.AuthRequired(), authController.Me)

	commentsGroup := api.Group("/comments")
	commentsGroup.Use(middleware.AuthOptional())
	commentsGroup.POST("",
		middleware.RateGate(createGate, "you have exceeded the comment rate limit, please try again later"),
		commentController.CreateComment)
	commentsGroup.GET("/post/:postId", commentController.ListComments)
	commentsGroup.DELETE("/:id",
		middleware.RateGate(deleteGate, "you have exceeded the deletion rate limit, please try again later"),
		commentController.DeleteComment)

	api.GET("/posts/:id", postController.GetPost)
	api.GET("/posts/:id/stats", statsController.GetPostStats)
	api.GET("/stats", statsController.GetStats)

	guestbookGroup := api.Group("/guestbook")
	guestbookGroup.GET("", guestbookController.ListEntries)
	guestbookGroup.POST("",
		middleware.RateGate(guestbookGate, "you have exceeded the guestbook rate limit, please try again later"),
		guestbookController.CreateEntry)

	r.NoRoute(func(ctx *gin.Context) {
		utils.Error(ctx, http.StatusNotFound, 40400, utils.KindNotFound, "route not found")
	})

	return r
}
