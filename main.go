package main

import (
	"github.com/inkpost/comments/config"
	"github.com/inkpost/comments/models"
	"github.com/inkpost/comments/routes"
	"github.com/inkpost/comments/utils"
)

func main() {
	cfg := config.Load()

	// Initialize logger early
	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}

	db := config.InitDatabase(&models.User{}, &models.Post{}, &models.Comment{}, &models.GuestbookEntry{}, &models.PageView{})

	r := routes.SetupRouter(db)

	utils.Sugar.Infof("Starting comment service on port %s (graceful)", cfg.AppPort)
	if err := utils.GraceServer(":"+cfg.AppPort, r); err != nil {
		utils.Sugar.Fatalf("server stopped with error: %v", err)
	}
}
