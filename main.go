package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/yeremiapane/lo-board/config"
	"github.com/yeremiapane/lo-board/models"
	"github.com/yeremiapane/lo-board/router"
	"github.com/yeremiapane/lo-board/services"
	"github.com/yeremiapane/lo-board/utils"
	"gorm.io/gorm"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found or error loading: %v", err)
	}

	utils.InitLogger()

	db, err := config.InitDB()
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to connect to database: %v", err)
	}

	ginMode := os.Getenv("GIN_MODE")
	if ginMode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	autoMigrate(db)

	// Provision the table master data on first boot only.
	if err := services.SeedTablesIfNeeded(db); err != nil {
		utils.ErrorLogger.Printf("Failed to seed tables: %v", err)
	}

	cfg := config.LoadBoardConfig()
	clock := services.SystemClock()

	// Local notifier: holds pending LO alerts and fires the due ones to
	// the board.
	notifier := services.NewNotificationService(db, clock, cfg.NotificationsEnabled)
	notifier.Start()
	defer notifier.Stop()

	// Minute tick re-evaluating LO phases for the live board.
	monitor := services.NewPhaseMonitor(db, clock)
	monitor.Start()
	defer monitor.Stop()

	r := router.SetupRouterWith(db, clock, notifier, cfg)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	utils.InfoLogger.Printf("Listening on port %s", port)
	if err := r.Run(":" + port); err != nil {
		utils.ErrorLogger.Fatal(err)
	}
}

func autoMigrate(db *gorm.DB) {
	err := db.AutoMigrate(
		&models.User{},
		&models.Table{},
		&models.Reservation{},
		&models.Notification{},
	)
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to AutoMigrate: %v", err)
	}
	utils.InfoLogger.Println("AutoMigrate completed.")
}
