package router

import (
	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/lo-board/config"
	"github.com/yeremiapane/lo-board/controllers"
	"github.com/yeremiapane/lo-board/middlewares"
	"github.com/yeremiapane/lo-board/services"
	"gorm.io/gorm"
)

// SetupRouter wires the board with default collaborators (system clock,
// local notifier). main and the tests that need a fixed clock or a fake
// notifier use SetupRouterWith.
func SetupRouter(db *gorm.DB) *gin.Engine {
	cfg := config.LoadBoardConfig()
	clock := services.SystemClock()
	notifier := services.NewNotificationService(db, clock, cfg.NotificationsEnabled)
	return SetupRouterWith(db, clock, notifier, cfg)
}

func SetupRouterWith(db *gorm.DB, clock services.Clock, notifier services.Notifier, cfg config.BoardConfig) *gin.Engine {
	r := gin.Default()

	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares())
	r.Use(middlewares.LoggerMiddleware())
	r.Use(middlewares.NewRateLimiter(50, 1).RateLimit())

	layout := services.NewTimelineLayout()
	layout.OpenHour = cfg.OpenHour
	layout.CloseHour = cfg.CloseHour

	planner := services.NewReminderPlanner(notifier)
	reservationSvc := services.NewReservationService(db, clock, planner)

	userCtrl := controllers.NewUserController(db)
	tableCtrl := controllers.NewTableController(db)
	reservationCtrl := controllers.NewReservationController(db, reservationSvc, planner, clock)
	timelineCtrl := controllers.NewTimelineController(db, reservationSvc, layout, clock)
	notificationCtrl := controllers.NewNotificationController(db)

	// ----------------------------------------------------------------
	//                      PUBLIC ROUTES
	// ----------------------------------------------------------------
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	public := r.Group("/")
	public.Use(middlewares.NewStrictRateLimiter())
	{
		public.POST("/register", userCtrl.Register)
		public.POST("/login", userCtrl.Login)
	}

	// Board WebSocket; token comes via query param from the browser.
	r.GET("/board/ws", middlewares.WSAuthMiddleware(), controllers.BoardHandler)

	// ----------------------------------------------------------------
	//                      PROTECTED ROUTES
	// ----------------------------------------------------------------
	protected := r.Group("/")
	protected.Use(middlewares.AuthMiddleware())
	{
		protected.GET("/tables", tableCtrl.GetAllTables)
		protected.POST("/tables", tableCtrl.CreateTable)
		protected.GET("/tables/:table_id", tableCtrl.GetTableByID)
		protected.PATCH("/tables/:table_id", tableCtrl.UpdateTable)
		protected.DELETE("/tables/:table_id", tableCtrl.DeleteTable)

		protected.GET("/reservations", reservationCtrl.GetAllReservations)
		protected.POST("/reservations", reservationCtrl.CreateReservation)
		protected.GET("/reservations/:reservation_id", reservationCtrl.GetReservationByID)
		protected.PATCH("/reservations/:reservation_id/checklist", reservationCtrl.UpdateChecklist)
		protected.DELETE("/reservations/:reservation_id", reservationCtrl.DeleteReservation)
		protected.GET("/reservations/:reservation_id/reminders", reservationCtrl.GetReservationReminders)
		protected.POST("/reservations/:reservation_id/drag", timelineCtrl.DragReservation)

		protected.GET("/timeline", timelineCtrl.GetTimeline)
		protected.GET("/dashboard/stats", reservationCtrl.GetDashboardStats)

		protected.GET("/notifications", notificationCtrl.GetAllNotifications)
		protected.DELETE("/notifications/:notif_id", notificationCtrl.DeleteNotification)
	}

	return r
}
