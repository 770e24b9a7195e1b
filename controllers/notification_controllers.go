package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/lo-board/models"
	"github.com/yeremiapane/lo-board/utils"
	"gorm.io/gorm"
)

type NotificationController struct {
	DB *gorm.DB
}

func NewNotificationController(db *gorm.DB) *NotificationController {
	return &NotificationController{DB: db}
}

// GetAllNotifications lists fired LO alerts, newest first.
func (nc *NotificationController) GetAllNotifications(c *gin.Context) {
	var notifs []models.Notification
	if err := nc.DB.Order("fired_at DESC").Find(&notifs).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "All notifications", notifs)
}

// DeleteNotification clears one alert from the history.
func (nc *NotificationController) DeleteNotification(c *gin.Context) {
	idStr := c.Param("notif_id")
	id, _ := strconv.Atoi(idStr)

	if err := nc.DB.Delete(&models.Notification{}, id).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Notification deleted", gin.H{"notif_id": id})
}
