package handlers

import (
	"net/http"

	"dreamtrack/internal/database"
	"dreamtrack/internal/models"

	"github.com/gin-gonic/gin"
)

// GetNotifications lists the user's in-app notification feed, newest first
func GetNotifications(c *gin.Context) {
	accountID, ok := currentAccountID(c)
	if !ok {
		return
	}

	db := database.GetDB()
	query := db.Where("user_id = ?", accountID)
	if c.Query("unread") == "true" {
		query = query.Where("read = ?", false)
	}

	var notifications []models.Notification
	if err := query.Order("created_at desc").Limit(50).Find(&notifications).Error; err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to list notifications", err)
		return
	}

	c.JSON(http.StatusOK, notifications)
}

// MarkNotificationsRead marks all of the user's notifications as read
func MarkNotificationsRead(c *gin.Context) {
	accountID, ok := currentAccountID(c)
	if !ok {
		return
	}

	db := database.GetDB()
	result := db.Model(&models.Notification{}).
		Where("user_id = ? AND read = ?", accountID, false).
		Update("read", true)
	if result.Error != nil {
		handleError(c, http.StatusInternalServerError, "Failed to mark notifications read", result.Error)
		return
	}

	c.JSON(http.StatusOK, gin.H{"marked": result.RowsAffected})
}
