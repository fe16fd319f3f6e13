package handlers

import (
	"net/http"
	"time"

	"dreamtrack/internal/countdown"
	"dreamtrack/internal/database"
	"dreamtrack/internal/models"

	"github.com/gin-gonic/gin"
)

// CreateAction handles the creation of a new action under a dream
func CreateAction(c *gin.Context) {
	accountID, ok := currentAccountID(c)
	if !ok {
		return
	}

	var request models.CreateActionRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		handleError(c, http.StatusBadRequest, "Invalid input", err)
		return
	}

	db := database.GetDB()
	var dream models.Dream
	if err := db.First(&dream, "id = ? AND user_id = ?", request.DreamID, accountID).Error; err != nil {
		handleError(c, http.StatusNotFound, "Dream not found", err)
		return
	}
	if dream.IsArchived() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot add actions to an archived dream"})
		return
	}

	action := models.Action{
		DreamID:  dream.ID,
		UserID:   accountID,
		Text:     request.Text,
		Reminder: request.Reminder,
	}
	if err := db.Create(&action).Error; err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to create action", err)
		return
	}

	c.JSON(http.StatusCreated, action)
}

// GetActions lists the authenticated user's actions, optionally only those
// with pending reminders
func GetActions(c *gin.Context) {
	accountID, ok := currentAccountID(c)
	if !ok {
		return
	}

	db := database.GetDB()
	query := db.Where("user_id = ?", accountID)

	if dreamID := c.Query("dream_id"); dreamID != "" {
		query = query.Where("dream_id = ?", dreamID)
	}
	if c.Query("with_reminder") == "true" {
		query = query.Where("reminder IS NOT NULL AND reminder_sent_at IS NULL AND is_completed = ?", false)
	}

	var actions []models.Action
	if err := query.Order("created_at desc").Find(&actions).Error; err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to list actions", err)
		return
	}

	c.JSON(http.StatusOK, actions)
}

// UpdateAction updates an action. The reminder_sent_at flag is a historical
// fact owned by the reminder sweep: it is never written here, so changing
// the reminder on an already-notified action does not re-arm the sweep.
func UpdateAction(c *gin.Context) {
	accountID, ok := currentAccountID(c)
	if !ok {
		return
	}

	var request models.UpdateActionRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		handleError(c, http.StatusBadRequest, "Invalid input", err)
		return
	}

	db := database.GetDB()
	var action models.Action
	if err := db.First(&action, "id = ? AND user_id = ?", c.Param("id"), accountID).Error; err != nil {
		handleError(c, http.StatusNotFound, "Action not found", err)
		return
	}

	updates := map[string]interface{}{}
	if request.Text != nil {
		updates["text"] = *request.Text
	}
	if request.ClearReminder {
		updates["reminder"] = nil
	} else if request.Reminder != nil {
		updates["reminder"] = *request.Reminder
	}
	if request.IsCompleted != nil {
		updates["is_completed"] = *request.IsCompleted
	}
	if request.Status != nil {
		updates["status"] = *request.Status
	}
	if len(updates) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no fields to update"})
		return
	}

	if err := db.Model(&action).Updates(updates).Error; err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to update action", err)
		return
	}

	c.JSON(http.StatusOK, action)
}

// DeleteAction soft-deletes an action
func DeleteAction(c *gin.Context) {
	accountID, ok := currentAccountID(c)
	if !ok {
		return
	}

	db := database.GetDB()
	result := db.Where("id = ? AND user_id = ?", c.Param("id"), accountID).Delete(&models.Action{})
	if result.Error != nil {
		handleError(c, http.StatusInternalServerError, "Failed to delete action", result.Error)
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Action not found"})
		return
	}

	c.Status(http.StatusNoContent)
}

// GetActionCountdown returns the live countdown label for an action's
// reminder plus the delay until the label could next change, so clients can
// re-poll exactly at the boundary instead of on an interval
func GetActionCountdown(c *gin.Context) {
	accountID, ok := currentAccountID(c)
	if !ok {
		return
	}

	db := database.GetDB()
	var action models.Action
	if err := db.First(&action, "id = ? AND user_id = ?", c.Param("id"), accountID).Error; err != nil {
		handleError(c, http.StatusNotFound, "Action not found", err)
		return
	}

	now := time.Now()
	label := countdown.Format(action.Reminder, now)
	if label == nil {
		c.JSON(http.StatusOK, gin.H{"countdown": nil})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"countdown":      label,
		"state":          action.ReminderStateAt(now),
		"next_change_ms": countdown.NextTickDelay(*action.Reminder, now).Milliseconds(),
	})
}
