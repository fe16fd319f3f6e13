package handlers

import (
	"log"
	"net/http"

	"dreamtrack/internal/database"
	"dreamtrack/internal/models"
	"dreamtrack/internal/utils"

	"github.com/gin-gonic/gin"
)

// GetCurrentAccount returns the authenticated user's account
func GetCurrentAccount(c *gin.Context) {
	accountID, ok := currentAccountID(c)
	if !ok {
		return
	}

	db := database.GetDB()
	var account models.Account
	if err := db.First(&account, "id = ?", accountID).Error; err != nil {
		handleError(c, http.StatusNotFound, "Account not found", err)
		return
	}

	c.JSON(http.StatusOK, account)
}

// GetAccount returns a public view of an account by username
func GetAccount(c *gin.Context) {
	username := c.Param("username")

	db := database.GetDB()
	var account models.Account
	if err := db.First(&account, "username = ?", username).Error; err != nil {
		handleError(c, http.StatusNotFound, "Account not found", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":         account.ID,
		"username":   account.Username,
		"avatar_url": account.AvatarURL,
		"created_at": account.CreatedAt,
	})
}

// CreateProfile sets the username chosen during first login
func CreateProfile(c *gin.Context) {
	accountID, ok := currentAccountID(c)
	if !ok {
		return
	}

	var request models.CreateProfileRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		handleError(c, http.StatusBadRequest, "Invalid input", err)
		return
	}

	db := database.GetDB()
	result := db.Model(&models.Account{}).
		Where("id = ?", accountID).
		Update("username", request.Username)
	if result.Error != nil {
		handleError(c, http.StatusConflict, "Username already taken", result.Error)
		return
	}

	log.Printf("Profile created for %s from %s", accountID, utils.GetRealClientIP(c))
	c.JSON(http.StatusOK, gin.H{"username": request.Username})
}

// UpdateAccount updates reminder delivery settings
func UpdateAccount(c *gin.Context) {
	accountID, ok := currentAccountID(c)
	if !ok {
		return
	}

	var request models.UpdateAccountRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		handleError(c, http.StatusBadRequest, "Invalid input", err)
		return
	}

	updates := map[string]interface{}{}
	if request.WhatsAppNumber != nil {
		updates["whats_app_number"] = *request.WhatsAppNumber
	}
	if request.EmailReminders != nil {
		updates["email_reminders"] = *request.EmailReminders
	}
	if request.WhatsAppReminders != nil {
		updates["whats_app_reminders"] = *request.WhatsAppReminders
	}
	if len(updates) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no fields to update"})
		return
	}

	db := database.GetDB()
	if err := db.Model(&models.Account{}).Where("id = ?", accountID).Updates(updates).Error; err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to update account", err)
		return
	}

	var account models.Account
	if err := db.First(&account, "id = ?", accountID).Error; err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to reload account", err)
		return
	}
	c.JSON(http.StatusOK, account)
}
