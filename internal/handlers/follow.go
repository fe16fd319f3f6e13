package handlers

import (
	"net/http"

	"dreamtrack/internal/database"
	"dreamtrack/internal/models"

	"github.com/gin-gonic/gin"
)

// FollowAccount makes the authenticated user follow another account
func FollowAccount(c *gin.Context) {
	accountID, ok := currentAccountID(c)
	if !ok {
		return
	}

	username := c.Param("username")
	db := database.GetDB()

	var followee models.Account
	if err := db.First(&followee, "username = ?", username).Error; err != nil {
		handleError(c, http.StatusNotFound, "Account not found", err)
		return
	}
	if followee.ID == accountID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot follow yourself"})
		return
	}

	follow := models.Follow{FollowerID: accountID, FolloweeID: followee.ID}
	if err := db.Where(&follow).FirstOrCreate(&follow).Error; err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to follow", err)
		return
	}

	c.JSON(http.StatusCreated, follow)
}

// UnfollowAccount removes a follow relationship
func UnfollowAccount(c *gin.Context) {
	accountID, ok := currentAccountID(c)
	if !ok {
		return
	}

	username := c.Param("username")
	db := database.GetDB()

	var followee models.Account
	if err := db.First(&followee, "username = ?", username).Error; err != nil {
		handleError(c, http.StatusNotFound, "Account not found", err)
		return
	}

	db.Where("follower_id = ? AND followee_id = ?", accountID, followee.ID).Delete(&models.Follow{})
	c.Status(http.StatusNoContent)
}

// GetFollowing lists accounts the authenticated user follows
func GetFollowing(c *gin.Context) {
	accountID, ok := currentAccountID(c)
	if !ok {
		return
	}

	db := database.GetDB()
	var accounts []models.Account
	err := db.
		Joins("JOIN follow ON follow.followee_id = account.id").
		Where("follow.follower_id = ?", accountID).
		Find(&accounts).Error
	if err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to list following", err)
		return
	}

	c.JSON(http.StatusOK, accounts)
}

// GetFollowers lists accounts following the authenticated user
func GetFollowers(c *gin.Context) {
	accountID, ok := currentAccountID(c)
	if !ok {
		return
	}

	db := database.GetDB()
	var accounts []models.Account
	err := db.
		Joins("JOIN follow ON follow.follower_id = account.id").
		Where("follow.followee_id = ?", accountID).
		Find(&accounts).Error
	if err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to list followers", err)
		return
	}

	c.JSON(http.StatusOK, accounts)
}
