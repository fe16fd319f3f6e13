package handlers

import (
	"net/http"

	"dreamtrack/internal/database"
	"dreamtrack/internal/models"
	"dreamtrack/internal/services"

	"github.com/gin-gonic/gin"
)

// ImageService is set at startup when Cloudinary is configured; cover upload
// returns 503 otherwise
var ImageService *services.ImageService

// CreateDream handles the creation of a new dream
func CreateDream(c *gin.Context) {
	accountID, ok := currentAccountID(c)
	if !ok {
		return
	}

	var request models.CreateDreamRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		handleError(c, http.StatusBadRequest, "Invalid input", err)
		return
	}

	dream := models.Dream{
		UserID:      accountID,
		Title:       request.Title,
		Description: request.Description,
	}

	db := database.GetDB()
	if err := db.Create(&dream).Error; err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to create dream", err)
		return
	}

	c.JSON(http.StatusCreated, dream)
}

// GetDreams lists the authenticated user's dreams with optional filters
func GetDreams(c *gin.Context) {
	accountID, ok := currentAccountID(c)
	if !ok {
		return
	}

	db := database.GetDB()
	query := db.Where("user_id = ?", accountID)

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if search := c.Query("q"); search != "" {
		query = query.Where("title ILIKE ?", "%"+search+"%")
	}

	var dreams []models.Dream
	if err := query.Order("created_at desc").Find(&dreams).Error; err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to list dreams", err)
		return
	}

	c.JSON(http.StatusOK, dreams)
}

// GetDream returns a single dream with its actions
func GetDream(c *gin.Context) {
	accountID, ok := currentAccountID(c)
	if !ok {
		return
	}

	db := database.GetDB()
	var dream models.Dream
	err := db.Preload("Actions").
		First(&dream, "id = ? AND user_id = ?", c.Param("id"), accountID).Error
	if err != nil {
		handleError(c, http.StatusNotFound, "Dream not found", err)
		return
	}

	c.JSON(http.StatusOK, dream)
}

// UpdateDream updates title, description, or status
func UpdateDream(c *gin.Context) {
	accountID, ok := currentAccountID(c)
	if !ok {
		return
	}

	var request models.UpdateDreamRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		handleError(c, http.StatusBadRequest, "Invalid input", err)
		return
	}

	db := database.GetDB()
	var dream models.Dream
	if err := db.First(&dream, "id = ? AND user_id = ?", c.Param("id"), accountID).Error; err != nil {
		handleError(c, http.StatusNotFound, "Dream not found", err)
		return
	}

	updates := map[string]interface{}{}
	if request.Title != nil {
		updates["title"] = *request.Title
	}
	if request.Description != nil {
		updates["description"] = *request.Description
	}
	if request.Status != nil {
		updates["status"] = *request.Status
	}
	if len(updates) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no fields to update"})
		return
	}

	if err := db.Model(&dream).Updates(updates).Error; err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to update dream", err)
		return
	}

	c.JSON(http.StatusOK, dream)
}

// DeleteDream soft-deletes a dream and its actions
func DeleteDream(c *gin.Context) {
	accountID, ok := currentAccountID(c)
	if !ok {
		return
	}

	db := database.GetDB()
	var dream models.Dream
	if err := db.First(&dream, "id = ? AND user_id = ?", c.Param("id"), accountID).Error; err != nil {
		handleError(c, http.StatusNotFound, "Dream not found", err)
		return
	}

	if err := db.Where("dream_id = ?", dream.ID).Delete(&models.Action{}).Error; err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to delete actions", err)
		return
	}
	if err := db.Delete(&dream).Error; err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to delete dream", err)
		return
	}

	c.Status(http.StatusNoContent)
}

// UploadDreamCover uploads a cover image for a dream
func UploadDreamCover(c *gin.Context) {
	accountID, ok := currentAccountID(c)
	if !ok {
		return
	}
	if ImageService == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "image uploads are not configured"})
		return
	}

	db := database.GetDB()
	var dream models.Dream
	if err := db.First(&dream, "id = ? AND user_id = ?", c.Param("id"), accountID).Error; err != nil {
		handleError(c, http.StatusNotFound, "Dream not found", err)
		return
	}

	fileHeader, err := c.FormFile("cover")
	if err != nil {
		handleError(c, http.StatusBadRequest, "Missing cover file", err)
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		handleError(c, http.StatusBadRequest, "Failed to read cover file", err)
		return
	}
	defer file.Close()

	if err := ImageService.ValidateImageFile(file, 5<<20); err != nil {
		handleError(c, http.StatusBadRequest, "Invalid image", err)
		return
	}

	url, err := ImageService.UploadDreamCover(file, fileHeader.Filename, dream.ID)
	if err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to upload cover", err)
		return
	}

	if err := db.Model(&dream).Update("cover_url", url).Error; err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to save cover URL", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"cover_url": url})
}
