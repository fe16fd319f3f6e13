package handlers

import (
	"net/http"
	"strconv"

	"dreamtrack/internal/database"
	"dreamtrack/internal/models"

	"github.com/gin-gonic/gin"
)

// CreateJournalEntry records a new journal entry
func CreateJournalEntry(c *gin.Context) {
	accountID, ok := currentAccountID(c)
	if !ok {
		return
	}

	var request models.CreateJournalEntryRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		handleError(c, http.StatusBadRequest, "Invalid input", err)
		return
	}

	db := database.GetDB()
	if request.DreamID != nil {
		var dream models.Dream
		if err := db.First(&dream, "id = ? AND user_id = ?", *request.DreamID, accountID).Error; err != nil {
			handleError(c, http.StatusNotFound, "Dream not found", err)
			return
		}
	}

	entry := models.JournalEntry{
		UserID:  accountID,
		DreamID: request.DreamID,
		Body:    request.Body,
		Mood:    request.Mood,
	}
	if err := db.Create(&entry).Error; err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to create journal entry", err)
		return
	}

	c.JSON(http.StatusCreated, entry)
}

// GetJournalEntries lists journal entries, newest first, paginated
func GetJournalEntries(c *gin.Context) {
	accountID, ok := currentAccountID(c)
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if limit < 1 || limit > 100 {
		limit = 20
	}
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if offset < 0 {
		offset = 0
	}

	db := database.GetDB()
	query := db.Where("user_id = ?", accountID)
	if dreamID := c.Query("dream_id"); dreamID != "" {
		query = query.Where("dream_id = ?", dreamID)
	}

	var entries []models.JournalEntry
	if err := query.Order("created_at desc").Limit(limit).Offset(offset).Find(&entries).Error; err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to list journal entries", err)
		return
	}

	c.JSON(http.StatusOK, entries)
}

// DeleteJournalEntry soft-deletes a journal entry
func DeleteJournalEntry(c *gin.Context) {
	accountID, ok := currentAccountID(c)
	if !ok {
		return
	}

	db := database.GetDB()
	result := db.Where("id = ? AND user_id = ?", c.Param("id"), accountID).Delete(&models.JournalEntry{})
	if result.Error != nil {
		handleError(c, http.StatusInternalServerError, "Failed to delete journal entry", result.Error)
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Journal entry not found"})
		return
	}

	c.Status(http.StatusNoContent)
}
