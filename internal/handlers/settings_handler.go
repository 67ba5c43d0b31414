package handlers

import (
	"net/http"

	"stationery-admin/internal/database"
	"stationery-admin/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm/clause"
)

// --- GET: All settings as a key/value map ---
func GetSettings(c *gin.Context) {
	var settings []models.Setting
	if err := database.DB.Find(&settings).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch settings"})
		return
	}

	out := make(map[string]string, len(settings))
	for _, s := range settings {
		out[s.Key] = s.Value
	}
	c.JSON(http.StatusOK, out)
}

// --- PUT: Upsert settings ---
// Accepts a flat key/value map and writes each pair, inserting or updating
// as needed.
func UpdateSettings(c *gin.Context) {
	var input map[string]string
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	if len(input) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No settings provided"})
		return
	}

	for key, value := range input {
		setting := models.Setting{Key: key, Value: value}
		err := database.DB.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value"}),
		}).Create(&setting).Error
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save setting " + key})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"message": "Settings saved"})
}
