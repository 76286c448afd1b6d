package handlers

import (
	"net/http"

	"tryrack-backend/insights"
	"tryrack-backend/middleware"
	"tryrack-backend/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type InsightsHandler struct {
	DB *gorm.DB
}

// GetStyleInsights returns wardrobe analytics for the current user:
// style preferences, color palette, category distribution, average
// formality and style evolution. An empty wardrobe yields empty insights
// rather than an error.
func (h *InsightsHandler) GetStyleInsights(c *gin.Context) {
	userID := middleware.UserID(c)

	var items []models.WardrobeItem
	if err := h.DB.Where("user_id = ?", userID).Limit(1000).Find(&items).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to calculate style insights"})
		return
	}

	if len(items) == 0 {
		c.JSON(http.StatusOK, insights.EmptyInsights())
		return
	}

	c.JSON(http.StatusOK, insights.Calculate(items))
}

// GetCompatibleItems suggests wardrobe items that pair with the given
// item, scored by category rules, color theory and style tags.
func (h *InsightsHandler) GetCompatibleItems(c *gin.Context) {
	userID := middleware.UserID(c)
	id := c.Param("id")

	var item models.WardrobeItem
	if err := h.DB.Where("id = ? AND user_id = ?", id, userID).First(&item).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Wardrobe item not found"})
		return
	}

	var wardrobe []models.WardrobeItem
	if err := h.DB.Where("user_id = ? AND id <> ?", userID, item.ID).Find(&wardrobe).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch wardrobe items"})
		return
	}

	matches := insights.CompatibleItems(
		item.Category,
		insights.StringList(item.Colors),
		insights.StringList(item.Tags),
		wardrobe,
	)

	c.JSON(http.StatusOK, gin.H{"compatible_items": matches})
}
