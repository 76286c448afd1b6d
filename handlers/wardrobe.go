package handlers

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"tryrack-backend/ai"
	"tryrack-backend/dtos"
	"tryrack-backend/middleware"
	"tryrack-backend/models"
	"tryrack-backend/storage"
	"tryrack-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type WardrobeHandler struct {
	DB      *gorm.DB
	Storage storage.Client
	AI      ai.Client
}

// toJSON marshals a string slice into a JSON column value. A nil slice
// becomes an empty array rather than SQL NULL so clients always see [].
func toJSON(values []string) datatypes.JSON {
	if values == nil {
		values = []string{}
	}
	data, _ := json.Marshal(values)
	return datatypes.JSON(data)
}

func (h *WardrobeHandler) GetItems(c *gin.Context) {
	userID := middleware.UserID(c)

	query := h.DB.Where("user_id = ?", userID)

	if category := c.Query("category"); category != "" {
		query = query.Where("category = ?", category)
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	skip, _ := strconv.Atoi(c.DefaultQuery("skip", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	var items []models.WardrobeItem
	if err := query.Order("created_at DESC").Offset(skip).Limit(limit).Find(&items).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch wardrobe items"})
		return
	}

	c.JSON(http.StatusOK, items)
}

func (h *WardrobeHandler) GetItem(c *gin.Context) {
	userID := middleware.UserID(c)
	id := c.Param("id")

	var item models.WardrobeItem
	if err := h.DB.Where("id = ? AND user_id = ?", id, userID).First(&item).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Wardrobe item not found"})
		return
	}

	c.JSON(http.StatusOK, item)
}

func (h *WardrobeHandler) CreateItem(c *gin.Context) {
	userID := middleware.UserID(c)

	var req dtos.WardrobeItemCreate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	var user models.User
	if err := h.DB.First(&user, userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	imageOriginal := req.ImageOriginal
	imageClean := req.ImageClean

	// Data-URI images are uploaded to object storage before the item is
	// persisted; already-hosted URLs pass through untouched.
	if req.ImageOriginal != "" {
		if _, _, _, err := utils.ParseDataURI(req.ImageOriginal); err == nil {
			url, err := h.uploadDataURI(c, req.ImageOriginal, userID, "original")
			if err != nil {
				log.Printf("Failed to upload original image: %v", err)
				c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Image upload failed"})
				return
			}
			imageOriginal = url
		}
	}
	if req.ImageClean != "" {
		if _, _, _, err := utils.ParseDataURI(req.ImageClean); err == nil {
			url, err := h.uploadDataURI(c, req.ImageClean, userID, "clean")
			if err != nil {
				log.Printf("Failed to upload clean image: %v", err)
				imageClean = ""
			} else {
				imageClean = url
			}
		}
	}

	item := models.WardrobeItem{
		UserID:           userID,
		Title:            req.Title,
		Description:      req.Description,
		Category:         req.Category,
		Colors:           toJSON(req.Colors),
		Sizes:            toJSON(req.Sizes),
		Tags:             toJSON(req.Tags),
		Price:            req.Price,
		Formality:        req.Formality,
		Season:           req.Season,
		ImageOriginal:    imageOriginal,
		ImageClean:       imageClean,
		Status:           models.ItemStatusClean,
		ProcessingStatus: models.ProcessingStatusCompleted,
	}

	if err := h.DB.Create(&item).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create wardrobe item"})
		return
	}

	c.JSON(http.StatusCreated, item)
}

func (h *WardrobeHandler) UpdateItem(c *gin.Context) {
	userID := middleware.UserID(c)
	id := c.Param("id")

	var item models.WardrobeItem
	if err := h.DB.Where("id = ? AND user_id = ?", id, userID).First(&item).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Wardrobe item not found"})
		return
	}

	var req dtos.WardrobeItemUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	if req.Title != nil {
		item.Title = *req.Title
	}
	if req.Description != nil {
		item.Description = *req.Description
	}
	if req.Category != nil {
		item.Category = *req.Category
	}
	if req.Colors != nil {
		item.Colors = toJSON(*req.Colors)
	}
	if req.Sizes != nil {
		item.Sizes = toJSON(*req.Sizes)
	}
	if req.Tags != nil {
		item.Tags = toJSON(*req.Tags)
	}
	if req.Price != nil {
		item.Price = *req.Price
	}
	if req.Formality != nil {
		item.Formality = req.Formality
	}
	if req.Season != nil {
		item.Season = *req.Season
	}
	if req.ImageClean != nil {
		item.ImageClean = *req.ImageClean
	}

	if err := h.DB.Save(&item).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update wardrobe item"})
		return
	}

	c.JSON(http.StatusOK, item)
}

// applyStatus mutates the item's laundry status. Transitions into worn
// increment wear tracking; re-marking an already worn item does not.
func applyStatus(item *models.WardrobeItem, status string) {
	if status == models.ItemStatusWorn && item.Status != models.ItemStatusWorn {
		item.WearCount++
		now := time.Now()
		item.LastWornAt = &now
	}
	item.Status = status
}

func (h *WardrobeHandler) UpdateItemStatus(c *gin.Context) {
	userID := middleware.UserID(c)
	id := c.Param("id")

	var req dtos.ItemStatusUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	var item models.WardrobeItem
	if err := h.DB.Where("id = ? AND user_id = ?", id, userID).First(&item).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Wardrobe item not found"})
		return
	}

	applyStatus(&item, req.Status)

	if err := h.DB.Save(&item).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update status"})
		return
	}

	c.JSON(http.StatusOK, item)
}

func (h *WardrobeHandler) DeleteItem(c *gin.Context) {
	userID := middleware.UserID(c)
	id := c.Param("id")

	var item models.WardrobeItem
	if err := h.DB.Where("id = ? AND user_id = ?", id, userID).First(&item).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Wardrobe item not found"})
		return
	}

	if err := h.DB.Delete(&item).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete wardrobe item"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Wardrobe item deleted successfully"})
}

func (h *WardrobeHandler) uploadDataURI(c *gin.Context, dataURI string, userID uint, variant string) (string, error) {
	if h.Storage == nil {
		return "", fmt.Errorf("object storage not configured")
	}

	mime, ext, payload, err := utils.ParseDataURI(dataURI)
	if err != nil {
		return "", err
	}
	if !utils.AllowedImageMIMETypes[mime] {
		return "", fmt.Errorf("unsupported image type %s", mime)
	}

	key := fmt.Sprintf("wardrobe/%d/item_%s_%s.%s", userID, uuid.New().String(), variant, ext)
	return h.Storage.UploadBase64(c.Request.Context(), payload, key, mime)
}
