package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"tryrack-backend/ai"
	"tryrack-backend/dtos"
	"tryrack-backend/imaging"
	"tryrack-backend/middleware"
	"tryrack-backend/models"
	"tryrack-backend/storage"
	"tryrack-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TryOnHandler struct {
	DB      *gorm.DB
	Storage storage.Client
	AI      ai.Client
}

// CreateTryOn accepts a user photo plus wardrobe item ids, records a
// pending try-on and generates the composite image in the background.
func (h *TryOnHandler) CreateTryOn(c *gin.Context) {
	userID := middleware.UserID(c)

	var req dtos.TryOnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	if h.AI == nil || h.Storage == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Virtual try-on is not configured"})
		return
	}

	mime, _, payload, err := utils.ParseDataURI(req.UserImage)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid data URL format"})
		return
	}
	if !utils.AllowedImageMIMETypes[mime] {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Unsupported image type %s", mime)})
		return
	}

	// The first item drives the render; remaining ids are recorded for
	// display but multi-garment composition is a single sequential pass.
	var item models.WardrobeItem
	if err := h.DB.Where("id = ? AND user_id = ?", req.ItemIDs[0], userID).First(&item).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Wardrobe item not found"})
		return
	}

	userB64, err := imaging.NormalizeBase64(payload)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Could not decode user image"})
		return
	}

	userKey := fmt.Sprintf("virtual-tryon/%d/user_%s.jpg", userID, uuid.New().String())
	userImageURL, err := h.Storage.UploadBase64(c.Request.Context(), userB64, userKey, "image/jpeg")
	if err != nil {
		log.Printf("Failed to upload user image: %v", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Image upload failed"})
		return
	}

	itemIDsJSON, _ := json.Marshal(req.ItemIDs)
	record := models.TryOnResult{
		UserID:       userID,
		ItemIDs:      itemIDsJSON,
		UserImageURL: userImageURL,
		Status:       models.TryOnStatusPending,
	}

	if err := h.DB.Create(&record).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create try-on record"})
		return
	}

	go h.processTryOn(record.ID, userID, userB64, item, req.UseCleanBackground)

	c.JSON(http.StatusAccepted, dtos.TryOnAccepted{
		TryOnID: record.ID,
		Status:  record.Status,
	})
}

// processTryOn is the background worker for one try-on generation. Any
// failure marks the record failed with a bounded error message; it never
// crashes the request path.
func (h *TryOnHandler) processTryOn(tryOnID, userID uint, userB64 string, item models.WardrobeItem, cleanBackground bool) {
	ctx := context.Background()

	fail := func(reason string) {
		if len(reason) > 500 {
			reason = reason[:500]
		}
		h.DB.Model(&models.TryOnResult{}).Where("id = ?", tryOnID).
			Updates(map[string]interface{}{
				"status":        models.TryOnStatusFailed,
				"error_message": reason,
			})
		log.Printf("Virtual try-on %d failed: %s", tryOnID, reason)
	}

	if err := h.DB.Model(&models.TryOnResult{}).Where("id = ?", tryOnID).
		Update("status", models.TryOnStatusProcessing).Error; err != nil {
		log.Printf("Failed to mark try-on %d as processing: %v", tryOnID, err)
		return
	}

	// Prefer the clean cut-out of the garment when the pipeline produced one.
	itemImageURL := item.ImageClean
	if itemImageURL == "" {
		itemImageURL = item.ImageOriginal
	}
	if itemImageURL == "" {
		fail("wardrobe item has no image")
		return
	}

	itemB64, err := h.Storage.FetchBase64(ctx, itemImageURL)
	if err != nil {
		fail(fmt.Sprintf("fetching item image: %v", err))
		return
	}

	var colors []string
	if len(item.Colors) > 0 {
		json.Unmarshal(item.Colors, &colors)
	}

	resultB64, err := h.AI.GenerateTryOn(ctx, userB64, itemB64, item.Category, colors, cleanBackground)
	if err != nil {
		fail(fmt.Sprintf("generating try-on: %v", err))
		return
	}

	resultKey := fmt.Sprintf("virtual-tryon/%d/tryon_%d_result.png", userID, tryOnID)
	resultURL, err := h.Storage.UploadBase64(ctx, resultB64, resultKey, "image/png")
	if err != nil {
		fail(fmt.Sprintf("uploading result: %v", err))
		return
	}

	if err := h.DB.Model(&models.TryOnResult{}).Where("id = ?", tryOnID).
		Updates(map[string]interface{}{
			"status":           models.TryOnStatusCompleted,
			"result_image_url": resultURL,
		}).Error; err != nil {
		log.Printf("Failed to complete try-on %d: %v", tryOnID, err)
		return
	}

	log.Printf("Virtual try-on %d completed", tryOnID)
}

func (h *TryOnHandler) GetTryOns(c *gin.Context) {
	userID := middleware.UserID(c)

	var results []models.TryOnResult
	if err := h.DB.Where("user_id = ?", userID).Order("created_at DESC").Find(&results).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch try-ons"})
		return
	}

	c.JSON(http.StatusOK, results)
}

func (h *TryOnHandler) GetTryOn(c *gin.Context) {
	userID := middleware.UserID(c)
	id := c.Param("id")

	var result models.TryOnResult
	if err := h.DB.Where("id = ? AND user_id = ?", id, userID).First(&result).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Try-on not found"})
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *TryOnHandler) DeleteTryOn(c *gin.Context) {
	userID := middleware.UserID(c)
	id := c.Param("id")

	var result models.TryOnResult
	if err := h.DB.Where("id = ? AND user_id = ?", id, userID).First(&result).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Try-on not found"})
		return
	}

	if err := h.DB.Delete(&result).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete try-on"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Try-on deleted successfully"})
}
