package handlers

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"tryrack-backend/ai"
	"tryrack-backend/dtos"
	"tryrack-backend/imaging"
	"tryrack-backend/middleware"
	"tryrack-backend/models"
	"tryrack-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ProcessImage accepts a base64 data-URI image, stores the original,
// creates a provisional wardrobe item in pending state and starts the AI
// pipeline in the background. The response carries the processing id the
// client polls via GET /wardrobe/:id.
func (h *WardrobeHandler) ProcessImage(c *gin.Context) {
	userID := middleware.UserID(c)

	var req dtos.ProcessImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	if h.AI == nil || h.Storage == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "AI processing is not configured"})
		return
	}

	mime, _, payload, err := utils.ParseDataURI(req.Image)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid data URL format"})
		return
	}
	if !utils.AllowedImageMIMETypes[mime] {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Unsupported image type %s", mime)})
		return
	}

	var user models.User
	if err := h.DB.First(&user, userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	// Oversized camera frames are downscaled once here; both the stored
	// original and the AI calls use the normalized payload.
	normalized, err := imaging.NormalizeBase64(payload)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Could not decode image"})
		return
	}

	key := fmt.Sprintf("wardrobe/%d/item_%s_original.jpg", userID, uuid.New().String())
	originalURL, err := h.Storage.UploadBase64(c.Request.Context(), normalized, key, "image/jpeg")
	if err != nil {
		log.Printf("Failed to upload original image: %v", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Image upload failed"})
		return
	}

	item := models.WardrobeItem{
		UserID:           userID,
		Colors:           toJSON(nil),
		Sizes:            toJSON(nil),
		Tags:             toJSON(nil),
		ImageOriginal:    originalURL,
		Status:           models.ItemStatusClean,
		ProcessingStatus: models.ProcessingStatusPending,
	}

	if err := h.DB.Create(&item).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create processing record"})
		return
	}

	processor := &ai.Processor{DB: h.DB, Storage: h.Storage, AI: h.AI}
	go processor.Process(context.Background(), item.ID, userID, normalized)

	c.JSON(http.StatusAccepted, dtos.ProcessImageResponse{
		ProcessingID:     item.ID,
		ImageOriginal:    originalURL,
		ProcessingStatus: item.ProcessingStatus,
	})
}

// BatchUpdateStatus applies one status change to several items, reporting
// per-item failures without aborting the rest. Partial failure is a 200
// with a populated errors list, not an error response.
func (h *WardrobeHandler) BatchUpdateStatus(c *gin.Context) {
	userID := middleware.UserID(c)

	var req dtos.BatchStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	resp := dtos.BatchStatusResponse{
		UpdatedItems:   []uint{},
		TotalRequested: len(req.ItemIDs),
	}

	for _, itemID := range req.ItemIDs {
		var item models.WardrobeItem
		if err := h.DB.Where("id = ? AND user_id = ?", itemID, userID).First(&item).Error; err != nil {
			resp.Errors = append(resp.Errors, dtos.BatchItemError{
				ItemID: itemID,
				Error:  "Wardrobe item not found",
			})
			continue
		}

		applyStatus(&item, req.Status)

		if err := h.DB.Save(&item).Error; err != nil {
			resp.Errors = append(resp.Errors, dtos.BatchItemError{
				ItemID: itemID,
				Error:  "Failed to update status",
			})
			continue
		}

		resp.UpdatedItems = append(resp.UpdatedItems, itemID)
	}

	resp.TotalUpdated = len(resp.UpdatedItems)
	c.JSON(http.StatusOK, resp)
}
