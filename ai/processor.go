package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"tryrack-backend/dtos"
	"tryrack-backend/models"
	"tryrack-backend/storage"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Processor runs the AI pipeline for one submitted image: background
// removal, attribute suggestion, and status bookkeeping on the
// provisional wardrobe item.
type Processor struct {
	DB      *gorm.DB
	Storage storage.Client
	AI      Client
}

// Process drives the item through pending -> processing -> completed or
// failed. It is meant to run in its own goroutine after the submission
// endpoint has returned 202. itemB64 is the normalized base64 payload of
// the submitted image. If the item is deleted mid-flight the pipeline
// aborts silently; the poller treats the 404 as its terminal signal.
func (p *Processor) Process(ctx context.Context, itemID, userID uint, itemB64 string) {
	if err := p.setProcessingStatus(itemID, models.ProcessingStatusProcessing); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("Item %d deleted before processing started, aborting", itemID)
			return
		}
		log.Printf("Failed to mark item %d as processing: %v", itemID, err)
		return
	}

	cleanURL, suggestions, err := p.run(ctx, itemID, userID, itemB64)
	if err != nil {
		log.Printf("AI processing failed for item %d: %v", itemID, err)
		if serr := p.setProcessingStatus(itemID, models.ProcessingStatusFailed); serr != nil && !errors.Is(serr, gorm.ErrRecordNotFound) {
			log.Printf("Failed to mark item %d as failed: %v", itemID, serr)
		}
		return
	}

	suggestionsJSON, err := json.Marshal(suggestions)
	if err != nil {
		log.Printf("Failed to marshal suggestions for item %d: %v", itemID, err)
		p.setProcessingStatus(itemID, models.ProcessingStatusFailed)
		return
	}

	// Suggestions are written exactly once, in the same update that flips
	// the status to completed.
	result := p.DB.Model(&models.WardrobeItem{}).
		Where("id = ?", itemID).
		Updates(map[string]interface{}{
			"processing_status": models.ProcessingStatusCompleted,
			"ai_suggestions":    datatypes.JSON(suggestionsJSON),
			"image_clean":       cleanURL,
		})
	if result.Error != nil {
		log.Printf("Failed to complete item %d: %v", itemID, result.Error)
		return
	}
	if result.RowsAffected == 0 {
		log.Printf("Item %d deleted during processing, result discarded", itemID)
		return
	}

	log.Printf("AI processing completed for item %d", itemID)
}

func (p *Processor) run(ctx context.Context, itemID, userID uint, itemB64 string) (string, *dtos.AISuggestions, error) {
	cleanB64, err := p.AI.RemoveBackground(ctx, itemB64)
	if err != nil {
		return "", nil, fmt.Errorf("background removal: %w", err)
	}

	objectKey := fmt.Sprintf("wardrobe/%d/item_%d_clean.png", userID, itemID)
	cleanURL, err := p.Storage.UploadBase64(ctx, cleanB64, objectKey, "image/png")
	if err != nil {
		return "", nil, fmt.Errorf("uploading clean image: %w", err)
	}

	suggestions, err := p.AI.SuggestAttributes(ctx, cleanB64)
	if err != nil {
		return "", nil, fmt.Errorf("attribute suggestion: %w", err)
	}

	return cleanURL, suggestions, nil
}

func (p *Processor) setProcessingStatus(itemID uint, status string) error {
	result := p.DB.Model(&models.WardrobeItem{}).
		Where("id = ?", itemID).
		Updates(map[string]interface{}{
			"processing_status": status,
			"updated_at":        time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
