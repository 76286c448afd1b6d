package tasks

import (
	"context"
	"log"
	"time"

	"tryrack-backend/models"

	"github.com/lthibault/jitterbug/v2"
	"gorm.io/gorm"
)

const (
	// cleanupInterval is how often orphaned processing items are swept.
	cleanupInterval = 15 * time.Minute
	// orphanAge is how long an item may sit in processing before it is
	// considered abandoned. Provisional items are created when an image
	// is submitted; if the pipeline died the record would otherwise leak
	// forever.
	orphanAge = time.Hour
)

// RunCleanup sweeps orphaned processing items until ctx is cancelled.
// The ticker is jittered so multiple instances do not sweep in lockstep.
func RunCleanup(ctx context.Context, db *gorm.DB) {
	ticker := jitterbug.New(cleanupInterval, &jitterbug.Norm{Stdev: 30 * time.Second})
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n, err := CleanupOrphanedItems(db, orphanAge); err != nil {
				log.Printf("Cleanup of orphaned processing items failed: %v", err)
			} else if n > 0 {
				log.Printf("Cleaned up %d orphaned processing items", n)
			}
		}
	}
}

// CleanupOrphanedItems deletes wardrobe items stuck in processing for
// longer than maxAge and returns how many were removed.
func CleanupOrphanedItems(db *gorm.DB, maxAge time.Duration) (int64, error) {
	cutoff := time.Now().Add(-maxAge)

	result := db.Where("processing_status = ? AND created_at < ?", models.ProcessingStatusProcessing, cutoff).
		Delete(&models.WardrobeItem{})
	if result.Error != nil {
		return 0, result.Error
	}

	return result.RowsAffected, nil
}
