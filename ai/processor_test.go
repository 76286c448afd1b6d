package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"testing"

	"tryrack-backend/dtos"
	"tryrack-backend/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var testDB *gorm.DB

func TestMain(m *testing.M) {
	var err error
	testDB, err = gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	if err != nil {
		panic("failed to connect to test database: " + err.Error())
	}
	sqlDB, _ := testDB.DB()
	sqlDB.SetMaxOpenConns(1)

	if err := testDB.AutoMigrate(&models.WardrobeItem{}); err != nil {
		panic("failed to migrate test database: " + err.Error())
	}

	os.Exit(m.Run())
}

func freshDB() *gorm.DB {
	testDB.Exec("DELETE FROM wardrobe_items")
	return testDB
}

type stubStorage struct {
	uploadErr error
}

func (s *stubStorage) UploadBase64(ctx context.Context, payload, objectKey, contentType string) (string, error) {
	if s.uploadErr != nil {
		return "", s.uploadErr
	}
	return "https://storage.test/" + objectKey, nil
}

func (s *stubStorage) FetchBase64(ctx context.Context, url string) (string, error) {
	return "QUFBQQ==", nil
}

func (s *stubStorage) Delete(ctx context.Context, objectKey string) error {
	return nil
}

type stubAI struct {
	backgroundErr  error
	suggestionsErr error
}

func (s *stubAI) RemoveBackground(ctx context.Context, imageB64 string) (string, error) {
	if s.backgroundErr != nil {
		return "", s.backgroundErr
	}
	return "Y2xlYW4=", nil
}

func (s *stubAI) SuggestAttributes(ctx context.Context, imageB64 string) (*dtos.AISuggestions, error) {
	if s.suggestionsErr != nil {
		return nil, s.suggestionsErr
	}
	return &dtos.AISuggestions{
		Title:    "Red Scarf",
		Category: "accessories",
		Colors:   []string{"red"},
		Tags:     []string{"winter"},
	}, nil
}

func (s *stubAI) GenerateTryOn(ctx context.Context, userB64, itemB64, category string, colors []string, cleanBackground bool) (string, error) {
	return "", fmt.Errorf("not used by the processor")
}

func seedPendingItem(db *gorm.DB, userID uint) models.WardrobeItem {
	item := models.WardrobeItem{
		UserID:           userID,
		ImageOriginal:    "https://storage.test/wardrobe/original.jpg",
		Status:           models.ItemStatusClean,
		ProcessingStatus: models.ProcessingStatusPending,
	}
	db.Create(&item)
	return item
}

func TestProcessCompletesItem(t *testing.T) {
	db := freshDB()
	item := seedPendingItem(db, 1)

	p := &Processor{DB: db, Storage: &stubStorage{}, AI: &stubAI{}}
	p.Process(context.Background(), item.ID, 1, "QUFBQQ==")

	var got models.WardrobeItem
	if err := db.First(&got, item.ID).Error; err != nil {
		t.Fatalf("reload item: %v", err)
	}
	if got.ProcessingStatus != models.ProcessingStatusCompleted {
		t.Fatalf("expected completed, got %q", got.ProcessingStatus)
	}
	if got.ImageClean == "" {
		t.Error("completed item has no clean image URL")
	}

	var suggestions dtos.AISuggestions
	if err := json.Unmarshal(got.AISuggestions, &suggestions); err != nil {
		t.Fatalf("unmarshal suggestions: %v", err)
	}
	if suggestions.Title != "Red Scarf" {
		t.Errorf("unexpected suggestions: %+v", suggestions)
	}
}

func TestProcessMarksFailureOnAIError(t *testing.T) {
	db := freshDB()
	item := seedPendingItem(db, 1)

	p := &Processor{DB: db, Storage: &stubStorage{}, AI: &stubAI{backgroundErr: fmt.Errorf("quota exceeded")}}
	p.Process(context.Background(), item.ID, 1, "QUFBQQ==")

	var got models.WardrobeItem
	db.First(&got, item.ID)
	if got.ProcessingStatus != models.ProcessingStatusFailed {
		t.Fatalf("expected failed, got %q", got.ProcessingStatus)
	}
	if len(got.AISuggestions) != 0 {
		t.Error("failed item must not carry suggestions")
	}
	if got.ImageClean != "" {
		t.Error("failed item must not carry a clean image")
	}
}

func TestProcessMarksFailureOnUploadError(t *testing.T) {
	db := freshDB()
	item := seedPendingItem(db, 1)

	p := &Processor{DB: db, Storage: &stubStorage{uploadErr: fmt.Errorf("bucket unreachable")}, AI: &stubAI{}}
	p.Process(context.Background(), item.ID, 1, "QUFBQQ==")

	var got models.WardrobeItem
	db.First(&got, item.ID)
	if got.ProcessingStatus != models.ProcessingStatusFailed {
		t.Fatalf("expected failed, got %q", got.ProcessingStatus)
	}
}

func TestProcessAbortsWhenItemDeletedBeforeStart(t *testing.T) {
	db := freshDB()
	item := seedPendingItem(db, 1)
	db.Delete(&item)

	p := &Processor{DB: db, Storage: &stubStorage{}, AI: &stubAI{}}
	p.Process(context.Background(), item.ID, 1, "QUFBQQ==")

	// The soft-deleted row must not be resurrected or mutated.
	var got models.WardrobeItem
	if err := db.Unscoped().First(&got, item.ID).Error; err != nil {
		t.Fatalf("reload deleted item: %v", err)
	}
	if got.ProcessingStatus != models.ProcessingStatusPending {
		t.Errorf("deleted item was mutated to %q", got.ProcessingStatus)
	}
}
