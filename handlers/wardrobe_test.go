package handlers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"tryrack-backend/models"
)

func TestGetItemsEmpty(t *testing.T) {
	db := freshDB()
	router := setupWardrobeRouter(db, newFakeStorage(), newFakeAI())

	user, _ := seedTestUser(db, "wardrobe@test.com", "wardrobeuser")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, jsonRequest("GET", fmt.Sprintf("/api/wardrobe/?user_id=%d", user.ID), nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	if items := parseResponseArray(w); len(items) != 0 {
		t.Errorf("expected empty list, got %d items", len(items))
	}
}

func TestGetItemsFiltersByCategoryAndStatus(t *testing.T) {
	db := freshDB()
	router := setupWardrobeRouter(db, newFakeStorage(), newFakeAI())

	user, _ := seedTestUser(db, "filter@test.com", "filteruser")
	seedItem(db, user.ID, "Blue Jeans", "bottoms", models.ItemStatusClean)
	seedItem(db, user.ID, "White Tee", "tops", models.ItemStatusWorn)
	seedItem(db, user.ID, "Black Tee", "tops", models.ItemStatusClean)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, jsonRequest("GET", fmt.Sprintf("/api/wardrobe/?user_id=%d&category=tops", user.ID), nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	if items := parseResponseArray(w); len(items) != 2 {
		t.Errorf("expected 2 tops, got %d", len(items))
	}

	w = httptest.NewRecorder()
	router.ServeHTTP(w, jsonRequest("GET", fmt.Sprintf("/api/wardrobe/?user_id=%d&category=tops&status=worn", user.ID), nil))
	items := parseResponseArray(w)
	if len(items) != 1 {
		t.Fatalf("expected 1 worn top, got %d", len(items))
	}
	first := items[0].(map[string]interface{})
	if first["title"] != "White Tee" {
		t.Errorf("expected White Tee, got %v", first["title"])
	}
}

func TestGetItemsScopedToUser(t *testing.T) {
	db := freshDB()
	router := setupWardrobeRouter(db, newFakeStorage(), newFakeAI())

	alice, _ := seedTestUser(db, "alice@test.com", "alice")
	bob, _ := seedTestUser(db, "bob@test.com", "bob")
	seedItem(db, alice.ID, "Alice Jacket", "outerwear", models.ItemStatusClean)
	seedItem(db, bob.ID, "Bob Jacket", "outerwear", models.ItemStatusClean)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, jsonRequest("GET", fmt.Sprintf("/api/wardrobe/?user_id=%d", alice.ID), nil))

	items := parseResponseArray(w)
	if len(items) != 1 {
		t.Fatalf("expected only alice's item, got %d items", len(items))
	}
	first := items[0].(map[string]interface{})
	if first["title"] != "Alice Jacket" {
		t.Errorf("wrong item returned: %v", first["title"])
	}
}

func TestGetItemNotFound(t *testing.T) {
	db := freshDB()
	router := setupWardrobeRouter(db, newFakeStorage(), newFakeAI())

	user, _ := seedTestUser(db, "missing@test.com", "missinguser")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, jsonRequest("GET", fmt.Sprintf("/api/wardrobe/9999?user_id=%d", user.ID), nil))

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d: %s", w.Code, w.Body.String())
	}
}

func TestGetItemOtherUsersItemIsNotFound(t *testing.T) {
	db := freshDB()
	router := setupWardrobeRouter(db, newFakeStorage(), newFakeAI())

	alice, _ := seedTestUser(db, "alice2@test.com", "alice2")
	bob, _ := seedTestUser(db, "bob2@test.com", "bob2")
	item := seedItem(db, bob.ID, "Bob Shirt", "tops", models.ItemStatusClean)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, jsonRequest("GET", fmt.Sprintf("/api/wardrobe/%d?user_id=%d", item.ID, alice.ID), nil))

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected status 404 for foreign item, got %d", w.Code)
	}
}

func TestCreateItemSuccess(t *testing.T) {
	db := freshDB()
	router := setupWardrobeRouter(db, newFakeStorage(), newFakeAI())

	user, _ := seedTestUser(db, "create@test.com", "createuser")

	body := map[string]interface{}{
		"title":    "Green Hoodie",
		"category": "tops",
		"colors":   []string{"green"},
		"tags":     []string{"cozy"},
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, jsonRequest("POST", fmt.Sprintf("/api/wardrobe/?user_id=%d", user.ID), body))

	if w.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", w.Code, w.Body.String())
	}

	resp := parseResponse(w)
	if resp["title"] != "Green Hoodie" {
		t.Errorf("expected title Green Hoodie, got %v", resp["title"])
	}
	if resp["status"] != models.ItemStatusClean {
		t.Errorf("expected new item to be clean, got %v", resp["status"])
	}
	// Manual creates skip the AI pipeline entirely.
	if resp["processing_status"] != models.ProcessingStatusCompleted {
		t.Errorf("expected processing_status completed, got %v", resp["processing_status"])
	}
}

func TestCreateItemUploadsDataURIImage(t *testing.T) {
	db := freshDB()
	st := newFakeStorage()
	router := setupWardrobeRouter(db, st, newFakeAI())

	user, _ := seedTestUser(db, "upload@test.com", "uploaduser")

	body := map[string]interface{}{
		"title":          "Photo Shirt",
		"category":       "tops",
		"image_original": testImageDataURI(),
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, jsonRequest("POST", fmt.Sprintf("/api/wardrobe/?user_id=%d", user.ID), body))

	if w.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", w.Code, w.Body.String())
	}
	resp := parseResponse(w)
	imageURL, _ := resp["image_original"].(string)
	if imageURL == "" || imageURL == testImageDataURI() {
		t.Errorf("expected uploaded storage URL, got %q", imageURL)
	}
}

func TestCreateItemValidation(t *testing.T) {
	db := freshDB()
	router := setupWardrobeRouter(db, newFakeStorage(), newFakeAI())

	user, _ := seedTestUser(db, "invalid@test.com", "invaliduser")

	// Missing required title.
	body := map[string]interface{}{"category": "tops"}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, jsonRequest("POST", fmt.Sprintf("/api/wardrobe/?user_id=%d", user.ID), body))

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d: %s", w.Code, w.Body.String())
	}
}

func TestUpdateItemPartial(t *testing.T) {
	db := freshDB()
	router := setupWardrobeRouter(db, newFakeStorage(), newFakeAI())

	user, _ := seedTestUser(db, "update@test.com", "updateuser")
	item := seedItem(db, user.ID, "Old Title", "tops", models.ItemStatusClean)

	body := map[string]interface{}{"title": "New Title"}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, jsonRequest("PUT", fmt.Sprintf("/api/wardrobe/%d?user_id=%d", item.ID, user.ID), body))

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	resp := parseResponse(w)
	if resp["title"] != "New Title" {
		t.Errorf("expected updated title, got %v", resp["title"])
	}
	// Untouched fields survive a partial update.
	if resp["category"] != "tops" {
		t.Errorf("category clobbered by partial update: %v", resp["category"])
	}
}

func TestUpdateItemStatusWornIncrementsWearCount(t *testing.T) {
	db := freshDB()
	router := setupWardrobeRouter(db, newFakeStorage(), newFakeAI())

	user, _ := seedTestUser(db, "wear@test.com", "wearuser")
	item := seedItem(db, user.ID, "Favourite Tee", "tops", models.ItemStatusClean)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, jsonRequest("PATCH", fmt.Sprintf("/api/wardrobe/%d/status?user_id=%d", item.ID, user.ID),
		map[string]string{"status": "worn"}))

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	resp := parseResponse(w)
	if count, _ := resp["wear_count"].(float64); int(count) != 1 {
		t.Errorf("expected wear_count 1, got %v", resp["wear_count"])
	}
	if resp["last_worn_at"] == nil {
		t.Error("expected last_worn_at to be stamped")
	}
}

func TestUpdateItemStatusRewornDoesNotIncrement(t *testing.T) {
	db := freshDB()
	router := setupWardrobeRouter(db, newFakeStorage(), newFakeAI())

	user, _ := seedTestUser(db, "reworn@test.com", "rewornuser")
	item := seedItem(db, user.ID, "Same Tee", "tops", models.ItemStatusWorn)
	db.Model(&item).Update("wear_count", 3)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, jsonRequest("PATCH", fmt.Sprintf("/api/wardrobe/%d/status?user_id=%d", item.ID, user.ID),
		map[string]string{"status": "worn"}))

	resp := parseResponse(w)
	if count, _ := resp["wear_count"].(float64); int(count) != 3 {
		t.Errorf("re-marking worn must not increment: got %v", resp["wear_count"])
	}
}

func TestUpdateItemStatusDirtyKeepsWearCount(t *testing.T) {
	db := freshDB()
	router := setupWardrobeRouter(db, newFakeStorage(), newFakeAI())

	user, _ := seedTestUser(db, "dirty@test.com", "dirtyuser")
	item := seedItem(db, user.ID, "Worn Tee", "tops", models.ItemStatusWorn)
	db.Model(&item).Update("wear_count", 2)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, jsonRequest("PATCH", fmt.Sprintf("/api/wardrobe/%d/status?user_id=%d", item.ID, user.ID),
		map[string]string{"status": "dirty"}))

	resp := parseResponse(w)
	if resp["status"] != models.ItemStatusDirty {
		t.Errorf("expected dirty, got %v", resp["status"])
	}
	if count, _ := resp["wear_count"].(float64); int(count) != 2 {
		t.Errorf("worn->dirty must not change wear_count: got %v", resp["wear_count"])
	}
}

func TestUpdateItemStatusRejectsUnknownStatus(t *testing.T) {
	db := freshDB()
	router := setupWardrobeRouter(db, newFakeStorage(), newFakeAI())

	user, _ := seedTestUser(db, "badstatus@test.com", "badstatususer")
	item := seedItem(db, user.ID, "Tee", "tops", models.ItemStatusClean)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, jsonRequest("PATCH", fmt.Sprintf("/api/wardrobe/%d/status?user_id=%d", item.ID, user.ID),
		map[string]string{"status": "soaked"}))

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d: %s", w.Code, w.Body.String())
	}
}

func TestDeleteItem(t *testing.T) {
	db := freshDB()
	router := setupWardrobeRouter(db, newFakeStorage(), newFakeAI())

	user, _ := seedTestUser(db, "delete@test.com", "deleteuser")
	item := seedItem(db, user.ID, "Doomed Tee", "tops", models.ItemStatusClean)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, jsonRequest("DELETE", fmt.Sprintf("/api/wardrobe/%d?user_id=%d", item.ID, user.ID), nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	// The deleted item polls as gone.
	w = httptest.NewRecorder()
	router.ServeHTTP(w, jsonRequest("GET", fmt.Sprintf("/api/wardrobe/%d?user_id=%d", item.ID, user.ID), nil))
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404 after delete, got %d", w.Code)
	}
}
