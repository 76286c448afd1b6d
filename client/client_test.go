package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"tryrack-backend/dtos"
)

func TestClientSetsUserIDQuery(t *testing.T) {
	var gotUserID string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserID = r.URL.Query().Get("user_id")
		json.NewEncoder(w).Encode([]Item{})
	}))
	defer server.Close()

	c := New(server.URL, 7)
	if _, err := c.ListItems(context.Background(), "", ""); err != nil {
		t.Fatalf("ListItems: %v", err)
	}
	if gotUserID != "7" {
		t.Errorf("expected user_id=7, got %q", gotUserID)
	}
}

func TestClientSendsBearerToken(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode(Item{ID: 1})
	}))
	defer server.Close()

	c := New(server.URL, 1, WithToken("abc123"))
	if _, err := c.GetItem(context.Background(), 1); err != nil {
		t.Fatalf("GetItem: %v", err)
	}
	if gotAuth != "Bearer abc123" {
		t.Errorf("expected bearer header, got %q", gotAuth)
	}
}

func TestGetItemMapsNotFoundToGone(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"error": "Item not found"})
	}))
	defer server.Close()

	c := New(server.URL, 1)
	outcome, err := c.GetItem(context.Background(), 99)
	if err != nil {
		t.Fatalf("expected no error for 404, got %v", err)
	}
	if !outcome.Gone {
		t.Error("expected Gone outcome for 404")
	}
	if outcome.Item != nil {
		t.Error("Gone outcome must carry no item")
	}
}

func TestGetItemServerErrorIsAnError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{"error": "boom"})
	}))
	defer server.Close()

	c := New(server.URL, 1)
	_, err := c.GetItem(context.Background(), 1)
	if err == nil {
		t.Fatal("expected an error for 500")
	}
	apiErr, ok := err.(*APIError)
	if !ok || apiErr.StatusCode != http.StatusInternalServerError {
		t.Errorf("expected APIError 500, got %v", err)
	}
	if IsNotFound(err) {
		t.Error("500 must not read as not-found")
	}
}

func TestProcessImageReturnsProcessingID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req dtos.ProcessImageRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Image == "" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.WriteHeader(http.StatusAccepted)
		json.NewEncoder(w).Encode(dtos.ProcessImageResponse{
			ProcessingID:     12,
			ImageOriginal:    "https://cdn.example.com/orig.jpg",
			ProcessingStatus: "pending",
		})
	}))
	defer server.Close()

	c := New(server.URL, 1)
	resp, err := c.ProcessImage(context.Background(), "data:image/jpeg;base64,AAAA")
	if err != nil {
		t.Fatalf("ProcessImage: %v", err)
	}
	if resp.ProcessingID != 12 || resp.ProcessingStatus != "pending" {
		t.Errorf("unexpected response: %+v", resp)
	}
}

func TestBatchUpdateStatusPartialFailureIsData(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(dtos.BatchStatusResponse{
			UpdatedItems: []uint{1, 3},
			Errors: []dtos.BatchItemError{
				{ItemID: 2, Error: "Item not found"},
			},
			TotalUpdated:   2,
			TotalRequested: 3,
		})
	}))
	defer server.Close()

	c := New(server.URL, 1)
	resp, err := c.BatchUpdateStatus(context.Background(), []uint{1, 2, 3}, "dirty")
	if err != nil {
		t.Fatalf("a partial failure must not be an error: %v", err)
	}
	if resp.TotalUpdated != 2 || resp.TotalRequested != 3 {
		t.Errorf("unexpected counts: %+v", resp)
	}
	if len(resp.Errors) != 1 || resp.Errors[0].ItemID != 2 {
		t.Errorf("unexpected errors: %+v", resp.Errors)
	}
}

func TestMarkWornAndDirtyOrdersCalls(t *testing.T) {
	var statuses []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req dtos.BatchStatusRequest
		json.NewDecoder(r.Body).Decode(&req)
		statuses = append(statuses, req.Status)
		json.NewEncoder(w).Encode(dtos.BatchStatusResponse{
			UpdatedItems:   req.ItemIDs,
			TotalUpdated:   len(req.ItemIDs),
			TotalRequested: len(req.ItemIDs),
		})
	}))
	defer server.Close()

	c := New(server.URL, 1)
	worn, dirty, err := c.MarkWornAndDirty(context.Background(), []uint{1, 2})
	if err != nil {
		t.Fatalf("MarkWornAndDirty: %v", err)
	}
	if len(statuses) != 2 || statuses[0] != "worn" || statuses[1] != "dirty" {
		t.Errorf("expected worn then dirty, got %v", statuses)
	}
	if worn.TotalUpdated != 2 || dirty.TotalUpdated != 2 {
		t.Errorf("unexpected results: worn=%+v dirty=%+v", worn, dirty)
	}
}

func TestMarkWornAndDirtySkipsSecondCallOnFailure(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{"error": "database unavailable"})
	}))
	defer server.Close()

	c := New(server.URL, 1)
	worn, dirty, err := c.MarkWornAndDirty(context.Background(), []uint{1})
	if err == nil {
		t.Fatal("expected an error when the worn call fails")
	}
	if worn != nil || dirty != nil {
		t.Error("no results expected when the first call fails")
	}
	if calls != 1 {
		t.Errorf("dirty call issued after worn failed: %d calls", calls)
	}
}

func TestDeleteItem(t *testing.T) {
	var gotMethod, gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod, gotPath = r.Method, r.URL.Path
		json.NewEncoder(w).Encode(map[string]string{"message": "Item deleted successfully"})
	}))
	defer server.Close()

	c := New(server.URL, 1)
	if err := c.DeleteItem(context.Background(), 8); err != nil {
		t.Fatalf("DeleteItem: %v", err)
	}
	if gotMethod != http.MethodDelete || gotPath != "/api/wardrobe/8" {
		t.Errorf("unexpected request: %s %s", gotMethod, gotPath)
	}
}
