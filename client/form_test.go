package client

import (
	"reflect"
	"testing"

	"tryrack-backend/dtos"
)

func completedItem(id uint) *Item {
	return &Item{
		ID:               id,
		ProcessingStatus: "completed",
		ImageClean:       "https://cdn.example.com/clean.png",
		AISuggestions: &dtos.AISuggestions{
			Title:    "Blue Oxford Shirt",
			Category: "tops",
			Colors:   []string{"blue", "white"},
			Tags:     []string{"casual", "cotton"},
		},
	}
}

func TestReconcileFillsEmptyForm(t *testing.T) {
	form := &FormState{}
	item := completedItem(10)

	if !Reconcile(form, item, 10) {
		t.Fatal("expected merge to apply")
	}
	if form.Title != "Blue Oxford Shirt" || form.Category != "tops" {
		t.Errorf("unexpected form after merge: %+v", form)
	}
	if !reflect.DeepEqual(form.Colors, []string{"blue", "white"}) {
		t.Errorf("unexpected colors: %v", form.Colors)
	}
	if !reflect.DeepEqual(form.Tags, []string{"casual", "cotton"}) {
		t.Errorf("unexpected tags: %v", form.Tags)
	}
	if form.ImageURL != item.ImageClean {
		t.Errorf("clean image not applied: %q", form.ImageURL)
	}
}

func TestReconcileKeepsUserEditsButUpdatesImage(t *testing.T) {
	form := &FormState{Title: "My favourite shirt"}
	item := completedItem(10)

	if Reconcile(form, item, 10) {
		t.Error("merge applied over user edits")
	}
	if form.Title != "My favourite shirt" {
		t.Errorf("user title clobbered: %q", form.Title)
	}
	if len(form.Colors) != 0 || len(form.Tags) != 0 {
		t.Errorf("suggestions leaked into edited form: %+v", form)
	}
	// The cleaned image is independent of the metadata guard.
	if form.ImageURL != item.ImageClean {
		t.Errorf("clean image withheld from edited form: %q", form.ImageURL)
	}
}

func TestReconcileColorsAloneCountAsEdit(t *testing.T) {
	form := &FormState{Colors: []string{"red"}}
	if Reconcile(form, completedItem(10), 10) {
		t.Error("merge applied over selected colors")
	}

	form = &FormState{Tags: []string{"vintage"}}
	if Reconcile(form, completedItem(10), 10) {
		t.Error("merge applied over selected tags")
	}
}

func TestReconcileCategoryDoesNotBlockMerge(t *testing.T) {
	// A pre-selected category is not a user edit.
	form := &FormState{Category: "bottoms"}
	if !Reconcile(form, completedItem(10), 10) {
		t.Error("pre-selected category blocked the merge")
	}
	if form.Category != "tops" {
		t.Errorf("expected suggested category, got %q", form.Category)
	}
}

func TestReconcileRejectsStaleResult(t *testing.T) {
	form := &FormState{}
	item := completedItem(10)

	if Reconcile(form, item, 11) {
		t.Error("merge applied for a superseded processing id")
	}
	if form.Title != "" {
		t.Errorf("stale result populated the form: %+v", form)
	}
	if Reconcile(form, item, 0) {
		t.Error("merge applied with no tracked submission")
	}
}

func TestReconcileRequiresCompletedStatus(t *testing.T) {
	form := &FormState{}
	item := completedItem(10)
	item.ProcessingStatus = "processing"

	if Reconcile(form, item, 10) {
		t.Error("merge applied before processing completed")
	}
}

func TestReconcileMissingSuggestions(t *testing.T) {
	form := &FormState{}
	item := completedItem(10)
	item.AISuggestions = nil

	if Reconcile(form, item, 10) {
		t.Error("merge applied with no suggestions")
	}
	if form.ImageURL != item.ImageClean {
		t.Error("clean image should still apply without suggestions")
	}
}

func TestReconcileIsIdempotent(t *testing.T) {
	form := &FormState{}
	item := completedItem(10)

	if !Reconcile(form, item, 10) {
		t.Fatal("first merge should apply")
	}
	// The filled form is no longer empty, so a second arrival of the
	// same result is a no-op.
	if Reconcile(form, item, 10) {
		t.Error("second merge applied over the first")
	}
}

func TestReconcileNilItem(t *testing.T) {
	form := &FormState{Title: "kept"}
	if Reconcile(form, nil, 10) {
		t.Error("merge applied for nil item")
	}
	if form.Title != "kept" {
		t.Error("nil item mutated the form")
	}
}
