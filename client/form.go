package client

// FormState is the locally owned editable draft of a wardrobe item. It
// belongs to a single editing session; the server never sees it until
// the user saves.
type FormState struct {
	Title    string
	Category string
	Colors   []string
	Tags     []string
	ImageURL string
}

// Empty reports whether the user has entered anything worth protecting.
// Category alone does not count: the pre-selected category picker value
// is not a user edit.
func (f *FormState) Empty() bool {
	return f.Title == "" && len(f.Colors) == 0 && len(f.Tags) == 0
}

// Reconcile applies a completed processing record's AI suggestions to the
// form exactly once, without clobbering user edits.
//
// The metadata merge runs only when both guards pass: the form is still
// empty, and the record is the one currently tracked (trackedID). A
// stale result - the user removed the photo and submitted a new one -
// must never retroactively populate the form.
//
// The cleaned image URL is independent of the metadata guard: when the
// pipeline produced one it always replaces the displayed image.
// Reconcile reports whether the metadata merge was applied.
func Reconcile(form *FormState, item *Item, trackedID uint) bool {
	if item == nil {
		return false
	}

	if item.ImageClean != "" {
		form.ImageURL = item.ImageClean
	}

	if item.ProcessingStatus != "completed" || item.AISuggestions == nil {
		return false
	}
	if trackedID == 0 || item.ID != trackedID {
		return false
	}
	if !form.Empty() {
		return false
	}

	form.Title = item.AISuggestions.Title
	form.Category = item.AISuggestions.Category
	form.Colors = append([]string(nil), item.AISuggestions.Colors...)
	form.Tags = append([]string(nil), item.AISuggestions.Tags...)
	return true
}
