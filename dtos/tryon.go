package dtos

// TryOnRequest asks for a virtual try-on render of one or more wardrobe
// items on the user's photo.
type TryOnRequest struct {
	ItemIDs            []uint `json:"item_ids" binding:"required,min=1"`
	UserImage          string `json:"user_image" binding:"required"`
	UseCleanBackground bool   `json:"use_clean_background"`
}

// TryOnAccepted is returned with 202 Accepted while generation runs in
// the background.
type TryOnAccepted struct {
	TryOnID uint   `json:"tryon_id"`
	Status  string `json:"status"`
}
