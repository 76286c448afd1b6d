package dtos

// ProcessImageRequest submits a base64 data-URI image to the AI pipeline.
type ProcessImageRequest struct {
	Image string `json:"image" binding:"required"`
}

// ProcessImageResponse is returned with 202 Accepted. ProcessingID is the
// id of the provisional wardrobe item the caller should poll.
type ProcessImageResponse struct {
	ProcessingID     uint   `json:"processing_id"`
	ImageOriginal    string `json:"image_original"`
	ProcessingStatus string `json:"processing_status"`
}

// AISuggestions is the structured classifier output stored on a completed
// item. Category is free-form, chosen by the backend classifier.
type AISuggestions struct {
	Title    string   `json:"title"`
	Category string   `json:"category"`
	Colors   []string `json:"colors"`
	Tags     []string `json:"tags"`
}

// WardrobeItemCreate is the request body for creating an item. Image fields
// may be base64 data URIs, in which case they are uploaded to object storage
// before the item is persisted.
type WardrobeItemCreate struct {
	Title         string   `json:"title" binding:"required"`
	Description   string   `json:"description"`
	Category      string   `json:"category" binding:"required"`
	Colors        []string `json:"colors"`
	Sizes         []string `json:"sizes"`
	Tags          []string `json:"tags"`
	Price         float64  `json:"price"`
	Formality     *float64 `json:"formality"`
	Season        string   `json:"season"`
	ImageOriginal string   `json:"image_original"`
	ImageClean    string   `json:"image_clean"`
}

// WardrobeItemUpdate carries partial updates; nil fields are left unchanged.
type WardrobeItemUpdate struct {
	Title       *string   `json:"title"`
	Description *string   `json:"description"`
	Category    *string   `json:"category"`
	Colors      *[]string `json:"colors"`
	Sizes       *[]string `json:"sizes"`
	Tags        *[]string `json:"tags"`
	Price       *float64  `json:"price"`
	Formality   *float64  `json:"formality"`
	Season      *string   `json:"season"`
	ImageClean  *string   `json:"image_clean"`
}

// ItemStatusUpdate changes a single item's status.
type ItemStatusUpdate struct {
	Status string `json:"status" binding:"required,oneof=clean worn dirty"`
}

// BatchStatusRequest changes the status of several items in one call.
type BatchStatusRequest struct {
	ItemIDs []uint `json:"item_ids" binding:"required,min=1"`
	Status  string `json:"status" binding:"required,oneof=clean worn dirty"`
}

// BatchItemError describes one failed item inside an otherwise successful
// batch call.
type BatchItemError struct {
	ItemID uint   `json:"item_id"`
	Error  string `json:"error"`
}

// BatchStatusResponse reports partial success: errors is null when every
// item updated, otherwise it lists per-item failures. Callers branch on
// the counts rather than treating a partial failure as an error.
type BatchStatusResponse struct {
	UpdatedItems   []uint           `json:"updated_items"`
	Errors         []BatchItemError `json:"errors"`
	TotalUpdated   int              `json:"total_updated"`
	TotalRequested int              `json:"total_requested"`
}
