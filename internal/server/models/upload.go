package models

// Upload is a single file accepted for storage.
type Upload struct {
	FileName    string
	ContentType string
	Payload     []byte
	Caption     *string
}

// UploadResult is returned after the object has been stored.
type UploadResult struct {
	// Key is the object-storage key the payload was written to.
	Key string `json:"key"`
	// PreviewBase64 is the original payload re-encoded for immediate display.
	PreviewBase64 string `json:"imageData"`
}
