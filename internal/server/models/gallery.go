package models

// GalleryItem is a display-ready gallery entry. Both URLs are signed and
// expire; they are minted per request and never stored.
type GalleryItem struct {
	OriginalURL  string  `json:"originalUrl"`
	ThumbnailURL string  `json:"thumbnailUrl"`
	Caption      *string `json:"caption"`
}
