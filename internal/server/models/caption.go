// Package models defines the data carried between the gallery server layers.
package models

import "time"

// CaptionRecord describes one stored image. The image and thumbnail bytes
// live in object storage; the row only references them by key.
type CaptionRecord struct {
	// ImageKey is the unique object-storage key of the original image.
	ImageKey string
	// ThumbnailKey is the object-storage key of the thumbnail. It may equal ImageKey.
	ThumbnailKey string
	// Caption is optional free text; nil maps to SQL NULL.
	Caption *string
	// UploadedAt is assigned on insert and orders the gallery, newest first.
	UploadedAt time.Time
}

// CaptionText returns the caption or "" when it is unset.
func (r *CaptionRecord) CaptionText() string {
	if r == nil || r.Caption == nil {
		return ""
	}
	return *r.Caption
}
