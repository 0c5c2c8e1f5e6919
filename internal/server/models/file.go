package models

import "time"

// ImageUpload instructs the client to upload an entry image to object
// storage using a presigned URL.
type ImageUpload struct {
	// EntryID identifies the entry the image belongs to.
	EntryID string `json:"entryId"`
	// StorageKey is the object key now recorded as the entry image.
	StorageKey string `json:"storageKey"`
	// URL is a temporary presigned HTTP URL for the client to PUT the bytes.
	URL string `json:"url"`
	// ExpiresAt is when URL stops being accepted.
	ExpiresAt time.Time `json:"expiresAt"`
}
