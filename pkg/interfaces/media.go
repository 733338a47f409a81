package interfaces

import "context"

// MediaStore persists binary assets selected in the editor and returns the
// reference to splice back into block payloads.
type MediaStore interface {
	// Upload stores the file and returns its public reference.
	Upload(ctx context.Context, file UploadFile) (*UploadResult, error)
}

// UploadFile is one pending file handed to the media store.
type UploadFile struct {
	Name        string
	ContentType string
	Size        int64
	Data        []byte
}

// UploadResult describes a stored asset.
type UploadResult struct {
	URL string
	// Key is the store-specific object key, when the store has one.
	Key string
}
