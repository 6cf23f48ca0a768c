package storage

import "context"

// Service stores user-uploaded images in remote object storage.
type Service interface {
	// UploadImage stores an image blob and returns its public URL.
	UploadImage(ctx context.Context, data []byte, contentType string) (string, error)
	// DeleteImage removes a previously uploaded image by its public URL.
	DeleteImage(ctx context.Context, objectURL string) error
}
