package services

import (
	"context"
	"io"
)

// MediaStore is the external blob service consumed by the user and video
// services. Put returns a public URL; Delete by URL is best-effort
// idempotent.
type MediaStore interface {
	Put(ctx context.Context, kind, filename string, r io.Reader) (string, error)
	Delete(ctx context.Context, url string) error
}

// FileUpload carries one multipart file from the handler into a service.
type FileUpload struct {
	Filename string
	Reader   io.Reader
}
