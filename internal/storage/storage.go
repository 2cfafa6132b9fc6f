// Package storage holds the preview-image collaborator. The engine never
// interprets image bytes; it forwards them and surfaces the collaborator's
// accept/reject verdict unchanged.
package storage

import (
	"context"
	"fmt"
	"strings"

	"server/internal/domain"
)

// MaxPreviewBytes is the size ceiling accepted for a preview asset.
const MaxPreviewBytes = 5 << 20

// Object is a preview asset about to be stored.
type Object struct {
	Key         string
	ContentType string
	Data        []byte
}

// Store uploads preview assets and returns the public URL they will be
// served from once committed.
type Store interface {
	Put(ctx context.Context, obj Object) (string, error)
}

var allowedContentTypes = map[string]struct{}{
	"image/png":  {},
	"image/jpeg": {},
	"image/webp": {},
	"image/gif":  {},
}

// accept is the acceptance contract every backend applies before storing.
func accept(obj Object) error {
	ct := strings.ToLower(strings.TrimSpace(obj.ContentType))
	if i := strings.Index(ct, ";"); i >= 0 {
		ct = strings.TrimSpace(ct[:i])
	}
	if _, ok := allowedContentTypes[ct]; !ok {
		return &domain.StorageRejectedError{Reason: fmt.Sprintf("unsupported content type %q", obj.ContentType)}
	}
	if len(obj.Data) == 0 {
		return &domain.StorageRejectedError{Reason: "empty file"}
	}
	if len(obj.Data) > MaxPreviewBytes {
		return &domain.StorageRejectedError{Reason: fmt.Sprintf("file exceeds %d bytes", MaxPreviewBytes)}
	}
	return nil
}
