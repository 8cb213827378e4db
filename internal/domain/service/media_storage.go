package service

import (
	"context"
	"io"

	"mhhf/internal/domain/entity"
)

// UploadResult carries the identifiers returned by the media host for a
// freshly stored asset. DeleteToken is the only capability that can
// later remove the physical asset.
type UploadResult struct {
	AssetURL    string
	AssetID     string
	DeleteToken string
}

// MediaStorage uploads raw files to the hosted media store and issues
// best-effort deletions against it.
type MediaStorage interface {
	// Upload stores the file and returns its public URL, asset id and
	// deletion token. A remote rejection or network failure surfaces as
	// an UPLOAD_FAILED error carrying the remote reason; nothing is
	// committed on failure.
	Upload(ctx context.Context, file io.Reader, filename string, kind entity.MediaKind) (*UploadResult, error)

	// DeleteByToken removes the physical asset identified by token.
	// Best-effort: failures are logged, never returned, so asset
	// cleanup can never block or fail the document operation it
	// accompanies.
	DeleteByToken(ctx context.Context, token string, kind entity.MediaKind)
}
