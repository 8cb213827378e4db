package repository

import (
	"context"

	"mhhf/internal/domain/entity"
)

// MediaUpdates describes a partial update to a media record. Asset
// fields are only written when ReplaceAsset is set; updatedAt is
// refreshed on every update either way.
type MediaUpdates struct {
	Title       string
	Description string

	ReplaceAsset bool
	AssetURL     string
	AssetID      string
	DeleteToken  string
}

type MediaRepository interface {
	Create(ctx context.Context, record *entity.MediaRecord) (string, error)
	GetByID(ctx context.Context, kind entity.MediaKind, id string) (*entity.MediaRecord, error)
	List(ctx context.Context, kind entity.MediaKind, limit int) ([]*entity.MediaRecord, error)
	Update(ctx context.Context, kind entity.MediaKind, id string, updates MediaUpdates) error
	Delete(ctx context.Context, kind entity.MediaKind, id string) error

	// Listen establishes a live feed over the collection ordered by
	// createdAt descending. Every delivery carries the complete,
	// freshly-ordered list, never a delta. The channel is closed when
	// ctx is cancelled or the underlying subscription fails.
	Listen(ctx context.Context, kind entity.MediaKind) (<-chan []*entity.MediaRecord, error)
}
