package entity

import (
	"time"
)

// MediaKind selects which of the two media collections a record lives in.
type MediaKind string

const (
	MediaKindImage MediaKind = "image"
	MediaKindVideo MediaKind = "video"
)

func (k MediaKind) Valid() bool {
	return k == MediaKindImage || k == MediaKindVideo
}

// Collection returns the Firestore collection backing this kind.
func (k MediaKind) Collection() string {
	if k == MediaKindVideo {
		return "media_videos"
	}
	return "media_images"
}

// ResourceType is the media host resource segment for this kind.
func (k MediaKind) ResourceType() string {
	if k == MediaKindVideo {
		return "video"
	}
	return "image"
}

// MediaRecord is one item in the image or video gallery. AssetURL,
// AssetID and DeleteToken always describe the same physical asset:
// replacing the asset replaces all three together.
type MediaRecord struct {
	ID          string    `json:"id"`
	Kind        MediaKind `json:"kind"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	AssetURL    string    `json:"asset_url"`
	AssetID     string    `json:"asset_id"`
	DeleteToken string    `json:"-"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
