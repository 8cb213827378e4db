package handler

import (
	"time"

	"github.com/labstack/echo/v4"

	"mhhf/internal/domain/entity"
	"mhhf/internal/usecase"
	"mhhf/pkg/errors"
	"mhhf/pkg/logger"
	"mhhf/pkg/response"
	"mhhf/pkg/utils"
)

// Homepage preview caps, matching what the landing page renders.
const (
	previewImageLimit = 10
	previewVideoLimit = 4

	previewImageTruncate = 90
	previewVideoTruncate = 110
)

type PublicMediaHandler struct {
	mediaUseCase *usecase.MediaUseCase
}

func NewPublicMediaHandler(mediaUseCase *usecase.MediaUseCase) *PublicMediaHandler {
	return &PublicMediaHandler{
		mediaUseCase: mediaUseCase,
	}
}

type publicMediaItem struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	URL         string    `json:"url"`
	CreatedAt   time.Time `json:"created_at"`
}

func kindFromParam(param string) (entity.MediaKind, error) {
	switch param {
	case "images", "image":
		return entity.MediaKindImage, nil
	case "videos", "video":
		return entity.MediaKindVideo, nil
	}
	return "", errors.BadRequest("Unknown media kind", nil)
}

// List serves gallery snapshots: a one-shot ordered read, newest
// first, optionally capped. A load failure is reported as an error so
// the client can distinguish it from an empty gallery.
func (h *PublicMediaHandler) List(c echo.Context) error {
	kind, err := kindFromParam(c.Param("kind"))
	if err != nil {
		return response.Error(c, err)
	}

	preview := c.QueryParam("preview") == "1"
	limit := utils.GetLimitParam(c, 100)
	if limit == 0 && preview {
		if kind == entity.MediaKindVideo {
			limit = previewVideoLimit
		} else {
			limit = previewImageLimit
		}
	}

	records, err := h.mediaUseCase.List(c.Request().Context(), kind, limit)
	if err != nil {
		logger.Error("Unable to load %s gallery: %v", kind, err)
		return response.Error(c, errors.Internal("Unable to load gallery items at the moment. Please try again later.", err))
	}

	items := make([]publicMediaItem, 0, len(records))
	for _, record := range records {
		if record.AssetURL == "" {
			continue
		}
		description := record.Description
		if preview {
			if kind == entity.MediaKindVideo {
				description = utils.Truncate(description, previewVideoTruncate)
			} else {
				description = utils.Truncate(description, previewImageTruncate)
			}
		}
		items = append(items, publicMediaItem{
			ID:          record.ID,
			Title:       record.Title,
			Description: description,
			URL:         record.AssetURL,
			CreatedAt:   record.CreatedAt,
		})
	}

	return response.Success(c, items)
}
