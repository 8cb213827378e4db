package usecase

import (
	"context"
	"io"
	"strings"

	"mhhf/internal/domain/entity"
	"mhhf/internal/domain/repository"
	"mhhf/internal/domain/service"
	"mhhf/pkg/errors"
	"mhhf/pkg/logger"
)

// MediaUseCase orchestrates create/update/delete across the document
// store and the media host. The document store is authoritative: asset
// deletions are always best-effort cleanup around it.
type MediaUseCase struct {
	mediaRepo repository.MediaRepository
	storage   service.MediaStorage
}

func NewMediaUseCase(mediaRepo repository.MediaRepository, storage service.MediaStorage) *MediaUseCase {
	return &MediaUseCase{
		mediaRepo: mediaRepo,
		storage:   storage,
	}
}

type CreateMediaInput struct {
	Title       string
	Description string
	File        io.Reader
	Filename    string
	Size        int64
}

type UpdateMediaInput struct {
	Title       string
	Description string

	// File is nil for a text-only update.
	File     io.Reader
	Filename string
	Size     int64
}

func (uc *MediaUseCase) Create(ctx context.Context, kind entity.MediaKind, input CreateMediaInput) (*entity.MediaRecord, error) {
	if !kind.Valid() {
		return nil, errors.BadRequest("Unknown media kind", nil)
	}
	if strings.TrimSpace(input.Title) == "" || strings.TrimSpace(input.Description) == "" {
		return nil, errors.BadRequest("Title and description are required", nil)
	}
	if input.File == nil || input.Size == 0 {
		return nil, errors.BadRequest("Please choose a file to upload", nil)
	}

	upload, err := uc.storage.Upload(ctx, input.File, input.Filename, kind)
	if err != nil {
		// Nothing persisted yet, so nothing to compensate.
		return nil, err
	}

	record := &entity.MediaRecord{
		Kind:        kind,
		Title:       input.Title,
		Description: input.Description,
		AssetURL:    upload.AssetURL,
		AssetID:     upload.AssetID,
		DeleteToken: upload.DeleteToken,
	}

	id, err := uc.mediaRepo.Create(ctx, record)
	if err != nil {
		// The uploaded asset is now orphaned. Known gap: no automatic
		// cleanup, the token is logged for manual reconciliation.
		logger.Error("Document write failed after upload; orphaned %s asset %s (token %s): %v",
			kind, upload.AssetID, upload.DeleteToken, err)
		return nil, err
	}

	record.ID = id
	return record, nil
}

// Update applies a text-only or text+asset-replacement update to the
// record the caller is holding, typically the copy from the last feed
// snapshot. No staleness check is made against the store before acting.
func (uc *MediaUseCase) Update(ctx context.Context, kind entity.MediaKind, old *entity.MediaRecord, input UpdateMediaInput) error {
	if !kind.Valid() {
		return errors.BadRequest("Unknown media kind", nil)
	}
	if old == nil || old.ID == "" {
		return errors.BadRequest("No media record selected", nil)
	}
	if strings.TrimSpace(input.Title) == "" || strings.TrimSpace(input.Description) == "" {
		return errors.BadRequest("Title and description are required", nil)
	}

	updates := repository.MediaUpdates{
		Title:       input.Title,
		Description: input.Description,
	}

	replacing := input.File != nil && input.Size > 0
	if replacing {
		// Upload the replacement before touching the old asset so a
		// failed upload never destroys the only existing copy.
		upload, err := uc.storage.Upload(ctx, input.File, input.Filename, kind)
		if err != nil {
			return err
		}

		updates.ReplaceAsset = true
		updates.AssetURL = upload.AssetURL
		updates.AssetID = upload.AssetID
		updates.DeleteToken = upload.DeleteToken

		uc.storage.DeleteByToken(ctx, old.DeleteToken, old.Kind)
	}

	if err := uc.mediaRepo.Update(ctx, kind, old.ID, updates); err != nil {
		if replacing {
			// The record still points at the old asset and stays
			// servable; the new upload is a storage leak, not a
			// correctness break.
			logger.Error("Document update failed after replacement upload; orphaned %s asset %s (token %s): %v",
				kind, updates.AssetID, updates.DeleteToken, err)
		}
		return err
	}

	return nil
}

// Delete removes the document entry, then best-effort deletes the
// physical asset. A document-store failure aborts the whole operation;
// an asset-host failure after that is logged and still reported as
// success because the logical record is gone.
func (uc *MediaUseCase) Delete(ctx context.Context, kind entity.MediaKind, record *entity.MediaRecord) error {
	if !kind.Valid() {
		return errors.BadRequest("Unknown media kind", nil)
	}
	if record == nil || record.ID == "" {
		return errors.BadRequest("No media record selected", nil)
	}

	if err := uc.mediaRepo.Delete(ctx, kind, record.ID); err != nil {
		return err
	}

	uc.storage.DeleteByToken(ctx, record.DeleteToken, kind)
	return nil
}

func (uc *MediaUseCase) Get(ctx context.Context, kind entity.MediaKind, id string) (*entity.MediaRecord, error) {
	if !kind.Valid() {
		return nil, errors.BadRequest("Unknown media kind", nil)
	}
	return uc.mediaRepo.GetByID(ctx, kind, id)
}

func (uc *MediaUseCase) List(ctx context.Context, kind entity.MediaKind, limit int) ([]*entity.MediaRecord, error) {
	if !kind.Valid() {
		return nil, errors.BadRequest("Unknown media kind", nil)
	}
	return uc.mediaRepo.List(ctx, kind, limit)
}
