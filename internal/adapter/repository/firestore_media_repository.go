package repository

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"mhhf/internal/domain/entity"
	"mhhf/internal/domain/repository"
	"mhhf/pkg/errors"
	"mhhf/pkg/logger"
)

type firestoreMediaRepository struct {
	client *firestore.Client
}

func NewFirestoreMediaRepository(client *firestore.Client) repository.MediaRepository {
	return &firestoreMediaRepository{
		client: client,
	}
}

// mediaDoc mirrors the stored document. The asset URL lives under a
// kind-specific field; older documents may carry it under mediaUrl.
type mediaDoc struct {
	Title       string    `firestore:"title"`
	Description string    `firestore:"description"`
	ImageURL    string    `firestore:"imageUrl"`
	VideoURL    string    `firestore:"videoUrl"`
	LegacyURL   string    `firestore:"mediaUrl"`
	PublicID    string    `firestore:"publicId"`
	DeleteToken string    `firestore:"deleteToken"`
	CreatedAt   time.Time `firestore:"createdAt"`
	UpdatedAt   time.Time `firestore:"updatedAt"`
}

func urlField(kind entity.MediaKind) string {
	if kind == entity.MediaKindVideo {
		return "videoUrl"
	}
	return "imageUrl"
}

func (d *mediaDoc) toRecord(id string, kind entity.MediaKind) *entity.MediaRecord {
	url := d.ImageURL
	if kind == entity.MediaKindVideo {
		url = d.VideoURL
	}
	if url == "" {
		url = d.LegacyURL
	}
	return &entity.MediaRecord{
		ID:          id,
		Kind:        kind,
		Title:       d.Title,
		Description: d.Description,
		AssetURL:    url,
		AssetID:     d.PublicID,
		DeleteToken: d.DeleteToken,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

func (r *firestoreMediaRepository) Create(ctx context.Context, record *entity.MediaRecord) (string, error) {
	payload := map[string]interface{}{
		"title":               record.Title,
		"description":         record.Description,
		urlField(record.Kind): record.AssetURL,
		"publicId":            record.AssetID,
		"deleteToken":         record.DeleteToken,
		"createdAt":           firestore.ServerTimestamp,
		"updatedAt":           firestore.ServerTimestamp,
	}

	ref, _, err := r.client.Collection(record.Kind.Collection()).Add(ctx, payload)
	if err != nil {
		return "", errors.Internal("Failed to create media record", err)
	}
	return ref.ID, nil
}

func (r *firestoreMediaRepository) GetByID(ctx context.Context, kind entity.MediaKind, id string) (*entity.MediaRecord, error) {
	doc, err := r.client.Collection(kind.Collection()).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Media record", err)
		}
		return nil, errors.Internal("Failed to get media record", err)
	}

	var data mediaDoc
	if err := doc.DataTo(&data); err != nil {
		return nil, errors.Internal("Failed to parse media record", err)
	}

	return data.toRecord(doc.Ref.ID, kind), nil
}

func (r *firestoreMediaRepository) List(ctx context.Context, kind entity.MediaKind, limit int) ([]*entity.MediaRecord, error) {
	query := r.client.Collection(kind.Collection()).OrderBy("createdAt", firestore.Desc)
	if limit > 0 {
		query = query.Limit(limit)
	}

	iter := query.Documents(ctx)
	defer iter.Stop()

	records := []*entity.MediaRecord{}
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errors.Internal("Failed to iterate media records", err)
		}

		var data mediaDoc
		if err := doc.DataTo(&data); err != nil {
			logger.Error("Failed to parse media record %s: %v", doc.Ref.ID, err)
			continue
		}
		records = append(records, data.toRecord(doc.Ref.ID, kind))
	}

	return records, nil
}

func (r *firestoreMediaRepository) Update(ctx context.Context, kind entity.MediaKind, id string, updates repository.MediaUpdates) error {
	fields := []firestore.Update{
		{Path: "title", Value: updates.Title},
		{Path: "description", Value: updates.Description},
		{Path: "updatedAt", Value: firestore.ServerTimestamp},
	}
	if updates.ReplaceAsset {
		fields = append(fields,
			firestore.Update{Path: urlField(kind), Value: updates.AssetURL},
			firestore.Update{Path: "publicId", Value: updates.AssetID},
			firestore.Update{Path: "deleteToken", Value: updates.DeleteToken},
		)
	}

	_, err := r.client.Collection(kind.Collection()).Doc(id).Update(ctx, fields)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return errors.NotFound("Media record", err)
		}
		return errors.Internal("Failed to update media record", err)
	}
	return nil
}

func (r *firestoreMediaRepository) Delete(ctx context.Context, kind entity.MediaKind, id string) error {
	_, err := r.client.Collection(kind.Collection()).Doc(id).Delete(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return errors.NotFound("Media record", err)
		}
		return errors.Internal("Failed to delete media record", err)
	}
	return nil
}

func (r *firestoreMediaRepository) Listen(ctx context.Context, kind entity.MediaKind) (<-chan []*entity.MediaRecord, error) {
	if r.client == nil {
		return nil, errors.Unavailable("Document store is not configured", nil)
	}

	query := r.client.Collection(kind.Collection()).OrderBy("createdAt", firestore.Desc)
	snapshots := query.Snapshots(ctx)

	out := make(chan []*entity.MediaRecord, 1)
	go func() {
		defer close(out)
		defer snapshots.Stop()

		for {
			snap, err := snapshots.Next()
			if err != nil {
				if ctx.Err() == nil {
					logger.Warn("Media feed for %s ended: %v", kind.Collection(), err)
				}
				return
			}

			docs, err := snap.Documents.GetAll()
			if err != nil {
				logger.Warn("Failed to read %s feed snapshot: %v", kind.Collection(), err)
				continue
			}

			records := make([]*entity.MediaRecord, 0, len(docs))
			for _, doc := range docs {
				var data mediaDoc
				if err := doc.DataTo(&data); err != nil {
					logger.Error("Failed to parse media record %s: %v", doc.Ref.ID, err)
					continue
				}
				records = append(records, data.toRecord(doc.Ref.ID, kind))
			}

			select {
			case out <- records:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, nil
}
