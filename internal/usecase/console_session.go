package usecase

import (
	"context"
	"sync"

	"mhhf/internal/domain/entity"
	"mhhf/internal/domain/repository"
	"mhhf/pkg/errors"
	"mhhf/pkg/logger"
)

// DialogState is the console's modal state. At most one dialog is open
// per session; opening another while one is active is rejected instead
// of silently overwriting the selection.
type DialogState int

const (
	DialogClosed DialogState = iota
	DialogEditOpen
	DialogConfirmDeleteOpen
)

// FeedSnapshot is one complete, freshly-ordered collection delivered by
// the live feed. Rendering is always a re-derivation of the latest
// snapshot, never a local patch.
type FeedSnapshot struct {
	Kind    entity.MediaKind      `json:"kind"`
	Records []*entity.MediaRecord `json:"records"`
}

// ConsoleSession owns one admin's console state: the two live feed
// subscriptions and the edit/confirm-delete dialog slot. It replaces
// the UI exclusivity the dashboard relied on with guarded transitions.
type ConsoleSession struct {
	media     *MediaUseCase
	mediaRepo repository.MediaRepository

	mu             sync.Mutex
	state          DialogState
	pendingKind    entity.MediaKind
	pendingRecord  *entity.MediaRecord
	releasePreview func()

	attachMu    sync.Mutex
	cancelFeeds context.CancelFunc
	snapshots   chan FeedSnapshot
}

func NewConsoleSession(media *MediaUseCase, mediaRepo repository.MediaRepository) *ConsoleSession {
	return &ConsoleSession{
		media:     media,
		mediaRepo: mediaRepo,
	}
}

// Attach establishes the live feeds, one subscription per collection.
// Re-attaching tears down the previous subscriptions first. A feed that
// cannot be established is logged and left disabled; the session still
// works for the collections that did subscribe.
func (s *ConsoleSession) Attach(ctx context.Context) <-chan FeedSnapshot {
	s.attachMu.Lock()
	defer s.attachMu.Unlock()

	s.detachLocked()

	feedCtx, cancel := context.WithCancel(ctx)
	s.cancelFeeds = cancel

	out := make(chan FeedSnapshot, 2)
	s.snapshots = out

	var wg sync.WaitGroup
	for _, kind := range []entity.MediaKind{entity.MediaKindImage, entity.MediaKindVideo} {
		feed, err := s.mediaRepo.Listen(feedCtx, kind)
		if err != nil {
			logger.Warn("Media feed unavailable for %s: %v", kind.Collection(), err)
			continue
		}

		wg.Add(1)
		go func(kind entity.MediaKind, feed <-chan []*entity.MediaRecord) {
			defer wg.Done()
			for records := range feed {
				select {
				case out <- FeedSnapshot{Kind: kind, Records: records}:
				case <-feedCtx.Done():
					return
				}
			}
		}(kind, feed)
	}

	go func() {
		wg.Wait()
		close(out)
	}()

	return out
}

// Detach tears down the live feeds. Safe to call repeatedly and on a
// session that never attached.
func (s *ConsoleSession) Detach() {
	s.attachMu.Lock()
	defer s.attachMu.Unlock()
	s.detachLocked()
}

func (s *ConsoleSession) detachLocked() {
	if s.cancelFeeds != nil {
		s.cancelFeeds()
		s.cancelFeeds = nil
		s.snapshots = nil
	}
}

// Close ends the session: feeds detached, any open dialog dismissed and
// its preview resource released.
func (s *ConsoleSession) Close() {
	s.Detach()
	s.Cancel()
}

func (s *ConsoleSession) State() DialogState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// OpenEdit moves Closed -> EditOpen for the given record.
func (s *ConsoleSession) OpenEdit(kind entity.MediaKind, record *entity.MediaRecord) error {
	return s.open(DialogEditOpen, kind, record)
}

// OpenDelete moves Closed -> ConfirmDeleteOpen for the given record.
func (s *ConsoleSession) OpenDelete(kind entity.MediaKind, record *entity.MediaRecord) error {
	return s.open(DialogConfirmDeleteOpen, kind, record)
}

func (s *ConsoleSession) open(target DialogState, kind entity.MediaKind, record *entity.MediaRecord) error {
	if !kind.Valid() {
		return errors.BadRequest("Unknown media kind", nil)
	}
	if record == nil || record.ID == "" {
		return errors.BadRequest("No media record selected", nil)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != DialogClosed {
		return errors.Conflict("Another dialog is already open")
	}

	s.state = target
	s.pendingKind = kind
	s.pendingRecord = record
	return nil
}

// RegisterPreviewRelease attaches a cleanup func for a transient
// preview resource tied to the open edit dialog. Choosing a second
// replacement file releases the previous preview immediately; the last
// one is released on whichever path closes the dialog.
func (s *ConsoleSession) RegisterPreviewRelease(release func()) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != DialogEditOpen {
		return errors.Conflict("No edit dialog is open")
	}

	if s.releasePreview != nil {
		s.releasePreview()
	}
	s.releasePreview = release
	return nil
}

// Cancel dismisses whatever dialog is open. Dismissing a closed
// console is a no-op, matching a backdrop click with nothing open.
func (s *ConsoleSession) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closeDialogLocked()
}

func (s *ConsoleSession) closeDialogLocked() {
	if s.releasePreview != nil {
		s.releasePreview()
		s.releasePreview = nil
	}
	s.state = DialogClosed
	s.pendingKind = ""
	s.pendingRecord = nil
}

// SubmitEdit applies the edit against the record held by the open
// dialog. On success the dialog closes; on failure it stays open so
// the admin can retry, mirroring the dashboard behavior.
func (s *ConsoleSession) SubmitEdit(ctx context.Context, input UpdateMediaInput) error {
	s.mu.Lock()
	if s.state != DialogEditOpen {
		s.mu.Unlock()
		return errors.Conflict("No edit dialog is open")
	}
	kind := s.pendingKind
	record := s.pendingRecord
	s.mu.Unlock()

	if err := s.media.Update(ctx, kind, record, input); err != nil {
		return err
	}

	s.mu.Lock()
	s.closeDialogLocked()
	s.mu.Unlock()
	return nil
}

// ConfirmDelete executes the pending deletion. The selection is
// cleared whether the deletion succeeds or fails.
func (s *ConsoleSession) ConfirmDelete(ctx context.Context) (*entity.MediaRecord, error) {
	s.mu.Lock()
	if s.state != DialogConfirmDeleteOpen {
		s.mu.Unlock()
		return nil, errors.Conflict("No deletion is pending")
	}
	kind := s.pendingKind
	record := s.pendingRecord
	s.closeDialogLocked()
	s.mu.Unlock()

	if err := s.media.Delete(ctx, kind, record); err != nil {
		return nil, err
	}
	return record, nil
}

// PendingRecord exposes the current dialog target, if any.
func (s *ConsoleSession) PendingRecord() (entity.MediaKind, *entity.MediaRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pendingKind, s.pendingRecord
}
