package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	fbauth "firebase.google.com/go/v4/auth"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"mhhf/internal/domain/entity"
	"mhhf/internal/domain/repository"
	"mhhf/internal/infrastructure/ratelimit"
	ws "mhhf/internal/infrastructure/websocket"
	"mhhf/internal/usecase"
	"mhhf/pkg/errors"
	"mhhf/pkg/logger"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// ConsoleHandler serves the live admin console: feed snapshots are
// pushed on every document change, and the edit/confirm-delete dialog
// flow runs through the session's guarded state machine.
type ConsoleHandler struct {
	manager      *ws.Manager
	authClient   *fbauth.Client
	mediaUseCase *usecase.MediaUseCase
	mediaRepo    repository.MediaRepository
	limiter      *ratelimit.RateLimiter
}

func NewConsoleHandler(manager *ws.Manager, authClient *fbauth.Client, mediaUseCase *usecase.MediaUseCase, mediaRepo repository.MediaRepository) *ConsoleHandler {
	limiter := ratelimit.NewRateLimiter()
	limiter.StartCleanupRoutine()

	return &ConsoleHandler{
		manager:      manager,
		authClient:   authClient,
		mediaUseCase: mediaUseCase,
		mediaRepo:    mediaRepo,
		limiter:      limiter,
	}
}

type consoleCommand struct {
	Action      string `json:"action"`
	Kind        string `json:"kind,omitempty"`
	ID          string `json:"id,omitempty"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
}

type consoleFrame struct {
	Type    string                `json:"type"`
	Kind    entity.MediaKind      `json:"kind,omitempty"`
	Records []*entity.MediaRecord `json:"records,omitempty"`
	Level   string                `json:"level,omitempty"`
	Message string                `json:"message,omitempty"`
}

// Connect upgrades the connection, attaches the feeds and runs the
// command loop until the admin disconnects.
func (h *ConsoleHandler) Connect(c echo.Context) error {
	token := c.QueryParam("token")
	if token == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "Token is required")
	}

	decoded, err := h.authClient.VerifyIDToken(c.Request().Context(), token)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid or expired token")
	}
	uid := decoded.UID

	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}

	client := &ws.Client{
		SessionID: uuid.New().String(),
		Conn:      conn,
		Send:      make(chan []byte, 16),
	}
	h.manager.Register <- client

	ctx, cancel := context.WithCancel(context.Background())
	session := usecase.NewConsoleSession(h.mediaUseCase, h.mediaRepo)
	snapshots := session.Attach(ctx)

	state := &consoleState{
		uid:     uid,
		client:  client,
		session: session,
		handler: h,
		latest:  make(map[entity.MediaKind][]*entity.MediaRecord),
	}

	go client.WritePump()
	go state.pumpSnapshots(ctx, snapshots)

	client.ReadPump(h.manager, func(message []byte) {
		state.handleCommand(ctx, message)
	})

	// Session end: feeds detached, open dialog dismissed.
	cancel()
	session.Close()
	return nil
}

// consoleState is the per-connection view: the latest snapshot per
// collection is what dialog targets are resolved against, so an edit
// always starts from the same (possibly stale) copy the admin sees.
type consoleState struct {
	uid     string
	client  *ws.Client
	session *usecase.ConsoleSession
	handler *ConsoleHandler

	mu     sync.Mutex
	latest map[entity.MediaKind][]*entity.MediaRecord
}

func (s *consoleState) send(frame consoleFrame) {
	payload, err := json.Marshal(frame)
	if err != nil {
		logger.Error("Failed to encode console frame: %v", err)
		return
	}
	select {
	case s.client.Send <- payload:
	default:
		logger.Warn("Console %s send buffer full, dropping frame", s.client.SessionID)
	}
}

func (s *consoleState) notice(level, message string) {
	s.send(consoleFrame{Type: "notice", Level: level, Message: message})
}

func (s *consoleState) pumpSnapshots(ctx context.Context, snapshots <-chan usecase.FeedSnapshot) {
	for {
		select {
		case snap, ok := <-snapshots:
			if !ok {
				return
			}
			s.mu.Lock()
			s.latest[snap.Kind] = snap.Records
			s.mu.Unlock()
			s.send(consoleFrame{Type: "snapshot", Kind: snap.Kind, Records: snap.Records})
		case <-ctx.Done():
			return
		}
	}
}

func (s *consoleState) findRecord(kind entity.MediaKind, id string) *entity.MediaRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, record := range s.latest[kind] {
		if record.ID == id {
			return record
		}
	}
	return nil
}

func (s *consoleState) handleCommand(ctx context.Context, message []byte) {
	var cmd consoleCommand
	if err := json.Unmarshal(message, &cmd); err != nil {
		s.notice("error", "Malformed command")
		return
	}

	if allowed, wait := s.handler.limiter.Allow(s.uid, commandBucket(cmd.Action)); !allowed {
		logger.Warn("Console command rate limited for %s (wait %v)", s.uid, wait)
		s.notice("error", "Too many actions. Please slow down.")
		return
	}

	switch cmd.Action {
	case "open_edit", "open_delete":
		kind := entity.MediaKind(cmd.Kind)
		record := s.findRecord(kind, cmd.ID)
		if record == nil {
			s.notice("error", "That item is no longer in the list.")
			return
		}
		var err error
		if cmd.Action == "open_edit" {
			err = s.session.OpenEdit(kind, record)
		} else {
			err = s.session.OpenDelete(kind, record)
		}
		if err != nil {
			s.notice("error", userMessage(err))
			return
		}
		s.send(consoleFrame{Type: "dialog", Kind: kind, Message: cmd.Action})

	case "cancel":
		s.session.Cancel()
		s.send(consoleFrame{Type: "dialog", Message: "closed"})

	case "submit_edit":
		err := s.session.SubmitEdit(ctx, usecase.UpdateMediaInput{
			Title:       cmd.Title,
			Description: cmd.Description,
		})
		if err != nil {
			s.notice("error", userMessage(err))
			return
		}
		s.notice("success", "Item updated successfully.")

	case "confirm_delete":
		record, err := s.session.ConfirmDelete(ctx)
		if err != nil {
			s.notice("error", "Failed to delete item. Please try again.")
			logger.Error("Console delete failed for %s: %v", s.uid, err)
			return
		}
		logger.Info("Deleted %s record %s via console", record.Kind, record.ID)
		s.notice("success", "Item deleted successfully.")

	default:
		s.notice("error", "Unknown action")
	}
}

func commandBucket(action string) string {
	switch action {
	case "confirm_delete":
		return "delete"
	case "submit_edit":
		return "upload"
	}
	return "dialog"
}

func userMessage(err error) string {
	if appErr, ok := err.(*errors.AppError); ok {
		return appErr.Message
	}
	return "Something went wrong. Please try again."
}
