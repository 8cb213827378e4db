package handler

import (
	"fmt"
	"mime/multipart"
	"strings"

	"github.com/labstack/echo/v4"

	"mhhf/internal/domain/entity"
	"mhhf/internal/usecase"
	"mhhf/pkg/errors"
	"mhhf/pkg/logger"
	"mhhf/pkg/response"
)

type AdminMediaHandler struct {
	mediaUseCase *usecase.MediaUseCase
	maxImageSize int64
	maxVideoSize int64
}

func NewAdminMediaHandler(mediaUseCase *usecase.MediaUseCase) *AdminMediaHandler {
	return &AdminMediaHandler{
		mediaUseCase: mediaUseCase,
		maxImageSize: 10 * 1024 * 1024,
		maxVideoSize: 100 * 1024 * 1024,
	}
}

func (h *AdminMediaHandler) maxSize(kind entity.MediaKind) int64 {
	if kind == entity.MediaKindVideo {
		return h.maxVideoSize
	}
	return h.maxImageSize
}

func isAllowedMediaType(kind entity.MediaKind, contentType string) bool {
	if kind == entity.MediaKindVideo {
		switch contentType {
		case "video/mp4", "video/quicktime", "video/webm":
			return true
		}
		return false
	}
	return strings.HasPrefix(contentType, "image/")
}

func (h *AdminMediaHandler) checkFile(kind entity.MediaKind, file *multipart.FileHeader) error {
	if file.Size > h.maxSize(kind) {
		return errors.BadRequest(fmt.Sprintf("File size exceeds maximum allowed (%dMB)", h.maxSize(kind)/(1024*1024)), nil)
	}
	if !isAllowedMediaType(kind, file.Header.Get("Content-Type")) {
		return errors.BadRequest("File type not supported", nil)
	}
	return nil
}

// Create uploads the file to the media host, then writes the record.
func (h *AdminMediaHandler) Create(c echo.Context) error {
	kind, err := kindFromParam(c.Param("kind"))
	if err != nil {
		return response.Error(c, err)
	}

	file, err := c.FormFile("file")
	if err != nil {
		return response.Error(c, errors.BadRequest("Please choose a file to upload.", err))
	}
	if err := h.checkFile(kind, file); err != nil {
		return response.Error(c, err)
	}

	src, err := file.Open()
	if err != nil {
		return response.Error(c, errors.Internal("Unable to read file", err))
	}
	defer src.Close()

	record, err := h.mediaUseCase.Create(c.Request().Context(), kind, usecase.CreateMediaInput{
		Title:       c.FormValue("title"),
		Description: c.FormValue("description"),
		File:        src,
		Filename:    file.Filename,
		Size:        file.Size,
	})
	if err != nil {
		return response.Error(c, err)
	}

	logger.Info("Created %s record %s", kind, record.ID)
	return response.Created(c, record)
}

// Update applies a text-only edit, or replaces the asset too when a
// file is attached.
func (h *AdminMediaHandler) Update(c echo.Context) error {
	kind, err := kindFromParam(c.Param("kind"))
	if err != nil {
		return response.Error(c, err)
	}
	id := c.Param("id")

	input := usecase.UpdateMediaInput{
		Title:       c.FormValue("title"),
		Description: c.FormValue("description"),
	}

	if file, err := c.FormFile("file"); err == nil && file.Size > 0 {
		if err := h.checkFile(kind, file); err != nil {
			return response.Error(c, err)
		}
		src, err := file.Open()
		if err != nil {
			return response.Error(c, errors.Internal("Unable to read file", err))
		}
		defer src.Close()
		input.File = src
		input.Filename = file.Filename
		input.Size = file.Size
	}

	// The stored copy stands in for the feed snapshot the dashboard
	// edits from; its token identifies the asset being superseded.
	old, err := h.mediaUseCase.Get(c.Request().Context(), kind, id)
	if err != nil {
		return response.Error(c, err)
	}

	if err := h.mediaUseCase.Update(c.Request().Context(), kind, old, input); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{
		"message": fmt.Sprintf("%s updated successfully.", strings.Title(string(kind))),
	})
}

// Delete removes the record, then best-effort deletes its asset.
func (h *AdminMediaHandler) Delete(c echo.Context) error {
	kind, err := kindFromParam(c.Param("kind"))
	if err != nil {
		return response.Error(c, err)
	}
	id := c.Param("id")

	record, err := h.mediaUseCase.Get(c.Request().Context(), kind, id)
	if err != nil {
		return response.Error(c, err)
	}

	if err := h.mediaUseCase.Delete(c.Request().Context(), kind, record); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{
		"message": fmt.Sprintf("%s deleted successfully.", strings.Title(string(kind))),
	})
}

// List returns the full admin view of a collection.
func (h *AdminMediaHandler) List(c echo.Context) error {
	kind, err := kindFromParam(c.Param("kind"))
	if err != nil {
		return response.Error(c, err)
	}

	records, err := h.mediaUseCase.List(c.Request().Context(), kind, 0)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, records)
}
