package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"mhhf/internal/domain/entity"
	"mhhf/internal/domain/service"
	"mhhf/internal/usecase"
	"mhhf/pkg/response"
)

type okStorage struct {
	deletedTokens []string
}

func (s *okStorage) Upload(ctx context.Context, file io.Reader, filename string, kind entity.MediaKind) (*service.UploadResult, error) {
	return &service.UploadResult{
		AssetURL:    "https://cdn/" + filename,
		AssetID:     "asset-" + filename,
		DeleteToken: "tok-" + filename,
	}, nil
}

func (s *okStorage) DeleteByToken(ctx context.Context, token string, kind entity.MediaKind) {
	s.deletedTokens = append(s.deletedTokens, token)
}

func multipartBody(t *testing.T, title, description, filename, contentType string, size int) (*bytes.Buffer, string) {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	writer.WriteField("title", title)
	writer.WriteField("description", description)
	if filename != "" {
		header := textproto.MIMEHeader{}
		header.Set("Content-Disposition", `form-data; name="file"; filename="`+filename+`"`)
		header.Set("Content-Type", contentType)
		part, err := writer.CreatePart(header)
		assert.NoError(t, err)
		part.Write(bytes.Repeat([]byte("x"), size))
	}
	assert.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func adminCreateRequest(t *testing.T, h *AdminMediaHandler, kindParam string, body *bytes.Buffer, contentType string) (*httptest.ResponseRecorder, response.Response) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/admin/media/"+kindParam, body)
	req.Header.Set(echo.HeaderContentType, contentType)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("kind")
	c.SetParamValues(kindParam)

	assert.NoError(t, h.Create(c))

	var parsed response.Response
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &parsed))
	return rec, parsed
}

func TestAdminCreateMedia(t *testing.T) {
	repo := seedImages(0)
	h := NewAdminMediaHandler(usecase.NewMediaUseCase(repo, &okStorage{}))

	body, contentType := multipartBody(t, "Eid Drive 2024", "Distribution photos", "eid.jpg", "image/jpeg", 1024)
	rec, parsed := adminCreateRequest(t, h, "images", body, contentType)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.True(t, parsed.Success)
	data, _ := parsed.Data.(map[string]interface{})
	assert.Equal(t, "Eid Drive 2024", data["title"])
	assert.Equal(t, "https://cdn/eid.jpg", data["asset_url"])
	// The delete token never leaves the server
	_, exposed := data["delete_token"]
	assert.False(t, exposed)
}

func TestAdminCreateMediaRejectsFileType(t *testing.T) {
	repo := seedImages(0)
	h := NewAdminMediaHandler(usecase.NewMediaUseCase(repo, &okStorage{}))

	body, contentType := multipartBody(t, "Clip", "A clip", "notes.pdf", "application/pdf", 1024)
	rec, parsed := adminCreateRequest(t, h, "videos", body, contentType)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "File type not supported", parsed.Error.Message)
}

func TestAdminCreateMediaRejectsOversizedFile(t *testing.T) {
	repo := seedImages(0)
	h := NewAdminMediaHandler(usecase.NewMediaUseCase(repo, &okStorage{}))
	h.maxImageSize = 1024

	body, contentType := multipartBody(t, "Eid Drive 2024", "Distribution photos", "big.jpg", "image/jpeg", 2048)
	rec, _ := adminCreateRequest(t, h, "images", body, contentType)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAdminCreateMediaRequiresFile(t *testing.T) {
	repo := seedImages(0)
	h := NewAdminMediaHandler(usecase.NewMediaUseCase(repo, &okStorage{}))

	body, contentType := multipartBody(t, "Eid Drive 2024", "Distribution photos", "", "", 0)
	rec, parsed := adminCreateRequest(t, h, "images", body, contentType)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Please choose a file to upload.", parsed.Error.Message)
}
