package cloudinary

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"mhhf/internal/domain/entity"
	"mhhf/internal/domain/service"
	"mhhf/pkg/errors"
	"mhhf/pkg/logger"
)

// Client talks to the Cloudinary unsigned upload API. Uploads return a
// public URL, a public id and a one-time deletion token; deletions are
// issued against that token and are always best-effort.
type Client struct {
	httpClient   *http.Client
	baseURL      string
	cloudName    string
	imagePreset  string
	videoPreset  string
	folderPrefix string
}

func NewClient(cloudName, imagePreset, videoPreset, folderPrefix string) *Client {
	return &Client{
		httpClient:   &http.Client{},
		baseURL:      "https://api.cloudinary.com/v1_1",
		cloudName:    cloudName,
		imagePreset:  imagePreset,
		videoPreset:  videoPreset,
		folderPrefix: folderPrefix,
	}
}

// NewClientWithBaseURL is used by tests to point the client at a stub server.
func NewClientWithBaseURL(baseURL, cloudName, imagePreset, videoPreset, folderPrefix string) *Client {
	c := NewClient(cloudName, imagePreset, videoPreset, folderPrefix)
	c.baseURL = strings.TrimSuffix(baseURL, "/")
	return c
}

type uploadResponse struct {
	SecureURL   string `json:"secure_url"`
	PublicID    string `json:"public_id"`
	DeleteToken string `json:"delete_token"`
	Error       *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (c *Client) preset(kind entity.MediaKind) string {
	if kind == entity.MediaKindVideo {
		return c.videoPreset
	}
	return c.imagePreset
}

func (c *Client) folder(kind entity.MediaKind) string {
	if kind == entity.MediaKindVideo {
		return c.folderPrefix + "/videos"
	}
	return c.folderPrefix + "/images"
}

func (c *Client) Upload(ctx context.Context, file io.Reader, filename string, kind entity.MediaKind) (*service.UploadResult, error) {
	if c.cloudName == "" {
		return nil, errors.Unavailable("Media host is not configured", nil)
	}

	body := &strings.Builder{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return nil, errors.Internal("Failed to build upload request", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, errors.Internal("Failed to read upload file", err)
	}
	writer.WriteField("upload_preset", c.preset(kind))
	writer.WriteField("folder", c.folder(kind))
	writer.WriteField("return_delete_token", "1")
	if err := writer.Close(); err != nil {
		return nil, errors.Internal("Failed to build upload request", err)
	}

	url := fmt.Sprintf("%s/%s/%s/upload", c.baseURL, c.cloudName, kind.ResourceType())
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, strings.NewReader(body.String()))
	if err != nil {
		return nil, errors.Internal("Failed to build upload request", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	started := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.UploadFailed("Upload failed", err)
	}
	defer resp.Body.Close()

	var payload uploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, errors.UploadFailed("Upload failed", err)
	}

	if resp.StatusCode != http.StatusOK {
		reason := "Upload failed"
		if payload.Error != nil && payload.Error.Message != "" {
			reason = payload.Error.Message
		}
		return nil, errors.UploadFailed(reason, nil)
	}

	logger.Debug("Uploaded %s asset %s in %s", kind, payload.PublicID, time.Since(started))

	return &service.UploadResult{
		AssetURL:    payload.SecureURL,
		AssetID:     payload.PublicID,
		DeleteToken: payload.DeleteToken,
	}, nil
}

func (c *Client) DeleteByToken(ctx context.Context, token string, kind entity.MediaKind) {
	if token == "" || c.cloudName == "" {
		return
	}

	body := &strings.Builder{}
	writer := multipart.NewWriter(body)
	writer.WriteField("token", token)
	if err := writer.Close(); err != nil {
		logger.Warn("Unable to build asset delete request: %v", err)
		return
	}

	url := fmt.Sprintf("%s/%s/%s/delete_by_token", c.baseURL, c.cloudName, kind.ResourceType())
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, strings.NewReader(body.String()))
	if err != nil {
		logger.Warn("Unable to build asset delete request: %v", err)
		return
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.Warn("Unable to delete media asset: %v", err)
		return
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		logger.Warn("Media host refused asset deletion (status %d)", resp.StatusCode)
	}
}
