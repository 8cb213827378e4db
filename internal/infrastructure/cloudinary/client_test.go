package cloudinary

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"mhhf/internal/domain/entity"
	"mhhf/pkg/errors"
)

func TestUpload(t *testing.T) {
	var gotPath string
	var gotPreset, gotFolder, gotReturnToken, gotFilename string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		assert.NoError(t, r.ParseMultipartForm(1<<20))
		gotPreset = r.FormValue("upload_preset")
		gotFolder = r.FormValue("folder")
		gotReturnToken = r.FormValue("return_delete_token")
		if _, header, err := r.FormFile("file"); err == nil {
			gotFilename = header.Filename
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"secure_url":"https://cdn/eid.jpg","public_id":"mhhf/images/eid","delete_token":"tok1"}`))
	}))
	defer server.Close()

	client := NewClientWithBaseURL(server.URL, "demo", "img_preset", "vid_preset", "mhhf")
	result, err := client.Upload(context.Background(), strings.NewReader("file-bytes"), "eid.jpg", entity.MediaKindImage)

	assert.NoError(t, err)
	assert.Equal(t, "https://cdn/eid.jpg", result.AssetURL)
	assert.Equal(t, "mhhf/images/eid", result.AssetID)
	assert.Equal(t, "tok1", result.DeleteToken)

	assert.Equal(t, "/demo/image/upload", gotPath)
	assert.Equal(t, "img_preset", gotPreset)
	assert.Equal(t, "mhhf/images", gotFolder)
	assert.Equal(t, "1", gotReturnToken)
	assert.Equal(t, "eid.jpg", gotFilename)
}

func TestUploadVideoUsesVideoPresetAndFolder(t *testing.T) {
	var gotPath, gotPreset, gotFolder string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		assert.NoError(t, r.ParseMultipartForm(1<<20))
		gotPreset = r.FormValue("upload_preset")
		gotFolder = r.FormValue("folder")
		w.Write([]byte(`{"secure_url":"https://cdn/v.mp4","public_id":"mhhf/videos/v","delete_token":"tok2"}`))
	}))
	defer server.Close()

	client := NewClientWithBaseURL(server.URL, "demo", "img_preset", "vid_preset", "mhhf")
	_, err := client.Upload(context.Background(), strings.NewReader("file-bytes"), "v.mp4", entity.MediaKindVideo)

	assert.NoError(t, err)
	assert.Equal(t, "/demo/video/upload", gotPath)
	assert.Equal(t, "vid_preset", gotPreset)
	assert.Equal(t, "mhhf/videos", gotFolder)
}

func TestUploadRejection(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"message":"Upload preset not found"}}`))
	}))
	defer server.Close()

	client := NewClientWithBaseURL(server.URL, "demo", "img_preset", "vid_preset", "mhhf")
	_, err := client.Upload(context.Background(), strings.NewReader("file-bytes"), "eid.jpg", entity.MediaKindImage)

	assert.True(t, errors.Is(err, "UPLOAD_FAILED"))
	appErr := err.(*errors.AppError)
	// The remote reason is surfaced verbatim
	assert.Equal(t, "Upload preset not found", appErr.Message)
}

func TestUploadUnconfigured(t *testing.T) {
	client := NewClient("", "", "", "mhhf")
	_, err := client.Upload(context.Background(), strings.NewReader("file-bytes"), "eid.jpg", entity.MediaKindImage)
	assert.True(t, errors.Is(err, "SERVICE_UNAVAILABLE"))
}

func TestDeleteByToken(t *testing.T) {
	var gotPath, gotToken string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		assert.NoError(t, r.ParseMultipartForm(1<<20))
		gotToken = r.FormValue("token")
		w.Write([]byte(`{"result":"ok"}`))
	}))
	defer server.Close()

	client := NewClientWithBaseURL(server.URL, "demo", "img_preset", "vid_preset", "mhhf")
	client.DeleteByToken(context.Background(), "tok1", entity.MediaKindImage)

	assert.Equal(t, "/demo/image/delete_by_token", gotPath)
	assert.Equal(t, "tok1", gotToken)
}

func TestDeleteByTokenSwallowsFailures(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"message":"Delete token expired"}}`))
	}))
	defer server.Close()

	client := NewClientWithBaseURL(server.URL, "demo", "img_preset", "vid_preset", "mhhf")
	// Neither a refusal nor a missing token panics or errors
	client.DeleteByToken(context.Background(), "expired", entity.MediaKindImage)
	client.DeleteByToken(context.Background(), "", entity.MediaKindImage)
}
