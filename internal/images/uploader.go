// Package images uploads friend pictures to a Cloudinary-style hosting
// service. Upload failures never block friend creation: callers fall back
// to models.DefaultImageURL and carry on.
package images

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

// Uploader stores an image and returns a stable HTTPS URI for it.
type Uploader interface {
	Upload(ctx context.Context, path string) (string, error)
}

// HTTPUploader posts images as multipart form data to an unsigned upload
// endpoint and reads back the hosted URL.
type HTTPUploader struct {
	endpoint string
	preset   string
	http     *http.Client
}

// NewHTTPUploader creates an uploader for the given endpoint and upload
// preset.
func NewHTTPUploader(endpoint, preset string) *HTTPUploader {
	return &HTTPUploader{
		endpoint: endpoint,
		preset:   preset,
		http:     &http.Client{Timeout: 30 * time.Second},
	}
}

// uploadResult is the subset of the hosting service's response we use.
type uploadResult struct {
	SecureURL string `json:"secure_url"`
	Error     struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Upload sends the file at path and returns its hosted HTTPS URL.
func (u *HTTPUploader) Upload(ctx context.Context, path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open image: %w", err)
	}
	defer file.Close()

	pr, pw := io.Pipe()
	form := multipart.NewWriter(pw)

	go func() {
		part, err := form.CreateFormFile("file", filepath.Base(path))
		if err == nil {
			_, err = io.Copy(part, file)
		}
		if err == nil {
			err = form.WriteField("upload_preset", u.preset)
		}
		if err == nil {
			err = form.Close()
		}
		pw.CloseWithError(err)
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.endpoint, pr)
	if err != nil {
		return "", fmt.Errorf("failed to build upload request: %w", err)
	}
	req.Header.Set("Content-Type", form.FormDataContentType())

	resp, err := u.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("upload failed: %w", err)
	}
	defer resp.Body.Close()

	var result uploadResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode upload response: %w", err)
	}

	if resp.StatusCode != http.StatusOK || result.SecureURL == "" {
		if result.Error.Message != "" {
			return "", fmt.Errorf("upload rejected: %s", result.Error.Message)
		}
		return "", fmt.Errorf("upload rejected: %s", resp.Status)
	}

	return result.SecureURL, nil
}
