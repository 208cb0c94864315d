package images

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func writeTempImage(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "upload.jpg")
	if err := os.WriteFile(path, []byte("not-really-a-jpeg"), 0644); err != nil {
		t.Fatalf("failed to write temp image: %v", err)
	}
	return path
}

func TestUploadReturnsHostedURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("failed to parse multipart form: %v", err)
		}
		if got := r.FormValue("upload_preset"); got != "test-preset" {
			t.Errorf("upload_preset = %q, want test-preset", got)
		}
		if _, _, err := r.FormFile("file"); err != nil {
			t.Errorf("missing file part: %v", err)
		}

		json.NewEncoder(w).Encode(map[string]string{
			"secure_url": "https://images.example.com/hosted.png",
		})
	}))
	defer srv.Close()

	u := NewHTTPUploader(srv.URL, "test-preset")
	url, err := u.Upload(context.Background(), writeTempImage(t))
	if err != nil {
		t.Fatalf("Upload failed: %v", err)
	}
	if url != "https://images.example.com/hosted.png" {
		t.Errorf("Upload = %q, want the hosted URL", url)
	}
}

func TestUploadRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]string{"message": "Invalid upload preset"},
		})
	}))
	defer srv.Close()

	u := NewHTTPUploader(srv.URL, "bad-preset")
	if _, err := u.Upload(context.Background(), writeTempImage(t)); err == nil {
		t.Error("Expected error for rejected upload, got nil")
	}
}

func TestUploadMissingFile(t *testing.T) {
	u := NewHTTPUploader("http://localhost:0", "preset")
	if _, err := u.Upload(context.Background(), "/does/not/exist.jpg"); err == nil {
		t.Error("Expected error for missing file, got nil")
	}
}
