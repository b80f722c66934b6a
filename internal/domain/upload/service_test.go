// internal/domain/upload/service_test.go
package upload

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tduong196/bookstore/internal/config"
)

func TestCloudinaryProviderStore(t *testing.T) {
	var gotPreset, gotFileName string
	var gotContent []byte

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("failed to parse multipart form: %v", err)
		}
		gotPreset = r.FormValue("upload_preset")

		file, header, err := r.FormFile("file")
		if err != nil {
			t.Fatalf("missing file field: %v", err)
		}
		defer file.Close()
		gotFileName = header.Filename

		buf := make([]byte, header.Size)
		file.Read(buf)
		gotContent = buf

		w.Write([]byte(`{"secure_url": "https://res.cloudinary.example/covers/abc.png"}`))
	}))
	defer server.Close()

	cfg := &config.Config{}
	cfg.External.Storage.CloudinaryURL = server.URL
	cfg.External.Storage.CloudinaryPreset = "covers"

	p := NewCloudinaryProvider(cfg)
	url, err := p.Store(context.Background(), "abc.png", strings.NewReader("fake png bytes"), 14, "image/png")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if url != "https://res.cloudinary.example/covers/abc.png" {
		t.Errorf("unexpected url: %s", url)
	}
	if gotPreset != "covers" {
		t.Errorf("expected preset covers, got %s", gotPreset)
	}
	if gotFileName != "abc.png" {
		t.Errorf("expected file name abc.png, got %s", gotFileName)
	}
	if string(gotContent) != "fake png bytes" {
		t.Errorf("unexpected content: %q", gotContent)
	}
}

func TestCloudinaryProviderRejectedUpload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error": {"message": "invalid preset"}}`))
	}))
	defer server.Close()

	cfg := &config.Config{}
	cfg.External.Storage.CloudinaryURL = server.URL
	cfg.External.Storage.CloudinaryPreset = "nope"

	p := NewCloudinaryProvider(cfg)
	_, err := p.Store(context.Background(), "x.png", strings.NewReader("data"), 4, "image/png")
	if err == nil {
		t.Fatal("expected an error")
	}
	if !strings.Contains(err.Error(), "400") {
		t.Errorf("error should mention the status: %v", err)
	}
}

func TestCloudinaryProviderResponseWithoutURL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	cfg := &config.Config{}
	cfg.External.Storage.CloudinaryURL = server.URL

	p := NewCloudinaryProvider(cfg)
	if _, err := p.Store(context.Background(), "x.png", strings.NewReader("data"), 4, "image/png"); err == nil {
		t.Error("expected an error when the response has no URL")
	}
}

func TestLocalProviderStore(t *testing.T) {
	dir := t.TempDir()

	cfg := &config.Config{}
	cfg.External.Storage.LocalPath = dir

	p := NewLocalProvider(cfg)
	url, err := p.Store(context.Background(), "cover.jpg", strings.NewReader("jpeg bytes"), 10, "image/jpeg")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if url != "/uploads/cover.jpg" {
		t.Errorf("unexpected url: %s", url)
	}

	data, err := os.ReadFile(filepath.Join(dir, "cover.jpg"))
	if err != nil {
		t.Fatalf("stored file missing: %v", err)
	}
	if string(data) != "jpeg bytes" {
		t.Errorf("unexpected file content: %q", data)
	}
}

func TestLocalProviderCDNBase(t *testing.T) {
	cfg := &config.Config{}
	cfg.External.Storage.LocalPath = t.TempDir()
	cfg.External.Storage.CDNBaseURL = "https://cdn.example.com/"

	p := NewLocalProvider(cfg)
	url, err := p.Store(context.Background(), "cover.jpg", strings.NewReader("x"), 1, "image/jpeg")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if url != "https://cdn.example.com/cover.jpg" {
		t.Errorf("unexpected url: %s", url)
	}
}
