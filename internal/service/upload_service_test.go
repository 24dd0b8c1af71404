package service

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func newTestUploadService(t *testing.T) (*UploadService, string) {
	t.Helper()
	dir := t.TempDir()
	svc := NewUploadService(dir, discardLogger())
	svc.now = func() time.Time { return time.UnixMilli(1700000000000) }
	return svc, dir
}

func TestUploadSave(t *testing.T) {
	tests := []struct {
		name string
		req  UploadRequest
		url  string
	}{
		{
			name: "explicit name",
			req:  UploadRequest{Name: "photo.png", Folder: "factories", Filename: "logo.png"},
			url:  "/uploads/factories/logo.png",
		},
		{
			name: "generated from client name",
			req:  UploadRequest{Name: "my photo!.jpg"},
			url:  "/uploads/uploads/my_photo_-1700000000000.jpg",
		},
		{
			name: "extension from content type",
			req:  UploadRequest{Name: "blob", ContentType: "image/webp", Folder: "hero"},
			url:  "/uploads/hero/blob-1700000000000.webp",
		},
		{
			name: "unknown type",
			req:  UploadRequest{ContentType: "application/x-thing"},
			url:  "/uploads/uploads/upload-1700000000000.bin",
		},
		{
			name: "traversal in folder",
			req:  UploadRequest{Name: "a.png", Folder: "../../etc", Filename: "a.png"},
			url:  "/uploads/.._.._etc/a.png",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, dir := newTestUploadService(t)
			tt.req.Body = strings.NewReader("data")

			url, err := svc.Save(tt.req)
			if err != nil {
				t.Fatal(err)
			}
			if url != tt.url {
				t.Fatalf("url = %q, want %q", url, tt.url)
			}
			data, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(url)))
			if err != nil {
				t.Fatal(err)
			}
			if string(data) != "data" {
				t.Fatalf("stored %q", data)
			}
		})
	}
}

func TestUploadRequiresFile(t *testing.T) {
	svc, _ := newTestUploadService(t)
	if _, err := svc.Save(UploadRequest{Name: "x.png"}); err == nil {
		t.Fatal("expected error without a file")
	}
}
