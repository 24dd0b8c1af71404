package service

import (
	"fmt"
	"io"
	"log/slog"
	"mattressfit/internal/fault"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

const defaultUploadFolder = "uploads"

var unsafeNameChars = regexp.MustCompile(`[^a-zA-Z0-9._-]`)

var extByMIME = map[string]string{
	"image/jpeg":    ".jpg",
	"image/png":     ".png",
	"image/webp":    ".webp",
	"image/gif":     ".gif",
	"image/svg+xml": ".svg",
	"image/avif":    ".avif",
}

// UploadRequest is one file posted by the admin
type UploadRequest struct {
	Body        io.Reader
	Name        string // client file name
	ContentType string
	Folder      string
	Filename    string // explicit target name, optional
}

// UploadService writes admin uploads under the public directory
type UploadService struct {
	root   string
	now    func() time.Time
	logger *slog.Logger
}

// NewUploadService creates an upload service rooted at dir
func NewUploadService(dir string, logger *slog.Logger) *UploadService {
	return &UploadService{
		root:   dir,
		now:    time.Now,
		logger: logger.With("component", "upload"),
	}
}

// Save stores the file and returns its public URL
func (s *UploadService) Save(req UploadRequest) (string, error) {
	if req.Body == nil {
		return "", fault.NewFieldError("file", "No file provided", nil)
	}

	folder := sanitizeName(req.Folder)
	if folder == "" {
		folder = defaultUploadFolder
	}
	filename := sanitizeName(req.Filename)
	if filename == "" {
		filename = s.generatedName(req.Name, req.ContentType)
	}

	dir := filepath.Join(s.root, "uploads", folder)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fault.NewInternalError("Upload failed", err)
	}
	f, err := os.Create(filepath.Join(dir, filename))
	if err != nil {
		return "", fault.NewInternalError("Upload failed", err)
	}
	defer f.Close()
	n, err := io.Copy(f, req.Body)
	if err != nil {
		return "", fault.NewInternalError("Upload failed", err)
	}

	url := path.Join("/uploads", folder, filename)
	s.logger.Info("file uploaded", "url", url, "bytes", n)
	return url, nil
}

// generatedName keeps the client's base name and extension and adds a timestamp.
// Without an extension one is taken from the content type.
func (s *UploadService) generatedName(name, contentType string) string {
	safe := sanitizeName(name)
	if safe == "" {
		safe = "upload"
	}
	base, ext := safe, ""
	if i := strings.LastIndex(safe, "."); i >= 0 {
		base, ext = safe[:i], safe[i:]
	} else if e, ok := extByMIME[contentType]; ok {
		ext = e
	} else {
		ext = ".bin"
	}
	return fmt.Sprintf("%s-%d%s", base, s.now().UnixMilli(), ext)
}

// sanitizeName replaces unsafe characters and refuses dot-only names.
func sanitizeName(name string) string {
	name = unsafeNameChars.ReplaceAllString(strings.TrimSpace(name), "_")
	if strings.Trim(name, ".") == "" {
		return ""
	}
	return name
}
