// Package upload validates and stages user-provided media files before they
// enter the transcription pipeline.
package upload

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/transcript-ai/backend/pkg/models"
)

// allowedExtensions is the closed set of upload types the pipeline accepts.
var allowedExtensions = map[string]bool{
	".mp3":  true,
	".mp4":  true,
	".wav":  true,
	".m4a":  true,
	".webm": true,
	".ogg":  true,
}

// Handler checks uploads against policy and writes accepted ones to disk.
type Handler struct {
	maxBytes int64
	tempDir  string
}

func NewHandler(maxBytes int64, tempDir string) *Handler {
	return &Handler{maxBytes: maxBytes, tempDir: tempDir}
}

// Validate rejects an upload before any disk or pipeline work happens. Both
// failures are policy rejections, not source errors.
func (h *Handler) Validate(header *multipart.FileHeader) error {
	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !allowedExtensions[ext] {
		return models.NewPipelineError(models.ErrUnsupportedSource,
			"file type %q is not supported; allowed: %s", ext, strings.Join(AllowedExtensions(), ", "))
	}
	if header.Size > h.maxBytes {
		return models.NewPipelineError(models.ErrUnsupportedSource,
			"file is %.1f MB; the limit is %.0f MB",
			float64(header.Size)/1024/1024, float64(h.maxBytes)/1024/1024)
	}
	return nil
}

// Save stages a validated upload under a fresh request directory and returns
// the directory and file paths. The caller owns cleanup of the directory.
func (h *Handler) Save(header *multipart.FileHeader) (workDir, path string, err error) {
	if err := h.Validate(header); err != nil {
		return "", "", err
	}

	src, err := header.Open()
	if err != nil {
		return "", "", fmt.Errorf("opening upload: %w", err)
	}
	defer src.Close()

	workDir = filepath.Join(h.tempDir, uuid.New().String())
	if err := os.MkdirAll(workDir, 0o755); err != nil {
		return "", "", fmt.Errorf("creating upload dir: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	path = filepath.Join(workDir, "upload"+ext)
	dst, err := os.Create(path)
	if err != nil {
		os.RemoveAll(workDir)
		return "", "", fmt.Errorf("creating upload file: %w", err)
	}
	defer dst.Close()

	// Size can lie on some clients; enforce the cap on actual bytes too.
	n, err := io.Copy(dst, io.LimitReader(src, h.maxBytes+1))
	if err != nil {
		os.RemoveAll(workDir)
		return "", "", fmt.Errorf("writing upload: %w", err)
	}
	if n > h.maxBytes {
		os.RemoveAll(workDir)
		return "", "", models.NewPipelineError(models.ErrUnsupportedSource,
			"file exceeds the %.0f MB limit", float64(h.maxBytes)/1024/1024)
	}

	return workDir, path, nil
}

// AllowedExtensions lists accepted upload types in stable order.
func AllowedExtensions() []string {
	return []string{".mp3", ".mp4", ".wav", ".m4a", ".webm", ".ogg"}
}
