package main

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/transcript-ai/backend/internal/config"
	"github.com/transcript-ai/backend/internal/logging"
	"github.com/transcript-ai/backend/internal/upload"
	"github.com/transcript-ai/backend/pkg/models"
)

// service is the pipeline surface the handlers call.
type service interface {
	TranscribeURL(ctx context.Context, url, language string) (models.Transcript, models.MediaSource, error)
	TranscribeFile(ctx context.Context, workDir, path, language string) (models.Transcript, models.MediaSource, error)
	Probe(ctx context.Context, url string) (models.ProbeResult, error)
	Download(ctx context.Context, url string, sel models.RenditionSelector) (string, models.MediaSource, func(), error)
}

type API struct {
	pipeline service
	uploads  *upload.Handler
	provider string
	cfg      *config.Config
	log      *logging.Logger
}

type urlRequest struct {
	URL string `json:"url" binding:"required"`
	// Language is an optional ISO 639-1 hint; auto-detection on short
	// audio can guess wrong, so callers may pin it.
	Language string `json:"language"`
}

func (api *API) root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service": "transcript-ai backend",
		"version": version,
		"endpoints": []string{
			"/health", "/platforms", "/info",
			"/transcribe", "/transcribe/upload", "/formats", "/download",
		},
	})
}

func (api *API) health(c *gin.Context) {
	c.JSON(http.StatusOK, models.HealthResponse{
		Status:             "healthy",
		ProviderConfigured: api.provider != "",
		Version:            version,
		SupportedPlatforms: models.SupportedPlatforms(),
	})
}

func (api *API) platforms(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"platforms":    models.SupportedPlatforms(),
		"upload_types": upload.AllowedExtensions(),
		"note":         "any yt-dlp supported site may work; listed platforms are tested",
	})
}

func (api *API) info(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"version":         version,
		"provider":        api.provider,
		"chunk_seconds":   api.cfg.Pipeline.ChunkSeconds,
		"workers":         api.cfg.Pipeline.Workers,
		"max_upload_mb":   api.cfg.Pipeline.MaxUploadBytes / 1024 / 1024,
		"request_timeout": api.cfg.Pipeline.RequestTimeout.String(),
		"platform_count":  len(models.SupportedPlatforms()),
		"probe_cache":     api.cfg.Redis.Enabled,
	})
}

func (api *API) transcribeURL(c *gin.Context) {
	var req urlRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "url is required"})
		return
	}

	started := time.Now()
	transcript, source, err := api.pipeline.TranscribeURL(c.Request.Context(), req.URL, req.Language)
	if err != nil {
		api.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, transcribeResponse(transcript, source, time.Since(started)))
}

func (api *API) transcribeUpload(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no file provided"})
		return
	}

	workDir, path, err := api.uploads.Save(header)
	if err != nil {
		api.respondError(c, err)
		return
	}

	started := time.Now()
	transcript, source, err := api.pipeline.TranscribeFile(c.Request.Context(), workDir, path, c.PostForm("language"))
	if err != nil {
		api.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, transcribeResponse(transcript, source, time.Since(started)))
}

func (api *API) formats(c *gin.Context) {
	var req urlRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "url is required"})
		return
	}

	result, err := api.pipeline.Probe(c.Request.Context(), req.URL)
	if err != nil {
		api.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (api *API) download(c *gin.Context) {
	var req models.DownloadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "url is required"})
		return
	}

	sel := models.RenditionSelector{
		FormatID:  req.FormatID,
		Tier:      req.Quality,
		Container: req.Format,
	}
	path, source, cleanup, err := api.pipeline.Download(c.Request.Context(), req.URL, sel)
	if err != nil {
		api.respondError(c, err)
		return
	}
	defer cleanup()

	c.FileAttachment(path, downloadFilename(source, path))
}

func transcribeResponse(t models.Transcript, source models.MediaSource, elapsed time.Duration) models.TranscribeResponse {
	return models.TranscribeResponse{
		Success:        true,
		JobID:          uuid.New().String(),
		Text:           t.Text,
		RawText:        t.RawText,
		WordCount:      t.WordCount,
		Language:       t.Language,
		ProcessingTime: elapsed.Seconds(),
		Platform:       source.Platform,
		Title:          source.Title,
		Duration:       source.Duration,
		VTT:            t.VTT,
		Segments:       t.Segments,
	}
}

// respondError maps the typed error kinds onto HTTP statuses. Unknown errors
// stay opaque to the client.
func (api *API) respondError(c *gin.Context, err error) {
	api.log.WithError(err).Error("request failed")

	kind := models.KindOf(err)
	status := http.StatusInternalServerError
	message := "internal error"

	switch kind {
	case models.ErrUnsupportedSource:
		status = http.StatusBadRequest
		message = err.Error()
	case models.ErrSourceUnavailable:
		status = http.StatusNotFound
		message = err.Error()
	case models.ErrFormatResolution:
		status = http.StatusUnprocessableEntity
		message = err.Error()
	case models.ErrTranscriptionService:
		status = http.StatusBadGateway
		message = "transcription service failed"
	case models.ErrTimeout:
		status = http.StatusGatewayTimeout
		message = "request timed out"
	case models.ErrCancelled:
		// Client closed request; nobody is listening, but log truthfully.
		status = 499
		message = "request cancelled"
	case models.ErrAssemblyInconsistency:
		status = http.StatusInternalServerError
		message = "internal assembly error"
	}

	body := gin.H{"success": false, "error": message}
	if kind != "" {
		body["kind"] = string(kind)
	}
	c.JSON(status, body)
}

// downloadFilename builds a safe attachment name from the source title.
func downloadFilename(source models.MediaSource, path string) string {
	ext := ""
	if i := strings.LastIndex(path, "."); i >= 0 {
		ext = path[i:]
	}

	title := source.Title
	if title == "" {
		title = "download"
	}
	var b strings.Builder
	for _, r := range title {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ', r == '-', r == '_', r == '.':
			b.WriteRune(r)
		}
	}
	name := strings.TrimSpace(b.String())
	if name == "" {
		name = "download"
	}
	if len(name) > 80 {
		name = name[:80]
	}
	return name + ext
}
