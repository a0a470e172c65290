// Package pipeline orchestrates the transcription and download flows:
// acquire, chunk, transcribe with bounded concurrency, assemble.
package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/transcript-ai/backend/internal/cache"
	"github.com/transcript-ai/backend/internal/config"
	"github.com/transcript-ai/backend/internal/logging"
	"github.com/transcript-ai/backend/internal/metrics"
	"github.com/transcript-ai/backend/internal/resolver"
	"github.com/transcript-ai/backend/internal/tracing"
	"github.com/transcript-ai/backend/internal/transcribe"
	"github.com/transcript-ai/backend/pkg/models"
)

// Acquirer is the media acquisition surface the pipeline depends on.
type Acquirer interface {
	AcquireAudio(ctx context.Context, url, workDir string) (string, models.MediaSource, error)
	DownloadMedia(ctx context.Context, url string, spec models.FormatSpec, workDir string) (string, models.MediaSource, error)
	ProbeFormats(ctx context.Context, url string) (models.ProbeResult, error)
}

// Splitter slices an audio file into bounded-duration chunks.
type Splitter interface {
	Split(ctx context.Context, audioPath, workDir string) ([]models.AudioChunk, error)
}

// AudioExtractor pulls an mp3 audio track out of an arbitrary media file.
type AudioExtractor interface {
	ExtractAudioMP3(ctx context.Context, inputPath, outputPath string, bitrateKbps int) error
}

// Pipeline wires the stages together and owns per-request temp directories.
type Pipeline struct {
	cfg       config.PipelineConfig
	tempDir   string
	acquirer  Acquirer
	splitter  Splitter
	audio     AudioExtractor
	provider  transcribe.Provider
	probes    *cache.ProbeCache
	log       *logging.Logger
	audioRate int
}

type Options struct {
	Config         config.PipelineConfig
	TempDir        string
	Acquirer       Acquirer
	Splitter       Splitter
	AudioExtractor AudioExtractor
	Provider       transcribe.Provider
	ProbeCache     *cache.ProbeCache
	Logger         *logging.Logger
	// AudioBitrate is the kbps used when extracting audio from uploads.
	AudioBitrate int
}

func New(opts Options) *Pipeline {
	return &Pipeline{
		cfg:       opts.Config,
		tempDir:   opts.TempDir,
		acquirer:  opts.Acquirer,
		splitter:  opts.Splitter,
		audio:     opts.AudioExtractor,
		provider:  opts.Provider,
		probes:    opts.ProbeCache,
		log:       opts.Logger,
		audioRate: opts.AudioBitrate,
	}
}

// TranscribeURL runs the full URL pipeline: acquire audio, chunk, transcribe,
// assemble. All intermediate files live in a per-request directory that is
// removed before return.
func (p *Pipeline) TranscribeURL(ctx context.Context, url, language string) (models.Transcript, models.MediaSource, error) {
	requestID := uuid.New().String()
	platform := models.ClassifyPlatform(url)
	log := p.log.WithRequestID(requestID).WithPlatform(platform)
	started := time.Now()

	span, ctx := tracing.StartSpan(ctx, "pipeline.transcribe_url")
	defer tracing.FinishSpan(span)
	tracing.SetTag(span, "platform", string(platform))

	ctx, cancel := context.WithTimeout(ctx, p.cfg.RequestTimeout)
	defer cancel()

	metrics.RequestsInFlight.Inc()
	defer metrics.RequestsInFlight.Dec()

	workDir := filepath.Join(p.tempDir, requestID)
	if err := os.MkdirAll(workDir, 0o755); err != nil {
		return models.Transcript{}, models.MediaSource{}, err
	}
	defer os.RemoveAll(workDir)

	log.LogPipelineStage(requestID, "acquire", map[string]interface{}{"url": url})
	audioPath, source, err := p.acquirer.AcquireAudio(ctx, url, workDir)
	if err != nil {
		metrics.RecordAcquisition(string(platform), "error")
		metrics.RecordTranscription(string(platform), "error", time.Since(started).Seconds())
		err = p.classify(ctx, err)
		tracing.LogError(span, err)
		return models.Transcript{}, models.MediaSource{}, err
	}
	metrics.RecordAcquisition(string(platform), "success")

	transcript, err := p.transcribeAudio(ctx, requestID, log, audioPath, workDir, language)
	status := "success"
	if err != nil {
		status = "error"
		tracing.LogError(span, err)
	}
	metrics.RecordTranscription(string(platform), status, time.Since(started).Seconds())
	return transcript, source, err
}

// TranscribeFile runs the pipeline over an already-staged upload. The caller
// owns workDir creation; the pipeline removes it before return. Video
// containers get their audio track extracted first.
func (p *Pipeline) TranscribeFile(ctx context.Context, workDir, path, language string) (models.Transcript, models.MediaSource, error) {
	requestID := uuid.New().String()
	log := p.log.WithRequestID(requestID).WithPlatform(models.PlatformUpload)
	started := time.Now()

	span, ctx := tracing.StartSpan(ctx, "pipeline.transcribe_file")
	defer tracing.FinishSpan(span)

	ctx, cancel := context.WithTimeout(ctx, p.cfg.RequestTimeout)
	defer cancel()

	metrics.RequestsInFlight.Inc()
	defer metrics.RequestsInFlight.Dec()
	defer os.RemoveAll(workDir)

	source := models.MediaSource{
		Ref:      filepath.Base(path),
		Platform: models.PlatformUpload,
		Title:    strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)),
	}
	if info, err := os.Stat(path); err == nil {
		source.Size = info.Size()
		metrics.UploadSizeBytes.Observe(float64(info.Size()))
	}

	audioPath := path
	if !strings.EqualFold(filepath.Ext(path), ".mp3") {
		audioPath = filepath.Join(workDir, "audio.mp3")
		log.LogPipelineStage(requestID, "extract_audio", map[string]interface{}{"input": filepath.Base(path)})
		if err := p.audio.ExtractAudioMP3(ctx, path, audioPath, p.audioRate); err != nil {
			metrics.RecordTranscription(string(models.PlatformUpload), "error", time.Since(started).Seconds())
			classified := p.classify(ctx,
				models.WrapPipelineError(models.ErrUnsupportedSource, err, "file has no usable audio track"))
			tracing.LogError(span, classified)
			return models.Transcript{}, models.MediaSource{}, classified
		}
	}

	transcript, err := p.transcribeAudio(ctx, requestID, log, audioPath, workDir, language)
	status := "success"
	if err != nil {
		status = "error"
		tracing.LogError(span, err)
	}
	metrics.RecordTranscription(string(models.PlatformUpload), status, time.Since(started).Seconds())
	return transcript, source, err
}

// transcribeAudio is the shared back half: chunk, fan out to workers,
// assemble in chunk order.
func (p *Pipeline) transcribeAudio(ctx context.Context, requestID string, log *logging.Logger, audioPath, workDir, language string) (models.Transcript, error) {
	log.LogPipelineStage(requestID, "chunk", map[string]interface{}{"audio": filepath.Base(audioPath)})
	chunks, err := p.splitter.Split(ctx, audioPath, workDir)
	if err != nil {
		return models.Transcript{}, p.classify(ctx, err)
	}
	log.LogPipelineStage(requestID, "transcribe", map[string]interface{}{"chunks": len(chunks)})

	results, err := p.transcribeChunks(ctx, requestID, log, chunks, language)
	if err != nil {
		return models.Transcript{}, p.classify(ctx, err)
	}

	spans := make([]models.ChunkSpan, len(chunks))
	for i, c := range chunks {
		spans[i] = c.Span
	}
	transcript, err := transcribe.Assemble(spans, results)
	if err != nil {
		return models.Transcript{}, err
	}
	log.LogPipelineStage(requestID, "assemble", map[string]interface{}{
		"segments": len(transcript.Segments),
		"words":    transcript.WordCount,
	})
	return transcript, nil
}

// transcribeChunks fans chunks out to a bounded worker pool. Results land in
// their chunk's slot so assembly order never depends on completion order.
// The first permanent failure cancels the remaining work.
func (p *Pipeline) transcribeChunks(ctx context.Context, requestID string, log *logging.Logger, chunks []models.AudioChunk, language string) ([]models.ChunkResult, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	workers := p.cfg.Workers
	if workers < 1 {
		workers = 1
	}
	if workers > len(chunks) {
		workers = len(chunks)
	}

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)
	jobs := make(chan models.AudioChunk)
	results := make([]models.ChunkResult, len(chunks))

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for chunk := range jobs {
				result, attempts, elapsed, err := p.transcribeOneChunk(ctx, chunk, language)
				log.LogChunkResult(requestID, chunk.Span.Index, attempts, elapsed, err)
				if attempts > 1 {
					metrics.ChunkRetriesTotal.Add(float64(attempts - 1))
				}
				if err != nil {
					mu.Lock()
					if firstErr == nil {
						firstErr = err
					}
					mu.Unlock()
					cancel()
					continue
				}
				results[chunk.Span.Index] = result
			}
		}()
	}

feed:
	for _, chunk := range chunks {
		select {
		case jobs <- chunk:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

func (p *Pipeline) transcribeOneChunk(ctx context.Context, chunk models.AudioChunk, language string) (models.ChunkResult, int, time.Duration, error) {
	started := time.Now()
	result, attempts, err := transcribe.WithRetry(ctx, p.cfg.MaxRetries, p.cfg.RetryBackoff,
		func(ctx context.Context) (models.ChunkResult, error) {
			chunkCtx, cancel := context.WithTimeout(ctx, p.cfg.ChunkTimeout)
			defer cancel()
			result, err := p.provider.Transcribe(chunkCtx, chunk.Path, language)
			if err != nil && chunkCtx.Err() == context.DeadlineExceeded && ctx.Err() == nil {
				// The chunk deadline fired but the request is still
				// alive; worth another attempt.
				return result, models.NewTransientError(models.ErrTimeout, err, "chunk transcription timed out")
			}
			return result, err
		})

	elapsed := time.Since(started)
	status := "success"
	if err != nil {
		status = "error"
	}
	metrics.RecordChunk(p.provider.Name(), status, elapsed.Seconds())
	return result, attempts, elapsed, err
}

// Probe returns the rendition options for a URL, consulting the cache first.
func (p *Pipeline) Probe(ctx context.Context, url string) (models.ProbeResult, error) {
	platform := models.ClassifyPlatform(url)

	if cached, ok := p.probes.Get(ctx, url); ok {
		metrics.RecordProbe(string(platform), true)
		return cached, nil
	}

	result, err := p.acquirer.ProbeFormats(ctx, url)
	if err != nil {
		return models.ProbeResult{}, p.classify(ctx, err)
	}
	metrics.RecordProbe(string(platform), false)
	p.probes.Set(ctx, url, result)
	return result, nil
}

// Download resolves the requested rendition and fetches it. On platforms
// with unreliable format tables a format-resolution failure triggers one
// transparent retry with the wide-open fallback spec. The returned cleanup
// removes the work directory and must be called after the file is consumed.
func (p *Pipeline) Download(ctx context.Context, url string, sel models.RenditionSelector) (string, models.MediaSource, func(), error) {
	requestID := uuid.New().String()
	platform := models.ClassifyPlatform(url)
	log := p.log.WithRequestID(requestID).WithPlatform(platform)

	span, ctx := tracing.StartSpan(ctx, "pipeline.download")
	defer tracing.FinishSpan(span)
	tracing.SetTag(span, "platform", string(platform))

	ctx, cancel := context.WithTimeout(ctx, p.cfg.RequestTimeout)
	defer cancel()

	// A cached probe pins tier requests to heights the source offers; a
	// miss is fine, resolution then falls back to tier caps.
	var probe *models.ProbeResult
	if cached, ok := p.probes.Get(ctx, url); ok {
		probe = &cached
	}

	spec, err := resolver.Resolve(sel, probe)
	if err != nil {
		tracing.LogError(span, err)
		return "", models.MediaSource{}, nil, err
	}

	workDir := filepath.Join(p.tempDir, requestID)
	if err := os.MkdirAll(workDir, 0o755); err != nil {
		return "", models.MediaSource{}, nil, err
	}
	cleanup := func() { os.RemoveAll(workDir) }

	path, source, err := p.acquirer.DownloadMedia(ctx, url, spec, workDir)
	if err != nil && resolver.ShouldFallback(platform, err) {
		log.Warnf("download with %q failed, retrying with fallback", spec.FormatString)
		metrics.RecordFormatFallback(string(platform))
		path, source, err = p.acquirer.DownloadMedia(ctx, url, resolver.FallbackSpec(spec.Container), workDir)
	}
	if err != nil {
		cleanup()
		metrics.RecordDownload(string(platform), spec.Container, "error")
		err = p.classify(ctx, err)
		tracing.LogError(span, err)
		return "", models.MediaSource{}, nil, err
	}

	metrics.RecordDownload(string(platform), spec.Container, "success")
	return path, source, cleanup, nil
}

// classify maps context termination onto the typed error kinds; other
// errors pass through untouched.
func (p *Pipeline) classify(ctx context.Context, err error) error {
	switch {
	case errors.Is(err, context.Canceled) || errors.Is(ctx.Err(), context.Canceled):
		return models.WrapPipelineError(models.ErrCancelled, err, "request cancelled by caller")
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded):
		return models.WrapPipelineError(models.ErrTimeout, err, "request deadline exceeded")
	default:
		return err
	}
}
