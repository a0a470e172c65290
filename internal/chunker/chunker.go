package chunker

import (
	"context"
	"fmt"

	"github.com/transcript-ai/backend/internal/media"
	"github.com/transcript-ai/backend/pkg/models"
)

// Chunker splits acquired audio into bounded-duration pieces for the
// transcription service. Splitting is strictly time based; it never looks for
// silence or semantic boundaries.
type Chunker struct {
	ffmpeg          *media.FFmpeg
	maxChunkSeconds float64
}

// New creates a Chunker with the given ceiling in seconds.
func New(ffmpeg *media.FFmpeg, maxChunkSeconds float64) *Chunker {
	return &Chunker{
		ffmpeg:          ffmpeg,
		maxChunkSeconds: maxChunkSeconds,
	}
}

// Split probes the audio file, plans the chunk layout, and materializes one
// file per chunk inside workDir. A single-chunk source is returned without
// re-encoding or copying; multi-chunk sources are cut by stream copy, so
// boundary drift is bounded by one encoded frame.
func (c *Chunker) Split(ctx context.Context, audioPath, workDir string) ([]models.AudioChunk, error) {
	info, err := c.ffmpeg.Probe(ctx, audioPath)
	if err != nil {
		return nil, fmt.Errorf("probe audio: %w", err)
	}

	spans, err := Plan(info.Duration, c.maxChunkSeconds)
	if err != nil {
		return nil, err
	}

	if len(spans) == 1 {
		return []models.AudioChunk{{Span: spans[0], Path: audioPath}}, nil
	}

	paths, err := c.ffmpeg.SegmentCopy(ctx, audioPath, workDir, c.maxChunkSeconds)
	if err != nil {
		return nil, fmt.Errorf("segment audio: %w", err)
	}

	if len(paths) != len(spans) {
		return nil, fmt.Errorf("planned %d chunks but segmenter produced %d", len(spans), len(paths))
	}

	chunks := make([]models.AudioChunk, len(spans))
	for i, span := range spans {
		chunks[i] = models.AudioChunk{Span: span, Path: paths[i]}
	}

	return chunks, nil
}
