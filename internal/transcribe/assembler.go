package transcribe

import (
	"strings"

	"github.com/transcript-ai/backend/pkg/models"
)

// driftTolerance absorbs the small keyframe drift stream-copy segmentation
// introduces at chunk boundaries. Overlaps beyond it mean the results were
// misordered and the transcript cannot be trusted.
const driftTolerance = 0.25

// Assemble merges per-chunk results into one transcript. results[i] must be
// the output for spans[i]; segment times are shifted by each span's start so
// the assembled timeline is global.
func Assemble(spans []models.ChunkSpan, results []models.ChunkResult) (models.Transcript, error) {
	if len(spans) != len(results) {
		return models.Transcript{}, models.NewPipelineError(models.ErrAssemblyInconsistency,
			"have %d chunk results for %d chunks", len(results), len(spans))
	}

	var (
		segments []models.TranscriptSegment
		parts    []string
		language string
	)

	lastStart := -1.0
	for i, res := range results {
		if text := strings.TrimSpace(res.Text); text != "" {
			parts = append(parts, text)
		}
		if language == "" && res.Language != "" {
			language = res.Language
		}

		offset := spans[i].Start
		for _, seg := range res.Segments {
			shifted := models.TranscriptSegment{
				Start: offset + seg.Start,
				End:   offset + seg.End,
				Text:  strings.TrimSpace(seg.Text),
			}
			if shifted.Start < lastStart-driftTolerance {
				return models.Transcript{}, models.NewPipelineError(models.ErrAssemblyInconsistency,
					"segment at %.2fs in chunk %d precedes prior segment at %.2fs",
					shifted.Start, i, lastStart)
			}
			if shifted.Start > lastStart {
				lastStart = shifted.Start
			}
			segments = append(segments, shifted)
		}
	}

	raw := strings.Join(parts, " ")
	t := models.Transcript{
		Text:      FormatTranscript(segments, raw),
		RawText:   raw,
		WordCount: models.CountWords(raw),
		Language:  language,
		Segments:  segments,
	}
	if len(segments) > 0 {
		t.VTT = GenerateVTT(segments)
	}
	return t, nil
}
