package transcribe

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/transcript-ai/backend/pkg/models"
)

func TestAssembleShiftsSegmentTimes(t *testing.T) {
	spans := []models.ChunkSpan{
		{Index: 0, Start: 0, Duration: 300},
		{Index: 1, Start: 300, Duration: 300},
		{Index: 2, Start: 600, Duration: 120},
	}
	results := []models.ChunkResult{
		{
			Text:     "first chunk text",
			Language: "en",
			Segments: []models.TranscriptSegment{
				{Start: 0, End: 4.5, Text: "first chunk"},
				{Start: 5, End: 9, Text: "text"},
			},
		},
		{
			Text: "second chunk text",
			Segments: []models.TranscriptSegment{
				{Start: 1.2, End: 6, Text: "second chunk text"},
			},
		},
		{
			Text: "tail",
			Segments: []models.TranscriptSegment{
				{Start: 0.5, End: 3, Text: "tail"},
			},
		},
	}

	transcript, err := Assemble(spans, results)
	require.NoError(t, err)

	require.Len(t, transcript.Segments, 4)
	assert.InDelta(t, 301.2, transcript.Segments[2].Start, 1e-9)
	assert.InDelta(t, 306.0, transcript.Segments[2].End, 1e-9)
	assert.InDelta(t, 600.5, transcript.Segments[3].Start, 1e-9)

	// Global starts never decrease.
	for i := 1; i < len(transcript.Segments); i++ {
		assert.GreaterOrEqual(t, transcript.Segments[i].Start, transcript.Segments[i-1].Start)
	}

	assert.Equal(t, "first chunk text second chunk text tail", transcript.RawText)
	assert.Equal(t, 7, transcript.WordCount)
	assert.Equal(t, "en", transcript.Language)
	assert.True(t, strings.HasPrefix(transcript.VTT, "WEBVTT"))
}

func TestAssembleRejectsCountMismatch(t *testing.T) {
	spans := []models.ChunkSpan{{Index: 0, Start: 0, Duration: 300}, {Index: 1, Start: 300, Duration: 60}}
	_, err := Assemble(spans, []models.ChunkResult{{Text: "only one"}})
	require.Error(t, err)
	assert.Equal(t, models.ErrAssemblyInconsistency, models.KindOf(err))
}

func TestAssembleRejectsBackwardsTimeline(t *testing.T) {
	spans := []models.ChunkSpan{
		{Index: 0, Start: 0, Duration: 300},
		{Index: 1, Start: 300, Duration: 300},
	}
	results := []models.ChunkResult{
		{Segments: []models.TranscriptSegment{{Start: 290, End: 299, Text: "late"}}},
		// A segment apparently starting before the previous chunk's last
		// one, far beyond boundary drift.
		{Segments: []models.TranscriptSegment{{Start: -15, End: 2, Text: "impossible"}}},
	}

	_, err := Assemble(spans, results)
	require.Error(t, err)
	assert.Equal(t, models.ErrAssemblyInconsistency, models.KindOf(err))
}

func TestAssembleToleratesBoundaryDrift(t *testing.T) {
	spans := []models.ChunkSpan{
		{Index: 0, Start: 0, Duration: 300},
		{Index: 1, Start: 300, Duration: 300},
	}
	results := []models.ChunkResult{
		{Segments: []models.TranscriptSegment{{Start: 299.9, End: 300, Text: "edge"}}},
		// Stream-copy segmentation can land the next chunk a few
		// milliseconds early.
		{Segments: []models.TranscriptSegment{{Start: -0.05, End: 3, Text: "start"}}},
	}

	_, err := Assemble(spans, results)
	assert.NoError(t, err)
}

func TestAssembleEmptyResultsProduceEmptyTranscript(t *testing.T) {
	spans := []models.ChunkSpan{{Index: 0, Start: 0, Duration: 120}}
	transcript, err := Assemble(spans, []models.ChunkResult{{}})
	require.NoError(t, err)
	assert.Empty(t, transcript.Segments)
	assert.Empty(t, transcript.RawText)
	assert.Zero(t, transcript.WordCount)
	assert.Empty(t, transcript.VTT)
}

func TestFormatTranscriptBreaksOnPauses(t *testing.T) {
	segments := []models.TranscriptSegment{
		{Start: 0, End: 2, Text: "Hello there."},
		{Start: 2.2, End: 4, Text: "Welcome back."},
		{Start: 8, End: 10, Text: "New topic now."},
	}
	got := FormatTranscript(segments, "unused raw")
	assert.Equal(t, "Hello there. Welcome back.\n\nNew topic now.", got)
}

func TestFormatTranscriptWithoutSegmentsReturnsRaw(t *testing.T) {
	assert.Equal(t, "plain text", FormatTranscript(nil, "plain text"))
}
