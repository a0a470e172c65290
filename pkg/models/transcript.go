package models

import "strings"

// TranscriptSegment is one timed span of recognized speech. Offsets are
// chunk-local when produced by a transcription provider and global after
// assembly.
type TranscriptSegment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// ChunkResult is the provider output for a single chunk. An empty segment
// list is a legitimate result for non-speech audio.
type ChunkResult struct {
	Text     string              `json:"text"`
	Language string              `json:"language,omitempty"`
	Segments []TranscriptSegment `json:"segments"`
}

// Transcript is the assembled output of a full transcription run. Segment
// times are global and monotonically non-decreasing.
type Transcript struct {
	Text      string              `json:"text"`
	RawText   string              `json:"text_raw"`
	WordCount int                 `json:"word_count"`
	Language  string              `json:"language"`
	Segments  []TranscriptSegment `json:"segments,omitempty"`
	VTT       string              `json:"vtt,omitempty"`
}

// CountWords counts whitespace-separated tokens.
func CountWords(text string) int {
	return len(strings.Fields(text))
}
