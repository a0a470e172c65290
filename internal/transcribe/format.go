package transcribe

import (
	"strings"

	"github.com/transcript-ai/backend/pkg/models"
)

// paragraphGapSeconds starts a new paragraph when the speaker pauses this
// long between segments.
const paragraphGapSeconds = 2.0

// paragraphMaxChars caps paragraph length; the break waits for a sentence
// boundary once the cap is passed.
const paragraphMaxChars = 500

// FormatTranscript produces the reader-facing text: paragraphs split on long
// pauses and at sentence boundaries once a paragraph grows large. Without
// segment timing it returns the raw text unchanged.
func FormatTranscript(segments []models.TranscriptSegment, raw string) string {
	if len(segments) == 0 {
		return raw
	}

	var paragraphs []string
	var current strings.Builder
	prevEnd := segments[0].Start

	flush := func() {
		if current.Len() > 0 {
			paragraphs = append(paragraphs, current.String())
			current.Reset()
		}
	}

	for _, seg := range segments {
		text := strings.TrimSpace(seg.Text)
		if text == "" {
			continue
		}
		if seg.Start-prevEnd >= paragraphGapSeconds {
			flush()
		} else if current.Len() >= paragraphMaxChars && endsSentence(current.String()) {
			flush()
		}
		if current.Len() > 0 {
			current.WriteByte(' ')
		}
		current.WriteString(text)
		prevEnd = seg.End
	}
	flush()

	return strings.Join(paragraphs, "\n\n")
}

func endsSentence(s string) bool {
	s = strings.TrimRight(s, " ")
	if s == "" {
		return false
	}
	switch s[len(s)-1] {
	case '.', '!', '?':
		return true
	}
	return false
}
