package transcribe

import (
	"fmt"
	"strings"

	"github.com/transcript-ai/backend/pkg/models"
)

// GenerateVTT renders segments as a WebVTT caption document with numbered
// cues. Segment times must already be global.
func GenerateVTT(segments []models.TranscriptSegment) string {
	var b strings.Builder
	b.WriteString("WEBVTT\n\n")
	for i, seg := range segments {
		fmt.Fprintf(&b, "%d\n%s --> %s\n%s\n\n",
			i+1, vttTimestamp(seg.Start), vttTimestamp(seg.End), seg.Text)
	}
	return b.String()
}

// vttTimestamp formats seconds as HH:MM:SS.mmm.
func vttTimestamp(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	millis := int(seconds*1000 + 0.5)
	h := millis / 3600000
	m := millis % 3600000 / 60000
	s := millis % 60000 / 1000
	ms := millis % 1000
	return fmt.Sprintf("%02d:%02d:%02d.%03d", h, m, s, ms)
}
