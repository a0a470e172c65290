package chunker

import (
	"fmt"
	"math"

	"github.com/transcript-ai/backend/pkg/models"
)

// Plan computes the chunk layout for a source of totalDuration seconds under
// a ceiling of maxChunkSeconds. Spans are disjoint and contiguous: each span
// starts where the previous one ended, the first starts at zero, and the last
// span covers the remainder. A source at or below the ceiling still yields
// exactly one span so that offset bookkeeping never takes a shortcut path.
func Plan(totalDuration, maxChunkSeconds float64) ([]models.ChunkSpan, error) {
	if maxChunkSeconds <= 0 {
		return nil, fmt.Errorf("invalid chunk ceiling %f", maxChunkSeconds)
	}
	if totalDuration < 0 {
		return nil, fmt.Errorf("invalid total duration %f", totalDuration)
	}

	if totalDuration <= maxChunkSeconds {
		return []models.ChunkSpan{{Index: 0, Start: 0, Duration: totalDuration}}, nil
	}

	count := int(math.Ceil(totalDuration / maxChunkSeconds))
	spans := make([]models.ChunkSpan, count)
	for i := 0; i < count; i++ {
		start := float64(i) * maxChunkSeconds
		duration := maxChunkSeconds
		if i == count-1 {
			duration = totalDuration - maxChunkSeconds*float64(count-1)
		}
		spans[i] = models.ChunkSpan{Index: i, Start: start, Duration: duration}
	}

	return spans, nil
}
