package models

// MediaSource describes an acquired media item. It is created when a request
// is accepted, never mutated afterwards, and discarded when the request
// completes.
type MediaSource struct {
	Ref      string   `json:"ref"` // URL or uploaded-file handle
	Platform Platform `json:"platform"`
	Title    string   `json:"title,omitempty"`
	Uploader string   `json:"uploader,omitempty"`
	// Duration in seconds; zero when the platform does not report it.
	Duration float64 `json:"duration,omitempty"`
	// Size in bytes; zero when unknown.
	Size      int64  `json:"size,omitempty"`
	Thumbnail string `json:"thumbnail,omitempty"`
}

// ChunkSpan is the planned position of one chunk within the source audio.
type ChunkSpan struct {
	Index    int     `json:"index"`
	Start    float64 `json:"start"`
	Duration float64 `json:"duration"`
}

// End returns the span's end offset within the source.
func (s ChunkSpan) End() float64 {
	return s.Start + s.Duration
}

// AudioChunk is a bounded-duration slice of the source audio, materialized as
// a file owned by the pipeline run that created it.
type AudioChunk struct {
	Span ChunkSpan `json:"span"`
	Path string    `json:"path"`
}
