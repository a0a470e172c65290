package models

// TranscribeResponse is the payload returned for both URL and upload
// transcription requests.
type TranscribeResponse struct {
	Success        bool                `json:"success"`
	Text           string              `json:"text"`
	RawText        string              `json:"text_raw,omitempty"`
	WordCount      int                 `json:"word_count"`
	Language       string              `json:"language"`
	ProcessingTime float64             `json:"processing_time"`
	Platform       Platform            `json:"platform,omitempty"`
	Title          string              `json:"title,omitempty"`
	Duration       float64             `json:"duration,omitempty"`
	Message        string              `json:"message,omitempty"`
	JobID          string              `json:"job_id,omitempty"`
	VTT            string              `json:"vtt,omitempty"`
	Segments       []TranscriptSegment `json:"segments,omitempty"`
}

// DownloadRequest asks for a raw media download of a URL.
type DownloadRequest struct {
	URL      string      `json:"url" binding:"required"`
	Format   string      `json:"format"`    // mp3 or mp4
	Quality  QualityTier `json:"quality"`   // low, medium, high, best
	FormatID string      `json:"format_id"` // explicit rendition id, wins over Quality
}

// HealthResponse reports service status and supported platforms.
type HealthResponse struct {
	Status             string   `json:"status"`
	ProviderConfigured bool     `json:"provider_configured"`
	Version            string   `json:"version"`
	SupportedPlatforms []string `json:"supported_platforms"`
}
