package models

// RenditionKind distinguishes audio-only and video renditions.
type RenditionKind string

const (
	RenditionAudio RenditionKind = "audio"
	RenditionVideo RenditionKind = "video"
)

// QualityTier is the abstract quality request a caller may make instead of an
// explicit rendition id.
type QualityTier string

const (
	QualityLow    QualityTier = "low"
	QualityMedium QualityTier = "medium"
	QualityHigh   QualityTier = "high"
	QualityBest   QualityTier = "best"
)

// Height thresholds for mapping video renditions onto quality tiers.
const (
	HighTierMinHeight   = 1080
	MediumTierMinHeight = 720
)

// TierForHeight maps a video height to its quality tier.
func TierForHeight(height int) QualityTier {
	switch {
	case height >= HighTierMinHeight:
		return QualityHigh
	case height >= MediumTierMinHeight:
		return QualityMedium
	default:
		return QualityLow
	}
}

// RenditionOption is one downloadable version of a source media item.
type RenditionOption struct {
	ID    string        `json:"id"`
	Kind  RenditionKind `json:"type"`
	Label string        `json:"label"`
	Ext   string        `json:"ext"`
	// Height is set for video options only.
	Height int `json:"height,omitempty"`
	// SizeMB is an advisory estimate; zero when the source does not report
	// enough to compute one. Absence never blocks selection.
	SizeMB float64 `json:"size_mb,omitempty"`
}

// ProbeResult is the outcome of probing a URL for available renditions.
// Option order is presentation order.
type ProbeResult struct {
	Platform    Platform          `json:"platform"`
	Title       string            `json:"title"`
	Duration    float64           `json:"duration"`
	DurationStr string            `json:"duration_str,omitempty"`
	Thumbnail   string            `json:"thumbnail,omitempty"`
	Options     []RenditionOption `json:"options"`
}

// RenditionSelector is a caller's choice of rendition: an explicit id wins
// over an abstract tier.
type RenditionSelector struct {
	FormatID string      `json:"format_id,omitempty"`
	Tier     QualityTier `json:"quality,omitempty"`
	// Container is the requested output container: "mp3" or "mp4".
	Container string `json:"format"`
}

// FormatSpec is a concrete, resolved download instruction for the extractor.
type FormatSpec struct {
	// FormatString is passed to the extraction tool's -f flag.
	FormatString string `json:"format_string"`
	Container    string `json:"container"`
	AudioOnly    bool   `json:"audio_only"`
}
