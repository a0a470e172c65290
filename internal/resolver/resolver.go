// Package resolver turns abstract rendition requests into concrete extractor
// format specs. Everything here is pure: no I/O, no process state.
package resolver

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/transcript-ai/backend/pkg/models"
)

const (
	audioFormatString = "bestaudio/best"
	bestFormatString  = "bestvideo+bestaudio/best"
	worstFormatString = "worst[ext=mp4]/worst"
)

// Resolve maps a caller's selector onto a concrete format spec. An explicit
// format id always wins over a tier. The probe result, when present, pins
// tier requests to a height the source actually offers.
func Resolve(sel models.RenditionSelector, probe *models.ProbeResult) (models.FormatSpec, error) {
	container := strings.ToLower(sel.Container)
	switch container {
	case "mp3":
		return models.FormatSpec{
			FormatString: audioFormatString,
			Container:    "mp3",
			AudioOnly:    true,
		}, nil
	case "", "mp4":
		container = "mp4"
	default:
		return models.FormatSpec{}, models.NewPipelineError(models.ErrFormatResolution,
			"unsupported output container %q", sel.Container)
	}

	if sel.FormatID != "" {
		return models.FormatSpec{
			FormatString: formatStringForID(sel.FormatID),
			Container:    container,
			AudioOnly:    false,
		}, nil
	}

	tier := sel.Tier
	if tier == "" {
		tier = models.QualityBest
	}

	fs, err := formatStringForTier(tier, probe)
	if err != nil {
		return models.FormatSpec{}, err
	}
	return models.FormatSpec{FormatString: fs, Container: container}, nil
}

// formatStringForID translates probe option ids into capped format strings
// and passes raw extractor format ids through untouched.
func formatStringForID(id string) string {
	if h, ok := strings.CutPrefix(id, "video_"); ok {
		if height, err := strconv.Atoi(h); err == nil && height > 0 {
			return heightCapped(height)
		}
	}
	return id
}

func formatStringForTier(tier models.QualityTier, probe *models.ProbeResult) (string, error) {
	var limit int
	switch tier {
	case models.QualityBest:
		return bestFormatString, nil
	case models.QualityLow:
		return worstFormatString, nil
	case models.QualityMedium:
		limit = models.MediumTierMinHeight
	case models.QualityHigh:
		limit = models.HighTierMinHeight
	default:
		return "", models.NewPipelineError(models.ErrFormatResolution,
			"unknown quality tier %q", tier)
	}

	if h := bestHeightWithin(probe, limit); h > 0 {
		return heightCapped(h), nil
	}
	return heightCapped(limit), nil
}

// bestHeightWithin returns the tallest probed video height at or under limit,
// or zero when the probe offers nothing usable.
func bestHeightWithin(probe *models.ProbeResult, limit int) int {
	if probe == nil {
		return 0
	}
	best := 0
	for _, opt := range probe.Options {
		if opt.Kind != models.RenditionVideo {
			continue
		}
		if opt.Height <= limit && opt.Height > best {
			best = opt.Height
		}
	}
	return best
}

func heightCapped(height int) string {
	return fmt.Sprintf("bestvideo[height<=%d]+bestaudio/best[height<=%d]", height, height)
}

// FallbackSpec is the wide-open spec used when a platform rejects the
// resolved format. Short-form platforms advertise renditions they refuse to
// serve; "best" sidesteps their format tables entirely.
func FallbackSpec(container string) models.FormatSpec {
	if strings.EqualFold(container, "mp3") {
		return models.FormatSpec{FormatString: audioFormatString, Container: "mp3", AudioOnly: true}
	}
	return models.FormatSpec{FormatString: "best", Container: "mp4"}
}

// ShouldFallback reports whether a failed download should be retried once
// with FallbackSpec. Platforms with unreliable format tables report both
// "format not available" and "video unavailable" for renditions they refuse
// to serve, so both kinds qualify. Transient failures belong to the retry
// loop, not the fallback.
func ShouldFallback(platform models.Platform, err error) bool {
	if !platform.UnreliableFormats() || models.IsTransient(err) {
		return false
	}
	return models.IsKind(err, models.ErrFormatResolution) ||
		models.IsKind(err, models.ErrSourceUnavailable)
}
