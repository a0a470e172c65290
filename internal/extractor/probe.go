package extractor

import (
	"fmt"
	"sort"

	"github.com/transcript-ai/backend/pkg/models"
)

// minListedHeight hides thumbnail-grade renditions from the option list.
const minListedHeight = 360

// buildProbeResult turns the raw format dump into the ordered option list the
// API presents: one audio option followed by one video option per distinct
// height, highest first.
func buildProbeResult(platform models.Platform, info *mediaInfo) models.ProbeResult {
	result := models.ProbeResult{
		Platform:  platform,
		Title:     info.Title,
		Duration:  info.Duration,
		Thumbnail: info.Thumbnail,
	}
	if info.Duration > 0 {
		result.DurationStr = formatDuration(info.Duration)
	}

	var videoFormats, audioFormats []rawFormat
	for _, f := range info.Formats {
		switch {
		case f.VCodec != "" && f.VCodec != "none":
			videoFormats = append(videoFormats, f)
		case f.ACodec != "" && f.ACodec != "none":
			audioFormats = append(audioFormats, f)
		}
	}

	sort.SliceStable(videoFormats, func(i, j int) bool {
		return videoFormats[i].Height > videoFormats[j].Height
	})
	sort.SliceStable(audioFormats, func(i, j int) bool {
		return audioFormats[i].ABR > audioFormats[j].ABR
	})

	// Audio option comes first. The size estimate falls back to what a
	// 64kbps mp3 of the full duration would take.
	audioSize := 0.0
	if len(audioFormats) > 0 {
		audioSize = estimateSizeMB(audioFormats[0], info.Duration)
	}
	if audioSize == 0 && info.Duration > 0 {
		audioSize = round2(info.Duration * 64 * 1000 / 8 / 1024 / 1024)
	}
	result.Options = append(result.Options, models.RenditionOption{
		ID:     "mp3",
		Kind:   models.RenditionAudio,
		Label:  "MP3 (Audio)",
		Ext:    "mp3",
		SizeMB: audioSize,
	})

	seen := make(map[int]bool)
	for _, f := range videoFormats {
		if f.Height < minListedHeight || seen[f.Height] {
			continue
		}
		seen[f.Height] = true

		label := fmt.Sprintf("MP4 %dp", f.Height)
		if models.TierForHeight(f.Height) != models.QualityLow {
			label += " (HD)"
		}

		result.Options = append(result.Options, models.RenditionOption{
			ID:     fmt.Sprintf("video_%d", f.Height),
			Kind:   models.RenditionVideo,
			Label:  label,
			Ext:    "mp4",
			Height: f.Height,
			SizeMB: estimateSizeMB(f, info.Duration),
		})
	}

	return result
}

// estimateSizeMB prefers reported sizes and falls back to bitrate x duration.
// Zero means unknown; callers must treat it as advisory.
func estimateSizeMB(f rawFormat, duration float64) float64 {
	size := f.Filesize
	if size == 0 {
		size = f.FilesizeApprox
	}
	if size == 0 && duration > 0 && f.TBR > 0 {
		size = int64(f.TBR * 1000 * duration / 8)
	}
	if size == 0 {
		return 0
	}
	return round2(float64(size) / 1024 / 1024)
}

func formatDuration(seconds float64) string {
	total := int(seconds)
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}

func round2(v float64) float64 {
	return float64(int(v*100+0.5)) / 100
}
