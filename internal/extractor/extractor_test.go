package extractor

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/transcript-ai/backend/pkg/models"
)

func TestClassifyToolError(t *testing.T) {
	base := errors.New("exit status 1")

	tests := []struct {
		name          string
		stderr        string
		wantKind      models.ErrorKind
		wantTransient bool
	}{
		{
			name:     "private video",
			stderr:   "ERROR: Private video. Sign in if you've been granted access",
			wantKind: models.ErrSourceUnavailable,
		},
		{
			name:     "members only",
			stderr:   "ERROR: This video is available to this channel's members-only tier",
			wantKind: models.ErrSourceUnavailable,
		},
		{
			name:     "removed video",
			stderr:   "ERROR: This video has been removed by the uploader",
			wantKind: models.ErrSourceUnavailable,
		},
		{
			name:     "unsupported url",
			stderr:   "ERROR: Unsupported URL: https://example.com/page",
			wantKind: models.ErrUnsupportedSource,
		},
		{
			name:     "no extractor",
			stderr:   "ERROR: no suitable extractor found",
			wantKind: models.ErrUnsupportedSource,
		},
		{
			// Contains "not available", which must not shadow the
			// format-specific classification.
			name:     "format missing",
			stderr:   "ERROR: Requested format is not available",
			wantKind: models.ErrFormatResolution,
		},
		{
			name:     "format missing with hint",
			stderr:   "ERROR: [tiktok] Requested format is not available. Use --list-formats for a list of available formats",
			wantKind: models.ErrFormatResolution,
		},
		{
			name:          "network timeout",
			stderr:        "ERROR: Unable to download webpage: The read operation timed out",
			wantKind:      models.ErrSourceUnavailable,
			wantTransient: true,
		},
		{
			name:          "connection refused",
			stderr:        "ERROR: connection refused",
			wantKind:      models.ErrSourceUnavailable,
			wantTransient: true,
		},
		{
			name:     "disk full",
			stderr:   "ERROR: unable to write: no space left on device",
			wantKind: models.ErrUnsupportedSource,
		},
		{
			name:     "unknown stderr defaults to unavailable",
			stderr:   "ERROR: something novel happened",
			wantKind: models.ErrSourceUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := classifyToolError(models.PlatformYouTube, tt.stderr, base)
			require.Error(t, err)
			assert.Equal(t, tt.wantKind, models.KindOf(err))
			assert.Equal(t, tt.wantTransient, models.IsTransient(err))
			assert.True(t, errors.Is(err, base), "cause must stay unwrappable")
		})
	}
}

func TestBuildProbeResult(t *testing.T) {
	info := &mediaInfo{
		Title:     "Conference Talk",
		Duration:  754,
		Thumbnail: "https://i.example.com/thumb.jpg",
		Formats: []rawFormat{
			{FormatID: "251", Ext: "webm", ACodec: "opus", VCodec: "none", ABR: 160, Filesize: 12 * 1024 * 1024},
			{FormatID: "140", Ext: "m4a", ACodec: "mp4a.40.2", VCodec: "none", ABR: 128},
			{FormatID: "137", Ext: "mp4", VCodec: "avc1", ACodec: "none", Height: 1080, Filesize: 200 * 1024 * 1024},
			{FormatID: "136", Ext: "mp4", VCodec: "avc1", ACodec: "none", Height: 720, TBR: 1200},
			{FormatID: "298", Ext: "mp4", VCodec: "avc1", ACodec: "none", Height: 720, Filesize: 90 * 1024 * 1024},
			{FormatID: "135", Ext: "mp4", VCodec: "avc1", ACodec: "none", Height: 480, FilesizeApprox: 40 * 1024 * 1024},
			{FormatID: "160", Ext: "mp4", VCodec: "avc1", ACodec: "none", Height: 144},
		},
	}

	result := buildProbeResult(models.PlatformYouTube, info)

	assert.Equal(t, models.PlatformYouTube, result.Platform)
	assert.Equal(t, "Conference Talk", result.Title)
	assert.Equal(t, "12:34", result.DurationStr)

	require.NotEmpty(t, result.Options)
	audio := result.Options[0]
	assert.Equal(t, "mp3", audio.ID)
	assert.Equal(t, models.RenditionAudio, audio.Kind)
	assert.InDelta(t, 12.0, audio.SizeMB, 0.01)

	// 144p is below the listing floor; 720p appears once.
	var heights []int
	for _, opt := range result.Options[1:] {
		assert.Equal(t, models.RenditionVideo, opt.Kind)
		heights = append(heights, opt.Height)
	}
	assert.Equal(t, []int{1080, 720, 480}, heights)

	assert.Equal(t, "MP4 1080p (HD)", result.Options[1].Label)
	assert.Equal(t, "video_1080", result.Options[1].ID)
	assert.Equal(t, "MP4 720p (HD)", result.Options[2].Label)
	assert.Equal(t, "MP4 480p", result.Options[3].Label)

	// The first 720p format listed carried only a bitrate, so its size
	// comes from tbr x duration.
	assert.InDelta(t, 1200.0*1000*754/8/1024/1024, result.Options[2].SizeMB, 0.01)
}

func TestBuildProbeResultAudioEstimateFallsBackToBitrate(t *testing.T) {
	info := &mediaInfo{Title: "Podcast", Duration: 600}

	result := buildProbeResult(models.PlatformOther, info)

	require.Len(t, result.Options, 1)
	assert.Equal(t, "mp3", result.Options[0].ID)
	// No reported sizes anywhere: estimate a 64kbps mp3 of the duration.
	assert.InDelta(t, 600*64*1000.0/8/1024/1024, result.Options[0].SizeMB, 0.01)
}

func TestFindOutputPrefersExactMatch(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "abc.mp3")
	writeFile(t, dir, "other.mp3")

	path, err := findOutput(dir, "abc")
	require.NoError(t, err)
	assert.Contains(t, path, "abc.mp3")
}

func writeFile(t *testing.T, dir, name string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
}
