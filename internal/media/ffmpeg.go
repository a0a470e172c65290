package media

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// FFmpeg wraps the ffmpeg and ffprobe binaries
type FFmpeg struct {
	ffmpegPath  string
	ffprobePath string
}

// NewFFmpeg creates a new FFmpeg instance
func NewFFmpeg(ffmpegPath, ffprobePath string) *FFmpeg {
	return &FFmpeg{
		ffmpegPath:  ffmpegPath,
		ffprobePath: ffprobePath,
	}
}

// probeOutput mirrors the ffprobe -print_format json layout
type probeOutput struct {
	Format formatInfo `json:"format"`
}

type formatInfo struct {
	FormatName string `json:"format_name"`
	Duration   string `json:"duration"`
	Size       string `json:"size"`
	BitRate    string `json:"bit_rate"`
}

// AudioInfo holds the container-level facts the pipeline needs
type AudioInfo struct {
	Duration float64
	Size     int64
	Bitrate  int64
	Format   string
}

// Probe extracts container metadata from a media file
func (f *FFmpeg) Probe(ctx context.Context, inputPath string) (*AudioInfo, error) {
	args := []string{
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		inputPath,
	}

	cmd := exec.CommandContext(ctx, f.ffprobePath, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("ffprobe failed: %w, stderr: %s", err, stderr.String())
	}

	return parseProbeOutput(stdout.Bytes())
}

func parseProbeOutput(data []byte) (*AudioInfo, error) {
	var probed probeOutput
	if err := json.Unmarshal(data, &probed); err != nil {
		return nil, fmt.Errorf("failed to parse ffprobe output: %w", err)
	}

	info := &AudioInfo{Format: probed.Format.FormatName}

	if duration, err := strconv.ParseFloat(probed.Format.Duration, 64); err == nil {
		info.Duration = duration
	}
	if size, err := strconv.ParseInt(probed.Format.Size, 10, 64); err == nil {
		info.Size = size
	}
	if bitrate, err := strconv.ParseInt(probed.Format.BitRate, 10, 64); err == nil {
		info.Bitrate = bitrate
	}

	return info, nil
}

// ExtractAudioMP3 re-encodes any media file to a mono mp3 at the given
// bitrate, suitable for the transcription service.
func (f *FFmpeg) ExtractAudioMP3(ctx context.Context, inputPath, outputPath string, bitrateKbps int) error {
	args := []string{
		"-i", inputPath,
		"-vn",
		"-acodec", "libmp3lame",
		"-b:a", fmt.Sprintf("%dk", bitrateKbps),
		"-ac", "1",
		"-y",
		outputPath,
	}

	cmd := exec.CommandContext(ctx, f.ffmpegPath, args...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("ffmpeg audio extract failed: %w, stderr: %s", err, stderr.String())
	}

	return nil
}

// SegmentCopy splits a media file into fixed-duration segments without
// re-encoding. Segments land in outDir as segment_000.<ext>, segment_001.<ext>
// and so on; the returned paths are in segment order.
//
// Stream copy cuts at packet boundaries, so each boundary may drift from the
// requested time by up to one encoded frame (about 26ms for mp3). Offset
// bookkeeping uses the requested times, which keeps the drift bounded and
// non-accumulating.
func (f *FFmpeg) SegmentCopy(ctx context.Context, inputPath, outDir string, segmentSeconds float64) ([]string, error) {
	ext := filepath.Ext(inputPath)
	if ext == "" {
		ext = ".mp3"
	}
	pattern := filepath.Join(outDir, "segment_%03d"+ext)

	args := []string{
		"-i", inputPath,
		"-f", "segment",
		"-segment_time", strconv.FormatFloat(segmentSeconds, 'f', -1, 64),
		"-c", "copy",
		"-y",
		pattern,
	}

	cmd := exec.CommandContext(ctx, f.ffmpegPath, args...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("ffmpeg segment failed: %w, stderr: %s", err, stderr.String())
	}

	entries, err := os.ReadDir(outDir)
	if err != nil {
		return nil, fmt.Errorf("failed to list segments: %w", err)
	}

	var segments []string
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), "segment_") && strings.HasSuffix(e.Name(), ext) {
			segments = append(segments, filepath.Join(outDir, e.Name()))
		}
	}
	sort.Strings(segments)

	if len(segments) == 0 {
		return nil, fmt.Errorf("no segments produced for %s", inputPath)
	}

	return segments, nil
}
