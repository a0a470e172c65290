package extractor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/transcript-ai/backend/internal/config"
	"github.com/transcript-ai/backend/internal/logging"
	"github.com/transcript-ai/backend/pkg/models"
)

// browserUserAgent is presented to platforms that gate their media behind
// client sniffing.
const browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// Extractor wraps the external multi-platform download tool. All invocations
// are context bound; output files land in caller-owned directories.
type Extractor struct {
	cfg config.ExtractorConfig
	log *logging.Logger
}

// New creates an Extractor.
func New(cfg config.ExtractorConfig, log *logging.Logger) *Extractor {
	return &Extractor{cfg: cfg, log: log}
}

// mediaInfo mirrors the subset of the tool's JSON output the pipeline needs.
type mediaInfo struct {
	Title     string      `json:"title"`
	Duration  float64     `json:"duration"`
	Uploader  string      `json:"uploader"`
	Thumbnail string      `json:"thumbnail"`
	Formats   []rawFormat `json:"formats"`
}

type rawFormat struct {
	FormatID       string  `json:"format_id"`
	Ext            string  `json:"ext"`
	Filesize       int64   `json:"filesize"`
	FilesizeApprox int64   `json:"filesize_approx"`
	TBR            float64 `json:"tbr"`
	ABR            float64 `json:"abr"`
	VCodec         string  `json:"vcodec"`
	ACodec         string  `json:"acodec"`
	Height         int     `json:"height"`
	Width          int     `json:"width"`
	FPS            float64 `json:"fps"`
}

// AcquireAudio downloads the URL's audio track as mp3 into workDir and
// returns the local path plus source metadata. Metadata fields the platform
// does not report stay zero.
func (e *Extractor) AcquireAudio(ctx context.Context, url, workDir string) (string, models.MediaSource, error) {
	platform := models.ClassifyPlatform(url)
	name := uuid.New().String()
	outTemplate := filepath.Join(workDir, name+".%(ext)s")

	args := []string{
		"--no-warnings",
		"--no-playlist",
		"--geo-bypass",
		"--retries", "3",
		"--extract-audio",
		"--audio-format", "mp3",
		"--audio-quality", fmt.Sprintf("%dK", e.cfg.AudioBitrate),
		"--ffmpeg-location", e.cfg.FFmpegPath,
		"--print-json",
		"-o", outTemplate,
	}
	args = appendPlatformArgs(args, platform)
	args = append(args, url)

	info, err := e.run(ctx, "acquire_audio", url, platform, args)
	if err != nil {
		return "", models.MediaSource{}, err
	}

	audioPath := filepath.Join(workDir, name+".mp3")
	if _, statErr := os.Stat(audioPath); statErr != nil {
		// The tool occasionally keeps the native container when the track is
		// already mp3-compatible; fall back to whatever it produced.
		audioPath, err = findOutput(workDir, name)
		if err != nil {
			return "", models.MediaSource{}, models.WrapPipelineError(models.ErrSourceUnavailable, err,
				"downloaded audio not found for %s", url)
		}
	}

	return audioPath, sourceFromInfo(url, platform, info), nil
}

// DownloadMedia downloads the URL using an explicit, already-resolved format
// spec and returns the local file path plus metadata.
func (e *Extractor) DownloadMedia(ctx context.Context, url string, spec models.FormatSpec, workDir string) (string, models.MediaSource, error) {
	platform := models.ClassifyPlatform(url)
	name := uuid.New().String()
	outTemplate := filepath.Join(workDir, name+".%(ext)s")

	args := []string{
		"--no-warnings",
		"--no-playlist",
		"--geo-bypass",
		"--retries", "3",
		"--ffmpeg-location", e.cfg.FFmpegPath,
		"--print-json",
		"-o", outTemplate,
	}

	if spec.AudioOnly {
		args = append(args,
			"--extract-audio",
			"--audio-format", "mp3",
		)
		if spec.FormatString != "" {
			args = append(args, "-f", spec.FormatString)
		}
	} else {
		args = append(args,
			"-f", spec.FormatString,
			"--merge-output-format", spec.Container,
		)
	}

	args = appendPlatformArgs(args, platform)
	args = append(args, url)

	info, err := e.run(ctx, "download_media", url, platform, args)
	if err != nil {
		return "", models.MediaSource{}, err
	}

	wantPath := filepath.Join(workDir, name+"."+spec.Container)
	if _, statErr := os.Stat(wantPath); statErr != nil {
		wantPath, err = findOutput(workDir, name)
		if err != nil {
			return "", models.MediaSource{}, models.WrapPipelineError(models.ErrSourceUnavailable, err,
				"downloaded media not found for %s", url)
		}
	}

	return wantPath, sourceFromInfo(url, platform, info), nil
}

// ProbeFormats queries available renditions for a URL without downloading.
func (e *Extractor) ProbeFormats(ctx context.Context, url string) (models.ProbeResult, error) {
	platform := models.ClassifyPlatform(url)

	args := []string{
		"--no-warnings",
		"--no-playlist",
		"--skip-download",
		"-J",
	}
	args = appendPlatformArgs(args, platform)
	args = append(args, url)

	info, err := e.run(ctx, "probe_formats", url, platform, args)
	if err != nil {
		return models.ProbeResult{}, err
	}
	if info == nil {
		return models.ProbeResult{}, models.NewPipelineError(models.ErrSourceUnavailable,
			"no media info found for %s", url)
	}

	return buildProbeResult(platform, info), nil
}

// run executes the tool and parses the single JSON object it prints. A nil
// info with nil error means the tool printed nothing parseable.
func (e *Extractor) run(ctx context.Context, operation, url string, platform models.Platform, args []string) (*mediaInfo, error) {
	start := time.Now()

	cmd := exec.CommandContext(ctx, e.cfg.YtDlpPath, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	e.log.LogExtractorCall(operation, url, platform, time.Since(start), err)

	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, classifyToolError(platform, stderr.String(), err)
	}

	info := new(mediaInfo)
	if jsonErr := json.Unmarshal(firstJSONLine(stdout.Bytes()), info); jsonErr != nil {
		// Metadata is optional for acquisition; the download itself succeeded.
		info = nil
	}

	return info, nil
}

func sourceFromInfo(url string, platform models.Platform, info *mediaInfo) models.MediaSource {
	src := models.MediaSource{Ref: url, Platform: platform}
	if info != nil {
		src.Title = info.Title
		src.Duration = info.Duration
		src.Uploader = info.Uploader
		src.Thumbnail = info.Thumbnail
	}
	return src
}

// appendPlatformArgs adds platform-specific flags.
func appendPlatformArgs(args []string, platform models.Platform) []string {
	if platform.NeedsBrowserHeaders() {
		args = append(args, "--user-agent", browserUserAgent)
	}
	return args
}

// findOutput locates the produced file when the expected extension differs
// from what the tool chose.
func findOutput(workDir, name string) (string, error) {
	matches, err := filepath.Glob(filepath.Join(workDir, name+".*"))
	if err != nil {
		return "", err
	}
	if len(matches) == 0 {
		return "", fmt.Errorf("no output file matching %s", name)
	}
	return matches[0], nil
}

// firstJSONLine returns the first non-empty line of the tool's stdout, which
// carries the info JSON when --print-json or -J is set.
func firstJSONLine(out []byte) []byte {
	for _, line := range bytes.Split(out, []byte("\n")) {
		trimmed := bytes.TrimSpace(line)
		if len(trimmed) > 0 {
			return trimmed
		}
	}
	return out
}
