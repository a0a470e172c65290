package transcribe

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/transcript-ai/backend/internal/config"
	"github.com/transcript-ai/backend/internal/logging"
	"github.com/transcript-ai/backend/pkg/models"
)

const cloudflareBaseURL = "https://api.cloudflare.com/client/v4"

// segmentMaxWords bounds how many words a synthesized segment may carry when
// the service reports word-level timings only.
const segmentMaxWords = 12

// segmentGapSeconds starts a new segment when the speaker pauses this long.
const segmentGapSeconds = 1.0

// CloudflareProvider calls a Workers AI whisper model with raw audio bytes.
type CloudflareProvider struct {
	accountID string
	apiToken  string
	model     string
	baseURL   string
	client    *http.Client
	log       *logging.Logger
}

func NewCloudflareProvider(cfg config.WhisperConfig, log *logging.Logger) (*CloudflareProvider, error) {
	if cfg.CloudflareAccountID == "" || cfg.CloudflareAPIToken == "" {
		return nil, fmt.Errorf("cloudflare provider requires account id and api token")
	}
	return &CloudflareProvider{
		accountID: cfg.CloudflareAccountID,
		apiToken:  cfg.CloudflareAPIToken,
		model:     cfg.CloudflareModel,
		baseURL:   cloudflareBaseURL,
		client:    &http.Client{Timeout: 120 * time.Second},
		log:       log,
	}, nil
}

func (p *CloudflareProvider) Name() string { return "cloudflare" }

type cloudflareWord struct {
	Word  string  `json:"word"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

type cloudflareResponse struct {
	Success bool `json:"success"`
	Errors  []struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"errors"`
	Result struct {
		Text      string           `json:"text"`
		WordCount int              `json:"word_count"`
		Words     []cloudflareWord `json:"words"`
	} `json:"result"`
}

// Transcribe posts raw audio bytes to the Workers AI endpoint. The model
// detects language itself, so the hint is unused here.
func (p *CloudflareProvider) Transcribe(ctx context.Context, path, _ string) (models.ChunkResult, error) {
	audio, err := os.ReadFile(path)
	if err != nil {
		return models.ChunkResult{}, models.WrapPipelineError(models.ErrTranscriptionService, err,
			"reading audio chunk")
	}

	url := fmt.Sprintf("%s/accounts/%s/ai/run/%s", p.baseURL, p.accountID, p.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(audio))
	if err != nil {
		return models.ChunkResult{}, models.WrapPipelineError(models.ErrTranscriptionService, err,
			"building whisper request")
	}
	req.Header.Set("Authorization", "Bearer "+p.apiToken)
	req.Header.Set("Content-Type", "application/octet-stream")

	resp, err := p.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return models.ChunkResult{}, ctx.Err()
		}
		return models.ChunkResult{}, models.NewTransientError(models.ErrTranscriptionService, err,
			"whisper request failed")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		return models.ChunkResult{}, models.NewTransientError(models.ErrTranscriptionService, err,
			"reading whisper response")
	}

	if resp.StatusCode != http.StatusOK {
		return models.ChunkResult{}, statusError(resp.StatusCode, body)
	}

	var parsed cloudflareResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return models.ChunkResult{}, models.WrapPipelineError(models.ErrTranscriptionService, err,
			"decoding whisper response")
	}
	if !parsed.Success {
		msg := "whisper call reported failure"
		if len(parsed.Errors) > 0 {
			msg = parsed.Errors[0].Message
		}
		return models.ChunkResult{}, models.NewPipelineError(models.ErrTranscriptionService, "%s", msg)
	}

	return models.ChunkResult{
		Text:     parsed.Result.Text,
		Segments: segmentsFromWords(parsed.Result.Words),
	}, nil
}

// statusError maps HTTP statuses onto the retry policy: rate limits and
// server-side failures are worth a bounded retry, other client errors are not.
func statusError(status int, body []byte) error {
	summary := string(body)
	if len(summary) > 200 {
		summary = summary[:200]
	}
	if status == http.StatusTooManyRequests || status >= 500 {
		return models.NewTransientError(models.ErrTranscriptionService, nil,
			"whisper service returned %d: %s", status, summary)
	}
	return models.NewPipelineError(models.ErrTranscriptionService,
		"whisper service rejected request with %d: %s", status, summary)
}

// segmentsFromWords groups word-level timings into caption-sized segments,
// breaking on long pauses.
func segmentsFromWords(words []cloudflareWord) []models.TranscriptSegment {
	var segments []models.TranscriptSegment
	var current *models.TranscriptSegment
	count := 0

	for _, w := range words {
		if w.Word == "" {
			continue
		}
		if current != nil && (count >= segmentMaxWords || w.Start-current.End > segmentGapSeconds) {
			segments = append(segments, *current)
			current = nil
		}
		if current == nil {
			current = &models.TranscriptSegment{Start: w.Start, End: w.End, Text: w.Word}
			count = 1
			continue
		}
		current.Text += " " + w.Word
		current.End = w.End
		count++
	}
	if current != nil {
		segments = append(segments, *current)
	}
	return segments
}
