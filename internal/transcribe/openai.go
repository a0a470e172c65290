package transcribe

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	openai "github.com/sashabaranov/go-openai"

	"github.com/transcript-ai/backend/internal/config"
	"github.com/transcript-ai/backend/internal/logging"
	"github.com/transcript-ai/backend/pkg/models"
)

// OpenAIProvider transcribes through the OpenAI audio API using verbose JSON
// so segment timings come back with the text.
type OpenAIProvider struct {
	client *openai.Client
	model  string
	log    *logging.Logger
}

func NewOpenAIProvider(cfg config.WhisperConfig, log *logging.Logger) (*OpenAIProvider, error) {
	if cfg.OpenAIAPIKey == "" {
		return nil, fmt.Errorf("openai provider requires an api key")
	}
	return &OpenAIProvider{
		client: openai.NewClient(cfg.OpenAIAPIKey),
		model:  cfg.OpenAIModel,
		log:    log,
	}, nil
}

func (p *OpenAIProvider) Name() string { return "openai" }

func (p *OpenAIProvider) Transcribe(ctx context.Context, path, language string) (models.ChunkResult, error) {
	resp, err := p.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    p.model,
		FilePath: path,
		Format:   openai.AudioResponseFormatVerboseJSON,
		Language: language,
	})
	if err != nil {
		if ctx.Err() != nil {
			return models.ChunkResult{}, ctx.Err()
		}
		return models.ChunkResult{}, classifyOpenAIError(err)
	}

	result := models.ChunkResult{
		Text:     resp.Text,
		Language: resp.Language,
	}
	for _, seg := range resp.Segments {
		result.Segments = append(result.Segments, models.TranscriptSegment{
			Start: seg.Start,
			End:   seg.End,
			Text:  seg.Text,
		})
	}
	return result, nil
}

func classifyOpenAIError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		if apiErr.HTTPStatusCode == http.StatusTooManyRequests || apiErr.HTTPStatusCode >= 500 {
			return models.NewTransientError(models.ErrTranscriptionService, err,
				"transcription service returned %d", apiErr.HTTPStatusCode)
		}
		return models.WrapPipelineError(models.ErrTranscriptionService, err,
			"transcription service rejected request with %d", apiErr.HTTPStatusCode)
	}
	// Transport-level failures are retryable.
	return models.NewTransientError(models.ErrTranscriptionService, err, "transcription call failed")
}
