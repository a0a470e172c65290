// Package transcribe holds the speech-to-text providers and the transcript
// assembly stage that stitches per-chunk results into a single timeline.
package transcribe

import (
	"context"
	"fmt"

	"github.com/transcript-ai/backend/internal/config"
	"github.com/transcript-ai/backend/internal/logging"
	"github.com/transcript-ai/backend/pkg/models"
)

// Provider transcribes a single audio file. Implementations must honor ctx
// cancellation and classify failures as transient or permanent through the
// pipeline error types.
type Provider interface {
	// Transcribe sends the audio at path to the service and returns its
	// chunk-local result. An empty segment list is a valid success. The
	// language hint is advisory; providers that cannot use it ignore it.
	Transcribe(ctx context.Context, path, language string) (models.ChunkResult, error)
	// Name identifies the provider in logs and the info endpoint.
	Name() string
}

// NewProvider builds the configured speech-to-text provider.
func NewProvider(cfg config.WhisperConfig, log *logging.Logger) (Provider, error) {
	switch cfg.Provider {
	case "cloudflare":
		return NewCloudflareProvider(cfg, log)
	case "openai":
		return NewOpenAIProvider(cfg, log)
	default:
		return nil, fmt.Errorf("unknown transcription provider %q", cfg.Provider)
	}
}
