package extractor

import (
	"strings"

	"github.com/transcript-ai/backend/pkg/models"
)

// classifyToolError maps the extraction tool's stderr onto the typed error
// taxonomy. This is the only place stderr text is inspected; everything
// downstream branches on error kinds.
func classifyToolError(platform models.Platform, stderr string, err error) error {
	lower := strings.ToLower(stderr)

	switch {
	case strings.Contains(lower, "private video"),
		strings.Contains(lower, "sign in"),
		strings.Contains(lower, "login required"),
		strings.Contains(lower, "members-only"):
		return models.WrapPipelineError(models.ErrSourceUnavailable, err,
			"%s content is private or requires login", platform)

	// Format rejections must be checked before the generic "not available"
	// match below, or they would classify as source errors.
	case strings.Contains(lower, "requested format is not available"),
		strings.Contains(lower, "format is not available"):
		return models.WrapPipelineError(models.ErrFormatResolution, err,
			"requested format is not available on %s", platform)

	case strings.Contains(lower, "video unavailable"),
		strings.Contains(lower, "not available"),
		strings.Contains(lower, "has been removed"),
		strings.Contains(lower, "geo restricted"):
		return models.WrapPipelineError(models.ErrSourceUnavailable, err,
			"content not available; it may be geo-restricted or deleted")

	case strings.Contains(lower, "unsupported url"),
		strings.Contains(lower, "no suitable extractor"),
		strings.Contains(lower, "cannot parse"):
		return models.WrapPipelineError(models.ErrUnsupportedSource, err,
			"no extraction handler for this %s URL", platform)

	case strings.Contains(lower, "timed out"),
		strings.Contains(lower, "connection refused"),
		strings.Contains(lower, "temporary failure"):
		return models.NewTransientError(models.ErrSourceUnavailable, err,
			"source fetch failed transiently")

	case strings.Contains(lower, "no space left"):
		return models.WrapPipelineError(models.ErrUnsupportedSource, err,
			"local storage exhausted while acquiring media")
	}

	return models.WrapPipelineError(models.ErrSourceUnavailable, err, "media extraction failed")
}
