package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordHTTPRequest(t *testing.T) {
	// Reset metrics
	HTTPRequestsTotal.Reset()
	HTTPRequestDuration.Reset()

	RecordHTTPRequest("POST", "/transcribe", "200", 0.123)

	counter := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("POST", "/transcribe", "200"))
	if counter != 1.0 {
		t.Errorf("Expected counter to be 1.0, got %f", counter)
	}
}

func TestRecordTranscription(t *testing.T) {
	TranscriptionsTotal.Reset()

	RecordTranscription("youtube", "success", 42.0)
	RecordTranscription("youtube", "failed", 3.0)
	RecordTranscription("tiktok", "success", 12.0)

	success := testutil.ToFloat64(TranscriptionsTotal.WithLabelValues("youtube", "success"))
	if success != 1.0 {
		t.Errorf("Expected youtube success counter to be 1.0, got %f", success)
	}

	failed := testutil.ToFloat64(TranscriptionsTotal.WithLabelValues("youtube", "failed"))
	if failed != 1.0 {
		t.Errorf("Expected youtube failed counter to be 1.0, got %f", failed)
	}
}

func TestRecordChunk(t *testing.T) {
	ChunksTranscribedTotal.Reset()

	RecordChunk("cloudflare", "success", 4.2)
	RecordChunk("cloudflare", "success", 5.1)
	RecordChunk("cloudflare", "failed", 1.0)

	success := testutil.ToFloat64(ChunksTranscribedTotal.WithLabelValues("cloudflare", "success"))
	if success != 2.0 {
		t.Errorf("Expected chunk success counter to be 2.0, got %f", success)
	}
}

func TestRecordProbe(t *testing.T) {
	ProbesTotal.Reset()

	RecordProbe("youtube", true)
	RecordProbe("youtube", false)
	RecordProbe("youtube", true)

	hits := testutil.ToFloat64(ProbesTotal.WithLabelValues("youtube", "hit"))
	if hits != 2.0 {
		t.Errorf("Expected probe hit counter to be 2.0, got %f", hits)
	}

	misses := testutil.ToFloat64(ProbesTotal.WithLabelValues("youtube", "miss"))
	if misses != 1.0 {
		t.Errorf("Expected probe miss counter to be 1.0, got %f", misses)
	}
}

func TestRecordFormatFallback(t *testing.T) {
	FormatFallbacksTotal.Reset()

	RecordFormatFallback("tiktok")
	RecordFormatFallback("tiktok")

	count := testutil.ToFloat64(FormatFallbacksTotal.WithLabelValues("tiktok"))
	if count != 2.0 {
		t.Errorf("Expected fallback counter to be 2.0, got %f", count)
	}
}
