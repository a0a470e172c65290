package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API Metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "transcript_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "transcript_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	// Pipeline Metrics
	TranscriptionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "transcript_transcriptions_total",
			Help: "Total number of transcription requests",
		},
		[]string{"platform", "status"},
	)

	TranscriptionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "transcript_transcription_duration_seconds",
			Help:    "End-to-end transcription pipeline duration in seconds",
			Buckets: prometheus.ExponentialBuckets(1, 2, 12), // 1s to ~1 hour
		},
		[]string{"platform"},
	)

	ChunksTranscribedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "transcript_chunks_transcribed_total",
			Help: "Total number of audio chunks sent for transcription",
		},
		[]string{"provider", "status"},
	)

	ChunkTranscriptionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "transcript_chunk_duration_seconds",
			Help:    "Per-chunk transcription call duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.5, 2, 10),
		},
		[]string{"provider"},
	)

	ChunkRetriesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "transcript_chunk_retries_total",
			Help: "Total number of chunk transcription retries",
		},
	)

	// Acquisition Metrics
	AcquisitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "transcript_acquisitions_total",
			Help: "Total number of media acquisitions",
		},
		[]string{"platform", "status"},
	)

	UploadSizeBytes = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "transcript_upload_size_bytes",
			Help:    "Size of uploaded media files in bytes",
			Buckets: prometheus.ExponentialBuckets(1024*64, 2, 10), // 64KB to 32MB
		},
	)

	// Download Metrics
	DownloadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "transcript_downloads_total",
			Help: "Total number of media downloads",
		},
		[]string{"platform", "container", "status"},
	)

	FormatFallbacksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "transcript_format_fallbacks_total",
			Help: "Total number of best-effort format fallback retries",
		},
		[]string{"platform"},
	)

	ProbesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "transcript_probes_total",
			Help: "Total number of format probes",
		},
		[]string{"platform", "cached"},
	)

	RequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "transcript_requests_in_flight",
			Help: "Number of pipeline requests currently being processed",
		},
	)
)

// RecordHTTPRequest records an HTTP request
func RecordHTTPRequest(method, endpoint, status string, duration float64) {
	HTTPRequestsTotal.WithLabelValues(method, endpoint, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, endpoint).Observe(duration)
}

// RecordTranscription records a completed transcription pipeline run
func RecordTranscription(platform, status string, duration float64) {
	TranscriptionsTotal.WithLabelValues(platform, status).Inc()
	if status == "success" {
		TranscriptionDuration.WithLabelValues(platform).Observe(duration)
	}
}

// RecordChunk records one chunk transcription call
func RecordChunk(provider, status string, duration float64) {
	ChunksTranscribedTotal.WithLabelValues(provider, status).Inc()
	ChunkTranscriptionDuration.WithLabelValues(provider).Observe(duration)
}

// RecordAcquisition records a media acquisition attempt
func RecordAcquisition(platform, status string) {
	AcquisitionsTotal.WithLabelValues(platform, status).Inc()
}

// RecordDownload records a media download attempt
func RecordDownload(platform, container, status string) {
	DownloadsTotal.WithLabelValues(platform, container, status).Inc()
}

// RecordProbe records a format probe, noting whether the cache served it
func RecordProbe(platform string, cached bool) {
	label := "miss"
	if cached {
		label = "hit"
	}
	ProbesTotal.WithLabelValues(platform, label).Inc()
}

// RecordFormatFallback records a best-effort fallback retry
func RecordFormatFallback(platform string) {
	FormatFallbacksTotal.WithLabelValues(platform).Inc()
}
