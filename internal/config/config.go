package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	Logging   LoggingConfig
	Redis     RedisConfig
	Extractor ExtractorConfig
	Whisper   WhisperConfig
	Pipeline  PipelineConfig
	RateLimit RateLimitConfig
	Metrics   MetricsConfig
	Tracing   TracingConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port            int
	Host            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string
	Format string
	Output string
}

// RedisConfig holds Redis configuration for the probe cache
type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
	ProbeTTL time.Duration
}

// ExtractorConfig holds configuration for the external media tools
type ExtractorConfig struct {
	YtDlpPath   string
	FFmpegPath  string
	FFprobePath string
	TempDir     string
	// AudioBitrate is the target kbps for extracted audio; kept low so chunks
	// stay under the transcription service's size ceiling.
	AudioBitrate int
}

// WhisperConfig holds speech-to-text provider configuration
type WhisperConfig struct {
	Provider            string // cloudflare or openai
	CloudflareAccountID string
	CloudflareAPIToken  string
	CloudflareModel     string
	OpenAIAPIKey        string
	OpenAIModel         string
}

// PipelineConfig holds the orchestration limits
type PipelineConfig struct {
	ChunkSeconds   float64
	MaxUploadBytes int64
	Workers        int
	ChunkTimeout   time.Duration
	RequestTimeout time.Duration
	MaxRetries     int
	RetryBackoff   time.Duration
}

// RateLimitConfig holds per-client request limits
type RateLimitConfig struct {
	RPS   int
	Burst int
}

// MetricsConfig holds the Prometheus endpoint configuration
type MetricsConfig struct {
	Enabled bool
	Port    int
}

// TracingConfig holds Jaeger tracing configuration
type TracingConfig struct {
	Enabled        bool
	ServiceName    string
	JaegerEndpoint string
}

// Load reads configuration from file and environment variables
func Load(configPath string) (*Config, error) {
	viper.SetConfigFile(configPath)
	viper.SetConfigType("yaml")
	viper.AutomaticEnv()

	// Set defaults
	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &config, nil
}

func setDefaults() {
	// Server defaults
	viper.SetDefault("server.port", 8000)
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.readTimeout", "30s")
	viper.SetDefault("server.writeTimeout", "30m")
	viper.SetDefault("server.shutdownTimeout", "10s")

	// Logging defaults
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "json")
	viper.SetDefault("logging.output", "stdout")

	// Redis defaults
	viper.SetDefault("redis.enabled", true)
	viper.SetDefault("redis.host", "localhost")
	viper.SetDefault("redis.port", 6379)
	viper.SetDefault("redis.password", "")
	viper.SetDefault("redis.db", 0)
	viper.SetDefault("redis.probeTTL", "10m")

	// Extractor defaults
	viper.SetDefault("extractor.ytDlpPath", "yt-dlp")
	viper.SetDefault("extractor.ffmpegPath", "ffmpeg")
	viper.SetDefault("extractor.ffprobePath", "ffprobe")
	viper.SetDefault("extractor.tempDir", "/tmp/transcript-ai")
	viper.SetDefault("extractor.audioBitrate", 64)

	// Whisper defaults
	viper.SetDefault("whisper.provider", "cloudflare")
	viper.SetDefault("whisper.cloudflareModel", "@cf/openai/whisper")
	viper.SetDefault("whisper.openAIModel", "whisper-1")

	// Pipeline defaults
	viper.SetDefault("pipeline.chunkSeconds", 300.0)
	viper.SetDefault("pipeline.maxUploadBytes", 25*1024*1024) // 25MB
	viper.SetDefault("pipeline.workers", 3)
	viper.SetDefault("pipeline.chunkTimeout", "2m")
	viper.SetDefault("pipeline.requestTimeout", "15m")
	viper.SetDefault("pipeline.maxRetries", 2)
	viper.SetDefault("pipeline.retryBackoff", "2s")

	// Rate limit defaults
	viper.SetDefault("ratelimit.rps", 5)
	viper.SetDefault("ratelimit.burst", 10)

	// Metrics defaults
	viper.SetDefault("metrics.enabled", true)
	viper.SetDefault("metrics.port", 9091)

	// Tracing defaults
	viper.SetDefault("tracing.enabled", false)
	viper.SetDefault("tracing.serviceName", "transcript-ai")
	viper.SetDefault("tracing.jaegerEndpoint", "http://localhost:14268/api/traces")
}
