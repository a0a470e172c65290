package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/transcript-ai/backend/internal/cache"
	"github.com/transcript-ai/backend/internal/chunker"
	"github.com/transcript-ai/backend/internal/config"
	"github.com/transcript-ai/backend/internal/extractor"
	"github.com/transcript-ai/backend/internal/logging"
	"github.com/transcript-ai/backend/internal/media"
	"github.com/transcript-ai/backend/internal/metrics"
	"github.com/transcript-ai/backend/internal/pipeline"
	"github.com/transcript-ai/backend/internal/tracing"
	"github.com/transcript-ai/backend/internal/transcribe"
	"github.com/transcript-ai/backend/internal/upload"
)

const version = "1.0.0"

func main() {
	// .env is optional; real deployments use environment variables.
	_ = godotenv.Load()

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logging.NewLogger(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logger: %v\n", err)
		os.Exit(1)
	}

	if cfg.Tracing.Enabled {
		_, closer, err := tracing.InitTracer(cfg.Tracing.ServiceName, cfg.Tracing.JaegerEndpoint)
		if err != nil {
			log.Fatalf("failed to init tracer: %v", err)
		}
		defer closer.Close()
	}

	if cfg.Metrics.Enabled {
		metricsSrv := metrics.NewServer(cfg.Metrics.Port)
		go func() {
			if err := metricsSrv.Start(); err != nil && err != http.ErrServerClosed {
				log.Errorf("metrics server failed: %v", err)
			}
		}()
		defer metricsSrv.Shutdown(context.Background())
	}

	ctx := context.Background()
	probeCache, err := cache.New(ctx, cfg.Redis, log)
	if err != nil {
		// The service works without the cache; probes just cost more.
		log.WithError(err).Warn("probe cache unavailable, continuing without it")
		probeCache = nil
	}
	defer probeCache.Close()

	provider, err := transcribe.NewProvider(cfg.Whisper, log)
	if err != nil {
		log.Fatalf("failed to init transcription provider: %v", err)
	}
	log.Infof("transcription provider: %s", provider.Name())

	if err := os.MkdirAll(cfg.Extractor.TempDir, 0o755); err != nil {
		log.Fatalf("failed to create temp dir: %v", err)
	}

	ffmpeg := media.NewFFmpeg(cfg.Extractor.FFmpegPath, cfg.Extractor.FFprobePath)
	pipe := pipeline.New(pipeline.Options{
		Config:         cfg.Pipeline,
		TempDir:        cfg.Extractor.TempDir,
		Acquirer:       extractor.New(cfg.Extractor, log),
		Splitter:       chunker.New(ffmpeg, cfg.Pipeline.ChunkSeconds),
		AudioExtractor: ffmpeg,
		Provider:       provider,
		ProbeCache:     probeCache,
		Logger:         log,
		AudioBitrate:   cfg.Extractor.AudioBitrate,
	})

	api := &API{
		pipeline: pipe,
		uploads:  upload.NewHandler(cfg.Pipeline.MaxUploadBytes, cfg.Extractor.TempDir),
		provider: provider.Name(),
		cfg:      cfg,
		log:      log,
	}

	router := setupRouter(api, cfg, log)
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Infof("starting API server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("forced shutdown: %v", err)
	}
	log.Info("server stopped")
}
