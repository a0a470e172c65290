package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	// Create temporary config file
	content := `
server:
  port: 9090
  host: "127.0.0.1"

whisper:
  provider: "openai"
  openAIAPIKey: "sk-test"

pipeline:
  chunkSeconds: 120
  workers: 5
`

	tmpfile, err := os.CreateTemp("", "config-*.yaml")
	if err != nil {
		t.Fatal(err)
	}
	defer os.Remove(tmpfile.Name())

	if _, err := tmpfile.Write([]byte(content)); err != nil {
		t.Fatal(err)
	}
	if err := tmpfile.Close(); err != nil {
		t.Fatal(err)
	}

	// Load config
	cfg, err := Load(tmpfile.Name())
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	// Verify loaded values
	if cfg.Server.Port != 9090 {
		t.Errorf("Expected port 9090, got %d", cfg.Server.Port)
	}

	if cfg.Server.Host != "127.0.0.1" {
		t.Errorf("Expected host 127.0.0.1, got %s", cfg.Server.Host)
	}

	if cfg.Whisper.Provider != "openai" {
		t.Errorf("Expected whisper provider openai, got %s", cfg.Whisper.Provider)
	}

	if cfg.Pipeline.ChunkSeconds != 120 {
		t.Errorf("Expected chunk ceiling 120, got %f", cfg.Pipeline.ChunkSeconds)
	}

	if cfg.Pipeline.Workers != 5 {
		t.Errorf("Expected 5 workers, got %d", cfg.Pipeline.Workers)
	}
}

func TestLoadDefaults(t *testing.T) {
	tmpfile, err := os.CreateTemp("", "config-*.yaml")
	if err != nil {
		t.Fatal(err)
	}
	defer os.Remove(tmpfile.Name())

	if _, err := tmpfile.Write([]byte("server:\n  port: 8000\n")); err != nil {
		t.Fatal(err)
	}
	if err := tmpfile.Close(); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(tmpfile.Name())
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.Pipeline.ChunkSeconds != 300 {
		t.Errorf("Expected default chunk ceiling 300, got %f", cfg.Pipeline.ChunkSeconds)
	}

	if cfg.Pipeline.MaxUploadBytes != 25*1024*1024 {
		t.Errorf("Expected default upload ceiling 25MB, got %d", cfg.Pipeline.MaxUploadBytes)
	}

	if cfg.Pipeline.ChunkTimeout != 2*time.Minute {
		t.Errorf("Expected default chunk timeout 2m, got %v", cfg.Pipeline.ChunkTimeout)
	}

	if cfg.Whisper.Provider != "cloudflare" {
		t.Errorf("Expected default provider cloudflare, got %s", cfg.Whisper.Provider)
	}

	if cfg.Extractor.YtDlpPath != "yt-dlp" {
		t.Errorf("Expected default yt-dlp path, got %s", cfg.Extractor.YtDlpPath)
	}
}

func TestLoadNonExistentFile(t *testing.T) {
	_, err := Load("nonexistent.yaml")
	if err == nil {
		t.Error("Expected error when loading nonexistent file")
	}
}
