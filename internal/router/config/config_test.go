package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfig_FromFile(t *testing.T) {
	dir := t.TempDir()
	content := "SERVER_ADDRESS=127.0.0.1:9090\nPOSTGRES_CONN=postgres://u:p@localhost:5432/metonex\nREQUEST_TIMEOUT=3s\nLOG_LEVEL=debug\n"
	if err := os.WriteFile(filepath.Join(dir, "app.env"), []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(dir)
	if err != nil {
		t.Fatalf("LoadConfig(): %v", err)
	}
	if cfg.ServerAddress != "127.0.0.1:9090" {
		t.Errorf("ServerAddress = %q", cfg.ServerAddress)
	}
	if cfg.RequestTimeout != 3*time.Second {
		t.Errorf("RequestTimeout = %v", cfg.RequestTimeout)
	}
	if cfg.Level() != slog.LevelDebug {
		t.Errorf("Level() = %v", cfg.Level())
	}
	if cfg.ExpirySweepInterval != time.Minute {
		t.Errorf("expected default sweep interval, got %v", cfg.ExpirySweepInterval)
	}
}

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	if err != nil {
		t.Fatalf("LoadConfig(): %v", err)
	}
	if cfg.ServerAddress != "0.0.0.0:8080" || cfg.MigrationURL != "file://migrations" {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if cfg.StorageEnabled() {
		t.Error("storage must be disabled without credentials")
	}
}

func TestLoadConfig_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "app.env"), []byte("S3_BUCKET=from-file\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("S3_BUCKET", "from-env")

	cfg, err := LoadConfig(dir)
	if err != nil {
		t.Fatalf("LoadConfig(): %v", err)
	}
	if cfg.S3Bucket != "from-env" {
		t.Errorf("S3Bucket = %q, want from-env", cfg.S3Bucket)
	}
}
