package runtimeconfig_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/goliatone/go-cms-console/internal/runtimeconfig"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() returned unexpected error: %v", err)
	}
	if cfg.Storage.Provider != runtimeconfig.StorageMemory || cfg.Media.Provider != runtimeconfig.MediaMemory {
		t.Fatalf("expected memory defaults got %+v", cfg)
	}
}

func TestConfigValidate_RequiresDSNForSQLStorage(t *testing.T) {
	for _, provider := range []string{runtimeconfig.StorageSQLite, runtimeconfig.StoragePostgres} {
		cfg := runtimeconfig.DefaultConfig()
		cfg.Storage.Provider = provider
		if err := cfg.Validate(); !errors.Is(err, runtimeconfig.ErrStorageDSNRequired) {
			t.Fatalf("%s: expected ErrStorageDSNRequired, got %v", provider, err)
		}
	}
}

func TestConfigValidate_RejectsUnknownStorage(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Storage.Provider = "mongo"
	if err := cfg.Validate(); !errors.Is(err, runtimeconfig.ErrStorageProviderUnknown) {
		t.Fatalf("expected ErrStorageProviderUnknown, got %v", err)
	}
}

func TestConfigValidate_CacheRules(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Cache.Enabled = true
	if err := cfg.Validate(); !errors.Is(err, runtimeconfig.ErrCacheRequiresSQLStorage) {
		t.Fatalf("expected ErrCacheRequiresSQLStorage, got %v", err)
	}

	cfg.Storage = runtimeconfig.StorageConfig{Provider: "sqlite", DSN: "file::memory:"}
	cfg.Cache.TTL = 0
	if err := cfg.Validate(); !errors.Is(err, runtimeconfig.ErrCacheTTLInvalid) {
		t.Fatalf("expected ErrCacheTTLInvalid, got %v", err)
	}

	cfg.Cache.TTL = time.Second
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected cached sqlite config to validate, got %v", err)
	}
}

func TestConfigValidate_MediaRules(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Media.Provider = "S3"
	if err := cfg.Validate(); !errors.Is(err, runtimeconfig.ErrMediaBucketRequired) {
		t.Fatalf("expected ErrMediaBucketRequired, got %v", err)
	}
	cfg.Media.Provider = "ftp"
	if err := cfg.Validate(); !errors.Is(err, runtimeconfig.ErrMediaProviderUnknown) {
		t.Fatalf("expected ErrMediaProviderUnknown, got %v", err)
	}
}

func TestConfigValidate_RejectsNegativeConcurrency(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Uploads.Concurrency = -1
	if err := cfg.Validate(); !errors.Is(err, runtimeconfig.ErrUploadConcurrencyInvalid) {
		t.Fatalf("expected ErrUploadConcurrencyInvalid, got %v", err)
	}
}

func TestConfigValidate_LoggingRules(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Logging.Provider = "syslog"
	if err := cfg.Validate(); !errors.Is(err, runtimeconfig.ErrLoggingProviderUnknown) {
		t.Fatalf("expected ErrLoggingProviderUnknown, got %v", err)
	}

	cfg.Logging.Provider = "gologger"
	cfg.Logging.Level = "loud"
	if err := cfg.Validate(); !errors.Is(err, runtimeconfig.ErrLoggingLevelInvalid) {
		t.Fatalf("expected ErrLoggingLevelInvalid, got %v", err)
	}

	cfg.Logging.Level = "debug"
	cfg.Logging.Format = "xml"
	if err := cfg.Validate(); !errors.Is(err, runtimeconfig.ErrLoggingFormatInvalid) {
		t.Fatalf("expected ErrLoggingFormatInvalid, got %v", err)
	}
}

func TestParseOverlaysDefaults(t *testing.T) {
	data := []byte(`
storage:
  provider: sqlite
  dsn: "file:console.db"
cache:
  enabled: true
  ttl: 5m
media:
  provider: s3
  s3:
    bucket: assets
    region: eu-west-1
    use_path_style: true
logging:
  provider: gologger
  format: pretty
  focus: [console.editor]
`)
	cfg, err := runtimeconfig.Parse(data)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.Storage.DSN != "file:console.db" || cfg.Cache.TTL != 5*time.Minute {
		t.Fatalf("unexpected storage/cache %+v %+v", cfg.Storage, cfg.Cache)
	}
	if cfg.Media.S3.Bucket != "assets" || !cfg.Media.S3.UsePathStyle {
		t.Fatalf("unexpected s3 config %+v", cfg.Media.S3)
	}
	if cfg.Uploads.Concurrency != 4 {
		t.Fatalf("expected default concurrency to survive, got %d", cfg.Uploads.Concurrency)
	}
	if cfg.Logging.Level != "info" || len(cfg.Logging.Focus) != 1 {
		t.Fatalf("unexpected logging %+v", cfg.Logging)
	}
}

func TestParseValidates(t *testing.T) {
	if _, err := runtimeconfig.Parse([]byte("storage:\n  provider: postgres\n")); !errors.Is(err, runtimeconfig.ErrStorageDSNRequired) {
		t.Fatalf("expected ErrStorageDSNRequired, got %v", err)
	}
	if _, err := runtimeconfig.Parse([]byte("storage: [")); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestLoadReadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "console.yaml")
	if err := os.WriteFile(path, []byte("uploads:\n  concurrency: 2\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := runtimeconfig.Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Uploads.Concurrency != 2 {
		t.Fatalf("expected concurrency 2 got %d", cfg.Uploads.Concurrency)
	}
	if _, err := runtimeconfig.Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
