package runtimeconfig

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrStorageProviderUnknown   = errors.New("console config: storage provider is invalid")
	ErrStorageDSNRequired       = errors.New("console config: storage dsn is required for sql providers")
	ErrCacheTTLInvalid          = errors.New("console config: cache ttl must be positive when cache is enabled")
	ErrCacheRequiresSQLStorage  = errors.New("console config: repository cache requires sql storage")
	ErrMediaProviderUnknown     = errors.New("console config: media provider is invalid")
	ErrMediaBucketRequired      = errors.New("console config: s3 bucket is required when media provider is s3")
	ErrUploadConcurrencyInvalid = errors.New("console config: upload concurrency must be zero or positive")
	ErrLoggingProviderUnknown   = errors.New("console config: logging provider is invalid")
	ErrLoggingLevelInvalid      = errors.New("console config: logging level is invalid")
	ErrLoggingFormatInvalid     = errors.New("console config: logging format is invalid")
)

const (
	StorageMemory   = "memory"
	StorageSQLite   = "sqlite"
	StoragePostgres = "postgres"

	MediaMemory = "memory"
	MediaS3     = "s3"

	LoggingGoLogger = "gologger"
	LoggingNoop     = "noop"
)

// Config aggregates adapter bindings for the console module.
type Config struct {
	Storage StorageConfig `yaml:"storage"`
	Cache   CacheConfig   `yaml:"cache"`
	Media   MediaConfig   `yaml:"media"`
	Uploads UploadsConfig `yaml:"uploads"`
	Logging LoggingConfig `yaml:"logging"`
}

// StorageConfig selects the record and schema repositories.
type StorageConfig struct {
	Provider string `yaml:"provider"`
	DSN      string `yaml:"dsn"`
}

// CacheConfig wraps sql repositories with go-repository-cache.
type CacheConfig struct {
	Enabled bool          `yaml:"enabled"`
	TTL     time.Duration `yaml:"ttl"`
}

// MediaConfig selects the store receiving uploaded assets.
type MediaConfig struct {
	Provider string   `yaml:"provider"`
	BaseURL  string   `yaml:"base_url"`
	MaxSize  int64    `yaml:"max_size"`
	S3       S3Config `yaml:"s3"`
}

// S3Config carries bucket and credential settings for the s3 provider.
// Empty credentials fall back to the default aws chain.
type S3Config struct {
	Bucket          string `yaml:"bucket"`
	Region          string `yaml:"region"`
	Endpoint        string `yaml:"endpoint"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
	Prefix          string `yaml:"prefix"`
	PublicURL       string `yaml:"public_url"`
	UsePathStyle    bool   `yaml:"use_path_style"`
}

// UploadsConfig bounds concurrent uploads during commit. Zero keeps the
// resolver default.
type UploadsConfig struct {
	Concurrency int `yaml:"concurrency"`
}

// LoggingConfig captures provider-specific options for runtime logging.
type LoggingConfig struct {
	Provider  string   `yaml:"provider"`
	Level     string   `yaml:"level"`
	Format    string   `yaml:"format"`
	AddSource bool     `yaml:"add_source"`
	Focus     []string `yaml:"focus"`
}

// DefaultConfig returns an in-memory setup suitable for tests and local runs.
func DefaultConfig() Config {
	return Config{
		Storage: StorageConfig{
			Provider: StorageMemory,
		},
		Cache: CacheConfig{
			Enabled: false,
			TTL:     time.Minute,
		},
		Media: MediaConfig{
			Provider: MediaMemory,
			BaseURL:  "/",
		},
		Uploads: UploadsConfig{
			Concurrency: 4,
		},
		Logging: LoggingConfig{
			Provider: LoggingNoop,
			Level:    "info",
		},
	}
}

// Validate performs high-level consistency checks.
func (cfg Config) Validate() error {
	storage := normalize(cfg.Storage.Provider)
	switch storage {
	case "", StorageMemory:
	case StorageSQLite, StoragePostgres:
		if strings.TrimSpace(cfg.Storage.DSN) == "" {
			return fmt.Errorf("%w: %s", ErrStorageDSNRequired, storage)
		}
	default:
		return fmt.Errorf("%w: %s", ErrStorageProviderUnknown, storage)
	}

	if cfg.Cache.Enabled {
		if cfg.Cache.TTL <= 0 {
			return ErrCacheTTLInvalid
		}
		if storage == "" || storage == StorageMemory {
			return ErrCacheRequiresSQLStorage
		}
	}

	switch provider := normalize(cfg.Media.Provider); provider {
	case "", MediaMemory:
	case MediaS3:
		if strings.TrimSpace(cfg.Media.S3.Bucket) == "" {
			return ErrMediaBucketRequired
		}
	default:
		return fmt.Errorf("%w: %s", ErrMediaProviderUnknown, provider)
	}

	if cfg.Uploads.Concurrency < 0 {
		return ErrUploadConcurrencyInvalid
	}

	provider := normalize(cfg.Logging.Provider)
	if provider != "" && !isSupportedProvider(provider) {
		return fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, provider)
	}
	if level := strings.TrimSpace(cfg.Logging.Level); level != "" && !isSupportedLevel(level) {
		return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
	}
	if provider == LoggingGoLogger {
		if format := strings.TrimSpace(cfg.Logging.Format); format != "" && !isSupportedFormat(format) {
			return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
		}
	}
	return nil
}

func normalize(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func isSupportedProvider(provider string) bool {
	switch provider {
	case LoggingGoLogger, LoggingNoop:
		return true
	default:
		return false
	}
}

func isSupportedLevel(level string) bool {
	switch normalize(level) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	default:
		return false
	}
}

func isSupportedFormat(format string) bool {
	switch normalize(format) {
	case "json", "console", "pretty":
		return true
	default:
		return false
	}
}
