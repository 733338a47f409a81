package console

import "github.com/goliatone/go-cms-console/internal/runtimeconfig"

var (
	ErrStorageProviderUnknown   = runtimeconfig.ErrStorageProviderUnknown
	ErrStorageDSNRequired       = runtimeconfig.ErrStorageDSNRequired
	ErrCacheTTLInvalid          = runtimeconfig.ErrCacheTTLInvalid
	ErrCacheRequiresSQLStorage  = runtimeconfig.ErrCacheRequiresSQLStorage
	ErrMediaProviderUnknown     = runtimeconfig.ErrMediaProviderUnknown
	ErrMediaBucketRequired      = runtimeconfig.ErrMediaBucketRequired
	ErrUploadConcurrencyInvalid = runtimeconfig.ErrUploadConcurrencyInvalid
	ErrLoggingProviderUnknown   = runtimeconfig.ErrLoggingProviderUnknown
	ErrLoggingLevelInvalid      = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid     = runtimeconfig.ErrLoggingFormatInvalid
)

type (
	Config        = runtimeconfig.Config
	StorageConfig = runtimeconfig.StorageConfig
	CacheConfig   = runtimeconfig.CacheConfig
	MediaConfig   = runtimeconfig.MediaConfig
	S3Config      = runtimeconfig.S3Config
	UploadsConfig = runtimeconfig.UploadsConfig
	LoggingConfig = runtimeconfig.LoggingConfig
)

func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}

// LoadConfig reads and validates a YAML configuration file.
func LoadConfig(path string) (Config, error) {
	return runtimeconfig.Load(path)
}
