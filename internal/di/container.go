package di

import (
	"context"
	"fmt"
	"strings"

	repocache "github.com/goliatone/go-repository-cache/cache"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-cms-console/internal/assets"
	"github.com/goliatone/go-cms-console/internal/blocks"
	"github.com/goliatone/go-cms-console/internal/logging"
	"github.com/goliatone/go-cms-console/internal/logging/gologger"
	"github.com/goliatone/go-cms-console/internal/media"
	"github.com/goliatone/go-cms-console/internal/navigation"
	"github.com/goliatone/go-cms-console/internal/records"
	"github.com/goliatone/go-cms-console/internal/runtimeconfig"
	"github.com/goliatone/go-cms-console/internal/structure"
	"github.com/goliatone/go-cms-console/pkg/interfaces"
)

// Container wires module dependencies from a runtime configuration.
type Container struct {
	Config runtimeconfig.Config

	loggerProvider interfaces.LoggerProvider

	bunDB         *bun.DB
	ownsDB        bool
	cacheService  repocache.CacheService
	keySerializer repocache.KeySerializer

	recordRepo records.RecordRepository
	schemaRepo records.SchemaRepository
	recordSvc  records.Service

	mediaStore interfaces.MediaStore
	menuSource navigation.MenuSource

	registry *blocks.Registry
	engine   *structure.Engine
	resolver *assets.Resolver
	foreign  *structure.Cache
	catalog  *navigation.Catalog
}

// Option mutates the container before services are built.
type Option func(*Container)

// WithBunDB binds a caller-owned database. The container never closes it.
func WithBunDB(db *bun.DB) Option {
	return func(c *Container) {
		c.bunDB = db
	}
}

// WithCache overrides the default cache provider.
func WithCache(service repocache.CacheService, serializer repocache.KeySerializer) Option {
	return func(c *Container) {
		c.cacheService = service
		c.keySerializer = serializer
	}
}

// WithLoggerProvider overrides the provider built from the logging config.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(c *Container) {
		c.loggerProvider = provider
	}
}

// WithMediaStore overrides the store built from the media config.
func WithMediaStore(store interfaces.MediaStore) Option {
	return func(c *Container) {
		c.mediaStore = store
	}
}

// WithMenuSource binds the menu the resource picker is built from.
func WithMenuSource(source navigation.MenuSource) Option {
	return func(c *Container) {
		c.menuSource = source
	}
}

// WithRecordService overrides the record service binding.
func WithRecordService(svc records.Service) Option {
	return func(c *Container) {
		c.recordSvc = svc
	}
}

// WithRegistry overrides the block type registry.
func WithRegistry(registry *blocks.Registry) Option {
	return func(c *Container) {
		c.registry = registry
	}
}

// NewContainer validates cfg and builds every service.
func NewContainer(ctx context.Context, cfg runtimeconfig.Config, opts ...Option) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if ctx == nil {
		ctx = context.Background()
	}

	c := &Container{
		Config:     cfg,
		recordRepo: records.NewMemoryRecordRepository(),
		schemaRepo: records.NewMemorySchemaRepository(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	if err := c.configureLogging(); err != nil {
		return nil, err
	}
	if err := c.configureStorage(ctx); err != nil {
		return nil, err
	}
	c.configureCacheDefaults()
	c.configureRepositories()
	if err := c.configureMedia(ctx); err != nil {
		c.Close()
		return nil, err
	}
	c.configureEditing()
	return c, nil
}

func (c *Container) configureLogging() error {
	if c.loggerProvider != nil {
		return nil
	}
	lc := c.Config.Logging
	if strings.ToLower(strings.TrimSpace(lc.Provider)) != runtimeconfig.LoggingGoLogger {
		return nil
	}
	provider, err := gologger.NewProvider(gologger.Config{
		Level:     lc.Level,
		Format:    lc.Format,
		AddSource: lc.AddSource,
		Focus:     lc.Focus,
	})
	if err != nil {
		return fmt.Errorf("di: logging: %w", err)
	}
	c.loggerProvider = provider
	return nil
}

func (c *Container) configureStorage(ctx context.Context) error {
	if c.bunDB == nil {
		provider := strings.ToLower(strings.TrimSpace(c.Config.Storage.Provider))
		if provider == "" || provider == runtimeconfig.StorageMemory {
			return nil
		}
		db, err := records.OpenDB(provider, c.Config.Storage.DSN)
		if err != nil {
			return err
		}
		c.bunDB = db
		c.ownsDB = true
	}
	if err := records.EnsureSchema(ctx, c.bunDB); err != nil {
		c.Close()
		return err
	}
	return nil
}

func (c *Container) configureCacheDefaults() {
	if !c.Config.Cache.Enabled || c.bunDB == nil {
		return
	}

	if c.cacheService == nil {
		cfg := repocache.DefaultConfig()
		if c.Config.Cache.TTL > 0 {
			cfg.TTL = c.Config.Cache.TTL
		}
		service, err := repocache.NewCacheService(cfg)
		if err != nil {
			logging.RecordsLogger(c.loggerProvider).Warn("di.cache.unavailable", "error", err)
		} else {
			c.cacheService = service
		}
	}

	if c.cacheService != nil && c.keySerializer == nil {
		c.keySerializer = repocache.NewDefaultKeySerializer()
	}
}

func (c *Container) configureRepositories() {
	if c.bunDB != nil {
		c.recordRepo = records.NewBunRecordRepositoryWithCache(c.bunDB, c.cacheService, c.keySerializer)
		c.schemaRepo = records.NewBunSchemaRepositoryWithCache(c.bunDB, c.cacheService, c.keySerializer)
	}
	if c.recordSvc == nil {
		c.recordSvc = records.NewService(c.recordRepo, c.schemaRepo)
	}
}

func (c *Container) configureMedia(ctx context.Context) error {
	if c.mediaStore != nil {
		return nil
	}
	mc := c.Config.Media
	switch strings.ToLower(strings.TrimSpace(mc.Provider)) {
	case runtimeconfig.MediaS3:
		store, err := media.NewS3Store(ctx, media.S3Config{
			Bucket:          mc.S3.Bucket,
			Region:          mc.S3.Region,
			Endpoint:        mc.S3.Endpoint,
			AccessKeyID:     mc.S3.AccessKeyID,
			SecretAccessKey: mc.S3.SecretAccessKey,
			Prefix:          mc.S3.Prefix,
			PublicURL:       mc.S3.PublicURL,
			UsePathStyle:    mc.S3.UsePathStyle,
		}, media.WithS3Logger(logging.AssetsLogger(c.loggerProvider)))
		if err != nil {
			return err
		}
		c.mediaStore = store
	default:
		var opts []media.MemoryOption
		if mc.MaxSize > 0 {
			opts = append(opts, media.WithMaxSize(mc.MaxSize))
		}
		c.mediaStore = media.NewMemoryStore(mc.BaseURL, opts...)
	}
	return nil
}

func (c *Container) configureEditing() {
	if c.registry == nil {
		c.registry = blocks.NewRegistry()
	}
	structureLogger := logging.StructureLogger(c.loggerProvider)
	c.engine = structure.NewEngine(
		structure.WithRegistry(c.registry),
		structure.WithEngineLogger(structureLogger),
	)
	c.resolver = assets.NewResolver(c.mediaStore,
		assets.WithConcurrency(c.Config.Uploads.Concurrency),
		assets.WithLogger(logging.AssetsLogger(c.loggerProvider)),
	)
	c.foreign = structure.NewCache(structure.RecordsLookup(c.recordSvc), structure.WithCacheLogger(structureLogger))

	source := c.menuSource
	if source == nil {
		source = navigation.StaticSource(nil)
	}
	c.catalog = navigation.NewCatalog(source, navigation.WithLogger(logging.NavigationLogger(c.loggerProvider)))
}

// Close releases the database opened from configuration.
func (c *Container) Close() error {
	if c == nil || c.bunDB == nil || !c.ownsDB {
		return nil
	}
	err := c.bunDB.Close()
	c.bunDB = nil
	if err != nil {
		return fmt.Errorf("di: close storage: %w", err)
	}
	return nil
}

// LoggerProvider returns the configured provider, nil for no-op logging.
func (c *Container) LoggerProvider() interfaces.LoggerProvider {
	return c.loggerProvider
}

// BunDB returns the sql database, nil for memory storage.
func (c *Container) BunDB() *bun.DB {
	return c.bunDB
}

// RecordService returns the configured record service.
func (c *Container) RecordService() records.Service {
	return c.recordSvc
}

// MediaStore returns the configured media store.
func (c *Container) MediaStore() interfaces.MediaStore {
	return c.mediaStore
}

// Registry returns the block type registry.
func (c *Container) Registry() *blocks.Registry {
	return c.registry
}

// Engine returns the structure engine.
func (c *Container) Engine() *structure.Engine {
	return c.engine
}

// Resolver returns the pending asset resolver.
func (c *Container) Resolver() *assets.Resolver {
	return c.resolver
}

// ForeignCache returns the shared foreign resource cache.
func (c *Container) ForeignCache() *structure.Cache {
	return c.foreign
}

// Navigation returns the resource catalog built from the menu source.
func (c *Container) Navigation() *navigation.Catalog {
	return c.catalog
}
