package structure

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/goliatone/go-cms-console/internal/blocks"
	"github.com/goliatone/go-cms-console/internal/logging"
	"github.com/goliatone/go-cms-console/pkg/interfaces"
)

// ForeignRecord is a record of another resource as seen by the picker.
type ForeignRecord struct {
	ID     string
	Values map[string]any
}

// ForeignLookup reads the schema and records of other resources.
type ForeignLookup interface {
	GetSchema(ctx context.Context, slug string) ([]blocks.FieldDefinition, error)
	ListRecords(ctx context.Context, slug string) ([]ForeignRecord, error)
}

// HeadingMeta locates the heading field of a foreign schema.
type HeadingMeta struct {
	Key       string
	LegacyKey string
	Found     bool
}

// HeadingOf returns the metadata of the first heading definition. Key is the
// storage key the schema resolves for it.
func HeadingOf(defs []blocks.FieldDefinition) HeadingMeta {
	fields := blocks.BindFields(defs)
	for _, field := range fields {
		if field.Definition.Type != blocks.TypeHeading {
			continue
		}
		return HeadingMeta{Key: field.Key, LegacyKey: field.Definition.LegacyKey(), Found: true}
	}
	return HeadingMeta{}
}

// Cache keeps foreign heading metadata and records by resource slug for the
// life of the process. Concurrent loads of one slug share a single fetch;
// entries only change through Invalidate or a forced read.
type Cache struct {
	lookup ForeignLookup
	logger interfaces.Logger
	group  singleflight.Group

	mu       sync.RWMutex
	headings map[string]HeadingMeta
	records  map[string][]ForeignRecord
}

// CacheOption configures a Cache.
type CacheOption func(*Cache)

// WithCacheLogger sets the cache logger.
func WithCacheLogger(logger interfaces.Logger) CacheOption {
	return func(c *Cache) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewCache constructs a cache over lookup.
func NewCache(lookup ForeignLookup, opts ...CacheOption) *Cache {
	c := &Cache{
		lookup:   lookup,
		logger:   logging.NoOp(),
		headings: make(map[string]HeadingMeta),
		records:  make(map[string][]ForeignRecord),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// Heading returns the heading metadata of slug, fetching the schema when it
// is not cached or force is set.
func (c *Cache) Heading(ctx context.Context, slug string, force bool) (HeadingMeta, error) {
	if !force {
		c.mu.RLock()
		meta, ok := c.headings[slug]
		c.mu.RUnlock()
		if ok {
			return meta, nil
		}
	}

	key := "heading:" + slug
	if force {
		c.group.Forget(key)
	}
	fetchCtx := shared(ctx)
	v, err, _ := c.group.Do(key, func() (any, error) {
		defs, err := c.lookup.GetSchema(fetchCtx, slug)
		if err != nil {
			return HeadingMeta{}, err
		}
		meta := HeadingOf(defs)
		c.mu.Lock()
		c.headings[slug] = meta
		c.mu.Unlock()
		return meta, nil
	})
	if err != nil {
		return HeadingMeta{}, err
	}
	return v.(HeadingMeta), nil
}

// Records returns the records of slug, fetching them when they are not
// cached or force is set.
func (c *Cache) Records(ctx context.Context, slug string, force bool) ([]ForeignRecord, error) {
	if !force {
		c.mu.RLock()
		list, ok := c.records[slug]
		c.mu.RUnlock()
		if ok {
			return cloneRecords(list), nil
		}
	}

	key := "records:" + slug
	if force {
		c.group.Forget(key)
	}
	fetchCtx := shared(ctx)
	v, err, _ := c.group.Do(key, func() (any, error) {
		list, err := c.lookup.ListRecords(fetchCtx, slug)
		if err != nil {
			return nil, err
		}
		list = cloneRecords(list)
		c.mu.Lock()
		c.records[slug] = list
		c.mu.Unlock()
		return list, nil
	})
	if err != nil {
		return nil, err
	}
	return cloneRecords(v.([]ForeignRecord)), nil
}

// shared returns the context a coalesced fetch runs under. It keeps the
// caller's values but not its cancellation, since other callers wait on the
// same fetch.
func shared(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return context.WithoutCancel(ctx)
}

// Invalidate drops everything cached for slug.
func (c *Cache) Invalidate(slug string) {
	c.mu.Lock()
	delete(c.headings, slug)
	delete(c.records, slug)
	c.mu.Unlock()
	c.group.Forget("heading:" + slug)
	c.group.Forget("records:" + slug)
}

// InvalidateAll empties the cache.
func (c *Cache) InvalidateAll() {
	c.mu.Lock()
	slugs := make([]string, 0, len(c.headings)+len(c.records))
	for slug := range c.headings {
		slugs = append(slugs, slug)
	}
	for slug := range c.records {
		slugs = append(slugs, slug)
	}
	c.headings = make(map[string]HeadingMeta)
	c.records = make(map[string][]ForeignRecord)
	c.mu.Unlock()
	for _, slug := range slugs {
		c.group.Forget("heading:" + slug)
		c.group.Forget("records:" + slug)
	}
}

func cloneRecords(list []ForeignRecord) []ForeignRecord {
	if list == nil {
		return []ForeignRecord{}
	}
	out := make([]ForeignRecord, len(list))
	copy(out, list)
	return out
}
