// Package navigation turns admin menu entries into the resource options
// offered by the related-entity picker.
package navigation

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/goliatone/go-slug"
	"golang.org/x/sync/singleflight"

	"github.com/goliatone/go-cms-console/internal/logging"
	"github.com/goliatone/go-cms-console/pkg/interfaces"
)

// MenuEntry is one item of the admin menu.
type MenuEntry struct {
	Label string
	// Resource is the resource slug the entry opens, when known.
	Resource string
	URL      string
	Hidden   bool
	Children []MenuEntry
}

// MenuSource lists the admin menu.
type MenuSource interface {
	ListMenuEntries(ctx context.Context) ([]MenuEntry, error)
}

// StaticSource serves a fixed menu.
type StaticSource []MenuEntry

func (s StaticSource) ListMenuEntries(context.Context) ([]MenuEntry, error) {
	return slices.Clone(s), nil
}

// ResourceOption is a resource the picker can point at.
type ResourceOption struct {
	Slug  string
	Label string
}

// ResourceOptions flattens entries depth first. The slug comes from Resource
// or, failing that, the last path segment of URL. Hidden entries and their
// children are skipped; the first entry for a slug wins.
func ResourceOptions(entries []MenuEntry) []ResourceOption {
	out := make([]ResourceOption, 0, len(entries))
	seen := make(map[string]struct{})
	var walk func([]MenuEntry)
	walk = func(list []MenuEntry) {
		for _, entry := range list {
			if entry.Hidden {
				continue
			}
			if s := entrySlug(entry); s != "" {
				if _, dup := seen[s]; !dup {
					seen[s] = struct{}{}
					label := strings.TrimSpace(entry.Label)
					if label == "" {
						label = s
					}
					out = append(out, ResourceOption{Slug: s, Label: label})
				}
			}
			walk(entry.Children)
		}
	}
	walk(entries)
	return out
}

func entrySlug(entry MenuEntry) string {
	raw := strings.TrimSpace(entry.Resource)
	if raw == "" {
		raw = strings.TrimSpace(entry.URL)
		if i := strings.IndexAny(raw, "?#"); i >= 0 {
			raw = raw[:i]
		}
		raw = strings.Trim(raw, "/")
		if i := strings.LastIndex(raw, "/"); i >= 0 {
			raw = raw[i+1:]
		}
	}
	if raw == "" {
		return ""
	}
	normalized, err := slug.Normalize(raw)
	if err != nil || normalized == "" {
		return strings.ToLower(raw)
	}
	return normalized
}

// Catalog caches the resource options for the life of the process.
type Catalog struct {
	source MenuSource
	logger interfaces.Logger
	group  singleflight.Group

	mu      sync.RWMutex
	loaded  bool
	options []ResourceOption
}

// CatalogOption configures a Catalog.
type CatalogOption func(*Catalog)

// WithLogger sets the catalog logger.
func WithLogger(logger interfaces.Logger) CatalogOption {
	return func(c *Catalog) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewCatalog constructs a catalog reading from source.
func NewCatalog(source MenuSource, opts ...CatalogOption) *Catalog {
	c := &Catalog{source: source, logger: logging.NoOp()}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

const catalogKey = "menu"

// Options returns the resource options, loading the menu on first use or
// when force is set. A failed load is logged and yields an empty list
// without caching the failure.
func (c *Catalog) Options(ctx context.Context, force bool) []ResourceOption {
	if !force {
		c.mu.RLock()
		loaded, options := c.loaded, c.options
		c.mu.RUnlock()
		if loaded {
			return slices.Clone(options)
		}
	} else {
		c.group.Forget(catalogKey)
	}

	v, err, _ := c.group.Do(catalogKey, func() (any, error) {
		if c.source == nil {
			return []ResourceOption{}, nil
		}
		entries, err := c.source.ListMenuEntries(ctx)
		if err != nil {
			return nil, err
		}
		options := ResourceOptions(entries)
		c.mu.Lock()
		c.loaded, c.options = true, options
		c.mu.Unlock()
		return options, nil
	})
	if err != nil {
		c.logger.Warn("navigation.menu.load_failed", "error", err)
		return []ResourceOption{}
	}
	return slices.Clone(v.([]ResourceOption))
}

// Label returns the label of the resource with slug s.
func (c *Catalog) Label(ctx context.Context, s string) (string, bool) {
	for _, opt := range c.Options(ctx, false) {
		if opt.Slug == s {
			return opt.Label, true
		}
	}
	return "", false
}

// Invalidate forgets the cached options.
func (c *Catalog) Invalidate() {
	c.mu.Lock()
	c.loaded, c.options = false, nil
	c.mu.Unlock()
	c.group.Forget(catalogKey)
}
