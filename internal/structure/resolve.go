package structure

import (
	"context"
	"encoding/json"
	"path"
	"slices"
	"sort"
	"strings"

	"github.com/goliatone/go-cms-console/internal/blocks"
)

var labelPreference = []string{"title", "name", "label", "heading", "headline", "caption", "subject"}

var imagePreference = []string{"image", "photo", "avatar", "logo", "cover", "thumbnail"}

var imageExtensions = []string{".png", ".jpg", ".jpeg", ".gif", ".webp", ".svg", ".avif", ".bmp"}

// LabelOf picks the display label of a foreign record: the heading key, its
// legacy key, "heading", the preference list, then the first non-empty
// string that does not look like an image.
func LabelOf(values map[string]any, heading HeadingMeta) string {
	candidates := make([]string, 0, len(labelPreference)+3)
	if heading.Found {
		candidates = append(candidates, heading.Key, heading.LegacyKey)
	}
	candidates = append(candidates, "heading")
	candidates = append(candidates, labelPreference...)
	for _, key := range candidates {
		if text := textValue(values[key]); text != "" {
			return text
		}
	}
	for _, key := range sortedKeys(values) {
		if raw, ok := values[key].(string); ok && blocks.IsEncodedJSON(raw) {
			continue
		}
		text := textValue(values[key])
		if text != "" && !LooksLikeImage(text) {
			return text
		}
	}
	return ""
}

// ImageOf picks the preview image of a foreign record.
func ImageOf(values map[string]any) string {
	for _, key := range imagePreference {
		if url := imageValue(values[key]); url != "" {
			return url
		}
	}
	for _, key := range sortedKeys(values) {
		if url := imageValue(values[key]); url != "" && LooksLikeImage(url) {
			return url
		}
	}
	return ""
}

// LooksLikeImage reports whether value is an image url by extension or by
// the upload path prefix.
func LooksLikeImage(value string) bool {
	value = strings.TrimSpace(strings.ToLower(value))
	if value == "" {
		return false
	}
	if strings.HasPrefix(value, "/uploads/") || strings.Contains(value, "/uploads/") {
		return true
	}
	if i := strings.IndexAny(value, "?#"); i >= 0 {
		value = value[:i]
	}
	return slices.Contains(imageExtensions, path.Ext(value))
}

// Options lists the picker options of slug. Fetch failures are logged and
// yield an empty list.
func (c *Cache) Options(ctx context.Context, slug string, force bool) []blocks.RelatedItem {
	heading, err := c.Heading(ctx, slug, force)
	if err != nil {
		c.logger.Warn("structure.foreign.schema_failed", "resource", slug, "error", err)
		heading = HeadingMeta{}
	}
	list, err := c.Records(ctx, slug, force)
	if err != nil {
		c.logger.Warn("structure.foreign.records_failed", "resource", slug, "error", err)
		return []blocks.RelatedItem{}
	}

	out := make([]blocks.RelatedItem, 0, len(list))
	for _, rec := range list {
		label := LabelOf(rec.Values, heading)
		if label == "" {
			label = rec.ID
		}
		out = append(out, blocks.RelatedItem{
			ID:    blocks.EntityID(rec.ID),
			Label: label,
			Image: ImageOf(rec.Values),
		})
	}
	return out
}

// Hydrate fills the display data of every selected id from the foreign
// records. Ids missing from the foreign resource keep what the payload
// already carries.
func (c *Cache) Hydrate(ctx context.Context, payload blocks.RelatedEntitiesPayload, force bool) blocks.RelatedEntitiesPayload {
	if payload.ResourceSlug == "" || len(payload.SelectedIDs) == 0 {
		return blocks.CleanSelection(payload)
	}
	options := c.Options(ctx, payload.ResourceSlug, force)
	byID := make(map[blocks.EntityID]blocks.RelatedItem, len(options))
	for _, opt := range options {
		byID[opt.ID] = opt
	}

	items := make([]blocks.RelatedItem, 0, len(payload.SelectedIDs))
	for _, id := range payload.SelectedIDs {
		if item, ok := byID[id]; ok {
			items = append(items, item)
			continue
		}
		if item, ok := payload.Item(id); ok {
			items = append(items, item)
			continue
		}
		items = append(items, blocks.RelatedItem{ID: id, Label: string(id)})
	}
	payload.SelectedItems = items
	return blocks.CleanSelection(payload)
}

func textValue(raw any) string {
	s, ok := raw.(string)
	if !ok {
		return ""
	}
	return blocks.StripTags(s)
}

// imageValue accepts a url string or a JSON list of urls, as gallery fields
// store them.
func imageValue(raw any) string {
	s, ok := raw.(string)
	if !ok {
		return ""
	}
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "[") {
		var list []string
		if err := json.Unmarshal([]byte(s), &list); err == nil {
			for _, item := range list {
				if item = strings.TrimSpace(item); item != "" {
					return item
				}
			}
		}
		return ""
	}
	return s
}

func sortedKeys(values map[string]any) []string {
	out := make([]string, 0, len(values))
	for key := range values {
		out = append(out, key)
	}
	sort.Strings(out)
	return out
}
