package media

import (
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-cms-console/internal/keys"
)

// ObjectName builds a collision free object name from an uploaded file
// name: "<uuid>-<slug><ext>". The extension is lowercased and kept.
func ObjectName(id uuid.UUID, filename string) string {
	base := path.Base(strings.ReplaceAll(filename, "\\", "/"))
	ext := strings.ToLower(path.Ext(base))
	stem := keys.Slug(strings.TrimSuffix(base, path.Ext(base)))
	if stem == "" {
		stem = "file"
	}
	return id.String() + "-" + stem + ext
}

// DatedKey prefixes name with prefix and a yyyy/mm/dd partition.
func DatedKey(prefix string, at time.Time, name string) string {
	parts := make([]string, 0, 3)
	if p := strings.Trim(prefix, "/"); p != "" {
		parts = append(parts, p)
	}
	parts = append(parts, at.UTC().Format("2006/01/02"), name)
	return strings.Join(parts, "/")
}

func joinURL(base, key string) string {
	base = strings.TrimRight(base, "/")
	if base == "" {
		return "/" + key
	}
	return base + "/" + key
}
