package identity

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	hashid "github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
)

// UUID hashes key into a stable UUID. Keys should carry a kind prefix so
// different entities never share one. A blank key yields uuid.Nil.
func UUID(key string) uuid.UUID {
	key = strings.TrimSpace(key)
	if key == "" {
		return uuid.Nil
	}
	id, err := hashid.NewUUID(key, hashid.WithHashAlgorithm(hashid.SHA256), hashid.WithNormalization(true))
	if err == nil && id != uuid.Nil {
		return id
	}
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(key))
}

// NewBlockID returns an opaque id made of a millisecond timestamp and a random suffix.
// The id is generated once per block and never changes across edits.
func NewBlockID(now time.Time) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return strconv.FormatInt(now.UnixMilli(), 36) + "-" + suffix
}

// FieldBlockID returns the synthetic id of the block bound to a schema field.
// The same definition always yields the same id, so binding twice is idempotent.
func FieldBlockID(key, contentType string, order int) string {
	return "field-" + UUID(fmt.Sprintf("console:field:%s:%s:%d", strings.TrimSpace(key), contentType, order)).String()
}

// SchemaUUID returns the row id used to persist a resource schema.
func SchemaUUID(resource string) uuid.UUID {
	return UUID("console:schema:" + strings.ToLower(strings.TrimSpace(resource)))
}
