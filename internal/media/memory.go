package media

import (
	"context"
	"errors"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/goliatone/go-cms-console/pkg/interfaces"
)

var (
	ErrEmptyFile    = errors.New("media: file has no content")
	ErrFileTooLarge = errors.New("media: file exceeds size limit")
)

// StoredObject is an object kept by MemoryStore.
type StoredObject struct {
	Key         string
	Name        string
	ContentType string
	Data        []byte
}

// MemoryStore keeps uploads in memory and serves them under BaseURL/uploads.
type MemoryStore struct {
	mu      sync.RWMutex
	baseURL string
	maxSize int64
	newID   func() uuid.UUID
	objects map[string]StoredObject
	order   []string
}

// MemoryOption configures a MemoryStore.
type MemoryOption func(*MemoryStore)

// WithMaxSize rejects files larger than n bytes. Zero disables the limit.
func WithMaxSize(n int64) MemoryOption {
	return func(s *MemoryStore) {
		if n >= 0 {
			s.maxSize = n
		}
	}
}

// WithIDSource overrides the uuid generator used for object names.
func WithIDSource(fn func() uuid.UUID) MemoryOption {
	return func(s *MemoryStore) {
		if fn != nil {
			s.newID = fn
		}
	}
}

// NewMemoryStore constructs an empty in-memory media store.
func NewMemoryStore(baseURL string, opts ...MemoryOption) *MemoryStore {
	s := &MemoryStore{
		baseURL: baseURL,
		newID:   uuid.New,
		objects: make(map[string]StoredObject),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

var _ interfaces.MediaStore = (*MemoryStore)(nil)

func (s *MemoryStore) Upload(ctx context.Context, file interfaces.UploadFile) (*interfaces.UploadResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(file.Data) == 0 {
		return nil, ErrEmptyFile
	}
	if s.maxSize > 0 && int64(len(file.Data)) > s.maxSize {
		return nil, ErrFileTooLarge
	}

	key := "uploads/" + ObjectName(s.newID(), file.Name)
	s.mu.Lock()
	s.objects[key] = StoredObject{
		Key:         key,
		Name:        file.Name,
		ContentType: file.ContentType,
		Data:        slices.Clone(file.Data),
	}
	s.order = append(s.order, key)
	s.mu.Unlock()

	return &interfaces.UploadResult{URL: joinURL(s.baseURL, key), Key: key}, nil
}

// Object returns a copy of the object stored under key.
func (s *MemoryStore) Object(key string) (StoredObject, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	obj, ok := s.objects[key]
	if !ok {
		return StoredObject{}, false
	}
	obj.Data = slices.Clone(obj.Data)
	return obj, true
}

// Keys lists stored object keys in upload order.
func (s *MemoryStore) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.order)
}
