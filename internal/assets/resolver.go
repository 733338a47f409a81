package assets

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/goliatone/go-cms-console/internal/blocks"
	"github.com/goliatone/go-cms-console/internal/logging"
	"github.com/goliatone/go-cms-console/pkg/interfaces"
)

var (
	ErrUploadFailed  = errors.New("assets: upload failed")
	ErrStoreRequired = errors.New("assets: media store is required to upload pending files")
)

// DefaultConcurrency bounds how many entries upload at the same time.
const DefaultConcurrency = 4

// UploadError reports the file that could not be stored.
type UploadError struct {
	BlockID  string
	FileName string
	Err      error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("assets: upload %q for block %s: %v", e.FileName, e.BlockID, e.Err)
}

func (e *UploadError) Unwrap() []error {
	return []error{ErrUploadFailed, e.Err}
}

// Resolver uploads tracked assets and splices the references into payloads.
type Resolver struct {
	store       interfaces.MediaStore
	concurrency int
	logger      interfaces.Logger
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithConcurrency bounds the number of entries uploaded concurrently. Values
// below one fall back to DefaultConcurrency.
func WithConcurrency(n int) ResolverOption {
	return func(r *Resolver) {
		if n > 0 {
			r.concurrency = n
		}
	}
}

// WithLogger sets the resolver logger.
func WithLogger(logger interfaces.Logger) ResolverOption {
	return func(r *Resolver) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewResolver constructs a resolver backed by store.
func NewResolver(store interfaces.MediaStore, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		store:       store,
		concurrency: DefaultConcurrency,
		logger:      logging.NoOp(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

// Resolve uploads every entry tracked for a block in list. Files of one entry
// upload one at a time; independent entries upload concurrently. The spliced
// payloads, keyed by block id, are returned only when every upload succeeded.
// Entries whose block no longer exists are skipped.
func (r *Resolver) Resolve(ctx context.Context, list []blocks.Block, tracker *Tracker) (map[string]blocks.Payload, error) {
	if tracker == nil || tracker.Len() == 0 {
		return map[string]blocks.Payload{}, nil
	}
	if r.store == nil {
		return nil, ErrStoreRequired
	}

	byID := make(map[string]blocks.Block, len(list))
	for _, block := range list {
		byID[block.ID] = block
	}

	snapshot := tracker.Snapshot()
	ids := make([]string, 0, len(snapshot))
	for id := range snapshot {
		if _, ok := byID[id]; !ok {
			logging.WithBlock(r.logger, id).Warn("assets.upload.orphan")
			continue
		}
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var (
		mu       sync.Mutex
		uploaded = make(map[string]Uploaded, len(ids))
	)
	group, gctx := errgroup.WithContext(ctx)
	group.SetLimit(r.concurrency)
	for _, id := range ids {
		entry := snapshot[id]
		group.Go(func() error {
			up, err := r.uploadEntry(gctx, id, entry)
			if err != nil {
				return err
			}
			mu.Lock()
			uploaded[id] = up
			mu.Unlock()
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		r.logger.Error("assets.upload.failed", "error", err)
		return nil, err
	}

	out := make(map[string]blocks.Payload, len(uploaded))
	for id, up := range uploaded {
		block := byID[id]
		payload, ok := Splice(block.Data, up)
		if !ok {
			logging.WithBlock(r.logger, id).Warn("assets.splice.unsupported", "type", block.Type)
			continue
		}
		out[id] = payload
	}
	r.logger.Debug("assets.upload.completed", "blocks", len(out))
	return out, nil
}

func (r *Resolver) uploadEntry(ctx context.Context, blockID string, entry Entry) (Uploaded, error) {
	var up Uploaded
	if entry.DocumentFile != nil {
		url, err := r.upload(ctx, blockID, *entry.DocumentFile)
		if err != nil {
			return Uploaded{}, err
		}
		up.Document, up.DocumentName = url, entry.DocumentFile.Name
	}
	if entry.SingleFile != nil {
		url, err := r.upload(ctx, blockID, *entry.SingleFile)
		if err != nil {
			return Uploaded{}, err
		}
		up.Single, up.SingleName = url, entry.SingleFile.Name
	}
	for _, file := range entry.FileList {
		url, err := r.upload(ctx, blockID, file)
		if err != nil {
			return Uploaded{}, err
		}
		up.List = append(up.List, url)
	}
	return up, nil
}

func (r *Resolver) upload(ctx context.Context, blockID string, file File) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", &UploadError{BlockID: blockID, FileName: file.Name, Err: err}
	}
	result, err := r.store.Upload(ctx, interfaces.UploadFile{
		Name:        file.Name,
		ContentType: file.ContentType,
		Size:        file.Size,
		Data:        file.Data,
	})
	if err != nil {
		return "", &UploadError{BlockID: blockID, FileName: file.Name, Err: err}
	}
	if result == nil || result.URL == "" {
		return "", &UploadError{BlockID: blockID, FileName: file.Name, Err: errors.New("media store returned no url")}
	}
	return result.URL, nil
}
