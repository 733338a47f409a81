package assets

import (
	"slices"
	"sync"
)

// File is a pending binary selected in the editor.
type File struct {
	Name        string
	ContentType string
	Size        int64
	Data        []byte
}

// Entry is everything pending for one block.
type Entry struct {
	// SingleFile replaces the url of image, video, audio and contact blocks.
	SingleFile *File
	// FileList is appended to gallery, carousel and partners lists.
	FileList []File
	// DocumentFile replaces the url of file blocks.
	DocumentFile *File
}

// IsEmpty reports whether nothing is pending.
func (e Entry) IsEmpty() bool {
	return e.SingleFile == nil && len(e.FileList) == 0 && e.DocumentFile == nil
}

// Count returns the number of pending files.
func (e Entry) Count() int {
	n := len(e.FileList)
	if e.SingleFile != nil {
		n++
	}
	if e.DocumentFile != nil {
		n++
	}
	return n
}

func (e Entry) clone() Entry {
	out := Entry{FileList: slices.Clone(e.FileList)}
	if e.SingleFile != nil {
		f := *e.SingleFile
		out.SingleFile = &f
	}
	if e.DocumentFile != nil {
		f := *e.DocumentFile
		out.DocumentFile = &f
	}
	return out
}

// Patch is merged shallowly over an existing entry. Nil fields keep the
// current value; a non-nil FileList replaces the list.
type Patch struct {
	SingleFile        *File
	FileList          []File
	DocumentFile      *File
	ClearSingleFile   bool
	ClearDocumentFile bool
}

// Tracker holds pending assets by block id. It is never persisted.
type Tracker struct {
	mu      sync.RWMutex
	entries map[string]Entry
}

// NewTracker constructs an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{entries: make(map[string]Entry)}
}

// Set merges patch into the entry for blockID. A nil patch clears the entry,
// as does a patch that leaves nothing pending.
func (t *Tracker) Set(blockID string, patch *Patch) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if patch == nil {
		delete(t.entries, blockID)
		return
	}

	entry := t.entries[blockID].clone()
	if patch.ClearSingleFile {
		entry.SingleFile = nil
	}
	if patch.ClearDocumentFile {
		entry.DocumentFile = nil
	}
	if patch.SingleFile != nil {
		f := *patch.SingleFile
		entry.SingleFile = &f
	}
	if patch.DocumentFile != nil {
		f := *patch.DocumentFile
		entry.DocumentFile = &f
	}
	if patch.FileList != nil {
		entry.FileList = slices.Clone(patch.FileList)
	}

	if entry.IsEmpty() {
		delete(t.entries, blockID)
		return
	}
	t.entries[blockID] = entry
}

// Append adds files to the pending list of blockID.
func (t *Tracker) Append(blockID string, files ...File) {
	if len(files) == 0 {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	entry := t.entries[blockID].clone()
	entry.FileList = append(entry.FileList, files...)
	t.entries[blockID] = entry
}

// Get returns a copy of the entry for blockID.
func (t *Tracker) Get(blockID string) (Entry, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	entry, ok := t.entries[blockID]
	if !ok {
		return Entry{}, false
	}
	return entry.clone(), true
}

// Has reports whether anything is pending for blockID.
func (t *Tracker) Has(blockID string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	_, ok := t.entries[blockID]
	return ok
}

// Clear drops the entry for blockID.
func (t *Tracker) Clear(blockID string) {
	t.Set(blockID, nil)
}

// ClearAll drops every entry.
func (t *Tracker) ClearAll() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries = make(map[string]Entry)
}

// Snapshot returns a deep copy of every entry.
func (t *Tracker) Snapshot() map[string]Entry {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make(map[string]Entry, len(t.entries))
	for id, entry := range t.entries {
		out[id] = entry.clone()
	}
	return out
}

// Len returns the number of blocks with pending assets.
func (t *Tracker) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.entries)
}
