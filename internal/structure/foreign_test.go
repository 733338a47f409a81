package structure_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/goliatone/go-cms-console/internal/blocks"
	"github.com/goliatone/go-cms-console/internal/records"
	"github.com/goliatone/go-cms-console/internal/structure"
)

type fakeLookup struct {
	schemaCalls  atomic.Int32
	recordsCalls atomic.Int32
	release      chan struct{}
	defs         []blocks.FieldDefinition
	records      []structure.ForeignRecord
	err          error
}

func (f *fakeLookup) GetSchema(_ context.Context, _ string) ([]blocks.FieldDefinition, error) {
	f.schemaCalls.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	return f.defs, nil
}

func (f *fakeLookup) ListRecords(_ context.Context, _ string) ([]structure.ForeignRecord, error) {
	f.recordsCalls.Add(1)
	if f.release != nil {
		<-f.release
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.records, nil
}

func newsLookup() *fakeLookup {
	return &fakeLookup{
		defs: []blocks.FieldDefinition{
			{Type: blocks.TypeImage, Order: 0, Label: "Cover"},
			{Type: blocks.TypeHeading, Order: 1, Label: "Заголовок"},
		},
		records: []structure.ForeignRecord{
			{ID: "1", Values: map[string]any{"zagolovok": "<b>First</b>", "cover": "/uploads/1.png"}},
			{ID: "2", Values: map[string]any{"heading-1": "Second"}},
			{ID: "3", Values: map[string]any{"photo_url": "https://cdn.example.com/a.JPG?w=1", "summary": "Third"}},
		},
	}
}

func TestHeadingOfUsesFirstHeading(t *testing.T) {
	meta := structure.HeadingOf(newsLookup().defs)
	if !meta.Found || meta.Key != "zagolovok" || meta.LegacyKey != "heading-1" {
		t.Fatalf("unexpected heading meta %+v", meta)
	}
	if structure.HeadingOf(nil).Found {
		t.Fatalf("expected no heading for empty schema")
	}
}

func TestOptionsResolveLabelsAndImages(t *testing.T) {
	cache := structure.NewCache(newsLookup())
	options := cache.Options(context.Background(), "news", false)
	if len(options) != 3 {
		t.Fatalf("expected 3 options got %d", len(options))
	}
	want := []blocks.RelatedItem{
		{ID: "1", Label: "First", Image: "/uploads/1.png"},
		{ID: "2", Label: "Second"},
		{ID: "3", Label: "Third", Image: "https://cdn.example.com/a.JPG?w=1"},
	}
	for i, w := range want {
		if options[i] != w {
			t.Fatalf("option %d: expected %+v got %+v", i, w, options[i])
		}
	}
}

func TestLabelPreferenceOrder(t *testing.T) {
	values := map[string]any{"name": "By name", "heading": "By heading", "avatar": "/img/a.png"}
	if got := structure.LabelOf(values, structure.HeadingMeta{}); got != "By heading" {
		t.Fatalf("expected bare heading first got %q", got)
	}
	delete(values, "heading")
	if got := structure.LabelOf(values, structure.HeadingMeta{}); got != "By name" {
		t.Fatalf("expected preference list got %q", got)
	}
	if got := structure.LabelOf(map[string]any{"a": "/x/logo.svg", "b": 5.0}, structure.HeadingMeta{}); got != "" {
		t.Fatalf("expected image-looking strings skipped got %q", got)
	}
	if got := structure.ImageOf(map[string]any{"gallery": `["/uploads/g.png"]`}); got != "/uploads/g.png" {
		t.Fatalf("expected first gallery image got %q", got)
	}
}

func TestCacheCoalescesConcurrentLoads(t *testing.T) {
	lookup := newsLookup()
	lookup.release = make(chan struct{})
	cache := structure.NewCache(lookup)

	var wg sync.WaitGroup
	for range 5 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := cache.Records(context.Background(), "news", false); err != nil {
				t.Errorf("records: %v", err)
			}
		}()
	}
	deadline := time.Now().Add(2 * time.Second)
	for lookup.recordsCalls.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	time.Sleep(20 * time.Millisecond)
	close(lookup.release)
	wg.Wait()

	if got := lookup.recordsCalls.Load(); got != 1 {
		t.Fatalf("expected one fetch got %d", got)
	}
	if _, err := cache.Records(context.Background(), "news", false); err != nil {
		t.Fatalf("records: %v", err)
	}
	if got := lookup.recordsCalls.Load(); got != 1 {
		t.Fatalf("expected cached read got %d fetches", got)
	}
}

func TestCacheForceAndInvalidate(t *testing.T) {
	lookup := newsLookup()
	cache := structure.NewCache(lookup)
	ctx := context.Background()

	cache.Options(ctx, "news", false)
	cache.Options(ctx, "news", false)
	if lookup.schemaCalls.Load() != 1 || lookup.recordsCalls.Load() != 1 {
		t.Fatalf("expected single fetch before force")
	}

	cache.Options(ctx, "news", true)
	if lookup.schemaCalls.Load() != 2 || lookup.recordsCalls.Load() != 2 {
		t.Fatalf("expected force to refetch got %d/%d", lookup.schemaCalls.Load(), lookup.recordsCalls.Load())
	}

	cache.Invalidate("news")
	cache.Options(ctx, "news", false)
	if lookup.recordsCalls.Load() != 3 {
		t.Fatalf("expected invalidate to refetch")
	}

	cache.InvalidateAll()
	cache.Options(ctx, "news", false)
	if lookup.recordsCalls.Load() != 4 {
		t.Fatalf("expected invalidate all to refetch")
	}
}

func TestOptionsDegradeOnFailure(t *testing.T) {
	lookup := &fakeLookup{err: errors.New("offline")}
	logger := &recordingLogger{}
	cache := structure.NewCache(lookup, structure.WithCacheLogger(logger))

	options := cache.Options(context.Background(), "news", false)
	if options == nil || len(options) != 0 {
		t.Fatalf("expected empty option list got %v", options)
	}
	if logger.warnings == 0 {
		t.Fatalf("expected a warning to be logged")
	}
}

func TestHydrateFillsSelectedItems(t *testing.T) {
	cache := structure.NewCache(newsLookup())
	payload := blocks.RelatedEntitiesPayload{
		ResourceSlug: "news",
		SelectedIDs:  []blocks.EntityID{"2", "9", "2"},
		SelectedItems: []blocks.RelatedItem{
			{ID: "9", Label: "Archived"},
		},
	}
	got := cache.Hydrate(context.Background(), payload, false)
	if len(got.SelectedIDs) != 2 || len(got.SelectedItems) != 2 {
		t.Fatalf("expected deduplicated selection got %+v", got)
	}
	if got.SelectedItems[0].Label != "Second" || got.SelectedItems[1].Label != "Archived" {
		t.Fatalf("unexpected items %+v", got.SelectedItems)
	}
}

func TestRecordsLookupAdaptsService(t *testing.T) {
	svc := records.NewService(records.NewMemoryRecordRepository(), records.NewMemorySchemaRepository())
	ctx := context.Background()
	if _, err := svc.DefineSchema(ctx, records.DefineSchemaInput{
		Resource:    "team",
		Definitions: []blocks.FieldDefinition{{Type: blocks.TypeHeading, Order: 0, Label: "Name"}},
	}); err != nil {
		t.Fatalf("define: %v", err)
	}
	rec, err := svc.PutRecord(ctx, records.PutRecordInput{Resource: "team", Values: map[string]any{"name": "Ada"}})
	if err != nil {
		t.Fatalf("put: %v", err)
	}

	cache := structure.NewCache(structure.RecordsLookup(svc))
	options := cache.Options(ctx, "team", false)
	if len(options) != 1 || options[0].Label != "Ada" || string(options[0].ID) != rec.ID.String() {
		t.Fatalf("unexpected options %+v", options)
	}
}

type contextAwareLookup struct {
	*fakeLookup
}

func (l *contextAwareLookup) ListRecords(ctx context.Context, slug string) ([]structure.ForeignRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return l.fakeLookup.ListRecords(ctx, slug)
}

func TestRecordsFetchIgnoresCallerCancellation(t *testing.T) {
	lookup := &contextAwareLookup{fakeLookup: newsLookup()}
	cache := structure.NewCache(lookup)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	list, err := cache.Records(ctx, "news", false)
	if err != nil {
		t.Fatalf("expected shared fetch to ignore cancellation got %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("expected 3 records got %d", len(list))
	}
}

func TestLabelOfSkipsEncodedStructuredValues(t *testing.T) {
	values := map[string]any{
		"contact": `{"values":["+1 555 0100"]}`,
		"chips":   `["a","b"]`,
		"summary": "Plain",
	}
	if got := structure.LabelOf(values, structure.HeadingMeta{}); got != "Plain" {
		t.Fatalf("expected plain text label got %q", got)
	}
}
