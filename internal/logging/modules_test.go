package logging

import (
	"context"
	"maps"
	"testing"

	"github.com/goliatone/go-cms-console/pkg/interfaces"
)

type captureLogger struct {
	fields   []map[string]any
	contexts []context.Context
	entries  []string
}

func (c *captureLogger) Trace(msg string, _ ...any) { c.entries = append(c.entries, msg) }
func (c *captureLogger) Debug(msg string, _ ...any) { c.entries = append(c.entries, msg) }
func (c *captureLogger) Info(msg string, _ ...any)  { c.entries = append(c.entries, msg) }
func (c *captureLogger) Warn(msg string, _ ...any)  { c.entries = append(c.entries, msg) }
func (c *captureLogger) Error(msg string, _ ...any) { c.entries = append(c.entries, msg) }
func (c *captureLogger) Fatal(msg string, _ ...any) { c.entries = append(c.entries, msg) }

func (c *captureLogger) WithFields(fields map[string]any) interfaces.Logger {
	c.fields = append(c.fields, maps.Clone(fields))
	return c
}

func (c *captureLogger) WithContext(ctx context.Context) interfaces.Logger {
	c.contexts = append(c.contexts, ctx)
	return c
}

func TestModuleLoggerWithoutProviderDiscards(t *testing.T) {
	logger := EditorLogger(nil)
	if _, ok := logger.(discard); !ok {
		t.Fatalf("expected discard logger got %T", logger)
	}
	logger.WithContext(context.Background()).Info("dropped")
}

func TestModuleLoggerRequestsScopeAndTagsModule(t *testing.T) {
	capture := &captureLogger{}
	var requested []string
	provider := interfaces.LoggerProviderFunc(func(name string) interfaces.Logger {
		requested = append(requested, name)
		return capture
	})

	AssetsLogger(provider).Info("upload.start")

	if len(requested) != 1 || requested[0] != string(ModuleAssets) {
		t.Fatalf("expected scope %s got %v", ModuleAssets, requested)
	}
	if len(capture.fields) != 1 || capture.fields[0]["module"] != string(ModuleAssets) {
		t.Fatalf("expected module field got %v", capture.fields)
	}
	if len(capture.entries) != 1 || capture.entries[0] != "upload.start" {
		t.Fatalf("expected entry got %v", capture.entries)
	}
}

func TestModuleLoggerBlankNameUsesRoot(t *testing.T) {
	capture := &captureLogger{}
	provider := interfaces.LoggerProviderFunc(func(string) interfaces.Logger { return capture })

	ModuleLogger(provider, "")

	if capture.fields[0]["module"] != string(ModuleRoot) {
		t.Fatalf("expected root module got %v", capture.fields[0])
	}
}

func TestModuleLoggerNilFromProviderDiscards(t *testing.T) {
	provider := interfaces.LoggerProviderFunc(func(string) interfaces.Logger { return nil })
	if _, ok := RecordsLogger(provider).(discard); !ok {
		t.Fatalf("expected discard logger")
	}
}

func TestWithSessionDropsBlankCoordinates(t *testing.T) {
	capture := &captureLogger{}
	WithSession(capture, "sess-1", " ", "rec-9")

	if len(capture.fields) != 1 {
		t.Fatalf("expected one WithFields call got %d", len(capture.fields))
	}
	got := capture.fields[0]
	if got[fieldSession] != "sess-1" || got[fieldRecord] != "rec-9" {
		t.Fatalf("unexpected fields %v", got)
	}
	if _, ok := got[fieldResource]; ok {
		t.Fatalf("expected blank resource to be dropped")
	}
}

func TestWithBlockIgnoresBlankID(t *testing.T) {
	capture := &captureLogger{}
	if WithBlock(capture, "  "); len(capture.fields) != 0 {
		t.Fatalf("expected no fields for blank block id")
	}
	WithBlock(capture, "b1")
	if capture.fields[0][fieldBlock] != "b1" {
		t.Fatalf("expected block field got %v", capture.fields)
	}
}

func TestFromContextMergesContextFields(t *testing.T) {
	capture := &captureLogger{}
	ctx := ContextWithFields(context.Background(), map[string]any{"session_id": "s1"})
	ctx = ContextWithFields(ctx, map[string]any{"phase": "upload"})

	FromContext(ctx, capture)

	if len(capture.contexts) != 1 {
		t.Fatalf("expected bound context got %d", len(capture.contexts))
	}
	if len(capture.fields) != 1 || capture.fields[0]["session_id"] != "s1" || capture.fields[0]["phase"] != "upload" {
		t.Fatalf("expected merged fields got %v", capture.fields)
	}
}

func TestContextFieldsAreCopied(t *testing.T) {
	ctx := ContextWithFields(context.Background(), map[string]any{"a": 1})
	fields := ContextFields(ctx)
	fields["a"] = 2
	if ContextFields(ctx)["a"] != 1 {
		t.Fatalf("expected stored fields unchanged")
	}
}
