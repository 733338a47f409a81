package gologger

import (
	"context"
	"maps"
	"testing"

	glog "github.com/goliatone/go-logger/glog"

	"github.com/goliatone/go-cms-console/internal/logging"
	"github.com/goliatone/go-cms-console/pkg/interfaces"
)

type fakeGlog struct {
	levels   []string
	fields   []map[string]any
	contexts []context.Context
}

var (
	_ glog.Logger       = (*fakeGlog)(nil)
	_ glog.FieldsLogger = (*fakeGlog)(nil)
)

func (f *fakeGlog) Trace(string, ...any) { f.levels = append(f.levels, "trace") }
func (f *fakeGlog) Debug(string, ...any) { f.levels = append(f.levels, "debug") }
func (f *fakeGlog) Info(string, ...any)  { f.levels = append(f.levels, "info") }
func (f *fakeGlog) Warn(string, ...any)  { f.levels = append(f.levels, "warn") }
func (f *fakeGlog) Error(string, ...any) { f.levels = append(f.levels, "error") }
func (f *fakeGlog) Fatal(string, ...any) { f.levels = append(f.levels, "fatal") }

func (f *fakeGlog) WithContext(ctx context.Context) glog.Logger {
	f.contexts = append(f.contexts, ctx)
	return f
}

func (f *fakeGlog) WithFields(fields map[string]any) glog.Logger {
	f.fields = append(f.fields, fields)
	return f
}

func TestNewProviderFormats(t *testing.T) {
	cases := []struct {
		format  string
		wantErr bool
	}{
		{format: ""},
		{format: "JSON"},
		{format: "console"},
		{format: " pretty "},
		{format: "xml", wantErr: true},
	}
	for _, tc := range cases {
		p, err := NewProvider(Config{Format: tc.format, Level: "debug", Focus: []string{" ", "console.editor"}})
		if tc.wantErr {
			if err == nil {
				t.Fatalf("format %q: expected error", tc.format)
			}
			continue
		}
		if err != nil {
			t.Fatalf("format %q: unexpected error %v", tc.format, err)
		}
		if p.GetLogger("console.editor") == nil || p.GetLogger("") == nil {
			t.Fatalf("format %q: expected loggers", tc.format)
		}
	}
}

func TestNilProviderDiscards(t *testing.T) {
	var p *Provider
	p.GetLogger("console.records").Info("dropped")
}

func TestEntryLoggerForwardsLevels(t *testing.T) {
	fake := &fakeGlog{}
	logger := adapt(fake)

	logger.Trace("t")
	logger.Debug("d")
	logger.Info("i")
	logger.Warn("w")
	logger.Error("e")
	logger.Fatal("f")

	want := []string{"trace", "debug", "info", "warn", "error", "fatal"}
	if len(fake.levels) != len(want) {
		t.Fatalf("expected %d entries got %v", len(want), fake.levels)
	}
	for i, level := range want {
		if fake.levels[i] != level {
			t.Fatalf("entry %d: expected %s got %s", i, level, fake.levels[i])
		}
	}
}

func TestEntryLoggerCopiesFields(t *testing.T) {
	fake := &fakeGlog{}
	fields := map[string]any{"block_id": "b1"}

	adapt(fake).(interfaces.FieldsLogger).WithFields(fields)
	fields["block_id"] = "b2"

	if len(fake.fields) != 1 || fake.fields[0]["block_id"] != "b1" {
		t.Fatalf("expected copied fields got %v", fake.fields)
	}
	adapt(fake).(interfaces.FieldsLogger).WithFields(nil)
	if len(fake.fields) != 1 {
		t.Fatalf("expected empty fields to be skipped")
	}
}

func TestEntryLoggerWithContextAppliesFields(t *testing.T) {
	fake := &fakeGlog{}
	ctx := logging.ContextWithFields(context.Background(), map[string]any{"session_id": "s1"})

	adapt(fake).WithContext(ctx)

	if len(fake.contexts) != 1 || fake.contexts[0] != ctx {
		t.Fatalf("expected bound context got %v", fake.contexts)
	}
	if len(fake.fields) != 1 || !maps.Equal(fake.fields[0], map[string]any{"session_id": "s1"}) {
		t.Fatalf("expected context fields got %v", fake.fields)
	}
}
