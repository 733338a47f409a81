package di_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/goliatone/go-cms-console/internal/blocks"
	"github.com/goliatone/go-cms-console/internal/di"
	"github.com/goliatone/go-cms-console/internal/media"
	"github.com/goliatone/go-cms-console/internal/navigation"
	"github.com/goliatone/go-cms-console/internal/records"
	"github.com/goliatone/go-cms-console/internal/runtimeconfig"
	"github.com/goliatone/go-cms-console/pkg/testsupport"
)

func TestNewContainerDefaultsToMemory(t *testing.T) {
	container, err := di.NewContainer(context.Background(), runtimeconfig.DefaultConfig())
	if err != nil {
		t.Fatalf("NewContainer returned error: %v", err)
	}
	if container.BunDB() != nil {
		t.Fatalf("expected no database for memory storage")
	}
	if _, ok := container.MediaStore().(*media.MemoryStore); !ok {
		t.Fatalf("expected memory media store got %T", container.MediaStore())
	}
	if container.LoggerProvider() != nil {
		t.Fatalf("expected noop logging to leave provider nil")
	}
	if container.Engine() == nil || container.Resolver() == nil || container.ForeignCache() == nil || container.Navigation() == nil {
		t.Fatalf("expected editing services to be wired")
	}
	if err := container.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}

func TestNewContainerRejectsInvalidConfig(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Storage.Provider = "postgres"
	if _, err := di.NewContainer(context.Background(), cfg); !errors.Is(err, runtimeconfig.ErrStorageDSNRequired) {
		t.Fatalf("expected ErrStorageDSNRequired got %v", err)
	}
}

func TestNewContainerWiresCachedSQLite(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Storage = runtimeconfig.StorageConfig{
		Provider: runtimeconfig.StorageSQLite,
		DSN:      testsupport.SQLiteMemoryDSN("di_container_sqlite"),
	}
	cfg.Cache = runtimeconfig.CacheConfig{Enabled: true, TTL: time.Minute}

	container, err := di.NewContainer(context.Background(), cfg)
	if err != nil {
		t.Fatalf("NewContainer returned error: %v", err)
	}
	t.Cleanup(func() { _ = container.Close() })

	if container.BunDB() == nil {
		t.Fatalf("expected sqlite database")
	}

	ctx := context.Background()
	svc := container.RecordService()
	if _, err := svc.DefineSchema(ctx, records.DefineSchemaInput{
		Resource:    "news",
		Definitions: []blocks.FieldDefinition{{Type: blocks.TypeHeading, Order: 0, Label: "Title"}},
	}); err != nil {
		t.Fatalf("define schema: %v", err)
	}
	rec, err := svc.PutRecord(ctx, records.PutRecordInput{Resource: "news", Values: map[string]any{"title": "Hello"}})
	if err != nil {
		t.Fatalf("put record: %v", err)
	}
	got, err := svc.GetRecord(ctx, rec.ID)
	if err != nil {
		t.Fatalf("get record: %v", err)
	}
	if got.Values["title"] != "Hello" {
		t.Fatalf("expected stored title got %v", got.Values["title"])
	}
}

func TestNewContainerHonoursOverrides(t *testing.T) {
	store := media.NewMemoryStore("https://cdn.test")
	menu := navigation.StaticSource{{Label: "News", Resource: "news"}}

	cfg := runtimeconfig.DefaultConfig()
	cfg.Logging = runtimeconfig.LoggingConfig{Provider: "gologger", Level: "debug", Format: "console"}

	container, err := di.NewContainer(context.Background(), cfg, di.WithMediaStore(store), di.WithMenuSource(menu))
	if err != nil {
		t.Fatalf("NewContainer returned error: %v", err)
	}
	if container.MediaStore() != store {
		t.Fatalf("expected media override to be used")
	}
	if container.LoggerProvider() == nil {
		t.Fatalf("expected gologger provider")
	}
	options := container.Navigation().Options(context.Background(), false)
	if len(options) != 1 || options[0].Slug != "news" {
		t.Fatalf("expected menu options from override got %+v", options)
	}
}
