package records_test

import (
	"context"
	"errors"
	"testing"
	"time"

	repocache "github.com/goliatone/go-repository-cache/cache"
	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-cms-console/internal/blocks"
	"github.com/goliatone/go-cms-console/internal/records"
	"github.com/goliatone/go-cms-console/pkg/testsupport"
)

func newBunDB(t *testing.T, name string) *bun.DB {
	t.Helper()
	db := testsupport.NewBunSQLite(t, name)
	if err := records.EnsureSchema(context.Background(), db); err != nil {
		t.Fatalf("ensure schema: %v", err)
	}
	return db
}

func TestBunRepositoriesRoundTrip(t *testing.T) {
	db := newBunDB(t, "records_round_trip")
	svc := records.NewService(
		records.NewBunRecordRepository(db),
		records.NewBunSchemaRepository(db),
	)
	ctx := context.Background()

	schema, err := svc.DefineSchema(ctx, records.DefineSchemaInput{
		Resource: "products",
		Definitions: []blocks.FieldDefinition{
			{Type: blocks.TypeHeading, Order: 0, Label: "Name"},
			{Type: blocks.TypeNumber, Order: 1, Label: "Price"},
			{Type: blocks.TypeBoolean, Order: 2, Label: "In stock"},
		},
	})
	if err != nil {
		t.Fatalf("define schema: %v", err)
	}
	if schema.Definitions[2].Key != "in_stock" {
		t.Fatalf("expected derived key in_stock got %q", schema.Definitions[2].Key)
	}

	loaded, err := svc.GetSchema(ctx, "products")
	if err != nil || len(loaded.Definitions) != 3 || loaded.Definitions[1].Key != "price" {
		t.Fatalf("expected stored schema got %+v (%v)", loaded, err)
	}

	rec, err := svc.PutRecord(ctx, records.PutRecordInput{
		Resource: "products",
		Values:   map[string]any{"name": "Lamp", "price": 12.5, "in_stock": false},
	})
	if err != nil {
		t.Fatalf("put record: %v", err)
	}

	got, err := svc.GetRecord(ctx, rec.ID)
	if err != nil {
		t.Fatalf("get record: %v", err)
	}
	if got.Values["name"] != "Lamp" || got.Values["price"] != 12.5 || got.Values["in_stock"] != false {
		t.Fatalf("unexpected values %v", got.Values)
	}

	published := true
	if _, err := svc.PutRecord(ctx, records.PutRecordInput{
		ID:          rec.ID,
		Resource:    "products",
		Values:      map[string]any{"price": nil},
		IsPublished: &published,
	}); err != nil {
		t.Fatalf("update record: %v", err)
	}
	list, err := svc.ListRecords(ctx, "products")
	if err != nil || len(list) != 1 {
		t.Fatalf("expected one record got %d (%v)", len(list), err)
	}
	if list[0].Values["price"] != nil || !list[0].IsPublished {
		t.Fatalf("expected updated record got %+v", list[0])
	}
}

func TestBunRecordRepositoryNotFound(t *testing.T) {
	db := newBunDB(t, "records_not_found")
	repo := records.NewBunRecordRepository(db)

	_, err := repo.GetByID(context.Background(), uuid.New())
	var nf *records.NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected *NotFoundError got %T: %v", err, err)
	}
}

func TestBunSchemaRepositoryWithCache(t *testing.T) {
	db := newBunDB(t, "records_cached")
	cfg := repocache.DefaultConfig()
	cfg.TTL = time.Minute
	cacheService, err := repocache.NewCacheService(cfg)
	if err != nil {
		t.Fatalf("cache service: %v", err)
	}
	repo := records.NewBunSchemaRepositoryWithCache(db, cacheService, repocache.NewDefaultKeySerializer())
	ctx := context.Background()

	now := time.Now().UTC()
	if _, err := repo.Create(ctx, &records.ResourceSchema{
		ID:          uuid.New(),
		Resource:    "Events",
		Definitions: []blocks.FieldDefinition{{Type: blocks.TypeDate, Order: 0, Label: "Starts", Key: "starts"}},
		CreatedAt:   now,
		UpdatedAt:   now,
	}); err != nil {
		t.Fatalf("create schema: %v", err)
	}

	for range 2 {
		schema, err := repo.GetByResource(ctx, "events")
		if err != nil || schema.Definitions[0].Key != "starts" {
			t.Fatalf("expected cached schema got %+v (%v)", schema, err)
		}
	}
}
