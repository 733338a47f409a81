package console_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"

	goerrors "github.com/goliatone/go-errors"

	console "github.com/goliatone/go-cms-console"
	"github.com/goliatone/go-cms-console/internal/assets"
	"github.com/goliatone/go-cms-console/internal/blocks"
	"github.com/goliatone/go-cms-console/internal/commands/commitcmd"
	"github.com/goliatone/go-cms-console/internal/editor"
	"github.com/goliatone/go-cms-console/internal/records"
)

func newModule(t *testing.T, opts ...console.Option) *console.Module {
	t.Helper()
	module, err := console.New(context.Background(), console.DefaultConfig(), opts...)
	if err != nil {
		t.Fatalf("new module: %v", err)
	}
	t.Cleanup(func() { _ = module.Close() })

	ctx := context.Background()
	if _, err := module.DefineSchema(ctx, console.DefineSchemaInput{
		Resource:    "authors",
		Definitions: []console.FieldDefinition{{Type: blocks.TypeHeading, Order: 0, Label: "Name"}},
	}); err != nil {
		t.Fatalf("define authors: %v", err)
	}
	if _, err := module.DefineSchema(ctx, console.DefineSchemaInput{
		Resource: "posts",
		Definitions: []console.FieldDefinition{
			{Type: blocks.TypeHeading, Order: 0, Label: "Title", Required: true},
			{Type: blocks.TypeImage, Order: 1, Label: "Cover"},
		},
	}); err != nil {
		t.Fatalf("define posts: %v", err)
	}
	return module
}

func TestModuleEditsAndCommitsRecords(t *testing.T) {
	module := newModule(t)
	ctx := context.Background()

	session, err := module.OpenSession(ctx, "posts", uuid.Nil)
	if err != nil {
		t.Fatalf("open session: %v", err)
	}
	if got, ok := module.Session(session.ID()); !ok || got != session {
		t.Fatalf("expected session to be registered")
	}

	list := session.Blocks()
	if err := session.UpdatePayload(list[0].ID, blocks.HeadingPayload{Text: "Hello"}); err != nil {
		t.Fatalf("update: %v", err)
	}
	if err := session.SetPendingAssets(list[1].ID, &assets.Patch{SingleFile: &assets.File{
		Name: "cover.png", ContentType: "image/png", Size: 3, Data: []byte("png"),
	}}); err != nil {
		t.Fatalf("pending: %v", err)
	}

	if err := module.Commit(ctx, session.ID()); err != nil {
		t.Fatalf("commit: %v", err)
	}
	if session.State() != editor.StateCommitted {
		t.Fatalf("expected committed session got %s", session.State())
	}

	stored, err := module.Records().GetRecord(ctx, session.RecordID())
	if err != nil {
		t.Fatalf("get record: %v", err)
	}
	if stored.Values["title"] != "Hello" {
		t.Fatalf("expected stored title got %v", stored.Values["title"])
	}
	if cover, _ := stored.Values["cover"].(string); !strings.HasSuffix(cover, "cover.png") {
		t.Fatalf("expected uploaded cover url got %v", stored.Values["cover"])
	}

	reopened, err := module.OpenSession(ctx, "posts", stored.ID)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	heading, ok := reopened.Blocks()[0].Data.(blocks.HeadingPayload)
	if !ok || heading.Text != "Hello" {
		t.Fatalf("expected bound heading got %+v", reopened.Blocks()[0].Data)
	}

	module.CloseSession(session.ID())
	if _, ok := module.Session(session.ID()); ok {
		t.Fatalf("expected closed session to be forgotten")
	}
}

func TestModuleClearedFieldStaysClearedOverLegacyValue(t *testing.T) {
	module := newModule(t)
	ctx := context.Background()

	stored, err := module.Records().PutRecord(ctx, records.PutRecordInput{
		Resource: "posts",
		Values:   map[string]any{"title": "Hi", "cover": "/uploads/new.png", "image-1": "/uploads/old.png"},
	})
	if err != nil {
		t.Fatalf("put record: %v", err)
	}

	session, err := module.OpenSession(ctx, "posts", stored.ID)
	if err != nil {
		t.Fatalf("open session: %v", err)
	}
	cover := session.Blocks()[1]
	if got := cover.Data.(blocks.ImagePayload).URL; got != "/uploads/new.png" {
		t.Fatalf("expected derived cover got %q", got)
	}
	if err := session.UpdatePayload(cover.ID, blocks.ImagePayload{}); err != nil {
		t.Fatalf("clear cover: %v", err)
	}
	if err := module.Commit(ctx, session.ID()); err != nil {
		t.Fatalf("commit: %v", err)
	}

	reopened, err := module.OpenSession(ctx, "posts", stored.ID)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if got := reopened.Blocks()[1].Data.(blocks.ImagePayload).URL; got != "" {
		t.Fatalf("expected cleared cover to stay cleared got %q", got)
	}
}

func TestModuleCommitReportsCategories(t *testing.T) {
	module := newModule(t)
	ctx := context.Background()

	err := module.Commit(ctx, "missing")
	if !errors.Is(err, console.ErrSessionNotFound) && !goerrors.IsCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected unknown session failure got %v", err)
	}

	session, err := module.OpenSession(ctx, "posts", uuid.Nil)
	if err != nil {
		t.Fatalf("open session: %v", err)
	}
	err = module.Commit(ctx, session.ID())
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation category for empty title got %v", err)
	}
	if session.State() != editor.StateEditing {
		t.Fatalf("expected session back in editing got %s", session.State())
	}
}

func TestModuleOpenSessionRequiresSchema(t *testing.T) {
	module := newModule(t)
	if _, err := module.OpenSession(context.Background(), "unknown", uuid.Nil); !errors.Is(err, records.ErrSchemaNotFound) {
		t.Fatalf("expected ErrSchemaNotFound got %v", err)
	}
}

func TestModuleRelatedOptionsReadForeignRecords(t *testing.T) {
	module := newModule(t)
	ctx := context.Background()
	if _, err := module.Records().PutRecord(ctx, records.PutRecordInput{
		Resource: "authors",
		Values:   map[string]any{"name": "<b>Ann</b>"},
	}); err != nil {
		t.Fatalf("put author: %v", err)
	}

	session, err := module.OpenSession(ctx, "posts", uuid.Nil)
	if err != nil {
		t.Fatalf("open session: %v", err)
	}
	options := session.RelatedOptions(ctx, "authors", false)
	if len(options) != 1 || options[0].Label != "Ann" {
		t.Fatalf("expected author option got %+v", options)
	}
}

func TestModuleResourceOptionsFromMenu(t *testing.T) {
	menu := []console.MenuEntry{
		{Label: "Content", Children: []console.MenuEntry{
			{Label: "Posts", URL: "/admin/posts"},
			{Label: "Authors", Resource: "authors"},
		}},
	}
	module := newModule(t, console.WithMenuSource(staticMenu(menu)))

	options := module.ResourceOptions(context.Background(), false)
	if len(options) != 2 || options[0].Slug != "posts" || options[1].Slug != "authors" {
		t.Fatalf("unexpected resource options %+v", options)
	}
}

type staticMenu []console.MenuEntry

func (s staticMenu) ListMenuEntries(context.Context) ([]console.MenuEntry, error) {
	return s, nil
}

type recordingRegistry struct {
	handlers []any
}

func (r *recordingRegistry) RegisterCommand(handler any) error {
	r.handlers = append(r.handlers, handler)
	return nil
}

type failingDispatcher struct{}

func (failingDispatcher) RegisterCommand(any) (console.CommandSubscription, error) {
	return nil, errors.New("dispatcher offline")
}

func TestRegisterCommandsReportsEveryFailure(t *testing.T) {
	module := newModule(t)
	registry := &recordingRegistry{}

	result, err := module.RegisterCommands(console.RegistrationOptions{
		Registry:   registry,
		Dispatcher: failingDispatcher{},
	})
	if err == nil || !strings.Contains(err.Error(), "dispatcher offline") {
		t.Fatalf("expected dispatcher failure got %v", err)
	}
	if len(result.Handlers) != 1 || len(registry.handlers) != 1 {
		t.Fatalf("expected commit handler registered got %d/%d", len(result.Handlers), len(registry.handlers))
	}
	if _, ok := registry.handlers[0].(*commitcmd.CommitSessionHandler); !ok {
		t.Fatalf("expected commit handler got %T", registry.handlers[0])
	}
	if len(result.Subscriptions) != 0 {
		t.Fatalf("expected no subscriptions on failure")
	}
}

func TestGlobalDispatcherRejectsUnknownHandlers(t *testing.T) {
	if _, err := (console.GlobalDispatcher{}).RegisterCommand(struct{}{}); !errors.Is(err, console.ErrUnsupportedHandler) {
		t.Fatalf("expected ErrUnsupportedHandler got %v", err)
	}
}
