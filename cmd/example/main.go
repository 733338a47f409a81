package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/google/uuid"

	console "github.com/goliatone/go-cms-console"
	"github.com/goliatone/go-cms-console/internal/assets"
	"github.com/goliatone/go-cms-console/internal/blocks"
	"github.com/goliatone/go-cms-console/internal/editor"
	"github.com/goliatone/go-cms-console/internal/records"
)

func main() {
	configPath := flag.String("config", "", "Optional YAML configuration file")
	flag.Parse()

	cfg := console.DefaultConfig()
	if *configPath != "" {
		loaded, err := console.LoadConfig(*configPath)
		if err != nil {
			log.Fatalf("load config: %v", err)
		}
		cfg = loaded
	}

	ctx := context.Background()
	menu := []console.MenuEntry{
		{Label: "Content", Children: []console.MenuEntry{
			{Label: "Projects", Resource: "projects"},
			{Label: "Team", URL: "/admin/team"},
		}},
	}
	module, err := console.New(ctx, cfg, console.WithMenuSource(staticMenu(menu)))
	if err != nil {
		log.Fatalf("new module: %v", err)
	}
	defer module.Close()

	if err := defineSchemas(ctx, module); err != nil {
		log.Fatalf("define schemas: %v", err)
	}

	member, err := module.Records().PutRecord(ctx, records.PutRecordInput{
		Resource: "team",
		Values:   map[string]any{"name": "Ada Lovelace", "photo": "/uploads/ada.png"},
	})
	if err != nil {
		log.Fatalf("seed team: %v", err)
	}

	session, err := module.OpenSession(ctx, "projects", uuid.Nil, editor.WithObserver(func(tr editor.Transition) {
		fmt.Printf("commit: %s -> %s\n", tr.From, tr.To)
	}))
	if err != nil {
		log.Fatalf("open session: %v", err)
	}

	fmt.Println("resources:")
	for _, option := range module.ResourceOptions(ctx, false) {
		fmt.Printf("  %s (%s)\n", option.Label, option.Slug)
	}

	list := session.Blocks()
	title, cover, crew := list[0], list[1], list[2]
	must(session.UpdatePayload(title.ID, blocks.HeadingPayload{Text: "Harbour Bridge"}))
	must(session.SetPendingAssets(cover.ID, &assets.Patch{SingleFile: &assets.File{
		Name:        "Bridge Cover.PNG",
		ContentType: "image/png",
		Size:        4,
		Data:        []byte{0x89, 'P', 'N', 'G'},
	}}))
	must(session.UpdatePayload(crew.ID, blocks.RelatedEntitiesPayload{
		ResourceSlug: "team",
		SelectedIDs:  []blocks.EntityID{blocks.EntityID(member.ID.String())},
	}))
	must(session.HydrateRelated(ctx, crew.ID, false))

	note, err := session.AddBlock(blocks.TypeText, "Site notes", len(session.AdditionalBlocks()))
	if err != nil {
		log.Fatalf("add block: %v", err)
	}
	must(session.UpdatePayload(note.ID, blocks.RichTextPayload{Content: "<p>Survey done.</p>"}))

	if err := module.Commit(ctx, session.ID()); err != nil {
		log.Fatalf("commit: %v", err)
	}

	saved, err := module.Records().GetRecord(ctx, session.RecordID())
	if err != nil {
		log.Fatalf("get record: %v", err)
	}
	out, err := json.MarshalIndent(saved, "", "  ")
	if err != nil {
		log.Fatalf("encode record: %v", err)
	}
	fmt.Println(string(out))
	module.CloseSession(session.ID())
}

func defineSchemas(ctx context.Context, module *console.Module) error {
	if _, err := module.DefineSchema(ctx, console.DefineSchemaInput{
		Resource: "team",
		Label:    "Team",
		Definitions: []console.FieldDefinition{
			{Type: blocks.TypeHeading, Order: 0, Label: "Name", Required: true},
			{Type: blocks.TypeImage, Order: 1, Label: "Photo"},
		},
	}); err != nil {
		return err
	}
	_, err := module.DefineSchema(ctx, console.DefineSchemaInput{
		Resource: "projects",
		Label:    "Projects",
		Definitions: []console.FieldDefinition{
			{Type: blocks.TypeHeading, Order: 0, Label: "Title", Required: true},
			{Type: blocks.TypeImage, Order: 1, Label: "Cover"},
			{Type: blocks.TypeRelatedEntities, Order: 2, Label: "Crew"},
		},
	})
	return err
}

type staticMenu []console.MenuEntry

func (s staticMenu) ListMenuEntries(context.Context) ([]console.MenuEntry, error) {
	return s, nil
}

func must(err error) {
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
