package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/goliatone/go-cms-console/internal/blocks"
)

type keyRow struct {
	Order   int    `json:"order"`
	Type    string `json:"type"`
	Label   string `json:"label"`
	Key     string `json:"key"`
	Legacy  string `json:"legacy"`
	BlockID string `json:"block_id"`
}

func main() {
	var (
		fieldType = flag.String("type", string(blocks.TypeText), "Content type assigned to labels without a type: prefix")
		asJSON    = flag.Bool("json", false, "Print rows as JSON")
	)
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: keys [flags] [type:]label ...\n\nLabels are read from stdin, one per line, when none are given.\n\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	labels := flag.Args()
	if len(labels) == 0 {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			if line := strings.TrimSpace(scanner.Text()); line != "" {
				labels = append(labels, line)
			}
		}
		if err := scanner.Err(); err != nil {
			log.Fatalf("read labels: %v", err)
		}
	}
	if len(labels) == 0 {
		flag.Usage()
		os.Exit(2)
	}

	defs, err := definitions(labels, *fieldType)
	if err != nil {
		log.Fatalf("keys: %v", err)
	}

	fields := blocks.BindFields(defs)
	rows := make([]keyRow, len(fields))
	for i, field := range fields {
		rows[i] = keyRow{
			Order:   field.Definition.Order,
			Type:    string(field.Definition.Type),
			Label:   field.Definition.Label,
			Key:     field.Key,
			Legacy:  field.Definition.LegacyKey(),
			BlockID: field.BlockID,
		}
	}

	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(rows); err != nil {
			log.Fatalf("encode: %v", err)
		}
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ORDER\tTYPE\tLABEL\tKEY\tLEGACY")
	for _, row := range rows {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", row.Order, row.Type, row.Label, row.Key, row.Legacy)
	}
	if err := w.Flush(); err != nil {
		log.Fatalf("flush: %v", err)
	}
}

// definitions turns "type:label" arguments into definitions ordered as given.
func definitions(labels []string, fallbackType string) ([]blocks.FieldDefinition, error) {
	fallback, ok := blocks.ParseContentType(fallbackType)
	if !ok {
		return nil, fmt.Errorf("unknown content type %q", fallbackType)
	}
	defs := make([]blocks.FieldDefinition, 0, len(labels))
	for i, raw := range labels {
		typ, label := fallback, raw
		if prefix, rest, found := strings.Cut(raw, ":"); found {
			if parsed, ok := blocks.ParseContentType(prefix); ok {
				typ, label = parsed, rest
			}
		}
		defs = append(defs, blocks.FieldDefinition{Type: typ, Order: i, Label: strings.TrimSpace(label)})
	}
	return defs, nil
}
