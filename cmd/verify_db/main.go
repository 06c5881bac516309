package main

import (
	"context"
	"log"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/david/proposal-vault/internal/config"
	"github.com/david/proposal-vault/internal/db"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx := context.Background()
	store, err := db.Open(ctx, cfg.StoreOptions())
	if err != nil {
		log.Fatalf("Unable to open %s store: %v", cfg.StoreDriver, err)
	}
	defer store.Close()

	owners, err := store.Owners(ctx)
	if err != nil {
		log.Fatalf("Query failed: %v", err)
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Owner", "Sections", "Records", "Last Updated"})
	records := 0
	for _, o := range owners {
		t.AppendRow(table.Row{o.Owner, o.Sections, o.Records, o.LastUpdated.Format("2006-01-02 15:04")})
		records += o.Records
	}
	t.AppendFooter(table.Row{"Total", len(owners), records, ""})
	t.Render()
}
