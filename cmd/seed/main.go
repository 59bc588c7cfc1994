package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/meur/termforge/internal/glossary"
	"github.com/meur/termforge/internal/logging"
	"github.com/meur/termforge/internal/models"
	"github.com/meur/termforge/internal/storage"
)

func main() {
	dbPath := flag.String("db", "./termforge.db", "SQLite database path")
	file := flag.String("file", "./seeds/glossary.json", "Glossary JSON file to import")
	flag.Parse()

	log, err := logging.NewTool()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	store, err := storage.New(*dbPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer store.Close()

	if err := seedGlossary(context.Background(), store, *file); err != nil {
		log.Fatalf("Failed to seed %s: %v", *file, err)
	}

	log.Infof("🌱 Seeded glossary from %s", *file)
}

// seedGlossary imports path through the same validation as the UI import
func seedGlossary(ctx context.Context, store *storage.Store, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	editor := glossary.NewEditor(
		glossary.NewStore(store, models.DefaultVersion, ""),
		glossary.NewSurface(),
	)
	if eff := editor.Import(ctx, data); eff.Err != nil {
		return eff.Err
	}
	return nil
}
