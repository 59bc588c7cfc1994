package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/meur/termforge/internal/glossary"
	"github.com/meur/termforge/internal/logging"
	"github.com/meur/termforge/internal/models"
	"github.com/meur/termforge/internal/storage"
)

func main() {
	dbPath := flag.String("db", "./termforge.db", "SQLite database path")
	outDir := flag.String("out", ".", "Directory to write the export into")
	validate := flag.Bool("validate", false, "Print validation and lint results before exporting")
	flag.Parse()

	log, err := logging.NewTool()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Connect to database
	db, err := storage.New(*dbPath)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	editor := glossary.NewEditor(
		glossary.NewStore(db, models.DefaultVersion, ""),
		glossary.NewSurface(),
	)

	ctx := context.Background()
	if eff := editor.Init(ctx); eff.Err != nil {
		log.Fatalf("Failed to load glossary: %s", eff.Error)
	} else if eff.Notice != nil && eff.Notice.Kind == glossary.NoticeWarning {
		log.Fatalf("Nothing to export: %s", eff.Notice.Message)
	}

	if *validate {
		eff := editor.ValidateCurrent()
		if eff.Err != nil {
			log.Fatalf("Glossary is invalid: %s", eff.Error)
		}
		for _, w := range eff.Warnings {
			log.Warnf("⚠ %s", w)
		}
		log.Info(eff.Notice.Message)
	}

	eff := editor.Export()
	if eff.Err != nil {
		log.Fatalf("Failed to export: %v", eff.Err)
	}

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		log.Fatalf("Failed to create %s: %v", *outDir, err)
	}
	path := filepath.Join(*outDir, eff.Download.Filename)
	if err := os.WriteFile(path, eff.Download.Body, 0o644); err != nil {
		log.Fatalf("Failed to write %s: %v", path, err)
	}

	stats := editor.Store().Stats()
	fmt.Printf("\n=== Export Complete ===\n")
	fmt.Printf("Version: %s\n", stats.Version)
	fmt.Printf("Terms: %d\n", stats.TotalTerms)
	fmt.Printf("File: %s\n", path)
	fmt.Println(strings.Repeat("=", 23))
}
