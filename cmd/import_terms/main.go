package main

import (
	"context"
	"encoding/csv"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/meur/termforge/internal/glossary"
	"github.com/meur/termforge/internal/logging"
	"github.com/meur/termforge/internal/models"
	"github.com/meur/termforge/internal/storage"
)

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
)

// csvColumns is the expected header of the extraction CSV
var csvColumns = []string{"original", "category", "type", "nominative", "genitive", "file", "line", "notes"}

type extractedTerm struct {
	row   int
	patch models.TermPatch
	key   string
}

func termKey(category models.Category, original string) string {
	return string(category) + ":" + strings.ToLower(strings.TrimSpace(original))
}

func readTerms(r io.Reader) ([]extractedTerm, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(csvColumns)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	for i, name := range csvColumns {
		if strings.TrimSpace(strings.ToLower(header[i])) != name {
			return nil, fmt.Errorf("column %d is %q, want %q", i+1, header[i], name)
		}
	}

	var terms []extractedTerm
	for row := 2; ; row++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		original := strings.TrimSpace(rec[0])
		category := models.Category(strings.TrimSpace(rec[1]))
		typ := strings.TrimSpace(rec[2])
		translations := models.Translations{
			Nominative: strings.TrimSpace(rec[3]),
			Genitive:   strings.TrimSpace(rec[4]),
		}
		source := models.Source{File: strings.TrimSpace(rec[5])}
		if source.File == "" {
			source.File = models.ManualEntry
		}
		if line, err := strconv.Atoi(strings.TrimSpace(rec[6])); err == nil && line >= 0 {
			source.Line = line
		}
		notes := strings.TrimSpace(rec[7])

		patch := models.TermPatch{
			Original:     &original,
			Category:     &category,
			Translations: &translations,
			Source:       &source,
		}
		if category == models.CategoryBaseType {
			patch.Type = &typ
		}
		if notes != "" {
			patch.Notes = &notes
		}

		terms = append(terms, extractedTerm{row: row, patch: patch, key: termKey(category, original)})
	}
	return terms, nil
}

func main() {
	dbPath := flag.String("db", "./termforge.db", "SQLite database path")
	csvPath := flag.String("csv", "./data/terms.csv", "Path to the extracted terms CSV")
	version := flag.String("version", models.DefaultVersion, "Glossary version if none is stored yet")
	dryRun := flag.Bool("dry-run", false, "Print summary without writing to the database")
	flag.Parse()

	log, err := logging.NewTool()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	f, err := os.Open(*csvPath)
	if err != nil {
		log.Fatalf("%s✗ Failed to open CSV: %v%s", colorRed, err, colorReset)
	}
	defer f.Close()

	extracted, err := readTerms(f)
	if err != nil {
		log.Fatalf("%s✗ Failed to parse CSV: %v%s", colorRed, err, colorReset)
	}
	if len(extracted) == 0 {
		log.Fatalf("%s✗ CSV has no terms%s", colorRed, colorReset)
	}

	db, err := storage.New(*dbPath)
	if err != nil {
		log.Fatalf("%s✗ Failed to connect to database: %v%s", colorRed, err, colorReset)
	}
	defer db.Close()

	ctx := context.Background()

	// A dry run works on an in-memory copy of the stored blob
	var backend glossary.Storage = db
	if *dryRun {
		mem := storage.NewMemory()
		if text, ok, err := db.GetItem(ctx, glossary.StorageKey); err != nil {
			log.Fatalf("%s✗ Failed to read glossary: %v%s", colorRed, err, colorReset)
		} else if ok {
			mem.SetItem(ctx, glossary.StorageKey, text)
		}
		backend = mem
	}

	store := glossary.NewStore(backend, *version, "")
	res, err := store.Load(ctx)
	if err != nil {
		log.Fatalf("%s✗ Failed to load glossary: %v%s", colorRed, err, colorReset)
	}
	if res.Status == glossary.LoadInvalid || res.Status == glossary.LoadParseError {
		log.Fatalf("%s✗ Stored glossary is unreadable, refusing to overwrite it: %v%s", colorRed, res.Err, colorReset)
	}

	existing := make(map[string]string)
	for _, t := range store.Snapshot().Terms {
		existing[termKey(t.Category(), t.Original)] = t.ID
	}

	fmt.Printf("%s📦 Loaded %d terms from CSV%s\n", colorCyan, len(extracted), colorReset)

	created, updated, skipped := 0, 0, 0
	for _, et := range extracted {
		id := existing[et.key]
		term, err := store.Upsert(ctx, id, et.patch)
		if err != nil {
			log.Warnf("%s⚠ Row %d skipped: %v%s", colorYellow, et.row, err, colorReset)
			skipped++
			continue
		}
		if id != "" {
			updated++
		} else {
			created++
			existing[et.key] = term.ID
		}
	}

	if *dryRun {
		log.Infof(
			"Dry run: would import %d terms (created %d, updated %d, skipped %d). Glossary would hold %d terms",
			created+updated,
			created,
			updated,
			skipped,
			store.Stats().TotalTerms,
		)
		return
	}

	fmt.Printf("%s✓ Imported %d terms (created %d, updated %d, skipped %d)%s\n",
		colorGreen, created+updated, created, updated, skipped, colorReset)
}
