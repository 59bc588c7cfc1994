package testutil

import (
	"time"

	"github.com/meur/termforge/internal/models"
	"go.uber.org/zap"
)

// FixedTime is the clock used by tests that stamp last_updated
var FixedTime = time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)

// NewTestLogger creates a no-op logger for tests
func NewTestLogger() *zap.Logger {
	return zap.NewNop()
}

// NewTestTerm creates a term with both translations set
func NewTestTerm(id, original string, category models.Category, nominative, genitive string) models.Term {
	return models.Term{
		ID:       id,
		Original: original,
		Kind:     models.KindOf(category, ""),
		Translations: models.Translations{
			Nominative: nominative,
			Genitive:   genitive,
		},
		Source: models.Source{File: "Metadata/StatDescriptions/stat_descriptions.txt", Line: 10},
	}
}

// NewTestGlossary creates a small glossary with one term per category
func NewTestGlossary() models.Glossary {
	sword := NewTestTerm("bt_001", "Sword", models.CategoryBaseType, "Меч", "Меча")
	sword.Kind = models.BaseType{Type: "weapon"}

	return models.Glossary{
		Metadata: models.Metadata{
			Version:     models.DefaultVersion,
			LastUpdated: FixedTime,
			Editor:      "tester",
		},
		Terms: []models.Term{
			NewTestTerm("ql_001", "Superior", models.CategoryQualityLevel, "Превосходный", "Превосходного"),
			NewTestTerm("mat_001", "Iron", models.CategoryMaterial, "Железо", "Железа"),
			sword,
		},
	}
}
