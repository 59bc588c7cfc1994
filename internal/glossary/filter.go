package glossary

import (
	"strings"

	"github.com/meur/termforge/internal/models"
)

// AllCategories is the category selector value that disables category filtering
const AllCategories = "all"

// Filter returns the terms matching both the category selector and the
// search text, in their original order. An empty search or "all" (or "")
// category disables that half of the filter.
func Filter(terms []models.Term, search, category string) []models.Term {
	needle := strings.ToLower(search)
	out := make([]models.Term, 0, len(terms))

	for _, t := range terms {
		if category != "" && category != AllCategories && string(t.Category()) != category {
			continue
		}
		if needle != "" && !matches(t, needle) {
			continue
		}
		out = append(out, t)
	}

	return out
}

func matches(t models.Term, needle string) bool {
	return strings.Contains(strings.ToLower(t.Original), needle) ||
		strings.Contains(strings.ToLower(t.Translations.Nominative), needle) ||
		strings.Contains(strings.ToLower(t.Translations.Genitive), needle)
}
