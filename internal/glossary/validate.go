package glossary

import (
	"fmt"
	"math"

	"github.com/meur/termforge/internal/models"
)

// Validate checks the shape of a decoded JSON document (the result of
// json.Unmarshal into an any) and returns one message per defect.
// An empty result means the document can be adopted.
//
// Only presence is checked: category values, the type field and id
// uniqueness are left to Lint.
func Validate(data any) []string {
	var errs []string

	root, _ := data.(map[string]any)
	if !truthy(root["metadata"]) {
		errs = append(errs, "missing metadata section")
	}

	terms, ok := root["terms"].([]any)
	if !ok {
		errs = append(errs, "terms is not an array")
	}

	for i, raw := range terms {
		term, _ := raw.(map[string]any)
		translations, _ := term["translations"].(map[string]any)

		if !truthy(term["id"]) {
			errs = append(errs, fmt.Sprintf("term %d: missing id", i))
		}
		if !truthy(term["original"]) {
			errs = append(errs, fmt.Sprintf("term %d: missing original", i))
		}
		if !truthy(term["category"]) {
			errs = append(errs, fmt.Sprintf("term %d: missing category", i))
		}
		if !truthy(translations["nominative"]) {
			errs = append(errs, fmt.Sprintf("term %d: missing nominative", i))
		}
		if !truthy(translations["genitive"]) {
			errs = append(errs, fmt.Sprintf("term %d: missing genitive", i))
		}
	}

	return errs
}

// truthy treats null, "", 0 and false as absent
func truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case string:
		return x != ""
	case float64:
		return x != 0 && !math.IsNaN(x)
	default:
		return true
	}
}

// Lint reports problems that Validate deliberately lets through.
// Findings are advisory and never block a load or an import.
func Lint(g models.Glossary) []string {
	var warnings []string
	seen := make(map[string]int, len(g.Terms))

	for i, t := range g.Terms {
		if first, dup := seen[t.ID]; dup {
			warnings = append(warnings, fmt.Sprintf("term %d: id %q already used by term %d", i, t.ID, first))
		} else {
			seen[t.ID] = i
		}

		if !t.Category().Known() {
			warnings = append(warnings, fmt.Sprintf("term %d: unknown category %q", i, t.Category()))
		}
		if typ, ok := t.Type(); ok && typ == "" {
			warnings = append(warnings, fmt.Sprintf("term %d: base_type without type", i))
		}
		if t.Source.Line < 0 {
			warnings = append(warnings, fmt.Sprintf("term %d: negative source line %d", i, t.Source.Line))
		}
	}

	return warnings
}
