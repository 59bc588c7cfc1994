package glossary

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/meur/termforge/internal/models"
)

// idSeparator sits between the category prefix and the sequence number
const idSeparator = "_"

var idPrefixes = map[models.Category]string{
	models.CategoryQualityLevel: "ql",
	models.CategoryMaterial:     "mat",
	models.CategoryBaseType:     "bt",
}

// IDPrefix returns the id prefix for a category
func IDPrefix(c models.Category) (string, bool) {
	p, ok := idPrefixes[c]
	return p, ok
}

// GenerateID returns the next id for category: one past the highest
// numeric suffix among existing ids with the same prefix, zero-padded to
// three digits. Ids whose suffix is not a number are ignored.
// An existing suffix of math.MaxInt leaves no next id.
func GenerateID(category models.Category, terms []models.Term) (string, error) {
	prefix, ok := IDPrefix(category)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownCategory, category)
	}

	head := prefix + idSeparator
	max := 0
	for _, t := range terms {
		if !strings.HasPrefix(t.ID, head) {
			continue
		}
		n, err := strconv.Atoi(strings.TrimPrefix(t.ID, head))
		if err != nil {
			continue
		}
		if n > max {
			max = n
		}
	}

	if max == math.MaxInt {
		return "", fmt.Errorf("%w: %s%d", ErrIDSpaceExhausted, head, max)
	}
	return fmt.Sprintf("%s%s%03d", prefix, idSeparator, max+1), nil
}
