package models

import "encoding/json"

// Category classifies a term
type Category string

const (
	CategoryQualityLevel Category = "quality_level"
	CategoryMaterial     Category = "material"
	CategoryBaseType     Category = "base_type"
)

// Categories lists the known categories in display order
var Categories = []Category{CategoryQualityLevel, CategoryMaterial, CategoryBaseType}

// Known reports whether c is one of the built-in categories
func (c Category) Known() bool {
	switch c {
	case CategoryQualityLevel, CategoryMaterial, CategoryBaseType:
		return true
	}
	return false
}

// Kind carries the category-specific part of a term.
// Only BaseType has extra data.
type Kind interface {
	Category() Category
}

// QualityLevel is the kind of quality_level terms
type QualityLevel struct{}

// Material is the kind of material terms
type Material struct{}

// BaseType is the kind of base_type terms; Type names the item class
type BaseType struct {
	Type string
}

// OtherKind keeps a category the editor does not know about,
// so imported data survives a round trip.
type OtherKind struct {
	Name string
}

func (QualityLevel) Category() Category { return CategoryQualityLevel }
func (Material) Category() Category     { return CategoryMaterial }
func (BaseType) Category() Category     { return CategoryBaseType }
func (k OtherKind) Category() Category  { return Category(k.Name) }

// KindOf builds the kind for a category. typ is dropped unless the
// category is base_type.
func KindOf(c Category, typ string) Kind {
	switch c {
	case CategoryQualityLevel:
		return QualityLevel{}
	case CategoryMaterial:
		return Material{}
	case CategoryBaseType:
		return BaseType{Type: typ}
	default:
		return OtherKind{Name: string(c)}
	}
}

// Translations holds the case forms of the translated term
type Translations struct {
	Nominative string `json:"nominative"`
	Genitive   string `json:"genitive"`
}

// Source points at where a term was extracted from
type Source struct {
	File string `json:"file"`
	Line int    `json:"line"`
}

// ManualEntry is the source file recorded for terms typed in by hand
const ManualEntry = "manual_entry"

// Term is a single glossary entry
type Term struct {
	ID           string
	Original     string
	Kind         Kind
	Translations Translations
	Source       Source
	Notes        string
	// Extra keeps unmodelled members of the term object
	Extra        Extra
}

// Category returns the term's category, or "" for a zero Term
func (t Term) Category() Category {
	if t.Kind == nil {
		return ""
	}
	return t.Kind.Category()
}

// Type returns the base type, and false for terms of any other category
func (t Term) Type() (string, bool) {
	bt, ok := t.Kind.(BaseType)
	return bt.Type, ok
}

var termKeys = []string{"id", "original", "category", "type", "translations", "source", "notes"}

type termJSON struct {
	ID           string       `json:"id"`
	Original     string       `json:"original"`
	Category     Category     `json:"category"`
	Type         string       `json:"type,omitempty"`
	Translations Translations `json:"translations"`
	Source       Source       `json:"source"`
	Notes        string       `json:"notes,omitempty"`
}

// MarshalJSON writes the flat wire shape; type is only present for base_type
func (t Term) MarshalJSON() ([]byte, error) {
	typ, _ := t.Type()
	data, err := json.Marshal(termJSON{
		ID:           t.ID,
		Original:     t.Original,
		Category:     t.Category(),
		Type:         typ,
		Translations: t.Translations,
		Source:       t.Source,
		Notes:        t.Notes,
	})
	if err != nil {
		return nil, err
	}
	return appendExtra(data, t.Extra, termKeys...)
}

// UnmarshalJSON reads the flat wire shape into the tagged kind
func (t *Term) UnmarshalJSON(data []byte) error {
	var w termJSON
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	extra, err := splitExtra(data, termKeys...)
	if err != nil {
		return err
	}
	*t = Term{
		ID:           w.ID,
		Original:     w.Original,
		Kind:         KindOf(w.Category, w.Type),
		Translations: w.Translations,
		Source:       w.Source,
		Notes:        w.Notes,
		Extra:        extra,
	}
	return nil
}

// TermPatch is a partial term used for create and edit.
// Nil fields are left untouched on merge.
type TermPatch struct {
	Original     *string       `json:"original,omitempty"`
	Category     *Category     `json:"category,omitempty"`
	Type         *string       `json:"type,omitempty"`
	Translations *Translations `json:"translations,omitempty"`
	Source       *Source       `json:"source,omitempty"`
	Notes        *string       `json:"notes,omitempty"`
}

// Apply shallow-merges the patch into t. The id is never changed.
func (p TermPatch) Apply(t Term) Term {
	if p.Original != nil {
		t.Original = *p.Original
	}
	if p.Translations != nil {
		t.Translations = *p.Translations
	}
	if p.Source != nil {
		t.Source = *p.Source
	}
	if p.Notes != nil {
		t.Notes = *p.Notes
	}

	category := t.Category()
	if p.Category != nil {
		category = *p.Category
	}
	typ, _ := t.Type()
	if p.Type != nil {
		typ = *p.Type
	}
	t.Kind = KindOf(category, typ)
	return t
}
