// Package render projects glossary state onto the HTML page: the stats
// header, the banners, the filtered table and the add/edit form.
package render

import (
	"embed"
	"html/template"
	"io"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/meur/termforge/internal/glossary"
	"github.com/meur/termforge/internal/models"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageTemplate = template.Must(
	template.New("page.html").
		Funcs(template.FuncMap{"pathEscape": url.PathEscape}).
		ParseFS(templateFS, "templates/page.html"),
)

// TimestampLayout is how last_updated is shown in the header
const TimestampLayout = "02.01.2006, 15:04:05"

var categoryNames = map[models.Category]string{
	models.CategoryQualityLevel: "Quality level",
	models.CategoryMaterial:     "Material",
	models.CategoryBaseType:     "Base type",
}

// Option is an entry of a <select>
type Option struct {
	Value    string
	Label    string
	Selected bool
}

// Row is one table line
type Row struct {
	ID         string
	Original   string
	Category   string
	Type       string
	Nominative string
	Genitive   string
	Source     string
}

// Form backs the add/edit modal
type Form struct {
	Title      string
	ID         string
	Original   string
	Category   string
	Type       string
	ShowType   bool
	Nominative string
	Genitive   string
	SourceFile string
	SourceLine string
	Notes      string
	Categories []Option
}

// Stats is the header summary
type Stats struct {
	Version     string
	TotalTerms  int
	LastUpdated string
}

// Page is everything the page template needs
type Page struct {
	Stats      Stats
	Status     glossary.Status
	Banner     string
	Notice     *glossary.Notice
	Search     string
	Categories []Option
	Rows       []Row
	Form       *Form
}

// CategoryName returns the display name of a category; unknown
// categories are shown as-is.
func CategoryName(c models.Category) string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return string(c)
}

// FormatTimestamp renders a last_updated value for the header
func FormatTimestamp(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format(TimestampLayout)
}

// Rows turns terms into table lines. Type is "-" unless the term is a
// base_type with a type set.
func Rows(terms []models.Term) []Row {
	rows := make([]Row, 0, len(terms))
	for _, t := range terms {
		typ, _ := t.Type()
		if typ == "" {
			typ = "-"
		}
		rows = append(rows, Row{
			ID:         t.ID,
			Original:   t.Original,
			Category:   CategoryName(t.Category()),
			Type:       typ,
			Nominative: t.Translations.Nominative,
			Genitive:   t.Translations.Genitive,
			Source:     t.Source.File + ":" + strconv.Itoa(t.Source.Line),
		})
	}
	return rows
}

// NewForm returns a blank add form
func NewForm() *Form {
	return &Form{
		Title:      "Add term",
		Category:   string(models.CategoryQualityLevel),
		Categories: categoryOptions(string(models.CategoryQualityLevel), false),
	}
}

// EditForm returns a form pre-filled from t
func EditForm(t models.Term) *Form {
	typ, isBase := t.Type()
	return &Form{
		Title:      "Edit term",
		ID:         t.ID,
		Original:   t.Original,
		Category:   string(t.Category()),
		Type:       typ,
		ShowType:   isBase,
		Nominative: t.Translations.Nominative,
		Genitive:   t.Translations.Genitive,
		SourceFile: t.Source.File,
		SourceLine: strconv.Itoa(t.Source.Line),
		Notes:      t.Notes,
		Categories: categoryOptions(string(t.Category()), false),
	}
}

// ParseForm reads a submitted add/edit form. Every field is set on the
// patch, matching a full form submit; type only survives for base_type.
func ParseForm(values url.Values) (string, models.TermPatch) {
	original := values.Get("original")
	category := models.Category(values.Get("category"))
	translations := models.Translations{
		Nominative: values.Get("nominative"),
		Genitive:   values.Get("genitive"),
	}

	source := models.Source{File: strings.TrimSpace(values.Get("source_file"))}
	if source.File == "" {
		source.File = models.ManualEntry
	}
	if line, err := strconv.Atoi(strings.TrimSpace(values.Get("source_line"))); err == nil {
		source.Line = line
	}

	notes := values.Get("notes")
	patch := models.TermPatch{
		Original:     &original,
		Category:     &category,
		Translations: &translations,
		Source:       &source,
		Notes:        &notes,
	}
	if category == models.CategoryBaseType {
		typ := values.Get("type")
		patch.Type = &typ
	}

	return strings.TrimSpace(values.Get("id")), patch
}

// NewPage assembles a page from a filtered view. The pending notice is
// consumed from the surface.
func NewPage(view glossary.View, surface *glossary.Surface) Page {
	banner, status := surface.Banner()
	p := Page{
		Stats: Stats{
			Version:     view.Stats.Version,
			TotalTerms:  view.Stats.TotalTerms,
			LastUpdated: FormatTimestamp(view.Stats.LastUpdated),
		},
		Status:     status,
		Banner:     banner,
		Search:     view.Search,
		Categories: categoryOptions(view.Category, true),
		Rows:       Rows(view.Terms),
	}
	if n, ok := surface.TakeNotice(); ok {
		p.Notice = &n
	}
	return p
}

// WritePage renders p as a full HTML document
func WritePage(w io.Writer, p Page) error {
	return pageTemplate.Execute(w, p)
}

func categoryOptions(selected string, withAll bool) []Option {
	var opts []Option
	if withAll {
		opts = append(opts, Option{
			Value:    glossary.AllCategories,
			Label:    "All categories",
			Selected: selected == "" || selected == glossary.AllCategories,
		})
	}
	for _, c := range models.Categories {
		opts = append(opts, Option{
			Value:    string(c),
			Label:    CategoryName(c),
			Selected: selected == string(c),
		})
	}
	if selected != "" && selected != glossary.AllCategories && !models.Category(selected).Known() {
		opts = append(opts, Option{Value: selected, Label: selected, Selected: true})
	}
	return opts
}
