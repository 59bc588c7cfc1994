package glossary

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/meur/termforge/internal/models"
)

// Download is a file handed to the user
type Download struct {
	Filename    string
	ContentType string
	Body        []byte
}

// Effect describes what a user action did so the presentation layer can
// reflect it. Error is the banner text shown for failures; Err keeps the
// underlying cause for status mapping.
type Effect struct {
	Notice    *Notice
	Error     string
	Err       error
	Term      *models.Term
	Download  *Download
	Cancelled bool
	Warnings  []string
}

// OK reports whether the action neither failed nor was cancelled
func (e Effect) OK() bool {
	return e.Err == nil && !e.Cancelled
}

// View is the data the table is drawn from
type View struct {
	Terms    []models.Term
	Stats    models.Stats
	Search   string
	Category string
}

// Editor runs user actions against a Store and reports the results on
// a Surface. Each method corresponds to one control in the UI.
type Editor struct {
	store   *Store
	surface *Surface
}

// NewEditor wires a store to a surface
func NewEditor(store *Store, surface *Surface) *Editor {
	return &Editor{store: store, surface: surface}
}

// Store returns the underlying store
func (e *Editor) Store() *Store { return e.store }

// Surface returns the notification surface
func (e *Editor) Surface() *Surface { return e.surface }

// Init loads the persisted glossary, as on page load
func (e *Editor) Init(ctx context.Context) Effect {
	res, err := e.store.Load(ctx)
	if err != nil {
		return e.fail(err, "load failed: "+err.Error())
	}

	switch res.Status {
	case LoadOK:
		e.surface.ClearError()
		return e.notify(NoticeSuccess, "glossary loaded")
	case LoadNotFound:
		return e.notify(NoticeWarning, "glossary not found, import data")
	case LoadInvalid:
		return e.fail(res.Err, "corrupted data: "+res.Err.Error())
	default:
		return e.fail(res.Err, "load failed: "+res.Err.Error())
	}
}

// SaveTerm creates a term (empty id) or merges patch into an existing one
func (e *Editor) SaveTerm(ctx context.Context, id string, patch models.TermPatch) Effect {
	t, err := e.store.Upsert(ctx, id, patch)
	if err != nil {
		if errors.Is(err, ErrIncompleteTerm) || errors.Is(err, ErrUnknownCategory) || errors.Is(err, ErrIDSpaceExhausted) {
			eff := e.notify(NoticeWarning, "term not saved: "+err.Error())
			eff.Err = err
			return eff
		}
		return e.fail(err, "save failed: "+err.Error())
	}

	eff := e.notify(NoticeSuccess, "term saved")
	eff.Term = &t
	return eff
}

// DeleteTerm removes a term once the user has confirmed. Without
// confirmation nothing happens and nothing is reported.
func (e *Editor) DeleteTerm(ctx context.Context, id string, confirmed bool) Effect {
	if !confirmed {
		return Effect{Cancelled: true}
	}
	if _, err := e.store.Delete(ctx, id); err != nil {
		return e.fail(err, "delete failed: "+err.Error())
	}
	return e.notify(NoticeSuccess, "term deleted")
}

// Import replaces the glossary with the contents of an uploaded file.
// Any parse or validation failure leaves the current glossary untouched.
func (e *Editor) Import(ctx context.Context, text []byte) Effect {
	g, err := Decode(text)
	if err != nil {
		var defects *DefectError
		if errors.As(err, &defects) {
			return e.fail(err, "import failed: "+defects.Error())
		}
		return e.fail(err, "could not read file: "+err.Error())
	}

	if err := e.store.Replace(ctx, g); err != nil {
		return e.fail(err, "import failed: "+err.Error())
	}

	e.surface.ClearError()
	return e.notify(NoticeSuccess, "glossary imported")
}

// Export returns the current glossary as a download
func (e *Editor) Export() Effect {
	g := e.store.Snapshot()
	body, err := Encode(g)
	if err != nil {
		return e.fail(err, "export failed: "+err.Error())
	}

	eff := e.notify(NoticeSuccess, "glossary exported")
	eff.Download = &Download{
		Filename:    ExportFilename(g.Metadata.Version),
		ContentType: "application/json",
		Body:        body,
	}
	return eff
}

// ValidateCurrent runs the validator over the glossary as it would be
// persisted, and Lint on top of it.
func (e *Editor) ValidateCurrent() Effect {
	g := e.store.Snapshot()

	defects, err := validateTyped(g)
	if err != nil {
		return e.fail(err, "validation failed: "+err.Error())
	}
	if len(defects) > 0 {
		return e.fail(&DefectError{Defects: defects}, "validation errors: "+strings.Join(defects, DefectSeparator))
	}

	if warnings := Lint(g); len(warnings) > 0 {
		eff := e.notify(NoticeWarning, "glossary is valid with warnings: "+strings.Join(warnings, DefectSeparator))
		eff.Warnings = warnings
		return eff
	}
	return e.notify(NoticeSuccess, "glossary is valid")
}

func validateTyped(g models.Glossary) ([]string, error) {
	text, err := json.Marshal(g)
	if err != nil {
		return nil, err
	}
	var raw any
	if err := json.Unmarshal(text, &raw); err != nil {
		return nil, err
	}
	return Validate(raw), nil
}

// View filters the current terms for display
func (e *Editor) View(search, category string) View {
	g := e.store.Snapshot()
	if category == "" {
		category = AllCategories
	}
	return View{
		Terms:    Filter(g.Terms, search, category),
		Stats:    g.Stats(),
		Search:   search,
		Category: category,
	}
}

func (e *Editor) notify(kind NoticeKind, message string) Effect {
	n := Notice{Kind: kind, Message: message}
	e.surface.Notify(n)
	return Effect{Notice: &n}
}

func (e *Editor) fail(err error, message string) Effect {
	e.surface.ShowError(message)
	return Effect{Err: err, Error: message}
}
