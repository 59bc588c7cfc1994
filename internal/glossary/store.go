package glossary

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/meur/termforge/internal/models"
)

// Storage is a string key/value store with localStorage semantics
type Storage interface {
	GetItem(ctx context.Context, key string) (string, bool, error)
	SetItem(ctx context.Context, key, value string) error
}

// LoadStatus is the outcome of Store.Load
type LoadStatus int

const (
	LoadOK LoadStatus = iota
	LoadNotFound
	LoadInvalid
	LoadParseError
)

func (s LoadStatus) String() string {
	switch s {
	case LoadOK:
		return "ok"
	case LoadNotFound:
		return "not_found"
	case LoadInvalid:
		return "invalid"
	case LoadParseError:
		return "parse_error"
	}
	return "unknown"
}

// LoadResult describes what Load found. Err is a *DefectError for
// LoadInvalid and a *ParseError for LoadParseError.
type LoadResult struct {
	Status LoadStatus
	Err    error
}

// EventType names a store mutation
type EventType string

const (
	EventUpserted EventType = "upsert"
	EventDeleted  EventType = "delete"
	EventReplaced EventType = "replace"
)

// Event is published to subscribers after a mutation has been persisted
type Event struct {
	Type   EventType
	TermID string
	Detail string
	At     time.Time
}

// Store owns the in-memory glossary. Every mutation is persisted before
// it becomes visible; a failed write leaves the previous state in place.
type Store struct {
	mu        sync.Mutex
	storage   Storage
	key       string
	now       func() time.Time
	glossary  models.Glossary
	observers []func(Event)
}

// Option configures a Store
type Option func(*Store)

// WithClock replaces time.Now, mainly for tests
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithKey persists under a key other than StorageKey
func WithKey(key string) Option {
	return func(s *Store) { s.key = key }
}

// NewStore creates a store holding an empty glossary with the given
// version and editor. Nothing is read until Load is called.
func NewStore(storage Storage, version, editor string, opts ...Option) *Store {
	s := &Store{
		storage: storage,
		key:     StorageKey,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.glossary = models.NewGlossary(version, editor, s.now())
	return s
}

// Subscribe registers fn to be called after every persisted mutation.
// Callbacks run synchronously, outside the store lock.
func (s *Store) Subscribe(fn func(Event)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, fn)
}

// Load reads the persisted glossary. Invalid or unparsable data is
// reported in the result and the current glossary is kept. The error
// return is reserved for storage failures.
func (s *Store) Load(ctx context.Context) (LoadResult, error) {
	text, ok, err := s.storage.GetItem(ctx, s.key)
	if err != nil {
		return LoadResult{}, fmt.Errorf("read %s: %w", s.key, err)
	}
	if !ok {
		return LoadResult{Status: LoadNotFound}, nil
	}

	g, err := Decode([]byte(text))
	if err != nil {
		var defects *DefectError
		if errors.As(err, &defects) {
			return LoadResult{Status: LoadInvalid, Err: err}, nil
		}
		return LoadResult{Status: LoadParseError, Err: err}, nil
	}

	s.mu.Lock()
	s.glossary = g
	s.mu.Unlock()

	return LoadResult{Status: LoadOK}, nil
}

// Save stamps last_updated and writes the whole glossary
func (s *Store) Save(ctx context.Context) error {
	return s.mutate(ctx, func(*models.Glossary) error { return nil }, nil)
}

// Upsert merges patch into the term with the given id. When id is empty
// or unknown a new term is built from the patch, given a generated id
// and appended.
func (s *Store) Upsert(ctx context.Context, id string, patch models.TermPatch) (models.Term, error) {
	var saved models.Term
	err := s.mutate(ctx, func(g *models.Glossary) error {
		if id != "" {
			for i := range g.Terms {
				if g.Terms[i].ID == id {
					merged := patch.Apply(g.Terms[i])
					if err := requireFields(merged); err != nil {
						return err
					}
					g.Terms[i] = merged
					saved = merged
					return nil
				}
			}
		}

		t := patch.Apply(models.Term{Source: models.Source{File: models.ManualEntry}})
		if err := requireFields(t); err != nil {
			return err
		}
		newID, err := GenerateID(t.Category(), g.Terms)
		if err != nil {
			return err
		}
		t.ID = newID
		g.Terms = append(g.Terms, t)
		saved = t
		return nil
	}, func() Event {
		return Event{Type: EventUpserted, TermID: saved.ID, Detail: saved.Original}
	})
	if err != nil {
		return models.Term{}, err
	}
	return saved, nil
}

// requireFields checks the fields Validate would reject as missing
func requireFields(t models.Term) error {
	var missing []string
	if t.Original == "" {
		missing = append(missing, "original")
	}
	if t.Translations.Nominative == "" {
		missing = append(missing, "nominative")
	}
	if t.Translations.Genitive == "" {
		missing = append(missing, "genitive")
	}
	if t.Category() == "" {
		missing = append(missing, "category")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrIncompleteTerm, strings.Join(missing, ", "))
	}
	return nil
}

// Delete removes the term with the given id. A missing id is not an
// error; the glossary is saved either way. The bool reports whether a
// term was removed.
func (s *Store) Delete(ctx context.Context, id string) (bool, error) {
	found := false
	err := s.mutate(ctx, func(g *models.Glossary) error {
		kept := g.Terms[:0]
		for _, t := range g.Terms {
			if t.ID == id {
				found = true
				continue
			}
			kept = append(kept, t)
		}
		g.Terms = kept
		return nil
	}, func() Event {
		return Event{Type: EventDeleted, TermID: id}
	})
	return found, err
}

// Replace swaps in a whole glossary. The caller is expected to have
// validated it (see Decode).
func (s *Store) Replace(ctx context.Context, g models.Glossary) error {
	next := g.Clone()
	return s.mutate(ctx, func(cur *models.Glossary) error {
		*cur = next
		return nil
	}, func() Event {
		return Event{Type: EventReplaced, Detail: fmt.Sprintf("%d terms", len(next.Terms))}
	})
}

// Snapshot returns a copy of the current glossary
func (s *Store) Snapshot() models.Glossary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.glossary.Clone()
}

// Stats summarises the current glossary
func (s *Store) Stats() models.Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.glossary.Stats()
}

// Term looks up a term by id
func (s *Store) Term(id string) (models.Term, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.glossary.Terms {
		if t.ID == id {
			return t, nil
		}
	}
	return models.Term{}, fmt.Errorf("%w: %q", ErrNotFound, id)
}

// mutate applies fn to a copy of the glossary, persists the copy and only
// then adopts it. event, if set, is published once the lock is released.
func (s *Store) mutate(ctx context.Context, fn func(*models.Glossary) error, event func() Event) error {
	s.mu.Lock()

	next := s.glossary.Clone()
	if err := fn(&next); err != nil {
		s.mu.Unlock()
		return err
	}

	now := s.now()
	next.Metadata.LastUpdated = now

	text, err := json.Marshal(next)
	if err != nil {
		s.mu.Unlock()
		return fmt.Errorf("encode glossary: %w", err)
	}
	if err := s.storage.SetItem(ctx, s.key, string(text)); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("write %s: %w", s.key, err)
	}

	s.glossary = next
	observers := append([]func(Event){}, s.observers...)
	s.mu.Unlock()

	if event != nil {
		ev := event()
		ev.At = now
		for _, fn := range observers {
			fn(ev)
		}
	}
	return nil
}
