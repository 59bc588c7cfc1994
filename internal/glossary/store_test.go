package glossary

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/meur/termforge/internal/models"
	"github.com/meur/termforge/internal/storage"
	"github.com/meur/termforge/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func catPtr(c models.Category) *models.Category { return &c }

func fullPatch(original string, category models.Category) models.TermPatch {
	return models.TermPatch{
		Original:     strPtr(original),
		Category:     catPtr(category),
		Translations: &models.Translations{Nominative: original + " (им.)", Genitive: original + " (род.)"},
	}
}

func newTestStore(t *testing.T, backend Storage) *Store {
	t.Helper()
	return NewStore(backend, models.DefaultVersion, "tester", WithClock(func() time.Time { return testutil.FixedTime }))
}

// seededMemory returns storage that already holds the test glossary
func seededMemory(t *testing.T) *storage.Memory {
	t.Helper()
	data, err := Encode(testutil.NewTestGlossary())
	require.NoError(t, err)
	mem := storage.NewMemory()
	require.NoError(t, mem.SetItem(context.Background(), StorageKey, string(data)))
	return mem
}

// persisted decodes what is currently stored under StorageKey
func persisted(t *testing.T, mem *storage.Memory) models.Glossary {
	t.Helper()
	text, ok, err := mem.GetItem(context.Background(), StorageKey)
	require.NoError(t, err)
	require.True(t, ok)
	g, err := Decode([]byte(text))
	require.NoError(t, err)
	return g
}

func TestStore_Load(t *testing.T) {
	ctx := context.Background()

	t.Run("not found keeps empty glossary", func(t *testing.T) {
		s := newTestStore(t, storage.NewMemory())
		res, err := s.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, LoadNotFound, res.Status)
		assert.Equal(t, models.Stats{Version: models.DefaultVersion, LastUpdated: testutil.FixedTime}, s.Stats())
	})

	t.Run("ok adopts stored glossary", func(t *testing.T) {
		s := newTestStore(t, seededMemory(t))
		res, err := s.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, LoadOK, res.Status)
		assert.NoError(t, res.Err)
		assert.Equal(t, testutil.NewTestGlossary().Terms, s.Snapshot().Terms)
		assert.Equal(t, "tester", s.Snapshot().Metadata.Editor)
	})

	t.Run("storage failure", func(t *testing.T) {
		m := new(testutil.MockStorage)
		m.On("GetItem", mock.Anything, StorageKey).Return("", false, errors.New("disk gone"))

		_, err := newTestStore(t, m).Load(ctx)
		assert.ErrorContains(t, err, "disk gone")
		m.AssertExpectations(t)
	})
}

func TestStore_LoadFailsClosed(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name   string
		blob   string
		status LoadStatus
	}{
		{name: "invalid", blob: `{"terms":"nope"}`, status: LoadInvalid},
		{name: "unparsable", blob: `{"metadata":`, status: LoadParseError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mem := seededMemory(t)
			s := newTestStore(t, mem)
			_, err := s.Load(ctx)
			require.NoError(t, err)
			before := s.Snapshot()

			require.NoError(t, mem.SetItem(ctx, StorageKey, tt.blob))
			res, err := s.Load(ctx)
			require.NoError(t, err)
			assert.Equal(t, tt.status, res.Status)
			assert.Error(t, res.Err)
			assert.Equal(t, before, s.Snapshot())
		})
	}
}

func TestStore_UpsertCreate(t *testing.T) {
	ctx := context.Background()
	mem := storage.NewMemory()
	s := newTestStore(t, mem)

	term, err := s.Upsert(ctx, "", fullPatch("Superior", models.CategoryQualityLevel))
	require.NoError(t, err)
	assert.Equal(t, "ql_001", term.ID)
	assert.Equal(t, models.Source{File: models.ManualEntry}, term.Source)

	second, err := s.Upsert(ctx, "", fullPatch("Masterwork", models.CategoryQualityLevel))
	require.NoError(t, err)
	assert.Equal(t, "ql_002", second.ID)

	g := persisted(t, mem)
	assert.Equal(t, s.Snapshot().Terms, g.Terms)
	assert.True(t, testutil.FixedTime.Equal(g.Metadata.LastUpdated))
}

func TestStore_UpsertUnknownIDCreates(t *testing.T) {
	s := newTestStore(t, seededMemory(t))
	_, err := s.Load(context.Background())
	require.NoError(t, err)

	term, err := s.Upsert(context.Background(), "mat_999", fullPatch("Bronze", models.CategoryMaterial))
	require.NoError(t, err)
	assert.Equal(t, "mat_002", term.ID)
	assert.Equal(t, 4, s.Stats().TotalTerms)
}

func TestStore_UpsertEdit(t *testing.T) {
	ctx := context.Background()
	mem := seededMemory(t)
	s := newTestStore(t, mem)
	_, err := s.Load(ctx)
	require.NoError(t, err)

	term, err := s.Upsert(ctx, "bt_001", models.TermPatch{Type: strPtr("two-hand weapon"), Notes: strPtr("renamed")})
	require.NoError(t, err)
	assert.Equal(t, "bt_001", term.ID)
	assert.Equal(t, "Sword", term.Original)
	typ, _ := term.Type()
	assert.Equal(t, "two-hand weapon", typ)

	stored, err := s.Term("bt_001")
	require.NoError(t, err)
	assert.Equal(t, term, stored)
	assert.Equal(t, s.Snapshot().Terms, persisted(t, mem).Terms)
	assert.Equal(t, 3, s.Stats().TotalTerms)
}

func TestStore_UpsertRejected(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		id      string
		patch   models.TermPatch
		wantErr error
		message string
	}{
		{
			name:    "new term without translations",
			patch:   models.TermPatch{Original: strPtr("Rusty"), Category: catPtr(models.CategoryQualityLevel)},
			wantErr: ErrIncompleteTerm,
			message: "missing nominative, genitive",
		},
		{
			name:    "new term without category",
			patch:   models.TermPatch{Original: strPtr("Rusty"), Translations: &models.Translations{Nominative: "a", Genitive: "b"}},
			wantErr: ErrIncompleteTerm,
			message: "missing category",
		},
		{
			name:    "new term in unknown category",
			patch:   fullPatch("Of Haste", "affix"),
			wantErr: ErrUnknownCategory,
		},
		{
			name:    "edit blanks original",
			id:      "ql_001",
			patch:   models.TermPatch{Original: strPtr("")},
			wantErr: ErrIncompleteTerm,
			message: "missing original",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mem := seededMemory(t)
			s := newTestStore(t, mem)
			_, err := s.Load(ctx)
			require.NoError(t, err)
			before := s.Snapshot()

			_, err = s.Upsert(ctx, tt.id, tt.patch)
			assert.ErrorIs(t, err, tt.wantErr)
			if tt.message != "" {
				assert.ErrorContains(t, err, tt.message)
			}
			assert.Equal(t, before, s.Snapshot())
			assert.Equal(t, testutil.NewTestGlossary().Terms, persisted(t, mem).Terms)
		})
	}
}

func TestStore_Delete(t *testing.T) {
	ctx := context.Background()
	mem := seededMemory(t)
	s := newTestStore(t, mem)
	_, err := s.Load(ctx)
	require.NoError(t, err)

	found, err := s.Delete(ctx, "mat_001")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []string{"ql_001", "bt_001"}, ids(s.Snapshot().Terms))
	assert.Equal(t, []string{"ql_001", "bt_001"}, ids(persisted(t, mem).Terms))

	_, err = s.Term("mat_001")
	assert.ErrorIs(t, err, ErrNotFound)

	found, err = s.Delete(ctx, "mat_001")
	require.NoError(t, err)
	assert.False(t, found)
	assert.Equal(t, 2, s.Stats().TotalTerms)
}

func TestStore_DeleteMissingStillSaves(t *testing.T) {
	m := new(testutil.MockStorage)
	m.On("SetItem", mock.Anything, StorageKey, mock.AnythingOfType("string")).Return(nil).Once()

	found, err := newTestStore(t, m).Delete(context.Background(), "ql_404")
	require.NoError(t, err)
	assert.False(t, found)
	m.AssertExpectations(t)
}

func TestStore_WriteFailureKeepsState(t *testing.T) {
	ctx := context.Background()
	m := new(testutil.MockStorage)
	m.On("SetItem", mock.Anything, StorageKey, mock.Anything).Return(errors.New("quota exceeded"))

	s := newTestStore(t, m)
	var events []Event
	s.Subscribe(func(ev Event) { events = append(events, ev) })
	before := s.Snapshot()

	_, err := s.Upsert(ctx, "", fullPatch("Superior", models.CategoryQualityLevel))
	assert.ErrorContains(t, err, "quota exceeded")

	_, err = s.Delete(ctx, "ql_001")
	assert.Error(t, err)

	err = s.Replace(ctx, testutil.NewTestGlossary())
	assert.Error(t, err)

	assert.Equal(t, before, s.Snapshot())
	assert.Empty(t, events)
}

func TestStore_Replace(t *testing.T) {
	ctx := context.Background()
	mem := storage.NewMemory()
	s := newTestStore(t, mem)

	g := testutil.NewTestGlossary()
	g.Metadata.Version = "15.0"
	g.Metadata.LastUpdated = time.Time{}
	require.NoError(t, s.Replace(ctx, g))

	// The caller's slice is not shared
	g.Terms[0].Original = "mutated"

	snap := s.Snapshot()
	assert.Equal(t, "15.0", snap.Metadata.Version)
	assert.Equal(t, "Superior", snap.Terms[0].Original)
	assert.True(t, testutil.FixedTime.Equal(snap.Metadata.LastUpdated))
	assert.Equal(t, snap.Terms, persisted(t, mem).Terms)
}

func TestStore_Events(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, storage.NewMemory())

	var events []Event
	s.Subscribe(func(ev Event) { events = append(events, ev) })

	_, err := s.Upsert(ctx, "", fullPatch("Iron", models.CategoryMaterial))
	require.NoError(t, err)
	_, err = s.Delete(ctx, "mat_001")
	require.NoError(t, err)
	require.NoError(t, s.Replace(ctx, testutil.NewTestGlossary()))
	require.NoError(t, s.Save(ctx))

	assert.Equal(t, []Event{
		{Type: EventUpserted, TermID: "mat_001", Detail: "Iron", At: testutil.FixedTime},
		{Type: EventDeleted, TermID: "mat_001", At: testutil.FixedTime},
		{Type: EventReplaced, Detail: "3 terms", At: testutil.FixedTime},
	}, events)
}

func TestStore_SubscriberMayReadStore(t *testing.T) {
	s := newTestStore(t, storage.NewMemory())

	var seen int
	s.Subscribe(func(Event) { seen = s.Stats().TotalTerms })

	_, err := s.Upsert(context.Background(), "", fullPatch("Iron", models.CategoryMaterial))
	require.NoError(t, err)
	assert.Equal(t, 1, seen)
}

func TestStore_WithKey(t *testing.T) {
	mem := storage.NewMemory()
	s := NewStore(mem, "1.0", "", WithKey("glossary_test"))
	require.NoError(t, s.Save(context.Background()))

	_, ok, _ := mem.GetItem(context.Background(), "glossary_test")
	assert.True(t, ok)
	_, ok, _ = mem.GetItem(context.Background(), StorageKey)
	assert.False(t, ok)
}

func TestLoadStatus_String(t *testing.T) {
	assert.Equal(t, "ok", LoadOK.String())
	assert.Equal(t, "not_found", LoadNotFound.String())
	assert.Equal(t, "invalid", LoadInvalid.String())
	assert.Equal(t, "parse_error", LoadParseError.String())
	assert.Equal(t, "unknown", LoadStatus(42).String())
}

func TestStore_LoadInvalidFromDefault(t *testing.T) {
	mem := storage.NewMemory()
	blob := `{"metadata":{"version":"9.9"},"terms":[{"original":"Sword","category":"base_type","translations":{"nominative":"Меч","genitive":"Меча"}}]}`
	require.NoError(t, mem.SetItem(context.Background(), StorageKey, blob))

	s := newTestStore(t, mem)
	before := s.Snapshot()

	res, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.NotEqual(t, LoadOK, res.Status)

	var defects *DefectError
	require.ErrorAs(t, res.Err, &defects)
	assert.Equal(t, []string{"term 0: missing id"}, defects.Defects)
	assert.Equal(t, before, s.Snapshot())
	assert.Equal(t, models.DefaultVersion, s.Stats().Version)
}

func TestStore_UpsertWithExhaustedIDs(t *testing.T) {
	ctx := context.Background()
	g := testutil.NewTestGlossary()
	g.Terms[0].ID = "ql_9223372036854775807"

	mem := storage.NewMemory()
	s := newTestStore(t, mem)
	require.NoError(t, s.Replace(ctx, g))

	for i := 0; i < 2; i++ {
		_, err := s.Upsert(ctx, "", fullPatch("Masterwork", models.CategoryQualityLevel))
		assert.ErrorIs(t, err, ErrIDSpaceExhausted)
	}
	assert.Equal(t, 3, s.Stats().TotalTerms)
	assert.Empty(t, Lint(s.Snapshot()))

	// Other categories are unaffected
	term, err := s.Upsert(ctx, "", fullPatch("Bronze", models.CategoryMaterial))
	require.NoError(t, err)
	assert.Equal(t, "mat_002", term.ID)
}
