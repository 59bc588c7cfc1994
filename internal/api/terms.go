package api

import (
	"errors"
	"net/http"

	"github.com/meur/termforge/internal/glossary"
	"github.com/meur/termforge/internal/models"
)

// handleListTerms returns the terms matching ?q= and ?category=
func (s *Server) handleListTerms(w http.ResponseWriter, r *http.Request) {
	view := s.editor.View(r.URL.Query().Get("q"), r.URL.Query().Get("category"))

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"terms":       view.Terms,
		"total_count": len(view.Terms),
		"stats":       view.Stats,
	})
}

// handleGetTerm returns a single term by ID
func (s *Server) handleGetTerm(w http.ResponseWriter, r *http.Request) {
	id := termID(r)

	term, err := s.editor.Store().Term(id)
	if err != nil {
		respondError(w, http.StatusNotFound, "Term not found")
		return
	}

	respondJSON(w, http.StatusOK, term)
}

// handleCreateTerm adds a term with a generated id
func (s *Server) handleCreateTerm(w http.ResponseWriter, r *http.Request) {
	var patch models.TermPatch
	if err := decodeJSON(r, &patch); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	eff := s.editor.SaveTerm(r.Context(), "", patch)
	if !eff.OK() {
		respondEffectError(w, eff)
		return
	}

	respondJSON(w, http.StatusCreated, eff.Term)
}

// handleUpdateTerm merges the request body into an existing term
func (s *Server) handleUpdateTerm(w http.ResponseWriter, r *http.Request) {
	id := termID(r)

	if _, err := s.editor.Store().Term(id); errors.Is(err, glossary.ErrNotFound) {
		respondError(w, http.StatusNotFound, "Term not found")
		return
	}

	var patch models.TermPatch
	if err := decodeJSON(r, &patch); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	eff := s.editor.SaveTerm(r.Context(), id, patch)
	if !eff.OK() {
		respondEffectError(w, eff)
		return
	}

	respondJSON(w, http.StatusOK, eff.Term)
}

// handleDeleteTerm deletes a term when ?confirm=true is given; without it
// the request is a no-op.
func (s *Server) handleDeleteTerm(w http.ResponseWriter, r *http.Request) {
	id := termID(r)
	_, err := s.editor.Store().Term(id)
	found := err == nil

	eff := s.editor.DeleteTerm(r.Context(), id, r.URL.Query().Get("confirm") == "true")
	if eff.Cancelled {
		respondJSON(w, http.StatusOK, map[string]string{"status": "cancelled"})
		return
	}
	if !eff.OK() {
		respondEffectError(w, eff)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"status": "deleted", "found": found})
}

// respondEffectError maps a failed action to a status code
func respondEffectError(w http.ResponseWriter, eff glossary.Effect) {
	message := eff.Error
	if message == "" && eff.Notice != nil {
		message = eff.Notice.Message
	}

	var defects *glossary.DefectError
	var parseErr *glossary.ParseError
	switch {
	case errors.As(eff.Err, &defects):
		respondJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{
			"error":   message,
			"defects": defects.Defects,
		})
	case errors.As(eff.Err, &parseErr),
		errors.Is(eff.Err, glossary.ErrIncompleteTerm),
		errors.Is(eff.Err, glossary.ErrUnknownCategory),
		errors.Is(eff.Err, glossary.ErrIDSpaceExhausted):
		respondError(w, http.StatusBadRequest, message)
	case errors.Is(eff.Err, glossary.ErrNotFound):
		respondError(w, http.StatusNotFound, message)
	default:
		respondError(w, http.StatusInternalServerError, message)
	}
}
