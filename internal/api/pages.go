package api

import (
	"bytes"
	"net/http"

	"github.com/meur/termforge/internal/glossary"
	"github.com/meur/termforge/internal/render"
	"go.uber.org/zap"
)

// handleIndex renders the table, filtered by ?q= and ?category=
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.renderPage(w, r, nil)
}

// handleNewTermForm renders the page with a blank add form
func (s *Server) handleNewTermForm(w http.ResponseWriter, r *http.Request) {
	s.renderPage(w, r, render.NewForm())
}

// handleEditTermForm renders the page with the form pre-filled
func (s *Server) handleEditTermForm(w http.ResponseWriter, r *http.Request) {
	term, err := s.editor.Store().Term(termID(r))
	if err != nil {
		s.editor.Surface().Notify(glossary.Notice{Kind: glossary.NoticeWarning, Message: "term not found"})
		redirectHome(w, r)
		return
	}
	s.renderPage(w, r, render.EditForm(term))
}

// handleSubmitTerm saves the add/edit form
func (s *Server) handleSubmitTerm(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid form")
		return
	}

	id, patch := render.ParseForm(r.PostForm)
	s.editor.SaveTerm(r.Context(), id, patch)
	redirectHome(w, r)
}

// handleDeleteTermForm deletes a term if the browser confirmed it
func (s *Server) handleDeleteTermForm(w http.ResponseWriter, r *http.Request) {
	confirmed := r.FormValue("confirm") == "yes"
	s.editor.DeleteTerm(r.Context(), termID(r), confirmed)
	redirectHome(w, r)
}

// handleImportForm imports an uploaded file from the toolbar
func (s *Server) handleImportForm(w http.ResponseWriter, r *http.Request) {
	text, err := s.readUpload(w, r)
	if err != nil {
		s.editor.Surface().ShowError("could not read file: " + err.Error())
		redirectHome(w, r)
		return
	}

	s.editor.Import(r.Context(), text)
	redirectHome(w, r)
}

// handleValidateForm validates from the toolbar
func (s *Server) handleValidateForm(w http.ResponseWriter, r *http.Request) {
	s.editor.ValidateCurrent()
	redirectHome(w, r)
}

func (s *Server) renderPage(w http.ResponseWriter, r *http.Request, form *render.Form) {
	view := s.editor.View(r.URL.Query().Get("q"), r.URL.Query().Get("category"))
	page := render.NewPage(view, s.editor.Surface())
	page.Form = form

	var buf bytes.Buffer
	if err := render.WritePage(&buf, page); err != nil {
		s.logger.Error("render page", zap.Error(err))
		http.Error(w, "failed to render page", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	buf.WriteTo(w)
}

func redirectHome(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
