package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
)

// handleGetGlossary returns the whole glossary
func (s *Server) handleGetGlossary(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.editor.Store().Snapshot())
}

// handleGetStats returns the header summary
func (s *Server) handleGetStats(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.editor.Store().Stats())
}

// handleImport replaces the glossary with the uploaded file (multipart
// field "file") or the raw request body.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	text, err := s.readUpload(w, r)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondError(w, http.StatusRequestEntityTooLarge, "File too large")
			return
		}
		respondError(w, http.StatusBadRequest, "Could not read upload")
		return
	}

	eff := s.editor.Import(r.Context(), text)
	if !eff.OK() {
		respondEffectError(w, eff)
		return
	}

	respondJSON(w, http.StatusOK, s.editor.Store().Stats())
}

// handleExport sends the glossary as glossary_v{version}.json
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	eff := s.editor.Export()
	if !eff.OK() {
		respondEffectError(w, eff)
		return
	}

	d := eff.Download
	w.Header().Set("Content-Type", d.ContentType+"; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", d.Filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(d.Body)))
	w.WriteHeader(http.StatusOK)
	w.Write(d.Body)
}

// handleValidate validates the current glossary
func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	eff := s.editor.ValidateCurrent()
	if !eff.OK() {
		respondEffectError(w, eff)
		return
	}

	warnings := eff.Warnings
	if warnings == nil {
		warnings = []string{}
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"valid":    true,
		"warnings": warnings,
	})
}

// readUpload reads the import payload, bounded by MaxImportBytes
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	r.Body = http.MaxBytesReader(w, r.Body, s.opts.MaxImportBytes)

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		file, _, err := r.FormFile("file")
		if err != nil {
			return nil, err
		}
		defer file.Close()
		return io.ReadAll(file)
	}

	return io.ReadAll(r.Body)
}
