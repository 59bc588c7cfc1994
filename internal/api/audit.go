package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/meur/termforge/internal/glossary"
	"github.com/meur/termforge/internal/models"
	"go.uber.org/zap"
)

const (
	defaultAuditLimit = 50
	maxAuditLimit     = 500
)

// AuditLog persists the change history
type AuditLog interface {
	AppendAudit(ctx context.Context, entry *models.AuditEntry) error
	ListAudit(ctx context.Context, limit int) ([]models.AuditEntry, error)
}

// recordEvent is subscribed to the glossary store
func (s *Server) recordEvent(ev glossary.Event) {
	s.logger.Debug("glossary changed",
		zap.String("action", string(ev.Type)),
		zap.String("term_id", ev.TermID),
		zap.String("detail", ev.Detail),
	)

	if s.audit == nil {
		return
	}

	entry := &models.AuditEntry{
		Action:    string(ev.Type),
		TermID:    ev.TermID,
		Detail:    ev.Detail,
		CreatedAt: ev.At.UTC(),
	}
	// The change is already persisted, so the entry outlives the request.
	if err := s.audit.AppendAudit(context.Background(), entry); err != nil {
		s.logger.Warn("failed to record audit entry", zap.String("action", entry.Action), zap.Error(err))
	}
}

// handleListAudit returns the newest audit entries (?limit=, default 50)
func (s *Server) handleListAudit(w http.ResponseWriter, r *http.Request) {
	if s.audit == nil {
		respondJSON(w, http.StatusOK, []models.AuditEntry{})
		return
	}

	limit := defaultAuditLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			respondError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = min(n, maxAuditLimit)
	}

	entries, err := s.audit.ListAudit(r.Context(), limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch audit log")
		return
	}

	respondJSON(w, http.StatusOK, entries)
}
