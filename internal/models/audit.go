package models

import "time"

// AuditEntry records one change made to the glossary
type AuditEntry struct {
	ID        string    `json:"id"`
	Action    string    `json:"action"`              // "upsert", "delete", "replace"
	TermID    string    `json:"term_id,omitempty"`   // empty for whole-glossary actions
	Detail    string    `json:"detail,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
