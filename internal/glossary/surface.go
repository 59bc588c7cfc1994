package glossary

import "sync"

// NoticeKind styles a transient notification
type NoticeKind string

const (
	NoticeSuccess NoticeKind = "success"
	NoticeWarning NoticeKind = "warning"
)

// Notice is a short-lived banner shown once
type Notice struct {
	Kind    NoticeKind `json:"kind"`
	Message string     `json:"message"`
}

// Status is the system status indicator next to the error banner
type Status string

const (
	StatusOK    Status = "OK"
	StatusError Status = "ERROR"
)

// Surface holds what the user is told: one pending notice and a
// persistent error banner that flips the status indicator.
type Surface struct {
	mu     sync.Mutex
	notice *Notice
	banner string
	status Status
}

// NewSurface returns a surface with no messages and status OK
func NewSurface() *Surface {
	return &Surface{status: StatusOK}
}

// Notify replaces the pending notice
func (s *Surface) Notify(n Notice) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notice = &n
}

// TakeNotice returns the pending notice and clears it
func (s *Surface) TakeNotice() (Notice, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.notice == nil {
		return Notice{}, false
	}
	n := *s.notice
	s.notice = nil
	return n, true
}

// ShowError sets the error banner and marks the status as failed
func (s *Surface) ShowError(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.banner = message
	s.status = StatusError
}

// ClearError hides the banner and resets the status
func (s *Surface) ClearError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.banner = ""
	s.status = StatusOK
}

// Banner returns the current error banner text and status
func (s *Surface) Banner() (string, Status) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.banner, s.status
}
