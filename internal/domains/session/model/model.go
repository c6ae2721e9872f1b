package model

import (
	dialogue "kiosk/internal/domains/dialogue/model"
	"kiosk/shared"
	"time"
)

const (
	EntityName = "session"

	// MaxHistory bounds the turns kept on a stored session. The prompt only ever reads the latest few.
	MaxHistory = 50

	cacheSession = "dialogue:session"
	cacheLock    = "dialogue:lock"
)

// Session is the dialogue state of one kiosk conversation.
type Session struct {
	ID        string          `json:"id"`
	TenantID  string          `json:"tenantId"`
	History   []dialogue.Turn `json:"history"`
	Slots     dialogue.Values `json:"slots"`
	BookingID *string         `json:"bookingId,omitempty"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

func New(id, tenantID string) Session {
	return Session{
		ID:       id,
		TenantID: tenantID,
		History:  []dialogue.Turn{},
		Slots:    dialogue.Values{},
	}
}

// Key scopes a session id to its tenant.
func Key(tenantSlug, sessionID string) string {
	return shared.BuildCacheKey(cacheSession, tenantSlug, sessionID)
}

func LockKey(sessionKey string) string {
	return shared.BuildCacheKey(cacheLock, sessionKey)
}

// Recent returns at most n of the latest history turns.
func (s Session) Recent(n int) []dialogue.Turn {
	if n <= 0 || len(s.History) <= n {
		return s.History
	}

	return s.History[len(s.History)-n:]
}

// Append records a turn and drops the oldest ones past MaxHistory.
func (s *Session) Append(role dialogue.Role, text string) {
	s.History = append(s.History, dialogue.Turn{Role: role, Text: text})

	if over := len(s.History) - MaxHistory; over > 0 {
		s.History = append([]dialogue.Turn(nil), s.History[over:]...)
	}
}

func (s Session) HasBooking() bool {
	return s.BookingID != nil && *s.BookingID != ""
}
